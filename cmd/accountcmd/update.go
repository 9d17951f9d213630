// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package accountcmd

import (
	"context"

	"github.com/luxfi/msig/pkg/clientset"
	"github.com/luxfi/msig/pkg/pipeline"
	"github.com/luxfi/msig/pkg/ux"
	"github.com/luxfi/msig/pkg/validator"

	"github.com/spf13/cobra"
)

var (
	updateSigners     []string
	updateThreshold   uint64
	updateSigningKeys []string
	updateChain       string
)

func newUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <name>",
		Short: "Rotate the account's validator configuration",
		Long: `Rewrites the account's on-chain signer set and threshold. The update
operation itself must be signed by a quorum of the CURRENT configuration:
config changes are authorized under the outgoing quorum, never the
incoming one. The local binding switches to the new configuration only
after the chain confirms the update.`,
		Args:         cobra.ExactArgs(1),
		RunE:         runUpdate,
		SilenceUsage: true,
	}
	cmd.Flags().StringSliceVar(&updateSigners, "signers", nil, "new signer set as keyname=weight pairs")
	cmd.Flags().Uint64Var(&updateThreshold, "threshold", 0, "new quorum weight threshold")
	cmd.Flags().StringSliceVar(&updateSigningKeys, "signing-keys", nil, "keys of the outgoing quorum signing the update (default: the configured private key)")
	cmd.Flags().StringVar(&updateChain, "chain", "", "chain to update on")
	return cmd
}

func runUpdate(_ *cobra.Command, args []string) error {
	name := args[0]
	accountPath := app.GetAccountPath(name)
	account, err := validator.LoadAccount(accountPath)
	if err != nil {
		return err
	}
	newSigners, err := parseWeightedSigners(updateSigners)
	if err != nil {
		return err
	}
	newCfg, err := validator.NewConfig(updateThreshold, newSigners)
	if err != nil {
		return err
	}
	signingKeys, err := app.SigningKeys(updateSigningKeys)
	if err != nil {
		return err
	}

	chain, err := app.Conf.Chain(updateChain)
	if err != nil {
		return err
	}
	set, err := clientset.ForChain(chain)
	if err != nil {
		return err
	}
	defer set.Close()

	sets := []*clientset.Set{set}
	target := set.Target(account, clientset.Nonces(sets))

	result, err := pipeline.New(app.Log, signingKeys).UpdateConfig(context.Background(), target, newCfg)
	if err != nil {
		return err
	}
	ux.Logger.PrintToUser("Config update %s: %s", result.Op.Hash, result.Op.Status)

	account.Rebind(newCfg)
	if err := validator.SaveAccount(accountPath, account); err != nil {
		return err
	}
	ux.Logger.PrintToUser("Account %q now bound to validator %s", name, newCfg.ID())
	return nil
}
