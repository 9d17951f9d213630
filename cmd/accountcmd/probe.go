// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package accountcmd

import (
	"context"

	"github.com/luxfi/msig/pkg/clientset"
	"github.com/luxfi/msig/pkg/operation"
	"github.com/luxfi/msig/pkg/pipeline"
	"github.com/luxfi/msig/pkg/ux"
	"github.com/luxfi/msig/pkg/validator"

	"github.com/spf13/cobra"
)

var (
	probeSigningKeys []string
	probeChain       string
)

func newProbeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe <name>",
		Short: "Send a no-op operation to test signer-set liveness",
		Long: `Runs a zero-value, zero-data operation through the full sponsorship,
signing and submission path. Confirms the quorum can still authorize
operations without changing any state.`,
		Args:         cobra.ExactArgs(1),
		RunE:         runProbe,
		SilenceUsage: true,
	}
	cmd.Flags().StringSliceVar(&probeSigningKeys, "signing-keys", nil, "keys of the quorum signing the probe (default: the configured private key)")
	cmd.Flags().StringVar(&probeChain, "chain", "", "chain to probe on")
	return cmd
}

func runProbe(_ *cobra.Command, args []string) error {
	account, err := validator.LoadAccount(app.GetAccountPath(args[0]))
	if err != nil {
		return err
	}
	signingKeys, err := app.SigningKeys(probeSigningKeys)
	if err != nil {
		return err
	}
	chain, err := app.Conf.Chain(probeChain)
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

	result, err := pipeline.New(app.Log, signingKeys).Execute(context.Background(), target, operation.NoopProbe())
	if err != nil {
		return err
	}
	ux.Logger.PrintToUser("Probe %s: %s", result.Op.Hash, result.Op.Status)
	return nil
}
