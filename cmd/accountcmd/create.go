// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package accountcmd

import (
	"fmt"
	"os"

	"github.com/luxfi/msig/pkg/ux"
	"github.com/luxfi/msig/pkg/validator"

	"github.com/luxfi/geth/common"
	"github.com/spf13/cobra"
)

var (
	createSigners   []string
	createThreshold uint64
	createChain     string
)

func newCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a multisig account",
		Long: `Builds a validator configuration from the given signer set and threshold
and derives the account address it controls. The address is a pure function
of the factory and the initial configuration, so the same inputs always
give the same account.`,
		Args:         cobra.ExactArgs(1),
		RunE:         runCreate,
		SilenceUsage: true,
	}
	cmd.Flags().StringSliceVar(&createSigners, "signers", nil, "signer set as keyname=weight pairs")
	cmd.Flags().Uint64Var(&createThreshold, "threshold", 0, "quorum weight threshold")
	cmd.Flags().StringVar(&createChain, "chain", "", "chain to bind the account to")
	return cmd
}

func runCreate(_ *cobra.Command, args []string) error {
	name := args[0]
	accountPath := app.GetAccountPath(name)
	if _, err := os.Stat(accountPath); err == nil {
		return fmt.Errorf("account %q already exists at %s", name, accountPath)
	}

	chain, err := app.Conf.Chain(createChain)
	if err != nil {
		return err
	}
	signers, err := parseWeightedSigners(createSigners)
	if err != nil {
		return err
	}
	cfg, err := validator.NewConfig(createThreshold, signers)
	if err != nil {
		return err
	}

	account := validator.BindAccount(common.HexToAddress(chain.Factory), cfg, chain.ChainID)
	if err := validator.SaveAccount(accountPath, account); err != nil {
		return err
	}

	ux.Logger.PrintToUser("Created account %q", name)
	ux.Logger.PrintToUser("Address:   %s", account.Address)
	ux.Logger.PrintToUser("Validator: %s", cfg.ID())
	ux.Logger.PrintToUser("Threshold: %d (total weight %d)", cfg.Threshold, cfg.TotalWeight())
	return nil
}
