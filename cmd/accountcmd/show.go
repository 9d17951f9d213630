// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package accountcmd

import (
	"context"
	"fmt"
	"os"

	"github.com/luxfi/msig/pkg/ux"
	"github.com/luxfi/msig/pkg/validator"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var showChain string

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show an account and its active on-chain configuration",
		Long: `Reads the validator configuration currently stored on-chain for the
account and prints it next to the locally bound one. A mismatch means a
config update confirmed elsewhere and the local binding is stale.`,
		Args:         cobra.ExactArgs(1),
		RunE:         runShow,
		SilenceUsage: true,
	}
	cmd.Flags().StringVar(&showChain, "chain", "", "chain to query")
	return cmd
}

func runShow(_ *cobra.Command, args []string) error {
	account, err := validator.LoadAccount(app.GetAccountPath(args[0]))
	if err != nil {
		return err
	}
	chain, err := app.Conf.Chain(showChain)
	if err != nil {
		return err
	}
	reader, err := validator.NewReader(chain.RPCURL)
	if err != nil {
		return err
	}
	defer reader.Close()

	onchain, err := reader.ReadConfig(context.Background(), account.Address)
	if err != nil {
		return err
	}

	ux.Logger.PrintToUser("Account %s on chain %d", account.Address, chain.ChainID)
	ux.Logger.PrintToUser("On-chain threshold: %d", onchain.Threshold)
	ux.Logger.PrintLineSeparator()
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Signer", "Weight")
	for _, signer := range onchain.Signers {
		table.Append([]string{signer.Addr.String(), fmt.Sprintf("%d", signer.Weight)})
	}
	table.Render()

	if onchain.ID() != account.Config.ID() {
		ux.Logger.PrintToUser("")
		ux.Logger.PrintToUser("WARNING: local binding is stale (local validator %s, on-chain %s)",
			account.Config.ID(), onchain.ID())
	}
	return nil
}
