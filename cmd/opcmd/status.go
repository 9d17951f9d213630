// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package opcmd

import (
	"context"
	"fmt"
	"os"

	"github.com/luxfi/msig/pkg/relay"
	"github.com/luxfi/msig/pkg/ux"

	"github.com/luxfi/geth/common"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var statusChain string

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "status <op-hash>",
		Short:        "Look up the receipt for a submitted operation",
		Args:         cobra.ExactArgs(1),
		RunE:         runStatus,
		SilenceUsage: true,
	}
	cmd.Flags().StringVar(&statusChain, "chain", "", "chain to query")
	return cmd
}

func runStatus(_ *cobra.Command, args []string) error {
	chain, err := app.Conf.Chain(statusChain)
	if err != nil {
		return err
	}
	relayClient, err := relay.NewClient(chain.BundlerURL)
	if err != nil {
		return err
	}
	defer relayClient.Close()

	receipt, err := relayClient.Receipt(context.Background(), common.HexToHash(args[0]))
	if err != nil {
		return err
	}
	if receipt == nil {
		ux.Logger.PrintToUser("Operation %s not included yet", args[0])
		return nil
	}

	ux.Logger.PrintLineSeparator()
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Field", "Value")
	table.Append([]string{"Operation", receipt.OperationHash.String()})
	table.Append([]string{"Tx", receipt.TxHash.String()})
	table.Append([]string{"Block", fmt.Sprintf("%d", receipt.BlockNumber)})
	table.Append([]string{"Success", fmt.Sprintf("%t", receipt.Success)})
	if receipt.RevertReason != "" {
		table.Append([]string{"Revert reason", receipt.RevertReason})
	}
	table.Render()
	return nil
}
