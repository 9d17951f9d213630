// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package keycmd

import (
	"os"

	"github.com/luxfi/msig/pkg/key"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "list",
		Short:        "List stored signing keys",
		RunE:         runList,
		SilenceUsage: true,
	}
}

func runList(_ *cobra.Command, _ []string) error {
	names, err := key.ListKeys(app.GetKeyDir())
	if err != nil {
		return err
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Name", "Address")
	for _, name := range names {
		k, err := key.LoadSoftKey(app.GetKeyPath(name))
		if err != nil {
			return err
		}
		table.Append([]string{name, k.Address().String()})
	}
	table.Render()
	return nil
}
