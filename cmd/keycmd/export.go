// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package keycmd

import (
	"github.com/luxfi/msig/pkg/key"
	"github.com/luxfi/msig/pkg/ux"

	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <name>",
		Short: "Export a signing key",
		Long: `Prints the hex-encoded private key to stdout. Anyone holding this value
controls the signer's weight in every quorum it belongs to.`,
		Args:         cobra.ExactArgs(1),
		RunE:         runExport,
		SilenceUsage: true,
	}
}

func runExport(_ *cobra.Command, args []string) error {
	k, err := key.LoadSoftKey(app.GetKeyPath(args[0]))
	if err != nil {
		return err
	}
	ux.Logger.PrintToUser("%s", k.PrivKeyHex())
	return nil
}
