// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package keycmd

import (
	"fmt"
	"os"

	"github.com/luxfi/msig/pkg/key"
	"github.com/luxfi/msig/pkg/ux"

	"github.com/spf13/cobra"
)

var importKeyHex string

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "import <name>",
		Short:        "Import an existing signing key",
		Long:         `Imports a hex-encoded secp256k1 private key and stores it under the key directory.`,
		Args:         cobra.ExactArgs(1),
		RunE:         runImport,
		SilenceUsage: true,
	}
	cmd.Flags().StringVar(&importKeyHex, "key", "", "hex-encoded private key to import")
	return cmd
}

func runImport(_ *cobra.Command, args []string) error {
	name := args[0]
	keyPath := app.GetKeyPath(name)
	if _, err := os.Stat(keyPath); err == nil {
		return fmt.Errorf("key %q already exists at %s", name, keyPath)
	}
	if importKeyHex == "" {
		return fmt.Errorf("--key is required")
	}

	k, err := key.NewSoftKeyFromHex(importKeyHex)
	if err != nil {
		return err
	}
	if err := k.Save(keyPath); err != nil {
		return fmt.Errorf("failed to save key: %w", err)
	}

	ux.Logger.PrintToUser("Imported key %q", name)
	ux.Logger.PrintToUser("Address: %s", k.Address())
	return nil
}
