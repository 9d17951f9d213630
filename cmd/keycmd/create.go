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

func newCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new signing key",
		Long: `Generates a fresh secp256k1 signing key and stores it under the key
directory. The derived address is the signer identity used in validator
configurations.`,
		Args:         cobra.ExactArgs(1),
		RunE:         runCreate,
		SilenceUsage: true,
	}
}

func runCreate(_ *cobra.Command, args []string) error {
	name := args[0]
	keyPath := app.GetKeyPath(name)
	if _, err := os.Stat(keyPath); err == nil {
		return fmt.Errorf("key %q already exists at %s", name, keyPath)
	}

	k, err := key.NewSoftKey()
	if err != nil {
		return fmt.Errorf("failed to create key: %w", err)
	}
	if err := k.Save(keyPath); err != nil {
		return fmt.Errorf("failed to save key: %w", err)
	}

	ux.Logger.PrintToUser("Created key %q", name)
	ux.Logger.PrintToUser("Address: %s", k.Address())
	return nil
}
