// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package keycmd

import (
	"fmt"

	"github.com/luxfi/msig/pkg/application"

	"github.com/spf13/cobra"
)

var app *application.Msig

func NewCmd(injectedApp *application.Msig) *cobra.Command {
	app = injectedApp

	cmd := &cobra.Command{
		Use:   "key",
		Short: "Create and manage signing keys",
		Long: `The key command suite provides tools for creating and managing the
signing keys that make up an account's quorum. Keys created here live
unencrypted under the msig base directory and are meant for development
and testing. DO NOT use them to control mainnet funds.

To get started, use the key create command.`,
		Run: func(cmd *cobra.Command, args []string) {
			err := cmd.Help()
			if err != nil {
				fmt.Println(err)
			}
		},
	}

	// msig key create
	cmd.AddCommand(newCreateCmd())

	// msig key import
	cmd.AddCommand(newImportCmd())

	// msig key list
	cmd.AddCommand(newListCmd())

	// msig key export
	cmd.AddCommand(newExportCmd())

	return cmd
}
