// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package accountcmd

import (
	"fmt"

	"github.com/luxfi/msig/pkg/application"

	"github.com/spf13/cobra"
)

var app *application.Msig

func NewCmd(injectedApp *application.Msig) *cobra.Command {
	app = injectedApp

	cmd := &cobra.Command{
		Use:   "account",
		Short: "Create and manage multisig accounts",
		Long: `The account command suite manages weighted multisig smart accounts:
building the validator configuration (signer set + threshold), deriving
the account address, reading the active on-chain configuration and
rotating it through quorum-signed config updates.`,
		Run: func(cmd *cobra.Command, args []string) {
			err := cmd.Help()
			if err != nil {
				fmt.Println(err)
			}
		},
	}

	// msig account create
	cmd.AddCommand(newCreateCmd())

	// msig account show
	cmd.AddCommand(newShowCmd())

	// msig account update
	cmd.AddCommand(newUpdateCmd())

	// msig account probe
	cmd.AddCommand(newProbeCmd())

	return cmd
}
