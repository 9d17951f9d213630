// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package opcmd

import (
	"fmt"

	"github.com/luxfi/msig/pkg/application"

	"github.com/spf13/cobra"
)

var app *application.Msig

func NewCmd(injectedApp *application.Msig) *cobra.Command {
	app = injectedApp

	cmd := &cobra.Command{
		Use:   "op",
		Short: "Build, sign, submit and track account operations",
		Long: `The op command suite drives account operations: direct sends through the
sponsorship and submission pipeline, offline collection of quorum
signatures on an operation file, and receipt lookups for submitted
operations.`,
		Run: func(cmd *cobra.Command, args []string) {
			err := cmd.Help()
			if err != nil {
				fmt.Println(err)
			}
		},
	}

	// msig op send
	cmd.AddCommand(newSendCmd())

	// msig op new
	cmd.AddCommand(newNewCmd())

	// msig op sign
	cmd.AddCommand(newSignCmd())

	// msig op commit
	cmd.AddCommand(newCommitCmd())

	// msig op status
	cmd.AddCommand(newStatusCmd())

	return cmd
}
