// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package opcmd

import (
	"github.com/luxfi/msig/pkg/operation"
	"github.com/luxfi/msig/pkg/ux"
	"github.com/luxfi/msig/pkg/validator"

	"github.com/spf13/cobra"
)

var signKeyName string

func newSignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign <account> <opname>",
		Short: "Add one quorum signature to a stored operation",
		Long: `Signs the stored operation's digest with one key and writes the updated
partial signature set back to the file. Signatures are kept ordered by
signer address; once the accumulated weight reaches the account's
threshold the operation is ready for msig op commit.`,
		Args:         cobra.ExactArgs(2),
		RunE:         runSign,
		SilenceUsage: true,
	}
	cmd.Flags().StringVarP(&signKeyName, "key", "k", "", "key to sign with (default: the configured private key)")
	return cmd
}

func runSign(_ *cobra.Command, args []string) error {
	account, err := validator.LoadAccount(app.GetAccountPath(args[0]))
	if err != nil {
		return err
	}
	opPath := app.GetOpPath(args[1])
	op, err := operation.LoadFromDisk(opPath)
	if err != nil {
		return err
	}
	var names []string
	if signKeyName != "" {
		names = []string{signKeyName}
	}
	signingKeys, err := app.SigningKeys(names)
	if err != nil {
		return err
	}
	k := signingKeys[0]

	sig, err := k.SignHash(op.Digest())
	if err != nil {
		return err
	}
	if err := op.AddSignature(account.Config, k.Address(), sig); err != nil {
		return err
	}
	if err := operation.SaveToDisk(opPath, op); err != nil {
		return err
	}

	ux.Logger.PrintToUser("Signed as %s (weight %d of %d)",
		k.Address(), op.SignedWeight(account.Config), account.Config.Threshold)
	if op.Status == operation.StatusSigned {
		ux.Logger.PrintToUser("Operation %q is ready to commit", args[1])
		ux.Logger.PrintToUser("Run: msig op commit %s %s", args[0], args[1])
	}
	return nil
}
