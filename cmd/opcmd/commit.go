// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package opcmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/luxfi/msig/pkg/clientset"
	"github.com/luxfi/msig/pkg/operation"
	"github.com/luxfi/msig/pkg/relay"
	"github.com/luxfi/msig/pkg/ux"

	"github.com/spf13/cobra"
)

var commitChain string

func newCommitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commit <account> <opname>",
		Short: "Submit a fully signed stored operation",
		Long: `Hands a fully signed operation to the bundler and waits for the receipt.
The operation file must have reached SIGNED through msig op sign.`,
		Args:         cobra.ExactArgs(2),
		RunE:         runCommit,
		SilenceUsage: true,
	}
	cmd.Flags().StringVar(&commitChain, "chain", "", "chain to submit on")
	return cmd
}

func runCommit(_ *cobra.Command, args []string) error {
	opPath := app.GetOpPath(args[1])
	op, err := operation.LoadFromDisk(opPath)
	if err != nil {
		return err
	}
	if op.Status != operation.StatusSigned {
		return fmt.Errorf("operation %q is %s, not SIGNED; collect more signatures first", args[1], op.Status)
	}
	chain, err := app.Conf.Chain(commitChain)
	if err != nil {
		return err
	}
	set, err := clientset.ForChain(chain)
	if err != nil {
		return err
	}
	defer set.Close()

	ctx := context.Background()
	opHash, err := set.Relay.Submit(ctx, op)
	if err != nil {
		return err
	}
	if err := op.MarkSubmitted(opHash); err != nil {
		return err
	}
	if err := operation.SaveToDisk(opPath, op); err != nil {
		return err
	}
	ux.Logger.PrintToUser("Submitted operation %s", opHash)

	receipt, err := set.Relay.WaitForReceipt(ctx, opHash)
	switch {
	case err == nil:
		if err := op.MarkConfirmed(); err != nil {
			return err
		}
	case errors.Is(err, relay.ErrExecutionReverted):
		if markErr := op.MarkFailed(); markErr != nil {
			return markErr
		}
	case errors.Is(err, relay.ErrReceiptTimeout):
		if markErr := op.MarkTimedOut(); markErr != nil {
			return markErr
		}
	default:
		return err
	}
	if saveErr := operation.SaveToDisk(opPath, op); saveErr != nil {
		return saveErr
	}
	if err != nil {
		return err
	}
	ux.Logger.PrintToUser("Confirmed in block %d (tx %s)", receipt.BlockNumber, receipt.TxHash)
	return nil
}
