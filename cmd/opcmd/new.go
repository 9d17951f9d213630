// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package opcmd

import (
	"context"
	"fmt"
	"os"

	"github.com/luxfi/msig/pkg/clientset"
	"github.com/luxfi/msig/pkg/operation"
	"github.com/luxfi/msig/pkg/ux"
	"github.com/luxfi/msig/pkg/validator"

	"github.com/luxfi/geth/common"
	"github.com/spf13/cobra"
)

var newChain string

func newNewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new <account> <opname>",
		Short: "Build and sponsor an operation for offline signing",
		Long: `Builds an intent, reserves a nonce and attaches sponsorship, then writes
the operation to the ops directory instead of submitting it. Quorum
members sign it in turn with msig op sign; once fully signed it is
submitted with msig op commit.

The digest every member signs covers the sponsorship and the nonce, so
both are fixed at this point.`,
		Args:         cobra.ExactArgs(2),
		RunE:         runNew,
		SilenceUsage: true,
	}
	cmd.Flags().StringVar(&sendTarget, "target", "", "target address of the intent")
	cmd.Flags().StringVar(&sendValue, "value", "0", "value in wei")
	cmd.Flags().StringVar(&sendData, "data", "", "hex-encoded call data")
	cmd.Flags().StringVar(&newChain, "chain", "", "chain to build for")
	return cmd
}

func runNew(_ *cobra.Command, args []string) error {
	opPath := app.GetOpPath(args[1])
	if _, err := os.Stat(opPath); err == nil {
		return fmt.Errorf("operation %q already exists at %s", args[1], opPath)
	}
	account, err := validator.LoadAccount(app.GetAccountPath(args[0]))
	if err != nil {
		return err
	}
	intent, err := buildIntent()
	if err != nil {
		return err
	}
	chain, err := app.Conf.Chain(newChain)
	if err != nil {
		return err
	}
	set, err := clientset.ForChain(chain)
	if err != nil {
		return err
	}
	defer set.Close()

	ctx := context.Background()
	// seed from the chain AND the stored op files: earlier op new invocations
	// hold nonce slots the chain has not seen yet
	nonces := operation.NewNonces(func(ctx context.Context, chainID uint64, addr common.Address) (uint64, error) {
		onchain, err := set.Reader.Nonce(ctx, addr)
		if err != nil {
			return 0, err
		}
		pending, found, err := operation.HighestPendingNonce(app.GetOpsDir(), chainID, addr)
		if err != nil {
			return 0, err
		}
		if found && pending+1 > onchain {
			return pending + 1, nil
		}
		return onchain, nil
	})
	nonce, err := nonces.ReserveNonce(ctx, chain.ChainID, account.Address)
	if err != nil {
		return err
	}
	op := operation.New(chain.ChainID, account.Address, nonce, intent)
	sponsorship, err := set.Sponsor.Sponsor(ctx, chain.ChainID, account.Address, intent, nonce)
	if err != nil {
		return err
	}
	if err := op.AttachSponsorship(sponsorship); err != nil {
		return err
	}
	if err := operation.SaveToDisk(opPath, op); err != nil {
		return err
	}

	ux.Logger.PrintToUser("Operation %q written to %s", args[1], opPath)
	ux.Logger.PrintToUser("Digest to sign: %s", op.Digest())
	ux.Logger.PrintToUser("Run: msig op sign %s %s --key <keyname>", args[0], args[1])
	return nil
}
