// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package opcmd

import (
	"context"
	"fmt"
	"math/big"

	"github.com/luxfi/msig/pkg/clientset"
	"github.com/luxfi/msig/pkg/operation"
	"github.com/luxfi/msig/pkg/pipeline"
	"github.com/luxfi/msig/pkg/ux"
	"github.com/luxfi/msig/pkg/validator"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/common/hexutil"
	"github.com/spf13/cobra"
)

var (
	sendTarget      string
	sendValue       string
	sendData        string
	sendSigningKeys []string
	sendChains      []string
)

func newSendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send <account>",
		Short: "Send an operation through the account",
		Long: `Builds an intent, obtains sponsorship, collects the quorum's signatures
and submits through the bundler, then waits for the receipt.

With several --chains the same logical intent is mirrored on every chain:
all per-chain operations are signed in one session before any is
submitted, and each chain's outcome is reported independently. One chain
failing or timing out never rolls back another chain's confirmation.`,
		Args:         cobra.ExactArgs(1),
		RunE:         runSend,
		SilenceUsage: true,
	}
	cmd.Flags().StringVar(&sendTarget, "target", "", "target address of the intent")
	cmd.Flags().StringVar(&sendValue, "value", "0", "value in wei")
	cmd.Flags().StringVar(&sendData, "data", "", "hex-encoded call data")
	cmd.Flags().StringSliceVar(&sendSigningKeys, "signing-keys", nil, "keys of the quorum signing the operation (default: the configured private key)")
	cmd.Flags().StringSliceVar(&sendChains, "chains", nil, "chains to send on (default: the default chain)")
	return cmd
}

func buildIntent() (operation.Intent, error) {
	value, ok := new(big.Int).SetString(sendValue, 10)
	if !ok {
		return operation.Intent{}, fmt.Errorf("invalid value %q", sendValue)
	}
	var data []byte
	if sendData != "" {
		var err error
		data, err = hexutil.Decode(sendData)
		if err != nil {
			return operation.Intent{}, err
		}
	}
	return operation.NewIntent(common.HexToAddress(sendTarget), value, data)
}

func runSend(_ *cobra.Command, args []string) error {
	account, err := validator.LoadAccount(app.GetAccountPath(args[0]))
	if err != nil {
		return err
	}
	intent, err := buildIntent()
	if err != nil {
		return err
	}
	signingKeys, err := app.SigningKeys(sendSigningKeys)
	if err != nil {
		return err
	}

	chainNames := sendChains
	if len(chainNames) == 0 {
		chainNames = []string{""}
	}
	chains, err := app.Conf.Chains(chainNames)
	if err != nil {
		return err
	}
	sets, err := clientset.ForChains(chains)
	if err != nil {
		return err
	}
	defer clientset.CloseAll(sets)

	nonces := clientset.Nonces(sets)
	p := pipeline.New(app.Log, signingKeys)

	if len(sets) == 1 {
		result, err := p.Execute(context.Background(), sets[0].Target(account, nonces), intent)
		if err != nil {
			return err
		}
		ux.Logger.PrintToUser("Operation %s: %s", result.Op.Hash, result.Op.Status)
		return nil
	}

	targets := make([]pipeline.Target, len(sets))
	for i, set := range sets {
		targets[i] = set.Target(account, nonces)
	}
	results, err := p.ExecuteAcrossChains(context.Background(), targets, intent)
	if err != nil {
		return err
	}
	for _, result := range results {
		if result.Err != nil {
			ux.Logger.PrintToUser("Chain %d: %s (%s)", result.ChainID, result.Op.Status, result.Err)
		} else {
			ux.Logger.PrintToUser("Chain %d: %s (op %s)", result.ChainID, result.Op.Status, result.Op.Hash)
		}
	}
	return nil
}
