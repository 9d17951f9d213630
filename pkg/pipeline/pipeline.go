// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pipeline drives operations through sponsorship, quorum signing,
// submission and confirmation, on one chain or fanned out across several.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/luxfi/msig/pkg/key"
	"github.com/luxfi/msig/pkg/operation"
	"github.com/luxfi/msig/pkg/relay"
	"github.com/luxfi/msig/pkg/validator"

	"github.com/luxfi/geth/common"
	luxlog "github.com/luxfi/log"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var ErrQuorumNotReached = errors.New("available signers do not reach the quorum threshold")

// Sponsor obtains fee sponsorship for an intent. *sponsor.Client implements
// this; tests inject fakes.
type Sponsor interface {
	Sponsor(
		ctx context.Context,
		chainID uint64,
		account common.Address,
		intent operation.Intent,
		nonce uint64,
	) (*operation.Sponsorship, error)
}

// Relay submits signed operations and awaits receipts. *relay.Client
// implements this.
type Relay interface {
	Submit(ctx context.Context, op *operation.Operation) (common.Hash, error)
	WaitForReceipt(ctx context.Context, opHash common.Hash) (*relay.Receipt, error)
}

// Target bundles everything needed to run an operation on one chain.
type Target struct {
	Account validator.Account
	Sponsor Sponsor
	Relay   Relay
	Nonces  operation.NonceSource
}

// Result is the terminal state of a single-chain execution.
type Result struct {
	Op      *operation.Operation
	Receipt *relay.Receipt
}

// ChainResult is one chain's independent outcome of a correlated multi-chain
// execution. One chain timing out or failing never rolls back another
// chain's confirmation; callers reconcile partial completion explicitly.
type ChainResult struct {
	ChainID uint64
	Op      *operation.Operation
	Receipt *relay.Receipt
	Err     error
}

// Pipeline executes operations with a fixed set of quorum signers.
type Pipeline struct {
	log     luxlog.Logger
	signers []*key.SoftKey
}

func New(log luxlog.Logger, signers []*key.SoftKey) *Pipeline {
	return &Pipeline{
		log:     log,
		signers: signers,
	}
}

// Execute runs one intent through the full lifecycle on one chain. Each
// stage either completes or the attempt is abandoned there: the operation is
// returned in whatever status it reached alongside the error.
func (p *Pipeline) Execute(ctx context.Context, target Target, intent operation.Intent) (*Result, error) {
	op, err := p.prepare(ctx, target, intent)
	if err != nil {
		return &Result{Op: op}, err
	}
	return p.submitAndConfirm(ctx, target, op)
}

// UpdateConfig runs the config-update operation for the target account. It
// signs under the CURRENT (outgoing) configuration; the incoming one takes
// effect only after confirmation, so rebind the account afterwards.
func (p *Pipeline) UpdateConfig(ctx context.Context, target Target, newCfg validator.Config) (*Result, error) {
	calldata, err := validator.UpdateConfigCalldata(newCfg)
	if err != nil {
		return nil, err
	}
	intent, err := operation.NewIntent(target.Account.Address, nil, calldata)
	if err != nil {
		return nil, err
	}
	return p.Execute(ctx, target, intent)
}

// ExecuteAcrossChains mirrors one logical intent on every target chain.
// All operations are sponsored and signed in a single session, and every one
// must reach SIGNED before any is submitted. Submission and confirmation
// then run concurrently and independently per chain.
func (p *Pipeline) ExecuteAcrossChains(ctx context.Context, targets []Target, intent operation.Intent) ([]ChainResult, error) {
	ops := make([]*operation.Operation, len(targets))
	for i, target := range targets {
		op, err := p.prepare(ctx, target, intent)
		if err != nil {
			return nil, fmt.Errorf("chain %d: %w", target.Account.ChainID, err)
		}
		ops[i] = op
	}

	results := make([]ChainResult, len(targets))
	eg := &errgroup.Group{}
	for i, target := range targets {
		i := i
		target := target
		eg.Go(func() error {
			result, err := p.submitAndConfirm(ctx, target, ops[i])
			results[i] = ChainResult{
				ChainID: target.Account.ChainID,
				Op:      result.Op,
				Receipt: result.Receipt,
				Err:     err,
			}
			// errors are per-chain outcomes, not group failures
			return nil
		})
	}
	_ = eg.Wait()
	return results, nil
}

// prepare takes an intent to SIGNED: reserve nonce, sponsor, collect the
// quorum's signatures.
func (p *Pipeline) prepare(ctx context.Context, target Target, intent operation.Intent) (*operation.Operation, error) {
	account := target.Account
	nonce, err := target.Nonces.ReserveNonce(ctx, account.ChainID, account.Address)
	if err != nil {
		return nil, err
	}
	op := operation.New(account.ChainID, account.Address, nonce, intent)

	sponsorship, err := target.Sponsor.Sponsor(ctx, account.ChainID, account.Address, intent, nonce)
	if err != nil {
		// op stays BUILT; transient sponsor errors are the caller's to retry
		return op, err
	}
	if err := op.AttachSponsorship(sponsorship); err != nil {
		return op, err
	}
	p.log.Debug("operation sponsored",
		zap.Uint64("chain-id", account.ChainID),
		zap.Uint64("nonce", nonce),
	)

	if err := op.SignWith(account.Config, p.signers); err != nil {
		return op, err
	}
	if op.Status != operation.StatusSigned {
		return op, fmt.Errorf("%w: weight %d < threshold %d",
			ErrQuorumNotReached, op.SignedWeight(account.Config), account.Config.Threshold)
	}
	p.log.Debug("operation signed",
		zap.Uint64("chain-id", account.ChainID),
		zap.Int("signatures", len(op.Sigs)),
	)
	return op, nil
}

// submitAndConfirm takes a SIGNED operation to a terminal status.
func (p *Pipeline) submitAndConfirm(ctx context.Context, target Target, op *operation.Operation) (*Result, error) {
	opHash, err := target.Relay.Submit(ctx, op)
	if err != nil {
		return &Result{Op: op}, err
	}
	if err := op.MarkSubmitted(opHash); err != nil {
		return &Result{Op: op}, err
	}
	p.log.Info("operation submitted",
		zap.Uint64("chain-id", op.ChainID),
		zap.String("op-hash", opHash.String()),
	)

	receipt, err := target.Relay.WaitForReceipt(ctx, opHash)
	switch {
	case err == nil:
		if err := op.MarkConfirmed(); err != nil {
			return &Result{Op: op, Receipt: receipt}, err
		}
		p.log.Info("operation confirmed",
			zap.Uint64("chain-id", op.ChainID),
			zap.String("op-hash", opHash.String()),
		)
		return &Result{Op: op, Receipt: receipt}, nil
	case errors.Is(err, relay.ErrExecutionReverted):
		if markErr := op.MarkFailed(); markErr != nil {
			return &Result{Op: op, Receipt: receipt}, markErr
		}
		return &Result{Op: op, Receipt: receipt}, err
	case errors.Is(err, relay.ErrReceiptTimeout):
		// inclusion unknown; the nonce slot protects against double
		// execution if the caller re-submits after re-querying
		if markErr := op.MarkTimedOut(); markErr != nil {
			return &Result{Op: op}, markErr
		}
		return &Result{Op: op}, err
	default:
		return &Result{Op: op}, err
	}
}
