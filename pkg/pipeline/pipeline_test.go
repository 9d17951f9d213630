// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/luxfi/msig/pkg/key"
	"github.com/luxfi/msig/pkg/operation"
	"github.com/luxfi/msig/pkg/relay"
	"github.com/luxfi/msig/pkg/sponsor"
	"github.com/luxfi/msig/pkg/validator"

	"github.com/luxfi/geth/common"
	luxlog "github.com/luxfi/log"
	"github.com/stretchr/testify/require"
)

var testFactory = common.HexToAddress("0xfac7000000000000000000000000000000000001")

// fakeChain plays paymaster, bundler and chain in one: it sponsors
// everything (unless scripted to refuse), verifies the quorum weight of
// every submission against ITS notion of the active config, enforces nonce
// uniqueness and applies an optional execute hook on inclusion.
type fakeChain struct {
	mu           sync.Mutex
	chainID      uint64
	cfg          validator.Config
	usedNonces   map[uint64]bool
	receipts     map[common.Hash]*relay.Receipt
	executions   int
	neverInclude bool
	denySponsor  bool
	execute      func(op *operation.Operation)
}

func newFakeChain(chainID uint64, cfg validator.Config) *fakeChain {
	return &fakeChain{
		chainID:    chainID,
		cfg:        cfg,
		usedNonces: map[uint64]bool{},
		receipts:   map[common.Hash]*relay.Receipt{},
	}
}

func (f *fakeChain) Sponsor(
	_ context.Context,
	_ uint64,
	_ common.Address,
	_ operation.Intent,
	_ uint64,
) (*operation.Sponsorship, error) {
	if f.denySponsor {
		return nil, fmt.Errorf("%w: account not allowlisted", sponsor.ErrPolicyRejected)
	}
	return &operation.Sponsorship{
		PaymasterAndData: []byte{0xfa, 0xce},
		ValidUntil:       10_000,
	}, nil
}

func (f *fakeChain) Submit(_ context.Context, op *operation.Operation) (common.Hash, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	// the chain, not the client, enforces the active threshold
	weight := uint64(0)
	for _, sig := range op.Sigs {
		recovered, err := key.RecoverSigner(op.Digest(), sig.Sig)
		if err != nil || recovered != sig.Signer {
			return common.Hash{}, fmt.Errorf("%w: bad signature from %s", relay.ErrQuorumRejected, sig.Signer)
		}
		w, ok := f.cfg.Weight(sig.Signer)
		if !ok {
			return common.Hash{}, fmt.Errorf("%w: %s is not an active signer", relay.ErrQuorumRejected, sig.Signer)
		}
		weight += w
	}
	if weight < f.cfg.Threshold {
		return common.Hash{}, fmt.Errorf("%w: weight %d < threshold %d", relay.ErrQuorumRejected, weight, f.cfg.Threshold)
	}
	if f.usedNonces[op.Nonce] {
		return common.Hash{}, fmt.Errorf("nonce %d already used", op.Nonce)
	}

	opHash := op.Digest()
	if f.neverInclude {
		return opHash, nil
	}
	f.usedNonces[op.Nonce] = true
	f.executions++
	if f.execute != nil {
		f.execute(op)
	}
	f.receipts[opHash] = &relay.Receipt{
		OperationHash: opHash,
		TxHash:        common.BytesToHash(append([]byte{0x77}, opHash.Bytes()[:31]...)),
		BlockNumber:   100,
		Success:       true,
	}
	return opHash, nil
}

func (f *fakeChain) WaitForReceipt(_ context.Context, opHash common.Hash) (*relay.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	receipt, ok := f.receipts[opHash]
	if !ok {
		return nil, fmt.Errorf("%w: %s", relay.ErrReceiptTimeout, opHash)
	}
	if !receipt.Success {
		return receipt, fmt.Errorf("%w: %s", relay.ErrExecutionReverted, receipt.RevertReason)
	}
	return receipt, nil
}

// activeConfig is the fake's stand-in for readConfig
func (f *fakeChain) activeConfig() validator.Config {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cfg
}

func (f *fakeChain) nonces() *operation.Nonces {
	return operation.NewNonces(func(context.Context, uint64, common.Address) (uint64, error) {
		f.mu.Lock()
		defer f.mu.Unlock()
		return uint64(len(f.usedNonces)), nil
	})
}

func (f *fakeChain) target(account validator.Account, nonces operation.NonceSource) Target {
	return Target{
		Account: validator.BindExistingAccount(account.Address, account.Config, f.chainID),
		Sponsor: f,
		Relay:   f,
		Nonces:  nonces,
	}
}

// fixedNonce always hands out the same slot, standing in for a client whose
// view of the chain is stale.
type fixedNonce uint64

func (n fixedNonce) ReserveNonce(context.Context, uint64, common.Address) (uint64, error) {
	return uint64(n), nil
}

func newTestKeys(t *testing.T, n int) []*key.SoftKey {
	require := require.New(t)
	keys := make([]*key.SoftKey, n)
	for i := range keys {
		k, err := key.NewSoftKey()
		require.NoError(err)
		keys[i] = k
	}
	return keys
}

func weightedSet(keys []*key.SoftKey, weight uint64) []validator.WeightedSigner {
	signers := make([]validator.WeightedSigner, len(keys))
	for i, k := range keys {
		signers[i] = validator.WeightedSigner{Addr: k.Address(), Weight: weight}
	}
	return signers
}

func TestExecuteEndToEnd(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	keys := newTestKeys(t, 3)
	cfg, err := validator.NewConfig(100, weightedSet(keys[:2], 50))
	require.NoError(err)
	account := validator.BindAccount(testFactory, cfg, 1)
	chain := newFakeChain(1, cfg)

	// no-op probe signed by the full quorum confirms
	p := New(luxlog.NewNoOpLogger(), keys[:2])
	result, err := p.Execute(ctx, chain.target(account, chain.nonces()), operation.NoopProbe())
	require.NoError(err)
	require.Equal(operation.StatusConfirmed, result.Op.Status)
	require.NotNil(result.Receipt)
	require.True(result.Receipt.Success)

	// rotate to three signers, authorized by the outgoing quorum
	newCfg, err := validator.NewConfig(100, weightedSet(keys, 50))
	require.NoError(err)
	chain.execute = func(op *operation.Operation) {
		if op.Intent.To == account.Address {
			chain.cfg = newCfg
		}
	}
	result, err = p.UpdateConfig(ctx, chain.target(account, chain.nonces()), newCfg)
	require.NoError(err)
	require.Equal(operation.StatusConfirmed, result.Op.Status)
	require.Equal(newCfg.ID(), chain.activeConfig().ID())

	// after rebinding, a quorum drawn from the new set works
	account.Rebind(newCfg)
	chain.execute = nil
	p = New(luxlog.NewNoOpLogger(), []*key.SoftKey{keys[0], keys[2]})
	result, err = p.Execute(ctx, chain.target(account, chain.nonces()), operation.NoopProbe())
	require.NoError(err)
	require.Equal(operation.StatusConfirmed, result.Op.Status)
}

func TestUpdateAuthorizedOnlyByOutgoingQuorum(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	keys := newTestKeys(t, 2)
	// on-chain: both signers required
	onchainCfg, err := validator.NewConfig(100, weightedSet(keys, 50))
	require.NoError(err)
	chain := newFakeChain(1, onchainCfg)

	// locally bound to a stale config a single signer satisfies; the chain
	// still judges the update under the outgoing threshold and refuses
	staleCfg, err := validator.NewConfig(50, weightedSet(keys[:1], 50))
	require.NoError(err)
	account := validator.BindExistingAccount(
		validator.DeriveAccountAddress(testFactory, onchainCfg), staleCfg, 1)

	newCfg, err := validator.NewConfig(50, weightedSet(keys[:1], 50))
	require.NoError(err)

	p := New(luxlog.NewNoOpLogger(), keys[:1])
	result, err := p.UpdateConfig(ctx, chain.target(account, chain.nonces()), newCfg)
	require.ErrorIs(err, relay.ErrQuorumRejected)
	require.Equal(operation.StatusSigned, result.Op.Status)
	require.Equal(onchainCfg.ID(), chain.activeConfig().ID())
}

func TestSponsorPolicyDenialIsTerminal(t *testing.T) {
	require := require.New(t)

	keys := newTestKeys(t, 2)
	cfg, err := validator.NewConfig(100, weightedSet(keys, 50))
	require.NoError(err)
	account := validator.BindAccount(testFactory, cfg, 1)
	chain := newFakeChain(1, cfg)
	chain.denySponsor = true

	p := New(luxlog.NewNoOpLogger(), keys)
	result, err := p.Execute(context.Background(), chain.target(account, chain.nonces()), operation.NoopProbe())
	require.ErrorIs(err, sponsor.ErrPolicyRejected)
	require.Equal(operation.StatusBuilt, result.Op.Status)
}

func TestExecuteRefusesShortQuorum(t *testing.T) {
	require := require.New(t)

	keys := newTestKeys(t, 2)
	cfg, err := validator.NewConfig(100, weightedSet(keys, 50))
	require.NoError(err)
	account := validator.BindAccount(testFactory, cfg, 1)
	chain := newFakeChain(1, cfg)

	p := New(luxlog.NewNoOpLogger(), keys[:1])
	result, err := p.Execute(context.Background(), chain.target(account, chain.nonces()), operation.NoopProbe())
	require.ErrorIs(err, ErrQuorumNotReached)
	require.Equal(operation.StatusSponsored, result.Op.Status)
	require.Equal(0, chain.executions)
}

func TestMultiChainIndependentOutcomes(t *testing.T) {
	require := require.New(t)

	keys := newTestKeys(t, 2)
	cfg, err := validator.NewConfig(100, weightedSet(keys, 50))
	require.NoError(err)
	account := validator.BindAccount(testFactory, cfg, 1)

	chainA := newFakeChain(1, cfg)
	chainB := newFakeChain(2, cfg)
	chainB.neverInclude = true

	noncesA := chainA.nonces()
	noncesB := chainB.nonces()

	p := New(luxlog.NewNoOpLogger(), keys)
	results, err := p.ExecuteAcrossChains(context.Background(), []Target{
		chainA.target(account, noncesA),
		chainB.target(account, noncesB),
	}, operation.NoopProbe())
	require.NoError(err)
	require.Len(results, 2)

	// chain A's confirmation stands regardless of chain B's timeout
	require.Equal(uint64(1), results[0].ChainID)
	require.NoError(results[0].Err)
	require.Equal(operation.StatusConfirmed, results[0].Op.Status)

	require.Equal(uint64(2), results[1].ChainID)
	require.ErrorIs(results[1].Err, relay.ErrReceiptTimeout)
	require.Equal(operation.StatusTimedOut, results[1].Op.Status)
}

func TestDuplicateNonceIsSafeNoop(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	keys := newTestKeys(t, 2)
	cfg, err := validator.NewConfig(100, weightedSet(keys, 50))
	require.NoError(err)
	account := validator.BindAccount(testFactory, cfg, 1)
	chain := newFakeChain(1, cfg)

	p := New(luxlog.NewNoOpLogger(), keys)

	result, err := p.Execute(ctx, chain.target(account, chain.nonces()), operation.NoopProbe())
	require.NoError(err)
	require.Equal(operation.StatusConfirmed, result.Op.Status)

	// a second client reserving from stale chain state lands on the slot the
	// first execution already consumed
	result, err = p.Execute(ctx, chain.target(account, fixedNonce(0)), operation.NoopProbe())
	require.Error(err)
	require.False(errors.Is(err, relay.ErrQuorumRejected))
	require.Equal(operation.StatusSigned, result.Op.Status)

	// rejected, never executed twice
	require.Equal(1, chain.executions)
}
