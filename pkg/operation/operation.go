// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package operation

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/luxfi/msig/pkg/key"
	"github.com/luxfi/msig/pkg/validator"

	"github.com/luxfi/geth/accounts/abi"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/common/hexutil"
	"github.com/luxfi/geth/crypto"
)

var (
	ErrBadTransition      = errors.New("illegal operation status transition")
	ErrNotSponsored       = errors.New("operation has no sponsorship attached")
	ErrNotMember          = errors.New("signer is not a member of the validator config")
	ErrDuplicateSignature = errors.New("signer already signed this operation")
	ErrSignerMismatch     = errors.New("signature does not recover to the claimed signer")
	ErrQuorumNotReached   = errors.New("collected signature weight is below the threshold")
)

// operationDomain separates operation digests from any other signed payload.
var operationDomain = crypto.Keccak256Hash([]byte("MSIG_ACCOUNT_OPERATION"))

var digestArguments abi.Arguments

func init() {
	bytes32Type, err := abi.NewType("bytes32", "", nil)
	if err != nil {
		panic(err)
	}
	uint64Type, err := abi.NewType("uint64", "", nil)
	if err != nil {
		panic(err)
	}
	addressType, err := abi.NewType("address", "", nil)
	if err != nil {
		panic(err)
	}
	uint256Type, err := abi.NewType("uint256", "", nil)
	if err != nil {
		panic(err)
	}
	digestArguments = abi.Arguments{
		{Type: bytes32Type}, // domain
		{Type: uint64Type},  // chain id
		{Type: addressType}, // account
		{Type: uint64Type},  // nonce
		{Type: addressType}, // intent target
		{Type: uint256Type}, // intent value
		{Type: bytes32Type}, // keccak(intent data)
		{Type: bytes32Type}, // keccak(paymaster-and-data)
		{Type: uint64Type},  // sponsorship valid-until
	}
}

// Sponsorship is the paymaster's fee payment authorization for one operation.
type Sponsorship struct {
	PaymasterAndData hexutil.Bytes `json:"paymaster-and-data"`
	ValidUntil       uint64        `json:"valid-until"`
}

// SignerSig is one quorum member's signature over the operation digest.
type SignerSig struct {
	Signer common.Address `json:"signer"`
	Sig    hexutil.Bytes  `json:"sig"`
}

// Operation is an intent on its way through
// BUILT -> SPONSORED -> SIGNED -> SUBMITTED -> {CONFIRMED | FAILED | TIMED_OUT}.
// Signatures are kept ordered by signer address ascending so on-chain
// verification is deterministic.
type Operation struct {
	ChainID     uint64         `json:"chain-id"`
	Account     common.Address `json:"account"`
	Nonce       uint64         `json:"nonce"`
	Intent      Intent         `json:"intent"`
	Sponsorship *Sponsorship   `json:"sponsorship,omitempty"`
	Sigs        []SignerSig    `json:"sigs"`
	Status      Status         `json:"status"`
	Hash        common.Hash    `json:"hash,omitempty"`
}

// New builds an operation in BUILT status. The nonce must come from a
// NonceSource so concurrent builders never collide.
func New(chainID uint64, account common.Address, nonce uint64, intent Intent) *Operation {
	return &Operation{
		ChainID: chainID,
		Account: account,
		Nonce:   nonce,
		Intent:  intent,
		Status:  StatusBuilt,
	}
}

func (op *Operation) advance(next Status) error {
	if !op.Status.canAdvanceTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrBadTransition, op.Status, next)
	}
	op.Status = next
	return nil
}

// AttachSponsorship moves BUILT -> SPONSORED. The digest covers the
// sponsorship, so it must be attached before any signature is collected.
func (op *Operation) AttachSponsorship(s *Sponsorship) error {
	if err := op.advance(StatusSponsored); err != nil {
		return err
	}
	op.Sponsorship = s
	return nil
}

// Digest is the exact (intent, sponsorship, nonce) tuple every quorum member
// signs, domain separated and chain scoped.
func (op *Operation) Digest() common.Hash {
	var pmd []byte
	var validUntil uint64
	if op.Sponsorship != nil {
		pmd = op.Sponsorship.PaymasterAndData
		validUntil = op.Sponsorship.ValidUntil
	}
	packed, err := digestArguments.Pack(
		operationDomain,
		op.ChainID,
		op.Account,
		op.Nonce,
		op.Intent.To,
		op.Intent.Value,
		crypto.Keccak256Hash(op.Intent.Data),
		crypto.Keccak256Hash(pmd),
		validUntil,
	)
	if err != nil {
		panic(fmt.Sprintf("failed to pack operation digest: %s", err))
	}
	return crypto.Keccak256Hash(packed)
}

// AddSignature records one member's signature, keeping the set ordered by
// signer address and rejecting non-members, duplicates and forgeries. When
// the accumulated weight reaches the threshold the operation moves
// SPONSORED -> SIGNED; further signatures are rejected as bad transitions.
func (op *Operation) AddSignature(cfg validator.Config, signer common.Address, sig []byte) error {
	if op.Status != StatusSponsored {
		return fmt.Errorf("%w: cannot sign in status %s", ErrBadTransition, op.Status)
	}
	if _, ok := cfg.Weight(signer); !ok {
		return fmt.Errorf("%w: %s", ErrNotMember, signer)
	}
	recovered, err := key.RecoverSigner(op.Digest(), sig)
	if err != nil {
		return err
	}
	if recovered != signer {
		return fmt.Errorf("%w: got %s, want %s", ErrSignerMismatch, recovered, signer)
	}
	idx := len(op.Sigs)
	for i, existing := range op.Sigs {
		cmp := bytes.Compare(signer.Bytes(), existing.Signer.Bytes())
		if cmp == 0 {
			return fmt.Errorf("%w: %s", ErrDuplicateSignature, signer)
		}
		if cmp < 0 {
			idx = i
			break
		}
	}
	op.Sigs = append(op.Sigs, SignerSig{})
	copy(op.Sigs[idx+1:], op.Sigs[idx:])
	op.Sigs[idx] = SignerSig{Signer: signer, Sig: append([]byte{}, sig...)}

	if op.QuorumReached(cfg) {
		return op.advance(StatusSigned)
	}
	return nil
}

// SignWith runs one signing session: each key signs the digest in turn.
// Partial sessions are fine; the operation stays SPONSORED until the quorum
// weight is reached.
func (op *Operation) SignWith(cfg validator.Config, signers []*key.SoftKey) error {
	for _, signer := range signers {
		sig, err := signer.SignHash(op.Digest())
		if err != nil {
			return err
		}
		if err := op.AddSignature(cfg, signer.Address(), sig); err != nil {
			return err
		}
	}
	return nil
}

// SignedWeight sums the weights of the signers collected so far.
func (op *Operation) SignedWeight(cfg validator.Config) uint64 {
	total := uint64(0)
	for _, sig := range op.Sigs {
		weight, _ := cfg.Weight(sig.Signer)
		total += weight
	}
	return total
}

// QuorumReached reports whether the collected weight meets the threshold.
func (op *Operation) QuorumReached(cfg validator.Config) bool {
	return op.SignedWeight(cfg) >= cfg.Threshold
}

// MarkSubmitted records the relay's tracking handle, SIGNED -> SUBMITTED.
func (op *Operation) MarkSubmitted(hash common.Hash) error {
	if err := op.advance(StatusSubmitted); err != nil {
		return err
	}
	op.Hash = hash
	return nil
}

func (op *Operation) MarkConfirmed() error {
	return op.advance(StatusConfirmed)
}

func (op *Operation) MarkFailed() error {
	return op.advance(StatusFailed)
}

// MarkTimedOut means inclusion status unknown, NOT definitively excluded.
// Re-query before any resubmission decision.
func (op *Operation) MarkTimedOut() error {
	return op.advance(StatusTimedOut)
}
