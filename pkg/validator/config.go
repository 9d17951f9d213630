// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package validator builds and reads the threshold/signer-set configuration
// that governs a multisig smart account.
package validator

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/luxfi/geth/accounts/abi"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/crypto"
)

var (
	ErrNonPositiveThreshold = errors.New("threshold must be positive")
	ErrEmptySignerSet       = errors.New("signer set must not be empty")
	ErrZeroWeight           = errors.New("signer weight must be positive")
	ErrDuplicateSigner      = errors.New("duplicate signer in set")
)

// configArguments is the canonical ABI layout of a validator configuration:
// (uint64 threshold, address[] signers, uint64[] weights).
var configArguments abi.Arguments

func init() {
	uint64Type, err := abi.NewType("uint64", "", nil)
	if err != nil {
		panic(err)
	}
	addressSliceType, err := abi.NewType("address[]", "", nil)
	if err != nil {
		panic(err)
	}
	uint64SliceType, err := abi.NewType("uint64[]", "", nil)
	if err != nil {
		panic(err)
	}
	configArguments = abi.Arguments{
		{Type: uint64Type},
		{Type: addressSliceType},
		{Type: uint64SliceType},
	}
}

// WeightedSigner pairs a signer identity with its voting weight.
type WeightedSigner struct {
	Addr   common.Address `json:"addr"`
	Weight uint64         `json:"weight"`
}

// Config is a canonicalized validator configuration. Build it with NewConfig;
// the signer set is kept sorted by address so two configs with the same
// content encode byte-identically no matter the input order.
type Config struct {
	Threshold uint64           `json:"threshold"`
	Signers   []WeightedSigner `json:"signers"`
}

// NewConfig validates and canonicalizes a configuration. Note there is
// deliberately no check that the weights can ever sum to the threshold: an
// unsatisfiable config is accepted here and rejected by the chain when a
// quorum is actually required.
func NewConfig(threshold uint64, signers []WeightedSigner) (Config, error) {
	if threshold == 0 {
		return Config{}, ErrNonPositiveThreshold
	}
	if len(signers) == 0 {
		return Config{}, ErrEmptySignerSet
	}
	canonical := make([]WeightedSigner, len(signers))
	copy(canonical, signers)
	sort.Slice(canonical, func(i, j int) bool {
		return bytes.Compare(canonical[i].Addr.Bytes(), canonical[j].Addr.Bytes()) < 0
	})
	for i, signer := range canonical {
		if signer.Weight == 0 {
			return Config{}, fmt.Errorf("%w: %s", ErrZeroWeight, signer.Addr)
		}
		if i > 0 && signer.Addr == canonical[i-1].Addr {
			return Config{}, fmt.Errorf("%w: %s", ErrDuplicateSigner, signer.Addr)
		}
	}
	return Config{Threshold: threshold, Signers: canonical}, nil
}

// Encode returns the canonical ABI encoding of the configuration.
func (c Config) Encode() []byte {
	addrs := make([]common.Address, len(c.Signers))
	weights := make([]uint64, len(c.Signers))
	for i, signer := range c.Signers {
		addrs[i] = signer.Addr
		weights[i] = signer.Weight
	}
	encoded, err := configArguments.Pack(c.Threshold, addrs, weights)
	if err != nil {
		// only reachable with a config not built through NewConfig
		panic(fmt.Sprintf("failed to encode validator config: %s", err))
	}
	return encoded
}

// ID is the validator handle: the keccak hash of the canonical encoding.
func (c Config) ID() common.Hash {
	return crypto.Keccak256Hash(c.Encode())
}

// Describe implements the Validator capability.
func (c Config) Describe() Config {
	return c
}

// Weight returns the weight of addr in the set, and whether it is a member.
func (c Config) Weight(addr common.Address) (uint64, bool) {
	for _, signer := range c.Signers {
		if signer.Addr == addr {
			return signer.Weight, true
		}
	}
	return 0, false
}

// TotalWeight sums all signer weights.
func (c Config) TotalWeight() uint64 {
	total := uint64(0)
	for _, signer := range c.Signers {
		total += signer.Weight
	}
	return total
}

// DecodeConfig parses the canonical encoding back into a Config.
func DecodeConfig(data []byte) (Config, error) {
	values, err := configArguments.Unpack(data)
	if err != nil {
		return Config{}, fmt.Errorf("failed to decode validator config: %w", err)
	}
	threshold, ok := values[0].(uint64)
	if !ok {
		return Config{}, fmt.Errorf("unexpected threshold type %T", values[0])
	}
	addrs, ok := values[1].([]common.Address)
	if !ok {
		return Config{}, fmt.Errorf("unexpected signers type %T", values[1])
	}
	weights, ok := values[2].([]uint64)
	if !ok {
		return Config{}, fmt.Errorf("unexpected weights type %T", values[2])
	}
	if len(addrs) != len(weights) {
		return Config{}, fmt.Errorf("signer/weight length mismatch: %d != %d", len(addrs), len(weights))
	}
	signers := make([]WeightedSigner, len(addrs))
	for i := range addrs {
		signers[i] = WeightedSigner{Addr: addrs[i], Weight: weights[i]}
	}
	return NewConfig(threshold, signers)
}

// Validator is anything that can occupy the account's sudo validator slot.
type Validator interface {
	ID() common.Hash
	Describe() Config
}

var _ Validator = Config{}
