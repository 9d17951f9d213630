// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package operation models the account operations a quorum signs and a relay
// executes: intent construction, sponsorship, signature collection and the
// submission lifecycle.
package operation

import (
	"errors"
	"math/big"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/common/hexutil"
)

var ErrNegativeValue = errors.New("intent value must not be negative")

// Intent is the unsigned description of what the account should do.
// Immutable once constructed.
type Intent struct {
	To    common.Address `json:"to"`
	Value *big.Int       `json:"value"`
	Data  hexutil.Bytes  `json:"data"`
}

// NewIntent validates and builds an intent. A nil value means zero. The
// zero-value, zero-data intent against the zero address is a valid no-op
// probe (see NoopProbe).
func NewIntent(to common.Address, value *big.Int, data []byte) (Intent, error) {
	if value == nil {
		value = new(big.Int)
	}
	if value.Sign() < 0 {
		return Intent{}, ErrNegativeValue
	}
	return Intent{
		To:    to,
		Value: new(big.Int).Set(value),
		Data:  append([]byte{}, data...),
	}, nil
}

// NoopProbe is the canonical liveness probe: does nothing on-chain but still
// exercises sponsorship, quorum signing and inclusion.
func NoopProbe() Intent {
	return Intent{
		To:    common.Address{},
		Value: new(big.Int),
		Data:  []byte{},
	}
}
