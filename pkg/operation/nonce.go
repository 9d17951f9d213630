// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package operation

import (
	"context"
	"fmt"
	"sync"

	"github.com/luxfi/geth/common"
)

// NonceSource hands out operation nonces. Implementations must guarantee two
// concurrent reservations for the same (chain, account) never return the same
// value.
type NonceSource interface {
	ReserveNonce(ctx context.Context, chainID uint64, account common.Address) (uint64, error)
}

// ChainNonceFunc reads the next unused nonce from the chain.
type ChainNonceFunc func(ctx context.Context, chainID uint64, account common.Address) (uint64, error)

type nonceKey struct {
	chainID uint64
	account common.Address
}

// Nonces is the in-process nonce counter per (account, chain). The first
// reservation for a pair seeds from the chain; the read and the reservation
// happen under one lock so concurrent builders cannot race for a slot.
type Nonces struct {
	mu    sync.Mutex
	fetch ChainNonceFunc
	next  map[nonceKey]uint64
}

func NewNonces(fetch ChainNonceFunc) *Nonces {
	return &Nonces{
		fetch: fetch,
		next:  map[nonceKey]uint64{},
	}
}

func (n *Nonces) ReserveNonce(ctx context.Context, chainID uint64, account common.Address) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	k := nonceKey{chainID: chainID, account: account}
	if _, seeded := n.next[k]; !seeded {
		onchain, err := n.fetch(ctx, chainID, account)
		if err != nil {
			return 0, fmt.Errorf("failed to seed nonce for account %s on chain %d: %w", account, chainID, err)
		}
		n.next[k] = onchain
	}
	nonce := n.next[k]
	n.next[k] = nonce + 1
	return nonce, nil
}

var _ NonceSource = (*Nonces)(nil)
