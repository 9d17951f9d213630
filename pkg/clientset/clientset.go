// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package clientset wires a chain's configured endpoints into the concrete
// RPC clients the pipeline consumes.
package clientset

import (
	"context"
	"fmt"

	"github.com/luxfi/msig/pkg/config"
	"github.com/luxfi/msig/pkg/operation"
	"github.com/luxfi/msig/pkg/pipeline"
	"github.com/luxfi/msig/pkg/relay"
	"github.com/luxfi/msig/pkg/sponsor"
	"github.com/luxfi/msig/pkg/validator"

	"github.com/luxfi/geth/common"
)

// Set holds the per-chain clients: chain RPC reader, paymaster, bundler.
type Set struct {
	Chain   config.ChainConfig
	Reader  *validator.Reader
	Sponsor *sponsor.Client
	Relay   *relay.Client
}

func ForChain(chain config.ChainConfig) (*Set, error) {
	reader, err := validator.NewReader(chain.RPCURL)
	if err != nil {
		return nil, err
	}
	sponsorClient, err := sponsor.NewClient(chain.PaymasterURL)
	if err != nil {
		reader.Close()
		return nil, err
	}
	relayClient, err := relay.NewClient(chain.BundlerURL)
	if err != nil {
		reader.Close()
		sponsorClient.Close()
		return nil, err
	}
	return &Set{
		Chain:   chain,
		Reader:  reader,
		Sponsor: sponsorClient,
		Relay:   relayClient,
	}, nil
}

func ForChains(chains []config.ChainConfig) ([]*Set, error) {
	sets := make([]*Set, 0, len(chains))
	for _, chain := range chains {
		set, err := ForChain(chain)
		if err != nil {
			CloseAll(sets)
			return nil, err
		}
		sets = append(sets, set)
	}
	return sets, nil
}

func (s *Set) Close() {
	s.Reader.Close()
	s.Sponsor.Close()
	s.Relay.Close()
}

func CloseAll(sets []*Set) {
	for _, set := range sets {
		set.Close()
	}
}

// Nonces builds the shared nonce counter over the sets' chain readers.
func Nonces(sets []*Set) *operation.Nonces {
	readers := map[uint64]*validator.Reader{}
	for _, set := range sets {
		readers[set.Chain.ChainID] = set.Reader
	}
	return operation.NewNonces(func(ctx context.Context, chainID uint64, account common.Address) (uint64, error) {
		reader, ok := readers[chainID]
		if !ok {
			return 0, fmt.Errorf("no RPC client for chain %d", chainID)
		}
		return reader.Nonce(ctx, account)
	})
}

// Target binds an account and a nonce source to this chain's clients.
func (s *Set) Target(account validator.Account, nonces operation.NonceSource) pipeline.Target {
	return pipeline.Target{
		Account: validator.BindExistingAccount(account.Address, account.Config, s.Chain.ChainID),
		Sponsor: s.Sponsor,
		Relay:   s.Relay,
		Nonces:  nonces,
	}
}
