// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package validator

import (
	"context"
	"fmt"
	"time"

	"github.com/luxfi/msig/pkg/constants"

	ethereum "github.com/luxfi/geth"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/ethclient"
)

// Reader queries the on-chain validator configuration. Verification path
// only; the write path goes through the operation pipeline.
type Reader struct {
	client  *ethclient.Client
	timeout time.Duration
}

func NewReader(rpcURL string) (*Reader, error) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial chain RPC: %w", err)
	}
	return &Reader{
		client:  client,
		timeout: constants.APIRequestTimeout,
	}, nil
}

// ReadConfig returns the configuration currently bound to the account.
func (r *Reader) ReadConfig(ctx context.Context, account common.Address) (Config, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.client.CallContract(ctx, ethereum.CallMsg{
		To:   &account,
		Data: GetConfigCalldata(),
	}, nil)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read account config: %w", err)
	}
	values, err := bytesArguments.Unpack(result)
	if err != nil {
		return Config{}, fmt.Errorf("failed to unpack account config: %w", err)
	}
	encoded, ok := values[0].([]byte)
	if !ok {
		return Config{}, fmt.Errorf("unexpected config return type %T", values[0])
	}
	return DecodeConfig(encoded)
}

// Nonce returns the next unused operation nonce for the account, as tracked
// by the chain.
func (r *Reader) Nonce(ctx context.Context, account common.Address) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	nonce, err := r.client.NonceAt(ctx, account, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to read account nonce: %w", err)
	}
	return nonce, nil
}

func (r *Reader) Close() {
	if r.client != nil {
		r.client.Close()
	}
}
