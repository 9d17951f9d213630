// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package sponsor obtains fee sponsorship for account operations from a
// paymaster endpoint.
package sponsor

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/luxfi/msig/pkg/constants"
	"github.com/luxfi/msig/pkg/operation"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/common/hexutil"
	"github.com/luxfi/geth/rpc"
)

// ErrPolicyRejected is a terminal denial by the paymaster's sponsorship
// policy. Do not retry; transport failures propagate as plain wrapped errors
// and ARE the caller's to retry.
var ErrPolicyRejected = errors.New("sponsorship rejected by paymaster policy")

// paymasterRejectedCode is the JSON-RPC error code paymasters return for a
// policy denial.
const paymasterRejectedCode = -32501

type sponsorRequest struct {
	ChainID hexutil.Uint64 `json:"chainId"`
	Account common.Address `json:"account"`
	Nonce   hexutil.Uint64 `json:"nonce"`
	To      common.Address `json:"to"`
	Value   *hexutil.Big   `json:"value"`
	Data    hexutil.Bytes  `json:"data"`
}

type sponsorResult struct {
	PaymasterAndData hexutil.Bytes  `json:"paymasterAndData"`
	ValidUntil       hexutil.Uint64 `json:"validUntil"`
}

// Client talks to one paymaster endpoint.
type Client struct {
	rpcClient *rpc.Client
	timeout   time.Duration
}

func NewClient(paymasterURL string) (*Client, error) {
	rpcClient, err := rpc.Dial(paymasterURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial paymaster RPC: %w", err)
	}
	return &Client{
		rpcClient: rpcClient,
		timeout:   constants.SponsorTimeout,
	}, nil
}

// Sponsor requests fee sponsorship for one (account, nonce, intent) tuple.
// No internal retry: transient transport errors surface wrapped for the
// caller to back off on, a policy denial surfaces as ErrPolicyRejected.
func (c *Client) Sponsor(
	ctx context.Context,
	chainID uint64,
	account common.Address,
	intent operation.Intent,
	nonce uint64,
) (*operation.Sponsorship, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	value := intent.Value
	if value == nil {
		value = new(big.Int)
	}
	var result sponsorResult
	err := c.rpcClient.CallContext(ctx, &result, "pm_sponsorOperation", sponsorRequest{
		ChainID: hexutil.Uint64(chainID),
		Account: account,
		Nonce:   hexutil.Uint64(nonce),
		To:      intent.To,
		Value:   (*hexutil.Big)(value),
		Data:    intent.Data,
	})
	if err != nil {
		var rpcErr rpc.Error
		if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == paymasterRejectedCode {
			return nil, fmt.Errorf("%w: %s", ErrPolicyRejected, rpcErr.Error())
		}
		return nil, fmt.Errorf("sponsorship request failed: %w", err)
	}
	return &operation.Sponsorship{
		PaymasterAndData: result.PaymasterAndData,
		ValidUntil:       uint64(result.ValidUntil),
	}, nil
}

func (c *Client) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}
