// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package relay submits signed operations to a bundler endpoint and tracks
// them to a receipt.
package relay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/luxfi/msig/pkg/constants"
	"github.com/luxfi/msig/pkg/operation"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/common/hexutil"
	"github.com/luxfi/geth/rpc"
)

var (
	// ErrQuorumRejected: the chain refused the operation because the signing
	// quorum's weight does not meet the active threshold. Terminal.
	ErrQuorumRejected = errors.New("operation rejected: signature weight below threshold")
	// ErrExecutionReverted: the operation was included but reverted. Terminal
	// for this operation; inspect the revert reason.
	ErrExecutionReverted = errors.New("operation reverted on-chain")
	// ErrReceiptTimeout: no receipt within the bounded wait. Inclusion status
	// is UNKNOWN; re-query before deciding to resubmit.
	ErrReceiptTimeout = errors.New("timed out waiting for operation receipt")
)

// signatureRejectedCode is the JSON-RPC error code for a failed signature
// check at submission time.
const signatureRejectedCode = -32507

// Receipt is the inclusion result for a submitted operation.
type Receipt struct {
	OperationHash common.Hash    `json:"operationHash"`
	TxHash        common.Hash    `json:"txHash"`
	BlockNumber   hexutil.Uint64 `json:"blockNumber"`
	Success       bool           `json:"success"`
	RevertReason  string         `json:"revertReason,omitempty"`
}

// Client talks to one bundler endpoint.
type Client struct {
	rpcClient    *rpc.Client
	timeout      time.Duration
	pollInterval time.Duration
	waitTimeout  time.Duration
}

func NewClient(bundlerURL string) (*Client, error) {
	rpcClient, err := rpc.Dial(bundlerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial bundler RPC: %w", err)
	}
	return &Client{
		rpcClient:    rpcClient,
		timeout:      constants.SubmitTimeout,
		pollInterval: constants.ReceiptPollInterval,
		waitTimeout:  constants.ReceiptWaitTimeout,
	}, nil
}

// Submit hands a fully signed operation to the bundler and returns the
// tracking hash. Submitting a nonce the chain has already consumed is a safe
// no-op rejection, never a double execution.
func (c *Client) Submit(ctx context.Context, op *operation.Operation) (common.Hash, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var opHash common.Hash
	err := c.rpcClient.CallContext(ctx, &opHash, "lux_sendOperation", op)
	if err != nil {
		var rpcErr rpc.Error
		if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == signatureRejectedCode {
			return common.Hash{}, fmt.Errorf("%w: %s", ErrQuorumRejected, rpcErr.Error())
		}
		return common.Hash{}, fmt.Errorf("operation submission failed: %w", err)
	}
	return opHash, nil
}

// Receipt fetches the receipt for a tracking hash. A nil receipt with nil
// error means the operation is not (yet) included.
func (c *Client) Receipt(ctx context.Context, opHash common.Hash) (*Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var receipt *Receipt
	err := c.rpcClient.CallContext(ctx, &receipt, "lux_getOperationReceipt", opHash)
	if err != nil {
		return nil, fmt.Errorf("receipt query failed: %w", err)
	}
	return receipt, nil
}

// WaitForReceipt polls until inclusion, revert, or the bounded wait elapses.
func (c *Client) WaitForReceipt(ctx context.Context, opHash common.Hash) (*Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, c.waitTimeout)
	defer cancel()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	for {
		receipt, err := c.Receipt(ctx, opHash)
		if err == nil && receipt != nil {
			if !receipt.Success {
				return receipt, fmt.Errorf("%w: %s", ErrExecutionReverted, receipt.RevertReason)
			}
			return receipt, nil
		}
		// not yet included, or a transient query failure: keep polling
		// until the deadline
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s", ErrReceiptTimeout, opHash)
		case <-ticker.C:
		}
	}
}

func (c *Client) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}
