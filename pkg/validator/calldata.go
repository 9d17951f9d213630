// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package validator

import (
	"fmt"

	"github.com/luxfi/geth/accounts/abi"
	"github.com/luxfi/geth/crypto"
)

// Account contract methods. updateConfig rewrites the stored validator
// configuration; it only executes when signed by a quorum of the OUTGOING
// configuration, which the chain enforces.
var (
	updateConfigSelector = crypto.Keccak256([]byte("updateConfig(bytes)"))[:4]
	getConfigSelector    = crypto.Keccak256([]byte("getConfig()"))[:4]

	bytesArguments abi.Arguments
)

func init() {
	bytesType, err := abi.NewType("bytes", "", nil)
	if err != nil {
		panic(err)
	}
	bytesArguments = abi.Arguments{{Type: bytesType}}
}

// UpdateConfigCalldata builds the call that rewrites the on-chain validator
// configuration to newCfg. The call targets the account itself.
func UpdateConfigCalldata(newCfg Config) ([]byte, error) {
	packed, err := bytesArguments.Pack(newCfg.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to pack config update calldata: %w", err)
	}
	return append(append([]byte{}, updateConfigSelector...), packed...), nil
}

// GetConfigCalldata builds the read call returning the active configuration.
func GetConfigCalldata() []byte {
	return append([]byte{}, getConfigSelector...)
}
