// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package validator

import (
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/crypto"
)

// accountInitCodeHash stands in for the init code of the account proxy
// deployed by the factory. The factory pins this, so the account address is a
// pure function of (factory, initial config).
var accountInitCodeHash = crypto.Keccak256([]byte("msig.account.v1"))

// Account is a smart account on a single chain. The same address may exist on
// several chains; each (address, chain) pair is its own Account with its own
// bound config and nonce sequence.
type Account struct {
	Address common.Address `json:"address"`
	ChainID uint64         `json:"chain-id"`
	Config  Config         `json:"config"`
}

// DeriveAccountAddress computes the counterfactual account address for an
// initial configuration, CREATE2 style with the config ID as salt.
func DeriveAccountAddress(factory common.Address, cfg Config) common.Address {
	return crypto.CreateAddress2(factory, cfg.ID(), accountInitCodeHash)
}

// BindAccount creates the account bound to its initial validator config.
func BindAccount(factory common.Address, cfg Config, chainID uint64) Account {
	return Account{
		Address: DeriveAccountAddress(factory, cfg),
		ChainID: chainID,
		Config:  cfg,
	}
}

// BindExistingAccount binds a known account address to a validator config,
// used to resume control of an already deployed account.
func BindExistingAccount(addr common.Address, cfg Config, chainID uint64) Account {
	return Account{
		Address: addr,
		ChainID: chainID,
		Config:  cfg,
	}
}

// Rebind switches the account to a new validator config after a confirmed
// config update. The address never changes.
func (a *Account) Rebind(cfg Config) {
	a.Config = cfg
}
