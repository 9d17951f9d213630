// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package validator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/luxfi/msig/pkg/constants"
)

// SaveAccount persists an account descriptor (address + bound config).
func SaveAccount(accountPath string, account Account) error {
	accountBytes, err := json.MarshalIndent(account, "", "  ")
	if err != nil {
		return fmt.Errorf("couldn't marshal account: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(accountPath), constants.DefaultPerms755); err != nil {
		return fmt.Errorf("couldn't create accounts directory: %w", err)
	}
	if err := os.WriteFile(accountPath, accountBytes, constants.WriteReadReadPerms); err != nil {
		return fmt.Errorf("couldn't write account to file %s: %w", accountPath, err)
	}
	return nil
}

// LoadAccount reads an account descriptor written by SaveAccount.
func LoadAccount(accountPath string) (Account, error) {
	accountBytes, err := os.ReadFile(accountPath)
	if err != nil {
		return Account{}, fmt.Errorf("couldn't read account file %s: %w", accountPath, err)
	}
	var account Account
	if err := json.Unmarshal(accountBytes, &account); err != nil {
		return Account{}, fmt.Errorf("couldn't unmarshal account file %s: %w", accountPath, err)
	}
	return account, nil
}
