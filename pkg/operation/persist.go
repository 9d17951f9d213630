// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package operation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/luxfi/msig/pkg/constants"

	"github.com/luxfi/geth/common"
)

// SaveToDisk writes the operation for a later signing or commit session.
// Sponsorship and any partial signature set ride along, so several parties
// can sign the same file in turn.
func SaveToDisk(opPath string, op *Operation) error {
	opBytes, err := json.MarshalIndent(op, "", "  ")
	if err != nil {
		return fmt.Errorf("couldn't marshal operation: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(opPath), constants.DefaultPerms755); err != nil {
		return fmt.Errorf("couldn't create ops directory: %w", err)
	}
	if err := os.WriteFile(opPath, opBytes, constants.WriteReadReadPerms); err != nil {
		return fmt.Errorf("couldn't write operation to file %s: %w", opPath, err)
	}
	return nil
}

// LoadFromDisk reads an operation written by SaveToDisk.
func LoadFromDisk(opPath string) (*Operation, error) {
	opBytes, err := os.ReadFile(opPath)
	if err != nil {
		return nil, fmt.Errorf("couldn't read operation file %s: %w", opPath, err)
	}
	op := &Operation{}
	if err := json.Unmarshal(opBytes, op); err != nil {
		return nil, fmt.Errorf("couldn't unmarshal operation file %s: %w", opPath, err)
	}
	return op, nil
}

// HighestPendingNonce scans the stored operation files for (chainID, account)
// and returns the highest nonce claimed by any of them. The digest pins an
// operation's nonce at build time, so a new operation file must skip every
// slot an existing file claims even though the chain has not seen those
// nonces yet. Terminal on-chain statuses are included too; their slots are
// already behind the chain's nonce, so counting them is harmless.
func HighestPendingNonce(opsDir string, chainID uint64, account common.Address) (uint64, bool, error) {
	entries, err := os.ReadDir(opsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("couldn't read ops directory %s: %w", opsDir, err)
	}
	highest := uint64(0)
	found := false
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), constants.OpSuffix) {
			continue
		}
		op, err := LoadFromDisk(filepath.Join(opsDir, entry.Name()))
		if err != nil {
			return 0, false, err
		}
		if op.ChainID != chainID || op.Account != account {
			continue
		}
		if !found || op.Nonce > highest {
			highest = op.Nonce
			found = true
		}
	}
	return highest, found, nil
}
