// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package key

import (
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/luxfi/msig/pkg/constants"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/crypto"
)

var (
	ErrInvalidPrivateKey    = errors.New("invalid private key")
	ErrInvalidPrivateKeyLen = errors.New("invalid private key length (expect 32 bytes in hex)")
	ErrInvalidSignatureLen  = errors.New("invalid signature length (expect 65 bytes)")
)

// SoftKey is an in-memory secp256k1 signer. The process exclusively owns the
// key material; nothing here persists it beyond an explicit Save.
type SoftKey struct {
	privKey *ecdsa.PrivateKey
}

// NewSoftKey generates a fresh random key.
func NewSoftKey() (*SoftKey, error) {
	privKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate private key: %w", err)
	}
	return &SoftKey{privKey: privKey}, nil
}

// NewSoftKeyFromHex loads a key from its hex encoding, with or without the 0x
// prefix.
func NewSoftKeyFromHex(privKeyHex string) (*SoftKey, error) {
	privKeyHex = strings.TrimPrefix(strings.TrimSpace(privKeyHex), "0x")
	if len(privKeyHex) != 2*common.HashLength {
		return nil, ErrInvalidPrivateKeyLen
	}
	privKey, err := crypto.HexToECDSA(privKeyHex)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPrivateKey, err)
	}
	return &SoftKey{privKey: privKey}, nil
}

// LoadSoftKey reads a hex-encoded key file as written by Save.
func LoadSoftKey(keyPath string) (*SoftKey, error) {
	keyBytes, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file %s: %w", keyPath, err)
	}
	return NewSoftKeyFromHex(string(keyBytes))
}

// Save writes the key hex-encoded, readable only by the owner.
func (k *SoftKey) Save(keyPath string) error {
	if err := os.MkdirAll(filepath.Dir(keyPath), constants.DefaultPerms755); err != nil {
		return fmt.Errorf("failed to create key directory: %w", err)
	}
	return os.WriteFile(keyPath, []byte(k.PrivKeyHex()), constants.ReadWriteUserPerms)
}

// Address returns the signer identity derived from the public key.
func (k *SoftKey) Address() common.Address {
	return crypto.PubkeyToAddress(k.privKey.PublicKey)
}

func (k *SoftKey) PrivKeyHex() string {
	return hex.EncodeToString(crypto.FromECDSA(k.privKey))
}

// SignHash produces a 65-byte [R || S || V] signature over the given digest.
func (k *SoftKey) SignHash(digest common.Hash) ([]byte, error) {
	sig, err := crypto.Sign(digest.Bytes(), k.privKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign digest: %w", err)
	}
	return sig, nil
}

// RecoverSigner returns the address that produced sig over digest.
func RecoverSigner(digest common.Hash, sig []byte) (common.Address, error) {
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, ErrInvalidSignatureLen
	}
	pubKey, err := crypto.SigToPub(digest.Bytes(), sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover signer: %w", err)
	}
	return crypto.PubkeyToAddress(*pubKey), nil
}

// ListKeys returns the names of the stored keys in keyDir, sorted.
func ListKeys(keyDir string) ([]string, error) {
	entries, err := os.ReadDir(keyDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), constants.KeySuffix) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), constants.KeySuffix))
	}
	sort.Strings(names)
	return names, nil
}
