// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package key

import (
	"path/filepath"
	"testing"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/crypto"
	"github.com/stretchr/testify/require"
)

func TestNewSoftKeyFromHex(t *testing.T) {
	require := require.New(t)

	// well-known test vector: private key 1
	k, err := NewSoftKeyFromHex("0x0000000000000000000000000000000000000000000000000000000000000001")
	require.NoError(err)
	require.Equal(common.HexToAddress("0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf"), k.Address())

	_, err = NewSoftKeyFromHex("abcd")
	require.ErrorIs(err, ErrInvalidPrivateKeyLen)

	_, err = NewSoftKeyFromHex("zz00000000000000000000000000000000000000000000000000000000000001")
	require.ErrorIs(err, ErrInvalidPrivateKey)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	require := require.New(t)

	k, err := NewSoftKey()
	require.NoError(err)

	keyPath := filepath.Join(t.TempDir(), "test.pk")
	require.NoError(k.Save(keyPath))

	loaded, err := LoadSoftKey(keyPath)
	require.NoError(err)
	require.Equal(k.Address(), loaded.Address())
	require.Equal(k.PrivKeyHex(), loaded.PrivKeyHex())
}

func TestSignAndRecover(t *testing.T) {
	require := require.New(t)

	k, err := NewSoftKey()
	require.NoError(err)

	digest := crypto.Keccak256Hash([]byte("payload"))
	sig, err := k.SignHash(digest)
	require.NoError(err)
	require.Len(sig, crypto.SignatureLength)

	recovered, err := RecoverSigner(digest, sig)
	require.NoError(err)
	require.Equal(k.Address(), recovered)

	// wrong digest recovers a different address
	otherDigest := crypto.Keccak256Hash([]byte("other payload"))
	recovered, err = RecoverSigner(otherDigest, sig)
	require.NoError(err)
	require.NotEqual(k.Address(), recovered)

	_, err = RecoverSigner(digest, sig[:10])
	require.ErrorIs(err, ErrInvalidSignatureLen)
}

func TestListKeys(t *testing.T) {
	require := require.New(t)

	keyDir := t.TempDir()
	names, err := ListKeys(keyDir)
	require.NoError(err)
	require.Empty(names)

	for _, name := range []string{"bob", "alice"} {
		k, err := NewSoftKey()
		require.NoError(err)
		require.NoError(k.Save(filepath.Join(keyDir, name+".pk")))
	}

	names, err = ListKeys(keyDir)
	require.NoError(err)
	require.Equal([]string{"alice", "bob"}, names)

	// missing dir is not an error
	names, err = ListKeys(filepath.Join(keyDir, "nope"))
	require.NoError(err)
	require.Empty(names)
}
