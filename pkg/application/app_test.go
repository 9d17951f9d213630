// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package application

import (
	"testing"

	"github.com/luxfi/msig/pkg/config"
	"github.com/luxfi/msig/pkg/key"

	luxlog "github.com/luxfi/log"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

// address of private key 0x...01
const oneKeyAddr = "0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf"

func newTestApp(t *testing.T) *Msig {
	app := New()
	app.Setup(t.TempDir(), luxlog.NewNoOpLogger(), config.New())
	return app
}

func TestSigningKeysByName(t *testing.T) {
	require := require.New(t)
	app := newTestApp(t)

	k, err := key.NewSoftKey()
	require.NoError(err)
	require.NoError(k.Save(app.GetKeyPath("alice")))

	keys, err := app.SigningKeys([]string{"alice"})
	require.NoError(err)
	require.Len(keys, 1)
	require.Equal(k.Address(), keys[0].Address())
}

func TestSigningKeysFallsBackToConfiguredPrivateKey(t *testing.T) {
	require := require.New(t)
	viper.Reset()
	defer viper.Reset()
	app := newTestApp(t)

	viper.Set("private-key", "0000000000000000000000000000000000000000000000000000000000000001")

	keys, err := app.SigningKeys(nil)
	require.NoError(err)
	require.Len(keys, 1)
	require.Equal(oneKeyAddr, keys[0].Address().String())
}

func TestSigningKeysMissingFallbackIsFatal(t *testing.T) {
	require := require.New(t)
	viper.Reset()
	defer viper.Reset()
	app := newTestApp(t)

	_, err := app.SigningKeys(nil)
	require.ErrorIs(err, config.ErrMissingPrivateKey)
}
