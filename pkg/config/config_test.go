// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func setChain(prefix string, chainID uint64) {
	viper.Set(prefix+"chain-id", chainID)
	viper.Set(prefix+"rpc-url", "http://localhost:8545")
	viper.Set(prefix+"bundler-url", "http://localhost:4337")
	viper.Set(prefix+"paymaster-url", "http://localhost:4339")
	viper.Set(prefix+"factory", "0xfac7000000000000000000000000000000000001")
}

func TestTopLevelChain(t *testing.T) {
	require := require.New(t)
	viper.Reset()
	defer viper.Reset()

	setChain("", 1337)

	chain, err := New().Chain("")
	require.NoError(err)
	require.Equal("default", chain.Name)
	require.Equal(uint64(1337), chain.ChainID)
	require.Equal("http://localhost:8545", chain.RPCURL)
}

// env bindings as cmd/root.go sets them up
func setupEnvBindings() {
	viper.SetEnvPrefix("MSIG")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func TestEnvOnlyChain(t *testing.T) {
	require := require.New(t)
	viper.Reset()
	defer viper.Reset()

	t.Setenv("MSIG_CHAIN_ID", "43113")
	t.Setenv("MSIG_RPC_URL", "http://localhost:8545")
	t.Setenv("MSIG_BUNDLER_URL", "http://localhost:4337")
	t.Setenv("MSIG_PAYMASTER_URL", "http://localhost:4339")
	t.Setenv("MSIG_FACTORY", "0xfac7000000000000000000000000000000000001")
	setupEnvBindings()

	chain, err := New().Chain("")
	require.NoError(err)
	require.Equal("default", chain.Name)
	require.Equal(uint64(43113), chain.ChainID)
	require.Equal("http://localhost:8545", chain.RPCURL)
	require.Equal("http://localhost:4337", chain.BundlerURL)
	require.Equal("http://localhost:4339", chain.PaymasterURL)
	require.Equal("0xfac7000000000000000000000000000000000001", chain.Factory)
}

func TestEnvOnlyPrivateKey(t *testing.T) {
	require := require.New(t)
	viper.Reset()
	defer viper.Reset()

	t.Setenv("MSIG_PRIVATE_KEY", "56289e99c94b6912bfc12adc093c9b51124f0dc54ac7a766b2bc5ccf558d8027")
	setupEnvBindings()

	pk, err := New().PrivateKey()
	require.NoError(err)
	require.Equal("56289e99c94b6912bfc12adc093c9b51124f0dc54ac7a766b2bc5ccf558d8027", pk)
}

func TestNamedChains(t *testing.T) {
	require := require.New(t)
	viper.Reset()
	defer viper.Reset()

	setChain("chains.fuji.", 43113)
	setChain("chains.sepolia.", 11155111)

	conf := New()
	require.Equal([]string{"fuji", "sepolia"}, conf.ChainNames())

	chains, err := conf.Chains([]string{"sepolia", "fuji"})
	require.NoError(err)
	require.Len(chains, 2)
	require.Equal("sepolia", chains[0].Name)
	require.Equal(uint64(11155111), chains[0].ChainID)
	require.Equal("fuji", chains[1].Name)
	require.Equal(uint64(43113), chains[1].ChainID)

	_, err = conf.Chain("mainnet")
	require.ErrorIs(err, ErrUnknownChain)
}

func TestMissingValuesAreFatal(t *testing.T) {
	require := require.New(t)

	tests := []struct {
		name string
		omit string
		want error
	}{
		{"no chain id", "chain-id", ErrMissingChainID},
		{"no rpc url", "rpc-url", ErrMissingRPCURL},
		{"no bundler", "bundler-url", ErrMissingBundler},
		{"no paymaster", "paymaster-url", ErrMissingPaymaster},
		{"no factory", "factory", ErrMissingFactory},
	}
	for _, tt := range tests {
		viper.Reset()
		setChain("chains.testnet.", 1337)
		viper.Set("chains.testnet."+tt.omit, "")

		_, err := New().Chain("testnet")
		require.ErrorIs(err, tt.want, tt.name)
	}
	viper.Reset()
}

func TestPrivateKey(t *testing.T) {
	require := require.New(t)
	viper.Reset()
	defer viper.Reset()

	conf := New()
	_, err := conf.PrivateKey()
	require.ErrorIs(err, ErrMissingPrivateKey)

	viper.Set("private-key", "56289e99c94b6912bfc12adc093c9b51124f0dc54ac7a766b2bc5ccf558d8027")
	pk, err := conf.PrivateKey()
	require.NoError(err)
	require.NotEmpty(pk)
}
