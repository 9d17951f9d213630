// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/viper"
)

// Required values are read once at startup. A missing value for the selected
// chain is a fatal configuration error, not something to fall back from.
var (
	ErrUnknownChain      = errors.New("chain is not present in the configuration")
	ErrMissingChainID    = errors.New("missing chain-id")
	ErrMissingRPCURL     = errors.New("missing rpc-url")
	ErrMissingBundler    = errors.New("missing bundler-url")
	ErrMissingPaymaster  = errors.New("missing paymaster-url")
	ErrMissingFactory    = errors.New("missing factory address")
	ErrMissingPrivateKey = errors.New("missing private key (set MSIG_PRIVATE_KEY or private-key in the config file)")
)

// ChainConfig is the per-chain endpoint set. One entry per chain under the
// "chains" map of the config file; a bare top-level set of the same keys
// (usually via MSIG_* env vars) configures a single unnamed chain.
type ChainConfig struct {
	Name         string `json:"name" mapstructure:"name"`
	ChainID      uint64 `json:"chain-id" mapstructure:"chain-id"`
	RPCURL       string `json:"rpc-url" mapstructure:"rpc-url"`
	BundlerURL   string `json:"bundler-url" mapstructure:"bundler-url"`
	PaymasterURL string `json:"paymaster-url" mapstructure:"paymaster-url"`
	Factory      string `json:"factory" mapstructure:"factory"`
}

func (c ChainConfig) Validate() error {
	if c.ChainID == 0 {
		return fmt.Errorf("chain %q: %w", c.Name, ErrMissingChainID)
	}
	if c.RPCURL == "" {
		return fmt.Errorf("chain %q: %w", c.Name, ErrMissingRPCURL)
	}
	if c.BundlerURL == "" {
		return fmt.Errorf("chain %q: %w", c.Name, ErrMissingBundler)
	}
	if c.PaymasterURL == "" {
		return fmt.Errorf("chain %q: %w", c.Name, ErrMissingPaymaster)
	}
	if c.Factory == "" {
		return fmt.Errorf("chain %q: %w", c.Name, ErrMissingFactory)
	}
	return nil
}

type Config struct{}

func New() *Config {
	return &Config{}
}

// ChainNames returns the names of all configured chains, sorted.
func (*Config) ChainNames() []string {
	chains := viper.GetStringMap("chains")
	names := make([]string, 0, len(chains))
	for name := range chains {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Chain resolves the configuration for a named chain. The empty name selects
// the top-level (single-chain, env-var driven) configuration, read key by key
// so values bound through AutomaticEnv are seen (Unmarshal does not see them).
func (c *Config) Chain(name string) (ChainConfig, error) {
	var chain ChainConfig
	if name == "" {
		chain = ChainConfig{
			Name:         "default",
			ChainID:      viper.GetUint64("chain-id"),
			RPCURL:       viper.GetString("rpc-url"),
			BundlerURL:   viper.GetString("bundler-url"),
			PaymasterURL: viper.GetString("paymaster-url"),
			Factory:      viper.GetString("factory"),
		}
	} else {
		sub := viper.Sub("chains." + name)
		if sub == nil {
			return ChainConfig{}, fmt.Errorf("%w: %q", ErrUnknownChain, name)
		}
		if err := sub.Unmarshal(&chain); err != nil {
			return ChainConfig{}, fmt.Errorf("failed to read configuration for chain %q: %w", name, err)
		}
		chain.Name = name
	}
	if err := chain.Validate(); err != nil {
		return ChainConfig{}, err
	}
	return chain, nil
}

// Chains resolves a set of named chains, failing on the first invalid one.
func (c *Config) Chains(names []string) ([]ChainConfig, error) {
	chains := make([]ChainConfig, 0, len(names))
	for _, name := range names {
		chain, err := c.Chain(name)
		if err != nil {
			return nil, err
		}
		chains = append(chains, chain)
	}
	return chains, nil
}

// PrivateKey returns the hex-encoded signing key from the environment or
// config file.
func (*Config) PrivateKey() (string, error) {
	pk := viper.GetString("private-key")
	if pk == "" {
		return "", ErrMissingPrivateKey
	}
	return pk, nil
}
