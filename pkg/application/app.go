// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package application

import (
	"path/filepath"

	"github.com/luxfi/msig/pkg/config"
	"github.com/luxfi/msig/pkg/constants"
	"github.com/luxfi/msig/pkg/key"

	luxlog "github.com/luxfi/log"
)

// Msig carries everything a command needs: the logger, the resolved
// configuration and the base directory layout.
type Msig struct {
	Log     luxlog.Logger
	Conf    *config.Config
	baseDir string
}

func New() *Msig {
	return &Msig{}
}

func (app *Msig) Setup(baseDir string, log luxlog.Logger, conf *config.Config) {
	app.baseDir = baseDir
	app.Log = log
	app.Conf = conf
}

func (app *Msig) GetBaseDir() string {
	return app.baseDir
}

func (app *Msig) GetKeyDir() string {
	return filepath.Join(app.baseDir, constants.KeyDir)
}

func (app *Msig) GetOpsDir() string {
	return filepath.Join(app.baseDir, constants.OpsDir)
}

func (app *Msig) GetKeyPath(keyName string) string {
	return filepath.Join(app.GetKeyDir(), keyName+constants.KeySuffix)
}

func (app *Msig) GetOpPath(opName string) string {
	return filepath.Join(app.GetOpsDir(), opName+constants.OpSuffix)
}

func (app *Msig) GetAccountsDir() string {
	return filepath.Join(app.baseDir, constants.AccountsDir)
}

func (app *Msig) GetAccountPath(accountName string) string {
	return filepath.Join(app.GetAccountsDir(), accountName+constants.AccountSuffix)
}

// SigningKeys resolves key names to loaded keys for a signing session. With
// no names it falls back to the configured private key (MSIG_PRIVATE_KEY or
// private-key in the config file); a missing fallback is a fatal
// configuration error.
func (app *Msig) SigningKeys(names []string) ([]*key.SoftKey, error) {
	if len(names) == 0 {
		pk, err := app.Conf.PrivateKey()
		if err != nil {
			return nil, err
		}
		k, err := key.NewSoftKeyFromHex(pk)
		if err != nil {
			return nil, err
		}
		return []*key.SoftKey{k}, nil
	}
	keys := make([]*key.SoftKey, 0, len(names))
	for _, name := range names {
		k, err := key.LoadSoftKey(app.GetKeyPath(name))
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}
