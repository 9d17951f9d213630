// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/luxfi/msig/cmd/accountcmd"
	"github.com/luxfi/msig/cmd/keycmd"
	"github.com/luxfi/msig/cmd/opcmd"
	"github.com/luxfi/msig/pkg/application"
	"github.com/luxfi/msig/pkg/config"
	"github.com/luxfi/msig/pkg/constants"
	"github.com/luxfi/msig/pkg/ux"

	luxlog "github.com/luxfi/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	app        *application.Msig
	logFactory luxlog.Factory

	logLevel string
	Version  = "0.3.1"
	cfgFile  string
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use: "msig",
		Long: `msig controls weighted multisig smart accounts.

It builds threshold/signer-set validator configurations, binds accounts to
them, and sends sponsored operations through a bundler, on one chain or
mirrored across several.

COMMAND OVERVIEW:

  key       Signing key management
  account   Account and validator configuration lifecycle
  op        Build, sign, submit and track operations

To get started, create signing keys with msig key create, then an account
with msig account create.`,
		PersistentPreRunE: createApp,
		Version:           Version,
	}

	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.msig/config.json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "ERROR", "log level for the application")

	// add sub commands
	rootCmd.AddCommand(keycmd.NewCmd(app))
	rootCmd.AddCommand(accountcmd.NewCmd(app))
	rootCmd.AddCommand(opcmd.NewCmd(app))

	return rootCmd
}

func createApp(_ *cobra.Command, _ []string) error {
	baseDir, err := setupEnv()
	if err != nil {
		return err
	}
	log, err := setupLogging(baseDir)
	if err != nil {
		return err
	}
	if logLevel != "" {
		if level, err := luxlog.ToLevel(logLevel); err == nil {
			logFactory.SetDisplayLevel("msig", level)
		}
	}
	initConfig()
	app.Setup(baseDir, log, config.New())
	return nil
}

func setupEnv() (string, error) {
	usr, err := user.Current()
	if err != nil {
		// no logger here yet
		fmt.Printf("unable to get system user %s\n", err)
		return "", err
	}
	baseDir := filepath.Join(usr.HomeDir, constants.BaseDirName)
	if err := os.MkdirAll(baseDir, 0o750); err != nil {
		fmt.Printf("failed creating the basedir %s: %s\n", baseDir, err)
		return "", err
	}
	for _, dir := range []string{constants.KeyDir, constants.OpsDir, constants.AccountsDir} {
		if err := os.MkdirAll(filepath.Join(baseDir, dir), 0o750); err != nil {
			fmt.Printf("failed creating the %s dir: %s\n", dir, err)
			return "", err
		}
	}
	return baseDir, nil
}

func setupLogging(baseDir string) (luxlog.Logger, error) {
	config := luxlog.Config{}
	config.LogLevel = luxlog.Level(-6)
	config.DisplayLevel, _ = luxlog.ToLevel("WARN")
	config.Directory = filepath.Join(baseDir, constants.LogDir)
	if err := os.MkdirAll(config.Directory, constants.DefaultPerms755); err != nil {
		return nil, fmt.Errorf("failed creating log directory: %w", err)
	}
	config.LogFormat = luxlog.Colors
	config.MaxSize = constants.MaxLogFileSize
	config.MaxFiles = constants.MaxNumOfLogFiles
	config.MaxAge = constants.RetainOldFiles

	luxlog.RegisterInternalPackages("github.com/luxfi/msig/pkg/ux")

	factory := luxlog.NewFactoryWithConfig(config)
	log, err := factory.Make("msig")
	if err != nil {
		factory.Close()
		return nil, fmt.Errorf("failed setting up logging, exiting: %w", err)
	}
	logFactory = factory
	// user output goes to stdout, logs go to stderr
	ux.NewUserLog(log, os.Stdout)
	return log, nil
}

// initConfig reads in config file and ENV variables if set.
// Priority: flags > env vars > config file > defaults
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		usr, err := user.Current()
		if err == nil {
			viper.AddConfigPath(filepath.Join(usr.HomeDir, constants.BaseDirName))
			viper.SetConfigName("config")
			viper.SetConfigType("json")
		}
	}
	viper.SetEnvPrefix(constants.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	// a missing config file is fine when env vars carry the endpoints
	_ = viper.ReadInConfig()
}

func Execute() {
	app = application.New()
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\nERROR: %s\n", err)
		os.Exit(1)
	}
}
