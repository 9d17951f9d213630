// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package constants

import (
	"time"
)

const (
	DefaultPerms755    = 0o755
	WriteReadReadPerms = 0o644
	ReadWriteUserPerms = 0o600

	BaseDirName = ".msig"
	LogDir      = "logs"
	KeyDir      = "keys"
	OpsDir      = "ops"
	AccountsDir = "accounts"

	KeySuffix     = ".pk"
	OpSuffix      = ".op.json"
	AccountSuffix = ".account.json"

	ConfigFileName = "config.json"

	MaxLogFileSize   = 4
	MaxNumOfLogFiles = 5
	RetainOldFiles   = 0 // retain all old log files

	APIRequestTimeout   = 30 * time.Second
	SponsorTimeout      = 30 * time.Second
	SubmitTimeout       = 30 * time.Second
	ReceiptPollInterval = 2 * time.Second
	ReceiptWaitTimeout  = 2 * time.Minute

	// EnvPrefix is the viper env prefix: MSIG_PRIVATE_KEY, MSIG_CHAIN, ...
	EnvPrefix = "MSIG"
)
