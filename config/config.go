// Copyright (C) 2025-2026 Susu Finance, Inc.
// This file is part of go-susu
//
// go-susu is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// go-susu is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with go-susu.  If not, see <https://www.gnu.org/licenses/>.

package config

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/susu-finance/go-susu/util/codecs"
)

// ConfigFilename is the name of the config.json file where we store
// per-susud-instance settings.
const ConfigFilename = "config.json"

// LedgerFilename is the name of the circle ledger database file.
const LedgerFilename = "circles.sqlite"

// ReputationFilename is the name of the reputation registry database file.
const ReputationFilename = "reputation.sqlite"

// PaymentsFilename is the name of the settlement journal database file.
const PaymentsFilename = "payments.sqlite"

// Local holds the per-node-instance configuration settings for the daemon.
type Local struct {
	// Version tracks the current version of the defaults so we can migrate
	// old -> new.  This is specifically important whenever we decide to
	// change the default value for an existing parameter.
	Version uint32

	// EndpointAddress is the REST API listen address.
	EndpointAddress string

	// timeouts passed to the rest http.Server implementation
	RestReadTimeoutSeconds  int
	RestWriteTimeoutSeconds int

	// Logging
	BaseLoggerDebugLevel uint32

	// Log file size limit in bytes.  0 means no limit.
	LogSizeLimit uint64

	// control enabling / disabling deadlock detection.
	// negative (-1) to disable, positive (1) to enable, 0 for default.
	DeadlockDetection int

	// DisbursementRetries is the number of attempts the payment outbox
	// worker makes before parking a payout transfer as failed.
	DisbursementRetries int

	// EnableProfiler enables the go pprof endpoints, should be false if
	// the susud api will be exposed to untrusted individuals.
	EnableProfiler bool
}

var defaultLocal = Local{
	Version:                 1,
	EndpointAddress:         "127.0.0.1:8580",
	RestReadTimeoutSeconds:  15,
	RestWriteTimeoutSeconds: 120,
	BaseLoggerDebugLevel:    4,
	LogSizeLimit:            1073741824,
	DeadlockDetection:       0,
	DisbursementRetries:     3,
	EnableProfiler:          false,
}

// LoadConfigFromDisk returns a Local config structure based on merging the
// defaults with settings loaded from the config file in the custom dir.  If
// the custom file cannot be loaded, the default config is returned (with the
// error from loading the custom file).
func LoadConfigFromDisk(custom string) (c Local, err error) {
	return loadConfigFromFile(filepath.Join(custom, ConfigFilename))
}

func loadConfigFromFile(configFile string) (c Local, err error) {
	c = defaultLocal
	c.Version = 0 // Reset to 0 so we get the version from the loaded file.
	c, err = mergeConfigFromFile(configFile, c)
	if err != nil {
		return
	}

	// Migrate in case defaults were changed.
	// If a config file does not have version, it is assumed to be zero.
	c, err = migrate(c)
	return
}

// GetDefaultLocal returns a copy of the current defaultLocal config
func GetDefaultLocal() Local {
	return defaultLocal
}

func mergeConfigFromFile(configpath string, source Local) (Local, error) {
	f, err := os.Open(configpath)
	if err != nil {
		return source, err
	}
	defer f.Close()

	err = loadConfig(f, &source)
	return source, err
}

func loadConfig(reader io.Reader, config *Local) error {
	dec := json.NewDecoder(reader)
	return dec.Decode(config)
}

// SaveToDisk writes the Local settings into a root/ConfigFilename file
func (cfg Local) SaveToDisk(root string) error {
	configpath := filepath.Join(root, ConfigFilename)
	filename := os.ExpandEnv(configpath)
	return cfg.SaveToFile(filename)
}

// SaveToFile saves the config to a specific filename, allowing overriding the default name
func (cfg Local) SaveToFile(filename string) error {
	var alwaysInclude []string
	alwaysInclude = append(alwaysInclude, "Version")
	return codecs.SaveNonDefaultValuesToFile(filename, cfg, defaultLocal, alwaysInclude, true)
}
