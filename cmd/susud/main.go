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

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"github.com/algorand/go-deadlock"

	"github.com/susu-finance/go-susu/config"
	"github.com/susu-finance/go-susu/daemon/susud"
	"github.com/susu-finance/go-susu/logging"
	"github.com/susu-finance/go-susu/util/tokens"
)

var dataDirectory = flag.String("d", "", "Root Susu daemon data path")
var versionCheck = flag.Bool("v", false, "Display and write current build version and exit")
var logToStdout = flag.Bool("o", false, "Write to stdout instead of susud.log by overriding config.LogSizeLimit to 0")
var listenIP = flag.String("l", "", "Override config.EndpointAddress (REST listening address) with ip:port")

func main() {
	flag.Parse()
	exitCode := run()
	os.Exit(exitCode)
}

func run() int {
	dataDir := resolveDataDir()
	absolutePath, absPathErr := filepath.Abs(dataDir)

	if *versionCheck {
		fmt.Println(config.FormatVersionAndLicense())
		return 0
	}

	// Don't fallback anymore - if not specified, we want to panic to force us to update our tooling and/or processes
	if len(dataDir) == 0 {
		fmt.Fprintln(os.Stderr, "Data directory not specified.  Please use -d or set $SUSUD_DATA in your environment.")
		return 1
	}

	if absPathErr != nil {
		fmt.Fprintf(os.Stderr, "Can't convert data directory's path to absolute, %v\n", dataDir)
		return 1
	}

	// If data directory doesn't exist, we can't run. Don't bother trying.
	if _, err1 := os.Stat(absolutePath); err1 != nil {
		fmt.Fprintf(os.Stderr, "Data directory %s does not appear to be valid\n", dataDir)
		return 1
	}

	log := logging.Base()
	// before doing anything further, attempt to acquire the susud lock
	// to ensure this is the only daemon running against this data directory
	lockPath := filepath.Join(absolutePath, "susud.lock")
	fileLock := flock.New(lockPath)
	locked, err := fileLock.TryLock()
	if err != nil {
		fmt.Fprintf(os.Stderr, "unexpected failure in establishing susud.lock: %s \n", err.Error())
		return 1
	}
	if !locked {
		fmt.Fprintln(os.Stderr, "failed to lock susud.lock; is an instance of susud already running in this data directory?")
		return 1
	}
	defer fileLock.Unlock()

	cfg, err := config.LoadConfigFromDisk(absolutePath)
	if err != nil && !os.IsNotExist(err) {
		// log is not setup yet, this will log to stderr
		log.Fatalf("Cannot load config: %v", err)
	}

	// log is not setup yet
	fmt.Printf("Config loaded from %s\n", absolutePath)
	fmt.Println("Configuration after loading/defaults merge: ")
	err = json.NewEncoder(os.Stdout).Encode(cfg)
	if err != nil {
		fmt.Println("Error encoding config: ", err)
	}

	err = config.LoadConfigurableCircleProtocols(absolutePath)
	if err != nil {
		// log is not setup yet, this will log to stderr
		log.Fatalf("Unable to load optional circle rules file: %v", err)
	}

	s := susud.Server{
		RootPath: absolutePath,
	}

	// Generate a REST API token if one was not provided
	apiToken, wroteNewToken, err := tokens.ValidateOrGenerateAPIToken(s.RootPath, tokens.SusudTokenFilename)
	if err != nil {
		log.Fatalf("API token error: %v", err)
	}
	if wroteNewToken {
		fmt.Printf("No REST API Token found. Generated token: %s\n", apiToken)
	}

	// Allow overriding default listening address
	if *listenIP != "" {
		cfg.EndpointAddress = *listenIP
	}

	// Apply the default deadlock setting before starting the server.
	// It will potentially override it based on the config file DeadlockDetection setting
	if strings.ToLower(config.DefaultDeadlock) == "enable" {
		deadlock.Opts.Disable = false
	} else if strings.ToLower(config.DefaultDeadlock) == "disable" {
		deadlock.Opts.Disable = true
	} else if config.DefaultDeadlock != "" {
		log.Fatalf("DefaultDeadlock is somehow not set to an expected value (enable / disable): %s", config.DefaultDeadlock)
	}

	if logToStdout != nil && *logToStdout {
		cfg.LogSizeLimit = 0
	}

	err = s.Initialize(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Error(err)
		return 1
	}

	deadlockState := "enabled"
	if deadlock.Opts.Disable {
		deadlockState = "disabled"
	}
	fmt.Fprintf(os.Stdout, "Deadlock detection is set to: %s (Default state is '%s')\n", deadlockState, config.DefaultDeadlock)

	s.Start()
	return 0
}

func resolveDataDir() string {
	// Figure out what data directory to tell susud to use.
	// If not specified on cmdline with '-d', look for default in environment.
	var dir string
	if dataDirectory == nil || *dataDirectory == "" {
		dir = os.Getenv("SUSUD_DATA")
	} else {
		dir = *dataDirectory
	}
	return dir
}
