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
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/susu-finance/go-susu/config"
	"github.com/susu-finance/go-susu/daemon/susud/api/client"
	"github.com/susu-finance/go-susu/util/tokens"
)

var dataDir string

var versionCheck bool

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.Flags().BoolVarP(&versionCheck, "version", "v", false, "Display and write current build version and exit")
	rootCmd.AddCommand(licenseCmd)

	// status.go
	rootCmd.AddCommand(statusCmd)

	// circle.go
	rootCmd.AddCommand(circleCmd)

	// reputation.go
	rootCmd.AddCommand(reputationCmd)

	// ledger.go
	rootCmd.AddCommand(ledgerCmd)

	// fees.go
	rootCmd.AddCommand(feesCmd)

	// events.go
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(paymentsCmd)

	// Config
	rootCmd.PersistentFlags().StringVarP(&dataDir, "datadir", "d", "", "Data directory for the daemon")
}

var rootCmd = &cobra.Command{
	Use:   "susu",
	Short: "CLI for interacting with the Susu daemon",
	Long:  `Susu is the CLI for interacting with a running susud instance. The binary 'susu' is installed alongside the susud binary and the two should be used in tandem - you should not try to use a version of susu with a different version of susud.`,
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, args []string) {
		if versionCheck {
			fmt.Println(config.FormatVersionAndLicense())
			return
		}
		// If no arguments passed, we should fallback to help
		cmd.HelpFunc()(cmd, args)
	},
}

// validateNoPosArgsFn is a reusable cobra positional argument validation function
// for generating proper error messages when commands see unexpected arguments when they expect no args.
// We don't use cobra.NoArgs directly, in case we want to customize behavior later.
var validateNoPosArgsFn = cobra.NoArgs

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "The current version of the Susu daemon (susud)",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, args []string) {
		response, err := ensureSusuClient(ensureDataDir()).Versions()
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		fmt.Printf("Version: %v\n", response.Versions)
		fmt.Printf("Build: %d.%d\n", response.Major, response.Minor)
	},
}

var licenseCmd = &cobra.Command{
	Use:   "license",
	Short: "Display license information",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(config.GetLicenseInfo())
	},
}

func resolveDataDir() string {
	// Figure out what data directory to work against.
	// If not specified on cmdline with '-d', look for default in environment.
	dir := dataDir
	if dir == "" {
		dir = os.Getenv("SUSUD_DATA")
	}
	return dir
}

func ensureDataDir() string {
	dir := resolveDataDir()
	if dir == "" {
		reportErrorln(errorNoDataDirectory)
	}
	return dir
}

// ensureSusuClient builds a REST client against the daemon serving the given
// data directory, reading its listening address and API token from the
// service files susud writes on startup.
func ensureSusuClient(dataDir string) client.RestClient {
	netBytes, err := os.ReadFile(filepath.Join(dataDir, "susud.net"))
	if err != nil {
		reportErrorf(errorDaemonNotDetected, err)
	}
	addr := strings.TrimSpace(string(netBytes))

	// A daemon bound to the wildcard address reports it in the net file;
	// dial the loopback interface in that case.
	if host, port, splitErr := net.SplitHostPort(addr); splitErr == nil {
		if host == "" || host == "0.0.0.0" || host == "::" {
			addr = net.JoinHostPort("127.0.0.1", port)
		}
	}

	apiToken, err := tokens.GetAndValidateAPIToken(dataDir, tokens.SusudTokenFilename)
	if err != nil {
		reportErrorf(errorAPIToken, err)
	}

	serverURL := url.URL{Scheme: "http", Host: addr}
	return client.MakeRestClient(serverURL, apiToken)
}

func reportInfoln(args ...interface{}) {
	fmt.Println(args...)
}

func reportInfof(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
}

func reportErrorln(args ...interface{}) {
	fmt.Fprintln(os.Stderr, args...)
	os.Exit(1)
}

func reportErrorf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
