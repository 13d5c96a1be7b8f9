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

package susud

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	_ "net/http/pprof" // net/http/pprof is for registering the pprof URLs with the web server, so http://localhost:8580/debug/pprof/ works.
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/algorand/go-deadlock"

	"github.com/susu-finance/go-susu/config"
	"github.com/susu-finance/go-susu/crypto"
	apiServer "github.com/susu-finance/go-susu/daemon/susud/api/server"
	"github.com/susu-finance/go-susu/daemon/susud/outbox"
	"github.com/susu-finance/go-susu/data/basics"
	"github.com/susu-finance/go-susu/ledger"
	"github.com/susu-finance/go-susu/logging"
	"github.com/susu-finance/go-susu/protocol"
	"github.com/susu-finance/go-susu/reputation"
	"github.com/susu-finance/go-susu/util/tokens"
)

var server http.Server

// maxHeaderBytes must have enough room to hold an api token
const maxHeaderBytes = 4096

// ownerFilename stores the checksummed service owner address, relative to
// the data directory.
const ownerFilename = "susud.owner"

// Server represents an instance of the REST API HTTP server
type Server struct {
	RootPath string

	pidFile string
	netFile string

	log      logging.Logger
	cfg      config.Local
	owner    basics.Address
	ledger   *ledger.SerializedLedger
	registry *reputation.Registry
	payments *outbox.Journal
	stopping chan struct{}
}

// Initialize sets up logging, opens the stores in the data directory, and
// wires the ledger's collaborators.
func (s *Server) Initialize(cfg config.Local) error {
	s.log = logging.Base()
	s.cfg = cfg

	liveLog := filepath.Join(s.RootPath, "susud.log")
	archive := filepath.Join(s.RootPath, "susud.archive.log")

	var logWriter io.Writer
	if cfg.LogSizeLimit > 0 {
		fmt.Println("Logging to: ", liveLog)
		logWriter = logging.MakeCyclicFileWriter(liveLog, archive, cfg.LogSizeLimit)
	} else {
		fmt.Println("Logging to: stdout")
		logWriter = os.Stdout
	}
	s.log.SetOutput(logWriter)
	s.log.SetJSONFormatter()
	s.log.SetLevel(logging.Level(cfg.BaseLoggerDebugLevel))
	setupDeadlockLogger()

	// configure the deadlock detector library
	switch {
	case cfg.DeadlockDetection > 0:
		// Explicitly enabled deadlock detection
		deadlock.Opts.Disable = false

	case cfg.DeadlockDetection < 0:
		// Explicitly disabled deadlock detection
		deadlock.Opts.Disable = true

	case cfg.DeadlockDetection == 0:
		// Default setting - host app should configure this
		// If host doesn't, the default is Disable = false (so, enabled)
	}

	s.log.Infoln("++++++++++++++++++++++++++++++++++++++++")
	s.log.Infoln("Logging Starting")
	s.log.Infoln("++++++++++++++++++++++++++++++++++++++++")

	owner, err := s.loadOrGenerateOwner()
	if err != nil {
		return fmt.Errorf("couldn't initialize the owner address: %v", err)
	}
	s.owner = owner

	l, err := ledger.OpenLedger(s.log, filepath.Join(s.RootPath, config.LedgerFilename), false, owner, config.Circles, protocol.CircleV1)
	if err != nil {
		return fmt.Errorf("couldn't initialize the ledger: %v", err)
	}

	s.registry, err = reputation.OpenRegistry(s.log, filepath.Join(s.RootPath, config.ReputationFilename), false, owner, config.Circles[protocol.CircleV1])
	if err != nil {
		l.Close()
		return fmt.Errorf("couldn't initialize the reputation registry: %v", err)
	}

	s.payments, err = outbox.OpenJournal(s.log, filepath.Join(s.RootPath, config.PaymentsFilename), false, cfg.DisbursementRetries)
	if err != nil {
		s.registry.Close()
		l.Close()
		return fmt.Errorf("couldn't initialize the settlement journal: %v", err)
	}

	// The ledger dispatches reputation directives under the daemon's own
	// identity; put it on the registry's allowlist before the first
	// operation needs it there.
	err = s.registry.SetAuthorizedCaller(context.Background(), owner, owner, true)
	if err != nil {
		s.payments.Close()
		s.registry.Close()
		l.Close()
		return fmt.Errorf("couldn't authorize the reputation recorder: %v", err)
	}

	l.SetDisburser(s.payments)
	l.SetRepRecorder(recorder{reg: s.registry, caller: owner})
	s.ledger = ledger.MakeSerializedLedger(l)

	// When a caller to logging uses Fatal, we want to stop the stores before os.Exit is called.
	logging.RegisterExitHandler(s.Stop)

	return nil
}

// loadOrGenerateOwner returns the service owner address stored in the data
// directory, generating and persisting a fresh one on first boot.  A present
// but malformed owner file is an error, never silently replaced: the owner
// is the only identity allowed to withdraw protocol fees.
func (s *Server) loadOrGenerateOwner() (basics.Address, error) {
	ownerFile := filepath.Join(s.RootPath, ownerFilename)
	buf, err := os.ReadFile(ownerFile)
	if os.IsNotExist(err) {
		var owner basics.Address
		crypto.RandBytes(owner[:])
		err = os.WriteFile(ownerFile, []byte(owner.String()+"\n"), 0644)
		if err != nil {
			return basics.Address{}, err
		}
		fmt.Printf("No service owner found. Generated owner address: %s\n", owner.String())
		return owner, nil
	}
	if err != nil {
		return basics.Address{}, err
	}
	return basics.UnmarshalChecksumAddress(strings.TrimSpace(string(buf)))
}

// helper handles startup of tcp listener
func makeListener(addr string) (net.Listener, error) {
	var listener net.Listener
	var err error
	if (addr == "127.0.0.1:0") || (addr == ":0") {
		// if port 0 is provided, prefer port 8580 first, then fall back to port 0
		preferredAddr := strings.Replace(addr, ":0", ":8580", -1)
		listener, err = net.Listen("tcp", preferredAddr)
		if err == nil {
			return listener, err
		}
	}
	// err was not nil or :0 was not provided, fall back to originally passed addr
	return net.Listen("tcp", addr)
}

// Start serves the REST API until a signal or a server error arrives.
func (s *Server) Start() {
	s.log.Info("Trying to start a Susu daemon")
	fmt.Print("Initializing the Susu daemon... ")

	apiToken, err := tokens.GetAndValidateAPIToken(s.RootPath, tokens.SusudTokenFilename)
	if err != nil {
		fmt.Printf("APIToken error: %v\n", err)
		os.Exit(1)
	}

	s.stopping = make(chan struct{})

	addr := s.cfg.EndpointAddress
	if addr == "" {
		addr = ":http"
	}

	listener, err := makeListener(addr)
	if err != nil {
		fmt.Printf("Could not start susud: %v\n", err)
		os.Exit(1)
	}

	addr = listener.Addr().String()
	server = http.Server{
		Addr:           addr,
		ReadTimeout:    time.Duration(s.cfg.RestReadTimeoutSeconds) * time.Second,
		WriteTimeout:   time.Duration(s.cfg.RestWriteTimeoutSeconds) * time.Second,
		MaxHeaderBytes: maxHeaderBytes,
	}
	server.Handler = apiServer.NewRouter(s.log, s.ledger, s.registry, s.payments, s.stopping, apiToken, s.cfg)

	fmt.Println("Success!")
	s.log.Info("Successfully started a Susu daemon.")

	// Set up files for our PID and our listening address
	// before beginning to listen to prevent tooling from
	// quitting earlier than these service files get created
	s.pidFile = filepath.Join(s.RootPath, "susud.pid")
	s.netFile = filepath.Join(s.RootPath, "susud.net")
	err = os.WriteFile(s.pidFile, []byte(fmt.Sprintf("%d\n", os.Getpid())), 0644)
	if err != nil {
		fmt.Printf("pidfile error: %v\n", err)
		os.Exit(1)
	}
	err = os.WriteFile(s.netFile, []byte(fmt.Sprintf("%s\n", addr)), 0644)
	if err != nil {
		fmt.Printf("netfile error: %v\n", err)
		os.Exit(1)
	}

	errChan := make(chan error, 1)
	go func() {
		err := server.Serve(listener)
		errChan <- err
	}()

	// Handle signals cleanly
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	signal.Ignore(syscall.SIGHUP)

	fmt.Printf("Susud running and accepting RPC requests over HTTP on %v. Press Ctrl-C to exit\n", addr)
	select {
	case err := <-errChan:
		if err != nil && err != http.ErrServerClosed {
			s.log.Warn(err)
		} else {
			s.log.Info("Susud exited successfully")
		}
		s.Stop()
	case sig := <-c:
		fmt.Printf("Exiting on %v\n", sig)
		s.Stop()
		os.Exit(0)
	}
}

// Stop initiates a graceful shutdown: in-flight requests drain, the stores
// close behind them, and the service files are removed.
func (s *Server) Stop() {
	// close the s.stopping, which would signal the rest api router that any pending commands
	// should be aborted.
	close(s.stopping)

	err := server.Shutdown(context.Background())
	if err != nil {
		s.log.Error(err)
	}

	// The ledger goes first: closing it drains the event notifier, and its
	// operations are the only callers of the other two stores.
	s.ledger.Close()
	s.registry.Close()
	s.payments.Close()

	os.Remove(s.pidFile)
	os.Remove(s.netFile)
}
