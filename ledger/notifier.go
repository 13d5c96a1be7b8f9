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

package ledger

import (
	"sync"

	"github.com/algorand/go-deadlock"

	"github.com/susu-finance/go-susu/data/circles"
)

// An EventListener gets notified of every event the ledger appends, in
// commit order.  Callbacks run on the notifier goroutine, never on the
// committing operation's goroutine, so a slow listener cannot hold the
// ledger lock; it can only let the pending queue grow.
type EventListener interface {
	OnLedgerEvent(ev circles.Event)
}

type eventNotifier struct {
	mu        deadlock.Mutex
	cond      *sync.Cond
	listeners []EventListener
	pending   []circles.Event
	running   bool
}

func (en *eventNotifier) worker() {
	en.mu.Lock()

	for {
		for en.running && len(en.pending) == 0 {
			en.cond.Wait()
		}

		if !en.running {
			en.mu.Unlock()
			return
		}

		evs := en.pending
		listeners := en.listeners
		en.pending = nil
		en.mu.Unlock()

		for _, ev := range evs {
			for _, listener := range listeners {
				listener.OnLedgerEvent(ev)
			}
		}

		en.mu.Lock()
	}
}

func (en *eventNotifier) start() {
	en.mu.Lock()
	defer en.mu.Unlock()

	en.cond = sync.NewCond(&en.mu)
	en.running = true
	go en.worker()
}

// close stops the worker.  Events still pending are dropped; they are
// already durable in the log, and a listener that cares can resume from the
// sequence it last saw.
func (en *eventNotifier) close() {
	en.mu.Lock()
	defer en.mu.Unlock()

	if en.running {
		en.running = false
		en.cond.Broadcast()
	}
}

func (en *eventNotifier) register(listeners []EventListener) {
	en.mu.Lock()
	defer en.mu.Unlock()

	en.listeners = append(en.listeners, listeners...)
}

func (en *eventNotifier) enqueue(evs []circles.Event) {
	if len(evs) == 0 {
		return
	}

	en.mu.Lock()
	defer en.mu.Unlock()

	if !en.running {
		return
	}
	en.pending = append(en.pending, evs...)
	en.cond.Broadcast()
}
