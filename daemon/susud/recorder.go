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

	"github.com/susu-finance/go-susu/data/basics"
	"github.com/susu-finance/go-susu/ledger"
	"github.com/susu-finance/go-susu/reputation"
)

// recorder adapts the reputation registry to the ledger's RepRecorder
// interface.  Every registry directive is issued under the daemon's service
// identity, which Initialize puts on the registry's caller allowlist.
type recorder struct {
	reg    *reputation.Registry
	caller basics.Address
}

func (rec recorder) InitializeUser(ctx context.Context, user basics.Address) error {
	return rec.reg.InitializeUser(ctx, rec.caller, user)
}

func (rec recorder) RecordCircleJoined(ctx context.Context, user basics.Address) error {
	return rec.reg.RecordCircleJoined(ctx, rec.caller, user)
}

func (rec recorder) RecordContribution(ctx context.Context, user basics.Address, amount basics.MicroUnits, onTime bool) (ledger.ReputationUpdate, bool, error) {
	u, err := rec.reg.RecordContribution(ctx, rec.caller, user, amount, onTime)
	if err != nil {
		return ledger.ReputationUpdate{}, false, err
	}
	return ledger.ReputationUpdate{Score: u.Score, Tier: u.Tier.String()}, true, nil
}

func (rec recorder) RecordCircleCompletion(ctx context.Context, user basics.Address) (ledger.ReputationUpdate, bool, error) {
	u, err := rec.reg.RecordCircleCompletion(ctx, rec.caller, user)
	if err != nil {
		return ledger.ReputationUpdate{}, false, err
	}
	return ledger.ReputationUpdate{Score: u.Score, Tier: u.Tier.String()}, true, nil
}
