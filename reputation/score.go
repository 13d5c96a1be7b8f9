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

package reputation

import (
	"github.com/susu-finance/go-susu/config"
	"github.com/susu-finance/go-susu/data/basics"
)

// computeScore derives a score from the record's counters and the current
// time.  It is a pure function: given the same counters and the same now,
// it always produces the same score.  The account-age term grows with now,
// so re-running it later can only raise the result; every other term is
// stable absent new events.
//
// The score sums, in order: points per completed circle; the on-time ratio
// scaled to OnTimeRatioWeight, zero when the user has no recorded payments;
// minus a flat penalty per missed payment, saturating at zero rather than
// going negative; points per ScoreVolumeUnit of lifetime contributions; and
// points per whole month of account age.  The sum is capped at MaxScore.
// All arithmetic is integer and saturating, so a pathological counter can
// only pin the score to the cap, never wrap it.
func computeScore(params config.CircleParams, u basics.UserReputation, now int64) uint64 {
	score := basics.MulSaturate(u.CirclesCompleted, params.PointsPerCompletedCircle)

	payments := basics.AddSaturate(u.OnTimePayments, u.MissedPayments)
	if payments > 0 {
		score = basics.AddSaturate(score, basics.MulSaturate(u.OnTimePayments, params.OnTimeRatioWeight)/payments)
	}

	score = basics.SubSaturate(score, basics.MulSaturate(u.MissedPayments, params.MissedPaymentPenalty))

	if params.ScoreVolumeUnit > 0 {
		score = basics.AddSaturate(score, basics.MulSaturate(u.TotalContributed.Raw/params.ScoreVolumeUnit, params.PointsPerVolumeUnit))
	}

	if params.MonthSeconds > 0 && u.AccountCreatedAt > 0 && now > u.AccountCreatedAt {
		months := uint64(now-u.AccountCreatedAt) / params.MonthSeconds
		score = basics.AddSaturate(score, basics.MulSaturate(months, params.PointsPerAccountMonth))
	}

	if score > params.MaxScore {
		score = params.MaxScore
	}
	return score
}

// scoreTier maps a capped score onto its tier.  The bands are half-open on
// the right; diamond is reserved for the cap exactly.
func scoreTier(params config.CircleParams, score uint64) basics.Tier {
	switch {
	case score >= params.MaxScore:
		return basics.TierDiamond
	case score >= params.TierPlatinumMin:
		return basics.TierPlatinum
	case score >= params.TierGoldMin:
		return basics.TierGold
	case score >= params.TierSilverMin:
		return basics.TierSilver
	}
	return basics.TierBronze
}
