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
	"os"
	"path/filepath"

	"github.com/susu-finance/go-susu/protocol"
)

// CircleParams specifies settings that might vary based on the particular
// version of the circle rules.  A circle is bound to the version in force
// when it was created, so changing these values never rewrites the economics
// of circles that already exist.
type CircleParams struct {
	// Membership bounds.  A circle activates automatically the instant its
	// membership reaches MinMembers, and never admits more than MaxMembers.
	MinMembers uint64
	MaxMembers uint64

	// Duration bounds, counted in rounds.
	MinDuration uint64
	MaxDuration uint64

	// SimulatedAPRPercent is the annual rate used for the simulated interest
	// credited on each round's pool.  The interest is an accounting fiction:
	// no external yield is collected, the bonus is funded from pooled value.
	SimulatedAPRPercent uint64

	// MemberInterestPercent is the share of each round's simulated interest
	// paid to the payout recipient.  The remainder accrues to the protocol
	// fee balance.
	MemberInterestPercent uint64

	// ProtocolFeePercent is charged once, at activation, against the
	// expected lifetime volume of the circle (amount x members x duration).
	// The fee accrues to a separate running balance and is not deducted
	// from circle escrow; see ledger.WithdrawFees.
	ProtocolFeePercent uint64

	// YearSeconds is the time base for the simple-interest approximation.
	YearSeconds uint64

	// Reputation scoring weights.
	PointsPerCompletedCircle uint64
	OnTimeRatioWeight        uint64
	MissedPaymentPenalty     uint64
	PointsPerVolumeUnit      uint64
	PointsPerAccountMonth    uint64

	// ScoreVolumeUnit is the lifetime-contribution step, in MicroUnits, that
	// earns PointsPerVolumeUnit.
	ScoreVolumeUnit uint64

	// MonthSeconds is the account-age step that earns PointsPerAccountMonth.
	MonthSeconds uint64

	// MaxScore caps the computed reputation score.
	MaxScore uint64

	// Tier thresholds on the capped score.  A score below TierSilverMin is
	// bronze; MaxScore exactly is diamond.
	TierSilverMin   uint64
	TierGoldMin     uint64
	TierPlatinumMin uint64
}

// CircleProtocols defines a set of supported circle rule versions and their
// corresponding parameters.
type CircleProtocols map[protocol.CircleVersion]CircleParams

// Circles tracks the parameters for each version of the circle rules.
var Circles CircleProtocols

func init() {
	Circles = make(CircleProtocols)

	initCircleProtocols()
}

func initCircleProtocols() {
	v1 := CircleParams{
		MinMembers:  3,
		MaxMembers:  12,
		MinDuration: 3,
		MaxDuration: 12,

		SimulatedAPRPercent:   4,
		MemberInterestPercent: 80,
		ProtocolFeePercent:    1,
		YearSeconds:           365 * 86400,

		PointsPerCompletedCircle: 50,
		OnTimeRatioWeight:        500,
		MissedPaymentPenalty:     100,
		PointsPerVolumeUnit:      10,
		PointsPerAccountMonth:    5,

		ScoreVolumeUnit: 1000 * 1000000,
		MonthSeconds:    30 * 86400,

		MaxScore:        1000,
		TierSilverMin:   250,
		TierGoldMin:     500,
		TierPlatinumMin: 750,
	}

	Circles[protocol.CircleV1] = v1
}

// DeepCopy creates a deep copy of a circle protocols map.
func (cp CircleProtocols) DeepCopy() CircleProtocols {
	static := make(CircleProtocols)
	for version, params := range cp {
		static[version] = params
	}
	return static
}

// Merge layers a configurable protocols map on top of the existing one and
// returns a new map without modifying either input.  Entries in the overlay
// add to or replace the built-in versions.
func (cp CircleProtocols) Merge(overlay CircleProtocols) CircleProtocols {
	static := cp.DeepCopy()
	for version, params := range overlay {
		static[version] = params
	}
	return static
}

// ConfigurableCircleProtocolsFilename defines a set of circle rule versions
// that are to be loaded from the data directory (if present), overriding the
// built-in versions.
const ConfigurableCircleProtocolsFilename = "circles.json"

// SaveConfigurableCircleProtocols saves the configurable protocols file to
// the provided data directory.
func SaveConfigurableCircleProtocols(dataDirectory string, params CircleProtocols) error {
	protocolPath := filepath.Join(dataDirectory, ConfigurableCircleProtocolsFilename)

	encoded, err := json.Marshal(params)
	if err != nil {
		return err
	}
	return os.WriteFile(protocolPath, encoded, 0644)
}

// LoadConfigurableCircleProtocols loads the configurable protocols from the
// data directory and installs them as the active set.
func LoadConfigurableCircleProtocols(dataDirectory string) error {
	merged, err := PreloadConfigurableCircleProtocols(dataDirectory)
	if err != nil {
		return err
	}
	if merged != nil {
		Circles = merged
	}
	return nil
}

// PreloadConfigurableCircleProtocols loads the configurable protocols from
// the data directory and merges them with a copy of the built-in Circles
// map, returning the result to the caller.
func PreloadConfigurableCircleProtocols(dataDirectory string) (CircleProtocols, error) {
	protocolPath := filepath.Join(dataDirectory, ConfigurableCircleProtocolsFilename)
	file, err := os.Open(protocolPath)
	if err != nil {
		if os.IsNotExist(err) {
			// this file is not required, only optional. if it's missing, no harm is done.
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	configurable := make(CircleProtocols)
	decoder := json.NewDecoder(file)
	err = decoder.Decode(&configurable)
	if err != nil {
		return nil, err
	}
	return Circles.Merge(configurable), nil
}
