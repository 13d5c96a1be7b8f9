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

import "fmt"

// latestConfigVersion is the version new config files are written at.
// Bump it whenever a default changes or a field is added, and teach
// migrate below how to carry old files forward.
const latestConfigVersion = 1

func migrate(cfg Local) (Local, error) {
	if cfg.Version > latestConfigVersion {
		return cfg, fmt.Errorf("unexpected config version: %d", cfg.Version)
	}

	for cfg.Version < latestConfigVersion {
		switch cfg.Version {
		case 0:
			// Version 1 introduced DisbursementRetries.  Files written
			// before it carry a zero, which is never a valid retry count.
			if cfg.DisbursementRetries == 0 {
				cfg.DisbursementRetries = defaultLocal.DisbursementRetries
			}
		}
		cfg.Version++
	}
	return cfg, nil
}
