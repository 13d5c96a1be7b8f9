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

package ledgercore

import (
	"errors"
	"fmt"

	"github.com/susu-finance/go-susu/data/basics"
	"github.com/susu-finance/go-susu/data/circles"
)

// ErrInvalidAmount is returned when a circle is created with a zero
// contribution amount. Callers wrap it with the offending value.
var ErrInvalidAmount = errors.New("contribution amount must be greater than zero")

// ErrInvalidDuration is returned when a circle is created with a duration
// outside the bounds of its rule version. Callers wrap it with the bounds.
var ErrInvalidDuration = errors.New("circle duration out of range")

// CircleNotFoundError is returned when an operation names a circle the
// ledger has never seen.
type CircleNotFoundError struct {
	ID circles.CircleID
}

// Error satisfies builtin interface `error`
func (err CircleNotFoundError) Error() string {
	return fmt.Sprintf("circle %v not found", err.ID)
}

// CircleNotPendingError is returned when joining a circle that is no longer
// accepting members.
type CircleNotPendingError struct {
	ID     circles.CircleID
	Status circles.Status
}

// Error satisfies builtin interface `error`
func (err CircleNotPendingError) Error() string {
	return fmt.Sprintf("circle %v is not accepting members: status %v", err.ID, err.Status)
}

// AlreadyMemberError is returned when an address joins a circle twice.
type AlreadyMemberError struct {
	ID     circles.CircleID
	Member basics.Address
}

// Error satisfies builtin interface `error`
func (err AlreadyMemberError) Error() string {
	return fmt.Sprintf("%v is already a member of circle %v", err.Member, err.ID)
}

// CircleFullError is returned when a circle has reached its membership cap.
type CircleFullError struct {
	ID  circles.CircleID
	Max uint64
}

// Error satisfies builtin interface `error`
func (err CircleFullError) Error() string {
	return fmt.Sprintf("circle %v is full: %d members max", err.ID, err.Max)
}

// InsufficientContributionError is returned when a join or contribution
// carries less than the circle's per-round amount.
type InsufficientContributionError struct {
	ID  circles.CircleID
	Min basics.MicroUnits
	Got basics.MicroUnits
}

// Error satisfies builtin interface `error`
func (err InsufficientContributionError) Error() string {
	return fmt.Sprintf("contribution to circle %v too small: need at least %d, got %d", err.ID, err.Min.Raw, err.Got.Raw)
}

// CircleNotActiveError is returned when contributing to or paying out from a
// circle that is not running.
type CircleNotActiveError struct {
	ID     circles.CircleID
	Status circles.Status
}

// Error satisfies builtin interface `error`
func (err CircleNotActiveError) Error() string {
	return fmt.Sprintf("circle %v is not active: status %v", err.ID, err.Status)
}

// NotMemberError is returned when the named address does not belong to the
// circle's membership.
type NotMemberError struct {
	ID      circles.CircleID
	Address basics.Address
}

// Error satisfies builtin interface `error`
func (err NotMemberError) Error() string {
	return fmt.Sprintf("%v is not a member of circle %v", err.Address, err.ID)
}

// DuplicateContributionError is returned when a member contributes twice in
// the same round.
type DuplicateContributionError struct {
	ID     circles.CircleID
	Member basics.Address
	Round  basics.RoundIndex
}

// Error satisfies builtin interface `error`
func (err DuplicateContributionError) Error() string {
	return fmt.Sprintf("%v already contributed to circle %v in round %d", err.Member, err.ID, err.Round)
}

// AlreadyPaidOutError is returned when a payout names a member who has
// received their payout for the life of the circle.
type AlreadyPaidOutError struct {
	ID     circles.CircleID
	Member basics.Address
}

// Error satisfies builtin interface `error`
func (err AlreadyPaidOutError) Error() string {
	return fmt.Sprintf("%v has already received a payout from circle %v", err.Member, err.ID)
}

// RoundIncompleteError is returned when a payout is attempted before every
// member has contributed to the current round.
type RoundIncompleteError struct {
	ID          circles.CircleID
	Round       basics.RoundIndex
	Contributed uint64
	Members     uint64
}

// Error satisfies builtin interface `error`
func (err RoundIncompleteError) Error() string {
	return fmt.Sprintf("circle %v round %d incomplete: %d of %d members contributed", err.ID, err.Round, err.Contributed, err.Members)
}

// InsufficientEscrowError is returned when a disbursement exceeds the
// balance backing it. A zero ID means the protocol fee balance was short
// rather than a circle's escrow.
type InsufficientEscrowError struct {
	ID   circles.CircleID
	Need basics.MicroUnits
	Have basics.MicroUnits
}

// Error satisfies builtin interface `error`
func (err InsufficientEscrowError) Error() string {
	if err.ID.IsZero() {
		return fmt.Sprintf("protocol fee balance too low: need %d, have %d", err.Need.Raw, err.Have.Raw)
	}
	return fmt.Sprintf("circle %v escrow cannot cover %d: have %d", err.ID, err.Need.Raw, err.Have.Raw)
}

// TransferFailedError is returned when the outbound value transfer fails.
// The operation that requested the transfer is rolled back in full.
type TransferFailedError struct {
	Recipient basics.Address
	Amount    basics.MicroUnits
	Err       error
}

// Error satisfies builtin interface `error`
func (err TransferFailedError) Error() string {
	return fmt.Sprintf("transfer of %d to %v failed: %v", err.Amount.Raw, err.Recipient, err.Err)
}

// Unwrap returns the underlying transfer error.
func (err TransferFailedError) Unwrap() error {
	return err.Err
}

// ReentrancyError is returned when a guarded ledger operation is entered
// while another one is still executing, for example from a disbursement
// callback. The guard fails fast instead of deadlocking.
type ReentrancyError struct {
	Op string
}

// Error satisfies builtin interface `error`
func (err ReentrancyError) Error() string {
	return fmt.Sprintf("reentrant call rejected: %s", err.Op)
}

// UnauthorizedCallerError is returned when an address invokes an operation
// reserved for another party.
type UnauthorizedCallerError struct {
	Caller basics.Address
}

// Error satisfies builtin interface `error`
func (err UnauthorizedCallerError) Error() string {
	return fmt.Sprintf("caller %v is not authorized", err.Caller)
}
