// Copyright 2026 Agora Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package coordinator

import "fmt"

// ProposalStatus is the closed set of proposal lifecycle states.
// Transitions only ever move forward: pending -> ready -> broadcast ->
// {confirmed, expired}. Pending proposals may also expire directly.
type ProposalStatus string

const (
	ProposalStatusPending   ProposalStatus = "pending"
	ProposalStatusReady     ProposalStatus = "ready"
	ProposalStatusBroadcast ProposalStatus = "broadcast"
	ProposalStatusConfirmed ProposalStatus = "confirmed"
	ProposalStatusExpired   ProposalStatus = "expired"
)

func (s ProposalStatus) String() string {
	return string(s)
}

// Terminal reports whether the status ends signature collection
func (s ProposalStatus) Terminal() bool {
	switch s {
	case ProposalStatusBroadcast,
		ProposalStatusConfirmed,
		ProposalStatusExpired:
		return true
	}
	return false
}

// ParseProposalStatus maps a string onto the closed status set.
// Unrecognized values are rejected rather than passed through to
// storage as a filter that silently matches nothing.
func ParseProposalStatus(s string) (ProposalStatus, error) {
	switch ProposalStatus(s) {
	case ProposalStatusPending,
		ProposalStatusReady,
		ProposalStatusBroadcast,
		ProposalStatusConfirmed,
		ProposalStatusExpired:
		return ProposalStatus(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// HistoryStatus is the settlement state of a finalized spend
type HistoryStatus string

const (
	HistoryStatusBroadcast HistoryStatus = "broadcast"
	HistoryStatusConfirmed HistoryStatus = "confirmed"
	HistoryStatusFailed    HistoryStatus = "failed"
)

func (s HistoryStatus) String() string {
	return string(s)
}
