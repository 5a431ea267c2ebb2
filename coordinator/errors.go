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

import "errors"

var (
	// ErrWalletExists is returned when registering a wallet whose lock
	// hash is already registered
	ErrWalletExists = errors.New("wallet already registered")

	// ErrWalletNotFound is returned when no wallet matches the given lock
	// hash or identifier
	ErrWalletNotFound = errors.New("wallet not found")

	// ErrProposalExists is returned when creating a proposal for a
	// transaction id that already has one
	ErrProposalExists = errors.New("proposal already exists for transaction")

	// ErrProposalNotFound is returned when no proposal matches the given
	// identifier
	ErrProposalNotFound = errors.New("proposal not found")

	// ErrProposalNotPending is returned when signing a proposal that has
	// left the pending state
	ErrProposalNotPending = errors.New("proposal is not pending")

	// ErrNotParticipant is returned when the signer is not registered for
	// the proposal's wallet
	ErrNotParticipant = errors.New("signer is not a wallet participant")

	// ErrAlreadySigned is returned when the signer has already signed the
	// proposal
	ErrAlreadySigned = errors.New("signer has already signed proposal")

	// ErrProposalNotBroadcastable is returned when marking a proposal
	// broadcast from a state that does not allow it
	ErrProposalNotBroadcastable = errors.New("proposal cannot be broadcast")

	// ErrProposalNotBroadcast is returned when confirming a proposal that
	// was never broadcast
	ErrProposalNotBroadcast = errors.New("proposal is not broadcast")

	// ErrProposalTerminal is returned when expiring a proposal that has
	// already reached a terminal state
	ErrProposalTerminal = errors.New("proposal is in a terminal state")

	// ErrHistoryEntryNotFound is returned when no history entry matches
	// the given identifier
	ErrHistoryEntryNotFound = errors.New("history entry not found")

	// ErrHistoryEntryNotBroadcast is returned when settling a history
	// entry that already left the broadcast state
	ErrHistoryEntryNotBroadcast = errors.New("history entry is not broadcast")

	// ErrInvalidStatus is returned when a status filter value is not a
	// recognized proposal status
	ErrInvalidStatus = errors.New("invalid proposal status")

	// ErrInvalidInput is returned when request parameters fail basic
	// validation
	ErrInvalidInput = errors.New("invalid input")
)
