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

import "github.com/Gohlub/agora/event"

const (
	WalletRegisteredEventType  event.EventType = "wallet.registered"
	ProposalCreatedEventType   event.EventType = "proposal.created"
	ProposalSignedEventType    event.EventType = "proposal.signed"
	ProposalReadyEventType     event.EventType = "proposal.ready"
	ProposalBroadcastEventType event.EventType = "proposal.broadcast"
	ProposalConfirmedEventType event.EventType = "proposal.confirmed"
	ProposalExpiredEventType   event.EventType = "proposal.expired"
	DirectSpendEventType       event.EventType = "history.direct_spend"
	HistorySettledEventType    event.EventType = "history.settled"
)

// WalletRegisteredEvent is emitted when a new wallet is registered
type WalletRegisteredEvent struct {
	WalletId     string
	LockHash     string
	Threshold    int
	TotalSigners int
}

// ProposalCreatedEvent is emitted when a proposal enters the pending state
type ProposalCreatedEvent struct {
	ProposalId string
	TxId       string
	LockHash   string
	Proposer   string
}

// ProposalSignedEvent is emitted for each accepted signature, including
// the proposer's implicit signature at creation
type ProposalSignedEvent struct {
	ProposalId     string
	Signer         string
	SignatureCount int64
}

// ProposalReadyEvent is emitted exactly once per proposal, when the
// signature count first reaches the threshold
type ProposalReadyEvent struct {
	ProposalId     string
	TxId           string
	SignatureCount int64
	Threshold      int
}

// ProposalBroadcastEvent is emitted when a proposal is marked broadcast
type ProposalBroadcastEvent struct {
	ProposalId string
	HistoryId  string
	TxId       string
}

// ProposalStatusEvent is emitted for watcher-driven terminal transitions
type ProposalStatusEvent struct {
	ProposalId string
	Status     ProposalStatus
}

// DirectSpendEvent is emitted when a single-signer spend bypasses the
// proposal flow
type DirectSpendEvent struct {
	HistoryId string
	TxId      string
	LockHash  string
	Signer    string
}

// HistorySettledEvent is emitted when a history entry leaves the
// broadcast state
type HistorySettledEvent struct {
	HistoryId string
	TxId      string
	Status    HistoryStatus
}
