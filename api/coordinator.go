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

package api

import (
	"context"

	"github.com/Gohlub/agora/coordinator"
	"github.com/Gohlub/agora/database"
	"github.com/Gohlub/agora/database/models"
)

// Coordinator is the interface the API server uses to drive the spend
// coordination engine. This decouples the HTTP server from the
// concrete Coordinator struct and enables testing with mock
// implementations.
type Coordinator interface {
	// RegisterWallet registers a shared spending condition.
	RegisterWallet(
		ctx context.Context,
		params coordinator.RegisterWalletParams,
	) (string, error)

	// GetWallet returns the wallet registered under a lock hash.
	GetWallet(
		ctx context.Context,
		lockHash string,
	) (*models.Wallet, error)

	// GetWalletById returns a wallet by its identifier.
	GetWalletById(
		ctx context.Context,
		walletId string,
	) (*models.Wallet, error)

	// ListWallets returns registered wallets, optionally limited to
	// those that include the given participant PKH.
	ListWallets(
		ctx context.Context,
		participant string,
		offset, limit int,
	) ([]models.Wallet, error)

	// GetWalletParticipants returns the participant PKHs for a wallet.
	GetWalletParticipants(
		ctx context.Context,
		walletId string,
	) ([]string, error)

	// CreateProposal registers a candidate spend.
	CreateProposal(
		ctx context.Context,
		params coordinator.CreateProposalParams,
	) (string, error)

	// GetProposal returns a proposal by its identifier.
	GetProposal(
		ctx context.Context,
		proposalId string,
	) (*models.Proposal, error)

	// GetProposalSignatures returns the signature records for a
	// proposal in signing order.
	GetProposalSignatures(
		ctx context.Context,
		proposalId string,
	) ([]models.ProposalSignature, error)

	// GetProposalPayloads returns the opaque blobs stored with a
	// proposal. Co-signers fetch these to produce a signature.
	GetProposalPayloads(
		ctx context.Context,
		proposalId string,
	) (database.ProposalPayloads, error)

	// GetSignaturePayload returns one signer's signed payload blob.
	GetSignaturePayload(
		ctx context.Context,
		proposalId string,
		signer string,
	) ([]byte, error)

	// ListProposals returns proposals filtered by participant PKH,
	// lock hash, and status.
	ListProposals(
		ctx context.Context,
		participant string,
		lockHash string,
		status string,
		offset, limit int,
	) ([]models.Proposal, error)

	// SignProposal records one participant's signature and reports the
	// resulting signature count and whether the proposal just became
	// ready.
	SignProposal(
		ctx context.Context,
		proposalId string,
		signer string,
		signedPayload []byte,
	) (int64, bool, error)

	// MarkBroadcast finalizes a proposal into the history log and
	// returns the history entry identifier.
	MarkBroadcast(
		ctx context.Context,
		proposalId string,
		finalTxId string,
	) (string, error)

	// ConfirmProposal records on-chain settlement of a broadcast
	// proposal.
	ConfirmProposal(
		ctx context.Context,
		proposalId string,
	) error

	// ExpireProposal abandons a proposal that will never complete.
	ExpireProposal(
		ctx context.Context,
		proposalId string,
	) error

	// DirectSpend records a single-signer spend straight into the
	// history log.
	DirectSpend(
		ctx context.Context,
		params coordinator.DirectSpendParams,
	) (string, error)

	// GetHistoryEntry returns a history entry by its identifier.
	GetHistoryEntry(
		ctx context.Context,
		entryId string,
	) (*models.HistoryEntry, error)

	// ListHistory returns finalized spends ordered by broadcast time,
	// newest first.
	ListHistory(
		ctx context.Context,
		participant string,
		lockHash string,
		offset, limit int,
	) ([]models.HistoryEntry, error)

	// ConfirmHistoryEntry records on-chain settlement of a broadcast
	// history entry.
	ConfirmHistoryEntry(
		ctx context.Context,
		entryId string,
	) error

	// FailHistoryEntry records that a broadcast transaction will never
	// settle.
	FailHistoryEntry(
		ctx context.Context,
		entryId string,
	) error
}
