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

package metadata

import (
	"log/slog"
	"time"

	"github.com/Gohlub/agora/database/models"
	"github.com/Gohlub/agora/database/plugin/metadata/sqlite"
	"github.com/Gohlub/agora/database/types"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

type MetadataStore interface {
	// Database
	Close() error
	DB() *gorm.DB
	GetCommitTimestamp() (int64, error)
	SetCommitTimestamp(int64, types.Txn) error
	Transaction() types.Txn

	// Wallets
	AddWallet(
		*models.Wallet,
		[]string, // participant PKHs
		types.Txn,
	) error
	GetWallet(
		string, // lockHash
		types.Txn,
	) (*models.Wallet, error)
	GetWalletById(
		string, // walletId
		types.Txn,
	) (*models.Wallet, error)
	GetWallets(
		string, // participant PKH filter, empty for all
		int, // offset
		int, // limit
		types.Txn,
	) ([]models.Wallet, error)
	GetWalletParticipants(
		string, // walletId
		types.Txn,
	) ([]models.WalletParticipant, error)

	// Proposals
	AddProposal(*models.Proposal, types.Txn) error
	GetProposal(
		string, // proposalId
		types.Txn,
	) (*models.Proposal, error)
	GetProposalByTxId(
		string, // txId
		types.Txn,
	) (*models.Proposal, error)
	GetProposals(
		string, // lockHash filter, empty for all
		string, // status filter, empty for all
		int, // offset
		int, // limit
		types.Txn,
	) ([]models.Proposal, error)
	SetProposalStatus(
		string, // proposalId
		string, // fromStatus, empty for unconditional
		string, // toStatus
		types.Txn,
	) (int64, error)
	TouchProposal(
		string, // proposalId
		types.Txn,
	) error
	AddProposalSignature(*models.ProposalSignature, types.Txn) error
	GetProposalSignature(
		string, // proposalId
		string, // signer PKH
		types.Txn,
	) (*models.ProposalSignature, error)
	GetProposalSignatures(
		string, // proposalId
		types.Txn,
	) ([]models.ProposalSignature, error)
	CountProposalSignatures(
		string, // proposalId
		types.Txn,
	) (int64, error)

	// History
	AddHistoryEntry(*models.HistoryEntry, types.Txn) error
	GetHistoryEntry(
		string, // entryId
		types.Txn,
	) (*models.HistoryEntry, error)
	GetHistoryEntryByTxId(
		string, // txId
		types.Txn,
	) (*models.HistoryEntry, error)
	GetHistoryEntries(
		string, // lockHash filter, empty for all
		int, // offset
		int, // limit
		types.Txn,
	) ([]models.HistoryEntry, error)
	SetHistoryEntryStatus(
		string, // entryId
		string, // status
		*time.Time, // confirmedAt
		types.Txn,
	) error
}

// For now, this always returns a sqlite plugin
func New(
	pluginName, dataDir string,
	logger *slog.Logger,
	promRegistry prometheus.Registerer,
) (MetadataStore, error) {
	return sqlite.New(dataDir, logger, promRegistry)
}
