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

package sqlite

import (
	"errors"
	"time"

	"github.com/Gohlub/agora/database/models"
	"github.com/Gohlub/agora/database/types"
	"gorm.io/gorm"
)

// AddProposal inserts a proposal. The unique index on tx_id rejects
// concurrent duplicate submissions of the same transaction.
func (d *MetadataStoreSqlite) AddProposal(
	proposal *models.Proposal,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return err
	}
	if result := db.Create(proposal); result.Error != nil {
		return result.Error
	}
	return nil
}

// GetProposal returns a proposal by its identifier
func (d *MetadataStoreSqlite) GetProposal(
	proposalId string,
	txn types.Txn,
) (*models.Proposal, error) {
	ret := &models.Proposal{}
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	result := db.First(ret, "id = ?", proposalId)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, models.ErrProposalNotFound
		}
		return nil, result.Error
	}
	return ret, nil
}

// GetProposalByTxId returns the proposal for a transaction identifier
func (d *MetadataStoreSqlite) GetProposalByTxId(
	txId string,
	txn types.Txn,
) (*models.Proposal, error) {
	ret := &models.Proposal{}
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	result := db.First(ret, "tx_id = ?", txId)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, models.ErrProposalNotFound
		}
		return nil, result.Error
	}
	return ret, nil
}

// GetProposals returns proposals, optionally filtered by lock hash and
// status, ordered by creation time, newest first.
func (d *MetadataStoreSqlite) GetProposals(
	lockHash string,
	status string,
	offset int,
	limit int,
	txn types.Txn,
) ([]models.Proposal, error) {
	var ret []models.Proposal
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	query := db.Model(&models.Proposal{})
	if lockHash != "" {
		query = query.Where("lock_hash = ?", lockHash)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	query = query.Order("created_at DESC")
	if offset > 0 {
		query = query.Offset(offset)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if result := query.Find(&ret); result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

// SetProposalStatus updates a proposal's status. When fromStatus is
// non-empty the update only applies if the proposal currently has that
// status, making the transition conditional at the storage layer.
// Returns the number of rows changed so callers can detect lost races.
func (d *MetadataStoreSqlite) SetProposalStatus(
	proposalId string,
	fromStatus string,
	toStatus string,
	txn types.Txn,
) (int64, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return 0, err
	}
	query := db.Model(&models.Proposal{}).
		Where("id = ?", proposalId)
	if fromStatus != "" {
		query = query.Where("status = ?", fromStatus)
	}
	result := query.Updates(map[string]any{
		"status":     toStatus,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// TouchProposal bumps a proposal's updated_at without changing any
// other column. Used when a signature lands but no status transition
// fires, so updated_at reflects the latest activity.
func (d *MetadataStoreSqlite) TouchProposal(
	proposalId string,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return err
	}
	result := db.Model(&models.Proposal{}).
		Where("id = ?", proposalId).
		Update("updated_at", time.Now())
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// AddProposalSignature records a participant's signature. The unique index
// on (proposal_id, signer) rejects duplicate signatures.
func (d *MetadataStoreSqlite) AddProposalSignature(
	signature *models.ProposalSignature,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return err
	}
	if result := db.Create(signature); result.Error != nil {
		return result.Error
	}
	return nil
}

// GetProposalSignature returns the signature record for a signer on a
// proposal
func (d *MetadataStoreSqlite) GetProposalSignature(
	proposalId string,
	signer string,
	txn types.Txn,
) (*models.ProposalSignature, error) {
	ret := &models.ProposalSignature{}
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	result := db.First(ret, "proposal_id = ? AND signer = ?", proposalId, signer)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, models.ErrSignatureNotFound
		}
		return nil, result.Error
	}
	return ret, nil
}

// GetProposalSignatures returns all signature records for a proposal in
// signing order
func (d *MetadataStoreSqlite) GetProposalSignatures(
	proposalId string,
	txn types.Txn,
) ([]models.ProposalSignature, error) {
	var ret []models.ProposalSignature
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	result := db.
		Where("proposal_id = ?", proposalId).
		Order("signed_at").
		Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

// CountProposalSignatures returns the number of signatures collected for a
// proposal
func (d *MetadataStoreSqlite) CountProposalSignatures(
	proposalId string,
	txn types.Txn,
) (int64, error) {
	var count int64
	db, err := d.resolveDB(txn)
	if err != nil {
		return 0, err
	}
	result := db.Model(&models.ProposalSignature{}).
		Where("proposal_id = ?", proposalId).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}
