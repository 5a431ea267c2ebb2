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

// AddHistoryEntry appends a finalized spend record
func (d *MetadataStoreSqlite) AddHistoryEntry(
	entry *models.HistoryEntry,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return err
	}
	if result := db.Create(entry); result.Error != nil {
		return result.Error
	}
	return nil
}

// GetHistoryEntry returns a history entry by its identifier
func (d *MetadataStoreSqlite) GetHistoryEntry(
	entryId string,
	txn types.Txn,
) (*models.HistoryEntry, error) {
	ret := &models.HistoryEntry{}
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	result := db.First(ret, "id = ?", entryId)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, models.ErrHistoryEntryNotFound
		}
		return nil, result.Error
	}
	return ret, nil
}

// GetHistoryEntryByTxId returns the most recent history entry for a
// transaction identifier
func (d *MetadataStoreSqlite) GetHistoryEntryByTxId(
	txId string,
	txn types.Txn,
) (*models.HistoryEntry, error) {
	ret := &models.HistoryEntry{}
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	result := db.
		Where("tx_id = ?", txId).
		Order("broadcast_at DESC").
		First(ret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, models.ErrHistoryEntryNotFound
		}
		return nil, result.Error
	}
	return ret, nil
}

// GetHistoryEntries returns history entries, optionally filtered by lock
// hash, ordered by broadcast time, newest first.
func (d *MetadataStoreSqlite) GetHistoryEntries(
	lockHash string,
	offset int,
	limit int,
	txn types.Txn,
) ([]models.HistoryEntry, error) {
	var ret []models.HistoryEntry
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	query := db.Model(&models.HistoryEntry{})
	if lockHash != "" {
		query = query.Where("lock_hash = ?", lockHash)
	}
	query = query.Order("broadcast_at DESC")
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

// SetHistoryEntryStatus updates the settlement status of a history entry.
// A non-nil confirmedAt records when the transaction settled on chain.
func (d *MetadataStoreSqlite) SetHistoryEntryStatus(
	entryId string,
	status string,
	confirmedAt *time.Time,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return err
	}
	updates := map[string]any{
		"status": status,
	}
	if confirmedAt != nil {
		updates["confirmed_at"] = confirmedAt
	}
	result := db.Model(&models.HistoryEntry{}).
		Where("id = ?", entryId).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrHistoryEntryNotFound
	}
	return nil
}
