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

package database

import (
	"time"

	"github.com/Gohlub/agora/database/models"
)

// AddHistoryEntry appends a finalized spend record
func (d *Database) AddHistoryEntry(
	entry *models.HistoryEntry,
	txn *Txn,
) error {
	if txn == nil {
		txn = NewMetadataOnlyTxn(d, true)
		return txn.Do(func(txn *Txn) error {
			return d.metadata.AddHistoryEntry(entry, txn.Metadata())
		})
	}
	return d.metadata.AddHistoryEntry(entry, txn.Metadata())
}

// GetHistoryEntry retrieves a history entry by its identifier. Returns
// models.ErrHistoryEntryNotFound when no entry matches.
func (d *Database) GetHistoryEntry(
	entryId string,
	txn *Txn,
) (*models.HistoryEntry, error) {
	if txn == nil {
		txn = NewMetadataOnlyTxn(d, false)
		defer txn.Release()
	}
	return d.metadata.GetHistoryEntry(entryId, txn.Metadata())
}

// GetHistoryEntryByTxId retrieves the most recent history entry for a
// transaction identifier
func (d *Database) GetHistoryEntryByTxId(
	txId string,
	txn *Txn,
) (*models.HistoryEntry, error) {
	if txn == nil {
		txn = NewMetadataOnlyTxn(d, false)
		defer txn.Release()
	}
	return d.metadata.GetHistoryEntryByTxId(txId, txn.Metadata())
}

// GetHistoryEntries lists history entries, optionally filtered by lock
// hash, newest broadcast first
func (d *Database) GetHistoryEntries(
	lockHash string,
	offset, limit int,
	txn *Txn,
) ([]models.HistoryEntry, error) {
	if txn == nil {
		txn = NewMetadataOnlyTxn(d, false)
		defer txn.Release()
	}
	return d.metadata.GetHistoryEntries(lockHash, offset, limit, txn.Metadata())
}

// SetHistoryEntryStatus updates settlement status for a history entry
func (d *Database) SetHistoryEntryStatus(
	entryId string,
	status string,
	confirmedAt *time.Time,
	txn *Txn,
) error {
	if txn == nil {
		txn = NewMetadataOnlyTxn(d, true)
		return txn.Do(func(txn *Txn) error {
			return d.metadata.SetHistoryEntryStatus(
				entryId,
				status,
				confirmedAt,
				txn.Metadata(),
			)
		})
	}
	return d.metadata.SetHistoryEntryStatus(
		entryId,
		status,
		confirmedAt,
		txn.Metadata(),
	)
}
