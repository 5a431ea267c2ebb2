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

package models

import (
	"encoding/json"
	"errors"
	"time"
)

var ErrHistoryEntryNotFound = errors.New("history entry not found")

// HistoryEntry is a finalized spend, reached through the proposal flow
// or via direct single-signer spend. TxId is the final transaction
// identifier, which may differ from the originating proposal's tx id
// when signatures were merged into a new transaction. Append-only;
// status and confirmed-at are only touched by the confirmation
// operations.
type HistoryEntry struct {
	ID          string `gorm:"primaryKey;size:36"`
	TxId        string `gorm:"index;size:128;not null"`
	LockHash    string `gorm:"index;size:128;not null"`
	Initiator   string `gorm:"size:128;not null"`
	Status      string `gorm:"size:16;not null"`
	TotalInput  int64
	SeedsJSON   string
	SignersJSON string
	CreatedAt   time.Time
	BroadcastAt time.Time `gorm:"index"`
	ConfirmedAt *time.Time
}

func (HistoryEntry) TableName() string {
	return "history_entry"
}

// Seeds decodes the stored economic summary
func (h *HistoryEntry) Seeds() []Seed {
	var seeds []Seed
	if h.SeedsJSON != "" {
		_ = json.Unmarshal([]byte(h.SeedsJSON), &seeds)
	}
	return seeds
}

// SetSeeds encodes the economic summary for storage
func (h *HistoryEntry) SetSeeds(seeds []Seed) error {
	data, err := json.Marshal(seeds)
	if err != nil {
		return err
	}
	h.SeedsJSON = string(data)
	return nil
}

// Signers decodes the set of PKHs that authorized the spend
func (h *HistoryEntry) Signers() []string {
	var signers []string
	if h.SignersJSON != "" {
		_ = json.Unmarshal([]byte(h.SignersJSON), &signers)
	}
	return signers
}

// SetSigners encodes the authorizing signer set for storage
func (h *HistoryEntry) SetSigners(signers []string) error {
	data, err := json.Marshal(signers)
	if err != nil {
		return err
	}
	h.SignersJSON = string(data)
	return nil
}
