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

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/Gohlub/agora/database"
	"github.com/Gohlub/agora/database/models"
	"github.com/google/uuid"
)

type DirectSpendParams struct {
	TxId       string
	LockHash   string
	Signer     string
	TotalInput int64
	Seeds      []models.Seed
}

func (p DirectSpendParams) validate() error {
	if p.TxId == "" {
		return fmt.Errorf("%w: missing tx id", ErrInvalidInput)
	}
	if p.LockHash == "" {
		return fmt.Errorf("%w: missing lock hash", ErrInvalidInput)
	}
	if p.Signer == "" {
		return fmt.Errorf("%w: missing signer", ErrInvalidInput)
	}
	return nil
}

// DirectSpend records a single-signer spend that bypasses the proposal
// flow. The signer must belong to the wallet; the wallet's threshold is
// deliberately not checked here, so a direct spend against a multi-sig
// wallet is recorded as submitted. The entry enters history as broadcast
// with identical created and broadcast timestamps.
func (c *Coordinator) DirectSpend(
	ctx context.Context,
	params DirectSpendParams,
) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := params.validate(); err != nil {
		return "", err
	}
	lockKey := "tx:" + params.TxId
	c.locks.Lock(lockKey)
	defer c.locks.Unlock(lockKey)

	now := time.Now()
	entry := &models.HistoryEntry{
		ID:          uuid.NewString(),
		TxId:        params.TxId,
		LockHash:    params.LockHash,
		Initiator:   params.Signer,
		Status:      HistoryStatusBroadcast.String(),
		TotalInput:  params.TotalInput,
		CreatedAt:   now,
		BroadcastAt: now,
	}
	if err := entry.SetSeeds(params.Seeds); err != nil {
		return "", fmt.Errorf("%w: bad seeds: %w", ErrInvalidInput, err)
	}
	if err := entry.SetSigners([]string{params.Signer}); err != nil {
		return "", err
	}
	txn := database.NewMetadataOnlyTxn(c.db, true)
	err := txn.Do(func(txn *database.Txn) error {
		wallet, err := c.db.GetWallet(params.LockHash, txn)
		if err != nil {
			if errors.Is(err, models.ErrWalletNotFound) {
				return fmt.Errorf(
					"%w: %s",
					ErrWalletNotFound,
					params.LockHash,
				)
			}
			return err
		}
		participants, err := c.db.GetWalletParticipants(wallet.ID, txn)
		if err != nil {
			return err
		}
		if !slices.Contains(participants, params.Signer) {
			return fmt.Errorf("%w: %s", ErrNotParticipant, params.Signer)
		}
		return c.db.AddHistoryEntry(entry, txn)
	})
	if err != nil {
		return "", err
	}
	c.logger.Info(
		"direct spend recorded",
		"history_id", entry.ID,
		"tx_id", entry.TxId,
		"lock_hash", entry.LockHash,
		"signer", params.Signer,
	)
	c.metrics.directSpends.Inc()
	c.publishEvent(DirectSpendEventType, DirectSpendEvent{
		HistoryId: entry.ID,
		TxId:      entry.TxId,
		LockHash:  entry.LockHash,
		Signer:    params.Signer,
	})
	return entry.ID, nil
}

// GetHistoryEntry returns a history entry by its identifier
func (c *Coordinator) GetHistoryEntry(
	ctx context.Context,
	entryId string,
) (*models.HistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entry, err := c.db.GetHistoryEntry(entryId, nil)
	if err != nil {
		if errors.Is(err, models.ErrHistoryEntryNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrHistoryEntryNotFound, entryId)
		}
		return nil, err
	}
	return entry, nil
}

// ListHistory returns finalized spends ordered by broadcast time,
// newest first, filtered by participant PKH or lock hash
func (c *Coordinator) ListHistory(
	ctx context.Context,
	participant string,
	lockHash string,
	offset, limit int,
) ([]models.HistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if participant == "" || lockHash != "" {
		return c.db.GetHistoryEntries(lockHash, offset, limit, nil)
	}
	wallets, err := c.db.GetWallets(participant, 0, 0, nil)
	if err != nil {
		return nil, err
	}
	var merged []models.HistoryEntry
	for _, wallet := range wallets {
		entries, err := c.db.GetHistoryEntries(wallet.LockHash, 0, 0, nil)
		if err != nil {
			return nil, err
		}
		merged = append(merged, entries...)
	}
	slices.SortFunc(merged, func(a, b models.HistoryEntry) int {
		return b.BroadcastAt.Compare(a.BroadcastAt)
	})
	if offset > 0 {
		if offset >= len(merged) {
			return []models.HistoryEntry{}, nil
		}
		merged = merged[offset:]
	}
	if limit > 0 && limit < len(merged) {
		merged = merged[:limit]
	}
	return merged, nil
}

// ConfirmHistoryEntry records on-chain settlement of a broadcast history
// entry. Driven by an external watcher.
func (c *Coordinator) ConfirmHistoryEntry(
	ctx context.Context,
	entryId string,
) error {
	return c.settleHistoryEntry(ctx, entryId, HistoryStatusConfirmed)
}

// FailHistoryEntry records that a broadcast transaction will never
// settle. Driven by an external watcher.
func (c *Coordinator) FailHistoryEntry(
	ctx context.Context,
	entryId string,
) error {
	return c.settleHistoryEntry(ctx, entryId, HistoryStatusFailed)
}

func (c *Coordinator) settleHistoryEntry(
	ctx context.Context,
	entryId string,
	target HistoryStatus,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	lockKey := "history:" + entryId
	c.locks.Lock(lockKey)
	defer c.locks.Unlock(lockKey)

	var entry *models.HistoryEntry
	txn := database.NewMetadataOnlyTxn(c.db, true)
	err := txn.Do(func(txn *database.Txn) error {
		var err error
		entry, err = c.db.GetHistoryEntry(entryId, txn)
		if err != nil {
			if errors.Is(err, models.ErrHistoryEntryNotFound) {
				return fmt.Errorf(
					"%w: %s",
					ErrHistoryEntryNotFound,
					entryId,
				)
			}
			return err
		}
		if entry.Status != HistoryStatusBroadcast.String() {
			return fmt.Errorf(
				"%w: %s is %s",
				ErrHistoryEntryNotBroadcast,
				entryId,
				entry.Status,
			)
		}
		var confirmedAt *time.Time
		if target == HistoryStatusConfirmed {
			now := time.Now()
			confirmedAt = &now
		}
		return c.db.SetHistoryEntryStatus(
			entryId,
			target.String(),
			confirmedAt,
			txn,
		)
	})
	if err != nil {
		return err
	}
	c.logger.Info(
		"history entry settled",
		"history_id", entryId,
		"status", target,
	)
	c.publishEvent(HistorySettledEventType, HistorySettledEvent{
		HistoryId: entryId,
		TxId:      entry.TxId,
		Status:    target,
	})
	return nil
}
