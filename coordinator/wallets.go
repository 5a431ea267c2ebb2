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

type RegisterWalletParams struct {
	LockHash     string
	Threshold    int
	TotalSigners int
	Participants []string
	Creator      string
}

func (p RegisterWalletParams) validate() error {
	if p.LockHash == "" {
		return fmt.Errorf("%w: missing lock hash", ErrInvalidInput)
	}
	if p.Creator == "" {
		return fmt.Errorf("%w: missing creator", ErrInvalidInput)
	}
	if p.Threshold < 1 {
		return fmt.Errorf("%w: threshold must be at least 1", ErrInvalidInput)
	}
	if len(p.Participants) == 0 {
		return fmt.Errorf("%w: no participants", ErrInvalidInput)
	}
	seen := make(map[string]struct{}, len(p.Participants))
	for _, pkh := range p.Participants {
		if pkh == "" {
			return fmt.Errorf("%w: empty participant PKH", ErrInvalidInput)
		}
		if _, ok := seen[pkh]; ok {
			return fmt.Errorf(
				"%w: duplicate participant %s",
				ErrInvalidInput,
				pkh,
			)
		}
		seen[pkh] = struct{}{}
	}
	// NOTE: threshold is not cross-checked against total_signers or the
	// participant count. Clients compute the lock hash from the real
	// spending condition; the gateway records what it is told.
	return nil
}

// RegisterWallet registers a shared spending condition. Concurrent
// registrations of the same lock hash are serialized per lock hash so
// exactly one succeeds and the rest observe ErrWalletExists.
func (c *Coordinator) RegisterWallet(
	ctx context.Context,
	params RegisterWalletParams,
) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := params.validate(); err != nil {
		return "", err
	}
	lockKey := "wallet:" + params.LockHash
	c.locks.Lock(lockKey)
	defer c.locks.Unlock(lockKey)

	wallet := &models.Wallet{
		ID:           uuid.NewString(),
		LockHash:     params.LockHash,
		Threshold:    params.Threshold,
		TotalSigners: params.TotalSigners,
		CreatedBy:    params.Creator,
		CreatedAt:    time.Now(),
	}
	txn := database.NewMetadataOnlyTxn(c.db, true)
	err := txn.Do(func(txn *database.Txn) error {
		_, err := c.db.GetWallet(params.LockHash, txn)
		if err == nil {
			return fmt.Errorf("%w: %s", ErrWalletExists, params.LockHash)
		}
		if !errors.Is(err, models.ErrWalletNotFound) {
			return err
		}
		return c.db.AddWallet(wallet, params.Participants, txn)
	})
	if err != nil {
		return "", err
	}
	c.logger.Info(
		"wallet registered",
		"wallet_id", wallet.ID,
		"lock_hash", wallet.LockHash,
		"threshold", wallet.Threshold,
	)
	c.metrics.walletsRegistered.Inc()
	c.publishEvent(WalletRegisteredEventType, WalletRegisteredEvent{
		WalletId:     wallet.ID,
		LockHash:     wallet.LockHash,
		Threshold:    wallet.Threshold,
		TotalSigners: wallet.TotalSigners,
	})
	return wallet.ID, nil
}

// GetWallet returns the wallet registered under a lock hash
func (c *Coordinator) GetWallet(
	ctx context.Context,
	lockHash string,
) (*models.Wallet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	wallet, err := c.db.GetWallet(lockHash, nil)
	if err != nil {
		if errors.Is(err, models.ErrWalletNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrWalletNotFound, lockHash)
		}
		return nil, err
	}
	return wallet, nil
}

// GetWalletById returns a wallet by its identifier
func (c *Coordinator) GetWalletById(
	ctx context.Context,
	walletId string,
) (*models.Wallet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	wallet, err := c.db.GetWalletById(walletId, nil)
	if err != nil {
		if errors.Is(err, models.ErrWalletNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrWalletNotFound, walletId)
		}
		return nil, err
	}
	return wallet, nil
}

// ListWallets returns registered wallets, optionally limited to those
// that include the given participant PKH
func (c *Coordinator) ListWallets(
	ctx context.Context,
	participant string,
	offset, limit int,
) ([]models.Wallet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.db.GetWallets(participant, offset, limit, nil)
}

// GetWalletParticipants returns the participant PKHs for a wallet
func (c *Coordinator) GetWalletParticipants(
	ctx context.Context,
	walletId string,
) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.db.GetWalletParticipants(walletId, nil)
}

// IsParticipant reports whether signer belongs to the wallet registered
// under lockHash
func (c *Coordinator) IsParticipant(
	ctx context.Context,
	lockHash string,
	signer string,
) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	wallet, err := c.db.GetWallet(lockHash, nil)
	if err != nil {
		if errors.Is(err, models.ErrWalletNotFound) {
			return false, fmt.Errorf("%w: %s", ErrWalletNotFound, lockHash)
		}
		return false, err
	}
	participants, err := c.db.GetWalletParticipants(wallet.ID, nil)
	if err != nil {
		return false, err
	}
	return slices.Contains(participants, signer), nil
}
