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

	"github.com/Gohlub/agora/database/models"
	"github.com/Gohlub/agora/database/types"
	"gorm.io/gorm"
)

// AddWallet inserts a wallet and its participant set. The unique index on
// lock_hash rejects concurrent duplicate registrations that slip past the
// caller's existence check.
func (d *MetadataStoreSqlite) AddWallet(
	wallet *models.Wallet,
	participants []string,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return err
	}
	if result := db.Create(wallet); result.Error != nil {
		return result.Error
	}
	for _, pkh := range participants {
		item := models.WalletParticipant{
			WalletID: wallet.ID,
			Pkh:      pkh,
		}
		if result := db.Create(&item); result.Error != nil {
			return result.Error
		}
	}
	return nil
}

// GetWallet returns the wallet registered under the given lock hash
func (d *MetadataStoreSqlite) GetWallet(
	lockHash string,
	txn types.Txn,
) (*models.Wallet, error) {
	ret := &models.Wallet{}
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	result := db.First(ret, "lock_hash = ?", lockHash)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, models.ErrWalletNotFound
		}
		return nil, result.Error
	}
	return ret, nil
}

// GetWalletById returns a wallet by its identifier
func (d *MetadataStoreSqlite) GetWalletById(
	walletId string,
	txn types.Txn,
) (*models.Wallet, error) {
	ret := &models.Wallet{}
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	result := db.First(ret, "id = ?", walletId)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, models.ErrWalletNotFound
		}
		return nil, result.Error
	}
	return ret, nil
}

// GetWallets returns registered wallets, optionally limited to those that
// include the given participant PKH. Results are ordered by creation time,
// newest first.
func (d *MetadataStoreSqlite) GetWallets(
	participant string,
	offset int,
	limit int,
	txn types.Txn,
) ([]models.Wallet, error) {
	var ret []models.Wallet
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	query := db.Model(&models.Wallet{})
	if participant != "" {
		query = query.
			Joins(
				"JOIN wallet_participant ON wallet_participant.wallet_id = wallet.id",
			).
			Where("wallet_participant.pkh = ?", participant)
	}
	query = query.Order("wallet.created_at DESC")
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

// GetWalletParticipants returns the participant rows for a wallet
func (d *MetadataStoreSqlite) GetWalletParticipants(
	walletId string,
	txn types.Txn,
) ([]models.WalletParticipant, error) {
	var ret []models.WalletParticipant
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	result := db.
		Where("wallet_id = ?", walletId).
		Order("pkh").
		Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}
