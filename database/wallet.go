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
	"github.com/Gohlub/agora/database/models"
)

// AddWallet registers a wallet and its participant set
func (d *Database) AddWallet(
	wallet *models.Wallet,
	participants []string,
	txn *Txn,
) error {
	if txn == nil {
		txn = NewMetadataOnlyTxn(d, true)
		return txn.Do(func(txn *Txn) error {
			return d.metadata.AddWallet(wallet, participants, txn.Metadata())
		})
	}
	return d.metadata.AddWallet(wallet, participants, txn.Metadata())
}

// GetWallet retrieves the wallet registered under a lock hash. Returns
// models.ErrWalletNotFound when no wallet matches.
func (d *Database) GetWallet(
	lockHash string,
	txn *Txn,
) (*models.Wallet, error) {
	if txn == nil {
		txn = NewMetadataOnlyTxn(d, false)
		defer txn.Release()
	}
	return d.metadata.GetWallet(lockHash, txn.Metadata())
}

// GetWalletById retrieves a wallet by its identifier
func (d *Database) GetWalletById(
	walletId string,
	txn *Txn,
) (*models.Wallet, error) {
	if txn == nil {
		txn = NewMetadataOnlyTxn(d, false)
		defer txn.Release()
	}
	return d.metadata.GetWalletById(walletId, txn.Metadata())
}

// GetWallets lists registered wallets, optionally limited to those
// including the given participant PKH
func (d *Database) GetWallets(
	participant string,
	offset, limit int,
	txn *Txn,
) ([]models.Wallet, error) {
	if txn == nil {
		txn = NewMetadataOnlyTxn(d, false)
		defer txn.Release()
	}
	return d.metadata.GetWallets(participant, offset, limit, txn.Metadata())
}

// GetWalletParticipants returns the participant PKHs registered for a
// wallet, in stable order
func (d *Database) GetWalletParticipants(
	walletId string,
	txn *Txn,
) ([]string, error) {
	if txn == nil {
		txn = NewMetadataOnlyTxn(d, false)
		defer txn.Release()
	}
	rows, err := d.metadata.GetWalletParticipants(walletId, txn.Metadata())
	if err != nil {
		return nil, err
	}
	ret := make([]string, 0, len(rows))
	for _, row := range rows {
		ret = append(ret, row.Pkh)
	}
	return ret, nil
}
