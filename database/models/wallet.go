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
	"errors"
	"time"
)

var ErrWalletNotFound = errors.New("wallet not found")

// Wallet is a registered shared spending condition. The lock hash is a
// client-computed content identifier for the m-of-n authorization rule.
// Wallets are immutable once registered.
type Wallet struct {
	ID           string `gorm:"primaryKey;size:36"`
	LockHash     string `gorm:"uniqueIndex;size:128;not null"`
	Threshold    int    `gorm:"not null"`
	TotalSigners int    `gorm:"not null"`
	CreatedBy    string `gorm:"size:128;not null"`
	CreatedAt    time.Time
}

func (Wallet) TableName() string {
	return "wallet"
}

// WalletParticipant maps a signer PKH to a wallet. A signer appears at
// most once per wallet.
type WalletParticipant struct {
	ID       uint   `gorm:"primarykey"`
	WalletID string `gorm:"index;uniqueIndex:wallet_participant_pkh;size:36;not null"`
	Pkh      string `gorm:"index;uniqueIndex:wallet_participant_pkh;size:128;not null"`
}

func (WalletParticipant) TableName() string {
	return "wallet_participant"
}
