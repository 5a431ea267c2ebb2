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

package database_test

import (
	"testing"
	"time"

	"github.com/Gohlub/agora/database"
	"github.com/Gohlub/agora/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDatabase(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.New(&database.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

func TestWalletRoundTrip(t *testing.T) {
	db := newTestDatabase(t)
	wallet := &models.Wallet{
		ID:           "wallet-1",
		LockHash:     "lock-1",
		Threshold:    2,
		TotalSigners: 3,
		CreatedBy:    "pkh-a",
		CreatedAt:    time.Now(),
	}
	err := db.AddWallet(wallet, []string{"pkh-a", "pkh-b", "pkh-c"}, nil)
	require.NoError(t, err)

	fetched, err := db.GetWallet("lock-1", nil)
	require.NoError(t, err)
	assert.Equal(t, "wallet-1", fetched.ID)
	assert.Equal(t, 2, fetched.Threshold)

	fetched, err = db.GetWalletById("wallet-1", nil)
	require.NoError(t, err)
	assert.Equal(t, "lock-1", fetched.LockHash)

	participants, err := db.GetWalletParticipants("wallet-1", nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"pkh-a", "pkh-b", "pkh-c"}, participants)

	_, err = db.GetWallet("lock-missing", nil)
	assert.ErrorIs(t, err, models.ErrWalletNotFound)
}

func TestProposalPayloadsCommitTogether(t *testing.T) {
	db := newTestDatabase(t)
	proposal := &models.Proposal{
		ID:        "proposal-1",
		TxId:      "tx-1",
		LockHash:  "lock-1",
		Proposer:  "pkh-a",
		Status:    "pending",
		Threshold: 2,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	payloads := database.ProposalPayloads{
		Payload:    []byte("unsigned payload"),
		Context:    []byte("signing context"),
		Conditions: []byte("spend conditions"),
	}
	txn := db.Transaction(true)
	err := txn.Do(func(txn *database.Txn) error {
		return db.AddProposal(proposal, payloads, txn)
	})
	require.NoError(t, err)

	// Metadata row and blobs are both visible after commit
	fetched, err := db.GetProposal("proposal-1", nil)
	require.NoError(t, err)
	assert.Equal(t, "tx-1", fetched.TxId)

	fetchedPayloads, err := db.GetProposalPayloads("proposal-1", nil)
	require.NoError(t, err)
	assert.Equal(t, payloads.Payload, fetchedPayloads.Payload)
	assert.Equal(t, payloads.Context, fetchedPayloads.Context)
	assert.Equal(t, payloads.Conditions, fetchedPayloads.Conditions)
}

func TestProposalPayloadsOptionalConditions(t *testing.T) {
	db := newTestDatabase(t)
	proposal := &models.Proposal{
		ID:        "proposal-1",
		TxId:      "tx-1",
		LockHash:  "lock-1",
		Proposer:  "pkh-a",
		Status:    "pending",
		Threshold: 1,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	err := db.AddProposal(
		proposal,
		database.ProposalPayloads{
			Payload: []byte("unsigned payload"),
		},
		nil,
	)
	require.NoError(t, err)

	payloads, err := db.GetProposalPayloads("proposal-1", nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("unsigned payload"), payloads.Payload)
	assert.Empty(t, payloads.Conditions)
}

func TestSetProposalStatusConditional(t *testing.T) {
	db := newTestDatabase(t)
	proposal := &models.Proposal{
		ID:        "proposal-1",
		TxId:      "tx-1",
		LockHash:  "lock-1",
		Proposer:  "pkh-a",
		Status:    "pending",
		Threshold: 1,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	err := db.AddProposal(
		proposal,
		database.ProposalPayloads{Payload: []byte("payload")},
		nil,
	)
	require.NoError(t, err)

	// Transition guarded on a stale status changes nothing
	rows, err := db.SetProposalStatus("proposal-1", "ready", "broadcast", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)

	rows, err = db.SetProposalStatus("proposal-1", "pending", "ready", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	fetched, err := db.GetProposal("proposal-1", nil)
	require.NoError(t, err)
	assert.Equal(t, "ready", fetched.Status)
}

func TestProposalSignatures(t *testing.T) {
	db := newTestDatabase(t)
	proposal := &models.Proposal{
		ID:        "proposal-1",
		TxId:      "tx-1",
		LockHash:  "lock-1",
		Proposer:  "pkh-a",
		Status:    "pending",
		Threshold: 2,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	err := db.AddProposal(
		proposal,
		database.ProposalPayloads{Payload: []byte("payload")},
		nil,
	)
	require.NoError(t, err)

	for _, signer := range []string{"pkh-a", "pkh-b"} {
		err := db.AddProposalSignature(
			&models.ProposalSignature{
				ProposalID: "proposal-1",
				Signer:     signer,
				SignedAt:   time.Now(),
			},
			[]byte("signed by "+signer),
			nil,
		)
		require.NoError(t, err)
	}

	count, err := db.CountProposalSignatures("proposal-1", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	signatures, err := db.GetProposalSignatures("proposal-1", nil)
	require.NoError(t, err)
	require.Len(t, signatures, 2)
	assert.Equal(t, "pkh-a", signatures[0].Signer)
	assert.Equal(t, "pkh-b", signatures[1].Signer)

	payload, err := db.GetSignaturePayload("proposal-1", "pkh-b", nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("signed by pkh-b"), payload)

	_, err = db.GetProposalSignature("proposal-1", "pkh-z", nil)
	assert.ErrorIs(t, err, models.ErrSignatureNotFound)
}

func TestHistoryEntryStatus(t *testing.T) {
	db := newTestDatabase(t)
	now := time.Now()
	entry := &models.HistoryEntry{
		ID:          "hist-1",
		TxId:        "tx-1",
		LockHash:    "lock-1",
		Initiator:   "pkh-a",
		Status:      "broadcast",
		CreatedAt:   now,
		BroadcastAt: now,
	}
	err := db.AddHistoryEntry(entry, nil)
	require.NoError(t, err)

	confirmedAt := time.Now()
	err = db.SetHistoryEntryStatus("hist-1", "confirmed", &confirmedAt, nil)
	require.NoError(t, err)

	fetched, err := db.GetHistoryEntry("hist-1", nil)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", fetched.Status)
	require.NotNil(t, fetched.ConfirmedAt)

	_, err = db.GetHistoryEntry("hist-missing", nil)
	assert.ErrorIs(t, err, models.ErrHistoryEntryNotFound)
}

func TestHistoryEntriesNewestFirst(t *testing.T) {
	db := newTestDatabase(t)
	base := time.Now()
	for i, id := range []string{"hist-1", "hist-2", "hist-3"} {
		entry := &models.HistoryEntry{
			ID:          id,
			TxId:        "tx-" + id,
			LockHash:    "lock-1",
			Initiator:   "pkh-a",
			Status:      "broadcast",
			CreatedAt:   base.Add(time.Duration(i) * time.Second),
			BroadcastAt: base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, db.AddHistoryEntry(entry, nil))
	}

	entries, err := db.GetHistoryEntries("lock-1", 0, 0, nil)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "hist-3", entries[0].ID)
	assert.Equal(t, "hist-1", entries[2].ID)

	entries, err = db.GetHistoryEntries("lock-1", 1, 1, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "hist-2", entries[0].ID)
}
