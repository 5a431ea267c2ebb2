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
	"testing"

	"github.com/Gohlub/agora/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectSpend(t *testing.T) {
	c := newTestCoordinator(t)
	registerTestWallet(t, c, "lock-1", 1, []string{"pkh-a", "pkh-b"})

	historyId, err := c.DirectSpend(t.Context(), DirectSpendParams{
		TxId:       "tx-1",
		LockHash:   "lock-1",
		Signer:     "pkh-a",
		TotalInput: 500,
		Seeds:      []models.Seed{{Recipient: "payee", Amount: 450}},
	})
	require.NoError(t, err)
	require.NotEmpty(t, historyId)

	entry, err := c.GetHistoryEntry(t.Context(), historyId)
	require.NoError(t, err)
	assert.Equal(t, "tx-1", entry.TxId)
	assert.Equal(t, "pkh-a", entry.Initiator)
	assert.Equal(t, HistoryStatusBroadcast.String(), entry.Status)
	assert.Equal(t, []string{"pkh-a"}, entry.Signers())
	assert.Equal(t, entry.CreatedAt, entry.BroadcastAt)
	assert.Nil(t, entry.ConfirmedAt)
}

func TestDirectSpendRefusals(t *testing.T) {
	c := newTestCoordinator(t)
	registerTestWallet(t, c, "lock-1", 1, []string{"pkh-a"})

	_, err := c.DirectSpend(t.Context(), DirectSpendParams{
		TxId:     "tx-1",
		LockHash: "lock-missing",
		Signer:   "pkh-a",
	})
	assert.ErrorIs(t, err, ErrWalletNotFound)

	_, err = c.DirectSpend(t.Context(), DirectSpendParams{
		TxId:     "tx-1",
		LockHash: "lock-1",
		Signer:   "pkh-z",
	})
	assert.ErrorIs(t, err, ErrNotParticipant)

	_, err = c.DirectSpend(t.Context(), DirectSpendParams{
		LockHash: "lock-1",
		Signer:   "pkh-a",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestConfirmHistoryEntry(t *testing.T) {
	c := newTestCoordinator(t)
	registerTestWallet(t, c, "lock-1", 1, []string{"pkh-a"})
	historyId, err := c.DirectSpend(t.Context(), DirectSpendParams{
		TxId:     "tx-1",
		LockHash: "lock-1",
		Signer:   "pkh-a",
	})
	require.NoError(t, err)

	err = c.ConfirmHistoryEntry(t.Context(), historyId)
	require.NoError(t, err)

	entry, err := c.GetHistoryEntry(t.Context(), historyId)
	require.NoError(t, err)
	assert.Equal(t, HistoryStatusConfirmed.String(), entry.Status)
	require.NotNil(t, entry.ConfirmedAt)

	// Settlement happens once
	err = c.ConfirmHistoryEntry(t.Context(), historyId)
	assert.ErrorIs(t, err, ErrHistoryEntryNotBroadcast)
	err = c.FailHistoryEntry(t.Context(), historyId)
	assert.ErrorIs(t, err, ErrHistoryEntryNotBroadcast)
}

func TestFailHistoryEntry(t *testing.T) {
	c := newTestCoordinator(t)
	registerTestWallet(t, c, "lock-1", 1, []string{"pkh-a"})
	historyId, err := c.DirectSpend(t.Context(), DirectSpendParams{
		TxId:     "tx-1",
		LockHash: "lock-1",
		Signer:   "pkh-a",
	})
	require.NoError(t, err)

	err = c.FailHistoryEntry(t.Context(), historyId)
	require.NoError(t, err)

	entry, err := c.GetHistoryEntry(t.Context(), historyId)
	require.NoError(t, err)
	assert.Equal(t, HistoryStatusFailed.String(), entry.Status)
	assert.Nil(t, entry.ConfirmedAt)
}

func TestSettleHistoryEntryNotFound(t *testing.T) {
	c := newTestCoordinator(t)
	err := c.ConfirmHistoryEntry(t.Context(), "missing")
	assert.ErrorIs(t, err, ErrHistoryEntryNotFound)
	err = c.FailHistoryEntry(t.Context(), "missing")
	assert.ErrorIs(t, err, ErrHistoryEntryNotFound)
}

func TestListHistoryFilters(t *testing.T) {
	c := newTestCoordinator(t)
	registerTestWallet(t, c, "lock-1", 1, []string{"pkh-a", "pkh-b"})
	registerTestWallet(t, c, "lock-2", 1, []string{"pkh-c"})
	for i, spend := range []DirectSpendParams{
		{TxId: "tx-1", LockHash: "lock-1", Signer: "pkh-a"},
		{TxId: "tx-2", LockHash: "lock-1", Signer: "pkh-b"},
		{TxId: "tx-3", LockHash: "lock-2", Signer: "pkh-c"},
	} {
		_, err := c.DirectSpend(t.Context(), spend)
		require.NoError(t, err, "spend %d", i)
	}

	entries, err := c.ListHistory(t.Context(), "", "", 0, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	entries, err = c.ListHistory(t.Context(), "", "lock-1", 0, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	entries, err = c.ListHistory(t.Context(), "pkh-c", "", 0, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "tx-3", entries[0].TxId)

	entries, err = c.ListHistory(t.Context(), "pkh-unknown", "", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
