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
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Gohlub/agora/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestProposal(
	t *testing.T,
	c *Coordinator,
	txId string,
	lockHash string,
	proposer string,
	threshold int,
) string {
	t.Helper()
	proposalId, err := c.CreateProposal(t.Context(), CreateProposalParams{
		TxId:                  txId,
		LockHash:              lockHash,
		Proposer:              proposer,
		Threshold:             threshold,
		TotalInput:            1000,
		Seeds:                 []models.Seed{{Recipient: "payee", Amount: 900}},
		Payload:               []byte("unsigned payload"),
		ProposerSignedPayload: []byte("signed by " + proposer),
	})
	require.NoError(t, err)
	return proposalId
}

func TestCreateProposal(t *testing.T) {
	c := newTestCoordinator(t)
	registerTestWallet(t, c, "lock-1", 2, []string{"pkh-a", "pkh-b", "pkh-c"})
	proposalId := createTestProposal(t, c, "tx-1", "lock-1", "pkh-a", 2)

	proposal, err := c.GetProposal(t.Context(), proposalId)
	require.NoError(t, err)
	assert.Equal(t, "tx-1", proposal.TxId)
	assert.Equal(t, ProposalStatusPending.String(), proposal.Status)
	assert.Equal(t, 2, proposal.Threshold)

	// The proposer's signature is recorded at creation
	signatures, err := c.GetProposalSignatures(t.Context(), proposalId)
	require.NoError(t, err)
	require.Len(t, signatures, 1)
	assert.Equal(t, "pkh-a", signatures[0].Signer)

	payloads, err := c.GetProposalPayloads(t.Context(), proposalId)
	require.NoError(t, err)
	assert.Equal(t, []byte("unsigned payload"), payloads.Payload)
}

func TestCreateProposalThresholdOneReadyAtCreation(t *testing.T) {
	c := newTestCoordinator(t)
	registerTestWallet(t, c, "lock-1", 1, []string{"pkh-a"})
	proposalId := createTestProposal(t, c, "tx-1", "lock-1", "pkh-a", 1)

	proposal, err := c.GetProposal(t.Context(), proposalId)
	require.NoError(t, err)
	assert.Equal(t, ProposalStatusReady.String(), proposal.Status)
}

func TestCreateProposalUnknownWallet(t *testing.T) {
	c := newTestCoordinator(t)
	_, err := c.CreateProposal(t.Context(), CreateProposalParams{
		TxId:      "tx-1",
		LockHash:  "lock-missing",
		Proposer:  "pkh-a",
		Threshold: 1,
		Payload:   []byte("payload"),
	})
	assert.ErrorIs(t, err, ErrWalletNotFound)
}

func TestCreateProposalDuplicateTxId(t *testing.T) {
	c := newTestCoordinator(t)
	registerTestWallet(t, c, "lock-1", 2, []string{"pkh-a", "pkh-b"})
	createTestProposal(t, c, "tx-1", "lock-1", "pkh-a", 2)
	_, err := c.CreateProposal(t.Context(), CreateProposalParams{
		TxId:      "tx-1",
		LockHash:  "lock-1",
		Proposer:  "pkh-b",
		Threshold: 2,
		Payload:   []byte("payload"),
	})
	assert.ErrorIs(t, err, ErrProposalExists)
}

func TestSignProposalReachesThreshold(t *testing.T) {
	c := newTestCoordinator(t)
	registerTestWallet(t, c, "lock-1", 2, []string{"pkh-a", "pkh-b", "pkh-c"})
	proposalId := createTestProposal(t, c, "tx-1", "lock-1", "pkh-a", 2)

	count, becameReady, err := c.SignProposal(
		t.Context(),
		proposalId,
		"pkh-b",
		[]byte("signed by pkh-b"),
	)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.True(t, becameReady)

	proposal, err := c.GetProposal(t.Context(), proposalId)
	require.NoError(t, err)
	assert.Equal(t, ProposalStatusReady.String(), proposal.Status)

	// Signing order is preserved
	signatures, err := c.GetProposalSignatures(t.Context(), proposalId)
	require.NoError(t, err)
	require.Len(t, signatures, 2)
	assert.Equal(t, "pkh-a", signatures[0].Signer)
	assert.Equal(t, "pkh-b", signatures[1].Signer)
}

func TestSignProposalBelowThresholdBumpsUpdatedAt(t *testing.T) {
	c := newTestCoordinator(t)
	registerTestWallet(t, c, "lock-1", 3, []string{"pkh-a", "pkh-b", "pkh-c"})
	proposalId := createTestProposal(t, c, "tx-1", "lock-1", "pkh-a", 3)

	before, err := c.GetProposal(t.Context(), proposalId)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)

	_, becameReady, err := c.SignProposal(
		t.Context(),
		proposalId,
		"pkh-b",
		[]byte("signed by pkh-b"),
	)
	require.NoError(t, err)
	require.False(t, becameReady)

	// A signature that does not cross the threshold still counts as
	// activity on the proposal
	after, err := c.GetProposal(t.Context(), proposalId)
	require.NoError(t, err)
	assert.Equal(t, ProposalStatusPending.String(), after.Status)
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
}

func TestSignProposalRefusals(t *testing.T) {
	c := newTestCoordinator(t)
	registerTestWallet(t, c, "lock-1", 3, []string{"pkh-a", "pkh-b", "pkh-c"})
	proposalId := createTestProposal(t, c, "tx-1", "lock-1", "pkh-a", 3)

	_, _, err := c.SignProposal(t.Context(), "missing", "pkh-b", nil)
	assert.ErrorIs(t, err, ErrProposalNotFound)

	_, _, err = c.SignProposal(t.Context(), proposalId, "pkh-z", nil)
	assert.ErrorIs(t, err, ErrNotParticipant)

	_, _, err = c.SignProposal(t.Context(), proposalId, "pkh-a", nil)
	assert.ErrorIs(t, err, ErrAlreadySigned)

	_, _, err = c.SignProposal(t.Context(), proposalId, "", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSignProposalNotPendingAfterReady(t *testing.T) {
	c := newTestCoordinator(t)
	registerTestWallet(t, c, "lock-1", 2, []string{"pkh-a", "pkh-b", "pkh-c"})
	proposalId := createTestProposal(t, c, "tx-1", "lock-1", "pkh-a", 2)

	_, becameReady, err := c.SignProposal(t.Context(), proposalId, "pkh-b", nil)
	require.NoError(t, err)
	require.True(t, becameReady)

	// The remaining participant is refused once the proposal left pending
	_, _, err = c.SignProposal(t.Context(), proposalId, "pkh-c", nil)
	assert.ErrorIs(t, err, ErrProposalNotPending)
}

func TestSignProposalConcurrentSigners(t *testing.T) {
	c := newTestCoordinator(t)
	participants := make([]string, 6)
	for i := range participants {
		participants[i] = fmt.Sprintf("pkh-%d", i)
	}
	registerTestWallet(t, c, "lock-1", 3, participants)
	proposalId := createTestProposal(t, c, "tx-1", "lock-1", "pkh-0", 3)

	var wg sync.WaitGroup
	readyCount := 0
	var mu sync.Mutex
	for _, signer := range participants[1:] {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, becameReady, err := c.SignProposal(
				t.Context(),
				proposalId,
				signer,
				nil,
			)
			if err != nil {
				assert.ErrorIs(t, err, ErrProposalNotPending)
				return
			}
			if becameReady {
				mu.Lock()
				readyCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	// Exactly one signer observes the pending to ready transition
	assert.Equal(t, 1, readyCount)

	proposal, err := c.GetProposal(t.Context(), proposalId)
	require.NoError(t, err)
	assert.Equal(t, ProposalStatusReady.String(), proposal.Status)
}

func TestMarkBroadcast(t *testing.T) {
	c := newTestCoordinator(t)
	registerTestWallet(t, c, "lock-1", 2, []string{"pkh-a", "pkh-b"})
	proposalId := createTestProposal(t, c, "tx-1", "lock-1", "pkh-a", 2)
	_, _, err := c.SignProposal(t.Context(), proposalId, "pkh-b", nil)
	require.NoError(t, err)

	historyId, err := c.MarkBroadcast(t.Context(), proposalId, "")
	require.NoError(t, err)
	require.NotEmpty(t, historyId)

	proposal, err := c.GetProposal(t.Context(), proposalId)
	require.NoError(t, err)
	assert.Equal(t, ProposalStatusBroadcast.String(), proposal.Status)

	entry, err := c.GetHistoryEntry(t.Context(), historyId)
	require.NoError(t, err)
	assert.Equal(t, "tx-1", entry.TxId)
	assert.Equal(t, "pkh-a", entry.Initiator)
	assert.Equal(t, HistoryStatusBroadcast.String(), entry.Status)
	assert.ElementsMatch(t, []string{"pkh-a", "pkh-b"}, entry.Signers())

	// The entry keeps the proposal's creation time; only broadcast_at
	// records the broadcast itself
	assert.True(t, entry.CreatedAt.Equal(proposal.CreatedAt))
	assert.False(t, entry.BroadcastAt.Before(entry.CreatedAt))
}

func TestMarkBroadcastFinalTxId(t *testing.T) {
	c := newTestCoordinator(t)
	registerTestWallet(t, c, "lock-1", 1, []string{"pkh-a"})
	proposalId := createTestProposal(t, c, "tx-1", "lock-1", "pkh-a", 1)

	historyId, err := c.MarkBroadcast(t.Context(), proposalId, "tx-merged")
	require.NoError(t, err)

	entry, err := c.GetHistoryEntry(t.Context(), historyId)
	require.NoError(t, err)
	assert.Equal(t, "tx-merged", entry.TxId)
}

func TestMarkBroadcastRepeatRefused(t *testing.T) {
	c := newTestCoordinator(t)
	registerTestWallet(t, c, "lock-1", 1, []string{"pkh-a"})
	proposalId := createTestProposal(t, c, "tx-1", "lock-1", "pkh-a", 1)

	_, err := c.MarkBroadcast(t.Context(), proposalId, "")
	require.NoError(t, err)

	// A repeat broadcast fails and appends no second history entry
	_, err = c.MarkBroadcast(t.Context(), proposalId, "")
	assert.ErrorIs(t, err, ErrProposalNotBroadcastable)

	entries, err := c.ListHistory(t.Context(), "", "lock-1", 0, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestMarkBroadcastPendingAllowed(t *testing.T) {
	c := newTestCoordinator(t)
	registerTestWallet(t, c, "lock-1", 3, []string{"pkh-a", "pkh-b", "pkh-c"})
	proposalId := createTestProposal(t, c, "tx-1", "lock-1", "pkh-a", 3)

	// Broadcast below threshold is the client's call to make
	historyId, err := c.MarkBroadcast(t.Context(), proposalId, "")
	require.NoError(t, err)

	entry, err := c.GetHistoryEntry(t.Context(), historyId)
	require.NoError(t, err)
	assert.Equal(t, []string{"pkh-a"}, entry.Signers())
}

func TestConfirmProposal(t *testing.T) {
	c := newTestCoordinator(t)
	registerTestWallet(t, c, "lock-1", 1, []string{"pkh-a"})
	proposalId := createTestProposal(t, c, "tx-1", "lock-1", "pkh-a", 1)

	// Confirmation requires a broadcast proposal
	err := c.ConfirmProposal(t.Context(), proposalId)
	assert.ErrorIs(t, err, ErrProposalNotBroadcast)

	_, err = c.MarkBroadcast(t.Context(), proposalId, "")
	require.NoError(t, err)

	err = c.ConfirmProposal(t.Context(), proposalId)
	require.NoError(t, err)

	proposal, err := c.GetProposal(t.Context(), proposalId)
	require.NoError(t, err)
	assert.Equal(t, ProposalStatusConfirmed.String(), proposal.Status)

	// Confirmed is terminal
	err = c.ExpireProposal(t.Context(), proposalId)
	assert.ErrorIs(t, err, ErrProposalTerminal)
}

func TestExpireProposal(t *testing.T) {
	c := newTestCoordinator(t)
	registerTestWallet(t, c, "lock-1", 2, []string{"pkh-a", "pkh-b"})
	proposalId := createTestProposal(t, c, "tx-1", "lock-1", "pkh-a", 2)

	err := c.ExpireProposal(t.Context(), proposalId)
	require.NoError(t, err)

	proposal, err := c.GetProposal(t.Context(), proposalId)
	require.NoError(t, err)
	assert.Equal(t, ProposalStatusExpired.String(), proposal.Status)

	err = c.ExpireProposal(t.Context(), proposalId)
	assert.ErrorIs(t, err, ErrProposalTerminal)

	_, err = c.MarkBroadcast(t.Context(), proposalId, "")
	assert.ErrorIs(t, err, ErrProposalNotBroadcastable)
}

func TestListProposalsFilters(t *testing.T) {
	c := newTestCoordinator(t)
	registerTestWallet(t, c, "lock-1", 2, []string{"pkh-a", "pkh-b"})
	registerTestWallet(t, c, "lock-2", 1, []string{"pkh-c"})
	createTestProposal(t, c, "tx-1", "lock-1", "pkh-a", 2)
	createTestProposal(t, c, "tx-2", "lock-1", "pkh-b", 2)
	createTestProposal(t, c, "tx-3", "lock-2", "pkh-c", 1)

	proposals, err := c.ListProposals(t.Context(), "", "", "", 0, 0)
	require.NoError(t, err)
	assert.Len(t, proposals, 3)

	proposals, err = c.ListProposals(t.Context(), "", "lock-1", "", 0, 0)
	require.NoError(t, err)
	assert.Len(t, proposals, 2)

	proposals, err = c.ListProposals(t.Context(), "pkh-c", "", "", 0, 0)
	require.NoError(t, err)
	require.Len(t, proposals, 1)
	assert.Equal(t, "tx-3", proposals[0].TxId)

	// Both filters together intersect: the participant's wallets
	// narrowed to the requested lock hash
	proposals, err = c.ListProposals(t.Context(), "pkh-a", "lock-1", "", 0, 0)
	require.NoError(t, err)
	assert.Len(t, proposals, 2)

	proposals, err = c.ListProposals(t.Context(), "pkh-c", "lock-1", "", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, proposals)

	proposals, err = c.ListProposals(t.Context(), "", "", "ready", 0, 0)
	require.NoError(t, err)
	require.Len(t, proposals, 1)
	assert.Equal(t, "tx-3", proposals[0].TxId)

	_, err = c.ListProposals(t.Context(), "", "", "bogus", 0, 0)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
