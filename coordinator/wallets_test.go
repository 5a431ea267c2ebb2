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
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterWallet(t *testing.T) {
	c := newTestCoordinator(t)
	walletId, err := c.RegisterWallet(t.Context(), RegisterWalletParams{
		LockHash:     "lock-1",
		Threshold:    2,
		TotalSigners: 3,
		Participants: []string{"pkh-a", "pkh-b", "pkh-c"},
		Creator:      "pkh-a",
	})
	require.NoError(t, err)
	require.NotEmpty(t, walletId)

	wallet, err := c.GetWallet(t.Context(), "lock-1")
	require.NoError(t, err)
	assert.Equal(t, walletId, wallet.ID)
	assert.Equal(t, 2, wallet.Threshold)
	assert.Equal(t, 3, wallet.TotalSigners)
	assert.Equal(t, "pkh-a", wallet.CreatedBy)

	participants, err := c.GetWalletParticipants(t.Context(), walletId)
	require.NoError(t, err)
	assert.ElementsMatch(
		t,
		[]string{"pkh-a", "pkh-b", "pkh-c"},
		participants,
	)
}

func TestRegisterWalletValidation(t *testing.T) {
	c := newTestCoordinator(t)
	testDefs := []struct {
		name   string
		params RegisterWalletParams
	}{
		{
			name: "missing lock hash",
			params: RegisterWalletParams{
				Threshold:    1,
				Participants: []string{"pkh-a"},
				Creator:      "pkh-a",
			},
		},
		{
			name: "missing creator",
			params: RegisterWalletParams{
				LockHash:     "lock-1",
				Threshold:    1,
				Participants: []string{"pkh-a"},
			},
		},
		{
			name: "zero threshold",
			params: RegisterWalletParams{
				LockHash:     "lock-1",
				Participants: []string{"pkh-a"},
				Creator:      "pkh-a",
			},
		},
		{
			name: "no participants",
			params: RegisterWalletParams{
				LockHash:  "lock-1",
				Threshold: 1,
				Creator:   "pkh-a",
			},
		},
		{
			name: "duplicate participant",
			params: RegisterWalletParams{
				LockHash:     "lock-1",
				Threshold:    1,
				Participants: []string{"pkh-a", "pkh-a"},
				Creator:      "pkh-a",
			},
		},
		{
			name: "empty participant",
			params: RegisterWalletParams{
				LockHash:     "lock-1",
				Threshold:    1,
				Participants: []string{"pkh-a", ""},
				Creator:      "pkh-a",
			},
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			_, err := c.RegisterWallet(t.Context(), testDef.params)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestRegisterWalletThresholdAboveSigners(t *testing.T) {
	c := newTestCoordinator(t)
	// A threshold above total_signers is accepted as declared; the
	// ledger records the claim and proposals against it simply never
	// collect enough signatures
	walletId, err := c.RegisterWallet(t.Context(), RegisterWalletParams{
		LockHash:     "lock-1",
		Threshold:    5,
		TotalSigners: 2,
		Participants: []string{"pkh-a", "pkh-b"},
		Creator:      "pkh-a",
	})
	require.NoError(t, err)
	require.NotEmpty(t, walletId)

	wallet, err := c.GetWallet(t.Context(), "lock-1")
	require.NoError(t, err)
	assert.Equal(t, 5, wallet.Threshold)
	assert.Equal(t, 2, wallet.TotalSigners)
}

func TestRegisterWalletDuplicate(t *testing.T) {
	c := newTestCoordinator(t)
	registerTestWallet(t, c, "lock-1", 1, []string{"pkh-a"})
	_, err := c.RegisterWallet(t.Context(), RegisterWalletParams{
		LockHash:     "lock-1",
		Threshold:    2,
		TotalSigners: 2,
		Participants: []string{"pkh-b", "pkh-c"},
		Creator:      "pkh-b",
	})
	assert.ErrorIs(t, err, ErrWalletExists)
}

func TestRegisterWalletConcurrentDuplicate(t *testing.T) {
	c := newTestCoordinator(t)
	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = c.RegisterWallet(
				t.Context(),
				RegisterWalletParams{
					LockHash:     "lock-race",
					Threshold:    1,
					TotalSigners: 1,
					Participants: []string{"pkh-a"},
					Creator:      "pkh-a",
				},
			)
		}()
	}
	wg.Wait()
	// Exactly one registration wins
	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrWalletExists)
		}
	}
	assert.Equal(t, 1, succeeded)
}

func TestListWalletsParticipantFilter(t *testing.T) {
	c := newTestCoordinator(t)
	registerTestWallet(t, c, "lock-1", 1, []string{"pkh-a", "pkh-b"})
	registerTestWallet(t, c, "lock-2", 1, []string{"pkh-b", "pkh-c"})
	registerTestWallet(t, c, "lock-3", 1, []string{"pkh-c"})

	wallets, err := c.ListWallets(t.Context(), "", 0, 0)
	require.NoError(t, err)
	assert.Len(t, wallets, 3)

	wallets, err = c.ListWallets(t.Context(), "pkh-b", 0, 0)
	require.NoError(t, err)
	require.Len(t, wallets, 2)
	lockHashes := []string{wallets[0].LockHash, wallets[1].LockHash}
	assert.ElementsMatch(t, []string{"lock-1", "lock-2"}, lockHashes)

	wallets, err = c.ListWallets(t.Context(), "pkh-unknown", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, wallets)
}

func TestIsParticipant(t *testing.T) {
	c := newTestCoordinator(t)
	registerTestWallet(t, c, "lock-1", 1, []string{"pkh-a", "pkh-b"})

	ok, err := c.IsParticipant(t.Context(), "lock-1", "pkh-a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.IsParticipant(t.Context(), "lock-1", "pkh-z")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = c.IsParticipant(t.Context(), "lock-missing", "pkh-a")
	assert.ErrorIs(t, err, ErrWalletNotFound)
}

func TestGetWalletNotFound(t *testing.T) {
	c := newTestCoordinator(t)
	_, err := c.GetWallet(t.Context(), "lock-missing")
	assert.ErrorIs(t, err, ErrWalletNotFound)
	_, err = c.GetWalletById(t.Context(), "id-missing")
	assert.ErrorIs(t, err, ErrWalletNotFound)
}
