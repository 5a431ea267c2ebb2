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

	"github.com/Gohlub/agora/database"
	"github.com/stretchr/testify/require"
)

// newTestCoordinator builds a coordinator backed by in-memory stores
func newTestCoordinator(t *testing.T) *Coordinator {
	t.Helper()
	db, err := database.New(&database.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})
	return NewCoordinator(CoordinatorConfig{
		Database: db,
	})
}

func registerTestWallet(
	t *testing.T,
	c *Coordinator,
	lockHash string,
	threshold int,
	participants []string,
) string {
	t.Helper()
	walletId, err := c.RegisterWallet(t.Context(), RegisterWalletParams{
		LockHash:     lockHash,
		Threshold:    threshold,
		TotalSigners: len(participants),
		Participants: participants,
		Creator:      participants[0],
	})
	require.NoError(t, err)
	return walletId
}
