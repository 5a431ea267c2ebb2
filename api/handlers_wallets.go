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

package api

import (
	"net/http"

	"github.com/Gohlub/agora/coordinator"
)

// handleRegisterWallet handles POST /api/v0/wallets and registers a
// shared spending condition. A lock hash already registered yields 409.
func (a *Api) handleRegisterWallet(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req RegisterWalletRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	walletId, err := a.coordinator.RegisterWallet(
		r.Context(),
		coordinator.RegisterWalletParams{
			LockHash:     req.LockHash,
			Threshold:    req.Threshold,
			TotalSigners: req.TotalSigners,
			Participants: req.Participants,
			Creator:      req.Creator,
		},
	)
	if err != nil {
		a.writeCoordinatorError(w, err)
		return
	}
	wallet, err := a.coordinator.GetWalletById(r.Context(), walletId)
	if err != nil {
		a.writeCoordinatorError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, walletToResponse(wallet))
}

// handleListWallets handles GET /api/v0/wallets with an optional pkh
// filter and pagination.
func (a *Api) handleListWallets(
	w http.ResponseWriter,
	r *http.Request,
) {
	params, err := ParsePagination(r)
	if err != nil {
		writeError(
			w,
			http.StatusBadRequest,
			"Bad Request",
			err.Error(),
		)
		return
	}
	wallets, err := a.coordinator.ListWallets(
		r.Context(),
		r.URL.Query().Get("pkh"),
		0,
		0,
	)
	if err != nil {
		a.writeCoordinatorError(w, err)
		return
	}
	SetPaginationHeaders(w, len(wallets), params)
	page := paginate(wallets, params)
	out := make([]WalletResponse, 0, len(page))
	for i := range page {
		out = append(out, walletToResponse(&page[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleGetWallet handles GET /api/v0/wallets/{id} and returns the
// wallet along with its participant set.
func (a *Api) handleGetWallet(
	w http.ResponseWriter,
	r *http.Request,
) {
	walletId := r.PathValue("id")
	wallet, err := a.coordinator.GetWalletById(r.Context(), walletId)
	if err != nil {
		a.writeCoordinatorError(w, err)
		return
	}
	participants, err := a.coordinator.GetWalletParticipants(
		r.Context(),
		wallet.ID,
	)
	if err != nil {
		a.writeCoordinatorError(w, err)
		return
	}
	resp := walletToResponse(wallet)
	resp.Participants = participants
	writeJSON(w, http.StatusOK, resp)
}
