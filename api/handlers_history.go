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

// handleDirectSpend handles POST /api/v0/spends/direct and records a
// single-signer spend straight into the history log.
func (a *Api) handleDirectSpend(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req DirectSpendRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	historyId, err := a.coordinator.DirectSpend(
		r.Context(),
		coordinator.DirectSpendParams{
			TxId:       req.TxId,
			LockHash:   req.LockHash,
			Signer:     req.Signer,
			TotalInput: req.TotalInput,
			Seeds:      seedsToModels(req.Seeds),
		},
	)
	if err != nil {
		a.writeCoordinatorError(w, err)
		return
	}
	entry, err := a.coordinator.GetHistoryEntry(r.Context(), historyId)
	if err != nil {
		a.writeCoordinatorError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, historyToResponse(entry))
}

// handleListHistory handles GET /api/v0/history with pkh and lock
// filters plus pagination, ordered by broadcast time.
func (a *Api) handleListHistory(
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
	query := r.URL.Query()
	entries, err := a.coordinator.ListHistory(
		r.Context(),
		query.Get("pkh"),
		query.Get("lock"),
		0,
		0,
	)
	if err != nil {
		a.writeCoordinatorError(w, err)
		return
	}
	SetPaginationHeaders(w, len(entries), params)
	page := paginate(entries, params)
	out := make([]HistoryResponse, 0, len(page))
	for i := range page {
		out = append(out, historyToResponse(&page[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleConfirmHistory handles POST /api/v0/history/{id}/confirm.
func (a *Api) handleConfirmHistory(
	w http.ResponseWriter,
	r *http.Request,
) {
	entryId := r.PathValue("id")
	if err := a.coordinator.ConfirmHistoryEntry(
		r.Context(),
		entryId,
	); err != nil {
		a.writeCoordinatorError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{
		Id:     entryId,
		Status: coordinator.HistoryStatusConfirmed.String(),
	})
}

// handleFailHistory handles POST /api/v0/history/{id}/fail.
func (a *Api) handleFailHistory(
	w http.ResponseWriter,
	r *http.Request,
) {
	entryId := r.PathValue("id")
	if err := a.coordinator.FailHistoryEntry(
		r.Context(),
		entryId,
	); err != nil {
		a.writeCoordinatorError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{
		Id:     entryId,
		Status: coordinator.HistoryStatusFailed.String(),
	})
}
