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
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Gohlub/agora/coordinator"
)

const apiVersion = "0.1.0"

// writeJSON writes a JSON response with the given status code.
func writeJSON(
	w http.ResponseWriter,
	status int,
	v any,
) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,errchkjson
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(
	w http.ResponseWriter,
	status int,
	errStr string,
	message string,
) {
	writeJSON(w, status, ErrorResponse{
		StatusCode: status,
		Error:      errStr,
		Message:    message,
	})
}

// decodeRequest decodes a JSON request body into v, writing a 400
// response on failure.
func decodeRequest(
	w http.ResponseWriter,
	r *http.Request,
	v any,
) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(
			w,
			http.StatusBadRequest,
			"Bad Request",
			"invalid request body: "+err.Error(),
		)
		return false
	}
	return true
}

// writeCoordinatorError maps coordinator errors onto HTTP statuses.
// Unmapped errors are treated as transient storage failures and
// reported as 500 so callers know to retry.
func (a *Api) writeCoordinatorError(
	w http.ResponseWriter,
	err error,
) {
	switch {
	case errors.Is(err, coordinator.ErrWalletNotFound),
		errors.Is(err, coordinator.ErrProposalNotFound),
		errors.Is(err, coordinator.ErrHistoryEntryNotFound):
		writeError(
			w,
			http.StatusNotFound,
			"Not Found",
			err.Error(),
		)
	case errors.Is(err, coordinator.ErrWalletExists),
		errors.Is(err, coordinator.ErrProposalExists),
		errors.Is(err, coordinator.ErrAlreadySigned),
		errors.Is(err, coordinator.ErrProposalNotPending),
		errors.Is(err, coordinator.ErrProposalNotBroadcastable),
		errors.Is(err, coordinator.ErrProposalNotBroadcast),
		errors.Is(err, coordinator.ErrProposalTerminal),
		errors.Is(err, coordinator.ErrHistoryEntryNotBroadcast):
		writeError(
			w,
			http.StatusConflict,
			"Conflict",
			err.Error(),
		)
	case errors.Is(err, coordinator.ErrNotParticipant):
		writeError(
			w,
			http.StatusForbidden,
			"Forbidden",
			err.Error(),
		)
	case errors.Is(err, coordinator.ErrInvalidInput),
		errors.Is(err, coordinator.ErrInvalidStatus):
		writeError(
			w,
			http.StatusBadRequest,
			"Bad Request",
			err.Error(),
		)
	default:
		a.logger.Error(
			"request failed",
			"error", err,
		)
		writeError(
			w,
			http.StatusInternalServerError,
			"Internal Server Error",
			"transient failure, retry the request",
		)
	}
}

// handleRoot handles GET / and returns API metadata.
func (a *Api) handleRoot(
	w http.ResponseWriter,
	_ *http.Request,
) {
	writeJSON(w, http.StatusOK, RootResponse{
		Name:    "agora",
		Version: apiVersion,
	})
}

// handleHealth handles GET /health and returns gateway health status.
func (a *Api) handleHealth(
	w http.ResponseWriter,
	_ *http.Request,
) {
	writeJSON(w, http.StatusOK, HealthResponse{
		IsHealthy: true,
	})
}
