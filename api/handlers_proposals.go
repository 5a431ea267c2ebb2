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

// handleCreateProposal handles POST /api/v0/proposals. The proposal is
// created with the proposer's signature already recorded; a threshold
// of one comes back ready immediately.
func (a *Api) handleCreateProposal(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req CreateProposalRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	proposalId, err := a.coordinator.CreateProposal(
		r.Context(),
		coordinator.CreateProposalParams{
			TxId:                  req.TxId,
			LockHash:              req.LockHash,
			Proposer:              req.Proposer,
			Threshold:             req.Threshold,
			TotalInput:            req.TotalInput,
			Seeds:                 seedsToModels(req.Seeds),
			Payload:               req.Payload,
			Context:               req.Context,
			Conditions:            req.Conditions,
			ProposerSignedPayload: req.SignedPayload,
		},
	)
	if err != nil {
		a.writeCoordinatorError(w, err)
		return
	}
	proposal, err := a.coordinator.GetProposal(r.Context(), proposalId)
	if err != nil {
		a.writeCoordinatorError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, proposalToResponse(proposal))
}

// handleListProposals handles GET /api/v0/proposals with pkh, lock,
// and status filters plus pagination. An unrecognized status value is
// rejected rather than matching nothing.
func (a *Api) handleListProposals(
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
	proposals, err := a.coordinator.ListProposals(
		r.Context(),
		query.Get("pkh"),
		query.Get("lock"),
		query.Get("status"),
		0,
		0,
	)
	if err != nil {
		a.writeCoordinatorError(w, err)
		return
	}
	SetPaginationHeaders(w, len(proposals), params)
	page := paginate(proposals, params)
	out := make([]ProposalResponse, 0, len(page))
	for i := range page {
		out = append(out, proposalToResponse(&page[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleGetProposal handles GET /api/v0/proposals/{id} and returns the
// proposal with its payload blobs, its signatures (each carrying the
// signer's signed payload), and the wallet's participant set.
func (a *Api) handleGetProposal(
	w http.ResponseWriter,
	r *http.Request,
) {
	proposalId := r.PathValue("id")
	proposal, err := a.coordinator.GetProposal(r.Context(), proposalId)
	if err != nil {
		a.writeCoordinatorError(w, err)
		return
	}
	signatures, err := a.coordinator.GetProposalSignatures(
		r.Context(),
		proposal.ID,
	)
	if err != nil {
		a.writeCoordinatorError(w, err)
		return
	}
	payloads, err := a.coordinator.GetProposalPayloads(
		r.Context(),
		proposal.ID,
	)
	if err != nil {
		a.writeCoordinatorError(w, err)
		return
	}
	wallet, err := a.coordinator.GetWallet(
		r.Context(),
		proposal.LockHash,
	)
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
	resp := proposalToResponse(proposal)
	resp.Payload = payloads.Payload
	resp.Context = payloads.Context
	resp.Conditions = payloads.Conditions
	resp.Participants = participants
	resp.Signatures = make([]SignatureResponse, 0, len(signatures))
	for _, sig := range signatures {
		signedPayload, err := a.coordinator.GetSignaturePayload(
			r.Context(),
			proposal.ID,
			sig.Signer,
		)
		if err != nil {
			a.writeCoordinatorError(w, err)
			return
		}
		resp.Signatures = append(resp.Signatures, SignatureResponse{
			Signer:        sig.Signer,
			SignedAt:      sig.SignedAt.Unix(),
			SignedPayload: signedPayload,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleSignProposal handles POST /api/v0/proposals/{id}/sign.
func (a *Api) handleSignProposal(
	w http.ResponseWriter,
	r *http.Request,
) {
	proposalId := r.PathValue("id")
	var req SignProposalRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	count, ready, err := a.coordinator.SignProposal(
		r.Context(),
		proposalId,
		req.Signer,
		req.SignedPayload,
	)
	if err != nil {
		a.writeCoordinatorError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SignProposalResponse{
		ProposalId:     proposalId,
		SignatureCount: count,
		Ready:          ready,
	})
}

// handleBroadcastProposal handles
// POST /api/v0/proposals/{id}/broadcast. Repeat calls fail with 409
// and append no duplicate history entry.
func (a *Api) handleBroadcastProposal(
	w http.ResponseWriter,
	r *http.Request,
) {
	proposalId := r.PathValue("id")
	// The body is optional; an empty body means no final tx id
	var req BroadcastProposalRequest
	if r.ContentLength > 0 {
		if !decodeRequest(w, r, &req) {
			return
		}
	}
	historyId, err := a.coordinator.MarkBroadcast(
		r.Context(),
		proposalId,
		req.FinalTxId,
	)
	if err != nil {
		a.writeCoordinatorError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, BroadcastProposalResponse{
		ProposalId: proposalId,
		HistoryId:  historyId,
	})
}

// handleConfirmProposal handles POST /api/v0/proposals/{id}/confirm.
func (a *Api) handleConfirmProposal(
	w http.ResponseWriter,
	r *http.Request,
) {
	proposalId := r.PathValue("id")
	if err := a.coordinator.ConfirmProposal(
		r.Context(),
		proposalId,
	); err != nil {
		a.writeCoordinatorError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{
		Id:     proposalId,
		Status: coordinator.ProposalStatusConfirmed.String(),
	})
}

// handleExpireProposal handles POST /api/v0/proposals/{id}/expire.
func (a *Api) handleExpireProposal(
	w http.ResponseWriter,
	r *http.Request,
) {
	proposalId := r.PathValue("id")
	if err := a.coordinator.ExpireProposal(
		r.Context(),
		proposalId,
	); err != nil {
		a.writeCoordinatorError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{
		Id:     proposalId,
		Status: coordinator.ProposalStatusExpired.String(),
	})
}
