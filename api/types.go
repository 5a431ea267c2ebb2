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
	"github.com/Gohlub/agora/database/models"
)

// RootResponse is returned by GET /.
type RootResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	IsHealthy bool `json:"is_healthy"`
}

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	StatusCode int    `json:"status_code"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

// Seed is a recipient-and-amount pair in a spend's economic summary.
type Seed struct {
	Recipient string `json:"recipient"`
	Amount    int64  `json:"amount"`
}

// RegisterWalletRequest is the body for POST /api/v0/wallets.
type RegisterWalletRequest struct {
	LockHash     string   `json:"lock_hash"`
	Threshold    int      `json:"threshold"`
	TotalSigners int      `json:"total_signers"`
	Participants []string `json:"participants"`
	Creator      string   `json:"creator"`
}

// WalletResponse represents a registered wallet. Participants is
// populated on the detail endpoint only.
type WalletResponse struct {
	Id           string   `json:"id"`
	LockHash     string   `json:"lock_hash"`
	Threshold    int      `json:"threshold"`
	TotalSigners int      `json:"total_signers"`
	CreatedBy    string   `json:"created_by"`
	CreatedAt    int64    `json:"created_at"`
	Participants []string `json:"participants,omitempty"`
}

// CreateProposalRequest is the body for POST /api/v0/proposals. The
// payload fields are opaque base64-encoded blobs.
type CreateProposalRequest struct {
	TxId          string `json:"tx_id"`
	LockHash      string `json:"lock_hash"`
	Proposer      string `json:"proposer"`
	Threshold     int    `json:"threshold"`
	TotalInput    int64  `json:"total_input"`
	Seeds         []Seed `json:"seeds"`
	Payload       []byte `json:"payload"`
	Context       []byte `json:"context"`
	Conditions    []byte `json:"conditions,omitempty"`
	SignedPayload []byte `json:"signed_payload"`
}

// ProposalResponse represents a spend proposal. Signatures and
// Participants are populated on the detail endpoint only.
type ProposalResponse struct {
	Id           string              `json:"id"`
	TxId         string              `json:"tx_id"`
	LockHash     string              `json:"lock_hash"`
	Proposer     string              `json:"proposer"`
	Status       string              `json:"status"`
	Threshold    int                 `json:"threshold"`
	TotalInput   int64               `json:"total_input"`
	Seeds        []Seed              `json:"seeds"`
	CreatedAt    int64               `json:"created_at"`
	UpdatedAt    int64               `json:"updated_at"`
	Payload      []byte              `json:"payload,omitempty"`
	Context      []byte              `json:"context,omitempty"`
	Conditions   []byte              `json:"conditions,omitempty"`
	Signatures   []SignatureResponse `json:"signatures,omitempty"`
	Participants []string            `json:"participants,omitempty"`
}

// SignatureResponse represents one recorded signature. SignedPayload
// is populated on the proposal detail endpoint only.
type SignatureResponse struct {
	Signer        string `json:"signer"`
	SignedAt      int64  `json:"signed_at"`
	SignedPayload []byte `json:"signed_payload,omitempty"`
}

// SignProposalRequest is the body for
// POST /api/v0/proposals/{id}/sign.
type SignProposalRequest struct {
	Signer        string `json:"signer"`
	SignedPayload []byte `json:"signed_payload"`
}

// SignProposalResponse reports the outcome of a sign operation.
type SignProposalResponse struct {
	ProposalId     string `json:"proposal_id"`
	SignatureCount int64  `json:"signature_count"`
	Ready          bool   `json:"ready"`
}

// BroadcastProposalRequest is the body for
// POST /api/v0/proposals/{id}/broadcast. FinalTxId is optional and
// covers clients that merge signatures into a transaction whose
// identifier differs from the proposal's.
type BroadcastProposalRequest struct {
	FinalTxId string `json:"final_tx_id,omitempty"`
}

// BroadcastProposalResponse reports the history entry created by a
// broadcast.
type BroadcastProposalResponse struct {
	ProposalId string `json:"proposal_id"`
	HistoryId  string `json:"history_id"`
}

// StatusResponse reports the status an entity reached after a
// transition endpoint.
type StatusResponse struct {
	Id     string `json:"id"`
	Status string `json:"status"`
}

// DirectSpendRequest is the body for POST /api/v0/spends/direct.
type DirectSpendRequest struct {
	TxId       string `json:"tx_id"`
	LockHash   string `json:"lock_hash"`
	Signer     string `json:"signer"`
	TotalInput int64  `json:"total_input"`
	Seeds      []Seed `json:"seeds"`
}

// HistoryResponse represents a finalized spend.
type HistoryResponse struct {
	Id          string   `json:"id"`
	TxId        string   `json:"tx_id"`
	LockHash    string   `json:"lock_hash"`
	Initiator   string   `json:"initiator"`
	Status      string   `json:"status"`
	TotalInput  int64    `json:"total_input"`
	Seeds       []Seed   `json:"seeds"`
	Signers     []string `json:"signers"`
	CreatedAt   int64    `json:"created_at"`
	BroadcastAt int64    `json:"broadcast_at"`
	ConfirmedAt *int64   `json:"confirmed_at"`
}

func seedsFromModels(seeds []models.Seed) []Seed {
	out := make([]Seed, 0, len(seeds))
	for _, seed := range seeds {
		out = append(out, Seed{
			Recipient: seed.Recipient,
			Amount:    seed.Amount,
		})
	}
	return out
}

func seedsToModels(seeds []Seed) []models.Seed {
	out := make([]models.Seed, 0, len(seeds))
	for _, seed := range seeds {
		out = append(out, models.Seed{
			Recipient: seed.Recipient,
			Amount:    seed.Amount,
		})
	}
	return out
}

func walletToResponse(wallet *models.Wallet) WalletResponse {
	return WalletResponse{
		Id:           wallet.ID,
		LockHash:     wallet.LockHash,
		Threshold:    wallet.Threshold,
		TotalSigners: wallet.TotalSigners,
		CreatedBy:    wallet.CreatedBy,
		CreatedAt:    wallet.CreatedAt.Unix(),
	}
}

func proposalToResponse(proposal *models.Proposal) ProposalResponse {
	return ProposalResponse{
		Id:         proposal.ID,
		TxId:       proposal.TxId,
		LockHash:   proposal.LockHash,
		Proposer:   proposal.Proposer,
		Status:     proposal.Status,
		Threshold:  proposal.Threshold,
		TotalInput: proposal.TotalInput,
		Seeds:      seedsFromModels(proposal.Seeds()),
		CreatedAt:  proposal.CreatedAt.Unix(),
		UpdatedAt:  proposal.UpdatedAt.Unix(),
	}
}

func historyToResponse(entry *models.HistoryEntry) HistoryResponse {
	resp := HistoryResponse{
		Id:          entry.ID,
		TxId:        entry.TxId,
		LockHash:    entry.LockHash,
		Initiator:   entry.Initiator,
		Status:      entry.Status,
		TotalInput:  entry.TotalInput,
		Seeds:       seedsFromModels(entry.Seeds()),
		Signers:     entry.Signers(),
		CreatedAt:   entry.CreatedAt.Unix(),
		BroadcastAt: entry.BroadcastAt.Unix(),
	}
	if entry.Signers() == nil {
		resp.Signers = []string{}
	}
	if entry.ConfirmedAt != nil {
		confirmedAt := entry.ConfirmedAt.Unix()
		resp.ConfirmedAt = &confirmedAt
	}
	return resp
}
