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
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/Gohlub/agora/database"
	"github.com/Gohlub/agora/database/models"
	"github.com/Gohlub/agora/event"
	"github.com/google/uuid"
)

type CreateProposalParams struct {
	TxId                  string
	LockHash              string
	Proposer              string
	Threshold             int
	TotalInput            int64
	Seeds                 []models.Seed
	Payload               []byte
	Context               []byte
	Conditions            []byte
	ProposerSignedPayload []byte
}

func (p CreateProposalParams) validate() error {
	if p.TxId == "" {
		return fmt.Errorf("%w: missing tx id", ErrInvalidInput)
	}
	if p.LockHash == "" {
		return fmt.Errorf("%w: missing lock hash", ErrInvalidInput)
	}
	if p.Proposer == "" {
		return fmt.Errorf("%w: missing proposer", ErrInvalidInput)
	}
	if p.Threshold < 1 {
		return fmt.Errorf("%w: threshold must be at least 1", ErrInvalidInput)
	}
	if len(p.Payload) == 0 {
		return fmt.Errorf("%w: missing payload", ErrInvalidInput)
	}
	return nil
}

// CreateProposal registers a candidate spend in the pending state and
// records the proposer's own signature. The wallet existence check, tx id
// uniqueness check, proposal insert, signature insert, and threshold
// evaluation all commit as one unit, serialized per tx id. A proposal
// with threshold 1 becomes ready at creation.
//
// The proposer is not verified against the wallet's participant set.
// Clients sign what they submit; a proposal from an outsider collects no
// further signatures.
func (c *Coordinator) CreateProposal(
	ctx context.Context,
	params CreateProposalParams,
) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := params.validate(); err != nil {
		return "", err
	}
	lockKey := "tx:" + params.TxId
	c.locks.Lock(lockKey)
	defer c.locks.Unlock(lockKey)

	now := time.Now()
	proposal := &models.Proposal{
		ID:         uuid.NewString(),
		TxId:       params.TxId,
		LockHash:   params.LockHash,
		Proposer:   params.Proposer,
		Status:     ProposalStatusPending.String(),
		Threshold:  params.Threshold,
		TotalInput: params.TotalInput,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := proposal.SetSeeds(params.Seeds); err != nil {
		return "", fmt.Errorf("%w: bad seeds: %w", ErrInvalidInput, err)
	}
	becameReady := false
	txn := c.db.Transaction(true)
	err := txn.Do(func(txn *database.Txn) error {
		if _, err := c.db.GetWallet(params.LockHash, txn); err != nil {
			if errors.Is(err, models.ErrWalletNotFound) {
				return fmt.Errorf(
					"%w: %s",
					ErrWalletNotFound,
					params.LockHash,
				)
			}
			return err
		}
		if _, err := c.db.GetProposalByTxId(params.TxId, txn); err == nil {
			return fmt.Errorf("%w: %s", ErrProposalExists, params.TxId)
		} else if !errors.Is(err, models.ErrProposalNotFound) {
			return err
		}
		if err := c.db.AddProposal(
			proposal,
			database.ProposalPayloads{
				Payload:    params.Payload,
				Context:    params.Context,
				Conditions: params.Conditions,
			},
			txn,
		); err != nil {
			return err
		}
		if err := c.db.AddProposalSignature(
			&models.ProposalSignature{
				ProposalID: proposal.ID,
				Signer:     params.Proposer,
				SignedAt:   now,
			},
			params.ProposerSignedPayload,
			txn,
		); err != nil {
			return err
		}
		// The proposer's signature counts toward the threshold
		if params.Threshold <= 1 {
			rows, err := c.db.SetProposalStatus(
				proposal.ID,
				ProposalStatusPending.String(),
				ProposalStatusReady.String(),
				txn,
			)
			if err != nil {
				return err
			}
			becameReady = rows == 1
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	c.logger.Info(
		"proposal created",
		"proposal_id", proposal.ID,
		"tx_id", proposal.TxId,
		"lock_hash", proposal.LockHash,
		"threshold", proposal.Threshold,
	)
	c.metrics.proposalsCreated.Inc()
	c.metrics.signaturesRecorded.Inc()
	c.publishEvent(ProposalCreatedEventType, ProposalCreatedEvent{
		ProposalId: proposal.ID,
		TxId:       proposal.TxId,
		LockHash:   proposal.LockHash,
		Proposer:   proposal.Proposer,
	})
	c.publishEvent(ProposalSignedEventType, ProposalSignedEvent{
		ProposalId:     proposal.ID,
		Signer:         params.Proposer,
		SignatureCount: 1,
	})
	if becameReady {
		c.recordReady(proposal, 1)
	}
	return proposal.ID, nil
}

// SignProposal records one participant's signature and transitions the
// proposal to ready when the signature count first reaches the
// threshold. Preconditions are checked in order: the proposal exists, is
// still pending, the signer is a wallet participant, and has not already
// signed. The signature write, recount, and transition decision are one
// atomic unit serialized per proposal, so exactly one caller observes
// becameReady for a given proposal.
func (c *Coordinator) SignProposal(
	ctx context.Context,
	proposalId string,
	signer string,
	signedPayload []byte,
) (int64, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	if signer == "" {
		return 0, false, fmt.Errorf("%w: missing signer", ErrInvalidInput)
	}
	lockKey := "proposal:" + proposalId
	c.locks.Lock(lockKey)
	defer c.locks.Unlock(lockKey)

	var proposal *models.Proposal
	var count int64
	becameReady := false
	txn := c.db.Transaction(true)
	err := txn.Do(func(txn *database.Txn) error {
		var err error
		proposal, err = c.db.GetProposal(proposalId, txn)
		if err != nil {
			if errors.Is(err, models.ErrProposalNotFound) {
				return fmt.Errorf("%w: %s", ErrProposalNotFound, proposalId)
			}
			return err
		}
		// Signatures are refused once a proposal leaves pending, even
		// from participants who never signed
		if proposal.Status != ProposalStatusPending.String() {
			return fmt.Errorf(
				"%w: %s is %s",
				ErrProposalNotPending,
				proposalId,
				proposal.Status,
			)
		}
		wallet, err := c.db.GetWallet(proposal.LockHash, txn)
		if err != nil {
			if errors.Is(err, models.ErrWalletNotFound) {
				return fmt.Errorf(
					"%w: %s",
					ErrWalletNotFound,
					proposal.LockHash,
				)
			}
			return err
		}
		participants, err := c.db.GetWalletParticipants(wallet.ID, txn)
		if err != nil {
			return err
		}
		if !slices.Contains(participants, signer) {
			return fmt.Errorf("%w: %s", ErrNotParticipant, signer)
		}
		if _, err := c.db.GetProposalSignature(
			proposalId,
			signer,
			txn,
		); err == nil {
			return fmt.Errorf("%w: %s", ErrAlreadySigned, signer)
		} else if !errors.Is(err, models.ErrSignatureNotFound) {
			return err
		}
		if err := c.db.AddProposalSignature(
			&models.ProposalSignature{
				ProposalID: proposalId,
				Signer:     signer,
				SignedAt:   time.Now(),
			},
			signedPayload,
			txn,
		); err != nil {
			return err
		}
		// Recount after the signature write and decide the transition
		// inside the same transaction
		count, err = c.db.CountProposalSignatures(proposalId, txn)
		if err != nil {
			return err
		}
		if count >= int64(proposal.Threshold) {
			rows, err := c.db.SetProposalStatus(
				proposalId,
				ProposalStatusPending.String(),
				ProposalStatusReady.String(),
				txn,
			)
			if err != nil {
				return err
			}
			becameReady = rows == 1
		}
		// A transition bumps updated_at itself; a signature below the
		// threshold still counts as activity on the proposal
		if !becameReady {
			if err := c.db.TouchProposal(proposalId, txn); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, false, err
	}
	c.logger.Info(
		"proposal signed",
		"proposal_id", proposalId,
		"signer", signer,
		"signature_count", count,
		"became_ready", becameReady,
	)
	c.metrics.signaturesRecorded.Inc()
	c.publishEvent(ProposalSignedEventType, ProposalSignedEvent{
		ProposalId:     proposalId,
		Signer:         signer,
		SignatureCount: count,
	})
	if becameReady {
		c.recordReady(proposal, count)
	}
	return count, becameReady, nil
}

func (c *Coordinator) recordReady(proposal *models.Proposal, count int64) {
	c.metrics.proposalsReady.Inc()
	c.metrics.proposalsByStatus.
		WithLabelValues(ProposalStatusReady.String()).
		Inc()
	c.publishEvent(ProposalReadyEventType, ProposalReadyEvent{
		ProposalId:     proposal.ID,
		TxId:           proposal.TxId,
		SignatureCount: count,
		Threshold:      proposal.Threshold,
	})
}

// MarkBroadcast finalizes a proposal into the history log. The history
// entry uses finalTxId when supplied, covering clients that merge
// per-signer payloads into a transaction whose identifier differs from
// the proposal's. Only pending or ready proposals may be broadcast; a
// repeat call fails and appends nothing.
func (c *Coordinator) MarkBroadcast(
	ctx context.Context,
	proposalId string,
	finalTxId string,
) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	lockKey := "proposal:" + proposalId
	c.locks.Lock(lockKey)
	defer c.locks.Unlock(lockKey)

	var entry *models.HistoryEntry
	var proposal *models.Proposal
	txn := database.NewMetadataOnlyTxn(c.db, true)
	err := txn.Do(func(txn *database.Txn) error {
		var err error
		proposal, err = c.db.GetProposal(proposalId, txn)
		if err != nil {
			if errors.Is(err, models.ErrProposalNotFound) {
				return fmt.Errorf("%w: %s", ErrProposalNotFound, proposalId)
			}
			return err
		}
		status := ProposalStatus(proposal.Status)
		if status != ProposalStatusPending && status != ProposalStatusReady {
			return fmt.Errorf(
				"%w: %s is %s",
				ErrProposalNotBroadcastable,
				proposalId,
				proposal.Status,
			)
		}
		signatures, err := c.db.GetProposalSignatures(proposalId, txn)
		if err != nil {
			return err
		}
		signers := make([]string, 0, len(signatures))
		for _, sig := range signatures {
			signers = append(signers, sig.Signer)
		}
		txId := proposal.TxId
		if finalTxId != "" {
			txId = finalTxId
		}
		// The history entry inherits the proposal's creation time so
		// the lifecycle span survives the proposal row
		entry = &models.HistoryEntry{
			ID:          uuid.NewString(),
			TxId:        txId,
			LockHash:    proposal.LockHash,
			Initiator:   proposal.Proposer,
			Status:      HistoryStatusBroadcast.String(),
			TotalInput:  proposal.TotalInput,
			SeedsJSON:   proposal.SeedsJSON,
			CreatedAt:   proposal.CreatedAt,
			BroadcastAt: time.Now(),
		}
		if err := entry.SetSigners(signers); err != nil {
			return err
		}
		if err := c.db.AddHistoryEntry(entry, txn); err != nil {
			return err
		}
		rows, err := c.db.SetProposalStatus(
			proposalId,
			proposal.Status,
			ProposalStatusBroadcast.String(),
			txn,
		)
		if err != nil {
			return err
		}
		if rows == 0 {
			return fmt.Errorf(
				"%w: %s",
				ErrProposalNotBroadcastable,
				proposalId,
			)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	c.logger.Info(
		"proposal broadcast",
		"proposal_id", proposalId,
		"history_id", entry.ID,
		"tx_id", entry.TxId,
	)
	c.metrics.proposalsBroadcast.Inc()
	c.metrics.proposalsByStatus.
		WithLabelValues(ProposalStatusBroadcast.String()).
		Inc()
	c.publishEvent(ProposalBroadcastEventType, ProposalBroadcastEvent{
		ProposalId: proposalId,
		HistoryId:  entry.ID,
		TxId:       entry.TxId,
	})
	return entry.ID, nil
}

// ConfirmProposal records on-chain settlement of a broadcast proposal.
// Driven by an external watcher.
func (c *Coordinator) ConfirmProposal(
	ctx context.Context,
	proposalId string,
) error {
	return c.terminalTransition(
		ctx,
		proposalId,
		ProposalStatusConfirmed,
		ProposalConfirmedEventType,
	)
}

// ExpireProposal abandons a proposal that will never complete. Driven by
// an external watcher. Proposals already broadcast, confirmed, or
// expired refuse the transition.
func (c *Coordinator) ExpireProposal(
	ctx context.Context,
	proposalId string,
) error {
	return c.terminalTransition(
		ctx,
		proposalId,
		ProposalStatusExpired,
		ProposalExpiredEventType,
	)
}

func (c *Coordinator) terminalTransition(
	ctx context.Context,
	proposalId string,
	target ProposalStatus,
	eventType event.EventType,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	lockKey := "proposal:" + proposalId
	c.locks.Lock(lockKey)
	defer c.locks.Unlock(lockKey)

	txn := database.NewMetadataOnlyTxn(c.db, true)
	err := txn.Do(func(txn *database.Txn) error {
		proposal, err := c.db.GetProposal(proposalId, txn)
		if err != nil {
			if errors.Is(err, models.ErrProposalNotFound) {
				return fmt.Errorf("%w: %s", ErrProposalNotFound, proposalId)
			}
			return err
		}
		status := ProposalStatus(proposal.Status)
		switch target {
		case ProposalStatusConfirmed:
			// Confirmation only makes sense for a broadcast proposal
			if status != ProposalStatusBroadcast {
				return fmt.Errorf(
					"%w: %s is %s",
					ErrProposalNotBroadcast,
					proposalId,
					proposal.Status,
				)
			}
		case ProposalStatusExpired:
			if status.Terminal() {
				return fmt.Errorf(
					"%w: %s is %s",
					ErrProposalTerminal,
					proposalId,
					proposal.Status,
				)
			}
		default:
			return fmt.Errorf(
				"%w: %s",
				ErrInvalidStatus,
				target,
			)
		}
		rows, err := c.db.SetProposalStatus(
			proposalId,
			proposal.Status,
			target.String(),
			txn,
		)
		if err != nil {
			return err
		}
		if rows == 0 {
			return fmt.Errorf("%w: %s", ErrProposalNotFound, proposalId)
		}
		return nil
	})
	if err != nil {
		return err
	}
	c.logger.Info(
		"proposal status updated",
		"proposal_id", proposalId,
		"status", target,
	)
	c.metrics.proposalsByStatus.WithLabelValues(target.String()).Inc()
	c.publishEvent(eventType, ProposalStatusEvent{
		ProposalId: proposalId,
		Status:     target,
	})
	return nil
}

// GetProposal returns a proposal by its identifier
func (c *Coordinator) GetProposal(
	ctx context.Context,
	proposalId string,
) (*models.Proposal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	proposal, err := c.db.GetProposal(proposalId, nil)
	if err != nil {
		if errors.Is(err, models.ErrProposalNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProposalNotFound, proposalId)
		}
		return nil, err
	}
	return proposal, nil
}

// GetProposalSignatures returns the signature records for a proposal in
// signing order
func (c *Coordinator) GetProposalSignatures(
	ctx context.Context,
	proposalId string,
) ([]models.ProposalSignature, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.db.GetProposalSignatures(proposalId, nil)
}

// GetProposalPayloads returns the opaque blobs stored with a proposal
func (c *Coordinator) GetProposalPayloads(
	ctx context.Context,
	proposalId string,
) (database.ProposalPayloads, error) {
	if err := ctx.Err(); err != nil {
		return database.ProposalPayloads{}, err
	}
	return c.db.GetProposalPayloads(proposalId, nil)
}

// GetSignaturePayload returns one signer's signed payload blob.
// Co-signers fetch these to merge the joint signature before broadcast.
func (c *Coordinator) GetSignaturePayload(
	ctx context.Context,
	proposalId string,
	signer string,
) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.db.GetSignaturePayload(proposalId, signer, nil)
}

// ListProposals returns proposals filtered by participant PKH, lock
// hash, and status. The status filter is parsed against the closed
// status set; unrecognized values fail with ErrInvalidStatus rather
// than matching nothing.
func (c *Coordinator) ListProposals(
	ctx context.Context,
	participant string,
	lockHash string,
	status string,
	offset, limit int,
) ([]models.Proposal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	statusFilter := ""
	if status != "" {
		parsed, err := ParseProposalStatus(status)
		if err != nil {
			return nil, err
		}
		statusFilter = parsed.String()
	}
	if participant == "" {
		return c.db.GetProposals(lockHash, statusFilter, offset, limit, nil)
	}
	// Participant filter: gather the participant's wallets and merge
	// their proposal lists. A lock hash filter narrows the wallet set,
	// so a wallet the participant is not part of matches nothing.
	wallets, err := c.db.GetWallets(participant, 0, 0, nil)
	if err != nil {
		return nil, err
	}
	var merged []models.Proposal
	for _, wallet := range wallets {
		if lockHash != "" && wallet.LockHash != lockHash {
			continue
		}
		proposals, err := c.db.GetProposals(
			wallet.LockHash,
			statusFilter,
			0,
			0,
			nil,
		)
		if err != nil {
			return nil, err
		}
		merged = append(merged, proposals...)
	}
	slices.SortFunc(merged, func(a, b models.Proposal) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if offset > 0 {
		if offset >= len(merged) {
			return []models.Proposal{}, nil
		}
		merged = merged[offset:]
	}
	if limit > 0 && limit < len(merged) {
		merged = merged[:limit]
	}
	return merged, nil
}
