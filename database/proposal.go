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

package database

import (
	"errors"

	"github.com/Gohlub/agora/database/models"
	"github.com/Gohlub/agora/database/types"
)

// ProposalPayloads carries the opaque blobs attached to a proposal at
// creation time. The gateway never inspects these bytes.
type ProposalPayloads struct {
	Payload    []byte
	Context    []byte
	Conditions []byte
}

// AddProposal stores a proposal record along with its opaque payload
// blobs. The metadata row and the blobs commit together.
func (d *Database) AddProposal(
	proposal *models.Proposal,
	payloads ProposalPayloads,
	txn *Txn,
) error {
	if txn == nil {
		txn = d.Transaction(true)
		return txn.Do(func(txn *Txn) error {
			return d.AddProposal(proposal, payloads, txn)
		})
	}
	if err := d.metadata.AddProposal(proposal, txn.Metadata()); err != nil {
		return err
	}
	if err := d.blob.Set(
		txn.Blob(),
		types.ProposalPayloadKey(proposal.ID),
		payloads.Payload,
	); err != nil {
		return err
	}
	if err := d.blob.Set(
		txn.Blob(),
		types.ProposalContextKey(proposal.ID),
		payloads.Context,
	); err != nil {
		return err
	}
	if len(payloads.Conditions) > 0 {
		if err := d.blob.Set(
			txn.Blob(),
			types.ProposalConditionsKey(proposal.ID),
			payloads.Conditions,
		); err != nil {
			return err
		}
	}
	return nil
}

// GetProposal retrieves a proposal by its identifier. Returns
// models.ErrProposalNotFound when no proposal matches.
func (d *Database) GetProposal(
	proposalId string,
	txn *Txn,
) (*models.Proposal, error) {
	if txn == nil {
		txn = NewMetadataOnlyTxn(d, false)
		defer txn.Release()
	}
	return d.metadata.GetProposal(proposalId, txn.Metadata())
}

// GetProposalByTxId retrieves the proposal for a transaction identifier
func (d *Database) GetProposalByTxId(
	txId string,
	txn *Txn,
) (*models.Proposal, error) {
	if txn == nil {
		txn = NewMetadataOnlyTxn(d, false)
		defer txn.Release()
	}
	return d.metadata.GetProposalByTxId(txId, txn.Metadata())
}

// GetProposals lists proposals, optionally filtered by lock hash and status
func (d *Database) GetProposals(
	lockHash string,
	status string,
	offset, limit int,
	txn *Txn,
) ([]models.Proposal, error) {
	if txn == nil {
		txn = NewMetadataOnlyTxn(d, false)
		defer txn.Release()
	}
	return d.metadata.GetProposals(
		lockHash,
		status,
		offset,
		limit,
		txn.Metadata(),
	)
}

// GetProposalPayloads retrieves the opaque blobs attached to a proposal.
// The conditions blob is optional and returns empty when absent.
func (d *Database) GetProposalPayloads(
	proposalId string,
	txn *Txn,
) (ProposalPayloads, error) {
	var ret ProposalPayloads
	if txn == nil {
		txn = NewBlobOnlyTxn(d, false)
		defer txn.Release()
	}
	payload, err := d.blob.Get(
		txn.Blob(),
		types.ProposalPayloadKey(proposalId),
	)
	if err != nil {
		return ret, err
	}
	ret.Payload = payload
	signingContext, err := d.blob.Get(
		txn.Blob(),
		types.ProposalContextKey(proposalId),
	)
	if err != nil {
		return ret, err
	}
	ret.Context = signingContext
	conditions, err := d.blob.Get(
		txn.Blob(),
		types.ProposalConditionsKey(proposalId),
	)
	if err != nil {
		if !errors.Is(err, types.ErrBlobKeyNotFound) {
			return ret, err
		}
	} else {
		ret.Conditions = conditions
	}
	return ret, nil
}

// SetProposalStatus transitions a proposal's status, optionally
// conditional on the current status. Returns the number of rows changed.
func (d *Database) SetProposalStatus(
	proposalId string,
	fromStatus string,
	toStatus string,
	txn *Txn,
) (int64, error) {
	if txn == nil {
		txn = NewMetadataOnlyTxn(d, true)
		var rows int64
		err := txn.Do(func(txn *Txn) error {
			var err error
			rows, err = d.metadata.SetProposalStatus(
				proposalId,
				fromStatus,
				toStatus,
				txn.Metadata(),
			)
			return err
		})
		return rows, err
	}
	return d.metadata.SetProposalStatus(
		proposalId,
		fromStatus,
		toStatus,
		txn.Metadata(),
	)
}

// TouchProposal bumps a proposal's updated_at timestamp
func (d *Database) TouchProposal(
	proposalId string,
	txn *Txn,
) error {
	if txn == nil {
		txn = NewMetadataOnlyTxn(d, true)
		return txn.Do(func(txn *Txn) error {
			return d.metadata.TouchProposal(proposalId, txn.Metadata())
		})
	}
	return d.metadata.TouchProposal(proposalId, txn.Metadata())
}

// AddProposalSignature records a signature and stores the signer's signed
// payload blob. The metadata row and the blob commit together.
func (d *Database) AddProposalSignature(
	signature *models.ProposalSignature,
	signedPayload []byte,
	txn *Txn,
) error {
	if txn == nil {
		txn = d.Transaction(true)
		return txn.Do(func(txn *Txn) error {
			return d.AddProposalSignature(signature, signedPayload, txn)
		})
	}
	if err := d.metadata.AddProposalSignature(signature, txn.Metadata()); err != nil {
		return err
	}
	return d.blob.Set(
		txn.Blob(),
		types.SignaturePayloadKey(signature.ProposalID, signature.Signer),
		signedPayload,
	)
}

// GetProposalSignature returns the signature record for a signer on a
// proposal. Returns models.ErrSignatureNotFound when the signer has not
// signed.
func (d *Database) GetProposalSignature(
	proposalId string,
	signer string,
	txn *Txn,
) (*models.ProposalSignature, error) {
	if txn == nil {
		txn = NewMetadataOnlyTxn(d, false)
		defer txn.Release()
	}
	return d.metadata.GetProposalSignature(proposalId, signer, txn.Metadata())
}

// GetProposalSignatures returns all signature records for a proposal in
// signing order
func (d *Database) GetProposalSignatures(
	proposalId string,
	txn *Txn,
) ([]models.ProposalSignature, error) {
	if txn == nil {
		txn = NewMetadataOnlyTxn(d, false)
		defer txn.Release()
	}
	return d.metadata.GetProposalSignatures(proposalId, txn.Metadata())
}

// CountProposalSignatures returns the number of signatures collected for
// a proposal
func (d *Database) CountProposalSignatures(
	proposalId string,
	txn *Txn,
) (int64, error) {
	if txn == nil {
		txn = NewMetadataOnlyTxn(d, false)
		defer txn.Release()
	}
	return d.metadata.CountProposalSignatures(proposalId, txn.Metadata())
}

// GetSignaturePayload retrieves one signer's signed payload blob
func (d *Database) GetSignaturePayload(
	proposalId string,
	signer string,
	txn *Txn,
) ([]byte, error) {
	if txn == nil {
		txn = NewBlobOnlyTxn(d, false)
		defer txn.Release()
	}
	return d.blob.Get(
		txn.Blob(),
		types.SignaturePayloadKey(proposalId, signer),
	)
}
