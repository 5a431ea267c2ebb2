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

package models

import (
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrProposalNotFound  = errors.New("proposal not found")
	ErrSignatureNotFound = errors.New("signature not found")
)

// Seed is a recipient-and-amount pair describing where value goes in a
// spend. Stored serialized on the owning proposal or history entry.
type Seed struct {
	Recipient string `json:"recipient"`
	Amount    int64  `json:"amount"`
}

// Proposal is a candidate spend awaiting enough signatures. Threshold is
// copied from the wallet at creation time and is authoritative for the
// proposal's lifetime. Status only ever advances forward. The opaque
// payload blobs (unsigned payload, signing context, spend conditions)
// are stored in the blob store keyed by proposal ID.
type Proposal struct {
	ID         string `gorm:"primaryKey;size:36"`
	TxId       string `gorm:"uniqueIndex;size:128;not null"`
	LockHash   string `gorm:"index;size:128;not null"`
	Proposer   string `gorm:"size:128;not null"`
	Status     string `gorm:"index;size:16;not null"`
	Threshold  int    `gorm:"not null"`
	TotalInput int64
	SeedsJSON  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Proposal) TableName() string {
	return "proposal"
}

// Seeds decodes the stored economic summary. Returns an empty slice for
// missing or malformed data since the summary is display-only.
func (p *Proposal) Seeds() []Seed {
	var seeds []Seed
	if p.SeedsJSON != "" {
		_ = json.Unmarshal([]byte(p.SeedsJSON), &seeds)
	}
	return seeds
}

// SetSeeds encodes the economic summary for storage
func (p *Proposal) SetSeeds(seeds []Seed) error {
	data, err := json.Marshal(seeds)
	if err != nil {
		return err
	}
	p.SeedsJSON = string(data)
	return nil
}

// ProposalSignature is one participant's contribution to a proposal.
// At most one record per (proposal, signer) pair; immutable once
// written. The signed payload blob is stored in the blob store keyed by
// proposal ID and signer PKH.
type ProposalSignature struct {
	ID         uint   `gorm:"primarykey"`
	ProposalID string `gorm:"index;uniqueIndex:proposal_signature_signer;size:36;not null"`
	Signer     string `gorm:"uniqueIndex:proposal_signature_signer;size:128;not null"`
	SignedAt   time.Time
}

func (ProposalSignature) TableName() string {
	return "proposal_signature"
}
