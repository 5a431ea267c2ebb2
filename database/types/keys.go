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

package types

// Blob store key construction. Payload blobs are opaque to the gateway
// and are keyed by the owning proposal (and signer, for signatures).

// ProposalPayloadKey returns the blob key for a proposal's unsigned payload
func ProposalPayloadKey(proposalId string) []byte {
	return []byte("proposal/" + proposalId + "/payload")
}

// ProposalContextKey returns the blob key for a proposal's signing context
func ProposalContextKey(proposalId string) []byte {
	return []byte("proposal/" + proposalId + "/context")
}

// ProposalConditionsKey returns the blob key for a proposal's spend conditions
func ProposalConditionsKey(proposalId string) []byte {
	return []byte("proposal/" + proposalId + "/conditions")
}

// SignaturePayloadKey returns the blob key for one signer's signed payload
func SignaturePayloadKey(proposalId, signer string) []byte {
	return []byte("proposal/" + proposalId + "/sig/" + signer)
}
