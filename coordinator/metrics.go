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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type coordinatorMetrics struct {
	walletsRegistered  prometheus.Counter
	proposalsCreated   prometheus.Counter
	signaturesRecorded prometheus.Counter
	proposalsReady     prometheus.Counter
	proposalsBroadcast prometheus.Counter
	directSpends       prometheus.Counter
	proposalsByStatus  *prometheus.CounterVec
}

func (c *Coordinator) initMetrics(promRegistry prometheus.Registerer) {
	promautoFactory := promauto.With(promRegistry)
	c.metrics.walletsRegistered = promautoFactory.NewCounter(
		prometheus.CounterOpts{
			Name: "agora_wallets_registered_total",
			Help: "total wallets registered",
		},
	)
	c.metrics.proposalsCreated = promautoFactory.NewCounter(
		prometheus.CounterOpts{
			Name: "agora_proposals_created_total",
			Help: "total spend proposals created",
		},
	)
	c.metrics.signaturesRecorded = promautoFactory.NewCounter(
		prometheus.CounterOpts{
			Name: "agora_signatures_recorded_total",
			Help: "total signatures recorded, including proposer signatures",
		},
	)
	c.metrics.proposalsReady = promautoFactory.NewCounter(
		prometheus.CounterOpts{
			Name: "agora_proposals_ready_total",
			Help: "total proposals that reached their signature threshold",
		},
	)
	c.metrics.proposalsBroadcast = promautoFactory.NewCounter(
		prometheus.CounterOpts{
			Name: "agora_proposals_broadcast_total",
			Help: "total proposals marked broadcast",
		},
	)
	c.metrics.directSpends = promautoFactory.NewCounter(
		prometheus.CounterOpts{
			Name: "agora_direct_spends_total",
			Help: "total direct spends recorded",
		},
	)
	c.metrics.proposalsByStatus = promautoFactory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agora_proposal_transitions_total",
			Help: "proposal status transitions by target status",
		},
		[]string{"status"},
	)
}
