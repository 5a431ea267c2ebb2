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
	"io"
	"log/slog"

	"github.com/Gohlub/agora/database"
	"github.com/Gohlub/agora/event"
	"github.com/prometheus/client_golang/prometheus"
)

type CoordinatorConfig struct {
	PromRegistry prometheus.Registerer
	Logger       *slog.Logger
	EventBus     *event.EventBus
	Database     *database.Database
}

// Coordinator is the spend coordination engine. It owns the wallet
// registry, the proposal state machine, the signature ledger, and the
// spend history log. Concurrent operations against the same wallet,
// transaction, or proposal are serialized through a keyed mutex so
// check-then-act sequences cannot interleave; schema unique indexes
// remain as a backstop.
type Coordinator struct {
	config   CoordinatorConfig
	metrics  coordinatorMetrics
	logger   *slog.Logger
	eventBus *event.EventBus
	db       *database.Database
	locks    *keyedMutex
}

func NewCoordinator(config CoordinatorConfig) *Coordinator {
	c := &Coordinator{
		config:   config,
		eventBus: config.EventBus,
		db:       config.Database,
		locks:    newKeyedMutex(),
	}
	if config.Logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		c.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	} else {
		c.logger = config.Logger.With("component", "coordinator")
	}
	c.initMetrics(config.PromRegistry)
	return c
}

// Database returns the underlying storage handle
func (c *Coordinator) Database() *database.Database {
	return c.db
}

func (c *Coordinator) publishEvent(eventType event.EventType, data any) {
	if c.eventBus == nil {
		return
	}
	c.eventBus.PublishAsync(eventType, event.NewEvent(eventType, data))
}
