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

package agora

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Gohlub/agora/api"
	"github.com/Gohlub/agora/coordinator"
	"github.com/Gohlub/agora/database"
	"github.com/Gohlub/agora/event"
)

// Gateway is the spend coordination service. It wires the storage
// layer, the coordination engine, the event bus, and the REST API into
// one runnable unit.
type Gateway struct {
	eventBus      *event.EventBus
	db            *database.Database
	coordinator   *coordinator.Coordinator
	api           *api.Api
	shutdownFuncs []func(context.Context) error
	config        Config
	done          chan struct{}
	shutdownOnce  sync.Once
}

func New(cfg Config) (*Gateway, error) {
	eventBus := event.NewEventBus(cfg.promRegistry, cfg.logger)
	g := &Gateway{
		config:   cfg,
		eventBus: eventBus,
		done:     make(chan struct{}),
	}
	return g, nil
}

// Coordinator returns the spend coordination engine. It is available
// after Run has started the gateway.
func (g *Gateway) Coordinator() *coordinator.Coordinator {
	return g.coordinator
}

// Run starts the gateway and blocks until Stop is called or the given
// context is cancelled.
func (g *Gateway) Run(ctx context.Context) error {
	// Configure tracing
	if g.config.tracing {
		if err := g.setupTracing(); err != nil {
			return err
		}
	}
	// Load database
	dbConfig := &database.Config{
		DataDir:        g.config.dataDir,
		Logger:         g.config.logger,
		BlobPlugin:     g.config.blobPlugin,
		MetadataPlugin: g.config.metadataPlugin,
		PromRegistry:   g.config.promRegistry,
	}
	db, err := database.New(dbConfig)
	if db == nil {
		g.config.logger.Error(
			"failed to create database",
			"error", "empty database returned",
		)
		return errors.New("empty database returned")
	}
	g.db = db
	if err != nil {
		var dbErr database.CommitTimestampError
		if !errors.As(err, &dbErr) {
			return fmt.Errorf("failed to open database: %w", err)
		}
		// The stores disagree about the last commit, meaning a crash
		// interrupted a coordinated commit. The metadata side is
		// authoritative; orphaned payload blobs are harmless and get
		// overwritten by the next write against the same key.
		g.config.logger.Warn(
			"commit timestamp mismatch, continuing with metadata timestamp",
			"error", err,
		)
	}
	// Initialize coordinator
	g.coordinator = coordinator.NewCoordinator(
		coordinator.CoordinatorConfig{
			PromRegistry: g.config.promRegistry,
			Logger:       g.config.logger,
			EventBus:     g.eventBus,
			Database:     g.db,
		},
	)
	// Start API listener
	apiAddress := g.config.apiListenAddress
	if apiAddress == "" {
		apiAddress = ":3000"
	}
	g.api = api.New(
		api.ApiConfig{
			ListenAddress: apiAddress,
			CorsOrigin:    g.config.corsOrigin,
		},
		g.coordinator,
		g.config.logger,
	)
	if err := g.api.Start(ctx); err != nil {
		return err
	}

	// Monitor context for cancellation
	go func() {
		select {
		case <-ctx.Done():
			if err := g.Stop(); err != nil {
				g.config.logger.Error(
					"shutdown errors occurred",
					"error", err,
				)
			}
		case <-g.done:
		}
	}()

	// Wait for shutdown signal
	<-g.done
	return nil
}

func (g *Gateway) Stop() error {
	var err error
	g.shutdownOnce.Do(func() {
		err = g.shutdown()
	})
	return err
}

func (g *Gateway) shutdown() error {
	// Create shutdown context with timeout (default 30s if not configured)
	shutdownTimeout := 30 * time.Second
	if g.config.shutdownTimeout > 0 {
		shutdownTimeout = g.config.shutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var err error

	g.config.logger.Debug("starting graceful shutdown")

	// Phase 1: Stop accepting new work
	g.config.logger.Debug("shutdown phase 1: stopping new work")

	if g.api != nil {
		if stopErr := g.api.Stop(ctx); stopErr != nil {
			err = errors.Join(err, fmt.Errorf("api shutdown: %w", stopErr))
		}
	}

	// Phase 2: Drain in-flight event deliveries
	g.config.logger.Debug("shutdown phase 2: draining events")

	if g.eventBus != nil {
		g.eventBus.Stop()
	}

	// Phase 3: Flush state and close database
	g.config.logger.Debug("shutdown phase 3: flushing state")

	if g.db != nil {
		if closeErr := g.db.Close(); closeErr != nil {
			err = errors.Join(
				err,
				fmt.Errorf("database close: %w", closeErr),
			)
		}
	}

	// Phase 4: Cleanup resources
	g.config.logger.Debug("shutdown phase 4: cleanup resources")

	// Call registered shutdown functions
	for _, fn := range g.shutdownFuncs {
		if fnErr := fn(ctx); fnErr != nil {
			err = errors.Join(err, fmt.Errorf("shutdown function: %w", fnErr))
		}
	}
	g.shutdownFuncs = nil

	g.config.logger.Debug("graceful shutdown complete")
	close(g.done)
	return err
}
