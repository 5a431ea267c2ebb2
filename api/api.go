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
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"
)

// ApiConfig holds the REST API server configuration.
type ApiConfig struct {
	ListenAddress string
	// CorsOrigin enables the CORS layer when non-empty. Use "*" to
	// allow any origin.
	CorsOrigin string
}

// Api is the REST API server for the spend coordination gateway.
type Api struct {
	config      ApiConfig
	logger      *slog.Logger
	coordinator Coordinator
	httpServer  *http.Server
	mu          sync.Mutex
}

// New creates a new API server instance.
func New(
	cfg ApiConfig,
	coordinator Coordinator,
	logger *slog.Logger,
) *Api {
	if logger == nil {
		logger = slog.New(
			slog.NewJSONHandler(io.Discard, nil),
		)
	}
	logger = logger.With("component", "api")
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = ":3000"
	}
	return &Api{
		config:      cfg,
		logger:      logger,
		coordinator: coordinator,
	}
}

// Start starts the HTTP server in a background goroutine.
func (a *Api) Start(
	ctx context.Context,
) error {
	a.mu.Lock()
	if a.httpServer != nil {
		a.mu.Unlock()
		return errors.New("server already started")
	}

	server := &http.Server{
		Addr:              a.config.ListenAddress,
		Handler:           a.buildHandler(),
		ReadHeaderTimeout: 60 * time.Second,
	}
	a.httpServer = server
	a.mu.Unlock()

	// Start the server with deterministic error detection
	if err := a.startServer(server); err != nil {
		a.mu.Lock()
		a.httpServer = nil
		a.mu.Unlock()
		return err
	}

	a.logger.Info(
		"API listener started on " + a.config.ListenAddress,
	)

	// Monitor context for cancellation
	go func() {
		<-ctx.Done()
		a.mu.Lock()
		srv := a.httpServer
		a.httpServer = nil
		a.mu.Unlock()

		if srv != nil {
			a.logger.Debug(
				"context cancelled, shutting down API server",
			)
			//nolint:contextcheck
			shutdownCtx, cancel := context.WithTimeout(
				context.Background(),
				30*time.Second,
			)
			defer cancel()
			//nolint:contextcheck
			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.logger.Error(
					"failed to shutdown API server on context "+
						"cancellation",
					"error", err,
				)
			}
		}
	}()

	return nil
}

// Stop gracefully shuts down the HTTP server.
func (a *Api) Stop(
	ctx context.Context,
) error {
	a.mu.Lock()
	srv := a.httpServer
	a.httpServer = nil
	a.mu.Unlock()

	if srv != nil {
		a.logger.Debug("shutting down API server")
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf(
				"failed to shutdown API server: %w",
				err,
			)
		}
	}
	return nil
}

// buildHandler registers the route table and wraps it with the CORS
// layer when configured.
func (a *Api) buildHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", a.handleRoot)
	mux.HandleFunc("GET /health", a.handleHealth)
	mux.HandleFunc(
		"POST /api/v0/wallets",
		a.handleRegisterWallet,
	)
	mux.HandleFunc(
		"GET /api/v0/wallets",
		a.handleListWallets,
	)
	mux.HandleFunc(
		"GET /api/v0/wallets/{id}",
		a.handleGetWallet,
	)
	mux.HandleFunc(
		"POST /api/v0/proposals",
		a.handleCreateProposal,
	)
	mux.HandleFunc(
		"GET /api/v0/proposals",
		a.handleListProposals,
	)
	mux.HandleFunc(
		"GET /api/v0/proposals/{id}",
		a.handleGetProposal,
	)
	mux.HandleFunc(
		"POST /api/v0/proposals/{id}/sign",
		a.handleSignProposal,
	)
	mux.HandleFunc(
		"POST /api/v0/proposals/{id}/broadcast",
		a.handleBroadcastProposal,
	)
	mux.HandleFunc(
		"POST /api/v0/proposals/{id}/confirm",
		a.handleConfirmProposal,
	)
	mux.HandleFunc(
		"POST /api/v0/proposals/{id}/expire",
		a.handleExpireProposal,
	)
	mux.HandleFunc(
		"POST /api/v0/spends/direct",
		a.handleDirectSpend,
	)
	mux.HandleFunc(
		"GET /api/v0/history",
		a.handleListHistory,
	)
	mux.HandleFunc(
		"POST /api/v0/history/{id}/confirm",
		a.handleConfirmHistory,
	)
	mux.HandleFunc(
		"POST /api/v0/history/{id}/fail",
		a.handleFailHistory,
	)
	if a.config.CorsOrigin != "" {
		return a.corsHandler(mux)
	}
	return mux
}

// corsHandler answers preflight requests and stamps the configured
// origin on every response.
func (a *Api) corsHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(
				"Access-Control-Allow-Origin",
				a.config.CorsOrigin,
			)
			w.Header().Set(
				"Access-Control-Allow-Methods",
				"GET, POST, OPTIONS",
			)
			w.Header().Set(
				"Access-Control-Allow-Headers",
				"Content-Type",
			)
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		},
	)
}

// startServer starts the HTTP server with deterministic error
// detection. It binds the listening socket first so port conflicts are
// detected immediately, then serves in a background goroutine.
func (a *Api) startServer(
	server *http.Server,
) error {
	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return fmt.Errorf(
			"failed to listen for API server: %w",
			err,
		)
	}
	go func() {
		if err := server.Serve(ln); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			a.logger.Error(
				"API server error",
				"error", err,
			)
		}
	}()
	return nil
}
