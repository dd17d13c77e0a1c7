// FridgeCook - Ingredient-Based Recipe Search
// Copyright 2026 FridgeCook Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fridgecook/fridgecook

// Package server runs the HTTP listener under a supervisor so a crashed
// listener is restarted with backoff instead of taking the process down.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// httpService adapts *http.Server's blocking ListenAndServe to suture's
// context-aware Serve contract.
type httpService struct {
	server          *http.Server
	shutdownTimeout time.Duration
}

// Serve implements suture.Service: start the listener, then block until
// it fails or the supervisor cancels the context, in which case the
// server drains gracefully within the shutdown timeout.
func (s *httpService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}
		<-errCh
		return ctx.Err()
	}
}

func (s *httpService) String() string { return "http-server" }

// Supervisor wraps the root suture supervisor for the process.
type Supervisor struct {
	root *suture.Supervisor
}

// NewSupervisor builds the root supervisor with supervision events
// logged through the given slog bridge.
func NewSupervisor(logger *slog.Logger, shutdownTimeout time.Duration) *Supervisor {
	hook := (&sutureslog.Handler{Logger: logger}).MustHook()
	root := suture.New("fridgecook", suture.Spec{
		EventHook:        hook,
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		Timeout:          shutdownTimeout,
	})
	return &Supervisor{root: root}
}

// AddHTTPServer registers an HTTP server as a supervised service.
func (s *Supervisor) AddHTTPServer(srv *http.Server, shutdownTimeout time.Duration) {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	s.root.Add(&httpService{server: srv, shutdownTimeout: shutdownTimeout})
}

// Serve runs the tree until ctx is canceled.
func (s *Supervisor) Serve(ctx context.Context) error {
	return s.root.Serve(ctx)
}
