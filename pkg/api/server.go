/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package api serves configured devices, their latest snapshots and link
// states over HTTP, plus a websocket stream of change events.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/carverauto/linkwatch/pkg/logger"
	"github.com/carverauto/linkwatch/pkg/models"
	"github.com/carverauto/linkwatch/pkg/poller"
)

// Server is the HTTP API.
type Server struct {
	config    Config
	router    *mux.Router
	poller    DevicePoller
	states    LinkStateReader
	collector SnapshotCollector
	stream    http.Handler
	logger    logger.Logger

	mu     sync.Mutex
	srv    *http.Server
	closed bool
}

// Option configures optional Server dependencies.
type Option func(*Server)

// WithCollector enables on-demand snapshot collection.
func WithCollector(c SnapshotCollector) Option {
	return func(s *Server) {
		s.collector = c
	}
}

// WithEventStream mounts h at /api/events/stream.
func WithEventStream(h http.Handler) Option {
	return func(s *Server) {
		s.stream = h
	}
}

// NewServer creates the API server and registers its routes.
func NewServer(config Config, p DevicePoller, states LinkStateReader, log logger.Logger, opts ...Option) *Server {
	s := &Server{
		config: config,
		router: mux.NewRouter(),
		poller: p,
		states: states,
		logger: log,
	}

	for _, o := range opts {
		o(s)
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)

	protected := s.router.PathPrefix("/api").Subrouter()
	protected.Use(APIKeyMiddlewareWithOptions(APIKeyOptions{
		APIKey:          s.config.APIKey,
		LogUnauthorized: true,
		Logger:          s.logger,
	}))

	protected.HandleFunc("/devices", s.getDevices).Methods(http.MethodGet)
	protected.HandleFunc("/devices/{address}", s.getDevice).Methods(http.MethodGet)
	protected.HandleFunc("/devices/{address}/snapshot", s.getSnapshot).Methods(http.MethodGet)
	protected.HandleFunc("/linkstate", s.getLinkStates).Methods(http.MethodGet)
	protected.HandleFunc("/cycle", s.getCycle).Methods(http.MethodGet)

	if s.stream != nil {
		protected.Handle("/events/stream", s.stream).Methods(http.MethodGet)
	}
}

// Handler returns the router wrapped in the common middleware.
func (s *Server) Handler() http.Handler {
	return CommonMiddleware(s.router, s.config.CORS, s.logger)
}

// Start listens on the configured address and serves until Stop.
func (s *Server) Start(ctx context.Context) error {
	lc := &net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", s.config.ListenAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.ListenAddr, err)
	}

	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		IdleTimeout:  defaultIdleTimeout,
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()

		return lis.Close()
	}

	s.srv = srv
	s.mu.Unlock()

	s.logger.Info().Str("addr", lis.Addr().String()).Msg("HTTP API listening")

	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("api server: %w", err)
	}

	return nil
}

// Stop shuts the HTTP server down. A server stopped before Start never
// serves.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	srv := s.srv
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	return srv.Shutdown(ctx)
}

type healthResponse struct {
	Status    string              `json:"status"`
	Ready     bool                `json:"ready"`
	Cycles    uint64              `json:"cycles"`
	LastCycle poller.CycleSummary `json:"last_cycle"`
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	resp := healthResponse{
		Status:    "ok",
		Ready:     s.poller.Ready(),
		Cycles:    s.poller.Cycles(),
		LastCycle: s.poller.LastCycle(),
	}

	status := http.StatusOK
	if !resp.Ready {
		resp.Status = "starting"
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, resp, s.logger)
}

type deviceStatus struct {
	Device     models.Device          `json:"device"`
	LinkState  models.DeviceLinkState `json:"link_state"`
	Hostname   string                 `json:"hostname,omitempty"`
	LastPolled *time.Time             `json:"last_polled,omitempty"`
}

func (s *Server) status(device models.Device) deviceStatus {
	st := deviceStatus{
		Device:    device,
		LinkState: s.states.State(device.Address),
	}

	if snap, ok := s.poller.LastSnapshot(device.Address); ok && snap != nil {
		ts := snap.Timestamp
		st.LastPolled = &ts
		st.Hostname = snap.Hostname
	}

	return st
}

func (s *Server) getDevices(w http.ResponseWriter, _ *http.Request) {
	devices := s.poller.Devices()

	out := make([]deviceStatus, 0, len(devices))
	for _, d := range devices {
		out = append(out, s.status(d))
	}

	writeJSON(w, http.StatusOK, out, s.logger)
}

func (s *Server) findDevice(address string) (models.Device, bool) {
	for _, d := range s.poller.Devices() {
		if d.Address == address {
			return d, true
		}
	}

	return models.Device{}, false
}

func (s *Server) getDevice(w http.ResponseWriter, r *http.Request) {
	device, ok := s.findDevice(mux.Vars(r)["address"])
	if !ok {
		writeError(w, "Device not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, s.status(device), s.logger)
}

// getSnapshot returns the cached snapshot. refresh=true, or a device that
// has not been polled yet, triggers a live collection when a collector is
// configured.
func (s *Server) getSnapshot(w http.ResponseWriter, r *http.Request) {
	device, ok := s.findDevice(mux.Vars(r)["address"])
	if !ok {
		writeError(w, "Device not found", http.StatusNotFound)
		return
	}

	refresh := r.URL.Query().Get("refresh") == "true"

	if !refresh {
		if snap, ok := s.poller.LastSnapshot(device.Address); ok && snap != nil {
			writeJSON(w, http.StatusOK, snap, s.logger)
			return
		}
	}

	if s.collector == nil {
		if refresh {
			writeError(w, "On-demand collection not configured", http.StatusNotImplemented)
		} else {
			writeError(w, "No snapshot collected yet", http.StatusNotFound)
		}

		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(s.config.SnapshotTimeout))
	defer cancel()

	snap := s.collector.Collect(ctx, device)
	if snap == nil {
		s.logger.Error().Str("device", device.Address).Msg("On-demand collection returned no snapshot")
		writeError(w, "Failed to collect snapshot", http.StatusBadGateway)

		return
	}

	writeJSON(w, http.StatusOK, snap, s.logger)
}

func (s *Server) getLinkStates(w http.ResponseWriter, _ *http.Request) {
	states := s.states.States()

	// Configured devices not yet observed are reported as unknown.
	for _, d := range s.poller.Devices() {
		if _, ok := states[d.Address]; !ok {
			states[d.Address] = models.DeviceLinkState{Aggregate: models.LinkUnknown}
		}
	}

	writeJSON(w, http.StatusOK, states, s.logger)
}

func (s *Server) getCycle(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.poller.LastCycle(), s.logger)
}

type errorResponse struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")

	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(errorResponse{Message: message, Status: statusCode}); err != nil {
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}, log logger.Logger) {
	w.Header().Set("Content-Type", "application/json")

	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Error encoding response")
	}
}
