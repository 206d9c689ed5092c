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

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/linkwatch/pkg/logger"
	"github.com/carverauto/linkwatch/pkg/models"
	"github.com/carverauto/linkwatch/pkg/poller"
)

var (
	routerA = models.Device{Address: "10.0.0.1", Name: "core-a", Community: "secret"}
	routerB = models.Device{Address: "10.0.0.2"}
	pollAt  = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
)

type fixture struct {
	poller    *MockDevicePoller
	states    *MockLinkStateReader
	collector *MockSnapshotCollector
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	return &fixture{
		poller:    NewMockDevicePoller(ctrl),
		states:    NewMockLinkStateReader(ctrl),
		collector: NewMockSnapshotCollector(ctrl),
	}
}

func (f *fixture) server(t *testing.T, config Config, opts ...Option) http.Handler {
	t.Helper()

	if config.ListenAddr == "" {
		config.ListenAddr = "127.0.0.1:0"
	}

	require.NoError(t, config.Validate())

	return NewServer(config, f.poller, f.states, logger.NewTestLogger(), opts...).Handler()
}

func do(t *testing.T, h http.Handler, path string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	for k, v := range header {
		req.Header[k] = v
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	return rr
}

func TestGetDevices(t *testing.T) {
	f := newFixture(t)

	f.poller.EXPECT().Devices().Return([]models.Device{routerA, routerB})
	f.poller.EXPECT().LastSnapshot(routerA.Address).Return(&models.DeviceSnapshot{
		Device: routerA, Timestamp: pollAt, Hostname: "core-a.lab",
	}, true)
	f.poller.EXPECT().LastSnapshot(routerB.Address).Return(nil, false)
	f.states.EXPECT().State(routerA.Address).Return(models.DeviceLinkState{Aggregate: models.LinkUp, UpdatedAt: pollAt})
	f.states.EXPECT().State(routerB.Address).Return(models.DeviceLinkState{Aggregate: models.LinkUnknown})

	rr := do(t, f.server(t, Config{}), "/api/devices", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.NotContains(t, rr.Body.String(), "secret")

	var got []deviceStatus
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got, 2)

	assert.Equal(t, routerA.Address, got[0].Device.Address)
	assert.Equal(t, models.LinkUp, got[0].LinkState.Aggregate)
	assert.Equal(t, "core-a.lab", got[0].Hostname)
	require.NotNil(t, got[0].LastPolled)
	assert.True(t, pollAt.Equal(*got[0].LastPolled))

	assert.Equal(t, models.LinkUnknown, got[1].LinkState.Aggregate)
	assert.Nil(t, got[1].LastPolled)
}

func TestGetDeviceNotFound(t *testing.T) {
	f := newFixture(t)

	f.poller.EXPECT().Devices().Return([]models.Device{routerA})

	rr := do(t, f.server(t, Config{}), "/api/devices/192.0.2.9", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Device not found", resp.Message)
	assert.Equal(t, http.StatusNotFound, resp.Status)
}

func TestGetSnapshot(t *testing.T) {
	cached := &models.DeviceSnapshot{Device: routerA, Timestamp: pollAt, Hostname: "cached"}
	live := &models.DeviceSnapshot{Device: routerA, Timestamp: pollAt.Add(time.Minute), Hostname: "live"}

	tests := []struct {
		name       string
		path       string
		collector  bool
		setup      func(f *fixture)
		wantStatus int
		wantHost   string
	}{
		{
			name:      "cached snapshot",
			path:      "/api/devices/10.0.0.1/snapshot",
			collector: true,
			setup: func(f *fixture) {
				f.poller.EXPECT().LastSnapshot(routerA.Address).Return(cached, true)
			},
			wantStatus: http.StatusOK,
			wantHost:   "cached",
		},
		{
			name:      "refresh collects live",
			path:      "/api/devices/10.0.0.1/snapshot?refresh=true",
			collector: true,
			setup: func(f *fixture) {
				f.collector.EXPECT().Collect(gomock.Any(), routerA).
					DoAndReturn(func(ctx context.Context, _ models.Device) *models.DeviceSnapshot {
						_, ok := ctx.Deadline()
						assert.True(t, ok)

						return live
					})
			},
			wantStatus: http.StatusOK,
			wantHost:   "live",
		},
		{
			name:      "not polled yet collects live",
			path:      "/api/devices/10.0.0.1/snapshot",
			collector: true,
			setup: func(f *fixture) {
				f.poller.EXPECT().LastSnapshot(routerA.Address).Return(nil, false)
				f.collector.EXPECT().Collect(gomock.Any(), routerA).Return(live)
			},
			wantStatus: http.StatusOK,
			wantHost:   "live",
		},
		{
			name: "not polled and no collector",
			path: "/api/devices/10.0.0.1/snapshot",
			setup: func(f *fixture) {
				f.poller.EXPECT().LastSnapshot(routerA.Address).Return(nil, false)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "refresh without collector",
			path:       "/api/devices/10.0.0.1/snapshot?refresh=true",
			setup:      func(*fixture) {},
			wantStatus: http.StatusNotImplemented,
		},
		{
			name:      "collection failed",
			path:      "/api/devices/10.0.0.1/snapshot?refresh=true",
			collector: true,
			setup: func(f *fixture) {
				f.collector.EXPECT().Collect(gomock.Any(), routerA).Return(nil)
			},
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.poller.EXPECT().Devices().Return([]models.Device{routerA})
			tt.setup(f)

			var opts []Option
			if tt.collector {
				opts = append(opts, WithCollector(f.collector))
			}

			rr := do(t, f.server(t, Config{}, opts...), tt.path, nil)
			require.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())

			if tt.wantHost == "" {
				return
			}

			var snap models.DeviceSnapshot
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snap))
			assert.Equal(t, tt.wantHost, snap.Hostname)
		})
	}
}

func TestGetLinkStatesFillsUnknown(t *testing.T) {
	f := newFixture(t)

	f.states.EXPECT().States().Return(map[string]models.DeviceLinkState{
		routerA.Address: {Aggregate: models.LinkDown},
	})
	f.poller.EXPECT().Devices().Return([]models.Device{routerA, routerB})

	rr := do(t, f.server(t, Config{}), "/api/linkstate", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var got map[string]models.DeviceLinkState
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))

	assert.Equal(t, models.LinkDown, got[routerA.Address].Aggregate)
	assert.Equal(t, models.LinkUnknown, got[routerB.Address].Aggregate)
}

func TestHealthz(t *testing.T) {
	tests := []struct {
		name       string
		ready      bool
		wantStatus int
		wantBody   string
	}{
		{name: "ready", ready: true, wantStatus: http.StatusOK, wantBody: "ok"},
		{name: "starting", ready: false, wantStatus: http.StatusServiceUnavailable, wantBody: "starting"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.poller.EXPECT().Ready().Return(tt.ready)
			f.poller.EXPECT().Cycles().Return(uint64(3))
			f.poller.EXPECT().LastCycle().Return(poller.CycleSummary{Devices: 2, Polled: 2})

			// healthz is reachable without the API key.
			rr := do(t, f.server(t, Config{APIKey: "k"}), "/healthz", nil)
			require.Equal(t, tt.wantStatus, rr.Code)

			var resp healthResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantBody, resp.Status)
			assert.Equal(t, uint64(3), resp.Cycles)
			assert.Equal(t, 2, resp.LastCycle.Polled)
		})
	}
}

func TestAPIKeyRequired(t *testing.T) {
	f := newFixture(t)
	h := f.server(t, Config{APIKey: "s3cret"})

	rr := do(t, h, "/api/cycle", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = do(t, h, "/api/cycle", http.Header{"X-Api-Key": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	f.poller.EXPECT().LastCycle().Return(poller.CycleSummary{Devices: 1}).Times(2)

	rr = do(t, h, "/api/cycle", http.Header{"X-Api-Key": {"s3cret"}})
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, h, "/api/cycle?api_key=s3cret", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestEventStreamMounted(t *testing.T) {
	f := newFixture(t)

	stream := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rr := do(t, f.server(t, Config{}, WithEventStream(stream)), "/api/events/stream", nil)
	assert.Equal(t, http.StatusTeapot, rr.Code)

	rr = do(t, f.server(t, Config{}), "/api/events/stream", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestStartStop(t *testing.T) {
	f := newFixture(t)

	s := NewServer(Config{ListenAddr: "127.0.0.1:0"}, f.poller, f.states, logger.NewTestLogger())

	done := make(chan error, 1)

	go func() { done <- s.Start(context.Background()) }()

	require.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()

		return s.srv != nil
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, s.Stop(context.Background()))
	require.NoError(t, <-done)
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{}
	require.ErrorIs(t, cfg.Validate(), errListenAddrRequired)

	cfg = Config{ListenAddr: ":8090"}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, defaultSnapshotTimeout, time.Duration(cfg.SnapshotTimeout))
}
