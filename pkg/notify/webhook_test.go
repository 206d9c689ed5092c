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

package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/linkwatch/pkg/logger"
	"github.com/carverauto/linkwatch/pkg/models"
)

var downEvent = models.ChangeEvent{
	Device:    "192.168.2.240",
	Previous:  models.LinkUp,
	Current:   models.LinkDown,
	Timestamp: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
}

type capturedRequest struct {
	header http.Header
	body   []byte
}

func newWebhookServer(t *testing.T, status int) (*httptest.Server, <-chan capturedRequest) {
	t.Helper()

	requests := make(chan capturedRequest, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		requests <- capturedRequest{header: r.Header.Clone(), body: body}

		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)

	return srv, requests
}

func TestWebhookDefaultDiscordBody(t *testing.T) {
	srv, requests := newWebhookServer(t, http.StatusNoContent)

	n, err := NewWebhookNotifier(WebhookConfig{URL: srv.URL}, logger.NewTestLogger())
	require.NoError(t, err)

	require.NoError(t, n.Notify(context.Background(), downEvent))

	req := <-requests
	assert.Equal(t, "application/json", req.header.Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(req.body, &body))
	assert.Equal(t, "⚠️ Router 192.168.2.240 is now DOWN (was UP)", body["content"])
}

func TestWebhookTemplateAndHeaders(t *testing.T) {
	srv, requests := newWebhookServer(t, http.StatusOK)

	n, err := NewWebhookNotifier(WebhookConfig{
		URL:      srv.URL,
		Template: `{"text":{{json .Message}},"host":"{{.Device}}","state":"{{.Current}}"}`,
		Headers:  map[string]string{"Authorization": "Bearer abc"},
	}, logger.NewTestLogger())
	require.NoError(t, err)

	require.NoError(t, n.Notify(context.Background(), downEvent))

	req := <-requests
	assert.Equal(t, "Bearer abc", req.header.Get("Authorization"))
	assert.JSONEq(t,
		`{"text":"⚠️ Router 192.168.2.240 is now DOWN (was UP)","host":"192.168.2.240","state":"DOWN"}`,
		string(req.body))
}

func TestWebhookInterfaceEvent(t *testing.T) {
	srv, requests := newWebhookServer(t, http.StatusNoContent)

	n, err := NewWebhookNotifier(WebhookConfig{URL: srv.URL}, logger.NewTestLogger())
	require.NoError(t, err)

	require.NoError(t, n.NotifyInterface(context.Background(), models.InterfaceChangeEvent{
		Device: "10.0.0.1", Index: 2, Name: "Gi0/1",
		Previous: models.LinkDown, Current: models.LinkUp,
	}))

	var body map[string]string
	require.NoError(t, json.Unmarshal((<-requests).body, &body))
	assert.Equal(t, "⚠️ Router 10.0.0.1 interface Gi0/1 is now UP (was DOWN)", body["content"])
}

func TestWebhookNon2xxIsError(t *testing.T) {
	srv, _ := newWebhookServer(t, http.StatusTooManyRequests)

	n, err := NewWebhookNotifier(WebhookConfig{URL: srv.URL, Name: "discord"}, logger.NewTestLogger())
	require.NoError(t, err)

	err = n.Notify(context.Background(), downEvent)
	require.ErrorIs(t, err, ErrWebhookStatus)
	assert.Contains(t, err.Error(), "discord")
	assert.Contains(t, err.Error(), "429")
}

func TestWebhookHonoursContext(t *testing.T) {
	block := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(block)
		srv.Close()
	})

	n, err := NewWebhookNotifier(WebhookConfig{URL: srv.URL}, logger.NewTestLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	assert.Error(t, n.Notify(ctx, downEvent))
}

func TestWebhookConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  WebhookConfig
		wantErr error
	}{
		{name: "missing url", config: WebhookConfig{}, wantErr: ErrWebhookURLRequired},
		{name: "bad template", config: WebhookConfig{URL: "http://x", Template: "{{.Device"}, wantErr: ErrInvalidTemplate},
		{name: "defaults", config: WebhookConfig{URL: "https://discord.example/api/webhooks/1/token"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.config

			err := cfg.Validate()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, models.Duration(defaultWebhookTimeout), cfg.Timeout)
			assert.Equal(t, "discord.example", cfg.Name)
		})
	}
}
