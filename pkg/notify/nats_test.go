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
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/linkwatch/pkg/logger"
	"github.com/carverauto/linkwatch/pkg/models"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(
	ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
	args := m.Called(ctx, subject, payload)

	ack, _ := args.Get(0).(*jetstream.PubAck)

	return ack, args.Error(1)
}

func validNATSConfig(t *testing.T) NATSConfig {
	t.Helper()

	cfg := NATSConfig{URL: "nats://localhost:4222"}
	require.NoError(t, cfg.Validate())

	return cfg
}

func TestNATSConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		config      NATSConfig
		wantErr     error
		wantSubject string
		wantStream  string
	}{
		{name: "missing url", config: NATSConfig{}, wantErr: ErrNATSURLRequired},
		{name: "defaults", config: NATSConfig{URL: "nats://x"}, wantSubject: DefaultSubject, wantStream: DefaultStream},
		{
			name:        "trailing dot trimmed",
			config:      NATSConfig{URL: "nats://x", Subject: "lab.links.", Stream: "LAB"},
			wantSubject: "lab.links",
			wantStream:  "LAB",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := tt.config

			err := cfg.Validate()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantSubject, cfg.Subject)
			assert.Equal(t, tt.wantStream, cfg.Stream)
			assert.Equal(t, []string{tt.wantSubject + ".>"}, cfg.streamSubjects())
		})
	}
}

func TestNATSNotifyPublishesCloudEvent(t *testing.T) {
	cfg := validNATSConfig(t)
	pub := &mockPublisher{}

	var payload []byte

	pub.On("Publish", mock.Anything, "events.linkwatch.link", mock.Anything).
		Run(func(args mock.Arguments) { payload = args.Get(2).([]byte) }).
		Return(&jetstream.PubAck{Stream: DefaultStream, Sequence: 7}, nil).
		Once()

	n := newNATSNotifier(cfg, pub, logger.NewTestLogger())
	require.NoError(t, n.Notify(context.Background(), downEvent))

	pub.AssertExpectations(t)

	var event struct {
		models.CloudEvent
		Data models.ChangeEvent `json:"data"`
	}
	require.NoError(t, json.Unmarshal(payload, &event))

	assert.Equal(t, "1.0", event.SpecVersion)
	assert.Equal(t, EventTypeLinkState, event.Type)
	assert.Equal(t, DefaultSource, event.Source)
	assert.Equal(t, "application/json", event.DataContentType)
	assert.Equal(t, "events.linkwatch.link", event.Subject)

	_, err := uuid.Parse(event.ID)
	require.NoError(t, err)

	require.NotNil(t, event.Time)
	assert.True(t, downEvent.Timestamp.Equal(*event.Time))
	assert.Equal(t, downEvent.Device, event.Data.Device)
	assert.Equal(t, models.LinkDown, event.Data.Current)
}

func TestNATSNotifyInterfaceSubject(t *testing.T) {
	cfg := validNATSConfig(t)
	pub := &mockPublisher{}

	pub.On("Publish", mock.Anything, "events.linkwatch.interface", mock.Anything).
		Return(&jetstream.PubAck{Sequence: 1}, nil).
		Once()

	n := newNATSNotifier(cfg, pub, logger.NewTestLogger())
	require.NoError(t, n.NotifyInterface(context.Background(), models.InterfaceChangeEvent{Device: "a", Index: 1}))

	pub.AssertExpectations(t)
}

func TestNATSNotifyPublishError(t *testing.T) {
	cfg := validNATSConfig(t)
	pub := &mockPublisher{}
	errBroker := errors.New("no responders")

	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil, errBroker)

	n := newNATSNotifier(cfg, pub, logger.NewTestLogger())

	require.ErrorIs(t, n.Notify(context.Background(), downEvent), errBroker)
	require.NoError(t, n.Close())
}

func TestTLSConfigRequiresMTLS(t *testing.T) {
	t.Parallel()

	_, err := TLSConfig(nil)
	require.ErrorIs(t, err, ErrMTLSRequired)

	_, err = TLSConfig(&models.SecurityConfig{Mode: models.SecurityModeNone})
	require.ErrorIs(t, err, ErrMTLSRequired)

	_, err = TLSConfig(&models.SecurityConfig{
		Mode: models.SecurityModeMTLS,
		TLS:  models.TLSConfig{CertFile: "/nonexistent/cert.pem", KeyFile: "/nonexistent/key.pem"},
	})
	require.Error(t, err)
}
