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
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/carverauto/linkwatch/pkg/logger"
	"github.com/carverauto/linkwatch/pkg/models"
)

const (
	DefaultStream  = "LINKWATCH"
	DefaultSubject = "events.linkwatch"
	DefaultSource  = "linkwatch/poller"

	EventTypeLinkState      = "com.carverauto.linkwatch.link.state"
	EventTypeInterfaceState = "com.carverauto.linkwatch.interface.state"

	cloudEventsVersion = "1.0"
	contentTypeJSON    = "application/json"
)

// NATSConfig configures the JetStream publisher.
type NATSConfig struct {
	URL      string                 `json:"url"`
	Stream   string                 `json:"stream,omitempty"`
	Subject  string                 `json:"subject,omitempty"`
	Domain   string                 `json:"domain,omitempty"`
	Source   string                 `json:"source,omitempty"`
	Security *models.SecurityConfig `json:"security,omitempty"`
}

// Validate applies defaults.
func (c *NATSConfig) Validate() error {
	if c.URL == "" {
		return ErrNATSURLRequired
	}

	if c.Stream == "" {
		c.Stream = DefaultStream
	}

	c.Subject = strings.TrimSuffix(c.Subject, ".")
	if c.Subject == "" {
		c.Subject = DefaultSubject
	}

	if c.Source == "" {
		c.Source = DefaultSource
	}

	return nil
}

// streamSubjects returns the subjects the stream must capture.
func (c *NATSConfig) streamSubjects() []string {
	return []string{c.Subject + ".>"}
}

func (c *NATSConfig) linkSubject() string {
	return c.Subject + ".link"
}

func (c *NATSConfig) interfaceSubject() string {
	return c.Subject + ".interface"
}

// eventPublisher is the part of jetstream.JetStream the notifier uses.
type eventPublisher interface {
	Publish(ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// NATSNotifier publishes events as CloudEvents to a JetStream stream.
type NATSNotifier struct {
	config NATSConfig
	js     eventPublisher
	nc     *nats.Conn
	logger logger.Logger
}

// NewNATSNotifier connects to NATS, makes sure the stream exists and
// returns a notifier publishing to it.
func NewNATSNotifier(ctx context.Context, cfg NATSConfig, log logger.Logger) (*NATSNotifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	nc, err := connect(cfg, log)
	if err != nil {
		return nil, err
	}

	js, err := newJetStream(nc, cfg.Domain)
	if err != nil {
		nc.Close()
		return nil, err
	}

	if err := ensureStream(ctx, js, cfg.Stream, cfg.streamSubjects()); err != nil {
		nc.Close()
		return nil, err
	}

	log.Info().
		Str("url", cfg.URL).
		Str("stream", cfg.Stream).
		Str("subject", cfg.Subject).
		Msg("NATS notifier connected")

	return &NATSNotifier{config: cfg, js: js, nc: nc, logger: log}, nil
}

func newNATSNotifier(cfg NATSConfig, js eventPublisher, log logger.Logger) *NATSNotifier {
	return &NATSNotifier{config: cfg, js: js, logger: log}
}

func connect(cfg NATSConfig, log logger.Logger) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name("linkwatch"),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}

	if cfg.Security != nil && cfg.Security.Mode == models.SecurityModeMTLS {
		tlsConf, err := TLSConfig(cfg.Security)
		if err != nil {
			return nil, fmt.Errorf("failed to build NATS TLS config: %w", err)
		}

		opts = append(opts,
			nats.Secure(tlsConf),
			nats.RootCAs(cfg.Security.TLS.CAFile),
			nats.ClientCert(cfg.Security.TLS.CertFile, cfg.Security.TLS.KeyFile),
		)
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return nc, nil
}

func newJetStream(nc *nats.Conn, domain string) (jetstream.JetStream, error) {
	if domain != "" {
		js, err := jetstream.NewWithDomain(nc, domain)
		if err != nil {
			return nil, fmt.Errorf("failed to create JetStream context with domain %s: %w", domain, err)
		}

		return js, nil
	}

	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	return js, nil
}

func ensureStream(ctx context.Context, js jetstream.JetStream, name string, subjects []string) error {
	if _, err := js.Stream(ctx, name); err == nil {
		return nil
	}

	_, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     name,
		Subjects: subjects,
	})
	if err != nil {
		return fmt.Errorf("failed to create or get stream %s: %w", name, err)
	}

	return nil
}

func (n *NATSNotifier) Notify(ctx context.Context, event models.ChangeEvent) error {
	return n.publish(ctx, n.config.linkSubject(), EventTypeLinkState, event.Timestamp, event)
}

func (n *NATSNotifier) NotifyInterface(ctx context.Context, event models.InterfaceChangeEvent) error {
	return n.publish(ctx, n.config.interfaceSubject(), EventTypeInterfaceState, event.Timestamp, event)
}

func (n *NATSNotifier) publish(ctx context.Context, subject, eventType string, ts time.Time, data interface{}) error {
	event := newCloudEvent(n.config.Source, eventType, subject, ts, data)

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}

	ack, err := n.js.Publish(ctx, subject, payload)
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}

	n.logger.Debug().
		Str("event_id", event.ID).
		Str("subject", subject).
		Uint64("seq", ack.Sequence).
		Msg("Published event")

	return nil
}

// Close drains the underlying connection.
func (n *NATSNotifier) Close() error {
	if n.nc == nil {
		return nil
	}

	return n.nc.Drain()
}

func newCloudEvent(source, eventType, subject string, ts time.Time, data interface{}) models.CloudEvent {
	return models.CloudEvent{
		SpecVersion:     cloudEventsVersion,
		ID:              uuid.New().String(),
		Source:          source,
		Type:            eventType,
		DataContentType: contentTypeJSON,
		Subject:         subject,
		Time:            &ts,
		Data:            data,
	}
}
