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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"text/template"
	"time"

	"github.com/carverauto/linkwatch/pkg/logger"
	"github.com/carverauto/linkwatch/pkg/models"
)

const (
	defaultWebhookTimeout = 10 * time.Second
	maxErrorBody          = 512
)

// WebhookConfig describes one HTTP endpoint. An empty Template sends the
// Discord style body {"content": "<message>"}.
type WebhookConfig struct {
	Name     string            `json:"name,omitempty"`
	URL      string            `json:"url" sensitive:"true"`
	Template string            `json:"template,omitempty"`
	Headers  map[string]string `json:"headers,omitempty" sensitive:"true"`
	Timeout  models.Duration   `json:"timeout,omitempty"`
}

// Validate applies defaults and checks the template parses.
func (c *WebhookConfig) Validate() error {
	if c.URL == "" {
		return ErrWebhookURLRequired
	}

	if c.Timeout <= 0 {
		c.Timeout = models.Duration(defaultWebhookTimeout)
	}

	if c.Name == "" {
		// The URL path often carries a token; name the hook by host only.
		c.Name = c.URL
		if u, err := url.Parse(c.URL); err == nil && u.Host != "" {
			c.Name = u.Host
		}
	}

	if c.Template != "" {
		if _, err := parseTemplate(c.Template); err != nil {
			return err
		}
	}

	return nil
}

// WebhookData is the value a custom template is executed against.
type WebhookData struct {
	Device    string
	Previous  string
	Current   string
	Interface *models.InterfaceChangeEvent
	Message   string
	Timestamp time.Time
}

// WebhookNotifier POSTs events to an HTTP endpoint.
type WebhookNotifier struct {
	config WebhookConfig
	tmpl   *template.Template
	client *http.Client
	logger logger.Logger
}

// WebhookOption configures a WebhookNotifier.
type WebhookOption func(*WebhookNotifier)

// WithHTTPClient replaces the default client.
func WithHTTPClient(client *http.Client) WebhookOption {
	return func(n *WebhookNotifier) {
		n.client = client
	}
}

// NewWebhookNotifier validates cfg and returns a notifier for it.
func NewWebhookNotifier(cfg WebhookConfig, log logger.Logger, opts ...WebhookOption) (*WebhookNotifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	n := &WebhookNotifier{
		config: cfg,
		client: &http.Client{Timeout: time.Duration(cfg.Timeout)},
		logger: log,
	}

	if cfg.Template != "" {
		tmpl, err := parseTemplate(cfg.Template)
		if err != nil {
			return nil, err
		}

		n.tmpl = tmpl
	}

	for _, opt := range opts {
		opt(n)
	}

	return n, nil
}

func (n *WebhookNotifier) Notify(ctx context.Context, event models.ChangeEvent) error {
	return n.send(ctx, WebhookData{
		Device:    event.Device,
		Previous:  upper(event.Previous),
		Current:   upper(event.Current),
		Message:   Message(event),
		Timestamp: event.Timestamp,
	})
}

func (n *WebhookNotifier) NotifyInterface(ctx context.Context, event models.InterfaceChangeEvent) error {
	return n.send(ctx, WebhookData{
		Device:    event.Device,
		Previous:  upper(event.Previous),
		Current:   upper(event.Current),
		Interface: &event,
		Message:   InterfaceMessage(event),
		Timestamp: event.Timestamp,
	})
}

func (n *WebhookNotifier) send(ctx context.Context, data WebhookData) error {
	body, err := n.render(data)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.config.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	for k, v := range n.config.Headers {
		req.Header.Set(k, v)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook %s: %w", n.config.Name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

		return fmt.Errorf("%w: %s answered %d: %s", ErrWebhookStatus, n.config.Name, resp.StatusCode, msg)
	}

	n.logger.Debug().
		Str("webhook", n.config.Name).
		Str("device", data.Device).
		Int("status", resp.StatusCode).
		Msg("Webhook delivered")

	return nil
}

func (n *WebhookNotifier) render(data WebhookData) ([]byte, error) {
	if n.tmpl == nil {
		body, err := json.Marshal(map[string]string{"content": data.Message})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal webhook body: %w", err)
		}

		return body, nil
	}

	var buf bytes.Buffer
	if err := n.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render webhook template: %w", err)
	}

	return buf.Bytes(), nil
}

func parseTemplate(text string) (*template.Template, error) {
	tmpl, err := template.New("webhook").Funcs(template.FuncMap{
		"json": func(v interface{}) (string, error) {
			b, err := json.Marshal(v)
			return string(b), err
		},
	}).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTemplate, err)
	}

	return tmpl, nil
}
