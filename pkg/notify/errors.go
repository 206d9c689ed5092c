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

import "errors"

var (
	// ErrWebhookURLRequired is returned when a webhook has no URL.
	ErrWebhookURLRequired = errors.New("webhook url is required")
	// ErrWebhookStatus is returned when a webhook answers with a non-2xx status.
	ErrWebhookStatus = errors.New("webhook returned unexpected status")
	// ErrInvalidTemplate is returned when a webhook body template does not parse.
	ErrInvalidTemplate = errors.New("invalid webhook template")
	// ErrNATSURLRequired is returned when NATS is configured without a URL.
	ErrNATSURLRequired = errors.New("nats url is required")
	// ErrMTLSRequired is returned when a TLS config is requested without mtls mode.
	ErrMTLSRequired = errors.New("mTLS configuration required")
	// ErrCAParsingFailed is returned when the CA certificate cannot be parsed.
	ErrCAParsingFailed = errors.New("failed to parse CA certificate")
	// ErrHubClosed is returned by Hub operations after Close.
	ErrHubClosed = errors.New("event hub closed")
	// ErrNotifierPanic wraps a panic raised by a notifier inside Multi.
	ErrNotifierPanic = errors.New("notifier panicked")
)
