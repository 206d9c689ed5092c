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
	"errors"
	"time"

	"github.com/carverauto/linkwatch/pkg/models"
)

var errListenAddrRequired = errors.New("api listen address is required")

const (
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultSnapshotTimeout = 15 * time.Second
)

// CORSConfig lists the origins allowed to call the API from a browser.
type CORSConfig struct {
	AllowedOrigins   []string `json:"allowed_origins,omitempty"`
	AllowCredentials bool     `json:"allow_credentials,omitempty"`
}

// Allowed reports whether origin may call the API. "*" allows any origin.
func (c CORSConfig) Allowed(origin string) bool {
	for _, o := range c.AllowedOrigins {
		if o == "*" || o == origin {
			return true
		}
	}

	return false
}

// Config configures the HTTP API.
type Config struct {
	ListenAddr string     `json:"listen_addr"`
	APIKey     string     `json:"api_key,omitempty" sensitive:"true"`
	CORS       CORSConfig `json:"cors"`
	// SnapshotTimeout bounds on-demand collection through the API.
	SnapshotTimeout models.Duration `json:"snapshot_timeout,omitempty"`
}

// Validate applies defaults.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return errListenAddrRequired
	}

	if c.SnapshotTimeout <= 0 {
		c.SnapshotTimeout = models.Duration(defaultSnapshotTimeout)
	}

	return nil
}
