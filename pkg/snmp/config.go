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

package snmp

import (
	"fmt"
	"strings"
	"time"

	"github.com/carverauto/linkwatch/pkg/models"
)

// Version is the SNMP protocol version used for every device.
type Version string

const (
	Version1  Version = "v1"
	Version2c Version = "v2c"
)

const (
	DefaultCommunity   = "public"
	DefaultPort        = 161
	DefaultTimeout     = 3 * time.Second
	DefaultMaxWalkRows = 1024
)

// Config holds the settings shared by the transport and the fetcher.
type Config struct {
	Community   string            `json:"community" sensitive:"true"`
	Version     Version           `json:"version"`
	Port        uint16            `json:"port"`
	Timeout     models.Duration   `json:"timeout"`
	Retries     int               `json:"retries"`
	MaxWalkRows int               `json:"max_walk_rows"`
	OIDs        map[string]string `json:"oids,omitempty"`
}

// Validate fills defaults and rejects unusable settings.
func (c *Config) Validate() error {
	if c.Community == "" {
		c.Community = DefaultCommunity
	}

	if c.Version == "" {
		c.Version = Version2c
	}

	c.Version = Version(strings.ToLower(string(c.Version)))
	if c.Version != Version1 && c.Version != Version2c {
		return fmt.Errorf("%w: %q (expected v1 or v2c)", ErrInvalidVersion, c.Version)
	}

	if c.Port == 0 {
		c.Port = DefaultPort
	}

	if c.Timeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative", ErrInvalidConfig)
	}

	if c.Timeout == 0 {
		c.Timeout = models.Duration(DefaultTimeout)
	}

	if c.Retries < 0 {
		return fmt.Errorf("%w: retries must not be negative", ErrInvalidConfig)
	}

	if c.MaxWalkRows < 0 {
		return fmt.Errorf("%w: max_walk_rows must not be negative", ErrInvalidConfig)
	}

	if c.MaxWalkRows == 0 {
		c.MaxWalkRows = DefaultMaxWalkRows
	}

	if _, err := c.Catalog(); err != nil {
		return err
	}

	return nil
}

// Catalog builds the metric catalogue with the configured overrides applied.
func (c *Config) Catalog() (Catalog, error) {
	return DefaultCatalog().WithOverrides(c.OIDs)
}
