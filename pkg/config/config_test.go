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

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/linkwatch/pkg/logger"
	"github.com/carverauto/linkwatch/pkg/models"
)

var errNoDevices = errors.New("no devices")

type testNATS struct {
	URL      string                 `json:"url"`
	Security *models.SecurityConfig `json:"security,omitempty"`
}

type testConfig struct {
	Devices      []models.Device        `json:"devices"`
	Community    string                 `json:"community"`
	Port         uint16                 `json:"port"`
	Retries      int                    `json:"retries"`
	PollInterval models.Duration        `json:"poll_interval"`
	Verbose      bool                   `json:"verbose"`
	Tags         []string               `json:"tags"`
	NATS         *testNATS              `json:"nats,omitempty"`
	Security     *models.SecurityConfig `json:"security,omitempty"`
}

func (c *testConfig) Validate() error {
	if len(c.Devices) == 0 {
		return errNoDevices
	}

	return nil
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "linkwatch.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoadAndValidateFromFile(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "")

	path := writeConfig(t, `{
		"devices": ["10.0.0.1", {"address": "10.0.0.2", "name": "core"}],
		"community": "public",
		"poll_interval": "10s",
		"security": {"mode": "mtls", "cert_dir": "/etc/linkwatch/certs",
			"tls": {"cert_file": "client.pem", "key_file": "client-key.pem", "ca_file": "/abs/root.pem"}}
	}`)

	var cfg testConfig

	err := NewConfig(logger.NewTestLogger()).LoadAndValidate(context.Background(), path, &cfg)
	require.NoError(t, err)

	require.Len(t, cfg.Devices, 2)
	assert.Equal(t, "10.0.0.1", cfg.Devices[0].Address)
	assert.Equal(t, "core", cfg.Devices[1].Name)
	assert.Equal(t, 10*time.Second, time.Duration(cfg.PollInterval))

	require.NotNil(t, cfg.Security)
	assert.Equal(t, "/etc/linkwatch/certs/client.pem", cfg.Security.TLS.CertFile)
	assert.Equal(t, "/etc/linkwatch/certs/client-key.pem", cfg.Security.TLS.KeyFile)
	assert.Equal(t, "/abs/root.pem", cfg.Security.TLS.CAFile)
	assert.Equal(t, "/abs/root.pem", cfg.Security.TLS.ClientCAFile)
}

func TestLoadAndValidateNormalizesNestedSecurity(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "file")

	path := writeConfig(t, `{
		"devices": ["10.0.0.1"],
		"nats": {"url": "nats://localhost:4222",
			"security": {"cert_dir": "/certs", "tls": {"cert_file": "nats.pem"}}}
	}`)

	var cfg testConfig

	require.NoError(t, NewConfig(nil).LoadAndValidate(context.Background(), path, &cfg))
	require.NotNil(t, cfg.NATS)
	assert.Equal(t, "/certs/nats.pem", cfg.NATS.Security.TLS.CertFile)
}

func TestLoadAndValidateRunsValidator(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "")

	path := writeConfig(t, `{"devices": []}`)

	var cfg testConfig

	err := NewConfig(nil).LoadAndValidate(context.Background(), path, &cfg)
	require.ErrorIs(t, err, errNoDevices)
}

func TestLoadAndValidateErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		t.Setenv("CONFIG_SOURCE", "")

		var cfg testConfig

		err := NewConfig(nil).LoadAndValidate(context.Background(), "/nonexistent/linkwatch.json", &cfg)
		require.Error(t, err)
	})

	t.Run("invalid json", func(t *testing.T) {
		t.Setenv("CONFIG_SOURCE", "")

		var cfg testConfig

		err := NewConfig(nil).LoadAndValidate(context.Background(), writeConfig(t, `{devices`), &cfg)
		require.Error(t, err)
	})

	t.Run("unknown source", func(t *testing.T) {
		t.Setenv("CONFIG_SOURCE", "kv")

		var cfg testConfig

		err := NewConfig(nil).LoadAndValidate(context.Background(), "", &cfg)
		require.ErrorIs(t, err, errInvalidConfigSource)
	})

	t.Run("non pointer", func(t *testing.T) {
		t.Setenv("CONFIG_SOURCE", "env")
		t.Setenv("LINKWATCH_CONFIG_JSON", `{"devices": ["10.0.0.1"]}`)

		err := NewConfig(nil).LoadAndValidate(context.Background(), "", testConfig{})
		require.Error(t, err)
	})
}

func TestEnvConfigLoaderFields(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "env")
	t.Setenv("LINKWATCH_DEVICES", "10.0.0.1, 10.0.0.2")
	t.Setenv("LINKWATCH_COMMUNITY", "private")
	t.Setenv("LINKWATCH_PORT", "1161")
	t.Setenv("LINKWATCH_RETRIES", "2")
	t.Setenv("LINKWATCH_POLL_INTERVAL", "30s")
	t.Setenv("LINKWATCH_VERBOSE", "true")
	t.Setenv("LINKWATCH_TAGS", "edge,core")
	t.Setenv("LINKWATCH_NATS_URL", "nats://nats:4222")

	var cfg testConfig

	require.NoError(t, NewConfig(logger.NewTestLogger()).LoadAndValidate(context.Background(), "", &cfg))

	require.Len(t, cfg.Devices, 2)
	assert.Equal(t, "10.0.0.2", cfg.Devices[1].Address)
	assert.Equal(t, "private", cfg.Community)
	assert.Equal(t, uint16(1161), cfg.Port)
	assert.Equal(t, 2, cfg.Retries)
	assert.Equal(t, 30*time.Second, time.Duration(cfg.PollInterval))
	assert.True(t, cfg.Verbose)
	assert.Equal(t, []string{"edge", "core"}, cfg.Tags)
	require.NotNil(t, cfg.NATS)
	assert.Equal(t, "nats://nats:4222", cfg.NATS.URL)
	assert.Nil(t, cfg.Security)
}

func TestEnvConfigLoaderCustomPrefixAndJSON(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "env")
	t.Setenv("CONFIG_ENV_PREFIX", "LW_")
	t.Setenv("LW_CONFIG_JSON", `{"devices": [{"address": "192.0.2.1", "interfaces": false}], "retries": 1}`)

	var cfg testConfig

	require.NoError(t, NewConfig(nil).LoadAndValidate(context.Background(), "", &cfg))
	require.Len(t, cfg.Devices, 1)
	assert.False(t, cfg.Devices[0].SupportsInterfaces())
	assert.Equal(t, 1, cfg.Retries)
}

func TestEnvConfigLoaderIgnoresBadValues(t *testing.T) {
	t.Setenv("LINKWATCH_DEVICES", "10.0.0.1")
	t.Setenv("LINKWATCH_RETRIES", "many")
	t.Setenv("LINKWATCH_POLL_INTERVAL", "soon")

	cfg := testConfig{Retries: 3}

	loader := NewEnvConfigLoader(logger.NewTestLogger(), DefaultEnvPrefix)
	require.NoError(t, loader.Load(context.Background(), "", &cfg))

	assert.Equal(t, 3, cfg.Retries)
	assert.Zero(t, cfg.PollInterval)
}

func TestEnvConfigLoaderRejectsNonStruct(t *testing.T) {
	loader := NewEnvConfigLoader(nil, "NOPE_")

	var s string

	require.ErrorIs(t, loader.Load(context.Background(), "", &s), ErrDstMustBePointerToStruct)
	require.ErrorIs(t, loader.Load(context.Background(), "", nil), ErrDstMustBeNonNilPointer)
}

type EmbeddedTiming struct {
	PollInterval models.Duration `json:"poll_interval"`
}

type embeddingConfig struct {
	EmbeddedTiming
	Community string `json:"community"`
}

func TestEnvConfigLoaderFlattensEmbeddedStructs(t *testing.T) {
	t.Setenv("LINKWATCH_POLL_INTERVAL", "45s")
	t.Setenv("LINKWATCH_COMMUNITY", "private")

	var cfg embeddingConfig

	loader := NewEnvConfigLoader(logger.NewTestLogger(), DefaultEnvPrefix)
	require.NoError(t, loader.Load(context.Background(), "", &cfg))

	assert.Equal(t, 45*time.Second, time.Duration(cfg.PollInterval))
	assert.Equal(t, "private", cfg.Community)
}
