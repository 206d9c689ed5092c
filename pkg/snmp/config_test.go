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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/linkwatch/pkg/models"
)

func TestConfigValidateDefaults(t *testing.T) {
	cfg := Config{}

	require.NoError(t, cfg.Validate())

	assert.Equal(t, DefaultCommunity, cfg.Community)
	assert.Equal(t, Version2c, cfg.Version)
	assert.Equal(t, uint16(DefaultPort), cfg.Port)
	assert.Equal(t, DefaultTimeout, time.Duration(cfg.Timeout))
	assert.Equal(t, 0, cfg.Retries)
	assert.Equal(t, DefaultMaxWalkRows, cfg.MaxWalkRows)
}

func TestConfigValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{name: "v3 unsupported", cfg: Config{Version: "v3"}, want: ErrInvalidVersion},
		{name: "negative retries", cfg: Config{Retries: -1}, want: ErrInvalidConfig},
		{name: "negative timeout", cfg: Config{Timeout: models.Duration(-time.Second)}, want: ErrInvalidConfig},
		{name: "negative walk rows", cfg: Config{MaxWalkRows: -5}, want: ErrInvalidConfig},
		{name: "bad oid", cfg: Config{OIDs: map[string]string{"hostname": "sysName.0"}}, want: ErrInvalidOID},
		{name: "unknown metric", cfg: Config{OIDs: map[string]string{"temperature": "1.3.6.1.4.1.9.9.13"}}, want: ErrUnknownMetric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			require.ErrorIs(t, cfg.Validate(), tt.want)
		})
	}
}

func TestConfigVersionCaseInsensitive(t *testing.T) {
	cfg := Config{Version: "V1"}

	require.NoError(t, cfg.Validate())
	assert.Equal(t, Version1, cfg.Version)
}

func TestCatalogOverrides(t *testing.T) {
	catalog, err := DefaultCatalog().WithOverrides(map[string]string{
		"hostname":         "1.3.6.1.2.1.1.5.0",
		"interface_status": ".1.3.6.1.2.1.2.2.1.7",
		"interface_names":  "1.3.6.1.2.1.31.1.1.1.1",
	})
	require.NoError(t, err)

	assert.Equal(t, ".1.3.6.1.2.1.1.5.0", catalog[models.MetricHostname].OID)
	assert.Equal(t, ShapeString, catalog[models.MetricHostname].Shape)
	assert.Equal(t, ".1.3.6.1.2.1.2.2.1.7", catalog[models.MetricInterfaceTable].StatusOID)
	assert.Equal(t, ".1.3.6.1.2.1.31.1.1.1.1", catalog[models.MetricInterfaceTable].OID)

	// The default catalogue is untouched.
	assert.Equal(t, oidHostname, DefaultCatalog()[models.MetricHostname].OID)
}

func TestDefaultCatalogCoversAllMetrics(t *testing.T) {
	catalog := DefaultCatalog()

	for _, name := range models.AllMetrics() {
		loc, ok := catalog[name]
		require.True(t, ok, "missing locator for %s", name)

		_, err := NormalizeOID(loc.OID)
		require.NoError(t, err)
	}

	assert.Equal(t, ShapeTable, catalog[models.MetricInterfaceTable].Shape)
	assert.Equal(t, ShapeDuration, catalog[models.MetricUptime].Shape)
}

func TestNormalizeOID(t *testing.T) {
	oid, err := NormalizeOID(" 1.3.6.1.2.1.1.3.0 ")
	require.NoError(t, err)
	assert.Equal(t, ".1.3.6.1.2.1.1.3.0", oid)

	for _, bad := range []string{"", ".", "1", "1.3.x", "1..3", "iso.3.6"} {
		_, err := NormalizeOID(bad)
		require.ErrorIs(t, err, ErrInvalidOID, bad)
	}
}
