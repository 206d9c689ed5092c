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

package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceUnmarshalJSON(t *testing.T) {
	var devices []Device

	raw := `["192.168.2.240", {"address": "192.168.2.241", "name": "core-2", "community": "s3cret", "interfaces": false}]`

	require.NoError(t, json.Unmarshal([]byte(raw), &devices))
	require.Len(t, devices, 2)

	assert.Equal(t, "192.168.2.240", devices[0].Address)
	assert.True(t, devices[0].SupportsInterfaces())
	assert.Equal(t, "192.168.2.240", devices[0].DisplayName())

	assert.Equal(t, "core-2", devices[1].DisplayName())
	assert.Equal(t, "s3cret", devices[1].Community)
	assert.False(t, devices[1].SupportsInterfaces())
}

func TestDeviceMarshalJSONOmitsCommunity(t *testing.T) {
	d := Device{Address: "10.0.0.1", Community: "private"}

	out, err := json.Marshal(d)
	require.NoError(t, err)

	assert.NotContains(t, string(out), "private")
	assert.JSONEq(t, `{"address":"10.0.0.1","interfaces":true}`, string(out))
}

func TestDeviceValidate(t *testing.T) {
	d := Device{}
	require.Error(t, d.Validate())

	d.Address = "10.0.0.1"
	require.NoError(t, d.Validate())
}

func TestDurationUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{name: "string", input: `"10s"`, want: 10 * time.Second},
		{name: "nanoseconds", input: `3000000000`, want: 3 * time.Second},
		{name: "bad string", input: `"ten seconds"`, wantErr: true},
		{name: "bool", input: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration

			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, time.Duration(d))
		})
	}
}

func TestMetricValueVariants(t *testing.T) {
	var zero MetricValue
	assert.True(t, zero.IsMissing())
	assert.True(t, Missing().IsMissing())

	n, ok := IntValue(0).Int()
	assert.True(t, ok)
	assert.Equal(t, int64(0), n)
	assert.False(t, IntValue(0).IsMissing())

	s, ok := TextValue("").Text()
	assert.True(t, ok)
	assert.Empty(t, s)

	d, ok := TicksValue(12345).Duration()
	assert.True(t, ok)
	assert.Equal(t, 123450*time.Millisecond, d)

	_, ok = Missing().Int()
	assert.False(t, ok)
}

func TestMetricValueTableIsCopied(t *testing.T) {
	table := InterfaceTable{{Index: 1, Name: "Gi0/1", State: LinkUp}}
	v := TableValue(table)

	table[0].State = LinkDown

	got, ok := v.Table()
	require.True(t, ok)
	assert.Equal(t, LinkUp, got[0].State)
}

func TestMetricValueMarshalJSON(t *testing.T) {
	out, err := json.Marshal(map[string]MetricValue{
		"a": IntValue(7),
		"b": Missing(),
		"c": TextValue("edge"),
	})
	require.NoError(t, err)

	assert.JSONEq(t, `{"a":{"kind":"int","value":7},"b":{"kind":"missing"},"c":{"kind":"text","value":"edge"}}`, string(out))
}

func TestInterfaceTable(t *testing.T) {
	var table InterfaceTable

	assert.Equal(t, LinkDown, table.Aggregate())
	assert.Equal(t, 0, table.MaxIndex())

	table = InterfaceTable{
		{Index: 3, Name: "Gi0/3", State: LinkDown},
		{Index: 1, Name: "Gi0/1", State: LinkDown},
	}
	assert.Equal(t, LinkDown, table.Aggregate())

	table[0].State = LinkUp
	assert.Equal(t, LinkUp, table.Aggregate())
	assert.Equal(t, 3, table.MaxIndex())

	sorted := table.Sorted()
	assert.Equal(t, 1, sorted[0].Index)
	assert.Equal(t, 3, sorted[1].Index)
	assert.Equal(t, 3, table[0].Index, "Sorted must not reorder the receiver")

	assert.Equal(t, map[int]LinkState{1: LinkDown, 3: LinkUp}, table.States())
}

func TestDeviceLinkStateClone(t *testing.T) {
	s := DeviceLinkState{Aggregate: LinkUp, Interfaces: map[int]LinkState{1: LinkUp}}
	c := s.Clone()

	c.Interfaces[1] = LinkDown

	assert.Equal(t, LinkUp, s.Interfaces[1])
}
