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

import "time"

// CPULoad holds the device's busy percentages over three windows.
type CPULoad struct {
	FiveSec int64 `json:"5s"`
	OneMin  int64 `json:"1m"`
	FiveMin int64 `json:"5m"`
}

// MemoryUsage holds defaulted memory counters. Percent is nil when the raw
// total was missing or not positive.
type MemoryUsage struct {
	Total   int64    `json:"total"`
	Used    int64    `json:"used"`
	Percent *float64 `json:"percent,omitempty"`
}

// DeviceSnapshot is one poll cycle's telemetry for one device. It is built
// once by the collector and never modified afterwards.
type DeviceSnapshot struct {
	Device    Device    `json:"device"`
	Timestamp time.Time `json:"timestamp"`

	// Values holds the raw fetch results, Missing included. A metric that was
	// not polled at all has no key.
	Values map[MetricName]MetricValue `json:"values"`

	Hostname       string         `json:"hostname"`
	Domain         string         `json:"domain"`
	UptimeTicks    int64          `json:"uptime_ticks"`
	CPU            CPULoad        `json:"cpu"`
	Memory         MemoryUsage    `json:"memory"`
	InterfaceCount int64          `json:"interface_count"`
	Interfaces     InterfaceTable `json:"interfaces"`
}

// Value returns the raw value for a metric and whether it was polled.
func (s *DeviceSnapshot) Value(name MetricName) (MetricValue, bool) {
	v, ok := s.Values[name]
	return v, ok
}

// Uptime converts UptimeTicks to a duration.
func (s *DeviceSnapshot) Uptime() time.Duration {
	return time.Duration(s.UptimeTicks) * TickDuration
}

// MemoryPercent returns the derived memory usage and whether it is defined.
func (s *DeviceSnapshot) MemoryPercent() (float64, bool) {
	if s.Memory.Percent == nil {
		return 0, false
	}

	return *s.Memory.Percent, true
}

// DeviceLinkState is the detector's last known state for one device.
type DeviceLinkState struct {
	Aggregate  LinkState         `json:"aggregate"`
	Interfaces map[int]LinkState `json:"interfaces,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// Clone returns a copy that shares no maps with the receiver.
func (s DeviceLinkState) Clone() DeviceLinkState {
	out := s

	if s.Interfaces != nil {
		out.Interfaces = make(map[int]LinkState, len(s.Interfaces))

		for k, v := range s.Interfaces {
			out.Interfaces[k] = v
		}
	}

	return out
}
