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

// Package linkstate tracks the last known link state of every device and
// reports transitions exactly once.
package linkstate

import (
	"sort"
	"sync"
	"time"

	"github.com/carverauto/linkwatch/pkg/logger"
	"github.com/carverauto/linkwatch/pkg/models"
)

// Detector owns the per-device state. A device moves Unknown -> Up|Down on
// its first usable observation without an event, then emits one ChangeEvent
// per Up <-> Down flip.
type Detector struct {
	mu           sync.Mutex
	states       map[string]*models.DeviceLinkState
	perInterface bool
	now          func() time.Time
	logger       logger.Logger
}

// Option configures a Detector.
type Option func(*Detector)

// WithPerInterfaceEvents enables InterfaceChangeEvents.
func WithPerInterfaceEvents(enabled bool) Option {
	return func(d *Detector) {
		d.perInterface = enabled
	}
}

// WithNow overrides the event timestamp source.
func WithNow(now func() time.Time) Option {
	return func(d *Detector) {
		d.now = now
	}
}

// NewDetector returns an empty detector.
func NewDetector(log logger.Logger, opts ...Option) *Detector {
	d := &Detector{
		states: make(map[string]*models.DeviceLinkState),
		now:    time.Now,
		logger: log,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Aggregate derives a device-level state from a snapshot. ok is false when
// the snapshot carries no interface table value at all.
func Aggregate(snapshot *models.DeviceSnapshot) (models.LinkState, bool) {
	v, polled := snapshot.Value(models.MetricInterfaceTable)
	if !polled {
		return models.LinkUnknown, false
	}

	table, ok := v.Table()
	if !ok {
		// A failed table fetch counts as all links down.
		return models.LinkDown, true
	}

	return table.Aggregate(), true
}

// Observe applies a snapshot and returns the device event, if any, plus any
// per-interface events. Calling it twice with the same snapshot yields no
// events the second time.
func (d *Detector) Observe(snapshot *models.DeviceSnapshot) (*models.ChangeEvent, []models.InterfaceChangeEvent) {
	current, ok := Aggregate(snapshot)
	if !ok {
		return nil, nil
	}

	addr := snapshot.Device.Address
	now := d.now()

	d.mu.Lock()
	defer d.mu.Unlock()

	state, seen := d.states[addr]
	if !seen {
		state = &models.DeviceLinkState{Aggregate: models.LinkUnknown}
		d.states[addr] = state
	}

	var event *models.ChangeEvent

	previous := state.Aggregate

	switch {
	case previous == current:
	case previous == models.LinkUnknown:
		d.logger.Info().
			Str("device", addr).
			Str("state", string(current)).
			Msg("Initial link state recorded")
	default:
		event = &models.ChangeEvent{
			Device:    addr,
			Previous:  previous,
			Current:   current,
			Timestamp: now,
		}
	}

	state.Aggregate = current
	state.UpdatedAt = now

	var ifEvents []models.InterfaceChangeEvent
	if d.perInterface {
		ifEvents = d.observeInterfaces(state, snapshot, now)
	}

	return event, ifEvents
}

// observeInterfaces diffs the snapshot's table against the recorded
// per-interface map. Must be called with d.mu held.
func (d *Detector) observeInterfaces(
	state *models.DeviceLinkState, snapshot *models.DeviceSnapshot, now time.Time) []models.InterfaceChangeEvent {
	v, _ := snapshot.Value(models.MetricInterfaceTable)

	// A Missing table leaves the per-interface map untouched.
	table, ok := v.Table()
	if !ok {
		return nil
	}

	next := make(map[int]models.LinkState, len(table))

	var events []models.InterfaceChangeEvent

	for _, e := range table {
		next[e.Index] = e.State

		prev, known := state.Interfaces[e.Index]
		if !known || prev == e.State {
			continue
		}

		events = append(events, models.InterfaceChangeEvent{
			Device:    snapshot.Device.Address,
			Index:     e.Index,
			Name:      e.Name,
			Previous:  prev,
			Current:   e.State,
			Timestamp: now,
		})
	}

	state.Interfaces = next

	sort.Slice(events, func(i, j int) bool {
		return events[i].Index < events[j].Index
	})

	return events
}

// State returns a copy of the recorded state for a device, or Unknown.
func (d *Detector) State(address string) models.DeviceLinkState {
	d.mu.Lock()
	defer d.mu.Unlock()

	state, ok := d.states[address]
	if !ok {
		return models.DeviceLinkState{Aggregate: models.LinkUnknown}
	}

	return state.Clone()
}

// States returns copies of every recorded device state keyed by address.
func (d *Detector) States() map[string]models.DeviceLinkState {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make(map[string]models.DeviceLinkState, len(d.states))
	for addr, state := range d.states {
		out[addr] = state.Clone()
	}

	return out
}
