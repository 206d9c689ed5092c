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

package linkstate

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/linkwatch/pkg/logger"
	"github.com/carverauto/linkwatch/pkg/models"
)

const deviceA = "10.0.0.1"

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func snapshotWith(addr string, table models.InterfaceTable) *models.DeviceSnapshot {
	return &models.DeviceSnapshot{
		Device: models.Device{Address: addr},
		Values: map[models.MetricName]models.MetricValue{
			models.MetricInterfaceTable: models.TableValue(table),
		},
	}
}

func up(addr string) *models.DeviceSnapshot {
	return snapshotWith(addr, models.InterfaceTable{
		{Index: 1, Name: "Gi0/0", State: models.LinkUp},
		{Index: 2, Name: "Gi0/1", State: models.LinkDown},
	})
}

func down(addr string) *models.DeviceSnapshot {
	return snapshotWith(addr, models.InterfaceTable{
		{Index: 1, Name: "Gi0/0", State: models.LinkDown},
		{Index: 2, Name: "Gi0/1", State: models.LinkDown},
	})
}

func missingTable(addr string) *models.DeviceSnapshot {
	return &models.DeviceSnapshot{
		Device: models.Device{Address: addr},
		Values: map[models.MetricName]models.MetricValue{
			models.MetricInterfaceTable: models.Missing(),
		},
	}
}

func TestFirstObservationIsSilent(t *testing.T) {
	d := NewDetector(logger.NewTestLogger())

	event, _ := d.Observe(down(deviceA))

	assert.Nil(t, event)
	assert.Equal(t, models.LinkDown, d.State(deviceA).Aggregate)
}

func TestObserveIsIdempotent(t *testing.T) {
	d := NewDetector(logger.NewTestLogger())

	d.Observe(up(deviceA))

	event, _ := d.Observe(up(deviceA))
	assert.Nil(t, event)

	event, _ = d.Observe(up(deviceA))
	assert.Nil(t, event)
}

func TestEdgeTrigger(t *testing.T) {
	clock := newClock()
	d := NewDetector(logger.NewTestLogger(), WithNow(clock.now))

	d.Observe(up(deviceA))
	clock.advance(10 * time.Second)

	event, _ := d.Observe(down(deviceA))
	require.NotNil(t, event)
	assert.Equal(t, models.ChangeEvent{
		Device:    deviceA,
		Previous:  models.LinkUp,
		Current:   models.LinkDown,
		Timestamp: clock.t,
	}, *event)

	for i := 0; i < 3; i++ {
		event, _ = d.Observe(down(deviceA))
		assert.Nil(t, event)
	}
}

// t0 unknown->up silent, t1 up->down, t2 down (no event), t3 down->up, t4 up.
func TestScenarioSequence(t *testing.T) {
	clock := newClock()
	d := NewDetector(logger.NewTestLogger(), WithNow(clock.now))

	steps := []struct {
		snapshot *models.DeviceSnapshot
		want     *models.ChangeEvent
	}{
		{snapshot: up(deviceA)},
		{snapshot: down(deviceA), want: &models.ChangeEvent{Device: deviceA, Previous: models.LinkUp, Current: models.LinkDown}},
		{snapshot: down(deviceA)},
		{snapshot: up(deviceA), want: &models.ChangeEvent{Device: deviceA, Previous: models.LinkDown, Current: models.LinkUp}},
		{snapshot: up(deviceA)},
	}

	for i, step := range steps {
		clock.advance(10 * time.Second)

		event, _ := d.Observe(step.snapshot)

		if step.want == nil {
			assert.Nil(t, event, "t%d", i)
			continue
		}

		require.NotNil(t, event, "t%d", i)
		assert.Equal(t, step.want.Previous, event.Previous, "t%d", i)
		assert.Equal(t, step.want.Current, event.Current, "t%d", i)
		assert.Equal(t, clock.t, event.Timestamp, "t%d", i)
	}

	assert.Equal(t, clock.t, d.State(deviceA).UpdatedAt)
}

func TestMissingTableCountsAsDown(t *testing.T) {
	d := NewDetector(logger.NewTestLogger())

	d.Observe(up(deviceA))

	event, _ := d.Observe(missingTable(deviceA))
	require.NotNil(t, event)
	assert.Equal(t, models.LinkUp, event.Previous)
	assert.Equal(t, models.LinkDown, event.Current)
}

func TestEmptyTableCountsAsDown(t *testing.T) {
	d := NewDetector(logger.NewTestLogger())

	d.Observe(snapshotWith(deviceA, models.InterfaceTable{}))

	assert.Equal(t, models.LinkDown, d.State(deviceA).Aggregate)
}

func TestNoInterfaceTableStaysUnknown(t *testing.T) {
	d := NewDetector(logger.NewTestLogger())

	snapshot := &models.DeviceSnapshot{
		Device: models.Device{Address: deviceA},
		Values: map[models.MetricName]models.MetricValue{models.MetricHostname: models.TextValue("x")},
	}

	for i := 0; i < 3; i++ {
		event, ifEvents := d.Observe(snapshot)
		assert.Nil(t, event)
		assert.Nil(t, ifEvents)
	}

	assert.Equal(t, models.LinkUnknown, d.State(deviceA).Aggregate)
	assert.Empty(t, d.States())
}

func TestDevicesAreIndependent(t *testing.T) {
	d := NewDetector(logger.NewTestLogger())

	d.Observe(up("a"))
	d.Observe(down("b"))

	event, _ := d.Observe(down("a"))
	require.NotNil(t, event)
	assert.Equal(t, "a", event.Device)

	event, _ = d.Observe(down("b"))
	assert.Nil(t, event)

	states := d.States()
	assert.Equal(t, models.LinkDown, states["a"].Aggregate)
	assert.Equal(t, models.LinkDown, states["b"].Aggregate)
}

func TestPerInterfaceEvents(t *testing.T) {
	clock := newClock()
	d := NewDetector(logger.NewTestLogger(), WithPerInterfaceEvents(true), WithNow(clock.now))

	_, ifEvents := d.Observe(up(deviceA))
	assert.Empty(t, ifEvents)

	clock.advance(time.Second)

	// Interface 1 goes down, 2 comes up, 3 appears for the first time.
	event, ifEvents := d.Observe(snapshotWith(deviceA, models.InterfaceTable{
		{Index: 1, Name: "Gi0/0", State: models.LinkDown},
		{Index: 2, Name: "Gi0/1", State: models.LinkUp},
		{Index: 3, Name: "Gi0/2", State: models.LinkUp},
	}))

	assert.Nil(t, event)
	require.Len(t, ifEvents, 2)
	assert.Equal(t, models.InterfaceChangeEvent{
		Device: deviceA, Index: 1, Name: "Gi0/0",
		Previous: models.LinkUp, Current: models.LinkDown, Timestamp: clock.t,
	}, ifEvents[0])
	assert.Equal(t, 2, ifEvents[1].Index)
	assert.Equal(t, models.LinkUp, ifEvents[1].Current)

	// Interface 3 disappears silently, then reappears silently.
	_, ifEvents = d.Observe(up(deviceA))
	require.Len(t, ifEvents, 2)

	_, ifEvents = d.Observe(snapshotWith(deviceA, models.InterfaceTable{
		{Index: 1, Name: "Gi0/0", State: models.LinkUp},
		{Index: 2, Name: "Gi0/1", State: models.LinkDown},
		{Index: 3, Name: "Gi0/2", State: models.LinkDown},
	}))
	assert.Empty(t, ifEvents)

	_, ifEvents = d.Observe(missingTable(deviceA))
	assert.Empty(t, ifEvents)
	assert.Len(t, d.State(deviceA).Interfaces, 3)
}

func TestPerInterfaceEventsDisabledByDefault(t *testing.T) {
	d := NewDetector(logger.NewTestLogger())

	d.Observe(up(deviceA))

	_, ifEvents := d.Observe(snapshotWith(deviceA, models.InterfaceTable{
		{Index: 1, Name: "Gi0/0", State: models.LinkUp},
		{Index: 2, Name: "Gi0/1", State: models.LinkUp},
	}))

	assert.Nil(t, ifEvents)
}

func TestStateReturnsCopy(t *testing.T) {
	d := NewDetector(logger.NewTestLogger(), WithPerInterfaceEvents(true))

	d.Observe(up(deviceA))

	s := d.State(deviceA)
	s.Interfaces[1] = models.LinkDown
	s.Aggregate = models.LinkDown

	assert.Equal(t, models.LinkUp, d.State(deviceA).Aggregate)
	assert.Equal(t, models.LinkUp, d.State(deviceA).Interfaces[1])
}

func TestConcurrentDevices(t *testing.T) {
	d := NewDetector(logger.NewTestLogger())

	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)

		go func(addr string) {
			defer wg.Done()

			d.Observe(up(addr))
			d.Observe(down(addr))
		}(fmt.Sprintf("10.0.1.%d", i))
	}

	wg.Wait()

	states := d.States()
	require.Len(t, states, 50)

	for _, s := range states {
		assert.Equal(t, models.LinkDown, s.Aggregate)
	}
}
