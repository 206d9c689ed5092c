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

//go:generate mockgen -destination=mock_api.go -package=api github.com/carverauto/linkwatch/pkg/api DevicePoller,LinkStateReader,SnapshotCollector

import (
	"context"

	"github.com/carverauto/linkwatch/pkg/models"
	"github.com/carverauto/linkwatch/pkg/poller"
)

// DevicePoller exposes the poller's device list and cached results.
type DevicePoller interface {
	Devices() []models.Device
	LastSnapshot(address string) (*models.DeviceSnapshot, bool)
	LastCycle() poller.CycleSummary
	Cycles() uint64
	Ready() bool
}

// LinkStateReader exposes the detector's recorded states.
type LinkStateReader interface {
	State(address string) models.DeviceLinkState
	States() map[string]models.DeviceLinkState
}

// SnapshotCollector collects a fresh snapshot on demand.
type SnapshotCollector interface {
	Collect(ctx context.Context, device models.Device) *models.DeviceSnapshot
}
