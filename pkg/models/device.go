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

// Package models holds the data types shared by the fetcher, collector,
// detector, poller and notifiers.
package models

import (
	"bytes"
	"encoding/json"
	"errors"
)

var errDeviceAddressRequired = errors.New("device address is required")

// Device is a polled network device. Its address is its identity.
type Device struct {
	Address   string `json:"address"`
	Name      string `json:"name,omitempty"`
	Port      uint16 `json:"port,omitempty"`
	Community string `json:"community,omitempty"`
	// Interfaces is nil when unset, which means the device supports the
	// interface table. Set it to false for devices that do not.
	Interfaces *bool `json:"interfaces,omitempty"`
}

// String returns the device address.
func (d Device) String() string {
	return d.Address
}

// DisplayName prefers the configured name and falls back to the address.
func (d Device) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}

	return d.Address
}

// SupportsInterfaces reports whether the interface table should be polled.
func (d Device) SupportsInterfaces() bool {
	return d.Interfaces == nil || *d.Interfaces
}

// UnmarshalJSON accepts either a bare address string or an object.
func (d *Device) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)

	if len(b) > 0 && b[0] == '"' {
		var addr string
		if err := json.Unmarshal(b, &addr); err != nil {
			return err
		}

		*d = Device{Address: addr}

		return nil
	}

	type plain Device

	var p plain

	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}

	*d = Device(p)

	return nil
}

// MarshalJSON never emits the community string.
func (d Device) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Address    string `json:"address"`
		Name       string `json:"name,omitempty"`
		Interfaces bool   `json:"interfaces"`
	}{
		Address:    d.Address,
		Name:       d.Name,
		Interfaces: d.SupportsInterfaces(),
	})
}

// Validate checks the device has an address.
func (d *Device) Validate() error {
	if d.Address == "" {
		return errDeviceAddressRequired
	}

	return nil
}

// LinkState is the operational state of a device or an interface.
type LinkState string

const (
	LinkUnknown LinkState = "unknown"
	LinkUp      LinkState = "up"
	LinkDown    LinkState = "down"
)
