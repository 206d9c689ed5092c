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

import "sort"

// InterfaceEntry is one row of a device's interface table.
type InterfaceEntry struct {
	Index int       `json:"index"`
	Name  string    `json:"name"`
	State LinkState `json:"state"`
}

// InterfaceTable maps interface index to name and operational state.
// Indices are unique within a table.
type InterfaceTable []InterfaceEntry

// Clone returns an independent copy.
func (t InterfaceTable) Clone() InterfaceTable {
	if t == nil {
		return nil
	}

	out := make(InterfaceTable, len(t))
	copy(out, t)

	return out
}

// Sorted returns a copy ordered by ascending index.
func (t InterfaceTable) Sorted() InterfaceTable {
	out := t.Clone()

	sort.Slice(out, func(i, j int) bool {
		return out[i].Index < out[j].Index
	})

	return out
}

// MaxIndex returns the highest index in the table, or 0 when empty.
func (t InterfaceTable) MaxIndex() int {
	maxIndex := 0

	for _, e := range t {
		if e.Index > maxIndex {
			maxIndex = e.Index
		}
	}

	return maxIndex
}

// Aggregate is Up when at least one entry is Up, Down otherwise,
// including for an empty table.
func (t InterfaceTable) Aggregate() LinkState {
	for _, e := range t {
		if e.State == LinkUp {
			return LinkUp
		}
	}

	return LinkDown
}

// States returns the per-index state map.
func (t InterfaceTable) States() map[int]LinkState {
	out := make(map[int]LinkState, len(t))

	for _, e := range t {
		out[e.Index] = e.State
	}

	return out
}
