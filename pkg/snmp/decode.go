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
	"sort"
	"strconv"
	"strings"

	"github.com/carverauto/linkwatch/pkg/models"
)

// Decoders for net-snmp style reply lines ("OID = TYPE: value").

const stringMarker = "STRING:"

// DecodeInt parses the trailing whitespace-separated token as a base-10
// integer.
func DecodeInt(reply string) models.MetricValue {
	fields := strings.Fields(reply)
	if len(fields) == 0 {
		return models.Missing()
	}

	n, err := strconv.ParseInt(fields[len(fields)-1], 10, 64)
	if err != nil {
		return models.Missing()
	}

	return models.IntValue(n)
}

// DecodeString returns the text after the STRING: marker with surrounding
// whitespace and quotes removed. An empty payload is a present value.
func DecodeString(reply string) models.MetricValue {
	s, ok := stringPayload(reply)
	if !ok {
		return models.Missing()
	}

	return models.TextValue(s)
}

func stringPayload(reply string) (string, bool) {
	_, after, found := strings.Cut(reply, stringMarker)
	if !found {
		return "", false
	}

	s := strings.TrimSpace(after)
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimSuffix(s, `"`)

	return s, true
}

// DecodeDuration reads the tick count from the last parenthesised group,
// as in "Timeticks: (123456) 0:20:34.56".
func DecodeDuration(reply string) models.MetricValue {
	open := strings.LastIndex(reply, "(")
	if open < 0 {
		return models.Missing()
	}

	rest := reply[open+1:]

	end := strings.Index(rest, ")")
	if end < 0 {
		return models.Missing()
	}

	fields := strings.Fields(rest[:end])
	if len(fields) == 0 {
		return models.Missing()
	}

	ticks, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return models.Missing()
	}

	return models.TicksValue(ticks)
}

// rowIndex takes the last dotted component of the row's OID. Rows whose
// index falls outside the InterfaceIndex range 1..2147483647 are rejected.
func rowIndex(line string) (int, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return 0, false
	}

	oid := fields[0]

	idx, err := strconv.ParseInt(oid[strings.LastIndex(oid, ".")+1:], 10, 32)
	if err != nil || idx <= 0 {
		return 0, false
	}

	return int(idx), true
}

// rowValue returns the text after "= TYPE:" on a reply line.
func rowValue(line string) string {
	_, after, found := strings.Cut(line, "=")
	if !found {
		return ""
	}

	if _, v, ok := strings.Cut(after, ":"); ok {
		return strings.TrimSpace(v)
	}

	return strings.TrimSpace(after)
}

// statusFromRow maps an ifOperStatus row to Up or Down. Only the label "up"
// (with any "(n)" suffix removed) is Up.
func statusFromRow(line string) models.LinkState {
	fields := strings.Fields(rowValue(line))
	if len(fields) == 0 {
		return models.LinkDown
	}

	token := fields[0]
	if i := strings.Index(token, "("); i >= 0 {
		token = token[:i]
	}

	if token == "up" {
		return models.LinkUp
	}

	return models.LinkDown
}

// DecodeTable merges the name and status column walks into an interface
// table. Indices seen only in the name column are Down; unnamed entries keep
// an empty name. The result is ordered by index.
func DecodeTable(nameRows, statusRows []string) models.InterfaceTable {
	entries := make(map[int]*models.InterfaceEntry)

	entry := func(idx int) *models.InterfaceEntry {
		e, ok := entries[idx]
		if !ok {
			e = &models.InterfaceEntry{Index: idx, State: models.LinkDown}
			entries[idx] = e
		}

		return e
	}

	for _, line := range statusRows {
		idx, ok := rowIndex(line)
		if !ok {
			continue
		}

		entry(idx).State = statusFromRow(line)
	}

	for _, line := range nameRows {
		idx, ok := rowIndex(line)
		if !ok {
			continue
		}

		name, _ := stringPayload(line)
		entry(idx).Name = name
	}

	table := make(models.InterfaceTable, 0, len(entries))
	for _, e := range entries {
		table = append(table, *e)
	}

	sort.Slice(table, func(i, j int) bool {
		return table[i].Index < table[j].Index
	})

	return table
}

// decodeScalar applies the decoder for shape.
func decodeScalar(shape Shape, reply string) models.MetricValue {
	switch shape {
	case ShapeInt:
		return DecodeInt(reply)
	case ShapeString:
		return DecodeString(reply)
	case ShapeDuration:
		return DecodeDuration(reply)
	case ShapeTable:
		return models.Missing()
	default:
		return models.Missing()
	}
}
