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
	"time"
)

// MetricName identifies one entry of the metric catalogue.
type MetricName string

const (
	MetricHostname       MetricName = "hostname"
	MetricDomain         MetricName = "domain"
	MetricUptime         MetricName = "uptime"
	MetricCPU5s          MetricName = "cpu_5s"
	MetricCPU1m          MetricName = "cpu_1m"
	MetricCPU5m          MetricName = "cpu_5m"
	MetricMemTotal       MetricName = "mem_total"
	MetricMemUsed        MetricName = "mem_used"
	MetricInterfaceCount MetricName = "interface_count"
	MetricInterfaceTable MetricName = "interface_table"
)

// AllMetrics lists the catalogue in collection order.
func AllMetrics() []MetricName {
	return []MetricName{
		MetricHostname,
		MetricDomain,
		MetricUptime,
		MetricCPU5s,
		MetricCPU1m,
		MetricCPU5m,
		MetricMemTotal,
		MetricMemUsed,
		MetricInterfaceCount,
		MetricInterfaceTable,
	}
}

// ValueKind tags the variant held by a MetricValue.
type ValueKind int

const (
	KindMissing ValueKind = iota
	KindInt
	KindText
	KindDuration
	KindInterfaceTable
)

func (k ValueKind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindText:
		return "text"
	case KindDuration:
		return "duration"
	case KindInterfaceTable:
		return "interface_table"
	case KindMissing:
		return "missing"
	default:
		return "missing"
	}
}

// TickDuration is the length of one SNMP TimeTicks unit.
const TickDuration = 10 * time.Millisecond

// MetricValue is the result of one metric fetch. The zero value is Missing.
type MetricValue struct {
	kind  ValueKind
	num   int64
	text  string
	table InterfaceTable
}

// Missing returns the value used for any failed fetch.
func Missing() MetricValue {
	return MetricValue{}
}

func IntValue(v int64) MetricValue {
	return MetricValue{kind: KindInt, num: v}
}

func TextValue(s string) MetricValue {
	return MetricValue{kind: KindText, text: s}
}

// TicksValue wraps a duration expressed in TimeTicks.
func TicksValue(ticks int64) MetricValue {
	return MetricValue{kind: KindDuration, num: ticks}
}

func TableValue(t InterfaceTable) MetricValue {
	return MetricValue{kind: KindInterfaceTable, table: t.Clone()}
}

func (v MetricValue) Kind() ValueKind {
	return v.kind
}

func (v MetricValue) IsMissing() bool {
	return v.kind == KindMissing
}

func (v MetricValue) Int() (int64, bool) {
	return v.num, v.kind == KindInt
}

func (v MetricValue) Text() (string, bool) {
	return v.text, v.kind == KindText
}

// Ticks returns the raw TimeTicks count of a duration value.
func (v MetricValue) Ticks() (int64, bool) {
	return v.num, v.kind == KindDuration
}

func (v MetricValue) Duration() (time.Duration, bool) {
	return time.Duration(v.num) * TickDuration, v.kind == KindDuration
}

// Table returns a copy of the interface table held by the value.
func (v MetricValue) Table() (InterfaceTable, bool) {
	if v.kind != KindInterfaceTable {
		return nil, false
	}

	return v.table.Clone(), true
}

type metricValueJSON struct {
	Kind  string         `json:"kind"`
	Value interface{}    `json:"value,omitempty"`
	Table InterfaceTable `json:"table,omitempty"`
}

func (v MetricValue) MarshalJSON() ([]byte, error) {
	out := metricValueJSON{Kind: v.kind.String()}

	switch v.kind {
	case KindInt, KindDuration:
		out.Value = v.num
	case KindText:
		out.Value = v.text
	case KindInterfaceTable:
		out.Table = v.table
	case KindMissing:
	}

	return json.Marshal(out)
}
