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
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/gosnmp/gosnmp"

	"github.com/carverauto/linkwatch/pkg/logger"
	"github.com/carverauto/linkwatch/pkg/models"
)

const defaultMaxRepetitions = 10

var errWalkLimitReached = errors.New("walk limit reached")

// GoSNMPTransport talks to devices with gosnmp and renders replies the way
// the net-snmp command line tools print them.
type GoSNMPTransport struct {
	config Config
	logger logger.Logger
}

// NewGoSNMPTransport returns a transport using cfg. cfg should already be validated.
func NewGoSNMPTransport(cfg Config, log logger.Logger) *GoSNMPTransport {
	return &GoSNMPTransport{
		config: cfg,
		logger: log,
	}
}

// createClient builds and connects a client for device. Per-device port and
// community override the shared settings.
func (t *GoSNMPTransport) createClient(ctx context.Context, device models.Device) (*gosnmp.GoSNMP, error) {
	port := t.config.Port
	if device.Port != 0 {
		port = device.Port
	}

	community := t.config.Community
	if device.Community != "" {
		community = device.Community
	}

	client := &gosnmp.GoSNMP{
		Context:        ctx,
		Target:         device.Address,
		Port:           port,
		Community:      community,
		Version:        gosnmp.Version2c,
		Timeout:        time.Duration(t.config.Timeout),
		Retries:        t.config.Retries,
		MaxOids:        gosnmp.MaxOids,
		MaxRepetitions: defaultMaxRepetitions,
	}

	if t.config.Version == Version1 {
		client.Version = gosnmp.Version1
	}

	if err := client.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", device.Address, err)
	}

	return client, nil
}

func (t *GoSNMPTransport) closeClient(client *gosnmp.GoSNMP, device models.Device) {
	if client.Conn == nil {
		return
	}

	if err := client.Conn.Close(); err != nil {
		t.logger.Debug().Err(err).Str("device", device.Address).Msg("Failed to close SNMP connection")
	}
}

// Get implements Transport.
func (t *GoSNMPTransport) Get(ctx context.Context, device models.Device, oid string) (string, error) {
	client, err := t.createClient(ctx, device)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSNMPGetFailed, err)
	}
	defer t.closeClient(client, device)

	result, err := client.Get([]string{oid})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSNMPGetFailed, err)
	}

	if result.Error != gosnmp.NoError {
		return "", fmt.Errorf("%w: %s", ErrSNMPError, result.Error)
	}

	if len(result.Variables) == 0 {
		return "", ErrNoSNMPDataReturned
	}

	return RenderPDU(result.Variables[0]), nil
}

// Walk implements Transport. v2c uses GETBULK, v1 uses GETNEXT.
func (t *GoSNMPTransport) Walk(ctx context.Context, device models.Device, oid string, limit int) ([]string, error) {
	client, err := t.createClient(ctx, device)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSNMPWalkFailed, err)
	}
	defer t.closeClient(client, device)

	var rows []string

	walkFn := func(pdu gosnmp.SnmpPDU) error {
		if limit > 0 && len(rows) >= limit {
			return errWalkLimitReached
		}

		rows = append(rows, RenderPDU(pdu))

		return nil
	}

	if client.Version == gosnmp.Version1 {
		err = client.Walk(oid, walkFn)
	} else {
		err = client.BulkWalk(oid, walkFn)
	}

	if err != nil && !errors.Is(err, errWalkLimitReached) {
		return nil, fmt.Errorf("%w: %w", ErrSNMPWalkFailed, err)
	}

	return rows, nil
}

//nolint:gochecknoglobals // static IF-MIB enumeration labels
var (
	ifOperStatusLabels = map[int64]string{
		1: "up", 2: "down", 3: "testing", 4: "unknown", 5: "dormant", 6: "notPresent", 7: "lowerLayerDown",
	}
	ifAdminStatusLabels = map[int64]string{
		1: "up", 2: "down", 3: "testing",
	}
)

// RenderPDU prints a variable binding as "OID = TYPE: value".
func RenderPDU(pdu gosnmp.SnmpPDU) string {
	return pdu.Name + " = " + renderValue(pdu)
}

func renderValue(pdu gosnmp.SnmpPDU) string {
	//nolint:exhaustive // uncommon types fall through to the generic form
	switch pdu.Type {
	case gosnmp.OctetString:
		b, _ := pdu.Value.([]byte)
		if isPrintable(b) {
			return `STRING: "` + string(b) + `"`
		}

		return "Hex-STRING: " + hexBytes(b)
	case gosnmp.Integer:
		n := gosnmp.ToBigInt(pdu.Value).Int64()
		if label, ok := enumLabel(pdu.Name, n); ok {
			return fmt.Sprintf("INTEGER: %s(%d)", label, n)
		}

		return fmt.Sprintf("INTEGER: %d", n)
	case gosnmp.Counter32:
		return "Counter32: " + gosnmp.ToBigInt(pdu.Value).String()
	case gosnmp.Gauge32:
		return "Gauge32: " + gosnmp.ToBigInt(pdu.Value).String()
	case gosnmp.Counter64:
		return "Counter64: " + gosnmp.ToBigInt(pdu.Value).String()
	case gosnmp.Uinteger32:
		return "UInteger32: " + gosnmp.ToBigInt(pdu.Value).String()
	case gosnmp.TimeTicks:
		ticks := gosnmp.ToBigInt(pdu.Value).Int64()
		return fmt.Sprintf("Timeticks: (%d) %s", ticks, formatTicks(ticks))
	case gosnmp.ObjectIdentifier:
		return fmt.Sprintf("OID: %v", pdu.Value)
	case gosnmp.IPAddress:
		return fmt.Sprintf("IpAddress: %v", pdu.Value)
	case gosnmp.Null:
		return "NULL"
	case gosnmp.NoSuchObject:
		return "No Such Object available on this agent at this OID"
	case gosnmp.NoSuchInstance:
		return "No Such Instance currently exists at this OID"
	case gosnmp.EndOfMibView:
		return "No more variables left in this MIB View (It is past the end of the MIB tree)"
	default:
		return fmt.Sprintf("%s: %v", pdu.Type, pdu.Value)
	}
}

func enumLabel(oid string, n int64) (string, bool) {
	var labels map[int64]string

	switch {
	case strings.HasPrefix(oid, oidIfOperStatus+"."):
		labels = ifOperStatusLabels
	case strings.HasPrefix(oid, oidIfAdminStatus+"."):
		labels = ifAdminStatusLabels
	default:
		return "", false
	}

	label, ok := labels[n]

	return label, ok
}

// formatTicks renders hundredths of a second as "[D day(s), ]H:MM:SS.hh".
func formatTicks(ticks int64) string {
	const (
		perSecond = 100
		perMinute = 60 * perSecond
		perHour   = 60 * perMinute
		perDay    = 24 * perHour
	)

	days := ticks / perDay
	ticks %= perDay
	hours := ticks / perHour
	ticks %= perHour
	minutes := ticks / perMinute
	ticks %= perMinute
	seconds := ticks / perSecond
	hundredths := ticks % perSecond

	clock := fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, seconds, hundredths)

	switch days {
	case 0:
		return clock
	case 1:
		return "1 day, " + clock
	default:
		return fmt.Sprintf("%d days, %s", days, clock)
	}
}

func isPrintable(b []byte) bool {
	for _, r := range string(b) {
		if r == unicode.ReplacementChar || (!unicode.IsPrint(r) && !unicode.IsSpace(r)) {
			return false
		}
	}

	return true
}

func hexBytes(b []byte) string {
	parts := make([]string, len(b))
	for i, c := range b {
		parts[i] = fmt.Sprintf("%02X", c)
	}

	return strings.Join(parts, " ")
}
