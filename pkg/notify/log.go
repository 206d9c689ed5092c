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

package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/carverauto/linkwatch/pkg/logger"
	"github.com/carverauto/linkwatch/pkg/models"
)

// LogNotifier writes one log line per event. Down transitions log at warn.
type LogNotifier struct {
	logger logger.Logger
}

// NewLogNotifier returns a LogNotifier.
func NewLogNotifier(log logger.Logger) *LogNotifier {
	return &LogNotifier{logger: log}
}

func (n *LogNotifier) Notify(_ context.Context, event models.ChangeEvent) error {
	n.eventFor(event.Current).
		Str("device", event.Device).
		Str("previous_state", string(event.Previous)).
		Str("new_state", string(event.Current)).
		Time("timestamp", event.Timestamp).
		Msg(Message(event))

	return nil
}

func (n *LogNotifier) NotifyInterface(_ context.Context, event models.InterfaceChangeEvent) error {
	n.eventFor(event.Current).
		Str("device", event.Device).
		Int("if_index", event.Index).
		Str("if_name", event.Name).
		Str("previous_state", string(event.Previous)).
		Str("new_state", string(event.Current)).
		Time("timestamp", event.Timestamp).
		Msg(InterfaceMessage(event))

	return nil
}

func (n *LogNotifier) eventFor(state models.LinkState) *zerolog.Event {
	if state == models.LinkDown {
		return n.logger.Warn()
	}

	return n.logger.Info()
}
