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

package poller

import (
	"fmt"
	"time"

	"github.com/carverauto/linkwatch/pkg/models"
)

const (
	defaultPollInterval  = 10 * time.Second
	defaultNotifyTimeout = 5 * time.Second
)

// Config controls the poll loop.
type Config struct {
	PollInterval       models.Duration `json:"poll_interval"`
	DeviceTimeout      models.Duration `json:"device_timeout"`
	NotifyTimeout      models.Duration `json:"notify_timeout"`
	PerInterfaceEvents bool            `json:"per_interface_events"`
}

// Validate implements config.Validator interface. DeviceTimeout defaults to
// the poll interval and may not exceed it.
func (c *Config) Validate() error {
	if c.PollInterval < 0 || c.DeviceTimeout < 0 || c.NotifyTimeout < 0 {
		return fmt.Errorf("%w: negative duration", ErrInvalidDuration)
	}

	if c.PollInterval == 0 {
		c.PollInterval = models.Duration(defaultPollInterval)
	}

	if c.DeviceTimeout == 0 {
		c.DeviceTimeout = c.PollInterval
	}

	if c.DeviceTimeout > c.PollInterval {
		return fmt.Errorf("%w: device_timeout %s exceeds poll_interval %s",
			ErrInvalidDuration, c.DeviceTimeout, c.PollInterval)
	}

	if c.NotifyTimeout == 0 {
		c.NotifyTimeout = models.Duration(defaultNotifyTimeout)
	}

	return nil
}
