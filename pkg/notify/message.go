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
	"fmt"
	"strings"

	"github.com/carverauto/linkwatch/pkg/models"
)

// Message renders the human readable alert text for a device event.
func Message(event models.ChangeEvent) string {
	return fmt.Sprintf("⚠️ Router %s is now %s (was %s)",
		event.Device, upper(event.Current), upper(event.Previous))
}

// InterfaceMessage renders the alert text for an interface event.
func InterfaceMessage(event models.InterfaceChangeEvent) string {
	name := event.Name
	if name == "" {
		name = fmt.Sprintf("ifIndex %d", event.Index)
	}

	return fmt.Sprintf("⚠️ Router %s interface %s is now %s (was %s)",
		event.Device, name, upper(event.Current), upper(event.Previous))
}

func upper(state models.LinkState) string {
	return strings.ToUpper(string(state))
}
