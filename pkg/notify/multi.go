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
	"errors"
	"fmt"

	"github.com/carverauto/linkwatch/pkg/models"
)

// Multi fans an event out to every notifier and joins their errors. One
// failing or panicking notifier does not stop delivery to the others.
type Multi struct {
	notifiers []Notifier
}

// NewMulti skips nil notifiers.
func NewMulti(notifiers ...Notifier) *Multi {
	m := &Multi{}

	for _, n := range notifiers {
		if n != nil {
			m.notifiers = append(m.notifiers, n)
		}
	}

	return m
}

// Len returns the number of wrapped notifiers.
func (m *Multi) Len() int {
	return len(m.notifiers)
}

func (m *Multi) Notify(ctx context.Context, event models.ChangeEvent) error {
	var errs []error

	for _, n := range m.notifiers {
		if err := guard(func() error { return n.Notify(ctx, event) }); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// NotifyInterface forwards to the notifiers that implement InterfaceNotifier.
func (m *Multi) NotifyInterface(ctx context.Context, event models.InterfaceChangeEvent) error {
	var errs []error

	for _, n := range m.notifiers {
		in, ok := n.(InterfaceNotifier)
		if !ok {
			continue
		}

		if err := guard(func() error { return in.NotifyInterface(ctx, event) }); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// guard turns a panic in send into ErrNotifierPanic.
func guard(send func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrNotifierPanic, r)
		}
	}()

	return send()
}
