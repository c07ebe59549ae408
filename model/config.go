// Copyright 2026 Ewout Prangsma
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// Author Ewout Prangsma
//

package model

import (
	"net/url"
	"time"

	"github.com/pkg/errors"
)

const (
	// DefaultDebounce is the time to wait after a detected press.
	DefaultDebounce = time.Millisecond * 300
	// DefaultPollInterval is the idle time between two passes over all buttons.
	DefaultPollInterval = time.Millisecond * 10
	// DefaultRequestTimeout bounds a single command request.
	DefaultRequestTimeout = time.Second * 10
)

// DebounceMode determines how the debounce delay affects other buttons.
type DebounceMode string

const (
	// DebounceShared stalls checking of all buttons while the debounce
	// delay of a pressed button runs.
	DebounceShared DebounceMode = "shared"
	// DebounceIndependent gives every button its own debounce window.
	DebounceIndependent DebounceMode = "independent"
)

// Validate the debounce mode.
func (m DebounceMode) Validate() error {
	switch m {
	case DebounceShared, DebounceIndependent:
		return nil
	default:
		return errors.Wrapf(ValidationError, "Unknown debounce mode '%s' (shared|independent)", string(m))
	}
}

// Button connects a command to a GPIO input pin.
type Button struct {
	// Command sent when the button is pressed
	Command Command `json:"command"`
	// GPIO (BCM) number of the input pin
	Pin int `json:"pin"`
}

// DefaultButtons returns the default button wiring.
func DefaultButtons() []Button {
	return []Button{
		{Command: CommandPlay, Pin: 12},
		{Command: CommandPause, Pin: 14},
		{Command: CommandNext, Pin: 27},
		{Command: CommandPrevious, Pin: 26},
	}
}

// Config holds the configuration of the remote.
type Config struct {
	// Base URL of the playback server (e.g. http://10.0.0.2:5000)
	ServerURL string
	// Buttons, checked in the given order
	Buttons []Button
	// Delay after a detected press
	Debounce time.Duration
	// How the debounce delay affects other buttons
	DebounceMode DebounceMode
	// Idle time between two passes over all buttons
	PollInterval time.Duration
	// Maximum duration of a single command request (0 = client default)
	RequestTimeout time.Duration
	// If set, a pressed button reads low (pull-up wiring)
	ActiveLow bool
}

// Validate the given configuration, returning nil on ok,
// or an error upon validation issues.
func (c Config) Validate() error {
	if c.ServerURL == "" {
		return errors.Wrap(ValidationError, "Server URL missing")
	}
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return errors.Wrapf(ValidationError, "Invalid server URL '%s': %s", c.ServerURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.Wrapf(ValidationError, "Server URL '%s' must use http", c.ServerURL)
	}
	if u.Host == "" {
		return errors.Wrapf(ValidationError, "Server URL '%s' has no host", c.ServerURL)
	}
	if len(c.Buttons) == 0 {
		return errors.Wrap(ValidationError, "No buttons configured")
	}
	pins := make(map[int]Command)
	commands := make(map[Command]struct{})
	for _, b := range c.Buttons {
		if err := b.Command.Validate(); err != nil {
			return maskAny(err)
		}
		if b.Pin < 0 {
			return errors.Wrapf(ValidationError, "Pin of button '%s' must be >= 0, got %d", b.Command, b.Pin)
		}
		if other, found := pins[b.Pin]; found {
			return errors.Wrapf(ValidationError, "Pin %d used by buttons '%s' and '%s'", b.Pin, other, b.Command)
		}
		if _, found := commands[b.Command]; found {
			return errors.Wrapf(ValidationError, "Command '%s' bound to multiple buttons", b.Command)
		}
		pins[b.Pin] = b.Command
		commands[b.Command] = struct{}{}
	}
	for _, cmd := range AllCommands() {
		if _, found := commands[cmd]; !found {
			return errors.Wrapf(ValidationError, "No button configured for command '%s'", cmd)
		}
	}
	if c.Debounce <= 0 {
		return errors.Wrapf(ValidationError, "Debounce must be positive, got %s", c.Debounce)
	}
	if err := c.DebounceMode.Validate(); err != nil {
		return maskAny(err)
	}
	if c.PollInterval < 0 {
		return errors.Wrapf(ValidationError, "Poll interval must be >= 0, got %s", c.PollInterval)
	}
	if c.RequestTimeout < 0 {
		return errors.Wrapf(ValidationError, "Request timeout must be >= 0, got %s", c.RequestTimeout)
	}
	return nil
}
