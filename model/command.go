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

import "github.com/pkg/errors"

// Command is a playback control command that can be sent to the
// playback server.
type Command string

const (
	CommandPlay     Command = "play"
	CommandPause    Command = "pause"
	CommandNext     Command = "next"
	CommandPrevious Command = "previous"
)

// AllCommands returns all commands in the order in which their
// buttons are checked.
func AllCommands() []Command {
	return []Command{CommandPlay, CommandPause, CommandNext, CommandPrevious}
}

// Path returns the URL path used to invoke the command on the server.
func (c Command) Path() string {
	return "/" + string(c)
}

// Validate the command, returning nil if it is one of the known commands.
func (c Command) Validate() error {
	for _, x := range AllCommands() {
		if c == x {
			return nil
		}
	}
	return errors.Wrapf(ValidationError, "Unknown command '%s'", string(c))
}
