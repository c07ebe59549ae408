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

import "time"

// Outcome of a command send.
type Outcome string

const (
	// The server returned a response
	OutcomeSent Outcome = "sent"
	// The request failed before a response was received
	OutcomeFailed Outcome = "failed"
	// The request was skipped because the network is not associated
	OutcomeDisconnected Outcome = "disconnected"
)

// AllOutcomes returns all possible outcomes.
func AllOutcomes() []Outcome {
	return []Outcome{OutcomeSent, OutcomeFailed, OutcomeDisconnected}
}

// PressEvent records a detected button press and what became of it.
type PressEvent struct {
	Command   Command   `json:"command"`
	Pin       int       `json:"pin"`
	PressedAt time.Time `json:"pressed_at"`
	Outcome   Outcome   `json:"outcome"`
}
