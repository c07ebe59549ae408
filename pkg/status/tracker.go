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

package status

import (
	"context"
	"sync"
	"time"

	humanize "github.com/dustin/go-humanize"

	"github.com/ewoutp/playback-remote/model"
	"github.com/ewoutp/playback-remote/pkg/network"
)

// Tracker keeps track of press events.
type Tracker struct {
	mutex     sync.Mutex
	station   network.Station
	startedAt time.Time
	presses   map[model.Command]map[model.Outcome]int
	total     int64
	last      *model.PressEvent
}

// Snapshot is the state of the remote at a specific moment.
type Snapshot struct {
	Associated   bool                                    `json:"associated"`
	RunningSince time.Time                               `json:"running_since"`
	Started      string                                  `json:"started"`
	TotalPresses string                                  `json:"total_presses"`
	Presses      map[model.Command]map[model.Outcome]int `json:"presses"`
	LastPress    *model.PressEvent                       `json:"last_press,omitempty"`
	LastPressAge string                                  `json:"last_press_age,omitempty"`
}

// NewTracker creates a new tracker.
func NewTracker(station network.Station) *Tracker {
	t := &Tracker{
		station:   station,
		startedAt: time.Now(),
		presses:   make(map[model.Command]map[model.Outcome]int),
	}
	for _, cmd := range model.AllCommands() {
		m := make(map[model.Outcome]int)
		for _, o := range model.AllOutcomes() {
			m[o] = 0
		}
		t.presses[cmd] = m
	}
	return t
}

// Record the given event.
func (t *Tracker) Record(e model.PressEvent) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	m, found := t.presses[e.Command]
	if !found {
		m = make(map[model.Outcome]int)
		t.presses[e.Command] = m
	}
	m[e.Outcome]++
	t.total++
	if t.last == nil || !e.PressedAt.Before(t.last.PressedAt) {
		last := e
		t.last = &last
	}
}

// Snapshot returns the current state.
func (t *Tracker) Snapshot(ctx context.Context) Snapshot {
	associated := false
	if t.station != nil {
		associated, _ = t.station.Associated(ctx)
	}

	t.mutex.Lock()
	defer t.mutex.Unlock()

	s := Snapshot{
		Associated:   associated,
		RunningSince: t.startedAt,
		Started:      humanize.Time(t.startedAt),
		TotalPresses: humanize.Comma(t.total),
		Presses:      make(map[model.Command]map[model.Outcome]int),
	}
	for cmd, m := range t.presses {
		c := make(map[model.Outcome]int)
		for o, n := range m {
			c[o] = n
		}
		s.Presses[cmd] = c
	}
	if t.last != nil {
		last := *t.last
		s.LastPress = &last
		s.LastPressAge = humanize.Time(last.PressedAt)
	}
	return s
}
