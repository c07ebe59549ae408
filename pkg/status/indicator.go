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
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ewoutp/playback-remote/model"
	"github.com/ewoutp/playback-remote/pkg/bridge"
)

const (
	connectingBlinkDelay   = time.Millisecond * 250
	disconnectedBlinkDelay = time.Millisecond * 500
)

// Indicator shows the state of the remote on the status leds.
type Indicator struct {
	log    zerolog.Logger
	bridge bridge.API

	mutex     sync.Mutex
	shownFrom time.Time
}

// NewIndicator creates an indicator using the leds of the given bridge.
func NewIndicator(br bridge.API, log zerolog.Logger) *Indicator {
	return &Indicator{
		log:    log,
		bridge: br,
	}
}

// Connecting is shown while joining the network.
func (i *Indicator) Connecting() {
	i.mutex.Lock()
	defer i.mutex.Unlock()
	i.check(i.bridge.SetRedLED(false))
	i.check(i.bridge.BlinkGreenLED(connectingBlinkDelay))
}

// Connected is shown once the network is joined.
func (i *Indicator) Connected() {
	i.mutex.Lock()
	defer i.mutex.Unlock()
	i.check(i.bridge.SetRedLED(false))
	i.check(i.bridge.SetGreenLED(true))
}

// Record shows the outcome of the given event.
// Events older than the one currently shown are ignored.
func (i *Indicator) Record(e model.PressEvent) {
	i.mutex.Lock()
	defer i.mutex.Unlock()
	if e.PressedAt.Before(i.shownFrom) {
		return
	}
	i.shownFrom = e.PressedAt
	switch e.Outcome {
	case model.OutcomeSent:
		i.check(i.bridge.SetRedLED(false))
		i.check(i.bridge.SetGreenLED(true))
	case model.OutcomeFailed:
		i.check(i.bridge.SetRedLED(true))
	case model.OutcomeDisconnected:
		i.check(i.bridge.SetGreenLED(false))
		i.check(i.bridge.BlinkRedLED(disconnectedBlinkDelay))
	}
}

func (i *Indicator) check(err error) {
	if err != nil {
		i.log.Warn().Err(err).Msg("Failed to update status led")
	}
}
