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

package poller

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/ewoutp/playback-remote/model"
	"github.com/ewoutp/playback-remote/pkg/bridge"
	"github.com/ewoutp/playback-remote/pkg/sender"
)

// Publisher receives every detected press.
type Publisher interface {
	Publish(e model.PressEvent)
}

// Config of the poller.
type Config struct {
	// Buttons, checked in the given order
	Buttons []model.Button
	// Delay after a detected press
	Debounce time.Duration
	// How the debounce delay affects other buttons
	Mode model.DebounceMode
	// Idle time at the end of every pass
	PollInterval time.Duration
	// If set, a pressed button reads low and inputs are pulled up
	ActiveLow bool
}

// Dependencies of the poller.
type Dependencies struct {
	Log       zerolog.Logger
	Bridge    bridge.API
	Sender    sender.Sender
	Publisher Publisher
}

// Poller reads the buttons and sends a command for every detected press.
type Poller struct {
	Config
	Dependencies
	buttons []*button

	// Replaced in tests
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) bool
}

type button struct {
	model.Button
	pin          bridge.InputPin
	lastSent     time.Time
	sent         bool
	recentErrors int
}

// New creates a poller and configures all button pins as inputs.
func New(cfg Config, deps Dependencies) (*Poller, error) {
	if cfg.Mode == "" {
		cfg.Mode = model.DebounceShared
	}
	pull := bridge.PullDown
	if cfg.ActiveLow {
		pull = bridge.PullUp
	}
	p := &Poller{
		Config:       cfg,
		Dependencies: deps,
		now:          time.Now,
		sleep:        sleepContext,
	}
	for _, b := range cfg.Buttons {
		pin, err := deps.Bridge.Input(b.Pin, pull)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to configure pin %d of button '%s'", b.Pin, b.Command)
		}
		p.buttons = append(p.buttons, &button{Button: b, pin: pin})
		deps.Log.Debug().
			Str("command", string(b.Command)).
			Int("pin", b.Pin).
			Str("pull", pull.String()).
			Msg("Configured button")
	}
	return p, nil
}

// Run the poller until the given context is canceled.
func (p *Poller) Run(ctx context.Context) error {
	p.Log.Info().
		Str("mode", string(p.Mode)).
		Dur("debounce", p.Debounce).
		Msg("Polling buttons")
	for {
		var ok bool
		if p.Mode == model.DebounceIndependent {
			ok = p.independentPass(ctx)
		} else {
			ok = p.sharedPass(ctx)
		}
		if ok && p.PollInterval > 0 {
			ok = p.sleep(ctx, p.PollInterval)
		}
		if !ok || ctx.Err() != nil {
			// Context canceled
			p.Log.Info().Msg("Stopped polling buttons")
			return nil
		}
	}
}

// sharedPass checks all buttons in order. A detected press is
// followed by the debounce delay before any other button is checked.
// Returns false when the context is canceled.
func (p *Poller) sharedPass(ctx context.Context) bool {
	for _, b := range p.buttons {
		if ctx.Err() != nil {
			return false
		}
		if !p.isPressed(b) {
			continue
		}
		p.fire(ctx, b)
		if !p.sleep(ctx, p.Debounce) {
			return false
		}
	}
	return true
}

// independentPass checks all buttons in order. A pressed button fires
// when its own debounce window has passed.
// Returns false when the context is canceled.
func (p *Poller) independentPass(ctx context.Context) bool {
	for _, b := range p.buttons {
		if ctx.Err() != nil {
			return false
		}
		if !p.isPressed(b) {
			continue
		}
		if b.sent && p.now().Sub(b.lastSent) < p.Debounce {
			continue
		}
		p.fire(ctx, b)
	}
	return true
}

// isPressed reads the pin of the given button.
// A failing read never counts as a press.
func (p *Poller) isPressed(b *button) bool {
	high, err := b.pin.Read()
	if err != nil {
		if b.recentErrors == 0 {
			p.Log.Error().Err(err).
				Str("command", string(b.Command)).
				Int("pin", b.Pin).
				Msg("Read pin failed")
		}
		b.recentErrors++
		pinReadErrorsTotal.WithLabelValues(string(b.Command)).Inc()
		return false
	}
	b.recentErrors = 0
	return high != p.ActiveLow
}

// fire sends the command of the given button and publishes the result.
func (p *Poller) fire(ctx context.Context, b *button) {
	pressedAt := p.now()
	b.lastSent = pressedAt
	b.sent = true
	pressesTotal.WithLabelValues(string(b.Command)).Inc()
	p.Log.Debug().
		Str("command", string(b.Command)).
		Int("pin", b.Pin).
		Msg("Button pressed")

	outcome := p.Sender.Send(ctx, b.Command)
	if p.Publisher != nil {
		p.Publisher.Publish(model.PressEvent{
			Command:   b.Command,
			Pin:       b.Pin,
			PressedAt: pressedAt,
			Outcome:   outcome,
		})
	}
}

// sleepContext waits for the given duration.
// Returns false when the context is canceled first.
func sleepContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
