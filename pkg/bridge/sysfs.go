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

package bridge

import (
	"time"

	"github.com/ecc1/gpio"
	aerr "github.com/ewoutp/go-aggregate-error"
	"github.com/pkg/errors"
)

type sysfsBridge struct {
	greenLed *statusLed
	redLed   *statusLed
}

// NewSysfsBridge implements the bridge for boards that expose their
// GPIO through sysfs. The kernel interface cannot configure the
// internal resistors, so pull-ups must be provided by the board.
func NewSysfsBridge(cfg Config) (API, error) {
	p := &sysfsBridge{}
	var err error
	if p.greenLed, err = newLed(p, "green", cfg.GreenLEDPin, cfg.LEDActiveLow); err != nil {
		return nil, errors.Wrap(err, "Output[greenLed] failed")
	}
	if p.redLed, err = newLed(p, "red", cfg.RedLEDPin, cfg.LEDActiveLow); err != nil {
		return nil, errors.Wrap(err, "Output[redLed] failed")
	}
	return p, nil
}

// Input initializes a GPIO input pin with the given pin number.
// The pull setting is not applied.
func (p *sysfsBridge) Input(pinNumber int, pull Pull) (InputPin, error) {
	activeLow := false
	pin, err := gpio.Input(pinNumber, activeLow)
	if err != nil {
		return nil, errors.Wrapf(err, "Input[%d] failed", pinNumber)
	}
	inputPinsConfigured.Inc()
	return pin, nil
}

// Output initializes a GPIO output pin with the given pin number
// and initial logical value.
func (p *sysfsBridge) Output(pinNumber int, activeLow bool, initialValue bool) (OutputPin, error) {
	pin, err := gpio.Output(pinNumber, activeLow, initialValue)
	if err != nil {
		return nil, errors.Wrapf(err, "Output[%d] failed", pinNumber)
	}
	return pin, nil
}

// Turn Green status led on/off
func (p *sysfsBridge) SetGreenLED(on bool) error {
	if err := p.greenLed.Set(on); err != nil {
		return errors.Wrap(err, "Set[greenLed] failed")
	}
	return nil
}

// Turn Red status led on/off
func (p *sysfsBridge) SetRedLED(on bool) error {
	if err := p.redLed.Set(on); err != nil {
		return errors.Wrap(err, "Set[redLed] failed")
	}
	return nil
}

// Blink Green status led with given duration between on/off
func (p *sysfsBridge) BlinkGreenLED(delay time.Duration) error {
	if err := p.greenLed.Blink(delay); err != nil {
		return errors.Wrap(err, "Blink[greenLed] failed")
	}
	return nil
}

// Blink Red status led with given duration between on/off
func (p *sysfsBridge) BlinkRedLED(delay time.Duration) error {
	if err := p.redLed.Blink(delay); err != nil {
		return errors.Wrap(err, "Blink[redLed] failed")
	}
	return nil
}

// Close turns off the leds.
func (p *sysfsBridge) Close() error {
	var ae aerr.AggregateError
	ae.Add(p.greenLed.Close())
	ae.Add(p.redLed.Close())
	return ae.AsError()
}
