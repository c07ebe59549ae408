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
	"fmt"
	"sync"
	"time"

	aerr "github.com/ewoutp/go-aggregate-error"
	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

type periphBridge struct {
	mutex    sync.Mutex
	pins     []gpio.PinIO
	greenLed *statusLed
	redLed   *statusLed
}

// NewPeriphBridge implements the bridge for Raspberry PI's using the
// periph.io drivers. Input pins get their internal resistor configured.
func NewPeriphBridge(cfg Config) (API, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "host.Init failed")
	}
	p := &periphBridge{}
	var err error
	if p.greenLed, err = newLed(p, "green", cfg.GreenLEDPin, cfg.LEDActiveLow); err != nil {
		return nil, errors.Wrap(err, "Output[greenLed] failed")
	}
	if p.redLed, err = newLed(p, "red", cfg.RedLEDPin, cfg.LEDActiveLow); err != nil {
		return nil, errors.Wrap(err, "Output[redLed] failed")
	}
	return p, nil
}

// newLed creates a status led on the given pin of the given bridge.
func newLed(api API, name string, pinNumber int, activeLow bool) (*statusLed, error) {
	if pinNumber < 0 {
		return newStatusLed(name, nil), nil
	}
	pin, err := api.Output(pinNumber, activeLow, false)
	if err != nil {
		return nil, err
	}
	return newStatusLed(name, pin), nil
}

// lookup finds a pin by its BCM number.
func (p *periphBridge) lookup(pinNumber int) (gpio.PinIO, error) {
	name := fmt.Sprintf("GPIO%d", pinNumber)
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, errors.Errorf("Pin %s not found", name)
	}
	p.mutex.Lock()
	p.pins = append(p.pins, pin)
	p.mutex.Unlock()
	return pin, nil
}

// Input initializes a GPIO input pin with the given pin number.
func (p *periphBridge) Input(pinNumber int, pull Pull) (InputPin, error) {
	pin, err := p.lookup(pinNumber)
	if err != nil {
		return nil, err
	}
	var gpioPull gpio.Pull
	switch pull {
	case PullUp:
		gpioPull = gpio.PullUp
	case PullDown:
		gpioPull = gpio.PullDown
	default:
		gpioPull = gpio.Float
	}
	if err := pin.In(gpioPull, gpio.NoEdge); err != nil {
		return nil, errors.Wrapf(err, "In[%s] failed", pin.Name())
	}
	inputPinsConfigured.Inc()
	return periphInput{pin: pin}, nil
}

// Output initializes a GPIO output pin with the given pin number
// and initial logical value.
func (p *periphBridge) Output(pinNumber int, activeLow bool, initialValue bool) (OutputPin, error) {
	pin, err := p.lookup(pinNumber)
	if err != nil {
		return nil, err
	}
	out := periphOutput{pin: pin, activeLow: activeLow}
	if err := out.Write(initialValue); err != nil {
		return nil, errors.Wrapf(err, "Out[%s] failed", pin.Name())
	}
	return out, nil
}

// Turn Green status led on/off
func (p *periphBridge) SetGreenLED(on bool) error {
	if err := p.greenLed.Set(on); err != nil {
		return errors.Wrap(err, "Set[greenLed] failed")
	}
	return nil
}

// Turn Red status led on/off
func (p *periphBridge) SetRedLED(on bool) error {
	if err := p.redLed.Set(on); err != nil {
		return errors.Wrap(err, "Set[redLed] failed")
	}
	return nil
}

// Blink Green status led with given duration between on/off
func (p *periphBridge) BlinkGreenLED(delay time.Duration) error {
	if err := p.greenLed.Blink(delay); err != nil {
		return errors.Wrap(err, "Blink[greenLed] failed")
	}
	return nil
}

// Blink Red status led with given duration between on/off
func (p *periphBridge) BlinkRedLED(delay time.Duration) error {
	if err := p.redLed.Blink(delay); err != nil {
		return errors.Wrap(err, "Blink[redLed] failed")
	}
	return nil
}

// Close turns off the leds and halts all pins.
func (p *periphBridge) Close() error {
	var ae aerr.AggregateError
	ae.Add(p.greenLed.Close())
	ae.Add(p.redLed.Close())

	p.mutex.Lock()
	defer p.mutex.Unlock()
	for _, pin := range p.pins {
		ae.Add(pin.Halt())
	}
	p.pins = nil
	return ae.AsError()
}

type periphInput struct {
	pin gpio.PinIO
}

// Read the electrical level of the pin.
func (i periphInput) Read() (bool, error) {
	return i.pin.Read() == gpio.High, nil
}

type periphOutput struct {
	pin       gpio.PinIO
	activeLow bool
}

// Write the logical value to the pin.
func (o periphOutput) Write(value bool) error {
	return o.pin.Out(gpio.Level(value != o.activeLow))
}
