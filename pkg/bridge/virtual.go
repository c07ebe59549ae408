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
	"sync"
	"time"

	"github.com/pkg/errors"
)

// LEDState is the observable state of a virtual status led.
type LEDState string

const (
	LEDOff      LEDState = "off"
	LEDOn       LEDState = "on"
	LEDBlinking LEDState = "blinking"
)

// VirtualBridge is a bridge without hardware. Input levels are
// controlled with SetLevel, which makes it usable for tests and for
// running the remote on a desktop.
type VirtualBridge struct {
	mutex      sync.Mutex
	levels     map[int]bool
	readErrors map[int]error
	green      LEDState
	red        LEDState
	closed     bool
}

var _ API = &VirtualBridge{}

// NewVirtualBridge implements the bridge for a virtual remote.
func NewVirtualBridge() *VirtualBridge {
	return &VirtualBridge{
		levels:     make(map[int]bool),
		readErrors: make(map[int]error),
		green:      LEDOff,
		red:        LEDOff,
	}
}

// Input initializes a GPIO input pin with the given pin number.
// Unless set before, an input idles high, except with a pull-down.
func (p *VirtualBridge) Input(pinNumber int, pull Pull) (InputPin, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if pinNumber < 0 {
		return nil, errors.Errorf("Invalid pin %d", pinNumber)
	}
	if _, found := p.levels[pinNumber]; !found {
		p.levels[pinNumber] = pull != PullDown
	}
	return &virtualInput{bridge: p, pin: pinNumber}, nil
}

// Output initializes a GPIO output pin with the given pin number
// and initial logical value.
func (p *VirtualBridge) Output(pinNumber int, activeLow bool, initialValue bool) (OutputPin, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if pinNumber < 0 {
		return nil, errors.Errorf("Invalid pin %d", pinNumber)
	}
	return &virtualOutput{bridge: p, pin: pinNumber}, nil
}

// SetLevel sets the electrical level of the given input pin.
func (p *VirtualBridge) SetLevel(pinNumber int, high bool) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.levels[pinNumber] = high
}

// Press pulls the given input pin low, like a button wired to ground.
func (p *VirtualBridge) Press(pinNumber int) {
	p.SetLevel(pinNumber, false)
}

// Release returns the given input pin to its high idle level.
func (p *VirtualBridge) Release(pinNumber int) {
	p.SetLevel(pinNumber, true)
}

// SetReadError makes reads of the given pin fail with the given error.
// A nil error restores normal reads.
func (p *VirtualBridge) SetReadError(pinNumber int, err error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if err == nil {
		delete(p.readErrors, pinNumber)
	} else {
		p.readErrors[pinNumber] = err
	}
}

// GreenLED returns the state of the green status led.
func (p *VirtualBridge) GreenLED() LEDState {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.green
}

// RedLED returns the state of the red status led.
func (p *VirtualBridge) RedLED() LEDState {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.red
}

// Turn Green status led on/off
func (p *VirtualBridge) SetGreenLED(on bool) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.green = ledState(on)
	return nil
}

// Turn Red status led on/off
func (p *VirtualBridge) SetRedLED(on bool) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.red = ledState(on)
	return nil
}

// Blink Green status led with given duration between on/off
func (p *VirtualBridge) BlinkGreenLED(delay time.Duration) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.green = LEDBlinking
	return nil
}

// Blink Red status led with given duration between on/off
func (p *VirtualBridge) BlinkRedLED(delay time.Duration) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.red = LEDBlinking
	return nil
}

// Close turns off the leds.
func (p *VirtualBridge) Close() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.green = LEDOff
	p.red = LEDOff
	p.closed = true
	return nil
}

func ledState(on bool) LEDState {
	if on {
		return LEDOn
	}
	return LEDOff
}

type virtualInput struct {
	bridge *VirtualBridge
	pin    int
}

// Read the electrical level of the pin.
func (i *virtualInput) Read() (bool, error) {
	i.bridge.mutex.Lock()
	defer i.bridge.mutex.Unlock()
	if i.bridge.closed {
		return false, errors.Errorf("Pin %d is closed", i.pin)
	}
	if err := i.bridge.readErrors[i.pin]; err != nil {
		return false, err
	}
	return i.bridge.levels[i.pin], nil
}

type virtualOutput struct {
	bridge *VirtualBridge
	pin    int
}

// Write the logical value to the pin.
func (o *virtualOutput) Write(value bool) error {
	o.bridge.mutex.Lock()
	defer o.bridge.mutex.Unlock()
	if o.bridge.closed {
		return errors.Errorf("Pin %d is closed", o.pin)
	}
	return nil
}
