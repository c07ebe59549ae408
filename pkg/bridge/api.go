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
)

// API of the bridge, the hardware used to connect the buttons and
// status leds to the GPIO pins of the board.
type API interface {
	// Turn Green status led on/off
	SetGreenLED(on bool) error
	// Turn Red status led on/off
	SetRedLED(on bool) error
	// Blink Green status led with given duration between on/off
	BlinkGreenLED(delay time.Duration) error
	// Blink Red status led with given duration between on/off
	BlinkRedLED(delay time.Duration) error

	// Input initializes a GPIO input pin with the given pin number
	// and internal resistor setting.
	Input(pinNumber int, pull Pull) (InputPin, error)
	// Output initializes a GPIO output pin with the given pin number
	// and initial logical value.
	Output(pinNumber int, activeLow bool, initialValue bool) (OutputPin, error)

	// Close releases all pins.
	Close() error
}

// InputPin is the interface satisfied by GPIO input pins.
type InputPin interface {
	// Read the electrical level of the pin (true = high).
	Read() (bool, error)
}

// OutputPin is the interface satisfied by GPIO output pins.
type OutputPin interface {
	Write(bool) error
}

// Pull selects the internal resistor of an input pin.
type Pull int

const (
	// PullNone leaves the input floating
	PullNone Pull = iota
	// PullUp makes an idle input read high
	PullUp
	// PullDown makes an idle input read low
	PullDown
)

// String returns a human readable name of the pull setting.
func (p Pull) String() string {
	switch p {
	case PullUp:
		return "up"
	case PullDown:
		return "down"
	default:
		return "none"
	}
}

// Config of the bridge.
type Config struct {
	// GPIO number of the green status led (< 0 = not connected)
	GreenLEDPin int
	// GPIO number of the red status led (< 0 = not connected)
	RedLEDPin int
	// If set, the status leds light up when the pin is low
	LEDActiveLow bool
}

// NoLEDs returns a configuration without status leds.
func NoLEDs() Config {
	return Config{GreenLEDPin: -1, RedLEDPin: -1}
}
