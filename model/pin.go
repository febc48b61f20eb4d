//    Copyright 2024 Ewout Prangsma
//
//    Licensed under the Apache License, Version 2.0 (the "License");
//    you may not use this file except in compliance with the License.
//    You may obtain a copy of the License at
//
//        http://www.apache.org/licenses/LICENSE-2.0
//
//    Unless required by applicable law or agreed to in writing, software
//    distributed under the License is distributed on an "AS IS" BASIS,
//    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//    See the License for the specific language governing permissions and
//    limitations under the License.

package model

import (
	"fmt"

	"github.com/pkg/errors"
)

// PinDirection indicates the configured direction of a GPIO pin.
type PinDirection byte

const (
	// PinDirectionInput configures a pin to read external levels.
	PinDirectionInput PinDirection = iota
	// PinDirectionOutput configures a pin to drive levels.
	PinDirectionOutput
)

// String converts the direction to a human readable name.
func (d PinDirection) String() string {
	switch d {
	case PinDirectionInput:
		return "input"
	case PinDirectionOutput:
		return "output"
	default:
		return fmt.Sprintf("unknown (%d)", byte(d))
	}
}

// ParsePinDirection parses the given direction name.
func ParsePinDirection(s string) (PinDirection, error) {
	switch s {
	case "input", "in":
		return PinDirectionInput, nil
	case "output", "out":
		return PinDirectionOutput, nil
	default:
		return 0, errors.Wrapf(ValidationError, "Unknown pin direction '%s'", s)
	}
}

// PinConfig holds the configuration of a single GPIO pin.
type PinConfig struct {
	// Line offset on the GPIO chip (0...)
	Offset int `json:"offset"`
	// Direction of the pin
	Direction PinDirection `json:"direction"`
	// Optional descriptive name of the pin
	Name string `json:"name,omitempty"`
}

// DisplayName returns the configured name of the pin,
// falling back to a name derived from the offset.
func (c PinConfig) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("pin%d", c.Offset)
}

// Validate the given configuration, returning nil on ok,
// or an error upon validation issues.
func (c PinConfig) Validate() error {
	if c.Offset < 0 {
		return errors.Wrapf(ValidationError, "Pin offset must be >= 0, got %d", c.Offset)
	}
	if c.Direction != PinDirectionInput && c.Direction != PinDirectionOutput {
		return errors.Wrapf(ValidationError, "Invalid pin direction '%s'", c.Direction)
	}
	return nil
}
