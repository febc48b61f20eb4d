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

package bridge

import (
	"github.com/ecc1/gpio"
	"github.com/pkg/errors"

	"github.com/binkynet/PinWorker/model"
)

type sysfsBridge struct {
}

// NewSysfsBridge implements the bridge on the legacy sysfs GPIO
// interface (/sys/class/gpio), for kernels without the character
// device uAPI.
func NewSysfsBridge() (API, error) {
	return &sysfsBridge{}, nil
}

// RequestLine claims the line at the given offset for exclusive use
// with the given direction.
// The sysfs interface exports and configures a pin in a single step,
// so all failures are reported as AcquisitionError.
func (b *sysfsBridge) RequestLine(offset int, direction model.PinDirection) (Line, error) {
	activeLow := false
	if direction == model.PinDirectionInput {
		pin, err := gpio.Input(offset, activeLow)
		if err != nil {
			return nil, errors.Wrapf(AcquisitionError, "Failed to export pin %d as input: %s", offset, err)
		}
		return &sysfsInputLine{pin: pin}, nil
	}
	initialValue := false
	pin, err := gpio.Output(offset, activeLow, initialValue)
	if err != nil {
		return nil, errors.Wrapf(AcquisitionError, "Failed to export pin %d as output: %s", offset, err)
	}
	return &sysfsOutputLine{pin: pin}, nil
}

// Close the underlying chip handle.
// The sysfs interface has no chip handle to close.
func (b *sysfsBridge) Close() error {
	return nil
}

type sysfsInputLine struct {
	pin gpio.InputPin
}

func (l *sysfsInputLine) GetValue() (bool, error) {
	v, err := l.pin.Read()
	if err != nil {
		return false, maskAny(err)
	}
	return v, nil
}

func (l *sysfsInputLine) SetValue(value bool) error {
	return errors.Wrap(ConfigurationError, "Cannot drive a sysfs input pin")
}

// Release the line.
// Sysfs pins remain exported, there is nothing to release.
func (l *sysfsInputLine) Release() error {
	return nil
}

type sysfsOutputLine struct {
	pin gpio.OutputPin
}

func (l *sysfsOutputLine) GetValue() (bool, error) {
	return false, errors.Wrap(ConfigurationError, "Cannot read a sysfs output pin")
}

func (l *sysfsOutputLine) SetValue(value bool) error {
	if err := l.pin.Write(value); err != nil {
		return maskAny(err)
	}
	return nil
}

// Release the line.
// Sysfs pins remain exported, there is nothing to release.
func (l *sysfsOutputLine) Release() error {
	return nil
}
