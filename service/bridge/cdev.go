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

//go:build linux

package bridge

import (
	"syscall"

	"github.com/pkg/errors"
	"github.com/warthog618/go-gpiocdev"

	"github.com/binkynet/PinWorker/model"
)

const (
	consumerName = "PinWorker"
)

type chardevBridge struct {
	chip *gpiocdev.Chip
}

// NewChardevBridge implements the bridge on the kernel GPIO character
// device (/dev/gpiochipN) with given chip name.
func NewChardevBridge(chipName string) (API, error) {
	chip, err := gpiocdev.NewChip(chipName, gpiocdev.WithConsumer(consumerName))
	if err != nil {
		return nil, errors.Wrapf(AcquisitionError, "Failed to open chip '%s': %s", chipName, err)
	}
	return &chardevBridge{
		chip: chip,
	}, nil
}

// RequestLine claims the line at the given offset for exclusive use
// with the given direction.
func (b *chardevBridge) RequestLine(offset int, direction model.PinDirection) (Line, error) {
	if offset < 0 || offset >= b.chip.Lines() {
		return nil, errors.Wrapf(AcquisitionError, "Line %d does not exist on chip '%s'", offset, b.chip.Name)
	}
	var opt gpiocdev.LineReqOption
	if direction == model.PinDirectionInput {
		opt = gpiocdev.AsInput
	} else {
		opt = gpiocdev.AsOutput(0)
	}
	line, err := b.chip.RequestLine(offset, opt)
	if err != nil {
		if isBusy(err) {
			return nil, errors.Wrapf(AcquisitionError, "Line %d is in use: %s", offset, err)
		}
		return nil, errors.Wrapf(ConfigurationError, "Failed to request line %d as %s: %s", offset, direction, err)
	}
	return &chardevLine{line: line}, nil
}

// Close the underlying chip handle.
func (b *chardevBridge) Close() error {
	if err := b.chip.Close(); err != nil {
		return maskAny(err)
	}
	return nil
}

// isBusy returns true when the given error indicates that the line
// is claimed by another consumer.
func isBusy(err error) bool {
	for err != nil {
		if errno, ok := err.(syscall.Errno); ok {
			return errno == syscall.EBUSY
		}
		cause := errors.Cause(err)
		if cause == err {
			if unwrapped := errors.Unwrap(err); unwrapped != nil {
				err = unwrapped
				continue
			}
			return false
		}
		err = cause
	}
	return false
}

type chardevLine struct {
	line *gpiocdev.Line
}

// GetValue returns the current level of the line.
func (l *chardevLine) GetValue() (bool, error) {
	v, err := l.line.Value()
	if err != nil {
		return false, maskAny(err)
	}
	return v != 0, nil
}

// SetValue drives the line to the given level.
func (l *chardevLine) SetValue(value bool) error {
	v := 0
	if value {
		v = 1
	}
	if err := l.line.SetValue(v); err != nil {
		return maskAny(err)
	}
	return nil
}

// Release the line, returning it to the chip.
func (l *chardevLine) Release() error {
	if err := l.line.Close(); err != nil {
		return maskAny(err)
	}
	return nil
}
