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
	"github.com/binkynet/PinWorker/model"
)

// API of the bridge, the hardware layer that provides access to the
// GPIO lines of a single chip.
type API interface {
	// RequestLine claims the line at the given offset for exclusive use
	// with the given direction.
	// Returns an AcquisitionError if the line is unavailable, or a
	// ConfigurationError if the direction request is rejected.
	RequestLine(offset int, direction model.PinDirection) (Line, error)
	// Close the underlying chip handle.
	// Lines requested from the bridge must be released before closing.
	Close() error
}

// Line is a single claimed GPIO line.
type Line interface {
	// GetValue returns the current level of the line.
	GetValue() (bool, error)
	// SetValue drives the line to the given level.
	SetValue(value bool) error
	// Release the line, returning it to the chip.
	Release() error
}
