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
	"sync"

	"github.com/pkg/errors"

	"github.com/binkynet/PinWorker/model"
)

// StubBridge implements the bridge in memory.
// It is used for development off-target and by tests, which can
// inspect and manipulate line levels directly.
type StubBridge struct {
	mutex    sync.Mutex
	closed   bool
	claimed  map[int]bool
	levels   map[int]bool
	releases map[int]int
}

// NewStubBridge creates an in-memory bridge.
// All lines read low until driven or set by a test.
func NewStubBridge() *StubBridge {
	return &StubBridge{
		claimed:  make(map[int]bool),
		levels:   make(map[int]bool),
		releases: make(map[int]int),
	}
}

// RequestLine claims the line at the given offset for exclusive use
// with the given direction.
func (b *StubBridge) RequestLine(offset int, direction model.PinDirection) (Line, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if b.closed {
		return nil, errors.Wrap(AcquisitionError, "Bridge is closed")
	}
	if offset < 0 {
		return nil, errors.Wrapf(AcquisitionError, "Line %d does not exist", offset)
	}
	if b.claimed[offset] {
		return nil, errors.Wrapf(AcquisitionError, "Line %d is in use", offset)
	}
	b.claimed[offset] = true
	return &stubLine{bridge: b, offset: offset}, nil
}

// Close the bridge.
func (b *StubBridge) Close() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.closed = true
	return nil
}

// Level returns the current level of the line at the given offset.
func (b *StubBridge) Level(offset int) bool {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.levels[offset]
}

// SetLevel sets the level of the line at the given offset, simulating
// an externally driven input.
func (b *StubBridge) SetLevel(offset int, value bool) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.levels[offset] = value
}

// ReleaseCount returns the number of times the line at the given
// offset has been released.
func (b *StubBridge) ReleaseCount(offset int) int {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.releases[offset]
}

type stubLine struct {
	bridge   *StubBridge
	offset   int
	released bool
}

func (l *stubLine) GetValue() (bool, error) {
	l.bridge.mutex.Lock()
	defer l.bridge.mutex.Unlock()
	if l.released {
		return false, errors.Errorf("Line %d has been released", l.offset)
	}
	return l.bridge.levels[l.offset], nil
}

func (l *stubLine) SetValue(value bool) error {
	l.bridge.mutex.Lock()
	defer l.bridge.mutex.Unlock()
	if l.released {
		return errors.Errorf("Line %d has been released", l.offset)
	}
	l.bridge.levels[l.offset] = value
	return nil
}

func (l *stubLine) Release() error {
	l.bridge.mutex.Lock()
	defer l.bridge.mutex.Unlock()
	if l.released {
		return errors.Errorf("Line %d has already been released", l.offset)
	}
	l.released = true
	l.bridge.claimed[l.offset] = false
	l.bridge.releases[l.offset]++
	return nil
}
