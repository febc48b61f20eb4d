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

package pin

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/binkynet/PinWorker/model"
	"github.com/binkynet/PinWorker/service/actuals"
	"github.com/binkynet/PinWorker/service/bridge"
)

// Pin owns a single claimed GPIO line for its entire lifetime.
// The direction is fixed at construction; Read and Write guard against
// use in the wrong direction. All operations are safe for use from
// multiple goroutines.
type Pin struct {
	log     zerolog.Logger
	config  model.PinConfig
	actuals actuals.Service

	mutex  sync.Mutex
	line   bridge.Line
	closed bool
}

// New claims the line described by the given configuration on the
// given bridge.
// Returns an AcquisitionError if the chip or line is unavailable, or a
// ConfigurationError if the direction request is rejected.
func New(br bridge.API, config model.PinConfig, actualsService actuals.Service, log zerolog.Logger) (*Pin, error) {
	if err := config.Validate(); err != nil {
		return nil, maskAny(err)
	}
	line, err := br.RequestLine(config.Offset, config.Direction)
	if err != nil {
		return nil, maskAny(err)
	}
	log = log.With().
		Str("component", "pin").
		Str("name", config.DisplayName()).
		Int("offset", config.Offset).
		Logger()
	log.Debug().Str("direction", config.Direction.String()).Msg("Claimed line")
	return &Pin{
		log:     log,
		config:  config,
		actuals: actualsService,
		line:    line,
	}, nil
}

// Name returns the display name of the pin.
func (p *Pin) Name() string {
	return p.config.DisplayName()
}

// Offset returns the line offset of the pin.
func (p *Pin) Offset() int {
	return p.config.Offset
}

// Direction returns the configured direction of the pin.
func (p *Pin) Direction() model.PinDirection {
	return p.config.Direction
}

// Read returns the current level of the pin.
// Returns a DirectionError if the pin is configured as output.
func (p *Pin) Read() (bool, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.config.Direction != model.PinDirectionInput {
		directionErrorsTotal.WithLabelValues(p.Name()).Inc()
		return false, errors.Wrapf(DirectionError, "Cannot read from output pin '%s'", p.Name())
	}
	if p.closed {
		return false, errors.Wrapf(bridge.AcquisitionError, "Pin '%s' is closed", p.Name())
	}
	value, err := p.line.GetValue()
	if err != nil {
		return false, maskAny(err)
	}
	readsTotal.WithLabelValues(p.Name()).Inc()
	p.publishActual(value)
	return value, nil
}

// Write drives the pin to the given level.
// Returns a DirectionError if the pin is configured as input.
func (p *Pin) Write(value bool) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.config.Direction != model.PinDirectionOutput {
		directionErrorsTotal.WithLabelValues(p.Name()).Inc()
		return errors.Wrapf(DirectionError, "Cannot write to input pin '%s'", p.Name())
	}
	if p.closed {
		return errors.Wrapf(bridge.AcquisitionError, "Pin '%s' is closed", p.Name())
	}
	if err := p.line.SetValue(value); err != nil {
		return maskAny(err)
	}
	writesTotal.WithLabelValues(p.Name()).Inc()
	p.publishActual(value)
	return nil
}

// Close releases the line.
// Close is idempotent, the line is released exactly once.
func (p *Pin) Close() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	if err := p.line.Release(); err != nil {
		return maskAny(err)
	}
	p.log.Debug().Msg("Released line")
	return nil
}

// publishActual records the given level as the last known level of
// the pin. Caller must hold the mutex.
func (p *Pin) publishActual(value bool) {
	levelGauge.WithLabelValues(p.Name()).Set(boolToFloat(value))
	if p.actuals != nil {
		p.actuals.Publish(actuals.PinActual{
			Name:      p.Name(),
			Offset:    p.config.Offset,
			Direction: p.config.Direction,
			Level:     value,
		})
	}
}

func boolToFloat(value bool) float64 {
	if value {
		return 1
	}
	return 0
}
