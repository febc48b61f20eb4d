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

package actuals

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mattn/go-pubsub"
	"github.com/rs/zerolog"

	"github.com/binkynet/PinWorker/model"
)

// PinActual is the last observed or driven level of a pin.
type PinActual struct {
	// Name of the pin
	Name string `json:"name"`
	// Line offset on the GPIO chip
	Offset int `json:"offset"`
	// Direction of the pin
	Direction model.PinDirection `json:"-"`
	// Observed or driven level
	Level bool `json:"level"`
	// Time of the observation
	Time time.Time `json:"time"`
}

// Service keeps track of pin actuals and fans them out to subscribers.
type Service interface {
	// Publish the given actual.
	Publish(actual PinActual)
	// Subscribe to published actuals.
	// Returns a cancel function that removes the subscription.
	Subscribe(cb func(PinActual)) context.CancelFunc
	// LastKnown returns the last published actual per pin,
	// ordered by offset.
	LastKnown() []PinActual
}

type service struct {
	log       zerolog.Logger
	actuals   *pubsub.PubSub
	mutex     sync.Mutex
	lastKnown map[int]PinActual
}

// NewService creates a new actuals service.
func NewService(log zerolog.Logger) Service {
	return &service{
		log:       log.With().Str("component", "actuals").Logger(),
		actuals:   pubsub.New(),
		lastKnown: make(map[int]PinActual),
	}
}

// Publish the given actual.
func (s *service) Publish(actual PinActual) {
	if actual.Time.IsZero() {
		actual.Time = time.Now()
	}
	s.mutex.Lock()
	s.lastKnown[actual.Offset] = actual
	s.mutex.Unlock()
	s.actuals.Pub(actual)
}

// Subscribe to published actuals.
func (s *service) Subscribe(cb func(PinActual)) context.CancelFunc {
	s.actuals.Sub(cb)
	return func() {
		s.actuals.Leave(cb)
	}
}

// LastKnown returns the last published actual per pin,
// ordered by offset.
func (s *service) LastKnown() []PinActual {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	result := make([]PinActual, 0, len(s.lastKnown))
	for _, actual := range s.lastKnown {
		result = append(result, actual)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Offset < result[j].Offset })
	return result
}
