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
	"github.com/binkynet/PinWorker/pkg/metrics"
)

const (
	subSystem = "pin"
)

var (
	// Total number of successful reads per pin
	readsTotal = metrics.MustRegisterCounterVec(subSystem,
		"reads_total",
		"Total number of successful pin reads",
		"name")
	// Total number of successful writes per pin
	writesTotal = metrics.MustRegisterCounterVec(subSystem,
		"writes_total",
		"Total number of successful pin writes",
		"name")
	// Total number of direction errors per pin
	directionErrorsTotal = metrics.MustRegisterCounterVec(subSystem,
		"direction_errors_total",
		"Total number of rejected operations on a pin in the wrong direction",
		"name")
	// Last known level per pin
	levelGauge = metrics.MustRegisterGaugeVec(subSystem,
		"level",
		"Last known level of the pin (0=low, 1=high)",
		"name")
)
