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

package service

import (
	"github.com/binkynet/PinWorker/pkg/metrics"
)

const (
	subSystem = "service"
)

var (
	// Total number of dispatched commands per command character
	commandsTotal = metrics.MustRegisterCounterVec(subSystem,
		"commands_total",
		"Total number of dispatched commands",
		"command")
	// Total number of unrecognized commands
	invalidCommandsTotal = metrics.MustRegisterCounter(subSystem,
		"invalid_commands_total",
		"Total number of unrecognized commands")
)
