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
	"bufio"
	"context"
	"fmt"
	"io"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/binkynet/PinWorker/service/bridge"
	"github.com/binkynet/PinWorker/service/pin"
	"github.com/binkynet/PinWorker/service/util"
)

// Service runs the interactive command loop.
type Service interface {
	// Run the command loop until 'q' is received, the command source
	// reaches EOF or the given context is cancelled.
	Run(ctx context.Context) error
}

type Config struct {
	ProgramVersion string
}

type Dependencies struct {
	Log zerolog.Logger
	// Bridge that owns the chip handle. Closed when Run returns.
	Bridge bridge.API
	// WritePin receives the '1' and '0' commands.
	WritePin *pin.Pin
	// ReadPin receives the 'r' command.
	ReadPin *pin.Pin
	// Commands is the source of single-character commands (stdin).
	Commands io.Reader
	// Results receives human readable command results (stdout).
	Results io.Writer
}

type service struct {
	Config
	Dependencies
}

// NewService creates a Service instance and returns it.
func NewService(conf Config, deps Dependencies) (Service, error) {
	deps.Log = deps.Log.With().Str("component", "service").Logger()
	return &service{
		Config:       conf,
		Dependencies: deps,
	}, nil
}

// Run the command loop until 'q' is received, the command source
// reaches EOF or the given context is cancelled.
// On return all pins are closed, followed by the bridge.
func (s *service) Run(ctx context.Context) error {
	log := s.Log
	defer func() {
		var closeErr util.SyncError
		closeErr.Add(s.WritePin.Close())
		if s.ReadPin != s.WritePin {
			closeErr.Add(s.ReadPin.Close())
		}
		closeErr.Add(s.Bridge.Close())
		if err := closeErr.AsError(); err != nil {
			log.Warn().Err(err).Msg("Failed to release pins")
		} else {
			log.Debug().Msg("Released pins and closed bridge")
		}
	}()

	fmt.Fprintf(s.Results, "Commands: '1' set %s high, '0' set %s low, 'r' read %s, 'q' quit.\n",
		s.WritePin.Name(), s.WritePin.Name(), s.ReadPin.Name())

	commands := make(chan rune)
	go s.readCommands(commands)

	for {
		select {
		case cmd, ok := <-commands:
			if !ok {
				// Command source closed
				log.Debug().Msg("Command source closed")
				return nil
			}
			if quit := s.dispatch(cmd); quit {
				fmt.Fprintln(s.Results, "Exiting.")
				return nil
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// readCommands reads single characters from the command source into
// the given channel, skipping whitespace. The channel is closed when
// the source is exhausted.
func (s *service) readCommands(commands chan<- rune) {
	defer close(commands)
	rd := bufio.NewReader(s.Commands)
	for {
		c, _, err := rd.ReadRune()
		if err != nil {
			return
		}
		if unicode.IsSpace(c) {
			continue
		}
		commands <- c
	}
}

// dispatch runs a single command.
// Command errors are reported and do not stop the loop.
// Returns true when the loop must terminate.
func (s *service) dispatch(cmd rune) bool {
	log := s.Log.With().Str("command", string(cmd)).Logger()
	switch cmd {
	case '1':
		commandsTotal.WithLabelValues("1").Inc()
		if err := s.WritePin.Write(true); err != nil {
			s.reportError(log, err)
		} else {
			fmt.Fprintf(s.Results, "%s turned ON.\n", s.WritePin.Name())
		}
	case '0':
		commandsTotal.WithLabelValues("0").Inc()
		if err := s.WritePin.Write(false); err != nil {
			s.reportError(log, err)
		} else {
			fmt.Fprintf(s.Results, "%s turned OFF.\n", s.WritePin.Name())
		}
	case 'r':
		commandsTotal.WithLabelValues("r").Inc()
		if value, err := s.ReadPin.Read(); err != nil {
			s.reportError(log, err)
		} else {
			fmt.Fprintf(s.Results, "%s state: %s\n", s.ReadPin.Name(), levelName(value))
		}
	case 'q':
		commandsTotal.WithLabelValues("q").Inc()
		return true
	default:
		invalidCommandsTotal.Inc()
		fmt.Fprintf(s.Results, "Invalid command '%c'.\n", cmd)
	}
	return false
}

// reportError prints the given command error and logs it.
func (s *service) reportError(log zerolog.Logger, err error) {
	log.Warn().Err(err).Msg("Command failed")
	fmt.Fprintf(s.Results, "Error: %s\n", err)
}

func levelName(value bool) string {
	if value {
		return "high"
	}
	return "low"
}
