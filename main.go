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

package main

import (
	"context"
	"fmt"
	"os"

	terminate "github.com/pulcy/go-terminate"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/binkynet/PinWorker/model"
	"github.com/binkynet/PinWorker/server"
	"github.com/binkynet/PinWorker/service"
	"github.com/binkynet/PinWorker/service/actuals"
	"github.com/binkynet/PinWorker/service/bridge"
	"github.com/binkynet/PinWorker/service/pin"
)

const (
	projectName       = "BinkyNet Pin Worker"
	defaultServerPort = 7130
)

var (
	projectVersion = "dev"
	projectBuild   = "dev"
)

func main() {
	var levelFlag string
	var bridgeType string
	var chipName string
	var outputPinOffset int
	var outputPinName string
	var inputPinOffset int
	var inputPinName string
	var serverHost string
	var serverPort int

	pflag.StringVarP(&levelFlag, "level", "l", "debug", "Set log level")
	pflag.StringVarP(&bridgeType, "bridge", "b", "cdev", "Type of bridge to use (cdev|sysfs|stub)")
	pflag.StringVar(&chipName, "chip", "gpiochip0", "Name of the GPIO chip to use")
	pflag.IntVar(&outputPinOffset, "output-pin", 17, "Line offset of the output pin")
	pflag.StringVar(&outputPinName, "output-name", "LED", "Name of the output pin")
	pflag.IntVar(&inputPinOffset, "input-pin", 27, "Line offset of the input pin (< 0 for none)")
	pflag.StringVar(&inputPinName, "input-name", "Button", "Name of the input pin")
	pflag.StringVar(&serverHost, "host", "0.0.0.0", "Host address the HTTP server will listen on")
	pflag.IntVar(&serverPort, "port", defaultServerPort, "Port the HTTP server will listen on (0 to disable)")
	pflag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if level, err := zerolog.ParseLevel(levelFlag); err == nil {
		logger = logger.Level(level)
	}

	var br bridge.API
	var err error
	switch bridgeType {
	case "cdev":
		br, err = bridge.NewChardevBridge(chipName)
		if err != nil {
			Exitf("Failed to initialize character device bridge: %v\n", err)
		}
	case "sysfs":
		br, err = bridge.NewSysfsBridge()
		if err != nil {
			Exitf("Failed to initialize sysfs bridge: %v\n", err)
		}
	case "stub":
		br = bridge.NewStubBridge()
	default:
		Exitf("Unknown bridge type '%s' (cdev|sysfs|stub)\n", bridgeType)
	}

	actualsService := actuals.NewService(logger)

	outputPin, err := pin.New(br, model.PinConfig{
		Offset:    outputPinOffset,
		Direction: model.PinDirectionOutput,
		Name:      outputPinName,
	}, actualsService, logger)
	if err != nil {
		Exitf("Failed to claim output pin %d: %v\n", outputPinOffset, err)
	}

	// Without an input pin the read command targets the output pin,
	// which reports a direction error.
	readPin := outputPin
	if inputPinOffset >= 0 {
		readPin, err = pin.New(br, model.PinConfig{
			Offset:    inputPinOffset,
			Direction: model.PinDirectionInput,
			Name:      inputPinName,
		}, actualsService, logger)
		if err != nil {
			Exitf("Failed to claim input pin %d: %v\n", inputPinOffset, err)
		}
	}

	svc, err := service.NewService(service.Config{
		ProgramVersion: projectVersion,
	}, service.Dependencies{
		Log:      logger,
		Bridge:   br,
		WritePin: outputPin,
		ReadPin:  readPin,
		Commands: os.Stdin,
		Results:  os.Stdout,
	})
	if err != nil {
		Exitf("Failed to initialize Service: %v\n", err)
	}

	// Prepare to shutdown in a controlled manor
	ctx, cancel := context.WithCancel(context.Background())
	t := terminate.NewTerminator(func(template string, args ...interface{}) {
		logger.Info().Msgf(template, args...)
	}, cancel)
	go t.ListenSignals()

	fmt.Printf("Starting %s (version %s build %s)\n", projectName, projectVersion, projectBuild)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// Stop the whole group when the command loop ends.
		defer cancel()
		return svc.Run(ctx)
	})
	if serverPort > 0 {
		pins := []*pin.Pin{outputPin}
		if readPin != outputPin {
			pins = append(pins, readPin)
		}
		httpServer, err := server.New(server.Config{
			Host:     serverHost,
			HTTPPort: serverPort,
		}, logger, actualsService, pins)
		if err != nil {
			Exitf("Failed to initialize Server: %v\n", err)
		}
		g.Go(func() error { return httpServer.Run(ctx) })
	}
	if err := g.Wait(); err != nil {
		Exitf("Service run failed: %#v", err)
	}
}

// Print the given error message and exit with code 1
func Exitf(message string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, message, args...)
	os.Exit(1)
}
