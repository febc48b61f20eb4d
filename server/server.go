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

package server

import (
	"context"
	"net"
	"net/http"
	"net/http/pprof"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/binkynet/PinWorker/service/actuals"
	"github.com/binkynet/PinWorker/service/pin"
)

// Config for the HTTP server.
type Config struct {
	// Host interface to listen on
	Host string
	// Port to listen on for HTTP requests
	HTTPPort int
}

// Server runs the HTTP status surface for the service.
type Server struct {
	Config
	log       zerolog.Logger
	actuals   actuals.Service
	pins      []*pin.Pin
	startedAt time.Time
}

// New configures a new Server.
func New(cfg Config, log zerolog.Logger, actualsService actuals.Service, pins []*pin.Pin) (*Server, error) {
	return &Server{
		Config:    cfg,
		log:       log.With().Str("component", "server").Logger(),
		actuals:   actualsService,
		pins:      pins,
		startedAt: time.Now(),
	}, nil
}

// Run the server until the given context is canceled.
func (s *Server) Run(ctx context.Context) error {
	log := s.log
	httpAddr := net.JoinHostPort(s.Host, strconv.Itoa(s.HTTPPort))
	httpLis, err := net.Listen("tcp", httpAddr)
	if err != nil {
		log.Warn().Err(err).Msgf("failed to listen on address %s", httpAddr)
		return err
	}

	httpRouter := echo.New()
	httpRouter.HideBanner = true
	httpRouter.GET("/health", s.handleHealth)
	httpRouter.GET("/api/pins", s.handlePins)
	httpRouter.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	httpRouter.GET("/debug/pprof/*", echo.WrapHandler(http.HandlerFunc(pprof.Index)))
	httpSrv := http.Server{
		Handler: httpRouter,
	}

	log.Debug().Str("address", httpAddr).Msg("Serving HTTP")
	go func() {
		if err := httpSrv.Serve(httpLis); err != nil && err != http.ErrServerClosed {
			log.Warn().Err(err).Msg("failed to serve HTTP")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

type pinStatus struct {
	Name      string `json:"name"`
	Offset    int    `json:"offset"`
	Direction string `json:"direction"`
	Level     *bool  `json:"level,omitempty"`
	Observed  string `json:"observed,omitempty"`
}

type pinsResponse struct {
	Started string      `json:"started"`
	Pins    []pinStatus `json:"pins"`
}

// handleHealth confirms that the process is up.
func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// handlePins returns the configured pins with their last known levels.
func (s *Server) handlePins(c echo.Context) error {
	lastKnown := make(map[int]actuals.PinActual)
	for _, actual := range s.actuals.LastKnown() {
		lastKnown[actual.Offset] = actual
	}
	resp := pinsResponse{
		Started: humanize.Time(s.startedAt),
		Pins:    make([]pinStatus, 0, len(s.pins)),
	}
	for _, p := range s.pins {
		status := pinStatus{
			Name:      p.Name(),
			Offset:    p.Offset(),
			Direction: p.Direction().String(),
		}
		if actual, found := lastKnown[p.Offset()]; found {
			level := actual.Level
			status.Level = &level
			status.Observed = humanize.Time(actual.Time)
		}
		resp.Pins = append(resp.Pins, status)
	}
	return c.JSON(http.StatusOK, resp)
}
