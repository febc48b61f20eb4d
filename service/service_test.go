package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/binkynet/PinWorker/model"
	"github.com/binkynet/PinWorker/service/bridge"
	"github.com/binkynet/PinWorker/service/pin"
)

func runLoop(t *testing.T, br *bridge.StubBridge, writePin, readPin *pin.Pin, input string) string {
	t.Helper()
	var output bytes.Buffer
	s, err := NewService(Config{}, Dependencies{
		Log:      zerolog.Nop(),
		Bridge:   br,
		WritePin: writePin,
		ReadPin:  readPin,
		Commands: strings.NewReader(input),
		Results:  &output,
	})
	if err != nil {
		t.Fatalf("NewService failed: %s", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	if err := s.Run(ctx); err != nil {
		t.Fatalf("Run failed: %s", err)
	}
	return output.String()
}

func newPin(t *testing.T, br bridge.API, offset int, direction model.PinDirection, name string) *pin.Pin {
	t.Helper()
	p, err := pin.New(br, model.PinConfig{Offset: offset, Direction: direction, Name: name}, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("pin.New failed: %s", err)
	}
	return p
}

func TestCommandLoop(t *testing.T) {
	br := bridge.NewStubBridge()
	led := newPin(t, br, 17, model.PinDirectionOutput, "LED")
	button := newPin(t, br, 27, model.PinDirectionInput, "Button")
	br.SetLevel(27, true)

	output := runLoop(t, br, led, button, "1 0 r x q")

	if !strings.Contains(output, "LED turned ON.") {
		t.Errorf("Missing ON report in output:\n%s", output)
	}
	if !strings.Contains(output, "LED turned OFF.") {
		t.Errorf("Missing OFF report in output:\n%s", output)
	}
	if br.Level(17) {
		t.Error("Expected line 17 low after '0' command")
	}
	if !strings.Contains(output, "Button state: high") {
		t.Errorf("Missing read report in output:\n%s", output)
	}
	if !strings.Contains(output, "Invalid command 'x'.") {
		t.Errorf("Missing invalid command report in output:\n%s", output)
	}
	if !strings.Contains(output, "Exiting.") {
		t.Errorf("Missing exit report in output:\n%s", output)
	}
}

func TestCommandLoopOutputOnly(t *testing.T) {
	// Output-only setup: the read command targets the output pin.
	// 'r' must report a direction error, the loop must still exit
	// cleanly on 'q'.
	br := bridge.NewStubBridge()
	led := newPin(t, br, 17, model.PinDirectionOutput, "LED")

	output := runLoop(t, br, led, led, "1rq")

	if !strings.Contains(output, "LED turned ON.") {
		t.Errorf("Missing ON report in output:\n%s", output)
	}
	if !strings.Contains(output, "Error:") || !strings.Contains(output, "Cannot read from output pin") {
		t.Errorf("Missing direction error report in output:\n%s", output)
	}
	if !strings.Contains(output, "Exiting.") {
		t.Errorf("Missing exit report in output:\n%s", output)
	}
	// Run releases the pin on the way out.
	if n := br.ReleaseCount(17); n != 1 {
		t.Errorf("Expected 1 release of line 17, got %d", n)
	}
}

func TestCommandLoopEOF(t *testing.T) {
	br := bridge.NewStubBridge()
	led := newPin(t, br, 17, model.PinDirectionOutput, "LED")
	button := newPin(t, br, 27, model.PinDirectionInput, "Button")

	// No 'q': the loop must terminate on EOF of the command source.
	output := runLoop(t, br, led, button, "1")
	if !strings.Contains(output, "LED turned ON.") {
		t.Errorf("Missing ON report in output:\n%s", output)
	}
	if n := br.ReleaseCount(17); n != 1 {
		t.Errorf("Expected 1 release of line 17, got %d", n)
	}
	if n := br.ReleaseCount(27); n != 1 {
		t.Errorf("Expected 1 release of line 27, got %d", n)
	}
}
