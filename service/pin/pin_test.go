package pin

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/binkynet/PinWorker/model"
	"github.com/binkynet/PinWorker/service/bridge"
)

func newTestPin(t *testing.T, br bridge.API, offset int, direction model.PinDirection, name string) *Pin {
	t.Helper()
	p, err := New(br, model.PinConfig{Offset: offset, Direction: direction, Name: name}, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("New failed: %s", err)
	}
	return p
}

func TestInputPinDirectionGuard(t *testing.T) {
	br := bridge.NewStubBridge()
	p := newTestPin(t, br, 27, model.PinDirectionInput, "Button")
	defer p.Close()

	if _, err := p.Read(); err != nil {
		t.Errorf("Read on input pin failed: %s", err)
	}
	if err := p.Write(true); !IsDirectionError(err) {
		t.Errorf("Expected DirectionError on write to input pin, got %v", err)
	}
}

func TestOutputPinDirectionGuard(t *testing.T) {
	br := bridge.NewStubBridge()
	p := newTestPin(t, br, 17, model.PinDirectionOutput, "LED")
	defer p.Close()

	if err := p.Write(true); err != nil {
		t.Errorf("Write on output pin failed: %s", err)
	}
	if _, err := p.Read(); !IsDirectionError(err) {
		t.Errorf("Expected DirectionError on read from output pin, got %v", err)
	}
}

func TestOutputPinWriteSequence(t *testing.T) {
	br := bridge.NewStubBridge()
	p := newTestPin(t, br, 17, model.PinDirectionOutput, "LED")
	defer p.Close()

	if err := p.Write(true); err != nil {
		t.Fatalf("Write(true) failed: %s", err)
	}
	if !br.Level(17) {
		t.Error("Expected line 17 high after Write(true)")
	}
	if err := p.Write(false); err != nil {
		t.Fatalf("Write(false) failed: %s", err)
	}
	if br.Level(17) {
		t.Error("Expected line 17 low after Write(false)")
	}
}

func TestInputPinWriteLeavesLineUnchanged(t *testing.T) {
	br := bridge.NewStubBridge()
	br.SetLevel(27, false)
	p := newTestPin(t, br, 27, model.PinDirectionInput, "Button")
	defer p.Close()

	if err := p.Write(true); !IsDirectionError(err) {
		t.Fatalf("Expected DirectionError, got %v", err)
	}
	if br.Level(27) {
		t.Error("Rejected write must not change the line level")
	}
}

func TestCloseReleasesExactlyOnce(t *testing.T) {
	br := bridge.NewStubBridge()
	p := newTestPin(t, br, 4, model.PinDirectionInput, "")

	// Close without ever reading or writing.
	if err := p.Close(); err != nil {
		t.Fatalf("Close failed: %s", err)
	}
	if n := br.ReleaseCount(4); n != 1 {
		t.Errorf("Expected 1 release, got %d", n)
	}
	// Second close is a no-op.
	if err := p.Close(); err != nil {
		t.Fatalf("Second Close failed: %s", err)
	}
	if n := br.ReleaseCount(4); n != 1 {
		t.Errorf("Expected still 1 release after second Close, got %d", n)
	}
}

func TestOperationsAfterClose(t *testing.T) {
	br := bridge.NewStubBridge()
	p := newTestPin(t, br, 27, model.PinDirectionInput, "Button")
	if err := p.Close(); err != nil {
		t.Fatalf("Close failed: %s", err)
	}
	if _, err := p.Read(); err == nil {
		t.Error("Read on closed pin should have failed")
	}
}

func TestNewValidatesConfig(t *testing.T) {
	br := bridge.NewStubBridge()
	if _, err := New(br, model.PinConfig{Offset: -1, Direction: model.PinDirectionInput}, nil, zerolog.Nop()); err == nil {
		t.Error("New should have failed on invalid config")
	}
}

func TestNewFailsWhenLineUnavailable(t *testing.T) {
	br := bridge.NewStubBridge()
	p := newTestPin(t, br, 17, model.PinDirectionOutput, "LED")
	defer p.Close()

	if _, err := New(br, model.PinConfig{Offset: 17, Direction: model.PinDirectionInput}, nil, zerolog.Nop()); !bridge.IsAcquisitionError(err) {
		t.Errorf("Expected AcquisitionError on claimed line, got %v", err)
	}
}
