package bridge

import (
	"testing"

	"github.com/binkynet/PinWorker/model"
)

func TestStubRequestLine(t *testing.T) {
	b := NewStubBridge()
	l, err := b.RequestLine(17, model.PinDirectionOutput)
	if err != nil {
		t.Fatalf("RequestLine failed: %s", err)
	}
	// Second request of the same line must fail, the line is owned exclusively.
	if _, err := b.RequestLine(17, model.PinDirectionInput); !IsAcquisitionError(err) {
		t.Errorf("Expected AcquisitionError on second request, got %v", err)
	}
	if err := l.Release(); err != nil {
		t.Fatalf("Release failed: %s", err)
	}
	// After release the line can be claimed again.
	if _, err := b.RequestLine(17, model.PinDirectionInput); err != nil {
		t.Errorf("RequestLine after release failed: %s", err)
	}
}

func TestStubLevels(t *testing.T) {
	b := NewStubBridge()
	l, err := b.RequestLine(4, model.PinDirectionOutput)
	if err != nil {
		t.Fatalf("RequestLine failed: %s", err)
	}
	if err := l.SetValue(true); err != nil {
		t.Fatalf("SetValue failed: %s", err)
	}
	if !b.Level(4) {
		t.Error("Expected line 4 to be high")
	}
	b.SetLevel(4, false)
	if v, err := l.GetValue(); err != nil {
		t.Fatalf("GetValue failed: %s", err)
	} else if v {
		t.Error("Expected line 4 to be low")
	}
}

func TestStubClosed(t *testing.T) {
	b := NewStubBridge()
	if err := b.Close(); err != nil {
		t.Fatalf("Close failed: %s", err)
	}
	if _, err := b.RequestLine(1, model.PinDirectionInput); !IsAcquisitionError(err) {
		t.Errorf("Expected AcquisitionError on closed bridge, got %v", err)
	}
}
