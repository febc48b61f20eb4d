package actuals

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/binkynet/PinWorker/model"
)

func TestLastKnown(t *testing.T) {
	s := NewService(zerolog.Nop())
	s.Publish(PinActual{Name: "Button", Offset: 27, Direction: model.PinDirectionInput, Level: false})
	s.Publish(PinActual{Name: "LED", Offset: 17, Direction: model.PinDirectionOutput, Level: true})
	s.Publish(PinActual{Name: "LED", Offset: 17, Direction: model.PinDirectionOutput, Level: false})

	known := s.LastKnown()
	if len(known) != 2 {
		t.Fatalf("Expected 2 actuals, got %d", len(known))
	}
	// Ordered by offset, latest value per pin.
	if known[0].Offset != 17 || known[0].Level {
		t.Errorf("Expected pin 17 low, got %+v", known[0])
	}
	if known[1].Offset != 27 {
		t.Errorf("Expected pin 27, got %+v", known[1])
	}
	if known[0].Time.IsZero() {
		t.Error("Expected publish to set a timestamp")
	}
}

func TestSubscribe(t *testing.T) {
	s := NewService(zerolog.Nop())
	received := make(chan PinActual, 1)
	cancel := s.Subscribe(func(actual PinActual) {
		received <- actual
	})
	defer cancel()

	s.Publish(PinActual{Name: "LED", Offset: 17, Direction: model.PinDirectionOutput, Level: true})
	select {
	case actual := <-received:
		if actual.Offset != 17 || !actual.Level {
			t.Errorf("Unexpected actual %+v", actual)
		}
	case <-time.After(time.Second):
		t.Fatal("Timeout waiting for actual")
	}
}
