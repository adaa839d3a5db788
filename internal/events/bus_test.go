package events

import (
	"testing"
	"time"

	"github.com/hugo-lorenzo-mato/council-ai/internal/core"
)

func TestBus_PublishSubscribe(t *testing.T) {
	bus := NewBus(10)
	defer bus.Close()

	ch := bus.Subscribe()
	bus.Publish(NewRunStarted("r1", "why is checkout slow", core.ModeStandard))

	select {
	case e := <-ch:
		if e.EventType() != TypeRunStarted {
			t.Fatalf("unexpected event type: %s", e.EventType())
		}
		if e.RunID() != "r1" {
			t.Fatalf("unexpected run id: %s", e.RunID())
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for event")
	}
}

func TestBus_TypeFiltering(t *testing.T) {
	bus := NewBus(10)
	defer bus.Close()

	ch := bus.Subscribe(TypeRoundCompleted)
	bus.Publish(NewRunStarted("r1", "q", core.ModeDebate))
	bus.Publish(NewRoundCompleted("r1", core.ConvergenceRecord{Round: 1, Confidence: 0.7}))

	select {
	case e := <-ch:
		if e.EventType() != TypeRoundCompleted {
			t.Fatalf("filter leaked event type %s", e.EventType())
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for filtered event")
	}
}

func TestBus_DropsWhenFull(t *testing.T) {
	bus := NewBus(1)
	defer bus.Close()

	_ = bus.Subscribe()
	bus.Publish(NewRunStarted("r1", "q", core.ModeFast))
	bus.Publish(NewRunStarted("r2", "q", core.ModeFast))

	if bus.Dropped() != 1 {
		t.Fatalf("expected 1 dropped event, got %d", bus.Dropped())
	}
}

func TestBus_UnsubscribeClosesChannel(t *testing.T) {
	bus := NewBus(10)
	defer bus.Close()

	ch := bus.Subscribe()
	bus.Unsubscribe(ch)

	if _, ok := <-ch; ok {
		t.Fatalf("expected closed channel after unsubscribe")
	}
}

func TestBus_CloseStopsDelivery(t *testing.T) {
	bus := NewBus(10)
	ch := bus.Subscribe()
	bus.Close()

	bus.Publish(NewRunStarted("r1", "q", core.ModeFast))
	if _, ok := <-ch; ok {
		t.Fatalf("expected closed channel after bus close")
	}
}
