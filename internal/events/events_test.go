package events

import (
	"testing"

	"github.com/swtichedxp/Naotems-poll/internal/models"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	bus := NewBus()
	id1, ch1 := bus.Subscribe()
	id2, ch2 := bus.Subscribe()
	defer bus.Unsubscribe(id1)
	defer bus.Unsubscribe(id2)

	bus.Publish(models.Vote{ID: "v1"})

	for i, ch := range []<-chan models.Vote{ch1, ch2} {
		select {
		case v := <-ch:
			if v.ID != "v1" {
				t.Errorf("subscriber %d got %s, want v1", i, v.ID)
			}
		default:
			t.Errorf("subscriber %d got nothing", i)
		}
	}
}

func TestPublishNeverBlocksOnFullSubscriber(t *testing.T) {
	bus := NewBus()
	id, ch := bus.Subscribe()
	defer bus.Unsubscribe(id)

	// Overfill the buffer; the excess is dropped, not blocked on.
	for i := 0; i < subscriberBuffer*2; i++ {
		bus.Publish(models.Vote{ID: "v"})
	}

	if got := len(ch); got != subscriberBuffer {
		t.Errorf("buffered = %d, want %d", got, subscriberBuffer)
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	bus := NewBus()
	id, ch := bus.Subscribe()
	bus.Unsubscribe(id)

	if _, ok := <-ch; ok {
		t.Error("channel should be closed after unsubscribe")
	}

	// Publishing after unsubscribe must not panic.
	bus.Publish(models.Vote{ID: "v"})
	// Double unsubscribe is harmless.
	bus.Unsubscribe(id)
}
