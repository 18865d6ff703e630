package stream

import (
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/emberwatch/wildfire-intel/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestBroadcaster_SubscribeAndPublish(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	_, ch := b.Subscribe()

	update := Update{
		Hotspots: []models.AnalyzedHotspot{{ID: "34.0522_-118.2437"}},
		Custom:   false,
	}
	b.Publish(update)

	select {
	case got := <-ch:
		if len(got.Hotspots) != 1 || got.Hotspots[0].ID != "34.0522_-118.2437" {
			t.Errorf("unexpected update: %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for update")
	}
}

func TestBroadcaster_MultipleSubscribers(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	_, ch1 := b.Subscribe()
	_, ch2 := b.Subscribe()

	if b.SubscriberCount() != 2 {
		t.Fatalf("expected 2 subscribers, got %d", b.SubscriberCount())
	}

	b.Publish(Update{Custom: true})

	for i, ch := range []chan Update{ch1, ch2} {
		select {
		case got := <-ch:
			if !got.Custom {
				t.Errorf("subscriber %d: expected custom update", i)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d: timed out", i)
		}
	}
}

func TestBroadcaster_Unsubscribe(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	id, ch := b.Subscribe()
	b.Unsubscribe(id)

	if b.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers after unsubscribe, got %d", b.SubscriberCount())
	}

	if _, ok := <-ch; ok {
		t.Error("channel should be closed after unsubscribe")
	}
}

func TestBroadcaster_SlowSubscriberSkipped(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	_, ch := b.Subscribe()

	// Fill the subscriber's buffer and keep publishing. Publish must not
	// block even though nothing is draining the channel.
	done := make(chan struct{})
	go func() {
		for i := 0; i < cap(ch)+10; i++ {
			b.Publish(Update{})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}
}

func TestBroadcaster_Close(t *testing.T) {
	b := NewBroadcaster()

	_, ch1 := b.Subscribe()
	_, ch2 := b.Subscribe()

	b.Close()

	for i, ch := range []chan Update{ch1, ch2} {
		if _, ok := <-ch; ok {
			t.Errorf("subscriber %d: channel should be closed", i)
		}
	}
	if b.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers after close, got %d", b.SubscriberCount())
	}
}
