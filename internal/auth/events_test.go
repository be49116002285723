package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestLocalBusFanOut(t *testing.T) {
	bus := NewLocalBus()
	ctx := context.Background()

	first, _ := bus.Subscribe(ctx)
	second, _ := bus.Subscribe(ctx)
	defer first.Close()

	ev := Event{Type: EventUserUpdated, UserID: uuid.New()}
	if err := bus.Publish(ctx, ev); err != nil {
		t.Fatal(err)
	}
	for i, sub := range []Subscription{first, second} {
		select {
		case got := <-sub.Events():
			if got.UserID != ev.UserID || got.Type != ev.Type {
				t.Fatalf("subscriber %d got %+v", i, got)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d got nothing", i)
		}
	}

	second.Close()
	second.Close()
	if err := bus.Publish(ctx, ev); err != nil {
		t.Fatal(err)
	}
	select {
	case <-second.Events():
		t.Fatal("closed subscriber still receives")
	default:
	}
}

func TestLocalBusPublishHonoursContext(t *testing.T) {
	bus := NewLocalBus()
	sub, _ := bus.Subscribe(context.Background())
	defer sub.Close()

	// fill the buffer so the next publish has to wait
	for i := 0; i < cap(sub.(*localSub).ch); i++ {
		if err := bus.Publish(context.Background(), Event{Type: EventSignedIn}); err != nil {
			t.Fatal(err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := bus.Publish(ctx, Event{Type: EventSignedIn}); err == nil {
		t.Fatal("expected context error")
	}
}
