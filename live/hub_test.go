package live

import (
	"encoding/json"
	"testing"
	"time"
)

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	// create fake client
	client := &Client{
		Send: make(chan []byte, 10),
	}

	// register client
	hub.register <- client

	// broadcast a test event
	data, _ := json.Marshal(map[string]string{"type": "order.created", "order_id": "ord123"})
	hub.Broadcast(data)

	select {
	case got := <-client.Send:
		if string(got) != string(data) {
			t.Fatalf("expected %s, got %s", data, got)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for event")
	}

	// unregister client
	hub.unregister <- client
}

func TestSubscribeAfterStopDoesNotBlock(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	hub.Stop()

	finished := make(chan struct{})
	go func() {
		detach := hub.Subscribe(make(chan []byte, 1))
		detach()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(1 * time.Second):
		t.Fatal("subscribe blocked after hub stopped")
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	slow := &Client{Send: make(chan []byte)} // unbuffered, never read
	hub.register <- slow

	hub.Broadcast([]byte("one"))

	// Give the hub a moment to attempt delivery with nobody reading.
	time.Sleep(100 * time.Millisecond)

	// The hub closes the Send channel when it drops a client.
	select {
	case _, ok := <-slow.Send:
		if ok {
			t.Fatal("expected closed channel, got a message")
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for slow client to be dropped")
	}
}
