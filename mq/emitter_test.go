package mq

import (
	"encoding/json"
	"testing"
	"time"

	"verdura/live"
	"verdura/rdx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitIsSafeWithoutBackends(t *testing.T) {
	var e *Emitter
	e.Emit("order.created", "ord1", "pending", 100) // nil emitter

	e = NewEmitter(&rdx.Conn{}, nil) // no redis, no hub
	e.Emit("order.created", "ord1", "pending", 100)
}

func TestEmitReachesHub(t *testing.T) {
	hub := live.NewHub()
	go hub.Run()
	defer hub.Stop()

	received := make(chan []byte, 1)
	done := hub.Subscribe(received)
	defer done()

	e := NewEmitter(&rdx.Conn{}, hub)
	e.Emit("order.status_changed", "ord42", "shipped", 250)

	select {
	case data := <-received:
		var evt Event
		require.NoError(t, json.Unmarshal(data, &evt))
		assert.Equal(t, "order.status_changed", evt.Type)
		assert.Equal(t, "ord42", evt.OrderID)
		assert.Equal(t, "shipped", evt.Status)
		assert.Equal(t, 250.0, evt.Total)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}
