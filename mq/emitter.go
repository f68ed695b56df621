package mq

import (
	"encoding/json"
	"time"

	"verdura/live"
	"verdura/rdx"

	"github.com/sirupsen/logrus"
)

const orderChannel = "order-events"

// Event describes something that happened to an order. Events go to the Redis
// channel for external consumers and to the websocket hub for connected
// dashboards; both are best effort.
type Event struct {
	Type    string    `json:"type"`
	OrderID string    `json:"order_id"`
	Status  string    `json:"status,omitempty"`
	Total   float64   `json:"total,omitempty"`
	At      time.Time `json:"at"`
}

type Emitter struct {
	Redis *rdx.Conn
	Hub   *live.Hub
}

func NewEmitter(conn *rdx.Conn, hub *live.Hub) *Emitter {
	return &Emitter{Redis: conn, Hub: hub}
}

// Emit publishes an order event. Failures are logged, never surfaced: event
// delivery must not fail the request that produced it.
func (e *Emitter) Emit(eventType, orderID, status string, total float64) {
	if e == nil {
		return
	}
	evt := Event{Type: eventType, OrderID: orderID, Status: status, Total: total, At: time.Now()}
	data, err := json.Marshal(evt)
	if err != nil {
		logrus.WithError(err).Error("failed to marshal order event")
		return
	}
	e.Redis.Publish(orderChannel, data)
	if e.Hub != nil {
		e.Hub.Broadcast(data)
	}
}
