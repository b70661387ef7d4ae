package Notification

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/kigongo-vincent/invai-backend/logger"
	"github.com/kigongo-vincent/invai-backend/metrics"
)

// Subscriber is one open stream connection. A user may hold several.
type Subscriber struct {
	ID      string
	UserID  uint
	Channel chan []byte
}

// Broker fans newly created notifications out to connected clients.
type Broker struct {
	mu      sync.RWMutex
	clients map[uint]map[string]*Subscriber // userID -> subscriberID -> subscriber
	buffer  int
	log     logger.Logger
}

func NewBroker(buffer int, log logger.Logger) *Broker {
	if buffer <= 0 {
		buffer = 10
	}
	if log == nil {
		log = logger.NewNoOp()
	}
	return &Broker{
		clients: make(map[uint]map[string]*Subscriber),
		buffer:  buffer,
		log:     log,
	}
}

func (b *Broker) Subscribe(userID uint) *Subscriber {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.clients[userID] == nil {
		b.clients[userID] = make(map[string]*Subscriber)
	}
	sub := &Subscriber{
		ID:      uuid.NewString(),
		UserID:  userID,
		Channel: make(chan []byte, b.buffer),
	}
	b.clients[userID][sub.ID] = sub
	metrics.StreamSubscribers.Inc()
	return sub
}

// Unsubscribe closes the subscriber's channel. Calling it twice is a no-op.
func (b *Broker) Unsubscribe(sub *Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	userClients, ok := b.clients[sub.UserID]
	if !ok {
		return
	}
	if _, ok := userClients[sub.ID]; !ok {
		return
	}
	close(sub.Channel)
	delete(userClients, sub.ID)
	if len(userClients) == 0 {
		delete(b.clients, sub.UserID)
	}
	metrics.StreamSubscribers.Dec()
}

func (b *Broker) Subscribers(userID uint) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients[userID])
}

type streamEvent struct {
	Type         string        `json:"type"`
	Notification *Notification `json:"notification"`
}

// Publish never blocks; a subscriber with a full buffer misses the event.
func (b *Broker) Publish(n *Notification) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	userClients, ok := b.clients[n.RecipientID]
	if !ok {
		return
	}

	data, err := json.Marshal(streamEvent{Type: "notification", Notification: n})
	if err != nil {
		b.log.WithError(err).Error("failed to encode stream event", logger.Fields{"notification_id": n.ID})
		return
	}
	message := []byte(fmt.Sprintf("event: notification\ndata: %s\n\n", data))

	for id, sub := range userClients {
		select {
		case sub.Channel <- message:
		default:
			b.log.Warn("stream buffer full, dropping event", logger.Fields{
				"user_id":       n.RecipientID,
				"subscriber_id": id,
			})
		}
	}
}
