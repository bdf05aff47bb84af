package events

import (
	"sync"

	"warehouse-backend/internal/logger"
	"warehouse-backend/internal/models"
)

// Event kinds broadcast on inventory changes.
const (
	KindScan    = "scan"
	KindReweigh = "reweigh"
)

// InventoryUpdate is published whenever a transaction is created or
// reweighed. It carries the full persisted transaction.
type InventoryUpdate struct {
	Kind        string                       `json:"type"`
	Transaction *models.InventoryTransaction `json:"transaction"`
}

// Subscriber receives published events. Delivery is fire-and-forget: a slow
// or failing subscriber never affects the publisher.
type Subscriber func(InventoryUpdate)

// Bus is a minimal in-process publish/subscribe channel. The transaction
// recorder publishes here; the websocket hub and the cache invalidator
// subscribe, so new subscribers can be added without touching the recorder.
type Bus struct {
	mu   sync.RWMutex
	subs []Subscriber
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) Subscribe(fn Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, fn)
}

// Publish fans the event out to all subscribers, each on its own goroutine.
func (b *Bus) Publish(ev InventoryUpdate) {
	b.mu.RLock()
	subs := make([]Subscriber, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, fn := range subs {
		go func(fn Subscriber) {
			defer func() {
				if r := recover(); r != nil {
					logger.Sugar().Errorw("event subscriber panicked", "panic", r)
				}
			}()
			fn(ev)
		}(fn)
	}
}
