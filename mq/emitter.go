package mq

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"tokri/models"
	"tokri/rdx"
)

// Channel carries order and shipment lifecycle events to the dashboard feed.
const Channel = "order-events"

// Emit publishes an event to the Redis channel. Publishing is best effort;
// a dead Redis never fails the request that triggered the event.
func Emit(ctx context.Context, eventType, entityID, status string) {
	event := models.Event{
		Type:       eventType,
		EntityID:   entityID,
		Status:     status,
		OccurredAt: time.Now().Unix(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("mq: failed to marshal event: %v", err)
		return
	}

	if err := rdx.Conn.Publish(ctx, Channel, data).Err(); err != nil {
		log.Printf("mq: failed to publish %s for %s: %v", eventType, entityID, err)
	}
}

// Subscribe returns a channel of decoded events.
func Subscribe(ctx context.Context) <-chan models.Event {
	out := make(chan models.Event, 16)
	sub := rdx.Conn.Subscribe(ctx, Channel)

	go func() {
		defer close(out)
		defer sub.Close()
		for msg := range sub.Channel() {
			var event models.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("mq: failed to parse event: %v", err)
				continue
			}
			select {
			case out <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
