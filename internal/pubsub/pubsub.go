// Package pubsub defines the messaging collaborator that delivers
// cross-session broadcasts to the feed engine.
package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
)

// Message is one broadcast received on a channel. Data holds the event
// payload as raw JSON.
type Message struct {
	Channel string
	Event   string
	Data    json.RawMessage
}

// Handler consumes messages for one subscription. Handlers for a single
// subscription are invoked sequentially, in arrival order.
type Handler func(msg Message)

// Subscription is one active channel binding.
type Subscription interface {
	Unsubscribe(ctx context.Context) error
}

//go:generate go run go.uber.org/mock/mockgen -source=pubsub.go -destination=mocks/mock.go
type Client interface {
	// Subscribe binds handler to the named event on channel. The returned
	// Subscription must be unsubscribed before a binding to another
	// channel is created by the same owner.
	Subscribe(ctx context.Context, channel, event string, handler Handler) (Subscription, error)

	// Publish emits an event on channel.
	Publish(ctx context.Context, channel, event string, payload any) error
}

// OrgChannel returns the broadcast channel name for an organization's
// activity stream.
func OrgChannel(orgID int) string {
	return fmt.Sprintf("org-%d-activities", orgID)
}

// EventLikeUpdate is the event carrying like-state broadcasts.
const EventLikeUpdate = "activity-like-update"
