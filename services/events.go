package services

import (
	"context"

	"github.com/wndmngr/farmregistry/models"
	"github.com/wndmngr/farmregistry/realtime"
)

// EventPublisher receives committed farm changes. *realtime.Hub satisfies it.
type EventPublisher interface {
	Broadcast(event realtime.Event)
}

type noopPublisher struct{}

func (noopPublisher) Broadcast(realtime.Event) {}

func publisherOrNoop(p EventPublisher) EventPublisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}

// actor names the principal on the request, if any.
func actor(ctx context.Context) string {
	if u := models.UserFromContext(ctx); u != nil {
		return u.Email
	}
	return ""
}

func farmEvent(ctx context.Context, eventType string, farm *models.Farm, resource string, extra map[string]interface{}) realtime.Event {
	return realtime.Event{
		Type:     eventType,
		FarmUUID: farm.UUID,
		FarmCode: farm.Code,
		Resource: resource,
		Actor:    actor(ctx),
		Extra:    extra,
	}
}
