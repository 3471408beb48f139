package service

import (
	"time"

	"github.com/google/uuid"

	"campus-lostfound/internal/event"
)

func publish(bus event.Bus, typ event.Type, actorID string, payload any) {
	if bus == nil {
		return
	}
	bus.Publish(event.Event{
		ID:        uuid.NewString(),
		Type:      typ,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		ActorID:   actorID,
	})
}
