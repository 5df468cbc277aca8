package ecs

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"

	"github.com/phanxgames/tagsphere"
)

// CloudEventType is the Donburi event type for tag cloud events.
// Subscribe to this in your ECS systems to receive hover, drag, pinch and
// navigation events.
var CloudEventType = events.NewEventType[tagsphere.Event]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EventSink backed by a Donburi world. Events are
// published to CloudEventType and delivered by events.ProcessAllEvents.
func NewDonburiStore(world donburi.World) tagsphere.EventSink {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event tagsphere.Event) {
	CloudEventType.Publish(s.world, event)
}
