// Package ecs provides ECS adapters for tagsphere's event system.
//
// The primary adapter is [NewDonburiStore], which bridges tag cloud events
// (hover, click, drag, pinch, selection) into a [Donburi] world as typed
// events. Subscribe to [CloudEventType] in your ECS systems to receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	cloud.SetEventSink(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
