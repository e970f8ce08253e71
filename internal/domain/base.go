package domain

import (
	"sync"
	"time"
)

// Event is a domain event collected by storages and published through the
// message bus after a unit of work commits.
type Event interface {
	Type() string
	PublishedAt() time.Time
}

type NoCopy struct {
	sync.Mutex
}

// Aggregate accumulates events raised by an entity until a storage pops
// them for publishing.
type Aggregate struct {
	NoCopy
	events []Event
}

func (a *Aggregate) PopEvents() []Event {
	events := a.events
	a.events = make([]Event, 0)
	return events
}

func (a *Aggregate) PushEvent(e Event) {
	a.events = append(a.events, e)
}
