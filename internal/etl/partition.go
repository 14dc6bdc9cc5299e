package etl

import (
	"fmt"

	"github.com/shopgraph/graph-etl/internal/domain"
)

// EventPartitions holds the event sequence split by type, relative order
// preserved within each bucket.
type EventPartitions struct {
	Views      []domain.Event
	Clicks     []domain.Event
	AddToCarts []domain.Event
}

// PartitionEvents routes every event into exactly one bucket. An unknown
// event_type fails the whole partition: it is a data-quality problem that
// must surface before any event batch reaches the store.
func PartitionEvents(events []domain.Event) (EventPartitions, error) {
	var parts EventPartitions
	for _, ev := range events {
		switch ev.Type {
		case domain.EventView:
			parts.Views = append(parts.Views, ev)
		case domain.EventClick:
			parts.Clicks = append(parts.Clicks, ev)
		case domain.EventAddToCart:
			parts.AddToCarts = append(parts.AddToCarts, ev)
		default:
			return EventPartitions{}, fmt.Errorf("%w: event %d has type %q", domain.ErrUnknownEventType, ev.ID, ev.Type)
		}
	}
	return parts, nil
}
