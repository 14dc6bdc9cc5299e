package domain

// Record types for the six source entities. Temporal fields are carried as
// normalized text (dates as 2006-01-02, timestamps as RFC 3339) because the
// relational source and the graph store use different native encodings.

type Category struct {
	ID   int64
	Name string
}

type Product struct {
	ID         int64
	Name       string
	Price      float64
	CategoryID int64
}

type Customer struct {
	ID       int64
	Name     string
	JoinDate string
}

type Order struct {
	ID         int64
	CustomerID int64
	Timestamp  string
}

// OrderItem is a pure relationship record; it has no node of its own.
type OrderItem struct {
	OrderID   int64
	ProductID int64
	Quantity  int
}

type Event struct {
	ID         int64
	CustomerID int64
	ProductID  int64
	Type       EventType
	Timestamp  string
}

// EventType is the behavioral event kind recorded by the storefront.
type EventType string

const (
	EventView      EventType = "view"
	EventClick     EventType = "click"
	EventAddToCart EventType = "add_to_cart"
)

// RelType maps an event type to the graph relationship type it loads as.
// ok is false for event types the storefront does not emit.
func (t EventType) RelType() (string, bool) {
	switch t {
	case EventView:
		return "VIEWED", true
	case EventClick:
		return "CLICKED", true
	case EventAddToCart:
		return "ADDED_TO_CART", true
	default:
		return "", false
	}
}
