package notification

import (
	"github.com/google/uuid"
	"github.com/itbasis/go-clock"
)

// Sink receives every notification as it is appended.
type Sink interface {
	Publish(n Notification)
}

// Feed is the append-only notification list. Rows are only ever mutated to
// flip Read. A Feed is not safe for concurrent use; the ledger serializes
// access to it.
type Feed struct {
	clock clock.Clock
	items []Notification
	sink  Sink
}

func NewFeed(clk clock.Clock, items []Notification) *Feed {
	return &Feed{
		clock: clk,
		items: append([]Notification(nil), items...),
	}
}

func (f *Feed) SetSink(s Sink) {
	f.sink = s
}

func (f *Feed) Add(userID, message string, t Type, relatedID string) Notification {
	n := Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Message:   message,
		Type:      t,
		Read:      false,
		CreatedAt: f.clock.Now().UTC(),
		RelatedID: relatedID,
	}
	f.items = append(f.items, n)

	if f.sink != nil {
		f.sink.Publish(n)
	}
	return n
}

// ForUser returns the user's notifications, newest first.
func (f *Feed) ForUser(userID string) []Notification {
	out := make([]Notification, 0)
	for i := len(f.items) - 1; i >= 0; i-- {
		if f.items[i].UserID == userID {
			out = append(out, f.items[i])
		}
	}
	return out
}

func (f *Feed) UnreadCount(userID string) int {
	count := 0
	for _, n := range f.items {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count
}

// MarkRead flips a single notification to read. Returns false when the id is
// unknown.
func (f *Feed) MarkRead(id string) bool {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Read = true
			return true
		}
	}
	return false
}

// MarkAllRead marks every unread notification of the user as read and returns
// how many changed.
func (f *Feed) MarkAllRead(userID string) int {
	changed := 0
	for i := range f.items {
		if f.items[i].UserID == userID && !f.items[i].Read {
			f.items[i].Read = true
			changed++
		}
	}
	return changed
}

func (f *Feed) Len() int {
	return len(f.items)
}

// All returns a copy of every notification in insertion order.
func (f *Feed) All() []Notification {
	return append([]Notification(nil), f.items...)
}
