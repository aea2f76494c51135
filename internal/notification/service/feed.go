// Package service implements the in-app notification feed: a bounded,
// most-recent-first buffer of operational events.
package service

import (
	"sync"
	"time"

	"staffing_ops_backend/internal/notification/transport"

	"github.com/google/uuid"
)

// DefaultCapacity bounds the feed; older entries fall off the end.
const DefaultCapacity = 100

// Notification is one feed entry.
type Notification struct {
	ID        string
	Kind      string
	Severity  string
	Message   string
	CreatedAt time.Time
}

// Feed is a bounded in-memory notification buffer. All access goes through
// the mutex; entries are stored most recent first.
type Feed struct {
	mu       sync.Mutex
	capacity int
	items    []Notification
}

// NewFeed creates a feed with the given capacity. A non-positive capacity
// falls back to DefaultCapacity.
func NewFeed(capacity int) *Feed {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Feed{capacity: capacity}
}

// Push adds an entry to the front of the feed, evicting the oldest entry when
// the feed is at capacity.
func (f *Feed) Push(kind, severity, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entry := Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		Severity:  severity,
		Message:   message,
		CreatedAt: time.Now(),
	}
	f.items = append([]Notification{entry}, f.items...)
	if len(f.items) > f.capacity {
		f.items = f.items[:f.capacity]
	}
}

// List returns up to limit entries, most recent first. A non-positive limit
// returns the whole feed.
func (f *Feed) List(limit int) transport.FeedResponse {
	f.mu.Lock()
	defer f.mu.Unlock()

	count := len(f.items)
	if limit > 0 && limit < count {
		count = limit
	}

	response := transport.FeedResponse{
		Items: make([]transport.NotificationResponse, 0, count),
		Total: len(f.items),
	}
	for _, item := range f.items[:count] {
		response.Items = append(response.Items, transport.NotificationResponse{
			ID:        item.ID,
			Kind:      item.Kind,
			Severity:  item.Severity,
			Message:   item.Message,
			CreatedAt: item.CreatedAt,
		})
	}
	return response
}

// Len returns the current number of entries.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}
