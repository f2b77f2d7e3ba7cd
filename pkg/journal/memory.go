package journal

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryJournal implements Journal in memory. Intended for tests.
type MemoryJournal struct {
	mu     sync.RWMutex
	events []*Event
}

// NewMemoryJournal creates an empty in-memory journal.
func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{}
}

// Record appends an event, assigning ID and time when unset.
func (j *MemoryJournal) Record(ctx context.Context, event *Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Time.IsZero() {
		event.Time = time.Now()
	}

	ev := *event

	j.mu.Lock()
	j.events = append(j.events, &ev)
	j.mu.Unlock()

	return nil
}

// Recent returns up to limit events, newest first.
func (j *MemoryJournal) Recent(ctx context.Context, limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = 50
	}

	j.mu.RLock()
	events := make([]*Event, len(j.events))
	for i, ev := range j.events {
		copied := *ev
		events[i] = &copied
	}
	j.mu.RUnlock()

	sort.SliceStable(events, func(a, b int) bool {
		return events[a].Time.After(events[b].Time)
	})

	if len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

// Kinds returns the kinds of all recorded events in record order.
// Test hook.
func (j *MemoryJournal) Kinds() []string {
	j.mu.RLock()
	defer j.mu.RUnlock()

	kinds := make([]string, len(j.events))
	for i, ev := range j.events {
		kinds[i] = ev.Kind
	}
	return kinds
}

// Close is a no-op.
func (j *MemoryJournal) Close() error {
	return nil
}
