// Package realtime fans change notifications out to live subscribers.
//
// Writers call Hub.Publish after a change is committed. Readers use Stream,
// which yields the full current collection once on subscribe and again after
// every change until its context is canceled. Bursts of changes collapse into
// a single reload, so a slow reader never blocks a writer.
package realtime

import (
	"context"
	"sync"
)

// Collections published per group.
const (
	Members   = "members"
	Projects  = "projects"
	Tasks     = "tasks"
	Documents = "documents"
)

// Topic names a collection of a group.
func Topic(groupID, collection string) string {
	return groupID + "/" + collection
}

// Hub keeps subscriptions by topic.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[*Subscription]struct{}
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*Subscription]struct{})}
}

// Subscription receives a value on C after one or more changes of its topic.
type Subscription struct {
	C <-chan struct{}

	c     chan struct{}
	topic string
	hub   *Hub
	once  sync.Once
}

// Subscribe registers interest in topic. Close the subscription when done.
func (h *Hub) Subscribe(topic string) *Subscription {
	c := make(chan struct{}, 1)
	s := &Subscription{C: c, c: c, topic: topic, hub: h}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subs[topic] == nil {
		h.subs[topic] = make(map[*Subscription]struct{})
	}

	h.subs[topic][s] = struct{}{}

	return s
}

// Close unregisters the subscription. It is safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		defer s.hub.mu.Unlock()

		delete(s.hub.subs[s.topic], s)

		if len(s.hub.subs[s.topic]) == 0 {
			delete(s.hub.subs, s.topic)
		}
	})
}

// Publish notifies every subscriber of topic without blocking.
func (h *Hub) Publish(topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for s := range h.subs[topic] {
		select {
		case s.c <- struct{}{}:
		default: // a notification is already pending
		}
	}
}

// Subscribers returns the number of open subscriptions of topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.subs[topic])
}

// Snapshot is one delivery of a stream: the whole collection or the load error.
type Snapshot[T any] struct {
	Items []T
	Err   error
}

// Loader reads the current state of a collection.
type Loader[T any] func(ctx context.Context) ([]T, error)

// Stream delivers snapshots of topic until ctx is canceled, then closes the channel.
// The first snapshot is sent right away, later ones after each change.
func Stream[T any](ctx context.Context, h *Hub, topic string, load Loader[T]) <-chan Snapshot[T] {
	out := make(chan Snapshot[T])
	// subscribe before the first load so no change slips in between
	sub := h.Subscribe(topic)

	go func() {
		defer close(out)
		defer sub.Close()

		for {
			items, err := load(ctx)
			if ctx.Err() != nil {
				return
			}

			select {
			case out <- Snapshot[T]{Items: items, Err: err}:
			case <-ctx.Done():
				return
			}

			select {
			case <-sub.C:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
