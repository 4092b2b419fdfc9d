package publishermock

import (
	"context"
	"sync"

	"chapter-fund-ledger/internal/domain/ledgerevent"
)

var _ ledgerevent.Publisher = (*Recorder)(nil)

// Recorder keeps every published event. Err, when set, is returned from
// Publish after recording.
type Recorder struct {
	mu     sync.Mutex
	events []ledgerevent.Event
	Err    error
}

func (r *Recorder) Publish(_ context.Context, e ledgerevent.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.Err
}

func (r *Recorder) Events() []ledgerevent.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ledgerevent.Event(nil), r.events...)
}

// Kinds lists the kinds published so far, in order.
func (r *Recorder) Kinds() []ledgerevent.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ledgerevent.Kind, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}
