package audit

import (
	"context"
	"sync"

	"relay/pkg/requestcontext"
)

// Recorder collects events in memory for test assertions.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Emit(ctx context.Context, event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	r.events = append(r.events, event)
}

func (r *Recorder) Close() {}

// Events returns a copy of everything emitted so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event{}, r.events...)
}

var _ Publisher = (*Recorder)(nil)
