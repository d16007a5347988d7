package test

import (
	"context"
	"sync"

	"github.com/shopflow/ordercore/internal/events"
)

// PublisherRecorder captures published status change events.
type PublisherRecorder struct {
	mu     sync.Mutex
	Events []events.StatusChanged
	Err    error
}

// Publish appends the event or returns the configured error.
func (p *PublisherRecorder) Publish(ctx context.Context, event events.StatusChanged) error {
	if p.Err != nil {
		return p.Err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, event)
	return nil
}

// Close is a no-op.
func (p *PublisherRecorder) Close() error { return nil }

// Published returns a copy of the captured events.
func (p *PublisherRecorder) Published() []events.StatusChanged {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.StatusChanged, len(p.Events))
	copy(out, p.Events)
	return out
}
