// Package lifecycle bridges note store events into the lifecycle runtime.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/notesync/pkg/core"
)

// Subscriber is the part of the store the bridge needs.
type Subscriber interface {
	Subscribe(ctx context.Context) <-chan core.Event
}

type storeSource struct {
	store Subscriber
	out   chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that emits note store events.
// The store subscription is opened on Start and released when its context ends.
func NewSource(store Subscriber) lifecycle.Source {
	return &storeSource{
		store: store,
		out:   make(chan lifecycle.Event),
	}
}

func (s *storeSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *storeSource) Start(ctx context.Context) error {
	events := s.store.Subscribe(ctx)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-events:
				if !ok {
					return nil
				}
				// core.Event satisfies lifecycle.Event via String().
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
