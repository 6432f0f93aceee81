// Package lifecycle bridges engine change events to the generic lifecycle
// event pipeline, so a host application can drive reactions (re-render,
// badge updates) from the same machinery it uses for other sources.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/notterhq/notter/pkg/core"
)

type engineSource struct {
	events <-chan core.Event
	out    chan lifecycle.Event
}

// NewSource wraps an engine subscription channel, such as the one returned
// by Engine.Watch, as a lifecycle.Source.
func NewSource(events <-chan core.Event) lifecycle.Source {
	return &engineSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
}

func (s *engineSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *engineSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				// core.Event implements lifecycle.Event (has String())
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
