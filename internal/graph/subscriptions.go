package graph

import (
	"context"

	"github.com/MuhammadShohagIslam/Graphql-Course-Server/internal/events"
)

func (r *Resolver) ServiceAdded(ctx context.Context) (<-chan *serviceResolver, error) {
	return r.subscribe(ctx, "serviceAdded", events.ServiceAdded)
}

func (r *Resolver) ServiceUpdated(ctx context.Context) (<-chan *serviceResolver, error) {
	return r.subscribe(ctx, "serviceUpdated", events.ServiceUpdated)
}

func (r *Resolver) ServiceRemoved(ctx context.Context) (<-chan *serviceResolver, error) {
	return r.subscribe(ctx, "serviceRemoved", events.ServiceRemoved)
}

// subscribe adapts a broker channel to resolver values. The returned channel
// closes when ctx is done or the broker channel closes.
func (r *Resolver) subscribe(ctx context.Context, op string, topic events.Topic) (<-chan *serviceResolver, error) {
	in, err := r.events.Subscribe(ctx, topic)
	if err != nil {
		return nil, r.fail(op, err).queryError()
	}

	out := make(chan *serviceResolver)
	go func() {
		defer close(out)
		for svc := range in {
			select {
			case out <- &serviceResolver{svc}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
