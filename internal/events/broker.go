// Package events fans catalog changes out to GraphQL subscribers over Redis
// Pub/Sub, so every server instance sees every mutation.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/MuhammadShohagIslam/Graphql-Course-Server/internal/models"
)

// Topic names a stream of service events.
type Topic string

const (
	ServiceAdded   Topic = "service_added"
	ServiceUpdated Topic = "service_updated"
	ServiceRemoved Topic = "service_removed"
)

const channelPrefix = "marketplace:service:"

func (t Topic) channel() string { return channelPrefix + string(t) }

// RedisBroker publishes and subscribes to service events.
type RedisBroker struct {
	rdb *redis.Client
	log zerolog.Logger
}

func NewRedisBroker(rdb *redis.Client, log zerolog.Logger) *RedisBroker {
	return &RedisBroker{rdb: rdb, log: log}
}

// Publish sends svc to every subscriber of topic.
func (b *RedisBroker) Publish(ctx context.Context, topic Topic, svc *models.Service) error {
	payload, err := json.Marshal(svc)
	if err != nil {
		return fmt.Errorf("events: encode %s: %w", topic, err)
	}
	if err := b.rdb.Publish(ctx, topic.channel(), payload).Err(); err != nil {
		return fmt.Errorf("events: publish %s: %w", topic, err)
	}
	return nil
}

// Subscribe returns a channel of services published on topic. The
// subscription is confirmed before Subscribe returns, so nothing published
// afterwards is missed. The channel closes when ctx is done.
func (b *RedisBroker) Subscribe(ctx context.Context, topic Topic) (<-chan *models.Service, error) {
	ps := b.rdb.Subscribe(ctx, topic.channel())
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("events: subscribe %s: %w", topic, err)
	}

	out := make(chan *models.Service)
	go func() {
		defer close(out)
		defer ps.Close()

		msgs := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var svc models.Service
				if err := json.Unmarshal([]byte(msg.Payload), &svc); err != nil {
					b.log.Warn().Err(err).Str("topic", string(topic)).Msg("dropping malformed event")
					continue
				}
				select {
				case out <- &svc:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
