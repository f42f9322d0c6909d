package events

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MuhammadShohagIslam/Graphql-Course-Server/internal/models"
)

func newTestBroker(t *testing.T) (*RedisBroker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisBroker(rdb, zerolog.Nop()), mr
}

func receive(t *testing.T, ch <-chan *models.Service) *models.Service {
	t.Helper()
	select {
	case svc, ok := <-ch:
		require.True(t, ok, "channel closed")
		return svc
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestPublishSubscribe(t *testing.T) {
	b, _ := newTestBroker(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := b.Subscribe(ctx, ServiceAdded)
	require.NoError(t, err)

	id := primitive.NewObjectID()
	require.NoError(t, b.Publish(ctx, ServiceAdded, &models.Service{ID: id, Name: "Wash", Price: "10"}))

	got := receive(t, ch)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "Wash", got.Name)
}

func TestTopicsAreIsolated(t *testing.T) {
	b, mr := newTestBroker(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	removed, err := b.Subscribe(ctx, ServiceRemoved)
	require.NoError(t, err)

	require.NoError(t, b.Publish(ctx, ServiceUpdated, &models.Service{Name: "updated"}))
	require.NoError(t, b.Publish(ctx, ServiceRemoved, &models.Service{Name: "removed"}))

	assert.Equal(t, "removed", receive(t, removed).Name)
	assert.Equal(t, []string{"marketplace:service:service_removed"}, mr.PubSubChannels(""))
}

func TestMalformedPayloadSkipped(t *testing.T) {
	b, mr := newTestBroker(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := b.Subscribe(ctx, ServiceAdded)
	require.NoError(t, err)

	mr.Publish(ServiceAdded.channel(), "{not json")
	require.NoError(t, b.Publish(ctx, ServiceAdded, &models.Service{Name: "ok"}))

	assert.Equal(t, "ok", receive(t, ch).Name)
}

func TestSubscriptionClosesOnCancel(t *testing.T) {
	b, _ := newTestBroker(t)
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := b.Subscribe(ctx, ServiceAdded)
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestSubscribeFailsWhenRedisDown(t *testing.T) {
	b, mr := newTestBroker(t)
	mr.Close()

	_, err := b.Subscribe(context.Background(), ServiceAdded)
	assert.Error(t, err)
}
