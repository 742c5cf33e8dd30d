package redis_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfulz/boincgeist/internal/adapters/redis"
	"github.com/mfulz/boincgeist/internal/watch"
	"github.com/mfulz/boincgeist/protocol"
)

func setup(t *testing.T, opts ...redis.Option) (*miniredis.Miniredis, *backend.Client, *redis.Publisher) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client, redis.NewFromClient(client, opts...)
}

func snapshot(host string) watch.Snapshot {
	return watch.Snapshot{
		Host:     host,
		Taken:    time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC),
		Projects: []protocol.Project{{ProjectName: "Einstein@Home"}},
	}
}

func TestPublishAndLatest(t *testing.T) {
	_, _, pub := setup(t)
	ctx := context.Background()

	require.NoError(t, pub.Publish(ctx, snapshot("cruncher")))

	raw, err := pub.Latest(ctx, "cruncher")
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "cruncher", got["host"])

	hosts, err := pub.Hosts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"cruncher"}, hosts)

	_, err = pub.Latest(ctx, "other")
	assert.ErrorIs(t, err, redis.ErrNotFound)
}

func TestSnapshotsExpire(t *testing.T) {
	mr, _, pub := setup(t, redis.WithTTL(time.Minute))
	ctx := context.Background()

	require.NoError(t, pub.Publish(ctx, snapshot("cruncher")))
	assert.Equal(t, time.Minute, mr.TTL("boincgeist:snapshot:cruncher"))

	mr.FastForward(2 * time.Minute)
	_, err := pub.Latest(ctx, "cruncher")
	assert.ErrorIs(t, err, redis.ErrNotFound)

	hosts, err := pub.Hosts(ctx)
	require.NoError(t, err)
	assert.Empty(t, hosts)
}

func TestPrefixAndNotification(t *testing.T) {
	mr, client, pub := setup(t, redis.WithPrefix("lab:"))
	ctx := context.Background()

	sub := client.Subscribe(ctx, pub.Channel())
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	require.NoError(t, pub.Publish(ctx, snapshot("cruncher")))
	assert.True(t, mr.Exists("lab:snapshot:cruncher"))

	select {
	case msg := <-sub.Channel():
		assert.Equal(t, "lab:updates", msg.Channel)
		assert.Equal(t, "cruncher", msg.Payload)
	case <-time.After(2 * time.Second):
		t.Fatal("no update notification")
	}
}
