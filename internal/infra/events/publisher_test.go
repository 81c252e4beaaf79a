package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/salon-scheduler/internal/notify"
)

func TestRedisPublisher_Publish(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	ctx := context.Background()
	sub := rdb.Subscribe(ctx, "test.channel")
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	ev := notify.Event{
		Type:          notify.EventCreated,
		AppointmentID: uuid.New(),
		ProviderID:    uuid.New(),
		ClientName:    "Ana",
		Start:         time.Date(2030, 1, 7, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, NewRedisPublisher(rdb, "test.channel").Publish(ctx, ev))

	select {
	case msg := <-sub.Channel():
		var got notify.Event
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, ev.Type, got.Type)
		assert.Equal(t, ev.AppointmentID, got.AppointmentID)
		assert.Equal(t, "Ana", got.ClientName)
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
	}
}

func TestRedisPublisher_DefaultChannel(t *testing.T) {
	p := NewRedisPublisher(nil, "")
	assert.Equal(t, DefaultChannel, p.channel)
}
