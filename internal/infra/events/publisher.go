package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/salon-scheduler/internal/notify"
)

const DefaultChannel = "salon.appointments"

// RedisPublisher publishes appointment events as JSON on a pub/sub channel.
type RedisPublisher struct {
	rdb     redis.UniversalClient
	channel string
}

func NewRedisPublisher(rdb redis.UniversalClient, channel string) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisPublisher{rdb: rdb, channel: channel}
}

var _ notify.Publisher = (*RedisPublisher)(nil)

func (p *RedisPublisher) Publish(ctx context.Context, ev notify.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.rdb.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}

	log.Debug().
		Str("channel", p.channel).
		Str("type", string(ev.Type)).
		Str("appointment_id", ev.AppointmentID.String()).
		Msg("event published")
	return nil
}

// LogPublisher writes events to the log. Used when Redis is not configured.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, ev notify.Event) error {
	log.Info().
		Str("type", string(ev.Type)).
		Str("appointment_id", ev.AppointmentID.String()).
		Time("start", ev.Start).
		Msg("appointment event")
	return nil
}
