package queue

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// ConsumerConfig selects the broker, the exchange the match events are
// published on and the durable queue the booking log reads from.
type ConsumerConfig struct {
	URL      string
	Exchange string
	Queue    string
	LogPath  string
	Prefetch int
}

// Consumer appends every match event to the booking log, one line per
// event.  It reconnects with backoff until its context is cancelled.
type Consumer struct {
	cfg ConsumerConfig
	log *zerolog.Logger

	mu  sync.Mutex
	out io.Writer
}

// NewConsumer returns a consumer writing to cfg.LogPath.
func NewConsumer(cfg ConsumerConfig, log *zerolog.Logger) *Consumer {
	if cfg.Prefetch <= 0 {
		cfg.Prefetch = 50
	}
	return &Consumer{cfg: cfg, log: log}
}

// Run consumes until ctx is done.  Dial and channel failures are retried
// with exponential backoff capped at 30s.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.cfg.URL)
		if err != nil {
			c.log.Warn().Err(err).Dur("retry_in", backoff).Msg("booking-consumer: dial failed")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(backoff):
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return nil
		}
		c.log.Warn().Err(err).Msg("booking-consumer: consume loop ended, reconnecting")
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(2 * time.Second):
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.ExchangeDeclare(c.cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	q, err := ch.QueueDeclare(c.cfg.Queue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	for _, key := range RoutingKeys {
		if err := ch.QueueBind(q.Name, key, c.cfg.Exchange, false, nil); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}
	}
	if err := ch.Qos(c.cfg.Prefetch, 0, false); err != nil {
		c.log.Warn().Err(err).Msg("booking-consumer: set qos failed")
	}

	msgs, err := ch.ConsumeWithContext(ctx, q.Name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}
	c.log.Info().Str("queue", q.Name).Msg("booking-consumer: consuming")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.Handle(d.RoutingKey, d.Body); err != nil {
				c.log.Error().Err(err).Str("routing_key", d.RoutingKey).Msg("booking-consumer: handle failed")
				// reject without requeue so a poison message cannot spin
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Handle formats one delivery and appends it to the booking log.
func (c *Consumer) Handle(key string, body []byte) error {
	ev, err := Decode[MatchEvent](body)
	if err != nil {
		return err
	}
	line, err := FormatLine(key, ev)
	if err != nil {
		return err
	}
	return c.write(line)
}

// FormatLine renders ev as a single booking log line.  Unknown routing keys
// are an error.
func FormatLine(key string, ev MatchEvent) (string, error) {
	var verb string
	switch key {
	case RKMatchBooked:
		verb = "Match booked"
	case RKMatchPaid:
		verb = "Match paid"
	case RKMatchCancelled:
		verb = "Match cancelled"
	case RKMatchJoined:
		verb = "Player joined"
	default:
		return "", fmt.Errorf("unknown routing key %q", key)
	}
	line := fmt.Sprintf("[%s] %s | match_id=%d | actor_id=%d | venue_id=%d | venue=%q | court=%q | date=%s | slots=[%s] | price=%d | payment=%s",
		ev.OccurredAt, verb, ev.MatchID, ev.ActorID, ev.VenueID, ev.VenueName, ev.CourtName,
		ev.Date, strings.Join(ev.TimeSlots, ","), ev.Price, ev.PaymentStatus)
	if ev.PaymentMethod != "" {
		line += " | method=" + ev.PaymentMethod
	}
	return line + "\n", nil
}

func (c *Consumer) write(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.out != nil {
		_, err := io.WriteString(c.out, line)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.cfg.LogPath), 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(c.cfg.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
