package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
)

type fakeConn struct{ closed bool }

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

type fakeChannel struct {
	closed     bool
	publishErr error
	sent       []amqp.Publishing
	keys       []string
}

func (c *fakeChannel) ExchangeDeclare(string, string, bool, bool, bool, bool, amqp.Table) error {
	return nil
}

func (c *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	if c.publishErr != nil {
		return c.publishErr
	}
	c.keys = append(c.keys, key)
	c.sent = append(c.sent, msg)
	return nil
}

func (c *fakeChannel) IsClosed() bool { return c.closed }

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

// broker hands out the queued channels in order, one per dial.
type broker struct {
	channels []*fakeChannel
	conns    []*fakeConn
	dialErr  error
	dials    int
}

func (b *broker) dial(string) (io.Closer, amqpChannel, error) {
	b.dials++
	if b.dialErr != nil {
		return nil, nil, b.dialErr
	}
	ch := b.channels[0]
	b.channels = b.channels[1:]
	conn := &fakeConn{}
	b.conns = append(b.conns, conn)
	return conn, ch, nil
}

func TestPublisherRetriesOnClosedChannel(t *testing.T) {
	stale := &fakeChannel{publishErr: amqp.ErrClosed}
	fresh := &fakeChannel{}
	b := &broker{channels: []*fakeChannel{stale, fresh}}
	p, err := newPublisher("amqp://test", "maidaan.matches", b.dial)
	if err != nil {
		t.Fatalf("new publisher: %v", err)
	}

	if err := p.PublishJSON(context.Background(), "match.booked", map[string]int{"match_id": 42}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if b.dials != 2 {
		t.Fatalf("dials = %d, want 2", b.dials)
	}
	if !stale.closed || !b.conns[0].closed {
		t.Fatal("stale channel and connection must be closed")
	}
	if len(fresh.sent) != 1 || fresh.keys[0] != "match.booked" {
		t.Fatalf("fresh channel got %v", fresh.keys)
	}
	var body map[string]int
	if err := json.Unmarshal(fresh.sent[0].Body, &body); err != nil || body["match_id"] != 42 {
		t.Fatalf("body = %s", fresh.sent[0].Body)
	}
	if fresh.sent[0].DeliveryMode != amqp.Persistent || fresh.sent[0].ContentType != "application/json" {
		t.Fatalf("unexpected message %+v", fresh.sent[0])
	}
}

func TestPublisherRedialsAfterBrokerClose(t *testing.T) {
	first := &fakeChannel{}
	second := &fakeChannel{}
	b := &broker{channels: []*fakeChannel{first, second}}
	p, err := newPublisher("amqp://test", "maidaan.matches", b.dial)
	if err != nil {
		t.Fatalf("new publisher: %v", err)
	}
	ctx := context.Background()

	if err := p.PublishJSON(ctx, "match.booked", 1); err != nil {
		t.Fatalf("publish: %v", err)
	}
	first.closed = true

	b.dialErr = errors.New("connection refused")
	if err := p.PublishJSON(ctx, "match.paid", 2); err == nil {
		t.Fatal("publish must fail while the broker is down")
	}
	b.dialErr = nil
	if err := p.PublishJSON(ctx, "match.cancelled", 3); err != nil {
		t.Fatalf("publish after broker recovery: %v", err)
	}
	if len(first.keys) != 1 || len(second.keys) != 1 || second.keys[0] != "match.cancelled" {
		t.Fatalf("first %v second %v", first.keys, second.keys)
	}
	if b.dials != 3 {
		t.Fatalf("dials = %d, want 3", b.dials)
	}
}

func TestPublisherDoesNotRetryOtherErrors(t *testing.T) {
	ch := &fakeChannel{publishErr: errors.New("frame too large")}
	b := &broker{channels: []*fakeChannel{ch}}
	p, err := newPublisher("amqp://test", "maidaan.matches", b.dial)
	if err != nil {
		t.Fatalf("new publisher: %v", err)
	}
	if err := p.PublishJSON(context.Background(), "match.booked", 1); err == nil {
		t.Fatal("expected publish error")
	}
	if b.dials != 1 {
		t.Fatalf("dials = %d, want 1", b.dials)
	}
}
