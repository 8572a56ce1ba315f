package queue

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/maidaan/maidaan/internal/logger"
	"github.com/maidaan/maidaan/internal/model"
)

func sampleEvent() MatchEvent {
	qr := model.PaymentMethodQR
	m := &model.Match{
		ID: 42, VenueID: 1, CourtID: 3, Date: "2025-09-27",
		TimeSlots: []string{"18:00-19:00", "19:00-20:00"}, Price: 3600,
		PaymentStatus: model.PaymentPaid, PaymentMethod: &qr,
	}
	return NewMatchEvent(m, "My Sports Venue", "Basketball - Court 1", 7,
		time.Date(2025, 9, 27, 12, 0, 0, 0, time.UTC))
}

func TestFormatLine(t *testing.T) {
	line, err := FormatLine(RKMatchPaid, sampleEvent())
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	for _, want := range []string{
		"[2025-09-27T12:00:00Z] Match paid",
		"match_id=42",
		"actor_id=7",
		`court="Basketball - Court 1"`,
		"slots=[18:00-19:00,19:00-20:00]",
		"price=3600",
		"method=qr",
	} {
		if !strings.Contains(line, want) {
			t.Errorf("line %q missing %q", line, want)
		}
	}
	if !strings.HasSuffix(line, "\n") {
		t.Errorf("line must end with newline")
	}
	if _, err := FormatLine("match.unknown", sampleEvent()); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestHandleWritesLine(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsumer(ConsumerConfig{}, logger.Nop())
	c.out = &buf

	body, _ := json.Marshal(sampleEvent())
	if err := c.Handle(RKMatchBooked, body); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if !strings.Contains(buf.String(), "Match booked") {
		t.Fatalf("unexpected log %q", buf.String())
	}
	if err := c.Handle(RKMatchBooked, []byte("{")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestHandleAppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "booking.log")
	c := NewConsumer(ConsumerConfig{LogPath: path}, logger.Nop())
	body, _ := json.Marshal(sampleEvent())
	for _, key := range []string{RKMatchBooked, RKMatchCancelled} {
		if err := c.Handle(key, body); err != nil {
			t.Fatalf("handle %s: %v", key, err)
		}
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if n := strings.Count(string(b), "\n"); n != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", n, b)
	}
}
