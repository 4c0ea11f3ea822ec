package notify_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"homescape/internal/adapters/notify"
	"homescape/internal/domain"
)

func TestFeed_NewestFirst(t *testing.T) {
	f := notify.NewFeed(10)
	ctx := context.Background()
	f.Notify(ctx, domain.LevelSuccess, "created")
	f.Notify(ctx, domain.LevelError, "failed")

	got := f.Recent(0)
	if len(got) != 2 {
		t.Fatalf("expected 2, got %d", len(got))
	}
	if got[0].Message != "failed" || got[0].Level != domain.LevelError || got[1].Message != "created" {
		t.Fatalf("unexpected order: %+v", got)
	}
	if got[0].ID == "" || got[0].ID == got[1].ID {
		t.Fatalf("ids must be unique: %q %q", got[0].ID, got[1].ID)
	}
}

func TestFeed_WrapsAtCapacity(t *testing.T) {
	f := notify.NewFeed(3)
	for i := 0; i < 5; i++ {
		f.Notify(context.Background(), domain.LevelInfo, fmt.Sprintf("n%d", i))
	}
	got := f.Recent(0)
	if len(got) != 3 {
		t.Fatalf("expected 3, got %d", len(got))
	}
	for i, want := range []string{"n4", "n3", "n2"} {
		if got[i].Message != want {
			t.Fatalf("pos %d: want %s got %s", i, want, got[i].Message)
		}
	}
	if lim := f.Recent(1); len(lim) != 1 || lim[0].Message != "n4" {
		t.Fatalf("limit: %+v", lim)
	}
}

func TestFeed_Empty(t *testing.T) {
	if got := notify.NewFeed(0).Recent(5); len(got) != 0 {
		t.Fatalf("expected empty, got %+v", got)
	}
}

func TestFeed_LogKeepsSeverityAndNotifyLevelApart(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	notify.NewFeed(2).Notify(context.Background(), domain.LevelError, "Property not found")

	line := strings.TrimSpace(buf.String())
	if n := strings.Count(line, `"level":`); n != 1 {
		t.Fatalf("expected one level key, got %d in %s", n, line)
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		t.Fatalf("log line not JSON: %v (%q)", err, line)
	}
	if rec["level"] != "warn" || rec["notify_level"] != "error" || rec["notification_id"] == "" {
		t.Fatalf("unexpected log record: %+v", rec)
	}
}
