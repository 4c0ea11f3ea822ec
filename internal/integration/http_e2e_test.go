//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	server "homescape/internal/adapters/http_server"
	"homescape/internal/adapters/notify"
	redisad "homescape/internal/adapters/redis"
	"homescape/internal/app"
	"homescape/internal/domain"
	mysqlrepo "homescape/internal/storage/mysql"
	"homescape/internal/storage/mysql/mysqltest"
	"homescape/internal/storage/static"
)

// Seeds MySQL from the bundled dataset, then browses, edits and re-reads
// through the real router with a Redis-backed cache in front.
func TestHTTP_EndToEnd_MySQLWithCache(t *testing.T) {
	repo := mysqlrepo.New(mysqltest.Open(t))
	ctx := context.Background()

	seed, err := static.Dataset()
	if err != nil {
		t.Fatalf("dataset: %v", err)
	}
	for _, p := range seed {
		if err := repo.Upsert(ctx, p); err != nil {
			t.Fatalf("Upsert %d: %v", p.ID, err)
		}
	}

	mr := miniredis.RunT(t)
	cache := redisad.New(mr.Addr(), "", 0)
	q := app.NewQueryService(repo, cache, time.Minute)
	cmd := app.NewCommandService(repo, cache)

	srv := server.New()
	srv.MountHandlers(&server.Handlers{
		Q:     q,
		C:     cmd,
		S:     app.NewSavedService(redisad.NewSavedStore(cache.Client()), q),
		Notes: notify.NewFeed(10),
	})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	browse := func(query string) []domain.Property {
		t.Helper()
		res, err := http.Get(ts.URL + "/v1/properties" + query)
		if err != nil {
			t.Fatalf("GET: %v", err)
		}
		defer res.Body.Close()
		if res.StatusCode != http.StatusOK {
			t.Fatalf("status %d", res.StatusCode)
		}
		var ps []domain.Property
		if err := json.NewDecoder(res.Body).Decode(&ps); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return ps
	}

	if got := browse("?type=Condo"); len(got) != 2 {
		t.Fatalf("expected 2 condos, got %d", len(got))
	}
	if !mr.Exists("properties:all") {
		t.Fatalf("browse should populate the cache")
	}

	req, _ := http.NewRequest(http.MethodPatch, fmt.Sprintf("%s/v1/properties/%d", ts.URL, 3),
		strings.NewReader(`{"propertyType":"Condo"}`))
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PATCH: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("PATCH status %d", res.StatusCode)
	}

	if got := browse("?type=Condo"); len(got) != 3 {
		t.Fatalf("cache should have been invalidated, got %d condos", len(got))
	}
}
