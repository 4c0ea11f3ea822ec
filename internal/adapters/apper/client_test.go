package apper_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"homescape/internal/adapters/apper"
	"homescape/internal/domain"
)

func newClient(t *testing.T, url string) *apper.Client {
	t.Helper()
	cl, err := apper.New(url, "proj-1", "pk-1", 100) // high RPS for tests
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	return cl
}

func TestNew_RequiresCredentials(t *testing.T) {
	if _, err := apper.New("http://x", "", "pk", 1); err == nil {
		t.Fatalf("expected error without project id")
	}
	if _, err := apper.New("http://x", "p", "", 1); err == nil {
		t.Fatalf("expected error without public key")
	}
}

func TestClient_FetchRecords_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Project-Id") != "proj-1" || r.Header.Get("X-Public-Key") != "pk-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.Method != http.MethodPost || r.URL.Path != "/projects/proj-1/tables/property/records/query" {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		switch atomic.AddInt32(&hits, 1) {
		case 1, 2:
			w.WriteHeader(500)
		default:
			var q domain.FetchParams
			_ = json.NewDecoder(r.Body).Decode(&q)
			w.WriteHeader(200)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"data":    []map[string]any{{"Id": 1.0, "title": "A", "limit_seen": q.Paging.Limit}},
			})
		}
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	got, err := newClient(t, ts.URL).FetchRecords(ctx, "property", domain.FetchParams{Paging: domain.Paging{Limit: 100}})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !got.Success || len(got.Data) != 1 || got.Data[0]["title"] != "A" || got.Data[0]["limit_seen"] != 100.0 {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if atomic.LoadInt32(&hits) < 3 {
		t.Fatalf("expected at least 3 calls due to retries, got %d", hits)
	}
}

func TestClient_GetRecordByID_404IsAbsentData(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	got, err := newClient(t, ts.URL).GetRecordByID(ctx, "property", 9, []string{"Id", "title"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !got.Success || got.Data != nil {
		t.Fatalf("expected empty success, got %+v", got)
	}
}

func TestClient_CreateRecord_NotRetriedOn5xx(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	_, err := newClient(t, ts.URL).CreateRecord(context.Background(), "property", []domain.Record{{"title": "x"}})
	if err == nil || !strings.Contains(err.Error(), "502") {
		t.Fatalf("expected 502 error, got %v", err)
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Fatalf("create must not be resent after a 5xx, got %d calls", n)
	}
}

func TestClient_DeleteRecord_SendsIDs(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			RecordIds []int64 `json:"RecordIds"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if r.Method != http.MethodDelete || len(body.RecordIds) != 1 || body.RecordIds[0] != 7 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"results": []map[string]any{{"success": true}},
		})
	}))
	defer ts.Close()

	got, err := newClient(t, ts.URL).DeleteRecord(context.Background(), "property", []int64{7})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got.Results) != 1 || !got.Results[0].Success {
		t.Fatalf("unexpected results: %+v", got)
	}
}

func TestClient_Unauthorized(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	_, err := newClient(t, ts.URL).FetchRecords(context.Background(), "property", domain.FetchParams{})
	if err != apper.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
