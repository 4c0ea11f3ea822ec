// internal/adapters/apper/client.go
package apper

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"homescape/internal/adapters/observability"
	"homescape/internal/domain"
)

const service = "apper"

// Client talks to the hosted record store. It satisfies domain.RecordClient.
type Client struct {
	base      string
	projectID string
	publicKey string
	hc        *http.Client
	rl        *rate.Limiter
}

func New(base, projectID, publicKey string, rps int) (*Client, error) {
	if projectID == "" || publicKey == "" {
		return nil, fmt.Errorf("project id and public key are required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base:      strings.TrimRight(base, "/"),
		projectID: projectID,
		publicKey: publicKey,
		hc:        &http.Client{Timeout: 20 * time.Second},
		rl:        rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// ---- Public API ----

func (c *Client) FetchRecords(ctx context.Context, table string, q domain.FetchParams) (domain.FetchResponse, error) {
	var out domain.FetchResponse
	err := c.do(ctx, http.MethodPost, c.recordsURL(table)+"/query", q, &out, "fetch", true)
	return out, err
}

func (c *Client) GetRecordByID(ctx context.Context, table string, id int64, fields []string) (domain.RecordResponse, error) {
	u := fmt.Sprintf("%s/%d", c.recordsURL(table), id)
	if len(fields) > 0 {
		u += "?fields=" + url.QueryEscape(strings.Join(fields, ","))
	}
	var out domain.RecordResponse
	err := c.do(ctx, http.MethodGet, u, nil, &out, "get", true)
	if errors.Is(err, ErrNotFound) {
		// absence of data, not a transport failure
		return domain.RecordResponse{Success: true}, nil
	}
	return out, err
}

func (c *Client) CreateRecord(ctx context.Context, table string, records []domain.Record) (domain.MutationResponse, error) {
	var out domain.MutationResponse
	err := c.do(ctx, http.MethodPost, c.recordsURL(table), map[string]any{"records": records}, &out, "create", false)
	return out, err
}

func (c *Client) UpdateRecord(ctx context.Context, table string, records []domain.Record) (domain.MutationResponse, error) {
	var out domain.MutationResponse
	err := c.do(ctx, http.MethodPatch, c.recordsURL(table), map[string]any{"records": records}, &out, "update", true)
	return out, err
}

func (c *Client) DeleteRecord(ctx context.Context, table string, ids []int64) (domain.MutationResponse, error) {
	var out domain.MutationResponse
	err := c.do(ctx, http.MethodDelete, c.recordsURL(table), map[string]any{"RecordIds": ids}, &out, "delete", true)
	return out, err
}

// ---- Internals ----

var (
	ErrNotFound     = errors.New("apper: not found")
	ErrUnauthorized = errors.New("apper: unauthorized")
	ErrForbidden    = errors.New("apper: forbidden")
)

func (c *Client) recordsURL(table string) string {
	return fmt.Sprintf("%s/projects/%s/tables/%s/records", c.base, url.PathEscape(c.projectID), url.PathEscape(table))
}

// do sends one JSON request with client-side rate limiting and decodes the
// response into out. Retries on 429 always, and on transient 5xx or network
// errors only when retryable is set, honoring Retry-After when provided.
func (c *Client) do(ctx context.Context, method, target string, body, out any, endpoint string, retryable bool) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", endpoint, err)
		}
		payload = b
	}

	var lastErr error
	for i := 0; i < 4; i++ {
		// build a fresh request each attempt
		var rdr io.Reader
		if payload != nil {
			rdr = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, target, rdr)
		if err != nil {
			return err
		}
		req.Header.Set("X-Project-Id", c.projectID)
		req.Header.Set("X-Public-Key", c.publicKey)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "homescape/1.0")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal(service, endpoint, 0, time.Since(start))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if retryable && i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal(service, endpoint, resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK, http.StatusCreated, http.StatusAccepted:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("decode %s response: %w", endpoint, err)
			}
			return nil

		case http.StatusNoContent:
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil

		case http.StatusNotFound:
			resp.Body.Close()
			return ErrNotFound

		case http.StatusUnauthorized:
			resp.Body.Close()
			return ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			return ErrForbidden

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			// a 429 was rejected before processing, so even creates can be resent
			if !retryable && resp.StatusCode != http.StatusTooManyRequests {
				return lastErr
			}
			if wait == 0 {
				wait = backoff(i)
			}
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return lastErr
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles from 200ms per attempt with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
