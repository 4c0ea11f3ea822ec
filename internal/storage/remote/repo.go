// Package remote implements domain.PropertyRepository on top of the hosted
// record store. Every failure and every successful write is reported through
// the injected Notifier.
package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"homescape/internal/domain"
)

const (
	Table    = "property"
	PageSize = 100
)

type Repo struct {
	client   domain.RecordClient
	notify   domain.Notifier
	softRead bool
	now      func() time.Time
}

type Option func(*Repo)

// WithSoftReadFailure makes GetAll swallow load failures and return an empty
// list after notifying, matching the legacy client behaviour.
func WithSoftReadFailure(on bool) Option { return func(r *Repo) { r.softRead = on } }

func WithClock(now func() time.Time) Option { return func(r *Repo) { r.now = now } }

func New(c domain.RecordClient, n domain.Notifier, opts ...Option) *Repo {
	r := &Repo{client: c, notify: n, now: time.Now}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Repo) GetAll(ctx context.Context) ([]domain.Property, error) {
	resp, err := r.client.FetchRecords(ctx, Table, domain.FetchParams{
		Fields:  selectFields(),
		OrderBy: []domain.OrderBy{{Field: fieldID, Direction: "DESC"}},
		Paging:  domain.Paging{Limit: PageSize, Offset: 0},
	})
	if err == nil && !resp.Success {
		err = storeErr(resp.Message)
	}
	if err != nil {
		log.Error().Err(err).Str("table", Table).Msg("fetch properties failed")
		r.notify.Notify(ctx, domain.LevelError, "Failed to load properties")
		if r.softRead {
			return []domain.Property{}, nil
		}
		return nil, fmt.Errorf("fetch properties: %w: %v", domain.ErrLoad, err)
	}

	out := make([]domain.Property, 0, len(resp.Data))
	for _, rec := range resp.Data {
		out = append(out, fromRecord(rec))
	}
	return out, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (domain.Property, error) {
	resp, err := r.client.GetRecordByID(ctx, Table, id, selectFields())
	if err == nil && !resp.Success {
		err = storeErr(resp.Message)
	}
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("get property failed")
		r.notify.Notify(ctx, domain.LevelError, "Failed to load property")
		return domain.Property{}, fmt.Errorf("get property %d: %w: %v", id, domain.ErrLoad, err)
	}
	if len(resp.Data) == 0 {
		r.notify.Notify(ctx, domain.LevelError, "Property not found")
		return domain.Property{}, fmt.Errorf("property %d: %w", id, domain.ErrNotFound)
	}
	return fromRecord(resp.Data), nil
}

func (r *Repo) Create(ctx context.Context, draft domain.Property) (domain.Property, error) {
	if draft.ListingDate == "" {
		draft.ListingDate = r.now().UTC().Format(time.RFC3339)
	}
	if draft.Status == "" {
		draft.Status = domain.DefaultStatus
	}

	resp, err := r.client.CreateRecord(ctx, Table, []domain.Record{toRecord(draft)})
	rec, err := r.firstSuccess(ctx, "create", resp, err)
	if err != nil {
		return domain.Property{}, err
	}
	r.notify.Notify(ctx, domain.LevelSuccess, "Property created successfully")
	return fromRecord(rec), nil
}

func (r *Repo) Update(ctx context.Context, id int64, patch domain.PropertyPatch) (domain.Property, error) {
	resp, err := r.client.UpdateRecord(ctx, Table, []domain.Record{patchRecord(id, patch)})
	rec, err := r.firstSuccess(ctx, "update", resp, err)
	if err != nil {
		return domain.Property{}, err
	}
	r.notify.Notify(ctx, domain.LevelSuccess, "Property updated successfully")
	return fromRecord(rec), nil
}

func (r *Repo) Delete(ctx context.Context, id int64) (bool, error) {
	resp, err := r.client.DeleteRecord(ctx, Table, []int64{id})
	if err == nil && !resp.Success {
		err = storeErr(resp.Message)
	}
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("delete property failed")
		r.notify.Notify(ctx, domain.LevelError, "Failed to delete property")
		return false, fmt.Errorf("delete property %d: %w: %v", id, domain.ErrOperation, err)
	}

	deleted := 0
	for _, res := range resp.Results {
		if res.Success {
			deleted++
			continue
		}
		r.notify.Notify(ctx, domain.LevelError, resultMessage(res, "Failed to delete property"))
	}
	if deleted == 0 {
		return false, nil
	}
	r.notify.Notify(ctx, domain.LevelSuccess, "Property deleted successfully")
	return true, nil
}

// firstSuccess unwraps a single-record mutation, notifying each failure.
func (r *Repo) firstSuccess(ctx context.Context, op string, resp domain.MutationResponse, err error) (domain.Record, error) {
	if err == nil && !resp.Success {
		err = storeErr(resp.Message)
	}
	if err != nil {
		log.Error().Err(err).Str("op", op).Msg("property mutation failed")
		r.notify.Notify(ctx, domain.LevelError, fmt.Sprintf("Failed to %s property", op))
		return nil, fmt.Errorf("%s property: %w: %v", op, domain.ErrOperation, err)
	}

	var (
		out   domain.Record
		found bool
	)
	for _, res := range resp.Results {
		if !res.Success {
			r.notify.Notify(ctx, domain.LevelError, resultMessage(res, fmt.Sprintf("Failed to %s property", op)))
			continue
		}
		if len(res.Data) == 0 {
			log.Warn().Str("op", op).Msg("successful mutation result carried no record")
			continue
		}
		if !found {
			out, found = res.Data, true
		}
	}
	if !found {
		log.Warn().Str("op", op).Int("results", len(resp.Results)).Msg("no successful record in mutation response")
		return nil, fmt.Errorf("%s property: %w: no successful result", op, domain.ErrOperation)
	}
	return out, nil
}

func resultMessage(res domain.RecordResult, def string) string {
	if res.Message != "" {
		return res.Message
	}
	return def
}

func storeErr(msg string) error {
	if msg == "" {
		msg = "record store reported failure"
	}
	return errors.New(msg)
}
