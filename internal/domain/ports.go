package domain

import (
	"context"
	"time"
)

// PropertyRepository is the data access boundary. Implementations hide
// whether listings live in memory, in MySQL or in the remote record store.
type PropertyRepository interface {
	GetAll(ctx context.Context) ([]Property, error)
	GetByID(ctx context.Context, id int64) (Property, error)
	Create(ctx context.Context, draft Property) (Property, error)
	Update(ctx context.Context, id int64, patch PropertyPatch) (Property, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// RecordClient is the capability exposed by the hosted record store.
// Records travel in the store's own field naming.
type RecordClient interface {
	FetchRecords(ctx context.Context, table string, q FetchParams) (FetchResponse, error)
	GetRecordByID(ctx context.Context, table string, id int64, fields []string) (RecordResponse, error)
	CreateRecord(ctx context.Context, table string, records []Record) (MutationResponse, error)
	UpdateRecord(ctx context.Context, table string, records []Record) (MutationResponse, error)
	DeleteRecord(ctx context.Context, table string, ids []int64) (MutationResponse, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// SavedStore keeps each client's saved property IDs, most recent first.
type SavedStore interface {
	List(ctx context.Context, clientID string) ([]int64, error)
	Add(ctx context.Context, clientID string, id int64) error
	Remove(ctx context.Context, clientID string, id int64) error
}

// Notifier is the user-visible side channel for operation outcomes.
type Notifier interface {
	Notify(ctx context.Context, level NotificationLevel, msg string)
}

// ---- record store wire shapes ----

type Record map[string]any

type OrderBy struct {
	Field     string `json:"fieldName"`
	Direction string `json:"sorttype"` // ASC|DESC
}

type Paging struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type FetchParams struct {
	Fields  []string  `json:"fields"`
	OrderBy []OrderBy `json:"orderBy,omitempty"`
	Paging  Paging    `json:"pagingInfo"`
}

type FetchResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Data    []Record `json:"data"`
}

type RecordResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    Record `json:"data"`
}

type RecordResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    Record `json:"data,omitempty"`
}

type MutationResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Results []RecordResult `json:"results"`
}

// ---- notifications ----

type NotificationLevel string

const (
	LevelSuccess NotificationLevel = "success"
	LevelError   NotificationLevel = "error"
	LevelInfo    NotificationLevel = "info"
)

type Notification struct {
	ID        string            `json:"id"`
	Level     NotificationLevel `json:"level"`
	Message   string            `json:"message"`
	CreatedAt time.Time         `json:"createdAt"`
}
