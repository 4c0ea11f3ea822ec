package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"homescape/internal/domain"
)

// Repo is the durable PropertyRepository. images and features live in JSON
// columns.
type Repo struct {
	db  *sql.DB
	now func() time.Time
}

func New(db *sql.DB) *Repo { return &Repo{db: db, now: time.Now} }

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProperty(s rowScanner) (domain.Property, error) {
	var p domain.Property
	var imagesJSON, featuresJSON []byte
	if err := s.Scan(
		&p.ID, &p.Title, &p.Price,
		&p.Address, &p.City, &p.State, &p.ZipCode,
		&p.PropertyType,
		&p.Bedrooms, &p.Bathrooms, &p.SquareFeet, &p.YearBuilt,
		&p.Description,
		&imagesJSON, &featuresJSON,
		&p.ListingDate, &p.Status,
	); err != nil {
		return domain.Property{}, err
	}
	var err error
	if p.Images, err = decodeList(imagesJSON); err != nil {
		return domain.Property{}, fmt.Errorf("property %d images: %w", p.ID, err)
	}
	if p.Features, err = decodeList(featuresJSON); err != nil {
		return domain.Property{}, fmt.Errorf("property %d features: %w", p.ID, err)
	}
	return p, nil
}

// decodeList reads a JSON string array column; NULL and JSON null read as empty.
func decodeList(b []byte) ([]string, error) {
	out := []string{}
	if len(b) > 0 {
		if err := json.Unmarshal(b, &out); err != nil {
			return nil, err
		}
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func encodeList(xs []string) string {
	if xs == nil {
		xs = []string{}
	}
	b, _ := json.Marshal(xs)
	return string(b)
}

// args returns the column values in insertPropertySQL order.
func args(p domain.Property) []any {
	return []any{
		p.Title, p.Price, p.Address, p.City, p.State, p.ZipCode,
		p.PropertyType, p.Bedrooms, p.Bathrooms, p.SquareFeet,
		p.YearBuilt, p.Description,
		encodeList(p.Images), encodeList(p.Features),
		p.ListingDate, p.Status,
	}
}

func (r *Repo) GetAll(ctx context.Context) ([]domain.Property, error) {
	rows, err := r.db.QueryContext(ctx, selectAllSQL)
	if err != nil {
		return nil, fmt.Errorf("query properties: %w: %v", domain.ErrLoad, err)
	}
	defer rows.Close()

	out := []domain.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("scan property: %w: %v", domain.ErrLoad, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate properties: %w: %v", domain.ErrLoad, err)
	}
	return out, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (domain.Property, error) {
	p, err := scanProperty(r.db.QueryRowContext(ctx, selectByIDSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Property{}, fmt.Errorf("property %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Property{}, fmt.Errorf("get property %d: %w: %v", id, domain.ErrLoad, err)
	}
	return p, nil
}

func (r *Repo) Create(ctx context.Context, draft domain.Property) (domain.Property, error) {
	p := r.withDefaults(draft)
	res, err := r.db.ExecContext(ctx, insertPropertySQL, args(p)...)
	if err != nil {
		return domain.Property{}, fmt.Errorf("insert property: %w: %v", domain.ErrOperation, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Property{}, fmt.Errorf("insert property: %w: %v", domain.ErrOperation, err)
	}
	p.ID = id
	return p, nil
}

// Upsert writes p under its own ID, replacing any existing row.
func (r *Repo) Upsert(ctx context.Context, p domain.Property) error {
	p = r.withDefaults(p)
	_, err := r.db.ExecContext(ctx, upsertPropertySQL, append([]any{p.ID}, args(p)...)...)
	if err != nil {
		return fmt.Errorf("upsert property %d: %w: %v", p.ID, domain.ErrOperation, err)
	}
	return nil
}

func (r *Repo) Update(ctx context.Context, id int64, patch domain.PropertyPatch) (domain.Property, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Property{}, fmt.Errorf("begin update: %w: %v", domain.ErrOperation, err)
	}
	defer tx.Rollback() //nolint:errcheck

	cur, err := scanProperty(tx.QueryRowContext(ctx, selectForUpdateSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Property{}, fmt.Errorf("property %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Property{}, fmt.Errorf("lock property %d: %w: %v", id, domain.ErrOperation, err)
	}

	next := patch.Apply(cur)
	if _, err := tx.ExecContext(ctx, updatePropertySQL, append(args(next), id)...); err != nil {
		return domain.Property{}, fmt.Errorf("update property %d: %w: %v", id, domain.ErrOperation, err)
	}
	if err := tx.Commit(); err != nil {
		return domain.Property{}, fmt.Errorf("commit property %d: %w: %v", id, domain.ErrOperation, err)
	}
	return next, nil
}

func (r *Repo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, deletePropertySQL, id)
	if err != nil {
		return false, fmt.Errorf("delete property %d: %w: %v", id, domain.ErrOperation, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete property %d: %w: %v", id, domain.ErrOperation, err)
	}
	if n == 0 {
		return false, fmt.Errorf("property %d: %w", id, domain.ErrNotFound)
	}
	return true, nil
}

func (r *Repo) withDefaults(p domain.Property) domain.Property {
	if p.ListingDate == "" {
		p.ListingDate = r.now().UTC().Format(time.RFC3339)
	}
	if p.Status == "" {
		p.Status = domain.DefaultStatus
	}
	return p
}
