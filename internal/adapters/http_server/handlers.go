// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"homescape/internal/app"
	"homescape/internal/domain"
)

const clientHeader = "X-Client-ID"

// NotificationSource exposes the recent user-facing notifications.
type NotificationSource interface {
	Recent(limit int) []domain.Notification
}

type Handlers struct {
	Q     *app.QueryService
	C     *app.CommandService
	S     *app.SavedService
	Notes NotificationSource
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type filterOptions struct {
	PropertyTypes  []string              `json:"propertyTypes"`
	Bedrooms       []string              `json:"bedrooms"`
	Bathrooms      []string              `json:"bathrooms"`
	PriceRange     domain.PriceRange     `json:"priceRange"`
	DefaultFilters domain.FilterCriteria `json:"defaultFilters"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/v1/properties", func(r chi.Router) {
		r.Get("/", h.listProperties)
		r.Post("/", h.createProperty)
		r.Get("/{id}", h.getProperty)
		r.Patch("/{id}", h.updateProperty)
		r.Delete("/{id}", h.deleteProperty)
	})
	s.mux.Get("/v1/saved", h.listSaved)
	s.mux.Put("/v1/saved/{id}", h.saveProperty)
	s.mux.Delete("/v1/saved/{id}", h.unsaveProperty)
	s.mux.Get("/v1/notifications", h.listNotifications)
	s.mux.Get("/v1/filters", h.filterOptions)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps domain sentinels onto problem responses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalid):
		writeProblem(w, http.StatusBadRequest, "Invalid Request", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "property not found")
	case errors.Is(err, app.ErrSavedUnavailable):
		writeProblem(w, http.StatusServiceUnavailable, "Unavailable", err.Error())
	case errors.Is(err, domain.ErrLoad), errors.Is(err, domain.ErrOperation):
		writeProblem(w, http.StatusBadGateway, "Upstream Failure", err.Error())
	default:
		log.Error().Err(err).Msg("unhandled error")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// parseCriteria reads browse filters from the query string, starting from
// the default criteria. Tokens outside the offered vocabularies are rejected.
func parseCriteria(r *http.Request) (domain.FilterCriteria, error) {
	q := r.URL.Query()
	c := domain.DefaultCriteria()

	price := func(key string, dst *int64) error {
		v := strings.TrimSpace(q.Get(key))
		if v == "" {
			return nil
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			return errors.New(key + " must be a non-negative integer")
		}
		*dst = n
		return nil
	}
	if err := price("minPrice", &c.PriceRange.Min); err != nil {
		return c, err
	}
	if err := price("maxPrice", &c.PriceRange.Max); err != nil {
		return c, err
	}

	for _, t := range q["type"] {
		if t = strings.TrimSpace(t); t != "" {
			c.PropertyTypes = append(c.PropertyTypes, t)
		}
	}

	if b := q.Get("bedrooms"); b != "" {
		if !domain.ValidToken(b, domain.BedroomTokens) {
			return c, errors.New("bedrooms must be one of " + strings.Join(domain.BedroomTokens, ", "))
		}
		c.Bedrooms = b
	}
	if b := q.Get("bathrooms"); b != "" {
		if !domain.ValidToken(b, domain.BathroomTokens) {
			return c, errors.New("bathrooms must be one of " + strings.Join(domain.BathroomTokens, ", "))
		}
		c.Bathrooms = b
	}
	if sf := strings.TrimSpace(q.Get("squareFeet")); sf != "" {
		if n, err := strconv.Atoi(sf); err != nil || n < 0 {
			return c, errors.New("squareFeet must be a non-negative integer")
		}
		c.SquareFeet = sf
	}

	c.Location = q.Get("location")
	if c.Location == "" {
		c.Location = q.Get("search")
	}
	return c, nil
}

func (h *Handlers) listProperties(w http.ResponseWriter, r *http.Request) {
	c, err := parseCriteria(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid filter", err.Error())
		return
	}
	out, err := h.Q.Browse(r.Context(), c)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) getProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	p, err := h.Q.GetProperty(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	etag, body := calcETagAndBody(p)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write getProperty body")
	}
}

func (h *Handlers) createProperty(w http.ResponseWriter, r *http.Request) {
	var draft domain.Property
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "body must be a JSON property")
		return
	}
	draft.ID = 0
	p, err := h.C.Create(r.Context(), draft)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handlers) updateProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	var patch domain.PropertyPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "body must be a JSON object of property fields")
		return
	}
	p, err := h.C.Update(r.Context(), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handlers) deleteProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	deleted, err := h.C.Delete(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !deleted {
		writeProblem(w, http.StatusNotFound, "Not Found", "nothing was deleted")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func clientID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(r.Header.Get(clientHeader))
	if id == "" {
		writeProblem(w, http.StatusBadRequest, "Missing client", clientHeader+" header is required")
		return "", false
	}
	return id, true
}

func (h *Handlers) listSaved(w http.ResponseWriter, r *http.Request) {
	cid, ok := clientID(w, r)
	if !ok {
		return
	}
	out, err := h.S.List(r.Context(), cid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) saveProperty(w http.ResponseWriter, r *http.Request) {
	cid, ok := clientID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	if err := h.S.Save(r.Context(), cid, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) unsaveProperty(w http.ResponseWriter, r *http.Request) {
	cid, ok := clientID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	if err := h.S.Remove(r.Context(), cid, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) listNotifications(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 200 {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 200")
			return
		}
		limit = l
	}
	out := []domain.Notification{}
	if h.Notes != nil {
		out = h.Notes.Recent(limit)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) filterOptions(w http.ResponseWriter, r *http.Request) {
	d := domain.DefaultCriteria()
	writeJSON(w, http.StatusOK, filterOptions{
		PropertyTypes:  domain.PropertyTypes,
		Bedrooms:       domain.BedroomTokens,
		Bathrooms:      domain.BathroomTokens,
		PriceRange:     d.PriceRange,
		DefaultFilters: d,
	})
}
