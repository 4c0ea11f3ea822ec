package remote

import (
	"strconv"
	"strings"

	"homescape/internal/domain"
)

/********** field registry (single source of truth) **********/

const fieldID = "Id"

// internal JSON name -> record store column
var columns = map[string]string{
	"title":        "title",
	"price":        "price",
	"address":      "address",
	"city":         "city",
	"state":        "state",
	"zipCode":      "zip_code",
	"propertyType": "property_type",
	"bedrooms":     "bedrooms",
	"bathrooms":    "bathrooms",
	"squareFeet":   "square_feet",
	"yearBuilt":    "year_built",
	"description":  "description",
	"images":       "images",
	"features":     "features",
	"listingDate":  "listing_date",
	"status":       "status",
}

// selectFields is the projection requested on every read.
func selectFields() []string {
	return []string{
		fieldID,
		columns["title"], columns["price"], columns["address"], columns["city"],
		columns["state"], columns["zipCode"], columns["propertyType"], columns["bedrooms"],
		columns["bathrooms"], columns["squareFeet"], columns["yearBuilt"], columns["description"],
		columns["images"], columns["features"], columns["listingDate"], columns["status"],
	}
}

/********** tiny helpers **********/

func str(r domain.Record, col string) string {
	switch v := r[col].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

// num reads a JSON number; stores sometimes send numeric columns as strings.
func num(r domain.Record, col string) float64 {
	switch v := r[col].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return 0
}

// splitLines decodes a newline-joined list, dropping blank segments.
func splitLines(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, "\n") {
		if strings.TrimSpace(part) != "" {
			out = append(out, part)
		}
	}
	return out
}

func joinLines(xs []string) string { return strings.Join(xs, "\n") }

/********** record -> property **********/

func fromRecord(r domain.Record) domain.Property {
	return domain.Property{
		ID:           int64(num(r, fieldID)),
		Title:        str(r, columns["title"]),
		Price:        int64(num(r, columns["price"])),
		Address:      str(r, columns["address"]),
		City:         str(r, columns["city"]),
		State:        str(r, columns["state"]),
		ZipCode:      str(r, columns["zipCode"]),
		PropertyType: str(r, columns["propertyType"]),
		Bedrooms:     int(num(r, columns["bedrooms"])),
		Bathrooms:    num(r, columns["bathrooms"]),
		SquareFeet:   int(num(r, columns["squareFeet"])),
		YearBuilt:    int(num(r, columns["yearBuilt"])),
		Description:  str(r, columns["description"]),
		Images:       splitLines(str(r, columns["images"])),
		Features:     splitLines(str(r, columns["features"])),
		ListingDate:  str(r, columns["listingDate"]),
		Status:       str(r, columns["status"]),
	}
}

/********** property -> record **********/

// toRecord maps every field of p; identity is left to the store.
func toRecord(p domain.Property) domain.Record {
	return domain.Record{
		columns["title"]:        p.Title,
		columns["price"]:        p.Price,
		columns["address"]:      p.Address,
		columns["city"]:         p.City,
		columns["state"]:        p.State,
		columns["zipCode"]:      p.ZipCode,
		columns["propertyType"]: p.PropertyType,
		columns["bedrooms"]:     p.Bedrooms,
		columns["bathrooms"]:    p.Bathrooms,
		columns["squareFeet"]:   p.SquareFeet,
		columns["yearBuilt"]:    p.YearBuilt,
		columns["description"]:  p.Description,
		columns["images"]:       joinLines(p.Images),
		columns["features"]:     joinLines(p.Features),
		columns["listingDate"]:  p.ListingDate,
		columns["status"]:       p.Status,
	}
}

// patchRecord maps only the fields present in pt. Presence, not value,
// decides inclusion: a present 0 or "" is sent.
func patchRecord(id int64, pt domain.PropertyPatch) domain.Record {
	r := domain.Record{fieldID: id}
	if pt.Title != nil {
		r[columns["title"]] = *pt.Title
	}
	if pt.Price != nil {
		r[columns["price"]] = *pt.Price
	}
	if pt.Address != nil {
		r[columns["address"]] = *pt.Address
	}
	if pt.City != nil {
		r[columns["city"]] = *pt.City
	}
	if pt.State != nil {
		r[columns["state"]] = *pt.State
	}
	if pt.ZipCode != nil {
		r[columns["zipCode"]] = *pt.ZipCode
	}
	if pt.PropertyType != nil {
		r[columns["propertyType"]] = *pt.PropertyType
	}
	if pt.Bedrooms != nil {
		r[columns["bedrooms"]] = *pt.Bedrooms
	}
	if pt.Bathrooms != nil {
		r[columns["bathrooms"]] = *pt.Bathrooms
	}
	if pt.SquareFeet != nil {
		r[columns["squareFeet"]] = *pt.SquareFeet
	}
	if pt.YearBuilt != nil {
		r[columns["yearBuilt"]] = *pt.YearBuilt
	}
	if pt.Description != nil {
		r[columns["description"]] = *pt.Description
	}
	if pt.Images != nil {
		r[columns["images"]] = joinLines(*pt.Images)
	}
	if pt.Features != nil {
		r[columns["features"]] = joinLines(*pt.Features)
	}
	if pt.ListingDate != nil {
		r[columns["listingDate"]] = *pt.ListingDate
	}
	if pt.Status != nil {
		r[columns["status"]] = *pt.Status
	}
	return r
}
