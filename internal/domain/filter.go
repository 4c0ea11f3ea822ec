package domain

import (
	"strconv"
	"strings"
)

type PriceRange struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// FilterCriteria describes the active browse constraints. Empty string
// fields impose no restriction.
type FilterCriteria struct {
	PriceRange    PriceRange `json:"priceRange"`
	PropertyTypes []string   `json:"propertyTypes"`
	Bedrooms      string     `json:"bedrooms"`   // "", "1".."4", "5+"
	Bathrooms     string     `json:"bathrooms"`  // "", "1", "1.5", ..., "3.5", "4+"
	SquareFeet    string     `json:"squareFeet"` // minimum bound
	Location      string     `json:"location"`
}

const (
	DefaultMinPrice int64 = 0
	DefaultMaxPrice int64 = 2_000_000

	BedroomsAtLeast  = "5+"
	BathroomsAtLeast = "4+"
)

// Vocabularies offered to clients.
var (
	PropertyTypes  = []string{"Single Family", "Condo", "Townhouse", "Multi-Family", "Luxury", "Commercial"}
	BedroomTokens  = []string{"1", "2", "3", "4", BedroomsAtLeast}
	BathroomTokens = []string{"1", "1.5", "2", "2.5", "3", "3.5", BathroomsAtLeast}
)

func DefaultCriteria() FilterCriteria {
	return FilterCriteria{
		PriceRange:    PriceRange{Min: DefaultMinPrice, Max: DefaultMaxPrice},
		PropertyTypes: []string{},
	}
}

// FilterProperties returns the properties matching every active criterion,
// in input order. The input slice is never modified.
func FilterProperties(ps []Property, c FilterCriteria) []Property {
	m := newMatcher(c)
	out := make([]Property, 0, len(ps))
	for _, p := range ps {
		if m.match(p) {
			out = append(out, p)
		}
	}
	return out
}

// matcher holds the criteria with tokens parsed once per evaluation.
type matcher struct {
	c FilterCriteria

	types map[string]struct{}

	bedsAny, bedsMin bool
	beds             int
	bedsOK           bool

	bathsAny, bathsMin bool
	baths              float64
	bathsOK            bool

	sqftAny bool
	sqft    int

	location string
}

func newMatcher(c FilterCriteria) matcher {
	m := matcher{c: c}

	if len(c.PropertyTypes) > 0 {
		m.types = make(map[string]struct{}, len(c.PropertyTypes))
		for _, t := range c.PropertyTypes {
			m.types[t] = struct{}{}
		}
	}

	switch c.Bedrooms {
	case "":
		m.bedsAny = true
	case BedroomsAtLeast:
		m.bedsMin = true
	default:
		n, err := strconv.Atoi(c.Bedrooms)
		m.beds, m.bedsOK = n, err == nil
	}

	switch c.Bathrooms {
	case "":
		m.bathsAny = true
	case BathroomsAtLeast:
		m.bathsMin = true
	default:
		f, err := strconv.ParseFloat(c.Bathrooms, 64)
		m.baths, m.bathsOK = f, err == nil
	}

	if c.SquareFeet == "" {
		m.sqftAny = true
	} else if n, err := strconv.Atoi(c.SquareFeet); err == nil {
		m.sqft = n
	} else {
		// an unparseable minimum never excludes anything
		m.sqftAny = true
	}

	m.location = strings.ToLower(strings.TrimSpace(c.Location))
	return m
}

func (m matcher) match(p Property) bool {
	if p.Price < m.c.PriceRange.Min || p.Price > m.c.PriceRange.Max {
		return false
	}
	if m.types != nil {
		if _, ok := m.types[p.PropertyType]; !ok {
			return false
		}
	}
	if !m.bedsAny {
		if m.bedsMin {
			if p.Bedrooms < 5 {
				return false
			}
		} else if !m.bedsOK || p.Bedrooms != m.beds {
			return false
		}
	}
	if !m.bathsAny {
		if m.bathsMin {
			if p.Bathrooms < 4 {
				return false
			}
		} else if !m.bathsOK || p.Bathrooms != m.baths {
			return false
		}
	}
	if !m.sqftAny && p.SquareFeet < m.sqft {
		return false
	}
	if m.location != "" && !strings.Contains(SearchableText(p), m.location) {
		return false
	}
	return true
}

// SearchableText is the lowercased location text matched by Location.
func SearchableText(p Property) string {
	return strings.ToLower(p.Address + " " + p.City + " " + p.State + " " + p.ZipCode)
}

// ValidToken reports whether tok is "" or a member of vocab.
func ValidToken(tok string, vocab []string) bool {
	if tok == "" {
		return true
	}
	for _, v := range vocab {
		if v == tok {
			return true
		}
	}
	return false
}
