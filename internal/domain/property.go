package domain

// Property is a single real-estate listing.
type Property struct {
	ID           int64    `json:"Id"`
	Title        string   `json:"title"`
	Price        int64    `json:"price"`
	Address      string   `json:"address"`
	City         string   `json:"city"`
	State        string   `json:"state"`
	ZipCode      string   `json:"zipCode"`
	PropertyType string   `json:"propertyType"`
	Bedrooms     int      `json:"bedrooms"`
	Bathrooms    float64  `json:"bathrooms"`
	SquareFeet   int      `json:"squareFeet"`
	YearBuilt    int      `json:"yearBuilt"`
	Description  string   `json:"description"`
	Images       []string `json:"images"`
	Features     []string `json:"features"`
	ListingDate  string   `json:"listingDate"` // ISO-8601
	Status       string   `json:"status"`
}

const DefaultStatus = "For Sale"

// PropertyPatch carries a partial update. A nil field is absent and left
// untouched; a non-nil field is applied even when it holds a zero value.
type PropertyPatch struct {
	Title        *string   `json:"title,omitempty"`
	Price        *int64    `json:"price,omitempty"`
	Address      *string   `json:"address,omitempty"`
	City         *string   `json:"city,omitempty"`
	State        *string   `json:"state,omitempty"`
	ZipCode      *string   `json:"zipCode,omitempty"`
	PropertyType *string   `json:"propertyType,omitempty"`
	Bedrooms     *int      `json:"bedrooms,omitempty"`
	Bathrooms    *float64  `json:"bathrooms,omitempty"`
	SquareFeet   *int      `json:"squareFeet,omitempty"`
	YearBuilt    *int      `json:"yearBuilt,omitempty"`
	Description  *string   `json:"description,omitempty"`
	Images       *[]string `json:"images,omitempty"`
	Features     *[]string `json:"features,omitempty"`
	ListingDate  *string   `json:"listingDate,omitempty"`
	Status       *string   `json:"status,omitempty"`
}

// Apply returns a copy of p with every present patch field merged over it.
func (pt PropertyPatch) Apply(p Property) Property {
	out := p.Clone()
	if pt.Title != nil {
		out.Title = *pt.Title
	}
	if pt.Price != nil {
		out.Price = *pt.Price
	}
	if pt.Address != nil {
		out.Address = *pt.Address
	}
	if pt.City != nil {
		out.City = *pt.City
	}
	if pt.State != nil {
		out.State = *pt.State
	}
	if pt.ZipCode != nil {
		out.ZipCode = *pt.ZipCode
	}
	if pt.PropertyType != nil {
		out.PropertyType = *pt.PropertyType
	}
	if pt.Bedrooms != nil {
		out.Bedrooms = *pt.Bedrooms
	}
	if pt.Bathrooms != nil {
		out.Bathrooms = *pt.Bathrooms
	}
	if pt.SquareFeet != nil {
		out.SquareFeet = *pt.SquareFeet
	}
	if pt.YearBuilt != nil {
		out.YearBuilt = *pt.YearBuilt
	}
	if pt.Description != nil {
		out.Description = *pt.Description
	}
	if pt.Images != nil {
		out.Images = copyList(*pt.Images)
	}
	if pt.Features != nil {
		out.Features = copyList(*pt.Features)
	}
	if pt.ListingDate != nil {
		out.ListingDate = *pt.ListingDate
	}
	if pt.Status != nil {
		out.Status = *pt.Status
	}
	return out
}

// Empty reports whether no field is present.
func (pt PropertyPatch) Empty() bool {
	return pt == PropertyPatch{}
}

// Clone copies p including its slices so callers can't alias store state.
// Missing lists come back empty so they encode as [] rather than null.
func (p Property) Clone() Property {
	out := p
	out.Images = copyList(p.Images)
	out.Features = copyList(p.Features)
	return out
}

func copyList(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
