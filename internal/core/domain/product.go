package domain

import "github.com/shopspring/decimal"

type (
	// A Product is a catalog record. Image holds the normalized JPEG
	// encoded as base64 text.
	Product struct {
		ID          int64
		Name        string
		Price       decimal.Decimal
		Available   bool
		Image       string
		Description string
		Color       string
		Size        string
	}

	// A NewProduct is the admin input for a catalog addition.
	//
	// Image is the raw uploaded picture (JPEG or PNG).
	NewProduct struct {
		Name        string
		Price       decimal.Decimal
		Available   bool
		Image       []byte
		Description string
		Color       string
		Size        string
	}

	// A ProductPatch describes a partial edit. Nil fields are left
	// unchanged, an empty Image keeps the stored one.
	ProductPatch struct {
		Name        *string
		Price       *decimal.Decimal
		Available   *bool
		Image       []byte
		Description *string
		Color       *string
		Size        *string
	}

	// A ProductUpdate is a ProductPatch with the image already normalized.
	ProductUpdate struct {
		Name        *string
		Price       *decimal.Decimal
		Available   *bool
		Image       *string
		Description *string
		Color       *string
		Size        *string
	}
)

// Empty reports whether the update changes nothing.
func (u ProductUpdate) Empty() bool {
	return u.Name == nil && u.Price == nil && u.Available == nil &&
		u.Image == nil && u.Description == nil && u.Color == nil &&
		u.Size == nil
}

// A ProductFilter narrows a catalog listing. The zero value matches all.
type ProductFilter struct {
	AvailableOnly bool
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
}

func (f ProductFilter) Match(p Product) bool {
	if f.AvailableOnly && !p.Available {
		return false
	}
	if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	return true
}
