package models

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// OthersCategory is always listed after every other category.
const OthersCategory = "Others"

type Size string

const (
	SizeXS Size = "XS"
	SizeS  Size = "S"
	SizeM  Size = "M"
	SizeL  Size = "L"
	SizeXL Size = "XL"
)

var Sizes = []Size{SizeXS, SizeS, SizeM, SizeL, SizeXL}

func (s Size) Valid() bool {
	for _, known := range Sizes {
		if s == known {
			return true
		}
	}

	return false
}

type SortOrder string

const (
	SortPriceLowToHigh SortOrder = "price_low_to_high"
	SortPriceHighToLow SortOrder = "price_high_to_low"
	SortNewestFirst    SortOrder = "newest_first"
	SortOldestFirst    SortOrder = "oldest_first"
)

type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Product struct {
	ID           int64               `json:"id"`
	CategoryID   int64               `json:"category_id"`
	CategoryName string              `json:"category_name,omitempty"`
	Name         string              `json:"name"`
	Code         string              `json:"code"`
	MinPrice     decimal.NullDecimal `json:"min_price"`
	ImageURL     string              `json:"image_url,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
}

type ProductVariant struct {
	ID            int64           `json:"id"`
	ProductID     int64           `json:"product_id"`
	Size          Size            `json:"size"`
	Material      string          `json:"material"`
	Color         string          `json:"color"`
	StockQuantity int             `json:"stock_quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Description   string          `json:"description"`
}

type ProductImage struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	URL       string `json:"url"`
	AltText   string `json:"alt_text"`
}

type ProductDetail struct {
	Product  *Product         `json:"product"`
	Category *Category        `json:"category"`
	Variants []ProductVariant `json:"variants"`
	Images   []ProductImage   `json:"images"`
	Reviews  []Review         `json:"reviews"`
}

// ProductFilter is the normalized form of the listing query string.
type ProductFilter struct {
	CategoryID *int64
	Search     string
	Sizes      []Size
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Sort       SortOrder
	Page       int
}

// CatalogQuery is the listing query string as the client sent it.
type CatalogQuery struct {
	Category string
	Search   string
	Sizes    []string
	MinPrice string
	MaxPrice string
	Order    string
	Page     string
}

type CreateProductRequest struct {
	CategoryID int64  `json:"category_id" validate:"required,gt=0"`
	Name       string `json:"name" validate:"required,min=2,max=255"`
	Code       string `json:"code" validate:"required,min=2,max=64"`
}

type UpdateProductRequest struct {
	CategoryID *int64  `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	Name       *string `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Code       *string `json:"code,omitempty" validate:"omitempty,min=2,max=64"`
}

type CreateVariantRequest struct {
	Size          Size            `json:"size" validate:"required,oneof=XS S M L XL"`
	Material      string          `json:"material" validate:"max=100"`
	Color         string          `json:"color" validate:"max=100"`
	StockQuantity int             `json:"stock_quantity" validate:"gte=0"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Description   string          `json:"description"`
}

type CategoryRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

// SortCategories orders categories by name with "Others" always last.
func SortCategories(categories []Category) {
	slices.SortStableFunc(categories, func(a, b Category) int {
		aOthers, bOthers := a.Name == OthersCategory, b.Name == OthersCategory
		if aOthers != bOthers {
			if aOthers {
				return 1
			}
			return -1
		}

		return cmp.Compare(a.Name, b.Name)
	})
}
