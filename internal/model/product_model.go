package model

import "time"

type ProductType string

const (
	ProductSimple   ProductType = "simple"
	ProductVariable ProductType = "variable"
	ProductGroup    ProductType = "group"
)

// VariationValue is one selectable value of a variation attribute.
type VariationValue struct {
	Value string `json:"value"`
	Color string `json:"color,omitempty"`
	Image string `json:"image,omitempty"`
}

// VariationAttribute is a named axis of product configuration ("Size", "Color").
type VariationAttribute struct {
	Name   string           `json:"name"`
	Type   string           `json:"type"` // select | color | image | button
	Values []VariationValue `json:"values"`
}

// VariantPriceEntry overrides the unit price for one exact combination of
// variation values. Combination is attribute name -> chosen value.
type VariantPriceEntry struct {
	ID          int64             `json:"id"`
	ProductID   int64             `json:"productid"`
	Combination map[string]string `json:"combination"`
	Price       float64           `json:"price"`
}

type Addon struct {
	AddonID     int64   `json:"addonid"`
	GroupID     int64   `json:"groupid"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	IsRequired  bool    `json:"isrequired"`
	SortOrder   int     `json:"sortorder"`
}

type AddonGroup struct {
	GroupID     int64   `json:"groupid"`
	ProductID   int64   `json:"productid"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	SortOrder   int     `json:"sortorder"`
	Addons      []Addon `json:"addons"`
}

// SelectedAddon is a chosen add-on with its owning group title carried along
// for receipts and the persisted order item snapshot.
type SelectedAddon struct {
	AddonID    int64   `json:"addonid"`
	Title      string  `json:"title"`
	GroupTitle string  `json:"grouptitle"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
}

// Product is the normalized, fully typed catalog row used by the pricing
// pipeline. Produced once by catalog.NormalizeProduct; never re-parsed later.
type Product struct {
	ProductID   int64                `json:"productid"`
	Title       string               `json:"title"`
	SKU         string               `json:"sku,omitempty"`
	Image       string               `json:"image,omitempty"`
	BasePrice   float64              `json:"baseprice"`
	Taxable     bool                 `json:"taxable"`
	ProductType ProductType          `json:"producttype"`
	Attributes  []VariationAttribute `json:"attributes"`
	AddonGroups []AddonGroup         `json:"addongroups"`
	CreatedAt   *time.Time           `json:"created_at,omitempty"`
	DeletedAt   *time.Time           `json:"deleted_at,omitempty"`
}

// RawProduct is a catalog row as stored: schema and add-ons may arrive as
// JSON that was string-encoded one or more times by upstream tooling.
type RawProduct struct {
	ProductID       int64
	Title           string
	SKU             string
	Image           string
	BasePrice       float64
	Taxable         bool
	ProductType     string
	VariationSchema []byte
	CreatedAt       *time.Time
	DeletedAt       *time.Time
}
