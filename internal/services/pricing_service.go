package services

import (
	"errors"
	"sort"
	"strings"

	"HomeServicesAPI/internal/model"
)

// PriceResolution is the outcome of resolving a variation selection.
// Complete=false means the customer has not picked every attribute yet and
// checkout must not proceed for this line.
type PriceResolution struct {
	Price    float64 `json:"price"`
	Complete bool    `json:"complete"`
}

// ErrEmptyVariationSchema marks a variable product stored without any
// variation attributes. This is a catalog data error, distinct from a
// selection that is merely incomplete.
var ErrEmptyVariationSchema = errors.New("variable product has empty variation schema")

// CombinationKey builds the canonical, order-independent lookup key for a
// variation combination: "k=v" pairs sorted by attribute name joined by "|".
func CombinationKey(combination map[string]string) string {
	keys := make([]string, 0, len(combination))
	for k := range combination {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+combination[k])
	}
	return strings.Join(parts, "|")
}

// SelectionComplete reports whether selection names a non-empty value for
// every attribute in schema.
func SelectionComplete(schema []model.VariationAttribute, selection map[string]string) bool {
	for _, attr := range schema {
		if selection[attr.Name] == "" {
			return false
		}
	}
	return true
}

// ResolvePrice returns the authoritative unit price for a selection.
//
// Incomplete selections resolve to basePrice with Complete=false. Complete
// selections are matched against the explicit price entries; the match is
// exact (every schema attribute present, order irrelevant) and a miss falls
// back to basePrice, which acts as the default for any combination without
// an override. Pure function; identical inputs give identical output.
func ResolvePrice(
	productType model.ProductType,
	schema []model.VariationAttribute,
	selection map[string]string,
	basePrice float64,
	entries []model.VariantPriceEntry,
) (PriceResolution, error) {
	if productType == model.ProductVariable && len(schema) == 0 {
		return PriceResolution{}, ErrEmptyVariationSchema
	}
	if !SelectionComplete(schema, selection) {
		return PriceResolution{Price: basePrice, Complete: false}, nil
	}

	// only the schema's attributes participate in the key; stray keys in the
	// selection must not defeat the lookup
	combo := make(map[string]string, len(schema))
	for _, attr := range schema {
		combo[attr.Name] = selection[attr.Name]
	}
	want := CombinationKey(combo)

	for _, e := range entries {
		if len(e.Combination) != len(schema) {
			continue // partial-key entries never match
		}
		if CombinationKey(e.Combination) == want {
			return PriceResolution{Price: e.Price, Complete: true}, nil
		}
	}
	return PriceResolution{Price: basePrice, Complete: true}, nil
}

// VariantTitle flattens a selection into the "key: value, key: value" string
// persisted on order items, ordered by the schema's attribute order.
func VariantTitle(schema []model.VariationAttribute, selection map[string]string) string {
	parts := make([]string, 0, len(schema))
	for _, attr := range schema {
		if v := selection[attr.Name]; v != "" {
			parts = append(parts, attr.Name+": "+v)
		}
	}
	return strings.Join(parts, ", ")
}
