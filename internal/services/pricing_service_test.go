package services

import (
	"testing"

	"HomeServicesAPI/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sizeColorSchema() []model.VariationAttribute {
	return []model.VariationAttribute{
		{Name: "Size", Type: "select", Values: []model.VariationValue{{Value: "Small"}, {Value: "Large"}}},
		{Name: "Color", Type: "color", Values: []model.VariationValue{{Value: "Red"}, {Value: "Blue"}}},
	}
}

func TestResolvePrice_IncompleteSelection(t *testing.T) {
	schema := sizeColorSchema()
	entries := []model.VariantPriceEntry{
		{Combination: map[string]string{"Size": "Large", "Color": "Blue"}, Price: 150},
	}

	cases := []map[string]string{
		nil,
		{},
		{"Size": "Large"},
		{"Size": "Large", "Color": ""},
	}
	for _, sel := range cases {
		res, err := ResolvePrice(model.ProductVariable, schema, sel, 100, entries)
		require.NoError(t, err)
		assert.False(t, res.Complete)
		assert.Equal(t, 100.0, res.Price, "incomplete selection must fall back to base price")
	}
}

func TestResolvePrice_ExactMatch(t *testing.T) {
	schema := sizeColorSchema()
	entries := []model.VariantPriceEntry{
		{Combination: map[string]string{"Size": "Small", "Color": "Red"}, Price: 90},
		{Combination: map[string]string{"Color": "Blue", "Size": "Large"}, Price: 150},
	}

	res, err := ResolvePrice(model.ProductVariable, schema,
		map[string]string{"Size": "Large", "Color": "Blue"}, 100, entries)
	require.NoError(t, err)
	assert.True(t, res.Complete)
	assert.Equal(t, 150.0, res.Price, "match is order-independent")
}

func TestResolvePrice_LookupMissIsNotAnError(t *testing.T) {
	schema := sizeColorSchema()
	entries := []model.VariantPriceEntry{
		{Combination: map[string]string{"Size": "Small", "Color": "Red"}, Price: 90},
	}

	res, err := ResolvePrice(model.ProductVariable, schema,
		map[string]string{"Size": "Large", "Color": "Blue"}, 100, entries)
	require.NoError(t, err)
	assert.True(t, res.Complete)
	assert.Equal(t, 100.0, res.Price, "base price is the price of record on a miss")
}

func TestResolvePrice_PartialEntryNeverMatches(t *testing.T) {
	schema := sizeColorSchema()
	entries := []model.VariantPriceEntry{
		{Combination: map[string]string{"Size": "Large"}, Price: 150},
	}

	res, err := ResolvePrice(model.ProductVariable, schema,
		map[string]string{"Size": "Large", "Color": "Blue"}, 100, entries)
	require.NoError(t, err)
	assert.Equal(t, 100.0, res.Price)
}

func TestResolvePrice_StraySelectionKeysIgnored(t *testing.T) {
	schema := sizeColorSchema()
	entries := []model.VariantPriceEntry{
		{Combination: map[string]string{"Size": "Large", "Color": "Blue"}, Price: 150},
	}

	res, err := ResolvePrice(model.ProductVariable, schema,
		map[string]string{"Size": "Large", "Color": "Blue", "Bogus": "x"}, 100, entries)
	require.NoError(t, err)
	assert.Equal(t, 150.0, res.Price)
}

func TestResolvePrice_EmptySchemaOnVariableProduct(t *testing.T) {
	_, err := ResolvePrice(model.ProductVariable, nil, nil, 100, nil)
	assert.ErrorIs(t, err, ErrEmptyVariationSchema)

	// simple products without a schema are fine
	res, err := ResolvePrice(model.ProductSimple, nil, nil, 100, nil)
	require.NoError(t, err)
	assert.True(t, res.Complete)
	assert.Equal(t, 100.0, res.Price)
}

func TestResolvePrice_Deterministic(t *testing.T) {
	schema := sizeColorSchema()
	sel := map[string]string{"Size": "Small", "Color": "Red"}
	entries := []model.VariantPriceEntry{
		{Combination: map[string]string{"Size": "Small", "Color": "Red"}, Price: 90},
	}

	first, err := ResolvePrice(model.ProductVariable, schema, sel, 100, entries)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := ResolvePrice(model.ProductVariable, schema, sel, 100, entries)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestCombinationKey_OrderIndependent(t *testing.T) {
	a := CombinationKey(map[string]string{"Size": "L", "Color": "Blue"})
	b := CombinationKey(map[string]string{"Color": "Blue", "Size": "L"})
	assert.Equal(t, a, b)
	assert.Equal(t, "Color=Blue|Size=L", a)
}

func TestVariantTitle(t *testing.T) {
	title := VariantTitle(sizeColorSchema(), map[string]string{"Color": "Blue", "Size": "Large"})
	assert.Equal(t, "Size: Large, Color: Blue", title, "schema order, not map order")
}
