package catalog

import (
	"encoding/json"
	"testing"

	"HomeServicesAPI/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawWith(schema string) model.RawProduct {
	return model.RawProduct{
		ProductID:       1,
		Title:           "Garden Care",
		BasePrice:       50,
		Taxable:         true,
		ProductType:     "variable",
		VariationSchema: []byte(schema),
	}
}

func TestNormalizeProduct_PlainSchema(t *testing.T) {
	p, err := NormalizeProduct(rawWith(`[{"name":"Size","type":"select","values":[{"value":"Small"},{"value":"Large"}]}]`))
	require.NoError(t, err)
	require.Len(t, p.Attributes, 1)
	assert.Equal(t, "Size", p.Attributes[0].Name)
	assert.Equal(t, []model.VariationValue{{Value: "Small"}, {Value: "Large"}}, p.Attributes[0].Values)
}

func TestNormalizeProduct_DoubleEncodedSchema(t *testing.T) {
	inner := `[{"name":"Color","type":"color","values":[{"value":"Red","color":"#f00"}]}]`
	once, _ := json.Marshal(inner)
	twice, _ := json.Marshal(string(once))

	for _, enc := range [][]byte{once, twice} {
		p, err := NormalizeProduct(rawWith(string(enc)))
		require.NoError(t, err)
		require.Len(t, p.Attributes, 1)
		assert.Equal(t, "Color", p.Attributes[0].Name)
		assert.Equal(t, "#f00", p.Attributes[0].Values[0].Color)
	}
}

func TestNormalizeProduct_StringValueList(t *testing.T) {
	p, err := NormalizeProduct(rawWith(`[{"name":"Size","values":["Small","Large"]}]`))
	require.NoError(t, err)
	require.Len(t, p.Attributes, 1)
	assert.Equal(t, "select", p.Attributes[0].Type, "missing type defaults to select")
	assert.Equal(t, []model.VariationValue{{Value: "Small"}, {Value: "Large"}}, p.Attributes[0].Values)
}

func TestNormalizeProduct_StringEncodedValues(t *testing.T) {
	// values field itself string-encoded inside an otherwise plain schema
	p, err := NormalizeProduct(rawWith(`[{"name":"Size","values":"[\"Small\",\"Large\"]"}]`))
	require.NoError(t, err)
	require.Len(t, p.Attributes[0].Values, 2)
	assert.Equal(t, "Large", p.Attributes[0].Values[1].Value)
}

func TestNormalizeProduct_MalformedSchema(t *testing.T) {
	for _, bad := range []string{`{not json`, `[{"type":"select"}]`} {
		_, err := NormalizeProduct(rawWith(bad))
		assert.ErrorIs(t, err, ErrMalformedSchema)
	}
}

func TestNormalizeProduct_EmptyAndNullSchema(t *testing.T) {
	for _, s := range []string{"", "null"} {
		p, err := NormalizeProduct(rawWith(s))
		require.NoError(t, err)
		assert.Empty(t, p.Attributes)
	}
}

func TestNormalizeProduct_ProductType(t *testing.T) {
	raw := rawWith(`[]`)
	raw.ProductType = ""
	p, err := NormalizeProduct(raw)
	require.NoError(t, err)
	assert.Equal(t, model.ProductSimple, p.ProductType)

	raw.ProductType = "bundle"
	_, err = NormalizeProduct(raw)
	assert.Error(t, err)
}
