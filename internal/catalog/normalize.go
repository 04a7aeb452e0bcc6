package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"HomeServicesAPI/internal/model"
)

// Catalog rows come out of an upstream CMS that JSON-encodes nested fields
// and sometimes encodes the encoded string again. All of that is unwrapped
// here, once, at the boundary; downstream code only ever sees typed structs.

const maxUnwrapDepth = 3

var ErrMalformedSchema = errors.New("malformed variation schema")

// decodeInto unwraps up to maxUnwrapDepth layers of string-encoded JSON and
// decodes the innermost document into out.
func decodeInto(raw []byte, out any) error {
	if len(raw) == 0 {
		return nil
	}
	data := raw
	for i := 0; i < maxUnwrapDepth; i++ {
		trimmed := strings.TrimSpace(string(data))
		if trimmed == "" || trimmed == "null" {
			return nil
		}
		if trimmed[0] != '"' {
			return json.Unmarshal([]byte(trimmed), out)
		}
		// still a string-encoded layer, peel it
		var inner string
		if err := json.Unmarshal([]byte(trimmed), &inner); err != nil {
			return err
		}
		data = []byte(inner)
	}
	return fmt.Errorf("json still string-encoded after %d unwraps", maxUnwrapDepth)
}

// rawAttribute tolerates values that are themselves string-encoded, or plain
// string lists without color/image metadata.
type rawAttribute struct {
	Name   string          `json:"name"`
	Type   string          `json:"type"`
	Values json.RawMessage `json:"values"`
}

func decodeValues(raw json.RawMessage) ([]model.VariationValue, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var vals []model.VariationValue
	if err := decodeInto(raw, &vals); err == nil && vals != nil {
		// plain string lists decode into zero-valued entries; retry below
		usable := false
		for _, v := range vals {
			if v.Value != "" {
				usable = true
				break
			}
		}
		if usable || len(vals) == 0 {
			return vals, nil
		}
	}
	var labels []string
	if err := decodeInto(raw, &labels); err != nil {
		return nil, err
	}
	out := make([]model.VariationValue, 0, len(labels))
	for _, l := range labels {
		out = append(out, model.VariationValue{Value: l})
	}
	return out, nil
}

// NormalizeProduct turns a stored catalog row into the canonical typed
// Product consumed by the pricing pipeline. Add-on groups are attached by
// the repository afterwards since they live in their own tables.
func NormalizeProduct(raw model.RawProduct) (*model.Product, error) {
	p := &model.Product{
		ProductID:   raw.ProductID,
		Title:       raw.Title,
		SKU:         raw.SKU,
		Image:       raw.Image,
		BasePrice:   raw.BasePrice,
		Taxable:     raw.Taxable,
		ProductType: model.ProductType(raw.ProductType),
		CreatedAt:   raw.CreatedAt,
		DeletedAt:   raw.DeletedAt,
	}
	switch p.ProductType {
	case model.ProductSimple, model.ProductVariable, model.ProductGroup:
	case "":
		p.ProductType = model.ProductSimple
	default:
		return nil, fmt.Errorf("unknown product type %q", raw.ProductType)
	}

	if len(raw.VariationSchema) > 0 {
		var rawAttrs []rawAttribute
		if err := decodeInto(raw.VariationSchema, &rawAttrs); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedSchema, err)
		}
		attrs := make([]model.VariationAttribute, 0, len(rawAttrs))
		for _, ra := range rawAttrs {
			if ra.Name == "" {
				return nil, fmt.Errorf("%w: attribute without name", ErrMalformedSchema)
			}
			vals, err := decodeValues(ra.Values)
			if err != nil {
				return nil, fmt.Errorf("%w: attribute %q values: %v", ErrMalformedSchema, ra.Name, err)
			}
			typ := ra.Type
			if typ == "" {
				typ = "select"
			}
			attrs = append(attrs, model.VariationAttribute{Name: ra.Name, Type: typ, Values: vals})
		}
		p.Attributes = attrs
	}
	return p, nil
}
