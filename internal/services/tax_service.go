package services

import (
	"math"

	"HomeServicesAPI/internal/model"
)

// TaxBreakdown carries the two independent tax amounts plus the payable
// total. Values are unrounded; Round2 is applied at persistence/display.
type TaxBreakdown struct {
	VATAmount        float64 `json:"vatAmount"`
	ServiceTaxAmount float64 `json:"serviceTaxAmount"`
	TotalTaxAmount   float64 `json:"totalTaxAmount"`
	FinalAmount      float64 `json:"finalAmount"`
}

// Round2 rounds a monetary amount to 2 decimal places. Only call at the
// edges (response bodies, DB writes) so rounding error never compounds.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func applyRule(subtotal float64, rule model.TaxRule) float64 {
	if !rule.Enabled {
		return 0
	}
	switch rule.Type {
	case model.TaxPercentage:
		return subtotal * rule.Value / 100
	case model.TaxFixed:
		return rule.Value
	}
	return 0
}

// CalculateTaxes applies the VAT and service tax rules to a subtotal.
// Non-taxable products bypass both rules entirely.
func CalculateTaxes(subtotal float64, taxable bool, vat, service model.TaxRule) TaxBreakdown {
	if !taxable {
		return TaxBreakdown{FinalAmount: subtotal}
	}
	v := applyRule(subtotal, vat)
	s := applyRule(subtotal, service)
	return TaxBreakdown{
		VATAmount:        v,
		ServiceTaxAmount: s,
		TotalTaxAmount:   v + s,
		FinalAmount:      subtotal + v + s,
	}
}
