package model

type TaxType string

const (
	TaxPercentage TaxType = "percentage"
	TaxFixed      TaxType = "fixed"
)

// TaxRule is one named, process-wide tax rule. Read-only to the engine;
// fetched once per checkout session.
type TaxRule struct {
	Enabled bool    `json:"enabled"`
	Type    TaxType `json:"type"`
	Value   float64 `json:"value"`
}

// TaxSettings holds the two independent rules. A nil rule means the row is
// absent and the rule is treated as disabled.
type TaxSettings struct {
	VAT     *TaxRule `json:"vatTax"`
	Service *TaxRule `json:"serviceTax"`
}

func (s TaxSettings) VATRule() TaxRule {
	if s.VAT == nil {
		return TaxRule{}
	}
	return *s.VAT
}

func (s TaxSettings) ServiceRule() TaxRule {
	if s.Service == nil {
		return TaxRule{}
	}
	return *s.Service
}
