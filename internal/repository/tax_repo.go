package repository

import (
	"context"

	"HomeServicesAPI/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TaxRepository reads the two named tax rules. Rows are configuration,
// read-only to the engine; a missing row means the rule is disabled.
type TaxRepository struct {
	DB *pgxpool.Pool
}

func NewTaxRepository(db *pgxpool.Pool) *TaxRepository {
	return &TaxRepository{DB: db}
}

func (r *TaxRepository) GetTaxSettings(ctx context.Context) (model.TaxSettings, error) {
	query := `SELECT name, enabled, type, value FROM tax_settings WHERE name IN ('vat','service')`
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return model.TaxSettings{}, err
	}
	defer rows.Close()

	var s model.TaxSettings
	for rows.Next() {
		var name string
		var rule model.TaxRule
		if err := rows.Scan(&name, &rule.Enabled, &rule.Type, &rule.Value); err != nil {
			return model.TaxSettings{}, err
		}
		rc := rule
		switch name {
		case "vat":
			s.VAT = &rc
		case "service":
			s.Service = &rc
		}
	}
	return s, rows.Err()
}
