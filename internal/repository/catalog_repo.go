package repository

import (
	"context"
	"errors"

	"HomeServicesAPI/internal/catalog"
	"HomeServicesAPI/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrProductNotFound = errors.New("product not found")

// CatalogRepository is the read side of the external product catalog: the
// engine consumes products, variant prices and add-ons but never writes them.
type CatalogRepository struct {
	DB *pgxpool.Pool
}

func NewCatalogRepository(db *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{DB: db}
}

// GetProduct loads one product row, normalizes its variation schema and
// attaches its add-on groups.
func (r *CatalogRepository) GetProduct(ctx context.Context, productID int64) (*model.Product, error) {
	query := `SELECT id, title, sku, image, base_price, taxable, product_type, variation_schema, created_at
	          FROM products WHERE id=$1 AND deleted_at IS NULL`
	var raw model.RawProduct
	if err := r.DB.QueryRow(ctx, query, productID).Scan(
		&raw.ProductID, &raw.Title, &raw.SKU, &raw.Image, &raw.BasePrice,
		&raw.Taxable, &raw.ProductType, &raw.VariationSchema, &raw.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	p, err := catalog.NormalizeProduct(raw)
	if err != nil {
		return nil, err
	}
	groups, err := r.GetAddonGroups(ctx, productID)
	if err != nil {
		return nil, err
	}
	p.AddonGroups = groups
	return p, nil
}

// GetAddonGroups returns the product's add-on groups with their members,
// both ordered by sort order.
func (r *CatalogRepository) GetAddonGroups(ctx context.Context, productID int64) ([]model.AddonGroup, error) {
	query := `SELECT id, product_id, title, COALESCE(description,''), sort_order
	          FROM addon_groups WHERE product_id=$1 ORDER BY sort_order, id`
	rows, err := r.DB.Query(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []model.AddonGroup
	byID := map[int64]int{}
	for rows.Next() {
		var g model.AddonGroup
		if err := rows.Scan(&g.GroupID, &g.ProductID, &g.Title, &g.Description, &g.SortOrder); err != nil {
			return nil, err
		}
		byID[g.GroupID] = len(groups)
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, nil
	}

	aq := `SELECT a.id, a.group_id, a.title, COALESCE(a.description,''), a.price, a.is_required, a.sort_order
	       FROM addons a JOIN addon_groups g ON g.id = a.group_id
	       WHERE g.product_id=$1 ORDER BY a.sort_order, a.id`
	arows, err := r.DB.Query(ctx, aq, productID)
	if err != nil {
		return nil, err
	}
	defer arows.Close()
	for arows.Next() {
		var a model.Addon
		if err := arows.Scan(&a.AddonID, &a.GroupID, &a.Title, &a.Description, &a.Price, &a.IsRequired, &a.SortOrder); err != nil {
			return nil, err
		}
		if idx, ok := byID[a.GroupID]; ok {
			groups[idx].Addons = append(groups[idx].Addons, a)
		}
	}
	return groups, arows.Err()
}

// GetVariantPrices returns every explicit price override for a product.
func (r *CatalogRepository) GetVariantPrices(ctx context.Context, productID int64) ([]model.VariantPriceEntry, error) {
	query := `SELECT id, product_id, combination, price FROM variant_prices WHERE product_id=$1`
	rows, err := r.DB.Query(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.VariantPriceEntry
	for rows.Next() {
		var e model.VariantPriceEntry
		if err := rows.Scan(&e.ID, &e.ProductID, &e.Combination, &e.Price); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
