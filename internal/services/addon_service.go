package services

import (
	"sort"

	"HomeServicesAPI/internal/model"
)

// AddonSummary is the outcome of aggregating a customer's add-on choices.
type AddonSummary struct {
	Delta    float64               `json:"delta"`
	Selected []model.SelectedAddon `json:"selected"`
	Ready    bool                  `json:"ready"`
}

// ClampQty normalizes a requested add-on quantity: negatives become zero.
func ClampQty(q int) int {
	if q < 0 {
		return 0
	}
	return q
}

// AggregateAddons validates an add-on selection and computes its price delta.
//
// Delta is a flat sum of price*qty over entries with qty > 0; grouping only
// affects the order of Selected (groups then members by sort order) and the
// group title carried on each selection for receipts. For group-typed
// products at least one add-on must be chosen; otherwise add-ons are
// optional and Ready is always true.
func AggregateAddons(groups []model.AddonGroup, selection map[int64]int, productType model.ProductType) AddonSummary {
	sorted := make([]model.AddonGroup, len(groups))
	copy(sorted, groups)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].SortOrder < sorted[j].SortOrder })

	var out AddonSummary
	for _, g := range sorted {
		members := make([]model.Addon, len(g.Addons))
		copy(members, g.Addons)
		sort.SliceStable(members, func(i, j int) bool { return members[i].SortOrder < members[j].SortOrder })

		for _, a := range members {
			qty := ClampQty(selection[a.AddonID])
			if qty == 0 {
				continue
			}
			out.Delta += a.Price * float64(qty)
			out.Selected = append(out.Selected, model.SelectedAddon{
				AddonID:    a.AddonID,
				Title:      a.Title,
				GroupTitle: g.Title,
				Price:      a.Price,
				Quantity:   qty,
			})
		}
	}

	out.Ready = productType != model.ProductGroup || len(out.Selected) > 0
	return out
}
