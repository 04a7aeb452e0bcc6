package services

import (
	"testing"

	"HomeServicesAPI/internal/model"

	"github.com/stretchr/testify/assert"
)

func addonCatalog() []model.AddonGroup {
	return []model.AddonGroup{
		{GroupID: 2, Title: "Extras", SortOrder: 2, Addons: []model.Addon{
			{AddonID: 20, Title: "Deep clean", Price: 20, SortOrder: 1},
			{AddonID: 21, Title: "Express", Price: 35, SortOrder: 2},
		}},
		{GroupID: 1, Title: "Supplies", SortOrder: 1, Addons: []model.Addon{
			{AddonID: 10, Title: "Eco products", Price: 5, SortOrder: 1},
		}},
	}
}

func TestAggregateAddons_DeltaIsFlatSum(t *testing.T) {
	sum := AggregateAddons(addonCatalog(), map[int64]int{20: 2, 10: 1}, model.ProductSimple)
	assert.Equal(t, 45.0, sum.Delta) // 20*2 + 5*1
	assert.True(t, sum.Ready)
}

func TestAggregateAddons_GroupingDoesNotAffectPrice(t *testing.T) {
	groups := addonCatalog()
	reversed := []model.AddonGroup{groups[1], groups[0]}

	a := AggregateAddons(groups, map[int64]int{20: 2, 10: 1}, model.ProductSimple)
	b := AggregateAddons(reversed, map[int64]int{20: 2, 10: 1}, model.ProductSimple)
	assert.Equal(t, a.Delta, b.Delta)
}

func TestAggregateAddons_SelectedCarriesGroupTitleInSortOrder(t *testing.T) {
	sum := AggregateAddons(addonCatalog(), map[int64]int{20: 1, 10: 1}, model.ProductSimple)
	// "Supplies" has the lower group sort order, so it leads
	assert.Equal(t, []string{"Supplies", "Extras"}, []string{sum.Selected[0].GroupTitle, sum.Selected[1].GroupTitle})
	assert.Equal(t, "Eco products", sum.Selected[0].Title)
}

func TestAggregateAddons_NegativeQtyIsNoop(t *testing.T) {
	sum := AggregateAddons(addonCatalog(), map[int64]int{20: -3, 10: 1}, model.ProductSimple)
	assert.Equal(t, 5.0, sum.Delta)
	assert.Len(t, sum.Selected, 1)
}

func TestAggregateAddons_GroupProductRequiresSelection(t *testing.T) {
	none := AggregateAddons(addonCatalog(), nil, model.ProductGroup)
	assert.False(t, none.Ready)

	one := AggregateAddons(addonCatalog(), map[int64]int{10: 1}, model.ProductGroup)
	assert.True(t, one.Ready)

	// optional for non-group products
	simple := AggregateAddons(addonCatalog(), nil, model.ProductSimple)
	assert.True(t, simple.Ready)
}

func TestClampQty(t *testing.T) {
	assert.Equal(t, 0, ClampQty(-1))
	assert.Equal(t, 0, ClampQty(0))
	assert.Equal(t, 4, ClampQty(4))
}
