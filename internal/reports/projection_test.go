package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lojista/backoffice-service/internal/database"
	"github.com/lojista/backoffice-service/internal/types"
)

func pricedItem(code string, productID int64, qty int, unitPrice int64) database.ItemWithCost {
	item := ledgerItem(code, types.ChannelSite, productID, qty)
	item.Item.UnitPriceCents = unitPrice
	return item
}

func TestComputeProjectionObservedMeanPrice(t *testing.T) {
	jan := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	cost := int64(1500)

	in := LedgerInput{
		Products:      []database.Product{{ID: 1, Name: "Vela Lavanda", CostPriceCents: &cost}},
		ProductStocks: []database.ProductStock{{ProductID: 1, OpeningQty: 10}},
		Orders: []database.Order{
			ledgerOrder("A1", types.ChannelSite, jan, "Entregue"),
			ledgerOrder("A2", types.ChannelSite, jan, "Entregue"),
		},
		Items: []database.ItemWithCost{
			pricedItem("A1", 1, 1, 4000),
			pricedItem("A2", 1, 1, 5000),
		},
	}

	rows := ComputeProjection(in)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, 8, row.Current)

	// Mean of observed unit prices wins over the manual cost price
	assert.Equal(t, int64(4500), row.AvgUnitPriceCents)
	assert.Equal(t, int64(4500*8), row.ProjectedRevenueCents)
	assert.Equal(t, int64(1500*8), row.ProjectedCostCents)
}

func TestComputeProjectionCostFallback(t *testing.T) {
	cost := int64(1500)

	in := LedgerInput{
		Products:      []database.Product{{ID: 1, Name: "Vela Lavanda", CostPriceCents: &cost}},
		ProductStocks: []database.ProductStock{{ProductID: 1, OpeningQty: 4}},
	}

	rows := ComputeProjection(in)
	require.Len(t, rows, 1)

	// Never sold: the manual cost price stands in for the unit price
	assert.Equal(t, int64(1500), rows[0].AvgUnitPriceCents)
	assert.Equal(t, int64(6000), rows[0].ProjectedRevenueCents)
	assert.Equal(t, int64(6000), rows[0].ProjectedCostCents)
}

func TestComputeProjectionNoCostNoSales(t *testing.T) {
	in := LedgerInput{
		Products:      []database.Product{{ID: 1, Name: "Vela Lavanda"}},
		ProductStocks: []database.ProductStock{{ProductID: 1, OpeningQty: 4}},
	}

	rows := ComputeProjection(in)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(0), rows[0].AvgUnitPriceCents)
	assert.Equal(t, int64(0), rows[0].ProjectedRevenueCents)
	assert.Equal(t, int64(0), rows[0].ProjectedCostCents)
}

func TestComputeProjectionGroupAveragesMembers(t *testing.T) {
	jan := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	costA := int64(1000)
	costB := int64(2000)

	in := LedgerInput{
		Products: []database.Product{
			{ID: 1, Name: "Vela (site)", CostPriceCents: &costA},
			{ID: 2, Name: "Vela (shopee)", CostPriceCents: &costB},
		},
		Groups:      []database.ProductGroup{{ID: "g-1", Name: "Vela", ProductIDs: []int64{1, 2}}},
		GroupStocks: []database.ProductGroupStock{{GroupID: "g-1", OpeningQty: 10}},
		Orders: []database.Order{
			ledgerOrder("A1", types.ChannelSite, jan, "Entregue"),
		},
		Items: []database.ItemWithCost{
			pricedItem("A1", 1, 2, 3000),
		},
	}

	rows := ComputeProjection(in)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, 8, row.Current)
	assert.Equal(t, int64(3000), row.AvgUnitPriceCents)
	// Cost averages across group members with a recorded cost
	assert.Equal(t, int64(1500*8), row.ProjectedCostCents)
}
