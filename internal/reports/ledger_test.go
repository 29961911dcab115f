package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lojista/backoffice-service/internal/database"
	"github.com/lojista/backoffice-service/internal/types"
)

func ledgerOrder(code string, channel types.ChannelID, orderedAt time.Time, status string) database.Order {
	return database.Order{
		OrderCode: code,
		Channel:   channel,
		OrderedAt: orderedAt,
		Status:    status,
	}
}

func ledgerItem(code string, channel types.ChannelID, productID int64, qty int) database.ItemWithCost {
	return database.ItemWithCost{
		Item: database.OrderItem{
			OrderCode: code,
			Channel:   channel,
			ProductID: &productID,
			Quantity:  qty,
		},
	}
}

func TestComputeLedgerDepletion(t *testing.T) {
	jan := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	in := LedgerInput{
		Products: []database.Product{
			{ID: 1, Name: "Vela Lavanda"},
			{ID: 2, Name: "Vela Baunilha"},
		},
		ProductStocks: []database.ProductStock{
			{ProductID: 1, OpeningQty: 10},
			{ProductID: 2, OpeningQty: 5},
		},
		Orders: []database.Order{
			ledgerOrder("A1", types.ChannelSite, jan, "Entregue"),
			ledgerOrder("B2", types.ChannelShopee, jan, "Concluído"),
		},
		Items: []database.ItemWithCost{
			ledgerItem("A1", types.ChannelSite, 1, 3),
			ledgerItem("B2", types.ChannelShopee, 1, 2),
			ledgerItem("B2", types.ChannelShopee, 2, 1),
		},
	}

	rows := ComputeLedger(in)
	require.Len(t, rows, 2)

	assert.Equal(t, "product", rows[0].EntityKind)
	assert.Equal(t, "1", rows[0].EntityID)
	assert.Equal(t, 10, rows[0].Opening)
	assert.Equal(t, 5, rows[0].Sold)
	assert.Equal(t, 5, rows[0].Current)

	assert.Equal(t, 4, rows[1].Current)
}

func TestComputeLedgerExcludesInvalidAndEarlyOrders(t *testing.T) {
	start := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	before := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)
	after := time.Date(2026, 1, 20, 12, 0, 0, 0, time.UTC)

	in := LedgerInput{
		StartDate:     &start,
		Products:      []database.Product{{ID: 1, Name: "Vela Lavanda"}},
		ProductStocks: []database.ProductStock{{ProductID: 1, OpeningQty: 10}},
		Orders: []database.Order{
			ledgerOrder("OLD", types.ChannelSite, before, "Entregue"),
			ledgerOrder("CANC", types.ChannelSite, after, "Cancelado"),
			ledgerOrder("OK", types.ChannelSite, after, "Entregue"),
		},
		Items: []database.ItemWithCost{
			ledgerItem("OLD", types.ChannelSite, 1, 4),
			ledgerItem("CANC", types.ChannelSite, 1, 4),
			ledgerItem("OK", types.ChannelSite, 1, 2),
		},
	}

	rows := ComputeLedger(in)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].Sold)
	assert.Equal(t, 8, rows[0].Current)
}

func TestComputeLedgerFloorsAtZero(t *testing.T) {
	jan := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	in := LedgerInput{
		Products:      []database.Product{{ID: 1, Name: "Vela Lavanda"}},
		ProductStocks: []database.ProductStock{{ProductID: 1, OpeningQty: 2}},
		Orders:        []database.Order{ledgerOrder("A1", types.ChannelSite, jan, "Entregue")},
		Items:         []database.ItemWithCost{ledgerItem("A1", types.ChannelSite, 1, 7)},
	}

	rows := ComputeLedger(in)
	require.Len(t, rows, 1)
	assert.Equal(t, 7, rows[0].Sold)
	assert.Equal(t, 0, rows[0].Current)
}

func TestComputeLedgerGroups(t *testing.T) {
	jan := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	in := LedgerInput{
		Products: []database.Product{
			{ID: 1, Name: "Vela Lavanda (site)"},
			{ID: 2, Name: "Vela Lavanda (shopee)"},
		},
		// A recorded per-product opening is superseded by group membership
		ProductStocks: []database.ProductStock{{ProductID: 1, OpeningQty: 99}},
		Groups: []database.ProductGroup{
			{ID: "g-1", Name: "Vela Lavanda", ProductIDs: []int64{1, 2}},
		},
		GroupStocks: []database.ProductGroupStock{{GroupID: "g-1", OpeningQty: 20}},
		Orders: []database.Order{
			ledgerOrder("A1", types.ChannelSite, jan, "Entregue"),
			ledgerOrder("B2", types.ChannelShopee, jan, "Concluído"),
		},
		Items: []database.ItemWithCost{
			ledgerItem("A1", types.ChannelSite, 1, 3),
			ledgerItem("B2", types.ChannelShopee, 2, 4),
		},
	}

	rows := ComputeLedger(in)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "group", row.EntityKind)
	assert.Equal(t, "g-1", row.EntityID)
	assert.Equal(t, "Vela Lavanda", row.Name)
	assert.Equal(t, 20, row.Opening)
	assert.Equal(t, 7, row.Sold)
	assert.Equal(t, 13, row.Current)
}

func TestComputeLedgerSkipsEntitiesWithoutOpening(t *testing.T) {
	in := LedgerInput{
		Products: []database.Product{{ID: 1, Name: "Vela Lavanda"}},
	}
	assert.Empty(t, ComputeLedger(in))
}

func TestComputeLedgerIgnoresUnlinkedItems(t *testing.T) {
	jan := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	unlinked := database.ItemWithCost{
		Item: database.OrderItem{OrderCode: "A1", Channel: types.ChannelSite, Quantity: 5},
	}

	in := LedgerInput{
		Products:      []database.Product{{ID: 1, Name: "Vela Lavanda"}},
		ProductStocks: []database.ProductStock{{ProductID: 1, OpeningQty: 10}},
		Orders:        []database.Order{ledgerOrder("A1", types.ChannelSite, jan, "Entregue")},
		Items:         []database.ItemWithCost{unlinked},
	}

	rows := ComputeLedger(in)
	require.Len(t, rows, 1)
	assert.Equal(t, 0, rows[0].Sold)
	assert.Equal(t, 10, rows[0].Current)
}
