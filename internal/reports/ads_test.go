package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lojista/backoffice-service/internal/database"
	"github.com/lojista/backoffice-service/internal/types"
)

func adsOrder(code string, channel types.ChannelID, day time.Time, total int64, status string) database.Order {
	o := ledgerOrder(code, channel, day, status)
	o.TotalCents = total
	return o
}

func TestComputeAdsDashboard(t *testing.T) {
	jan := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 3, 12, 0, 0, 0, time.UTC)

	orders := []database.Order{
		adsOrder("A1", types.ChannelShopee, jan, 10000, "Concluído"),
		adsOrder("A2", types.ChannelShopee, jan, 20000, "Concluído"),
		adsOrder("A3", types.ChannelShopee, jan, 99999, "Cancelado"),
		adsOrder("B1", types.ChannelMeli, jan, 5000, "Entregue"),
		adsOrder("C1", types.ChannelShopee, feb, 40000, "Concluído"),
	}
	spends := []database.AdSpend{
		{Month: "2026-01", Channel: types.ChannelShopee, AmountCents: 10000},
		{Month: "2026-02", Channel: types.ChannelShopee, AmountCents: 8000},
	}

	dashboard := ComputeAdsDashboard(orders, spends)
	require.Len(t, dashboard.Cells, 3)

	// Cells are sorted by month then channel
	shopeeJan := dashboard.Cells[1]
	assert.Equal(t, "2026-01", shopeeJan.Month)
	assert.Equal(t, types.ChannelShopee, shopeeJan.Channel)
	assert.Equal(t, int64(30000), shopeeJan.RevenueCents)
	assert.Equal(t, 2, shopeeJan.OrderCount)
	require.NotNil(t, shopeeJan.ROAS)
	assert.InDelta(t, 3.0, *shopeeJan.ROAS, 1e-9)

	// Meli had revenue but no spend: ROAS is nil, not infinity
	meliJan := dashboard.Cells[0]
	assert.Equal(t, types.ChannelMeli, meliJan.Channel)
	assert.Equal(t, int64(5000), meliJan.RevenueCents)
	assert.Nil(t, meliJan.ROAS)

	assert.Equal(t, int64(75000), dashboard.KPIs.RevenueCents)
	assert.Equal(t, int64(18000), dashboard.KPIs.SpendCents)
	assert.Equal(t, 4, dashboard.KPIs.OrderCount)
	require.NotNil(t, dashboard.KPIs.ROAS)
	assert.InDelta(t, 75000.0/18000.0, *dashboard.KPIs.ROAS, 1e-9)
}

func TestComputeAdsDashboardRollups(t *testing.T) {
	jan := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 3, 12, 0, 0, 0, time.UTC)

	orders := []database.Order{
		adsOrder("A1", types.ChannelShopee, jan, 10000, "Concluído"),
		adsOrder("B1", types.ChannelMeli, jan, 5000, "Entregue"),
		adsOrder("C1", types.ChannelShopee, feb, 40000, "Concluído"),
	}
	spends := []database.AdSpend{
		{Month: "2026-01", Channel: types.ChannelShopee, AmountCents: 5000},
		{Month: "2026-01", Channel: types.ChannelMeli, AmountCents: 2500},
	}

	dashboard := ComputeAdsDashboard(orders, spends)

	require.Len(t, dashboard.ByMonth, 2)
	janRoll := dashboard.ByMonth[0]
	assert.Equal(t, "2026-01", janRoll.Month)
	assert.Equal(t, int64(15000), janRoll.RevenueCents)
	assert.Equal(t, int64(7500), janRoll.SpendCents)
	require.NotNil(t, janRoll.ROAS)
	assert.InDelta(t, 2.0, *janRoll.ROAS, 1e-9)

	febRoll := dashboard.ByMonth[1]
	assert.Equal(t, int64(40000), febRoll.RevenueCents)
	assert.Nil(t, febRoll.ROAS)

	require.Len(t, dashboard.ByChannel, 2)
	var shopee, meli *AdsCell
	for i := range dashboard.ByChannel {
		switch dashboard.ByChannel[i].Channel {
		case types.ChannelShopee:
			shopee = &dashboard.ByChannel[i]
		case types.ChannelMeli:
			meli = &dashboard.ByChannel[i]
		}
	}
	require.NotNil(t, shopee)
	assert.Equal(t, int64(50000), shopee.RevenueCents)
	assert.Equal(t, int64(5000), shopee.SpendCents)
	require.NotNil(t, meli)
	assert.Equal(t, int64(5000), meli.RevenueCents)
}

func TestComputeAdsDashboardSpendOnlyCell(t *testing.T) {
	spends := []database.AdSpend{
		{Month: "2026-03", Channel: types.ChannelSite, AmountCents: 12000},
	}

	dashboard := ComputeAdsDashboard(nil, spends)
	require.Len(t, dashboard.Cells, 1)

	cell := dashboard.Cells[0]
	assert.Equal(t, int64(0), cell.RevenueCents)
	assert.Equal(t, int64(12000), cell.SpendCents)
	require.NotNil(t, cell.ROAS)
	assert.Equal(t, 0.0, *cell.ROAS)
}

func TestRoas(t *testing.T) {
	assert.Nil(t, roas(10000, 0))
	assert.InDelta(t, 2.5, *roas(25000, 10000), 1e-9)
}
