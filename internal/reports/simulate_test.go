package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lojista/backoffice-service/internal/database"
	"github.com/lojista/backoffice-service/internal/types"
)

func feeOrder(code string, channel types.ChannelID, total int64) database.Order {
	return database.Order{
		OrderCode:  code,
		Channel:    channel,
		OrderedAt:  time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
		TotalCents: total,
		Status:     "Entregue",
	}
}

func TestComputeSimulationMarketplaceFees(t *testing.T) {
	commission := int64(1500)
	service := int64(300)

	order := feeOrder("S1", types.ChannelShopee, 10000)
	order.CommissionFeeCents = &commission
	order.ServiceFeeCents = &service

	result := ComputeSimulation(
		SimulationParams{Month: "2026-01", Channel: types.ChannelShopee},
		SimulationInput{Orders: []database.Order{order}},
	)

	assert.Equal(t, int64(10000), result.RevenueCents)
	assert.Equal(t, 1, result.OrderCount)
	assert.Equal(t, int64(1800), result.MarketplaceFeeCents)
	assert.Equal(t, int64(0), result.PaymentFeeCents)
	assert.Equal(t, int64(10000-1800), result.ProfitCents)
	assert.InDelta(t, 18.0, result.MarketplaceFeePercent, 1e-9)
	assert.InDelta(t, 82.0, result.MarginPercent, 1e-9)
}

func TestComputeSimulationSitePaymentFees(t *testing.T) {
	card := "Cartão de Crédito"
	pix := "Pix"

	withCard := feeOrder("A1", types.ChannelSite, 10000)
	withCard.PaymentType = &card
	withPix := feeOrder("A2", types.ChannelSite, 10000)
	withPix.PaymentType = &pix
	withoutType := feeOrder("A3", types.ChannelSite, 10000)

	result := ComputeSimulation(
		SimulationParams{Month: "2026-01", Channel: types.ChannelSite, DefaultFeePercent: 4},
		SimulationInput{
			Orders:          []database.Order{withCard, withPix, withoutType},
			PaymentTypeFees: map[string]float64{"Cartão de Crédito": 4.99},
		},
	)

	// Card uses its configured rate; Pix and missing fall back to the default
	assert.Equal(t, int64(499+400+400), result.PaymentFeeCents)
	assert.Equal(t, int64(0), result.MarketplaceFeeCents)
}

func TestComputeSimulationExcludesInvalidOrders(t *testing.T) {
	cancelled := feeOrder("X1", types.ChannelSite, 99999)
	cancelled.Status = "Cancelado"

	result := ComputeSimulation(
		SimulationParams{Month: "2026-01", Channel: types.ChannelAll},
		SimulationInput{Orders: []database.Order{feeOrder("A1", types.ChannelSite, 10000), cancelled}},
	)

	assert.Equal(t, int64(10000), result.RevenueCents)
	assert.Equal(t, 1, result.OrderCount)
}

func TestComputeSimulationProductionCost(t *testing.T) {
	cost := int64(1500)
	cancelled := feeOrder("X1", types.ChannelSite, 5000)
	cancelled.Status = "Cancelado"

	items := []database.ItemWithCost{
		{Item: database.OrderItem{OrderCode: "A1", Channel: types.ChannelSite, Quantity: 2}, CostPriceCents: &cost},
		{Item: database.OrderItem{OrderCode: "X1", Channel: types.ChannelSite, Quantity: 9}, CostPriceCents: &cost},
		{Item: database.OrderItem{OrderCode: "A1", Channel: types.ChannelSite, Quantity: 3}},
	}

	result := ComputeSimulation(
		SimulationParams{Month: "2026-01", Channel: types.ChannelSite},
		SimulationInput{
			Orders: []database.Order{feeOrder("A1", types.ChannelSite, 10000), cancelled},
			Items:  items,
		},
	)

	// Cancelled orders and items without a cost price contribute nothing
	assert.Equal(t, int64(3000), result.ProductionCostCents)
}

func TestComputeSimulationFixedCostAllocation(t *testing.T) {
	orders := []database.Order{
		feeOrder("A1", types.ChannelSite, 30000),
		feeOrder("S1", types.ChannelShopee, 70000),
	}

	// Single-channel scope carries its revenue share of the fixed cost
	site := ComputeSimulation(
		SimulationParams{Month: "2026-01", Channel: types.ChannelSite, FixedCostCents: 100000, DefaultFeePercent: 0},
		SimulationInput{Orders: orders},
	)
	assert.Equal(t, int64(30000), site.FixedCostCents)

	// The "all" scope carries fixed costs in full
	all := ComputeSimulation(
		SimulationParams{Month: "2026-01", Channel: types.ChannelAll, FixedCostCents: 100000},
		SimulationInput{Orders: orders},
	)
	assert.Equal(t, int64(100000), all.FixedCostCents)
}

func TestComputeSimulationTaxAndFreight(t *testing.T) {
	freight := int64(2000)
	order := feeOrder("A1", types.ChannelSite, 10000)
	order.FreightCents = &freight

	result := ComputeSimulation(
		SimulationParams{Month: "2026-01", Channel: types.ChannelSite, TaxPercent: 6},
		SimulationInput{Orders: []database.Order{order}},
	)

	assert.Equal(t, int64(600), result.TaxCents)
	assert.Equal(t, int64(2000), result.FreightCents)
	assert.Equal(t, int64(10000-600-2000), result.ProfitCents)
	assert.InDelta(t, 6.0, result.TaxPercent, 1e-9)
}

func TestComputeSimulationZeroRevenue(t *testing.T) {
	result := ComputeSimulation(
		SimulationParams{Month: "2026-01", Channel: types.ChannelAll, FixedCostCents: 5000},
		SimulationInput{},
	)

	assert.Equal(t, int64(0), result.RevenueCents)
	assert.Equal(t, int64(-5000), result.ProfitCents)
	assert.Equal(t, 0.0, result.MarginPercent)
}

func TestApplyPercent(t *testing.T) {
	assert.Equal(t, int64(499), applyPercent(10000, 4.99))
	assert.Equal(t, int64(0), applyPercent(10000, 0))
	assert.Equal(t, int64(33), applyPercent(1000, 3.25)) // rounds half up
}
