package reports

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lojista/backoffice-service/internal/database"
	"github.com/lojista/backoffice-service/internal/parsers/dateparse"
	"github.com/lojista/backoffice-service/internal/types"
)

// SimulationParams are the operator-supplied knobs of a P&L simulation
type SimulationParams struct {
	Month             string          `json:"month"` // YYYY-MM
	Channel           types.ChannelID `json:"channel"`
	FixedCostCents    int64           `json:"fixedCostCents"`
	TaxPercent        float64         `json:"taxPercent"`
	DefaultFeePercent float64         `json:"defaultFeePercent"`
}

// SimulationInput is everything the simulation reads. Orders span every
// channel of the month so the fixed-cost revenue share can be computed;
// items are already scoped to the requested channel.
type SimulationInput struct {
	Orders          []database.Order
	Items           []database.ItemWithCost
	PaymentTypeFees map[string]float64 // percent by payment type, storefront only
}

// SimulationResult is the simulated monthly P&L
type SimulationResult struct {
	Month   string          `json:"month"`
	Channel types.ChannelID `json:"channel"`

	RevenueCents        int64 `json:"revenueCents"`
	OrderCount          int   `json:"orderCount"`
	MarketplaceFeeCents int64 `json:"marketplaceFeeCents"`
	PaymentFeeCents     int64 `json:"paymentFeeCents"`
	FreightCents        int64 `json:"freightCents"`
	ProductionCostCents int64 `json:"productionCostCents"`
	FixedCostCents      int64 `json:"fixedCostCents"`
	TaxCents            int64 `json:"taxCents"`
	ProfitCents         int64 `json:"profitCents"`

	MarketplaceFeePercent float64 `json:"marketplaceFeePercent"`
	PaymentFeePercent     float64 `json:"paymentFeePercent"`
	FreightPercent        float64 `json:"freightPercent"`
	ProductionCostPercent float64 `json:"productionCostPercent"`
	FixedCostPercent      float64 `json:"fixedCostPercent"`
	TaxPercent            float64 `json:"taxPercent"`
	MarginPercent         float64 `json:"marginPercent"`
}

// ComputeSimulation runs the P&L over already-loaded data. Orders failing the
// accounting validity screen contribute nothing. When the scope is a single
// channel, fixed costs are allocated by that channel's share of the month's
// total valid revenue; the "all" scope carries them in full.
func ComputeSimulation(params SimulationParams, input SimulationInput) *SimulationResult {
	result := &SimulationResult{Month: params.Month, Channel: params.Channel}

	var monthRevenueCents int64
	for _, o := range input.Orders {
		if !IsOrderValidForAccounting(o.Status) {
			continue
		}
		monthRevenueCents += o.TotalCents
		if params.Channel != types.ChannelAll && o.Channel != params.Channel {
			continue
		}

		result.RevenueCents += o.TotalCents
		result.OrderCount++
		if o.FreightCents != nil {
			result.FreightCents += *o.FreightCents
		}

		switch o.Channel {
		case types.ChannelShopee, types.ChannelMeli:
			if o.CommissionFeeCents != nil {
				result.MarketplaceFeeCents += *o.CommissionFeeCents
			}
			if o.ServiceFeeCents != nil {
				result.MarketplaceFeeCents += *o.ServiceFeeCents
			}
		case types.ChannelSite:
			percent := params.DefaultFeePercent
			if o.PaymentType != nil {
				if p, ok := input.PaymentTypeFees[*o.PaymentType]; ok {
					percent = p
				}
			}
			result.PaymentFeeCents += applyPercent(o.TotalCents, percent)
		}
	}

	validByKey := validOrderKeys(input.Orders)
	for _, item := range input.Items {
		if !validByKey[orderKey{code: item.Item.OrderCode, channel: item.Item.Channel}] {
			continue
		}
		if item.CostPriceCents != nil {
			result.ProductionCostCents += int64(item.Item.Quantity) * *item.CostPriceCents
		}
	}

	result.FixedCostCents = params.FixedCostCents
	if params.Channel != types.ChannelAll && monthRevenueCents > 0 {
		share := float64(result.RevenueCents) / float64(monthRevenueCents)
		result.FixedCostCents = int64(float64(params.FixedCostCents)*share + 0.5)
	}

	result.TaxCents = applyPercent(result.RevenueCents, params.TaxPercent)

	result.ProfitCents = result.RevenueCents -
		result.MarketplaceFeeCents -
		result.PaymentFeeCents -
		result.FreightCents -
		result.ProductionCostCents -
		result.FixedCostCents -
		result.TaxCents

	if result.RevenueCents > 0 {
		revenue := float64(result.RevenueCents)
		result.MarketplaceFeePercent = 100 * float64(result.MarketplaceFeeCents) / revenue
		result.PaymentFeePercent = 100 * float64(result.PaymentFeeCents) / revenue
		result.FreightPercent = 100 * float64(result.FreightCents) / revenue
		result.ProductionCostPercent = 100 * float64(result.ProductionCostCents) / revenue
		result.FixedCostPercent = 100 * float64(result.FixedCostCents) / revenue
		result.MarginPercent = 100 * float64(result.ProfitCents) / revenue
	}
	result.TaxPercent = params.TaxPercent
	return result
}

func applyPercent(cents int64, percent float64) int64 {
	return int64(float64(cents)*percent/100 + 0.5)
}

func validOrderKeys(orders []database.Order) map[orderKey]bool {
	keys := make(map[orderKey]bool, len(orders))
	for _, o := range orders {
		if IsOrderValidForAccounting(o.Status) {
			keys[orderKey{code: o.OrderCode, channel: o.Channel}] = true
		}
	}
	return keys
}

// LoadSimulation loads a month's orders, items and fee rules concurrently and
// runs the simulation
func LoadSimulation(ctx context.Context, params SimulationParams) (*SimulationResult, error) {
	start := dateparse.Month(params.Month)
	var from, to *time.Time
	if start != nil {
		end := start.AddDate(0, 1, 0)
		from, to = start, &end
	}

	input := SimulationInput{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		input.Orders, err = database.OrdersForAccounting(gctx, types.ChannelAll, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		input.Items, err = database.ItemsForAccounting(gctx, params.Channel, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		input.PaymentTypeFees, err = database.PaymentTypeFeesForMonth(gctx, params.Month, types.ChannelSite)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return ComputeSimulation(params, input), nil
}
