package reports

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lojista/backoffice-service/internal/database"
	"github.com/lojista/backoffice-service/internal/parsers/dateparse"
	"github.com/lojista/backoffice-service/internal/types"
)

// MonthChannel is the typed grouping key of the ads dashboard. A struct key
// cannot collide the way a concatenated "month|channel" string could.
type MonthChannel struct {
	Month   string          `json:"month"` // YYYY-MM
	Channel types.ChannelID `json:"channel"`
}

// AdsCell is one (month, channel) cell of the dashboard
type AdsCell struct {
	MonthChannel
	RevenueCents int64    `json:"revenueCents"`
	SpendCents   int64    `json:"spendCents"`
	OrderCount   int      `json:"orderCount"`
	ROAS         *float64 `json:"roas"` // nil when spend is zero
}

// AdsKPIs are the dashboard headline numbers
type AdsKPIs struct {
	RevenueCents int64    `json:"revenueCents"`
	SpendCents   int64    `json:"spendCents"`
	OrderCount   int      `json:"orderCount"`
	ROAS         *float64 `json:"roas"`
}

// AdsDashboard is the full dashboard payload
type AdsDashboard struct {
	KPIs      AdsKPIs   `json:"kpis"`
	Cells     []AdsCell `json:"cells"`
	ByMonth   []AdsCell `json:"byMonth"`
	ByChannel []AdsCell `json:"byChannel"`
}

// ComputeAdsDashboard joins valid-order revenue against ad spend per
// (month, channel) cell. ROAS is nil, never infinity, whenever spend for
// the cell is exactly zero.
func ComputeAdsDashboard(orders []database.Order, spends []database.AdSpend) *AdsDashboard {
	cells := make(map[MonthChannel]*AdsCell)

	upsert := func(key MonthChannel) *AdsCell {
		cell, ok := cells[key]
		if !ok {
			cell = &AdsCell{MonthChannel: key}
			cells[key] = cell
		}
		return cell
	}

	for _, o := range orders {
		if !IsOrderValidForAccounting(o.Status) {
			continue
		}
		cell := upsert(MonthChannel{Month: dateparse.MonthKey(o.OrderedAt), Channel: o.Channel})
		cell.RevenueCents += o.TotalCents
		cell.OrderCount++
	}
	for _, s := range spends {
		upsert(MonthChannel{Month: s.Month, Channel: s.Channel}).SpendCents += s.AmountCents
	}

	dashboard := &AdsDashboard{Cells: make([]AdsCell, 0, len(cells))}
	for _, cell := range cells {
		cell.ROAS = roas(cell.RevenueCents, cell.SpendCents)
		dashboard.Cells = append(dashboard.Cells, *cell)
		dashboard.KPIs.RevenueCents += cell.RevenueCents
		dashboard.KPIs.SpendCents += cell.SpendCents
		dashboard.KPIs.OrderCount += cell.OrderCount
	}
	dashboard.KPIs.ROAS = roas(dashboard.KPIs.RevenueCents, dashboard.KPIs.SpendCents)

	sort.Slice(dashboard.Cells, func(i, j int) bool {
		if dashboard.Cells[i].Month != dashboard.Cells[j].Month {
			return dashboard.Cells[i].Month < dashboard.Cells[j].Month
		}
		return dashboard.Cells[i].Channel < dashboard.Cells[j].Channel
	})

	dashboard.ByMonth = rollupCells(dashboard.Cells, func(c AdsCell) MonthChannel {
		return MonthChannel{Month: c.Month, Channel: types.ChannelAll}
	})
	dashboard.ByChannel = rollupCells(dashboard.Cells, func(c AdsCell) MonthChannel {
		return MonthChannel{Channel: c.Channel}
	})
	return dashboard
}

// rollupCells folds cells into coarser buckets, recomputing ROAS per bucket
func rollupCells(cells []AdsCell, key func(AdsCell) MonthChannel) []AdsCell {
	buckets := make(map[MonthChannel]*AdsCell)
	order := make([]MonthChannel, 0)
	for _, cell := range cells {
		k := key(cell)
		bucket, ok := buckets[k]
		if !ok {
			bucket = &AdsCell{MonthChannel: k}
			buckets[k] = bucket
			order = append(order, k)
		}
		bucket.RevenueCents += cell.RevenueCents
		bucket.SpendCents += cell.SpendCents
		bucket.OrderCount += cell.OrderCount
	}

	result := make([]AdsCell, 0, len(order))
	for _, k := range order {
		bucket := buckets[k]
		bucket.ROAS = roas(bucket.RevenueCents, bucket.SpendCents)
		result = append(result, *bucket)
	}
	return result
}

func roas(revenueCents, spendCents int64) *float64 {
	if spendCents == 0 {
		return nil
	}
	value := float64(revenueCents) / float64(spendCents)
	return &value
}

// LoadAdsDashboard loads orders and spend concurrently and computes the
// dashboard. from/to are optional YYYY-MM tokens.
func LoadAdsDashboard(ctx context.Context, fromMonth, toMonth string) (*AdsDashboard, error) {
	var (
		orders []database.Order
		spends []database.AdSpend
	)

	var from, to *time.Time
	if t := dateparse.Month(fromMonth); t != nil {
		from = t
	}
	if t := dateparse.Month(toMonth); t != nil {
		end := t.AddDate(0, 1, 0)
		to = &end
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = database.OrdersForAccounting(gctx, types.ChannelAll, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		spends, err = database.ListAdSpends(gctx, fromMonth, toMonth)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return ComputeAdsDashboard(orders, spends), nil
}
