package reports

import "math"

// ProjectionRow values one ledger entity's remaining stock
type ProjectionRow struct {
	LedgerRow
	AvgUnitPriceCents  int64 `json:"avgUnitPriceCents"`
	ProjectedRevenueCents int64 `json:"projectedRevenueCents"`
	ProjectedCostCents    int64 `json:"projectedCostCents"`
}

// ComputeProjection extends the ledger with hypothetical revenue and cost if
// the remaining stock sold out. Each entity is valued at the mean of all
// observed item unit prices for its product(s); when nothing was ever sold,
// the manually entered cost price stands in. Cost uses cost price only, zero
// when unset.
func ComputeProjection(in LedgerInput) []ProjectionRow {
	ledger := ComputeLedger(in)

	priceSum := make(map[int64]int64)
	priceCount := make(map[int64]int64)
	for _, ic := range in.Items {
		if ic.Item.ProductID == nil || ic.Item.UnitPriceCents <= 0 {
			continue
		}
		priceSum[*ic.Item.ProductID] += ic.Item.UnitPriceCents
		priceCount[*ic.Item.ProductID]++
	}

	costByProduct := make(map[int64]int64, len(in.Products))
	for _, p := range in.Products {
		if p.CostPriceCents != nil {
			costByProduct[p.ID] = *p.CostPriceCents
		}
	}

	memberIDs := make(map[string][]int64, len(in.Groups))
	for _, g := range in.Groups {
		memberIDs[g.ID] = g.ProductIDs
	}

	rows := make([]ProjectionRow, 0, len(ledger))
	for _, entry := range ledger {
		var productIDs []int64
		if entry.EntityKind == "group" {
			productIDs = memberIDs[entry.EntityID]
		} else {
			id, err := parseID(entry.EntityID)
			if err != nil {
				continue
			}
			productIDs = []int64{id}
		}

		var sum, count, costSum, costCount int64
		for _, productID := range productIDs {
			sum += priceSum[productID]
			count += priceCount[productID]
			if cost, ok := costByProduct[productID]; ok {
				costSum += cost
				costCount++
			}
		}

		avgCost := int64(0)
		if costCount > 0 {
			avgCost = costSum / costCount
		}
		avgPrice := avgCost // fallback when no sale was ever observed
		if count > 0 {
			avgPrice = int64(math.Round(float64(sum) / float64(count)))
		}

		rows = append(rows, ProjectionRow{
			LedgerRow:             entry,
			AvgUnitPriceCents:     avgPrice,
			ProjectedRevenueCents: avgPrice * int64(entry.Current),
			ProjectedCostCents:    avgCost * int64(entry.Current),
		})
	}
	return rows
}
