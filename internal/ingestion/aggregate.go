package ingestion

import (
	"github.com/lojista/backoffice-service/internal/types"
)

// AggregateOrders merges line-item granular rows sharing an order code into
// one order record: quantities and line totals are summed, per-row fees are
// summed, and the order-level total column wins over summed line totals when
// the export carries one. Input order is preserved for determinism.
func AggregateOrders(orders []types.NormalizedOrder) []types.NormalizedOrder {
	merged := make([]types.NormalizedOrder, 0, len(orders))
	index := make(map[string]int, len(orders))

	for _, order := range orders {
		pos, seen := index[order.OrderCode]
		if !seen {
			index[order.OrderCode] = len(merged)
			merged = append(merged, order)
			continue
		}

		existing := &merged[pos]
		existing.Quantity += order.Quantity
		existing.Items = append(existing.Items, order.Items...)

		if order.HasOrderTotal {
			// Order-level total is repeated on every row; keep it, don't sum
			existing.TotalCents = order.TotalCents
			existing.HasOrderTotal = true
		} else if !existing.HasOrderTotal {
			existing.TotalCents += order.TotalCents
		}

		if existing.ProductLabel == "" {
			existing.ProductLabel = order.ProductLabel
		} else if order.ProductLabel != "" && order.ProductLabel != existing.ProductLabel {
			existing.ProductLabel = existing.ProductLabel + " + " + order.ProductLabel
		}

		if order.Status != "" {
			existing.Status = order.Status
		}
		existing.CommissionFeeCents = sumOptional(existing.CommissionFeeCents, order.CommissionFeeCents)
		existing.ServiceFeeCents = sumOptional(existing.ServiceFeeCents, order.ServiceFeeCents)
		if existing.FreightCents == nil {
			existing.FreightCents = order.FreightCents
		}
	}

	for i := range merged {
		merged[i].Items = mergeItems(merged[i].Items)
	}
	return merged
}

// mergeItems collapses duplicate product codes within one order, mirroring
// the (order, channel, product_code) uniqueness of the store
func mergeItems(items []types.NormalizedItem) []types.NormalizedItem {
	if len(items) < 2 {
		return items
	}
	merged := make([]types.NormalizedItem, 0, len(items))
	index := make(map[string]int, len(items))
	for _, item := range items {
		pos, seen := index[item.ProductCode]
		if !seen {
			index[item.ProductCode] = len(merged)
			merged = append(merged, item)
			continue
		}
		existing := &merged[pos]
		existing.Quantity += item.Quantity
		existing.TotalCents += item.TotalCents
		existing.DiscountCents += item.DiscountCents
	}
	return merged
}

func sumOptional(a, b *int64) *int64 {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	sum := *a + *b
	return &sum
}
