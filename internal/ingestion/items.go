package ingestion

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lojista/backoffice-service/internal/channels"
	"github.com/lojista/backoffice-service/internal/database"
	"github.com/lojista/backoffice-service/internal/parsers/csv"
	"github.com/lojista/backoffice-service/internal/types"
)

// IngestSiteItems reconciles the storefront's items-only export against
// already-ingested orders: items upsert by natural key and the parent order's
// aggregate quantity and label are refreshed. The order total is never
// overwritten: the storefront's discount rules make the order-level export
// the authoritative source for it. Items whose parent order is missing are
// counted rejected.
func IngestSiteItems(ctx context.Context, content []byte, filename string) (*types.IngestResult, error) {
	start := time.Now()
	channel := types.ChannelSite

	normalizer := &channels.SiteNormalizer{}
	opts := csv.DefaultOptions()
	opts.Delimiter = normalizer.Delimiter()
	rows, err := csv.ParseRows(content, opts)
	if err != nil {
		batchFailures.WithLabelValues(string(channel)).Inc()
		return nil, fmt.Errorf("unreadable file %q: %w", filename, err)
	}

	// Group item rows per order so aggregates refresh once per order
	type orderItems struct {
		quantity int
		label    string
		items    []types.NormalizedItem
	}
	grouped := make(map[string]*orderItems)
	orderCodes := make([]string, 0)
	rejected := 0

	for _, row := range rows {
		itemRow := normalizer.NormalizeItemRow(row)
		if itemRow == nil {
			rejected++
			continue
		}
		group, ok := grouped[itemRow.OrderCode]
		if !ok {
			group = &orderItems{}
			grouped[itemRow.OrderCode] = group
			orderCodes = append(orderCodes, itemRow.OrderCode)
		}
		group.quantity += itemRow.Item.Quantity
		if group.label == "" {
			group.label = itemRow.Item.Name
		} else if itemRow.Item.Name != "" && itemRow.Item.Name != group.label {
			group.label = group.label + " + " + itemRow.Item.Name
		}
		group.items = append(group.items, itemRow.Item)
	}

	pool := database.Pool()
	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin batch: %w", err)
	}
	defer tx.Rollback(ctx)

	accepted := 0
	for _, orderCode := range orderCodes {
		group := grouped[orderCode]

		exists, err := database.OrderExistsTx(ctx, tx, orderCode, channel)
		if err != nil {
			batchFailures.WithLabelValues(string(channel)).Inc()
			return nil, err
		}
		if !exists {
			rejected += len(group.items)
			continue
		}

		for _, item := range mergeItems(group.items) {
			productID, err := database.EnsureProductTx(ctx, tx, channel, item.ProductCode, item.Name)
			if err != nil {
				batchFailures.WithLabelValues(string(channel)).Inc()
				return nil, err
			}
			record := &database.OrderItem{
				OrderCode:      orderCode,
				Channel:        channel,
				ProductCode:    item.ProductCode,
				Name:           item.Name,
				UnitPriceCents: item.UnitPriceCents,
				Quantity:       item.Quantity,
				TotalCents:     item.TotalCents,
				ProductID:      &productID,
			}
			if err := database.UpsertOrderItemTx(ctx, tx, record); err != nil {
				batchFailures.WithLabelValues(string(channel)).Inc()
				return nil, err
			}
			accepted++
		}

		if err := database.UpdateOrderAggregatesTx(ctx, tx, orderCode, channel, group.quantity, group.label); err != nil {
			batchFailures.WithLabelValues(string(channel)).Inc()
			return nil, err
		}
	}

	run := &database.ImportRun{
		Channel:  channel,
		Filename: filename,
		FileHash: hashContent(content),
		Accepted: accepted,
		Rejected: rejected,
	}
	if err := database.RecordImportRunTx(ctx, tx, run); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit batch: %w", err)
	}

	rowsAccepted.WithLabelValues(string(channel)).Add(float64(accepted))
	rowsRejected.WithLabelValues(string(channel)).Add(float64(rejected))
	batchDuration.WithLabelValues(string(channel)).Observe(time.Since(start).Seconds())

	log.Info().
		Str("filename", filename).
		Int("accepted", accepted).
		Int("rejected", rejected).
		Msg("items reconciliation committed")
	return &types.IngestResult{Accepted: accepted, Rejected: rejected}, nil
}
