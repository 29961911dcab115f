// Package ingestion orchestrates one uploaded export file end to end:
// decode, parse, normalize, aggregate, and upsert into the canonical store
// within a single transaction.
package ingestion

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lojista/backoffice-service/internal/channels"
	"github.com/lojista/backoffice-service/internal/database"
	"github.com/lojista/backoffice-service/internal/parsers/csv"
	"github.com/lojista/backoffice-service/internal/parsers/xlsx"
	"github.com/lojista/backoffice-service/internal/types"
)

// Ingest processes one uploaded export file for a channel. Malformed rows are
// counted and skipped; a malformed file aborts with an error and nothing is
// persisted. The whole batch commits atomically or not at all.
func Ingest(ctx context.Context, content []byte, filename string, channel types.ChannelID) (*types.IngestResult, error) {
	start := time.Now()

	normalizer, err := channels.Get(channel)
	if err != nil {
		return nil, err
	}

	rows, err := parseFile(content, filename, normalizer.Delimiter())
	if err != nil {
		batchFailures.WithLabelValues(string(channel)).Inc()
		return nil, fmt.Errorf("unreadable file %q: %w", filename, err)
	}

	parsed := normalizeRows(rows, normalizer)
	orders := parsed.Orders
	if normalizer.ItemGranular() {
		orders = AggregateOrders(orders)
	}

	if err := persistBatch(ctx, channel, filename, content, orders, parsed); err != nil {
		batchFailures.WithLabelValues(string(channel)).Inc()
		return nil, err
	}

	result := &types.IngestResult{
		Accepted: len(orders),
		Rejected: len(parsed.Errors),
	}
	rowsAccepted.WithLabelValues(string(channel)).Add(float64(parsed.ValidRows))
	rowsRejected.WithLabelValues(string(channel)).Add(float64(result.Rejected))
	batchDuration.WithLabelValues(string(channel)).Observe(time.Since(start).Seconds())

	log.Info().
		Str("channel", string(channel)).
		Str("filename", filename).
		Int("accepted", result.Accepted).
		Int("rejected", result.Rejected).
		Dur("elapsed", time.Since(start)).
		Msg("ingestion batch committed")
	return result, nil
}

// parseFile turns raw bytes into header-keyed row maps, by extension
func parseFile(content []byte, filename string, delimiter csv.Delimiter) ([]map[string]string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xlsx", ".xls":
		return xlsx.ParseRows(content)
	default:
		opts := csv.DefaultOptions()
		opts.Delimiter = delimiter
		return csv.ParseRows(content, opts)
	}
}

// normalizeRows maps raw rows through the channel normalizer; bad rows are
// collected as errors, never fatal
func normalizeRows(rows []map[string]string, normalizer channels.Normalizer) *types.ParseResult {
	result := &types.ParseResult{
		Orders: make([]types.NormalizedOrder, 0, len(rows)),
		Errors: make([]types.ParseError, 0),
	}
	for i, row := range rows {
		rowNumber := i + 2 // header is row 1
		result.TotalRows++
		order := normalizer.Normalize(row, rowNumber)
		if order == nil {
			result.Errors = append(result.Errors, types.ParseError{
				RowNumber: &rowNumber,
				Message:   "missing or invalid order id/date",
			})
			continue
		}
		result.Orders = append(result.Orders, *order)
		result.ValidRows++
	}
	return result
}

// persistBatch upserts all orders, items and products of the batch inside a
// single transaction, then records the import run
func persistBatch(ctx context.Context, channel types.ChannelID, filename string, content []byte, orders []types.NormalizedOrder, parsed *types.ParseResult) error {
	pool := database.Pool()
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin batch: %w", err)
	}
	defer tx.Rollback(ctx)

	for i := range orders {
		order := &orders[i]
		record := &database.Order{
			OrderCode:          order.OrderCode,
			Channel:            channel,
			OrderedAt:          order.OrderedAt,
			ProductLabel:       order.ProductLabel,
			Quantity:           order.Quantity,
			TotalCents:         order.TotalCents,
			Status:             order.Status,
			FreightCents:       order.FreightCents,
			PaymentType:        order.PaymentType,
			CommissionFeeCents: order.CommissionFeeCents,
			ServiceFeeCents:    order.ServiceFeeCents,
		}
		if err := database.UpsertOrderTx(ctx, tx, record); err != nil {
			return err
		}

		for _, item := range order.Items {
			productID, err := database.EnsureProductTx(ctx, tx, channel, item.ProductCode, item.Name)
			if err != nil {
				return err
			}
			itemRecord := &database.OrderItem{
				OrderCode:      order.OrderCode,
				Channel:        channel,
				ProductCode:    item.ProductCode,
				Name:           item.Name,
				UnitPriceCents: item.UnitPriceCents,
				Quantity:       item.Quantity,
				TotalCents:     item.TotalCents,
				DiscountCents:  item.DiscountCents,
				ProductID:      &productID,
			}
			if err := database.UpsertOrderItemTx(ctx, tx, itemRecord); err != nil {
				return err
			}
		}
	}

	run := &database.ImportRun{
		Channel:  channel,
		Filename: filename,
		FileHash: hashContent(content),
		Accepted: len(orders),
		Rejected: len(parsed.Errors),
	}
	if err := database.RecordImportRunTx(ctx, tx, run); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}
	return nil
}

func hashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
