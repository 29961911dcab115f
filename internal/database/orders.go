package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/lojista/backoffice-service/internal/types"
)

// UpsertOrderTx inserts or updates an order by its natural key
// (order_code, channel). Re-imports refresh totals, status and date.
func UpsertOrderTx(ctx context.Context, tx pgx.Tx, o *Order) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO orders (
			order_code, channel, ordered_at, product_label, quantity,
			total_cents, status, freight_cents, payment_type,
			commission_fee_cents, service_fee_cents, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		ON CONFLICT (order_code, channel) DO UPDATE SET
			ordered_at = EXCLUDED.ordered_at,
			product_label = EXCLUDED.product_label,
			quantity = EXCLUDED.quantity,
			total_cents = EXCLUDED.total_cents,
			status = EXCLUDED.status,
			freight_cents = COALESCE(EXCLUDED.freight_cents, orders.freight_cents),
			payment_type = COALESCE(EXCLUDED.payment_type, orders.payment_type),
			commission_fee_cents = COALESCE(EXCLUDED.commission_fee_cents, orders.commission_fee_cents),
			service_fee_cents = COALESCE(EXCLUDED.service_fee_cents, orders.service_fee_cents),
			updated_at = NOW()
	`, o.OrderCode, o.Channel, o.OrderedAt, o.ProductLabel, o.Quantity,
		o.TotalCents, o.Status, o.FreightCents, o.PaymentType,
		o.CommissionFeeCents, o.ServiceFeeCents)
	if err != nil {
		return fmt.Errorf("failed to upsert order %s/%s: %w", o.OrderCode, o.Channel, err)
	}
	return nil
}

// UpsertOrderItemTx inserts or updates an order line by
// (order_code, channel, product_code)
func UpsertOrderItemTx(ctx context.Context, tx pgx.Tx, item *OrderItem) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO order_items (
			order_code, channel, product_code, name, unit_price_cents,
			quantity, total_cents, discount_cents, product_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (order_code, channel, product_code) DO UPDATE SET
			name = EXCLUDED.name,
			unit_price_cents = EXCLUDED.unit_price_cents,
			quantity = EXCLUDED.quantity,
			total_cents = EXCLUDED.total_cents,
			discount_cents = EXCLUDED.discount_cents,
			product_id = EXCLUDED.product_id
	`, item.OrderCode, item.Channel, item.ProductCode, item.Name,
		item.UnitPriceCents, item.Quantity, item.TotalCents,
		item.DiscountCents, item.ProductID)
	if err != nil {
		return fmt.Errorf("failed to upsert item %s/%s/%s: %w",
			item.OrderCode, item.Channel, item.ProductCode, err)
	}
	return nil
}

// OrderExistsTx reports whether an order with the natural key exists
func OrderExistsTx(ctx context.Context, tx pgx.Tx, orderCode string, channel types.ChannelID) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM orders WHERE order_code = $1 AND channel = $2)
	`, orderCode, channel).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check order %s/%s: %w", orderCode, channel, err)
	}
	return exists, nil
}

// UpdateOrderAggregatesTx refreshes an order's aggregate quantity and label
// from the secondary items export. The order total is never touched here:
// the order-level export is the authoritative source for it.
func UpdateOrderAggregatesTx(ctx context.Context, tx pgx.Tx, orderCode string, channel types.ChannelID, quantity int, label string) error {
	_, err := tx.Exec(ctx, `
		UPDATE orders
		SET quantity = $3, product_label = $4, updated_at = NOW()
		WHERE order_code = $1 AND channel = $2
	`, orderCode, channel, quantity, label)
	if err != nil {
		return fmt.Errorf("failed to update aggregates for %s/%s: %w", orderCode, channel, err)
	}
	return nil
}

// ListOrders returns orders for a channel ("all" for every channel) within an
// optional date range, newest first
func ListOrders(ctx context.Context, channel types.ChannelID, from, to *time.Time, limit int) ([]Order, error) {
	if limit <= 0 || limit > 1000 {
		limit = 200
	}
	rows, err := Pool().Query(ctx, `
		SELECT id, order_code, channel, ordered_at, product_label, quantity,
		       total_cents, status, freight_cents, payment_type,
		       commission_fee_cents, service_fee_cents, created_at, updated_at
		FROM orders
		WHERE ($1 = 'all' OR channel = $1)
		  AND ($2::timestamptz IS NULL OR ordered_at >= $2)
		  AND ($3::timestamptz IS NULL OR ordered_at < $3)
		ORDER BY ordered_at DESC
		LIMIT $4
	`, channel, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()
	return scanOrders(rows)
}

// OrdersForAccounting loads every order of a channel within a range,
// including invalid ones; validity screening happens in the reports layer so
// the heuristic stays in one testable place.
func OrdersForAccounting(ctx context.Context, channel types.ChannelID, from, to *time.Time) ([]Order, error) {
	rows, err := Pool().Query(ctx, `
		SELECT id, order_code, channel, ordered_at, product_label, quantity,
		       total_cents, status, freight_cents, payment_type,
		       commission_fee_cents, service_fee_cents, created_at, updated_at
		FROM orders
		WHERE ($1 = 'all' OR channel = $1)
		  AND ($2::timestamptz IS NULL OR ordered_at >= $2)
		  AND ($3::timestamptz IS NULL OR ordered_at < $3)
		ORDER BY ordered_at
	`, channel, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	defer rows.Close()
	return scanOrders(rows)
}

// PurgeChannel deletes every order and item of a channel (explicit bulk purge)
func PurgeChannel(ctx context.Context, channel types.ChannelID) (int64, error) {
	tx, err := Pool().Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin purge: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE channel = $1`, channel); err != nil {
		return 0, fmt.Errorf("failed to purge items: %w", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM orders WHERE channel = $1`, channel)
	if err != nil {
		return 0, fmt.Errorf("failed to purge orders: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit purge: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanOrders(rows pgx.Rows) ([]Order, error) {
	orders := make([]Order, 0)
	for rows.Next() {
		var o Order
		if err := rows.Scan(
			&o.ID, &o.OrderCode, &o.Channel, &o.OrderedAt, &o.ProductLabel,
			&o.Quantity, &o.TotalCents, &o.Status, &o.FreightCents,
			&o.PaymentType, &o.CommissionFeeCents, &o.ServiceFeeCents,
			&o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// ItemWithCost pairs an order line with its product's cost price for
// production-cost rollups
type ItemWithCost struct {
	Item           OrderItem
	CostPriceCents *int64
}

// ItemsForAccounting loads the order lines of a channel within a range,
// joined with the parent order for date filtering
func ItemsForAccounting(ctx context.Context, channel types.ChannelID, from, to *time.Time) ([]ItemWithCost, error) {
	rows, err := Pool().Query(ctx, `
		SELECT i.id, i.order_code, i.channel, i.product_code, i.name,
		       i.unit_price_cents, i.quantity, i.total_cents, i.discount_cents,
		       i.product_id, p.cost_price_cents
		FROM order_items i
		JOIN orders o ON o.order_code = i.order_code AND o.channel = i.channel
		LEFT JOIN products p ON p.id = i.product_id
		WHERE ($1 = 'all' OR i.channel = $1)
		  AND ($2::timestamptz IS NULL OR o.ordered_at >= $2)
		  AND ($3::timestamptz IS NULL OR o.ordered_at < $3)
	`, channel, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}
	defer rows.Close()

	items := make([]ItemWithCost, 0)
	for rows.Next() {
		var ic ItemWithCost
		if err := rows.Scan(
			&ic.Item.ID, &ic.Item.OrderCode, &ic.Item.Channel,
			&ic.Item.ProductCode, &ic.Item.Name, &ic.Item.UnitPriceCents,
			&ic.Item.Quantity, &ic.Item.TotalCents, &ic.Item.DiscountCents,
			&ic.Item.ProductID, &ic.CostPriceCents,
		); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, ic)
	}
	return items, rows.Err()
}
