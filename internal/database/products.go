package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/lojista/backoffice-service/internal/types"
)

// CompositeCode builds the globally unique product code for a channel-scoped
// product identifier
func CompositeCode(channel types.ChannelID, channelCode string) string {
	return fmt.Sprintf("%s_%s", channel, channelCode)
}

// EnsureProductTx upserts a product by composite code and returns its id.
// On conflict only the display name is refreshed: re-imports may carry
// corrected names, but cost price is manual and never touched by ingestion.
func EnsureProductTx(ctx context.Context, tx pgx.Tx, channel types.ChannelID, channelCode, name string) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx, `
		INSERT INTO products (code, name, channel, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (code) DO UPDATE SET
			name = EXCLUDED.name,
			updated_at = NOW()
		RETURNING id
	`, CompositeCode(channel, channelCode), name, channel).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to ensure product %s: %w", CompositeCode(channel, channelCode), err)
	}
	return id, nil
}

// ListProducts returns all products ordered by name
func ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := Pool().Query(ctx, `
		SELECT id, code, name, cost_price_cents, channel, created_at, updated_at
		FROM products
		ORDER BY name, code
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.CostPriceCents,
			&p.Channel, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// SetProductCostPrice updates the manually maintained cost price.
// Returns ErrNotFound when the product does not exist.
func SetProductCostPrice(ctx context.Context, productID int64, costPriceCents *int64) error {
	tag, err := Pool().Exec(ctx, `
		UPDATE products SET cost_price_cents = $2, updated_at = NOW() WHERE id = $1
	`, productID, costPriceCents)
	if err != nil {
		return fmt.Errorf("failed to set cost price for product %d: %w", productID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
