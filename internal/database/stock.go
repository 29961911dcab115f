package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// GetInventoryConfig loads the singleton stock-start date
func GetInventoryConfig(ctx context.Context) (*InventoryConfig, error) {
	var cfg InventoryConfig
	err := Pool().QueryRow(ctx, `
		SELECT stock_start_date FROM inventory_config WHERE id = 1
	`).Scan(&cfg.StockStartDate)
	if err == pgx.ErrNoRows {
		return &InventoryConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory config: %w", err)
	}
	return &cfg, nil
}

// SetStockStartDate upserts the singleton stock-start date
func SetStockStartDate(ctx context.Context, startDate time.Time) error {
	_, err := Pool().Exec(ctx, `
		INSERT INTO inventory_config (id, stock_start_date) VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET stock_start_date = EXCLUDED.stock_start_date
	`, startDate)
	if err != nil {
		return fmt.Errorf("failed to set stock start date: %w", err)
	}
	return nil
}

// SetProductOpeningQty records the opening-stock snapshot for a product
func SetProductOpeningQty(ctx context.Context, productID int64, openingQty int) error {
	_, err := Pool().Exec(ctx, `
		INSERT INTO product_stocks (product_id, opening_qty) VALUES ($1, $2)
		ON CONFLICT (product_id) DO UPDATE SET opening_qty = EXCLUDED.opening_qty
	`, productID, openingQty)
	if err != nil {
		return fmt.Errorf("failed to set opening qty for product %d: %w", productID, err)
	}
	return nil
}

// SetGroupOpeningQty records the opening-stock snapshot for a product group
func SetGroupOpeningQty(ctx context.Context, groupID string, openingQty int) error {
	_, err := Pool().Exec(ctx, `
		INSERT INTO product_group_stocks (group_id, opening_qty) VALUES ($1, $2)
		ON CONFLICT (group_id) DO UPDATE SET opening_qty = EXCLUDED.opening_qty
	`, groupID, openingQty)
	if err != nil {
		return fmt.Errorf("failed to set opening qty for group %s: %w", groupID, err)
	}
	return nil
}

// ListProductStocks returns every recorded product opening quantity
func ListProductStocks(ctx context.Context) ([]ProductStock, error) {
	rows, err := Pool().Query(ctx, `SELECT product_id, opening_qty FROM product_stocks`)
	if err != nil {
		return nil, fmt.Errorf("failed to list product stocks: %w", err)
	}
	defer rows.Close()

	stocks := make([]ProductStock, 0)
	for rows.Next() {
		var s ProductStock
		if err := rows.Scan(&s.ProductID, &s.OpeningQty); err != nil {
			return nil, fmt.Errorf("failed to scan product stock: %w", err)
		}
		stocks = append(stocks, s)
	}
	return stocks, rows.Err()
}

// ListGroupStocks returns every recorded group opening quantity
func ListGroupStocks(ctx context.Context) ([]ProductGroupStock, error) {
	rows, err := Pool().Query(ctx, `SELECT group_id, opening_qty FROM product_group_stocks`)
	if err != nil {
		return nil, fmt.Errorf("failed to list group stocks: %w", err)
	}
	defer rows.Close()

	stocks := make([]ProductGroupStock, 0)
	for rows.Next() {
		var s ProductGroupStock
		if err := rows.Scan(&s.GroupID, &s.OpeningQty); err != nil {
			return nil, fmt.Errorf("failed to scan group stock: %w", err)
		}
		stocks = append(stocks, s)
	}
	return stocks, rows.Err()
}
