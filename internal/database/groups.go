package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// CreateProductGroup creates a group with its members in one transaction.
// A group needs at least two members; a product already in another group
// surfaces as ErrAlreadyGrouped and nothing is persisted.
func CreateProductGroup(ctx context.Context, name string, productIDs []int64) (*ProductGroup, error) {
	if len(productIDs) < 2 {
		return nil, fmt.Errorf("a product group requires at least 2 products")
	}

	tx, err := Pool().Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	group := &ProductGroup{ID: uuid.New().String(), Name: name, ProductIDs: productIDs}
	if _, err := tx.Exec(ctx, `
		INSERT INTO product_groups (id, name, created_at) VALUES ($1, $2, NOW())
	`, group.ID, group.Name); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	for _, productID := range productIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO product_group_items (group_id, product_id) VALUES ($1, $2)
		`, group.ID, productID); err != nil {
			if isUniqueViolation(err) {
				return nil, ErrAlreadyGrouped
			}
			return nil, fmt.Errorf("failed to add product %d to group: %w", productID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit group: %w", err)
	}
	return group, nil
}

// UpdateProductGroup replaces a group's name and membership atomically
func UpdateProductGroup(ctx context.Context, groupID, name string, productIDs []int64) error {
	if len(productIDs) < 2 {
		return fmt.Errorf("a product group requires at least 2 products")
	}

	tx, err := Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `UPDATE product_groups SET name = $2 WHERE id = $1`, groupID, name)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM product_group_items WHERE group_id = $1`, groupID); err != nil {
		return fmt.Errorf("failed to clear group members: %w", err)
	}
	for _, productID := range productIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO product_group_items (group_id, product_id) VALUES ($1, $2)
		`, groupID, productID); err != nil {
			if isUniqueViolation(err) {
				return ErrAlreadyGrouped
			}
			return fmt.Errorf("failed to add product %d to group: %w", productID, err)
		}
	}

	return tx.Commit(ctx)
}

// DeleteProductGroup removes a group; members and its stock row cascade
func DeleteProductGroup(ctx context.Context, groupID string) error {
	tag, err := Pool().Exec(ctx, `DELETE FROM product_groups WHERE id = $1`, groupID)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListProductGroups returns all groups with their member product ids
func ListProductGroups(ctx context.Context) ([]ProductGroup, error) {
	rows, err := Pool().Query(ctx, `
		SELECT g.id, g.name, g.created_at, COALESCE(array_agg(gi.product_id) FILTER (WHERE gi.product_id IS NOT NULL), '{}')
		FROM product_groups g
		LEFT JOIN product_group_items gi ON gi.group_id = g.id
		GROUP BY g.id, g.name, g.created_at
		ORDER BY g.name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	groups := make([]ProductGroup, 0)
	for rows.Next() {
		var g ProductGroup
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatedAt, &g.ProductIDs); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}
