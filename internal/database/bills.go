package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lojista/backoffice-service/internal/billing"
)

// CreateBill inserts a new payable; status starts pending
func CreateBill(ctx context.Context, description, invoiceNumber string, totalCents int64, dueDate *time.Time) (*Bill, error) {
	bill := &Bill{
		ID:            uuid.New().String(),
		Description:   description,
		InvoiceNumber: invoiceNumber,
		TotalCents:    totalCents,
		DueDate:       dueDate,
		Status:        billing.StatusPending,
	}
	err := Pool().QueryRow(ctx, `
		INSERT INTO bills (id, description, invoice_number, total_cents, due_date, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING created_at
	`, bill.ID, bill.Description, bill.InvoiceNumber, bill.TotalCents, bill.DueDate, bill.Status).Scan(&bill.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create bill: %w", err)
	}
	return bill, nil
}

// UpdateBill updates a bill's fields and recomputes its status, since a new
// total can flip partial/paid
func UpdateBill(ctx context.Context, billID, description, invoiceNumber string, totalCents int64, dueDate *time.Time) error {
	tx, err := Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE bills SET description = $2, invoice_number = $3, total_cents = $4, due_date = $5
		WHERE id = $1
	`, billID, description, invoiceNumber, totalCents, dueDate)
	if err != nil {
		return fmt.Errorf("failed to update bill: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if err := recomputeBillStatusTx(ctx, tx, billID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// DeleteBill removes a bill; its payments cascade
func DeleteBill(ctx context.Context, billID string) error {
	tag, err := Pool().Exec(ctx, `DELETE FROM bills WHERE id = $1`, billID)
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetBill loads a bill with its payments
func GetBill(ctx context.Context, billID string) (*Bill, error) {
	var b Bill
	err := Pool().QueryRow(ctx, `
		SELECT id, description, invoice_number, total_cents, due_date, status, created_at
		FROM bills WHERE id = $1
	`, billID).Scan(&b.ID, &b.Description, &b.InvoiceNumber, &b.TotalCents, &b.DueDate, &b.Status, &b.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load bill: %w", err)
	}

	rows, err := Pool().Query(ctx, `
		SELECT id, bill_id, amount_cents, due_date, paid_at, notes
		FROM bill_payments WHERE bill_id = $1
		ORDER BY due_date NULLS LAST, id
	`, billID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bill payments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p BillPayment
		if err := rows.Scan(&p.ID, &p.BillID, &p.AmountCents, &p.DueDate, &p.PaidAt, &p.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		b.Payments = append(b.Payments, p)
	}
	return &b, rows.Err()
}

// ListBills returns all bills, most recently created first
func ListBills(ctx context.Context) ([]Bill, error) {
	rows, err := Pool().Query(ctx, `
		SELECT id, description, invoice_number, total_cents, due_date, status, created_at
		FROM bills ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	bills := make([]Bill, 0)
	for rows.Next() {
		var b Bill
		if err := rows.Scan(&b.ID, &b.Description, &b.InvoiceNumber, &b.TotalCents,
			&b.DueDate, &b.Status, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

// CreatePayment adds an installment to a bill and recomputes the bill status
func CreatePayment(ctx context.Context, billID string, amountCents int64, dueDate, paidAt *time.Time, notes string) (*BillPayment, error) {
	tx, err := Pool().Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bills WHERE id = $1)`, billID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check bill: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	payment := &BillPayment{
		ID:          uuid.New().String(),
		BillID:      billID,
		AmountCents: amountCents,
		DueDate:     dueDate,
		PaidAt:      paidAt,
		Notes:       notes,
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO bill_payments (id, bill_id, amount_cents, due_date, paid_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, payment.ID, payment.BillID, payment.AmountCents, payment.DueDate, payment.PaidAt, payment.Notes); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	if err := recomputeBillStatusTx(ctx, tx, billID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit payment: %w", err)
	}
	return payment, nil
}

// UpdatePayment edits an installment and recomputes the bill status
func UpdatePayment(ctx context.Context, billID, paymentID string, amountCents int64, dueDate, paidAt *time.Time, notes string) error {
	tx, err := Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE bill_payments SET amount_cents = $3, due_date = $4, paid_at = $5, notes = $6
		WHERE id = $2 AND bill_id = $1
	`, billID, paymentID, amountCents, dueDate, paidAt, notes)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if err := recomputeBillStatusTx(ctx, tx, billID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// DeletePayment removes an installment and recomputes the bill status
func DeletePayment(ctx context.Context, billID, paymentID string) error {
	tx, err := Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		DELETE FROM bill_payments WHERE id = $2 AND bill_id = $1
	`, billID, paymentID)
	if err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if err := recomputeBillStatusTx(ctx, tx, billID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// recomputeBillStatusTx re-derives the bill status from the sum of paid
// installments, synchronously after every payment mutation
func recomputeBillStatusTx(ctx context.Context, tx pgx.Tx, billID string) error {
	var totalCents, paidSum int64
	err := tx.QueryRow(ctx, `
		SELECT b.total_cents,
		       COALESCE((SELECT SUM(p.amount_cents) FROM bill_payments p
		                 WHERE p.bill_id = b.id AND p.paid_at IS NOT NULL), 0)
		FROM bills b WHERE b.id = $1
	`, billID).Scan(&totalCents, &paidSum)
	if err == pgx.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load bill totals: %w", err)
	}

	status := billing.RecomputeStatus(totalCents, paidSum)
	if _, err := tx.Exec(ctx, `UPDATE bills SET status = $2 WHERE id = $1`, billID, status); err != nil {
		return fmt.Errorf("failed to update bill status: %w", err)
	}
	return nil
}
