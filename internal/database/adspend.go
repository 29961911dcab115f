package database

import (
	"context"
	"fmt"

	"github.com/lojista/backoffice-service/internal/types"
)

// UpsertAdSpend records advertising spend for one (month, channel) cell
func UpsertAdSpend(ctx context.Context, spend *AdSpend) error {
	_, err := Pool().Exec(ctx, `
		INSERT INTO ad_spends (month, channel, amount_cents) VALUES ($1, $2, $3)
		ON CONFLICT (month, channel) DO UPDATE SET amount_cents = EXCLUDED.amount_cents
	`, spend.Month, spend.Channel, spend.AmountCents)
	if err != nil {
		return fmt.Errorf("failed to upsert ad spend %s/%s: %w", spend.Month, spend.Channel, err)
	}
	return nil
}

// ListAdSpends returns spend cells within an optional YYYY-MM range
func ListAdSpends(ctx context.Context, fromMonth, toMonth string) ([]AdSpend, error) {
	rows, err := Pool().Query(ctx, `
		SELECT month, channel, amount_cents
		FROM ad_spends
		WHERE ($1 = '' OR month >= $1) AND ($2 = '' OR month <= $2)
		ORDER BY month, channel
	`, fromMonth, toMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to list ad spends: %w", err)
	}
	defer rows.Close()

	spends := make([]AdSpend, 0)
	for rows.Next() {
		var s AdSpend
		if err := rows.Scan(&s.Month, &s.Channel, &s.AmountCents); err != nil {
			return nil, fmt.Errorf("failed to scan ad spend: %w", err)
		}
		spends = append(spends, s)
	}
	return spends, rows.Err()
}

// UpsertPaymentTypeFee records a payment-processing fee rule
func UpsertPaymentTypeFee(ctx context.Context, fee *PaymentTypeFee) error {
	_, err := Pool().Exec(ctx, `
		INSERT INTO payment_type_fees (month, channel, payment_type, percent)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (month, channel, payment_type) DO UPDATE SET percent = EXCLUDED.percent
	`, fee.Month, fee.Channel, fee.PaymentType, fee.Percent)
	if err != nil {
		return fmt.Errorf("failed to upsert payment fee %s/%s/%s: %w",
			fee.Month, fee.Channel, fee.PaymentType, err)
	}
	return nil
}

// PaymentTypeFeesForMonth loads the fee rules of one month and channel,
// keyed by payment-type label
func PaymentTypeFeesForMonth(ctx context.Context, month string, channel types.ChannelID) (map[string]float64, error) {
	rows, err := Pool().Query(ctx, `
		SELECT payment_type, percent
		FROM payment_type_fees
		WHERE month = $1 AND channel = $2
	`, month, channel)
	if err != nil {
		return nil, fmt.Errorf("failed to load payment fees: %w", err)
	}
	defer rows.Close()

	fees := make(map[string]float64)
	for rows.Next() {
		var paymentType string
		var percent float64
		if err := rows.Scan(&paymentType, &percent); err != nil {
			return nil, fmt.Errorf("failed to scan payment fee: %w", err)
		}
		fees[paymentType] = percent
	}
	return fees, rows.Err()
}
