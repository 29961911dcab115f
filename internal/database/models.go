package database

import (
	"time"

	"github.com/lojista/backoffice-service/internal/billing"
	"github.com/lojista/backoffice-service/internal/types"
)

// Order is one marketplace order per channel, unique on (order_code, channel)
type Order struct {
	ID                 int64           `json:"id"`
	OrderCode          string          `json:"order_code"`
	Channel            types.ChannelID `json:"channel"`
	OrderedAt          time.Time       `json:"ordered_at"`
	ProductLabel       string          `json:"product_label"`
	Quantity           int             `json:"quantity"`
	TotalCents         int64           `json:"total_cents"`
	Status             string          `json:"status"` // free text from source
	FreightCents       *int64          `json:"freight_cents"`
	PaymentType        *string         `json:"payment_type"`
	CommissionFeeCents *int64          `json:"commission_fee_cents"`
	ServiceFeeCents    *int64          `json:"service_fee_cents"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// OrderItem is one product line within an order, unique on
// (order_code, channel, product_code)
type OrderItem struct {
	ID             int64           `json:"id"`
	OrderCode      string          `json:"order_code"`
	Channel        types.ChannelID `json:"channel"`
	ProductCode    string          `json:"product_code"`
	Name           string          `json:"name"`
	UnitPriceCents int64           `json:"unit_price_cents"`
	Quantity       int             `json:"quantity"`
	TotalCents     int64           `json:"total_cents"`
	DiscountCents  int64           `json:"discount_cents"`
	ProductID      *int64          `json:"product_id"`
}

// Product is a canonical product identity. Code is the globally unique
// channel-prefixed composite ("{channel}_{channelCode}").
type Product struct {
	ID             int64           `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	CostPriceCents *int64          `json:"cost_price_cents"` // set manually, never by ingestion
	Channel        types.ChannelID `json:"channel"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ProductGroup consolidates several channel-specific product identities into
// one unit for inventory purposes
type ProductGroup struct {
	ID         string    `json:"id"` // uuid
	Name       string    `json:"name"`
	ProductIDs []int64   `json:"product_ids"`
	CreatedAt  time.Time `json:"created_at"`
}

// ProductStock is the opening-quantity snapshot for a standalone product
type ProductStock struct {
	ProductID  int64 `json:"product_id"`
	OpeningQty int   `json:"opening_qty"`
}

// ProductGroupStock is the opening-quantity snapshot for a product group
type ProductGroupStock struct {
	GroupID    string `json:"group_id"`
	OpeningQty int    `json:"opening_qty"`
}

// InventoryConfig is the singleton stock-start date; sales before it are
// excluded from depletion
type InventoryConfig struct {
	StockStartDate *time.Time `json:"stock_start_date"`
}

// AdSpend is advertising spend for one (month, channel) cell
type AdSpend struct {
	Month       string          `json:"month"` // YYYY-MM
	Channel     types.ChannelID `json:"channel"`
	AmountCents int64           `json:"amount_cents"`
}

// PaymentTypeFee is a payment-processing fee rule for the storefront channel
type PaymentTypeFee struct {
	Month       string          `json:"month"` // YYYY-MM
	Channel     types.ChannelID `json:"channel"`
	PaymentType string          `json:"payment_type"`
	Percent     float64         `json:"percent"`
}

// Bill is a payable with one-to-many installment payments
type Bill struct {
	ID            string         `json:"id"` // uuid
	Description   string         `json:"description"`
	InvoiceNumber string         `json:"invoice_number"`
	TotalCents    int64          `json:"total_cents"`
	DueDate       *time.Time     `json:"due_date"`
	Status        billing.Status `json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
	Payments      []BillPayment  `json:"payments,omitempty"`
}

// BillPayment is one installment of a bill
type BillPayment struct {
	ID          string     `json:"id"` // uuid
	BillID      string     `json:"bill_id"`
	AmountCents int64      `json:"amount_cents"`
	DueDate     *time.Time `json:"due_date"`
	PaidAt      *time.Time `json:"paid_at"` // nil while unpaid
	Notes       string     `json:"notes"`
}

// ImportRun is the audit record of one ingestion batch
type ImportRun struct {
	ID        int64           `json:"id"`
	Channel   types.ChannelID `json:"channel"`
	Filename  string          `json:"filename"`
	FileHash  string          `json:"file_hash"`
	Accepted  int             `json:"accepted"`
	Rejected  int             `json:"rejected"`
	CreatedAt time.Time       `json:"created_at"`
}
