package types

import "time"

// ChannelID identifies a sales channel
type ChannelID string

const (
	ChannelSite   ChannelID = "site"
	ChannelShopee ChannelID = "shopee"
	ChannelMeli   ChannelID = "meli"

	// ChannelAll is accepted by report endpoints to aggregate across channels
	ChannelAll ChannelID = "all"
)

// AllChannels lists every ingestable channel
var AllChannels = []ChannelID{ChannelSite, ChannelShopee, ChannelMeli}

// IsValidChannel checks whether the given slug is an ingestable channel
func IsValidChannel(slug string) bool {
	for _, c := range AllChannels {
		if string(c) == slug {
			return true
		}
	}
	return false
}

// FileType represents supported export file types
type FileType string

const (
	FileTypeCSV  FileType = "csv"
	FileTypeXLSX FileType = "xlsx"
)

// NormalizedItem represents a canonical order line extracted from one raw row
type NormalizedItem struct {
	ProductCode    string `json:"productCode"`
	Name           string `json:"name"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	Quantity       int    `json:"quantity"`
	TotalCents     int64  `json:"totalCents"`
	DiscountCents  int64  `json:"discountCents"`
}

// NormalizedOrder represents a canonical order extracted from one raw row.
// For line-item granular channels each raw row yields one order carrying a
// single item; the ingestion orchestrator merges rows sharing an order code.
type NormalizedOrder struct {
	OrderCode    string     `json:"orderCode"`
	Channel      ChannelID  `json:"channel"`
	OrderedAt    time.Time  `json:"orderedAt"`
	ProductLabel string     `json:"productLabel"`
	Quantity     int        `json:"quantity"`
	TotalCents   int64      `json:"totalCents"`
	Status       string     `json:"status"`

	// Channel-specific optional fields
	FreightCents       *int64  `json:"freightCents,omitempty"`
	PaymentType        *string `json:"paymentType,omitempty"`
	CommissionFeeCents *int64  `json:"commissionFeeCents,omitempty"`
	ServiceFeeCents    *int64  `json:"serviceFeeCents,omitempty"`

	// HasOrderTotal reports whether TotalCents came from an order-level
	// column (authoritative) rather than a summed line total.
	HasOrderTotal bool `json:"hasOrderTotal"`

	Items     []NormalizedItem `json:"items,omitempty"`
	RowNumber int              `json:"rowNumber"`
}

// ParseError represents a skipped row during normalization
type ParseError struct {
	RowNumber *int    `json:"rowNumber,omitempty"`
	Field     *string `json:"field,omitempty"`
	Message   string  `json:"message"`
}

// ParseResult represents the outcome of normalizing a parsed file
type ParseResult struct {
	Orders    []NormalizedOrder `json:"orders"`
	Errors    []ParseError      `json:"errors,omitempty"`
	TotalRows int               `json:"totalRows"`
	ValidRows int               `json:"validRows"`
}

// IngestResult summarizes one ingestion batch
type IngestResult struct {
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
}

// StringPtr returns a pointer to the given string
func StringPtr(s string) *string {
	return &s
}

// Int64Ptr returns a pointer to the given int64
func Int64Ptr(v int64) *int64 {
	return &v
}
