// Package channels maps raw marketplace export rows onto the canonical order
// schema. One normalizer per channel; each probes an ordered list of known
// header variants per logical field, since column names vary by export-tool
// version and locale.
package channels

import (
	"fmt"

	"github.com/lojista/backoffice-service/internal/parsers/csv"
	"github.com/lojista/backoffice-service/internal/types"
)

// Normalizer converts one raw export row into a canonical order record
type Normalizer interface {
	Channel() types.ChannelID
	// Normalize returns nil when required fields (order code, order date)
	// are missing or unparseable; the row is skipped, never fatal.
	Normalize(row map[string]string, rowNumber int) *types.NormalizedOrder
	// Delimiter is the CSV delimiter convention of the channel's export
	// tool; empty means autodetect.
	Delimiter() csv.Delimiter
	// ItemGranular reports whether rows are line-item granular and must be
	// aggregated per order code.
	ItemGranular() bool
}

var registry = map[types.ChannelID]Normalizer{
	types.ChannelSite:   &SiteNormalizer{},
	types.ChannelShopee: &ShopeeNormalizer{},
	types.ChannelMeli:   &MeliNormalizer{},
}

// Get returns the normalizer for a channel
func Get(channel types.ChannelID) (Normalizer, error) {
	n, ok := registry[channel]
	if !ok {
		return nil, fmt.Errorf("unknown channel: %s", channel)
	}
	return n, nil
}

// probe returns the first non-empty value among the given header variants
func probe(row map[string]string, variants ...string) string {
	for _, v := range variants {
		if value, ok := row[v]; ok && value != "" {
			return value
		}
	}
	return ""
}
