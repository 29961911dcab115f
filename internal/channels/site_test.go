package channels

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lojista/backoffice-service/internal/types"
)

func TestSiteNormalize(t *testing.T) {
	n := &SiteNormalizer{}

	row := map[string]string{
		"Número do pedido":        "1001",
		"Data do pedido":          "13/01/2026",
		"Hora do pedido":          "14:30",
		"Total do pedido":         "150,00",
		"Status do pedido":        "Entregue",
		"Produtos":                "Vela Lavanda + Vela Baunilha",
		"Quantidade de produtos":  "2",
		"Valor do frete":          "22,50",
		"Forma de pagamento":      "Cartão de Crédito",
	}

	order := n.Normalize(row, 2)
	require.NotNil(t, order)

	assert.Equal(t, "1001", order.OrderCode)
	assert.Equal(t, types.ChannelSite, order.Channel)
	assert.Equal(t, time.Date(2026, 1, 13, 14, 30, 0, 0, time.UTC), order.OrderedAt)
	assert.Equal(t, int64(15000), order.TotalCents)
	assert.Equal(t, 2, order.Quantity)
	assert.Equal(t, "Entregue", order.Status)
	assert.True(t, order.HasOrderTotal)
	require.NotNil(t, order.FreightCents)
	assert.Equal(t, int64(2250), *order.FreightCents)
	require.NotNil(t, order.PaymentType)
	assert.Equal(t, "Cartão de Crédito", *order.PaymentType)
	assert.Empty(t, order.Items)
}

func TestSiteNormalizeHeaderVariants(t *testing.T) {
	n := &SiteNormalizer{}

	// Older export versions use different column names
	order := n.Normalize(map[string]string{
		"Pedido": "88",
		"Data":   "01/02/2026",
		"Valor":  "9,90",
	}, 5)
	require.NotNil(t, order)
	assert.Equal(t, "88", order.OrderCode)
	assert.Equal(t, int64(990), order.TotalCents)
	assert.Equal(t, 1, order.Quantity)
	assert.Nil(t, order.FreightCents)
	assert.Nil(t, order.PaymentType)
}

func TestSiteNormalizeSkipsBrokenRows(t *testing.T) {
	n := &SiteNormalizer{}

	assert.Nil(t, n.Normalize(map[string]string{"Data do pedido": "13/01/2026"}, 2))
	assert.Nil(t, n.Normalize(map[string]string{"Número do pedido": "1001", "Data do pedido": "sem data"}, 3))
	assert.Nil(t, n.Normalize(map[string]string{}, 4))
}

func TestSiteNormalizeItemRow(t *testing.T) {
	n := &SiteNormalizer{}

	item := n.NormalizeItemRow(map[string]string{
		"Número do pedido": "1001",
		"SKU":              "VL-200",
		"Nome do produto":  "Vela Lavanda",
		"Preço unitário":   "45,00",
		"Quantidade":       "3",
	})
	require.NotNil(t, item)
	assert.Equal(t, "1001", item.OrderCode)
	assert.Equal(t, "VL-200", item.Item.ProductCode)
	assert.Equal(t, int64(4500), item.Item.UnitPriceCents)
	assert.Equal(t, 3, item.Item.Quantity)
	assert.Equal(t, int64(13500), item.Item.TotalCents)
}

func TestSiteNormalizeItemRowSKUFallback(t *testing.T) {
	n := &SiteNormalizer{}

	item := n.NormalizeItemRow(map[string]string{
		"Número do pedido": "1002",
		"Nome do produto":  "Kit Presente Natal",
	})
	require.NotNil(t, item)
	assert.Regexp(t, `^gen-[0-9a-f]{8}$`, item.Item.ProductCode)
	assert.Equal(t, 1, item.Item.Quantity)

	// No order code and no resolvable product code both skip the row
	assert.Nil(t, n.NormalizeItemRow(map[string]string{"SKU": "X"}))
	assert.Nil(t, n.NormalizeItemRow(map[string]string{"Número do pedido": "1003"}))
}
