package channels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lojista/backoffice-service/internal/types"
)

func TestMeliNormalize(t *testing.T) {
	n := &MeliNormalizer{}

	row := map[string]string{
		"N.º de venda":              "2000011223344556",
		"Data da venda":             "15/01/2026 18:02",
		"Status":                    "Entregue",
		"SKU":                       "VL-200",
		"Título do anúncio":         "Vela Aromática Lavanda",
		"Variação":                  "200g",
		"Preço unitário de venda do anúncio (BRL)": "49,90",
		"Unidades":                   "2",
		"Receita por produtos (BRL)": "99,80",
		"Tarifa de venda e impostos": "16,47",
		"Tarifas de envio":           "18,90",
	}

	order := n.Normalize(row, 2)
	require.NotNil(t, order)

	assert.Equal(t, "2000011223344556", order.OrderCode)
	assert.Equal(t, types.ChannelMeli, order.Channel)
	assert.Equal(t, "Vela Aromática Lavanda 200g", order.ProductLabel)
	assert.Equal(t, int64(9980), order.TotalCents)
	assert.False(t, order.HasOrderTotal)

	require.NotNil(t, order.CommissionFeeCents)
	assert.Equal(t, int64(1647), *order.CommissionFeeCents)
	require.NotNil(t, order.FreightCents)
	assert.Equal(t, int64(1890), *order.FreightCents)

	require.Len(t, order.Items, 1)
	item := order.Items[0]
	assert.Equal(t, "VL-200", item.ProductCode)
	assert.Equal(t, int64(4990), item.UnitPriceCents)
	assert.Equal(t, 2, item.Quantity)
}

func TestMeliNormalizeSKUFallback(t *testing.T) {
	n := &MeliNormalizer{}

	base := map[string]string{
		"Venda":             "77",
		"Data da venda":     "16/01/2026",
		"Título do anúncio": "Vela Aromática Lavanda",
		"Variação":          "200g",
	}
	order := n.Normalize(base, 3)
	require.NotNil(t, order)
	require.Len(t, order.Items, 1)
	code := order.Items[0].ProductCode
	assert.Regexp(t, `^gen-[0-9a-f]{8}$`, code)

	// The same title and variation hash to the same code on re-import
	again := n.Normalize(base, 9)
	require.NotNil(t, again)
	assert.Equal(t, code, again.Items[0].ProductCode)

	// A different variation is a different product
	other := map[string]string{
		"Venda":             "78",
		"Data da venda":     "16/01/2026",
		"Título do anúncio": "Vela Aromática Lavanda",
		"Variação":          "100g",
	}
	assert.NotEqual(t, code, n.Normalize(other, 4).Items[0].ProductCode)
}

func TestMeliNormalizeSkipsBrokenRows(t *testing.T) {
	n := &MeliNormalizer{}

	assert.Nil(t, n.Normalize(map[string]string{"Data da venda": "16/01/2026"}, 2))
	assert.Nil(t, n.Normalize(map[string]string{"N.º de venda": "77", "Data da venda": ""}, 3))
}
