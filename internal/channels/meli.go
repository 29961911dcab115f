package channels

import (
	"github.com/lojista/backoffice-service/internal/parsers/csv"
	"github.com/lojista/backoffice-service/internal/parsers/dateparse"
	"github.com/lojista/backoffice-service/internal/parsers/numfmt"
	"github.com/lojista/backoffice-service/internal/types"
)

var (
	meliOrderCodeHeaders = []string{"N.º de venda", "Nº de venda", "Número de venda", "# de venda", "Venda"}
	meliDateHeaders      = []string{"Data da venda", "Data de venda", "Data"}
	meliStatusHeaders    = []string{"Status", "Estado", "Status da venda"}
	meliSKUHeaders       = []string{"SKU", "Código SKU", "Codigo SKU"}
	meliNameHeaders      = []string{"Título do anúncio", "Titulo do anuncio", "Título da publicação", "Produto"}
	meliVariationHeaders = []string{"Variação", "Variacao", "Variante"}
	meliUnitPriceHeaders = []string{"Preço unitário de venda do anúncio (BRL)", "Preço unitário", "Preco unitario"}
	meliQuantityHeaders  = []string{"Unidades", "Quantidade"}
	meliLineTotalHeaders = []string{"Receita por produtos (BRL)", "Total (BRL)", "Total"}
	meliCommissionHeaders = []string{"Tarifa de venda e impostos", "Tarifas de venda", "Tarifa de venda", "Comissão"}
	meliFreightHeaders    = []string{"Tarifas de envio", "Receita por envio (BRL)", "Custos de envio", "Frete"}
)

// MeliNormalizer handles the marketplace export with line-item granular rows
// where listings frequently lack an SKU; product identity then falls back to
// a deterministic hash of the listing title plus variation.
type MeliNormalizer struct{}

func (n *MeliNormalizer) Channel() types.ChannelID { return types.ChannelMeli }

func (n *MeliNormalizer) Delimiter() csv.Delimiter { return "" }

func (n *MeliNormalizer) ItemGranular() bool { return true }

func (n *MeliNormalizer) Normalize(row map[string]string, rowNumber int) *types.NormalizedOrder {
	orderCode := probe(row, meliOrderCodeHeaders...)
	if orderCode == "" {
		return nil
	}
	orderedAt := dateparse.Flexible(probe(row, meliDateHeaders...))
	if orderedAt == nil {
		return nil
	}

	name := probe(row, meliNameHeaders...)
	variation := probe(row, meliVariationHeaders...)
	code := probe(row, meliSKUHeaders...)
	if code == "" {
		code = slugCode(name, variation)
	}

	quantity := numfmt.ParseQuantity(probe(row, meliQuantityHeaders...))
	if quantity == 0 {
		quantity = 1
	}
	unitPrice := numfmt.ParseMoneyCents(probe(row, meliUnitPriceHeaders...))
	lineTotal := numfmt.ParseMoneyCents(probe(row, meliLineTotalHeaders...))
	if lineTotal == 0 {
		lineTotal = unitPrice * int64(quantity)
	}

	label := name
	if variation != "" {
		label = name + " " + variation
	}

	order := &types.NormalizedOrder{
		OrderCode:    orderCode,
		Channel:      types.ChannelMeli,
		OrderedAt:    *orderedAt,
		ProductLabel: label,
		Quantity:     quantity,
		TotalCents:   lineTotal,
		Status:       probe(row, meliStatusHeaders...),
		RowNumber:    rowNumber,
	}

	if raw := probe(row, meliCommissionHeaders...); raw != "" {
		order.CommissionFeeCents = types.Int64Ptr(numfmt.ParseMoneyCents(raw))
	}
	if raw := probe(row, meliFreightHeaders...); raw != "" {
		order.FreightCents = types.Int64Ptr(numfmt.ParseMoneyCents(raw))
	}

	if code != "" {
		order.Items = []types.NormalizedItem{{
			ProductCode:    code,
			Name:           label,
			UnitPriceCents: unitPrice,
			Quantity:       quantity,
			TotalCents:     lineTotal,
		}}
	}

	return order
}
