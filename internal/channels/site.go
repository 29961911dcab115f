package channels

import (
	"strings"

	"github.com/lojista/backoffice-service/internal/parsers/csv"
	"github.com/lojista/backoffice-service/internal/parsers/dateparse"
	"github.com/lojista/backoffice-service/internal/parsers/numfmt"
	"github.com/lojista/backoffice-service/internal/types"
)

// Header variant lists for the storefront export. The export tool changed
// column names across versions, so every logical field probes several.
var (
	siteOrderCodeHeaders = []string{"Número do pedido", "Numero do pedido", "Número do Pedido", "Pedido", "ID do pedido", "order_id"}
	siteDateHeaders      = []string{"Data do pedido", "Data de criação", "Data", "Criado em"}
	siteTimeHeaders      = []string{"Hora do pedido", "Hora"}
	siteTotalHeaders     = []string{"Total do pedido", "Valor total", "Total", "Valor"}
	siteStatusHeaders    = []string{"Status do pedido", "Situação", "Situacao", "Status"}
	siteLabelHeaders     = []string{"Produtos", "Produto", "Itens do pedido", "Itens"}
	siteQuantityHeaders  = []string{"Quantidade de produtos", "Quantidade", "Qtd", "Qtde"}
	siteFreightHeaders   = []string{"Valor do frete", "Frete", "Custo de envio"}
	sitePaymentHeaders   = []string{"Forma de pagamento", "Meio de pagamento", "Método de pagamento", "Pagamento"}

	// Secondary items-only export
	siteItemOrderHeaders = []string{"Número do pedido", "Numero do pedido", "Pedido", "ID do pedido"}
	siteItemCodeHeaders  = []string{"SKU", "Código do produto", "Codigo do produto", "Referência", "Referencia"}
	siteItemNameHeaders  = []string{"Nome do produto", "Produto", "Nome"}
	siteItemPriceHeaders = []string{"Preço unitário", "Preco unitario", "Preço", "Valor unitário"}
	siteItemQtyHeaders   = []string{"Quantidade", "Qtd", "Qtde"}
)

// SiteNormalizer handles the own-storefront export: one row per order with
// aggregate totals only. Item detail comes from a secondary export handled
// by NormalizeItemRow.
type SiteNormalizer struct{}

func (n *SiteNormalizer) Channel() types.ChannelID { return types.ChannelSite }

// Delimiter is semicolon: the storefront export tool writes pt-BR CSVs where
// comma is the decimal separator.
func (n *SiteNormalizer) Delimiter() csv.Delimiter { return csv.DelimiterSemicolon }

func (n *SiteNormalizer) ItemGranular() bool { return false }

func (n *SiteNormalizer) Normalize(row map[string]string, rowNumber int) *types.NormalizedOrder {
	orderCode := probe(row, siteOrderCodeHeaders...)
	if orderCode == "" {
		return nil
	}

	rawDate := probe(row, siteDateHeaders...)
	if rawTime := probe(row, siteTimeHeaders...); rawTime != "" && !strings.Contains(rawDate, ":") {
		rawDate = rawDate + " " + rawTime
	}
	orderedAt := dateparse.Flexible(rawDate)
	if orderedAt == nil {
		return nil
	}

	order := &types.NormalizedOrder{
		OrderCode:     orderCode,
		Channel:       types.ChannelSite,
		OrderedAt:     *orderedAt,
		ProductLabel:  probe(row, siteLabelHeaders...),
		Quantity:      numfmt.ParseQuantity(probe(row, siteQuantityHeaders...)),
		TotalCents:    numfmt.ParseMoneyCents(probe(row, siteTotalHeaders...)),
		Status:        probe(row, siteStatusHeaders...),
		HasOrderTotal: true,
		RowNumber:     rowNumber,
	}
	if order.Quantity == 0 {
		order.Quantity = 1
	}

	if raw := probe(row, siteFreightHeaders...); raw != "" {
		order.FreightCents = types.Int64Ptr(numfmt.ParseMoneyCents(raw))
	}
	if raw := probe(row, sitePaymentHeaders...); raw != "" {
		order.PaymentType = types.StringPtr(raw)
	}

	return order
}

// SiteItemRow is one line of the storefront items-only export, reconciled
// against an already-ingested order.
type SiteItemRow struct {
	OrderCode string
	Item      types.NormalizedItem
}

// NormalizeItemRow maps a row of the secondary items export. Returns nil when
// the order code or product code is missing.
func (n *SiteNormalizer) NormalizeItemRow(row map[string]string) *SiteItemRow {
	orderCode := probe(row, siteItemOrderHeaders...)
	if orderCode == "" {
		return nil
	}

	name := probe(row, siteItemNameHeaders...)
	code := probe(row, siteItemCodeHeaders...)
	if code == "" {
		code = slugCode(name)
	}
	if code == "" {
		return nil
	}

	quantity := numfmt.ParseQuantity(probe(row, siteItemQtyHeaders...))
	if quantity == 0 {
		quantity = 1
	}
	unitPrice := numfmt.ParseMoneyCents(probe(row, siteItemPriceHeaders...))

	return &SiteItemRow{
		OrderCode: orderCode,
		Item: types.NormalizedItem{
			ProductCode:    code,
			Name:           name,
			UnitPriceCents: unitPrice,
			Quantity:       quantity,
			TotalCents:     unitPrice * int64(quantity),
		},
	}
}
