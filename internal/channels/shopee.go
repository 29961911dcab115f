package channels

import (
	"github.com/lojista/backoffice-service/internal/parsers/csv"
	"github.com/lojista/backoffice-service/internal/parsers/dateparse"
	"github.com/lojista/backoffice-service/internal/parsers/numfmt"
	"github.com/lojista/backoffice-service/internal/types"
)

var (
	shopeeOrderCodeHeaders = []string{"ID do pedido", "Nº do pedido", "N° do pedido", "Order ID"}
	shopeeDateHeaders      = []string{"Data de criação do pedido", "Hora do pedido", "Data do pedido", "Order Creation Date"}
	shopeeStatusHeaders    = []string{"Status do pedido", "Status", "Order Status"}
	shopeeSKUHeaders       = []string{"Número de referência SKU", "SKU de referência", "SKU Reference No.", "SKU"}
	shopeeNameHeaders      = []string{"Nome do Produto", "Nome do produto", "Product Name"}
	shopeeUnitPriceHeaders = []string{"Preço acordado", "Preço original", "Deal Price"}
	shopeeQuantityHeaders  = []string{"Quantidade", "Quantity"}
	shopeeLineTotalHeaders = []string{"Subtotal do produto", "Product Subtotal"}
	shopeeDiscountHeaders  = []string{"Desconto do vendedor", "Seller Discount", "Desconto"}
	shopeeOrderTotalHeaders = []string{"Valor Total", "Total do pedido", "Order Total"}
	shopeeCommissionHeaders = []string{"Taxa de comissão", "Comissão", "Commission Fee"}
	shopeeServiceFeeHeaders = []string{"Taxa de serviço", "Service Fee"}
	shopeeFreightHeaders    = []string{"Taxa de envio paga pelo comprador", "Frete pago pelo comprador", "Shipping Fee Paid by Buyer"}
)

// ShopeeNormalizer handles the marketplace export whose rows are already
// line-item granular: every raw row yields an order carrying one item, and
// the orchestrator merges rows that share an order code.
type ShopeeNormalizer struct{}

func (n *ShopeeNormalizer) Channel() types.ChannelID { return types.ChannelShopee }

func (n *ShopeeNormalizer) Delimiter() csv.Delimiter { return "" }

func (n *ShopeeNormalizer) ItemGranular() bool { return true }

func (n *ShopeeNormalizer) Normalize(row map[string]string, rowNumber int) *types.NormalizedOrder {
	orderCode := probe(row, shopeeOrderCodeHeaders...)
	if orderCode == "" {
		return nil
	}
	orderedAt := dateparse.Flexible(probe(row, shopeeDateHeaders...))
	if orderedAt == nil {
		return nil
	}

	name := probe(row, shopeeNameHeaders...)
	code := probe(row, shopeeSKUHeaders...)
	if code == "" {
		code = slugCode(name)
	}

	quantity := numfmt.ParseQuantity(probe(row, shopeeQuantityHeaders...))
	if quantity == 0 {
		quantity = 1
	}
	unitPrice := numfmt.ParseMoneyCents(probe(row, shopeeUnitPriceHeaders...))
	lineTotal := numfmt.ParseMoneyCents(probe(row, shopeeLineTotalHeaders...))
	if lineTotal == 0 {
		lineTotal = unitPrice * int64(quantity)
	}

	order := &types.NormalizedOrder{
		OrderCode:    orderCode,
		Channel:      types.ChannelShopee,
		OrderedAt:    *orderedAt,
		ProductLabel: name,
		Quantity:     quantity,
		Status:       probe(row, shopeeStatusHeaders...),
		RowNumber:    rowNumber,
	}

	// The export repeats the order-level total on every row of the order;
	// when present it is authoritative over summed line totals.
	if raw := probe(row, shopeeOrderTotalHeaders...); raw != "" {
		order.TotalCents = numfmt.ParseMoneyCents(raw)
		order.HasOrderTotal = true
	} else {
		order.TotalCents = lineTotal
	}

	if raw := probe(row, shopeeCommissionHeaders...); raw != "" {
		order.CommissionFeeCents = types.Int64Ptr(numfmt.ParseMoneyCents(raw))
	}
	if raw := probe(row, shopeeServiceFeeHeaders...); raw != "" {
		order.ServiceFeeCents = types.Int64Ptr(numfmt.ParseMoneyCents(raw))
	}
	if raw := probe(row, shopeeFreightHeaders...); raw != "" {
		order.FreightCents = types.Int64Ptr(numfmt.ParseMoneyCents(raw))
	}

	if code != "" {
		order.Items = []types.NormalizedItem{{
			ProductCode:    code,
			Name:           name,
			UnitPriceCents: unitPrice,
			Quantity:       quantity,
			TotalCents:     lineTotal,
			DiscountCents:  numfmt.ParseMoneyCents(probe(row, shopeeDiscountHeaders...)),
		}}
	}

	return order
}
