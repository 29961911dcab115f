package reports

import (
	"context"
	"strconv"
	"time"

	"github.com/lojista/backoffice-service/internal/database"
)

// LedgerRow is current stock for one standalone product or product group
type LedgerRow struct {
	EntityKind string `json:"entityKind"` // "product" | "group"
	EntityID   string `json:"entityId"`
	Name       string `json:"name"`
	Opening    int    `json:"opening"`
	Sold       int    `json:"sold"`
	Current    int    `json:"current"`
}

// LedgerInput is everything the depletion fold needs, loaded up front
type LedgerInput struct {
	StartDate     *time.Time
	Products      []database.Product
	ProductStocks []database.ProductStock
	Groups        []database.ProductGroup
	GroupStocks   []database.ProductGroupStock
	Orders        []database.Order
	Items         []database.ItemWithCost
}

// ComputeLedger computes current stock per entity: opening quantity minus
// units sold in valid orders dated on/after the stock-start date, floored at
// zero. Entities without a recorded opening are excluded entirely; there is
// no implicit zero-opening assumption. Products belonging to a group are
// reported through the group, never standalone.
func ComputeLedger(in LedgerInput) []LedgerRow {
	soldByProduct := soldUnitsByProduct(in)

	productNames := make(map[int64]string, len(in.Products))
	for _, p := range in.Products {
		productNames[p.ID] = p.Name
	}

	grouped := make(map[int64]bool)
	memberIDs := make(map[string][]int64, len(in.Groups))
	groupNames := make(map[string]string, len(in.Groups))
	for _, g := range in.Groups {
		groupNames[g.ID] = g.Name
		memberIDs[g.ID] = g.ProductIDs
		for _, productID := range g.ProductIDs {
			grouped[productID] = true
		}
	}

	rows := make([]LedgerRow, 0, len(in.ProductStocks)+len(in.GroupStocks))

	for _, stock := range in.ProductStocks {
		if grouped[stock.ProductID] {
			continue
		}
		sold := soldByProduct[stock.ProductID]
		rows = append(rows, LedgerRow{
			EntityKind: "product",
			EntityID:   formatID(stock.ProductID),
			Name:       productNames[stock.ProductID],
			Opening:    stock.OpeningQty,
			Sold:       sold,
			Current:    clampStock(stock.OpeningQty - sold),
		})
	}

	for _, stock := range in.GroupStocks {
		sold := 0
		for _, productID := range memberIDs[stock.GroupID] {
			sold += soldByProduct[productID]
		}
		rows = append(rows, LedgerRow{
			EntityKind: "group",
			EntityID:   stock.GroupID,
			Name:       groupNames[stock.GroupID],
			Opening:    stock.OpeningQty,
			Sold:       sold,
			Current:    clampStock(stock.OpeningQty - sold),
		})
	}

	return rows
}

// soldUnitsByProduct sums item quantities of valid orders on/after the
// stock-start date, keyed by product id
func soldUnitsByProduct(in LedgerInput) map[int64]int {
	countable := make(map[orderKey]bool, len(in.Orders))
	for _, o := range in.Orders {
		if in.StartDate != nil && o.OrderedAt.Before(*in.StartDate) {
			continue
		}
		if !IsOrderValidForAccounting(o.Status) {
			continue
		}
		countable[orderKey{o.OrderCode, o.Channel}] = true
	}

	sold := make(map[int64]int)
	for _, ic := range in.Items {
		if ic.Item.ProductID == nil {
			continue
		}
		if !countable[orderKey{ic.Item.OrderCode, ic.Item.Channel}] {
			continue
		}
		sold[*ic.Item.ProductID] += ic.Item.Quantity
	}
	return sold
}

func clampStock(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func parseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

// LoadLedgerInput loads everything the ledger and projection folds need
func LoadLedgerInput(ctx context.Context) (*LedgerInput, error) {
	cfg, err := database.GetInventoryConfig(ctx)
	if err != nil {
		return nil, err
	}
	products, err := database.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	productStocks, err := database.ListProductStocks(ctx)
	if err != nil {
		return nil, err
	}
	groups, err := database.ListProductGroups(ctx)
	if err != nil {
		return nil, err
	}
	groupStocks, err := database.ListGroupStocks(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := database.OrdersForAccounting(ctx, "all", nil, nil)
	if err != nil {
		return nil, err
	}
	items, err := database.ItemsForAccounting(ctx, "all", nil, nil)
	if err != nil {
		return nil, err
	}

	return &LedgerInput{
		StartDate:     cfg.StockStartDate,
		Products:      products,
		ProductStocks: productStocks,
		Groups:        groups,
		GroupStocks:   groupStocks,
		Orders:        orders,
		Items:         items,
	}, nil
}
