package integration

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/lojista/backoffice-service/internal/database"
	"github.com/lojista/backoffice-service/internal/ingestion"
	"github.com/lojista/backoffice-service/internal/types"
)

const siteExport = "Número do pedido;Data do pedido;Total do pedido;Status do pedido;Produtos;Quantidade de produtos;Valor do frete;Forma de pagamento\n" +
	"1001;13/01/2026;150,00;Entregue;Vela Lavanda;2;22,50;Cartão de Crédito\n" +
	"1002;14/01/2026;99,90;Cancelado;Vela Baunilha;1;0,00;Pix\n" +
	"sem-data;;50,00;Entregue;Vela;1;;\n"

const siteItemsExport = "Número do pedido;SKU;Nome do produto;Preço unitário;Quantidade\n" +
	"1001;VL-200;Vela Lavanda 200g;45,00;2\n" +
	"1001;VB-100;Vela Baunilha 100g;30,00;1\n" +
	"9999;XX-1;Produto Fantasma;10,00;1\n"

func setupTestDatabase(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForAll(
				wait.ForListeningPort("5432/tcp").
					WithStartupTimeout(60*time.Second),
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(1).
					WithStartupTimeout(60*time.Second),
			),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { container.Terminate(ctx) })

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Readiness ping over the plain driver before handing the pool out
	db, err := sql.Open("postgres", connStr)
	require.NoError(t, err)
	require.NoError(t, db.Ping())
	require.NoError(t, db.Close())

	require.NoError(t, database.Connect(ctx, connStr, 10, 2, 0, 0))
	t.Cleanup(database.Close)

	require.NoError(t, database.Migrate(ctx))
}

func TestIngestSiteExport(t *testing.T) {
	setupTestDatabase(t)
	ctx := context.Background()

	result, err := ingestion.Ingest(ctx, []byte(siteExport), "pedidos.csv", types.ChannelSite)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Accepted)
	assert.Equal(t, 1, result.Rejected)

	orders, err := database.ListOrders(ctx, types.ChannelSite, nil, nil, 100)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	byCode := make(map[string]database.Order, len(orders))
	for _, o := range orders {
		byCode[o.OrderCode] = o
	}
	require.Contains(t, byCode, "1001")
	assert.Equal(t, int64(15000), byCode["1001"].TotalCents)
	assert.Equal(t, "Entregue", byCode["1001"].Status)
	require.NotNil(t, byCode["1001"].FreightCents)
	assert.Equal(t, int64(2250), *byCode["1001"].FreightCents)
	assert.Equal(t, "Cancelado", byCode["1002"].Status)

	runs, err := database.ListImportRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 2, runs[0].Accepted)
	assert.Equal(t, 1, runs[0].Rejected)
}

func TestIngestIsIdempotent(t *testing.T) {
	setupTestDatabase(t)
	ctx := context.Background()

	_, err := ingestion.Ingest(ctx, []byte(siteExport), "pedidos.csv", types.ChannelSite)
	require.NoError(t, err)

	// Re-ingesting the same file must not duplicate orders
	result, err := ingestion.Ingest(ctx, []byte(siteExport), "pedidos.csv", types.ChannelSite)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Accepted)

	orders, err := database.ListOrders(ctx, types.ChannelSite, nil, nil, 100)
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	// Each batch still records its own run
	runs, err := database.ListImportRuns(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestIngestSiteItemsReconciliation(t *testing.T) {
	setupTestDatabase(t)
	ctx := context.Background()

	_, err := ingestion.Ingest(ctx, []byte(siteExport), "pedidos.csv", types.ChannelSite)
	require.NoError(t, err)

	result, err := ingestion.IngestSiteItems(ctx, []byte(siteItemsExport), "itens.csv")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Accepted)

	// The row for the unknown order 9999 is rejected
	assert.Equal(t, 1, result.Rejected)

	items, err := database.ItemsForAccounting(ctx, types.ChannelSite, nil, nil)
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, ic := range items {
		assert.Equal(t, "1001", ic.Item.OrderCode)
		require.NotNil(t, ic.Item.ProductID)
	}

	// Products were created for each distinct SKU
	products, err := database.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 2)

	// The parent order's aggregates were refreshed, the total untouched
	orders, err := database.ListOrders(ctx, types.ChannelSite, nil, nil, 100)
	require.NoError(t, err)
	for _, o := range orders {
		if o.OrderCode == "1001" {
			assert.Equal(t, 3, o.Quantity)
			assert.Equal(t, int64(15000), o.TotalCents)
		}
	}

	// Reconciling again stays idempotent
	again, err := ingestion.IngestSiteItems(ctx, []byte(siteItemsExport), "itens.csv")
	require.NoError(t, err)
	assert.Equal(t, 2, again.Accepted)

	items, err = database.ItemsForAccounting(ctx, types.ChannelSite, nil, nil)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestProductGroupUniqueness(t *testing.T) {
	setupTestDatabase(t)
	ctx := context.Background()

	_, err := ingestion.Ingest(ctx, []byte(siteExport), "pedidos.csv", types.ChannelSite)
	require.NoError(t, err)
	_, err = ingestion.IngestSiteItems(ctx, []byte(siteItemsExport), "itens.csv")
	require.NoError(t, err)

	products, err := database.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)

	ids := []int64{products[0].ID, products[1].ID}
	group, err := database.CreateProductGroup(ctx, "Velas", ids)
	require.NoError(t, err)
	assert.NotEmpty(t, group.ID)

	// A product can belong to at most one group
	_, err = database.CreateProductGroup(ctx, "Outro Grupo", ids)
	require.Error(t, err)
	assert.ErrorIs(t, err, database.ErrAlreadyGrouped)
}

func TestPurgeChannel(t *testing.T) {
	setupTestDatabase(t)
	ctx := context.Background()

	_, err := ingestion.Ingest(ctx, []byte(siteExport), "pedidos.csv", types.ChannelSite)
	require.NoError(t, err)

	deleted, err := database.PurgeChannel(ctx, types.ChannelSite)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	orders, err := database.ListOrders(ctx, types.ChannelSite, nil, nil, 100)
	require.NoError(t, err)
	assert.Empty(t, orders)
}
