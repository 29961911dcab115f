package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *LocalStorage {
	t.Helper()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestLocalStoragePutGet(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	content := []byte("Pedido;Total\n1;9,90")

	err := s.Put(ctx, "archives/site/2026-01-13/orders.csv", content, &Metadata{
		ContentType:  "text/csv",
		OriginalName: "orders.csv",
		Channel:      "site",
	})
	require.NoError(t, err)

	got, err := s.Get(ctx, "archives/site/2026-01-13/orders.csv")
	require.NoError(t, err)
	assert.Equal(t, content, got)

	exists, err := s.Exists(ctx, "archives/site/2026-01-13/orders.csv")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.Exists(ctx, "archives/site/2026-01-13/missing.csv")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalStorageGetInfo(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	content := []byte("payload")

	require.NoError(t, s.Put(ctx, "archives/shopee/2026-01-13/export.xlsx", content, &Metadata{
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Channel:     "shopee",
	}))

	info, err := s.GetInfo(ctx, "archives/shopee/2026-01-13/export.xlsx")
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), info.Size)
	assert.Equal(t, ComputeChecksum(content), info.Checksum)
	require.NotNil(t, info.Metadata)
	assert.Equal(t, "shopee", info.Metadata.Channel)
}

func TestLocalStorageDelete(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "a/b.csv", []byte("x"), nil))
	require.NoError(t, s.Delete(ctx, "a/b.csv"))

	exists, err := s.Exists(ctx, "a/b.csv")
	require.NoError(t, err)
	assert.False(t, exists)

	// Deleting twice is not an error
	assert.NoError(t, s.Delete(ctx, "a/b.csv"))
}

func TestLocalStorageList(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "archives/site/2026-01-13/a.csv", []byte("1"), nil))
	require.NoError(t, s.Put(ctx, "archives/site/2026-01-14/b.csv", []byte("2"), nil))
	require.NoError(t, s.Put(ctx, "archives/meli/2026-01-13/c.csv", []byte("3"), nil))

	keys, err := s.List(ctx, "archives/site/")
	require.NoError(t, err)
	assert.Len(t, keys, 2)

	keys, err = s.List(ctx, "archives/nothing/")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestLocalStorageKeyTraversal(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	// Traversal segments are cleaned away, the write stays under the base path
	require.NoError(t, s.Put(ctx, "../../outside.csv", []byte("x"), nil))

	exists, err := s.Exists(ctx, "outside.csv")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestBuildArchiveKey(t *testing.T) {
	uploaded := time.Date(2026, 1, 13, 15, 4, 5, 0, time.UTC)

	key := BuildArchiveKey("site", uploaded, "/tmp/uploads/orders.csv")
	assert.Equal(t, "archives/site/2026-01-13/orders.csv", key)
}
