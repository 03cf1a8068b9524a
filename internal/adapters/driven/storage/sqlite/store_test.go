package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/webrecall/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/webrecall/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func snapshotOf(dim int, docs ...string) *domain.Snapshot {
	s := &domain.Snapshot{Dimension: dim}
	ts := time.Date(2026, 5, 6, 7, 8, 9, 10, time.UTC)
	for i, doc := range docs {
		v := make([]float32, dim)
		for j := range v {
			v[j] = float32(i) + float32(j)/10
		}
		s.Vectors = append(s.Vectors, v)
		s.Chunks = append(s.Chunks, domain.Chunk{
			ID:         domain.ChunkID(doc, 0),
			DocumentID: doc,
			URL:        "https://" + doc + ".com",
			Title:      "Title " + doc,
			Content:    "Content of " + doc,
			Position:   0,
			Timestamp:  ts,
		})
	}
	return s
}

func TestStore_LoadEmpty(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	want := snapshotOf(4, "zulu", "alpha", "mike")
	require.NoError(t, store.Save(ctx, want))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStore_SaveAppendsNewSlots(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	require.NoError(t, store.Save(ctx, snapshotOf(2, "a", "b")))
	require.NoError(t, store.Save(ctx, snapshotOf(2, "a", "b", "c", "d")))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 4, got.Len())
	for i, doc := range []string{"a", "b", "c", "d"} {
		assert.Equal(t, domain.ChunkID(doc, 0), got.Chunks[i].ID)
	}
}

func TestStore_SaveReplacesAfterClear(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	require.NoError(t, store.Save(ctx, snapshotOf(2, "a", "b", "c")))
	require.NoError(t, store.Save(ctx, snapshotOf(2)))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
	assert.Equal(t, 2, got.Dimension)

	require.NoError(t, store.Save(ctx, snapshotOf(2, "x")))
	got, err = store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, got.Len())
	assert.Equal(t, "x_0", got.Chunks[0].ID)
}

func TestStore_SaveReplacesDivergedPrefix(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	require.NoError(t, store.Save(ctx, snapshotOf(2, "a", "b")))
	require.NoError(t, store.Save(ctx, snapshotOf(2, "c", "d", "e")))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, got.Len())
	assert.Equal(t, "c_0", got.Chunks[0].ID)
}

func TestStore_Save_RejectsInvalidSnapshot(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	require.NoError(t, store.Save(ctx, snapshotOf(2, "a")))

	bad := snapshotOf(2, "a", "b")
	bad.Vectors[1] = []float32{1}

	assert.ErrorIs(t, store.Save(ctx, bad), domain.ErrShapeMismatch)

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Len(), "previous state is untouched")
}

func TestStore_Save_DuplicateIDRollsBack(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	require.NoError(t, store.Save(ctx, snapshotOf(2, "a")))

	dup := snapshotOf(2, "a", "b", "c")
	dup.Chunks[2].ID = dup.Chunks[1].ID

	assert.Error(t, store.Save(ctx, dup))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Len())
}

func TestStore_Reopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Save(ctx, snapshotOf(3, "a", "b")))
	require.NoError(t, first.Close())

	second, err := NewStore(dir)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Len())

	size, err := second.Size(ctx)
	require.NoError(t, err)
	assert.Positive(t, size)
}

func TestStore_MigrationsAreIdempotent(t *testing.T) {
	store := setupTestStore(t)

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)

	require.NoError(t, store.migrate(migrations.FS))
	var count int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestFloat32Conversion(t *testing.T) {
	in := []float32{0, 1.5, -2.25, 3e-7}
	assert.Equal(t, in, bytesToFloat32Slice(float32SliceToBytes(in)))
	assert.Empty(t, bytesToFloat32Slice(nil))
}

func TestStore_LargeSnapshot(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	docs := make([]string, 300)
	for i := range docs {
		docs[i] = fmt.Sprintf("doc%03d", i)
	}
	want := snapshotOf(8, docs...)
	require.NoError(t, store.Save(ctx, want))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want.Vectors, got.Vectors)
}
