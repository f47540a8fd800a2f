package registry

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	runStoreTests(t, func(t *testing.T) Store {
		return NewMemoryStore()
	})
}

func TestSQLiteStore(t *testing.T) {
	runStoreTests(t, func(t *testing.T) Store {
		return NewSQLiteStore(filepath.Join(t.TempDir(), "registry.db"))
	})
}

func runStoreTests(t *testing.T, open func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("requires init", func(t *testing.T) {
		store := open(t)

		_, _, err := store.Get(ctx, "missing")
		assert.Error(t, err)
		assert.Error(t, store.Put(ctx, Entry{Name: "m"}))
		_, err = store.List(ctx)
		assert.Error(t, err)
		assert.Error(t, store.Delete(ctx, "m"))
	})

	t.Run("put and get", func(t *testing.T) {
		store := open(t)
		require.NoError(t, store.Init(ctx))
		defer store.Close()

		entry := Entry{
			Name:      "burgers-fno",
			ModelType: "fno",
			Path:      "checkpoints/burgers-fno.gkn",
			NumParams: 78337,
			Metadata:  map[string]string{"resolution": "1024"},
		}
		require.NoError(t, store.Put(ctx, entry))

		got, ok, err := store.Get(ctx, "burgers-fno")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "burgers-fno", got.Name)
		assert.Equal(t, "fno", got.ModelType)
		assert.Equal(t, "checkpoints/burgers-fno.gkn", got.Path)
		assert.Equal(t, 78337, got.NumParams)
		assert.Equal(t, map[string]string{"resolution": "1024"}, got.Metadata)
		assert.False(t, got.CreatedAt.IsZero())
		assert.False(t, got.UpdatedAt.IsZero())
	})

	t.Run("get missing", func(t *testing.T) {
		store := open(t)
		require.NoError(t, store.Init(ctx))
		defer store.Close()

		_, ok, err := store.Get(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("put replaces and keeps creation time", func(t *testing.T) {
		store := open(t)
		require.NoError(t, store.Init(ctx))
		defer store.Close()

		require.NoError(t, store.Put(ctx, Entry{Name: "m", ModelType: "fno", Path: "a.gkn"}))
		first, ok, err := store.Get(ctx, "m")
		require.NoError(t, err)
		require.True(t, ok)

		require.NoError(t, store.Put(ctx, Entry{Name: "m", ModelType: "deeponet", Path: "b.gkn", NumParams: 42}))
		second, ok, err := store.Get(ctx, "m")
		require.NoError(t, err)
		require.True(t, ok)

		assert.Equal(t, "deeponet", second.ModelType)
		assert.Equal(t, "b.gkn", second.Path)
		assert.Equal(t, 42, second.NumParams)
		assert.True(t, second.CreatedAt.Equal(first.CreatedAt))
		assert.False(t, second.UpdatedAt.Before(second.CreatedAt))
	})

	t.Run("nil metadata round trips", func(t *testing.T) {
		store := open(t)
		require.NoError(t, store.Init(ctx))
		defer store.Close()

		require.NoError(t, store.Put(ctx, Entry{Name: "bare", ModelType: "fno", Path: "bare.gkn"}))
		got, ok, err := store.Get(ctx, "bare")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Nil(t, got.Metadata)
	})

	t.Run("list is sorted by name", func(t *testing.T) {
		store := open(t)
		require.NoError(t, store.Init(ctx))
		defer store.Close()

		for _, name := range []string{"zeta", "alpha", "mid"} {
			require.NoError(t, store.Put(ctx, Entry{Name: name, ModelType: "fno", Path: name + ".gkn"}))
		}

		entries, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, "alpha", entries[0].Name)
		assert.Equal(t, "mid", entries[1].Name)
		assert.Equal(t, "zeta", entries[2].Name)
	})

	t.Run("delete", func(t *testing.T) {
		store := open(t)
		require.NoError(t, store.Init(ctx))
		defer store.Close()

		require.NoError(t, store.Put(ctx, Entry{Name: "m", ModelType: "fno", Path: "m.gkn"}))
		require.NoError(t, store.Delete(ctx, "m"))

		_, ok, err := store.Get(ctx, "m")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("delete missing", func(t *testing.T) {
		store := open(t)
		require.NoError(t, store.Init(ctx))
		defer store.Close()

		err := store.Delete(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("mutating a returned entry does not affect the store", func(t *testing.T) {
		store := open(t)
		require.NoError(t, store.Init(ctx))
		defer store.Close()

		require.NoError(t, store.Put(ctx, Entry{
			Name: "m", ModelType: "fno", Path: "m.gkn",
			Metadata: map[string]string{"k": "v"},
		}))

		got, _, err := store.Get(ctx, "m")
		require.NoError(t, err)
		got.Metadata["k"] = "mutated"

		again, _, err := store.Get(ctx, "m")
		require.NoError(t, err)
		assert.Equal(t, "v", again.Metadata["k"])
	})
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "registry.db")

	store := NewSQLiteStore(path)
	require.NoError(t, store.Init(ctx))
	require.NoError(t, store.Put(ctx, Entry{
		Name: "persisted", ModelType: "deeponet", Path: "p.gkn", NumParams: 7,
	}))
	require.NoError(t, store.Close())

	reopened := NewSQLiteStore(path)
	require.NoError(t, reopened.Init(ctx))
	defer reopened.Close()

	got, ok, err := reopened.Get(ctx, "persisted")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "deeponet", got.ModelType)
	assert.Equal(t, 7, got.NumParams)
}

func TestSQLiteStoreRequiresPath(t *testing.T) {
	store := NewSQLiteStore("")
	assert.Error(t, store.Init(context.Background()))
}
