package postgres_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/whatif/internal/storage"
	"github.com/cory-johannsen/whatif/internal/storage/postgres"
	"github.com/cory-johannsen/whatif/internal/testutil"
)

func uniqueKey(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}

func setupSaveRepo(t *testing.T) *postgres.SaveRepository {
	t.Helper()
	db := testutil.StartSaveDatabase(t, true)
	return postgres.NewSaveRepository(db.Pool.DB())
}

func TestSaveRepository(t *testing.T) {
	repo := setupSaveRepo(t)
	ctx := context.Background()

	t.Run("save then load", func(t *testing.T) {
		key := uniqueKey("slot")
		require.NoError(t, repo.Save(ctx, storage.Save{Key: key, Variant: "castle", Snapshot: json.RawMessage(`{"turn": 3}`)}))

		got, err := repo.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, key, got.Key)
		assert.Equal(t, "castle", got.Variant)
		assert.JSONEq(t, `{"turn": 3}`, string(got.Snapshot))
		assert.False(t, got.UpdatedAt.IsZero())
	})

	t.Run("save upserts", func(t *testing.T) {
		key := uniqueKey("slot")
		require.NoError(t, repo.Save(ctx, storage.Save{Key: key, Variant: "castle", Snapshot: json.RawMessage(`{"turn": 1}`)}))
		require.NoError(t, repo.Save(ctx, storage.Save{Key: key, Variant: "horror", Snapshot: json.RawMessage(`{"turn": 2}`)}))

		got, err := repo.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "horror", got.Variant)
		assert.JSONEq(t, `{"turn": 2}`, string(got.Snapshot))
	})

	t.Run("load missing", func(t *testing.T) {
		_, err := repo.Load(ctx, uniqueKey("missing"))
		assert.ErrorIs(t, err, storage.ErrSaveNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		key := uniqueKey("slot")
		require.NoError(t, repo.Save(ctx, storage.Save{Key: key, Variant: "castle", Snapshot: json.RawMessage(`{}`)}))
		require.NoError(t, repo.Delete(ctx, key))
		_, err := repo.Load(ctx, key)
		assert.ErrorIs(t, err, storage.ErrSaveNotFound)
		assert.NoError(t, repo.Delete(ctx, key))
	})

	t.Run("empty key rejected", func(t *testing.T) {
		assert.Error(t, repo.Save(ctx, storage.Save{Key: " ", Snapshot: json.RawMessage(`{}`)}))
	})

	t.Run("property: last save wins", func(t *testing.T) {
		rapid.Check(t, func(rt *rapid.T) {
			key := rapid.StringMatching(`[a-z]{4,12}`).Draw(rt, "key")
			turns := rapid.SliceOfN(rapid.IntRange(0, 500), 1, 4).Draw(rt, "turns")
			for _, n := range turns {
				snap, _ := json.Marshal(map[string]int{"turn": n})
				if err := repo.Save(ctx, storage.Save{Key: key, Variant: "horror", Snapshot: snap}); err != nil {
					rt.Fatalf("save: %v", err)
				}
			}
			got, err := repo.Load(ctx, key)
			if err != nil {
				rt.Fatalf("load: %v", err)
			}
			var decoded map[string]int
			if err := json.Unmarshal(got.Snapshot, &decoded); err != nil {
				rt.Fatalf("decode: %v", err)
			}
			if decoded["turn"] != turns[len(turns)-1] {
				rt.Fatalf("turn = %d, want %d", decoded["turn"], turns[len(turns)-1])
			}
		})
	})
}

func TestMigrate_Idempotent(t *testing.T) {
	db := testutil.StartSaveDatabase(t, false)
	v1, err := postgres.Migrate(db.DSN())
	require.NoError(t, err)
	v2, err := postgres.Migrate(db.DSN())
	require.NoError(t, err)
	assert.Equal(t, uint(1), v1)
	assert.Equal(t, v1, v2)
}

func TestSchema_DownThenUp(t *testing.T) {
	db := testutil.StartSaveDatabase(t, false)
	s, err := postgres.OpenSchema(db.DSN())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	st, err := s.State()
	require.NoError(t, err)
	assert.True(t, st.Empty)

	moved, err := s.Up(0)
	require.NoError(t, err)
	assert.True(t, moved)
	moved, err = s.Up(0)
	require.NoError(t, err)
	assert.False(t, moved, "second up is a no-op")

	moved, err = s.Down(1)
	require.NoError(t, err)
	assert.True(t, moved)
	st, err = s.State()
	require.NoError(t, err)
	assert.True(t, st.Empty)
}
