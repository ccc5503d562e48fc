package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mahjong-seisan/internal/settlement"
)

func setupTestDB(t *testing.T) *sqlx.DB {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := OpenPostgres(context.Background(), url)
	require.NoError(t, err)

	_, err = db.Exec("TRUNCATE sessions")
	require.NoError(t, err)

	return db
}

func TestPostgresStore(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	store := NewPostgresStore(db)
	now := time.Now().UTC().Truncate(time.Microsecond)

	s := &Session{
		ID:        uuid.New().String(),
		Players:   settlement.DefaultPlayers(),
		Settings:  settlement.DefaultSettings(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.Results = settlement.Calculate(s.Players, s.Settings)

	t.Run("save and get", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, s))

		got, err := store.Get(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, s.Players, got.Players)
		assert.Equal(t, s.Settings, got.Settings)
		assert.Equal(t, s.Results, got.Results)
		assert.True(t, s.UpdatedAt.Equal(got.UpdatedAt))
	})

	t.Run("upsert", func(t *testing.T) {
		s.ShowSettings = true
		s.UpdatedAt = now.Add(time.Minute)
		require.NoError(t, store.Save(ctx, s))

		got, err := store.Get(ctx, s.ID)
		require.NoError(t, err)
		assert.True(t, got.ShowSettings)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := store.Get(ctx, uuid.New().String())
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("delete expired", func(t *testing.T) {
		n, err := store.DeleteExpired(ctx, now.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		_, err = store.Get(ctx, s.ID)
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})
}
