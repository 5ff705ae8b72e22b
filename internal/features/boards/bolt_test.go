package boards_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	boltdb "serotonyl.ru/points-bot/internal/db/bolt"
	"serotonyl.ru/points-bot/internal/features/boards"
)

func TestBoltRepository(t *testing.T) {
	db, err := boltdb.Open(filepath.Join(t.TempDir(), "boards.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := boards.NewBoltRepository(db)
	ctx := context.Background()

	b, err := repo.Get(ctx, -100)
	require.NoError(t, err)
	assert.Nil(t, b)

	require.NoError(t, repo.Save(ctx, &boards.Board{CommunityID: -100, ChatID: -100, MessageID: 5}))
	require.NoError(t, repo.Save(ctx, &boards.Board{CommunityID: -200, ChatID: -200, MessageID: 1}))
	// Новая доска заменяет старую
	require.NoError(t, repo.Save(ctx, &boards.Board{CommunityID: -100, ChatID: -100, MessageID: 9}))

	b, err = repo.Get(ctx, -100)
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, int64(9), b.MessageID)
	assert.False(t, b.UpdatedAt.IsZero())

	require.NoError(t, repo.Delete(ctx, -100))
	b, err = repo.Get(ctx, -100)
	require.NoError(t, err)
	assert.Nil(t, b)

	b, err = repo.Get(ctx, -200)
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, int64(1), b.MessageID)
}
