package films

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filmcatalog/pkg/database"
	"filmcatalog/pkg/models"
)

// insertAfterFind adds a film right after the first page read returns, the
// way a concurrent POST /addFilm can land between a cache miss and its fill.
type insertAfterFind struct {
	database.Collection
	repo  *Repo
	fired bool
}

func (c *insertAfterFind) Find(ctx context.Context, opts database.FindOptions, out any) error {
	if err := c.Collection.Find(ctx, opts, out); err != nil {
		return err
	}
	if !c.fired {
		c.fired = true
		if _, err := c.repo.Insert(ctx, models.Document{"title": "Late"}); err != nil {
			return err
		}
	}
	return nil
}

func newCachedRepo(t *testing.T) (*Repo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	store, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	cache := NewPageCache(mr.Addr(), time.Minute, nil)
	require.NotNil(t, cache)
	t.Cleanup(func() { _ = cache.Close() })

	return NewRepo(store, 5, cache), mr
}

func TestPageCacheServesRepeatedReads(t *testing.T) {
	ctx := context.Background()
	repo, mr := newCachedRepo(t)

	_, err := repo.Insert(ctx, models.Document{"title": "A"})
	require.NoError(t, err)

	first, err := repo.Page(ctx, 1)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// the cached copy answers even after the row is gone from the store
	_, err = repo.Films.DeleteMany(ctx)
	require.NoError(t, err)

	second, err := repo.Page(ctx, 1)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "A", second[0]["title"])

	mr.FastForward(2 * time.Minute)
	third, err := repo.Page(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, third)
}

func TestInsertInvalidatesCachedPages(t *testing.T) {
	ctx := context.Background()
	repo, _ := newCachedRepo(t)

	empty, err := repo.Page(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = repo.Insert(ctx, models.Document{"title": "A"})
	require.NoError(t, err)

	docs, err := repo.Page(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestInsertDuringPageReadIsNotHiddenByCache(t *testing.T) {
	ctx := context.Background()
	repo, _ := newCachedRepo(t)
	repo.Films = &insertAfterFind{Collection: repo.Films, repo: repo}

	first, err := repo.Page(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, first)

	second, err := repo.Page(ctx, 1)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "Late", second[0]["title"])
}

func TestPageCacheDisabledWhenRedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	assert.Nil(t, NewPageCache(addr, time.Minute, nil))
}
