package blog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, Seed(ctx, store))

	posts, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 7)

	// First seed article is the newest.
	assert.Equal(t, "Como comprar carro usado com segurança em 2026", posts[0].Title)
	for _, p := range posts {
		assert.NotEmpty(t, p.ID)
		assert.NotEmpty(t, p.Content)
		assert.NotEmpty(t, p.ReadingTime)
		assert.False(t, p.Date.IsZero())
	}
}

func TestSeed_DoesNotDuplicate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, Seed(ctx, store))
	require.NoError(t, Seed(ctx, store))

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestSeed_SkipsNonEmptyStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Create(ctx, &Post{ID: "p-1", Title: "Existing", Date: time.Now()}))

	require.NoError(t, Seed(ctx, store))

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, Seed(ctx, store))
	svc := New(store)

	byTitle, err := svc.Search(ctx, "elétricos")
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	assert.Contains(t, byTitle[0].Title, "Elétricos")

	byAuthor, err := svc.Search(ctx, "ricardo")
	require.NoError(t, err)
	require.Len(t, byAuthor, 1)

	all, err := svc.Search(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 7)
}
