package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countingLoader(value any, calls *int) Loader {
	return func(ctx context.Context) (any, error) {
		*calls++
		return value, nil
	}
}

func TestFetch_LoadsOnceThenServesCached(t *testing.T) {
	c := New()
	key := Key{Entity: EntityAccounts}
	calls := 0

	first, err := c.Fetch(context.Background(), key, countingLoader("v1", &calls))
	require.NoError(t, err)
	assert.Equal(t, "v1", first)

	second, err := c.Fetch(context.Background(), key, countingLoader("v2", &calls))
	require.NoError(t, err)
	assert.Equal(t, "v1", second, "loader not consulted on a hit")
	assert.Equal(t, 1, calls)
}

func TestFetch_ErrorsAreNotCached(t *testing.T) {
	c := New()
	key := Key{Entity: EntityAccounts}
	boom := errors.New("boom")

	_, err := c.Fetch(context.Background(), key, func(ctx context.Context) (any, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	calls := 0
	value, err := c.Fetch(context.Background(), key, countingLoader("fresh", &calls))
	require.NoError(t, err)
	assert.Equal(t, "fresh", value, "failed load left no entry behind")
	assert.Equal(t, 1, calls)
}

func TestInvalidate_DropsOnlyThatKey(t *testing.T) {
	c := New()
	a := Key{Entity: EntityTransactions, AccountID: "acc-1"}
	b := Key{Entity: EntityTransactions, AccountID: "acc-2"}
	calls := 0

	_, err := c.Fetch(context.Background(), a, countingLoader("a", &calls))
	require.NoError(t, err)
	_, err = c.Fetch(context.Background(), b, countingLoader("b", &calls))
	require.NoError(t, err)
	require.Equal(t, 2, calls)

	c.Invalidate(a)

	_, err = c.Fetch(context.Background(), a, countingLoader("a2", &calls))
	require.NoError(t, err)
	value, err := c.Fetch(context.Background(), b, countingLoader("b2", &calls))
	require.NoError(t, err)
	assert.Equal(t, "b", value, "other key untouched")
	assert.Equal(t, 3, calls)
}

func TestInvalidateEntity_DropsAllScopes(t *testing.T) {
	c := New()
	calls := 0
	keys := []Key{
		{Entity: EntityTransactions, AccountID: "acc-1"},
		{Entity: EntityTransactions, AccountID: "acc-2"},
		{Entity: EntityAccounts},
	}
	for _, key := range keys {
		_, err := c.Fetch(context.Background(), key, countingLoader("v", &calls))
		require.NoError(t, err)
	}
	require.Equal(t, 3, calls)

	c.InvalidateEntity(EntityTransactions)

	for _, key := range keys {
		_, err := c.Fetch(context.Background(), key, countingLoader("v", &calls))
		require.NoError(t, err)
	}
	assert.Equal(t, 5, calls, "both transaction scopes reloaded, accounts still cached")
}
