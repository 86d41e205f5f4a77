// internal/cache/cache_test.go
package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexuscatalog/storefront-go/internal/api"
)

func countingFetch(counter *int32, value interface{}, tags ...Tag) FetchFunc {
	return func(ctx context.Context) (interface{}, []Tag, error) {
		atomic.AddInt32(counter, 1)
		return value, tags, nil
	}
}

func TestQueryCachesResult(t *testing.T) {
	s := New()
	defer s.Close()
	var calls int32

	first, err := s.Query(context.Background(), "k", countingFetch(&calls, "v1", ProductList))
	require.NoError(t, err)
	assert.Equal(t, "v1", first)

	second, err := s.Query(context.Background(), "k", countingFetch(&calls, "v2", ProductList))
	require.NoError(t, err)
	assert.Equal(t, "v1", second, "cached value must be served")
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestEntriesForDistinctKeysAreIndependent(t *testing.T) {
	s := New()
	defer s.Close()
	var calls1, calls2 int32

	_, err := s.Query(context.Background(), "p1", countingFetch(&calls1, "a", ProductTag(1)))
	require.NoError(t, err)
	_, err = s.Query(context.Background(), "p2", countingFetch(&calls2, "b", ProductTag(2)))
	require.NoError(t, err)

	s.Invalidate(ProductTag(1))

	v2, err := s.Query(context.Background(), "p2", countingFetch(&calls2, "b'", ProductTag(2)))
	require.NoError(t, err)
	assert.Equal(t, "b", v2, "entry p2 must be untouched by p1's invalidation")
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls2))

	_, err = s.Query(context.Background(), "p1", countingFetch(&calls1, "a'", ProductTag(1)))
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls1), "stale entry p1 must refetch")
}

func TestConcurrentIdenticalQueriesShareOneFetch(t *testing.T) {
	s := New()
	defer s.Close()
	var calls int32
	fetch := func(ctx context.Context) (interface{}, []Tag, error) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(50 * time.Millisecond)
		return "shared", []Tag{ProductList}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			value, err := s.Query(context.Background(), "k", fetch)
			assert.NoError(t, err)
			assert.Equal(t, "shared", value)
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls), "in-flight dedup must collapse identical queries")
}

func TestMutateInvalidatesIntersectingTags(t *testing.T) {
	s := New()
	defer s.Close()
	var detailCalls, listCalls, otherCalls int32

	_, err := s.Query(context.Background(), "/products/7", countingFetch(&detailCalls, "detail", ProductTag(7)))
	require.NoError(t, err)
	_, err = s.Query(context.Background(), "/products?page=1", countingFetch(&listCalls, "list", ProductList, ProductTag(7)))
	require.NoError(t, err)
	_, err = s.Query(context.Background(), "/categories", countingFetch(&otherCalls, "cats", CategoryList))
	require.NoError(t, err)

	_, err = s.Mutate(context.Background(), []Tag{ProductTag(7), ProductList}, func(ctx context.Context) (interface{}, error) {
		return "updated", nil
	})
	require.NoError(t, err)

	assert.True(t, s.Stale("/products/7"))
	assert.True(t, s.Stale("/products?page=1"))
	assert.False(t, s.Stale("/categories"))

	_, err = s.Query(context.Background(), "/products/7", countingFetch(&detailCalls, "detail'", ProductTag(7)))
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&detailCalls))

	_, err = s.Query(context.Background(), "/categories", countingFetch(&otherCalls, "cats'", CategoryList))
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&otherCalls))
}

func TestMutateFailureDoesNotInvalidate(t *testing.T) {
	s := New()
	defer s.Close()
	var calls int32

	_, err := s.Query(context.Background(), "k", countingFetch(&calls, "v", ProductList))
	require.NoError(t, err)

	_, err = s.Mutate(context.Background(), []Tag{ProductList}, func(ctx context.Context) (interface{}, error) {
		return nil, assert.AnError
	})
	require.Error(t, err)
	assert.False(t, s.Stale("k"))
}

func TestInvalidateNotifiesSubscribers(t *testing.T) {
	s := New()
	defer s.Close()
	var calls int32

	_, err := s.Query(context.Background(), "k", countingFetch(&calls, "v", ProductList))
	require.NoError(t, err)

	notified := make(chan interface{}, 1)
	unsubscribe := s.Subscribe("k", func(value interface{}, err error) {
		assert.NoError(t, err)
		notified <- value
	})
	defer unsubscribe()

	s.Invalidate(ProductList)

	select {
	case value := <-notified:
		assert.Equal(t, "v", value)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber was not notified after invalidation")
	}
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls), "subscribed key must refetch in the background")
}

func TestUnsubscribedKeyRefetchesLazily(t *testing.T) {
	s := New()
	defer s.Close()
	var calls int32

	_, err := s.Query(context.Background(), "k", countingFetch(&calls, "v", ProductList))
	require.NoError(t, err)

	s.Invalidate(ProductList)
	time.Sleep(50 * time.Millisecond)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls), "no subscriber, so no background refetch")

	_, err = s.Query(context.Background(), "k", countingFetch(&calls, "v'", ProductList))
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestAuthenticationErrorTriggersHook(t *testing.T) {
	var hooked int32
	s := New(WithAuthErrorHook(func(err error) {
		atomic.AddInt32(&hooked, 1)
	}))
	defer s.Close()

	_, err := s.Query(context.Background(), "k", func(ctx context.Context) (interface{}, []Tag, error) {
		return nil, nil, &api.AuthenticationError{Status: 401}
	})
	require.Error(t, err)
	assert.True(t, api.IsAuthentication(err))
	assert.EqualValues(t, 1, atomic.LoadInt32(&hooked))

	_, err = s.Mutate(context.Background(), nil, func(ctx context.Context) (interface{}, error) {
		return nil, &api.AuthenticationError{Status: 403}
	})
	require.Error(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&hooked))
}

func TestQueryAfterCloseFails(t *testing.T) {
	s := New()
	s.Close()
	_, err := s.Query(context.Background(), "k", countingFetch(new(int32), "v"))
	assert.ErrorIs(t, err, ErrClosed)
}

func TestQueryAsTypeMismatch(t *testing.T) {
	s := New()
	defer s.Close()

	_, err := s.Query(context.Background(), "k", countingFetch(new(int32), 42, ProductList))
	require.NoError(t, err)

	_, err = QueryAs(context.Background(), s, "k", func(ctx context.Context) (string, []Tag, error) {
		return "unused", nil, nil
	})
	assert.ErrorIs(t, err, ErrTypeMismatch)
}
