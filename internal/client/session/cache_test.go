package session

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/client/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type memStore struct {
	mu    sync.Mutex
	items map[string]string

	gets, sets, removes int
	getErr, setErr      error
}

func newMemStore() *memStore {
	return &memStore{items: map[string]string{}}
}

func (m *memStore) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *memStore) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	if m.setErr != nil {
		return m.setErr
	}
	m.items[key] = value
	return nil
}

func (m *memStore) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removes++
	delete(m.items, key)
	return nil
}

func (m *memStore) raw(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	return v, ok
}

type fakePoster struct {
	resp *api.Response
	err  error

	// block, when set, is waited on before answering
	block   chan struct{}
	entered chan struct{}

	calls atomic.Int32

	mu       sync.Mutex
	lastPath string
	lastAuth string
}

func (f *fakePoster) Post(ctx context.Context, path string, body any, opts ...api.RequestOption) (*api.Response, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.lastPath = path
	f.lastAuth = api.RequestHeaders(opts...).Get("Authorization")
	f.mu.Unlock()

	if f.entered != nil {
		select {
		case f.entered <- struct{}{}:
		default:
		}
	}
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func jsonResponse(body string) *api.Response {
	return &api.Response{StatusCode: http.StatusOK, Header: http.Header{}, Body: []byte(body)}
}

// ---- Save / Get / Remove ----

func TestSaveThenGet_ServedFromMemory(t *testing.T) {
	for _, persist := range []bool{true, false} {
		store := newMemStore()
		c := NewTokenCache(store, &fakePoster{})
		ctx := context.Background()

		require.NoError(t, c.Save(ctx, "t1", persist))

		got, ok, err := c.Get(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "t1", got)
		require.Zero(t, store.gets, "persist=%v", persist)
	}
}

func TestSavePersisted_SurvivesRestart(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()

	require.NoError(t, NewTokenCache(store, &fakePoster{}).Save(ctx, "t1", true))

	restarted := NewTokenCache(store, &fakePoster{})
	got, ok, err := restarted.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "t1", got)
}

func TestSaveNotPersisted_LostOnRestart(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()

	require.NoError(t, NewTokenCache(store, &fakePoster{}).Save(ctx, "t1", false))
	require.Zero(t, store.sets)

	restarted := NewTokenCache(store, &fakePoster{})
	_, ok, err := restarted.Get(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSaveNotPersisted_LeavesStoredTokenAlone(t *testing.T) {
	store := newMemStore()
	store.items[StorageKey] = "shared"
	c := NewTokenCache(store, &fakePoster{})
	ctx := context.Background()

	require.NoError(t, c.Save(ctx, "link-share", false))

	got, _, err := c.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "link-share", got)

	raw, _ := store.raw(StorageKey)
	require.Equal(t, "shared", raw)
}

func TestGet_HydratesOnlyOnce(t *testing.T) {
	store := newMemStore()
	store.items[StorageKey] = "first"
	c := NewTokenCache(store, &fakePoster{})
	ctx := context.Background()

	got, _, err := c.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "first", got)

	store.items[StorageKey] = "changed elsewhere"

	got, _, err = c.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "first", got)
	require.Equal(t, 1, store.gets)
}

func TestGet_RemembersAbsence(t *testing.T) {
	store := newMemStore()
	c := NewTokenCache(store, &fakePoster{})
	ctx := context.Background()

	_, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	store.items[StorageKey] = "late"

	_, ok, err = c.Get(ctx)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 1, store.gets)
}

func TestGet_StorageErrorRetriedNextTime(t *testing.T) {
	store := newMemStore()
	store.items[StorageKey] = "t1"
	store.getErr = errors.New("disk")
	c := NewTokenCache(store, &fakePoster{})
	ctx := context.Background()

	_, _, err := c.Get(ctx)
	require.Error(t, err)

	store.getErr = nil
	got, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "t1", got)
	require.Equal(t, 2, store.gets)
}

func TestRemove_ClearsEverywhere(t *testing.T) {
	store := newMemStore()
	c := NewTokenCache(store, &fakePoster{})
	ctx := context.Background()

	require.NoError(t, c.Save(ctx, "t1", true))
	require.NoError(t, c.Remove(ctx))

	_, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	_, stored := store.raw(StorageKey)
	require.False(t, stored)
}

func TestRemove_IdempotentWithoutToken(t *testing.T) {
	c := NewTokenCache(newMemStore(), &fakePoster{})
	ctx := context.Background()

	require.NoError(t, c.Remove(ctx))
	require.NoError(t, c.Remove(ctx))

	_, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSave_StorageFailureKeepsOldToken(t *testing.T) {
	store := newMemStore()
	c := NewTokenCache(store, &fakePoster{})
	ctx := context.Background()
	require.NoError(t, c.Save(ctx, "old", false))

	store.setErr = errors.New("read-only")
	require.Error(t, c.Save(ctx, "new", true))

	got, _, err := c.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "old", got)
}

// ---- Refresh ----

func TestRefresh_Success_Persisted(t *testing.T) {
	store := newMemStore()
	poster := &fakePoster{resp: jsonResponse(`{"token":"new","id":42}`)}
	c := NewTokenCache(store, poster)
	ctx := context.Background()
	require.NoError(t, c.Save(ctx, "old", false))

	resp, err := c.Refresh(ctx, true)
	require.NoError(t, err)
	require.Equal(t, poster.resp, resp)

	require.Equal(t, RefreshPath, poster.lastPath)
	require.Equal(t, "Bearer old", poster.lastAuth)

	got, _, err := c.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "new", got)

	raw, ok := store.raw(StorageKey)
	require.True(t, ok)
	require.Equal(t, "new", raw)
}

func TestRefresh_Success_NotPersisted(t *testing.T) {
	store := newMemStore()
	store.items[StorageKey] = "shared"
	c := NewTokenCache(store, &fakePoster{resp: jsonResponse(`{"token":"new"}`)})
	ctx := context.Background()

	_, err := c.Refresh(ctx, false)
	require.NoError(t, err)

	got, _, err := c.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "new", got)

	raw, _ := store.raw(StorageKey)
	require.Equal(t, "shared", raw)
}

func TestRefresh_NoToken_SendsEmptyBearer(t *testing.T) {
	poster := &fakePoster{resp: jsonResponse(`{"token":"new"}`)}
	c := NewTokenCache(newMemStore(), poster)

	_, err := c.Refresh(context.Background(), false)
	require.NoError(t, err)
	require.Equal(t, "Bearer ", poster.lastAuth)
}

func TestRefresh_Failures_KeepToken(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name   string
		poster *fakePoster
		is     error
	}{
		{name: "transport", poster: &fakePoster{err: cause}, is: cause},
		{name: "status", poster: &fakePoster{err: &api.StatusError{Response: &api.Response{StatusCode: 401}}}, is: api.ErrUnauthorized},
		{name: "malformed", poster: &fakePoster{resp: jsonResponse(`<html>`)}},
		{name: "missing token", poster: &fakePoster{resp: jsonResponse(`{"user":1}`)}, is: ErrNoTokenInResponse},
		{name: "empty token", poster: &fakePoster{resp: jsonResponse(`{"token":""}`)}, is: ErrNoTokenInResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			c := NewTokenCache(store, tt.poster)
			ctx := context.Background()
			require.NoError(t, c.Save(ctx, "old", true))

			resp, err := c.Refresh(ctx, true)
			require.Nil(t, resp)
			require.Error(t, err)

			var re *RefreshError
			require.ErrorAs(t, err, &re)
			require.True(t, strings.HasPrefix(err.Error(), "Error renewing token: "))
			if tt.is != nil {
				require.ErrorIs(t, err, tt.is)
			}

			got, _, err := c.Get(ctx)
			require.NoError(t, err)
			require.Equal(t, "old", got)
			raw, _ := store.raw(StorageKey)
			require.Equal(t, "old", raw)
		})
	}
}

func TestRefresh_SaveFailureIsRefreshError(t *testing.T) {
	store := newMemStore()
	c := NewTokenCache(store, &fakePoster{resp: jsonResponse(`{"token":"new"}`)})
	ctx := context.Background()
	require.NoError(t, c.Save(ctx, "old", false))

	store.setErr = errors.New("read-only")
	_, err := c.Refresh(ctx, true)

	require.ErrorIs(t, err, store.setErr)
	var re *RefreshError
	require.ErrorAs(t, err, &re)

	got, _, err := c.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "old", got)
}

func TestRefresh_ConcurrentWithoutCoalescing_EachPosts(t *testing.T) {
	poster := &fakePoster{resp: jsonResponse(`{"token":"new"}`)}
	c := NewTokenCache(newMemStore(), poster)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Refresh(context.Background(), false)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.EqualValues(t, 2, poster.calls.Load())
}

func TestRefresh_Coalescing_SharesOneRequest(t *testing.T) {
	poster := &fakePoster{
		resp:    jsonResponse(`{"token":"new"}`),
		block:   make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
	c := NewTokenCache(newMemStore(), poster, WithRefreshCoalescing())

	const n = 5
	results := make(chan *api.Response, n)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		resp, err := c.Refresh(context.Background(), false)
		assert.NoError(t, err)
		results <- resp
	}()
	<-poster.entered

	for i := 1; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := c.Refresh(context.Background(), false)
			assert.NoError(t, err)
			results <- resp
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(poster.block)
	wg.Wait()
	close(results)

	require.EqualValues(t, 1, poster.calls.Load())
	for resp := range results {
		require.Same(t, poster.resp, resp)
	}
}

func TestRefresh_Coalescing_CancelledStarterDoesNotFailOthers(t *testing.T) {
	poster := &fakePoster{
		resp:    jsonResponse(`{"token":"new"}`),
		block:   make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
	store := newMemStore()
	c := NewTokenCache(store, poster, WithRefreshCoalescing())

	starterCtx, cancel := context.WithCancel(context.Background())
	starterErr := make(chan error, 1)
	go func() {
		_, err := c.Refresh(starterCtx, true)
		starterErr <- err
	}()
	<-poster.entered

	type result struct {
		resp *api.Response
		err  error
	}
	joined := make(chan result, 1)
	go func() {
		resp, err := c.Refresh(context.Background(), true)
		joined <- result{resp, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	err := <-starterErr
	var rerr *RefreshError
	require.ErrorAs(t, err, &rerr)
	require.ErrorIs(t, err, context.Canceled)

	close(poster.block)
	res := <-joined
	require.NoError(t, res.err)
	require.Same(t, poster.resp, res.resp)
	require.EqualValues(t, 1, poster.calls.Load())

	got, ok, err := c.Get(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "new", got)
	raw, ok := store.raw(StorageKey)
	require.True(t, ok)
	require.Equal(t, "new", raw)
}

func TestRefresh_Coalescing_CancelledCallerReturnsRefreshError(t *testing.T) {
	poster := &fakePoster{
		resp:    jsonResponse(`{"token":"new"}`),
		block:   make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
	c := NewTokenCache(newMemStore(), poster, WithRefreshCoalescing())
	require.NoError(t, c.Save(context.Background(), "old", false))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.Refresh(ctx, false)
		done <- err
	}()
	<-poster.entered
	cancel()

	err := <-done
	require.ErrorIs(t, err, context.Canceled)
	require.True(t, strings.HasPrefix(err.Error(), "Error renewing token: "))

	close(poster.block)
	require.Eventually(t, func() bool {
		tok, _, _ := c.Get(context.Background())
		return tok == "new"
	}, time.Second, 10*time.Millisecond)
}
