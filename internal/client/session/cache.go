package session

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/taskkeeper/internal/client/api"
	"github.com/dmitrijs2005/taskkeeper/internal/client/storage"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"golang.org/x/sync/singleflight"
)

const (
	// StorageKey is the durable key of the persisted token.
	StorageKey = "token"
	// RefreshPath is the renewal endpoint, relative to the API base.
	RefreshPath = "user/token"
)

var ErrNoTokenInResponse = errors.New("response has no token")

type hydration int

const (
	unread hydration = iota
	present
	absent
)

type TokenCache struct {
	store  storage.Store
	poster api.Poster
	log    logging.Logger

	mu    sync.Mutex
	state hydration
	token string

	// nil unless WithRefreshCoalescing is set
	refreshes *singleflight.Group
}

type Option func(*TokenCache)

func WithLogger(l logging.Logger) Option {
	return func(c *TokenCache) {
		c.log = l
	}
}

// WithRefreshCoalescing makes concurrent Refresh calls share one request.
// Callers joining an in-flight refresh get its response and error, and their
// own persist argument is ignored. The shared request is detached from the
// starting caller's cancellation and is bounded by the transport timeout. A
// caller whose context ends stops waiting with a *RefreshError while the
// request carries on for the others.
func WithRefreshCoalescing() Option {
	return func(c *TokenCache) {
		c.refreshes = &singleflight.Group{}
	}
}

func NewTokenCache(store storage.Store, poster api.Poster, opts ...Option) *TokenCache {
	c := &TokenCache{store: store, poster: poster}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logging.NewNop()
	}
	c.log = c.log.With("component", "session")
	return c
}

// Save sets the in-memory token. With persist it also writes the token to
// storage; without it the stored token, if any, is left as it is. If the
// storage write fails the in-memory token is not replaced.
func (c *TokenCache) Save(ctx context.Context, token string, persist bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if persist {
		if err := c.store.Set(ctx, StorageKey, token); err != nil {
			return err
		}
	}

	c.state, c.token = present, token
	return nil
}

// Get returns the current token. Until something is saved or removed, the
// first call reads storage and remembers the outcome, including "no token".
// A storage error is returned and leaves the next call to read storage again.
func (c *TokenCache) Get(ctx context.Context) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case present:
		return c.token, true, nil
	case absent:
		return "", false, nil
	}

	token, ok, err := c.store.Get(ctx, StorageKey)
	if err != nil {
		return "", false, err
	}
	if ok {
		c.state, c.token = present, token
	} else {
		c.state, c.token = absent, ""
	}
	c.log.Debug(ctx, "token hydrated from storage", "found", ok)
	return c.token, ok, nil
}

// Remove forgets the token in memory and in storage. Safe to call when no
// token was ever set.
func (c *TokenCache) Remove(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state, c.token = absent, ""
	return c.store.Remove(ctx, StorageKey)
}

// Refresh exchanges the current token for a new one at RefreshPath and saves
// it with the given persist mode. The raw response is returned so callers
// can read other fields. On any failure the cached token is left unchanged
// and the error is a *RefreshError.
func (c *TokenCache) Refresh(ctx context.Context, persist bool) (*api.Response, error) {
	if c.refreshes == nil {
		return c.refresh(ctx, persist)
	}

	// The shared call must not die with whichever caller started it.
	ch := c.refreshes.DoChan(RefreshPath, func() (any, error) {
		return c.refresh(context.WithoutCancel(ctx), persist)
	})
	select {
	case res := <-ch:
		if res.Shared {
			c.log.Debug(ctx, "joined in-flight token refresh")
		}
		resp, _ := res.Val.(*api.Response)
		return resp, res.Err
	case <-ctx.Done():
		return nil, &RefreshError{Err: ctx.Err()}
	}
}

func (c *TokenCache) refresh(ctx context.Context, persist bool) (*api.Response, error) {
	resp, err := c.renew(ctx, persist)
	if err != nil {
		c.log.Warn(ctx, "token refresh failed", "error", err)
		return nil, &RefreshError{Err: err}
	}
	c.log.Info(ctx, "token refreshed", "persist", persist)
	return resp, nil
}

func (c *TokenCache) renew(ctx context.Context, persist bool) (*api.Response, error) {
	current, _, err := c.Get(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.poster.Post(ctx, RefreshPath, nil, api.WithHeader("Authorization", "Bearer "+current))
	if err != nil {
		return nil, err
	}

	var payload struct {
		Token *string `json:"token"`
	}
	if err := resp.DecodeJSON(&payload); err != nil {
		return nil, err
	}
	if payload.Token == nil || *payload.Token == "" {
		return nil, ErrNoTokenInResponse
	}

	if err := c.Save(ctx, *payload.Token, persist); err != nil {
		return nil, err
	}
	return resp, nil
}
