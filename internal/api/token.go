package api

import "sync"

// TokenStore holds the single persisted access token for one visitor. It is
// the only piece of client state that outlives a page view; everything else
// in the store is volatile.
type TokenStore struct {
	mu    sync.RWMutex
	token string
}

func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Save replaces the persisted token.
func (t *TokenStore) Save(token string) {
	t.mu.Lock()
	t.token = token
	t.mu.Unlock()
}

// Clear removes the persisted token.
func (t *TokenStore) Clear() {
	t.mu.Lock()
	t.token = ""
	t.mu.Unlock()
}

// Get returns the persisted token, or "" when none is stored.
func (t *TokenStore) Get() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.token
}
