package state

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/itsyashbisht/tripsage-client-sub000/internal/api"
	"github.com/itsyashbisht/tripsage-client-sub000/internal/app/models"
)

// Auth operation names.
const (
	OpRegister = "register"
	OpLogin    = "login"
	OpLogout   = "logout"
	OpMe       = "me"
)

// AuthSlice owns the authentication identity: the minimal current user set
// at login/register/session-restore plus the isAuthenticated flag. The
// richer editable profile lives in UserSlice by contract; the two are never
// merged.
type AuthSlice struct {
	mu            sync.RWMutex
	user          *models.User
	authenticated bool
	meAttempted   bool

	ops    *opState
	client *api.Client
	tokens *api.TokenStore
	logger *zap.Logger
	notify func()

	rehydrateOnce sync.Once
}

func newAuthSlice(client *api.Client, tokens *api.TokenStore, logger *zap.Logger, notify func()) *AuthSlice {
	return &AuthSlice{
		ops:    newOpState(),
		client: client,
		tokens: tokens,
		logger: logger,
		notify: notify,
	}
}

// RegisterInput is the payload for account creation.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authSession is the {accessToken,user} shape register and login unwrap to.
type authSession struct {
	AccessToken string       `json:"accessToken"`
	User        *models.User `json:"user"`
}

// Register creates an account and, on success, persists the returned access
// token and marks the session authenticated.
func (s *AuthSlice) Register(ctx context.Context, input RegisterInput) error {
	return s.establishSession(ctx, OpRegister, api.AuthRegister, input)
}

// Login authenticates and, on success, persists the returned access token
// and marks the session authenticated.
func (s *AuthSlice) Login(ctx context.Context, email, password string) error {
	return s.establishSession(ctx, OpLogin, api.AuthLogin, credentials{Email: email, Password: password})
}

func (s *AuthSlice) establishSession(ctx context.Context, op, path string, body any) error {
	seq := s.ops.begin(op)
	s.notify()

	var raw json.RawMessage
	if err := s.client.Post(ctx, path, body, &raw); err != nil {
		if s.ops.settleErr(op, seq, api.Message(err)) {
			s.notify()
		}
		return err
	}
	if !s.ops.settleOK(op, seq) {
		return nil
	}

	session, _ := objectPayload[authSession](raw)
	s.mu.Lock()
	s.user = session.User
	s.authenticated = session.User != nil
	s.mu.Unlock()
	if session.AccessToken != "" {
		s.tokens.Save(session.AccessToken)
	}

	s.logger.Info("Session established", zap.String("op", op))
	s.notify()
	return nil
}

// Logout ends the session. The token and in-memory identity are cleared
// even when the server call fails: a user who asked to log out must never
// be left with a live local credential.
func (s *AuthSlice) Logout(ctx context.Context) error {
	seq := s.ops.begin(OpLogout)
	s.notify()

	err := s.client.Post(ctx, api.AuthLogout, nil, nil)
	if err != nil {
		s.logger.Warn("Logout request failed, clearing local session anyway", zap.Error(err))
	}
	s.ops.settleOK(OpLogout, seq)

	s.tokens.Clear()
	s.mu.Lock()
	s.user = nil
	s.authenticated = false
	s.mu.Unlock()
	s.notify()
	return nil
}

// Rehydrate refreshes the session identity from /auth/me. Failure means "no
// valid session": isAuthenticated flips false without recording an error
// banner.
func (s *AuthSlice) Rehydrate(ctx context.Context) {
	seq := s.ops.begin(OpMe)
	s.mu.Lock()
	s.meAttempted = true
	s.mu.Unlock()
	s.notify()
	s.finishRehydrate(ctx, seq)
}

// StartRehydrate kicks session rehydration exactly once per store when a
// persisted token exists. The pending flag is set before it returns so the
// route guard observes loading.me immediately.
func (s *AuthSlice) StartRehydrate(ctx context.Context) {
	if s.tokens.Get() == "" {
		s.mu.Lock()
		s.meAttempted = true
		s.mu.Unlock()
		return
	}
	s.rehydrateOnce.Do(func() {
		seq := s.ops.begin(OpMe)
		s.mu.Lock()
		s.meAttempted = true
		s.mu.Unlock()
		s.notify()
		// The fetch outlives the request that triggered it.
		go s.finishRehydrate(context.WithoutCancel(ctx), seq)
	})
}

func (s *AuthSlice) finishRehydrate(ctx context.Context, seq uint64) {
	var raw json.RawMessage
	err := s.client.Get(ctx, api.AuthMe, nil, &raw)
	if !s.ops.settleOK(OpMe, seq) {
		return
	}
	if err != nil {
		s.logger.Debug("Session rehydration found no valid session", zap.Error(err))
	}

	s.mu.Lock()
	if err != nil {
		s.user = nil
		s.authenticated = false
	} else if user, ok := objectPayload[models.User](raw, "user"); ok {
		s.user = &user
		s.authenticated = true
	} else {
		s.user = nil
		s.authenticated = false
	}
	s.mu.Unlock()
	s.notify()
}

// User returns the current identity, or nil when unauthenticated.
func (s *AuthSlice) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *AuthSlice) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// RehydrateAttempted reports whether a /auth/me cycle was ever started for
// this store.
func (s *AuthSlice) RehydrateAttempted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.meAttempted
}

func (s *AuthSlice) Loading(op string) bool { return s.ops.Loading(op) }
func (s *AuthSlice) Err(op string) string   { return s.ops.Err(op) }
