package session

import (
	"context"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/itsyashbisht/tripsage-client-sub000/internal/api"
	"github.com/itsyashbisht/tripsage-client-sub000/internal/app/planner"
	"github.com/itsyashbisht/tripsage-client-sub000/internal/app/state"
	"github.com/itsyashbisht/tripsage-client-sub000/internal/observability/metrics"
	"github.com/itsyashbisht/tripsage-client-sub000/internal/pkg/config"
)

const (
	// Cookie-session key holding the visitor id. Only the id crosses the
	// wire; all state stays server-side in the registry.
	visitorKey = "visitor"

	contextKey = "sessionEntry"

	navTTL = 5 * time.Minute
)

// Entry is everything owned by one visitor: their state store, their
// planner flow, and the token store backing both.
type Entry struct {
	ID     string
	Store  *state.Store
	Flow   *planner.Flow
	Tokens *api.TokenStore
}

// Manager keeps one Entry per visitor on a TTL cache, plus short-lived
// navigation-state slots handed from one view to the next. Evicted entries
// tear their flow timers down.
type Manager struct {
	entries *gocache.Cache
	nav     *gocache.Cache
	cfg     *config.Config
	logger  *zap.Logger
}

func NewManager(cfg *config.Config, logger *zap.Logger) *Manager {
	entries := gocache.New(cfg.Session.TTL, 10*time.Minute)
	entries.OnEvicted(func(id string, value any) {
		if entry, ok := value.(*Entry); ok {
			entry.Flow.Abandon()
			logger.Debug("Visitor session evicted", zap.String("visitor", id))
		}
	})

	return &Manager{
		entries: entries,
		nav:     gocache.New(navTTL, 10*time.Minute),
		cfg:     cfg,
		logger:  logger,
	}
}

// Middleware resolves (or creates) the visitor's Entry and attaches it to
// the gin context for downstream handlers.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(contextKey, m.entry(c))
		c.Next()
	}
}

// FromContext returns the Entry the middleware attached, or nil.
func FromContext(c *gin.Context) *Entry {
	value, exists := c.Get(contextKey)
	if !exists {
		return nil
	}
	entry, ok := value.(*Entry)
	if !ok {
		return nil
	}
	return entry
}

func (m *Manager) entry(c *gin.Context) *Entry {
	sess := sessions.Default(c)

	id, _ := sess.Get(visitorKey).(string)
	if id != "" {
		if cached, found := m.entries.Get(id); found {
			m.entries.SetDefault(id, cached) // sliding expiry
			return cached.(*Entry)
		}
	}

	if id == "" {
		id = uuid.NewString()
		sess.Set(visitorKey, id)
		if err := sess.Save(); err != nil {
			m.logger.Warn("Failed to persist visitor cookie", zap.Error(err))
		}
	}

	entry := m.build(id)
	m.entries.SetDefault(id, entry)
	m.recordCount(c)
	return entry
}

func (m *Manager) build(id string) *Entry {
	tokens := api.NewTokenStore()
	logger := m.logger.With(zap.String("visitor", id))
	client := api.NewClient(m.cfg.API.BaseURL, m.cfg.API.Timeout, tokens, logger)
	store := state.New(client, tokens, logger)
	flow := planner.NewFlow(store, logger, m.cfg.API.GenerateTimeout, m.cfg.GenerateRate)

	return &Entry{ID: id, Store: store, Flow: flow, Tokens: tokens}
}

// Destroy discards a visitor's entire in-memory state. This is the hard
// reset behind the 401 circuit breaker: after an auth failure the store may
// be inconsistent, so it is thrown away wholesale rather than patched.
func (m *Manager) Destroy(c *gin.Context) {
	entry := FromContext(c)
	if entry == nil {
		return
	}
	entry.Flow.Abandon()
	m.entries.Delete(entry.ID)
	m.nav.Delete(entry.ID)

	sess := sessions.Default(c)
	sess.Clear()
	if err := sess.Save(); err != nil {
		m.logger.Warn("Failed to clear visitor cookie", zap.Error(err))
	}
}

// SetNav stores navigation state for the visitor's next view.
func (m *Manager) SetNav(id string, params planner.TripParams) {
	m.nav.SetDefault(id, params)
}

// TakeNav reads and keeps the visitor's pending navigation state, if any.
// The slot expires on its own; it is kept (not popped) so a loading-view
// refresh still resolves the same parameters.
func (m *Manager) TakeNav(id string) *planner.TripParams {
	value, found := m.nav.Get(id)
	if !found {
		return nil
	}
	params, ok := value.(planner.TripParams)
	if !ok {
		return nil
	}
	return &params
}

// ClearNav drops the visitor's pending navigation state.
func (m *Manager) ClearNav(id string) {
	m.nav.Delete(id)
}

func (m *Manager) recordCount(ctx context.Context) {
	if instruments := metrics.TryGet(); instruments != nil {
		instruments.ActiveSessionsGauge.Record(ctx, int64(m.entries.ItemCount()))
	}
}
