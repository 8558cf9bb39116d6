package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	ginsessions "github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/itsyashbisht/tripsage-client-sub000/internal/app/session"
	"github.com/itsyashbisht/tripsage-client-sub000/internal/pkg/config"
)

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"unauthorized"}`))
	}))
	t.Cleanup(upstream.Close)

	cfg := &config.Config{
		PublicURL: "http://localhost:8080",
		API:       config.APIConfig{BaseURL: upstream.URL, Timeout: 5 * time.Second, GenerateTimeout: 5 * time.Second},
		Session:   config.SessionConfig{Secret: "test-secret", TTL: time.Hour},
	}
	manager := session.NewManager(cfg, zap.NewNop())

	r := gin.New()
	r.Use(ginsessions.Sessions("visitor_test", cookie.NewStore([]byte(cfg.Session.Secret))))
	r.Use(manager.Middleware())
	Setup(r, manager, cfg, zap.NewNop())
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestGuardScope(t *testing.T) {
	t.Run("planner sequence is open to anonymous visitors", func(t *testing.T) {
		r := newTestEngine(t)

		for _, path := range []string{"/planner", "/loading/status", "/results"} {
			w := get(r, path)
			assert.Equal(t, http.StatusOK, w.Code, path)
		}
	})

	t.Run("profile family redirects anonymous visitors to login", func(t *testing.T) {
		r := newTestEngine(t)

		for _, path := range []string{"/profile", "/trips"} {
			w := get(r, path)
			assert.Equal(t, http.StatusFound, w.Code, path)
			assert.Contains(t, w.Header().Get("Location"), "/login?from=", path)
		}
	})
}
