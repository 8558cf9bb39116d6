package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/itsyashbisht/tripsage-client-sub000/internal/app/session"
)

// PagesHandlers serves the static marketing pages and the 404 catch-all.
type PagesHandlers struct {
	sessions *session.Manager
	logger   *zap.Logger
}

func NewPagesHandlers(sessions *session.Manager, logger *zap.Logger) *PagesHandlers {
	return &PagesHandlers{sessions: sessions, logger: logger}
}

func (h *PagesHandlers) Home(c *gin.Context) {
	entry := session.FromContext(c)
	respondPage(c, "home", gin.H{
		"authenticated": entry != nil && entry.Store.Auth.IsAuthenticated(),
	})
}

func (h *PagesHandlers) About(c *gin.Context) {
	respondPage(c, "about", nil)
}

func (h *PagesHandlers) NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"page":  "not-found",
		"error": "The page you are looking for does not exist",
	})
}
