package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/itsyashbisht/tripsage-client-sub000/internal/api"
	"github.com/itsyashbisht/tripsage-client-sub000/internal/app/models"
	"github.com/itsyashbisht/tripsage-client-sub000/internal/app/session"
)

// Handlers emit plain JSON view models; rendering them is the presentation
// layer's concern and lives outside this codebase.

func respondPage(c *gin.Context, page string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["page"] = page
	c.JSON(http.StatusOK, data)
}

// respondError is the single funnel for failed slice operations. The 401
// path is the global circuit breaker: the visitor's whole store is
// discarded and the browser is sent to /login with a full navigation,
// since after an auth failure the store may be inconsistent and a soft
// in-app transition is not enough. Everything else surfaces the upstream message
// for the page to render as a banner or inline box.
func respondError(c *gin.Context, sessions *session.Manager, logger *zap.Logger, err error) {
	if errors.Is(err, models.ErrUnauthenticated) {
		logger.Warn("Session expired, resetting visitor state",
			zap.String("path", c.Request.URL.Path))
		sessions.Destroy(c)
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}

	status := http.StatusBadGateway
	switch {
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, models.ErrBadRequest), errors.Is(err, models.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrRateLimited):
		status = http.StatusTooManyRequests
	}

	c.JSON(status, gin.H{"error": api.Message(err)})
}
