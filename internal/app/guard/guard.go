package guard

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/itsyashbisht/tripsage-client-sub000/internal/app/session"
	"github.com/itsyashbisht/tripsage-client-sub000/internal/app/state"
)

// Decision is the outcome of evaluating the guarded route family.
type Decision int

const (
	// DecisionPending: session rehydration is still in flight; render a
	// blocking loading view, neither the protected content nor a redirect.
	DecisionPending Decision = iota
	// DecisionRedirect: settled unauthenticated; send to /login carrying
	// the originally requested location.
	DecisionRedirect
	// DecisionAllow: settled authenticated; render the protected content.
	DecisionAllow
)

// Evaluate is the pure guard decision over the auth slice's observable
// state.
func Evaluate(rehydrating, authenticated bool) Decision {
	if rehydrating {
		return DecisionPending
	}
	if !authenticated {
		return DecisionRedirect
	}
	return DecisionAllow
}

// Middleware protects the profile route family. When a persisted token
// exists and rehydration has not been attempted yet, it kicks /auth/me once
// and answers with the loading view until it settles; redirecting before
// that would flash a login page during a legitimate refresh of an
// authenticated session.
func Middleware(sessions *session.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		entry := session.FromContext(c)
		if entry == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		auth := entry.Store.Auth
		if !auth.RehydrateAttempted() {
			auth.StartRehydrate(c.Request.Context())
		}

		switch Evaluate(auth.Loading(state.OpMe), auth.IsAuthenticated()) {
		case DecisionPending:
			c.JSON(http.StatusOK, gin.H{
				"status": "loading",
				"reason": "restoring session",
			})
			c.Abort()
		case DecisionRedirect:
			from := url.QueryEscape(c.Request.URL.RequestURI())
			logger.Debug("Guarded route redirecting unauthenticated visitor",
				zap.String("from", c.Request.URL.Path))
			c.Redirect(http.StatusFound, "/login?from="+from)
			c.Abort()
		case DecisionAllow:
			c.Next()
		}
	}
}
