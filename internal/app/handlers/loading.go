package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/itsyashbisht/tripsage-client-sub000/internal/app/planner"
	"github.com/itsyashbisht/tripsage-client-sub000/internal/app/session"
	"github.com/itsyashbisht/tripsage-client-sub000/internal/app/state"
)

// LoadingHandlers owns the generation waiting view. Mounting it dispatches
// the AI call exactly once; the page then polls Status until the real
// request settles.
type LoadingHandlers struct {
	sessions *session.Manager
	logger   *zap.Logger
}

func NewLoadingHandlers(sessions *session.Manager, logger *zap.Logger) *LoadingHandlers {
	return &LoadingHandlers{sessions: sessions, logger: logger}
}

// Page enters the Generating state. Refreshing the page re-resolves the
// same parameters but never double-dispatches: the flow's one-shot guard
// absorbs re-entry, and a rate limiter backstops rapid new attempts.
func (h *LoadingHandlers) Page(c *gin.Context) {
	entry := session.FromContext(c)
	params := resolveParams(h.sessions, entry)

	if err := entry.Flow.BeginGeneration(params); err != nil {
		respondError(c, h.sessions, h.logger, err)
		return
	}

	percent, step := entry.Flow.Progress().Snapshot()
	respondPage(c, "loading", gin.H{
		"trip":    params,
		"percent": percent,
		"step":    step,
		"state":   entry.Flow.State(),
	})
}

// Status is the poll target for the loading page. The percent/step pair is
// simulated display dressing; "state" is the real request lifecycle and is
// the only field navigation decisions may use.
func (h *LoadingHandlers) Status(c *gin.Context) {
	entry := session.FromContext(c)
	flow := entry.Flow

	percent, step := flow.Progress().Snapshot()
	body := gin.H{
		"state":   flow.State(),
		"percent": percent,
		"step":    step,
	}

	switch flow.State() {
	case planner.StateResult:
		body["redirect"] = "/results"
	case planner.StateFailed:
		body["error"] = entry.Store.Generate.Err(state.OpGenerate)
	}

	c.JSON(http.StatusOK, body)
}

// Retry returns to the planner form after a failure, keeping the persisted
// inputs so the user can adjust and resubmit.
func (h *LoadingHandlers) Retry(c *gin.Context) {
	entry := session.FromContext(c)
	entry.Flow.BackToForm()
	c.JSON(http.StatusOK, gin.H{"redirect": "/planner"})
}

// Leave tears down the decorative timers when the visitor abandons the
// loading view and drops the navigation handoff so a later visit starts
// from the persisted form again.
func (h *LoadingHandlers) Leave(c *gin.Context) {
	entry := session.FromContext(c)
	entry.Flow.Abandon()
	h.sessions.ClearNav(entry.ID)
	c.Status(http.StatusNoContent)
}
