package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/itsyashbisht/tripsage-client-sub000/internal/app/models"
	"github.com/itsyashbisht/tripsage-client-sub000/internal/app/planner"
	"github.com/itsyashbisht/tripsage-client-sub000/internal/app/session"
	"github.com/itsyashbisht/tripsage-client-sub000/internal/app/state"
)

// PlannerHandlers drives the planner page: form prefill, validation,
// package computation and the hand-off into the loading view.
type PlannerHandlers struct {
	sessions *session.Manager
	logger   *zap.Logger
}

func NewPlannerHandlers(sessions *session.Manager, logger *zap.Logger) *PlannerHandlers {
	return &PlannerHandlers{sessions: sessions, logger: logger}
}

// Page prefills the planner from the persisted form so the page survives
// remounts within the session.
func (h *PlannerHandlers) Page(c *gin.Context) {
	entry := session.FromContext(c)
	respondPage(c, "planner", gin.H{
		"form":     entry.Store.Generate.PlannerForm(),
		"packages": entry.Flow.Packages(),
		"state":    entry.Flow.State(),
	})
}

// UpdateForm shallow-merges a field-level edit into the persisted form.
func (h *PlannerHandlers) UpdateForm(c *gin.Context) {
	entry := session.FromContext(c)

	var patch state.PlannerFormPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form patch"})
		return
	}
	entry.Store.Generate.SetPlannerForm(patch)
	c.JSON(http.StatusOK, gin.H{"form": entry.Store.Generate.PlannerForm()})
}

// ResetForm restores the planner defaults.
func (h *PlannerHandlers) ResetForm(c *gin.Context) {
	entry := session.FromContext(c)
	entry.Store.Generate.ResetPlannerForm()
	c.JSON(http.StatusOK, gin.H{"form": entry.Store.Generate.PlannerForm()})
}

// Submit validates the form. On failure every failing field is reported
// inline and nothing else happens; on success the three package tiers are
// computed and returned.
func (h *PlannerHandlers) Submit(c *gin.Context) {
	entry := session.FromContext(c)

	var form models.PlannerForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid planner form"})
		return
	}

	fieldErrs, packages := entry.Flow.SubmitForm(form)
	if len(fieldErrs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"fieldErrors": fieldErrs})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"packages": packages,
		"state":    entry.Flow.State(),
	})
}

type choosePackageForm struct {
	Tier string `json:"tier" binding:"required"`
}

// ChoosePackage persists the chosen tier and stashes the trip parameters as
// navigation state for the loading view, then sends the browser there.
func (h *PlannerHandlers) ChoosePackage(c *gin.Context) {
	entry := session.FromContext(c)

	var form choosePackageForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tier is required"})
		return
	}

	params, err := entry.Flow.ChooseTier(form.Tier)
	if err != nil {
		respondError(c, h.sessions, h.logger, err)
		return
	}
	h.sessions.SetNav(entry.ID, params)

	c.JSON(http.StatusOK, gin.H{"redirect": "/loading"})
}

// ServerPackages proxies the fast server-side package estimate, separate
// from the client-computed tiers.
func (h *PlannerHandlers) ServerPackages(c *gin.Context) {
	entry := session.FromContext(c)

	params := filterParams(c, "destination", "days", "adults", "children", "tier")
	if err := entry.Store.Generate.FetchPackages(c.Request.Context(), params); err != nil {
		respondError(c, h.sessions, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"packages": entry.Store.Generate.Packages()})
}

// resolveParams reconciles trip parameters for the loading view: navigation
// state wins, then the persisted form, then defaults.
func resolveParams(m *session.Manager, entry *session.Entry) planner.TripParams {
	nav := m.TakeNav(entry.ID)
	return planner.ResolveParams(nav, entry.Store.Generate.PlannerForm())
}
