package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/itsyashbisht/tripsage-client-sub000/internal/app/session"
	"github.com/itsyashbisht/tripsage-client-sub000/internal/app/state"
)

// ProfileHandlers serves the authenticated account area. Routes mounted
// with these handlers sit behind the auth guard.
type ProfileHandlers struct {
	sessions *session.Manager
	logger   *zap.Logger
}

func NewProfileHandlers(sessions *session.Manager, logger *zap.Logger) *ProfileHandlers {
	return &ProfileHandlers{sessions: sessions, logger: logger}
}

func (h *ProfileHandlers) Page(c *gin.Context) {
	entry := session.FromContext(c)

	if err := entry.Store.User.FetchProfile(c.Request.Context()); err != nil {
		respondError(c, h.sessions, h.logger, err)
		return
	}

	respondPage(c, "profile", gin.H{
		"profile": entry.Store.User.Profile(),
		"user":    entry.Store.Auth.User(),
	})
}

func (h *ProfileHandlers) Update(c *gin.Context) {
	entry := session.FromContext(c)

	var patch state.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile payload"})
		return
	}

	if err := entry.Store.User.UpdateProfile(c.Request.Context(), patch); err != nil {
		respondError(c, h.sessions, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": entry.Store.User.Profile()})
}

type passwordForm struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

func (h *ProfileHandlers) ChangePassword(c *gin.Context) {
	entry := session.FromContext(c)

	var form passwordForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "both passwords are required"})
		return
	}

	if err := entry.Store.User.ChangePassword(c.Request.Context(), form.CurrentPassword, form.NewPassword); err != nil {
		respondError(c, h.sessions, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": entry.Store.User.Success(state.OpChangePassword)})
}

func (h *ProfileHandlers) DismissPasswordNotice(c *gin.Context) {
	entry := session.FromContext(c)
	entry.Store.User.ClearPasswordSuccess()
	c.Status(http.StatusNoContent)
}

// SavedPlans fetches both saved-plan views. The profile view reads the
// user slice, the trips tab reads the itinerary slice; they are refreshed
// together so the counts agree after a removal from either side.
func (h *ProfileHandlers) SavedPlans(c *gin.Context) {
	entry := session.FromContext(c)

	if err := entry.Store.User.FetchSavedPlans(c.Request.Context()); err != nil {
		respondError(c, h.sessions, h.logger, err)
		return
	}
	if err := entry.Store.Itineraries.FetchSaved(c.Request.Context()); err != nil {
		respondError(c, h.sessions, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"savedPlans": entry.Store.User.SavedPlans(),
		"savedTrips": entry.Store.Itineraries.Saved(),
	})
}

func (h *ProfileHandlers) RemoveSavedPlan(c *gin.Context) {
	entry := session.FromContext(c)
	itineraryID := c.Param("itineraryId")

	if err := entry.Store.User.RemoveSavedPlan(c.Request.Context(), itineraryID); err != nil {
		respondError(c, h.sessions, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"savedPlans": entry.Store.User.SavedPlans()})
}

type saveTripForm struct {
	Note string `json:"note"`
}

func (h *ProfileHandlers) SaveTrip(c *gin.Context) {
	entry := session.FromContext(c)
	itineraryID := c.Param("itineraryId")

	var form saveTripForm
	_ = c.ShouldBindJSON(&form)

	if err := entry.Store.Itineraries.Save(c.Request.Context(), itineraryID, form.Note); err != nil {
		respondError(c, h.sessions, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"saved":   entry.Store.Itineraries.Saved(),
		"success": entry.Store.Itineraries.Success(state.OpSaveItinerary),
	})
}

func (h *ProfileHandlers) UnsaveTrip(c *gin.Context) {
	entry := session.FromContext(c)
	itineraryID := c.Param("itineraryId")

	if err := entry.Store.Itineraries.Unsave(c.Request.Context(), itineraryID); err != nil {
		respondError(c, h.sessions, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"saved": entry.Store.Itineraries.Saved()})
}

func (h *ProfileHandlers) DeleteTrip(c *gin.Context) {
	entry := session.FromContext(c)
	itineraryID := c.Param("itineraryId")

	if err := entry.Store.Itineraries.Delete(c.Request.Context(), itineraryID); err != nil {
		respondError(c, h.sessions, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"itineraries": entry.Store.Itineraries.Itineraries()})
}

func (h *ProfileHandlers) Trips(c *gin.Context) {
	entry := session.FromContext(c)

	if err := entry.Store.Itineraries.FetchAll(c.Request.Context()); err != nil {
		respondError(c, h.sessions, h.logger, err)
		return
	}

	respondPage(c, "trips", gin.H{
		"itineraries": entry.Store.Itineraries.Itineraries(),
	})
}
