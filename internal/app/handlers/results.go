package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/itsyashbisht/tripsage-client-sub000/internal/app/session"
	"github.com/itsyashbisht/tripsage-client-sub000/internal/pkg/config"
)

// ResultsHandlers serves the generated-itinerary view and the share flow.
// The page tolerates three entries: fresh generation, a previously saved
// itinerary, and a public share link; with none of those it renders an
// empty state with a call-to-action back to the planner, never an error.
type ResultsHandlers struct {
	sessions *session.Manager
	cfg      *config.Config
	logger   *zap.Logger
}

func NewResultsHandlers(sessions *session.Manager, cfg *config.Config, logger *zap.Logger) *ResultsHandlers {
	return &ResultsHandlers{sessions: sessions, cfg: cfg, logger: logger}
}

func (h *ResultsHandlers) Page(c *gin.Context) {
	entry := session.FromContext(c)
	generate := entry.Store.Generate

	itinerary := generate.Generated()
	if itineraryID := c.Query("itineraryId"); itinerary == nil && itineraryID != "" {
		if err := entry.Store.Itineraries.FetchByID(c.Request.Context(), itineraryID); err != nil {
			respondError(c, h.sessions, h.logger, err)
			return
		}
		itinerary = entry.Store.Itineraries.Current()
	}

	if itinerary == nil {
		respondPage(c, "results", gin.H{
			"empty":  true,
			"action": "/planner",
		})
		return
	}

	respondPage(c, "results", gin.H{
		"itinerary": itinerary,
		"shareUrl":  generate.ShareURL(),
		"meta":      generate.Meta(),
		"share":     entry.Store.Itineraries.ShareData(),
	})
}

type shareForm struct {
	ItineraryID string `json:"itineraryId" binding:"required"`
	Platform    string `json:"platform"`
}

// Share mints a share link; the slice guarantees only the last fulfilled
// request wins when calls overlap.
func (h *ResultsHandlers) Share(c *gin.Context) {
	entry := session.FromContext(c)

	var form shareForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "itineraryId is required"})
		return
	}

	if err := entry.Store.Itineraries.Share(c.Request.Context(), form.ItineraryID, form.Platform); err != nil {
		respondError(c, h.sessions, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"share": entry.Store.Itineraries.ShareData()})
}

// ShareQR renders the current share link as a QR PNG.
func (h *ResultsHandlers) ShareQR(c *gin.Context) {
	entry := session.FromContext(c)

	share := entry.Store.Itineraries.ShareData()
	if share == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no share link to encode"})
		return
	}

	shareURL := share.ShareURL
	if shareURL == "" {
		shareURL = h.cfg.PublicURL + "/trip/" + share.ShareToken
	}

	png, err := qrcode.Encode(shareURL, qrcode.Medium, 256)
	if err != nil {
		h.logger.Error("Failed to encode share QR", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate QR code"})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// Leave clears the share result when navigating away from the results
// context so a stale link never leaks into a new session.
func (h *ResultsHandlers) Leave(c *gin.Context) {
	entry := session.FromContext(c)
	entry.Store.Itineraries.ClearShareData()
	entry.Store.Itineraries.ClearSaveSuccess()
	entry.Store.Itineraries.ClearCurrent()
	c.Status(http.StatusNoContent)
}

// SharedTrip is the public /trip/:token view behind a share token.
func (h *ResultsHandlers) SharedTrip(c *gin.Context) {
	entry := session.FromContext(c)

	if err := entry.Store.Itineraries.FetchByShareToken(c.Request.Context(), c.Param("token")); err != nil {
		respondError(c, h.sessions, h.logger, err)
		return
	}

	respondPage(c, "shared-trip", gin.H{
		"itinerary": entry.Store.Itineraries.Shared(),
	})
}
