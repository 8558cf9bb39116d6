package handlers

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/itsyashbisht/tripsage-client-sub000/internal/app/session"
	"github.com/itsyashbisht/tripsage-client-sub000/internal/app/state"
)

// CatalogHandlers serves the browse pages: destinations, hotels and food.
// Each page mount replaces its slice list wholesale.
type CatalogHandlers struct {
	sessions *session.Manager
	logger   *zap.Logger
}

func NewCatalogHandlers(sessions *session.Manager, logger *zap.Logger) *CatalogHandlers {
	return &CatalogHandlers{sessions: sessions, logger: logger}
}

// filterParams forwards the recognised filter query params untouched.
func filterParams(c *gin.Context, keys ...string) url.Values {
	filters := url.Values{}
	for _, key := range keys {
		if value := c.Query(key); value != "" {
			filters.Set(key, value)
		}
	}
	return filters
}

func (h *CatalogHandlers) Destinations(c *gin.Context) {
	entry := session.FromContext(c)
	slice := entry.Store.Destinations

	filters := filterParams(c, "category", "country", "q")
	if err := slice.FetchAll(c.Request.Context(), filters); err != nil {
		respondError(c, h.sessions, h.logger, err)
		return
	}

	respondPage(c, "destinations", gin.H{
		"destinations": slice.Destinations(),
	})
}

// DestinationDetail loads one destination plus its hotels, attractions and
// restaurants; the three nested fetches run concurrently on independent
// loading keys.
func (h *CatalogHandlers) DestinationDetail(c *gin.Context) {
	entry := session.FromContext(c)
	slice := entry.Store.Destinations
	slug := c.Param("slug")

	if err := slice.FetchDetail(c.Request.Context(), slug); err != nil {
		respondError(c, h.sessions, h.logger, err)
		return
	}

	respondPage(c, "destination-detail", gin.H{
		"destination": slice.Current(),
		"hotels":      slice.Hotels(),
		"attractions": slice.Attractions(),
		"restaurants": slice.Restaurants(),
	})
}

// LeaveDestination clears the detail context when navigating away.
func (h *CatalogHandlers) LeaveDestination(c *gin.Context) {
	entry := session.FromContext(c)
	entry.Store.Destinations.ClearCurrent()
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandlers) Hotels(c *gin.Context) {
	entry := session.FromContext(c)
	slice := entry.Store.Hotels

	filters := filterParams(c, "tier", "location", "q")
	if err := slice.FetchAll(c.Request.Context(), filters); err != nil {
		respondError(c, h.sessions, h.logger, err)
		return
	}

	respondPage(c, "hotels", gin.H{
		"hotels": slice.Hotels(),
	})
}

func (h *CatalogHandlers) HotelDetail(c *gin.Context) {
	entry := session.FromContext(c)
	slice := entry.Store.Hotels

	if err := slice.FetchByID(c.Request.Context(), c.Param("hotelId")); err != nil {
		respondError(c, h.sessions, h.logger, err)
		return
	}

	respondPage(c, "hotel-detail", gin.H{
		"hotel": slice.Current(),
	})
}

// Food is the restaurant browse page.
func (h *CatalogHandlers) Food(c *gin.Context) {
	entry := session.FromContext(c)
	slice := entry.Store.Restaurants

	filters := filterParams(c, "cuisine", "location", "q")
	if err := slice.FetchAll(c.Request.Context(), filters); err != nil {
		respondError(c, h.sessions, h.logger, err)
		return
	}

	respondPage(c, "food", gin.H{
		"restaurants": slice.Restaurants(),
	})
}

// Reviews lists a destination's reviews alongside the detail page.
func (h *CatalogHandlers) Reviews(c *gin.Context) {
	entry := session.FromContext(c)
	slice := entry.Store.Reviews

	destinationID := c.Query("destinationId")
	if destinationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "destinationId is required"})
		return
	}
	if err := slice.Fetch(c.Request.Context(), destinationID); err != nil {
		respondError(c, h.sessions, h.logger, err)
		return
	}

	respondPage(c, "reviews", gin.H{
		"reviews": slice.Reviews(),
	})
}

// AddReview appends a review; the slice unshifts the created record.
func (h *CatalogHandlers) AddReview(c *gin.Context) {
	entry := session.FromContext(c)

	var input state.ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review payload"})
		return
	}
	if err := entry.Store.Reviews.Add(c.Request.Context(), input); err != nil {
		respondError(c, h.sessions, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": entry.Store.Reviews.Reviews()})
}

// RemoveReview deletes a review and filters it from the list.
func (h *CatalogHandlers) RemoveReview(c *gin.Context) {
	entry := session.FromContext(c)

	if err := entry.Store.Reviews.Remove(c.Request.Context(), c.Param("reviewId")); err != nil {
		respondError(c, h.sessions, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": entry.Store.Reviews.Reviews()})
}
