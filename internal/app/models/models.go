package models

import "time"

// User is the authenticated identity returned by the auth endpoints. The
// editable profile served by /users/getProfile uses the same shape; the two
// copies are kept deliberately separate (identity vs profile-detail cache).
type User struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Avatar     string    `json:"avatar,omitempty"`
	Role       string    `json:"role"`
	IsVerified bool      `json:"isVerified"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Destination is a read-only catalog record.
type Destination struct {
	ID            string   `json:"_id"`
	Name          string   `json:"name"`
	Slug          string   `json:"slug"`
	Country       string   `json:"country"`
	Category      string   `json:"category"`
	Description   string   `json:"description"`
	ImageURL      string   `json:"imageUrl"`
	Rating        float64  `json:"rating"`
	StartingPrice float64  `json:"startingPrice"`
	BestSeason    string   `json:"bestSeason"`
	Tags          []string `json:"tags,omitempty"`
}

// Attraction is a point of interest within a destination.
type Attraction struct {
	ID           string  `json:"_id"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Description  string  `json:"description"`
	ImageURL     string  `json:"imageUrl"`
	EntryFee     float64 `json:"entryFee"`
	DurationMins int     `json:"durationMins"`
}

// Hotel is a read-only catalog record.
type Hotel struct {
	ID            string   `json:"_id"`
	Name          string   `json:"name"`
	Location      string   `json:"location"`
	Tier          string   `json:"tier"`
	PricePerNight float64  `json:"pricePerNight"`
	ImageURL      string   `json:"imageUrl"`
	Description   string   `json:"description"`
	Rating        float64  `json:"rating"`
	Amenities     []string `json:"amenities,omitempty"`
}

// Restaurant is a read-only catalog record. It also appears nested inside
// food itinerary slots as a suggestion.
type Restaurant struct {
	ID          string  `json:"_id"`
	Name        string  `json:"name"`
	Location    string  `json:"location"`
	Cuisine     string  `json:"cuisine"`
	PriceRange  string  `json:"priceRange"`
	CostForTwo  float64 `json:"costForTwo"`
	ImageURL    string  `json:"imageUrl"`
	Description string  `json:"description"`
	Rating      float64 `json:"rating"`
}

// Itinerary slot types. A slot's type decides the rendering affordance; food
// slots may carry nested restaurant suggestions.
const (
	SlotAttraction = "attraction"
	SlotFood       = "food"
	SlotTransport  = "transport"
	SlotHotel      = "hotel"
	SlotFree       = "free"
)

// ItinerarySlot is one scheduled entry inside an itinerary day.
type ItinerarySlot struct {
	Type          string       `json:"type"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	EstimatedCost float64      `json:"estimatedCost"`
	DurationMins  int          `json:"durationMins"`
	TimeLabel     string       `json:"timeLabel"`
	AITip         string       `json:"aiTip,omitempty"`
	Suggestions   []Restaurant `json:"suggestions,omitempty"`
}

// ItineraryDay is one day of a generated plan.
type ItineraryDay struct {
	DayNumber int             `json:"dayNumber"`
	Title     string          `json:"title"`
	Summary   string          `json:"summary"`
	Slots     []ItinerarySlot `json:"slots"`
}

// BudgetBreakdown is the per-tier cost split attached to an itinerary.
type BudgetBreakdown struct {
	Tier          string  `json:"tier"`
	Accommodation float64 `json:"accommodation"`
	Food          float64 `json:"food"`
	Transport     float64 `json:"transport"`
	EntryFees     float64 `json:"entryFees"`
	PerPerson     float64 `json:"perPerson"`
	Total         float64 `json:"total"`
}

// Itinerary is the central planning artifact. It is produced server-side by
// the AI generation endpoint; this layer only displays and references it.
type Itinerary struct {
	ID               string            `json:"_id"`
	Title            string            `json:"title"`
	DestinationName  string            `json:"destinationName"`
	TotalDays        int               `json:"totalDays"`
	BudgetTier       string            `json:"budgetTier"`
	Adults           int               `json:"adults"`
	Children         int               `json:"children"`
	Days             []ItineraryDay    `json:"days"`
	BudgetBreakdown  []BudgetBreakdown `json:"budgetBreakdown"`
	HotelSuggestions []Hotel           `json:"hotelSuggestions"`
	TravelTips       []string          `json:"travelTips"`
	LocalPhrases     []string          `json:"localPhrases"`
	ShareToken       string            `json:"shareToken,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
}

// SavedPlan associates a user with an itinerary plus an optional note.
type SavedPlan struct {
	ID        string    `json:"_id"`
	Itinerary Itinerary `json:"itinerary"`
	Note      string    `json:"note,omitempty"`
	SavedAt   time.Time `json:"savedAt"`
}

// Review is an append/remove-only destination review.
type Review struct {
	ID            string  `json:"_id"`
	DestinationID string  `json:"destinationId"`
	Rating        float64 `json:"rating"`
	Comment       string  `json:"comment"`
	TripDate      string  `json:"tripDate"`
}

// Pricing tiers shared by hotels, packages and budget estimation.
const (
	TierEconomy  = "economy"
	TierStandard = "standard"
	TierLuxury   = "luxury"
)

// PlannerForm is the ephemeral planner input. It lives in the generate slice
// so the planner page survives remounts; it is not persisted beyond the
// session lifetime. Dates use the YYYY-MM-DD wire format.
type PlannerForm struct {
	Origin      string   `json:"origin"`
	Destination string   `json:"destination"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Days        int      `json:"days"`
	Adults      int      `json:"adults"`
	Children    int      `json:"children"`
	Tier        string   `json:"tier"`
	Interests   []string `json:"interests"`
	DailyBudget float64  `json:"dailyBudget"`
}

// DefaultPlannerForm returns the planner defaults used to seed a fresh form
// and as the last fallback when reconciling trip parameters.
func DefaultPlannerForm() PlannerForm {
	return PlannerForm{
		Days:        3,
		Adults:      2,
		Children:    0,
		Tier:        TierStandard,
		Interests:   []string{},
		DailyBudget: 3000,
	}
}

// PackageOption is one client-computed pricing tier shown before generation.
type PackageOption struct {
	Tier             string  `json:"tier"`
	Total            float64 `json:"total"`
	PerPerson        float64 `json:"perPerson"`
	DisplayTotal     string  `json:"displayTotal"`
	DisplayPerPerson string  `json:"displayPerPerson"`
}

// ShareData is the result of sharing an itinerary, consumed by the results
// page for link copying.
type ShareData struct {
	ShareURL   string `json:"shareUrl"`
	ShareToken string `json:"shareToken"`
}

// GenerationMeta is the metadata block optionally attached to a generation
// response.
type GenerationMeta struct {
	Destination string    `json:"destination"`
	Days        int       `json:"days"`
	Tier        string    `json:"tier"`
	Model       string    `json:"model,omitempty"`
	GeneratedAt time.Time `json:"generatedAt"`
}
