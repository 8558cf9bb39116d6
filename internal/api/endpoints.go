package api

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Every upstream resource path lives here as data so handlers and slices
// never scatter string literals. Templates use :param placeholders resolved
// by BuildURL.
const (
	AuthRegister = "/auth/register"
	AuthLogin    = "/auth/login"
	AuthLogout   = "/auth/logout"
	AuthMe       = "/auth/me"

	UserProfile        = "/users/getProfile"
	UserUpdate         = "/users/me"
	UserChangePassword = "/users/me/password"
	UserSavedPlans     = "/users/me/saved"
	UserRemoveSaved    = "/users/me/saved/:itineraryId"

	Destinations           = "/destinations"
	DestinationBySlug      = "/destinations/:slug"
	DestinationHotels      = "/destinations/:slug/hotels"
	DestinationAttractions = "/destinations/:slug/attractions"
	DestinationRestaurants = "/destinations/:slug/restaurants"

	Hotels    = "/hotels"
	HotelByID = "/hotels/:hotelId"

	Restaurants    = "/restaurants"
	RestaurantByID = "/restaurants/:restaurantId"

	Itineraries       = "/itineraries"
	ItineraryByID     = "/itineraries/:itineraryId"
	ItineraryByShare  = "/itineraries/shared/:shareToken"
	ItinerarySaved    = "/itineraries/user/saved"
	ItinerarySave     = "/itineraries/:itineraryId/save"
	ItineraryShare    = "/itineraries/:itineraryId/share"

	Generate         = "/generate"
	GeneratePackages = "/generate/packages"

	Reviews    = "/reviews"
	ReviewByID = "/reviews/:reviewId"
)

var paramPattern = regexp.MustCompile(`:([A-Za-z][A-Za-z0-9]*)`)

// BuildURL substitutes every :key placeholder in template with the
// URL-encoded value from params. Missing, empty or unused params are an
// error: a silently malformed path is worse than failing at construction
// time.
func BuildURL(template string, params map[string]string) (string, error) {
	used := make(map[string]bool, len(params))
	var missing []string

	path := paramPattern.ReplaceAllStringFunc(template, func(token string) string {
		key := strings.TrimPrefix(token, ":")
		value, ok := params[key]
		if !ok || value == "" {
			missing = append(missing, key)
			return token
		}
		used[key] = true
		return url.PathEscape(value)
	})

	if len(missing) > 0 {
		return "", fmt.Errorf("build url %q: missing params %v", template, missing)
	}
	for key := range params {
		if !used[key] {
			return "", fmt.Errorf("build url %q: unknown param %q", template, key)
		}
	}
	return path, nil
}
