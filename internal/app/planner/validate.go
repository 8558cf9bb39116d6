package planner

import (
	"time"

	"github.com/itsyashbisht/tripsage-client-sub000/internal/app/models"
)

const dateLayout = "2006-01-02"

// FieldErrors maps a planner form field to its inline validation message.
// Validation errors never reach the network.
type FieldErrors map[string]string

// ValidateForm checks the planner form before package computation. Every
// failing field is reported so the form can mark all of them at once.
func ValidateForm(form models.PlannerForm) FieldErrors {
	errs := FieldErrors{}

	if form.Origin == "" {
		errs["origin"] = "Origin city is required"
	}
	if form.Destination == "" {
		errs["destination"] = "Destination is required"
	}

	var start, end time.Time
	var startOK, endOK bool
	if form.StartDate == "" {
		errs["startDate"] = "Start date is required"
	} else if parsed, err := time.Parse(dateLayout, form.StartDate); err != nil {
		errs["startDate"] = "Start date must be a valid date"
	} else {
		start, startOK = parsed, true
	}
	if form.EndDate == "" {
		errs["endDate"] = "End date is required"
	} else if parsed, err := time.Parse(dateLayout, form.EndDate); err != nil {
		errs["endDate"] = "End date must be a valid date"
	} else {
		end, endOK = parsed, true
	}

	// End must be strictly after start.
	if startOK && endOK && !end.After(start) {
		errs["endDate"] = "End date must be after the start date"
	}

	if form.Adults < 1 {
		errs["adults"] = "At least one adult is required"
	}
	if form.DailyBudget <= 0 {
		errs["dailyBudget"] = "Daily budget must be greater than zero"
	}

	return errs
}

// TripDays derives the trip length in days from the form's date range,
// falling back to the explicit days field when dates are absent.
func TripDays(form models.PlannerForm) int {
	start, err1 := time.Parse(dateLayout, form.StartDate)
	end, err2 := time.Parse(dateLayout, form.EndDate)
	if err1 == nil && err2 == nil && end.After(start) {
		return int(end.Sub(start).Hours() / 24)
	}
	if form.Days > 0 {
		return form.Days
	}
	return models.DefaultPlannerForm().Days
}
