package models

import (
	"time"

	"github.com/google/uuid"
)

// Trip is one journey of a vehicle between two places.
type Trip struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     uuid.UUID  `json:"ownerId"`
	VehicleID   uuid.UUID  `json:"vehicleId"`
	Origin      string     `json:"origin"`
	Destination string     `json:"destination"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Distance    float64    `json:"distance"`
	Notes       string     `json:"notes"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TripPatch carries a partial trip update.
type TripPatch struct {
	VehicleID   *uuid.UUID `json:"vehicleId,omitempty"`
	Origin      *string    `json:"origin,omitempty"`
	Destination *string    `json:"destination,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Distance    *float64   `json:"distance,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
}

func (t *Trip) Validate() error {
	ve := &ValidationError{}
	if t.VehicleID == uuid.Nil {
		ve.add("vehicleId", "is required")
	}
	requireString(ve, "origin", t.Origin)
	requireString(ve, "destination", t.Destination)
	requireDate(ve, "startDate", t.StartDate)
	if t.EndDate != nil && !t.StartDate.IsZero() && t.EndDate.Before(t.StartDate) {
		ve.add("endDate", "cannot be before startDate")
	}
	requirePositive(ve, "distance", t.Distance)
	return ve.orNil()
}

// Validate re-checks only supplied fields. The start/end ordering rule needs
// the resulting pair, so the repository passes the current entity in.
func (p *TripPatch) Validate(current *Trip) error {
	ve := &ValidationError{}
	if p.VehicleID != nil && *p.VehicleID == uuid.Nil {
		ve.add("vehicleId", "is required")
	}
	if p.Origin != nil {
		requireString(ve, "origin", *p.Origin)
	}
	if p.Destination != nil {
		requireString(ve, "destination", *p.Destination)
	}
	if p.Distance != nil {
		requirePositive(ve, "distance", *p.Distance)
	}
	start := current.StartDate
	if p.StartDate != nil {
		start = *p.StartDate
		requireDate(ve, "startDate", start)
	}
	end := current.EndDate
	if p.EndDate != nil {
		end = p.EndDate
	}
	if end != nil && !start.IsZero() && end.Before(start) {
		ve.add("endDate", "cannot be before startDate")
	}
	return ve.orNil()
}
