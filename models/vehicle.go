package models

import (
	"time"

	"github.com/google/uuid"
)

// ComplianceDocument is the optional regulatory paperwork attached to a
// vehicle (insurance, roadworthiness certificate and the like).
type ComplianceDocument struct {
	Reference string     `json:"reference"`
	Issuer    string     `json:"issuer"`
	IssuedAt  *time.Time `json:"issuedAt,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// Vehicle is a fleet vehicle owned by the current actor. Plate is stored
// normalized (upper-case, trimmed) and is unique per owner.
type Vehicle struct {
	ID         uuid.UUID            `json:"id"`
	OwnerID    uuid.UUID            `json:"ownerId"`
	Plate      string               `json:"plate"`
	Brand      string               `json:"brand"`
	Model      string               `json:"model"`
	Year       int                  `json:"year"`
	Color      string               `json:"color"`
	FuelType   string               `json:"fuelType"`
	Capacity   int                  `json:"capacity"`
	Compliance []ComplianceDocument `json:"compliance,omitempty"`
	CreatedAt  time.Time            `json:"createdAt"`
	UpdatedAt  time.Time            `json:"updatedAt"`
}

// VehiclePatch carries the fields of a partial vehicle update. Nil means
// "not supplied"; the mapper never sends unsupplied fields over the wire.
type VehiclePatch struct {
	Plate      *string               `json:"plate,omitempty"`
	Brand      *string               `json:"brand,omitempty"`
	Model      *string               `json:"model,omitempty"`
	Year       *int                  `json:"year,omitempty"`
	Color      *string               `json:"color,omitempty"`
	FuelType   *string               `json:"fuelType,omitempty"`
	Capacity   *int                  `json:"capacity,omitempty"`
	Compliance *[]ComplianceDocument `json:"compliance,omitempty"`
}

// Validate checks required fields, plate format and year range. Pure: no
// I/O, safe to call before any network operation.
func (v *Vehicle) Validate() error {
	ve := &ValidationError{}
	requireString(ve, "plate", v.Plate)
	if norm := NormalizePlate(v.Plate); norm != "" && !plateRe.MatchString(norm) {
		ve.add("plate", "has an invalid format")
	}
	requireString(ve, "brand", v.Brand)
	requireString(ve, "model", v.Model)
	if !validYear(v.Year) {
		ve.add("year", yearMessage())
	}
	if v.Capacity < 0 {
		ve.add("capacity", "cannot be negative")
	}
	return ve.orNil()
}

// Validate re-checks only the fields the patch supplies.
func (p *VehiclePatch) Validate() error {
	ve := &ValidationError{}
	if p.Plate != nil {
		requireString(ve, "plate", *p.Plate)
		if norm := NormalizePlate(*p.Plate); norm != "" && !plateRe.MatchString(norm) {
			ve.add("plate", "has an invalid format")
		}
	}
	if p.Brand != nil {
		requireString(ve, "brand", *p.Brand)
	}
	if p.Model != nil {
		requireString(ve, "model", *p.Model)
	}
	if p.Year != nil && !validYear(*p.Year) {
		ve.add("year", yearMessage())
	}
	if p.Capacity != nil && *p.Capacity < 0 {
		ve.add("capacity", "cannot be negative")
	}
	return ve.orNil()
}
