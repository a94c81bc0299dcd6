package models

import (
	"time"

	"github.com/google/uuid"
)

// Toll is a toll booth the actor passes through. (Name, Location) is unique
// per owner, compared case- and whitespace-insensitively; see TollKey.
type Toll struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"ownerId"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Category  string    `json:"category"`
	Route     string    `json:"route"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TollPatch carries a partial toll update.
type TollPatch struct {
	Name     *string  `json:"name,omitempty"`
	Location *string  `json:"location,omitempty"`
	Category *string  `json:"category,omitempty"`
	Route    *string  `json:"route,omitempty"`
	Price    *float64 `json:"price,omitempty"`
}

func (t *Toll) Validate() error {
	ve := &ValidationError{}
	requireString(ve, "name", t.Name)
	requireString(ve, "location", t.Location)
	requireString(ve, "category", t.Category)
	requireString(ve, "route", t.Route)
	if t.Price < 0 {
		ve.add("price", "cannot be negative")
	}
	return ve.orNil()
}

func (p *TollPatch) Validate() error {
	ve := &ValidationError{}
	if p.Name != nil {
		requireString(ve, "name", *p.Name)
	}
	if p.Location != nil {
		requireString(ve, "location", *p.Location)
	}
	if p.Category != nil {
		requireString(ve, "category", *p.Category)
	}
	if p.Route != nil {
		requireString(ve, "route", *p.Route)
	}
	if p.Price != nil && *p.Price < 0 {
		ve.add("price", "cannot be negative")
	}
	return ve.orNil()
}
