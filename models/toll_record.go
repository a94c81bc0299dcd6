package models

import (
	"time"

	"github.com/google/uuid"
)

// TollRecord is one passage of a vehicle through a toll during a trip.
type TollRecord struct {
	ID            uuid.UUID `json:"id"`
	OwnerID       uuid.UUID `json:"ownerId"`
	VehicleID     uuid.UUID `json:"vehicleId"`
	TripID        uuid.UUID `json:"tripId"`
	TollID        uuid.UUID `json:"tollId"`
	Date          time.Time `json:"date"`
	Price         float64   `json:"price"`
	PaymentMethod string    `json:"paymentMethod"`
	Receipt       string    `json:"receipt"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// TollRecordPatch carries a partial toll-record update.
type TollRecordPatch struct {
	VehicleID     *uuid.UUID `json:"vehicleId,omitempty"`
	TripID        *uuid.UUID `json:"tripId,omitempty"`
	TollID        *uuid.UUID `json:"tollId,omitempty"`
	Date          *time.Time `json:"date,omitempty"`
	Price         *float64   `json:"price,omitempty"`
	PaymentMethod *string    `json:"paymentMethod,omitempty"`
	Receipt       *string    `json:"receipt,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
}

func (r *TollRecord) Validate() error {
	ve := &ValidationError{}
	if r.VehicleID == uuid.Nil {
		ve.add("vehicleId", "is required")
	}
	if r.TripID == uuid.Nil {
		ve.add("tripId", "is required")
	}
	if r.TollID == uuid.Nil {
		ve.add("tollId", "is required")
	}
	requireDate(ve, "date", r.Date)
	requirePositive(ve, "price", r.Price)
	requireString(ve, "paymentMethod", r.PaymentMethod)
	return ve.orNil()
}

func (p *TollRecordPatch) Validate() error {
	ve := &ValidationError{}
	if p.VehicleID != nil && *p.VehicleID == uuid.Nil {
		ve.add("vehicleId", "is required")
	}
	if p.TripID != nil && *p.TripID == uuid.Nil {
		ve.add("tripId", "is required")
	}
	if p.TollID != nil && *p.TollID == uuid.Nil {
		ve.add("tollId", "is required")
	}
	if p.Date != nil {
		requireDate(ve, "date", *p.Date)
	}
	if p.Price != nil {
		requirePositive(ve, "price", *p.Price)
	}
	if p.PaymentMethod != nil {
		requireString(ve, "paymentMethod", *p.PaymentMethod)
	}
	return ve.orNil()
}
