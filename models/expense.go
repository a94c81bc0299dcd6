package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ExpenseCategory is the closed set of expense kinds the app understands.
type ExpenseCategory string

const (
	CategoryFuel        ExpenseCategory = "fuel"
	CategoryToll        ExpenseCategory = "toll"
	CategoryMaintenance ExpenseCategory = "maintenance"
	CategoryLodging     ExpenseCategory = "lodging"
	CategoryFood        ExpenseCategory = "food"
	CategoryOther       ExpenseCategory = "other"
)

// ExpenseCategories lists every valid category, in display order.
var ExpenseCategories = []ExpenseCategory{
	CategoryFuel, CategoryToll, CategoryMaintenance,
	CategoryLodging, CategoryFood, CategoryOther,
}

// Valid reports membership in the category enum.
func (c ExpenseCategory) Valid() bool {
	for _, k := range ExpenseCategories {
		if c == k {
			return true
		}
	}
	return false
}

// Expense is a cost incurred on a trip. VehicleID must match the vehicle of
// the referenced trip; the repository rejects mismatches before any write.
type Expense struct {
	ID          uuid.UUID       `json:"id"`
	OwnerID     uuid.UUID       `json:"ownerId"`
	TripID      uuid.UUID       `json:"tripId"`
	VehicleID   uuid.UUID       `json:"vehicleId"`
	Category    ExpenseCategory `json:"category"`
	Amount      float64         `json:"amount"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Photos      pq.StringArray  `json:"photos,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ExpensePatch carries a partial expense update.
type ExpensePatch struct {
	TripID      *uuid.UUID       `json:"tripId,omitempty"`
	VehicleID   *uuid.UUID       `json:"vehicleId,omitempty"`
	Category    *ExpenseCategory `json:"category,omitempty"`
	Amount      *float64         `json:"amount,omitempty"`
	Date        *time.Time       `json:"date,omitempty"`
	Description *string          `json:"description,omitempty"`
	Photos      *pq.StringArray  `json:"photos,omitempty"`
}

func (e *Expense) Validate() error {
	ve := &ValidationError{}
	if e.TripID == uuid.Nil {
		ve.add("tripId", "is required")
	}
	if e.VehicleID == uuid.Nil {
		ve.add("vehicleId", "is required")
	}
	if !e.Category.Valid() {
		ve.add("category", "is not a valid category")
	}
	requirePositive(ve, "amount", e.Amount)
	requireDate(ve, "date", e.Date)
	return ve.orNil()
}

func (p *ExpensePatch) Validate() error {
	ve := &ValidationError{}
	if p.TripID != nil && *p.TripID == uuid.Nil {
		ve.add("tripId", "is required")
	}
	if p.VehicleID != nil && *p.VehicleID == uuid.Nil {
		ve.add("vehicleId", "is required")
	}
	if p.Category != nil && !p.Category.Valid() {
		ve.add("category", "is not a valid category")
	}
	if p.Amount != nil {
		requirePositive(ve, "amount", *p.Amount)
	}
	if p.Date != nil {
		requireDate(ve, "date", *p.Date)
	}
	return ve.orNil()
}
