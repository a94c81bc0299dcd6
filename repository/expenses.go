package repository

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"p9e.in/flota/audit"
	"p9e.in/flota/mapper"
	"p9e.in/flota/models"
	"p9e.in/flota/store"
)

// Expenses is the expense repository. An expense references a trip and a
// vehicle, and its vehicle must be the one the trip was made with.
type Expenses struct {
	actor   models.Actor
	table   store.Table[store.ExpenseRow]
	auditor *audit.Logger
	cache   collection[models.Expense]

	trips *Trips
}

// NewExpenses builds the repository for one actor's session.
func NewExpenses(actor models.Actor, table store.Table[store.ExpenseRow], auditor *audit.Logger) *Expenses {
	return &Expenses{actor: actor, table: table, auditor: auditor}
}

// AttachTrips wires the sibling consulted for the cross-field check.
func (r *Expenses) AttachTrips(t *Trips) { r.trips = t }

// Subscribe registers a collection observer.
func (r *Expenses) Subscribe(fn func([]models.Expense)) { r.cache.Subscribe(fn) }

// Load performs the bootstrap read.
func (r *Expenses) Load(ctx context.Context) error {
	rows, err := r.table.Select(ctx, store.Filter{OwnerID: r.actor.ID})
	if err != nil {
		return err
	}
	expenses := mapper.ExpensesFromRows(rows)
	sort.SliceStable(expenses, func(i, j int) bool { return expenses[i].CreatedAt.After(expenses[j].CreatedAt) })
	r.cache.Replace(expenses)
	if r.auditor.ShouldAuditRead(true) {
		r.auditor.Record(r.actor, audit.Entry{
			TableName:      "expenses",
			Operation:      models.AuditRead,
			AdditionalInfo: models.JSONMap{"scope": "load_all", "count": float64(len(expenses))},
		})
	}
	return nil
}

// List returns the collection, newest first.
func (r *Expenses) List() []models.Expense { return r.cache.List() }

// GetByID is a purely local lookup.
func (r *Expenses) GetByID(id uuid.UUID) (models.Expense, bool) {
	e, ok := r.cache.Find(func(e models.Expense) bool { return e.ID == id })
	if ok && r.auditor.ShouldAuditRead(false) {
		r.auditor.Record(r.actor, audit.Entry{
			TableName: "expenses",
			Operation: models.AuditRead,
			RecordID:  id.String(),
		})
	}
	return e, ok
}

// checkTripVehicle verifies the trip exists and was made with the given
// vehicle. Mismatches are rejected before the remote write.
func (r *Expenses) checkTripVehicle(tripID, vehicleID uuid.UUID) error {
	if r.trips == nil {
		return &ReferentialError{Entity: "expense", Field: "tripId", Reason: "trip does not exist"}
	}
	tripVehicle, ok := r.trips.vehicleOf(tripID)
	if !ok {
		return &ReferentialError{Entity: "expense", Field: "tripId", Reason: "trip does not exist"}
	}
	if tripVehicle != vehicleID {
		return &ReferentialError{Entity: "expense", Field: "vehicleId", Reason: "does not match the trip's vehicle"}
	}
	return nil
}

// Add validates, checks the trip/vehicle pair and inserts remotely.
func (r *Expenses) Add(ctx context.Context, e models.Expense) (models.Expense, error) {
	if err := e.Validate(); err != nil {
		return models.Expense{}, err
	}
	if err := r.checkTripVehicle(e.TripID, e.VehicleID); err != nil {
		return models.Expense{}, err
	}
	inserted, err := r.table.Insert(ctx, mapper.ExpenseToRow(r.actor.ID, e))
	if err != nil {
		return models.Expense{}, err
	}
	created, err := mapper.ExpenseFromRow(inserted)
	if err != nil {
		return models.Expense{}, store.Translate("insert", "expenses", err)
	}
	r.cache.Prepend(created)
	r.auditor.Record(r.actor, audit.Entry{
		TableName: "expenses",
		Operation: models.AuditCreate,
		RecordID:  created.ID.String(),
		NewValues: expenseValues(created),
	})
	return created, nil
}

// Update patches one expense; if either side of the trip/vehicle pair
// changes, the resulting pair is re-checked.
func (r *Expenses) Update(ctx context.Context, id uuid.UUID, p models.ExpensePatch) error {
	current, ok := r.cache.Find(func(e models.Expense) bool { return e.ID == id })
	if !ok {
		return ErrNotFound
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if p.TripID != nil || p.VehicleID != nil {
		tripID, vehicleID := current.TripID, current.VehicleID
		if p.TripID != nil {
			tripID = *p.TripID
		}
		if p.VehicleID != nil {
			vehicleID = *p.VehicleID
		}
		if err := r.checkTripVehicle(tripID, vehicleID); err != nil {
			return err
		}
	}
	wire := mapper.ExpensePatchToWire(p)
	if len(wire) == 0 {
		return nil
	}
	if err := r.table.Update(ctx, store.Filter{OwnerID: r.actor.ID, ID: id}, wire); err != nil {
		return err
	}
	updated := applyExpensePatch(current, p)
	r.cache.Mutate(func(e models.Expense) bool { return e.ID == id }, updated)
	r.auditor.Record(r.actor, audit.Entry{
		TableName: "expenses",
		Operation: models.AuditUpdate,
		RecordID:  id.String(),
		OldValues: expenseValues(current),
		NewValues: models.ScalarMap(wire),
	})
	return nil
}

// Delete removes one expense. Nothing references expenses, so no dependency
// check applies.
func (r *Expenses) Delete(ctx context.Context, id uuid.UUID) error {
	current, ok := r.cache.Find(func(e models.Expense) bool { return e.ID == id })
	if !ok {
		return ErrNotFound
	}
	if err := r.table.Delete(ctx, store.Filter{OwnerID: r.actor.ID, ID: id}); err != nil {
		return err
	}
	r.cache.Remove(func(e models.Expense) bool { return e.ID == id })
	r.auditor.Record(r.actor, audit.Entry{
		TableName: "expenses",
		Operation: models.AuditDelete,
		RecordID:  id.String(),
		OldValues: expenseValues(current),
	})
	return nil
}

// Reset empties the collection at sign-out.
func (r *Expenses) Reset() { r.cache.Reset() }

// AnyForTrip reports whether any expense references the trip.
func (r *Expenses) AnyForTrip(tripID uuid.UUID) bool {
	return r.cache.Any(func(e models.Expense) bool { return e.TripID == tripID })
}

func expenseValues(e models.Expense) models.JSONMap {
	return models.ScalarMap(map[string]interface{}{
		"trip_id":    e.TripID.String(),
		"vehicle_id": e.VehicleID.String(),
		"category":   string(e.Category),
		"amount":     e.Amount,
		"date":       e.Date.Format("2006-01-02"),
	})
}

func applyExpensePatch(e models.Expense, p models.ExpensePatch) models.Expense {
	if p.TripID != nil {
		e.TripID = *p.TripID
	}
	if p.VehicleID != nil {
		e.VehicleID = *p.VehicleID
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Photos != nil {
		e.Photos = *p.Photos
	}
	return e
}
