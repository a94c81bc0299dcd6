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

// Trips is the trip repository. A trip must reference an existing vehicle of
// the same owner; the check runs against the vehicle collection in memory.
type Trips struct {
	actor   models.Actor
	table   store.Table[store.TripRow]
	auditor *audit.Logger
	cache   collection[models.Trip]

	vehicles    *Vehicles
	expenses    *Expenses
	tollRecords *TollRecords
}

// NewTrips builds the repository for one actor's session.
func NewTrips(actor models.Actor, table store.Table[store.TripRow], auditor *audit.Logger) *Trips {
	return &Trips{actor: actor, table: table, auditor: auditor}
}

// AttachSiblings wires the collections consulted for referential checks and
// deletion denial.
func (r *Trips) AttachSiblings(v *Vehicles, e *Expenses, tr *TollRecords) {
	r.vehicles = v
	r.expenses = e
	r.tollRecords = tr
}

// Subscribe registers a collection observer.
func (r *Trips) Subscribe(fn func([]models.Trip)) { r.cache.Subscribe(fn) }

// Load performs the bootstrap read.
func (r *Trips) Load(ctx context.Context) error {
	rows, err := r.table.Select(ctx, store.Filter{OwnerID: r.actor.ID})
	if err != nil {
		return err
	}
	trips := mapper.TripsFromRows(rows)
	sort.SliceStable(trips, func(i, j int) bool { return trips[i].CreatedAt.After(trips[j].CreatedAt) })
	r.cache.Replace(trips)
	if r.auditor.ShouldAuditRead(true) {
		r.auditor.Record(r.actor, audit.Entry{
			TableName:      "trips",
			Operation:      models.AuditRead,
			AdditionalInfo: models.JSONMap{"scope": "load_all", "count": float64(len(trips))},
		})
	}
	return nil
}

// List returns the collection, newest first.
func (r *Trips) List() []models.Trip { return r.cache.List() }

// GetByID is a purely local lookup.
func (r *Trips) GetByID(id uuid.UUID) (models.Trip, bool) {
	t, ok := r.cache.Find(func(t models.Trip) bool { return t.ID == id })
	if ok && r.auditor.ShouldAuditRead(false) {
		r.auditor.Record(r.actor, audit.Entry{
			TableName: "trips",
			Operation: models.AuditRead,
			RecordID:  id.String(),
		})
	}
	return t, ok
}

// Add validates and checks that the referenced vehicle exists before the
// remote insert.
func (r *Trips) Add(ctx context.Context, t models.Trip) (models.Trip, error) {
	if err := t.Validate(); err != nil {
		return models.Trip{}, err
	}
	if r.vehicles == nil || !r.vehicles.exists(t.VehicleID) {
		return models.Trip{}, &ReferentialError{Entity: "trip", Field: "vehicleId", Reason: "vehicle does not exist"}
	}
	inserted, err := r.table.Insert(ctx, mapper.TripToRow(r.actor.ID, t))
	if err != nil {
		return models.Trip{}, err
	}
	created, err := mapper.TripFromRow(inserted)
	if err != nil {
		return models.Trip{}, store.Translate("insert", "trips", err)
	}
	r.cache.Prepend(created)
	r.auditor.Record(r.actor, audit.Entry{
		TableName: "trips",
		Operation: models.AuditCreate,
		RecordID:  created.ID.String(),
		NewValues: tripValues(created),
	})
	return created, nil
}

// Update patches one trip; a supplied vehicleId is re-checked against the
// vehicle collection.
func (r *Trips) Update(ctx context.Context, id uuid.UUID, p models.TripPatch) error {
	current, ok := r.cache.Find(func(t models.Trip) bool { return t.ID == id })
	if !ok {
		return ErrNotFound
	}
	if err := p.Validate(&current); err != nil {
		return err
	}
	if p.VehicleID != nil && (r.vehicles == nil || !r.vehicles.exists(*p.VehicleID)) {
		return &ReferentialError{Entity: "trip", Field: "vehicleId", Reason: "vehicle does not exist"}
	}
	wire := mapper.TripPatchToWire(p)
	if len(wire) == 0 {
		return nil
	}
	if err := r.table.Update(ctx, store.Filter{OwnerID: r.actor.ID, ID: id}, wire); err != nil {
		return err
	}
	updated := applyTripPatch(current, p)
	r.cache.Mutate(func(t models.Trip) bool { return t.ID == id }, updated)
	r.auditor.Record(r.actor, audit.Entry{
		TableName: "trips",
		Operation: models.AuditUpdate,
		RecordID:  id.String(),
		OldValues: tripValues(current),
		NewValues: models.ScalarMap(wire),
	})
	return nil
}

// Delete removes one trip unless expenses or toll records still reference it.
func (r *Trips) Delete(ctx context.Context, id uuid.UUID) error {
	current, ok := r.cache.Find(func(t models.Trip) bool { return t.ID == id })
	if !ok {
		return ErrNotFound
	}
	if r.expenses != nil && r.expenses.AnyForTrip(id) {
		return &DependencyError{Entity: "trip", Dependent: "expenses"}
	}
	if r.tollRecords != nil && r.tollRecords.AnyForTrip(id) {
		return &DependencyError{Entity: "trip", Dependent: "toll records"}
	}
	if err := r.table.Delete(ctx, store.Filter{OwnerID: r.actor.ID, ID: id}); err != nil {
		return err
	}
	r.cache.Remove(func(t models.Trip) bool { return t.ID == id })
	r.auditor.Record(r.actor, audit.Entry{
		TableName: "trips",
		Operation: models.AuditDelete,
		RecordID:  id.String(),
		OldValues: tripValues(current),
	})
	return nil
}

// Reset empties the collection at sign-out.
func (r *Trips) Reset() { r.cache.Reset() }

// AnyForVehicle reports whether any trip references the vehicle.
func (r *Trips) AnyForVehicle(vehicleID uuid.UUID) bool {
	return r.cache.Any(func(t models.Trip) bool { return t.VehicleID == vehicleID })
}

func (r *Trips) exists(id uuid.UUID) bool {
	return r.cache.Any(func(t models.Trip) bool { return t.ID == id })
}

// vehicleOf is the cross-field probe: the vehicle a trip belongs to.
func (r *Trips) vehicleOf(id uuid.UUID) (uuid.UUID, bool) {
	t, ok := r.cache.Find(func(t models.Trip) bool { return t.ID == id })
	if !ok {
		return uuid.Nil, false
	}
	return t.VehicleID, true
}

func tripValues(t models.Trip) models.JSONMap {
	m := map[string]interface{}{
		"vehicle_id":  t.VehicleID.String(),
		"origin":      t.Origin,
		"destination": t.Destination,
		"start_date":  t.StartDate.Format("2006-01-02"),
		"distance":    t.Distance,
	}
	if t.EndDate != nil {
		m["end_date"] = t.EndDate.Format("2006-01-02")
	}
	return models.ScalarMap(m)
}

func applyTripPatch(t models.Trip, p models.TripPatch) models.Trip {
	if p.VehicleID != nil {
		t.VehicleID = *p.VehicleID
	}
	if p.Origin != nil {
		t.Origin = *p.Origin
	}
	if p.Destination != nil {
		t.Destination = *p.Destination
	}
	if p.StartDate != nil {
		t.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		t.EndDate = p.EndDate
	}
	if p.Distance != nil {
		t.Distance = *p.Distance
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	return t
}
