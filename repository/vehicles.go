// Package repository holds the per-entity data access layer: one repository
// per entity type, each owning an in-memory reactive collection kept in sync
// with the remote store. Referential and uniqueness rules are enforced here,
// against the sibling collections, before any remote write.
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

// Vehicles is the vehicle repository.
type Vehicles struct {
	actor   models.Actor
	table   store.Table[store.VehicleRow]
	auditor *audit.Logger
	cache   collection[models.Vehicle]

	trips *Trips // sibling, wired by the aggregation context
}

// NewVehicles builds the repository for one actor's session.
func NewVehicles(actor models.Actor, table store.Table[store.VehicleRow], auditor *audit.Logger) *Vehicles {
	return &Vehicles{actor: actor, table: table, auditor: auditor}
}

// AttachTrips wires the sibling used for the deletion dependency check.
func (r *Vehicles) AttachTrips(t *Trips) { r.trips = t }

// Subscribe registers a collection observer.
func (r *Vehicles) Subscribe(fn func([]models.Vehicle)) { r.cache.Subscribe(fn) }

// Load performs the bootstrap read, replacing the collection wholesale.
func (r *Vehicles) Load(ctx context.Context) error {
	rows, err := r.table.Select(ctx, store.Filter{OwnerID: r.actor.ID})
	if err != nil {
		return err
	}
	vehicles := mapper.VehiclesFromRows(rows)
	sortVehicles(vehicles)
	r.cache.Replace(vehicles)
	if r.auditor.ShouldAuditRead(true) {
		r.auditor.Record(r.actor, audit.Entry{
			TableName:      "vehicles",
			Operation:      models.AuditRead,
			AdditionalInfo: models.JSONMap{"scope": "load_all", "count": float64(len(vehicles))},
		})
	}
	return nil
}

// List returns the collection, newest first.
func (r *Vehicles) List() []models.Vehicle { return r.cache.List() }

// GetByID is a purely local lookup; it never touches the network.
func (r *Vehicles) GetByID(id uuid.UUID) (models.Vehicle, bool) {
	v, ok := r.cache.Find(func(v models.Vehicle) bool { return v.ID == id })
	if ok && r.auditor.ShouldAuditRead(false) {
		r.auditor.Record(r.actor, audit.Entry{
			TableName: "vehicles",
			Operation: models.AuditRead,
			RecordID:  id.String(),
		})
	}
	return v, ok
}

// Add validates, enforces per-owner plate uniqueness against the cache,
// inserts remotely and prepends the stored row. The collection is untouched
// on any failure.
func (r *Vehicles) Add(ctx context.Context, v models.Vehicle) (models.Vehicle, error) {
	if err := v.Validate(); err != nil {
		return models.Vehicle{}, err
	}
	plate := models.NormalizePlate(v.Plate)
	if r.cache.Any(func(x models.Vehicle) bool { return x.Plate == plate }) {
		return models.Vehicle{}, &UniquenessError{Entity: "vehicle", Field: "plate", Value: plate}
	}
	inserted, err := r.table.Insert(ctx, mapper.VehicleToRow(r.actor.ID, v))
	if err != nil {
		return models.Vehicle{}, err
	}
	created, err := mapper.VehicleFromRow(inserted)
	if err != nil {
		return models.Vehicle{}, store.Translate("insert", "vehicles", err)
	}
	r.cache.Prepend(created)
	r.auditor.Record(r.actor, audit.Entry{
		TableName: "vehicles",
		Operation: models.AuditCreate,
		RecordID:  created.ID.String(),
		NewValues: vehicleValues(created),
	})
	return created, nil
}

// Update patches one vehicle. The lookup is repository-local; only supplied
// fields are re-validated and sent. The cache entry changes only after the
// remote write succeeds.
func (r *Vehicles) Update(ctx context.Context, id uuid.UUID, p models.VehiclePatch) error {
	current, ok := r.cache.Find(func(v models.Vehicle) bool { return v.ID == id })
	if !ok {
		return ErrNotFound
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if p.Plate != nil {
		plate := models.NormalizePlate(*p.Plate)
		if r.cache.Any(func(x models.Vehicle) bool { return x.ID != id && x.Plate == plate }) {
			return &UniquenessError{Entity: "vehicle", Field: "plate", Value: plate}
		}
	}
	wire := mapper.VehiclePatchToWire(p)
	if len(wire) == 0 {
		return nil
	}
	if err := r.table.Update(ctx, store.Filter{OwnerID: r.actor.ID, ID: id}, wire); err != nil {
		return err
	}
	updated := applyVehiclePatch(current, p)
	r.cache.Mutate(func(v models.Vehicle) bool { return v.ID == id }, updated)
	r.auditor.Record(r.actor, audit.Entry{
		TableName: "vehicles",
		Operation: models.AuditUpdate,
		RecordID:  id.String(),
		OldValues: vehicleValues(current),
		NewValues: models.ScalarMap(wire),
	})
	return nil
}

// Delete removes one vehicle unless a trip still references it.
func (r *Vehicles) Delete(ctx context.Context, id uuid.UUID) error {
	current, ok := r.cache.Find(func(v models.Vehicle) bool { return v.ID == id })
	if !ok {
		return ErrNotFound
	}
	if r.trips != nil && r.trips.AnyForVehicle(id) {
		return &DependencyError{Entity: "vehicle", Dependent: "trips"}
	}
	if err := r.table.Delete(ctx, store.Filter{OwnerID: r.actor.ID, ID: id}); err != nil {
		return err
	}
	r.cache.Remove(func(v models.Vehicle) bool { return v.ID == id })
	r.auditor.Record(r.actor, audit.Entry{
		TableName: "vehicles",
		Operation: models.AuditDelete,
		RecordID:  id.String(),
		OldValues: vehicleValues(current),
	})
	return nil
}

// Reset empties the collection at sign-out.
func (r *Vehicles) Reset() { r.cache.Reset() }

// exists is the referential probe the trip repository uses.
func (r *Vehicles) exists(id uuid.UUID) bool {
	return r.cache.Any(func(v models.Vehicle) bool { return v.ID == id })
}

func sortVehicles(vs []models.Vehicle) {
	sort.SliceStable(vs, func(i, j int) bool { return vs[i].CreatedAt.After(vs[j].CreatedAt) })
}

func vehicleValues(v models.Vehicle) models.JSONMap {
	return models.ScalarMap(map[string]interface{}{
		"plate":     v.Plate,
		"brand":     v.Brand,
		"model":     v.Model,
		"year":      v.Year,
		"color":     v.Color,
		"fuel_type": v.FuelType,
		"capacity":  v.Capacity,
	})
}

func applyVehiclePatch(v models.Vehicle, p models.VehiclePatch) models.Vehicle {
	if p.Plate != nil {
		v.Plate = models.NormalizePlate(*p.Plate)
	}
	if p.Brand != nil {
		v.Brand = *p.Brand
	}
	if p.Model != nil {
		v.Model = *p.Model
	}
	if p.Year != nil {
		v.Year = *p.Year
	}
	if p.Color != nil {
		v.Color = *p.Color
	}
	if p.FuelType != nil {
		v.FuelType = *p.FuelType
	}
	if p.Capacity != nil {
		v.Capacity = *p.Capacity
	}
	if p.Compliance != nil {
		v.Compliance = *p.Compliance
	}
	return v
}
