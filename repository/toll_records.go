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

// TollRecords is the toll-passage repository. A record references a trip, a
// toll and a vehicle; the vehicle must be the one the trip was made with.
type TollRecords struct {
	actor   models.Actor
	table   store.Table[store.TollRecordRow]
	auditor *audit.Logger
	cache   collection[models.TollRecord]

	trips *Trips
	tolls *Tolls
}

// NewTollRecords builds the repository for one actor's session.
func NewTollRecords(actor models.Actor, table store.Table[store.TollRecordRow], auditor *audit.Logger) *TollRecords {
	return &TollRecords{actor: actor, table: table, auditor: auditor}
}

// AttachSiblings wires the collections consulted for referential checks.
func (r *TollRecords) AttachSiblings(trips *Trips, tolls *Tolls) {
	r.trips = trips
	r.tolls = tolls
}

// Subscribe registers a collection observer.
func (r *TollRecords) Subscribe(fn func([]models.TollRecord)) { r.cache.Subscribe(fn) }

// Load performs the bootstrap read.
func (r *TollRecords) Load(ctx context.Context) error {
	rows, err := r.table.Select(ctx, store.Filter{OwnerID: r.actor.ID})
	if err != nil {
		return err
	}
	records := mapper.TollRecordsFromRows(rows)
	sort.SliceStable(records, func(i, j int) bool { return records[i].CreatedAt.After(records[j].CreatedAt) })
	r.cache.Replace(records)
	if r.auditor.ShouldAuditRead(true) {
		r.auditor.Record(r.actor, audit.Entry{
			TableName:      "toll_records",
			Operation:      models.AuditRead,
			AdditionalInfo: models.JSONMap{"scope": "load_all", "count": float64(len(records))},
		})
	}
	return nil
}

// List returns the collection, newest first.
func (r *TollRecords) List() []models.TollRecord { return r.cache.List() }

// GetByID is a purely local lookup.
func (r *TollRecords) GetByID(id uuid.UUID) (models.TollRecord, bool) {
	rec, ok := r.cache.Find(func(rec models.TollRecord) bool { return rec.ID == id })
	if ok && r.auditor.ShouldAuditRead(false) {
		r.auditor.Record(r.actor, audit.Entry{
			TableName: "toll_records",
			Operation: models.AuditRead,
			RecordID:  id.String(),
		})
	}
	return rec, ok
}

func (r *TollRecords) checkReferences(tripID, tollID, vehicleID uuid.UUID) error {
	if r.trips == nil {
		return &ReferentialError{Entity: "toll record", Field: "tripId", Reason: "trip does not exist"}
	}
	tripVehicle, ok := r.trips.vehicleOf(tripID)
	if !ok {
		return &ReferentialError{Entity: "toll record", Field: "tripId", Reason: "trip does not exist"}
	}
	if tripVehicle != vehicleID {
		return &ReferentialError{Entity: "toll record", Field: "vehicleId", Reason: "does not match the trip's vehicle"}
	}
	if r.tolls == nil || !r.tolls.exists(tollID) {
		return &ReferentialError{Entity: "toll record", Field: "tollId", Reason: "toll does not exist"}
	}
	return nil
}

// Add validates, checks every reference and inserts remotely.
func (r *TollRecords) Add(ctx context.Context, rec models.TollRecord) (models.TollRecord, error) {
	if err := rec.Validate(); err != nil {
		return models.TollRecord{}, err
	}
	if err := r.checkReferences(rec.TripID, rec.TollID, rec.VehicleID); err != nil {
		return models.TollRecord{}, err
	}
	inserted, err := r.table.Insert(ctx, mapper.TollRecordToRow(r.actor.ID, rec))
	if err != nil {
		return models.TollRecord{}, err
	}
	created, err := mapper.TollRecordFromRow(inserted)
	if err != nil {
		return models.TollRecord{}, store.Translate("insert", "toll_records", err)
	}
	r.cache.Prepend(created)
	r.auditor.Record(r.actor, audit.Entry{
		TableName: "toll_records",
		Operation: models.AuditCreate,
		RecordID:  created.ID.String(),
		NewValues: tollRecordValues(created),
	})
	return created, nil
}

// Update patches one record, re-checking references when any of them moves.
func (r *TollRecords) Update(ctx context.Context, id uuid.UUID, p models.TollRecordPatch) error {
	current, ok := r.cache.Find(func(rec models.TollRecord) bool { return rec.ID == id })
	if !ok {
		return ErrNotFound
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if p.TripID != nil || p.TollID != nil || p.VehicleID != nil {
		tripID, tollID, vehicleID := current.TripID, current.TollID, current.VehicleID
		if p.TripID != nil {
			tripID = *p.TripID
		}
		if p.TollID != nil {
			tollID = *p.TollID
		}
		if p.VehicleID != nil {
			vehicleID = *p.VehicleID
		}
		if err := r.checkReferences(tripID, tollID, vehicleID); err != nil {
			return err
		}
	}
	wire := mapper.TollRecordPatchToWire(p)
	if len(wire) == 0 {
		return nil
	}
	if err := r.table.Update(ctx, store.Filter{OwnerID: r.actor.ID, ID: id}, wire); err != nil {
		return err
	}
	updated := applyTollRecordPatch(current, p)
	r.cache.Mutate(func(rec models.TollRecord) bool { return rec.ID == id }, updated)
	r.auditor.Record(r.actor, audit.Entry{
		TableName: "toll_records",
		Operation: models.AuditUpdate,
		RecordID:  id.String(),
		OldValues: tollRecordValues(current),
		NewValues: models.ScalarMap(wire),
	})
	return nil
}

// Delete removes one record. Nothing references toll records.
func (r *TollRecords) Delete(ctx context.Context, id uuid.UUID) error {
	current, ok := r.cache.Find(func(rec models.TollRecord) bool { return rec.ID == id })
	if !ok {
		return ErrNotFound
	}
	if err := r.table.Delete(ctx, store.Filter{OwnerID: r.actor.ID, ID: id}); err != nil {
		return err
	}
	r.cache.Remove(func(rec models.TollRecord) bool { return rec.ID == id })
	r.auditor.Record(r.actor, audit.Entry{
		TableName: "toll_records",
		Operation: models.AuditDelete,
		RecordID:  id.String(),
		OldValues: tollRecordValues(current),
	})
	return nil
}

// Reset empties the collection at sign-out.
func (r *TollRecords) Reset() { r.cache.Reset() }

// AnyForTrip reports whether any record references the trip.
func (r *TollRecords) AnyForTrip(tripID uuid.UUID) bool {
	return r.cache.Any(func(rec models.TollRecord) bool { return rec.TripID == tripID })
}

// AnyForToll reports whether any record references the toll.
func (r *TollRecords) AnyForToll(tollID uuid.UUID) bool {
	return r.cache.Any(func(rec models.TollRecord) bool { return rec.TollID == tollID })
}

func tollRecordValues(rec models.TollRecord) models.JSONMap {
	return models.ScalarMap(map[string]interface{}{
		"vehicle_id":     rec.VehicleID.String(),
		"trip_id":        rec.TripID.String(),
		"toll_id":        rec.TollID.String(),
		"date":           rec.Date.Format("2006-01-02"),
		"price":          rec.Price,
		"payment_method": rec.PaymentMethod,
	})
}

func applyTollRecordPatch(rec models.TollRecord, p models.TollRecordPatch) models.TollRecord {
	if p.VehicleID != nil {
		rec.VehicleID = *p.VehicleID
	}
	if p.TripID != nil {
		rec.TripID = *p.TripID
	}
	if p.TollID != nil {
		rec.TollID = *p.TollID
	}
	if p.Date != nil {
		rec.Date = *p.Date
	}
	if p.Price != nil {
		rec.Price = *p.Price
	}
	if p.PaymentMethod != nil {
		rec.PaymentMethod = *p.PaymentMethod
	}
	if p.Receipt != nil {
		rec.Receipt = *p.Receipt
	}
	if p.Notes != nil {
		rec.Notes = *p.Notes
	}
	return rec
}
