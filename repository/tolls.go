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

// Tolls is the toll repository. (Name, location) is unique per owner,
// compared case- and whitespace-insensitively.
type Tolls struct {
	actor   models.Actor
	table   store.Table[store.TollRow]
	auditor *audit.Logger
	cache   collection[models.Toll]

	tollRecords *TollRecords
}

// NewTolls builds the repository for one actor's session.
func NewTolls(actor models.Actor, table store.Table[store.TollRow], auditor *audit.Logger) *Tolls {
	return &Tolls{actor: actor, table: table, auditor: auditor}
}

// AttachTollRecords wires the sibling used for the deletion dependency check.
func (r *Tolls) AttachTollRecords(tr *TollRecords) { r.tollRecords = tr }

// Subscribe registers a collection observer.
func (r *Tolls) Subscribe(fn func([]models.Toll)) { r.cache.Subscribe(fn) }

// Load performs the bootstrap read.
func (r *Tolls) Load(ctx context.Context) error {
	rows, err := r.table.Select(ctx, store.Filter{OwnerID: r.actor.ID})
	if err != nil {
		return err
	}
	tolls := mapper.TollsFromRows(rows)
	sort.SliceStable(tolls, func(i, j int) bool { return tolls[i].CreatedAt.After(tolls[j].CreatedAt) })
	r.cache.Replace(tolls)
	if r.auditor.ShouldAuditRead(true) {
		r.auditor.Record(r.actor, audit.Entry{
			TableName:      "tolls",
			Operation:      models.AuditRead,
			AdditionalInfo: models.JSONMap{"scope": "load_all", "count": float64(len(tolls))},
		})
	}
	return nil
}

// List returns the collection, newest first.
func (r *Tolls) List() []models.Toll { return r.cache.List() }

// GetByID is a purely local lookup.
func (r *Tolls) GetByID(id uuid.UUID) (models.Toll, bool) {
	t, ok := r.cache.Find(func(t models.Toll) bool { return t.ID == id })
	if ok && r.auditor.ShouldAuditRead(false) {
		r.auditor.Record(r.actor, audit.Entry{
			TableName: "tolls",
			Operation: models.AuditRead,
			RecordID:  id.String(),
		})
	}
	return t, ok
}

// Add validates and enforces the (name, location) uniqueness against the
// cache before the remote insert.
func (r *Tolls) Add(ctx context.Context, t models.Toll) (models.Toll, error) {
	if err := t.Validate(); err != nil {
		return models.Toll{}, err
	}
	key := models.TollKey(t.Name, t.Location)
	if r.cache.Any(func(x models.Toll) bool { return models.TollKey(x.Name, x.Location) == key }) {
		return models.Toll{}, &UniquenessError{Entity: "toll", Field: "name+location", Value: t.Name + " / " + t.Location}
	}
	inserted, err := r.table.Insert(ctx, mapper.TollToRow(r.actor.ID, t))
	if err != nil {
		return models.Toll{}, err
	}
	created, err := mapper.TollFromRow(inserted)
	if err != nil {
		return models.Toll{}, store.Translate("insert", "tolls", err)
	}
	r.cache.Prepend(created)
	r.auditor.Record(r.actor, audit.Entry{
		TableName: "tolls",
		Operation: models.AuditCreate,
		RecordID:  created.ID.String(),
		NewValues: tollValues(created),
	})
	return created, nil
}

// Update patches one toll; if name or location changes, the resulting pair
// is re-checked for uniqueness (excluding the toll itself).
func (r *Tolls) Update(ctx context.Context, id uuid.UUID, p models.TollPatch) error {
	current, ok := r.cache.Find(func(t models.Toll) bool { return t.ID == id })
	if !ok {
		return ErrNotFound
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if p.Name != nil || p.Location != nil {
		name, location := current.Name, current.Location
		if p.Name != nil {
			name = *p.Name
		}
		if p.Location != nil {
			location = *p.Location
		}
		key := models.TollKey(name, location)
		if r.cache.Any(func(x models.Toll) bool {
			return x.ID != id && models.TollKey(x.Name, x.Location) == key
		}) {
			return &UniquenessError{Entity: "toll", Field: "name+location", Value: name + " / " + location}
		}
	}
	wire := mapper.TollPatchToWire(p)
	if len(wire) == 0 {
		return nil
	}
	if err := r.table.Update(ctx, store.Filter{OwnerID: r.actor.ID, ID: id}, wire); err != nil {
		return err
	}
	updated := applyTollPatch(current, p)
	r.cache.Mutate(func(t models.Toll) bool { return t.ID == id }, updated)
	r.auditor.Record(r.actor, audit.Entry{
		TableName: "tolls",
		Operation: models.AuditUpdate,
		RecordID:  id.String(),
		OldValues: tollValues(current),
		NewValues: models.ScalarMap(wire),
	})
	return nil
}

// Delete removes one toll unless a toll record still references it.
func (r *Tolls) Delete(ctx context.Context, id uuid.UUID) error {
	current, ok := r.cache.Find(func(t models.Toll) bool { return t.ID == id })
	if !ok {
		return ErrNotFound
	}
	if r.tollRecords != nil && r.tollRecords.AnyForToll(id) {
		return &DependencyError{Entity: "toll", Dependent: "toll records"}
	}
	if err := r.table.Delete(ctx, store.Filter{OwnerID: r.actor.ID, ID: id}); err != nil {
		return err
	}
	r.cache.Remove(func(t models.Toll) bool { return t.ID == id })
	r.auditor.Record(r.actor, audit.Entry{
		TableName: "tolls",
		Operation: models.AuditDelete,
		RecordID:  id.String(),
		OldValues: tollValues(current),
	})
	return nil
}

// Reset empties the collection at sign-out.
func (r *Tolls) Reset() { r.cache.Reset() }

func (r *Tolls) exists(id uuid.UUID) bool {
	return r.cache.Any(func(t models.Toll) bool { return t.ID == id })
}

func tollValues(t models.Toll) models.JSONMap {
	return models.ScalarMap(map[string]interface{}{
		"name":     t.Name,
		"location": t.Location,
		"category": t.Category,
		"route":    t.Route,
		"price":    t.Price,
	})
}

func applyTollPatch(t models.Toll, p models.TollPatch) models.Toll {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Location != nil {
		t.Location = *p.Location
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Route != nil {
		t.Route = *p.Route
	}
	if p.Price != nil {
		t.Price = *p.Price
	}
	return t
}
