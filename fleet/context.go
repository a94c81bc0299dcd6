// Package fleet composes the five entity repositories behind one aggregation
// context per signed-in actor, handles the auth lifecycle (bootstrap load on
// sign-in, reset on sign-out) and derives the cross-entity views the
// reporting screens consume.
package fleet

import (
	"context"

	"gorm.io/gorm"

	"p9e.in/flota/audit"
	"p9e.in/flota/models"
	"p9e.in/flota/repository"
	"p9e.in/flota/store"
)

// Stores bundles the per-table handles so Postgres and in-memory wirings
// are interchangeable.
type Stores struct {
	Vehicles    store.Table[store.VehicleRow]
	Trips       store.Table[store.TripRow]
	Expenses    store.Table[store.ExpenseRow]
	Tolls       store.Table[store.TollRow]
	TollRecords store.Table[store.TollRecordRow]
	AuditLogs   store.Table[store.AuditLogRow]
}

// NewGormStores wires every table to the shared Postgres connection.
func NewGormStores(db *gorm.DB) Stores {
	return Stores{
		Vehicles:    store.NewGormTable[store.VehicleRow](db, "vehicles"),
		Trips:       store.NewGormTable[store.TripRow](db, "trips"),
		Expenses:    store.NewGormTable[store.ExpenseRow](db, "expenses"),
		Tolls:       store.NewGormTable[store.TollRow](db, "tolls"),
		TollRecords: store.NewGormTable[store.TollRecordRow](db, "toll_records"),
		AuditLogs:   store.NewGormTable[store.AuditLogRow](db, "audit_logs"),
	}
}

// NewMemoryStores builds the all-in-memory wiring used by tests.
func NewMemoryStores() Stores {
	return Stores{
		Vehicles:    store.NewMemoryTable[store.VehicleRow, *store.VehicleRow](),
		Trips:       store.NewMemoryTable[store.TripRow, *store.TripRow](),
		Expenses:    store.NewMemoryTable[store.ExpenseRow, *store.ExpenseRow](),
		Tolls:       store.NewMemoryTable[store.TollRow, *store.TollRow](),
		TollRecords: store.NewMemoryTable[store.TollRecordRow, *store.TollRecordRow](),
		AuditLogs:   store.NewMemoryTable[store.AuditLogRow, *store.AuditLogRow](),
	}
}

// Context is the single reactive surface over one actor's data. Created at
// sign-in, discarded at sign-out.
type Context struct {
	Actor       models.Actor
	Vehicles    *repository.Vehicles
	Trips       *repository.Trips
	Expenses    *repository.Expenses
	Tolls       *repository.Tolls
	TollRecords *repository.TollRecords

	auditor *audit.Logger
	session *audit.Session
	views   *expenseViews
}

// NewContext builds the repositories and wires their sibling references.
func NewContext(actor models.Actor, stores Stores, auditor *audit.Logger, session *audit.Session) *Context {
	c := &Context{
		Actor:       actor,
		Vehicles:    repository.NewVehicles(actor, stores.Vehicles, auditor),
		Trips:       repository.NewTrips(actor, stores.Trips, auditor),
		Expenses:    repository.NewExpenses(actor, stores.Expenses, auditor),
		Tolls:       repository.NewTolls(actor, stores.Tolls, auditor),
		TollRecords: repository.NewTollRecords(actor, stores.TollRecords, auditor),
		auditor:     auditor,
		session:     session,
	}
	c.Vehicles.AttachTrips(c.Trips)
	c.Trips.AttachSiblings(c.Vehicles, c.Expenses, c.TollRecords)
	c.Expenses.AttachTrips(c.Trips)
	c.Tolls.AttachTollRecords(c.TollRecords)
	c.TollRecords.AttachSiblings(c.Trips, c.Tolls)
	c.views = newExpenseViews(c.Expenses)
	return c
}

// Bootstrap runs the full reload that follows a sign-in.
func (c *Context) Bootstrap(ctx context.Context) error {
	if err := c.Vehicles.Load(ctx); err != nil {
		return err
	}
	if err := c.Trips.Load(ctx); err != nil {
		return err
	}
	if err := c.Tolls.Load(ctx); err != nil {
		return err
	}
	if err := c.Expenses.Load(ctx); err != nil {
		return err
	}
	return c.TollRecords.Load(ctx)
}

// Reset empties every collection and closes out the audit session. Called
// when the actor is no longer authenticated.
func (c *Context) Reset() {
	c.Vehicles.Reset()
	c.Trips.Reset()
	c.Expenses.Reset()
	c.Tolls.Reset()
	c.TollRecords.Reset()
	if c.session != nil {
		c.session.Reset()
	}
}

// Auditor exposes the logger for the audit trail listing.
func (c *Context) Auditor() *audit.Logger { return c.auditor }
