package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"p9e.in/flota/audit"
	"p9e.in/flota/models"
	"p9e.in/flota/store"
)

// fixture wires the full repository graph over in-memory tables, mirroring
// what the aggregation context does in production.
type fixture struct {
	actor models.Actor

	vehicleTable    *store.MemoryTable[store.VehicleRow, *store.VehicleRow]
	tripTable       *store.MemoryTable[store.TripRow, *store.TripRow]
	expenseTable    *store.MemoryTable[store.ExpenseRow, *store.ExpenseRow]
	tollTable       *store.MemoryTable[store.TollRow, *store.TollRow]
	tollRecordTable *store.MemoryTable[store.TollRecordRow, *store.TollRecordRow]
	auditTable      *store.MemoryTable[store.AuditLogRow, *store.AuditLogRow]

	auditor     *audit.Logger
	vehicles    *Vehicles
	trips       *Trips
	expenses    *Expenses
	tolls       *Tolls
	tollRecords *TollRecords
}

func newFixture() *fixture {
	f := &fixture{
		actor:           models.Actor{ID: uuid.New(), Email: "driver@example.com"},
		vehicleTable:    store.NewMemoryTable[store.VehicleRow, *store.VehicleRow](),
		tripTable:       store.NewMemoryTable[store.TripRow, *store.TripRow](),
		expenseTable:    store.NewMemoryTable[store.ExpenseRow, *store.ExpenseRow](),
		tollTable:       store.NewMemoryTable[store.TollRow, *store.TollRow](),
		tollRecordTable: store.NewMemoryTable[store.TollRecordRow, *store.TollRecordRow](),
		auditTable:      store.NewMemoryTable[store.AuditLogRow, *store.AuditLogRow](),
	}
	f.auditor = audit.New(nil, f.auditTable, audit.NewSession(), audit.WithUserAgent("repository-test"))
	f.vehicles = NewVehicles(f.actor, f.vehicleTable, f.auditor)
	f.trips = NewTrips(f.actor, f.tripTable, f.auditor)
	f.expenses = NewExpenses(f.actor, f.expenseTable, f.auditor)
	f.tolls = NewTolls(f.actor, f.tollTable, f.auditor)
	f.tollRecords = NewTollRecords(f.actor, f.tollRecordTable, f.auditor)

	f.vehicles.AttachTrips(f.trips)
	f.trips.AttachSiblings(f.vehicles, f.expenses, f.tollRecords)
	f.expenses.AttachTrips(f.trips)
	f.tolls.AttachTollRecords(f.tollRecords)
	f.tollRecords.AttachSiblings(f.trips, f.tolls)
	return f
}

func (f *fixture) addVehicle(t *testing.T, plate string) models.Vehicle {
	t.Helper()
	v, err := f.vehicles.Add(context.Background(), models.Vehicle{
		Plate: plate, Brand: "Ford", Model: "F150", Year: 2020, Capacity: 5,
	})
	if err != nil {
		t.Fatalf("addVehicle(%s): %v", plate, err)
	}
	return v
}

func (f *fixture) addTrip(t *testing.T, vehicleID uuid.UUID) models.Trip {
	t.Helper()
	tr, err := f.trips.Add(context.Background(), models.Trip{
		VehicleID:   vehicleID,
		Origin:      "Bogotá",
		Destination: "Medellín",
		StartDate:   time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC),
		Distance:    415,
	})
	if err != nil {
		t.Fatalf("addTrip: %v", err)
	}
	return tr
}

func (f *fixture) addExpense(t *testing.T, tripID, vehicleID uuid.UUID) models.Expense {
	t.Helper()
	e, err := f.expenses.Add(context.Background(), models.Expense{
		TripID:    tripID,
		VehicleID: vehicleID,
		Category:  models.CategoryFuel,
		Amount:    150000,
		Date:      time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("addExpense: %v", err)
	}
	return e
}

func (f *fixture) addToll(t *testing.T, name, location string) models.Toll {
	t.Helper()
	tl, err := f.tolls.Add(context.Background(), models.Toll{
		Name: name, Location: location, Category: "interstate", Route: "60", Price: 12.5,
	})
	if err != nil {
		t.Fatalf("addToll(%s): %v", name, err)
	}
	return tl
}

func (f *fixture) addTollRecord(t *testing.T, vehicleID, tripID, tollID uuid.UUID) models.TollRecord {
	t.Helper()
	rec, err := f.tollRecords.Add(context.Background(), models.TollRecord{
		VehicleID:     vehicleID,
		TripID:        tripID,
		TollID:        tollID,
		Date:          time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC),
		Price:         12.5,
		PaymentMethod: "cash",
	})
	if err != nil {
		t.Fatalf("addTollRecord: %v", err)
	}
	return rec
}

// auditCount flushes pending writes and returns the trail length.
func (f *fixture) auditCount() int {
	f.auditor.Flush()
	return f.auditTable.Len()
}

// The documented lifecycle end to end: register a vehicle, run a trip, log
// a fuel expense, watch the deletion denial, then tear down in dependency
// order.
func TestFleetLifecycle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	vehicle := f.addVehicle(t, "ABC123")
	trip := f.addTrip(t, vehicle.ID)
	expense := f.addExpense(t, trip.ID, vehicle.ID)

	// vehicle is pinned by the trip
	var de *DependencyError
	if err := f.vehicles.Delete(ctx, vehicle.ID); !errors.As(err, &de) {
		t.Fatalf("vehicle delete should be denied while a trip references it, got %v", err)
	}
	// trip is pinned by the expense
	if err := f.trips.Delete(ctx, trip.ID); !errors.As(err, &de) {
		t.Fatalf("trip delete should be denied while an expense references it, got %v", err)
	}

	// teardown in dependency order succeeds
	if err := f.expenses.Delete(ctx, expense.ID); err != nil {
		t.Fatalf("expense delete: %v", err)
	}
	if err := f.trips.Delete(ctx, trip.ID); err != nil {
		t.Fatalf("trip delete: %v", err)
	}
	if err := f.vehicles.Delete(ctx, vehicle.ID); err != nil {
		t.Fatalf("vehicle delete: %v", err)
	}

	if len(f.vehicles.List())+len(f.trips.List())+len(f.expenses.List()) != 0 {
		t.Error("collections should be empty after teardown")
	}
	if f.vehicleTable.Len()+f.tripTable.Len()+f.expenseTable.Len() != 0 {
		t.Error("tables should be empty after teardown")
	}

	// 3 creates + 3 deletes; the denied deletions record nothing
	if got := f.auditCount(); got != 6 {
		t.Errorf("audit trail has %d entries, want 6", got)
	}
}

// A total audit outage must never fail or block business operations.
func TestMutationsSucceedWhenAuditIsDown(t *testing.T) {
	f := newFixture()
	f.auditTable.FailWith = errors.New("audit store down")

	vehicle := f.addVehicle(t, "ABC123")
	trip := f.addTrip(t, vehicle.ID)
	f.addExpense(t, trip.ID, vehicle.ID)

	if err := f.vehicles.Update(context.Background(), vehicle.ID, models.VehiclePatch{Color: strPtr("red")}); err != nil {
		t.Fatalf("update with audit down: %v", err)
	}
	f.auditor.Flush()
	if len(f.vehicles.List()) != 1 || len(f.trips.List()) != 1 || len(f.expenses.List()) != 1 {
		t.Error("collections must reflect the successful mutations")
	}
}

func TestRemoteFailureLeavesCacheUntouched(t *testing.T) {
	f := newFixture()
	vehicle := f.addVehicle(t, "ABC123")

	f.vehicleTable.FailWith = errors.New("connection reset")

	if _, err := f.vehicles.Add(context.Background(), models.Vehicle{
		Plate: "XYZ789", Brand: "Mazda", Model: "CX5", Year: 2022,
	}); err == nil {
		t.Fatal("insert should surface the remote failure")
	}
	if err := f.vehicles.Update(context.Background(), vehicle.ID, models.VehiclePatch{Color: strPtr("red")}); err == nil {
		t.Fatal("update should surface the remote failure")
	}
	if err := f.vehicles.Delete(context.Background(), vehicle.ID); err == nil {
		t.Fatal("delete should surface the remote failure")
	}

	list := f.vehicles.List()
	if len(list) != 1 || list[0].Plate != "ABC123" || list[0].Color != "" {
		t.Errorf("cache changed despite remote failure: %+v", list)
	}
}

func TestLoadScopesToOwner(t *testing.T) {
	f := newFixture()
	f.addVehicle(t, "ABC123")

	// plant a row belonging to somebody else directly in the table
	foreign := store.VehicleRow{Plate: "ZZZ999", Brand: "Kia", Model: "Rio", Year: "2021"}
	foreign.OwnerID = uuid.NewString()
	if _, err := f.vehicleTable.Insert(context.Background(), foreign); err != nil {
		t.Fatalf("seed foreign row: %v", err)
	}

	if err := f.vehicles.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	list := f.vehicles.List()
	if len(list) != 1 || list[0].Plate != "ABC123" {
		t.Fatalf("load leaked foreign rows: %+v", list)
	}
}

func TestLoadRecordsBulkRead(t *testing.T) {
	f := newFixture()
	f.addVehicle(t, "ABC123")
	before := f.auditCount()

	if err := f.vehicles.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := f.auditCount(); got != before+1 {
		t.Fatalf("bulk read should add one audit entry, got %d -> %d", before, got)
	}
	rows := f.auditTable.All()
	last := rows[len(rows)-1]
	if last.Operation != string(models.AuditRead) || last.TableNm != "vehicles" {
		t.Errorf("wrong bulk read entry: %+v", last)
	}
}

func TestPerItemReadsNotAuditedByDefault(t *testing.T) {
	f := newFixture()
	v := f.addVehicle(t, "ABC123")
	before := f.auditCount()

	if _, ok := f.vehicles.GetByID(v.ID); !ok {
		t.Fatal("lookup should hit")
	}
	if got := f.auditCount(); got != before {
		t.Errorf("per-item read audited under bulk scope: %d -> %d", before, got)
	}
}

func TestUserMessageTaxonomy(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"not found", ErrNotFound, "The record was not found."},
		{"validation", &models.ValidationError{Errors: []models.FieldError{{Field: "plate", Message: "is required"}}},
			"Some fields are missing or invalid. Please review the form."},
		{"referential", &ReferentialError{Entity: "trip", Field: "vehicleId", Reason: "vehicle does not exist"},
			"A referenced record does not exist or does not match."},
		{"uniqueness", &UniquenessError{Entity: "vehicle", Field: "plate", Value: "ABC123"},
			"A record with the same identifying data already exists."},
		{"dependency", &DependencyError{Entity: "vehicle", Dependent: "trips"},
			"This record is in use and cannot be deleted."},
		{"remote duplicate", &store.RemoteError{Op: "insert", Table: "vehicles", Code: store.CodeDuplicateKey},
			"A record with the same identifying data already exists."},
		{"remote permission", &store.RemoteError{Op: "select", Table: "vehicles", Code: store.CodePermissionDenied},
			"You do not have permission to perform this operation."},
		{"unknown", errors.New("boom"), "The operation could not be completed. Please try again."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func strPtr(s string) *string       { return &s }
func intPtr(n int) *int             { return &n }
func f64Ptr(f float64) *float64     { return &f }
func idPtr(id uuid.UUID) *uuid.UUID { return &id }
