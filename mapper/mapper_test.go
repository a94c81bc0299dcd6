package mapper

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"p9e.in/flota/models"
	"p9e.in/flota/store"
)

func TestVehicleRoundTrip(t *testing.T) {
	owner := uuid.New()
	issued := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	v := models.Vehicle{
		Plate:    " abc123 ",
		Brand:    "Ford",
		Model:    "F150",
		Year:     2020,
		Color:    "white",
		FuelType: "diesel",
		Capacity: 5,
		Compliance: []models.ComplianceDocument{
			{Reference: "SOAT-991", Issuer: "Sura", IssuedAt: &issued},
		},
	}

	row := VehicleToRow(owner, v)
	if row.ID != "" || row.CreatedAt != "" {
		t.Fatalf("insert rows must leave id/timestamps for the store, got id=%q created=%q", row.ID, row.CreatedAt)
	}
	if row.Plate != "ABC123" {
		t.Errorf("plate should be normalized on the way out, got %q", row.Plate)
	}
	if row.Year != "2020" || row.Capacity != "5" {
		t.Errorf("numeric columns ride as text, got year=%q capacity=%q", row.Year, row.Capacity)
	}

	row.ID = uuid.NewString()
	row.CreatedAt = store.Now()
	row.UpdatedAt = row.CreatedAt
	got, err := VehicleFromRow(row)
	if err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	if got.Plate != "ABC123" || got.Year != 2020 || got.Capacity != 5 {
		t.Errorf("round trip mangled fields: %+v", got)
	}
	if len(got.Compliance) != 1 || got.Compliance[0].Reference != "SOAT-991" {
		t.Errorf("compliance lost in transit: %+v", got.Compliance)
	}
	if got.Compliance[0].IssuedAt == nil || !got.Compliance[0].IssuedAt.Equal(issued) {
		t.Errorf("compliance issue date lost: %+v", got.Compliance[0])
	}
}

func TestVehiclesFromRowsDropsMalformed(t *testing.T) {
	owner := uuid.NewString()
	good := store.VehicleRow{Plate: "ABC123", Brand: "Ford", Model: "F150", Year: "2020"}
	good.ID = uuid.NewString()
	good.OwnerID = owner
	bad := store.VehicleRow{Plate: "XYZ789"}
	bad.ID = "not-a-uuid"
	bad.OwnerID = owner

	out := VehiclesFromRows([]store.VehicleRow{good, bad})
	if len(out) != 1 {
		t.Fatalf("expected malformed row dropped, got %d rows", len(out))
	}
	if out[0].Plate != "ABC123" {
		t.Errorf("wrong survivor: %+v", out[0])
	}
}

func TestVehicleFromRowToleratesBadScalars(t *testing.T) {
	row := store.VehicleRow{Plate: "ABC123", Year: "twenty-twenty", Capacity: ""}
	row.ID = uuid.NewString()
	row.OwnerID = uuid.NewString()
	row.CreatedAt = "yesterday"
	got, err := VehicleFromRow(row)
	if err != nil {
		t.Fatalf("bad non-monetary scalars must not drop the row: %v", err)
	}
	if got.Year != 0 || got.Capacity != 0 {
		t.Errorf("unparseable numbers default to zero, got year=%d capacity=%d", got.Year, got.Capacity)
	}
	if !got.CreatedAt.IsZero() {
		t.Errorf("unparseable timestamp defaults to zero time, got %v", got.CreatedAt)
	}
}

func TestExpenseFromRowRejectsBadAmount(t *testing.T) {
	row := store.ExpenseRow{
		TripID:    uuid.NewString(),
		VehicleID: uuid.NewString(),
		Category:  "fuel",
		Amount:    "a lot",
		Date:      store.Now(),
	}
	row.ID = uuid.NewString()
	row.OwnerID = uuid.NewString()
	if _, err := ExpenseFromRow(row); err == nil {
		t.Fatal("unparseable amount must reject the row, not zero it")
	}

	row.Amount = "150000.5"
	e, err := ExpenseFromRow(row)
	if err != nil {
		t.Fatalf("valid amount rejected: %v", err)
	}
	if e.Amount != 150000.5 {
		t.Errorf("amount = %v, want 150000.5", e.Amount)
	}
}

func TestTripRoundTripOptionalEnd(t *testing.T) {
	owner := uuid.New()
	start := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	open := models.Trip{VehicleID: uuid.New(), Origin: "Bogotá", Destination: "Medellín", StartDate: start, Distance: 415}

	row := TripToRow(owner, open)
	if row.EndDate != "" {
		t.Errorf("open trip must serialize an empty end date, got %q", row.EndDate)
	}
	row.ID = uuid.NewString()
	got, err := TripFromRow(row)
	if err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	if got.EndDate != nil {
		t.Errorf("empty end date must come back nil, got %v", got.EndDate)
	}
	if !got.StartDate.Equal(start) {
		t.Errorf("start date = %v, want %v", got.StartDate, start)
	}

	end := start.Add(6 * time.Hour)
	open.EndDate = &end
	row = TripToRow(owner, open)
	row.ID = uuid.NewString()
	got, err = TripFromRow(row)
	if err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	if got.EndDate == nil || !got.EndDate.Equal(end) {
		t.Errorf("end date lost: %v", got.EndDate)
	}
}

func TestParseTimeAcceptsDateOnly(t *testing.T) {
	got := parseTime("2026-03-10")
	want := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("parseTime(date-only) = %v, want %v", got, want)
	}
}

func TestPatchToWireOmitsUnsupplied(t *testing.T) {
	if got := VehiclePatchToWire(models.VehiclePatch{}); len(got) != 0 {
		t.Fatalf("empty patch must produce an empty wire map, got %v", got)
	}

	color := "red"
	year := 2021
	wire := VehiclePatchToWire(models.VehiclePatch{Color: &color, Year: &year})
	if len(wire) != 2 {
		t.Fatalf("expected exactly the supplied keys, got %v", wire)
	}
	if wire["color"] != "red" || wire["year"] != "2021" {
		t.Errorf("wrong wire values: %v", wire)
	}
	if _, present := wire["plate"]; present {
		t.Error("unsupplied plate must stay off the wire")
	}

	amount := 99.9
	ew := ExpensePatchToWire(models.ExpensePatch{Amount: &amount})
	if ew["amount"] != "99.9" {
		t.Errorf("amount wire encoding = %v", ew["amount"])
	}
}

func TestTollRecordRoundTrip(t *testing.T) {
	owner := uuid.New()
	rec := models.TollRecord{
		VehicleID:     uuid.New(),
		TripID:        uuid.New(),
		TollID:        uuid.New(),
		Date:          time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC),
		Price:         12.5,
		PaymentMethod: "tag",
		Receipt:       "R-100",
	}
	row := TollRecordToRow(owner, rec)
	row.ID = uuid.NewString()
	got, err := TollRecordFromRow(row)
	if err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	if got.Price != 12.5 || got.PaymentMethod != "tag" || got.TollID != rec.TollID {
		t.Errorf("round trip mangled record: %+v", got)
	}
}

func TestAuditLogRoundTrip(t *testing.T) {
	entry := models.AuditLog{
		UserID:    uuid.New(),
		TableName: "vehicles",
		Operation: models.AuditUpdate,
		RecordID:  uuid.NewString(),
		OldValues: models.JSONMap{"color": "white"},
		NewValues: models.JSONMap{"color": "red"},
		SessionID: uuid.NewString(),
		UserAgent: "test-agent",
	}
	row := AuditLogToRow(entry)
	if row.OwnerID != entry.UserID.String() {
		t.Fatalf("audit rows are owner-scoped by user, got owner %q", row.OwnerID)
	}
	row.ID = uuid.NewString()
	row.CreatedAt = store.Now()
	got, err := AuditLogFromRow(row)
	if err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	if got.Operation != models.AuditUpdate || got.TableName != "vehicles" {
		t.Errorf("round trip mangled entry: %+v", got)
	}
	if got.OldValues["color"] != "white" || got.NewValues["color"] != "red" {
		t.Errorf("value maps lost: old=%v new=%v", got.OldValues, got.NewValues)
	}
}
