package repository

import (
	"context"
	"errors"
	"testing"

	"p9e.in/flota/models"
)

func TestVehicleAddAssignsIdentityAndPrepends(t *testing.T) {
	f := newFixture()
	first := f.addVehicle(t, "ABC123")
	second := f.addVehicle(t, "XYZ789")

	if first.ID == second.ID {
		t.Fatal("each insert must get its own id")
	}
	if first.CreatedAt.IsZero() || first.OwnerID != f.actor.ID {
		t.Errorf("store-assigned fields missing: %+v", first)
	}
	list := f.vehicles.List()
	if len(list) != 2 || list[0].ID != second.ID {
		t.Errorf("newest vehicle should lead the list: %+v", list)
	}
}

func TestVehicleAddNormalizesPlate(t *testing.T) {
	f := newFixture()
	v := f.addVehicle(t, " abc123 ")
	if v.Plate != "ABC123" {
		t.Errorf("plate = %q, want normalized ABC123", v.Plate)
	}
}

func TestVehicleAddRejectsInvalidWithoutSideEffects(t *testing.T) {
	f := newFixture()
	_, err := f.vehicles.Add(context.Background(), models.Vehicle{Plate: "ABC123"})
	var ve *models.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(f.vehicles.List()) != 0 || f.vehicleTable.Len() != 0 {
		t.Error("failed add must leave cache and table untouched")
	}
	if got := f.auditCount(); got != 0 {
		t.Errorf("failed add must not be audited, trail has %d entries", got)
	}
}

func TestVehiclePlateUniquePerOwner(t *testing.T) {
	f := newFixture()
	f.addVehicle(t, "ABC123")

	var ue *UniquenessError
	if _, err := f.vehicles.Add(context.Background(), models.Vehicle{
		Plate: "abc123", Brand: "Mazda", Model: "CX5", Year: 2022,
	}); !errors.As(err, &ue) {
		t.Fatalf("normalized duplicate plate must be rejected, got %v", err)
	}
	if len(f.vehicles.List()) != 1 {
		t.Error("rejected duplicate must not enter the collection")
	}
}

func TestVehicleUpdateAppliesOnlySuppliedFields(t *testing.T) {
	f := newFixture()
	v := f.addVehicle(t, "ABC123")

	if err := f.vehicles.Update(context.Background(), v.ID, models.VehiclePatch{
		Color:    strPtr("red"),
		Capacity: intPtr(7),
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := f.vehicles.GetByID(v.ID)
	if got.Color != "red" || got.Capacity != 7 {
		t.Errorf("patched fields not applied: %+v", got)
	}
	if got.Plate != "ABC123" || got.Brand != "Ford" || got.Year != 2020 {
		t.Errorf("unsupplied fields must keep their values: %+v", got)
	}
}

func TestVehicleUpdatePlateUniquenessExcludesSelf(t *testing.T) {
	f := newFixture()
	a := f.addVehicle(t, "ABC123")
	f.addVehicle(t, "XYZ789")

	// re-asserting its own plate is fine
	if err := f.vehicles.Update(context.Background(), a.ID, models.VehiclePatch{Plate: strPtr("abc123")}); err != nil {
		t.Fatalf("own plate re-assert: %v", err)
	}
	// stealing the sibling's plate is not
	var ue *UniquenessError
	if err := f.vehicles.Update(context.Background(), a.ID, models.VehiclePatch{Plate: strPtr("XYZ789")}); !errors.As(err, &ue) {
		t.Fatalf("expected uniqueness rejection, got %v", err)
	}
}

func TestVehicleUpdateUnknownID(t *testing.T) {
	f := newFixture()
	f.addVehicle(t, "ABC123")
	err := f.vehicles.Update(context.Background(), f.actor.ID, models.VehiclePatch{Color: strPtr("red")})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestVehicleEmptyPatchIsANoOp(t *testing.T) {
	f := newFixture()
	v := f.addVehicle(t, "ABC123")
	before := f.auditCount()

	if err := f.vehicles.Update(context.Background(), v.ID, models.VehiclePatch{}); err != nil {
		t.Fatalf("empty patch: %v", err)
	}
	if got := f.auditCount(); got != before {
		t.Errorf("no-op patch must not be audited: %d -> %d", before, got)
	}
}

func TestVehicleUpdateAuditCarriesOldAndNew(t *testing.T) {
	f := newFixture()
	v := f.addVehicle(t, "ABC123")

	if err := f.vehicles.Update(context.Background(), v.ID, models.VehiclePatch{Color: strPtr("red")}); err != nil {
		t.Fatalf("update: %v", err)
	}
	f.auditor.Flush()
	rows := f.auditTable.All()
	last := rows[len(rows)-1]
	if last.Operation != string(models.AuditUpdate) || last.RecordID != v.ID.String() {
		t.Fatalf("wrong audit entry: %+v", last)
	}
	if len(last.OldValues) == 0 || len(last.NewValues) == 0 {
		t.Errorf("update audit must carry old and new values: %+v", last)
	}
}

func TestVehicleDeleteRemovesAndAuditsPreImage(t *testing.T) {
	f := newFixture()
	v := f.addVehicle(t, "ABC123")

	if err := f.vehicles.Delete(context.Background(), v.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := f.vehicles.GetByID(v.ID); ok {
		t.Error("deleted vehicle still in collection")
	}
	f.auditor.Flush()
	rows := f.auditTable.All()
	last := rows[len(rows)-1]
	if last.Operation != string(models.AuditDelete) || len(last.OldValues) == 0 {
		t.Errorf("delete audit must carry the pre-image: %+v", last)
	}
}

func TestVehicleComplianceDocumentsSurviveStorage(t *testing.T) {
	f := newFixture()
	v, err := f.vehicles.Add(context.Background(), models.Vehicle{
		Plate: "ABC123", Brand: "Ford", Model: "F150", Year: 2020,
		Compliance: []models.ComplianceDocument{{Reference: "SOAT-991", Issuer: "Sura"}},
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(v.Compliance) != 1 || v.Compliance[0].Reference != "SOAT-991" {
		t.Errorf("compliance lost through the store: %+v", v.Compliance)
	}

	// and through a reload
	if err := f.vehicles.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	got, _ := f.vehicles.GetByID(v.ID)
	if len(got.Compliance) != 1 || got.Compliance[0].Issuer != "Sura" {
		t.Errorf("compliance lost through reload: %+v", got.Compliance)
	}
}

func TestVehicleSubscribeNotifiesOnMutation(t *testing.T) {
	f := newFixture()
	var snapshots [][]models.Vehicle
	f.vehicles.Subscribe(func(vs []models.Vehicle) { snapshots = append(snapshots, vs) })

	f.addVehicle(t, "ABC123")
	if len(snapshots) != 1 || len(snapshots[0]) != 1 {
		t.Fatalf("expected one notification with one vehicle, got %v", snapshots)
	}
	f.addVehicle(t, "XYZ789")
	if len(snapshots) != 2 || len(snapshots[1]) != 2 {
		t.Fatalf("expected second notification with two vehicles, got %d", len(snapshots))
	}
}
