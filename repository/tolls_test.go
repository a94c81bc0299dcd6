package repository

import (
	"context"
	"errors"
	"testing"

	"p9e.in/flota/models"
)

func TestTollNameLocationUniqueness(t *testing.T) {
	f := newFixture()
	f.addToll(t, "Peaje Andes", "Km 45")

	// same pair up to case and spacing
	var ue *UniquenessError
	if _, err := f.tolls.Add(context.Background(), models.Toll{
		Name: " peaje  ANDES ", Location: "km 45", Category: "interstate", Route: "60", Price: 12.5,
	}); !errors.As(err, &ue) {
		t.Fatalf("case/spacing variant must be rejected, got %v", err)
	}

	// same name elsewhere is a different toll
	if _, err := f.tolls.Add(context.Background(), models.Toll{
		Name: "Peaje Andes", Location: "Km 120", Category: "interstate", Route: "60", Price: 9,
	}); err != nil {
		t.Fatalf("same name at another location should pass: %v", err)
	}
}

func TestTollUpdateUniquenessExcludesSelf(t *testing.T) {
	f := newFixture()
	a := f.addToll(t, "Peaje Andes", "Km 45")
	f.addToll(t, "Peaje Norte", "Km 120")

	// touching only the price never trips the pair check
	if err := f.tolls.Update(context.Background(), a.ID, models.TollPatch{Price: f64Ptr(13)}); err != nil {
		t.Fatalf("price update: %v", err)
	}
	// renaming onto the sibling's pair does
	var ue *UniquenessError
	err := f.tolls.Update(context.Background(), a.ID, models.TollPatch{
		Name: strPtr("peaje norte"), Location: strPtr("KM 120"),
	})
	if !errors.As(err, &ue) {
		t.Fatalf("expected uniqueness rejection, got %v", err)
	}
	// renaming keeps working when only one side moves and the pair stays free
	if err := f.tolls.Update(context.Background(), a.ID, models.TollPatch{Location: strPtr("Km 46")}); err != nil {
		t.Fatalf("location move: %v", err)
	}
}

func TestTollDeleteDeniedWhileRecorded(t *testing.T) {
	f := newFixture()
	v := f.addVehicle(t, "ABC123")
	tr := f.addTrip(t, v.ID)
	toll := f.addToll(t, "Peaje Andes", "Km 45")
	rec := f.addTollRecord(t, v.ID, tr.ID, toll.ID)

	var de *DependencyError
	if err := f.tolls.Delete(context.Background(), toll.ID); !errors.As(err, &de) {
		t.Fatalf("toll delete should be denied while a record references it, got %v", err)
	}
	if err := f.tollRecords.Delete(context.Background(), rec.ID); err != nil {
		t.Fatalf("record delete: %v", err)
	}
	if err := f.tolls.Delete(context.Background(), toll.ID); err != nil {
		t.Fatalf("toll delete after teardown: %v", err)
	}
}

func TestTollFreePassageAllowed(t *testing.T) {
	f := newFixture()
	if _, err := f.tolls.Add(context.Background(), models.Toll{
		Name: "Puente Libre", Location: "Km 3", Category: "urban", Route: "1", Price: 0,
	}); err != nil {
		t.Fatalf("zero-price toll should be accepted: %v", err)
	}
}
