package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"p9e.in/flota/models"
)

func TestTripAddRequiresExistingVehicle(t *testing.T) {
	f := newFixture()
	_, err := f.trips.Add(context.Background(), models.Trip{
		VehicleID:   uuid.New(),
		Origin:      "Bogotá",
		Destination: "Medellín",
		StartDate:   time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC),
		Distance:    415,
	})
	var re *ReferentialError
	if !errors.As(err, &re) {
		t.Fatalf("expected referential rejection, got %v", err)
	}
	if re.Field != "vehicleId" {
		t.Errorf("rejection should name vehicleId, got %q", re.Field)
	}
	if f.tripTable.Len() != 0 {
		t.Error("rejected trip must not reach the store")
	}
}

func TestTripAddAcceptsOwnVehicle(t *testing.T) {
	f := newFixture()
	v := f.addVehicle(t, "ABC123")
	tr := f.addTrip(t, v.ID)
	if tr.VehicleID != v.ID || tr.ID == uuid.Nil {
		t.Errorf("trip not linked to vehicle: %+v", tr)
	}
}

func TestTripUpdateRechecksMovedVehicle(t *testing.T) {
	f := newFixture()
	v := f.addVehicle(t, "ABC123")
	tr := f.addTrip(t, v.ID)

	var re *ReferentialError
	err := f.trips.Update(context.Background(), tr.ID, models.TripPatch{VehicleID: idPtr(uuid.New())})
	if !errors.As(err, &re) {
		t.Fatalf("moving a trip to a ghost vehicle must fail, got %v", err)
	}

	other := f.addVehicle(t, "XYZ789")
	if err := f.trips.Update(context.Background(), tr.ID, models.TripPatch{VehicleID: &other.ID}); err != nil {
		t.Fatalf("moving to an existing vehicle: %v", err)
	}
	got, _ := f.trips.GetByID(tr.ID)
	if got.VehicleID != other.ID {
		t.Errorf("vehicle move not applied: %+v", got)
	}
}

func TestTripUpdateRejectsEndBeforeStart(t *testing.T) {
	f := newFixture()
	v := f.addVehicle(t, "ABC123")
	tr := f.addTrip(t, v.ID)

	early := tr.StartDate.Add(-time.Hour)
	err := f.trips.Update(context.Background(), tr.ID, models.TripPatch{EndDate: &early})
	var ve *models.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("end before start must fail validation, got %v", err)
	}

	late := tr.StartDate.Add(6 * time.Hour)
	if err := f.trips.Update(context.Background(), tr.ID, models.TripPatch{EndDate: &late}); err != nil {
		t.Fatalf("closing the trip: %v", err)
	}
	got, _ := f.trips.GetByID(tr.ID)
	if got.EndDate == nil || !got.EndDate.Equal(late) {
		t.Errorf("end date not applied: %+v", got)
	}
}

func TestTripDeleteDeniedWhileReferenced(t *testing.T) {
	f := newFixture()
	v := f.addVehicle(t, "ABC123")
	tr := f.addTrip(t, v.ID)
	toll := f.addToll(t, "Peaje Andes", "Km 45")
	rec := f.addTollRecord(t, v.ID, tr.ID, toll.ID)

	var de *DependencyError
	if err := f.trips.Delete(context.Background(), tr.ID); !errors.As(err, &de) {
		t.Fatalf("trip delete should be denied while a toll record references it, got %v", err)
	}

	if err := f.tollRecords.Delete(context.Background(), rec.ID); err != nil {
		t.Fatalf("toll record delete: %v", err)
	}
	if err := f.trips.Delete(context.Background(), tr.ID); err != nil {
		t.Fatalf("trip delete after teardown: %v", err)
	}
}
