package mapper

import (
	"github.com/google/uuid"

	"p9e.in/flota/models"
	"p9e.in/flota/store"
)

// TripToRow serializes a new trip for insert.
func TripToRow(ownerID uuid.UUID, t models.Trip) store.TripRow {
	row := store.TripRow{
		VehicleID:   t.VehicleID.String(),
		Origin:      t.Origin,
		Destination: t.Destination,
		StartDate:   formatTime(t.StartDate),
		Distance:    formatNumber(t.Distance),
		Notes:       t.Notes,
	}
	row.OwnerID = ownerID.String()
	if t.EndDate != nil {
		row.EndDate = formatTime(*t.EndDate)
	}
	return row
}

// TripFromRow deserializes one wire row.
func TripFromRow(r store.TripRow) (models.Trip, error) {
	var t models.Trip
	id, err := parseID("id", r.ID)
	if err != nil {
		return t, err
	}
	owner, err := parseID("owner_id", r.OwnerID)
	if err != nil {
		return t, err
	}
	vehicleID, err := parseID("vehicle_id", r.VehicleID)
	if err != nil {
		return t, err
	}
	return models.Trip{
		ID:          id,
		OwnerID:     owner,
		VehicleID:   vehicleID,
		Origin:      r.Origin,
		Destination: r.Destination,
		StartDate:   parseTime(r.StartDate),
		EndDate:     parseOptionalTime(r.EndDate),
		Distance:    parseNumber(r.Distance),
		Notes:       r.Notes,
		CreatedAt:   parseTime(r.CreatedAt),
		UpdatedAt:   parseTime(r.UpdatedAt),
	}, nil
}

// TripsFromRows maps a batch, dropping malformed rows.
func TripsFromRows(rows []store.TripRow) []models.Trip {
	out := make([]models.Trip, 0, len(rows))
	for _, r := range rows {
		t, err := TripFromRow(r)
		if err != nil {
			dropRow("trips", r.ID, err)
			continue
		}
		out = append(out, t)
	}
	return out
}

// TripPatchToWire emits only the supplied fields, wire-encoded.
func TripPatchToWire(p models.TripPatch) store.Patch {
	patch := store.Patch{}
	if p.VehicleID != nil {
		patch["vehicle_id"] = p.VehicleID.String()
	}
	if p.Origin != nil {
		patch["origin"] = *p.Origin
	}
	if p.Destination != nil {
		patch["destination"] = *p.Destination
	}
	if p.StartDate != nil {
		patch["start_date"] = formatTime(*p.StartDate)
	}
	if p.EndDate != nil {
		patch["end_date"] = formatTime(*p.EndDate)
	}
	if p.Distance != nil {
		patch["distance"] = formatNumber(*p.Distance)
	}
	if p.Notes != nil {
		patch["notes"] = *p.Notes
	}
	return patch
}
