package mapper

import (
	"github.com/google/uuid"

	"p9e.in/flota/models"
	"p9e.in/flota/store"
)

// TollRecordToRow serializes a new toll passage for insert.
func TollRecordToRow(ownerID uuid.UUID, r models.TollRecord) store.TollRecordRow {
	row := store.TollRecordRow{
		VehicleID:     r.VehicleID.String(),
		TripID:        r.TripID.String(),
		TollID:        r.TollID.String(),
		Date:          formatTime(r.Date),
		Price:         formatNumber(r.Price),
		PaymentMethod: r.PaymentMethod,
		Receipt:       r.Receipt,
		Notes:         r.Notes,
	}
	row.OwnerID = ownerID.String()
	return row
}

// TollRecordFromRow deserializes one wire row; a bad price rejects the row.
func TollRecordFromRow(r store.TollRecordRow) (models.TollRecord, error) {
	var rec models.TollRecord
	id, err := parseID("id", r.ID)
	if err != nil {
		return rec, err
	}
	owner, err := parseID("owner_id", r.OwnerID)
	if err != nil {
		return rec, err
	}
	vehicleID, err := parseID("vehicle_id", r.VehicleID)
	if err != nil {
		return rec, err
	}
	tripID, err := parseID("trip_id", r.TripID)
	if err != nil {
		return rec, err
	}
	tollID, err := parseID("toll_id", r.TollID)
	if err != nil {
		return rec, err
	}
	price, err := parseMoney("price", r.Price)
	if err != nil {
		return rec, err
	}
	return models.TollRecord{
		ID:            id,
		OwnerID:       owner,
		VehicleID:     vehicleID,
		TripID:        tripID,
		TollID:        tollID,
		Date:          parseTime(r.Date),
		Price:         price,
		PaymentMethod: r.PaymentMethod,
		Receipt:       r.Receipt,
		Notes:         r.Notes,
		CreatedAt:     parseTime(r.CreatedAt),
		UpdatedAt:     parseTime(r.UpdatedAt),
	}, nil
}

// TollRecordsFromRows maps a batch, dropping malformed rows.
func TollRecordsFromRows(rows []store.TollRecordRow) []models.TollRecord {
	out := make([]models.TollRecord, 0, len(rows))
	for _, r := range rows {
		rec, err := TollRecordFromRow(r)
		if err != nil {
			dropRow("toll_records", r.ID, err)
			continue
		}
		out = append(out, rec)
	}
	return out
}

// TollRecordPatchToWire emits only the supplied fields, wire-encoded.
func TollRecordPatchToWire(p models.TollRecordPatch) store.Patch {
	patch := store.Patch{}
	if p.VehicleID != nil {
		patch["vehicle_id"] = p.VehicleID.String()
	}
	if p.TripID != nil {
		patch["trip_id"] = p.TripID.String()
	}
	if p.TollID != nil {
		patch["toll_id"] = p.TollID.String()
	}
	if p.Date != nil {
		patch["date"] = formatTime(*p.Date)
	}
	if p.Price != nil {
		patch["price"] = formatNumber(*p.Price)
	}
	if p.PaymentMethod != nil {
		patch["payment_method"] = *p.PaymentMethod
	}
	if p.Receipt != nil {
		patch["receipt"] = *p.Receipt
	}
	if p.Notes != nil {
		patch["notes"] = *p.Notes
	}
	return patch
}
