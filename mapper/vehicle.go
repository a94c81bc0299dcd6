package mapper

import (
	"encoding/json"
	"strconv"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"p9e.in/flota/models"
	"p9e.in/flota/store"
)

// VehicleToRow serializes a new vehicle for insert. Id and timestamps stay
// empty; the store assigns them. The plate is normalized on the way out.
func VehicleToRow(ownerID uuid.UUID, v models.Vehicle) store.VehicleRow {
	row := store.VehicleRow{
		Plate:    models.NormalizePlate(v.Plate),
		Brand:    v.Brand,
		Model:    v.Model,
		Year:     strconv.Itoa(v.Year),
		Color:    v.Color,
		FuelType: v.FuelType,
		Capacity: strconv.Itoa(v.Capacity),
	}
	row.OwnerID = ownerID.String()
	if len(v.Compliance) > 0 {
		if b, err := json.Marshal(v.Compliance); err == nil {
			row.Compliance = datatypes.JSON(b)
		}
	}
	return row
}

// VehicleFromRow deserializes one wire row.
func VehicleFromRow(r store.VehicleRow) (models.Vehicle, error) {
	var v models.Vehicle
	id, err := parseID("id", r.ID)
	if err != nil {
		return v, err
	}
	owner, err := parseID("owner_id", r.OwnerID)
	if err != nil {
		return v, err
	}
	v = models.Vehicle{
		ID:        id,
		OwnerID:   owner,
		Plate:     models.NormalizePlate(r.Plate),
		Brand:     r.Brand,
		Model:     r.Model,
		Year:      parseInt(r.Year),
		Color:     r.Color,
		FuelType:  r.FuelType,
		Capacity:  parseInt(r.Capacity),
		CreatedAt: parseTime(r.CreatedAt),
		UpdatedAt: parseTime(r.UpdatedAt),
	}
	if len(r.Compliance) > 0 {
		// compliance is display metadata; a bad blob clears it rather
		// than dropping the vehicle
		_ = json.Unmarshal(r.Compliance, &v.Compliance)
	}
	return v, nil
}

// VehiclesFromRows maps a batch, dropping malformed rows.
func VehiclesFromRows(rows []store.VehicleRow) []models.Vehicle {
	out := make([]models.Vehicle, 0, len(rows))
	for _, r := range rows {
		v, err := VehicleFromRow(r)
		if err != nil {
			dropRow("vehicles", r.ID, err)
			continue
		}
		out = append(out, v)
	}
	return out
}

// VehiclePatchToWire emits only the supplied fields, wire-encoded.
func VehiclePatchToWire(p models.VehiclePatch) store.Patch {
	patch := store.Patch{}
	if p.Plate != nil {
		patch["plate"] = models.NormalizePlate(*p.Plate)
	}
	if p.Brand != nil {
		patch["brand"] = *p.Brand
	}
	if p.Model != nil {
		patch["model"] = *p.Model
	}
	if p.Year != nil {
		patch["year"] = strconv.Itoa(*p.Year)
	}
	if p.Color != nil {
		patch["color"] = *p.Color
	}
	if p.FuelType != nil {
		patch["fuel_type"] = *p.FuelType
	}
	if p.Capacity != nil {
		patch["capacity"] = strconv.Itoa(*p.Capacity)
	}
	if p.Compliance != nil {
		if b, err := json.Marshal(*p.Compliance); err == nil {
			patch["compliance"] = string(b)
		}
	}
	return patch
}
