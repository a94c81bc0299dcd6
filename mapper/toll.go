package mapper

import (
	"github.com/google/uuid"

	"p9e.in/flota/models"
	"p9e.in/flota/store"
)

// TollToRow serializes a new toll for insert.
func TollToRow(ownerID uuid.UUID, t models.Toll) store.TollRow {
	row := store.TollRow{
		Name:     t.Name,
		Location: t.Location,
		Category: t.Category,
		Route:    t.Route,
		Price:    formatNumber(t.Price),
	}
	row.OwnerID = ownerID.String()
	return row
}

// TollFromRow deserializes one wire row; a bad price rejects the row.
func TollFromRow(r store.TollRow) (models.Toll, error) {
	var t models.Toll
	id, err := parseID("id", r.ID)
	if err != nil {
		return t, err
	}
	owner, err := parseID("owner_id", r.OwnerID)
	if err != nil {
		return t, err
	}
	price, err := parseMoney("price", r.Price)
	if err != nil {
		return t, err
	}
	return models.Toll{
		ID:        id,
		OwnerID:   owner,
		Name:      r.Name,
		Location:  r.Location,
		Category:  r.Category,
		Route:     r.Route,
		Price:     price,
		CreatedAt: parseTime(r.CreatedAt),
		UpdatedAt: parseTime(r.UpdatedAt),
	}, nil
}

// TollsFromRows maps a batch, dropping malformed rows.
func TollsFromRows(rows []store.TollRow) []models.Toll {
	out := make([]models.Toll, 0, len(rows))
	for _, r := range rows {
		t, err := TollFromRow(r)
		if err != nil {
			dropRow("tolls", r.ID, err)
			continue
		}
		out = append(out, t)
	}
	return out
}

// TollPatchToWire emits only the supplied fields, wire-encoded.
func TollPatchToWire(p models.TollPatch) store.Patch {
	patch := store.Patch{}
	if p.Name != nil {
		patch["name"] = *p.Name
	}
	if p.Location != nil {
		patch["location"] = *p.Location
	}
	if p.Category != nil {
		patch["category"] = *p.Category
	}
	if p.Route != nil {
		patch["route"] = *p.Route
	}
	if p.Price != nil {
		patch["price"] = formatNumber(*p.Price)
	}
	return patch
}
