package mapper

import (
	"github.com/google/uuid"
	"github.com/lib/pq"

	"p9e.in/flota/models"
	"p9e.in/flota/store"
)

// ExpenseToRow serializes a new expense for insert.
func ExpenseToRow(ownerID uuid.UUID, e models.Expense) store.ExpenseRow {
	row := store.ExpenseRow{
		TripID:      e.TripID.String(),
		VehicleID:   e.VehicleID.String(),
		Category:    string(e.Category),
		Amount:      formatNumber(e.Amount),
		Date:        formatTime(e.Date),
		Description: e.Description,
		Photos:      e.Photos,
	}
	row.OwnerID = ownerID.String()
	return row
}

// ExpenseFromRow deserializes one wire row. An unparseable amount is a
// malformed monetary value: the row is rejected, not zeroed.
func ExpenseFromRow(r store.ExpenseRow) (models.Expense, error) {
	var e models.Expense
	id, err := parseID("id", r.ID)
	if err != nil {
		return e, err
	}
	owner, err := parseID("owner_id", r.OwnerID)
	if err != nil {
		return e, err
	}
	tripID, err := parseID("trip_id", r.TripID)
	if err != nil {
		return e, err
	}
	vehicleID, err := parseID("vehicle_id", r.VehicleID)
	if err != nil {
		return e, err
	}
	amount, err := parseMoney("amount", r.Amount)
	if err != nil {
		return e, err
	}
	return models.Expense{
		ID:          id,
		OwnerID:     owner,
		TripID:      tripID,
		VehicleID:   vehicleID,
		Category:    models.ExpenseCategory(r.Category),
		Amount:      amount,
		Date:        parseTime(r.Date),
		Description: r.Description,
		Photos:      r.Photos,
		CreatedAt:   parseTime(r.CreatedAt),
		UpdatedAt:   parseTime(r.UpdatedAt),
	}, nil
}

// ExpensesFromRows maps a batch, dropping malformed rows.
func ExpensesFromRows(rows []store.ExpenseRow) []models.Expense {
	out := make([]models.Expense, 0, len(rows))
	for _, r := range rows {
		e, err := ExpenseFromRow(r)
		if err != nil {
			dropRow("expenses", r.ID, err)
			continue
		}
		out = append(out, e)
	}
	return out
}

// ExpensePatchToWire emits only the supplied fields, wire-encoded.
func ExpensePatchToWire(p models.ExpensePatch) store.Patch {
	patch := store.Patch{}
	if p.TripID != nil {
		patch["trip_id"] = p.TripID.String()
	}
	if p.VehicleID != nil {
		patch["vehicle_id"] = p.VehicleID.String()
	}
	if p.Category != nil {
		patch["category"] = string(*p.Category)
	}
	if p.Amount != nil {
		patch["amount"] = formatNumber(*p.Amount)
	}
	if p.Date != nil {
		patch["date"] = formatTime(*p.Date)
	}
	if p.Description != nil {
		patch["description"] = *p.Description
	}
	if p.Photos != nil {
		patch["photos"] = pq.StringArray(*p.Photos)
	}
	return patch
}
