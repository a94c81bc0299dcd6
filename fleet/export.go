package fleet

import (
	"time"

	"p9e.in/flota/models"
)

const exportDateLayout = "2006-01-02"

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(exportDateLayout)
}

// VehiclesSheet flattens the vehicle collection for spreadsheet export.
func VehiclesSheet(vehicles []models.Vehicle) ([]string, [][]interface{}) {
	headers := []string{"Plate", "Brand", "Model", "Year", "Color", "Fuel type", "Capacity", "Created"}
	rows := make([][]interface{}, 0, len(vehicles))
	for _, v := range vehicles {
		rows = append(rows, []interface{}{
			v.Plate, v.Brand, v.Model, v.Year, v.Color, v.FuelType, v.Capacity,
			v.CreatedAt.Format(exportDateLayout),
		})
	}
	return headers, rows
}

// TripsSheet flattens the trip collection for spreadsheet export.
func TripsSheet(trips []models.Trip) ([]string, [][]interface{}) {
	headers := []string{"Vehicle", "Origin", "Destination", "Start", "End", "Distance (km)", "Notes"}
	rows := make([][]interface{}, 0, len(trips))
	for _, t := range trips {
		rows = append(rows, []interface{}{
			t.VehicleID.String(), t.Origin, t.Destination,
			t.StartDate.Format(exportDateLayout), formatOptionalDate(t.EndDate),
			t.Distance, t.Notes,
		})
	}
	return headers, rows
}

// ExpensesSheet flattens an expense slice (already filtered, if the caller
// wanted that) for spreadsheet export.
func ExpensesSheet(expenses []models.Expense) ([]string, [][]interface{}) {
	headers := []string{"Date", "Category", "Amount", "Trip", "Vehicle", "Description"}
	rows := make([][]interface{}, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, []interface{}{
			e.Date.Format(exportDateLayout), string(e.Category), e.Amount,
			e.TripID.String(), e.VehicleID.String(), e.Description,
		})
	}
	return headers, rows
}

// TollsSheet flattens the toll collection for spreadsheet export.
func TollsSheet(tolls []models.Toll) ([]string, [][]interface{}) {
	headers := []string{"Name", "Location", "Category", "Route", "Price"}
	rows := make([][]interface{}, 0, len(tolls))
	for _, t := range tolls {
		rows = append(rows, []interface{}{t.Name, t.Location, t.Category, t.Route, t.Price})
	}
	return headers, rows
}

// TollRecordsSheet flattens the toll-passage collection for export.
func TollRecordsSheet(records []models.TollRecord) ([]string, [][]interface{}) {
	headers := []string{"Date", "Toll", "Trip", "Vehicle", "Price", "Payment method", "Receipt", "Notes"}
	rows := make([][]interface{}, 0, len(records))
	for _, r := range records {
		rows = append(rows, []interface{}{
			r.Date.Format(exportDateLayout), r.TollID.String(), r.TripID.String(),
			r.VehicleID.String(), r.Price, r.PaymentMethod, r.Receipt, r.Notes,
		})
	}
	return headers, rows
}
