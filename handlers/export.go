package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"p9e.in/flota/export"
	"p9e.in/flota/fleet"
)

// ExportEntity streams the caller's cached rows for one entity as a
// spreadsheet. format=csv switches from the default xlsx.
func ExportEntity(w http.ResponseWriter, r *http.Request) {
	fc := fleetContext(w, r)
	if fc == nil {
		return
	}

	entity := mux.Vars(r)["entity"]
	var (
		sheet   string
		headers []string
		rows    [][]interface{}
	)
	switch entity {
	case "vehicles":
		sheet = "Vehicles"
		headers, rows = fleet.VehiclesSheet(fc.Vehicles.List())
	case "trips":
		sheet = "Trips"
		headers, rows = fleet.TripsSheet(fc.Trips.List())
	case "expenses":
		sheet = "Expenses"
		headers, rows = fleet.ExpensesSheet(fc.FilteredExpenses(expenseFilter(r)))
	case "tolls":
		sheet = "Tolls"
		headers, rows = fleet.TollsSheet(fc.Tolls.List())
	case "toll-records":
		sheet = "Toll Records"
		headers, rows = fleet.TollRecordsSheet(fc.TollRecords.List())
	default:
		http.Error(w, "Unknown export entity", http.StatusNotFound)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "xlsx"
	}

	var (
		data        []byte
		err         error
		contentType string
	)
	switch format {
	case "xlsx":
		data, err = export.ToExcel(sheet, headers, rows)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "csv":
		data, err = export.ToCSV(headers, rows)
		contentType = "text/csv"
	default:
		http.Error(w, "Unsupported format, use xlsx or csv", http.StatusBadRequest)
		return
	}
	if errors.Is(err, export.ErrNoRows) {
		http.Error(w, "No rows to export", http.StatusNotFound)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", export.Filename(entity, format)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
