package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"p9e.in/flota/config"
	"p9e.in/flota/fleet"
	"p9e.in/flota/models"
)

func GetAllExpenses(w http.ResponseWriter, r *http.Request) {
	fc := fleetContext(w, r)
	if fc == nil {
		return
	}
	writeJSON(w, http.StatusOK, fc.FilteredExpenses(expenseFilter(r)))
}

func GetExpense(w http.ResponseWriter, r *http.Request) {
	fc := fleetContext(w, r)
	if fc == nil {
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid expense ID", http.StatusBadRequest)
		return
	}
	expense, ok := fc.Expenses.GetByID(id)
	if !ok {
		http.Error(w, "Expense not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

func CreateExpense(w http.ResponseWriter, r *http.Request) {
	fc := fleetContext(w, r)
	if fc == nil {
		return
	}
	var expense models.Expense
	if err := json.NewDecoder(r.Body).Decode(&expense); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	created, err := fc.Expenses.Add(r.Context(), expense)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func UpdateExpense(w http.ResponseWriter, r *http.Request) {
	fc := fleetContext(w, r)
	if fc == nil {
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid expense ID", http.StatusBadRequest)
		return
	}
	var patch models.ExpensePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if err := fc.Expenses.Update(r.Context(), id, patch); err != nil {
		writeError(w, err)
		return
	}
	expense, _ := fc.Expenses.GetByID(id)
	writeJSON(w, http.StatusOK, expense)
}

func DeleteExpense(w http.ResponseWriter, r *http.Request) {
	fc := fleetContext(w, r)
	if fc == nil {
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid expense ID", http.StatusBadRequest)
		return
	}
	if err := fc.Expenses.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Expense deleted"})
}

// GetExpensesByCategory serves the per-category totals over the cached
// expenses, honoring the same query filters as the expense listing.
func GetExpensesByCategory(w http.ResponseWriter, r *http.Request) {
	fc := fleetContext(w, r)
	if fc == nil {
		return
	}
	writeJSON(w, http.StatusOK, fc.ExpensesByCategory(expenseFilter(r)))
}

// GetExpenseRollup computes the category totals directly in the database,
// bypassing the cache. Useful as a reconciliation check against the
// in-memory aggregation.
func GetExpenseRollup(w http.ResponseWriter, r *http.Request) {
	fc := fleetContext(w, r)
	if fc == nil {
		return
	}
	categories := models.ExpenseCategories
	if raw := r.URL.Query().Get("categories"); raw != "" {
		categories = nil
		for _, c := range splitComma(raw) {
			categories = append(categories, models.ExpenseCategory(c))
		}
	}
	totals, err := fleet.CategoryRollup(config.DB, fc.Actor.ID, categories)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func expenseFilter(r *http.Request) fleet.ExpenseFilter {
	q := r.URL.Query()
	var f fleet.ExpenseFilter
	if id, err := uuid.Parse(q.Get("vehicle_id")); err == nil {
		f.VehicleID = id
	}
	if id, err := uuid.Parse(q.Get("trip_id")); err == nil {
		f.TripID = id
	}
	f.Search = q.Get("search")
	return f
}
