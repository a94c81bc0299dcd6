package fleet

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"p9e.in/flota/models"
	"p9e.in/flota/repository"
)

// ExpenseFilter narrows the derived expense views. Zero values mean "no
// constraint".
type ExpenseFilter struct {
	VehicleID uuid.UUID
	TripID    uuid.UUID
	Search    string
}

// CategoryTotal is one bucket of the grouped expense view.
type CategoryTotal struct {
	Category models.ExpenseCategory `json:"category"`
	Count    int                    `json:"count"`
	Total    float64                `json:"total"`
}

// FilterExpenses is the pure filtering function behind the views: same
// inputs, same output, no hidden state.
func FilterExpenses(expenses []models.Expense, f ExpenseFilter) []models.Expense {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]models.Expense, 0, len(expenses))
	for _, e := range expenses {
		if f.VehicleID != uuid.Nil && e.VehicleID != f.VehicleID {
			continue
		}
		if f.TripID != uuid.Nil && e.TripID != f.TripID {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(e.Description), search) &&
			!strings.Contains(strings.ToLower(string(e.Category)), search) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// GroupExpensesByCategory buckets the filtered expenses per category, in
// the enum's display order. Empty categories are omitted.
func GroupExpensesByCategory(expenses []models.Expense, f ExpenseFilter) []CategoryTotal {
	filtered := FilterExpenses(expenses, f)
	byCat := make(map[models.ExpenseCategory]*CategoryTotal)
	for _, e := range filtered {
		ct, ok := byCat[e.Category]
		if !ok {
			ct = &CategoryTotal{Category: e.Category}
			byCat[e.Category] = ct
		}
		ct.Count++
		ct.Total += e.Amount
	}
	out := make([]CategoryTotal, 0, len(byCat))
	for _, cat := range models.ExpenseCategories {
		if ct, ok := byCat[cat]; ok {
			out = append(out, *ct)
		}
	}
	return out
}

// expenseViews memoizes the derived views: a result is recomputed only when
// the expense collection or the filter actually changed.
type expenseViews struct {
	mu      sync.Mutex
	version uint64 // bumped by the collection subscription

	grouped struct {
		valid   bool
		version uint64
		filter  ExpenseFilter
		result  []CategoryTotal
	}
	filtered struct {
		valid   bool
		version uint64
		filter  ExpenseFilter
		result  []models.Expense
	}
}

func newExpenseViews(expenses *repository.Expenses) *expenseViews {
	v := &expenseViews{}
	expenses.Subscribe(func([]models.Expense) {
		v.mu.Lock()
		v.version++
		v.mu.Unlock()
	})
	return v
}

// ExpensesByCategory is the memoized grouped view.
func (c *Context) ExpensesByCategory(f ExpenseFilter) []CategoryTotal {
	v := c.views
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.grouped.valid && v.grouped.version == v.version && v.grouped.filter == f {
		return v.grouped.result
	}
	result := GroupExpensesByCategory(c.Expenses.List(), f)
	v.grouped.valid = true
	v.grouped.version = v.version
	v.grouped.filter = f
	v.grouped.result = result
	return result
}

// FilteredExpenses is the memoized flat view.
func (c *Context) FilteredExpenses(f ExpenseFilter) []models.Expense {
	v := c.views
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.filtered.valid && v.filtered.version == v.version && v.filtered.filter == f {
		return v.filtered.result
	}
	result := FilterExpenses(c.Expenses.List(), f)
	v.filtered.valid = true
	v.filtered.version = v.version
	v.filtered.filter = f
	v.filtered.result = result
	return result
}
