package fleet

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"p9e.in/flota/models"
	"p9e.in/flota/store"
)

// CategoryRollup computes the per-category expense totals server-side,
// straight from the store, for the reporting dashboard's full-history view.
// The in-memory grouped view (ExpensesByCategory) covers the interactive
// screens; this one exists for totals that should not depend on what is
// currently cached. Pass no categories to roll up all of them.
func CategoryRollup(db *gorm.DB, ownerID uuid.UUID, categories []models.ExpenseCategory) ([]CategoryTotal, error) {
	type rollupRow struct {
		Category string
		Count    int
		Total    float64
	}

	query := db.Table("expenses").
		Select("category, COUNT(*) AS count, COALESCE(SUM(amount::numeric), 0) AS total").
		Where("owner_id = ?", ownerID.String())
	if len(categories) > 0 {
		cats := make([]string, len(categories))
		for i, c := range categories {
			cats[i] = string(c)
		}
		query = query.Where("category = ANY(?)", pq.Array(cats))
	}

	var rows []rollupRow
	if err := query.Group("category").Order("category").Scan(&rows).Error; err != nil {
		return nil, store.Translate("select", "expenses", err)
	}
	out := make([]CategoryTotal, 0, len(rows))
	for _, r := range rows {
		out = append(out, CategoryTotal{
			Category: models.ExpenseCategory(r.Category),
			Count:    r.Count,
			Total:    r.Total,
		})
	}
	return out, nil
}
