// Package store is the boundary to the hosted relational store. Every call
// is scoped to the owning actor; rows travel in wire encoding (flat,
// string-typed fields) and the mapper package translates them to domain
// entities.
package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Filter scopes a store operation. OwnerID is mandatory on every call —
// the server enforces row ownership too, this is defense in depth.
type Filter struct {
	OwnerID uuid.UUID
	ID      uuid.UUID // optional; uuid.Nil means "all rows of the owner"
}

// Patch is the set of columns an update supplies. Keys are wire column
// names; absent keys are left untouched.
type Patch map[string]interface{}

// Table is the generic per-table contract of the remote store.
type Table[R any] interface {
	// Select returns the owner's rows, newest first, optionally narrowed
	// to one id.
	Select(ctx context.Context, f Filter) ([]R, error)
	// Insert writes one row and returns it with server-assigned id and
	// timestamps filled in.
	Insert(ctx context.Context, row R) (R, error)
	// Update applies the patch to the row matching the filter. Reports
	// CodeNotFound when no row matched (wrong id or wrong owner).
	Update(ctx context.Context, f Filter, patch Patch) error
	// Delete removes the row matching the filter, CodeNotFound when
	// nothing matched.
	Delete(ctx context.Context, f Filter) error
}

// GormTable is the Postgres-backed Table implementation.
type GormTable[R any] struct {
	db    *gorm.DB
	table string
}

// NewGormTable builds a table handle. The table name doubles as the audit
// table name for that entity.
func NewGormTable[R any](db *gorm.DB, table string) *GormTable[R] {
	return &GormTable[R]{db: db, table: table}
}

func (t *GormTable[R]) Select(ctx context.Context, f Filter) ([]R, error) {
	var rows []R
	q := t.db.WithContext(ctx).Table(t.table).Where("owner_id = ?", f.OwnerID.String())
	if f.ID != uuid.Nil {
		q = q.Where("id = ?", f.ID.String())
	}
	if err := q.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, Translate("select", t.table, err)
	}
	return rows, nil
}

func (t *GormTable[R]) Insert(ctx context.Context, row R) (R, error) {
	if err := t.db.WithContext(ctx).Table(t.table).Create(&row).Error; err != nil {
		return row, Translate("insert", t.table, err)
	}
	return row, nil
}

func (t *GormTable[R]) Update(ctx context.Context, f Filter, patch Patch) error {
	if len(patch) == 0 {
		return nil
	}
	patch["updated_at"] = Now()
	res := t.db.WithContext(ctx).Table(t.table).
		Where("id = ? AND owner_id = ?", f.ID.String(), f.OwnerID.String()).
		Updates(map[string]interface{}(patch))
	if res.Error != nil {
		return Translate("update", t.table, res.Error)
	}
	if res.RowsAffected == 0 {
		return &RemoteError{Op: "update", Table: t.table, Code: CodeNotFound}
	}
	return nil
}

func (t *GormTable[R]) Delete(ctx context.Context, f Filter) error {
	var zero R
	res := t.db.WithContext(ctx).Table(t.table).
		Where("id = ? AND owner_id = ?", f.ID.String(), f.OwnerID.String()).
		Delete(&zero)
	if res.Error != nil {
		return Translate("delete", t.table, res.Error)
	}
	if res.RowsAffected == 0 {
		return &RemoteError{Op: "delete", Table: t.table, Code: CodeNotFound}
	}
	return nil
}
