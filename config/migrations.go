package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"p9e.in/flota/models"
	"p9e.in/flota/store"
)

func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "20260115_create_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.User{}, &store.VehicleRow{}, &store.TripRow{},
					&store.ExpenseRow{}, &store.TollRow{}, &store.TollRecordRow{}, &store.AuditLogRow{})
			},
		},
		{
			ID: "20260115_add_uniqueness_indexes",
			Migrate: func(tx *gorm.DB) error {
				// Mirrors the client-side uniqueness checks: last line of
				// defense against a racing second session.
				if err := tx.Exec(
					"CREATE UNIQUE INDEX IF NOT EXISTS idx_vehicles_owner_plate ON vehicles (owner_id, plate)").Error; err != nil {
					return err
				}
				return tx.Exec(
					"CREATE UNIQUE INDEX IF NOT EXISTS idx_tolls_owner_name_location ON tolls (owner_id, lower(btrim(name)), lower(btrim(location)))").Error
			},
		},
		{
			ID: "20260115_add_foreign_keys",
			Migrate: func(tx *gorm.DB) error {
				// RESTRICT everywhere: deletion with dependents is denied,
				// never cascaded.
				stmts := []string{
					"ALTER TABLE trips ADD CONSTRAINT fk_trips_vehicle FOREIGN KEY (vehicle_id) REFERENCES vehicles(id) ON DELETE RESTRICT",
					"ALTER TABLE expenses ADD CONSTRAINT fk_expenses_trip FOREIGN KEY (trip_id) REFERENCES trips(id) ON DELETE RESTRICT",
					"ALTER TABLE expenses ADD CONSTRAINT fk_expenses_vehicle FOREIGN KEY (vehicle_id) REFERENCES vehicles(id) ON DELETE RESTRICT",
					"ALTER TABLE toll_records ADD CONSTRAINT fk_toll_records_trip FOREIGN KEY (trip_id) REFERENCES trips(id) ON DELETE RESTRICT",
					"ALTER TABLE toll_records ADD CONSTRAINT fk_toll_records_toll FOREIGN KEY (toll_id) REFERENCES tolls(id) ON DELETE RESTRICT",
					"ALTER TABLE toll_records ADD CONSTRAINT fk_toll_records_vehicle FOREIGN KEY (vehicle_id) REFERENCES vehicles(id) ON DELETE RESTRICT",
				}
				for _, s := range stmts {
					if err := tx.Exec(s).Error; err != nil {
						return err
					}
				}
				return nil
			},
		},
		{
			ID: "20260115_audit_logs_index",
			Migrate: func(tx *gorm.DB) error {
				return tx.Exec(
					"CREATE INDEX IF NOT EXISTS idx_audit_logs_user_created ON audit_logs (user_id, created_at DESC)").Error
			},
		},
	})
	return m.Migrate()
}
