package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TimeFormat is how the wire encodes every date/timestamp field.
const TimeFormat = time.RFC3339Nano

// Now returns the current instant in wire encoding.
func Now() string {
	return time.Now().UTC().Format(TimeFormat)
}

// RowMeta is the column set every entity table shares. All values travel as
// strings; the mapper package owns parsing them into domain types.
type RowMeta struct {
	ID        string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OwnerID   string `gorm:"column:owner_id;type:uuid;index;not null" json:"owner_id"`
	CreatedAt string `gorm:"column:created_at;type:timestamptz;not null" json:"created_at"`
	UpdatedAt string `gorm:"column:updated_at;type:timestamptz;not null" json:"updated_at"`
}

// Meta exposes the shared columns through the Record interface.
func (m *RowMeta) Meta() *RowMeta { return m }

// EnsureDefaults fills the columns the caller never supplies: id and
// timestamps are assigned at insert time, not by the client.
func (m *RowMeta) EnsureDefaults() {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	now := Now()
	if m.CreatedAt == "" {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
}

// BeforeCreate is promoted onto every row type so gorm assigns defaults on
// insert, mirroring what a hosted store would do server-side.
func (m *RowMeta) BeforeCreate(tx *gorm.DB) error {
	m.EnsureDefaults()
	return nil
}

// Record is implemented by every wire row (via embedded RowMeta).
type Record interface {
	Meta() *RowMeta
}

// VehicleRow is the vehicles table in wire encoding. Numeric columns ride
// as text, same convention as every other form-shaped table here.
type VehicleRow struct {
	RowMeta
	Plate      string         `gorm:"column:plate;size:16;not null" json:"plate"`
	Brand      string         `gorm:"column:brand;size:64;not null" json:"brand"`
	Model      string         `gorm:"column:model;size:64;not null" json:"model"`
	Year       string         `gorm:"column:year;size:8;not null" json:"year"`
	Color      string         `gorm:"column:color;size:32" json:"color"`
	FuelType   string         `gorm:"column:fuel_type;size:32" json:"fuel_type"`
	Capacity   string         `gorm:"column:capacity;size:16" json:"capacity"`
	Compliance datatypes.JSON `gorm:"column:compliance;type:jsonb" json:"compliance,omitempty"`
}

func (VehicleRow) TableName() string { return "vehicles" }

// TripRow is the trips table in wire encoding.
type TripRow struct {
	RowMeta
	VehicleID   string `gorm:"column:vehicle_id;type:uuid;index;not null" json:"vehicle_id"`
	Origin      string `gorm:"column:origin;size:128;not null" json:"origin"`
	Destination string `gorm:"column:destination;size:128;not null" json:"destination"`
	StartDate   string `gorm:"column:start_date;type:timestamptz;not null" json:"start_date"`
	EndDate     string `gorm:"column:end_date;type:timestamptz" json:"end_date"`
	Distance    string `gorm:"column:distance;type:numeric(10,2);not null" json:"distance"`
	Notes       string `gorm:"column:notes;type:text" json:"notes"`
}

func (TripRow) TableName() string { return "trips" }

// ExpenseRow is the expenses table in wire encoding.
type ExpenseRow struct {
	RowMeta
	TripID      string         `gorm:"column:trip_id;type:uuid;index;not null" json:"trip_id"`
	VehicleID   string         `gorm:"column:vehicle_id;type:uuid;index;not null" json:"vehicle_id"`
	Category    string         `gorm:"column:category;size:32;not null" json:"category"`
	Amount      string         `gorm:"column:amount;type:numeric(12,2);not null" json:"amount"`
	Date        string         `gorm:"column:date;type:timestamptz;not null" json:"date"`
	Description string         `gorm:"column:description;type:text" json:"description"`
	Photos      pq.StringArray `gorm:"column:photos;type:text[]" json:"photos,omitempty"`
}

func (ExpenseRow) TableName() string { return "expenses" }

// TollRow is the tolls table in wire encoding.
type TollRow struct {
	RowMeta
	Name     string `gorm:"column:name;size:128;not null" json:"name"`
	Location string `gorm:"column:location;size:128;not null" json:"location"`
	Category string `gorm:"column:category;size:64;not null" json:"category"`
	Route    string `gorm:"column:route;size:128;not null" json:"route"`
	Price    string `gorm:"column:price;type:numeric(12,2);not null" json:"price"`
}

func (TollRow) TableName() string { return "tolls" }

// TollRecordRow is the toll_records table in wire encoding.
type TollRecordRow struct {
	RowMeta
	VehicleID     string `gorm:"column:vehicle_id;type:uuid;index;not null" json:"vehicle_id"`
	TripID        string `gorm:"column:trip_id;type:uuid;index;not null" json:"trip_id"`
	TollID        string `gorm:"column:toll_id;type:uuid;index;not null" json:"toll_id"`
	Date          string `gorm:"column:date;type:timestamptz;not null" json:"date"`
	Price         string `gorm:"column:price;type:numeric(12,2);not null" json:"price"`
	PaymentMethod string `gorm:"column:payment_method;size:32;not null" json:"payment_method"`
	Receipt       string `gorm:"column:receipt;size:256" json:"receipt"`
	Notes         string `gorm:"column:notes;type:text" json:"notes"`
}

func (TollRecordRow) TableName() string { return "toll_records" }

// AuditLogRow is the audit_logs table. Append-only: the application inserts
// and selects, never updates or deletes.
type AuditLogRow struct {
	RowMeta
	UserID    string         `gorm:"column:user_id;type:uuid;index;not null" json:"user_id"`
	TableNm   string         `gorm:"column:table_name;size:64;not null" json:"table_name"`
	Operation string         `gorm:"column:operation;size:16;not null" json:"operation"`
	RecordID  string         `gorm:"column:record_id;size:64" json:"record_id"`
	OldValues datatypes.JSON `gorm:"column:old_values;type:jsonb" json:"old_values,omitempty"`
	NewValues datatypes.JSON `gorm:"column:new_values;type:jsonb" json:"new_values,omitempty"`
	SessionID string         `gorm:"column:session_id;size:64" json:"session_id"`
	UserAgent string         `gorm:"column:user_agent;size:256" json:"user_agent"`
}

func (AuditLogRow) TableName() string { return "audit_logs" }
