package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"

	"p9e.in/flota/models"
	"p9e.in/flota/store"
)

// AuditLogToRow serializes an audit entry for insert on the fallback path.
func AuditLogToRow(entry models.AuditLog) store.AuditLogRow {
	row := store.AuditLogRow{
		UserID:    entry.UserID.String(),
		TableNm:   entry.TableName,
		Operation: string(entry.Operation),
		RecordID:  entry.RecordID,
		SessionID: entry.SessionID,
		UserAgent: entry.UserAgent,
	}
	row.OwnerID = entry.UserID.String()
	if len(entry.OldValues) > 0 {
		if b, err := json.Marshal(entry.OldValues); err == nil {
			row.OldValues = datatypes.JSON(b)
		}
	}
	if len(entry.NewValues) > 0 {
		if b, err := json.Marshal(entry.NewValues); err == nil {
			row.NewValues = datatypes.JSON(b)
		}
	}
	return row
}

// AuditLogFromRow deserializes one audit row for the trail listing.
func AuditLogFromRow(r store.AuditLogRow) (models.AuditLog, error) {
	var entry models.AuditLog
	id, err := parseID("id", r.ID)
	if err != nil {
		return entry, err
	}
	userID, err := parseID("user_id", r.UserID)
	if err != nil {
		return entry, err
	}
	entry = models.AuditLog{
		ID:        id,
		UserID:    userID,
		TableName: r.TableNm,
		Operation: models.AuditOperation(r.Operation),
		RecordID:  r.RecordID,
		SessionID: r.SessionID,
		UserAgent: r.UserAgent,
		CreatedAt: parseTime(r.CreatedAt),
	}
	if len(r.OldValues) > 0 {
		_ = json.Unmarshal(r.OldValues, &entry.OldValues)
	}
	if len(r.NewValues) > 0 {
		_ = json.Unmarshal(r.NewValues, &entry.NewValues)
	}
	return entry, nil
}

// AuditLogsFromRows maps a batch, dropping malformed rows.
func AuditLogsFromRows(rows []store.AuditLogRow) []models.AuditLog {
	out := make([]models.AuditLog, 0, len(rows))
	for _, r := range rows {
		entry, err := AuditLogFromRow(r)
		if err != nil {
			dropRow("audit_logs", r.ID, err)
			continue
		}
		out = append(out, entry)
	}
	return out
}
