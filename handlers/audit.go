package handlers

import (
	"net/http"
	"strconv"
)

const maxTrailEntries = 500

// GetAuditTrail lists the caller's audit entries, newest first. The listing
// is capped; pass ?limit= for a smaller page.
func GetAuditTrail(w http.ResponseWriter, r *http.Request) {
	fc := fleetContext(w, r)
	if fc == nil {
		return
	}
	entries, err := fc.Auditor().Trail(r.Context(), fc.Actor)
	if err != nil {
		writeError(w, err)
		return
	}
	limit := maxTrailEntries
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n < limit {
			limit = n
		}
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	writeJSON(w, http.StatusOK, entries)
}
