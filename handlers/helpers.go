package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"p9e.in/flota/fleet"
	"p9e.in/flota/middleware"
	"p9e.in/flota/models"
	"p9e.in/flota/repository"
	"p9e.in/flota/store"
)

var registry *fleet.Registry

// Setup hands the handlers the shared session registry. Called once from
// main before the routes are registered.
func Setup(reg *fleet.Registry) { registry = reg }

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the data-access error taxonomy onto one HTTP status and
// one transient user-facing message.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": repository.UserMessage(err)})
}

func statusFor(err error) int {
	var ve *models.ValidationError
	var re *repository.ReferentialError
	var ue *repository.UniquenessError
	var de *repository.DependencyError
	var se *store.RemoteError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &ve), errors.As(err, &re):
		return http.StatusBadRequest
	case errors.As(err, &ue), errors.As(err, &de):
		return http.StatusConflict
	case errors.As(err, &se):
		switch se.Code {
		case store.CodePermissionDenied:
			return http.StatusForbidden
		case store.CodeNotFound:
			return http.StatusNotFound
		case store.CodeDuplicateKey, store.CodeForeignKey:
			return http.StatusConflict
		default:
			return http.StatusInternalServerError
		}
	default:
		return http.StatusInternalServerError
	}
}

func splitComma(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// fleetContext resolves the caller's aggregation context. If the server
// restarted since sign-in the context is rebuilt transparently (the token
// is still valid, only the in-memory state is gone).
func fleetContext(w http.ResponseWriter, r *http.Request) *fleet.Context {
	actor, ok := middleware.GetActor(r)
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return nil
	}
	if fc, ok := registry.Get(actor.ID); ok {
		return fc
	}
	fc, err := registry.SignIn(r.Context(), actor, r.UserAgent())
	if err != nil {
		log.Printf("handlers: bootstrap for %s failed: %v", actor.ID, err)
		writeError(w, err)
		return nil
	}
	return fc
}
