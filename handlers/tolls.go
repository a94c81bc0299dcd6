package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"p9e.in/flota/models"
)

func GetAllTolls(w http.ResponseWriter, r *http.Request) {
	fc := fleetContext(w, r)
	if fc == nil {
		return
	}
	writeJSON(w, http.StatusOK, fc.Tolls.List())
}

func GetToll(w http.ResponseWriter, r *http.Request) {
	fc := fleetContext(w, r)
	if fc == nil {
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid toll ID", http.StatusBadRequest)
		return
	}
	toll, ok := fc.Tolls.GetByID(id)
	if !ok {
		http.Error(w, "Toll not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, toll)
}

func CreateToll(w http.ResponseWriter, r *http.Request) {
	fc := fleetContext(w, r)
	if fc == nil {
		return
	}
	var toll models.Toll
	if err := json.NewDecoder(r.Body).Decode(&toll); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	created, err := fc.Tolls.Add(r.Context(), toll)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func UpdateToll(w http.ResponseWriter, r *http.Request) {
	fc := fleetContext(w, r)
	if fc == nil {
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid toll ID", http.StatusBadRequest)
		return
	}
	var patch models.TollPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if err := fc.Tolls.Update(r.Context(), id, patch); err != nil {
		writeError(w, err)
		return
	}
	toll, _ := fc.Tolls.GetByID(id)
	writeJSON(w, http.StatusOK, toll)
}

func DeleteToll(w http.ResponseWriter, r *http.Request) {
	fc := fleetContext(w, r)
	if fc == nil {
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid toll ID", http.StatusBadRequest)
		return
	}
	if err := fc.Tolls.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Toll deleted"})
}
