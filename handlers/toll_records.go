package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"p9e.in/flota/models"
)

func GetAllTollRecords(w http.ResponseWriter, r *http.Request) {
	fc := fleetContext(w, r)
	if fc == nil {
		return
	}
	writeJSON(w, http.StatusOK, fc.TollRecords.List())
}

func GetTollRecord(w http.ResponseWriter, r *http.Request) {
	fc := fleetContext(w, r)
	if fc == nil {
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid toll record ID", http.StatusBadRequest)
		return
	}
	record, ok := fc.TollRecords.GetByID(id)
	if !ok {
		http.Error(w, "Toll record not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func CreateTollRecord(w http.ResponseWriter, r *http.Request) {
	fc := fleetContext(w, r)
	if fc == nil {
		return
	}
	var record models.TollRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	created, err := fc.TollRecords.Add(r.Context(), record)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func UpdateTollRecord(w http.ResponseWriter, r *http.Request) {
	fc := fleetContext(w, r)
	if fc == nil {
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid toll record ID", http.StatusBadRequest)
		return
	}
	var patch models.TollRecordPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if err := fc.TollRecords.Update(r.Context(), id, patch); err != nil {
		writeError(w, err)
		return
	}
	record, _ := fc.TollRecords.GetByID(id)
	writeJSON(w, http.StatusOK, record)
}

func DeleteTollRecord(w http.ResponseWriter, r *http.Request) {
	fc := fleetContext(w, r)
	if fc == nil {
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid toll record ID", http.StatusBadRequest)
		return
	}
	if err := fc.TollRecords.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Toll record deleted"})
}
