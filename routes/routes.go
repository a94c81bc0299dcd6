package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"p9e.in/flota/handlers"
	"p9e.in/flota/middleware"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	// Public routes (no authentication)
	r.HandleFunc("/register", handlers.Register).Methods("POST")
	r.HandleFunc("/login", handlers.Login).Methods("POST")

	// Protected API routes (require JWT authentication)
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.JWTMiddleware)

	api.HandleFunc("/logout", handlers.Logout).Methods("POST")

	registerVehicleRoutes(api)
	registerTripRoutes(api)
	registerExpenseRoutes(api)
	registerTollRoutes(api)
	registerTollRecordRoutes(api)

	api.HandleFunc("/export/{entity}", handlers.ExportEntity).Methods("GET")
	api.HandleFunc("/audit", handlers.GetAuditTrail).Methods("GET")

	return r
}

func registerVehicleRoutes(api *mux.Router) {
	api.HandleFunc("/vehicles", handlers.GetAllVehicles).Methods("GET")
	api.HandleFunc("/vehicles", handlers.CreateVehicle).Methods("POST")
	api.HandleFunc("/vehicles/{id}", handlers.GetVehicle).Methods("GET")
	api.HandleFunc("/vehicles/{id}", handlers.UpdateVehicle).Methods("PUT")
	api.HandleFunc("/vehicles/{id}", handlers.DeleteVehicle).Methods("DELETE")
}

func registerTripRoutes(api *mux.Router) {
	api.HandleFunc("/trips", handlers.GetAllTrips).Methods("GET")
	api.HandleFunc("/trips", handlers.CreateTrip).Methods("POST")
	api.HandleFunc("/trips/{id}", handlers.GetTrip).Methods("GET")
	api.HandleFunc("/trips/{id}", handlers.UpdateTrip).Methods("PUT")
	api.HandleFunc("/trips/{id}", handlers.DeleteTrip).Methods("DELETE")
}

func registerExpenseRoutes(api *mux.Router) {
	api.HandleFunc("/expenses", handlers.GetAllExpenses).Methods("GET")
	api.HandleFunc("/expenses", handlers.CreateExpense).Methods("POST")
	api.HandleFunc("/expenses/by-category", handlers.GetExpensesByCategory).Methods("GET")
	api.HandleFunc("/expenses/rollup", handlers.GetExpenseRollup).Methods("GET")
	api.HandleFunc("/expenses/{id}", handlers.GetExpense).Methods("GET")
	api.HandleFunc("/expenses/{id}", handlers.UpdateExpense).Methods("PUT")
	api.HandleFunc("/expenses/{id}", handlers.DeleteExpense).Methods("DELETE")
}

func registerTollRoutes(api *mux.Router) {
	api.HandleFunc("/tolls", handlers.GetAllTolls).Methods("GET")
	api.HandleFunc("/tolls", handlers.CreateToll).Methods("POST")
	api.HandleFunc("/tolls/{id}", handlers.GetToll).Methods("GET")
	api.HandleFunc("/tolls/{id}", handlers.UpdateToll).Methods("PUT")
	api.HandleFunc("/tolls/{id}", handlers.DeleteToll).Methods("DELETE")
}

func registerTollRecordRoutes(api *mux.Router) {
	api.HandleFunc("/toll-records", handlers.GetAllTollRecords).Methods("GET")
	api.HandleFunc("/toll-records", handlers.CreateTollRecord).Methods("POST")
	api.HandleFunc("/toll-records/{id}", handlers.GetTollRecord).Methods("GET")
	api.HandleFunc("/toll-records/{id}", handlers.UpdateTollRecord).Methods("PUT")
	api.HandleFunc("/toll-records/{id}", handlers.DeleteTollRecord).Methods("DELETE")
}
