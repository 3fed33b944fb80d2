package app

import (
	"github.com/gorilla/mux"
	"github.com/schoolcal/schoolcal/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Schedule
	r.HandleFunc("/api/schedule/events", deps.ScheduleHandler.GetEvents).Methods("GET")
	r.HandleFunc("/api/schedule/facets", deps.ScheduleHandler.GetFacets).Methods("GET")
	r.HandleFunc("/api/schedule/strip", deps.ScheduleHandler.GetStrip).Methods("GET")
	r.HandleFunc("/api/schedule/month", deps.ScheduleHandler.GetMonth).Methods("GET")
	r.HandleFunc("/api/schedule/status", deps.ScheduleHandler.GetStatus).Methods("GET")
	r.HandleFunc("/api/schedule/refresh", deps.ScheduleHandler.Refresh).Methods("POST")

	// Exports
	r.HandleFunc("/api/export/ics", deps.ExportHandler.GetICS).Methods("GET")
	r.HandleFunc("/api/export/csv", deps.ExportHandler.GetCSV).Methods("GET")
}
