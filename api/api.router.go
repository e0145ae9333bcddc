package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/petprotect/hub/api/resources"
	"github.com/petprotect/hub/internal/hubservice"
)

type Router struct {
	router    *mux.Router
	resources *resources.Resources
}

func NewRouter(svc *hubservice.HubService) *Router {
	r := &Router{
		router:    mux.NewRouter(),
		resources: resources.NewResources(svc),
	}

	r.setupRoutes()
	return r
}

func (r *Router) setupRoutes() {
	// API version prefix
	api := r.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		r.resources.HealthCheck(w, req)
	}).Methods(http.MethodGet)

	// Feeding schedules
	pets := api.PathPrefix("/pets/{petID}").Subrouter()
	pets.HandleFunc("/feeding-schedule", r.resources.Feeding.SaveSchedule).Methods(http.MethodPut)
	pets.HandleFunc("/feeding-schedule", r.resources.Feeding.GetSchedule).Methods(http.MethodGet)
	pets.HandleFunc("/feeding-schedule/status", r.resources.Feeding.FeedStatus).Methods(http.MethodGet)

	// Vitals
	pets.HandleFunc("/vitals/latest", r.resources.Vitals.Latest).Methods(http.MethodGet)
	pets.HandleFunc("/vitals/history", r.resources.Vitals.History).Methods(http.MethodGet)
	pets.HandleFunc("/vitals/summary", r.resources.Vitals.Summary).Methods(http.MethodGet)

	// Devices
	pets.HandleFunc("/device", r.resources.Devices.GetForPet).Methods(http.MethodGet)
	pets.HandleFunc("/connectivity", r.resources.Devices.Connectivity).Methods(http.MethodGet)
	pets.HandleFunc("/notifications", r.resources.Notifications.List).Methods(http.MethodGet)
	pets.HandleFunc("/data", r.resources.Pets.DeleteData).Methods(http.MethodDelete)

	api.HandleFunc("/devices/link", r.resources.Devices.Link).Methods(http.MethodPost)
	api.HandleFunc("/devices/link", r.resources.Devices.Unlink).Methods(http.MethodDelete)

	// Feeder
	api.HandleFunc("/feeder/dispense", r.resources.Feeder.Dispense).Methods(http.MethodPost)
	api.HandleFunc("/feeder/command", r.resources.Feeder.Command).Methods(http.MethodPost)
	api.HandleFunc("/feeder/weight", r.resources.Feeder.Weight).Methods(http.MethodGet)

	// Telemetry ingest
	api.HandleFunc("/telemetry/motion", r.resources.Vitals.Ingest).Methods(http.MethodPost)

	// Notifications
	api.HandleFunc("/notifications", r.resources.Notifications.Create).Methods(http.MethodPost)
	api.HandleFunc("/notifications/delete", r.resources.Notifications.Delete).Methods(http.MethodPost)
	api.HandleFunc("/push-tokens", r.resources.Notifications.RegisterPushToken).Methods(http.MethodPost)
}

func (r *Router) SetHealthCheck(h func(w http.ResponseWriter, req *http.Request)) {
	r.resources.SetHealthCheck(h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}
