package resources

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/petprotect/hub/internal/errors"
	"github.com/petprotect/hub/internal/hubservice"
	nuts "github.com/vaudience/go-nuts"
)

// Resources holds all HTTP resource handlers
type Resources struct {
	Pets          *PetHandlers
	Feeding       *FeedingHandlers
	Feeder        *FeederHandlers
	Vitals        *VitalsHandlers
	Devices       *DeviceHandlers
	Notifications *NotificationHandlers
	HealthCheck   func(w http.ResponseWriter, r *http.Request)
}

// NewResources creates a new Resources instance
func NewResources(svc *hubservice.HubService) *Resources {
	return &Resources{
		Pets:          &PetHandlers{hubservice: svc},
		Feeding:       &FeedingHandlers{hubservice: svc},
		Feeder:        &FeederHandlers{hubservice: svc},
		Vitals:        &VitalsHandlers{hubservice: svc},
		Devices:       &DeviceHandlers{hubservice: svc},
		Notifications: &NotificationHandlers{hubservice: svc},
	}
}

// SetHealthCheck sets the health check handler
func (r *Resources) SetHealthCheck(h func(w http.ResponseWriter, r *http.Request)) {
	r.HealthCheck = h
}

// Helper functions

func respondWithError(w http.ResponseWriter, err *errors.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Code)
	json.NewEncoder(w).Encode(err)
	nuts.L.Errorf("[API] %s", err.Error())
}

// respondWithServiceError keeps the service layer's error taxonomy intact on
// the wire instead of flattening everything to 500.
func respondWithServiceError(w http.ResponseWriter, requestID string, err error) {
	var apiErr *errors.APIError
	if stderrors.As(err, &apiErr) {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}
	respondWithError(w, errors.NewInternalError("internal error", err).WithRequestID(requestID))
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
