package resources

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	"github.com/petprotect/hub/internal/errors"
	"github.com/petprotect/hub/internal/hubservice"
	"github.com/petprotect/hub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// VitalsHandlers encapsulates the collar-vitals HTTP handlers
type VitalsHandlers struct {
	hubservice *hubservice.HubService
}

var queryDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

type historyQuery struct {
	Limit int `schema:"limit"`
}

// @Summary Ingest a vitals sample
// @Description Store one collar snapshot (motion state, temperature, heart rate) posted by the collar bridge.
// @Tags vitals
// @Accept json
// @Produce json
// @Param sample body models.VitalsSample true "Vitals sample"
// @Success 201 {object} models.VitalsSample
// @Failure 400 {object} errors.APIError
// @Router /telemetry/motion [post]
func (h *VitalsHandlers) Ingest(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var sample models.VitalsSample
	if err := json.NewDecoder(r.Body).Decode(&sample); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	if err := h.hubservice.IngestVitals(r.Context(), &sample); err != nil {
		respondWithServiceError(w, requestID, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, sample)
}

// @Summary Get the latest vitals for a pet
// @Description Returns the newest sample with its normal ranges, per-vital status and alert flags. Conflict without a collar link; 404 when there is no usable (fresh) sample.
// @Tags vitals
// @Produce json
// @Param petID path string true "Pet ID"
// @Success 200 {object} hubservice.VitalsStatus
// @Failure 404 {object} errors.APIError
// @Failure 409 {object} errors.APIError
// @Router /pets/{petID}/vitals/latest [get]
func (h *VitalsHandlers) Latest(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	petID := mux.Vars(r)["petID"]

	status, err := h.hubservice.LatestVitals(r.Context(), petID)
	if err != nil {
		respondWithServiceError(w, requestID, err)
		return
	}

	respondWithJSON(w, http.StatusOK, status)
}

// @Summary Get vitals history
// @Description Returns up to limit samples in chronological order.
// @Tags vitals
// @Produce json
// @Param petID path string true "Pet ID"
// @Param limit query int false "Maximum samples to return (default 60, cap 1440)"
// @Success 200 {array} models.VitalsSample
// @Router /pets/{petID}/vitals/history [get]
func (h *VitalsHandlers) History(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	petID := mux.Vars(r)["petID"]

	var query historyQuery
	if err := queryDecoder.Decode(&query, r.URL.Query()); err != nil {
		respondWithError(w, errors.NewValidationError("invalid query parameters", err).WithRequestID(requestID))
		return
	}

	samples, err := h.hubservice.VitalsHistory(r.Context(), petID, query.Limit)
	if err != nil {
		respondWithServiceError(w, requestID, err)
		return
	}

	respondWithJSON(w, http.StatusOK, samples)
}

// @Summary Get today's activity summary
// @Description Returns calm and active minute counts plus the number of hit/crash events for the current day.
// @Tags vitals
// @Produce json
// @Param petID path string true "Pet ID"
// @Success 200 {object} models.ActivitySummary
// @Router /pets/{petID}/vitals/summary [get]
func (h *VitalsHandlers) Summary(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	petID := mux.Vars(r)["petID"]

	summary, err := h.hubservice.ActivitySummary(r.Context(), petID)
	if err != nil {
		respondWithServiceError(w, requestID, err)
		return
	}

	respondWithJSON(w, http.StatusOK, summary)
}
