package resources

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/petprotect/hub/internal/errors"
	"github.com/petprotect/hub/internal/hubservice"
	"github.com/petprotect/hub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// FeedingHandlers encapsulates the feeding-schedule HTTP handlers
type FeedingHandlers struct {
	hubservice *hubservice.HubService
}

// @Summary Save a pet's feeding schedule
// @Description Store the three daily feeding times and arm the feeder. Times accept 12-hour ("4:30 PM") or 24-hour ("16:30") form.
// @Tags feeding
// @Accept json
// @Produce json
// @Param petID path string true "Pet ID"
// @Param schedule body models.FeedingSchedule true "Feeding schedule"
// @Success 200 {object} models.FeedingSchedule
// @Failure 400 {object} errors.APIError
// @Router /pets/{petID}/feeding-schedule [put]
func (h *FeedingHandlers) SaveSchedule(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	petID := mux.Vars(r)["petID"]

	var schedule models.FeedingSchedule
	if err := json.NewDecoder(r.Body).Decode(&schedule); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}
	schedule.PetID = petID

	if err := h.hubservice.SaveSchedule(r.Context(), &schedule); err != nil {
		respondWithServiceError(w, requestID, err)
		return
	}

	respondWithJSON(w, http.StatusOK, schedule)
}

// @Summary Get a pet's feeding schedule
// @Description Returns the stored schedule. A pet with no schedule yet gets an empty one, not a 404.
// @Tags feeding
// @Produce json
// @Param petID path string true "Pet ID"
// @Success 200 {object} models.FeedingSchedule
// @Router /pets/{petID}/feeding-schedule [get]
func (h *FeedingHandlers) GetSchedule(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	petID := mux.Vars(r)["petID"]

	schedule, err := h.hubservice.GetSchedule(r.Context(), petID)
	if err != nil {
		respondWithServiceError(w, requestID, err)
		return
	}

	respondWithJSON(w, http.StatusOK, schedule)
}

// @Summary Get today's feed events
// @Description Returns the current day's scheduled feeds with their confirmation outcomes.
// @Tags feeding
// @Produce json
// @Param petID path string true "Pet ID"
// @Success 200 {array} models.FeedEvent
// @Router /pets/{petID}/feeding-schedule/status [get]
func (h *FeedingHandlers) FeedStatus(w http.ResponseWriter, r *http.Request) {
	petID := mux.Vars(r)["petID"]
	events := h.hubservice.FeedStatus(petID)
	respondWithJSON(w, http.StatusOK, events)
}
