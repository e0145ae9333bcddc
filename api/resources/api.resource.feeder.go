package resources

import (
	"encoding/json"
	"net/http"

	"github.com/petprotect/hub/internal/errors"
	"github.com/petprotect/hub/internal/hubservice"
	nuts "github.com/vaudience/go-nuts"
)

// FeederHandlers encapsulates the feeder-device HTTP handlers
type FeederHandlers struct {
	hubservice *hubservice.HubService
}

type feederCommandRequest struct {
	Command string `json:"command"`
}

// @Summary Dispense food now
// @Description Actuate the feeder immediately, outside any schedule.
// @Tags feeder
// @Produce json
// @Success 202 {object} map[string]string
// @Failure 503 {object} errors.APIError
// @Router /feeder/dispense [post]
func (h *FeederHandlers) Dispense(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	if err := h.hubservice.DispenseNow(r.Context()); err != nil {
		respondWithServiceError(w, requestID, err)
		return
	}

	respondWithJSON(w, http.StatusAccepted, map[string]string{"status": "dispensing"})
}

// @Summary Send a raw feeder command
// @Description Forward a validated command ("on", "off", "set HH:MM") to the feeder.
// @Tags feeder
// @Accept json
// @Produce json
// @Param command body feederCommandRequest true "Command"
// @Success 202 {object} map[string]string
// @Failure 400 {object} errors.APIError
// @Failure 503 {object} errors.APIError
// @Router /feeder/command [post]
func (h *FeederHandlers) Command(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var req feederCommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	if err := h.hubservice.SendFeederCommand(r.Context(), req.Command); err != nil {
		respondWithServiceError(w, requestID, err)
		return
	}

	respondWithJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
}

// @Summary Get the current bowl weight
// @Description Returns the most recent weight reading and whether the feed is live. 404 until a first reading arrives.
// @Tags feeder
// @Produce json
// @Success 200 {object} hubservice.WeightReading
// @Failure 404 {object} errors.APIError
// @Router /feeder/weight [get]
func (h *FeederHandlers) Weight(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	reading, err := h.hubservice.CurrentWeight()
	if err != nil {
		respondWithServiceError(w, requestID, err)
		return
	}

	respondWithJSON(w, http.StatusOK, reading)
}
