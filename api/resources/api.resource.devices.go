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

// DeviceHandlers encapsulates the device-link HTTP handlers
type DeviceHandlers struct {
	hubservice *hubservice.HubService
}

type deviceQuery struct {
	Kind models.DeviceKind `schema:"kind"`
}

// @Summary Link a device to a pet
// @Description Bind a collar or dispenser to a pet. A device already bound to a different pet returns 409 and the original binding is kept.
// @Tags devices
// @Accept json
// @Produce json
// @Param link body models.DeviceLink true "Device link"
// @Success 201 {object} models.DeviceLink
// @Failure 400 {object} errors.APIError
// @Failure 409 {object} errors.APIError
// @Router /devices/link [post]
func (h *DeviceHandlers) Link(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var link models.DeviceLink
	if err := json.NewDecoder(r.Body).Decode(&link); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	if err := h.hubservice.LinkDevice(r.Context(), &link); err != nil {
		respondWithServiceError(w, requestID, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, link)
}

// @Summary Unlink a device from a pet
// @Description Remove a binding. The device, pet and owner must all match an existing link; otherwise 404.
// @Tags devices
// @Accept json
// @Produce json
// @Param link body models.DeviceLink true "Device link to remove"
// @Success 204
// @Failure 404 {object} errors.APIError
// @Router /devices/link [delete]
func (h *DeviceHandlers) Unlink(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var link models.DeviceLink
	if err := json.NewDecoder(r.Body).Decode(&link); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	if err := h.hubservice.UnlinkDevice(r.Context(), link.DeviceID, link.PetID, link.Owner); err != nil {
		respondWithServiceError(w, requestID, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary Get a pet's linked device
// @Description Returns the pet's current link of the requested kind (collar by default).
// @Tags devices
// @Produce json
// @Param petID path string true "Pet ID"
// @Param kind query string false "Device kind: collar or dispenser"
// @Success 200 {object} models.DeviceLink
// @Failure 404 {object} errors.APIError
// @Router /pets/{petID}/device [get]
func (h *DeviceHandlers) GetForPet(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	petID := mux.Vars(r)["petID"]

	var query deviceQuery
	if err := queryDecoder.Decode(&query, r.URL.Query()); err != nil {
		respondWithError(w, errors.NewValidationError("invalid query parameters", err).WithRequestID(requestID))
		return
	}
	if query.Kind == "" {
		query.Kind = models.DeviceCollar
	}

	link, err := h.hubservice.DeviceForPet(r.Context(), petID, query.Kind)
	if err != nil {
		respondWithServiceError(w, requestID, err)
		return
	}

	respondWithJSON(w, http.StatusOK, link)
}

// @Summary Check feeder connectivity for a pet
// @Description Connected means a dispenser is linked and its weight feed is fresh.
// @Tags devices
// @Produce json
// @Param petID path string true "Pet ID"
// @Success 200 {object} map[string]bool
// @Router /pets/{petID}/connectivity [get]
func (h *DeviceHandlers) Connectivity(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	petID := mux.Vars(r)["petID"]

	connected, err := h.hubservice.IsConnected(r.Context(), petID)
	if err != nil {
		respondWithServiceError(w, requestID, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"connected": connected})
}
