package resources

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/petprotect/hub/internal/hubservice"
	nuts "github.com/vaudience/go-nuts"
)

// PetHandlers encapsulates the pet-scoped housekeeping HTTP handlers
type PetHandlers struct {
	hubservice *hubservice.HubService
}

// @Summary Delete all hub data for a pet
// @Description Cascade-delete the pet's feeding schedule, device links, vitals history and notifications, and drop its armed feed events and alert state. Called by the profile service when a pet is deleted.
// @Tags pets
// @Produce json
// @Param petID path string true "Pet ID"
// @Success 204
// @Failure 400 {object} errors.APIError
// @Router /pets/{petID}/data [delete]
func (h *PetHandlers) DeleteData(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	petID := mux.Vars(r)["petID"]

	if err := h.hubservice.DeletePetData(r.Context(), petID); err != nil {
		respondWithServiceError(w, requestID, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
