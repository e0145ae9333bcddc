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

// NotificationHandlers encapsulates the notification HTTP handlers
type NotificationHandlers struct {
	hubservice *hubservice.HubService
}

type deleteNotificationsRequest struct {
	IDs []string `json:"ids"`
}

type pushTokenRequest struct {
	Owner string `json:"owner"`
	Token string `json:"token"`
}

// @Summary List a pet's notifications
// @Description Returns the pet's notification history, newest first.
// @Tags notifications
// @Produce json
// @Param petID path string true "Pet ID"
// @Success 200 {array} models.Notification
// @Router /pets/{petID}/notifications [get]
func (h *NotificationHandlers) List(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	petID := mux.Vars(r)["petID"]

	notifications, err := h.hubservice.ListNotifications(r.Context(), petID)
	if err != nil {
		respondWithServiceError(w, requestID, err)
		return
	}

	respondWithJSON(w, http.StatusOK, notifications)
}

// @Summary Record a notification
// @Description Store a notification record raised outside the alert path.
// @Tags notifications
// @Accept json
// @Produce json
// @Param notification body models.Notification true "Notification"
// @Success 201 {object} models.Notification
// @Failure 400 {object} errors.APIError
// @Router /notifications [post]
func (h *NotificationHandlers) Create(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var notification models.Notification
	if err := json.NewDecoder(r.Body).Decode(&notification); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	if err := h.hubservice.CreateNotification(r.Context(), &notification); err != nil {
		respondWithServiceError(w, requestID, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, notification)
}

// @Summary Delete notifications
// @Description Remove a batch of notification records by id.
// @Tags notifications
// @Accept json
// @Produce json
// @Param ids body deleteNotificationsRequest true "Notification ids"
// @Success 204
// @Failure 400 {object} errors.APIError
// @Router /notifications/delete [post]
func (h *NotificationHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var req deleteNotificationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	if err := h.hubservice.DeleteNotifications(r.Context(), req.IDs); err != nil {
		respondWithServiceError(w, requestID, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary Register a push token
// @Description Store the owner's push token for alert delivery. Re-registering replaces the old token.
// @Tags notifications
// @Accept json
// @Produce json
// @Param token body pushTokenRequest true "Owner push token"
// @Success 204
// @Failure 400 {object} errors.APIError
// @Router /push-tokens [post]
func (h *NotificationHandlers) RegisterPushToken(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var req pushTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	if err := h.hubservice.RegisterPushToken(r.Context(), req.Owner, req.Token); err != nil {
		respondWithServiceError(w, requestID, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
