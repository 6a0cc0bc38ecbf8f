package handlers

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tunedrop/backend/internal/middleware"
	"github.com/tunedrop/backend/internal/models"
	"github.com/tunedrop/backend/internal/services"
)

type NotificationHandler struct {
	notifications *services.MongoNotificationService
}

func NewNotificationHandler(notifications *services.MongoNotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	notifications, err := h.notifications.ListByUser(r.Context(), userID, queryLimit(r))
	if err != nil {
		log.Printf("[ListNotifications] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list notifications"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(notifications))
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	notificationID := chi.URLParam(r, "notificationId")

	if err := h.notifications.MarkRead(r.Context(), userID, notificationID); err != nil {
		log.Printf("[MarkNotificationRead] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to mark notification read"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewMessageResponse("Notification marked read"))
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := h.notifications.MarkAllRead(r.Context(), userID); err != nil {
		log.Printf("[MarkAllNotificationsRead] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to mark notifications read"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewMessageResponse("All notifications marked read"))
}
