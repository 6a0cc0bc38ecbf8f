package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tunedrop/backend/internal/models"
	"github.com/tunedrop/backend/internal/services"
)

type AnnouncementHandler struct {
	announcements *services.MongoAnnouncementService
}

func NewAnnouncementHandler(announcements *services.MongoAnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{announcements: announcements}
}

// List returns published announcements for signed-in users.
func (h *AnnouncementHandler) List(w http.ResponseWriter, r *http.Request) {
	announcements, err := h.announcements.List(r.Context(), true, queryLimit(r))
	if err != nil {
		log.Printf("[ListAnnouncements] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list announcements"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(announcements))
}

func (h *AnnouncementHandler) GetBar(w http.ResponseWriter, r *http.Request) {
	bar, err := h.announcements.GetBar(r.Context())
	if err != nil {
		log.Printf("[GetAnnouncementBar] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to get announcement bar"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(bar))
}

func (h *AnnouncementHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	announcements, err := h.announcements.List(r.Context(), false, queryLimit(r))
	if err != nil {
		log.Printf("[AdminListAnnouncements] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list announcements"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(announcements))
}

func (h *AnnouncementHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAnnouncementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	announcement, err := h.announcements.Create(r.Context(), &req)
	if err != nil {
		log.Printf("[CreateAnnouncement] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create announcement"))
		return
	}

	log.Printf("[CreateAnnouncement] Announcement created: %s", announcement.ID)
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(announcement))
}

func (h *AnnouncementHandler) Update(w http.ResponseWriter, r *http.Request) {
	announcementID := chi.URLParam(r, "announcementId")

	var req models.CreateAnnouncementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	announcement, err := h.announcements.Update(r.Context(), announcementID, &req)
	if err != nil {
		if err == services.ErrAnnouncementNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Announcement not found"))
			return
		}
		log.Printf("[UpdateAnnouncement] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to update announcement"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(announcement))
}

func (h *AnnouncementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	announcementID := chi.URLParam(r, "announcementId")

	if err := h.announcements.Delete(r.Context(), announcementID); err != nil {
		if err == services.ErrAnnouncementNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Announcement not found"))
			return
		}
		log.Printf("[DeleteAnnouncement] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to delete announcement"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewMessageResponse("Announcement deleted"))
}

func (h *AnnouncementHandler) SetBar(w http.ResponseWriter, r *http.Request) {
	var bar models.AnnouncementBar
	if err := json.NewDecoder(r.Body).Decode(&bar); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	updated, err := h.announcements.SetBar(r.Context(), &bar)
	if err != nil {
		log.Printf("[SetAnnouncementBar] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to update announcement bar"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(updated))
}
