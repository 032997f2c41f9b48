package http

import (
	"encoding/json"
	"net/http"

	"github.com/avolkhin/tripmate/internal/logger"
	"github.com/avolkhin/tripmate/internal/utils"
	"github.com/avolkhin/tripmate/models"
)

func (h *Handler) listCompanions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	merged, err := h.services.CompanionService.MergeCompanionViews(ctx, userID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.listCompanions").Msg("error merging companion views")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}
	if merged == nil {
		merged = []models.MergedCompanion{}
	}

	utils.WriteJSON(w, merged, http.StatusOK)
}

func (h *Handler) createCompanion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req models.CreateCompanionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.createCompanion").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	record, err := h.services.CompanionService.CreateCompanion(ctx, userID, req)
	if err != nil {
		log.Err(err).Str("func", "*Handler.createCompanion").Msg("error creating companion")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	utils.WriteJSON(w, record, http.StatusCreated)
}

func (h *Handler) updateCompanionPermissions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	companionID, err := urlParamInt64(r, "companionID")
	if err != nil {
		http.Error(w, "invalid companion ID", http.StatusBadRequest)
		return
	}

	var req models.UpdatePermissionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.updateCompanionPermissions").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	grant, err := h.services.CompanionService.UpdatePermissions(ctx, userID, companionID, req)
	if err != nil {
		log.Err(err).Str("func", "*Handler.updateCompanionPermissions").Msg("error updating permissions")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	utils.WriteJSON(w, grant, http.StatusOK)
}

func (h *Handler) unlinkCompanion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	companionID, err := urlParamInt64(r, "companionID")
	if err != nil {
		http.Error(w, "invalid companion ID", http.StatusBadRequest)
		return
	}

	if err := h.services.CompanionService.UnlinkCompanion(ctx, userID, companionID); err != nil {
		log.Err(err).Str("func", "*Handler.unlinkCompanion").Msg("error unlinking companion")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteCompanion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	companionID, err := urlParamInt64(r, "companionID")
	if err != nil {
		http.Error(w, "invalid companion ID", http.StatusBadRequest)
		return
	}

	if err := h.services.CompanionService.DeleteCompanion(ctx, userID, companionID); err != nil {
		log.Err(err).Str("func", "*Handler.deleteCompanion").Msg("error deleting companion")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
