package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avolkhin/tripmate/internal/logger"
	"github.com/avolkhin/tripmate/internal/service"
	"github.com/avolkhin/tripmate/internal/utils"
	"github.com/avolkhin/tripmate/models"
)

func (h *Handler) createTrip(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req models.CreateTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.createTrip").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	trip, err := h.services.TripService.CreateTrip(ctx, userID, req)
	if err != nil {
		log.Err(err).Str("func", "*Handler.createTrip").Msg("error creating trip")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	utils.WriteJSON(w, trip, http.StatusCreated)
}

func (h *Handler) listAccessibleTrips(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	tripIDs, err := h.services.Authorization.GetAccessibleTrips(ctx, userID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.listAccessibleTrips").Msg("error listing accessible trips")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}
	if tripIDs == nil {
		tripIDs = []int64{}
	}

	utils.WriteJSON(w, tripIDs, http.StatusOK)
}

func (h *Handler) getTrip(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	tripID, err := urlParamInt64(r, "tripID")
	if err != nil {
		http.Error(w, "invalid trip ID", http.StatusBadRequest)
		return
	}

	trip, err := h.services.TripService.GetTrip(ctx, userID, tripID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.getTrip").Msg("error loading trip")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	utils.WriteJSON(w, trip, http.StatusOK)
}

func (h *Handler) listTripCompanions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	tripID, err := urlParamInt64(r, "tripID")
	if err != nil {
		http.Error(w, "invalid trip ID", http.StatusBadRequest)
		return
	}

	links, err := h.services.TripService.ListTripCompanions(ctx, userID, tripID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.listTripCompanions").Msg("error listing trip companions")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}
	if links == nil {
		links = []models.TripCompanionLink{}
	}

	utils.WriteJSON(w, links, http.StatusOK)
}

func (h *Handler) addTripCompanion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	tripID, err := urlParamInt64(r, "tripID")
	if err != nil {
		http.Error(w, "invalid trip ID", http.StatusBadRequest)
		return
	}

	var req models.AddTripCompanionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.addTripCompanion").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}
	if req.CompanionID <= 0 {
		http.Error(w, service.ErrValidationNoCompanionID.Error(), http.StatusBadRequest)
		return
	}

	allowed, err := h.services.Authorization.CanEditTrip(ctx, userID, tripID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.addTripCompanion").Msg("error checking trip access")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}
	if !allowed {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}

	link, err := h.services.Cascade.AddCompanionToTrip(ctx, tripID, req.CompanionID, userID, req.CanEdit, req.CanAddItems)
	if err != nil && !errors.Is(err, service.ErrCascadeIncomplete) {
		log.Err(err).Str("func", "*Handler.addTripCompanion").Msg("error adding trip companion")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	response := models.TripCompanionCreatedResponse{TripCompanion: link}
	if err != nil {
		// the link exists; the caller only needs to know fan-out lagged
		log.Warn().Err(err).Str("func", "*Handler.addTripCompanion").Msg("companion added with incomplete item propagation")
		response.CascadeWarning = "companion added, but sharing with some trip items failed"
	}

	utils.WriteJSON(w, response, http.StatusCreated)
}

func (h *Handler) updateTripCompanion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	tripID, err := urlParamInt64(r, "tripID")
	if err != nil {
		http.Error(w, "invalid trip ID", http.StatusBadRequest)
		return
	}
	companionID, err := urlParamInt64(r, "companionID")
	if err != nil {
		http.Error(w, "invalid companion ID", http.StatusBadRequest)
		return
	}

	var req models.UpdateTripCompanionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.updateTripCompanion").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	allowed, err := h.services.Authorization.CanUpdateAttendeeRole(ctx, userID, tripID, companionID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.updateTripCompanion").Msg("error checking attendee role access")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}
	if !allowed {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}

	link, err := h.services.Cascade.UpdateTripCompanion(ctx, tripID, companionID, req.CanEdit, req.CanAddItems)
	if err != nil {
		log.Err(err).Str("func", "*Handler.updateTripCompanion").Msg("error updating trip companion")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	utils.WriteJSON(w, link, http.StatusOK)
}

func (h *Handler) removeTripCompanion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	tripID, err := urlParamInt64(r, "tripID")
	if err != nil {
		http.Error(w, "invalid trip ID", http.StatusBadRequest)
		return
	}
	companionID, err := urlParamInt64(r, "companionID")
	if err != nil {
		http.Error(w, "invalid companion ID", http.StatusBadRequest)
		return
	}

	allowed, err := h.services.Authorization.CanRemoveAttendee(ctx, userID, tripID, companionID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.removeTripCompanion").Msg("error checking attendee removal access")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}
	if !allowed {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}

	removed, err := h.services.Cascade.RemoveCompanionFromTrip(ctx, tripID, companionID)
	if err != nil {
		if !errors.Is(err, service.ErrCascadeIncomplete) {
			log.Err(err).Str("func", "*Handler.removeTripCompanion").Msg("error removing trip companion")
			http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
			return
		}
		// the trip link is gone; leftover inherited rows converge on retry
		log.Warn().Err(err).Str("func", "*Handler.removeTripCompanion").Msg("companion removed with incomplete inherited cleanup")
	}
	if !removed {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
