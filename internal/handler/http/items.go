package http

import (
	"encoding/json"
	"net/http"

	"github.com/avolkhin/tripmate/internal/logger"
	"github.com/avolkhin/tripmate/internal/utils"
	"github.com/avolkhin/tripmate/models"
)

func (h *Handler) createItem(w http.ResponseWriter, r *http.Request) {
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

	var req models.CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.createItem").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	response, err := h.services.TripService.CreateItem(ctx, userID, tripID, req)
	if err != nil {
		log.Err(err).Str("func", "*Handler.createItem").Msg("error creating item")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	utils.WriteJSON(w, response, http.StatusCreated)
}

func (h *Handler) getItemCompanions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	itemType, err := urlParamItemType(r)
	if err != nil {
		http.Error(w, "invalid item type", http.StatusBadRequest)
		return
	}
	itemID, err := urlParamInt64(r, "itemID")
	if err != nil {
		http.Error(w, "invalid item ID", http.StatusBadRequest)
		return
	}

	allowed, err := h.services.Authorization.CanViewItemInTrip(ctx, userID, itemType, itemID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.getItemCompanions").Msg("error checking item access")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}
	if !allowed {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}

	data, err := h.services.ItemLoader.LoadItemCompanionsData(ctx, itemType, itemID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.getItemCompanions").Msg("error loading item companions")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	utils.WriteJSON(w, data, http.StatusOK)
}

func (h *Handler) getItemPermissions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	itemType, err := urlParamItemType(r)
	if err != nil {
		http.Error(w, "invalid item type", http.StatusBadRequest)
		return
	}
	itemID, err := urlParamInt64(r, "itemID")
	if err != nil {
		http.Error(w, "invalid item ID", http.StatusBadRequest)
		return
	}

	permissions, err := h.services.Authorization.GetItemPermissions(ctx, userID, itemType, itemID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.getItemPermissions").Msg("error resolving item permissions")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	utils.WriteJSON(w, permissions, http.StatusOK)
}
