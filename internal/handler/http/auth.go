package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/avolkhin/tripmate/internal/logger"
	"github.com/avolkhin/tripmate/internal/utils"
	"github.com/avolkhin/tripmate/models"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	registeredUser, err := h.services.AuthService.Register(ctx, req)
	if err != nil {
		log.Err(err).Msg("registration failed")
		status := statusFromError(err)
		http.Error(w, http.StatusText(status), status)
		return
	}

	// log in right away so the client gets a usable token from registration
	token, err := h.services.AuthService.Login(ctx, models.LoginRequest{Email: req.Email, Password: req.Password})
	if err != nil {
		log.Err(err).Msg("issuing token after registration failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	log.Debug().Int64("id", registeredUser.UserID).Msg("user registered")

	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", token.SignedString))
	utils.WriteJSON(w, models.AuthResponse{Token: token.SignedString}, http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	token, err := h.services.AuthService.Login(ctx, req)
	if err != nil {
		log.Err(err).Msg("login failed")
		http.Error(w, "invalid email/password", statusFromError(err))
		return
	}

	log.Debug().Int64("id", token.UserID).Msg("user logged in")

	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", token.SignedString))
	utils.WriteJSON(w, models.AuthResponse{Token: token.SignedString}, http.StatusOK)
}
