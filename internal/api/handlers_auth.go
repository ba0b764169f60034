// Janitarr - Media Library Janitor
// Copyright 2026 M. Pellat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mpellat/janitarr

package api

import (
	"errors"
	"net/http"

	"github.com/mpellat/janitarr/internal/auth"
	"github.com/mpellat/janitarr/internal/database"
	"github.com/mpellat/janitarr/internal/logging"
	"github.com/mpellat/janitarr/internal/notify"
)

type signupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// Signup creates an account and returns a fresh token.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to create account", err)
		return
	}

	user, err := h.store.CreateUser(r.Context(), req.Username, hash)
	if err != nil {
		if errors.Is(err, database.ErrUsernameTaken) {
			respondError(w, http.StatusConflict, "username_taken", "username already in use", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to create account", err)
		return
	}

	token, err := h.jwt.Generate(user.ID, user.Username)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to issue token", err)
		return
	}

	logging.Info().Str("user_id", user.ID).Msg("Account created")
	if h.notifier.Enabled() {
		h.notifier.Publish(notify.EventUserSignup, user.ID, map[string]string{"username": user.Username})
	}
	respondSuccess(w, http.StatusCreated, tokenResponse{Token: token, UserID: user.ID, Username: user.Username})
}

// Login checks credentials and returns a token. Unknown usernames and
// wrong passwords get the same answer.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	user, err := h.store.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "login failed", err)
		return
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		respondError(w, http.StatusUnauthorized, "invalid_credentials", "invalid username or password", nil)
		return
	}

	token, err := h.jwt.Generate(user.ID, user.Username)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to issue token", err)
		return
	}

	respondSuccess(w, http.StatusOK, tokenResponse{Token: token, UserID: user.ID, Username: user.Username})
}
