package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fjod/go_shop/internal/users"
)

type SignupRequestDTO struct {
	UserID   string `json:"UserID"`
	Password string `json:"Password"`
	Email    string `json:"Email"`
}

type LoginRequestDTO struct {
	Email    string `json:"Email"`
	Password string `json:"Password"`
}

type LoginResponseDTO struct {
	UserID string `json:"UserID"`
	Email  string `json:"Email"`
	Token  string `json:"token"`
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	u, err := s.users.Register(r.Context(), req.UserID, req.Password, req.Email)
	switch {
	case errors.Is(err, users.ErrMissingField):
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	case errors.Is(err, users.ErrUserExists):
		respondError(w, http.StatusConflict, "already_exists", "user already exists")
		return
	case err != nil:
		s.log.Error("signup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "signup failed")
		return
	}

	respondJSON(w, http.StatusCreated, u)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	u, token, err := s.users.Login(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, users.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "unauthenticated", "invalid credentials")
		return
	case err != nil:
		s.log.Error("login failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "login failed")
		return
	}

	respondJSON(w, http.StatusOK, LoginResponseDTO{UserID: u.ID, Email: u.Email, Token: token})
}
