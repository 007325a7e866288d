package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/airboeing1212/expense-tracker-api/internal/auth"
	"github.com/airboeing1212/expense-tracker-api/internal/core"
	"github.com/airboeing1212/expense-tracker-api/internal/log"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeError(w, r, fmt.Errorf("%w: username, email and password", errMissingFields))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := s.repo.CreateUser(r.Context(), req.Username, req.Email, hash)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.logger.InfoContext(r.Context(), "User registered",
		log.FieldOperation, log.OpRegister,
		log.FieldUserID, user.ID,
		log.FieldUsername, user.Username)

	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "user registered successfully",
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeError(w, r, fmt.Errorf("%w: username and password", errMissingFields))
		return
	}

	user, err := s.repo.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		// A missing user and a wrong password are indistinguishable to the
		// caller.
		if errors.Is(err, core.ErrUserNotFound) {
			writeError(w, r, core.ErrInvalidCredentials)
			return
		}
		writeError(w, r, err)
		return
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		writeError(w, r, core.ErrInvalidCredentials)
		return
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.logger.InfoContext(r.Context(), "User logged in",
		log.FieldOperation, log.OpLogin,
		log.FieldUserID, user.ID,
		log.FieldUsername, user.Username)

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "login successful",
		"token":   token,
		"user":    user,
	})
}
