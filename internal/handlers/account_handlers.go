package handlers

import (
	"net/http"
)

// SignUpRequest represents a request to register a new account
type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyEmailRequest represents a request to redeem a verification token
type VerifyEmailRequest struct {
	Email             string `json:"email"`
	VerificationToken string `json:"verificationToken"`
}

// LoginRequest represents a request to log in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the session credential on success
type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

// HandleSignUp handles requests to register a new account
func (s *Server) HandleSignUp() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		defer s.track("account.signup")()

		var req SignUpRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, err)
			return
		}

		user, err := s.Accounts.SignUp(r.Context(), req.Name, req.Email, req.Password)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusCreated, user)
	}
}

// HandleVerifyEmail handles requests to verify a signup email
func (s *Server) HandleVerifyEmail() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		defer s.track("account.verify")()

		var req VerifyEmailRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, err)
			return
		}

		profile, err := s.Accounts.VerifyEmail(r.Context(), req.Email, req.VerificationToken)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, profile)
	}
}

// HandleLogin handles requests to log in
func (s *Server) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		defer s.track("account.login")()

		var req LoginRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, err)
			return
		}

		token, user, err := s.Accounts.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, LoginResponse{
			Token:  token,
			UserID: user.ID.String(),
			Name:   user.Name,
		})
	}
}

// HandleMe returns the profile behind the caller's credential
func (s *Server) HandleMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		defer s.track("account.me")()

		profile, err := s.Identity.Resolve(r.Context(), credential(r))
		if err != nil {
			s.writeError(w, err)
			return
		}
		if profile == nil {
			s.writeJSON(w, http.StatusOK, nil)
			return
		}
		s.writeJSON(w, http.StatusOK, profile)
	}
}
