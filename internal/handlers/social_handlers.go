package handlers

import (
	"net/http"

	"inkwell/internal/apperr"
	"inkwell/internal/models"

	"github.com/google/uuid"
)

// FollowRequest names the profile being followed or unfollowed. The
// profile may arrive as a bare id or an expanded object.
type FollowRequest struct {
	Profile models.Ref `json:"profile"`
}

// FollowStatusResponse reports whether the caller follows the target
type FollowStatusResponse struct {
	Following bool `json:"following"`
}

// HandleFollow handles requests to follow a profile
func (s *Server) HandleFollow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		defer s.track("social.follow")()

		var req FollowRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, err)
			return
		}

		if err := s.Social.Follow(r.Context(), credential(r), req.Profile.ID); err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, FollowStatusResponse{Following: true})
	}
}

// HandleUnfollow handles requests to unfollow a profile
func (s *Server) HandleUnfollow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		defer s.track("social.unfollow")()

		var req FollowRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, err)
			return
		}

		if err := s.Social.Unfollow(r.Context(), credential(r), req.Profile.ID); err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, FollowStatusResponse{Following: false})
	}
}

// HandleFollowStatus handles requests to check whether the caller
// follows a profile. Anonymous callers always get false.
func (s *Server) HandleFollowStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		defer s.track("social.status")()

		targetID, err := queryID(r, "profile")
		if err != nil {
			s.writeError(w, err)
			return
		}

		following, err := s.Social.IsFollowing(r.Context(), credential(r), targetID)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, FollowStatusResponse{Following: following})
	}
}

// queryID parses a required uuid query parameter.
func queryID(r *http.Request, param string) (uuid.UUID, error) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return uuid.Nil, apperr.New(apperr.ErrInvalidInput, param+" id required", nil)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.New(apperr.ErrInvalidInput, "Invalid "+param+" id", err)
	}
	return id, nil
}
