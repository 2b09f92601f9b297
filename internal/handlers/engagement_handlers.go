package handlers

import (
	"net/http"

	"inkwell/internal/apperr"
	"inkwell/internal/models"
)

// EngagementRequest names the post being toggled. The post may arrive
// as a bare id or an expanded object.
type EngagementRequest struct {
	Post models.Ref `json:"post"`
}

// UpvoteResponse reports the caller's upvote state after the toggle
type UpvoteResponse struct {
	Upvoted bool `json:"upvoted"`
}

// ReadingListResponse reports the caller's save state after the toggle
type ReadingListResponse struct {
	Saved bool `json:"saved"`
}

// EngagementStatusResponse reports the caller's engagement with a post
type EngagementStatusResponse struct {
	Upvoted bool `json:"upvoted"`
	Saved   bool `json:"saved"`
}

// HandleToggleUpvote handles requests to toggle the caller's upvote
func (s *Server) HandleToggleUpvote() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		defer s.track("engagement.upvote")()

		var req EngagementRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, err)
			return
		}

		upvoted, err := s.Engagement.ToggleUpvote(r.Context(), credential(r), req.Post.ID)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, UpvoteResponse{Upvoted: upvoted})
	}
}

// HandleToggleReadingList handles requests to toggle a post in the
// caller's reading list
func (s *Server) HandleToggleReadingList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		defer s.track("engagement.save")()

		var req EngagementRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, err)
			return
		}

		saved, err := s.Engagement.ToggleReadingList(r.Context(), credential(r), req.Post.ID)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, ReadingListResponse{Saved: saved})
	}
}

// HandleRemoveFromReadingList handles requests to drop a post from the
// caller's reading list. Removing a post that is not saved succeeds.
func (s *Server) HandleRemoveFromReadingList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost && r.Method != http.MethodDelete {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		defer s.track("engagement.unsave")()

		var req EngagementRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, err)
			return
		}

		if err := s.Engagement.RemoveFromReadingList(r.Context(), credential(r), req.Post.ID); err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, ReadingListResponse{Saved: false})
	}
}

// HandleEngagementStatus handles requests for the caller's engagement
// with a post, looked up by slug. Anonymous callers get all false.
func (s *Server) HandleEngagementStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		defer s.track("engagement.status")()

		slug := r.URL.Query().Get("slug")
		if slug == "" {
			s.writeError(w, apperr.New(apperr.ErrInvalidInput, "Slug required", nil))
			return
		}

		upvoted, saved, err := s.Engagement.Status(r.Context(), credential(r), slug)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, EngagementStatusResponse{Upvoted: upvoted, Saved: saved})
	}
}
