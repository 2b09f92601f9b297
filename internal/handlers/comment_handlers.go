package handlers

import (
	"net/http"

	"inkwell/internal/models"
	"inkwell/internal/services"

	"github.com/google/uuid"
)

// CreateCommentRequest represents a request to add a comment. Post and
// parent may arrive as bare ids or expanded objects; a nil parent
// makes a root comment.
type CreateCommentRequest struct {
	Post   models.Ref  `json:"post"`
	Text   string      `json:"text"`
	Parent *models.Ref `json:"parent,omitempty"`
}

// HandleCreateComment handles requests to add a comment to a post
func (s *Server) HandleCreateComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		defer s.track("comment.create")()

		var req CreateCommentRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, err)
			return
		}

		var parentID *uuid.UUID
		if req.Parent != nil {
			parentID = &req.Parent.ID
		}

		comment, err := s.Comments.Add(r.Context(), credential(r), req.Post.ID, req.Text, parentID)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusCreated, comment)
	}
}

// HandleListComments handles requests for a post's comments as a
// threaded forest, siblings newest first.
func (s *Server) HandleListComments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		defer s.track("comment.list")()

		postID, err := queryID(r, "post")
		if err != nil {
			s.writeError(w, err)
			return
		}

		comments, err := s.Comments.ListForPost(r.Context(), postID)
		if err != nil {
			s.writeError(w, err)
			return
		}

		thread := services.BuildThread(comments)
		if thread == nil {
			thread = []*services.ThreadNode{}
		}
		s.writeJSON(w, http.StatusOK, thread)
	}
}
