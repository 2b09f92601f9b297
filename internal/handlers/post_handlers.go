package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"inkwell/internal/apperr"
	"inkwell/internal/models"
	"inkwell/internal/services"

	"github.com/google/uuid"
)

// PostRequest represents a JSON request to create or update a post.
// Categories may arrive as bare ids or expanded objects.
type PostRequest struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Content     string       `json:"content"`
	Slug        string       `json:"slug"`
	Categories  []models.Ref `json:"categories"`
}

func (req *PostRequest) toInput() services.PostInput {
	categories := make([]uuid.UUID, len(req.Categories))
	for i, ref := range req.Categories {
		categories[i] = ref.ID
	}
	return services.PostInput{
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		Slug:        req.Slug,
		Categories:  categories,
	}
}

// postInput decodes a create or update body. Multipart carries the
// post fields in a "post" JSON part plus an optional "coverImage" file;
// plain JSON carries the fields directly.
func postInput(r *http.Request) (services.PostInput, error) {
	if !isMultipart(r) {
		var req PostRequest
		if err := decodeJSON(r, &req); err != nil {
			return services.PostInput{}, err
		}
		return req.toInput(), nil
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return services.PostInput{}, apperr.New(apperr.ErrInvalidInput, "Invalid multipart form", err)
	}
	var req PostRequest
	if raw := r.FormValue("post"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req); err != nil {
			return services.PostInput{}, apperr.New(apperr.ErrInvalidInput, "Invalid post payload", err)
		}
	}
	input := req.toInput()

	cover, err := formUpload(r, "coverImage")
	if err != nil {
		return services.PostInput{}, err
	}
	input.CoverImage = cover
	return input, nil
}

// HandleCreatePost handles requests to publish a new post
func (s *Server) HandleCreatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		defer s.track("post.create")()

		input, err := postInput(r)
		if err != nil {
			s.writeError(w, err)
			return
		}

		post, err := s.Posts.Create(r.Context(), credential(r), input)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusCreated, post)
	}
}

// HandleUpdatePost handles requests to edit a post
func (s *Server) HandleUpdatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut && r.Method != http.MethodPatch {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		defer s.track("post.update")()

		postID, err := queryID(r, "post")
		if err != nil {
			s.writeError(w, err)
			return
		}
		input, err := postInput(r)
		if err != nil {
			s.writeError(w, err)
			return
		}

		post, err := s.Posts.Update(r.Context(), credential(r), postID, input)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, post)
	}
}

// HandleDeletePost handles requests to delete a post
func (s *Server) HandleDeletePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		defer s.track("post.delete")()

		postID, err := queryID(r, "post")
		if err != nil {
			s.writeError(w, err)
			return
		}

		if err := s.Posts.Delete(r.Context(), credential(r), postID); err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
	}
}

// HandleGetPost handles requests to look up a post by slug
func (s *Server) HandleGetPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		defer s.track("post.get")()

		slug := r.URL.Query().Get("slug")
		if slug == "" {
			s.writeError(w, apperr.New(apperr.ErrInvalidInput, "Slug required", nil))
			return
		}

		post, err := s.Posts.GetBySlug(r.Context(), slug)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, post)
	}
}

// HandleListPosts handles requests to list posts, newest first.
// Filters: profile query parameter limits to a single author.
func (s *Server) HandleListPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		defer s.track("post.list")()

		if raw := r.URL.Query().Get("profile"); raw != "" {
			profileID, err := uuid.Parse(raw)
			if err != nil {
				s.writeError(w, apperr.New(apperr.ErrInvalidInput, "Invalid profile id", err))
				return
			}
			posts, err := s.Posts.ListByProfile(r.Context(), profileID)
			if err != nil {
				s.writeError(w, err)
				return
			}
			s.writeJSON(w, http.StatusOK, posts)
			return
		}

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		posts, err := s.Posts.List(r.Context(), limit, offset)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, posts)
	}
}

// HandleFeatured handles requests for the featured post. The featured
// flag follows the upvote standings, so each request recomputes it and
// returns the current holder.
func (s *Server) HandleFeatured() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		defer s.track("post.featured")()

		post, err := s.Posts.SetFeatured(r.Context())
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, post)
	}
}
