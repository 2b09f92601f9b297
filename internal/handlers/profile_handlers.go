package handlers

import (
	"net/http"
	"strconv"

	"inkwell/internal/apperr"
	"inkwell/internal/services"
)

// UpdateProfileRequest represents a JSON request to edit the calling profile
type UpdateProfileRequest struct {
	FirstName    string `json:"firstname"`
	LastName     string `json:"lastname"`
	Bio          string `json:"bio"`
	DisplayEmail bool   `json:"displayemail"`
	WebsiteURL   string `json:"websiteurl"`
}

// HandleGetProfile handles requests to look up a profile by username
func (s *Server) HandleGetProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		defer s.track("profile.get")()

		username := r.URL.Query().Get("username")
		if username == "" {
			s.writeError(w, apperr.New(apperr.ErrInvalidInput, "Username required", nil))
			return
		}

		profile, err := s.Profiles.GetByUsername(r.Context(), username)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, profile)
	}
}

// HandleUpdateProfile handles requests to edit the calling profile.
// Accepts JSON, or multipart/form-data when a new avatar is attached.
func (s *Server) HandleUpdateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut && r.Method != http.MethodPatch {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		defer s.track("profile.update")()

		var input services.ProfileInput
		if isMultipart(r) {
			if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
				s.writeError(w, apperr.New(apperr.ErrInvalidInput, "Invalid multipart form", err))
				return
			}
			input.FirstName = r.FormValue("firstname")
			input.LastName = r.FormValue("lastname")
			input.Bio = r.FormValue("bio")
			input.WebsiteURL = r.FormValue("websiteurl")
			input.DisplayEmail, _ = strconv.ParseBool(r.FormValue("displayemail"))

			avatar, err := formUpload(r, "avatar")
			if err != nil {
				s.writeError(w, err)
				return
			}
			input.Avatar = avatar
		} else {
			var req UpdateProfileRequest
			if err := decodeJSON(r, &req); err != nil {
				s.writeError(w, err)
				return
			}
			input = services.ProfileInput{
				FirstName:    req.FirstName,
				LastName:     req.LastName,
				Bio:          req.Bio,
				DisplayEmail: req.DisplayEmail,
				WebsiteURL:   req.WebsiteURL,
			}
		}

		profile, err := s.Profiles.Update(r.Context(), credential(r), input)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, profile)
	}
}
