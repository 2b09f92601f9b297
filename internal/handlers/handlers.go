// Package handlers exposes the services over HTTP. Handlers decode the
// request, pull the raw session credential off it and hand both to the
// service layer; no identity resolution happens here.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"inkwell/internal/apperr"
	"inkwell/internal/metrics"
	"inkwell/internal/services"
	"inkwell/internal/ws"
)

// 8 MiB is plenty for avatars and cover images.
const maxUploadBytes = 8 << 20

// Server holds the service dependencies behind the HTTP surface.
type Server struct {
	Accounts   *services.AccountService
	Profiles   *services.ProfileService
	Social     *services.SocialGraphService
	Posts      *services.PostService
	Engagement *services.EngagementService
	Comments   *services.CommentService
	Identity   *services.IdentityResolver
	Hub        *ws.Hub
	Metrics    *metrics.Collector
}

func NewServer(
	accounts *services.AccountService,
	profiles *services.ProfileService,
	social *services.SocialGraphService,
	posts *services.PostService,
	engagement *services.EngagementService,
	comments *services.CommentService,
	identity *services.IdentityResolver,
	hub *ws.Hub,
	collector *metrics.Collector,
) *Server {
	return &Server{
		Accounts:   accounts,
		Profiles:   profiles,
		Social:     social,
		Posts:      posts,
		Engagement: engagement,
		Comments:   comments,
		Identity:   identity,
		Hub:        hub,
		Metrics:    collector,
	}
}

// credential extracts the raw session credential from the request.
// An absent or non-bearer Authorization header yields the empty
// credential, which the services treat as anonymous.
func credential(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	s.Metrics.IncrementErrors()

	var appErr *apperr.AppError
	if errors.As(err, &appErr) {
		s.writeJSON(w, apperr.HTTPStatus(appErr.Code), errorResponse{
			Code:    appErr.Code,
			Message: appErr.Message,
		})
		return
	}

	slog.Error("unhandled error", "error", err)
	s.writeJSON(w, http.StatusInternalServerError, errorResponse{
		Code:    "INTERNAL",
		Message: "Internal server error",
	})
}

// track records request count and latency for an operation.
func (s *Server) track(operation string) func() {
	s.Metrics.IncrementRequests()
	start := time.Now()
	return func() {
		s.Metrics.AddOperationLatency(operation, time.Since(start))
	}
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.New(apperr.ErrInvalidInput, "Invalid request body", err)
	}
	return nil
}

// formUpload reads an optional file field from a multipart form. A
// missing field returns (nil, nil).
func formUpload(r *http.Request, field string) (*services.Upload, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, apperr.New(apperr.ErrInvalidInput, "Invalid file upload", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		return nil, apperr.New(apperr.ErrInvalidInput, "Failed to read file upload", err)
	}
	if len(data) > maxUploadBytes {
		return nil, apperr.New(apperr.ErrInvalidInput, "File upload too large", nil)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &services.Upload{
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}
