package handlers

import (
	"net/http"
	"time"
)

// HandleHealth handles health check requests, serving the metrics
// snapshot alongside the status.
func (s *Server) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		s.writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":      "healthy",
			"server_time": time.Now(),
			"metrics":     s.Metrics.GetSnapshot(),
		})
	}
}

// Routes registers every handler on the mux.
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.HandleHealth())

	mux.HandleFunc("/signup", s.HandleSignUp())
	mux.HandleFunc("/verify-email", s.HandleVerifyEmail())
	mux.HandleFunc("/login", s.HandleLogin())
	mux.HandleFunc("/me", s.HandleMe())

	mux.HandleFunc("/profile", s.HandleGetProfile())
	mux.HandleFunc("/profile/update", s.HandleUpdateProfile())
	mux.HandleFunc("/profile/follow", s.HandleFollow())
	mux.HandleFunc("/profile/unfollow", s.HandleUnfollow())
	mux.HandleFunc("/profile/follow-status", s.HandleFollowStatus())

	mux.HandleFunc("/post", s.HandleGetPost())
	mux.HandleFunc("/posts", s.HandleListPosts())
	mux.HandleFunc("/post/create", s.HandleCreatePost())
	mux.HandleFunc("/post/update", s.HandleUpdatePost())
	mux.HandleFunc("/post/delete", s.HandleDeletePost())
	mux.HandleFunc("/post/featured", s.HandleFeatured())

	mux.HandleFunc("/post/upvote", s.HandleToggleUpvote())
	mux.HandleFunc("/post/save", s.HandleToggleReadingList())
	mux.HandleFunc("/post/unsave", s.HandleRemoveFromReadingList())
	mux.HandleFunc("/post/engagement", s.HandleEngagementStatus())

	mux.HandleFunc("/comment", s.HandleCreateComment())
	mux.HandleFunc("/comments", s.HandleListComments())

	mux.HandleFunc("/ws", s.HandleWebSocket())
}
