// Command seed fills a store with demo content: profiles, posts and a
// plausible spread of follows, upvotes and comments. Useful for local
// frontend work and for eyeballing the featured-post rotation.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"inkwell/internal/auth"
	"inkwell/internal/blob"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/models"
	"inkwell/internal/services"

	"github.com/google/uuid"
	"github.com/lmittmann/tint"
	"golang.org/x/crypto/bcrypt"
)

type seedStats struct {
	profiles int
	posts    int
	follows  int
	upvotes  int
	saves    int
	comments int
}

var titles = []string{
	"Getting Started with Document Stores",
	"Why Slugs Beat Numeric IDs",
	"Threaded Comments Without Recursion Limits",
	"Eventual Consistency in Two-Document Writes",
	"A Reading List That Survives Deletes",
	"Notes on WebSocket Backpressure",
	"Structured Logging in Small Services",
	"The Case for Explicit Credentials",
}

func main() {
	numProfiles := flag.Int("profiles", 8, "number of demo profiles")
	numPosts := flag.Int("posts", 16, "number of demo posts")
	seed := flag.Int64("seed", time.Now().UnixNano(), "rng seed")
	flag.Parse()

	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: slog.LevelInfo})))

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	var store database.Store
	if cfg.Mongo.URI != "" {
		mongo, err := database.NewMongoDB(cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			slog.Error("failed to connect to MongoDB", "error", err)
			os.Exit(1)
		}
		store = mongo
	} else {
		slog.Error("seeding needs MONGODB_URI; an in-memory store would vanish with this process")
		os.Exit(1)
	}
	defer store.Close(ctx)

	rng := rand.New(rand.NewSource(*seed))
	authenticator := auth.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	identity := services.NewIdentityResolver(store, authenticator)
	slugs := services.NewSlugAllocator(store)
	posts := services.NewPostService(store, identity, slugs, blob.NewMemoryFileStore())
	social := services.NewSocialGraphService(store, identity, nil)
	engagement := services.NewEngagementService(store, identity, nil)
	comments := services.NewCommentService(store, identity, nil)

	var stats seedStats

	// Pre-verified accounts; the credentials double as the simulated
	// sessions for the activity below.
	credentials := make([]string, 0, *numProfiles)
	profiles := make([]*models.Profile, 0, *numProfiles)
	for i := 0; i < *numProfiles; i++ {
		profile, credential, err := seedProfile(ctx, store, authenticator, i)
		if err != nil {
			slog.Error("failed to seed profile", "error", err)
			os.Exit(1)
		}
		profiles = append(profiles, profile)
		credentials = append(credentials, credential)
		stats.profiles++
	}

	postIDs := make([]uuid.UUID, 0, *numPosts)
	for i := 0; i < *numPosts; i++ {
		author := rng.Intn(len(credentials))
		title := fmt.Sprintf("%s #%d", titles[rng.Intn(len(titles))], i+1)
		post, err := posts.Create(ctx, credentials[author], services.PostInput{
			Title:       title,
			Description: "Seeded demo post",
			Content:     "Lorem ipsum dolor sit amet, generated for local development.",
		})
		if err != nil {
			slog.Error("failed to seed post", "title", title, "error", err)
			os.Exit(1)
		}
		postIDs = append(postIDs, post.ID)
		stats.posts++
	}

	// Roughly a third of all possible follow edges.
	for i, credential := range credentials {
		for j, target := range profiles {
			if i == j || rng.Float64() > 0.33 {
				continue
			}
			if err := social.Follow(ctx, credential, target.ID); err != nil {
				slog.Warn("seed follow failed", "error", err)
				continue
			}
			stats.follows++
		}
	}

	// Engagement skews toward earlier posts so the featured rotation
	// has a clear winner.
	for i, credential := range credentials {
		for j, postID := range postIDs {
			weight := 1.0 / float64(j+1)
			if rng.Float64() < weight {
				if _, err := engagement.ToggleUpvote(ctx, credential, postID); err == nil {
					stats.upvotes++
				}
			}
			if rng.Float64() < weight/2 {
				if _, err := engagement.ToggleReadingList(ctx, credential, postID); err == nil {
					stats.saves++
				}
			}
			if rng.Float64() < weight/2 {
				text := fmt.Sprintf("Seeded comment from %s", profiles[i].Username)
				if _, err := comments.Add(ctx, credential, postID, text, nil); err == nil {
					stats.comments++
				}
			}
		}
	}

	featured, err := posts.SetFeatured(ctx)
	if err != nil {
		slog.Warn("failed to set featured post", "error", err)
	} else if featured != nil {
		slog.Info("featured post", "slug", featured.Slug, "upvotes", featured.UpvoteCount)
	}

	slog.Info("seed complete",
		"profiles", stats.profiles,
		"posts", stats.posts,
		"follows", stats.follows,
		"upvotes", stats.upvotes,
		"saves", stats.saves,
		"comments", stats.comments)
}

// seedProfile writes a verified user and its profile directly; the
// signup email loop is pointless for demo data.
func seedProfile(ctx context.Context, store database.Store, authenticator *auth.Authenticator, n int) (*models.Profile, string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("demo-password"), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	now := time.Now()
	user := &models.User{
		ID:             uuid.New(),
		Name:           fmt.Sprintf("Demo Writer %d", n+1),
		Email:          fmt.Sprintf("writer%d@example.com", n+1),
		HashedPassword: string(hashed),
		Role:           models.RoleUser,
		IsVerified:     true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := store.SaveUser(ctx, user); err != nil {
		return nil, "", err
	}

	profile := &models.Profile{
		ID:          uuid.New(),
		UserID:      user.ID,
		Username:    fmt.Sprintf("writer%d", n+1),
		Bio:         "Seeded demo profile",
		Followers:   []uuid.UUID{},
		Following:   []uuid.UUID{},
		ReadingList: []uuid.UUID{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := store.SaveProfile(ctx, profile); err != nil {
		return nil, "", err
	}

	credential, err := authenticator.IssueToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return profile, credential, nil
}
