package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"inkwell/internal/apperr"
	"inkwell/internal/auth"
	"inkwell/internal/database"
	"inkwell/internal/mailer"
	"inkwell/internal/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const verificationTokenTTL = 24 * time.Hour

// AccountService handles signup, email verification and login. The
// account (User) holds credentials; the public Profile is created only
// once the email is verified.
type AccountService struct {
	store      database.Store
	auth       *auth.Authenticator
	mail       mailer.Sender
	appBaseURL string
}

func NewAccountService(store database.Store, authenticator *auth.Authenticator, mail mailer.Sender, appBaseURL string) *AccountService {
	return &AccountService{
		store:      store,
		auth:       authenticator,
		mail:       mail,
		appBaseURL: appBaseURL,
	}
}

// SignUp registers a new account and mails the verification link. The
// account stays unusable until VerifyEmail succeeds.
func (s *AccountService) SignUp(ctx context.Context, name, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, apperr.New(apperr.ErrInvalidInput, "Email and password are required", nil)
	}

	existing, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, apperr.NewUpstreamFailure("account lookup", err)
	}
	if existing != nil {
		return nil, apperr.New(apperr.ErrDuplicate, "An account with this email already exists", nil)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	if err != nil {
		return nil, apperr.New(apperr.ErrInvalidInput, "Failed to hash password", err)
	}

	token, digest, err := auth.GenerateVerificationToken()
	if err != nil {
		return nil, apperr.NewUpstreamFailure("verification token generation", err)
	}

	now := time.Now()
	expiry := now.Add(verificationTokenTTL)
	user := &models.User{
		ID:                      uuid.New(),
		Name:                    name,
		Email:                   email,
		HashedPassword:          string(hashed),
		Role:                    models.RoleUser,
		VerificationToken:       digest,
		VerificationTokenExpiry: &expiry,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	if err := s.store.SaveUser(ctx, user); err != nil {
		return nil, apperr.NewUpstreamFailure("account create", err)
	}

	link := fmt.Sprintf("%s/verify-email?email=%s&verificationToken=%s",
		s.appBaseURL, url.QueryEscape(email), url.QueryEscape(token))
	s.mail.Send(email, "Verify your email address", mailer.VerificationEmail(link))

	slog.Info("account created", "user", user.ID, "email", email)
	return user, nil
}

// VerifyEmail redeems the mailed token, marks the account verified and
// creates its public profile. Verifying an already verified account is
// a no-op that returns the existing profile.
func (s *AccountService) VerifyEmail(ctx context.Context, email, token string) (*models.Profile, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, apperr.NewUpstreamFailure("account lookup", err)
	}
	if user == nil {
		return nil, apperr.NewNotFound("Account", email)
	}

	if user.IsVerified {
		profile, err := s.store.GetProfileByUser(ctx, user.ID)
		if err != nil {
			return nil, apperr.NewUpstreamFailure("profile lookup", err)
		}
		if profile == nil {
			// The account verified but the profile create failed on an
			// earlier attempt. Finish the job now.
			return s.createProfile(ctx, user, email)
		}
		return profile, nil
	}

	if user.VerificationToken == "" || auth.HashVerificationToken(token) != user.VerificationToken {
		return nil, apperr.New(apperr.ErrInvalidToken, "Invalid verification token", nil)
	}
	if user.VerificationTokenExpiry == nil || time.Now().After(*user.VerificationTokenExpiry) {
		return nil, apperr.New(apperr.ErrInvalidToken, "Verification token expired", nil)
	}

	user.IsVerified = true
	user.VerificationToken = ""
	user.VerificationTokenExpiry = nil
	user.UpdatedAt = time.Now()
	if err := s.store.SaveUser(ctx, user); err != nil {
		return nil, apperr.NewUpstreamFailure("account update", err)
	}

	return s.createProfile(ctx, user, email)
}

func (s *AccountService) createProfile(ctx context.Context, user *models.User, email string) (*models.Profile, error) {
	username, err := s.availableUsername(ctx, usernameFromEmail(email))
	if err != nil {
		return nil, err
	}

	now := time.Now()
	profile := &models.Profile{
		ID:          uuid.New(),
		UserID:      user.ID,
		Username:    username,
		Followers:   []uuid.UUID{},
		Following:   []uuid.UUID{},
		ReadingList: []uuid.UUID{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.SaveProfile(ctx, profile); err != nil {
		return nil, apperr.NewUpstreamFailure("profile create", err)
	}

	slog.Info("account verified", "user", user.ID, "username", username)
	return profile, nil
}

// Login checks credentials and issues a session credential. Unverified
// accounts cannot log in.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return "", nil, apperr.NewUpstreamFailure("account lookup", err)
	}
	if user == nil {
		return "", nil, apperr.New(apperr.ErrInvalidCredentials, "Invalid email or password", nil)
	}
	if !user.IsVerified {
		return "", nil, apperr.New(apperr.ErrNotVerified, "Email address is not verified", nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return "", nil, apperr.New(apperr.ErrInvalidCredentials, "Invalid email or password", nil)
	}

	credential, err := s.auth.IssueToken(user.ID)
	if err != nil {
		return "", nil, apperr.NewUpstreamFailure("token issue", err)
	}
	return credential, user, nil
}

// availableUsername probes for a free username, appending a numeric
// suffix on collision.
func (s *AccountService) availableUsername(ctx context.Context, base string) (string, error) {
	candidate := base
	for suffix := 1; ; suffix++ {
		existing, err := s.store.GetProfileByUsername(ctx, candidate)
		if err != nil {
			return "", apperr.NewUpstreamFailure("username lookup", err)
		}
		if existing == nil {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, suffix)
	}
}

func usernameFromEmail(email string) string {
	local := email
	if at := strings.Index(email, "@"); at > 0 {
		local = email[:at]
	}
	return strings.ToLower(local)
}
