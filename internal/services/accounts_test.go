package services

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"inkwell/internal/apperr"
	"inkwell/internal/mailer"
	"inkwell/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccountService(env *testEnv, mail *mailer.MemorySender) *AccountService {
	return NewAccountService(env.store, env.auth, mail, "http://localhost:3000")
}

// mailedToken digs the verification token out of the recorded email.
func mailedToken(t *testing.T, mail *mailer.MemorySender) string {
	t.Helper()
	last := mail.Last()
	require.NotNil(t, last, "no verification mail recorded")

	start := strings.Index(last.Body, `href="`)
	require.GreaterOrEqual(t, start, 0)
	rest := last.Body[start+len(`href="`):]
	end := strings.Index(rest, `"`)
	require.GreaterOrEqual(t, end, 0)

	link, err := url.Parse(rest[:end])
	require.NoError(t, err)
	token := link.Query().Get("verificationToken")
	require.NotEmpty(t, token)
	return token
}

func TestSignUpVerifyLoginFlow(t *testing.T) {
	env := newTestEnv(t)
	mail := mailer.NewMemorySender()
	accounts := newAccountService(env, mail)
	ctx := context.Background()

	user, err := accounts.SignUp(ctx, "Alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.False(t, user.IsVerified)

	// Login before verification is rejected.
	_, _, err = accounts.Login(ctx, "alice@example.com", "s3cret-pass")
	assert.True(t, apperr.IsErrorCode(err, apperr.ErrNotVerified))

	token := mailedToken(t, mail)
	profile, err := accounts.VerifyEmail(ctx, "alice@example.com", token)
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, user.ID, profile.UserID)

	credential, loggedIn, err := accounts.Login(ctx, "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, credential)
	assert.True(t, loggedIn.IsVerified)

	// The credential resolves to the new profile.
	resolved, err := env.identity.Resolve(ctx, credential)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, profile.ID, resolved.ID)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	mail := mailer.NewMemorySender()
	accounts := newAccountService(env, mail)
	ctx := context.Background()

	_, err := accounts.SignUp(ctx, "Alice", "alice@example.com", "pass-one")
	require.NoError(t, err)

	_, err = accounts.SignUp(ctx, "Imposter", "alice@example.com", "pass-two")
	assert.True(t, apperr.IsErrorCode(err, apperr.ErrDuplicate))
}

func TestVerifyEmailBadToken(t *testing.T) {
	env := newTestEnv(t)
	mail := mailer.NewMemorySender()
	accounts := newAccountService(env, mail)
	ctx := context.Background()

	_, err := accounts.SignUp(ctx, "Alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, err = accounts.VerifyEmail(ctx, "alice@example.com", "wrong-token")
	assert.True(t, apperr.IsErrorCode(err, apperr.ErrInvalidToken))
}

func TestVerifyEmailIdempotent(t *testing.T) {
	env := newTestEnv(t)
	mail := mailer.NewMemorySender()
	accounts := newAccountService(env, mail)
	ctx := context.Background()

	_, err := accounts.SignUp(ctx, "Alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	token := mailedToken(t, mail)

	first, err := accounts.VerifyEmail(ctx, "alice@example.com", token)
	require.NoError(t, err)

	// A second redemption, even with a stale token, returns the
	// existing profile instead of failing or duplicating it.
	second, err := accounts.VerifyEmail(ctx, "alice@example.com", token)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestVerifyEmailRepairsMissingProfile(t *testing.T) {
	env := newTestEnv(t)
	accounts := newAccountService(env, mailer.NewMemorySender())
	ctx := context.Background()

	// A verified account whose profile create failed on an earlier
	// attempt: the user row exists, the profile row does not.
	now := time.Now()
	user := &models.User{
		ID:             uuid.New(),
		Name:           "Alice",
		Email:          "alice@example.com",
		HashedPassword: "hashed",
		Role:           models.RoleUser,
		IsVerified:     true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(t, env.store.SaveUser(ctx, user))

	profile, err := accounts.VerifyEmail(ctx, "alice@example.com", "any-token")
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, user.ID, profile.UserID)
	assert.Equal(t, "alice", profile.Username)

	stored, err := env.store.GetProfileByUser(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, profile.ID, stored.ID)
}

func TestVerifyEmailUsernameCollision(t *testing.T) {
	env := newTestEnv(t)
	mail := mailer.NewMemorySender()
	accounts := newAccountService(env, mail)
	ctx := context.Background()

	_, err := accounts.SignUp(ctx, "Alice One", "alice@one.com", "pass-one")
	require.NoError(t, err)
	tokenOne := mailedToken(t, mail)
	profileOne, err := accounts.VerifyEmail(ctx, "alice@one.com", tokenOne)
	require.NoError(t, err)
	assert.Equal(t, "alice", profileOne.Username)

	_, err = accounts.SignUp(ctx, "Alice Two", "alice@two.com", "pass-two")
	require.NoError(t, err)
	tokenTwo := mailedToken(t, mail)
	profileTwo, err := accounts.VerifyEmail(ctx, "alice@two.com", tokenTwo)
	require.NoError(t, err)
	assert.Equal(t, "alice1", profileTwo.Username)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	mail := mailer.NewMemorySender()
	accounts := newAccountService(env, mail)
	ctx := context.Background()

	_, err := accounts.SignUp(ctx, "Alice", "alice@example.com", "right-pass")
	require.NoError(t, err)
	token := mailedToken(t, mail)
	_, err = accounts.VerifyEmail(ctx, "alice@example.com", token)
	require.NoError(t, err)

	_, _, err = accounts.Login(ctx, "alice@example.com", "wrong-pass")
	assert.True(t, apperr.IsErrorCode(err, apperr.ErrInvalidCredentials))
}

func TestLoginUnknownEmail(t *testing.T) {
	env := newTestEnv(t)
	accounts := newAccountService(env, mailer.NewMemorySender())

	_, _, err := accounts.Login(context.Background(), "nobody@example.com", "pass")
	assert.True(t, apperr.IsErrorCode(err, apperr.ErrInvalidCredentials))
}
