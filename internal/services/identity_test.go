package services

import (
	"context"
	"testing"
	"time"

	"inkwell/internal/auth"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveValidCredential(t *testing.T) {
	env := newTestEnv(t)
	alice, aliceCred := env.newProfile(t, "alice")

	resolved, err := env.identity.Resolve(context.Background(), aliceCred)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, alice.ID, resolved.ID)
}

func TestResolveAnonymousVariants(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Absent and malformed credentials resolve to anonymous, not to an
	// error.
	for _, credential := range []string{"", "garbage", "a.b.c"} {
		resolved, err := env.identity.Resolve(ctx, credential)
		require.NoError(t, err)
		assert.Nil(t, resolved, "credential %q", credential)
	}
}

func TestResolveForeignSecret(t *testing.T) {
	env := newTestEnv(t)
	alice, _ := env.newProfile(t, "alice")

	forged, err := auth.NewAuthenticator("other-secret", time.Hour).IssueToken(alice.UserID)
	require.NoError(t, err)

	// Wrong signature resolves to anonymous, never to an error.
	resolved, err := env.identity.Resolve(context.Background(), forged)
	require.NoError(t, err)
	assert.Nil(t, resolved)
}

func TestResolveUserWithoutProfile(t *testing.T) {
	env := newTestEnv(t)

	credential, err := env.auth.IssueToken(uuid.New())
	require.NoError(t, err)

	resolved, err := env.identity.Resolve(context.Background(), credential)
	require.NoError(t, err)
	assert.Nil(t, resolved)
}

func TestResolveExpiredCredential(t *testing.T) {
	env := newTestEnv(t)
	alice, _ := env.newProfile(t, "alice")

	// Same secret, negative TTL: the token is already expired when issued.
	expired, err := auth.NewAuthenticator("test-secret", -time.Hour).IssueToken(alice.UserID)
	require.NoError(t, err)

	resolved, err := env.identity.Resolve(context.Background(), expired)
	require.NoError(t, err)
	assert.Nil(t, resolved)
}
