// internal/auth/token.go
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims represents the JWT claims for a session credential
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	jwt.RegisteredClaims
}

// Authenticator issues and decodes the opaque session credential. The
// credential format is an implementation detail of this package; the
// rest of the system treats it as a string.
type Authenticator struct {
	secret   []byte
	tokenTTL time.Duration
}

func NewAuthenticator(secret string, tokenTTL time.Duration) *Authenticator {
	return &Authenticator{
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

// IssueToken creates a new session credential for the given user ID
func (a *Authenticator) IssueToken(userID uuid.UUID) (string, error) {
	expirationTime := time.Now().Add(a.tokenTTL)

	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "inkwell-api",
			Subject:   userID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(a.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// DecodeUserID extracts the user ID from a session credential. It
// fails softly: absent, malformed, forged or expired credentials all
// return uuid.Nil so anonymous callers are an expected outcome, never
// an error.
func (a *Authenticator) DecodeUserID(credential string) uuid.UUID {
	if credential == "" {
		return uuid.Nil
	}

	token, err := jwt.ParseWithClaims(
		credential,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return a.secret, nil
		},
	)
	if err != nil {
		return uuid.Nil
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return uuid.Nil
	}
	if claims.ExpiresAt != nil && time.Now().After(claims.ExpiresAt.Time) {
		return uuid.Nil
	}

	return claims.UserID
}

// GenerateVerificationToken returns a random token for the signup
// email and its SHA-256 hex digest; only the digest is stored.
func GenerateVerificationToken() (token string, digest string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	token = base64.URLEncoding.EncodeToString(b)
	return token, HashVerificationToken(token), nil
}

// HashVerificationToken returns the SHA-256 hex digest of a token.
func HashVerificationToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
