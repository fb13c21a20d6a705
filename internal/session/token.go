// Package session issues and checks the opaque bearer tokens handed out by
// the mock auth endpoints.
package session

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/pigeonworks-llc/campus-budget/internal/store"
)

const (
	tokenLength = 32
	// DefaultTTL is how long an issued token stays valid.
	DefaultTTL = 24 * time.Hour
)

// Session is what a token resolves to.
type Session struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// TokenManager manages bearer tokens in the bolt tokens bucket.
type TokenManager struct {
	store *store.Store
	ttl   time.Duration
	now   func() time.Time
}

// NewTokenManager creates a TokenManager. A zero ttl uses DefaultTTL.
func NewTokenManager(s *store.Store, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TokenManager{store: s, ttl: ttl, now: time.Now}
}

// Issue generates a new token for the user and stores it.
func (tm *TokenManager) Issue(userID, email string) (string, error) {
	token, err := generateRandomToken(tokenLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	now := tm.now()
	sess := Session{UserID: userID, Email: email, IssuedAt: now, ExpiresAt: now.Add(tm.ttl)}
	if err := tm.store.Put(store.BucketTokens, token, sess); err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}

	return token, nil
}

// Validate returns the session for a live token. Unknown and expired
// tokens return ok == false; expired ones are removed.
func (tm *TokenManager) Validate(token string) (Session, bool, error) {
	var sess Session
	if token == "" {
		return sess, false, nil
	}
	if err := tm.store.Get(store.BucketTokens, token, &sess); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return sess, false, nil
		}
		return sess, false, fmt.Errorf("failed to get token: %w", err)
	}

	if tm.now().After(sess.ExpiresAt) {
		_ = tm.store.Remove(store.BucketTokens, token)
		return sess, false, nil
	}

	return sess, true, nil
}

// Revoke deletes a token. Revoking an unknown token is not an error.
func (tm *TokenManager) Revoke(token string) error {
	return tm.store.Remove(store.BucketTokens, token)
}

// generateRandomToken generates a random token string.
func generateRandomToken(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
