package auth

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sdi-labs/tubewise/internal/shared"
)

// StateSigner issues and verifies the OAuth `state` parameter as a signed,
// expiring, single-use token carrying the application user id.
//
// The state value is never trusted as a raw user id: the callback only
// accepts tokens this process signed, each at most once.
type StateSigner struct {
	secret []byte
	ttl    time.Duration

	mu     sync.Mutex
	nonces map[string]time.Time // jti -> expiry
}

// NewStateSigner creates a signer with the given HMAC secret and token
// lifetime. A non-positive ttl defaults to ten minutes.
func NewStateSigner(secret string, ttl time.Duration) *StateSigner {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &StateSigner{
		secret: []byte(secret),
		ttl:    ttl,
		nonces: make(map[string]time.Time),
	}
}

// Issue signs a state token for userID and records its nonce for single-use
// verification.
func (s *StateSigner) Issue(userID string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("%w: user id is required", shared.ErrInvalidInput)
	}

	now := time.Now()
	expiry := now.Add(s.ttl)
	nonce := shared.GenerateID()

	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ID:        nonce,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiry),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign state token: %w", err)
	}

	s.mu.Lock()
	s.prune(now)
	s.nonces[nonce] = expiry
	s.mu.Unlock()

	return signed, nil
}

// Verify validates a state token and consumes its nonce, returning the user
// id it was issued for.
//
// An absent, malformed, expired, forged, or replayed token fails with
// [shared.ErrInvalidState].
func (s *StateSigner) Verify(state string) (string, error) {
	if state == "" {
		return "", fmt.Errorf("state parameter absent: %w", shared.ErrInvalidState)
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(state, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrInvalidState, err)
	}

	if claims.Subject == "" || claims.ID == "" {
		return "", fmt.Errorf("state token missing claims: %w", shared.ErrInvalidState)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nonces[claims.ID]; !ok {
		return "", fmt.Errorf("state token already used: %w", shared.ErrInvalidState)
	}
	delete(s.nonces, claims.ID)

	return claims.Subject, nil
}

// prune drops expired nonces. Caller holds the lock.
func (s *StateSigner) prune(now time.Time) {
	for nonce, expiry := range s.nonces {
		if now.After(expiry) {
			delete(s.nonces, nonce)
		}
	}
}
