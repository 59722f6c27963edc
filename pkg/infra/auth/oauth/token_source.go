package oauth

import (
	"context"
	"sync"
	"time"
)

// refreshSkew renews a token this long before it expires.
const refreshSkew = 30 * time.Second

type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type CachedTokenSource struct {
	client TokenClient
	creds  Credentials
	now    func() time.Time

	mu      sync.Mutex
	current Token
}

// NewTokenSource fetches a token on first use and reuses it until it is
// about to expire. Tokens without an expiry are kept until Invalidate.
func NewTokenSource(client TokenClient, creds Credentials) *CachedTokenSource {
	return &CachedTokenSource{
		client: client,
		creds:  creds,
		now:    time.Now,
	}
}

func (s *CachedTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.valid() {
		return s.current.AccessToken, nil
	}
	token, err := s.client.GetToken(ctx, s.creds)
	if err != nil {
		return "", err
	}
	s.current = token
	return token.AccessToken, nil
}

// Invalidate drops the cached token, e.g. after the sidecar answered 401.
func (s *CachedTokenSource) Invalidate() {
	s.mu.Lock()
	s.current = Token{}
	s.mu.Unlock()
}

func (s *CachedTokenSource) valid() bool {
	if s.current.AccessToken == "" {
		return false
	}
	if s.current.ExpiresAt.IsZero() {
		return true
	}
	return s.now().Add(refreshSkew).Before(s.current.ExpiresAt)
}
