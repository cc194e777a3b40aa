package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/core/domain"
	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/core/ports"
	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/metrics"
)

// AuthService owns the gateway's session lifecycle. It is the only component
// holding the session store's write side: login and registration create
// sessions, Probe resolves an unknown role, Logout clears it. Everything else
// reads sessions through the request context.
type AuthService struct {
	api        ports.BookingAPI
	sessions   ports.SessionStore
	jwtSecret  string
	sessionTTL time.Duration
	log        zerolog.Logger
}

func NewAuthService(api ports.BookingAPI, sessions ports.SessionStore, jwtSecret string, sessionTTL time.Duration, log zerolog.Logger) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &AuthService{
		api:        api,
		sessions:   sessions,
		jwtSecret:  jwtSecret,
		sessionTTL: sessionTTL,
		log:        log,
	}
}

// Login authenticates against the booking API, creates a gateway session
// holding the resolved role and the upstream cookie, and returns the signed
// session token for the browser cookie. A business error from the API is
// passed through for inline rendering.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, domain.Role, error) {
	role, upstreamCookie, err := s.api.Login(ctx, email, password)
	if err != nil {
		return "", domain.RoleUnknown, err
	}

	sess := &domain.Session{
		ID:             newSessionID(),
		Role:           role,
		UpstreamCookie: upstreamCookie,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.sessions.Put(ctx, sess); err != nil {
		return "", domain.RoleUnknown, err
	}

	token, err := s.mintToken(sess.ID)
	if err != nil {
		return "", domain.RoleUnknown, err
	}
	return token, role, nil
}

// Logout clears the gateway session regardless of whether the upstream call
// succeeds; an upstream failure is logged, not surfaced.
func (s *AuthService) Logout(ctx context.Context, sess *domain.Session) error {
	if err := s.api.Logout(ctx, sess.UpstreamCookie); err != nil {
		s.log.Warn().Err(err).Msg("upstream logout failed")
	}
	return s.sessions.Delete(ctx, sess.ID)
}

// RegisterCustomer forwards a self-registration request; the account lands in
// the admin approval queue and no session is created.
func (s *AuthService) RegisterCustomer(ctx context.Context, in ports.RegisterCustomerInput) error {
	return s.api.RegisterCustomer(ctx, in)
}

// Probe resolves the session's role via the booking API session check. It is
// idempotent and makes exactly one attempt: on success the resolved role is
// written into the session store and returned; on any failure it returns
// ErrUnauthenticated without touching the store. Failures are logged at debug
// only — the caller's fallback is a login redirect, not an error page.
func (s *AuthService) Probe(ctx context.Context, sess *domain.Session) (domain.Role, error) {
	if sess.Role.Known() {
		return sess.Role, nil
	}

	role, err := s.api.CheckAuth(ctx, sess.UpstreamCookie)
	if err != nil || !role.Known() {
		metrics.AuthProbesTotal.WithLabelValues("unauthenticated").Inc()
		s.log.Debug().Err(err).Msg("auth probe unresolved")
		return domain.RoleUnknown, domain.ErrUnauthenticated
	}

	sess.Role = role
	if err := s.sessions.Put(ctx, sess); err != nil {
		return domain.RoleUnknown, err
	}
	metrics.AuthProbesTotal.WithLabelValues(string(role)).Inc()
	return role, nil
}

// ResolveSession maps a signed browser token back to its stored session.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*domain.Session, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrUnauthenticated
	}

	sid, _ := claims["sid"].(string)
	if sid == "" {
		return nil, domain.ErrUnauthenticated
	}

	sess, err := s.sessions.Get(ctx, sid)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil, domain.ErrUnauthenticated
	}
	return sess, err
}

// SessionTTL is exposed so the cookie max-age matches the store expiry.
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessionTTL
}

func (s *AuthService) mintToken(sessionID string) (string, error) {
	claims := jwt.MapClaims{
		"sid": sessionID,
		"exp": time.Now().Add(s.sessionTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

func newSessionID() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
