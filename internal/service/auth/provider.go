package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/techforgyms/techforgyms_backend/pkg/access"
	pasetotoken "github.com/techforgyms/techforgyms_backend/pkg/paseto"
)

// redisKeySession returns the Redis key for a session.
func redisKeySession(sessionID uuid.UUID) string { return "session:" + sessionID.String() }

// Tokens is the cookie pair carried by the browser.
type Tokens struct {
	Access    string
	Refresh   string
	ExpiresIn int64 // seconds until the access token expires
}

func (t Tokens) Empty() bool { return t.Access == "" && t.Refresh == "" }

// Identity is the outcome of session verification.
type Identity struct {
	Principal access.Principal
	SessionID uuid.UUID
}

// AccessFacts loads the authoritative role and gym link of a user.
type AccessFacts interface {
	AccessFacts(ctx context.Context, userID uuid.UUID) (role string, gymID *uuid.UUID, err error)
}

// Provider verifies session cookies and resolves the caller.
type Provider interface {
	Configured() bool
	// CurrentUser returns the caller for tokens. A non-nil *Tokens means the
	// access token was re-issued from the refresh token and must be re-emitted.
	// A stale or forged session yields an anonymous identity and no error;
	// errors are reserved for unreachable backing stores.
	CurrentUser(ctx context.Context, tokens Tokens) (Identity, *Tokens, error)
}

type provider struct {
	paseto   *pasetotoken.Manager
	rdb      *redis.Client
	profiles AccessFacts
}

// NewProvider builds a Provider. A nil paseto manager yields an unconfigured
// provider that reports every caller as anonymous.
func NewProvider(paseto *pasetotoken.Manager, rdb *redis.Client, profiles AccessFacts) Provider {
	return &provider{paseto: paseto, rdb: rdb, profiles: profiles}
}

func (p *provider) Configured() bool { return p.paseto != nil }

func (p *provider) CurrentUser(ctx context.Context, tokens Tokens) (Identity, *Tokens, error) {
	anon := Identity{Principal: access.Anonymous()}
	if !p.Configured() {
		return anon, nil, ErrNotConfigured
	}
	if tokens.Empty() {
		return anon, nil, nil
	}

	var refreshed *Tokens
	claims, err := p.paseto.VerifyAccess(tokens.Access)
	if err != nil {
		if tokens.Refresh == "" {
			return anon, nil, nil
		}
		claims, err = p.paseto.VerifyRefresh(tokens.Refresh)
		if err != nil {
			return anon, nil, nil
		}
		ok, err := p.sessionValid(ctx, claims.SessionID, claims.UserID)
		if err != nil || !ok {
			return anon, nil, err
		}
		refreshed, err = p.reissueAccess(ctx, claims.UserID, claims.SessionID, tokens.Refresh)
		if err != nil {
			return anon, nil, err
		}
	} else {
		ok, err := p.sessionValid(ctx, claims.SessionID, claims.UserID)
		if err != nil || !ok {
			return anon, nil, err
		}
	}

	principal, err := p.principal(ctx, claims.UserID)
	if err != nil {
		return anon, nil, err
	}
	return Identity{Principal: principal, SessionID: claims.SessionID}, refreshed, nil
}

// sessionValid reports whether the Redis session still exists and belongs to userID.
func (p *provider) sessionValid(ctx context.Context, sessionID, userID uuid.UUID) (bool, error) {
	owner, err := p.rdb.Get(ctx, redisKeySession(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get session: %w", err)
	}
	return owner == userID.String(), nil
}

func (p *provider) reissueAccess(ctx context.Context, userID, sessionID uuid.UUID, refresh string) (*Tokens, error) {
	if err := p.rdb.Expire(ctx, redisKeySession(sessionID), p.paseto.RefreshTTL()).Err(); err != nil {
		return nil, fmt.Errorf("extend session: %w", err)
	}
	accessToken, err := p.paseto.IssueAccess(userID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	return &Tokens{
		Access:    accessToken,
		Refresh:   refresh,
		ExpiresIn: int64(p.paseto.AccessTTL().Seconds()),
	}, nil
}

// principal loads role and gym from the profile store. A user with no
// profile row is authenticated with an unknown role.
func (p *provider) principal(ctx context.Context, userID uuid.UUID) (access.Principal, error) {
	out := access.Principal{UserID: userID, Authenticated: true}
	role, gymID, err := p.profiles.AccessFacts(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return out, nil
	}
	if err != nil {
		return access.Anonymous(), fmt.Errorf("load profile: %w", err)
	}
	out.Role = access.ParseRole(role)
	out.GymID = gymID
	return out, nil
}

// sessionStore creates and deletes Redis sessions for the auth service.
type sessionStore struct {
	paseto *pasetotoken.Manager
	rdb    *redis.Client
}

func (s sessionStore) configured() bool { return s.paseto != nil }

func (s sessionStore) create(ctx context.Context, userID uuid.UUID) (*Tokens, error) {
	if !s.configured() {
		return nil, ErrNotConfigured
	}
	sessionID := uuid.Must(uuid.NewV7())

	if err := s.rdb.Set(ctx, redisKeySession(sessionID), userID.String(), s.paseto.RefreshTTL()).Err(); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	accessToken, err := s.paseto.IssueAccess(userID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.paseto.IssueRefresh(userID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	return &Tokens{
		Access:    accessToken,
		Refresh:   refresh,
		ExpiresIn: int64(s.paseto.AccessTTL() / time.Second),
	}, nil
}

func (s sessionStore) delete(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	n, err := s.rdb.Del(ctx, redisKeySession(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	return n > 0, nil
}
