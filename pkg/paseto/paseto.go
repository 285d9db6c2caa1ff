package pasetotoken

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	paseto "aidanwoods.dev/go-paseto"
	"github.com/google/uuid"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 30 * 24 * time.Hour

	claimType    = "typ"
	claimSession = "sid"
)

type Config struct {
	Mode       Mode
	Issuer     string
	Audience   string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	// Implicit is the v4 implicit assertion; both sides must agree on it.
	Implicit []byte
}

// Manager issues and verifies the access/refresh pair behind a session.
// Tokens name a user and a session; authorization data is never embedded.
type Manager struct {
	cfg  Config
	now  func() time.Time
	seal func(*paseto.Token) (string, error)
	open func(*paseto.Parser, string) (*paseto.Token, error)
}

func New(cfg Config, keys Keys) (*Manager, error) {
	switch {
	case cfg.Mode != keys.Mode:
		return nil, ErrConfig{Msg: "cfg.Mode must match keys.Mode"}
	case cfg.Issuer == "":
		return nil, ErrConfig{Msg: "Issuer is required"}
	case cfg.Audience == "":
		return nil, ErrConfig{Msg: "Audience is required"}
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = defaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = defaultRefreshTTL
	}

	m := &Manager{cfg: cfg, now: time.Now}
	implicit := cfg.Implicit
	switch keys.Mode {
	case ModeLocal:
		if keys.Symmetric == nil {
			return nil, ErrConfig{Msg: "missing symmetric key"}
		}
		key := *keys.Symmetric
		m.seal = func(t *paseto.Token) (string, error) { return t.V4Encrypt(key, implicit), nil }
		m.open = func(p *paseto.Parser, s string) (*paseto.Token, error) { return p.ParseV4Local(key, s, implicit) }
	case ModePublic:
		if keys.Public == nil {
			return nil, ErrConfig{Msg: "missing public key"}
		}
		pub := *keys.Public
		m.open = func(p *paseto.Parser, s string) (*paseto.Token, error) { return p.ParseV4Public(pub, s, implicit) }
		if keys.Secret == nil {
			m.seal = func(*paseto.Token) (string, error) { return "", ErrConfig{Msg: "verify-only manager cannot issue tokens"} }
		} else {
			secret := *keys.Secret
			m.seal = func(t *paseto.Token) (string, error) { return t.V4Sign(secret, implicit), nil }
		}
	default:
		return nil, ErrConfig{Msg: "unknown mode " + string(keys.Mode)}
	}
	return m, nil
}

func (m *Manager) AccessTTL() time.Duration  { return m.cfg.AccessTTL }
func (m *Manager) RefreshTTL() time.Duration { return m.cfg.RefreshTTL }

func (m *Manager) IssueAccess(userID, sessionID uuid.UUID) (string, error) {
	return m.issue(TokenTypeAccess, userID, sessionID, m.cfg.AccessTTL)
}

func (m *Manager) IssueRefresh(userID, sessionID uuid.UUID) (string, error) {
	return m.issue(TokenTypeRefresh, userID, sessionID, m.cfg.RefreshTTL)
}

func (m *Manager) VerifyAccess(token string) (*Claims, error) {
	return m.verifyAs(token, TokenTypeAccess)
}

func (m *Manager) VerifyRefresh(token string) (*Claims, error) {
	return m.verifyAs(token, TokenTypeRefresh)
}

func (m *Manager) verifyAs(token string, want TokenType) (*Claims, error) {
	c, err := m.Verify(token)
	if err != nil {
		return nil, err
	}
	if c.Type != want {
		return nil, ErrInvalidToken{Err: ErrWrongTokenType}
	}
	return c, nil
}

// Verify checks signature or encryption, issuer, audience and the time
// window, and returns the claims of a token of either type.
func (m *Manager) Verify(token string) (*Claims, error) {
	// ValidAt captures its instant, so the parser is built per call.
	p := paseto.NewParser()
	p.AddRule(paseto.IssuedBy(m.cfg.Issuer))
	p.AddRule(paseto.ForAudience(m.cfg.Audience))
	p.AddRule(paseto.ValidAt(m.now()))

	tok, err := m.open(&p, token)
	if err != nil {
		return nil, ErrInvalidToken{Err: err}
	}
	c, err := claimsOf(tok)
	if err != nil {
		return nil, ErrInvalidToken{Err: err}
	}
	c.Issuer, c.Audience = m.cfg.Issuer, m.cfg.Audience
	return c, nil
}

func (m *Manager) issue(typ TokenType, userID, sessionID uuid.UUID, ttl time.Duration) (string, error) {
	now := m.now()
	tok := paseto.NewToken()
	tok.SetIssuer(m.cfg.Issuer)
	tok.SetAudience(m.cfg.Audience)
	tok.SetSubject(userID.String())
	tok.SetJti(newTokenID())
	tok.SetIssuedAt(now)
	tok.SetNotBefore(now)
	tok.SetExpiration(now.Add(ttl))
	tok.SetString(claimType, string(typ))
	tok.SetString(claimSession, sessionID.String())
	return m.seal(&tok)
}

func newTokenID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

// claimReader keeps the first error so claim extraction reads top to bottom.
type claimReader struct{ err error }

func (r *claimReader) str(get func() (string, error)) string {
	if r.err != nil {
		return ""
	}
	v, err := get()
	r.err = err
	return v
}

func (r *claimReader) at(get func() (time.Time, error)) time.Time {
	if r.err != nil {
		return time.Time{}
	}
	v, err := get()
	r.err = err
	return v
}

func (r *claimReader) id(get func() (string, error)) uuid.UUID {
	s := r.str(get)
	if r.err != nil {
		return uuid.Nil
	}
	v, err := uuid.Parse(s)
	r.err = err
	return v
}

func claimsOf(tok *paseto.Token) (*Claims, error) {
	r := &claimReader{}
	get := func(key string) func() (string, error) {
		return func() (string, error) { return tok.GetString(key) }
	}
	c := &Claims{
		Type:      TokenType(r.str(get(claimType))),
		UserID:    r.id(tok.GetSubject),
		SessionID: r.id(get(claimSession)),
		TokenID:   r.str(tok.GetJti),
		IssuedAt:  r.at(tok.GetIssuedAt),
		NotBefore: r.at(tok.GetNotBefore),
		ExpiresAt: r.at(tok.GetExpiration),
	}
	if r.err != nil {
		return nil, r.err
	}
	return c, nil
}
