package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	applog "portfolio/app/internal/log"
)

const (
	// CookieName carries the admin session token.
	CookieName = "admin_session"

	DefaultSessionTTL = 12 * time.Hour

	demoEmail    = "admin@example.com"
	demoPassword = "password"
)

var (
	// ErrInvalidCredentials indicates a failed login.
	ErrInvalidCredentials = eris.New("invalid email or password")
	// ErrUnauthorized indicates a missing, unknown or expired session.
	ErrUnauthorized = eris.New("admin session required")
)

// Options configures the admin Authenticator.
type Options struct {
	Email       string
	Password    string
	Development bool
	SessionTTL  time.Duration
	Logger      *logrus.Logger
	Now         func() time.Time
}

// Session is an authenticated admin login.
type Session struct {
	Token     string    `json:"-"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Authenticator checks the single admin account and keeps sessions in memory.
// Sessions are indexed by a hash of their token.
type Authenticator struct {
	email    string
	password string
	ttl      time.Duration
	logger   *logrus.Logger
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]Session
}

// New builds an Authenticator. Without a configured password the demo
// credentials are accepted, but only in development.
func New(opts Options) (*Authenticator, error) {
	logger := opts.Logger
	if logger == nil {
		logger = applog.Discard()
	}

	email := strings.ToLower(strings.TrimSpace(opts.Email))
	password := opts.Password
	if password == "" {
		if !opts.Development {
			return nil, eris.New("ADMIN_PASSWORD is required outside development")
		}
		email, password = demoEmail, demoPassword
		logger.WithField("component", "auth").Warn("using demo admin credentials; set ADMIN_PASSWORD")
	}
	if email == "" {
		return nil, eris.New("admin email is required")
	}

	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Authenticator{
		email:    email,
		password: password,
		ttl:      ttl,
		logger:   logger,
		now:      now,
		sessions: map[string]Session{},
	}, nil
}

// Login verifies the credentials and opens a session.
func (a *Authenticator) Login(email, password string) (Session, error) {
	emailOK := subtle.ConstantTimeCompare([]byte(strings.ToLower(strings.TrimSpace(email))), []byte(a.email)) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	if !emailOK || !passwordOK {
		a.logger.WithField("component", "auth").Warn("failed admin login attempt")
		return Session{}, ErrInvalidCredentials
	}

	now := a.now()
	session := Session{
		Token:     uuid.NewString(),
		Email:     a.email,
		ExpiresAt: now.Add(a.ttl),
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.pruneLocked(now)
	a.sessions[tokenKey(session.Token)] = session

	return session, nil
}

// Validate returns the live session for token.
func (a *Authenticator) Validate(token string) (Session, error) {
	if strings.TrimSpace(token) == "" {
		return Session{}, ErrUnauthorized
	}

	key := tokenKey(token)

	a.mu.Lock()
	defer a.mu.Unlock()

	session, ok := a.sessions[key]
	if !ok {
		return Session{}, ErrUnauthorized
	}
	if !a.now().Before(session.ExpiresAt) {
		delete(a.sessions, key)
		return Session{}, ErrUnauthorized
	}

	return session, nil
}

// Logout revokes token. Unknown tokens are ignored.
func (a *Authenticator) Logout(token string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.sessions, tokenKey(token))
}

// TTL is the lifetime of new sessions.
func (a *Authenticator) TTL() time.Duration {
	return a.ttl
}

func (a *Authenticator) pruneLocked(now time.Time) {
	for key, session := range a.sessions {
		if !now.Before(session.ExpiresAt) {
			delete(a.sessions, key)
		}
	}
}

func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
