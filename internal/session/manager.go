package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/travelbookhq/travelbook-gateway/internal/upstream"
	pkgerrors "github.com/travelbookhq/travelbook-gateway/pkg/errors"
	"github.com/travelbookhq/travelbook-gateway/pkg/logger"
	"github.com/travelbookhq/travelbook-gateway/pkg/redis"
	"github.com/travelbookhq/travelbook-gateway/pkg/types"
)

// Store is the persistence surface the session manager needs.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	TokenKey(sessionID string) string
}

// User is the signed-in traveler's profile as the travel api reports it.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

func (u *User) UnmarshalJSON(data []byte) error {
	type alias User
	aux := struct {
		*alias
		AltID string `json:"_id"`
	}{alias: (*alias)(u)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	u.ID = types.FirstNonEmpty(u.ID, aux.AltID)
	return nil
}

// Session is the auth view the edge serves. Authenticated means a token is
// held for the session; the profile may still be nil when the api could
// not be reached.
type Session struct {
	SessionID     string `json:"sessionId"`
	Authenticated bool   `json:"authenticated"`
	User          *User  `json:"user,omitempty"`
}

// LoginInput is the credentials payload for sign-in.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterInput is the payload for account creation.
type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// ManagerParams groups dependencies for the session manager.
type ManagerParams struct {
	API      upstream.Caller
	Store    Store
	Logger   *logger.Logger
	TokenTTL time.Duration
}

// Manager owns session identity and the persisted auth token.
type Manager interface {
	EnsureSessionID(provided string) string
	Bootstrap(ctx context.Context, sessionID string) (Session, error)
	Login(ctx context.Context, sessionID string, input LoginInput) (Session, error)
	Register(ctx context.Context, sessionID string, input RegisterInput) (Session, error)
	Logout(ctx context.Context, sessionID string) error
	Token(ctx context.Context, sessionID string) (string, error)
}

type manager struct {
	api      upstream.Caller
	store    Store
	logg     *logger.Logger
	tokenTTL time.Duration
}

// NewManager builds the session manager with the required dependencies.
func NewManager(params ManagerParams) (Manager, error) {
	if params.API == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "travel api client is required")
	}
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session store is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	ttl := params.TokenTTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &manager{
		api:      params.API,
		store:    params.Store,
		logg:     params.Logger,
		tokenTTL: ttl,
	}, nil
}

// EnsureSessionID keeps a provided session id or mints a fresh one.
func (m *manager) EnsureSessionID(provided string) string {
	provided = strings.TrimSpace(provided)
	if provided != "" {
		return provided
	}
	return uuid.NewString()
}

// Bootstrap restores the auth state for a session on first contact. A held
// token marks the session authenticated even when the profile fetch fails;
// an expired or rejected token is evicted and the session is anonymous.
func (m *manager) Bootstrap(ctx context.Context, sessionID string) (Session, error) {
	session := Session{SessionID: sessionID}
	if strings.TrimSpace(sessionID) == "" {
		return session, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	token, err := m.Token(ctx, sessionID)
	if err != nil {
		return session, err
	}
	if token == "" {
		return session, nil
	}

	if expired(token) {
		m.logg.Info(m.logg.WithSessionID(ctx, sessionID), "stored token expired, evicting")
		if err := m.store.Del(ctx, m.store.TokenKey(sessionID)); err != nil {
			m.logg.Error(m.logg.WithSessionID(ctx, sessionID), "evicting expired token", err)
		}
		return session, nil
	}
	session.Authenticated = true

	var user User
	_, err = m.api.Get(ctx, upstream.Request{
		Resource: upstream.ResourceAuth,
		Path:     upstream.AuthMePath(),
		Token:    token,
	}, &user)
	if err != nil {
		if pkgerrors.IsAuthFailure(err) {
			m.logg.Info(m.logg.WithSessionID(ctx, sessionID), "travel api rejected the token, evicting")
			if delErr := m.store.Del(ctx, m.store.TokenKey(sessionID)); delErr != nil {
				m.logg.Error(m.logg.WithSessionID(ctx, sessionID), "evicting rejected token", delErr)
			}
			return Session{SessionID: sessionID}, nil
		}
		m.logg.Warn(m.logg.WithSessionID(ctx, sessionID), "profile fetch failed, keeping session authenticated")
		return session, nil
	}
	session.User = &user
	return session, nil
}

type authResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
}

// Login exchanges credentials for a token and persists it for the session.
func (m *manager) Login(ctx context.Context, sessionID string, input LoginInput) (Session, error) {
	if strings.TrimSpace(input.Email) == "" || strings.TrimSpace(input.Password) == "" {
		return Session{}, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	var resp authResponse
	if err := m.api.Post(ctx, upstream.Request{
		Resource: upstream.ResourceAuth,
		Path:     upstream.AuthLoginPath(),
		Body:     input,
	}, &resp); err != nil {
		return Session{}, err
	}
	return m.establish(ctx, sessionID, resp)
}

// Register creates an account and signs the session in.
func (m *manager) Register(ctx context.Context, sessionID string, input RegisterInput) (Session, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Email) == "" || strings.TrimSpace(input.Password) == "" {
		return Session{}, pkgerrors.New(pkgerrors.CodeValidation, "name, email and password are required")
	}

	var resp authResponse
	if err := m.api.Post(ctx, upstream.Request{
		Resource: upstream.ResourceAuth,
		Path:     upstream.AuthRegisterPath(),
		Body:     input,
	}, &resp); err != nil {
		return Session{}, err
	}
	return m.establish(ctx, sessionID, resp)
}

// Logout drops the persisted token. The travel api holds no session state,
// so forgetting the token is the whole operation.
func (m *manager) Logout(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if err := m.store.Del(ctx, m.store.TokenKey(sessionID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "drop session token")
	}
	return nil
}

// Token returns the persisted token for a session, empty when absent.
func (m *manager) Token(ctx context.Context, sessionID string) (string, error) {
	token, err := m.store.Get(ctx, m.store.TokenKey(sessionID))
	if err != nil {
		if errors.Is(err, redis.ErrNotFound) {
			return "", nil
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session token")
	}
	return token, nil
}

func (m *manager) establish(ctx context.Context, sessionID string, resp authResponse) (Session, error) {
	if strings.TrimSpace(resp.Token) == "" {
		return Session{}, pkgerrors.New(pkgerrors.CodeUpstream, "travel api returned no token")
	}
	if err := m.store.Set(ctx, m.store.TokenKey(sessionID), resp.Token, m.tokenTTL); err != nil {
		return Session{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist session token")
	}
	return Session{SessionID: sessionID, Authenticated: true, User: resp.User}, nil
}

// expired peeks at the token's exp claim without verifying the signature.
// The travel api is the verifier; the gateway only evicts tokens that are
// already dead. Tokens without an exp claim are kept.
func expired(token string) bool {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
