// Package services contains server-side business logic. AuthService turns
// proofs of identity into signed sessions and signed sessions back into
// users.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophid/internal/common"
	"github.com/dmitrijs2005/gophid/internal/cryptox"
	"github.com/dmitrijs2005/gophid/internal/logging"
	"github.com/dmitrijs2005/gophid/internal/server/auth"
	"github.com/dmitrijs2005/gophid/internal/server/config"
	"github.com/dmitrijs2005/gophid/internal/server/identity"
	"github.com/dmitrijs2005/gophid/internal/server/models"
	"github.com/dmitrijs2005/gophid/internal/server/providers"
	"github.com/dmitrijs2005/gophid/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophid/internal/server/session"
	"golang.org/x/oauth2"
)

// Session is an issued session: the signed token and the user it names.
type Session struct {
	Token string
	User  *models.User
}

// FederatedChallenge is what a client needs to send the user to a provider
// and later complete LoginFederated. State and Verifier must be kept by the
// client.
type FederatedChallenge struct {
	URL      string
	State    string
	Verifier string
}

type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	resolver    *identity.Resolver
	hasher      cryptox.Hasher
	providers   *providers.Registry
	log         logging.Logger

	jwtSecret     []byte
	sessionKey    []byte
	tokenValidity time.Duration
}

// NewAuthService wires the identity resolver over the users repository the
// manager vends for db.
func NewAuthService(
	db *sql.DB,
	m repomanager.RepositoryManager,
	hasher cryptox.Hasher,
	handles identity.HandleGenerator,
	registry *providers.Registry,
	cfg *config.Config,
	log logging.Logger,
) (*AuthService, error) {
	resolver, err := identity.NewResolver(m.Users(db), hasher, handles, log)
	if err != nil {
		return nil, fmt.Errorf("init resolver: %w", err)
	}

	return &AuthService{
		db:            db,
		repomanager:   m,
		resolver:      resolver,
		hasher:        hasher,
		providers:     registry,
		log:           log.With("module", "auth_service"),
		jwtSecret:     []byte(cfg.SecretKey),
		sessionKey:    auth.SessionKey([]byte(cfg.SecretKey)),
		tokenValidity: cfg.SessionTokenValidityDuration,
	}, nil
}

// Register creates a local account. A taken email yields
// common.ErrAlreadyExists.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", common.ErrInvalidInput)
	}
	if len(password) > cryptox.MaxSecretLen {
		return nil, fmt.Errorf("%w: password longer than %d bytes", common.ErrInvalidInput, cryptox.MaxSecretLen)
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, &models.User{UserName: username, Email: email, PasswordHash: digest})
	if err != nil {
		if _, ok := common.IsUniqueViolation(err); ok {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("%w: %w", common.ErrIdentityStoreFailure, err)
	}

	s.log.Info(ctx, "local account registered", "user_id", u.ID)
	return u, nil
}

// Login authenticates local credentials and issues a session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.resolver.Resolve(ctx, identity.LocalCredentials{Email: email, Password: password})
	if err != nil {
		if errors.Is(err, common.ErrAuthenticationFailure) {
			s.log.Debug(ctx, "local login rejected")
		}
		return nil, err
	}
	return s.issue(u)
}

// FederatedAuthURL starts a provider login.
func (s *AuthService) FederatedAuthURL(ctx context.Context, provider string) (*FederatedChallenge, error) {
	p, err := s.providers.Get(provider)
	if err != nil {
		return nil, err
	}

	state, err := common.MakeRandHexString(16)
	if err != nil {
		return nil, common.ErrorInternal
	}
	verifier := oauth2.GenerateVerifier()

	return &FederatedChallenge{
		URL:      p.AuthCodeURL(state, verifier),
		State:    state,
		Verifier: verifier,
	}, nil
}

// LoginFederated redeems a provider authorization code and issues a session
// for the account the profile resolves to, creating it on first login.
func (s *AuthService) LoginFederated(ctx context.Context, provider, code, verifier string) (*Session, error) {
	p, err := s.providers.Get(provider)
	if err != nil {
		return nil, err
	}

	profile, err := p.ExchangeCode(ctx, code, verifier)
	if err != nil {
		s.log.Warn(ctx, "provider exchange failed", "provider", provider, "error", err)
		return nil, fmt.Errorf("%w: %w", common.ErrAuthenticationFailure, err)
	}

	return s.LoginProfile(ctx, profile)
}

// LoginProfile issues a session for an already verified provider profile.
func (s *AuthService) LoginProfile(ctx context.Context, profile identity.FederatedProfile) (*Session, error) {
	u, err := s.resolver.Resolve(ctx, profile)
	if err != nil {
		return nil, err
	}
	return s.issue(u)
}

// Authenticate verifies a signed session token and returns the user it names.
// The session inside the token is sealed, so holders of the token never see
// the stored digest.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	raw, err := auth.OpenSessionToken(token, s.jwtSecret, s.sessionKey)
	if err != nil {
		return nil, err
	}
	return session.Decode(raw)
}

func (s *AuthService) issue(u *models.User) (*Session, error) {
	raw, err := session.Encode(u)
	if err != nil {
		return nil, common.ErrorInternal
	}
	token, err := auth.SealSessionToken(raw, s.jwtSecret, s.sessionKey, s.tokenValidity)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &Session{Token: token, User: u}, nil
}
