package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"qkart/internal/domain"
	userrepo "qkart/internal/repository/user"
)

const (
	msgBadCredentials = "Incorrect email or password"
	msgAuthenticate   = "Please authenticate"
	msgEmailTaken     = "Email already taken"
	msgUserNotFound   = "User not found"
)

// Token is a signed bearer token and the moment it stops being accepted.
type Token struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

// AuthTokens is returned on register and login.
type AuthTokens struct {
	Access Token `json:"access"`
}

// Config carries the settings the service needs from the environment.
type Config struct {
	JWTSecret          string
	AccessTokenTTL     time.Duration
	DefaultWalletMoney decimal.Decimal
}

// Service handles registration, login and profile updates.
type Service struct {
	repo          userrepo.Repository
	tokens        *tokenManager
	defaultWallet decimal.Decimal
}

func New(repo userrepo.Repository, cfg Config) *Service {
	ttl := cfg.AccessTokenTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Service{
		repo:          repo,
		tokens:        newTokenManager(cfg.JWTSecret, ttl),
		defaultWallet: cfg.DefaultWalletMoney,
	}
}

// Register creates a user with the default wallet balance and no address.
func (s *Service) Register(ctx context.Context, in domain.Registration) (*domain.User, AuthTokens, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	if err := domain.ValidateRegistration(in); err != nil {
		return nil, AuthTokens{}, err
	}

	switch _, err := s.repo.GetByEmail(ctx, in.Email); {
	case err == nil:
		return nil, AuthTokens{}, domain.InvalidRequest(msgEmailTaken)
	case !errors.Is(err, domain.ErrNotFound):
		return nil, AuthTokens{}, domain.Internal("", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, AuthTokens{}, domain.Internal("", err)
	}
	u, err := s.repo.Create(ctx, domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hashed),
		WalletMoney:  s.defaultWallet,
		Address:      domain.DefaultAddress,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, AuthTokens{}, domain.InvalidRequest(msgEmailTaken)
		}
		return nil, AuthTokens{}, domain.Internal("", err)
	}
	tokens, err := s.issue(u.ID)
	if err != nil {
		return nil, AuthTokens{}, err
	}
	return u, tokens, nil
}

// Login checks credentials and issues a fresh access token.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, AuthTokens, error) {
	u, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, AuthTokens{}, domain.Unauthorized(msgBadCredentials)
		}
		return nil, AuthTokens{}, domain.Internal("", err)
	}
	if !u.IsPasswordMatch(password) {
		return nil, AuthTokens{}, domain.Unauthorized(msgBadCredentials)
	}
	tokens, err := s.issue(u.ID)
	if err != nil {
		return nil, AuthTokens{}, err
	}
	return u, tokens, nil
}

// LookupByToken returns the user bound to a valid access token.
func (s *Service) LookupByToken(ctx context.Context, token string) (*domain.User, error) {
	userID, err := s.tokens.Validate(token)
	if err != nil {
		return nil, domain.Unauthorized(msgAuthenticate)
	}
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Unauthorized(msgAuthenticate)
		}
		return nil, domain.Internal("", err)
	}
	return u, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound(msgUserNotFound)
		}
		return nil, domain.Internal("", err)
	}
	return u, nil
}

// SetAddress validates and stores a new delivery address for u.
func (s *Service) SetAddress(ctx context.Context, u *domain.User, address string) (string, error) {
	if err := domain.ValidateAddress(address); err != nil {
		return "", err
	}
	prev := u.Address
	u.Address = strings.TrimSpace(address)
	if err := s.repo.Save(ctx, u); err != nil {
		u.Address = prev
		return "", domain.Internal("", err)
	}
	return u.Address, nil
}

func (s *Service) issue(userID string) (AuthTokens, error) {
	access, err := s.tokens.Issue(userID)
	if err != nil {
		return AuthTokens{}, domain.Internal("", err)
	}
	return AuthTokens{Access: access}, nil
}
