package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	infrajwt "github.com/jonesrussell/cityvoice/infrastructure/jwt"
	"github.com/jonesrussell/cityvoice/internal/database"
	"github.com/jonesrussell/cityvoice/internal/domain"
)

const minPasswordLength = 6

// UserStore persists citizen accounts.
type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
}

// TokenIssuer signs bearer tokens.
type TokenIssuer interface {
	Issue(subject, role, zone string) (string, time.Time, error)
}

// Token is an issued bearer token.
type Token struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// UserService registers and authenticates citizens.
type UserService struct {
	users  UserStore
	issuer TokenIssuer
}

// NewUserService creates the user service.
func NewUserService(users UserStore, issuer TokenIssuer) *UserService {
	return &UserService{users: users, issuer: issuer}
}

// RegisterInput is a new citizen account.
type RegisterInput struct {
	Username string
	Email    string
	Password string //nolint:gosec // registration input
	FullName string
	Phone    string
}

func (in RegisterInput) validate() error {
	fields := map[string]string{
		"username":  in.Username,
		"email":     in.Email,
		"password":  in.Password,
		"full_name": in.FullName,
		"phone":     in.Phone,
	}
	for _, name := range []string{"username", "email", "password", "full_name", "phone"} {
		if strings.TrimSpace(fields[name]) == "" {
			return validationError("%s is required", name)
		}
	}
	if len(in.Password) < minPasswordLength {
		return validationError("password must be at least %d characters", minPasswordLength)
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return validationError("email is invalid")
	}
	return nil
}

// Register creates an account with a bcrypt password hash.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := in.validate(); err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(in.FullName),
		Phone:        strings.TrimSpace(in.Phone),
	}
	if createErr := s.users.Create(ctx, u); createErr != nil {
		if errors.Is(createErr, database.ErrDuplicate) {
			return nil, ErrDuplicateUser
		}
		return nil, createErr
	}
	return u, nil
}

// Login checks a username and password and issues a citizen token.
func (s *UserService) Login(ctx context.Context, username, password string) (*Token, *domain.User, error) {
	u, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.issuer.Issue(strconv.FormatInt(u.ID, 10), infrajwt.RoleCitizen, "")
	if err != nil {
		return nil, nil, fmt.Errorf("issue token: %w", err)
	}
	return &Token{AccessToken: token, ExpiresAt: expiresAt}, u, nil
}

// Get returns an account.
func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}
