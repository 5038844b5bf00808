package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/teamtrack/project-management/internal/core/domain"
	"github.com/teamtrack/project-management/internal/core/ports"
	"github.com/teamtrack/project-management/internal/core/token"
)

// BootstrapGuard serialises concurrent first-admin signups. The store cannot
// express "at most one Admin" as a uniqueness constraint, so signup takes a
// short lease around its check-then-insert.
type BootstrapGuard interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// AuthService implements signup, registration, and login.
type AuthService struct {
	users  ports.UserRepository
	tokens *token.Manager
	guard  BootstrapGuard
	log    zerolog.Logger
}

func NewAuthService(users ports.UserRepository, tokens *token.Manager, guard BootstrapGuard, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, guard: guard, log: log}
}

// Signup creates the bootstrap Admin account. Allowed only while no Admin
// exists in the store.
func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
	if s.guard != nil {
		acquired, err := s.guard.Acquire(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("bootstrap guard unavailable, proceeding unguarded")
		} else if !acquired {
			return nil, domain.ErrAdminExists
		} else {
			defer func() {
				if err := s.guard.Release(ctx); err != nil {
					s.log.Warn().Err(err).Msg("failed to release bootstrap guard")
				}
			}()
		}
	}

	_, err := s.users.FindByRole(ctx, domain.RoleAdmin)
	if err == nil {
		return nil, domain.ErrAdminExists
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	created, err := s.users.Create(ctx, newUser(in.Username, in.Email, hash, domain.RoleAdmin))
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("username", created.Username).Msg("admin account bootstrapped")
	return created, nil
}

// Register creates a Manager or Employee account on behalf of an Admin.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	role, err := domain.ParseRole(in.Role)
	if err != nil || !role.In(domain.RoleManager, domain.RoleEmployee) {
		return nil, domain.ErrInvalidRole
	}

	// Check-then-insert; the unique indexes on username and email are the
	// backstop under concurrent registration.
	if _, err := s.users.FindByUsernameOrEmail(ctx, in.Username, in.Email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	created, err := s.users.Create(ctx, newUser(in.Username, in.Email, hash, role))
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("username", created.Username).Str("role", string(role)).Msg("user registered")
	return created, nil
}

// Login verifies credentials and mints a session token. Unknown username and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	tkn, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Str("username", user.Username).Msg("login successful")
	return tkn, user, nil
}

func hashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func newUser(username, email, hash string, role domain.Role) *domain.User {
	now := time.Now().UTC()
	return &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
