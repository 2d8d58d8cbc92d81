// Package services contains server-side business logic. This file implements
// UserService, which registers users, verifies credentials, issues JWTs and
// resolves presented tokens back to users.
package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/logging"
	"github.com/dmitrijs2005/portfolio/internal/server/auth"
	"github.com/dmitrijs2005/portfolio/internal/server/config"
	"github.com/dmitrijs2005/portfolio/internal/server/models"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/users"
	"github.com/google/uuid"
)

const (
	MinPasswordLength = 6
	MinUsernameLength = 3
	MaxUsernameLength = 30
	MaxNameLength     = 50
)

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
)

// RegisterInput is the profile submitted at registration.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// AuthResult is what a successful register or login hands back.
type AuthResult struct {
	Token string
	User  models.UserSummary
}

// UserService provides authentication operations:
//   - Register: create a user and issue a credential
//   - Login: verify a password and issue a credential
//   - Validate / CurrentUser: resolve a credential to its user
type UserService struct {
	users                 users.Repository
	hasher                *auth.Hasher
	jwtSecret             []byte
	tokenValidityDuration time.Duration
	logger                logging.Logger

	now   func() time.Time
	newID func() string
}

// NewUserService wires the store with the secret, token lifetime and hash
// cost taken from cfg.
func NewUserService(repo users.Repository, cfg *config.Config, logger logging.Logger) *UserService {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &UserService{
		users:                 repo,
		hasher:                auth.NewHasher(cfg.PasswordHashCost),
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
		logger:                logger.With("component", "user_service"),
		now:                   time.Now,
		newID:                 uuid.NewString,
	}
}

// Hasher exposes the password hasher so seeding uses the same cost.
func (s *UserService) Hasher() *auth.Hasher {
	return s.hasher
}

// Register validates in, rejects duplicate identities, hashes the password
// and stores the record. The credential is signed before the insert, so a
// signing failure never leaves a record behind and a failed insert never
// yields a credential.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in = normalizeRegisterInput(in)
	if err := validateRegisterInput(in); err != nil {
		return nil, err
	}

	if err := s.checkAvailable(ctx, in.Email, in.Username); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: hash password: %v", common.ErrorInternal, err)
	}

	user := &models.User{
		ID:           s.newID(),
		UserName:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         models.RoleUser,
		Preferences:  models.DefaultPreferences(),
	}

	token, err := s.generateToken(user.ID)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrDuplicateIdentity) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: create user: %v", common.ErrorInternal, err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)

	return &AuthResult{Token: token, User: user.Summary()}, nil
}

// Login checks email and password. Unknown email and wrong password both
// yield common.ErrInvalidCredentials after the same amount of bcrypt work.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = models.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, common.NewValidationError("credentials", "Email and password are required")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.CompareDummy(password)
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: lookup user: %v", common.ErrorInternal, err)
	}

	if !s.hasher.Compare(user.PasswordHash, password) {
		return nil, common.ErrInvalidCredentials
	}

	token, err := s.generateToken(user.ID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn(ctx, "could not record last login", "user_id", user.ID, "error", err)
	} else {
		user.LastLoginAt = &now
	}

	s.logger.Info(ctx, "user logged in", "user_id", user.ID)

	return &AuthResult{Token: token, User: user.Summary()}, nil
}

// Validate verifies the token's signature and expiry and loads the user it
// is bound to. Token problems return common.ErrInvalidToken or
// common.ErrTokenExpired; a deleted user returns common.ErrUnknownIdentity.
func (s *UserService) Validate(ctx context.Context, token string) (*models.UserSummary, error) {
	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUnknownIdentity
		}
		return nil, fmt.Errorf("%w: lookup user: %v", common.ErrorInternal, err)
	}

	summary := user.Summary()
	return &summary, nil
}

// CurrentUser is the "who am I" read.
func (s *UserService) CurrentUser(ctx context.Context, token string) (*models.UserSummary, error) {
	return s.Validate(ctx, token)
}

// Logout only records the event. Credentials are stateless and stay valid
// until they expire.
func (s *UserService) Logout(ctx context.Context, token string) {
	if token == "" {
		s.logger.Info(ctx, "anonymous logout")
		return
	}
	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		s.logger.Info(ctx, "logout with unusable token", "error", err)
		return
	}
	s.logger.Info(ctx, "user logged out", "user_id", userID)
}

// --- helpers below ---

func (s *UserService) generateToken(userID string) (string, error) {
	token, err := auth.GenerateToken(userID, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return "", fmt.Errorf("%w: sign token: %v", common.ErrorInternal, err)
	}
	return token, nil
}

func (s *UserService) checkAvailable(ctx context.Context, email, username string) error {
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return &common.DuplicateError{Field: "email"}
	} else if !errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("%w: lookup email: %v", common.ErrorInternal, err)
	}

	if _, err := s.users.GetUserByUsername(ctx, username); err == nil {
		return &common.DuplicateError{Field: "username"}
	} else if !errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("%w: lookup username: %v", common.ErrorInternal, err)
	}
	return nil
}

func normalizeRegisterInput(in RegisterInput) RegisterInput {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = models.NormalizeEmail(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	return in
}

func validateRegisterInput(in RegisterInput) error {
	if in.Username == "" || in.Email == "" || in.Password == "" || in.FirstName == "" || in.LastName == "" {
		return common.NewValidationError("profile", "All fields are required")
	}

	if n := utf8.RuneCountInString(in.Username); n < MinUsernameLength || n > MaxUsernameLength {
		return common.NewValidationError("username", "Username must be between %d and %d characters", MinUsernameLength, MaxUsernameLength)
	}
	if !usernamePattern.MatchString(in.Username) {
		return common.NewValidationError("username", "Username may only contain letters, digits, '.', '_' and '-'")
	}
	if !emailPattern.MatchString(in.Email) {
		return common.NewValidationError("email", "Please enter a valid email")
	}
	if utf8.RuneCountInString(in.Password) < MinPasswordLength {
		return common.NewValidationError("password", "Password must be at least %d characters", MinPasswordLength)
	}
	if len(in.Password) > auth.MaxPasswordBytes {
		return common.NewValidationError("password", "Password must be at most %d bytes", auth.MaxPasswordBytes)
	}
	if utf8.RuneCountInString(in.FirstName) > MaxNameLength || utf8.RuneCountInString(in.LastName) > MaxNameLength {
		return common.NewValidationError("name", "Names must be at most %d characters", MaxNameLength)
	}
	return nil
}
