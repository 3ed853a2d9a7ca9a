package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/emelnikov/linkly/internal/models"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/crypto/bcrypt"
)

// accountTokenTTL is the expiry window for activation and reset tokens.
const accountTokenTTL = time.Hour

// accountTokenLength is the length of generated activation and reset tokens.
const accountTokenLength = 40

var (
	// ErrInvalidCredentials is returned when the password doesn't match
	// the stored hash.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotActivated is returned when login is attempted before the
	// account confirmed its email address.
	ErrNotActivated = errors.New("account not activated")
)

// UserRepository defines the interface for working with accounts at the
// business logic layer.
type UserRepository interface {
	Create(ctx context.Context, username, email, passwordHash string) (*models.User, error)
	GetByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	SetActivationToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	ActivateByToken(ctx context.Context, token string) (*models.User, error)
	SetResetToken(ctx context.Context, email, token string, expiresAt time.Time) (*models.User, error)
	ResetPasswordByToken(ctx context.Context, token, passwordHash string) (*models.User, error)
}

// Mailer delivers the transactional messages the account flows depend on.
type Mailer interface {
	SendActivation(to, token string) error
	SendPasswordReset(to, token string) error
	SendResetConfirmation(to string) error
}

// TokenIssuer signs session tokens for authenticated accounts.
type TokenIssuer interface {
	Issue(userID int64, role string) (string, error)
}

// AccountService manages registration, activation, login and password
// recovery.
type AccountService struct {
	users  UserRepository
	mailer Mailer
	tokens TokenIssuer
	logger *slog.Logger
}

func NewAccountService(users UserRepository, mailer Mailer, tokens TokenIssuer, logger *slog.Logger) *AccountService {
	return &AccountService{
		users:  users,
		mailer: mailer,
		tokens: tokens,
		logger: logger,
	}
}

// Register creates an inactive account and emails an activation link.
// The activation token is single-use and expires after one hour. A mail
// delivery failure fails the registration, since the token would be
// unreachable otherwise.
func (s *AccountService) Register(ctx context.Context, username, email, password string) error {
	const op = "service.AccountService.Register"

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("%s: failed to hash password: %w", op, err)
	}

	user, err := s.users.Create(ctx, username, email, string(hash))
	if err != nil {
		return fmt.Errorf("%s: failed to create user: %w", op, err)
	}

	token, err := gonanoid.New(accountTokenLength)
	if err != nil {
		return fmt.Errorf("%s: failed to generate activation token: %w", op, err)
	}

	if err := s.users.SetActivationToken(ctx, user.ID, token, time.Now().Add(accountTokenTTL)); err != nil {
		return fmt.Errorf("%s: failed to store activation token: %w", op, err)
	}

	if err := s.mailer.SendActivation(user.Email, token); err != nil {
		return fmt.Errorf("%s: failed to send activation email: %w", op, err)
	}

	return nil
}

// Activate consumes an activation token and marks the account active.
func (s *AccountService) Activate(ctx context.Context, token string) error {
	const op = "service.AccountService.Activate"

	if _, err := s.users.ActivateByToken(ctx, token); err != nil {
		return fmt.Errorf("%s: failed to activate account: %w", op, err)
	}

	return nil
}

// Login authenticates by email or username and issues a signed session
// token embedding the account id and role.
func (s *AccountService) Login(ctx context.Context, identifier, password string) (string, *models.User, error) {
	const op = "service.AccountService.Login"

	user, err := s.users.GetByIdentifier(ctx, identifier)
	if err != nil {
		return "", nil, fmt.Errorf("%s: failed to find user: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if !user.Activated {
		return "", nil, fmt.Errorf("%s: %w", op, ErrNotActivated)
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("%s: failed to issue token: %w", op, err)
	}

	return token, user, nil
}

// ForgotPassword stores a single-use reset token on the account and
// emails a reset link.
func (s *AccountService) ForgotPassword(ctx context.Context, email string) error {
	const op = "service.AccountService.ForgotPassword"

	token, err := gonanoid.New(accountTokenLength)
	if err != nil {
		return fmt.Errorf("%s: failed to generate reset token: %w", op, err)
	}

	user, err := s.users.SetResetToken(ctx, email, token, time.Now().Add(accountTokenTTL))
	if err != nil {
		return fmt.Errorf("%s: failed to store reset token: %w", op, err)
	}

	if err := s.mailer.SendPasswordReset(user.Email, token); err != nil {
		return fmt.Errorf("%s: failed to send reset email: %w", op, err)
	}

	return nil
}

// ResetPassword consumes a reset token and replaces the account
// password. The confirmation email is best-effort: a delivery failure is
// logged but doesn't fail the password change.
func (s *AccountService) ResetPassword(ctx context.Context, token, newPassword string) error {
	const op = "service.AccountService.ResetPassword"

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("%s: failed to hash password: %w", op, err)
	}

	user, err := s.users.ResetPasswordByToken(ctx, token, string(hash))
	if err != nil {
		return fmt.Errorf("%s: failed to reset password: %w", op, err)
	}

	if err := s.mailer.SendResetConfirmation(user.Email); err != nil {
		s.logger.Warn(
			"failed to send reset confirmation email",
			slog.String("op", op),
			slog.Any("err", err),
		)
	}

	return nil
}

// Profile returns the account for the authenticated caller.
func (s *AccountService) Profile(ctx context.Context, userID int64) (*models.User, error) {
	const op = "service.AccountService.Profile"

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	return user, nil
}
