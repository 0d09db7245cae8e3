package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
	"reviewhub/internal/mailer"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// reservedUsername is the self-profile alias on /users/me and can never
// be registered.
const reservedUsername = "me"

type AuthService interface {
	// Register creates (or re-activates) a pending user and dispatches a
	// fresh confirmation code to its email address. Registration counts
	// as successful once the record is persisted; delivery failures are
	// logged, never propagated.
	Register(ctx context.Context, username, email string) (*models.User, error)

	// IssueToken exchanges a confirmation code for a signed bearer
	// token. The code is not consumed on use: it stays valid until the
	// next mutation of the user record regenerates the stored secret.
	// That is a deliberate simplification, not a single-use guarantee.
	IssueToken(ctx context.Context, username, code string) (string, error)
}

type authService struct {
	userRepo repository.UserRepository
	signer   TokenSigner
	mail     mailer.Sender
	logger   *slog.Logger
}

func NewAuthService(userRepo repository.UserRepository, signer TokenSigner, mail mailer.Sender, logger *slog.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		signer:   signer,
		mail:     mail,
		logger:   logger,
	}
}

func (s *authService) Register(ctx context.Context, username, email string) (*models.User, error) {
	if username == reservedUsername {
		return nil, fieldError("username", `"me" is reserved and cannot be used as a username`)
	}

	byName, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup username: %w", err)
	}
	byEmail, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	// An unconfirmed user repeating its own registration gets a fresh
	// code instead of a duplicate error.
	if byName != nil && byEmail != nil && byName.ID == byEmail.ID && !byName.Confirmed {
		return s.issueCode(ctx, byName, false)
	}
	if byName != nil {
		return nil, fieldError("username", "username already in use")
	}
	if byEmail != nil {
		return nil, fieldError("email", "email already in use")
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Role:     models.RoleUser,
	}
	return s.issueCode(ctx, user, true)
}

// issueCode binds a new confirmation secret to the user, persists the
// record and dispatches the code. Only the bcrypt hash of the code is
// stored.
func (s *authService) issueCode(ctx context.Context, user *models.User, create bool) (*models.User, error) {
	code := uuid.NewString()
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash confirmation code: %w", err)
	}
	user.ConfirmationHash = string(hash)

	if create {
		err = s.userRepo.Create(ctx, user)
	} else {
		err = s.userRepo.Update(ctx, user)
	}
	if errors.Is(err, repository.ErrDuplicateKey) {
		// Lost a race with a concurrent registration for the same
		// username or email.
		return nil, fieldError("username", "username or email already in use")
	}
	if err != nil {
		return nil, err
	}

	body := fmt.Sprintf("User %s registered successfully.\nConfirmation code: %s", user.Username, code)
	if err := s.mail.Send(user.Email, "reviewhub registration", body); err != nil {
		s.logger.Warn("confirmation email delivery failed",
			"username", user.Username,
			"error", err,
		)
	}
	return user, nil
}

func (s *authService) IssueToken(ctx context.Context, username, code string) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return "", orNotFound(err)
	}

	// bcrypt's comparison is resistant to timing leaks, and the error
	// does not reveal which of the two fields was wrong.
	if user.ConfirmationHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.ConfirmationHash), []byte(code)) != nil {
		return "", fieldError("confirmation_code", "invalid username or confirmation code")
	}

	if !user.Confirmed {
		user.Confirmed = true
		if err := s.userRepo.Update(ctx, user); err != nil {
			return "", fmt.Errorf("confirm user: %w", err)
		}
	}

	return s.signer.Sign(user.ID)
}
