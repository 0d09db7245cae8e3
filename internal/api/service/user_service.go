package service

import (
	"context"
	"errors"
	"fmt"

	"reviewhub/internal/api/access"
	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService interface {
	List(ctx context.Context, actor *models.User, page, pageSize int) (*dto.PaginatedResponse[dto.UserResponse], error)
	Create(ctx context.Context, actor *models.User, req dto.CreateUserRequest) (*dto.UserResponse, error)
	GetByUsername(ctx context.Context, actor *models.User, username string) (*dto.UserResponse, error)
	UpdateByUsername(ctx context.Context, actor *models.User, username string, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	Delete(ctx context.Context, actor *models.User, username string) error
	UpdateSelf(ctx context.Context, actor *models.User, req dto.UpdateUserRequest) (*dto.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// requireAdmin guards the collection-level operations; per-record
// operations go through access.SelfOrAdmin instead.
func requireAdmin(actor *models.User) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

func (s *userService) List(ctx context.Context, actor *models.User, page, pageSize int) (*dto.PaginatedResponse[dto.UserResponse], error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	users, total, err := s.userRepo.List(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *dto.FromModelToUserResponse(&users[i]))
	}
	return dto.NewPaginatedResponse(responses, int(total), page, pageSize), nil
}

func (s *userService) Create(ctx context.Context, actor *models.User, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if req.Username == reservedUsername {
		return nil, fieldError("username", `"me" is reserved and cannot be used as a username`)
	}

	role := models.Role(req.Role)
	if req.Role == "" {
		role = models.RoleUser
	}

	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, fieldError("username", "username or email already in use")
		}
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) GetByUsername(ctx context.Context, actor *models.User, username string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, orNotFound(err)
	}
	if err := decisionErr(access.SelfOrAdmin(actor, user.ID)); err != nil {
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) UpdateByUsername(ctx context.Context, actor *models.User, username string, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, orNotFound(err)
	}
	if err := decisionErr(access.SelfOrAdmin(actor, user.ID)); err != nil {
		return nil, err
	}
	return s.applyUpdate(ctx, actor, user, req)
}

func (s *userService) UpdateSelf(ctx context.Context, actor *models.User, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	return s.applyUpdate(ctx, actor, actor, req)
}

func (s *userService) Delete(ctx context.Context, actor *models.User, username string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, username); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// applyUpdate patches the record. Username and role are writable only
// by admins; a non-admin sending them gets the rest of the patch
// applied and those fields silently dropped. Every successful update
// also rotates the confirmation secret, which invalidates any code
// issued before the change.
func (s *userService) applyUpdate(ctx context.Context, actor, user *models.User, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	admin := actor != nil && actor.IsAdmin()

	if req.Username != nil && admin {
		if *req.Username == reservedUsername {
			return nil, fieldError("username", `"me" is reserved and cannot be used as a username`)
		}
		user.Username = *req.Username
	}
	if req.Role != nil && admin {
		user.Role = models.Role(*req.Role)
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}

	if err := rotateConfirmationSecret(user); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, fieldError("email", "username or email already in use")
		}
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

// rotateConfirmationSecret binds the record to a fresh random secret.
// The new code is never distributed, so outstanding codes simply stop
// working.
func rotateConfirmationSecret(user *models.User) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("rotate confirmation secret: %w", err)
	}
	user.ConfirmationHash = string(hash)
	return nil
}
