package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/Eursukkul/room-booking/internal/auth"
	"github.com/Eursukkul/room-booking/internal/models"
	"github.com/Eursukkul/room-booking/internal/repository"
	"gorm.io/gorm"
)

type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
}

type UserService interface {
	Authenticate(ctx context.Context, email, password string) (*models.User, auth.AccessToken, error)
	CreateUser(ctx context.Context, actor *models.User, in CreateUserInput) (*models.User, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
	EnsureAdmin(ctx context.Context, name, email, password string) error
}

type userService struct {
	repo       repository.UserRepository
	issuer     *auth.Issuer
	bcryptCost int
}

func NewUserService(repo repository.UserRepository, issuer *auth.Issuer, bcryptCost int) UserService {
	return &userService{repo: repo, issuer: issuer, bcryptCost: bcryptCost}
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*models.User, auth.AccessToken, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.AccessToken{}, ErrInvalidCredentials
		}
		return nil, auth.AccessToken{}, err
	}
	if !auth.VerifyPassword(user.PasswordHash, password) {
		return nil, auth.AccessToken{}, ErrInvalidCredentials
	}

	tok, err := s.issuer.Issue(user.ID, string(user.Role))
	if err != nil {
		return nil, auth.AccessToken{}, fmt.Errorf("issue token: %w", err)
	}
	return user, tok, nil
}

func (s *userService) CreateUser(ctx context.Context, actor *models.User, in CreateUserInput) (*models.User, error) {
	if actor == nil || !actor.CanApprove() {
		return nil, ErrForbidden
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, ErrNameRequired
	}
	if in.Role == "" {
		in.Role = models.RoleRequester
	}
	if !in.Role.Valid() {
		return nil, ErrInvalidRole
	}
	return s.create(ctx, in)
}

func (s *userService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return user, nil
}

// EnsureAdmin seeds an ADMIN account unless the email is already registered.
func (s *userService) EnsureAdmin(ctx context.Context, name, email, password string) error {
	_, err := s.create(ctx, CreateUserInput{Name: name, Email: email, Password: password, Role: models.RoleAdmin})
	if errors.Is(err, ErrEmailTaken) {
		return nil
	}
	if err != nil {
		return err
	}
	log.Printf("[Users] seeded admin account %s", normalizeEmail(email))
	return nil
}

func (s *userService) create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	email := normalizeEmail(in.Email)

	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         in.Role,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
