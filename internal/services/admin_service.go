package services

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/xin-yuwen/assignment-service/internal/models"
	"github.com/xin-yuwen/assignment-service/internal/repositories"
	"github.com/xin-yuwen/assignment-service/internal/utils"
)

// AdminService authenticates the teachers who author assignments.
type AdminService interface {
	// VerifyLogin checks the credentials and returns the admin on success.
	// Unknown usernames and wrong passwords both map to
	// ErrInvalidCredentials.
	VerifyLogin(ctx context.Context, username, password string) (*models.Admin, error)

	// CreateAdmin hashes the password and stores a new admin account.
	CreateAdmin(ctx context.Context, name, username, password string) (*models.Admin, error)

	GetAdmin(ctx context.Context, id uint) (*models.Admin, error)
}

type adminService struct {
	repo   repositories.Repository
	logger utils.Logger
}

func NewAdminService(repo repositories.Repository, logger utils.Logger) AdminService {
	return &adminService{
		repo:   repo,
		logger: logger,
	}
}

func (s *adminService) VerifyLogin(ctx context.Context, username, password string) (*models.Admin, error) {
	admin, err := s.repo.Admin().GetByUsername(ctx, username)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up admin %q: %w", username, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		s.logger.WarnContext(ctx, "admin login rejected", "username", username)
		return nil, ErrInvalidCredentials
	}

	return admin, nil
}

func (s *adminService) CreateAdmin(ctx context.Context, name, username, password string) (*models.Admin, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.Admin{
		Name:         name,
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := s.repo.Admin().Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	s.logger.InfoContext(ctx, "admin created", "admin_id", admin.ID, "username", username)
	return admin, nil
}

func (s *adminService) GetAdmin(ctx context.Context, id uint) (*models.Admin, error) {
	admin, err := s.repo.Admin().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load admin %d: %w", id, err)
	}
	return admin, nil
}
