package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/domain/repository"
	"github.com/sangkips/billing-api/pkg/apperror"
	"github.com/sangkips/billing-api/pkg/utils"
)

// AuthService handles staff sign-in at the till
type AuthService struct {
	staffRepo  repository.StaffRepository
	jwtManager *utils.JWTManager
	log        *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(staffRepo repository.StaffRepository, jwtManager *utils.JWTManager, log *zap.Logger) *AuthService {
	return &AuthService{
		staffRepo:  staffRepo,
		jwtManager: jwtManager,
		log:        log,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	StaffID string
	PIN     string
}

// LoginOutput represents the login output
type LoginOutput struct {
	Staff       *entity.Staff
	AccessToken string
	ExpiresAt   time.Time
}

// Login checks a staff PIN and issues an access token
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	staffID := strings.TrimSpace(input.StaffID)
	if staffID == "" || input.PIN == "" {
		return nil, apperror.ErrInvalidCredentials
	}

	staff, err := s.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		return nil, apperror.NewCollaboratorError("Staff lookup failed", err)
	}
	if staff == nil {
		return nil, apperror.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.PinHash), []byte(input.PIN)); err != nil {
		s.log.Warn("staff login rejected", zap.String("staff_id", staffID))
		return nil, apperror.ErrInvalidCredentials
	}

	token, expiresAt, err := s.jwtManager.GenerateAccessToken(staff.ID, staff.Name)
	if err != nil {
		return nil, err
	}

	s.log.Info("staff signed in", zap.String("staff_id", staff.ID))
	return &LoginOutput{
		Staff:       staff,
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}
