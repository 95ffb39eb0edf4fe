package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/brewpos-api/internal/clock"
	"github.com/sangkips/brewpos-api/internal/domain/entity"
	"github.com/sangkips/brewpos-api/internal/domain/repository"
	infraRepo "github.com/sangkips/brewpos-api/internal/infrastructure/repository"
	"github.com/sangkips/brewpos-api/pkg/apperror"
	"github.com/sangkips/brewpos-api/pkg/utils"
	"go.uber.org/zap"
)

// AuthService handles staff sign-in
type AuthService struct {
	staffRepo  repository.StaffRepository
	storeRepo  repository.StoreRepository
	jwtManager *utils.JWTManager
	clock      clock.Clock
	log        *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	staffRepo repository.StaffRepository,
	storeRepo repository.StoreRepository,
	jwtManager *utils.JWTManager,
	clk clock.Clock,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		staffRepo:  staffRepo,
		storeRepo:  storeRepo,
		jwtManager: jwtManager,
		clock:      clk,
		log:        loggerOrNop(log),
	}
}

// LoginInput represents the email and password login input
type LoginInput struct {
	Email    string
	Password string
}

// PINLoginInput represents the till login input
type PINLoginInput struct {
	StoreID uuid.UUID
	PIN     string
}

// LoginOutput represents the login output
type LoginOutput struct {
	Staff       *entity.Staff
	AccessToken string
	ExpiresIn   int64
}

// Login authenticates a staff member by email and password
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	staff, err := s.staffRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if staff == nil || !utils.CheckPasswordHash(input.Password, staff.PasswordHash) {
		return nil, apperror.ErrInvalidCredentials
	}
	if !staff.Active {
		return nil, apperror.ErrStaffInactive
	}

	return s.issue(ctx, staff)
}

// LoginWithPIN authenticates a staff member at the till of a store. The PIN
// is checked against every active staff member of that store.
func (s *AuthService) LoginWithPIN(ctx context.Context, input *PINLoginInput) (*LoginOutput, error) {
	pin := strings.TrimSpace(input.PIN)
	if !pinPattern.MatchString(pin) {
		return nil, apperror.ErrInvalidPIN
	}

	store, err := s.storeRepo.GetByID(ctx, input.StoreID)
	if err != nil {
		return nil, err
	}
	if store == nil || !store.Active {
		return nil, apperror.NewNotFoundError("Store")
	}

	staff, err := s.staffRepo.ListActive(infraRepo.WithStore(ctx, store.ID))
	if err != nil {
		return nil, err
	}
	for i := range staff {
		if utils.CheckPasswordHash(pin, staff[i].PINHash) {
			return s.issue(ctx, &staff[i])
		}
	}

	s.log.Info("pin login rejected", zap.String("store_id", store.ID.String()))
	return nil, apperror.ErrInvalidPIN
}

// Profile returns the signed-in staff member
func (s *AuthService) Profile(ctx context.Context, staffID uuid.UUID) (*entity.Staff, error) {
	staff, err := s.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, apperror.NewNotFoundError("Staff")
	}
	return staff, nil
}

func (s *AuthService) issue(ctx context.Context, staff *entity.Staff) (*LoginOutput, error) {
	token, err := s.jwtManager.GenerateAccessToken(
		staff.ID,
		staff.StoreID,
		staff.Name,
		string(staff.Role),
		staff.Permissions(),
	)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if err := s.staffRepo.TouchLogin(ctx, staff.ID, now); err != nil {
		s.log.Warn("failed to record login time", zap.String("staff_id", staff.ID.String()), zap.Error(err))
	} else {
		staff.LastLoginAt = &now
	}

	return &LoginOutput{
		Staff:       staff,
		AccessToken: token,
		ExpiresIn:   int64(s.jwtManager.TokenExpiry().Seconds()),
	}, nil
}
