// Package user provides the application layer for accounts and sessions
package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/macrotrack/api/internal/domain/shared"
	"github.com/macrotrack/api/internal/domain/user"
	"github.com/macrotrack/api/internal/ports/outbound"
	apperrors "github.com/macrotrack/api/pkg/errors"
)

// UserService implements user management use cases
type UserService struct {
	userRepo   outbound.UserRepository
	profiles   outbound.GoalProfileRepository
	tokens     outbound.TokenIssuer
	revoker    outbound.TokenRevoker
	dispatcher shared.EventDispatcher
	bcryptCost int
	logger     *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo outbound.UserRepository,
	profiles outbound.GoalProfileRepository,
	tokens outbound.TokenIssuer,
	revoker outbound.TokenRevoker,
	dispatcher shared.EventDispatcher,
	bcryptCost int,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		profiles:   profiles,
		tokens:     tokens,
		revoker:    revoker,
		dispatcher: dispatcher,
		bcryptCost: bcryptCost,
		logger:     logger.Named("user-service"),
	}
}

// SignupCommand contains user registration data
type SignupCommand struct {
	FirstName string `json:"firstname" validate:"max=100"`
	LastName  string `json:"lastname" validate:"max=100"`
	Contact   string `json:"contact" validate:"max=32"`
	Username  string `json:"username" validate:"required,min=3,max=50"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
}

// LoginCommand contains user login data
type LoginCommand struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileCommand contains the editable profile fields
type UpdateProfileCommand struct {
	FirstName string `json:"firstname" validate:"max=100"`
	LastName  string `json:"lastname" validate:"max=100"`
	Contact   string `json:"contact" validate:"max=32"`
}

// UserDTO represents user data transfer object
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	FirstName   string     `json:"firstname"`
	LastName    string     `json:"lastname"`
	Contact     string     `json:"contact"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

// LoginResult is returned on a successful login
type LoginResult struct {
	Message        string    `json:"message"`
	Token          string    `json:"token"`
	UserID         uuid.UUID `json:"userId"`
	HasUserDetails bool      `json:"hasUserDetails"`
	ExpiresAt      time.Time `json:"expiresAt"`
}

// Signup creates a new user account
func (s *UserService) Signup(ctx context.Context, cmd SignupCommand) (*UserDTO, error) {
	s.logger.Info("Registering new user", zap.String("username", cmd.Username))

	if _, err := s.userRepo.FindByEmail(ctx, cmd.Email); err == nil {
		return nil, apperrors.NewEmailAlreadyExistsError(cmd.Email)
	} else if !errors.Is(err, outbound.ErrNotFound) {
		return nil, apperrors.NewDatabaseError("look up email", err)
	}

	if _, err := s.userRepo.FindByUsername(ctx, cmd.Username); err == nil {
		return nil, apperrors.NewUsernameAlreadyExistsError(cmd.Username)
	} else if !errors.Is(err, outbound.ErrNotFound) {
		return nil, apperrors.NewDatabaseError("look up username", err)
	}

	newUser, err := user.NewUser(user.Registration{
		FirstName: cmd.FirstName,
		LastName:  cmd.LastName,
		Contact:   cmd.Contact,
		Username:  cmd.Username,
		Email:     cmd.Email,
		Password:  cmd.Password,
	}, s.bcryptCost)
	if err != nil {
		return nil, mapDomainError(err)
	}

	if err := s.userRepo.Create(ctx, newUser); err != nil {
		if errors.Is(err, outbound.ErrDuplicate) {
			return nil, apperrors.NewConflictError("Username or email already exists")
		}
		return nil, apperrors.NewDatabaseError("save user", err)
	}

	dispatchAll(s.dispatcher, s.logger, newUser.Events())

	s.logger.Info("User registered successfully", zap.String("user_id", newUser.ID().String()))

	dto := toDTO(newUser)
	return &dto, nil
}

// Login authenticates a user by username and password
func (s *UserService) Login(ctx context.Context, cmd LoginCommand) (*LoginResult, error) {
	s.logger.Info("User login attempt", zap.String("username", cmd.Username))

	userEntity, err := s.userRepo.FindByUsername(ctx, cmd.Username)
	if errors.Is(err, outbound.ErrNotFound) {
		return nil, apperrors.NewUserNotFoundError(cmd.Username)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError("look up user", err)
	}

	if err := userEntity.CheckPassword(cmd.Password); err != nil {
		s.logger.Warn("Invalid password attempt", zap.String("username", cmd.Username))
		return nil, apperrors.NewInvalidPasswordError()
	}

	userEntity.RecordLogin()
	if err := s.userRepo.UpdateLastLogin(ctx, userEntity.ID(), *userEntity.LastLoginAt()); err != nil {
		s.logger.Error("Failed to update last login", zap.Error(err))
	}

	token, err := s.tokens.GenerateAccessToken(userEntity.ID())
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to generate token").WithCause(err)
	}

	hasDetails, err := s.profiles.Exists(ctx, userEntity.ID())
	if err != nil {
		return nil, apperrors.NewDatabaseError("check user details", err)
	}

	s.logger.Info("User logged in successfully", zap.String("user_id", userEntity.ID().String()))

	return &LoginResult{
		Message:        "Login successful",
		Token:          token.Token,
		UserID:         userEntity.ID(),
		HasUserDetails: hasDetails,
		ExpiresAt:      token.ExpiresAt,
	}, nil
}

// Logout revokes the presented token until it would have expired
func (s *UserService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if err := s.revoker.Revoke(ctx, tokenID, expiresAt); err != nil {
		return apperrors.NewServiceUnavailableError("token store", err)
	}
	return nil
}

// GetProfile returns the user's account details
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	userEntity, err := s.find(ctx, userID)
	if err != nil {
		return nil, err
	}

	dto := toDTO(userEntity)
	return &dto, nil
}

// UpdateProfile replaces the user's name and contact number
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, cmd UpdateProfileCommand) (*UserDTO, error) {
	userEntity, err := s.find(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := userEntity.UpdateContactDetails(user.ContactDetails{
		FirstName: cmd.FirstName,
		LastName:  cmd.LastName,
		Contact:   cmd.Contact,
	}); err != nil {
		return nil, mapDomainError(err)
	}

	if err := s.userRepo.Update(ctx, userEntity); err != nil {
		if errors.Is(err, outbound.ErrNotFound) {
			return nil, apperrors.NewUserNotFoundError(userID.String())
		}
		return nil, apperrors.NewDatabaseError("update profile", err)
	}

	s.logger.Info("User profile updated", zap.String("user_id", userID.String()))

	dto := toDTO(userEntity)
	return &dto, nil
}

func (s *UserService) find(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	userEntity, err := s.userRepo.FindByID(ctx, userID)
	if errors.Is(err, outbound.ErrNotFound) {
		return nil, apperrors.NewUserNotFoundError(userID.String())
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError("load user", err)
	}
	return userEntity, nil
}

func toDTO(u *user.User) UserDTO {
	return UserDTO{
		ID:          u.ID(),
		FirstName:   u.FirstName(),
		LastName:    u.LastName(),
		Contact:     u.Contact(),
		Username:    u.Username(),
		Email:       u.Email(),
		CreatedAt:   u.CreatedAt(),
		LastLoginAt: u.LastLoginAt(),
	}
}

func mapDomainError(err error) error {
	switch {
	case errors.Is(err, user.ErrPasswordHashing):
		return apperrors.NewInternalError("Failed to secure password").WithCause(err)
	default:
		return apperrors.NewValidationError(err.Error()).WithCause(err)
	}
}

func dispatchAll(d shared.EventDispatcher, log *zap.Logger, events []shared.DomainEvent) {
	for _, e := range events {
		if err := d.Dispatch(e); err != nil {
			log.Warn("Event handler failed", zap.String("event", e.EventName()), zap.Error(err))
		}
	}
}
