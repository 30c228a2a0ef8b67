package gorm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/macrotrack/api/internal/domain/user"
	"github.com/macrotrack/api/internal/ports/outbound"
)

// UserRepository implements the user repository interface using GORM
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

var _ outbound.UserRepository = (*UserRepository)(nil)

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	result := r.db.WithContext(ctx).Create(UserToModel(u))
	if result.Error != nil {
		return translate(result.Error)
	}
	return nil
}

// Update updates an existing user
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	model := UserToModel(u)

	result := r.db.WithContext(ctx).Model(&UserModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"first_name":    model.FirstName,
			"last_name":     model.LastName,
			"contact":       model.Contact,
			"updated_at":    model.UpdatedAt,
			"last_login_at": model.LastLoginAt,
		})
	if result.Error != nil {
		return translate(result.Error)
	}

	if result.RowsAffected == 0 {
		return outbound.ErrNotFound
	}

	return nil
}

// FindByID finds a user by ID
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByEmail finds a user by email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.findOne(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

// FindByUsername finds a user by username
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.findOne(ctx, "username = ?", strings.TrimSpace(username))
}

// UpdateLastLogin updates the last login timestamp
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&UserModel{}).
		Where("id = ?", id).
		Update("last_login_at", at)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return outbound.ErrNotFound
	}

	return nil
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg interface{}) (*user.User, error) {
	var model UserModel

	result := r.db.WithContext(ctx).First(&model, query, arg)
	if result.Error != nil {
		return nil, translate(result.Error)
	}

	return ModelToUser(&model), nil
}

// translate maps driver errors onto the port's sentinels
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return outbound.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey),
		strings.Contains(err.Error(), "UNIQUE constraint failed"),
		strings.Contains(err.Error(), "duplicate key"):
		return outbound.ErrDuplicate
	default:
		return err
	}
}
