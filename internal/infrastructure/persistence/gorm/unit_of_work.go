package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/macrotrack/api/internal/ports/outbound"
)

// UnitOfWork runs a callback inside a database transaction
type UnitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork creates a new unit of work
func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

var _ outbound.UnitOfWork = (*UnitOfWork)(nil)

// WithinTx commits when fn returns nil and rolls back otherwise
func (u *UnitOfWork) WithinTx(ctx context.Context, fn func(tx outbound.TxRepositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(outbound.TxRepositories{
			GoalProfiles: NewGoalProfileRepository(tx),
			Vitals:       NewVitalsRepository(tx),
		})
	})
}
