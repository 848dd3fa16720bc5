package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"calcapi/internal/model"
)

// CalculationRepository defines calculation persistence operations. Reads are
// always scoped to the owning user so a caller can never see another user's
// records.
type CalculationRepository interface {
	Create(ctx context.Context, calc *model.Calculation) error
	Update(ctx context.Context, calc *model.Calculation) error
	FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*model.Calculation, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Calculation, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type calculationRepository struct {
	db *gorm.DB
}

// NewCalculationRepository builds a GORM-backed repository.
func NewCalculationRepository(db *gorm.DB) CalculationRepository {
	return &calculationRepository{db: db}
}

func (r *calculationRepository) Create(ctx context.Context, calc *model.Calculation) error {
	return r.db.WithContext(ctx).Create(calc).Error
}

func (r *calculationRepository) Update(ctx context.Context, calc *model.Calculation) error {
	return r.db.WithContext(ctx).Save(calc).Error
}

func (r *calculationRepository) FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*model.Calculation, error) {
	var calc model.Calculation
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&calc).Error; err != nil {
		return nil, err
	}
	return &calc, nil
}

// ListByUser returns the user's calculations in creation order.
func (r *calculationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Calculation, error) {
	var calcs []model.Calculation
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&calcs).Error; err != nil {
		return nil, err
	}
	return calcs, nil
}

func (r *calculationRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Calculation{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
