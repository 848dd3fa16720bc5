package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"calcapi/internal/cache"
	"calcapi/internal/calc"
	apperrors "calcapi/internal/errors"
	"calcapi/internal/model"
	"calcapi/internal/repository"
)

const calculationCacheTTL = 5 * time.Minute

// CalculationService handles owner-scoped calculation CRUD. Results are
// computed before persisting, so stored records always carry one.
type CalculationService interface {
	Create(ctx context.Context, userID uuid.UUID, calcType string, inputs []float64) (*model.Calculation, error)
	List(ctx context.Context, userID uuid.UUID) ([]model.Calculation, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*model.Calculation, error)
	Update(ctx context.Context, userID, id uuid.UUID, inputs []float64) (*model.Calculation, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type calculationService struct {
	repo     repository.CalculationRepository
	registry *calc.Registry
	cache    *cache.Client
}

// NewCalculationService creates a new calculation service.
func NewCalculationService(repo repository.CalculationRepository, registry *calc.Registry, cache *cache.Client) CalculationService {
	return &calculationService{
		repo:     repo,
		registry: registry,
		cache:    cache,
	}
}

func (s *calculationService) listCacheKey(userID uuid.UUID) string {
	return fmt.Sprintf("calculations:user:%s", userID)
}

func (s *calculationService) recordCacheKey(userID, id uuid.UUID) string {
	return fmt.Sprintf("calculations:%s:%s", userID, id)
}

func (s *calculationService) invalidate(ctx context.Context, userID, id uuid.UUID) {
	_ = s.cache.Delete(ctx, s.listCacheKey(userID))
	_ = s.cache.Delete(ctx, s.recordCacheKey(userID, id))
}

func (s *calculationService) Create(ctx context.Context, userID uuid.UUID, calcType string, inputs []float64) (*model.Calculation, error) {
	record, err := s.registry.New(calcType, userID, inputs)
	if err != nil {
		return nil, err
	}

	result, err := s.registry.Result(record.Type, record.Inputs)
	if err != nil {
		return nil, err
	}
	record.Result = &result

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("create calculation: %w", err)
	}

	s.invalidate(ctx, userID, record.ID)
	return record, nil
}

// List returns the caller's calculations in creation order, through the
// fail-safe cache.
func (s *calculationService) List(ctx context.Context, userID uuid.UUID) ([]model.Calculation, error) {
	if data, _ := s.cache.Get(ctx, s.listCacheKey(userID)); data != nil {
		var cached []model.Calculation
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	calcs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(calcs); err == nil {
		_ = s.cache.Set(ctx, s.listCacheKey(userID), payload, calculationCacheTTL)
	}
	return calcs, nil
}

func (s *calculationService) Get(ctx context.Context, userID, id uuid.UUID) (*model.Calculation, error) {
	if data, _ := s.cache.Get(ctx, s.recordCacheKey(userID, id)); data != nil {
		var cached model.Calculation
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	record, err := s.repo.FindByIDForUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCalculationNotFound
		}
		return nil, err
	}

	if payload, err := json.Marshal(record); err == nil {
		_ = s.cache.Set(ctx, s.recordCacheKey(userID, id), payload, calculationCacheTTL)
	}
	return record, nil
}

// Update replaces the operand list and recomputes the result under the
// record's existing variant.
func (s *calculationService) Update(ctx context.Context, userID, id uuid.UUID, inputs []float64) (*model.Calculation, error) {
	record, err := s.repo.FindByIDForUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCalculationNotFound
		}
		return nil, err
	}

	// Revalidate operand count against the record's variant.
	if _, err := s.registry.New(record.Type, userID, inputs); err != nil {
		return nil, err
	}
	result, err := s.registry.Result(record.Type, inputs)
	if err != nil {
		return nil, err
	}

	record.Inputs = model.Operands(inputs)
	record.Result = &result

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("update calculation: %w", err)
	}

	s.invalidate(ctx, userID, id)
	return record, nil
}

func (s *calculationService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCalculationNotFound
		}
		return err
	}

	s.invalidate(ctx, userID, id)
	return nil
}
