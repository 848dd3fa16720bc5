package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"calcapi/internal/calc"
	apperrors "calcapi/internal/errors"
	"calcapi/internal/model"
)

// MockCalculationRepository is a mock implementation of CalculationRepository.
type MockCalculationRepository struct {
	mock.Mock
}

func (m *MockCalculationRepository) Create(ctx context.Context, record *model.Calculation) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockCalculationRepository) Update(ctx context.Context, record *model.Calculation) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockCalculationRepository) FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*model.Calculation, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Calculation), args.Error(1)
}

func (m *MockCalculationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Calculation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Calculation), args.Error(1)
}

func (m *MockCalculationRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// The nil cache client degrades to a no-op, so tests exercise the database
// path directly.
func newTestCalcService(repo *MockCalculationRepository) CalculationService {
	return NewCalculationService(repo, calc.Default(), nil)
}

func TestCalculationService_Create(t *testing.T) {
	userID := uuid.New()

	t.Run("computes result before persisting", func(t *testing.T) {
		mockRepo := new(MockCalculationRepository)
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Calculation")).Return(nil)

		svc := newTestCalcService(mockRepo)
		record, err := svc.Create(context.Background(), userID, "addition", []float64{8, 4})

		assert.NoError(t, err)
		assert.Equal(t, "addition", record.Type)
		assert.Equal(t, userID, record.UserID)
		if assert.NotNil(t, record.Result) {
			assert.Equal(t, 12.0, *record.Result)
		}
		mockRepo.AssertExpectations(t)
	})

	t.Run("unknown type never reaches the repository", func(t *testing.T) {
		mockRepo := new(MockCalculationRepository)

		svc := newTestCalcService(mockRepo)
		_, err := svc.Create(context.Background(), userID, "power", []float64{2, 3})

		assert.EqualError(t, err, "Unsupported calculation type: power")
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("too few operands", func(t *testing.T) {
		mockRepo := new(MockCalculationRepository)

		svc := newTestCalcService(mockRepo)
		_, err := svc.Create(context.Background(), userID, "division", []float64{6})

		assert.EqualError(t, err, "division requires at least 2 operands")
	})

	t.Run("zero divisor", func(t *testing.T) {
		mockRepo := new(MockCalculationRepository)

		svc := newTestCalcService(mockRepo)
		_, err := svc.Create(context.Background(), userID, "division", []float64{12, 2, 0, 2})

		assert.EqualError(t, err, "Zero divisor input invalid for Division")
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestCalculationService_Get(t *testing.T) {
	userID := uuid.New()
	recordID := uuid.New()

	t.Run("found", func(t *testing.T) {
		result := 5.0
		mockRepo := new(MockCalculationRepository)
		mockRepo.On("FindByIDForUser", mock.Anything, recordID, userID).Return(&model.Calculation{
			ID:     recordID,
			UserID: userID,
			Type:   "addition",
			Inputs: model.Operands{2, 3},
			Result: &result,
		}, nil)

		svc := newTestCalcService(mockRepo)
		record, err := svc.Get(context.Background(), userID, recordID)

		assert.NoError(t, err)
		assert.Equal(t, recordID, record.ID)
	})

	t.Run("absent or not owned", func(t *testing.T) {
		mockRepo := new(MockCalculationRepository)
		mockRepo.On("FindByIDForUser", mock.Anything, recordID, userID).Return(nil, gorm.ErrRecordNotFound)

		svc := newTestCalcService(mockRepo)
		_, err := svc.Get(context.Background(), userID, recordID)

		assert.Equal(t, apperrors.ErrCalculationNotFound, err)
	})
}

func TestCalculationService_Update(t *testing.T) {
	userID := uuid.New()
	recordID := uuid.New()
	oldResult := 12.0

	stored := func() *model.Calculation {
		return &model.Calculation{
			ID:     recordID,
			UserID: userID,
			Type:   "division",
			Inputs: model.Operands{48, 4},
			Result: &oldResult,
		}
	}

	t.Run("recomputes under the existing variant", func(t *testing.T) {
		mockRepo := new(MockCalculationRepository)
		mockRepo.On("FindByIDForUser", mock.Anything, recordID, userID).Return(stored(), nil)
		mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Calculation")).Return(nil)

		svc := newTestCalcService(mockRepo)
		record, err := svc.Update(context.Background(), userID, recordID, []float64{48, 8})

		assert.NoError(t, err)
		assert.Equal(t, model.Operands{48, 8}, record.Inputs)
		if assert.NotNil(t, record.Result) {
			assert.Equal(t, 6.0, *record.Result)
		}
		mockRepo.AssertExpectations(t)
	})

	t.Run("rejects zero divisor without persisting", func(t *testing.T) {
		mockRepo := new(MockCalculationRepository)
		mockRepo.On("FindByIDForUser", mock.Anything, recordID, userID).Return(stored(), nil)

		svc := newTestCalcService(mockRepo)
		_, err := svc.Update(context.Background(), userID, recordID, []float64{48, 0})

		assert.EqualError(t, err, "Zero divisor input invalid for Division")
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("rejects short operand list", func(t *testing.T) {
		mockRepo := new(MockCalculationRepository)
		mockRepo.On("FindByIDForUser", mock.Anything, recordID, userID).Return(stored(), nil)

		svc := newTestCalcService(mockRepo)
		_, err := svc.Update(context.Background(), userID, recordID, []float64{48})

		assert.EqualError(t, err, "division requires at least 2 operands")
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo := new(MockCalculationRepository)
		mockRepo.On("FindByIDForUser", mock.Anything, recordID, userID).Return(nil, gorm.ErrRecordNotFound)

		svc := newTestCalcService(mockRepo)
		_, err := svc.Update(context.Background(), userID, recordID, []float64{1, 2})

		assert.Equal(t, apperrors.ErrCalculationNotFound, err)
	})
}

func TestCalculationService_Delete(t *testing.T) {
	userID := uuid.New()
	recordID := uuid.New()

	t.Run("deletes owned record", func(t *testing.T) {
		mockRepo := new(MockCalculationRepository)
		mockRepo.On("Delete", mock.Anything, recordID, userID).Return(nil)

		svc := newTestCalcService(mockRepo)
		assert.NoError(t, svc.Delete(context.Background(), userID, recordID))
		mockRepo.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo := new(MockCalculationRepository)
		mockRepo.On("Delete", mock.Anything, recordID, userID).Return(gorm.ErrRecordNotFound)

		svc := newTestCalcService(mockRepo)
		err := svc.Delete(context.Background(), userID, recordID)
		assert.Equal(t, apperrors.ErrCalculationNotFound, err)
	})
}

func TestCalculationService_List(t *testing.T) {
	userID := uuid.New()

	mockRepo := new(MockCalculationRepository)
	mockRepo.On("ListByUser", mock.Anything, userID).Return([]model.Calculation{
		{Type: "addition", Inputs: model.Operands{1, 2}},
		{Type: "modulus", Inputs: model.Operands{6, 3}},
	}, nil)

	svc := newTestCalcService(mockRepo)
	records, err := svc.List(context.Background(), userID)

	assert.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, "addition", records[0].Type)
}
