package series

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"datavisapi/internal/domain"
	"datavisapi/internal/pkg/clock"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Series, error)
	ListWithMeasurements(ctx context.Context) ([]domain.Series, error)
	GetByID(ctx context.Context, id int) (*domain.Series, error)
	Create(ctx context.Context, s *domain.Series) error
	Update(ctx context.Context, s *domain.Series) error
	UpdateColor(ctx context.Context, id int, colorHex *string) error
	Delete(ctx context.Context, id int) error
}

type Service struct {
	series Repository
	clock  clock.Clock
}

func NewService(series Repository, clk clock.Clock) *Service {
	return &Service{series: series, clock: clk}
}

func (s *Service) List(ctx context.Context) ([]domain.Series, error) {
	return s.series.List(ctx)
}

func (s *Service) ListWithMeasurements(ctx context.Context) ([]domain.Series, error) {
	return s.series.ListWithMeasurements(ctx)
}

func (s *Service) Get(ctx context.Context, id int) (*domain.Series, error) {
	series, err := s.series.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return series, nil
}

func (s *Service) Create(ctx context.Context, req CreateUpdateRequest) (*domain.Series, error) {
	if err := validateRange(req.MinValue, req.MaxValue); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	series := &domain.Series{
		Name:      req.Name,
		Unit:      req.Unit,
		MinValue:  req.MinValue,
		MaxValue:  req.MaxValue,
		ColorHex:  req.ColorHex,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.series.Create(ctx, series); err != nil {
		return nil, err
	}
	return series, nil
}

func (s *Service) Update(ctx context.Context, id int, req CreateUpdateRequest) (*domain.Series, error) {
	if err := validateRange(req.MinValue, req.MaxValue); err != nil {
		return nil, err
	}

	series, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	series.Name = req.Name
	series.Unit = req.Unit
	series.MinValue = req.MinValue
	series.MaxValue = req.MaxValue
	series.ColorHex = req.ColorHex
	series.UpdatedAt = s.clock.Now()

	if err := s.series.Update(ctx, series); err != nil {
		return nil, err
	}
	return series, nil
}

func (s *Service) UpdateColor(ctx context.Context, id int, colorHex string) (*domain.Series, error) {
	if err := s.series.UpdateColor(ctx, id, &colorHex); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int) error {
	if err := s.series.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func validateRange(min, max *float64) error {
	if min != nil && max != nil && *min > *max {
		return ErrValidation
	}
	return nil
}
