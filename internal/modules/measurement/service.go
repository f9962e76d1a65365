package measurement

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"datavisapi/internal/domain"
	"datavisapi/internal/pkg/clock"
	"datavisapi/internal/repository"
)

type Repository interface {
	ListBySeries(ctx context.Context, f repository.MeasurementFilters) ([]domain.Measurement, error)
	GetByID(ctx context.Context, id int64) (*domain.Measurement, error)
	Create(ctx context.Context, m *domain.Measurement) error
	Update(ctx context.Context, m *domain.Measurement) error
	Delete(ctx context.Context, id int64) error
}

type SeriesReader interface {
	GetByID(ctx context.Context, id int) (*domain.Series, error)
}

type Service struct {
	measurements Repository
	series       SeriesReader
	hub          *Hub
	clock        clock.Clock
}

func NewService(measurements Repository, series SeriesReader, hub *Hub, clk clock.Clock) *Service {
	return &Service{
		measurements: measurements,
		series:       series,
		hub:          hub,
		clock:        clk,
	}
}

func (s *Service) ListBySeries(ctx context.Context, f repository.MeasurementFilters) ([]domain.Measurement, error) {
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return nil, ErrValidation
	}
	return s.measurements.ListBySeries(ctx, f)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Measurement, error) {
	m, err := s.measurements.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (s *Service) Create(ctx context.Context, req CreateUpdateRequest) (*domain.Measurement, error) {
	if err := s.checkSeriesBounds(ctx, req.SeriesID, req.Value); err != nil {
		return nil, err
	}

	m := &domain.Measurement{
		SeriesID:   req.SeriesID,
		MeasuredAt: req.MeasuredAt.UTC(),
		Value:      req.Value,
		CreatedAt:  s.clock.Now(),
	}

	if err := s.measurements.Create(ctx, m); err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.Broadcast(StreamEvent{Type: "measurement_created", Measurement: m})
	}

	return m, nil
}

func (s *Service) Update(ctx context.Context, id int64, req CreateUpdateRequest) (*domain.Measurement, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// The target series may differ from the current one; bounds come from
	// whichever series the measurement ends up in.
	if err := s.checkSeriesBounds(ctx, req.SeriesID, req.Value); err != nil {
		return nil, err
	}

	m.SeriesID = req.SeriesID
	m.MeasuredAt = req.MeasuredAt.UTC()
	m.Value = req.Value

	if err := s.measurements.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// checkSeriesBounds verifies the series exists and that the value respects
// its optional min/max limits.
func (s *Service) checkSeriesBounds(ctx context.Context, seriesID int, value float64) error {
	series, err := s.series.GetByID(ctx, seriesID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSeriesNotFound
		}
		return err
	}

	if series.MinValue != nil && value < *series.MinValue {
		return ErrValidation
	}
	if series.MaxValue != nil && value > *series.MaxValue {
		return ErrValidation
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.measurements.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
