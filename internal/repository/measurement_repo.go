package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"datavisapi/internal/domain"
)

type MeasurementFilters struct {
	SeriesID int
	From     *time.Time // inclusive
	To       *time.Time // inclusive
	Limit    int
}

type MeasurementRepository struct {
	db *gorm.DB
}

func NewMeasurementRepository(db *gorm.DB) *MeasurementRepository {
	return &MeasurementRepository{db: db}
}

func (r *MeasurementRepository) ListBySeries(ctx context.Context, f MeasurementFilters) ([]domain.Measurement, error) {
	q := r.db.WithContext(ctx).
		Where("series_id = ?", f.SeriesID).
		Order("measured_at")

	if f.From != nil {
		q = q.Where("measured_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("measured_at <= ?", *f.To)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var measurements []domain.Measurement
	err := q.Find(&measurements).Error
	return measurements, err
}

func (r *MeasurementRepository) GetByID(ctx context.Context, id int64) (*domain.Measurement, error) {
	var m domain.Measurement
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MeasurementRepository) Create(ctx context.Context, m *domain.Measurement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *MeasurementRepository) Update(ctx context.Context, m *domain.Measurement) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *MeasurementRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Measurement{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
