package repository

import (
	"context"

	"gorm.io/gorm"

	"datavisapi/internal/domain"
)

type SeriesRepository struct {
	db *gorm.DB
}

func NewSeriesRepository(db *gorm.DB) *SeriesRepository {
	return &SeriesRepository{db: db}
}

// List returns all series ordered by name.
func (r *SeriesRepository) List(ctx context.Context) ([]domain.Series, error) {
	var series []domain.Series
	err := r.db.WithContext(ctx).Order("name").Find(&series).Error
	return series, err
}

// ListWithMeasurements preloads each series' measurements in time order.
func (r *SeriesRepository) ListWithMeasurements(ctx context.Context) ([]domain.Series, error) {
	var series []domain.Series
	err := r.db.WithContext(ctx).
		Preload("Measurements", func(db *gorm.DB) *gorm.DB {
			return db.Order("measured_at")
		}).
		Order("name").
		Find(&series).Error
	return series, err
}

func (r *SeriesRepository) GetByID(ctx context.Context, id int) (*domain.Series, error) {
	var s domain.Series
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SeriesRepository) Create(ctx context.Context, s *domain.Series) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *SeriesRepository) Update(ctx context.Context, s *domain.Series) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *SeriesRepository) UpdateColor(ctx context.Context, id int, colorHex *string) error {
	res := r.db.WithContext(ctx).Model(&domain.Series{}).
		Where("id = ?", id).
		Update("color_hex", colorHex)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *SeriesRepository) Delete(ctx context.Context, id int) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Series{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
