package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"datavisapi/internal/domain"
)

func createSeries(t *testing.T, db *gorm.DB, name string) *domain.Series {
	t.Helper()

	s := &domain.Series{Name: name, Unit: "x", CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()}
	require.NoError(t, db.Create(s).Error)
	return s
}

func createMeasurement(t *testing.T, db *gorm.DB, seriesID int, at time.Time, value float64) *domain.Measurement {
	t.Helper()

	m := &domain.Measurement{SeriesID: seriesID, MeasuredAt: at, Value: value, CreatedAt: time.Now().UTC()}
	require.NoError(t, db.Create(m).Error)
	return m
}

func TestMeasurementRepository_ListBySeries_WindowIsInclusive(t *testing.T) {
	db := setupDB(t)
	series := createSeries(t, db, "Temperature")
	repo := NewMeasurementRepository(db)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	createMeasurement(t, db, series.ID, base.Add(-time.Second), 1) // before from
	createMeasurement(t, db, series.ID, base, 2)                   // exactly from
	createMeasurement(t, db, series.ID, base.Add(30*time.Minute), 3)
	createMeasurement(t, db, series.ID, base.Add(time.Hour), 4)             // exactly to
	createMeasurement(t, db, series.ID, base.Add(time.Hour+time.Second), 5) // after to

	from := base
	to := base.Add(time.Hour)
	list, err := repo.ListBySeries(context.Background(), MeasurementFilters{
		SeriesID: series.ID,
		From:     &from,
		To:       &to,
	})
	require.NoError(t, err)

	// Both window edges belong to the result.
	require.Len(t, list, 3)
	assert.Equal(t, 2.0, list[0].Value)
	assert.Equal(t, 3.0, list[1].Value)
	assert.Equal(t, 4.0, list[2].Value)
}

func TestMeasurementRepository_ListBySeries_FiltersBySeries(t *testing.T) {
	db := setupDB(t)
	a := createSeries(t, db, "A")
	b := createSeries(t, db, "B")
	repo := NewMeasurementRepository(db)

	now := time.Now().UTC()
	createMeasurement(t, db, a.ID, now, 1)
	createMeasurement(t, db, b.ID, now, 2)

	list, err := repo.ListBySeries(context.Background(), MeasurementFilters{SeriesID: a.ID})
	require.NoError(t, err)

	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].SeriesID)
}
