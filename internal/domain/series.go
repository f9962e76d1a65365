package domain

import "time"

// Series is a named measurement channel (temperature, humidity, ...).
type Series struct {
	ID int `json:"id" gorm:"primaryKey"`

	Name string `json:"name" gorm:"size:100;not null"`
	Unit string `json:"unit" gorm:"size:20;not null"`

	MinValue *float64 `json:"min_value,omitempty"`
	MaxValue *float64 `json:"max_value,omitempty"`
	ColorHex *string  `json:"color_hex,omitempty" gorm:"size:7"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Measurements []Measurement `json:"measurements,omitempty" gorm:"foreignKey:SeriesID;constraint:OnDelete:CASCADE"`
}

// Measurement is a single timestamped value in a series.
type Measurement struct {
	ID int64 `json:"id" gorm:"primaryKey"`

	SeriesID   int       `json:"series_id" gorm:"index:idx_measurements_series_time;not null"`
	MeasuredAt time.Time `json:"measured_at" gorm:"index:idx_measurements_series_time;not null"`
	Value      float64   `json:"value" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
}
