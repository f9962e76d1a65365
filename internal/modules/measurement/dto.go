package measurement

import "time"

// CreateUpdateRequest serves both POST and PUT; an update may move the
// measurement to a different series.
type CreateUpdateRequest struct {
	SeriesID   int       `json:"series_id" binding:"required"`
	MeasuredAt time.Time `json:"measured_at" binding:"required"`
	Value      float64   `json:"value"`
}

// StreamEvent is pushed to websocket subscribers when a measurement lands.
type StreamEvent struct {
	Type        string `json:"type"`
	Measurement any    `json:"measurement"`
}
