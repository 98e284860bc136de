package model

import (
	"time"

	"github.com/google/uuid"
)

// Sample is one (timestamp, price) observation in the time series.
type Sample struct {
	ID        uuid.UUID
	Timestamp time.Time
	Price     float64
}

// NewSample creates a sample with a fresh ID.
func NewSample(ts time.Time, price float64) Sample {
	return Sample{ID: uuid.New(), Timestamp: ts, Price: price}
}
