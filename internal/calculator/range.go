package calculator

import (
	"errors"

	"StockApp/internal/model"
)

var errEmptyWindow = errors.New("no samples provided")

// WindowRange returns the highest and lowest price in the window.
func WindowRange(samples []model.Sample) (high, low float64, err error) {
	if len(samples) == 0 {
		return 0, 0, errEmptyWindow
	}
	high, low = samples[0].Price, samples[0].Price
	for _, s := range samples[1:] {
		high = max(high, s.Price)
		low = min(low, s.Price)
	}
	return high, low, nil
}

// Stats summarizes a window for the price label.
type Stats struct {
	Count   int
	Latest  float64
	Average float64
	High    float64
	Low     float64
	// Position of Latest within [Low, High], 0.0~1.0; 0.5 on a flat window.
	Position float64
}

// Summarize computes Stats in a single pass over the window.
func Summarize(samples []model.Sample) (Stats, error) {
	if len(samples) == 0 {
		return Stats{}, errEmptyWindow
	}
	st := Stats{
		Count:  len(samples),
		Latest: samples[len(samples)-1].Price,
		High:   samples[0].Price,
		Low:    samples[0].Price,
	}
	var sum float64
	for _, s := range samples {
		sum += s.Price
		st.High = max(st.High, s.Price)
		st.Low = min(st.Low, s.Price)
	}
	st.Average = sum / float64(st.Count)

	st.Position = 0.5
	if st.High > st.Low {
		st.Position = (st.Latest - st.Low) / (st.High - st.Low)
	}
	return st, nil
}
