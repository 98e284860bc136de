package calculator

import (
	"errors"

	"StockApp/internal/model"
)

// CalculateRSI computes the Wilder-smoothed RSI of the window. The first
// period moves seed the averages; later moves are smoothed in. Windows with
// fewer than period+1 samples read as neutral (50).
func CalculateRSI(samples []model.Sample, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(samples) < period+1 {
		return 50.0, nil
	}

	n := float64(period)
	var avgGain, avgLoss float64
	for i := 1; i < len(samples); i++ {
		gain, loss := move(samples[i-1], samples[i])
		if i <= period {
			avgGain += gain / n
			avgLoss += loss / n
			continue
		}
		avgGain = (avgGain*(n-1) + gain) / n
		avgLoss = (avgLoss*(n-1) + loss) / n
	}

	if avgLoss == 0 {
		return 100.0, nil
	}
	return 100.0 - 100.0/(1.0+avgGain/avgLoss), nil
}

func move(prev, cur model.Sample) (gain, loss float64) {
	d := cur.Price - prev.Price
	if d > 0 {
		return d, 0
	}
	return 0, -d
}
