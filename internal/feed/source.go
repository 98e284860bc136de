package feed

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// ErrInvalidRange is returned when a price range has min > max or a negative bound.
var ErrInvalidRange = errors.New("invalid price range")

// PriceSource produces the price for each new sample.
type PriceSource interface {
	NextPrice() float64
	Name() string
}

// Rand is the randomness a source draws from; *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Clock supplies the timestamp of live samples.
type Clock interface {
	Now() time.Time
}

// RealClock reads the wall clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// NewRand returns a seeded generator. A zero seed uses the current time.
// The result is not safe for concurrent use; the feed only calls it under its write lock.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// UniformSource draws prices uniformly from [Min, Max].
type UniformSource struct {
	Min  float64
	Max  float64
	rand Rand
}

// NewUniformSource validates the range and returns a source backed by r.
func NewUniformSource(min, max float64, r Rand) (*UniformSource, error) {
	if min < 0 || min > max {
		return nil, fmt.Errorf("%w: [%.2f, %.2f]", ErrInvalidRange, min, max)
	}
	return &UniformSource{Min: min, Max: max, rand: r}, nil
}

func (u *UniformSource) Name() string { return "uniform" }

func (u *UniformSource) NextPrice() float64 {
	return u.Min + u.rand.Float64()*(u.Max-u.Min)
}
