package schedule

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Balance summarizes how evenly field time was shared.
type Balance struct {
	Players         int
	Min             int
	Max             int
	Spread          int
	Mean            float64
	StdDev          float64
	WithinTolerance int // players within tolerance of their fair share
}

// Summarize computes balance statistics over the players eligible for field
// time, in roster order.
func Summarize(r *Result, tolerance float64) Balance {
	var values []float64
	var b Balance
	for _, p := range r.Players {
		m, ok := r.FieldMinutes[p]
		if !ok {
			continue
		}
		values = append(values, float64(m))
		target, ok := r.FairShare[p]
		if !ok {
			target = r.TargetFieldMinutes
		}
		if math.Abs(float64(m)-target) <= tolerance {
			b.WithinTolerance++
		}
	}

	b.Players = len(values)
	if len(values) == 0 {
		return b
	}
	b.Min = int(floats.Min(values))
	b.Max = int(floats.Max(values))
	b.Spread = b.Max - b.Min
	if len(values) < 2 {
		b.Mean = values[0]
		return b
	}
	b.Mean, b.StdDev = stat.MeanStdDev(values, nil)
	return b
}
