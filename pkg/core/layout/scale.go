package layout

import "math"

// Scale maps a continuous domain linearly onto a pixel range.
type Scale struct {
	D0, D1 float64 // domain
	R0, R1 float64 // range
}

// NewLinear returns the linear scale [d0, d1] -> [r0, r1].
func NewLinear(d0, d1, r0, r1 float64) Scale {
	return Scale{D0: d0, D1: d1, R0: r0, R1: r1}
}

// Map converts a domain value to the range.
func (s Scale) Map(v float64) float64 {
	if s.D1 == s.D0 {
		return (s.R0 + s.R1) / 2
	}
	return s.R0 + (v-s.D0)/(s.D1-s.D0)*(s.R1-s.R0)
}

// Invert converts a range value back to the domain.
func (s Scale) Invert(px float64) float64 {
	if s.R1 == s.R0 {
		return (s.D0 + s.D1) / 2
	}
	return s.D0 + (px-s.R0)/(s.R1-s.R0)*(s.D1-s.D0)
}

// Nice extends the domain outward to round tick boundaries for roughly count
// ticks, repeating until the tick step settles.
func (s Scale) Nice(count int) Scale {
	start, stop := s.D0, s.D1
	reversed := stop < start
	if reversed {
		start, stop = stop, start
	}

	var prev float64
	for range 10 {
		step := tickIncrement(start, stop, count)
		if step == prev {
			break
		}
		switch {
		case step > 0:
			start = math.Floor(start/step) * step
			stop = math.Ceil(stop/step) * step
		case step < 0:
			start = math.Ceil(start*step) / step
			stop = math.Floor(stop*step) / step
		default:
			return s
		}
		prev = step
	}

	if reversed {
		start, stop = stop, start
	}
	s.D0, s.D1 = start, stop
	return s
}

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// tickIncrement returns the tick step for [start, stop]. Steps below one are
// encoded as negative reciprocals so that they stay exact.
func tickIncrement(start, stop float64, count int) float64 {
	if count <= 0 || stop <= start {
		return 0
	}
	step := (stop - start) / float64(count)
	power := math.Floor(math.Log10(step))
	e := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case e >= e10:
		factor = 10
	case e >= e5:
		factor = 5
	case e >= e2:
		factor = 2
	}
	if power < 0 {
		return -math.Pow(10, -power) / factor
	}
	return factor * math.Pow(10, power)
}
