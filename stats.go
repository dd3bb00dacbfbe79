package mandel

import "gonum.org/v1/gonum/stat"

// Stats summarizes a raster.
type Stats struct {
	Unset      int
	Interior   int
	EscapeEven int
	EscapeOdd  int

	// MeanEscape is the mean escape iteration over escaped pixels, 0 if none escaped.
	MeanEscape float64
}

// Stats counts pixels per class and averages the escape iterations.
func (r *Raster) Stats() Stats {
	var s Stats
	escapes := make([]float64, 0, len(r.Class))
	for i, c := range r.Class {
		switch c {
		case ClassUnset:
			s.Unset++
		case ClassInterior:
			s.Interior++
		case ClassEscapeEven:
			s.EscapeEven++
			escapes = append(escapes, float64(r.Iter[i]))
		case ClassEscapeOdd:
			s.EscapeOdd++
			escapes = append(escapes, float64(r.Iter[i]))
		}
	}
	if len(escapes) > 0 {
		s.MeanEscape = stat.Mean(escapes, nil)
	}
	return s
}
