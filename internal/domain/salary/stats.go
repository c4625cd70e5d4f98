package salary

import "math"

// Stats holds salary aggregates for one query. Values coming straight off
// the index are storage-scaled; Scale converts them to dollar amounts.
// Nil pointers mean the statistic is undefined (no matching records).
type Stats struct {
	DataPoints int64
	Mean       *float64
	P25        *float64
	P50        *float64
	P75        *float64
}

// Scale undoes the storage scaling on every defined statistic and rounds
// to cents. An undefined mean means the whole aggregation ran over zero
// records, so everything propagates unscaled.
func (s Stats) Scale() Stats {
	if s.Mean == nil {
		return s
	}
	return Stats{
		DataPoints: s.DataPoints,
		Mean:       rescale(s.Mean),
		P25:        rescale(s.P25),
		P50:        rescale(s.P50),
		P75:        rescale(s.P75),
	}
}

func rescale(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := math.Round(*v*ResultScale*100) / 100
	return &r
}
