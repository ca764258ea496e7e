package cloud

import "github.com/matzehuels/categorycloud/pkg/membership"

// NeutralSize is the size every entry gets when all counts are equal.
const NeutralSize = 100.0

// Stats summarizes the counts of a non-empty entry set.
type Stats struct {
	Min     int     `json:"min"`
	Max     int     `json:"max"`
	Total   int     `json:"total"`
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

// ComputeStats derives Stats from entries. For an empty slice it returns the
// zero value.
func ComputeStats(entries []membership.Entry) Stats {
	if len(entries) == 0 {
		return Stats{}
	}
	s := Stats{Min: entries[0].Count, Max: entries[0].Count}
	for _, e := range entries {
		s.Total += e.Count
		s.Min = min(s.Min, e.Count)
		s.Max = max(s.Max, e.Count)
	}
	s.Count = len(entries)
	s.Average = float64(s.Total) / float64(s.Count)
	return s
}

// Size maps count linearly from [stats.Min, stats.Max] onto
// [minSize, maxSize]. Equal counts map to NeutralSize. The end points are
// returned exactly; bounds are not reordered.
func Size(count int, stats Stats, minSize, maxSize float64) float64 {
	delta := stats.Max - stats.Min
	switch {
	case delta == 0:
		return NeutralSize
	case count == stats.Min:
		return minSize
	case count == stats.Max:
		return maxSize
	}
	return minSize + float64(count-stats.Min)*(maxSize-minSize)/float64(delta)
}
