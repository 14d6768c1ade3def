package params

// WeightClass classifies a frequency as preferred or avoided during
// candidate selection. It is a closed enumeration; callers validate values
// before handing a table to the store.
type WeightClass int

const (
	WeightLow WeightClass = iota
	WeightHigh
)

// ParseWeightClass maps the external spelling of a weight class. The second
// return is false for anything outside the enumeration.
func ParseWeightClass(s string) (WeightClass, bool) {
	switch s {
	case "low":
		return WeightLow, true
	case "high":
		return WeightHigh, true
	}
	return 0, false
}

func (c WeightClass) String() string {
	switch c {
	case WeightLow:
		return "low"
	case WeightHigh:
		return "high"
	}
	return "unknown"
}

// Scores returned by FrequencyScore per weight class.
const (
	FrequencyScoreLow     = -40
	FrequencyScoreDefault = 0
	FrequencyScoreHigh    = 40
)

// SetFrequencyWeights replaces the frequency weight table wholesale. The
// map is copied, so the caller keeps ownership of its argument. The table
// lives independently of the parameter set and is not validated here.
func (s *Store) SetFrequencyWeights(weights map[int]WeightClass) {
	copied := make(map[int]WeightClass, len(weights))
	for freq, class := range weights {
		copied[freq] = class
	}
	s.weights.Store(&copied)
}

// FrequencyWeights returns a copy of the current frequency weight table.
func (s *Store) FrequencyWeights() map[int]WeightClass {
	table := *s.weights.Load()
	copied := make(map[int]WeightClass, len(table))
	for freq, class := range table {
		copied[freq] = class
	}
	return copied
}

// FrequencyScore returns the selection score adjustment for a frequency.
// Absent frequencies score neutral. A stored class outside the enumeration
// should be impossible given upstream validation; it is reported and scored
// neutral rather than failing the scoring path.
func (s *Store) FrequencyScore(freqMHz int) int {
	if !s.freqWeightCapable {
		return FrequencyScoreDefault
	}
	class, ok := (*s.weights.Load())[freqMHz]
	if !ok {
		return FrequencyScoreDefault
	}
	switch class {
	case WeightLow:
		return FrequencyScoreLow
	case WeightHigh:
		return FrequencyScoreHigh
	default:
		s.logger.Printf("invalid frequency weight class %d for %d MHz", class, freqMHz)
		return FrequencyScoreDefault
	}
}
