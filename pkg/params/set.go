// Package params holds the tunable parameters consumed by connection scoring
// and candidate selection. Keeping every threshold and weight in one place
// means connected scoring and network selection stay consistent, and a new
// collection of values can be checked before it replaces the active one.
package params

import "math"

// Signal strength bounds reported by the platform (dBm).
const (
	MinRSSI = -127
	MaxRSSI = 200
)

// maxValidRSSI is the ceiling applied during validation. Stricter than the
// platform maximum: a threshold at or above 0 dBm is never meaningful.
const maxValidRSSI = -1

// Tier indexes into a band's RSSI threshold array, weakest first.
const (
	TierExit = iota
	TierEntry
	TierSufficient
	TierGood
	numTiers
)

// Traffic intensity indexes into the packet-rate array.
const (
	TrafficIdle = iota
	TrafficActive
	TrafficHigh
	numTrafficLevels
)

// Band identifies one of the three frequency bands with independent
// threshold arrays.
type Band int

const (
	Band24GHz Band = iota
	Band5GHz
	Band6GHz
)

func (b Band) String() string {
	switch b {
	case Band24GHz:
		return "2.4GHz"
	case Band5GHz:
		return "5GHz"
	case Band6GHz:
		return "6GHz"
	}
	return "unknown"
}

// Channel frequency ranges per band (MHz).
const (
	band24LowMHz  = 2401
	band24HighMHz = 2495
	band5LowMHz   = 5150
	band5HighMHz  = 5895
	band6LowMHz   = 5925
	band6HighMHz  = 7125
)

// BandForFrequency classifies a channel frequency in MHz. The second return
// is false when the frequency falls outside every recognized band.
func BandForFrequency(freqMHz int) (Band, bool) {
	switch {
	case freqMHz >= band24LowMHz && freqMHz <= band24HighMHz:
		return Band24GHz, true
	case freqMHz >= band5LowMHz && freqMHz <= band5HighMHz:
		return Band5GHz, true
	case freqMHz >= band6LowMHz && freqMHz <= band6HighMHz:
		return Band6GHz, true
	}
	return Band5GHz, false
}

// Bounds for the scalar tunables.
const (
	minHorizon = -9
	maxHorizon = 60
	minNUD     = 0
	maxNUD     = 10
	minExpID   = 0
	maxExpID   = math.MaxInt32

	// Selection-minute durations are converted to milliseconds downstream;
	// the ceiling keeps that conversion inside a 32-bit int.
	minSelectionMinutes = 1
	maxSelectionMinutes = math.MaxInt32 / (60 * 1000)
)

// ParameterSet is one complete collection of scoring parameters. It is a
// value type: assignment copies it, and the store only ever publishes a set
// that has passed validation, so a published set is never mutated again.
type ParameterSet struct {
	// RSSI thresholds per band (dBm), indexed by tier.
	RSSI2 [numTiers]int
	RSSI5 [numTiers]int
	RSSI6 [numTiers]int

	// Packet rate guidelines (packets/sec), indexed by traffic level.
	PPS [numTrafficLevels]int

	// Horizon is the RSSI forecast window in seconds. Negative values look
	// backward.
	Horizon int

	// NUD is a 0-10 knob for how aggressively to request network
	// unreachability detection checks.
	NUD int

	// ExpID tags a set of experimental settings.
	ExpID int

	// Candidate scoring bonuses.
	ThroughputBonusNumerator               int
	ThroughputBonusDenominator             int
	ThroughputBonusNumeratorAfter800Mbps   int
	ThroughputBonusDenominatorAfter800Mbps int
	ThroughputBonusLimit                   int
	SavedNetworkBonus                      int
	UnmeteredNetworkBonus                  int
	CurrentNetworkBonusMin                 int
	CurrentNetworkBonusPercent             int
	SecureNetworkBonus                     int
	Band6GHzBonus                          int
	BucketStepSize                         int
	EstimateRSSIErrorMargin                int

	// Minutes during which a recently selected network is strongly favored.
	LastUnmeteredSelectionMinutes int
	LastMeteredSelectionMinutes   int

	Enable6GHzBeaconRSSIBoost bool
}

// Defaults returns the compiled-in parameter values. These apply when no
// defaults file is provided, and serve as the fallback when provided
// defaults fail validation.
func Defaults() ParameterSet {
	return ParameterSet{
		RSSI2: [numTiers]int{-83, -80, -73, -60},
		RSSI5: [numTiers]int{-80, -77, -70, -57},
		RSSI6: [numTiers]int{-80, -77, -70, -57},
		PPS:   [numTrafficLevels]int{0, 1, 100},

		Horizon: 15,
		NUD:     8,
		ExpID:   0,

		ThroughputBonusNumerator:               120,
		ThroughputBonusDenominator:             433,
		ThroughputBonusNumeratorAfter800Mbps:   1,
		ThroughputBonusDenominatorAfter800Mbps: 16,
		ThroughputBonusLimit:                   320,
		SavedNetworkBonus:                      500,
		UnmeteredNetworkBonus:                  1000,
		CurrentNetworkBonusMin:                 16,
		CurrentNetworkBonusPercent:             20,
		SecureNetworkBonus:                     40,
		Band6GHzBonus:                          0,
		BucketStepSize:                         500,
		EstimateRSSIErrorMargin:                5,

		LastUnmeteredSelectionMinutes: 480,
		LastMeteredSelectionMinutes:   120,

		Enable6GHzBeaconRSSIBoost: true,
	}
}

// BandThresholds returns the RSSI threshold array for a band.
func (p *ParameterSet) BandThresholds(b Band) [numTiers]int {
	switch b {
	case Band24GHz:
		return p.RSSI2
	case Band6GHz:
		return p.RSSI6
	default:
		return p.RSSI5
	}
}
