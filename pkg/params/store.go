package params

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
)

// Store owns the active ParameterSet and serves both the scoring path and
// the control plane. Readers are lock-free: every accessor loads the active
// set through a single atomic pointer, so a concurrent update is observed
// either entirely or not at all, never as a torn mixture. Updates build and
// validate a complete candidate before publishing it in one swap.
type Store struct {
	active   atomic.Pointer[ParameterSet]
	weights  atomic.Pointer[map[int]WeightClass]
	defaults ParameterSet

	// freqWeightCapable gates per-frequency weight scoring; callers set it
	// from a platform capability flag, not a version probe.
	freqWeightCapable bool

	logger *log.Logger

	// mu serializes writers only; it is never taken on the read path.
	mu sync.Mutex
}

// NewStore creates a Store seeded with the given defaults. Defaults that
// fail validation are reported and replaced wholesale by the compiled-in
// set; construction never fails. A nil logger falls back to log.Default().
func NewStore(defaults ParameterSet, freqWeightCapable bool, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	if err := defaults.validate(); err != nil {
		logger.Printf("inconsistent parameter defaults, using compiled-in values: %v", err)
		defaults = Defaults()
	}
	s := &Store{
		defaults:          defaults,
		freqWeightCapable: freqWeightCapable,
		logger:            logger,
	}
	s.active.Store(&defaults)
	empty := map[int]WeightClass{}
	s.weights.Store(&empty)
	return s
}

// current returns the active set. The pointee is immutable; callers may
// read it freely but must not retain it across an update if they need
// freshness.
func (s *Store) current() *ParameterSet {
	return s.active.Load()
}

// Apply parses, validates, and atomically installs an override string.
// Blank input is a no-op. On any error the previously active set remains in
// effect, untouched. The returned error wraps ErrGrammar, ErrParse, or
// ErrValidation.
func (s *Store) Apply(kvList string) error {
	if strings.TrimSpace(kvList) == "" {
		return nil
	}
	kv, err := parseOverride(kvList)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	candidate := *s.active.Load()
	if err := candidate.applyOverrides(kv); err != nil {
		return err
	}
	if err := candidate.validate(); err != nil {
		return err
	}
	s.active.Store(&candidate)
	return nil
}

// Update is the boolean form of Apply. Rejections are logged with a
// sanitized copy of the input and do not disturb the active set.
func (s *Store) Update(kvList string) bool {
	if err := s.Apply(kvList); err != nil {
		s.logger.Printf("parameter override rejected: %v", err)
		return false
	}
	return true
}

// Render serializes the active set in override grammar. Only the externally
// overridable keys appear; Update(Render()) leaves the store unchanged.
func (s *Store) Render() string {
	return s.current().Render()
}

// Snapshot returns a copy of the active set for structured inspection.
func (s *Store) Snapshot() ParameterSet {
	return *s.current()
}

// SetBandThresholds replaces one band's RSSI threshold array through the
// same validate-then-swap path as Update. An all-zero array restores the
// band's defaults.
func (s *Store) SetBandThresholds(band Band, thresholds [numTiers]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidate := *s.active.Load()
	if thresholds == ([numTiers]int{}) {
		thresholds = s.defaults.BandThresholds(band)
	}
	switch band {
	case Band24GHz:
		candidate.RSSI2 = thresholds
	case Band5GHz:
		candidate.RSSI5 = thresholds
	case Band6GHz:
		candidate.RSSI6 = thresholds
	default:
		return fmt.Errorf("%w: unknown band %d", ErrValidation, band)
	}
	if err := candidate.validate(); err != nil {
		return err
	}
	s.active.Store(&candidate)
	return nil
}

// rssiThresholds maps a frequency to its band's threshold array. Unknown
// frequencies fall back to the 5 GHz array; that is defined behavior, but
// worth a diagnostic since callers should not be asking.
func (s *Store) rssiThresholds(freqMHz int) [numTiers]int {
	band, ok := BandForFrequency(freqMHz)
	if !ok {
		s.logger.Printf("invalid frequency %d MHz, using 5GHz thresholds", freqMHz)
	}
	return s.current().BandThresholds(band)
}

// ExitRSSI returns the RSSI below which a connection is deemed unusable.
func (s *Store) ExitRSSI(freqMHz int) int {
	return s.rssiThresholds(freqMHz)[TierExit]
}

// EntryRSSI returns the minimum scan RSSI for making a connection attempt.
func (s *Store) EntryRSSI(freqMHz int) int {
	return s.rssiThresholds(freqMHz)[TierEntry]
}

// SufficientRSSI returns the connected RSSI above which there is no need to
// scan for alternatives.
func (s *Store) SufficientRSSI(freqMHz int) int {
	return s.rssiThresholds(freqMHz)[TierSufficient]
}

// GoodRSSI returns the connected RSSI that indicates a good connection.
func (s *Store) GoodRSSI(freqMHz int) int {
	return s.rssiThresholds(freqMHz)[TierGood]
}

// HorizonSeconds returns the RSSI forecast window in seconds.
func (s *Store) HorizonSeconds() int {
	return s.current().Horizon
}

// ActiveTrafficPPS returns the packet rate at which scans and network
// selection may be skipped.
func (s *Store) ActiveTrafficPPS() int {
	return s.current().PPS[TrafficActive]
}

// HighTrafficPPS returns the packet rate considered acceptable for staying
// connected no matter how bad the RSSI gets.
func (s *Store) HighTrafficPPS() int {
	return s.current().PPS[TrafficHigh]
}

// NUDKnob returns the 0-10 network unreachability detection aggressiveness.
func (s *Store) NUDKnob() int {
	return s.current().NUD
}

// ExperimentID returns the identifier tagging the active settings.
func (s *Store) ExperimentID() int {
	return s.current().ExpID
}

// EstimateRSSIErrorMargin returns the margin (dB) allowed for minor
// environmental and orientation differences in RSSI estimates.
func (s *Store) EstimateRSSIErrorMargin() int {
	return s.current().EstimateRSSIErrorMargin
}

func (s *Store) ThroughputBonusNumerator() int {
	return s.current().ThroughputBonusNumerator
}

func (s *Store) ThroughputBonusDenominator() int {
	return s.current().ThroughputBonusDenominator
}

func (s *Store) ThroughputBonusNumeratorAfter800Mbps() int {
	return s.current().ThroughputBonusNumeratorAfter800Mbps
}

func (s *Store) ThroughputBonusDenominatorAfter800Mbps() int {
	return s.current().ThroughputBonusDenominatorAfter800Mbps
}

// ThroughputBonusLimit returns the cap on the throughput contribution to a
// candidate's score.
func (s *Store) ThroughputBonusLimit() int {
	return s.current().ThroughputBonusLimit
}

func (s *Store) SavedNetworkBonus() int {
	return s.current().SavedNetworkBonus
}

func (s *Store) UnmeteredNetworkBonus() int {
	return s.current().UnmeteredNetworkBonus
}

func (s *Store) CurrentNetworkBonusMin() int {
	return s.current().CurrentNetworkBonusMin
}

// CurrentNetworkBonusPercent returns the percentage bonus applied to the
// RSSI and throughput scores of the currently connected network.
func (s *Store) CurrentNetworkBonusPercent() int {
	return s.current().CurrentNetworkBonusPercent
}

func (s *Store) SecureNetworkBonus() int {
	return s.current().SecureNetworkBonus
}

func (s *Store) Band6GHzBonus() int {
	return s.current().Band6GHzBonus
}

// BucketStepSize returns the score distance between scoring buckets.
func (s *Store) BucketStepSize() int {
	return s.current().BucketStepSize
}

func (s *Store) LastUnmeteredSelectionMinutes() int {
	return s.current().LastUnmeteredSelectionMinutes
}

func (s *Store) LastMeteredSelectionMinutes() int {
	return s.current().LastMeteredSelectionMinutes
}

// Is6GHzBeaconRSSIBoostEnabled reports whether beacon RSSI may be boosted
// on 6 GHz based on channel width.
func (s *Store) Is6GHzBeaconRSSIBoostEnabled() bool {
	return s.current().Enable6GHzBeaconRSSIBoost
}
