package params

import (
	"errors"
	"fmt"
)

// ErrValidation indicates a parsed parameter set violates a domain
// invariant (ordering or range).
var ErrValidation = errors.New("parameter constraint violated")

// validate checks every domain invariant, failing fast on the first
// violation. A set that passes is safe to publish.
func (p *ParameterSet) validate() error {
	if err := validateRSSIThresholds(keyRSSI2, p.RSSI2); err != nil {
		return err
	}
	if err := validateRSSIThresholds(keyRSSI5, p.RSSI5); err != nil {
		return err
	}
	if err := validateRSSIThresholds(keyRSSI6, p.RSSI6); err != nil {
		return err
	}
	if err := validatePacketRates(p.PPS); err != nil {
		return err
	}
	if err := validateRange(keyHorizon, p.Horizon, minHorizon, maxHorizon); err != nil {
		return err
	}
	if err := validateRange(keyNUD, p.NUD, minNUD, maxNUD); err != nil {
		return err
	}
	if err := validateRange(keyExpID, p.ExpID, minExpID, maxExpID); err != nil {
		return err
	}
	if err := validateRange("lastUnmeteredSelectionMinutes", p.LastUnmeteredSelectionMinutes,
		minSelectionMinutes, maxSelectionMinutes); err != nil {
		return err
	}
	if err := validateRange("lastMeteredSelectionMinutes", p.LastMeteredSelectionMinutes,
		minSelectionMinutes, maxSelectionMinutes); err != nil {
		return err
	}
	return nil
}

// validateRSSIThresholds requires each tier to sit within the valid signal
// range and at or above the previous tier.
func validateRSSIThresholds(name string, rssi [numTiers]int) error {
	low := MinRSSI
	high := min(MaxRSSI, maxValidRSSI)
	for i, v := range rssi {
		if v < low || v > high {
			return fmt.Errorf("%w: %s[%d] = %d outside [%d, %d]", ErrValidation, name, i, v, low, high)
		}
		low = v
	}
	return nil
}

// validatePacketRates requires non-negative, non-decreasing packet rates.
func validatePacketRates(pps [numTrafficLevels]int) error {
	low := 0
	for i, v := range pps {
		if v < low {
			return fmt.Errorf("%w: %s[%d] = %d below %d", ErrValidation, keyPPS, i, v, low)
		}
		low = v
	}
	return nil
}

func validateRange(name string, v, low, high int) error {
	if v < low || v > high {
		return fmt.Errorf("%w: %s = %d outside [%d, %d]", ErrValidation, name, v, low, high)
	}
	return nil
}
