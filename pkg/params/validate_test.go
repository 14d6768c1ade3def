package params

import (
	"errors"
	"math"
	"testing"
)

func TestValidateDefaults(t *testing.T) {
	p := Defaults()
	if err := p.validate(); err != nil {
		t.Fatalf("validate(Defaults()) = %v, want nil", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *ParameterSet)
		wantErr bool
	}{
		{"untouched defaults", func(p *ParameterSet) {}, false},
		{"equal adjacent rssi tiers allowed", func(p *ParameterSet) {
			p.RSSI5 = [numTiers]int{-80, -80, -70, -57}
		}, false},
		{"decreasing rssi tiers", func(p *ParameterSet) {
			p.RSSI5 = [numTiers]int{-57, -70, -77, -80}
		}, true},
		{"rssi above ceiling", func(p *ParameterSet) {
			p.RSSI5 = [numTiers]int{-80, -77, -70, 1}
		}, true},
		{"rssi at ceiling", func(p *ParameterSet) {
			p.RSSI5 = [numTiers]int{-80, -77, -70, -1}
		}, false},
		{"rssi below platform minimum", func(p *ParameterSet) {
			p.RSSI2 = [numTiers]int{-128, -80, -73, -60}
		}, true},
		{"rssi at platform minimum", func(p *ParameterSet) {
			p.RSSI2 = [numTiers]int{-127, -80, -73, -60}
		}, false},
		{"negative packet rate", func(p *ParameterSet) {
			p.PPS = [numTrafficLevels]int{-1, 1, 100}
		}, true},
		{"decreasing packet rate", func(p *ParameterSet) {
			p.PPS = [numTrafficLevels]int{0, 100, 1}
		}, true},
		{"flat packet rate allowed", func(p *ParameterSet) {
			p.PPS = [numTrafficLevels]int{5, 5, 5}
		}, false},
		{"horizon at upper bound", func(p *ParameterSet) { p.Horizon = 60 }, false},
		{"horizon above upper bound", func(p *ParameterSet) { p.Horizon = 61 }, true},
		{"horizon at lower bound", func(p *ParameterSet) { p.Horizon = -9 }, false},
		{"horizon below lower bound", func(p *ParameterSet) { p.Horizon = -10 }, true},
		{"nud above knob range", func(p *ParameterSet) { p.NUD = 11 }, true},
		{"negative experiment id", func(p *ParameterSet) { p.ExpID = -1 }, true},
		{"zero unmetered minutes", func(p *ParameterSet) { p.LastUnmeteredSelectionMinutes = 0 }, true},
		{"max safe metered minutes", func(p *ParameterSet) {
			p.LastMeteredSelectionMinutes = math.MaxInt32 / (60 * 1000)
		}, false},
		{"metered minutes overflow guard", func(p *ParameterSet) {
			p.LastMeteredSelectionMinutes = math.MaxInt32/(60*1000) + 1
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Defaults()
			tt.mutate(&p)
			err := p.validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrValidation) {
				t.Errorf("validate() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestBandForFrequency(t *testing.T) {
	tests := []struct {
		freq   int
		want   Band
		wantOK bool
	}{
		{2412, Band24GHz, true},
		{2484, Band24GHz, true},
		{5180, Band5GHz, true},
		{5885, Band5GHz, true},
		{5955, Band6GHz, true},
		{7115, Band6GHz, true},
		{0, Band5GHz, false},
		{2400, Band5GHz, false},
		{5900, Band5GHz, false},
		{9999, Band5GHz, false},
	}

	for _, tt := range tests {
		band, ok := BandForFrequency(tt.freq)
		if band != tt.want || ok != tt.wantOK {
			t.Errorf("BandForFrequency(%d) = (%v, %v), want (%v, %v)",
				tt.freq, band, ok, tt.want, tt.wantOK)
		}
	}
}
