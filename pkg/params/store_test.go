package params_test

import (
	"bytes"
	"log"
	"strings"
	"sync"
	"testing"

	"github.com/sigtune/sigtune/pkg/params"
)

func newTestStore(t *testing.T) *params.Store {
	t.Helper()
	return params.NewStore(params.Defaults(), true, log.New(&bytes.Buffer{}, "", 0))
}

func TestUpdateAppliesRecognizedKeys(t *testing.T) {
	s := newTestStore(t)

	if !s.Update("rssi2=-81:-79:-73:-62,pps=0:5:50,horizon=20,nud=3,expid=42") {
		t.Fatal("Update returned false for a valid override")
	}

	if got := s.ExitRSSI(2412); got != -81 {
		t.Errorf("ExitRSSI(2412) = %d, want -81", got)
	}
	if got := s.GoodRSSI(2412); got != -62 {
		t.Errorf("GoodRSSI(2412) = %d, want -62", got)
	}
	if got := s.ActiveTrafficPPS(); got != 5 {
		t.Errorf("ActiveTrafficPPS() = %d, want 5", got)
	}
	if got := s.HighTrafficPPS(); got != 50 {
		t.Errorf("HighTrafficPPS() = %d, want 50", got)
	}
	if got := s.HorizonSeconds(); got != 20 {
		t.Errorf("HorizonSeconds() = %d, want 20", got)
	}
	if got := s.NUDKnob(); got != 3 {
		t.Errorf("NUDKnob() = %d, want 3", got)
	}
	if got := s.ExperimentID(); got != 42 {
		t.Errorf("ExperimentID() = %d, want 42", got)
	}

	// Keys absent from the override keep their prior values.
	if got := s.EntryRSSI(5180); got != -77 {
		t.Errorf("EntryRSSI(5180) = %d, want default -77", got)
	}
	if got := s.SufficientRSSI(5955); got != -70 {
		t.Errorf("SufficientRSSI(5955) = %d, want default -70", got)
	}
}

func TestUpdateBlankIsNoOpSuccess(t *testing.T) {
	s := newTestStore(t)
	before := s.Snapshot()

	for _, input := range []string{"", "   ", "\t"} {
		if !s.Update(input) {
			t.Errorf("Update(%q) = false, want true", input)
		}
	}
	if s.Snapshot() != before {
		t.Error("blank update changed the active parameter set")
	}
}

func TestUpdateRejectionLeavesStoreIntact(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"semicolon", "horizon=20;nud=5"},
		{"stray characters", "horizon=20 "},
		{"trailing comma", "horizon=20,"},
		{"duplicate key", "nud=1,nud=2"},
		{"wrong rssi length", "rssi2=1:2:3"},
		{"non-integer scalar", "horizon=1.5"},
		{"decreasing rssi", "rssi5=-57:-70:-77:-80"},
		{"rssi above ceiling", "rssi5=-80:-77:-70:1"},
		{"horizon above range", "horizon=61"},
		{"horizon below range", "horizon=-10"},
		{"nud out of range", "nud=11"},
		{"valid key then invalid key", "horizon=20,nud=11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			before := s.Snapshot()

			if s.Update(tt.input) {
				t.Fatalf("Update(%q) = true, want rejection", tt.input)
			}
			if s.Snapshot() != before {
				t.Errorf("rejected update %q changed the active parameter set", tt.input)
			}
		})
	}
}

func TestUpdateBoundaryValues(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"rssi5=-80:-77:-70:-57", true},
		{"rssi5=-57:-70:-77:-80", false},
		{"rssi5=-80:-77:-70:1", false},
		{"horizon=60", true},
		{"horizon=61", false},
		{"horizon=-9", true},
		{"horizon=-10", false},
	}

	for _, tt := range tests {
		s := newTestStore(t)
		if got := s.Update(tt.input); got != tt.want {
			t.Errorf("Update(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestRenderRoundTripIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	if !s.Update("rssi6=-82:-78:-71:-58,horizon=-4,expid=17") {
		t.Fatal("Update failed")
	}

	rendered := s.Render()
	before := s.Snapshot()

	if !s.Update(rendered) {
		t.Fatalf("Update(Render()) = false, rendered = %q", rendered)
	}
	if s.Snapshot() != before {
		t.Error("Update(Render()) changed the active parameter set")
	}
	if s.Render() != rendered {
		t.Errorf("Render() after round trip = %q, want %q", s.Render(), rendered)
	}
}

func TestInvalidFrequencyFallsBackToMidBand(t *testing.T) {
	var buf bytes.Buffer
	s := params.NewStore(params.Defaults(), false, log.New(&buf, "", 0))

	if !s.Update("rssi5=-85:-79:-71:-59") {
		t.Fatal("Update failed")
	}
	if got := s.ExitRSSI(1000); got != -85 {
		t.Errorf("ExitRSSI(1000) = %d, want 5GHz exit -85", got)
	}
	if !strings.Contains(buf.String(), "invalid frequency") {
		t.Errorf("expected a diagnostic for the invalid frequency, log = %q", buf.String())
	}
}

func TestNewStoreInvalidDefaultsFallBack(t *testing.T) {
	var buf bytes.Buffer
	bad := params.Defaults()
	bad.Horizon = 99

	s := params.NewStore(bad, false, log.New(&buf, "", 0))

	if got := s.HorizonSeconds(); got != 15 {
		t.Errorf("HorizonSeconds() = %d, want compiled-in 15", got)
	}
	if !strings.Contains(buf.String(), "inconsistent parameter defaults") {
		t.Errorf("expected a diagnostic about bad defaults, log = %q", buf.String())
	}
}

func TestSetBandThresholds(t *testing.T) {
	s := newTestStore(t)

	if err := s.SetBandThresholds(params.Band24GHz, [4]int{-90, -85, -75, -65}); err != nil {
		t.Fatalf("SetBandThresholds: %v", err)
	}
	if got := s.ExitRSSI(2437); got != -90 {
		t.Errorf("ExitRSSI(2437) = %d, want -90", got)
	}

	// Out-of-order thresholds are rejected and the previous ones survive.
	if err := s.SetBandThresholds(params.Band24GHz, [4]int{-65, -75, -85, -90}); err == nil {
		t.Fatal("SetBandThresholds accepted decreasing thresholds")
	}
	if got := s.ExitRSSI(2437); got != -90 {
		t.Errorf("ExitRSSI(2437) after rejected set = %d, want -90", got)
	}

	// The all-zero sentinel restores the band's defaults.
	if err := s.SetBandThresholds(params.Band24GHz, [4]int{}); err != nil {
		t.Fatalf("SetBandThresholds(reset): %v", err)
	}
	if got := s.ExitRSSI(2437); got != -83 {
		t.Errorf("ExitRSSI(2437) after reset = %d, want default -83", got)
	}
}

// TestConcurrentReadersNeverSeeTornSets alternates between two sentinel
// parameter sets while readers repeatedly snapshot the store. Every observed
// snapshot must equal one of the two sentinels in full.
func TestConcurrentReadersNeverSeeTornSets(t *testing.T) {
	s := newTestStore(t)

	overrideA := "rssi2=-90:-85:-80:-70,pps=1:10:100,horizon=10,nud=1,expid=1"
	overrideB := "rssi2=-60:-55:-50:-40,pps=2:20:200,horizon=20,nud=2,expid=2"

	if !s.Update(overrideA) {
		t.Fatal("Update(overrideA) failed")
	}
	sentinelA := s.Snapshot()
	if !s.Update(overrideB) {
		t.Fatal("Update(overrideB) failed")
	}
	sentinelB := s.Snapshot()

	const iterations = 2000
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			if i%2 == 0 {
				s.Update(overrideA)
			} else {
				s.Update(overrideB)
			}
		}
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				got := s.Snapshot()
				if got != sentinelA && got != sentinelB {
					t.Errorf("observed torn parameter set: %+v", got)
					return
				}
				// Accessor reads must also come from a coherent set.
				exit := s.ExitRSSI(2412)
				if exit != -90 && exit != -60 {
					t.Errorf("ExitRSSI(2412) = %d, want -90 or -60", exit)
					return
				}
			}
		}()
	}

	wg.Wait()
}
