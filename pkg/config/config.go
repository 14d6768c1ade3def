// Package config handles loading and managing sigtune configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sigtune/sigtune/pkg/params"
)

// Config is the top-level configuration for sigtune.
type Config struct {
	Defaults DefaultsConfig `yaml:"defaults"`
	Service  ServiceConfig  `yaml:"service"`
}

// DefaultsConfig carries the initial parameter values, one named entry per
// tunable. It plays the role of the platform default source: values come
// from a deployment's defaults file rather than being baked into the code.
type DefaultsConfig struct {
	RSSI2 []int `yaml:"rssi2"`
	RSSI5 []int `yaml:"rssi5"`
	RSSI6 []int `yaml:"rssi6"`
	PPS   []int `yaml:"pps"`

	Horizon *int `yaml:"horizon"`
	NUD     *int `yaml:"nud"`
	ExpID   *int `yaml:"expid"`

	ThroughputBonusNumerator               *int `yaml:"throughput_bonus_numerator"`
	ThroughputBonusDenominator             *int `yaml:"throughput_bonus_denominator"`
	ThroughputBonusNumeratorAfter800Mbps   *int `yaml:"throughput_bonus_numerator_after_800mbps"`
	ThroughputBonusDenominatorAfter800Mbps *int `yaml:"throughput_bonus_denominator_after_800mbps"`
	ThroughputBonusLimit                   *int `yaml:"throughput_bonus_limit"`
	SavedNetworkBonus                      *int `yaml:"saved_network_bonus"`
	UnmeteredNetworkBonus                  *int `yaml:"unmetered_network_bonus"`
	CurrentNetworkBonusMin                 *int `yaml:"current_network_bonus_min"`
	CurrentNetworkBonusPercent             *int `yaml:"current_network_bonus_percent"`
	SecureNetworkBonus                     *int `yaml:"secure_network_bonus"`
	Band6GHzBonus                          *int `yaml:"band_6ghz_bonus"`
	BucketStepSize                         *int `yaml:"bucket_step_size"`
	EstimateRSSIErrorMargin                *int `yaml:"estimate_rssi_error_margin"`

	LastUnmeteredSelectionMinutes *int `yaml:"last_unmetered_selection_minutes"`
	LastMeteredSelectionMinutes   *int `yaml:"last_metered_selection_minutes"`

	Enable6GHzBeaconRSSIBoost *bool `yaml:"enable_6ghz_beacon_rssi_boost"`
}

// ServiceConfig controls the sigtuned daemon.
type ServiceConfig struct {
	Port            string `yaml:"port"`
	DatabaseURL     string `yaml:"database_url"`
	StorageBackend  string `yaml:"storage_backend"` // local, s3, gcs
	APIKey          string `yaml:"api_key"`
	FrequencyWeight bool   `yaml:"frequency_weight_scoring"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			Port:           "8080",
			StorageBackend: "local",
		},
	}
}

// Load reads a config file from the given path.
// If the file does not exist, it returns the default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// ParameterSet merges the configured defaults over the compiled-in values.
// Entries absent from the file keep the compiled-in value; semantic
// validation happens later, in the store.
func (d *DefaultsConfig) ParameterSet() params.ParameterSet {
	p := params.Defaults()

	mergeArray(p.RSSI2[:], d.RSSI2)
	mergeArray(p.RSSI5[:], d.RSSI5)
	mergeArray(p.RSSI6[:], d.RSSI6)
	mergeArray(p.PPS[:], d.PPS)

	mergeInt(&p.Horizon, d.Horizon)
	mergeInt(&p.NUD, d.NUD)
	mergeInt(&p.ExpID, d.ExpID)

	mergeInt(&p.ThroughputBonusNumerator, d.ThroughputBonusNumerator)
	mergeInt(&p.ThroughputBonusDenominator, d.ThroughputBonusDenominator)
	mergeInt(&p.ThroughputBonusNumeratorAfter800Mbps, d.ThroughputBonusNumeratorAfter800Mbps)
	mergeInt(&p.ThroughputBonusDenominatorAfter800Mbps, d.ThroughputBonusDenominatorAfter800Mbps)
	mergeInt(&p.ThroughputBonusLimit, d.ThroughputBonusLimit)
	mergeInt(&p.SavedNetworkBonus, d.SavedNetworkBonus)
	mergeInt(&p.UnmeteredNetworkBonus, d.UnmeteredNetworkBonus)
	mergeInt(&p.CurrentNetworkBonusMin, d.CurrentNetworkBonusMin)
	mergeInt(&p.CurrentNetworkBonusPercent, d.CurrentNetworkBonusPercent)
	mergeInt(&p.SecureNetworkBonus, d.SecureNetworkBonus)
	mergeInt(&p.Band6GHzBonus, d.Band6GHzBonus)
	mergeInt(&p.BucketStepSize, d.BucketStepSize)
	mergeInt(&p.EstimateRSSIErrorMargin, d.EstimateRSSIErrorMargin)

	mergeInt(&p.LastUnmeteredSelectionMinutes, d.LastUnmeteredSelectionMinutes)
	mergeInt(&p.LastMeteredSelectionMinutes, d.LastMeteredSelectionMinutes)

	if d.Enable6GHzBeaconRSSIBoost != nil {
		p.Enable6GHzBeaconRSSIBoost = *d.Enable6GHzBeaconRSSIBoost
	}

	return p
}

// mergeArray overwrites dst when src has exactly the right length. A file
// entry with the wrong shape is ignored here rather than failing startup;
// the store's validation decides whether the merged result is usable.
func mergeArray(dst, src []int) {
	if len(src) == len(dst) {
		copy(dst, src)
	}
}

func mergeInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}
