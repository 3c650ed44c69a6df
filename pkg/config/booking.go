package config

import (
	"campsite/pkg/env"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// BookingPolicy bounds which date ranges a booking may request.
type BookingPolicy struct {
	MaxDaysInAdvance int    `toml:"max_days_in_advance"`
	MinDaysInAdvance int    `toml:"min_days_in_advance"`
	MaxDuration      int    `toml:"max_duration"`
	TimeZone         string `toml:"time_zone"`

	// MinIntervalPerAccount is loaded and reported but not enforced yet.
	MinIntervalPerAccount int `toml:"min_interval_per_account"`
}

type fileConfig struct {
	Booking BookingPolicy `toml:"booking"`
}

func defaultBookingPolicy() BookingPolicy {
	return BookingPolicy{
		MaxDaysInAdvance:      DefaultMaxDaysInAdvance,
		MinDaysInAdvance:      DefaultMinDaysInAdvance,
		MaxDuration:           DefaultMaxDuration,
		MinIntervalPerAccount: DefaultMinIntervalPerAccount,
		TimeZone:              DefaultTimeZone,
	}
}

// loadBookingPolicy reads the optional [booking] table from path, then applies env overrides.
func loadBookingPolicy(path string) (BookingPolicy, error) {
	file := fileConfig{Booking: defaultBookingPolicy()}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return BookingPolicy{}, fmt.Errorf("config file %s: %w", path, err)
		}
		if _, err := toml.DecodeFile(path, &file); err != nil {
			return BookingPolicy{}, fmt.Errorf("failed to decode config file %s: %w", path, err)
		}
	}

	p := file.Booking
	p.MaxDaysInAdvance = env.Int(EnvMaxDaysInAdvance, p.MaxDaysInAdvance)
	p.MinDaysInAdvance = env.Int(EnvMinDaysInAdvance, p.MinDaysInAdvance)
	p.MaxDuration = env.Int(EnvMaxDuration, p.MaxDuration)
	p.MinIntervalPerAccount = env.Int(EnvMinIntervalPerAccount, p.MinIntervalPerAccount)
	p.TimeZone = env.String(EnvTimeZone, p.TimeZone)
	return p, nil
}

func (p BookingPolicy) validate(problems *env.Problems) {
	if p.MinDaysInAdvance < 0 {
		problems.Addf("MinDaysInAdvance cannot be negative, got: %d", p.MinDaysInAdvance)
	}
	if p.MinDaysInAdvance >= p.MaxDaysInAdvance {
		problems.Addf("MinDaysInAdvance (%d) must be less than MaxDaysInAdvance (%d)", p.MinDaysInAdvance, p.MaxDaysInAdvance)
	}
	if p.MaxDuration <= 0 {
		problems.Addf("MaxDuration must be positive, got: %d", p.MaxDuration)
	}
	if p.MinIntervalPerAccount < 0 {
		problems.Addf("MinIntervalPerAccount cannot be negative, got: %d", p.MinIntervalPerAccount)
	}
}
