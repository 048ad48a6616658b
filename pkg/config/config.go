package config

import "time"

// Config is the daemon configuration surface.
type Config interface {
	TickInterval() time.Duration
	SeedMaxTemperature() int
	SeedMaxCharge() int
	ReseedSchedule() string
	AllowNonRootAccess() bool

	SetTickInterval(time.Duration)
	SetReseedSchedule(string)
	SetAllowNonRootAccess(bool)

	// Load reads the configuration from the source.
	Load() error
	// Save saves the configuration to the source.
	Save() error
}
