package sim

import "math/rand"

// Initializer produces the starting snapshot of a new regulation
// sequence. The driver tolerates any returned value, including ones
// that route straight to Finish or Charging.
type Initializer func() Snapshot

const (
	defaultMaxTemperature = 55
	defaultMaxCharge      = 100
)

// NewRandomInitializer returns an Initializer seeding an integer-valued
// temperature in [0, maxTemperature) and battery charge in
// [0, maxCharge). Non-positive caps fall back to the defaults.
func NewRandomInitializer(maxTemperature, maxCharge int) Initializer {
	if maxTemperature <= 0 {
		maxTemperature = defaultMaxTemperature
	}
	if maxCharge <= 0 {
		maxCharge = defaultMaxCharge
	}
	return func() Snapshot {
		return Snapshot{
			Temperature:   float64(rand.Intn(maxTemperature)),
			BatteryCharge: float64(rand.Intn(maxCharge)),
			State:         StateStart,
		}
	}
}

// RandomSnapshot seeds with the default sensor ranges.
var RandomSnapshot = NewRandomInitializer(defaultMaxTemperature, defaultMaxCharge)
