// Package sensor provides the temperature sensor drivers. A driver
// returns a single reading per call; a failed reading is NaN, never an
// error value, matching what the display layer expects.
package sensor

// Driver is a single-sensor temperature source.
type Driver interface {
	// Read returns the temperature in °C, or NaN when the reading failed.
	Read() float32
	Close() error
}
