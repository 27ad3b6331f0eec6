package models

// TempRange is the acceptable temperature window of the thermostat.
// Bounds are float32 to match the sensor resolution and the persisted
// record layout (4-byte IEEE-754 fields).
type TempRange struct {
	// Initialized is true once the operator has saved the range at least
	// once; false means the bounds are the compiled-in defaults.
	Initialized bool    `json:"initialized"`
	Lower       float32 `json:"lower"` // °C
	Upper       float32 `json:"upper"` // °C
}
