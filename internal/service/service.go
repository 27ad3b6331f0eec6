package service

import (
	"cellar_thermostat/internal/logger"
	"cellar_thermostat/internal/models"
	"cellar_thermostat/internal/sensor"
	"cellar_thermostat/internal/storage"
)

// RangeStore is the single authority for the acceptable temperature range.
// It mediates between compiled-in defaults and operator-persisted bounds.
type RangeStore interface {
	// Load reads the persisted record; called once at boot.
	Load() models.TempRange
	// Save persists the bounds that changed, stamping the sentinel on the
	// first ever write. Bounds are taken verbatim; the HTTP layer owns
	// ordering normalization.
	Save(lower, upper float32) (SaveOutcome, error)
	// Reset returns the range to compiled-in defaults and clears the
	// sentinel if it was ever written.
	Reset() (models.TempRange, error)
	// Current snapshots the held range.
	Current() models.TempRange
}

// Thermometer is the sensor read path: a reading plus the range-breach
// check against the held range.
type Thermometer interface {
	// Read returns the current temperature, or NaN when the sensor fails.
	Read() float32
	// Check fires the breach notifier for readings strictly outside the
	// held range. NaN never fires.
	Check(t float32)
}

// BreachNotifier receives out-of-range readings. Deployments wire real
// hardware actions here; the default does nothing.
type BreachNotifier interface {
	TooCold(t float32)
	TooHot(t float32)
}

// NoopNotifier ignores every breach.
type NoopNotifier struct{}

func (NoopNotifier) TooCold(float32) {}
func (NoopNotifier) TooHot(float32)  {}

// Service aggregates the thermostat sub-services.
type Service struct {
	RangeStore
	Thermometer
}

// Options carries the optional wiring of NewService.
type Options struct {
	// Notifier handles out-of-range readings; nil means NoopNotifier.
	Notifier BreachNotifier
	// ArmActivity is invoked when a sensor read starts, to flash the
	// activity indicator. Nil disables it.
	ArmActivity func()
}

// NewService wires the storage region and sensor driver into the
// thermostat services.
func NewService(region storage.Region, driver sensor.Driver, opts Options, log *logger.Logger) *Service {
	ranges := NewRangeService(region, log)
	notifier := opts.Notifier
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &Service{
		RangeStore:  ranges,
		Thermometer: NewThermoService(driver, ranges, opts.ArmActivity, notifier, log),
	}
}
