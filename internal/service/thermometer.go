package service

import (
	"github.com/chewxy/math32"

	"cellar_thermostat/internal/logger"
	"cellar_thermostat/internal/sensor"
)

// ThermoService reads the sensor and classifies readings against the held
// range. Arming the activity indicator is a side effect of starting a
// read and never blocks it.
type ThermoService struct {
	driver   sensor.Driver
	ranges   RangeStore
	arm      func()
	notifier BreachNotifier
	log      *logger.Logger
}

func NewThermoService(driver sensor.Driver, ranges RangeStore, arm func(), notifier BreachNotifier, log *logger.Logger) *ThermoService {
	return &ThermoService{driver: driver, ranges: ranges, arm: arm, notifier: notifier, log: log}
}

// Read performs one sensor reading. A failed reading comes back as NaN;
// callers turn that into the Error response, never into a number.
func (s *ThermoService) Read() float32 {
	if s.arm != nil {
		s.arm()
	}
	t := s.driver.Read()
	if s.log != nil {
		if math32.IsNaN(t) {
			s.log.Errorw("sensor read failed")
		} else {
			s.log.Debugw("sensor readout", "temp_c", t)
		}
	}
	return t
}

// Check compares a reading against the operator range using strict
// inequalities. NaN compares false on both sides, so a failed reading
// never signals a breach.
func (s *ThermoService) Check(t float32) {
	r := s.ranges.Current()
	switch {
	case t < r.Lower:
		s.notifier.TooCold(t)
	case t > r.Upper:
		s.notifier.TooHot(t)
	}
}
