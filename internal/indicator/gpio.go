package indicator

import (
	"fmt"

	rpio "github.com/stianeikeland/go-rpio"
)

type gpioPin struct {
	pin rpio.Pin
}

// OpenPin maps the GPIO range and configures the pin as an output.
func OpenPin(n int) (Pin, error) {
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("open gpio: %w", err)
	}
	p := rpio.Pin(n)
	p.Output()
	return gpioPin{pin: p}, nil
}

func (g gpioPin) High() { g.pin.High() }
func (g gpioPin) Low()  { g.pin.Low() }
