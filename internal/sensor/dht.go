package sensor

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/chewxy/math32"
	rpio "github.com/stianeikeland/go-rpio"
)

// Pulse-timing constants of the DHT single-wire protocol. The sensor
// answers a read request with 40 data bits encoded as pulse lengths.
const (
	dhtPulseCount  = 82
	dhtMaxPulse    = int64(time.Millisecond)
	dhtRequestHold = 20 * time.Millisecond
	dhtStartWait   = 5 * time.Millisecond
	dhtSettle      = 400 * time.Millisecond
)

// dhtRetries bounds how often a single Read retries a failed handshake or
// checksum before giving up with NaN.
const dhtRetries = 10

// DHT reads a DHT11/DHT22 temperature sensor over a GPIO pin.
type DHT struct {
	pin rpio.Pin
}

// OpenDHT maps the GPIO memory range and prepares the sensor pin.
func OpenDHT(pin int) (*DHT, error) {
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("open gpio: %w", err)
	}
	return &DHT{pin: rpio.Pin(pin)}, nil
}

// Read performs one sensor reading. The bit-bang loop is timing critical,
// so GC is paused for its duration. Failures come back as NaN.
func (d *DHT) Read() float32 {
	var (
		temp float32
		ok   bool
	)
	debug.SetGCPercent(-1)
	for i := 0; i < dhtRetries; i++ {
		temp, ok = d.sample()
		if ok {
			break
		}
	}
	debug.SetGCPercent(100)

	if !ok {
		return math32.NaN()
	}
	return temp
}

func (d *DHT) Close() error {
	return rpio.Close()
}

// sample runs one request/response cycle: pull the line low to request a
// reading, then time the 40 response pulses and decode them.
func (d *DHT) sample() (float32, bool) {
	pulses := make([]int64, dhtPulseCount)

	d.pin.Mode(rpio.Output)
	d.pin.High()
	time.Sleep(dhtSettle)
	d.pin.Low()

	// Hold the request low, spinning; sleeping is not precise enough here.
	start := time.Now().UnixNano()
	for time.Now().UnixNano()-start < int64(dhtRequestHold) {
	}
	d.pin.Mode(rpio.Input)
	d.pin.PullUp()

	// The sensor acknowledges by pulling low within a few milliseconds.
	start = time.Now().UnixNano()
	for d.pin.Read() == rpio.High {
		if time.Now().UnixNano()-start > int64(dhtStartWait) {
			return 0, false
		}
	}

	// 80us low + 80us high preamble, then 40 low/high pulse pairs.
	var width int64
reader:
	for i := 0; i < dhtPulseCount-1; i += 2 {
		width = 0
		for d.pin.Read() == rpio.Low {
			if width > dhtMaxPulse {
				break reader
			}
			width++
		}
		pulses[i] = width

		width = 0
		for d.pin.Read() == rpio.High {
			if width > dhtMaxPulse {
				break reader
			}
			width++
		}
		pulses[i+1] = width
	}
	d.pin.PullOff()

	return decodePulses(pulses)
}

// decodePulses turns timed pulses into the 5 protocol bytes and extracts
// the temperature. A high pulse longer than the average low pulse is a 1.
func decodePulses(pulses []int64) (float32, bool) {
	var threshold int64
	for i := 2; i < dhtPulseCount; i += 2 {
		threshold += pulses[i]
	}
	threshold /= 40

	raw := make([]uint8, 5)
	for i := 3; i < dhtPulseCount; i += 2 {
		bi := (i - 3) / 16
		raw[bi] <<= 1
		if pulses[i] > threshold {
			raw[bi] |= 0x01
		}
	}

	var sum uint8
	for i := 0; i < 4; i++ {
		sum += raw[i]
	}
	if sum != raw[4] {
		return 0, false
	}

	temp := float32((uint16(raw[2])&0x7F)*256+uint16(raw[3])) / 10.0
	if raw[2]&0x80 != 0 {
		temp = -temp
	}
	return temp, true
}
