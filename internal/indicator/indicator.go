// Package indicator drives the status LEDs: a slow heartbeat blink as a
// liveness signal, a short flash on every sensor read, and a rapid fault
// pulse for unrecoverable boot errors. Beacons are evaluated by a
// best-effort polling loop; none of them block.
package indicator

import (
	"context"
	"sync/atomic"
	"time"
)

// Duty cycles, in wall-clock milliseconds.
const (
	heartbeatPeriod = 2000 * time.Millisecond
	heartbeatLit    = 50 * time.Millisecond

	activityWindow = 50 * time.Millisecond

	faultPeriod = 200 * time.Millisecond
	faultLit    = 20 * time.Millisecond
)

// pollInterval is how often Run re-evaluates the beacons. Sub-millisecond
// precision is not needed; the shortest window is 20ms.
const pollInterval = time.Millisecond

// Pin is a binary output.
type Pin interface {
	High()
	Low()
}

// NopPin satisfies Pin without hardware, for hosts without GPIO.
type NopPin struct{}

func (NopPin) High() {}
func (NopPin) Low()  {}

// Beacon is one LED behavior, evaluated against wall-clock time.
type Beacon interface {
	Tick(now time.Time)
}

// Heartbeat lights the pin for a short slice of every period.
type Heartbeat struct {
	pin Pin
}

func NewHeartbeat(pin Pin) *Heartbeat {
	return &Heartbeat{pin: pin}
}

func (b *Heartbeat) Tick(now time.Time) {
	if now.UnixMilli()%heartbeatPeriod.Milliseconds() < heartbeatLit.Milliseconds() {
		b.pin.High()
	} else {
		b.pin.Low()
	}
}

// Activity is a one-shot flash armed by each sensor read and disarmed
// automatically once the window elapses. Arm is safe to call from request
// handlers while the polling loop ticks.
type Activity struct {
	pin     Pin
	armedAt atomic.Int64 // UnixNano; 0 = disarmed
}

func NewActivity(pin Pin) *Activity {
	return &Activity{pin: pin}
}

// Arm starts (or restarts) the flash window.
func (b *Activity) Arm() {
	b.armedAt.Store(time.Now().UnixNano())
}

func (b *Activity) Tick(now time.Time) {
	at := b.armedAt.Load()
	if at != 0 && now.UnixNano()-at < int64(activityWindow) {
		b.pin.High()
		return
	}
	if at != 0 {
		b.armedAt.CompareAndSwap(at, 0)
	}
	b.pin.Low()
}

// Run polls the beacons until ctx is canceled, then leaves the pins low.
func Run(ctx context.Context, pins []Pin, beacons ...Beacon) {
	t := time.NewTicker(pollInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			for _, p := range pins {
				p.Low()
			}
			return
		case now := <-t.C:
			for _, b := range beacons {
				b.Tick(now)
			}
		}
	}
}

// Fault pulses the pin rapidly and never returns. Called when boot cannot
// continue (storage unavailable); the visible pulsing is the failure
// indication.
func Fault(pin Pin) {
	for {
		now := time.Now()
		if now.UnixMilli()%faultPeriod.Milliseconds() < faultLit.Milliseconds() {
			pin.High()
		} else {
			pin.Low()
		}
		time.Sleep(pollInterval)
	}
}
