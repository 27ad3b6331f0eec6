package indicator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakePin struct {
	lit bool
}

func (p *fakePin) High() { p.lit = true }
func (p *fakePin) Low()  { p.lit = false }

func TestHeartbeat_DutyCycle(t *testing.T) {
	pin := &fakePin{}
	b := NewHeartbeat(pin)

	base := time.UnixMilli(0)

	tests := []struct {
		offsetMs int64
		lit      bool
	}{
		{0, true},
		{49, true},
		{50, false},
		{1999, false},
		{2000, true},
		{2049, true},
		{2050, false},
	}
	for _, tt := range tests {
		b.Tick(base.Add(time.Duration(tt.offsetMs) * time.Millisecond))
		assert.Equalf(t, tt.lit, pin.lit, "at %dms", tt.offsetMs)
	}
}

func TestActivity_FlashesForWindowThenDisarms(t *testing.T) {
	pin := &fakePin{}
	b := NewActivity(pin)

	// Not armed: stays dark.
	b.Tick(time.Now())
	assert.False(t, pin.lit)

	b.Arm()
	b.Tick(time.Now())
	assert.True(t, pin.lit, "armed beacon must light within the window")

	// Past the window: dark again and disarmed.
	b.Tick(time.Now().Add(activityWindow + time.Millisecond))
	assert.False(t, pin.lit)
	assert.Zero(t, b.armedAt.Load(), "beacon must disarm after the window")
}

func TestActivity_RearmExtendsFlash(t *testing.T) {
	pin := &fakePin{}
	b := NewActivity(pin)

	b.Arm()
	b.Tick(time.Now())
	assert.True(t, pin.lit)

	// Re-arming inside the window keeps the flash going.
	time.Sleep(2 * time.Millisecond)
	b.Arm()
	b.Tick(time.Now())
	assert.True(t, pin.lit)
}
