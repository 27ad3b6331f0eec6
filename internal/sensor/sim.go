package sensor

import (
	"math/rand"
	"sync"

	"github.com/chewxy/math32"
)

// Sim is a software stand-in for the hardware sensor, for development
// hosts without GPIO. It random-walks around a base temperature and can
// inject read failures to exercise the error path end to end.
type Sim struct {
	mu        sync.Mutex
	rng       *rand.Rand
	temp      float32
	step      float32
	faultRate float64
}

// NewSim returns a simulated sensor starting at base °C. faultRate is the
// probability in [0,1] that a read fails (returns NaN).
func NewSim(base float32, faultRate float64, seed int64) *Sim {
	return &Sim{
		rng:       rand.New(rand.NewSource(seed)),
		temp:      base,
		step:      0.3,
		faultRate: faultRate,
	}
}

func (s *Sim) Read() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.faultRate > 0 && s.rng.Float64() < s.faultRate {
		return math32.NaN()
	}
	s.temp += s.step * float32(s.rng.Float64()*2-1)
	return s.temp
}

func (s *Sim) Close() error { return nil }
