package service

import (
	"sync"

	"cellar_thermostat/internal/logger"
	"cellar_thermostat/internal/models"
	"cellar_thermostat/internal/storage"
)

// Compiled-in safety defaults: ideal temperatures for a wine cellar.
const (
	DefaultLower float32 = 10.0
	DefaultUpper float32 = 14.0
)

// initMark is the sentinel stored once the range has been saved at least
// once. Anything else at that offset means the floats are erase-pattern
// garbage and the defaults apply.
const (
	initMark    byte = 0x2A
	clearedMark byte = 0xFF
)

// SaveOutcome reports whether a Save reached the backing store.
type SaveOutcome int

const (
	Unchanged SaveOutcome = iota
	Saved
)

func (o SaveOutcome) String() string {
	if o == Saved {
		return "saved"
	}
	return "unchanged"
}

// RangeService implements RangeStore over a storage Region. All mutations
// go through a mutex since the HTTP layer serves requests concurrently.
type RangeService struct {
	mu     sync.Mutex
	region storage.Region
	cur    models.TempRange
	log    *logger.Logger
}

func NewRangeService(region storage.Region, log *logger.Logger) *RangeService {
	return &RangeService{region: region, log: log}
}

// Load reads the sentinel and bounds from the region. Stored floats are
// only trusted behind a matching sentinel.
func (s *RangeService) Load() models.TempRange {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.region.ReadByte(storage.AddrInitFlag) == initMark {
		s.cur = models.TempRange{
			Initialized: true,
			Lower:       s.region.ReadFloat(storage.AddrLower),
			Upper:       s.region.ReadFloat(storage.AddrUpper),
		}
	} else {
		s.cur = models.TempRange{Initialized: false, Lower: DefaultLower, Upper: DefaultUpper}
	}

	if s.log != nil {
		s.log.Infow("temperature range loaded",
			"initialized", s.cur.Initialized, "lower", s.cur.Lower, "upper", s.cur.Upper)
	}
	return s.cur
}

// Save writes back only the bounds that differ from the held values and
// commits once iff anything changed. The first ever save stamps the
// sentinel and lays down both floats in the same commit; until then the
// storage bytes are erase-pattern garbage, so change detection against
// the in-memory defaults must not skip them. Values are persisted exactly
// as given; reversed bounds are the caller's bug and are logged, not
// repaired.
func (s *RangeService) Save(lower, upper float32) (SaveOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if lower > upper && s.log != nil {
		s.log.Warnw("reversed bounds received", "lower", lower, "upper", upper)
	}

	lowerDirty := lower != s.cur.Lower
	upperDirty := upper != s.cur.Upper
	if !lowerDirty && !upperDirty {
		return Unchanged, nil
	}
	s.cur.Lower, s.cur.Upper = lower, upper

	if !s.cur.Initialized {
		lowerDirty, upperDirty = true, true
		s.region.WriteByte(storage.AddrInitFlag, initMark)
		s.cur.Initialized = true
	}
	if lowerDirty {
		s.region.WriteFloat(storage.AddrLower, lower)
	}
	if upperDirty {
		s.region.WriteFloat(storage.AddrUpper, upper)
	}
	if err := s.region.Commit(); err != nil {
		return Unchanged, err
	}
	if s.log != nil {
		s.log.Infow("temperature range stored", "lower", s.cur.Lower, "upper", s.cur.Upper)
	}
	return Saved, nil
}

// Reset reverts to the compiled-in defaults. The sentinel is only cleared
// when it was ever written, so a second Reset in a row costs no storage
// write.
func (s *RangeService) Reset() (models.TempRange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cur.Initialized {
		s.region.WriteByte(storage.AddrInitFlag, clearedMark)
		if err := s.region.Commit(); err != nil {
			return s.cur, err
		}
	}

	s.cur = models.TempRange{Initialized: false, Lower: DefaultLower, Upper: DefaultUpper}
	if s.log != nil {
		s.log.Infow("factory reset", "lower", s.cur.Lower, "upper", s.cur.Upper)
	}
	return s.cur, nil
}

func (s *RangeService) Current() models.TempRange {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}
