package service

import (
	"testing"

	"github.com/chewxy/math32"

	"cellar_thermostat/internal/storage"
)

type fakeDriver struct {
	temp  float32
	reads int
}

func (f *fakeDriver) Read() float32 {
	f.reads++
	return f.temp
}

func (f *fakeDriver) Close() error { return nil }

type recordingNotifier struct {
	cold []float32
	hot  []float32
}

func (n *recordingNotifier) TooCold(t float32) { n.cold = append(n.cold, t) }
func (n *recordingNotifier) TooHot(t float32)  { n.hot = append(n.hot, t) }

func newThermoFixture(temp float32) (*ThermoService, *fakeDriver, *recordingNotifier, *int) {
	ranges := NewRangeService(newFakeRegion(storage.ErasedByte), nil)
	ranges.Load() // defaults: [10, 14]
	driver := &fakeDriver{temp: temp}
	notifier := &recordingNotifier{}
	armed := 0
	arm := func() { armed++ }
	return NewThermoService(driver, ranges, arm, notifier, nil), driver, notifier, &armed
}

func TestThermoService_ReadArmsActivityIndicator(t *testing.T) {
	s, driver, _, armed := newThermoFixture(12.0)

	if got := s.Read(); got != 12.0 {
		t.Fatalf("Read() = %v, want 12.0", got)
	}
	if driver.reads != 1 {
		t.Fatalf("driver reads = %d, want 1", driver.reads)
	}
	if *armed != 1 {
		t.Fatalf("activity indicator armed %d times, want 1", *armed)
	}
}

func TestThermoService_ReadPropagatesSensorFailureAsNaN(t *testing.T) {
	s, _, _, _ := newThermoFixture(math32.NaN())

	if got := s.Read(); !math32.IsNaN(got) {
		t.Fatalf("Read() = %v, want NaN", got)
	}
}

func TestThermoService_CheckClassifiesAgainstHeldRange(t *testing.T) {
	tests := []struct {
		name     string
		temp     float32
		wantCold int
		wantHot  int
	}{
		{"below lower", 9.9, 1, 0},
		{"at lower", 10.0, 0, 0},
		{"inside", 12.0, 0, 0},
		{"at upper", 14.0, 0, 0},
		{"above upper", 14.1, 0, 1},
		{"sensor failure", math32.NaN(), 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, notifier, _ := newThermoFixture(tt.temp)
			s.Check(tt.temp)
			if len(notifier.cold) != tt.wantCold || len(notifier.hot) != tt.wantHot {
				t.Fatalf("cold=%d hot=%d, want cold=%d hot=%d",
					len(notifier.cold), len(notifier.hot), tt.wantCold, tt.wantHot)
			}
		})
	}
}

func TestThermoService_CheckUsesOperatorRangeNotDefaults(t *testing.T) {
	ranges := NewRangeService(newFakeRegion(storage.ErasedByte), nil)
	ranges.Load()
	if _, err := ranges.Save(5.0, 20.0); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	notifier := &recordingNotifier{}
	s := NewThermoService(&fakeDriver{}, ranges, nil, notifier, nil)

	// 9.0 is below the compiled-in default lower bound but inside the
	// operator range; no breach may fire.
	s.Check(9.0)
	if len(notifier.cold) != 0 || len(notifier.hot) != 0 {
		t.Fatalf("breach fired inside operator range: cold=%v hot=%v", notifier.cold, notifier.hot)
	}
}
