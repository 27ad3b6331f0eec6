package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chewxy/math32"

	"cellar_thermostat/internal/models"
	"cellar_thermostat/internal/service"
)

func defaultRange() models.TempRange {
	return models.TempRange{Initialized: false, Lower: service.DefaultLower, Upper: service.DefaultUpper}
}

func TestTempHandler_ReturnsReadingAndRunsBreachCheck(t *testing.T) {
	thermo := &mockThermo{temp: 12.34}
	s := &service.Service{RangeStore: &mockRanges{cur: defaultRange()}, Thermometer: thermo}
	r := newTestRouter(s, t.TempDir(), nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/temp", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := w.Body.String(); got != "12.3" {
		t.Fatalf("body = %q, want %q", got, "12.3")
	}
	if thermo.reads != 1 {
		t.Fatalf("sensor reads = %d, want 1", thermo.reads)
	}
	if thermo.checks != 1 || thermo.lastCheck != 12.34 {
		t.Fatalf("breach check calls=%d last=%v", thermo.checks, thermo.lastCheck)
	}
}

func TestTempHandler_SensorFailureAnswersErrorLiteral(t *testing.T) {
	thermo := &mockThermo{temp: math32.NaN()}
	ranges := &mockRanges{cur: defaultRange()}
	s := &service.Service{RangeStore: ranges, Thermometer: thermo}
	r := newTestRouter(s, t.TempDir(), nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/temp", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := w.Body.String(); got != errorBody {
		t.Fatalf("body = %q, want %q", got, errorBody)
	}
	// A failed reading must not reach the breach path or the store.
	if thermo.checks != 0 {
		t.Fatalf("breach check fired on failed reading")
	}
	if ranges.saveCalls != 0 || ranges.resetCalls != 0 {
		t.Fatalf("store touched on failed reading")
	}
}

func TestSaveThresholds_PassesBoundsVerbatim(t *testing.T) {
	ranges := &mockRanges{cur: defaultRange(), saveOutcome: service.Saved}
	s := &service.Service{RangeStore: ranges, Thermometer: &mockThermo{}}
	r := newTestRouter(s, t.TempDir(), nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/savethresholds?lower=8.5&upper=13.5", nil))

	if w.Code != http.StatusOK || w.Body.Len() != 0 {
		t.Fatalf("status=%d body=%q, want empty 200", w.Code, w.Body.String())
	}
	if ranges.saveCalls != 1 {
		t.Fatalf("save calls = %d, want 1", ranges.saveCalls)
	}
	if ranges.lastLower != 8.5 || ranges.lastUpper != 13.5 {
		t.Fatalf("saved [%v, %v], want [8.5, 13.5]", ranges.lastLower, ranges.lastUpper)
	}
}

func TestSaveThresholds_MissingParamIsNoOp(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"no params", "/savethresholds"},
		{"lower only", "/savethresholds?lower=8.5"},
		{"upper only", "/savethresholds?upper=13.5"},
		{"malformed lower", "/savethresholds?lower=abc&upper=13.5"},
		{"malformed upper", "/savethresholds?lower=8.5&upper="},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranges := &mockRanges{cur: defaultRange()}
			s := &service.Service{RangeStore: ranges, Thermometer: &mockThermo{}}
			r := newTestRouter(s, t.TempDir(), nil)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.query, nil))

			if w.Code != http.StatusOK || w.Body.Len() != 0 {
				t.Fatalf("status=%d body=%q, want empty 200", w.Code, w.Body.String())
			}
			if ranges.saveCalls != 0 {
				t.Fatalf("store updated on a no-op request")
			}
		})
	}
}

func TestResetHandler_InvokesStore(t *testing.T) {
	ranges := &mockRanges{cur: models.TempRange{Initialized: true, Lower: 8, Upper: 13}}
	s := &service.Service{RangeStore: ranges, Thermometer: &mockThermo{}}
	r := newTestRouter(s, t.TempDir(), nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reset", nil))

	if w.Code != http.StatusOK || w.Body.Len() != 0 {
		t.Fatalf("status=%d body=%q, want empty 200", w.Code, w.Body.String())
	}
	if ranges.resetCalls != 1 {
		t.Fatalf("reset calls = %d, want 1", ranges.resetCalls)
	}
}

func TestRebootHandler_RespondsThenSignalsRestart(t *testing.T) {
	restarted := 0
	s := &service.Service{RangeStore: &mockRanges{cur: defaultRange()}, Thermometer: &mockThermo{}}
	r := newTestRouter(s, t.TempDir(), func() { restarted++ })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reboot", nil))

	if w.Code != http.StatusOK || w.Body.Len() != 0 {
		t.Fatalf("status=%d body=%q, want empty 200", w.Code, w.Body.String())
	}
	if restarted != 1 {
		t.Fatalf("restart signaled %d times, want 1", restarted)
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	s := &service.Service{RangeStore: &mockRanges{cur: defaultRange()}, Thermometer: &mockThermo{}}
	r := newTestRouter(s, t.TempDir(), nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/no/such/file", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}
