package handlers

import (
	"github.com/gin-gonic/gin"

	"cellar_thermostat/internal/models"
	"cellar_thermostat/internal/service"
)

// ---- Service Mocks ----

type mockRanges struct {
	cur models.TempRange

	saveOutcome service.SaveOutcome
	saveErr     error
	resetErr    error

	saveCalls  int
	resetCalls int
	lastLower  float32
	lastUpper  float32
}

func (m *mockRanges) Load() models.TempRange { return m.cur }

func (m *mockRanges) Save(lower, upper float32) (service.SaveOutcome, error) {
	m.saveCalls++
	m.lastLower = lower
	m.lastUpper = upper
	if m.saveErr == nil {
		m.cur = models.TempRange{Initialized: true, Lower: lower, Upper: upper}
	}
	return m.saveOutcome, m.saveErr
}

func (m *mockRanges) Reset() (models.TempRange, error) {
	m.resetCalls++
	m.cur = models.TempRange{Initialized: false, Lower: service.DefaultLower, Upper: service.DefaultUpper}
	return m.cur, m.resetErr
}

func (m *mockRanges) Current() models.TempRange { return m.cur }

type mockThermo struct {
	temp float32

	reads     int
	checks    int
	lastCheck float32
}

func (m *mockThermo) Read() float32 {
	m.reads++
	return m.temp
}

func (m *mockThermo) Check(t float32) {
	m.checks++
	m.lastCheck = t
}

// ---- Shared Test Helpers ----

func newTestHandler(s *service.Service, assetsDir string, restart func()) *Handler {
	gin.SetMode(gin.TestMode)
	return NewHandler(s, assetsDir, "test-session", restart, nil)
}

func newTestRouter(s *service.Service, assetsDir string, restart func()) *gin.Engine {
	return newTestHandler(s, assetsDir, restart).InitRoutes()
}
