package handlers

import (
	"context"
	"sync"
	"time"

	"sauna_automation/internal/models"
	"sauna_automation/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockControl struct {
	mu            sync.Mutex
	status        models.HeaterStatus
	startErr      error
	stopErr       error
	lightErr      error
	defaultTarget int

	startTargets []int
	stopCalled   int
	lightCalled  int
}

func (m *mockControl) Start(ctx context.Context, target int) (models.HeaterStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startTargets = append(m.startTargets, target)
	return m.status, m.startErr
}
func (m *mockControl) Stop(ctx context.Context) (models.HeaterStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopCalled++
	return m.status, m.stopErr
}
func (m *mockControl) ToggleLight(ctx context.Context) (models.HeaterStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lightCalled++
	return m.status, m.lightErr
}
func (m *mockControl) DefaultTarget() int { return m.defaultTarget }

type mockMonitoring struct {
	report models.StatusReport
	err    error
}

func (m *mockMonitoring) GetStatus(ctx context.Context) (models.StatusReport, error) {
	return m.report, m.err
}

type mockAutomation struct {
	decision models.Decision
	calls    int
}

func (m *mockAutomation) Check(ctx context.Context) models.Decision {
	m.calls++
	return m.decision
}

type mockReservations struct {
	resp []models.Reservation
	err  error
}

func (m *mockReservations) Upcoming(ctx context.Context) ([]models.Reservation, error) {
	return m.resp, m.err
}

type mockEventLog struct {
	resp     []models.AutomationEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.AutomationEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}
