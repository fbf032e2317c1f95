package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"amc_simulator/internal/export"
	"amc_simulator/internal/models"
	"amc_simulator/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockGeneration struct {
	run     models.Run
	runs    []models.Run
	page    models.RecordPage
	records []models.SensorRecord
	err     error

	lastUserID   int
	lastRequest  service.GenerateRequest
	lastID       string
	lastLimit    int
	lastOffset   int
	lastPage     int
	lastPageSize int
	deleted      []string
}

func (m *mockGeneration) Generate(_ context.Context, userID int, req service.GenerateRequest) (models.Run, error) {
	m.lastUserID = userID
	m.lastRequest = req
	return m.run, m.err
}
func (m *mockGeneration) Get(_ context.Context, id string) (models.Run, error) {
	m.lastID = id
	return m.run, m.err
}
func (m *mockGeneration) List(_ context.Context, limit, offset int) ([]models.Run, error) {
	m.lastLimit, m.lastOffset = limit, offset
	return m.runs, m.err
}
func (m *mockGeneration) Records(_ context.Context, id string, page, pageSize int) (models.RecordPage, error) {
	m.lastID, m.lastPage, m.lastPageSize = id, page, pageSize
	return m.page, m.err
}
func (m *mockGeneration) AllRecords(_ context.Context, id string) (models.Run, []models.SensorRecord, error) {
	m.lastID = id
	return m.run, m.records, m.err
}
func (m *mockGeneration) Delete(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return m.err
}

type mockSettings struct {
	settings   models.Settings
	presets    []service.PresetView
	err        error
	lastUpdate service.SettingsUpdate
}

func (m *mockSettings) GetSettings(context.Context) (models.Settings, error) {
	return m.settings, m.err
}
func (m *mockSettings) UpdateSettings(_ context.Context, u service.SettingsUpdate) (models.Settings, error) {
	m.lastUpdate = u
	return m.settings, m.err
}
func (m *mockSettings) Presets() []service.PresetView { return m.presets }

type mockAnalysis struct {
	summary    models.RunSummary
	err        error
	lastRunID  string
	lastPreset models.PresetMode
}

func (m *mockAnalysis) Summarize(_ context.Context, runID string, preset models.PresetMode) (models.RunSummary, error) {
	m.lastRunID, m.lastPreset = runID, preset
	return m.summary, m.err
}

type mockDistribution struct {
	file       service.ExportFile
	archive    service.ArchiveResult
	publish    service.PublishResult
	err        error
	lastFormat export.Format
	lastRunID  string
}

func (m *mockDistribution) Export(_ context.Context, runID string, f export.Format) (service.ExportFile, error) {
	m.lastRunID, m.lastFormat = runID, f
	return m.file, m.err
}
func (m *mockDistribution) Archive(_ context.Context, runID string, f export.Format) (service.ArchiveResult, error) {
	m.lastRunID, m.lastFormat = runID, f
	return m.archive, m.err
}
func (m *mockDistribution) Publish(_ context.Context, runID string) (service.PublishResult, error) {
	m.lastRunID = runID
	return m.publish, m.err
}

type mockEventLog struct {
	resp      []models.RunEvent
	err       error
	lastFrom  time.Time
	lastTo    time.Time
	lastType  string
	lastRunID string
}

func (m *mockEventLog) List(_ context.Context, f service.LogFilter) ([]models.RunEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	m.lastRunID = f.RunID
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

// newAuthedRequest builds a request carrying a bearer token the mocks accept.
// A non-empty body is sent as JSON.
func newAuthedRequest(method, target, body string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vv := range authHeader("valid") {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	return req
}
