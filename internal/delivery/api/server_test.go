package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"indicators/config"
	"indicators/internal/delivery/api/cookie"
	apimiddleware "indicators/internal/delivery/api/middleware"
	"indicators/internal/delivery/api/router"
	"indicators/internal/delivery/api/router/handler"
	"indicators/internal/domain/entity"
	domainerrors "indicators/internal/domain/errors"
	"indicators/internal/domain/query"
	mockusecase "indicators/internal/mocks/usecase"
	"indicators/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

type testServer struct {
	echo    *echo.Echo
	auth    *mockusecase.MockAuthUsecase
	users   *mockusecase.MockUserUsecase
	dataset *mockusecase.MockDatasetUsecase
	goals   *mockusecase.MockGoalUsecase
	kpi     *mockusecase.MockKPIUsecase
}

// errorBody is the shape of every failure; successful bodies are read from the recorder.
type errorBody struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details any    `json:"details"`
	} `json:"error"`
	Meta struct {
		RequestID string `json:"request_id"`
	} `json:"meta"`
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{SecretKey: "test-secret"}
	cfg.ApplyDefaults()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ts := &testServer{
		auth:    mockusecase.NewMockAuthUsecase(t),
		users:   mockusecase.NewMockUserUsecase(t),
		dataset: mockusecase.NewMockDatasetUsecase(t),
		goals:   mockusecase.NewMockGoalUsecase(t),
		kpi:     mockusecase.NewMockKPIUsecase(t),
	}

	lc := fxtest.NewLifecycle(t)
	srv, err := NewServer(ServerParams{
		Lc:     lc,
		Cfg:    cfg,
		Logger: logger,
		RouterParams: router.RouterParams{
			AuthHandler: handler.NewAuthHandler(handler.AuthHandlerParams{
				AuthUC:        ts.auth,
				RefreshCookie: cookie.NewRefreshCookie(cfg),
				Logger:        logger,
			}),
			UserHandler:    handler.NewUserHandler(handler.UserHandlerParams{UserUC: ts.users, Logger: logger}),
			DatasetHandler: handler.NewDatasetHandler(handler.DatasetHandlerParams{DatasetUC: ts.dataset, Logger: logger}),
			GoalHandler:    handler.NewGoalHandler(handler.GoalHandlerParams{GoalUC: ts.goals, Logger: logger}),
			KPIHandler:     handler.NewKPIHandler(ts.kpi),
			AuthMiddleware: apimiddleware.NewAuthMiddleware(ts.auth),
			Config:         cfg,
		},
	})
	require.NoError(t, err)

	apiSrv, ok := srv.(*apiServer)
	require.True(t, ok)
	ts.echo = apiSrv.server

	return ts
}

// signIn makes the access token "tok-<role>" resolve to an active user of that role.
func (ts *testServer) signIn(role entity.Role) string {
	token := "tok-" + strings.ToLower(role.String())
	ts.auth.On("Authenticate", mock.Anything, token).
		Return(&entity.User{ID: 1, Email: strings.ToLower(role.String()) + "@sg.com", Role: role, IsActive: true}, nil)

	return token
}

func (ts *testServer) do(t *testing.T, req *http.Request, token string) (*httptest.ResponseRecorder, errorBody) {
	t.Helper()

	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.echo.ServeHTTP(rec, req)

	var body errorBody
	if rec.Code >= http.StatusBadRequest && strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}

	return rec, body
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	return req
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("X-Request-Id", "req-42")
	rec, _ := ts.do(t, req, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Equal(t, "req-42", rec.Header().Get("X-Request-Id"))
}

func TestGuard_MissingOrMalformedAuthorization(t *testing.T) {
	ts := newTestServer(t)

	for _, header := range []string{"", "Token abc", "Bearer ", "Basic dXNlcg=="} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/kpis/overview", nil)
		if header != "" {
			req.Header.Set(echo.HeaderAuthorization, header)
		}
		rec, body := ts.do(t, req, "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
		require.NotNil(t, body.Error)
		assert.Equal(t, "UNAUTHENTICATED", body.Error.Code)
	}
}

func TestGuard_InvalidTokenIs401(t *testing.T) {
	ts := newTestServer(t)
	ts.auth.On("Authenticate", mock.Anything, "expired").Return(nil, domainerrors.ErrInvalidToken)

	rec, body := ts.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/metas", nil), "expired")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_TOKEN", body.Error.Code)
}

func TestGuard_RoleMatrix(t *testing.T) {
	tests := []struct {
		name   string
		role   entity.Role
		method string
		target string
		want   int
	}{
		{"user cannot create records", entity.RoleUser, http.MethodPost, "/api/v1/datasets/entries", http.StatusForbidden},
		{"user cannot import", entity.RoleUser, http.MethodPost, "/api/v1/datasets/entries/import", http.StatusForbidden},
		{"supervisor cannot list users", entity.RoleSupervisor, http.MethodGet, "/api/v1/users", http.StatusForbidden},
		{"supervisor cannot write goals", entity.RoleSupervisor, http.MethodPost, "/api/v1/metas", http.StatusForbidden},
		{"user cannot deactivate", entity.RoleUser, http.MethodDelete, "/api/v1/users/3", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			token := ts.signIn(tt.role)

			rec, body := ts.do(t, jsonRequest(tt.method, tt.target, `{}`), token)

			assert.Equal(t, tt.want, rec.Code)
			require.NotNil(t, body.Error)
			assert.Equal(t, "FORBIDDEN", body.Error.Code)
			assert.Nil(t, body.Error.Details)
		})
	}
}

func TestAuth_LoginSetsRefreshCookie(t *testing.T) {
	ts := newTestServer(t)
	ts.auth.On("Login", mock.Anything, usecase.LoginInput{Email: "sup@sg.com", Password: "pw"}).
		Return(&usecase.TokenPair{
			AccessToken:  "access",
			TokenType:    "bearer",
			Role:         entity.RoleSupervisor,
			Email:        "sup@sg.com",
			RefreshToken: "refresh-secret",
			RefreshTTL:   7 * 24 * time.Hour,
		}, nil)

	rec, _ := ts.do(t, jsonRequest(http.MethodPost, "/api/v1/auth/login", `{"email":"sup@sg.com","password":"pw"}`), "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"access_token":"access","token_type":"bearer","role":"SUPERVISOR","email":"sup@sg.com"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "refresh-secret")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sg_refresh", cookies[0].Name)
	assert.Equal(t, "refresh-secret", cookies[0].Value)
	assert.Equal(t, "/api/v1/auth", cookies[0].Path)
	assert.Equal(t, 604800, cookies[0].MaxAge)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
}

func TestAuth_LoginValidation(t *testing.T) {
	ts := newTestServer(t)

	rec, body := ts.do(t, jsonRequest(http.MethodPost, "/api/v1/auth/login", `{"email":"nope"}`), "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", body.Error.Code)
	assert.Equal(t, "email failed email; password failed required", body.Error.Details)
}

func TestAuth_LoginInvalidCredentials(t *testing.T) {
	ts := newTestServer(t)
	ts.auth.On("Login", mock.Anything, mock.Anything).Return(nil, domainerrors.ErrInvalidCredentials)

	rec, body := ts.do(t, jsonRequest(http.MethodPost, "/api/v1/auth/login", `{"email":"a@sg.com","password":"bad"}`), "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", body.Error.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestAuth_RefreshReadsCookie(t *testing.T) {
	ts := newTestServer(t)
	ts.auth.On("Refresh", mock.Anything, "old-refresh").Return(&usecase.TokenPair{
		AccessToken: "a2", TokenType: "bearer", Role: entity.RoleUser, Email: "u@sg.com",
		RefreshToken: "new-refresh", RefreshTTL: time.Hour,
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "sg_refresh", Value: "old-refresh"})
	rec, _ := ts.do(t, req, "")

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "new-refresh", cookies[0].Value)
	assert.Equal(t, 3600, cookies[0].MaxAge)
}

func TestAuth_RefreshWithoutCookie(t *testing.T) {
	ts := newTestServer(t)
	ts.auth.On("Refresh", mock.Anything, "").Return(nil, domainerrors.ErrMissingRefreshToken)

	rec, body := ts.do(t, httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil), "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "MISSING_REFRESH_TOKEN", body.Error.Code)
}

func TestAuth_LogoutClearsCookie(t *testing.T) {
	ts := newTestServer(t)

	rec, _ := ts.do(t, httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil), "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"detail":"Logged out"}`, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "sg_refresh=;")
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestAuth_SeedAdmin(t *testing.T) {
	ts := newTestServer(t)
	ts.auth.On("SeedAdmin", mock.Anything).Return(&usecase.TokenPair{
		AccessToken: "a", TokenType: "bearer", Role: entity.RoleAdmin, Email: "admin@sg.com",
		RefreshToken: "r", RefreshTTL: time.Hour,
	}, nil)

	rec, _ := ts.do(t, httptest.NewRequest(http.MethodPost, "/api/v1/auth/seed-admin", nil), "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"access_token":"a","token_type":"bearer","role":"ADMIN","email":"admin@sg.com"}`, rec.Body.String())
}

func TestDatasets_ListParsesQuery(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signIn(entity.RoleUser)

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	want := query.ListQuery{From: &from, To: &to, Customer: "acme", OrderBy: "days_late", Desc: true, Limit: 5, Offset: 10}

	ts.dataset.On("List", mock.Anything, "delays", want).Return([]entity.Record{
		{{Name: "id", Value: uint(7)}, {Name: "customer", Value: "ACME"}},
	}, nil)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/datasets/delays?from=2024-01-01&to=31/01/2024&customer=acme&order_by=days_late&desc=true&limit=5&offset=10", nil)
	rec, _ := ts.do(t, req, token)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":7,"customer":"ACME"}]`, rec.Body.String())
}

func TestDatasets_ListBadDate(t *testing.T) {
	for _, raw := range []string{"2024/13/01", "2024-13-40", "31/02/2024"} {
		t.Run(raw, func(t *testing.T) {
			ts := newTestServer(t)
			token := ts.signIn(entity.RoleUser)

			rec, body := ts.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/datasets/entries?from="+raw, nil), token)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			require.NotNil(t, body.Error)
			assert.Equal(t, "INVALID_DATE_FORMAT", body.Error.Code)
			assert.Equal(t, "Invalid date format: "+raw, body.Error.Details)
			assert.Equal(t, rec.Header().Get("X-Request-Id"), body.Meta.RequestID)
		})
	}
}

func TestDatasets_UnknownKind(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signIn(entity.RoleUser)
	ts.dataset.On("List", mock.Anything, "widgets", mock.Anything).
		Return(nil, domainerrors.ErrUnknownDataset.WithDetails("widgets"))

	rec, body := ts.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/datasets/widgets", nil), token)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "UNKNOWN_DATASET", body.Error.Code)
}

func TestDatasets_CreateDoesNotLeakPathParams(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signIn(entity.RoleSupervisor)

	fields := map[string]any{"date": "2024-03-01", "shift": "A", "pedidos_m2": 10.0, "forno_m2": 9.5}
	ts.dataset.On("Create", mock.Anything, "entries", fields).Return(entity.Record{
		{Name: "id", Value: uint(1)}, {Name: "date", Value: "2024-03-01"},
	}, nil)

	rec, _ := ts.do(t, jsonRequest(http.MethodPost, "/api/v1/datasets/entries",
		`{"date":"2024-03-01","shift":"A","pedidos_m2":10,"forno_m2":9.5}`), token)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":1,"date":"2024-03-01"}`, rec.Body.String())
}

func TestDatasets_Import(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signIn(entity.RoleAdmin)

	var payload bytes.Buffer
	form := multipart.NewWriter(&payload)
	part, err := form.CreateFormFile("file", "entries.csv")
	require.NoError(t, err)
	_, err = io.WriteString(part, "date,shift,pedidos_m2,forno_m2\n2024-03-01,A,10,9\n")
	require.NoError(t, err)
	require.NoError(t, form.Close())

	ts.dataset.On("Import", mock.Anything, "entries", mock.Anything).Return(1, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/datasets/entries/import", &payload)
	req.Header.Set(echo.HeaderContentType, form.FormDataContentType())
	rec, _ := ts.do(t, req, token)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"inserted":1}`, rec.Body.String())
}

func TestDatasets_ImportWithoutFile(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signIn(entity.RoleSupervisor)

	rec, body := ts.do(t, jsonRequest(http.MethodPost, "/api/v1/datasets/entries/import", `{}`), token)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", body.Error.Code)
}

func TestDatasets_Export(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signIn(entity.RoleUser)

	ts.dataset.On("Export", mock.Anything, "breakages",
		query.ListQuery{Sector: "Forno", Limit: query.DefaultExportLimit}, mock.Anything).
		Return(1, nil, "id,date,sector\n1,2024-03-01,Forno\n")

	rec, _ := ts.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/datasets/breakages/export?sector=Forno", nil), token)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), "text/csv"))
	assert.Equal(t, "attachment; filename=breakages.csv", rec.Header().Get(echo.HeaderContentDisposition))
	assert.Equal(t, "id,date,sector\n1,2024-03-01,Forno\n", rec.Body.String())
}

func TestUsers_CreateAndList(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signIn(entity.RoleAdmin)
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	ts.users.On("CreateUser", mock.Anything, usecase.CreateUserInput{Email: "new@sg.com", Password: "pw", Role: entity.RoleSupervisor}).
		Return(&entity.User{ID: 2, Email: "new@sg.com", Role: entity.RoleSupervisor, IsActive: true, CreatedAt: created}, nil)
	ts.users.On("ListUsers", mock.Anything).
		Return([]*entity.User{{ID: 1, Email: "admin@sg.com", Role: entity.RoleAdmin, IsActive: true, CreatedAt: created}}, nil)

	rec, _ := ts.do(t, jsonRequest(http.MethodPost, "/api/v1/users",
		`{"email":"new@sg.com","password":"pw","role":"SUPERVISOR"}`), token)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":2,"email":"new@sg.com","role":"SUPERVISOR","is_active":true,"created_at":"2024-03-01T10:00:00Z"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "password")

	rec, _ = ts.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/users", nil), token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"email":"admin@sg.com","role":"ADMIN","is_active":true,"created_at":"2024-03-01T10:00:00Z"}]`, rec.Body.String())
}

func TestUsers_PatchAndDelete(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signIn(entity.RoleAdmin)

	inactive := false
	ts.users.On("PatchUser", mock.Anything, uint(3), usecase.PatchUserInput{IsActive: &inactive}).
		Return(&entity.User{ID: 3, Email: "x@sg.com", Role: entity.RoleUser}, nil)
	ts.users.On("DeactivateUser", mock.Anything, uint(3)).Return(nil)
	ts.users.On("DeactivateUser", mock.Anything, uint(99)).Return(domainerrors.ErrUserNotFound)

	rec, _ := ts.do(t, jsonRequest(http.MethodPatch, "/api/v1/users/3", `{"is_active":false}`), token)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body := ts.do(t, httptest.NewRequest(http.MethodDelete, "/api/v1/users/3", nil), token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"detail":"User deactivated"}`, rec.Body.String())

	rec, body = ts.do(t, httptest.NewRequest(http.MethodDelete, "/api/v1/users/99", nil), token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "USER_NOT_FOUND", body.Error.Code)

	rec, body = ts.do(t, httptest.NewRequest(http.MethodDelete, "/api/v1/users/abc", nil), token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", body.Error.Code)
}

func TestGoals(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signIn(entity.RoleAdmin)

	ts.goals.On("ListGoals", mock.Anything).
		Return([]*entity.Goal{{ID: 1, Key: "forno_daily", Value: 500, Unit: "m2"}}, nil)
	ts.goals.On("UpsertGoal", mock.Anything, usecase.UpsertGoalInput{Key: "loss_pct", Value: 0, Unit: "%"}).
		Return(&entity.Goal{ID: 2, Key: "loss_pct", Value: 0, Unit: "%"}, nil)

	rec, body := ts.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/metas", nil), token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"key":"forno_daily","value":500,"unit":"m2"}]`, rec.Body.String())

	rec, body = ts.do(t, jsonRequest(http.MethodPost, "/api/v1/metas", `{"key":"loss_pct","value":0,"unit":"%"}`), token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":2,"key":"loss_pct","value":0,"unit":"%"}`, rec.Body.String())

	rec, body = ts.do(t, jsonRequest(http.MethodPost, "/api/v1/metas", `{"key":"loss_pct"}`), token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "value failed required", body.Error.Details)
}

func TestKPIOverview(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signIn(entity.RoleUser)

	ts.kpi.On("Overview", mock.Anything).Return(&entity.KPIOverview{
		Production:     300,
		UtilizationPct: 1000,
		Goals:          entity.GoalSnapshot{FornoDaily: 1},
		ExecutiveText:  "texto",
	}, nil)

	rec, _ := ts.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/kpis/overview", nil), token)

	require.Equal(t, http.StatusOK, rec.Code)
	var overview map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &overview))
	assert.InDelta(t, 1000, overview["utilization_pct"], 1e-9)
	assert.Equal(t, "texto", overview["executive_text"])
}

func TestUnhandledErrorIsGeneric500(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signIn(entity.RoleUser)
	ts.kpi.On("Overview", mock.Anything).Return(nil, io.ErrUnexpectedEOF)

	rec, body := ts.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/kpis/overview", nil), token)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
	assert.NotContains(t, rec.Body.String(), "unexpected EOF")
}
