package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"contract-workspace/internal/config"
	"contract-workspace/internal/delivery/http/middleware"
	"contract-workspace/internal/document"
	"contract-workspace/internal/domain/entity"
	"contract-workspace/internal/domain/errs"
	"contract-workspace/internal/infrastructure/session"
	"contract-workspace/internal/usecase"
)

const testCookie = "session_id"

type fakeAuth struct {
	usecase.AuthUsecase
	loggedOut bool
}

func (f *fakeAuth) Resolve(_ context.Context, id string) (*session.Session, error) {
	if id != "s-1" {
		return nil, errs.ErrAuth
	}
	return &session.Session{ID: "s-1", Email: "alice@example.com"}, nil
}

func (f *fakeAuth) Login(_ context.Context, req *entity.LoginRequest) (*entity.SessionInfo, error) {
	if req.Password != "secret" {
		return nil, fmt.Errorf("%w: bad credentials", errs.ErrAuth)
	}
	return &entity.SessionInfo{SessionID: "s-1", Email: req.Email}, nil
}

func (f *fakeAuth) Logout(context.Context, *session.Session) error {
	f.loggedOut = true
	return nil
}

type fakeOrganizations struct {
	org *entity.OrganizationDomain
}

func (f *fakeOrganizations) LookupByEmail(context.Context, string) (*entity.OrganizationDomain, error) {
	return f.org, nil
}

type fakeContracts struct {
	usecase.ContractUsecase
	created *entity.CreateContractRequest
	file    *entity.FileUpload
	getErr  error
}

func (f *fakeContracts) Create(_ context.Context, _ *session.Session, req *entity.CreateContractRequest, file *entity.FileUpload) (*entity.Contract, error) {
	f.created = req
	f.file = file
	return &entity.Contract{ID: "c-1", Title: req.Title}, nil
}

func (f *fakeContracts) Get(context.Context, *session.Session, string) (*entity.Contract, error) {
	return nil, f.getErr
}

type fakeDocuments struct {
	usecase.DocumentUsecase
}

func (f *fakeDocuments) ViewContent(sess *session.Session, viewID string) ([]byte, string, error) {
	if viewID != "v-1" {
		return nil, "", document.ErrViewClosed
	}
	return []byte("%PDF-1.7"), document.MediaTypePDF, nil
}

func (f *fakeDocuments) InsertPlaceholder(text string, caret, recipientIndex int) (*usecase.PlaceholderResult, error) {
	if recipientIndex < 0 {
		return nil, errs.ErrValidation
	}
	return &usecase.PlaceholderResult{Text: text + "[[sign_here_0]]", Caret: caret + 15, Marker: "[[sign_here_0]]"}, nil
}

type fakeLogs struct {
	email string
}

func (f *fakeLogs) Recent(_ context.Context, sess *session.Session, _ string, _ int) ([]entity.APILog, error) {
	f.email = sess.Email
	return []entity.APILog{{Endpoint: "/contracts/", Email: sess.Email}}, nil
}

func newTestApp(auth *fakeAuth, contracts *fakeContracts) *fiber.App {
	return newTestAppWithLogs(auth, contracts, &fakeLogs{})
}

func newTestAppWithLogs(auth *fakeAuth, contracts *fakeContracts, logs *fakeLogs) *fiber.App {
	cfg := &config.Config{Session: config.SessionConfig{CookieName: testCookie}}
	logger := zap.NewNop()

	authHandler := NewAuthHandler(auth, cfg, logger)
	orgHandler := NewOrganizationHandler(&fakeOrganizations{})
	contractHandler := NewContractHandler(contracts, logger)
	documentHandler := NewDocumentHandler(&fakeDocuments{})
	logHandler := NewLogHandler(logs)

	app := fiber.New()
	app.Post("/auth/login", authHandler.Login)
	app.Get("/organizations/domain/:email", orgHandler.Domain)

	private := app.Group("", middleware.RequireSession(auth, testCookie, logger))
	private.Post("/auth/logout", authHandler.Logout)
	private.Post("/contracts", contractHandler.Create)
	private.Get("/contracts/:id", contractHandler.Get)
	private.Get("/views/:viewId/content", documentHandler.ViewContent)
	private.Post("/editor/placeholder", documentHandler.InsertPlaceholder)
	private.Get("/logs", logHandler.GetLogs)
	return app
}

func decode(t *testing.T, resp *http.Response) entity.APIResponse {
	t.Helper()
	var out entity.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func withSession(req *http.Request) *http.Request {
	req.AddCookie(&http.Cookie{Name: testCookie, Value: "s-1"})
	return req
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: expired", errs.ErrAuth), fiber.StatusUnauthorized, entity.CodeUnauthorized},
		{fmt.Errorf("%w: contract", errs.ErrNotFound), fiber.StatusNotFound, entity.CodeNotFound},
		{document.ErrViewClosed, fiber.StatusNotFound, entity.CodeNotFound},
		{errs.ErrValidation, fiber.StatusBadRequest, entity.CodeBadRequest},
		{errs.ErrNoRecipients, fiber.StatusUnprocessableEntity, entity.CodeUnprocessable},
		{errs.ErrSerialization, fiber.StatusUnprocessableEntity, entity.CodeUnprocessable},
		{errs.ErrDownload, fiber.StatusBadGateway, entity.CodeUpstream},
		{errs.ErrUpload, fiber.StatusBadGateway, entity.CodeUpstream},
		{errs.ErrMalformedResponse, fiber.StatusBadGateway, entity.CodeUpstream},
		{errors.New("boom"), fiber.StatusInternalServerError, entity.CodeInternal},
	}
	for _, tt := range tests {
		status, code := statusFor(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.Equal(t, tt.code, code, tt.err.Error())
	}
}

func TestRequireSession_RejectsMissingCookie(t *testing.T) {
	app := newTestApp(&fakeAuth{}, &fakeContracts{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/contracts/c-1", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	body := decode(t, resp)
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, entity.CodeUnauthorized, body.Error.Code)
}

func TestRequireSession_RejectsUnknownSession(t *testing.T) {
	app := newTestApp(&fakeAuth{}, &fakeContracts{})

	req := httptest.NewRequest(http.MethodGet, "/contracts/c-1", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: "forged"})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestContractGet_MapsNotFound(t *testing.T) {
	contracts := &fakeContracts{getErr: fmt.Errorf("%w: contract c-9", errs.ErrNotFound)}
	app := newTestApp(&fakeAuth{}, contracts)

	resp, err := app.Test(withSession(httptest.NewRequest(http.MethodGet, "/contracts/c-9", nil)), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, entity.CodeNotFound, decode(t, resp).Error.Code)
}

func TestLogin_SetsHTTPOnlyCookie(t *testing.T) {
	app := newTestApp(&fakeAuth{}, &fakeContracts{})

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"alice@example.com","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	cookie := resp.Header.Get("Set-Cookie")
	assert.Contains(t, cookie, testCookie+"=s-1")
	assert.Contains(t, strings.ToLower(cookie), "httponly")
}

func TestLogin_BadCredentials(t *testing.T) {
	app := newTestApp(&fakeAuth{}, &fakeContracts{})

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"alice@example.com","password":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Set-Cookie"))
}

func TestLogout_ClearsCookie(t *testing.T) {
	auth := &fakeAuth{}
	app := newTestApp(auth, &fakeContracts{})

	resp, err := app.Test(withSession(httptest.NewRequest(http.MethodPost, "/auth/logout", nil)), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, auth.loggedOut)
	assert.Contains(t, resp.Header.Get("Set-Cookie"), testCookie+"=")
}

func TestOrganizationDomain_NoMatch(t *testing.T) {
	app := newTestApp(&fakeAuth{}, &fakeContracts{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/organizations/domain/bob@nowhere.test", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decode(t, resp)
	assert.True(t, body.Success)
	assert.Nil(t, body.Data)
}

func TestContractCreate_Multipart(t *testing.T) {
	contracts := &fakeContracts{}
	app := newTestApp(&fakeAuth{}, contracts)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("title", "Lease"))
	require.NoError(t, w.WriteField("contract_type", "lease"))
	part, err := w.CreateFormFile("file", "lease.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.7"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := withSession(httptest.NewRequest(http.MethodPost, "/contracts", &buf))
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	require.NotNil(t, contracts.created)
	assert.Equal(t, "Lease", contracts.created.Title)
	require.NotNil(t, contracts.file)
	assert.Equal(t, "lease.pdf", contracts.file.Filename)
	assert.Equal(t, []byte("%PDF-1.7"), contracts.file.Content)
}

func TestContractCreate_JSONHasNoFile(t *testing.T) {
	contracts := &fakeContracts{}
	app := newTestApp(&fakeAuth{}, contracts)

	req := withSession(httptest.NewRequest(http.MethodPost, "/contracts", strings.NewReader(`{"title":"NDA"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Nil(t, contracts.file)
	assert.Equal(t, "NDA", contracts.created.Title)
}

func TestViewContent(t *testing.T) {
	app := newTestApp(&fakeAuth{}, &fakeContracts{})

	resp, err := app.Test(withSession(httptest.NewRequest(http.MethodGet, "/views/v-1/content", nil)), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, document.MediaTypePDF, resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(body))

	resp, err = app.Test(withSession(httptest.NewRequest(http.MethodGet, "/views/v-2/content", nil)), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestInsertPlaceholder(t *testing.T) {
	app := newTestApp(&fakeAuth{}, &fakeContracts{})

	req := withSession(httptest.NewRequest(http.MethodPost, "/editor/placeholder",
		strings.NewReader(`{"text":"Sign: ","caret":6,"recipient_index":0}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out struct {
		Data usecase.PlaceholderResult `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "Sign: [[sign_here_0]]", out.Data.Text)
	assert.Equal(t, 21, out.Data.Caret)
}

func TestGetLogs_ScopedToCaller(t *testing.T) {
	logs := &fakeLogs{}
	app := newTestAppWithLogs(&fakeAuth{}, &fakeContracts{}, logs)

	resp, err := app.Test(withSession(httptest.NewRequest(http.MethodGet, "/logs?limit=5", nil)), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice@example.com", logs.email)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/logs", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
