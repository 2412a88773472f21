package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/tourops/daily-list-service/internal/models"
	"github.com/tourops/daily-list-service/internal/service"
)

// --- Mock EmailService ---

type mockEmailService struct {
	sendFn func(ctx context.Context, req service.SendEmailRequest) (*service.SendEmailResult, error)
	logsFn func(ctx context.Context, date string) ([]models.EmailLog, error)
}

func (m *mockEmailService) Send(ctx context.Context, req service.SendEmailRequest) (*service.SendEmailResult, error) {
	return m.sendFn(ctx, req)
}
func (m *mockEmailService) Logs(ctx context.Context, date string) ([]models.EmailLog, error) {
	return m.logsFn(ctx, date)
}

// --- Mock DispatchService ---

type mockDispatchService struct {
	dispatchFn   func(ctx context.Context, req service.DispatchRequest) (*service.DispatchResult, error)
	recipientsFn func(ctx context.Context, role models.StaffRole, date string, activityIDs []int64) ([]service.RecipientView, error)
}

func (m *mockDispatchService) Dispatch(ctx context.Context, req service.DispatchRequest) (*service.DispatchResult, error) {
	return m.dispatchFn(ctx, req)
}
func (m *mockDispatchService) Recipients(ctx context.Context, role models.StaffRole, date string, activityIDs []int64) ([]service.RecipientView, error) {
	return m.recipientsFn(ctx, role, date, activityIDs)
}

// --- Tests ---

func TestSendEmail_Handler_Success(t *testing.T) {
	svc := &mockEmailService{
		sendFn: func(ctx context.Context, req service.SendEmailRequest) (*service.SendEmailResult, error) {
			return &service.SendEmailResult{Sent: len(req.Recipients)}, nil
		},
	}

	e := echo.New()
	body := `{"recipients":["a@example.com","b@example.com"],"subject":"Daily list","serviceDate":"2026-09-01"}`
	req := httptest.NewRequest(http.MethodPost, "/api/email/send", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewEmailHandler(svc, nil)
	err := h.Send(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp service.SendEmailResult
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Sent)
}

func TestSendEmail_Handler_NoRecipients(t *testing.T) {
	svc := &mockEmailService{
		sendFn: func(ctx context.Context, req service.SendEmailRequest) (*service.SendEmailResult, error) {
			return nil, service.ErrNoEmailRecipients
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/email/send", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewEmailHandler(svc, nil)
	err := h.Send(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestDispatch_Handler_Success(t *testing.T) {
	var captured service.DispatchRequest
	svc := &mockDispatchService{
		dispatchFn: func(ctx context.Context, req service.DispatchRequest) (*service.DispatchResult, error) {
			captured = req
			return &service.DispatchResult{Sent: 3}, nil
		},
	}

	e := echo.New()
	body := `{"date":"2026-09-01","activity_ids":[1,2],"recipient_ids":[5]}`
	req := httptest.NewRequest(http.MethodPost, "/api/email/dispatch/guide", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("role")
	c.SetParamValues("guide")

	h := NewEmailHandler(nil, svc)
	err := h.Dispatch(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.RoleGuide, captured.Role)
	assert.Equal(t, []int64{1, 2}, captured.ActivityIDs)
	assert.Equal(t, []int64{5}, captured.RecipientIDs)
}

func TestDispatch_Handler_UnknownRole(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/email/dispatch/janitor", strings.NewReader(`{"date":"2026-09-01"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("role")
	c.SetParamValues("janitor")

	h := NewEmailHandler(nil, nil)
	err := h.Dispatch(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestDispatch_Handler_MissingTemplatesBlocksRun(t *testing.T) {
	svc := &mockDispatchService{
		dispatchFn: func(ctx context.Context, req service.DispatchRequest) (*service.DispatchResult, error) {
			return nil, &service.MissingActivityTemplatesError{Titles: []string{"Colosseum Tour"}}
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/email/dispatch/guide", strings.NewReader(`{"date":"2026-09-01"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("role")
	c.SetParamValues("guide")

	h := NewEmailHandler(nil, svc)
	err := h.Dispatch(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusPreconditionFailed, he.Code)
}

func TestDispatch_Handler_NoConsolidatedTemplate(t *testing.T) {
	svc := &mockDispatchService{
		dispatchFn: func(ctx context.Context, req service.DispatchRequest) (*service.DispatchResult, error) {
			return nil, &service.NoConsolidatedTemplateError{Role: models.RoleEscort}
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/email/dispatch/escort", strings.NewReader(`{"date":"2026-09-01"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("role")
	c.SetParamValues("escort")

	h := NewEmailHandler(nil, svc)
	err := h.Dispatch(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusPreconditionFailed, he.Code)
}

func TestEmailLogs_Handler_RequiresDate(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/email/logs", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewEmailHandler(nil, nil)
	err := h.Logs(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestRecipients_Handler_Success(t *testing.T) {
	svc := &mockDispatchService{
		recipientsFn: func(ctx context.Context, role models.StaffRole, date string, activityIDs []int64) ([]service.RecipientView, error) {
			return []service.RecipientView{
				{Person: service.Person{ID: 1, FirstName: "Ana"}, HasEmail: true, ServiceCount: 2},
			}, nil
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/email/recipients/guide?date=2026-09-01", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("role")
	c.SetParamValues("guide")

	h := NewEmailHandler(nil, svc)
	err := h.Recipients(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp []service.RecipientView
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 1)
	assert.True(t, resp[0].HasEmail)
}
