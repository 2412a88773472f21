package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tourops/daily-list-service/internal/dto"
	"github.com/tourops/daily-list-service/internal/models"
	"github.com/tourops/daily-list-service/internal/service"
)

type EmailHandler struct {
	emailSvc    service.EmailService
	dispatchSvc service.DispatchService
}

func NewEmailHandler(emailSvc service.EmailService, dispatchSvc service.DispatchService) *EmailHandler {
	return &EmailHandler{emailSvc: emailSvc, dispatchSvc: dispatchSvc}
}

func (h *EmailHandler) RegisterRoutes(e *echo.Echo) {
	email := e.Group("/api/email")
	email.GET("/logs", h.Logs)
	email.POST("/send", h.Send)
	email.GET("/recipients/:role", h.Recipients)
	email.POST("/dispatch/:role", h.Dispatch)
}

func (h *EmailHandler) Logs(c echo.Context) error {
	date := c.QueryParam("date")
	if date == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "date is required")
	}

	logs, err := h.emailSvc.Logs(c.Request().Context(), date)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, logs)
}

func (h *EmailHandler) Send(c echo.Context) error {
	var req service.SendEmailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result, err := h.emailSvc.Send(c.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoEmailRecipients),
			errors.Is(err, service.ErrBadAttachmentData):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusOK, result)
}

func (h *EmailHandler) Recipients(c echo.Context) error {
	role := models.StaffRole(c.Param("role"))
	if !role.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown recipient role")
	}

	date := c.QueryParam("date")
	if date == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "date is required")
	}
	activityIDs, err := parseIDList(c.QueryParam("activity_ids"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid activity_ids")
	}

	recipients, err := h.dispatchSvc.Recipients(c.Request().Context(), role, date, activityIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, recipients)
}

func (h *EmailHandler) Dispatch(c echo.Context) error {
	role := models.StaffRole(c.Param("role"))
	if !role.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown recipient role")
	}

	var req dto.DispatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Date == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "date is required")
	}

	result, err := h.dispatchSvc.Dispatch(c.Request().Context(), service.DispatchRequest{
		Role:         role,
		Date:         req.Date,
		ActivityIDs:  req.ActivityIDs,
		RecipientIDs: req.RecipientIDs,
	})
	if err != nil {
		var noTmpl *service.NoConsolidatedTemplateError
		var missing *service.MissingActivityTemplatesError
		var tooMany *service.TooManyAttachmentsError
		switch {
		case errors.As(err, &noTmpl), errors.As(err, &missing), errors.As(err, &tooMany):
			return echo.NewHTTPError(http.StatusPreconditionFailed, err.Error())
		case errors.Is(err, service.ErrNoRecipients):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusOK, result)
}
