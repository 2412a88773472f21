package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/tourops/daily-list-service/internal/dto"
	"github.com/tourops/daily-list-service/internal/models"
	"github.com/tourops/daily-list-service/internal/service"
)

type TemplateHandler struct {
	svc service.TemplateService
}

func NewTemplateHandler(svc service.TemplateService) *TemplateHandler {
	return &TemplateHandler{svc: svc}
}

func (h *TemplateHandler) RegisterRoutes(e *echo.Echo) {
	content := e.Group("/api/content")
	content.GET("/consolidated-templates", h.ListConsolidated)
	content.POST("/consolidated-templates", h.Create)
	content.PUT("/consolidated-templates/:id", h.Update)
	content.DELETE("/consolidated-templates/:id", h.Delete)
	content.GET("/activity-templates", h.ActivityTemplates)
	content.PUT("/activity-templates", h.AssignActivityTemplate)
}

func (h *TemplateHandler) ListConsolidated(c echo.Context) error {
	templates, err := h.svc.ListConsolidated(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, templates)
}

func (h *TemplateHandler) Create(c echo.Context) error {
	var req dto.TemplateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	tmpl := &models.EmailTemplate{
		Name:                req.Name,
		Subject:             req.Subject,
		Body:                req.Body,
		ServiceItemTemplate: req.ServiceItemTemplate,
		TemplateType:        models.TemplateType(req.TemplateType),
		IsDefault:           req.IsDefault,
	}
	if err := h.svc.Create(c.Request().Context(), tmpl); err != nil {
		return templateError(err)
	}
	return c.JSON(http.StatusCreated, tmpl)
}

func (h *TemplateHandler) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid template id")
	}

	var req dto.TemplateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	tmpl := &models.EmailTemplate{
		ID:                  id,
		Name:                req.Name,
		Subject:             req.Subject,
		Body:                req.Body,
		ServiceItemTemplate: req.ServiceItemTemplate,
		TemplateType:        models.TemplateType(req.TemplateType),
		IsDefault:           req.IsDefault,
	}
	if err := h.svc.Update(c.Request().Context(), tmpl); err != nil {
		return templateError(err)
	}
	return c.JSON(http.StatusOK, tmpl)
}

func (h *TemplateHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid template id")
	}

	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return templateError(err)
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "template deleted"})
}

func (h *TemplateHandler) ActivityTemplates(c echo.Context) error {
	templates, err := h.svc.ActivityTemplates(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, templates)
}

func (h *TemplateHandler) AssignActivityTemplate(c echo.Context) error {
	var req dto.ActivityTemplateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.ActivityID == 0 || req.TemplateID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "activity_id and template_id are required")
	}

	if err := h.svc.AssignActivityTemplate(c.Request().Context(), req.ActivityID, req.TemplateID); err != nil {
		return templateError(err)
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "activity template assigned"})
}

func templateError(err error) error {
	switch {
	case errors.Is(err, service.ErrTemplateNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidTemplateType):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
