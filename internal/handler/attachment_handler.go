package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/tourops/daily-list-service/internal/dto"
	"github.com/tourops/daily-list-service/internal/repository"
	"github.com/tourops/daily-list-service/internal/service"
)

type AttachmentHandler struct {
	svc  service.AttachmentService
	repo repository.AttachmentRepository
}

func NewAttachmentHandler(svc service.AttachmentService, repo repository.AttachmentRepository) *AttachmentHandler {
	return &AttachmentHandler{svc: svc, repo: repo}
}

func (h *AttachmentHandler) RegisterRoutes(e *echo.Echo) {
	attachments := e.Group("/api/attachments")
	attachments.POST("", h.Upload)
	attachments.GET("", h.List)
	attachments.DELETE("/:id", h.Delete)
	attachments.GET("/:id/download", h.Download)
}

func (h *AttachmentHandler) Upload(c echo.Context) error {
	availabilityID, err := strconv.ParseInt(c.FormValue("activity_availability_id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid activity_availability_id")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read uploaded file")
	}
	defer src.Close()

	attachment, err := h.svc.Upload(c.Request().Context(), availabilityID, fileHeader.Filename, src)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotAPDF):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrAvailabilityNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, attachment)
}

func (h *AttachmentHandler) List(c echo.Context) error {
	availabilityID, err := strconv.ParseInt(c.QueryParam("availability_id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid availability_id")
	}

	attachments, err := h.svc.List(c.Request().Context(), availabilityID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, attachments)
}

func (h *AttachmentHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid attachment id")
	}

	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, service.ErrAttachmentNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "attachment deleted"})
}

func (h *AttachmentHandler) Download(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid attachment id")
	}

	attachment, err := h.repo.FindByID(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "attachment not found")
	}

	return c.Attachment(h.svc.DiskPath(attachment), attachment.FileName)
}
