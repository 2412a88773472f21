package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/tourops/daily-list-service/internal/dto"
	"github.com/tourops/daily-list-service/internal/service"
)

type SplitHandler struct {
	svc service.SplitService
}

func NewSplitHandler(svc service.SplitService) *SplitHandler {
	return &SplitHandler{svc: svc}
}

func (h *SplitHandler) RegisterRoutes(e *echo.Echo) {
	splits := e.Group("/api/time-slot-splits")
	splits.GET("", h.GetState)
	splits.POST("", h.CreateSplit)
	splits.PUT("/:id", h.RenameSplit)
	splits.PUT("/:id/guide", h.AssignGuide)
	splits.DELETE("/:id", h.DeleteSplit)
	splits.POST("/assign-bookings", h.AssignBookings)
	splits.POST("/assign-vouchers", h.AssignVouchers)
	splits.POST("/remove-bookings", h.RemoveBookings)
	splits.POST("/remove-vouchers", h.RemoveVouchers)
}

func (h *SplitHandler) GetState(c echo.Context) error {
	availabilityID, err := strconv.ParseInt(c.QueryParam("availability_id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid availability_id")
	}

	state, err := h.svc.GetState(c.Request().Context(), availabilityID)
	if err != nil {
		return splitError(err)
	}
	return c.JSON(http.StatusOK, state)
}

func (h *SplitHandler) CreateSplit(c echo.Context) error {
	var req dto.CreateSplitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.ActivityAvailabilityID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "activity_availability_id is required")
	}
	if req.SplitName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "split_name is required")
	}

	split, err := h.svc.CreateSplit(c.Request().Context(), req.ActivityAvailabilityID, req.SplitName)
	if err != nil {
		return splitError(err)
	}
	return c.JSON(http.StatusCreated, split)
}

func (h *SplitHandler) RenameSplit(c echo.Context) error {
	splitID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid split id")
	}

	var req dto.RenameSplitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.SplitName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "split_name is required")
	}

	if err := h.svc.RenameSplit(c.Request().Context(), splitID, req.SplitName); err != nil {
		return splitError(err)
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "split updated"})
}

func (h *SplitHandler) AssignGuide(c echo.Context) error {
	splitID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid split id")
	}

	var req dto.AssignGuideRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.svc.AssignGuide(c.Request().Context(), splitID, req.GuideID); err != nil {
		return splitError(err)
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "guide updated"})
}

func (h *SplitHandler) DeleteSplit(c echo.Context) error {
	splitID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid split id")
	}

	if err := h.svc.DeleteSplit(c.Request().Context(), splitID); err != nil {
		return splitError(err)
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "split deleted"})
}

func (h *SplitHandler) AssignBookings(c echo.Context) error {
	var req dto.AssignBookingsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.SplitID == 0 || len(req.ActivityBookingIDs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "split_id and activity_booking_ids are required")
	}

	if err := h.svc.AssignBookings(c.Request().Context(), req.SplitID, req.ActivityBookingIDs); err != nil {
		return splitError(err)
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "bookings assigned"})
}

func (h *SplitHandler) AssignVouchers(c echo.Context) error {
	var req dto.AssignVouchersRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.SplitID == 0 || len(req.VoucherIDs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "split_id and voucher_ids are required")
	}

	if err := h.svc.AssignVouchers(c.Request().Context(), req.SplitID, req.VoucherIDs); err != nil {
		return splitError(err)
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "vouchers assigned"})
}

func (h *SplitHandler) RemoveBookings(c echo.Context) error {
	var req dto.RemoveBookingsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(req.ActivityBookingIDs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "activity_booking_ids is required")
	}

	if err := h.svc.RemoveBookings(c.Request().Context(), req.ActivityAvailabilityID, req.ActivityBookingIDs); err != nil {
		return splitError(err)
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "bookings removed"})
}

func (h *SplitHandler) RemoveVouchers(c echo.Context) error {
	var req dto.RemoveVouchersRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(req.VoucherIDs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "voucher_ids is required")
	}

	if err := h.svc.RemoveVouchers(c.Request().Context(), req.ActivityAvailabilityID, req.VoucherIDs); err != nil {
		return splitError(err)
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "vouchers removed"})
}

func splitError(err error) error {
	switch {
	case errors.Is(err, service.ErrSplitNotFound),
		errors.Is(err, service.ErrAvailabilityNotFound),
		errors.Is(err, service.ErrGuideNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrBookingNotInSlot),
		errors.Is(err, service.ErrVoucherNotInSlot):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
