package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/tourops/daily-list-service/internal/dto"
	"github.com/tourops/daily-list-service/internal/models"
	"github.com/tourops/daily-list-service/internal/repository"
	"github.com/tourops/daily-list-service/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type DailyListHandler struct {
	svc              service.DailyListService
	activityRepo     repository.ActivityRepository
	staffRepo        repository.StaffRepository
	serviceGroupRepo repository.ServiceGroupRepository
}

func NewDailyListHandler(
	svc service.DailyListService,
	activityRepo repository.ActivityRepository,
	staffRepo repository.StaffRepository,
	serviceGroupRepo repository.ServiceGroupRepository,
) *DailyListHandler {
	return &DailyListHandler{
		svc:              svc,
		activityRepo:     activityRepo,
		staffRepo:        staffRepo,
		serviceGroupRepo: serviceGroupRepo,
	}
}

func (h *DailyListHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/daily-list", h.GetDailyList)
	e.GET("/api/daily-list/export", h.ExportSlot)
	e.GET("/api/activities", h.ListActivities)
	e.GET("/api/assignments/availability/list", h.ListAssignments)
	e.GET("/api/costs/service-groups", h.ListServiceGroups)
}

func (h *DailyListHandler) GetDailyList(c echo.Context) error {
	date := c.QueryParam("date")
	if date == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "date is required")
	}

	activityIDs, err := parseIDList(c.QueryParam("activity_ids"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid activity_ids")
	}

	result, err := h.svc.GetDailyList(c.Request().Context(), date, activityIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, result)
}

func (h *DailyListHandler) ExportSlot(c echo.Context) error {
	availabilityID, err := strconv.ParseInt(c.QueryParam("availability_id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid availability_id")
	}

	buf, fileName, err := h.svc.ExportSlot(c.Request().Context(), availabilityID)
	if err != nil {
		if errors.Is(err, service.ErrAvailabilityNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, fileName))
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *DailyListHandler) ListActivities(c echo.Context) error {
	activities, err := h.activityRepo.FindAll(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, activities)
}

func (h *DailyListHandler) ListAssignments(c echo.Context) error {
	availabilityIDs, err := parseIDList(c.QueryParam("availability_ids"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid availability_ids")
	}
	if len(availabilityIDs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "availability_ids is required")
	}

	ctx := c.Request().Context()
	assignments, err := h.staffRepo.FindAssignmentsByAvailabilityIDs(ctx, availabilityIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	staff := map[int64]*service.StaffAssignment{}
	for _, a := range assignments {
		sa, ok := staff[a.ActivityAvailabilityID]
		if !ok {
			sa = &service.StaffAssignment{ActivityAvailabilityID: a.ActivityAvailabilityID}
			staff[a.ActivityAvailabilityID] = sa
		}
		if a.Guide == nil {
			continue
		}
		person := service.Person{
			ID:        a.Guide.ID,
			FirstName: a.Guide.FirstName,
			LastName:  a.Guide.LastName,
			Email:     a.Guide.Email,
			Phone:     a.Guide.Phone,
		}
		switch a.Role {
		case models.RoleGuide:
			sa.Guides = append(sa.Guides, person)
		case models.RoleEscort:
			sa.Escorts = append(sa.Escorts, person)
		case models.RoleHeadphone:
			sa.Headphones = append(sa.Headphones, person)
		case models.RolePrinting:
			sa.Printing = append(sa.Printing, person)
		}
	}

	return c.JSON(http.StatusOK, map[string]any{"data": dto.ToAssignmentListResponse(staff)})
}

func (h *DailyListHandler) ListServiceGroups(c echo.Context) error {
	date := c.QueryParam("service_date")
	if date == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "service_date is required")
	}

	groups, err := h.serviceGroupRepo.FindByDate(c.Request().Context(), date)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, groups)
}

// parseIDList parses a comma-separated id list; empty means no filter.
func parseIDList(raw string) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
