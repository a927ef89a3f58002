package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appreport "github.com/marfund-ai-apps/vacations/internal/application/report"
	"github.com/marfund-ai-apps/vacations/internal/interfaces/http/dto"
	"github.com/marfund-ai-apps/vacations/internal/interfaces/http/middleware"
)

// ReportHandler handles yearly consumption report endpoints
type ReportHandler struct {
	BaseHandler
	service *appreport.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(service *appreport.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// MyReport handles GET /reports/employee-report
func (h *ReportHandler) MyReport(c *gin.Context) {
	year, ok := h.parseYear(c)
	if !ok {
		return
	}

	result, err := h.service.MyReport(c.Request.Context(), middleware.GetCurrentUser(c), year)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromEmployeeReport(result))
}

// EmployeeReport handles GET /reports/employee/:id
func (h *ReportHandler) EmployeeReport(c *gin.Context) {
	employeeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "Invalid employee ID")
		return
	}
	year, ok := h.parseYear(c)
	if !ok {
		return
	}

	result, err := h.service.EmployeeReportFor(c.Request.Context(), middleware.GetCurrentUser(c), employeeID, year)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromEmployeeReport(result))
}

// AllEmployees handles GET /reports/all
func (h *ReportHandler) AllEmployees(c *gin.Context) {
	year, ok := h.parseYear(c)
	if !ok {
		return
	}

	result, err := h.service.AllEmployeesReport(c.Request.Context(), middleware.GetCurrentUser(c), year)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// parseYear reads the year query parameter, defaulting to the current year.
func (h *ReportHandler) parseYear(c *gin.Context) (int, bool) {
	raw := c.Query("year")
	if raw == "" {
		return time.Now().Year(), true
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 2000 || year > 2100 {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "Invalid year")
		return 0, false
	}
	return year, true
}
