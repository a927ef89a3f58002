package dto

import (
	appreport "github.com/marfund-ai-apps/vacations/internal/application/report"
	"github.com/marfund-ai-apps/vacations/internal/domain/report"
	"github.com/shopspring/decimal"
)

// EmployeeReportResponse renders one employee's yearly balance together with
// the year's requests, newest first.
type EmployeeReportResponse struct {
	UserID           string               `json:"user_id"`
	FullName         string               `json:"full_name"`
	Year             int                  `json:"year"`
	BaseVacationDays decimal.Decimal      `json:"base_vacation_days"`
	UsedDays         decimal.Decimal      `json:"used_days"`
	AvailableDays    decimal.Decimal      `json:"available_days"`
	ByType           []report.TypeSummary `json:"by_type"`
	Requests         []RequestResponse    `json:"requests"`
}

// FromEmployeeReport maps a computed report to its wire representation
func FromEmployeeReport(r *appreport.EmployeeReport) EmployeeReportResponse {
	return EmployeeReportResponse{
		UserID:           r.UserID.String(),
		FullName:         r.FullName,
		Year:             r.Year,
		BaseVacationDays: r.BaseVacationDays,
		UsedDays:         r.UsedDays,
		AvailableDays:    r.AvailableDays,
		ByType:           r.ByType,
		Requests:         FromRequestDetails(r.Requests),
	}
}
