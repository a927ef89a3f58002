package dto

import (
	"time"

	"github.com/marfund-ai-apps/vacations/internal/domain/vacation"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

// DateRangeRequest is one requested date span. BusinessDays carries the
// client's count for server-side revalidation.
type DateRangeRequest struct {
	DateFrom     string          `json:"date_from" binding:"required,datetime=2006-01-02"`
	DateTo       string          `json:"date_to" binding:"required,datetime=2006-01-02"`
	BusinessDays decimal.Decimal `json:"business_days" binding:"required"`
}

// CreateRequestRequest is the body for submitting an absence request
type CreateRequestRequest struct {
	ManagerID   string             `json:"manager_id" binding:"required,uuid"`
	RequestType string             `json:"request_type" binding:"required,oneof=vacation permission justified_absence"`
	Reason      string             `json:"reason" binding:"required,max=500"`
	Notes       string             `json:"notes" binding:"max=1000"`
	DateRanges  []DateRangeRequest `json:"date_ranges" binding:"required,min=1,dive"`
}

// DecideRequestRequest is the body for an in-app decision
type DecideRequestRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approved rejected"`
	Comments string `json:"comments" binding:"max=1000"`
}

// BusinessDaysQuery are the query parameters of the calculator endpoint
type BusinessDaysQuery struct {
	DateFrom string `form:"date_from" binding:"required,datetime=2006-01-02"`
	DateTo   string `form:"date_to" binding:"required,datetime=2006-01-02"`
}

// BusinessDaysResponse is the calculator result
type BusinessDaysResponse struct {
	DateFrom     string `json:"date_from"`
	DateTo       string `json:"date_to"`
	BusinessDays int    `json:"business_days"`
}

// DateRangeResponse renders one date span
type DateRangeResponse struct {
	ID           string          `json:"id"`
	DateFrom     string          `json:"date_from"`
	DateTo       string          `json:"date_to"`
	BusinessDays decimal.Decimal `json:"business_days"`
}

// RequestResponse renders a request with its directory fields
type RequestResponse struct {
	ID                  string              `json:"id"`
	RequestNumber       string              `json:"request_number"`
	EmployeeID          string              `json:"employee_id"`
	EmployeeName        string              `json:"employee_name"`
	EmployeeEmail       string              `json:"employee_email"`
	EmployeePosition    string              `json:"employee_position,omitempty"`
	EmployeeNumber      string              `json:"employee_number,omitempty"`
	ManagerID           string              `json:"manager_id"`
	ManagerName         string              `json:"manager_name"`
	ManagerEmail        string              `json:"manager_email"`
	RequestType         string              `json:"request_type"`
	Reason              string              `json:"reason"`
	Notes               string              `json:"notes,omitempty"`
	Status              string              `json:"status"`
	ManagerComments     string              `json:"manager_comments,omitempty"`
	ManagerDecisionDate *time.Time          `json:"manager_decision_date,omitempty"`
	TotalDays           decimal.Decimal     `json:"total_days"`
	DateRanges          []DateRangeResponse `json:"date_ranges"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

// FromRequestDetail maps the read model to its wire representation
func FromRequestDetail(detail *vacation.RequestDetail) RequestResponse {
	ranges := make([]DateRangeResponse, len(detail.Ranges))
	for i, r := range detail.Ranges {
		ranges[i] = DateRangeResponse{
			ID:           r.ID.String(),
			DateFrom:     r.DateFrom.Format(DateLayout),
			DateTo:       r.DateTo.Format(DateLayout),
			BusinessDays: r.BusinessDays,
		}
	}

	return RequestResponse{
		ID:                  detail.ID.String(),
		RequestNumber:       detail.RequestNumber,
		EmployeeID:          detail.EmployeeID.String(),
		EmployeeName:        detail.EmployeeName,
		EmployeeEmail:       detail.EmployeeEmail,
		EmployeePosition:    detail.EmployeePosition,
		EmployeeNumber:      detail.EmployeeNumber,
		ManagerID:           detail.ManagerID.String(),
		ManagerName:         detail.ManagerName,
		ManagerEmail:        detail.ManagerEmail,
		RequestType:         string(detail.RequestType),
		Reason:              detail.Reason,
		Notes:               detail.Notes,
		Status:              string(detail.Status),
		ManagerComments:     detail.ManagerComments,
		ManagerDecisionDate: detail.ManagerDecisionDate,
		TotalDays:           detail.TotalDays(),
		DateRanges:          ranges,
		CreatedAt:           detail.CreatedAt,
		UpdatedAt:           detail.UpdatedAt,
	}
}

// FromRequestDetails maps a list of read models
func FromRequestDetails(details []*vacation.RequestDetail) []RequestResponse {
	responses := make([]RequestResponse, len(details))
	for i, d := range details {
		responses[i] = FromRequestDetail(d)
	}
	return responses
}

// HistoryEntryResponse renders one audit row
type HistoryEntryResponse struct {
	ID          string    `json:"id"`
	Action      string    `json:"action"`
	PerformedBy string    `json:"performed_by"`
	Details     string    `json:"details,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// FromHistoryEntries maps the audit trail to its wire representation
func FromHistoryEntries(entries []*vacation.HistoryEntry) []HistoryEntryResponse {
	responses := make([]HistoryEntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = HistoryEntryResponse{
			ID:          e.ID.String(),
			Action:      string(e.Action),
			PerformedBy: e.PerformedBy.String(),
			Details:     e.Details,
			CreatedAt:   e.CreatedAt,
		}
	}
	return responses
}
