package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/marfund-ai-apps/vacations/internal/domain/vacation"
	"github.com/shopspring/decimal"
)

// VacationRequestModel maps the request aggregate root to vacation_requests
type VacationRequestModel struct {
	BaseModel
	RequestNumber       string     `gorm:"size:20;not null;uniqueIndex"`
	EmployeeID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	ManagerID           uuid.UUID  `gorm:"type:uuid;not null;index"`
	RequestType         string     `gorm:"size:30;not null"`
	Reason              string     `gorm:"size:500;not null"`
	Notes               string     `gorm:"size:1000"`
	Status              string     `gorm:"size:20;not null;default:pending;index"`
	ManagerComments     string     `gorm:"size:1000"`
	ManagerDecisionDate *time.Time `gorm:""`

	Ranges []RequestDateRangeModel `gorm:"foreignKey:RequestID"`
}

// TableName specifies the table name
func (VacationRequestModel) TableName() string {
	return "vacation_requests"
}

// RequestDateRangeModel maps one date span to request_date_ranges
type RequestDateRangeModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	RequestID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	DateFrom     time.Time       `gorm:"not null"`
	DateTo       time.Time       `gorm:"not null"`
	BusinessDays decimal.Decimal `gorm:"type:decimal(6,2);not null"`
}

// TableName specifies the table name
func (RequestDateRangeModel) TableName() string {
	return "request_date_ranges"
}

// ApprovalTokenModel maps single-use decision tokens to approval_tokens
type ApprovalTokenModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key"`
	RequestID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Token     string     `gorm:"size:64;not null;uniqueIndex"`
	ExpiresAt time.Time  `gorm:"not null"`
	UsedAt    *time.Time `gorm:""`
	Action    *string    `gorm:"size:20"`
	CreatedAt time.Time  `gorm:"not null"`
}

// TableName specifies the table name
func (ApprovalTokenModel) TableName() string {
	return "approval_tokens"
}

// RequestHistoryModel maps append-only audit rows to request_history
type RequestHistoryModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	RequestID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Action      string    `gorm:"size:30;not null"`
	PerformedBy uuid.UUID `gorm:"type:uuid;not null"`
	Details     string    `gorm:"size:1000"`
	CreatedAt   time.Time `gorm:"not null"`
}

// TableName specifies the table name
func (RequestHistoryModel) TableName() string {
	return "request_history"
}

// ToDomain converts VacationRequestModel to domain VacationRequest
func (m *VacationRequestModel) ToDomain() *vacation.VacationRequest {
	req := &vacation.VacationRequest{
		BaseEntity:          m.BaseModel.ToDomain(),
		RequestNumber:       m.RequestNumber,
		EmployeeID:          m.EmployeeID,
		ManagerID:           m.ManagerID,
		RequestType:         vacation.RequestType(m.RequestType),
		Reason:              m.Reason,
		Notes:               m.Notes,
		Status:              vacation.RequestStatus(m.Status),
		ManagerComments:     m.ManagerComments,
		ManagerDecisionDate: m.ManagerDecisionDate,
	}
	for _, r := range m.Ranges {
		req.Ranges = append(req.Ranges, *r.ToDomain())
	}
	return req
}

// VacationRequestModelFromDomain converts domain VacationRequest to its model
func VacationRequestModelFromDomain(req *vacation.VacationRequest) *VacationRequestModel {
	m := &VacationRequestModel{
		RequestNumber:       req.RequestNumber,
		EmployeeID:          req.EmployeeID,
		ManagerID:           req.ManagerID,
		RequestType:         string(req.RequestType),
		Reason:              req.Reason,
		Notes:               req.Notes,
		Status:              string(req.Status),
		ManagerComments:     req.ManagerComments,
		ManagerDecisionDate: req.ManagerDecisionDate,
	}
	m.FromDomainBaseEntity(req.BaseEntity)
	for _, r := range req.Ranges {
		m.Ranges = append(m.Ranges, *RequestDateRangeModelFromDomain(&r))
	}
	return m
}

// ToDomain converts RequestDateRangeModel to domain DateRange
func (m *RequestDateRangeModel) ToDomain() *vacation.DateRange {
	return &vacation.DateRange{
		ID:           m.ID,
		RequestID:    m.RequestID,
		DateFrom:     m.DateFrom,
		DateTo:       m.DateTo,
		BusinessDays: m.BusinessDays,
	}
}

// RequestDateRangeModelFromDomain converts domain DateRange to its model
func RequestDateRangeModelFromDomain(r *vacation.DateRange) *RequestDateRangeModel {
	return &RequestDateRangeModel{
		ID:           r.ID,
		RequestID:    r.RequestID,
		DateFrom:     r.DateFrom,
		DateTo:       r.DateTo,
		BusinessDays: r.BusinessDays,
	}
}

// ToDomain converts ApprovalTokenModel to domain ApprovalToken
func (m *ApprovalTokenModel) ToDomain() *vacation.ApprovalToken {
	t := &vacation.ApprovalToken{
		ID:        m.ID,
		RequestID: m.RequestID,
		Token:     m.Token,
		ExpiresAt: m.ExpiresAt,
		UsedAt:    m.UsedAt,
	}
	if m.Action != nil {
		action := vacation.Decision(*m.Action)
		t.Action = &action
	}
	return t
}

// ApprovalTokenModelFromDomain converts domain ApprovalToken to its model
func ApprovalTokenModelFromDomain(t *vacation.ApprovalToken) *ApprovalTokenModel {
	m := &ApprovalTokenModel{
		ID:        t.ID,
		RequestID: t.RequestID,
		Token:     t.Token,
		ExpiresAt: t.ExpiresAt,
		UsedAt:    t.UsedAt,
		CreatedAt: time.Now(),
	}
	if t.Action != nil {
		action := string(*t.Action)
		m.Action = &action
	}
	return m
}

// ToDomain converts RequestHistoryModel to domain HistoryEntry
func (m *RequestHistoryModel) ToDomain() *vacation.HistoryEntry {
	return &vacation.HistoryEntry{
		ID:          m.ID,
		RequestID:   m.RequestID,
		Action:      vacation.HistoryAction(m.Action),
		PerformedBy: m.PerformedBy,
		Details:     m.Details,
		CreatedAt:   m.CreatedAt,
	}
}

// RequestHistoryModelFromDomain converts domain HistoryEntry to its model
func RequestHistoryModelFromDomain(h *vacation.HistoryEntry) *RequestHistoryModel {
	return &RequestHistoryModel{
		ID:          h.ID,
		RequestID:   h.RequestID,
		Action:      string(h.Action),
		PerformedBy: h.PerformedBy,
		Details:     h.Details,
		CreatedAt:   h.CreatedAt,
	}
}

// AllModels returns every model for schema migration in tests
func AllModels() []any {
	return []any{
		&UserModel{},
		&VacationRequestModel{},
		&RequestDateRangeModel{},
		&ApprovalTokenModel{},
		&RequestHistoryModel{},
	}
}
