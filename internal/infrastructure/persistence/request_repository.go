package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/marfund-ai-apps/vacations/internal/domain/shared"
	"github.com/marfund-ai-apps/vacations/internal/domain/vacation"
	"github.com/marfund-ai-apps/vacations/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// errDecisionLost signals inside a transaction that the pending guard
// matched no row, forcing a rollback.
var errDecisionLost = errors.New("request no longer pending")

// GormRequestRepository implements vacation.RequestRepository using GORM
type GormRequestRepository struct {
	db *gorm.DB
}

// NewGormRequestRepository creates a new GormRequestRepository
func NewGormRequestRepository(db *gorm.DB) *GormRequestRepository {
	return &GormRequestRepository{db: db}
}

// yearBounds returns the half-open [start, end) created_at bounds of a year.
func yearBounds(year int) (time.Time, time.Time) {
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(1, 0, 0)
}

// Create persists the request, its ranges, both tokens and the initial
// history entry as one transaction. The per-year sequence is allocated
// inside the transaction from the count of requests created this year.
func (r *GormRequestRepository) Create(ctx context.Context, req *vacation.VacationRequest, tokens []*vacation.ApprovalToken, history *vacation.HistoryEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		year := req.CreatedAt.Year()
		start, end := yearBounds(year)

		var count int64
		if err := tx.Model(&models.VacationRequestModel{}).
			Where("created_at >= ? AND created_at < ?", start, end).
			Count(&count).Error; err != nil {
			return err
		}
		req.RequestNumber = vacation.FormatRequestNumber(year, int(count)+1)

		model := models.VacationRequestModelFromDomain(req)
		if err := tx.Create(model).Error; err != nil {
			return err
		}

		for _, token := range tokens {
			if err := tx.Create(models.ApprovalTokenModelFromDomain(token)).Error; err != nil {
				return err
			}
		}

		return tx.Create(models.RequestHistoryModelFromDomain(history)).Error
	})
}

// ListByEmployee returns all requests submitted by the given employee,
// newest first.
func (r *GormRequestRepository) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]*vacation.RequestDetail, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("employee_id = ?", employeeID))
}

// ListByManager returns all requests awaiting or decided by the given manager,
// newest first.
func (r *GormRequestRepository) ListByManager(ctx context.Context, managerID uuid.UUID) ([]*vacation.RequestDetail, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("manager_id = ?", managerID))
}

// ListAll returns every request, newest first.
func (r *GormRequestRepository) ListAll(ctx context.Context) ([]*vacation.RequestDetail, error) {
	return r.list(ctx, r.db.WithContext(ctx))
}

func (r *GormRequestRepository) list(ctx context.Context, query *gorm.DB) ([]*vacation.RequestDetail, error) {
	var requestModels []models.VacationRequestModel
	if err := query.
		Preload("Ranges").
		Order("created_at DESC").
		Find(&requestModels).Error; err != nil {
		return nil, err
	}
	return joinRequestDetails(ctx, r.db, requestModels)
}

// FindDetailByID returns one request with directory fields joined in.
func (r *GormRequestRepository) FindDetailByID(ctx context.Context, id uuid.UUID) (*vacation.RequestDetail, error) {
	var model models.VacationRequestModel
	if err := r.db.WithContext(ctx).
		Preload("Ranges").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	details, err := joinRequestDetails(ctx, r.db, []models.VacationRequestModel{model})
	if err != nil {
		return nil, err
	}
	return details[0], nil
}

// joinRequestDetails joins employee and manager directory fields onto request
// rows. Directory fields are read live, not snapshotted at decision time.
// Shared with the report repository, which serves the same detail shape.
func joinRequestDetails(ctx context.Context, db *gorm.DB, requestModels []models.VacationRequestModel) ([]*vacation.RequestDetail, error) {
	if len(requestModels) == 0 {
		return []*vacation.RequestDetail{}, nil
	}

	userIDs := make([]uuid.UUID, 0, len(requestModels)*2)
	seen := make(map[uuid.UUID]bool)
	for _, m := range requestModels {
		for _, id := range []uuid.UUID{m.EmployeeID, m.ManagerID} {
			if !seen[id] {
				seen[id] = true
				userIDs = append(userIDs, id)
			}
		}
	}

	var userModels []models.UserModel
	if err := db.WithContext(ctx).
		Where("id IN ?", userIDs).
		Find(&userModels).Error; err != nil {
		return nil, err
	}
	usersByID := make(map[uuid.UUID]models.UserModel, len(userModels))
	for _, u := range userModels {
		usersByID[u.ID] = u
	}

	details := make([]*vacation.RequestDetail, len(requestModels))
	for i, m := range requestModels {
		detail := &vacation.RequestDetail{VacationRequest: *m.ToDomain()}
		if emp, ok := usersByID[m.EmployeeID]; ok {
			detail.EmployeeName = emp.FullName
			detail.EmployeeEmail = emp.Email
			detail.EmployeePosition = emp.Position
			detail.EmployeeNumber = emp.EmployeeNumber
		}
		if mgr, ok := usersByID[m.ManagerID]; ok {
			detail.ManagerName = mgr.FullName
			detail.ManagerEmail = mgr.Email
		}
		details[i] = detail
	}
	return details, nil
}

// Decide applies a decision to a pending request. The update is guarded on
// status = pending (and manager_id when constrained); returns false without
// side effects when no pending row matched.
func (r *GormRequestRepository) Decide(ctx context.Context, input vacation.DecideInput) (bool, error) {
	matched := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := applyDecision(tx, input)
		if err != nil {
			return err
		}
		matched = ok
		if !ok {
			return errDecisionLost
		}
		return nil
	})
	if errors.Is(err, errDecisionLost) {
		return false, nil
	}
	return matched, err
}

// applyDecision runs the guarded status update and appends the history row.
// Returns false when the guard matched no row; the caller must roll back.
func applyDecision(tx *gorm.DB, input vacation.DecideInput) (bool, error) {
	query := tx.Model(&models.VacationRequestModel{}).
		Where("id = ? AND status = ?", input.RequestID, string(vacation.StatusPending))
	if input.ManagerID != nil {
		query = query.Where("manager_id = ?", *input.ManagerID)
	}

	result := query.Updates(map[string]any{
		"status":                string(input.Decision.Status()),
		"manager_comments":      input.Comments,
		"manager_decision_date": input.DecidedAt,
		"updated_at":            input.DecidedAt,
	})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}

	action := vacation.HistoryApproved
	if input.Decision == vacation.DecisionRejected {
		action = vacation.HistoryRejected
	}
	history := vacation.NewHistoryEntry(input.RequestID, input.PerformedBy, action, input.Comments)
	return true, tx.Create(models.RequestHistoryModelFromDomain(history)).Error
}

// FindRedeemableToken returns the unexpired, unused token matching the given
// value together with the parent request's current status.
func (r *GormRequestRepository) FindRedeemableToken(ctx context.Context, token string, now time.Time) (*vacation.ApprovalToken, vacation.RequestStatus, error) {
	var tokenModel models.ApprovalTokenModel
	if err := r.db.WithContext(ctx).
		Where("token = ? AND used_at IS NULL AND expires_at > ?", token, now).
		First(&tokenModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", shared.ErrNotFound
		}
		return nil, "", err
	}

	var status string
	if err := r.db.WithContext(ctx).
		Model(&models.VacationRequestModel{}).
		Select("status").
		Where("id = ?", tokenModel.RequestID).
		Scan(&status).Error; err != nil {
		return nil, "", err
	}

	return tokenModel.ToDomain(), vacation.RequestStatus(status), nil
}

// RedeemToken marks the token used and applies its decision in one
// transaction. When the pending guard loses the race the transaction rolls
// back, leaving the token unused, and false is returned.
func (r *GormRequestRepository) RedeemToken(ctx context.Context, tokenID uuid.UUID, input vacation.DecideInput) (bool, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.ApprovalTokenModel{}).
			Where("id = ? AND used_at IS NULL", tokenID).
			Updates(map[string]any{
				"used_at": input.DecidedAt,
				"action":  string(input.Decision),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errDecisionLost
		}

		ok, err := applyDecision(tx, input)
		if err != nil {
			return err
		}
		if !ok {
			return errDecisionLost
		}
		return nil
	})
	if errors.Is(err, errDecisionLost) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// FindHistory returns the audit trail of a request, oldest first.
func (r *GormRequestRepository) FindHistory(ctx context.Context, requestID uuid.UUID) ([]*vacation.HistoryEntry, error) {
	var historyModels []models.RequestHistoryModel
	if err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("created_at ASC").
		Find(&historyModels).Error; err != nil {
		return nil, err
	}

	entries := make([]*vacation.HistoryEntry, len(historyModels))
	for i := range historyModels {
		entries[i] = historyModels[i].ToDomain()
	}
	return entries, nil
}

// Ensure GormRequestRepository implements vacation.RequestRepository
var _ vacation.RequestRepository = (*GormRequestRepository)(nil)
