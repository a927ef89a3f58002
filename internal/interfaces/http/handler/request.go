package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appvacation "github.com/marfund-ai-apps/vacations/internal/application/vacation"
	"github.com/marfund-ai-apps/vacations/internal/domain/vacation"
	"github.com/marfund-ai-apps/vacations/internal/interfaces/http/dto"
	"github.com/marfund-ai-apps/vacations/internal/interfaces/http/middleware"
)

// RequestHandler handles absence request endpoints
type RequestHandler struct {
	BaseHandler
	service   *appvacation.RequestService
	portalURL string
}

// NewRequestHandler creates a new RequestHandler. portalURL is the front-end
// origin that token-link redirects land on.
func NewRequestHandler(service *appvacation.RequestService, portalURL string) *RequestHandler {
	return &RequestHandler{service: service, portalURL: portalURL}
}

// Create handles POST /requests
func (h *RequestHandler) Create(c *gin.Context) {
	var req dto.CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, err.Error())
		return
	}

	managerID, err := uuid.Parse(req.ManagerID)
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "Invalid manager ID")
		return
	}

	ranges := make([]appvacation.RangeInput, len(req.DateRanges))
	for i, r := range req.DateRanges {
		dateFrom, err := time.Parse(dto.DateLayout, r.DateFrom)
		if err != nil {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "Invalid date_from: "+r.DateFrom)
			return
		}
		dateTo, err := time.Parse(dto.DateLayout, r.DateTo)
		if err != nil {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "Invalid date_to: "+r.DateTo)
			return
		}
		ranges[i] = appvacation.RangeInput{
			DateFrom:     dateFrom,
			DateTo:       dateTo,
			BusinessDays: r.BusinessDays,
		}
	}

	detail, err := h.service.Create(c.Request.Context(), middleware.GetCurrentUser(c), appvacation.CreateRequestInput{
		ManagerID:   managerID,
		RequestType: vacation.RequestType(req.RequestType),
		Reason:      req.Reason,
		Notes:       req.Notes,
		Ranges:      ranges,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, dto.FromRequestDetail(detail))
}

// List handles GET /requests. The scope query parameter narrows visibility
// to the caller's own requests ("me"), the requests awaiting the caller as
// approver ("team"), or everything ("all", admins only).
func (h *RequestHandler) List(c *gin.Context) {
	details, err := h.service.List(c.Request.Context(), middleware.GetCurrentUser(c), appvacation.ListScope(c.Query("scope")))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromRequestDetails(details))
}

// Get handles GET /requests/:id
func (h *RequestHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	detail, err := h.service.Get(c.Request.Context(), middleware.GetCurrentUser(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromRequestDetail(detail))
}

// History handles GET /requests/:id/history
func (h *RequestHandler) History(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	entries, err := h.service.History(c.Request.Context(), middleware.GetCurrentUser(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromHistoryEntries(entries))
}

// Decide handles PUT /requests/:id/decision
func (h *RequestHandler) Decide(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.DecideRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, err.Error())
		return
	}

	detail, err := h.service.Decide(c.Request.Context(), middleware.GetCurrentUser(c), appvacation.DecideRequestInput{
		RequestID: id,
		Decision:  vacation.Decision(req.Decision),
		Comments:  req.Comments,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromRequestDetail(detail))
}

// BusinessDays handles GET /requests/business-days
func (h *RequestHandler) BusinessDays(c *gin.Context) {
	var query dto.BusinessDaysQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, err.Error())
		return
	}

	dateFrom, _ := time.Parse(dto.DateLayout, query.DateFrom)
	dateTo, _ := time.Parse(dto.DateLayout, query.DateTo)

	h.Success(c, dto.BusinessDaysResponse{
		DateFrom:     query.DateFrom,
		DateTo:       query.DateTo,
		BusinessDays: vacation.BusinessDays(dateFrom, dateTo),
	})
}

// Token handles GET /requests/token/:token. Public: the token is the
// credential and the action query parameter selects approve or reject. The
// browser is redirected to a portal page for every outcome.
func (h *RequestHandler) Token(c *gin.Context) {
	action := vacation.TokenAction(c.Query("action"))
	result, err := h.service.Redeem(c.Request.Context(), c.Param("token"), action, c.Query("comments"))
	if err != nil {
		h.redirect(c, "/error")
		return
	}

	switch result.Outcome {
	case appvacation.RedeemConfirmed:
		h.redirect(c, fmt.Sprintf("/approval-confirmed?status=%s", url.QueryEscape(string(result.Status))))
	case appvacation.RedeemTokenExpired:
		h.redirect(c, "/token-expired")
	case appvacation.RedeemAlreadyProcessed:
		h.redirect(c, "/already-processed")
	default:
		h.redirect(c, "/error")
	}
}

func (h *RequestHandler) redirect(c *gin.Context, path string) {
	c.Redirect(http.StatusFound, h.portalURL+path)
}

func (h *RequestHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "Invalid request ID")
		return uuid.Nil, false
	}
	return id, true
}
