package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appidentity "github.com/marfund-ai-apps/vacations/internal/application/identity"
	"github.com/marfund-ai-apps/vacations/internal/domain/identity"
	"github.com/marfund-ai-apps/vacations/internal/interfaces/http/dto"
	"github.com/marfund-ai-apps/vacations/internal/interfaces/http/middleware"
)

// UserHandler handles HR directory endpoints
type UserHandler struct {
	BaseHandler
	service *appidentity.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(service *appidentity.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Managers handles GET /users/managers. Available to every authenticated
// user: employees need the list to pick an approver.
func (h *UserHandler) Managers(c *gin.Context) {
	managers, err := h.service.Managers(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromUsers(managers))
}

// List handles GET /users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromUsers(users))
}

// ListInactive handles GET /users/inactive
func (h *UserHandler) ListInactive(c *gin.Context) {
	users, err := h.service.ListInactive(c.Request.Context(), middleware.GetCurrentUser(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromUsers(users))
}

// Get handles GET /users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	user, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromUser(user))
}

// Create handles POST /users
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, err.Error())
		return
	}

	input := appidentity.CreateUserInput{
		Email:            req.Email,
		FullName:         req.FullName,
		EmployeeNumber:   req.EmployeeNumber,
		Position:         req.Position,
		Role:             identity.Role(req.Role),
		BaseVacationDays: req.BaseVacationDays,
	}
	if req.ManagerID != nil {
		managerID, err := uuid.Parse(*req.ManagerID)
		if err != nil {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "Invalid manager ID")
			return
		}
		input.ManagerID = &managerID
	}

	user, err := h.service.Create(c.Request.Context(), middleware.GetCurrentUser(c), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.FromUser(user))
}

// Update handles PUT /users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, err.Error())
		return
	}

	input := appidentity.UpdateUserInput{
		FullName:         req.FullName,
		EmployeeNumber:   req.EmployeeNumber,
		Position:         req.Position,
		ClearManager:     req.ClearManager,
		BaseVacationDays: req.BaseVacationDays,
	}
	if req.Role != nil {
		role := identity.Role(*req.Role)
		input.Role = &role
	}
	if req.ManagerID != nil {
		managerID, err := uuid.Parse(*req.ManagerID)
		if err != nil {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "Invalid manager ID")
			return
		}
		input.ManagerID = &managerID
	}

	user, err := h.service.Update(c.Request.Context(), middleware.GetCurrentUser(c), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromUser(user))
}

// Deactivate handles PUT /users/:id/deactivate
func (h *UserHandler) Deactivate(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), middleware.GetCurrentUser(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Activate handles PUT /users/:id/activate
func (h *UserHandler) Activate(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.service.Activate(c.Request.Context(), middleware.GetCurrentUser(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *UserHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "Invalid user ID")
		return uuid.Nil, false
	}
	return id, true
}
