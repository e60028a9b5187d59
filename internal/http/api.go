package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"user-manager/internal/domain"
	"user-manager/internal/service"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users  service.UserService
	roles  service.RoleService
	logger logrus.FieldLogger
}

func NewHandler(users service.UserService, roles service.RoleService, logger logrus.FieldLogger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		users:  users,
		roles:  roles,
		logger: logger,
	}
}

// RegisterRoutes mounts the handler's routes. Middleware is installed by the
// caller, see Middleware.
func (h *Handler) RegisterRoutes(router gin.IRouter) {
	users := router.Group("/users")
	{
		users.POST("", h.createUser)
		users.GET("", h.listUsers)
		users.GET("/:id", h.getUser)
		users.PUT("/:id", h.updateUser)
		users.DELETE("/:id", h.deleteUser)
		users.POST("/:id/assign-role", h.assignRole)
	}

	roles := router.Group("/roles")
	{
		roles.POST("", h.createRole)
		roles.GET("", h.listRoles)
	}

	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

type createUserRequest struct {
	Username string          `json:"username" binding:"required,max=50"`
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required"`
	Role     domain.RoleList `json:"role"`
	Phone    []string        `json:"phone"`
	Status   string          `json:"status"`
}

type updateUserRequest struct {
	Username *string         `json:"username" binding:"omitempty,max=50"`
	Email    *string         `json:"email" binding:"omitempty,email"`
	Password *string         `json:"password"`
	Role     domain.RoleList `json:"role"`
	Phone    []string        `json:"phone"`
	Status   *string         `json:"status"`
}

type assignRoleRequest struct {
	Role domain.RoleList `json:"role" binding:"required"`
}

type createRoleRequest struct {
	Name        string `json:"name" binding:"required,max=50"`
	Description string `json:"description"`
}

func (h *Handler) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Create(c.Request.Context(), domain.CreateUserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Phone:    req.Phone,
		Status:   req.Status,
	})
	if err != nil {
		h.logError(c, "create user", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"statusCode": http.StatusCreated,
		"message":    "User created successfully",
		"user":       userToResponse(*user),
	})
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.logError(c, "list users", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]UserResponse, len(users))
	for i := range users {
		resp[i] = userToResponse(users[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getUser(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logError(c, "get user", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, userToResponse(*user))
}

func (h *Handler) updateUser(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Update(c.Request.Context(), id, domain.UserPatch{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Phone:    req.Phone,
		Status:   req.Status,
	})
	if err != nil {
		h.logError(c, "update user", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, userToResponse(*user))
}

func (h *Handler) deleteUser(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		h.logError(c, "delete user", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user: " + err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) assignRole(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	var req assignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.AssignRole(c.Request.Context(), id, req.Role)
	if err != nil {
		h.logError(c, "assign role", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign role: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, userToResponse(*user))
}

func (h *Handler) createRole(c *gin.Context) {
	var req createRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, err := h.roles.CreateRole(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRole):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		case errors.Is(err, domain.ErrRoleAlreadyExists):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.logError(c, "create role", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, roleToResponse(*role))
}

func (h *Handler) listRoles(c *gin.Context) {
	roles, err := h.roles.ListRoles(c.Request.Context())
	if err != nil {
		h.logError(c, "list roles", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]RoleResponse, len(roles))
	for i := range roles {
		resp[i] = roleToResponse(roles[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) logError(c *gin.Context, op string, err error) {
	h.logger.WithFields(logrus.Fields{
		"request_id": c.GetString(requestIDKey),
		"op":         op,
	}).WithError(err).Error("request failed")
}

func parseUserID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return 0, false
	}
	return id, true
}

type UserResponse struct {
	ID        int64    `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	Role      []string `json:"role"`
	Phone     []string `json:"phone"`
	Status    string   `json:"status"`
	CreatedAt string   `json:"createdAt"`
	UpdatedAt string   `json:"updatedAt"`
}

type RoleResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt"`
}

func userToResponse(user domain.User) UserResponse {
	resp := UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		Phone:     user.Phone,
		Status:    user.Status,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.Format(time.RFC3339),
	}
	if resp.Role == nil {
		resp.Role = []string{}
	}
	if resp.Phone == nil {
		resp.Phone = []string{}
	}
	return resp
}

func roleToResponse(role domain.Role) RoleResponse {
	return RoleResponse{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
		CreatedAt:   role.CreatedAt.Format(time.RFC3339),
	}
}
