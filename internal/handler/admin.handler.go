package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/campusconnect-nz/campus-api/internal/constant"
	"github.com/campusconnect-nz/campus-api/internal/model"
	"github.com/campusconnect-nz/campus-api/internal/model/response"
	"github.com/campusconnect-nz/campus-api/internal/repository"
	"github.com/campusconnect-nz/campus-api/internal/validation"
	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

type UserAdmin interface {
	ListUsers(ctx context.Context, limit, offset int) ([]model.User, error)
	ChangeRole(ctx context.Context, userID string, role model.Role) (model.User, error)
}

var RoleSchema = validation.Schema{
	"role": {Required: true, OneOf: []string{string(model.RoleStudent), string(model.RoleAdmin)}},
}

type roleRequest struct {
	Role model.Role `json:"role"`
}

type AdminHandler struct {
	users UserAdmin
}

func NewAdminHandler(users UserAdmin) *AdminHandler {
	return &AdminHandler{users: users}
}

// ListUsers godoc
//
//	@Summary	List accounts
//	@Tags		Admin
//	@Produce	json
//	@Security	BearerAuth
//	@Param		limit	query		int	false	"Page size"
//	@Param		offset	query		int	false	"Offset"
//	@Success	200		{object}	response.ResponseData
//	@Router		/admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	limit := queryInt(c, "limit", defaultPageSize)
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}
	offset := max(queryInt(c, "offset", 0), 0)

	users, err := h.users.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK("", users))
}

// ChangeRole godoc
//
//	@Summary	Change a user's role
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string		true	"User ID"
//	@Param		body	body		roleRequest	true	"Role"
//	@Success	200		{object}	response.ResponseData
//	@Failure	404		{object}	response.ResponseData
//	@Router		/admin/users/{id}/role [patch]
func (h *AdminHandler) ChangeRole(c *gin.Context) {
	var req roleRequest
	if !bind(c, &req) {
		return
	}

	user, err := h.users.ChangeRole(c.Request.Context(), c.Param("id"), req.Role)
	if errors.Is(err, repository.ErrNotFound) {
		fail(c, http.StatusNotFound, constant.USER_NOT_FOUND)
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK("Role updated", user))
}

func queryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
