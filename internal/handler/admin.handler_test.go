package handler

import (
	"net/http"
	"testing"

	"github.com/campusconnect-nz/campus-api/internal/model"
	"github.com/campusconnect-nz/campus-api/internal/repository"
	"github.com/campusconnect-nz/campus-api/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdminRouter(stub *stubAdmin) *gin.Engine {
	h := NewAdminHandler(stub)
	r := gin.New()
	r.Use(as(admin("a1")))
	r.GET("/admin/users", h.ListUsers)
	r.PATCH("/admin/users/:id/role", validation.Body(RoleSchema), h.ChangeRole)
	return r
}

func TestListUsers_Paging(t *testing.T) {
	tests := []struct {
		query  string
		limit  int
		offset int
	}{
		{query: "", limit: 50, offset: 0},
		{query: "?limit=10&offset=20", limit: 10, offset: 20},
		{query: "?limit=1000", limit: 50, offset: 0},
		{query: "?limit=abc&offset=-5", limit: 50, offset: 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			stub := &stubAdmin{users: []model.User{{ID: "u1"}}}

			w := sendJSON(newAdminRouter(stub), http.MethodGet, "/admin/users"+tt.query, "")

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.limit, stub.gotLimit)
			assert.Equal(t, tt.offset, stub.gotOffset)
		})
	}
}

func TestChangeRole(t *testing.T) {
	stub := &stubAdmin{}
	r := newAdminRouter(stub)

	w := sendJSON(r, http.MethodPatch, "/admin/users/u1/role", `{"role":"admin"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.RoleAdmin, stub.changedRole)

	bad := sendJSON(r, http.MethodPatch, "/admin/users/u1/role", `{"role":"superuser"}`)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
	body := decode(t, bad)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "role must be one of: student, admin", body.Errors[0].Message)
}

func TestChangeRole_UnknownUser(t *testing.T) {
	r := newAdminRouter(&stubAdmin{err: repository.ErrNotFound})

	w := sendJSON(r, http.MethodPatch, "/admin/users/ghost/role", `{"role":"student"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", decode(t, w).Message)
}
