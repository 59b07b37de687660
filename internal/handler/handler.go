package handler

import (
	"net/http"

	"github.com/campusconnect-nz/campus-api/internal/constant"
	"github.com/campusconnect-nz/campus-api/internal/middleware"
	"github.com/campusconnect-nz/campus-api/internal/model"
	"github.com/campusconnect-nz/campus-api/internal/model/response"
	"github.com/campusconnect-nz/campus-api/internal/validation"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func fail(c *gin.Context, status int, body response.ResponseData) {
	c.AbortWithStatusJSON(status, body)
}

// internalError logs the cause and answers with a generic 500.
func internalError(c *gin.Context, err error) {
	zap.L().Error("Request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err))
	c.AbortWithStatusJSON(http.StatusInternalServerError, constant.INTERNAL_SERVER_ERROR)
}

func bind(c *gin.Context, dst any) bool {
	if err := validation.Bind(c, dst); err != nil {
		internalError(c, err)
		return false
	}
	return true
}

// claims returns the identity attached by the auth gate. Routes mounted
// without a gate get a 401.
func claims(c *gin.Context) (model.Claims, bool) {
	cl, ok := middleware.ClaimsFrom(c)
	if !ok {
		fail(c, http.StatusUnauthorized, constant.ACCESS_TOKEN_REQUIRED)
		return model.Claims{}, false
	}
	return cl, true
}

// canModify reports whether the caller owns the resource or is an admin.
func canModify(cl model.Claims, ownerID string) bool {
	return cl.IsAdmin() || cl.UserID == ownerID
}
