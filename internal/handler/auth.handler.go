package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/campusconnect-nz/campus-api/internal/constant"
	"github.com/campusconnect-nz/campus-api/internal/model"
	"github.com/campusconnect-nz/campus-api/internal/model/response"
	"github.com/campusconnect-nz/campus-api/internal/repository"
	"github.com/campusconnect-nz/campus-api/internal/service"
	"github.com/campusconnect-nz/campus-api/internal/validation"
	"github.com/gin-gonic/gin"
)

type AuthUseCase interface {
	Signup(ctx context.Context, name, email, password string) (service.Session, error)
	Login(ctx context.Context, email, password string) (service.Session, error)
	VerifyEmail(ctx context.Context, token string) (service.Session, error)
	ResendVerification(ctx context.Context, userID string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
	Me(ctx context.Context, userID string) (model.User, error)
	UpdateProfile(ctx context.Context, userID, name string) (model.User, error)
}

// bcrypt rejects passwords longer than this many bytes.
const maxPasswordBytes = 72

var (
	SignupSchema = validation.Schema{
		"name":     {Required: true, Min: validation.Limit(2), Max: validation.Limit(100)},
		"email":    {Required: true, Format: "email"},
		"password": {Required: true, Min: validation.Limit(6), Max: validation.Limit(72), MaxBytes: maxPasswordBytes},
	}
	LoginSchema = validation.Schema{
		"email":    {Required: true, Format: "email"},
		"password": {Required: true},
	}
	VerifyEmailSchema = validation.Schema{
		"token": {Required: true},
	}
	ForgotPasswordSchema = validation.Schema{
		"email": {Required: true, Format: "email"},
	}
	ResetPasswordSchema = validation.Schema{
		"token":    {Required: true},
		"password": {Required: true, Min: validation.Limit(6), Max: validation.Limit(72), MaxBytes: maxPasswordBytes},
	}
	ProfileSchema = validation.Schema{
		"name": {Required: true, Min: validation.Limit(2), Max: validation.Limit(100)},
	}
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type profileRequest struct {
	Name string `json:"name"`
}

type AuthHandler struct {
	auth AuthUseCase
}

func NewAuthHandler(auth AuthUseCase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Signup godoc
//
//	@Summary	Create an account
//	@Tags		Auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		signupRequest	true	"Signup payload"
//	@Success	201		{object}	response.ResponseData
//	@Failure	400		{object}	response.ResponseData
//	@Failure	409		{object}	response.ResponseData
//	@Router		/auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if !bind(c, &req) {
		return
	}

	session, err := h.auth.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.OK("Account created. Check your email to verify your address.", session))
}

// Login godoc
//
//	@Summary	Log in with email and password
//	@Tags		Auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		loginRequest	true	"Credentials"
//	@Success	200		{object}	response.ResponseData
//	@Failure	401		{object}	response.ResponseData
//	@Router		/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bind(c, &req) {
		return
	}

	session, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK("Logged in", session))
}

// VerifyEmail godoc
//
//	@Summary	Confirm an email address
//	@Tags		Auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		tokenRequest	true	"Verification token"
//	@Success	200		{object}	response.ResponseData
//	@Failure	400		{object}	response.ResponseData
//	@Router		/auth/verify-email [post]
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req tokenRequest
	if !bind(c, &req) {
		return
	}

	session, err := h.auth.VerifyEmail(c.Request.Context(), req.Token)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK("Email verified", session))
}

// ResendVerification godoc
//
//	@Summary	Send a new verification link
//	@Tags		Auth
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	response.ResponseData
//	@Failure	400	{object}	response.ResponseData
//	@Router		/auth/resend-verification [post]
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	cl, ok := claims(c)
	if !ok {
		return
	}

	if err := h.auth.ResendVerification(c.Request.Context(), cl.UserID); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK("Verification email sent", nil))
}

// ForgotPassword godoc
//
//	@Summary	Request a password reset link
//	@Tags		Auth
//	@Accept		json
//	@Produce	json
//	@Success	200	{object}	response.ResponseData
//	@Router		/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req loginRequest
	if !bind(c, &req) {
		return
	}

	if err := h.auth.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK("If that email is registered, a reset link has been sent", nil))
}

// ResetPassword godoc
//
//	@Summary	Set a new password with a reset token
//	@Tags		Auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		tokenRequest	true	"Reset token and new password"
//	@Success	200		{object}	response.ResponseData
//	@Failure	400		{object}	response.ResponseData
//	@Router		/auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req tokenRequest
	if !bind(c, &req) {
		return
	}

	if err := h.auth.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK("Password updated. Please log in again.", nil))
}

// Me godoc
//
//	@Summary	Current user
//	@Tags		Auth
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	response.ResponseData
//	@Failure	404	{object}	response.ResponseData
//	@Router		/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	cl, ok := claims(c)
	if !ok {
		return
	}

	user, err := h.auth.Me(c.Request.Context(), cl.UserID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK("", user))
}

// UpdateProfile godoc
//
//	@Summary	Update display name
//	@Tags		Auth
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		profileRequest	true	"Profile"
//	@Success	200		{object}	response.ResponseData
//	@Router		/auth/profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	cl, ok := claims(c)
	if !ok {
		return
	}
	var req profileRequest
	if !bind(c, &req) {
		return
	}

	user, err := h.auth.UpdateProfile(c.Request.Context(), cl.UserID, req.Name)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK("Profile updated", user))
}

func (h *AuthHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		fail(c, http.StatusConflict, constant.EMAIL_TAKEN)
	case errors.Is(err, service.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, constant.INVALID_CREDENTIALS)
	case errors.Is(err, service.ErrInvalidVerificationToken):
		fail(c, http.StatusBadRequest, constant.INVALID_VERIFICATION_TOKEN)
	case errors.Is(err, service.ErrInvalidResetToken):
		fail(c, http.StatusBadRequest, constant.INVALID_RESET_TOKEN)
	case errors.Is(err, service.ErrAlreadyVerified):
		fail(c, http.StatusBadRequest, constant.ALREADY_VERIFIED)
	case errors.Is(err, service.ErrPasswordTooLong):
		resData := constant.VALIDATION_FAILED
		resData.Errors = []response.FieldError{{
			Field:   "password",
			Message: fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes),
		}}
		fail(c, http.StatusBadRequest, resData)
	case errors.Is(err, repository.ErrNotFound):
		fail(c, http.StatusNotFound, constant.USER_NOT_FOUND)
	default:
		internalError(c, err)
	}
}
