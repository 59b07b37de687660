package router

import (
	"net/http"

	"github.com/campusconnect-nz/campus-api/internal/handler"
	"github.com/campusconnect-nz/campus-api/internal/middleware"
	"github.com/campusconnect-nz/campus-api/internal/validation"
	"github.com/gin-gonic/gin"
)

// Route binds a handler to the access level and body schema it requires.
// The auth gate always runs before body validation.
type Route struct {
	Method  string
	Path    string
	Level   middleware.Level
	Schema  validation.Schema
	Handler gin.HandlerFunc

	// BodyLimit caps the request body in bytes when positive.
	BodyLimit int64
}

type Handlers struct {
	Auth   *handler.AuthHandler
	Course *handler.CourseHandler
	Note   *handler.NoteHandler
	Admin  *handler.AdminHandler
}

// Routes is the full API table, relative to the path prefix.
func Routes(h Handlers) []Route {
	return []Route{
		{Method: http.MethodPost, Path: "/auth/signup", Level: middleware.LevelPublic, Schema: handler.SignupSchema, Handler: h.Auth.Signup},
		{Method: http.MethodPost, Path: "/auth/login", Level: middleware.LevelPublic, Schema: handler.LoginSchema, Handler: h.Auth.Login},
		{Method: http.MethodPost, Path: "/auth/verify-email", Level: middleware.LevelPublic, Schema: handler.VerifyEmailSchema, Handler: h.Auth.VerifyEmail},
		{Method: http.MethodPost, Path: "/auth/resend-verification", Level: middleware.LevelAuthenticated, Handler: h.Auth.ResendVerification},
		{Method: http.MethodPost, Path: "/auth/forgot-password", Level: middleware.LevelPublic, Schema: handler.ForgotPasswordSchema, Handler: h.Auth.ForgotPassword},
		{Method: http.MethodPost, Path: "/auth/reset-password", Level: middleware.LevelPublic, Schema: handler.ResetPasswordSchema, Handler: h.Auth.ResetPassword},
		{Method: http.MethodGet, Path: "/auth/me", Level: middleware.LevelAuthenticated, Handler: h.Auth.Me},
		{Method: http.MethodPut, Path: "/auth/profile", Level: middleware.LevelAuthenticated, Schema: handler.ProfileSchema, Handler: h.Auth.UpdateProfile},

		{Method: http.MethodGet, Path: "/courses", Level: middleware.LevelPublic, Handler: h.Course.ListCourses},
		{Method: http.MethodGet, Path: "/courses/:id", Level: middleware.LevelPublic, Handler: h.Course.GetCourse},
		{Method: http.MethodPost, Path: "/courses", Level: middleware.LevelVerified, Schema: handler.CourseSchema, Handler: h.Course.CreateCourse},
		{Method: http.MethodPut, Path: "/courses/:id", Level: middleware.LevelAdmin, Schema: handler.CourseSchema, Handler: h.Course.UpdateCourse},
		{Method: http.MethodDelete, Path: "/courses/:id", Level: middleware.LevelAdmin, Handler: h.Course.DeleteCourse},
		{Method: http.MethodGet, Path: "/courses/:id/reviews", Level: middleware.LevelPublic, Handler: h.Course.ListReviews},
		{Method: http.MethodPost, Path: "/courses/:id/reviews", Level: middleware.LevelVerified, Schema: handler.ReviewSchema, Handler: h.Course.CreateReview},
		{Method: http.MethodDelete, Path: "/reviews/:id", Level: middleware.LevelVerified, Handler: h.Course.DeleteReview},

		{Method: http.MethodGet, Path: "/notes", Level: middleware.LevelAuthenticated, Handler: h.Note.ListNotes},
		{Method: http.MethodPost, Path: "/notes", Level: middleware.LevelVerified, Schema: handler.NoteSchema, Handler: h.Note.UploadNote, BodyLimit: h.Note.MaxBodyBytes()},
		{Method: http.MethodGet, Path: "/notes/:id/download", Level: middleware.LevelAuthenticated, Handler: h.Note.DownloadNote},
		{Method: http.MethodDelete, Path: "/notes/:id", Level: middleware.LevelVerified, Handler: h.Note.DeleteNote},

		{Method: http.MethodGet, Path: "/admin/users", Level: middleware.LevelAdmin, Handler: h.Admin.ListUsers},
		{Method: http.MethodPatch, Path: "/admin/users/:id/role", Level: middleware.LevelAdmin, Schema: handler.RoleSchema, Handler: h.Admin.ChangeRole},
	}
}

// Register mounts routes on r behind the gate.
func Register(r gin.IRoutes, gate *middleware.AuthGate, routes []Route) {
	for _, rt := range routes {
		chain := make([]gin.HandlerFunc, 0, 4)
		if rt.Level != middleware.LevelPublic {
			chain = append(chain, gate.For(rt.Level))
		}
		if rt.BodyLimit > 0 {
			chain = append(chain, middleware.BodyLimit(rt.BodyLimit))
		}
		if rt.Schema != nil {
			chain = append(chain, validation.Body(rt.Schema))
		}
		chain = append(chain, rt.Handler)
		r.Handle(rt.Method, rt.Path, chain...)
	}
}
