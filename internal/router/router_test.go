package router

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/campusconnect-nz/campus-api/internal/auth"
	"github.com/campusconnect-nz/campus-api/internal/handler"
	"github.com/campusconnect-nz/campus-api/internal/middleware"
	"github.com/campusconnect-nz/campus-api/internal/model"
	"github.com/campusconnect-nz/campus-api/internal/model/response"
	"github.com/campusconnect-nz/campus-api/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// courseStore serves an empty catalogue and accepts every create.
type courseStore struct{}

func (courseStore) List(context.Context, string) ([]model.Course, error) {
	return []model.Course{}, nil
}

func (courseStore) FindByID(context.Context, string) (model.Course, error) {
	return model.Course{}, repository.ErrNotFound
}

func (courseStore) Create(_ context.Context, c model.Course) (model.Course, error) {
	c.ID = "c1"
	return c, nil
}

func (courseStore) Update(context.Context, model.Course) (model.Course, error) {
	return model.Course{}, repository.ErrNotFound
}

func (courseStore) Delete(context.Context, string) error {
	return repository.ErrNotFound
}

type testServer struct {
	engine *gin.Engine
	codec  *auth.Codec
	routes []Route
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	codec, err := auth.NewCodec("router-test-secret", time.Hour)
	require.NoError(t, err)

	routes := Routes(Handlers{
		Auth:   handler.NewAuthHandler(nil),
		Course: handler.NewCourseHandler(courseStore{}, nil),
		Note:   handler.NewNoteHandler(nil, courseStore{}, t.TempDir(), 1),
		Admin:  handler.NewAdminHandler(nil),
	})
	r := gin.New()
	Register(r.Group("/api"), middleware.NewAuthGate(codec, auth.NopRevoker{}), routes)
	return &testServer{engine: r, codec: codec, routes: routes}
}

func (s *testServer) token(t *testing.T, role model.Role, verified bool) string {
	t.Helper()
	token, err := s.codec.Issue(model.Identity{UserID: "u1", Email: "u1@uni.ac.nz", Role: role, Verified: verified})
	require.NoError(t, err)
	return "Bearer " + token
}

func (s *testServer) do(method, path, body, authorization string) (*httptest.ResponseRecorder, response.ResponseData) {
	req := httptest.NewRequest(method, "/api"+path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var data response.ResponseData
	_ = json.Unmarshal(w.Body.Bytes(), &data)
	return w, data
}

func concretePath(path string) string {
	return strings.ReplaceAll(path, ":id", "x1")
}

func TestRoutes_GatedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	for _, rt := range s.routes {
		if rt.Level == middleware.LevelPublic {
			continue
		}
		t.Run(rt.Method+" "+rt.Path, func(t *testing.T) {
			w, body := s.do(rt.Method, concretePath(rt.Path), `{}`, "")

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "Access token required", body.Message)
		})
	}
}

func TestRoutes_AdminRoutesRejectStudents(t *testing.T) {
	s := newTestServer(t)
	student := s.token(t, model.RoleStudent, true)

	for _, rt := range s.routes {
		if rt.Level != middleware.LevelAdmin {
			continue
		}
		t.Run(rt.Method+" "+rt.Path, func(t *testing.T) {
			w, body := s.do(rt.Method, concretePath(rt.Path), `{}`, student)

			assert.Equal(t, http.StatusForbidden, w.Code)
			assert.Equal(t, "Admin access required", body.Message)
		})
	}
}

func TestRoutes_VerifiedRoutesRejectUnverified(t *testing.T) {
	s := newTestServer(t)
	unverified := s.token(t, model.RoleStudent, false)

	for _, rt := range s.routes {
		if rt.Level != middleware.LevelVerified {
			continue
		}
		t.Run(rt.Method+" "+rt.Path, func(t *testing.T) {
			w, body := s.do(rt.Method, concretePath(rt.Path), `{}`, unverified)

			assert.Equal(t, http.StatusForbidden, w.Code)
			assert.Equal(t, "Email verification required", body.Message)
		})
	}
}

func TestRoutes_GateRunsBeforeValidation(t *testing.T) {
	s := newTestServer(t)

	w, body := s.do(http.MethodPost, "/courses", `{}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, body.Errors)

	w, body = s.do(http.MethodPost, "/courses", `{}`, s.token(t, model.RoleStudent, true))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, body.Errors, 3)
}

func TestRoutes_VerifiedStudentCreatesCourse(t *testing.T) {
	s := newTestServer(t)

	w, body := s.do(http.MethodPost, "/courses",
		`{"code":"comp101","title":"Intro","university":"Auckland"}`,
		s.token(t, model.RoleStudent, true))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, body.Success)
}

func TestRoutes_AdminPassesWithoutVerification(t *testing.T) {
	s := newTestServer(t)

	w, body := s.do(http.MethodDelete, "/courses/x1", "", s.token(t, model.RoleAdmin, false))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Course not found", body.Message)
}

func TestRoutes_PublicListing(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(http.MethodGet, "/courses", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("ETag"))
}

func TestRoutes_EveryRouteHasAHandler(t *testing.T) {
	s := newTestServer(t)
	seen := map[string]bool{}
	for _, rt := range s.routes {
		key := rt.Method + " " + rt.Path
		assert.False(t, seen[key], "duplicate route %s", key)
		seen[key] = true
		assert.NotNil(t, rt.Handler, key)
	}
}

func TestRoutes_OversizedUploadStopsAtBodyLimit(t *testing.T) {
	s := newTestServer(t)

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(t, form.WriteField("course_id", "0b8f0f3e-6a55-4b8e-9a4c-2f6f3b0c1d2e"))
	require.NoError(t, form.WriteField("title", "Week 1"))
	part, err := form.CreateFormFile("file", "week1.pdf")
	require.NoError(t, err)
	// handler allows 1 MiB files; the body cap adds 1 MiB of form overhead
	_, err = part.Write(bytes.Repeat([]byte("x"), 3<<20))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/notes", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", s.token(t, model.RoleStudent, true))
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	var body response.ResponseData
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Request body too large", body.Message)
}

func TestRoutes_OnlyUploadHasBodyLimit(t *testing.T) {
	s := newTestServer(t)
	for _, rt := range s.routes {
		if rt.Method == http.MethodPost && rt.Path == "/notes" {
			assert.Equal(t, int64(2<<20), rt.BodyLimit)
			continue
		}
		assert.Zero(t, rt.BodyLimit, rt.Method+" "+rt.Path)
	}
}
