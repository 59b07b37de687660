package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/campusconnect-nz/campus-api/internal/constant"
	"github.com/campusconnect-nz/campus-api/internal/model"
	"github.com/campusconnect-nz/campus-api/internal/model/response"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// as attaches claims the way the auth gate would.
func as(cl model.Claims) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(constant.ClaimsKey, cl)
		c.Next()
	}
}

func student(id string) model.Claims {
	return model.Claims{Identity: model.Identity{UserID: id, Email: id + "@uni.ac.nz", Role: model.RoleStudent, Verified: true}}
}

func admin(id string) model.Claims {
	return model.Claims{Identity: model.Identity{UserID: id, Email: id + "@uni.ac.nz", Role: model.RoleAdmin, Verified: true}}
}

func send(r http.Handler, method, path string, body io.Reader, contentType string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sendJSON(r http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	return send(r, method, path, reader, "application/json", headers...)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.ResponseData {
	t.Helper()
	var body response.ResponseData
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

// dataAs re-decodes the envelope's data field into dst.
func dataAs(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NoError(t, json.Unmarshal(env.Data, dst))
}
