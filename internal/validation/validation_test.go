package validation

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/campusconnect-nz/campus-api/internal/model/response"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type signupRequest struct {
	Email  string `json:"email"`
	Rating int    `json:"rating"`
}

func newValidatedRouter(schema Schema, got *signupRequest) *gin.Engine {
	r := gin.New()
	r.POST("/submit", Body(schema), func(c *gin.Context) {
		if err := Bind(c, got); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, response.OK("ok", nil))
	})
	return r
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.ResponseData {
	t.Helper()
	var body response.ResponseData
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func postJSON(r http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBody_EmptyObject(t *testing.T) {
	r := newValidatedRouter(emailSchema, &signupRequest{})

	w := postJSON(r, `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.False(t, body.Success)
	assert.Equal(t, "Validation failed", body.Message)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "email", body.Errors[0].Field)
	assert.Contains(t, body.Errors[0].Message, "email")
}

func TestBody_FormatError(t *testing.T) {
	r := newValidatedRouter(emailSchema, &signupRequest{})

	w := postJSON(r, `{"email":"not-an-email"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "email must be a valid email address", body.Errors[0].Message)
}

func TestBody_ValidPassesSanitized(t *testing.T) {
	var got signupRequest
	r := newValidatedRouter(emailSchema, &got)

	w := postJSON(r, `{"email":"  a@b.com "}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a@b.com", got.Email)
}

func TestBody_MalformedJSON(t *testing.T) {
	r := newValidatedRouter(emailSchema, &signupRequest{})

	for _, raw := range []string{`{"email":`, `[1,2]`, `null`} {
		w := postJSON(r, raw)
		assert.Equal(t, http.StatusBadRequest, w.Code, raw)
		assert.Equal(t, "Invalid request payload", decode(t, w).Message, raw)
	}
}

func TestBody_EmptyBodyReportsRequired(t *testing.T) {
	r := newValidatedRouter(emailSchema, &signupRequest{})

	w := postJSON(r, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Validation failed", decode(t, w).Message)
}

func TestBody_Multipart(t *testing.T) {
	schema := Schema{
		"email":  {Required: true, Format: "email"},
		"rating": {Type: Integer, Required: true, Min: Limit(1), Max: Limit(5)},
	}
	var got signupRequest
	r := newValidatedRouter(schema, &got)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("email", "tama@uni.ac.nz"))
	require.NoError(t, mw.WriteField("rating", "4"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/submit", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tama@uni.ac.nz", got.Email)
	assert.Equal(t, 4, got.Rating)
}

func TestBody_URLEncoded(t *testing.T) {
	r := newValidatedRouter(emailSchema, &signupRequest{})

	form := url.Values{"email": {"nope"}}
	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "email must be a valid email address", decode(t, w).Errors[0].Message)
}

func TestBind_WithoutValidatedBody(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Error(t, Bind(c, &signupRequest{}))
}
