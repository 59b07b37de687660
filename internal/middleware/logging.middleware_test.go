package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campusconnect-nz/campus-api/internal/constant"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func withObservedLogger(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	t.Cleanup(restore)
	return logs
}

func TestRequestLogger(t *testing.T) {
	logs := withObservedLogger(t)

	var seenRequestID any
	r := gin.New()
	r.Use(CorrelationIDMiddleware())
	r.Use(NewLoggingMiddleware(DefaultMiddlewareConfig()).RequestLogger())
	r.GET("/ping", func(c *gin.Context) {
		seenRequestID, _ = c.Get(constant.RequestIDKey)
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(CorrelationIDHeader, "cid-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "cid-42", w.Header().Get(CorrelationIDHeader))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, w.Header().Get("X-Request-ID"), seenRequestID)

	completed := logs.FilterMessage("Request completed").All()
	if assert.Len(t, completed, 1) {
		fields := completed[0].ContextMap()
		assert.Equal(t, "cid-42", fields["correlationId"])
		assert.Equal(t, "/ping", fields["path"])
		assert.EqualValues(t, http.StatusNoContent, fields["status"])
	}
}

func TestRequestLogger_Disabled(t *testing.T) {
	logs := withObservedLogger(t)

	r := gin.New()
	r.Use(NewLoggingMiddleware(&MiddlewareConfig{}).RequestLogger())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, logs.Len())
}

func TestCorrelationID_Generated(t *testing.T) {
	var cid string
	r := gin.New()
	r.Use(CorrelationIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		cid = CorrelationID(c.Request.Context())
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.NotEmpty(t, cid)
	assert.Equal(t, cid, w.Header().Get(CorrelationIDHeader))
}
