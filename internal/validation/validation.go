package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/campusconnect-nz/campus-api/internal/constant"
	"github.com/campusconnect-nz/campus-api/internal/model/response"
	"github.com/gin-gonic/gin"
)

const maxMultipartMemory = 32 << 20

// Body validates the request body against schema before the handler runs.
// JSON, multipart and urlencoded bodies are accepted. On failure the request
// is aborted with 400 and every field error; on success the sanitized body is
// stored on the context (see Bind).
func Body(schema Schema) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := readBody(c)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.Error(err)
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, constant.REQUEST_TOO_LARGE)
			return
		}
		if err != nil {
			resData := constant.INVALID_REQUEST
			c.Error(err)
			c.AbortWithStatusJSON(http.StatusBadRequest, resData)
			return
		}

		sanitized, errs := Validate(schema, body)
		if len(errs) > 0 {
			resData := constant.VALIDATION_FAILED
			resData.Errors = toResponse(errs)
			c.AbortWithStatusJSON(http.StatusBadRequest, resData)
			return
		}

		if c.ContentType() == gin.MIMEJSON {
			// handlers that read the raw body see the sanitized version
			raw, err := json.Marshal(sanitized)
			if err == nil {
				c.Request.Body = io.NopCloser(bytes.NewReader(raw))
			}
		}
		c.Set(constant.ValidatedBodyKey, sanitized)
		c.Next()
	}
}

func readBody(c *gin.Context) (map[string]any, error) {
	switch c.ContentType() {
	case gin.MIMEMultipartPOSTForm:
		if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil {
			return nil, fmt.Errorf("parse multipart form: %w", err)
		}
		return firstValues(c.Request.MultipartForm.Value), nil

	case gin.MIMEPOSTForm:
		if err := c.Request.ParseForm(); err != nil {
			return nil, fmt.Errorf("parse form: %w", err)
		}
		return firstValues(c.Request.PostForm), nil

	default:
		body := map[string]any{}
		if c.Request.Body == nil {
			return body, nil
		}
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		if len(bytes.TrimSpace(raw)) == 0 {
			return body, nil
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, fmt.Errorf("decode json body: %w", err)
		}
		if body == nil {
			return nil, errors.New("body must be a JSON object")
		}
		return body, nil
	}
}

func firstValues(values map[string][]string) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

func toResponse(errs Errors) []response.FieldError {
	out := make([]response.FieldError, len(errs))
	for i, fe := range errs {
		out[i] = response.FieldError{Field: fe.Field, Message: fe.Message}
	}
	return out
}

// Bind decodes the body validated by Body into dst.
func Bind(c *gin.Context, dst any) error {
	v, ok := c.Get(constant.ValidatedBodyKey)
	if !ok {
		return errors.New("no validated body on context")
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode validated body: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode validated body: %w", err)
	}
	return nil
}
