package validation

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var emailSchema = Schema{
	"email": {Required: true, Format: "email"},
}

func TestValidate_MissingRequired(t *testing.T) {
	_, errs := Validate(emailSchema, map[string]any{})

	require.Len(t, errs, 1)
	assert.Equal(t, "email", errs[0].Field)
	assert.Equal(t, "email is required", errs[0].Message)
}

func TestValidate_BlankCountsAsMissing(t *testing.T) {
	for _, v := range []any{nil, "", "   "} {
		_, errs := Validate(emailSchema, map[string]any{"email": v})
		require.Len(t, errs, 1, "value %#v", v)
		assert.Equal(t, "email is required", errs[0].Message)
	}
}

func TestValidate_FormatError(t *testing.T) {
	_, errs := Validate(emailSchema, map[string]any{"email": "not-an-email"})

	require.Len(t, errs, 1)
	assert.Equal(t, "email", errs[0].Field)
	assert.Equal(t, "email must be a valid email address", errs[0].Message)
}

func TestValidate_Passes(t *testing.T) {
	out, errs := Validate(emailSchema, map[string]any{"email": "a@b.com"})

	assert.Empty(t, errs)
	assert.Equal(t, map[string]any{"email": "a@b.com"}, out)
}

func TestValidate_CollectsEveryError(t *testing.T) {
	schema := Schema{
		"name":     {Required: true, Min: Limit(2)},
		"email":    {Required: true, Format: "email"},
		"password": {Required: true, Min: Limit(8)},
		"rating":   {Type: Integer, Required: true, Min: Limit(1), Max: Limit(5)},
	}

	_, errs := Validate(schema, map[string]any{
		"name":     "A",
		"password": "short",
		"rating":   9.0,
	})

	assert.Equal(t, Errors{
		{Field: "email", Message: "email is required"},
		{Field: "name", Message: "name must be at least 2 characters"},
		{Field: "password", Message: "password must be at least 8 characters"},
		{Field: "rating", Message: "rating must be at most 5"},
	}, errs)
	assert.Contains(t, errs.Error(), "email is required")
}

func TestValidate_Types(t *testing.T) {
	schema := Schema{
		"title":   {Type: String},
		"rating":  {Type: Integer},
		"price":   {Type: Number},
		"private": {Type: Boolean},
	}

	_, errs := Validate(schema, map[string]any{
		"title":   42.0,
		"rating":  4.5,
		"price":   "cheap",
		"private": "maybe",
	})

	assert.Equal(t, Errors{
		{Field: "price", Message: "price must be a number"},
		{Field: "private", Message: "private must be a boolean"},
		{Field: "rating", Message: "rating must be an integer"},
		{Field: "title", Message: "title must be a string"},
	}, errs)
}

func TestValidate_SanitizesAndCoerces(t *testing.T) {
	schema := Schema{
		"title":   {Required: true},
		"rating":  {Type: Integer, Required: true},
		"price":   {Type: Number},
		"private": {Type: Boolean},
		"comment": {},
	}
	body := map[string]any{
		"title":   "  Intro to Algorithms  ",
		"rating":  "4",
		"price":   "12.5",
		"private": "true",
		"comment": "  ",
		"extra":   "kept as is ",
	}

	out, errs := Validate(schema, body)
	require.Empty(t, errs)

	assert.Equal(t, map[string]any{
		"title":   "Intro to Algorithms",
		"rating":  int64(4),
		"price":   12.5,
		"private": true,
		"comment": "",
		"extra":   "kept as is ",
	}, out)
	// input is not mutated
	assert.Equal(t, "  Intro to Algorithms  ", body["title"])
}

func TestValidate_Idempotent(t *testing.T) {
	schema := Schema{
		"email":  {Required: true, Format: "email"},
		"rating": {Type: Integer, Required: true, Min: Limit(1), Max: Limit(5)},
		"role":   {OneOf: []string{"student", "admin"}},
	}

	first, errs := Validate(schema, map[string]any{"email": " a@b.com ", "rating": 3.0, "role": "admin"})
	require.Empty(t, errs)

	second, errs := Validate(schema, first)
	assert.Empty(t, errs)
	assert.Equal(t, first, second)
}

func TestValidate_OneOf(t *testing.T) {
	schema := Schema{"role": {Required: true, OneOf: []string{"student", "admin"}}}

	_, errs := Validate(schema, map[string]any{"role": "lecturer"})
	require.Len(t, errs, 1)
	assert.Equal(t, "role must be one of: student, admin", errs[0].Message)
}

func TestValidate_OtherFormats(t *testing.T) {
	schema := Schema{
		"course_id": {Format: "uuid4"},
		"website":   {Format: "url"},
		"code":      {Format: "alphanum"},
		"phone":     {Format: "e164"},
	}

	_, errs := Validate(schema, map[string]any{
		"course_id": "123",
		"website":   "not a url",
		"code":      "COMP SCI",
		"phone":     "call me",
	})

	assert.Equal(t, Errors{
		{Field: "code", Message: "code must contain only letters and numbers"},
		{Field: "course_id", Message: "course_id must be a valid UUID"},
		{Field: "phone", Message: "phone is not in a valid format"},
		{Field: "website", Message: "website must be a valid URL"},
	}, errs)
}

func TestValidate_MaxCountsCharacters(t *testing.T) {
	schema := Schema{"name": {Max: Limit(4)}}

	_, errs := Validate(schema, map[string]any{"name": "Māui"})
	assert.Empty(t, errs)
}

func TestValidate_MaxBytes(t *testing.T) {
	schema := Schema{"password": {Max: Limit(72), MaxBytes: 72}}

	_, errs := Validate(schema, map[string]any{"password": strings.Repeat("é", 40)})
	assert.Equal(t, Errors{{Field: "password", Message: "password must be at most 72 bytes"}}, errs)

	_, errs = Validate(schema, map[string]any{"password": strings.Repeat("é", 36)})
	assert.Empty(t, errs)
}

func TestValidate_IntegerOutOfRange(t *testing.T) {
	schema := Schema{"n": {Type: Integer, Required: true}}

	for _, v := range []any{1e19, -1e19, float64(math.MaxInt64), "9223372036854775808"} {
		out, errs := Validate(schema, map[string]any{"n": v})
		assert.Equal(t, Errors{{Field: "n", Message: "n must be an integer"}}, errs, "value %v", v)
		assert.Equal(t, v, out["n"], "rejected value is passed through untouched")
	}

	out, errs := Validate(schema, map[string]any{"n": float64(1 << 53)})
	assert.Empty(t, errs)
	assert.Equal(t, int64(1<<53), out["n"])
}

func TestValidate_IntegerNotNumeric(t *testing.T) {
	_, errs := Validate(Schema{"rating": {Type: Integer}}, map[string]any{"rating": "five"})
	assert.Equal(t, Errors{{Field: "rating", Message: "rating must be an integer"}}, errs)
}
