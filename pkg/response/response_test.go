package response

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func newValidate() *validator.Validate {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return validate
}

func TestSuccessResponse(t *testing.T) {
	type stats struct {
		ShortCode string `json:"short_code"`
		Clicks    int64  `json:"clicks"`
	}

	tests := []struct {
		name string
		data []any
		want Response
	}{
		{
			name: "without data",
			want: Response{Status: StatusSuccess, Message: "Link stats retrieved."},
		},
		{
			name: "with link stats",
			data: []any{stats{ShortCode: "abc123", Clicks: 2}},
			want: Response{
				Status:  StatusSuccess,
				Message: "Link stats retrieved.",
				Data:    stats{ShortCode: "abc123", Clicks: 2},
			},
		},
		{
			name: "only first data is kept",
			data: []any{stats{ShortCode: "abc123"}, stats{ShortCode: "def456"}},
			want: Response{
				Status:  StatusSuccess,
				Message: "Link stats retrieved.",
				Data:    stats{ShortCode: "abc123"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SuccessResponse("Link stats retrieved.", tt.data...)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInvalidURLResponse(t *testing.T) {
	got := InvalidURLResponse("url", "  https://example.com", "The url must start with http:// or https:// and contain a host.")

	assert.Equal(t, StatusError, got.Status)
	assert.Equal(t, http.StatusBadRequest, got.StatusCode)
	assert.Equal(t, "Validation Error", got.Error)
	assert.Equal(t, []validationError{
		{
			Field: "url",
			Value: "  https://example.com",
			Issue: "The url must start with http:// or https:// and contain a host.",
		},
	}, got.Details)
}

func TestValidationErrorResponse(t *testing.T) {
	type shortenRequest struct {
		URL string `json:"url" validate:"required"`
	}

	validate := newValidate()

	t.Run("missing url", func(t *testing.T) {
		got := ValidationErrorResponse(validate.Struct(shortenRequest{}))

		assert.Equal(t, StatusError, got.Status)
		assert.Equal(t, http.StatusBadRequest, got.StatusCode)
		assert.Equal(t, []validationError{
			{Field: "url", Value: "", Issue: "This field is required."},
		}, got.Details)
	})

	t.Run("url present", func(t *testing.T) {
		got := ValidationErrorResponse(validate.Struct(shortenRequest{URL: "https://example.com"}))

		assert.Nil(t, got.Details)
	})

	t.Run("not a validation error", func(t *testing.T) {
		got := ValidationErrorResponse(errors.New("boom"))

		assert.Equal(t, http.StatusBadRequest, got.StatusCode)
		assert.Nil(t, got.Details)
	})
}

func TestGetValidationErrors(t *testing.T) {
	type req struct {
		URL       string `json:"url" validate:"required,http_url"`
		ShortCode string `json:"short_code" validate:"max=6"`
		Note      string `json:"note" validate:"omitempty,alphanum"`
	}

	validate := newValidate()

	tests := []struct {
		name string
		req  req
		want []validationError
	}{
		{
			name: "valid",
			req:  req{URL: "https://example.com", ShortCode: "abc123"},
		},
		{
			name: "missing url",
			req:  req{ShortCode: "abc123"},
			want: []validationError{
				{Field: "url", Value: "", Issue: "This field is required."},
			},
		},
		{
			name: "every rule broken",
			req:  req{URL: "ftp://example.com", ShortCode: "abc1234", Note: "a-b"},
			want: []validationError{
				{Field: "url", Value: "ftp://example.com", Issue: "Invalid url."},
				{Field: "short_code", Value: "abc1234", Issue: "Must be at most 6 characters long."},
				{Field: "note", Value: "a-b", Issue: `Failed on the "alphanum" rule.`},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.req)
			got := getValidationErrors(err)

			assert.Equal(t, tt.want, got)
		})
	}
}
