// Package response defines the JSON envelope returned by the HTTP API.
package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

var EmptyRequestBodyResponse = Response{
	Status:     StatusError,
	StatusCode: http.StatusBadRequest,
	Error:      "Empty Request Body",
	Message:    "Request body is empty. Please provide necessary data.",
}

var BadRequestResponse = Response{
	Status:     StatusError,
	StatusCode: http.StatusBadRequest,
	Error:      "Bad Request",
	Message:    "Request body is malformed. Please check the data and try again.",
}

var ResourceNotFoundResponse = Response{
	Status:     StatusError,
	StatusCode: http.StatusNotFound,
	Error:      "Resource Not Found",
	Message:    "The requested resource was not found.",
}

var ServerErrorResponse = Response{
	Status:     StatusError,
	StatusCode: http.StatusInternalServerError,
	Error:      "Server Error",
	Message:    "An internal server error occurred. Please try again later.",
}

type Response struct {
	Status     string `json:"status"`
	StatusCode int    `json:"status_code,omitempty"`
	Error      string `json:"error,omitempty"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
	Data       any    `json:"data,omitempty"`
}

func SuccessResponse(msg string, data ...any) Response {
	resp := Response{
		Status:  StatusSuccess,
		Message: msg,
	}

	if len(data) > 0 {
		resp.Data = data[0]
	}

	return resp
}

// InvalidURLResponse reports a URL that passed struct validation but was
// rejected by the shortener.
func InvalidURLResponse(field, value, issue string) Response {
	return Response{
		Status:     StatusError,
		StatusCode: http.StatusBadRequest,
		Error:      "Validation Error",
		Message:    "Request data is invalid. Please correct the errors and try again.",
		Details: []validationError{
			{Field: field, Value: value, Issue: issue},
		},
	}
}

func ValidationErrorResponse(err error) Response {
	return Response{
		Status:     StatusError,
		StatusCode: http.StatusBadRequest,
		Error:      "Validation Error",
		Message:    "Request data is invalid. Please correct the errors and try again.",
		Details:    getValidationErrors(err),
	}
}

type validationError struct {
	Field string `json:"field"`
	Value any    `json:"value"`
	Issue string `json:"issue"`
}

func getValidationErrors(err error) []validationError {
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return nil
	}

	res := make([]validationError, 0, len(vErrs))

	for _, vErr := range vErrs {
		res = append(res, validationError{
			Field: vErr.Field(),
			Value: vErr.Value(),
			Issue: issueFor(vErr),
		})
	}

	return res
}

func issueFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "url", "http_url":
		return "Invalid url."
	case "max":
		return fmt.Sprintf("Must be at most %s characters long.", fe.Param())
	default:
		return fmt.Sprintf("Failed on the %q rule.", fe.Tag())
	}
}
