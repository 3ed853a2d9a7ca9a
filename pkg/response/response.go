// Package response defines the JSON envelope returned by every endpoint.
package response

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

type Response struct {
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message"`
	Details []any  `json:"details,omitempty"`
	Data    any    `json:"data,omitempty"`
}

var EmptyRequestBodyResponse = Response{
	Status:  StatusError,
	Error:   "Empty Request Body",
	Message: "Request body is empty. Please provide necessary data.",
}

var BadRequestResponse = Response{
	Status:  StatusError,
	Error:   "Bad Request",
	Message: "The request could not be processed. Check the data you provided.",
}

var ResourceNotFoundResponse = Response{
	Status:  StatusError,
	Error:   "Resource Not Found",
	Message: "The requested resource was not found.",
}

var ServerErrorResponse = Response{
	Status:  StatusError,
	Error:   "Server Error",
	Message: "An internal server error occurred. Please try again later.",
}

var MissingTokenResponse = Response{
	Status:  StatusError,
	Error:   "Unauthorized",
	Message: "Authentication token is missing. Use the Bearer scheme.",
}

var InvalidTokenResponse = Response{
	Status:  StatusError,
	Error:   "Unauthorized",
	Message: "Authentication token is invalid or expired.",
}

var ForbiddenResponse = Response{
	Status:  StatusError,
	Error:   "Forbidden",
	Message: "You don't have permission to perform this action.",
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

func ErrorResponse(errName, msg string) Response {
	return Response{
		Status:  StatusError,
		Error:   errName,
		Message: msg,
	}
}

func ValidationErrorResponse(err error) Response {
	resp := Response{
		Status:  StatusError,
		Error:   "Validation Error",
		Message: "Some fields failed validation.",
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, fieldErr := range validationErrs {
			resp.Details = append(resp.Details,
				fmt.Sprintf("field %q failed on the %q rule", fieldErr.Field(), fieldErr.Tag()))
		}
	}

	return resp
}
