package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const (
	CodeValidationFailed  = "VALIDATION_FAILED"
	CodeDatesInvalid      = "DATES_INVALID"
	CodeDateNotAvailable  = "DATE_NOT_AVAILABLE"
	CodeNotFound          = "NOT_FOUND"
	CodeAlreadyCancelled  = "ALREADY_CANCELLED"
	CodeAlreadyInProgress = "ALREADY_IN_PROGRESS"
	CodeSystemFailure     = "SYSTEM_FAILURE"
	CodeTimeout           = "TIMEOUT"
	CodeUnsupportedMedia  = "UNSUPPORTED_MEDIA_TYPE"
	CodeTooManyRequests   = "TOO_MANY_REQUESTS"
)

// AppError carries one error kind and the human-readable descriptions returned to callers.
type AppError struct {
	Code         string   `json:"code"`
	Descriptions []string `json:"descriptions"`
	HTTPStatus   int      `json:"-"`
	Err          error    `json:"-"`
}

func (e *AppError) Error() string {
	msg := strings.Join(e.Descriptions, "; ")
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) StatusCode() int {
	return e.HTTPStatus
}

// Message returns the first description.
func (e *AppError) Message() string {
	if len(e.Descriptions) == 0 {
		return ""
	}
	return e.Descriptions[0]
}

// Response builds the payload returned to callers for this error.
func (e *AppError) Response(transactionID string) ErrorResponse {
	resp := ErrorResponse{
		TransactionID: transactionID,
		Errors:        make([]ErrorType, 0, len(e.Descriptions)),
	}
	for _, d := range e.Descriptions {
		resp.Errors = append(resp.Errors, ErrorType{Description: d})
	}
	return resp
}

func (e *AppError) ToJSON(transactionID string) []byte {
	data, _ := json.Marshal(e.Response(transactionID))
	return data
}

type ErrorType struct {
	Description string `json:"description"`
}

type ErrorResponse struct {
	TransactionID string      `json:"transactionId"`
	Errors        []ErrorType `json:"errors"`
}

func New(code string, httpStatus int, descriptions ...string) *AppError {
	return &AppError{
		Code:         code,
		Descriptions: descriptions,
		HTTPStatus:   httpStatus,
	}
}

func Wrap(err error, code string, httpStatus int, descriptions ...string) *AppError {
	return &AppError{
		Code:         code,
		Descriptions: descriptions,
		HTTPStatus:   httpStatus,
		Err:          err,
	}
}

func ValidationFailed(descriptions ...string) *AppError {
	return New(CodeValidationFailed, http.StatusBadRequest, descriptions...)
}

func DatesInvalid(description string) *AppError {
	return New(CodeDatesInvalid, http.StatusBadRequest, description)
}

func DateNotAvailable(err error) *AppError {
	return Wrap(err, CodeDateNotAvailable, http.StatusBadRequest, "Booking dates not available")
}

func NotFound(description string) *AppError {
	return New(CodeNotFound, http.StatusNotFound, description)
}

func NotFoundWithID(resource string, id int64) *AppError {
	return NotFound(fmt.Sprintf("%s: %d is not found", resource, id))
}

func AlreadyCancelled(description string) *AppError {
	return New(CodeAlreadyCancelled, http.StatusBadRequest, description)
}

func AlreadyInProgress(description string) *AppError {
	return New(CodeAlreadyInProgress, http.StatusBadRequest, description)
}

func SystemFailure(description string, err error) *AppError {
	return Wrap(err, CodeSystemFailure, http.StatusInternalServerError, description)
}

func Timeout(description string) *AppError {
	return New(CodeTimeout, http.StatusServiceUnavailable, description)
}

func UnsupportedMediaType(description string) *AppError {
	return New(CodeUnsupportedMedia, http.StatusUnsupportedMediaType, description)
}

func TooManyRequests(description string) *AppError {
	return New(CodeTooManyRequests, http.StatusTooManyRequests, description)
}

func AsAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return SystemFailure("An unexpected error occurred", err)
}

// IsClientError reports whether err is a 4xx outcome, as opposed to a system failure.
func IsClientError(err error) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.HTTPStatus >= 400 && appErr.HTTPStatus < 500
}
