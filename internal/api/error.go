package api

import "fmt"

// ApiError is an error that is safe to return to the client. It is
// serialized as a JSON body with a single "error" field.
type ApiError struct {
	Code    int    `json:"-"`
	Message string `json:"error"`
}

func NewApiError(message string, code int) *ApiError {
	return &ApiError{
		Code:    code,
		Message: message,
	}
}

func NewApiErrorf(code int, format string, args ...interface{}) *ApiError {
	return &ApiError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *ApiError) Error() string {
	return e.Message
}
