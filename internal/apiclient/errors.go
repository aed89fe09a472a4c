package apiclient

import (
	"fmt"

	"github.com/universityinsights/insights-web/internal/model"
)

// ValidationError means the API rejected the input and listed the reasons.
type ValidationError struct {
	Status int
	Errors []model.FieldError
}

// Error returns the first reported message, which is what the form displays.
func (e *ValidationError) Error() string {
	return e.Errors[0].Msg
}

// ServerError is any other non-success response. Message may be empty.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api responded with status %d", e.Status)
	}
	return e.Message
}

// NetworkError means no usable response was obtained.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "network error: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
