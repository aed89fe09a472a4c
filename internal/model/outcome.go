package model

import "time"

// OutcomeKind tags the result of one form submission.
type OutcomeKind string

const (
	OutcomeSuccess         OutcomeKind = "success"
	OutcomeRejected        OutcomeKind = "rejected"
	OutcomeValidationError OutcomeKind = "validation_error"
	OutcomeServerError     OutcomeKind = "server_error"
	OutcomeNetworkError    OutcomeKind = "network_error"
	OutcomeBusy            OutcomeKind = "busy"
	OutcomeCancelled       OutcomeKind = "cancelled"
)

// Outcome drives the single status line of a form.
// Redirect and Delay are only set on success.
type Outcome struct {
	Kind     OutcomeKind
	Message  string
	IsError  bool
	Redirect string
	Delay    time.Duration
}

// Succeeded reports whether navigation is pending.
func (o Outcome) Succeeded() bool {
	return o.Kind == OutcomeSuccess
}

// OutcomeResponse is the JSON rendering of an Outcome.
type OutcomeResponse struct {
	Kind     OutcomeKind `json:"kind"`
	Message  string      `json:"message"`
	IsError  bool        `json:"isError"`
	Redirect string      `json:"redirect,omitempty"`
	DelayMS  int64       `json:"delayMs,omitempty"`
}

// Response converts the outcome for JSON clients.
func (o Outcome) Response() OutcomeResponse {
	return OutcomeResponse{
		Kind:     o.Kind,
		Message:  o.Message,
		IsError:  o.IsError,
		Redirect: o.Redirect,
		DelayMS:  o.Delay.Milliseconds(),
	}
}
