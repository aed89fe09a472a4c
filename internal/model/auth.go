package model

import (
	"bytes"
	"encoding/json"
)

// Credentials is the login form as submitted by the user.
type Credentials struct {
	Email      string   `json:"email" form:"email" validate:"required"`
	Password   string   `json:"password" form:"password" validate:"required"`
	RememberMe Checkbox `json:"rememberMe" form:"remember"`
}

// RegistrationProfile is the registration form as submitted by the user.
type RegistrationProfile struct {
	FirstName string `json:"firstname" form:"firstname" validate:"required"`
	LastName  string `json:"lastname" form:"lastname"`
	Email     string `json:"email" form:"email" validate:"required"`
	Password  string `json:"password" form:"password" validate:"required"`
}

// LoginRequest is the body sent to POST /api/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// FullName is the nested name object expected by POST /api/register.
type FullName struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
}

// RegisterRequest is the body sent to POST /api/register.
type RegisterRequest struct {
	FullName FullName `json:"fullname"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
}

// NewLoginRequest drops client-only fields such as the remember-me flag.
func NewLoginRequest(c Credentials) LoginRequest {
	return LoginRequest{Email: c.Email, Password: c.Password}
}

// NewRegisterRequest reshapes a flat profile into the nested wire format.
func NewRegisterRequest(p RegistrationProfile) RegisterRequest {
	return RegisterRequest{
		FullName: FullName{FirstName: p.FirstName, LastName: p.LastName},
		Email:    p.Email,
		Password: p.Password,
	}
}

// FieldError is one entry of the API's validation error list.
type FieldError struct {
	Msg      string `json:"msg"`
	Path     string `json:"path,omitempty"`
	Location string `json:"location,omitempty"`
}

// AuthResponse covers both the success and the failure bodies of the auth endpoints.
type AuthResponse struct {
	Token   string          `json:"token,omitempty"`
	User    json.RawMessage `json:"user,omitempty"`
	Message string          `json:"message,omitempty"`
	Errors  []FieldError    `json:"errors,omitempty"`
}

var falsyJSON = [][]byte{
	[]byte("null"),
	[]byte("false"),
	[]byte("0"),
	[]byte(`""`),
}

// HasUser reports whether the response carries a truthy user value.
func (r AuthResponse) HasUser() bool {
	v := bytes.TrimSpace(r.User)
	if len(v) == 0 {
		return false
	}
	for _, f := range falsyJSON {
		if bytes.Equal(v, f) {
			return false
		}
	}
	return true
}

// SessionArtifact is what a successful authentication leaves in client storage.
type SessionArtifact struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user,omitempty"`
}
