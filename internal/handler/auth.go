package handler

import (
	"errors"
	"math"
	"net/http"

	"github.com/go-chi/render"
	"github.com/universityinsights/insights-web/internal/middleware"
	"github.com/universityinsights/insights-web/internal/model"
	"github.com/universityinsights/insights-web/internal/service"
)

const maxFormBytes = 1 << 20 // 1MB

// AuthHandler serves the login and registration pages and their submissions.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

type loginForm struct {
	Email      string
	RememberMe bool
}

type registerForm struct {
	FirstName string
	LastName  string
	Email     string
}

type formPage struct {
	Title   string
	Form    any
	Outcome *model.Outcome
}

// DelayMS is the navigation delay handed to the redirect script.
func (p formPage) DelayMS() int64 {
	if p.Outcome == nil {
		return 0
	}
	return p.Outcome.Delay.Milliseconds()
}

// RefreshSeconds is the whole-second delay for the no-script fallback.
func (p formPage) RefreshSeconds() int {
	if p.Outcome == nil {
		return 0
	}
	return int(math.Ceil(p.Outcome.Delay.Seconds()))
}

// HandleLoginPage handles GET /login requests.
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	renderPage(w, http.StatusOK, "login.html", formPage{Title: "Student Login", Form: loginForm{}})
}

// HandleLogin handles POST /login requests.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)

	var creds model.Credentials
	if err := render.Decode(r, &creds); err != nil {
		h.badRequest(w, r, err, "login.html", formPage{Title: "Student Login", Form: loginForm{}})
		return
	}

	clientID, _ := middleware.ClientIDFromContext(r.Context())
	out := h.service.Login(r.Context(), clientID, creds)
	if out.Kind == model.OutcomeCancelled {
		return
	}

	if wantsJSON(r) {
		render.Status(r, statusCode(out))
		render.JSON(w, r, out.Response())
		return
	}

	renderPage(w, statusCode(out), "login.html", formPage{
		Title:   "Student Login",
		Form:    loginForm{Email: creds.Email, RememberMe: bool(creds.RememberMe)},
		Outcome: &out,
	})
}

// HandleRegisterPage handles GET /register requests.
func (h *AuthHandler) HandleRegisterPage(w http.ResponseWriter, r *http.Request) {
	renderPage(w, http.StatusOK, "register.html", formPage{Title: "Register Student", Form: registerForm{}})
}

// HandleRegister handles POST /register requests.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)

	var profile model.RegistrationProfile
	if err := render.Decode(r, &profile); err != nil {
		h.badRequest(w, r, err, "register.html", formPage{Title: "Register Student", Form: registerForm{}})
		return
	}

	clientID, _ := middleware.ClientIDFromContext(r.Context())
	out := h.service.Register(r.Context(), clientID, profile)
	if out.Kind == model.OutcomeCancelled {
		return
	}

	if wantsJSON(r) {
		render.Status(r, statusCode(out))
		render.JSON(w, r, out.Response())
		return
	}

	renderPage(w, statusCode(out), "register.html", formPage{
		Title: "Register Student",
		Form: registerForm{
			FirstName: profile.FirstName,
			LastName:  profile.LastName,
			Email:     profile.Email,
		},
		Outcome: &out,
	})
}

func (h *AuthHandler) badRequest(w http.ResponseWriter, r *http.Request, err error, page string, data formPage) {
	status, msg := http.StatusBadRequest, "invalid request body"
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		status, msg = http.StatusRequestEntityTooLarge, "request body too large"
	}

	if wantsJSON(r) {
		writeJSON(w, status, errorResponse(msg))
		return
	}

	data.Outcome = &model.Outcome{Kind: model.OutcomeRejected, Message: "Please check the form and try again.", IsError: true}
	renderPage(w, status, page, data)
}

// statusCode maps an outcome to the response status.
func statusCode(o model.Outcome) int {
	switch o.Kind {
	case model.OutcomeSuccess:
		return http.StatusOK
	case model.OutcomeRejected:
		return http.StatusBadRequest
	case model.OutcomeValidationError, model.OutcomeServerError:
		return http.StatusUnprocessableEntity
	case model.OutcomeBusy:
		return http.StatusConflict
	case model.OutcomeCancelled:
		return http.StatusRequestTimeout
	default:
		return http.StatusBadGateway
	}
}
