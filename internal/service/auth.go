package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/universityinsights/insights-web/internal/apiclient"
	"github.com/universityinsights/insights-web/internal/model"
	"github.com/universityinsights/insights-web/internal/repository"
)

// Storage slots written by the auth flow.
const (
	SlotToken   = "token"
	SlotUser    = "user"
	SlotCookies = "cookies"
)

const (
	FormLogin    = "login"
	FormRegister = "register"
)

const (
	LoginRedirect    = "/"
	LoginDelay       = 1500 * time.Millisecond
	RegisterRedirect = "/login"
	RegisterDelay    = 2 * time.Second
)

const (
	MsgLoginSuccess    = "Login successful! Redirecting..."
	MsgLoginFailed     = "Invalid email or password"
	MsgRegisterSuccess = "Registration successful! Redirecting..."
	MsgRegisterFailed  = "Error registering user"
	MsgNetworkError    = "Network error. Please try again."
	MsgBusy            = "Your previous submission is still being processed."
	MsgCancelled       = "Request cancelled."
)

var (
	ErrClientIDRequired = errors.New("client id is required")
)

var fieldLabels = map[string]string{
	"Email":     "Email",
	"Password":  "Password",
	"FirstName": "First name",
}

// AuthService runs the login and registration flows against the remote API
// and records the resulting session artifact in the client's slots.
type AuthService struct {
	api        *apiclient.Client
	store      repository.SlotStore
	validate   *validator.Validate
	sessionTTL time.Duration
	inflight   *inflightGuard
}

// NewAuthService creates a new AuthService. Slots written without remember-me
// expire after sessionTTL.
func NewAuthService(api *apiclient.Client, store repository.SlotStore, sessionTTL time.Duration) *AuthService {
	return &AuthService{
		api:        api,
		store:      store,
		validate:   validator.New(),
		sessionTTL: sessionTTL,
		inflight:   newInflightGuard(),
	}
}

// Login submits credentials. On success the token and user are stored and the
// outcome asks for navigation to / after 1.5s.
func (s *AuthService) Login(ctx context.Context, clientID string, creds model.Credentials) model.Outcome {
	if clientID == "" {
		slog.Error("login without client id", "error", ErrClientIDRequired)
		return networkFailure()
	}
	if out, ok := s.rejectMissing(creds); !ok {
		return out
	}

	release, ok := s.inflight.acquire(clientID, FormLogin)
	if !ok {
		return busy()
	}
	defer release()

	cookies := s.loadCookies(ctx, clientID)
	res, err := s.api.Login(ctx, model.NewLoginRequest(creds), cookies)
	if ctx.Err() != nil {
		return cancelled()
	}
	if res != nil {
		s.saveCookies(ctx, clientID, cookies, res.Cookies)
	}
	if err != nil {
		return failure(err, MsgLoginFailed)
	}

	ttl := s.sessionTTL
	if creds.RememberMe {
		ttl = 0
	}
	if res.Body.Token != "" {
		s.writeSlot(ctx, clientID, SlotToken, res.Body.Token, ttl)
	}
	if res.Body.HasUser() {
		s.writeSlot(ctx, clientID, SlotUser, string(res.Body.User), ttl)
	}

	return model.Outcome{
		Kind:     model.OutcomeSuccess,
		Message:  MsgLoginSuccess,
		Redirect: LoginRedirect,
		Delay:    LoginDelay,
	}
}

// Register submits a registration profile. On success a returned token is
// stored and the outcome asks for navigation to /login after 2s.
func (s *AuthService) Register(ctx context.Context, clientID string, profile model.RegistrationProfile) model.Outcome {
	if clientID == "" {
		slog.Error("registration without client id", "error", ErrClientIDRequired)
		return networkFailure()
	}
	if out, ok := s.rejectMissing(profile); !ok {
		return out
	}

	release, ok := s.inflight.acquire(clientID, FormRegister)
	if !ok {
		return busy()
	}
	defer release()

	cookies := s.loadCookies(ctx, clientID)
	res, err := s.api.Register(ctx, model.NewRegisterRequest(profile), cookies)
	if ctx.Err() != nil {
		return cancelled()
	}
	if res != nil {
		s.saveCookies(ctx, clientID, cookies, res.Cookies)
	}
	if err != nil {
		var nerr *apiclient.NetworkError
		if errors.As(err, &nerr) {
			slog.Error("registration error", "client_id", clientID, "api", s.api.BaseURL(), "error", err)
		}
		return failure(err, MsgRegisterFailed)
	}

	if res.Body.Token != "" {
		s.writeSlot(ctx, clientID, SlotToken, res.Body.Token, s.sessionTTL)
	}

	return model.Outcome{
		Kind:     model.OutcomeSuccess,
		Message:  MsgRegisterSuccess,
		Redirect: RegisterRedirect,
		Delay:    RegisterDelay,
	}
}

// Artifact returns the session artifact currently stored for the client.
func (s *AuthService) Artifact(ctx context.Context, clientID string) (model.SessionArtifact, error) {
	var a model.SessionArtifact

	token, err := s.store.Get(ctx, clientID, SlotToken)
	if err != nil && !errors.Is(err, repository.ErrSlotNotFound) {
		return a, err
	}
	a.Token = token

	user, err := s.store.Get(ctx, clientID, SlotUser)
	if err != nil && !errors.Is(err, repository.ErrSlotNotFound) {
		return a, err
	}
	if user != "" {
		a.User = []byte(user)
	}

	return a, nil
}

// writeSlot logs instead of failing: the API already accepted the request.
func (s *AuthService) writeSlot(ctx context.Context, clientID, key, value string, ttl time.Duration) {
	if err := s.store.Set(ctx, clientID, key, value, ttl); err != nil {
		slog.Error("storing session slot failed", "client_id", clientID, "slot", key, "error", err)
	}
}

func (s *AuthService) rejectMissing(form any) (model.Outcome, bool) {
	err := s.validate.Struct(form)
	if err == nil {
		return model.Outcome{}, true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		label, ok := fieldLabels[verrs[0].Field()]
		if !ok {
			label = verrs[0].Field()
		}
		return model.Outcome{Kind: model.OutcomeRejected, Message: label + " is required", IsError: true}, false
	}

	slog.Error("validating form failed", "error", err)
	return model.Outcome{Kind: model.OutcomeRejected, Message: "Please fill out all required fields", IsError: true}, false
}

func failure(err error, fallback string) model.Outcome {
	var verr *apiclient.ValidationError
	var serr *apiclient.ServerError

	switch {
	case errors.As(err, &verr):
		msg := verr.Error()
		if msg == "" {
			msg = fallback
		}
		return model.Outcome{Kind: model.OutcomeValidationError, Message: msg, IsError: true}
	case errors.As(err, &serr):
		msg := serr.Message
		if msg == "" {
			msg = fallback
		}
		return model.Outcome{Kind: model.OutcomeServerError, Message: msg, IsError: true}
	default:
		return networkFailure()
	}
}

func networkFailure() model.Outcome {
	return model.Outcome{Kind: model.OutcomeNetworkError, Message: MsgNetworkError, IsError: true}
}

func busy() model.Outcome {
	return model.Outcome{Kind: model.OutcomeBusy, Message: MsgBusy, IsError: true}
}

func cancelled() model.Outcome {
	return model.Outcome{Kind: model.OutcomeCancelled, Message: MsgCancelled, IsError: true}
}
