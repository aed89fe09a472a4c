// Package tui is the terminal client: the landing screen plus the login and
// registration forms, driven by the same auth flow as the web front.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/universityinsights/insights-web/internal/model"
)

type screen int

const (
	screenHome screen = iota
	screenLogin
	screenRegister
)

// AuthFlow is the part of the auth service the terminal client drives.
type AuthFlow interface {
	Login(ctx context.Context, clientID string, creds model.Credentials) model.Outcome
	Register(ctx context.Context, clientID string, profile model.RegistrationProfile) model.Outcome
	Artifact(ctx context.Context, clientID string) (model.SessionArtifact, error)
}

type submitResultMsg struct {
	seq     int
	outcome model.Outcome
}

type navigateMsg struct {
	seq int
	to  screen
}

type artifactMsg struct {
	artifact model.SessionArtifact
	err      error
}

var homeCards = [][2]string{
	{"Financial Assessment", "Detailed analysis of your financial readiness for studying abroad"},
	{"Expert Guidance", "Professional advice on managing education expenses and investments"},
	{"Cost Planning", "Comprehensive planning for tuition, living expenses, and other costs"},
}

// App is the root bubbletea model.
type App struct {
	auth     AuthFlow
	clientID string

	screen screen
	form   *authForm
	status model.Outcome

	// seq identifies the current screen visit; results and navigation ticks
	// carrying an older seq are dropped.
	seq        int
	submitting bool
	cancel     context.CancelFunc

	signedIn bool
	width    int
}

// NewApp creates the terminal client for the given storage client ID.
func NewApp(auth AuthFlow, clientID string) *App {
	return &App{auth: auth, clientID: clientID, screen: screenHome}
}

func (a *App) Init() tea.Cmd {
	return a.loadArtifact()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			a.leave()
			return a, tea.Quit
		}
		if a.screen == screenHome {
			return a.updateHome(msg)
		}
		return a.updateForm(msg)

	case submitResultMsg:
		return a.handleResult(msg)

	case navigateMsg:
		if msg.seq != a.seq {
			return a, nil
		}
		return a, a.enter(msg.to)

	case artifactMsg:
		if msg.err != nil {
			slog.Warn("reading stored session failed", "error", msg.err)
			return a, nil
		}
		a.signedIn = msg.artifact.Token != ""
		return a, nil
	}

	if a.form != nil {
		return a, a.form.update(msg)
	}
	return a, nil
}

func (a *App) updateHome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return a, tea.Quit
	case "l":
		return a, a.enter(screenLogin)
	case "r", "enter":
		return a, a.enter(screenRegister)
	}
	return a, nil
}

func (a *App) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return a, a.enter(screenHome)
	case "ctrl+l":
		return a, a.enter(screenLogin)
	case "ctrl+r":
		return a, a.enter(screenRegister)
	case "tab", "down":
		return a, a.form.move(1)
	case "shift+tab", "up":
		return a, a.form.move(-1)
	case " ", "space":
		if a.form.onCheckbox() {
			a.form.remember = !a.form.remember
			return a, nil
		}
	case "enter":
		return a, a.submit()
	}
	return a, a.form.update(msg)
}

// enter switches screens. Any submission still running on the screen being
// left is cancelled and its pending navigation is dropped.
func (a *App) enter(to screen) tea.Cmd {
	a.leave()
	a.seq++
	a.screen = to
	a.status = model.Outcome{}

	switch to {
	case screenLogin:
		a.form = newLoginForm()
	case screenRegister:
		a.form = newRegisterForm()
	default:
		a.form = nil
		return a.loadArtifact()
	}
	return nil
}

func (a *App) leave() {
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.submitting = false
}

func (a *App) submit() tea.Cmd {
	if a.submitting {
		return nil
	}

	a.status = model.Outcome{}
	a.submitting = true

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	seq := a.seq
	clientID := a.clientID

	if a.screen == screenLogin {
		creds := a.form.credentials()
		return func() tea.Msg {
			return submitResultMsg{seq: seq, outcome: a.auth.Login(ctx, clientID, creds)}
		}
	}

	profile := a.form.profile()
	return func() tea.Msg {
		return submitResultMsg{seq: seq, outcome: a.auth.Register(ctx, clientID, profile)}
	}
}

func (a *App) handleResult(msg submitResultMsg) (tea.Model, tea.Cmd) {
	if msg.seq != a.seq {
		return a, nil
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.submitting = false

	if msg.outcome.Kind == model.OutcomeCancelled {
		return a, nil
	}
	a.status = msg.outcome
	if !msg.outcome.Succeeded() {
		return a, nil
	}

	to := screenHome
	if msg.outcome.Redirect == "/login" {
		to = screenLogin
	}
	seq := a.seq
	return a, tea.Tick(msg.outcome.Delay, func(time.Time) tea.Msg {
		return navigateMsg{seq: seq, to: to}
	})
}

func (a *App) loadArtifact() tea.Cmd {
	clientID := a.clientID
	return func() tea.Msg {
		art, err := a.auth.Artifact(context.Background(), clientID)
		return artifactMsg{artifact: art, err: err}
	}
}

func (a *App) View() string {
	if a.screen == screenHome {
		return a.viewHome()
	}
	return a.viewForm()
}

func (a *App) viewHome() string {
	cards := make([]string, 0, len(homeCards))
	for _, c := range homeCards {
		cards = append(cards, cardStyle.Render(cardTitleStyle.Render(c[0])+"\n"+c[1]))
	}

	account := "Not signed in"
	if a.signedIn {
		account = successStyle.Render("Signed in")
	}

	sections := []string{
		brandStyle.Render("University Insights") + "    " + account,
		"",
		headlineStyle.Render("Plan Your Study Abroad Journey"),
		leadStyle.Render("Get comprehensive financial assessments to make informed decisions about managing your finances for studying abroad."),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, cards...),
		"",
		linkStyle.Render("Get Started Now →") + " (enter)",
		hintStyle.Render("l → login    r → register    q → quit"),
		hintStyle.Render("© 2024 University Insights. All rights reserved.\nVisit us at: universityinsights.in"),
	}
	return strings.Join(sections, "\n")
}

func (a *App) viewForm() string {
	var b strings.Builder
	b.WriteString(headlineStyle.Render(a.form.title))
	b.WriteString("\n")
	if line := a.statusLine(); line != "" {
		b.WriteString(line)
		b.WriteString("\n\n")
	}
	b.WriteString(a.form.view())

	if a.submitting {
		b.WriteString("\nSubmitting...")
	}

	var cross string
	if a.screen == screenLogin {
		cross = "Don't have an account? ctrl+r → Register here"
	} else {
		cross = "Already have an account? ctrl+l → Login here"
	}
	b.WriteString(hintStyle.Render(fmt.Sprintf("%s\ntab → next field    enter → submit    esc → home", cross)))
	return panelStyle.Render(b.String())
}

func (a *App) statusLine() string {
	if a.status.Message == "" {
		return ""
	}
	if a.status.IsError {
		return errorStyle.Render(a.status.Message)
	}
	return successStyle.Render(a.status.Message)
}
