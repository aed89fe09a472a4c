package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/universityinsights/insights-web/internal/model"
)

const (
	fieldEmail = iota
	fieldPassword
)

const (
	fieldFirstName = iota
	fieldLastName
	fieldRegEmail
	fieldRegPassword
)

// authForm is one of the two submission screens. The login form has an extra
// focus stop after its inputs for the remember-me checkbox.
type authForm struct {
	title    string
	inputs   []textinput.Model
	focus    int
	checkbox bool
	remember bool
}

func newInput(placeholder string, password bool) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	ti.CharLimit = 256
	if password {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	return ti
}

func newLoginForm() *authForm {
	f := &authForm{
		title: "Student Login",
		inputs: []textinput.Model{
			newInput("Email", false),
			newInput("Password", true),
		},
		checkbox: true,
	}
	f.inputs[0].Focus()
	return f
}

func newRegisterForm() *authForm {
	f := &authForm{
		title: "Register Student",
		inputs: []textinput.Model{
			newInput("First Name", false),
			newInput("Last Name", false),
			newInput("Email", false),
			newInput("Password", true),
		},
	}
	f.inputs[0].Focus()
	return f
}

func (f *authForm) stops() int {
	if f.checkbox {
		return len(f.inputs) + 1
	}
	return len(f.inputs)
}

func (f *authForm) onCheckbox() bool {
	return f.checkbox && f.focus == len(f.inputs)
}

func (f *authForm) move(delta int) tea.Cmd {
	n := f.stops()
	f.focus = (f.focus + delta + n) % n

	var cmd tea.Cmd
	for i := range f.inputs {
		if i == f.focus {
			cmd = f.inputs[i].Focus()
			continue
		}
		f.inputs[i].Blur()
	}
	return cmd
}

func (f *authForm) update(msg tea.Msg) tea.Cmd {
	if f.focus >= len(f.inputs) {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *authForm) value(i int) string {
	return strings.TrimSpace(f.inputs[i].Value())
}

func (f *authForm) credentials() model.Credentials {
	return model.Credentials{
		Email:      f.value(fieldEmail),
		Password:   f.inputs[fieldPassword].Value(),
		RememberMe: model.Checkbox(f.remember),
	}
}

func (f *authForm) profile() model.RegistrationProfile {
	return model.RegistrationProfile{
		FirstName: f.value(fieldFirstName),
		LastName:  f.value(fieldLastName),
		Email:     f.value(fieldRegEmail),
		Password:  f.inputs[fieldRegPassword].Value(),
	}
}

func (f *authForm) view() string {
	var b strings.Builder
	for _, in := range f.inputs {
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	if f.checkbox {
		box := "[ ]"
		if f.remember {
			box = "[x]"
		}
		line := box + " Remember me"
		if f.onCheckbox() {
			line = focusedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("    " + linkStyle.Render("Forgot Password?"))
		b.WriteString("\n")
	}
	return b.String()
}
