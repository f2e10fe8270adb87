package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dm/dfsmon/internal/client"
)

const loginTimeout = 15 * time.Second

// loginForm is the username/password prompt shown until the first
// successful login.
type loginForm struct {
	inputs  [2]textinput.Model // 0=username, 1=password
	focus   int
	pending bool   // a login request is in flight
	errMsg  string // last failure, shown under the inputs
}

func newLoginForm(username string) loginForm {
	user := textinput.New()
	user.Placeholder = "username"
	user.CharLimit = 128
	user.SetValue(username)

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.CharLimit = 256
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'

	f := loginForm{inputs: [2]textinput.Model{user, pass}}
	if username != "" {
		f.focus = 1
	}
	f.inputs[f.focus].Focus()
	return f
}

func (f loginForm) username() string { return f.inputs[0].Value() }
func (f loginForm) password() string { return f.inputs[1].Value() }

// Update moves focus on tab/shift+tab and forwards everything else to the
// focused input. submit is true when enter was pressed and no request is
// already pending.
func (f loginForm) Update(msg tea.Msg) (form loginForm, submit bool, cmd tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, keys.Submit):
			if f.pending {
				return f, false, nil
			}
			if f.focus == 0 {
				return f, false, f.setFocus(1)
			}
			return f, true, nil
		case key.Matches(km, keys.Tab), key.Matches(km, keys.ShiftTab),
			km.Type == tea.KeyUp, km.Type == tea.KeyDown:
			return f, false, f.setFocus(1 - f.focus)
		}
	}
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, false, cmd
}

func (f *loginForm) setFocus(i int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = i
	return f.inputs[f.focus].Focus()
}

// loginErrorMessage extracts the operator-facing text from a login error.
func loginErrorMessage(err error) string {
	var authErr *client.AuthError
	if errors.As(err, &authErr) && authErr.Message != "" {
		return authErr.Message
	}
	return "Login failed"
}

// loginCmd performs the login on a goroutine and reports the result.
func loginCmd(s Sessions, username, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loginTimeout)
		defer cancel()
		_, err := s.Login(ctx, username, password)
		return LoginResultMsg{Err: err}
	}
}

// renderLogin renders the centered login box.
func renderLogin(app *App) string {
	f := app.login
	status := StyleDim.Render("enter: log in  tab: next field  ctrl+c: quit")
	switch {
	case f.pending:
		status = StyleDim.Render("Logging in...")
	case f.errMsg != "":
		status = StyleError.Render(f.errMsg)
	}

	box := StyleLoginBox.Render(lipgloss.JoinVertical(lipgloss.Left,
		StyleLoginTitle.Render("dfsmon"),
		StyleDim.Render(app.coordinator),
		"",
		StyleLabel.Render("Username")+f.inputs[0].View(),
		StyleLabel.Render("Password")+f.inputs[1].View(),
		"",
		status,
	))

	if app.width <= 0 || app.height <= 0 {
		return box
	}
	return lipgloss.Place(app.width, app.height, lipgloss.Center, lipgloss.Center, box)
}
