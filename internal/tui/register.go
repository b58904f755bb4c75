package tui

import (
	"context"
	"strings"

	"github.com/MKhiriev/orchestra/internal/service"
	"github.com/MKhiriev/orchestra/internal/validators"
	"github.com/MKhiriev/orchestra/models"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	registerName = iota
	registerEmail
	registerPassword
	registerRepeat
)

// RegisterModel is the sign-up screen. A successful registration signs the
// user in, so the result is turned into a [LoginResult].
type RegisterModel struct {
	ctx  context.Context
	auth service.AuthService

	form       form
	submitting bool
	errMsg     string
}

func NewRegisterModel(ctx context.Context, auth service.AuthService) *RegisterModel {
	return &RegisterModel{
		ctx:  ctx,
		auth: auth,
		form: newForm(
			newInput("name", 64, false),
			newInput("e-mail", 254, false),
			newInput("password", 256, true),
			newInput("repeat password", 256, true),
		),
	}
}

func (m *RegisterModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *RegisterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(RegisterResult); ok {
		m.submitting = false
		if result.Err != nil {
			m.errMsg = humanizeError(result.Err)
			return m, nil
		}
		m.errMsg = ""
		m.form.reset()
		return m, func() tea.Msg { return LoginResult{User: result.User} }
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, keys.esc):
			m.submitting = false
			m.errMsg = ""
			return m, func() tea.Msg { return NavigateTo{Page: pageMenu} }
		case key.Matches(keyMsg, keys.tab):
			m.form.focusNext()
			return m, nil
		case key.Matches(keyMsg, keys.backtab):
			m.form.focusPrev()
			return m, nil
		case key.Matches(keyMsg, keys.enter):
			if m.submitting {
				return m, nil
			}

			req := models.RegisterRequest{
				Name:     strings.TrimSpace(m.form.value(registerName)),
				Email:    strings.TrimSpace(m.form.value(registerEmail)),
				Password: m.form.value(registerPassword),
			}
			if req.Email == "" || req.Password == "" {
				m.errMsg = "E-mail и пароль обязательны"
				return m, nil
			}
			if len(req.Password) < validators.MinPasswordLength {
				m.errMsg = "Пароль слишком короткий"
				return m, nil
			}
			if req.Password != m.form.value(registerRepeat) {
				m.errMsg = "Пароли не совпадают"
				return m, nil
			}

			m.errMsg = ""
			m.submitting = true
			return m, m.cmdRegister(req)
		}
	}

	return m, m.form.update(msg)
}

func (m *RegisterModel) View() string {
	labels := []string{"Имя", "E-mail", "Пароль", "Повтор"}

	var b strings.Builder
	b.WriteString("Поле    │ Значение\n")
	b.WriteString("────────┼────────────────────────────────────────────\n")
	for i, label := range labels {
		b.WriteString(label)
		b.WriteString(strings.Repeat(" ", max(8-len([]rune(label)), 0)))
		b.WriteString("│ [")
		b.WriteString(m.form.inputs[i].View())
		b.WriteString("]\n")
	}

	if m.submitting {
		b.WriteString("\n[Зарегистрироваться...]\n")
	} else {
		b.WriteString("\n[Зарегистрироваться]\n")
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Ошибка: " + m.errMsg))
		b.WriteString("\n")
	}

	return renderPage("РЕГИСТРАЦИЯ", strings.TrimRight(b.String(), "\n"), "esc: назад │ tab: след. поле │ enter: подтвердить")
}

func (m *RegisterModel) cmdRegister(req models.RegisterRequest) tea.Cmd {
	ctx := m.ctx
	auth := m.auth

	return func() tea.Msg {
		user, err := auth.Register(ctx, req)
		return RegisterResult{User: user, Err: err}
	}
}
