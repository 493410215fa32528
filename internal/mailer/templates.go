package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// accountEmailData feeds the welcome and password-reset templates.
type accountEmailData struct {
	Username     string
	TempPassword string
	Role         string
}

// BuildWelcomeMessage renders the welcome email for a freshly created account.
func BuildWelcomeMessage(to, username, role, tempPassword string) (Message, error) {
	html, err := render("welcome.html", accountEmailData{
		Username:     username,
		TempPassword: tempPassword,
		Role:         role,
	})
	if err != nil {
		return Message{}, err
	}

	text := fmt.Sprintf(
		"Welcome to Bible Facts Admin\n\nHello %s,\n\nAn account has been created for you.\nTemporary password: %s\nRole: %s\n\nSign in and change your password right away.\n",
		username, tempPassword, role)

	return Message{
		To:      []string{to},
		Subject: "Welcome to Bible Facts Admin",
		HTML:    html,
		Text:    text,
	}, nil
}

// BuildPasswordResetMessage renders the password-reset email.
func BuildPasswordResetMessage(to, username, tempPassword string) (Message, error) {
	html, err := render("password_reset.html", accountEmailData{
		Username:     username,
		TempPassword: tempPassword,
	})
	if err != nil {
		return Message{}, err
	}

	text := fmt.Sprintf(
		"Password Reset\n\nHello %s,\n\nYour password has been reset.\nTemporary password: %s\n\nSign in and change your password right away.\n",
		username, tempPassword)

	return Message{
		To:      []string{to},
		Subject: "Your password has been reset",
		HTML:    html,
		Text:    text,
	}, nil
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}
	return buf.String(), nil
}
