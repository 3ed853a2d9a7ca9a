// Package mailer delivers the transactional messages the account flows
// depend on: activation links, password reset links and reset
// confirmations.
package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// AppURL is the public base URL embedded in activation and reset links.
	AppURL string
}

type Mailer struct {
	dialer *gomail.Dialer
	from   string
	appURL string
}

func New(cfg Config) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		appURL: cfg.AppURL,
	}
}

func (m *Mailer) SendActivation(to, token string) error {
	const op = "mailer.Mailer.SendActivation"

	link := activationLink(m.appURL, token)
	body := fmt.Sprintf(`<h1>Welcome!</h1>
<p>Thank you for joining our platform. To activate your account, please follow the link below:</p>
<p><a href="%s">Activate Account</a></p>
<p>The link is valid for one hour.</p>`, link)

	if err := m.send(to, "Account Activation", body); err != nil {
		return fmt.Errorf("%s: failed to send activation email: %w", op, err)
	}

	return nil
}

func (m *Mailer) SendPasswordReset(to, token string) error {
	const op = "mailer.Mailer.SendPasswordReset"

	link := resetLink(m.appURL, token)
	body := fmt.Sprintf(`<h1>Password Reset Request</h1>
<p>You are receiving this email because you (or someone else) requested a password reset for your account.</p>
<p><a href="%s">Reset Password</a></p>
<p>If you did not request this, please ignore this email and your password will remain unchanged.</p>`, link)

	if err := m.send(to, "Password Reset", body); err != nil {
		return fmt.Errorf("%s: failed to send password reset email: %w", op, err)
	}

	return nil
}

func (m *Mailer) SendResetConfirmation(to string) error {
	const op = "mailer.Mailer.SendResetConfirmation"

	body := `<p>Your password has been successfully reset.</p>`

	if err := m.send(to, "Password Reset Confirmation", body); err != nil {
		return fmt.Errorf("%s: failed to send confirmation email: %w", op, err)
	}

	return nil
}

func (m *Mailer) send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	return m.dialer.DialAndSend(msg)
}

func activationLink(appURL, token string) string {
	return fmt.Sprintf("%s/activate/%s", appURL, token)
}

func resetLink(appURL, token string) string {
	return fmt.Sprintf("%s/reset-password/%s", appURL, token)
}
