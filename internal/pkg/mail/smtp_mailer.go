package mail

import (
	"fmt"
	"log"
	"net/smtp"

	"github.com/leaguehq/LeagueHQ/internal/pkg/env"
)

// SendMail sends an HTML email via SMTP
func SendMail(to string, subject string, body string) error {
	host := env.GetEnv("SMTP_HOST", "")
	port := env.GetEnv("SMTP_PORT", "")
	username := env.GetEnv("SMTP_USERNAME", "")
	password := env.GetEnv("SMTP_PASSWORD", "")
	sender := env.GetEnv("SMTP_SENDER", "")

	if sender == "" {
		sender = fmt.Sprintf("no-reply@%s", "localhost")
		log.Printf("SMTP_SENDER not set, using default sender: %s", sender)
	}

	var auth smtp.Auth
	if username != "" && password != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	addr := fmt.Sprintf("%s:%s", host, port)

	msg := []byte(
		fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n", sender, to, subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=UTF-8\r\n\r\n" +
			body,
	)

	err := smtp.SendMail(addr, auth, sender, []string{to}, msg)
	if err != nil {
		log.Printf("SMTP send error: %v", err)
	} else {
		log.Printf("Email sent to %s via %s", to, addr)
	}
	return err
}

// SendWelcomeMail sends the onboarding email to a freshly provisioned league
// manager.
func SendWelcomeMail(to, name string) error {
	subject := "Welcome to LeagueHQ"
	body := fmt.Sprintf(
		"<h2>Welcome, %s!</h2>"+
			"<p>Your league manager account is ready. Log in to set up your venues, "+
			"assign your subscription packages and invite assistant managers.</p>"+
			"<p>The LeagueHQ Team</p>",
		name,
	)
	return SendMail(to, subject, body)
}
