package utils

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

var mailClient *gomail.Dialer

// InitMailClient wires the SMTP dialer from the environment. Mail is a
// side-effect channel only; callers treat a failed send as a logged event,
// never as a reason to fail the primary operation.
func InitMailClient() {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		host = "smtp.gmail.com"
	}
	port := 587
	if p, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil && p > 0 {
		port = p
	}
	username := os.Getenv("EMAIL_USER")
	password := os.Getenv("EMAIL_PASS")

	if username == "" || password == "" {
		log.Println("EMAIL_USER/EMAIL_PASS not set, outgoing mail disabled")
		return
	}

	mailClient = gomail.NewDialer(host, port, username, password)
}

func SendMail(to, subject, html string) (bool, error) {
	if mailClient == nil {
		return false, fmt.Errorf("mail client not initialized")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("ValueXChange <%s>", os.Getenv("EMAIL_USER")))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	if err := mailClient.DialAndSend(m); err != nil {
		log.Printf("mail: send to %s failed: %v", to, err)
		return false, err
	}
	return true, nil
}
