package services

import (
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"

	"geoportal/internal/metrics"
)

// EmailService delivers OTP codes over the configured SMTP transport.
// SendOTP returns an error on transport failure; callers decide how to
// degrade (the handlers fall back to showing the code only in debug mode).
type EmailService interface {
	SendOTP(to, code, purpose string) error
}

type emailService struct {
	host string
	port int
	user string
	pass string
}

func NewEmailService() EmailService {
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}
	return &emailService{
		host: os.Getenv("SMTP_HOST"),
		port: port,
		user: os.Getenv("SMTP_USERNAME"),
		pass: os.Getenv("SMTP_PASSWORD"),
	}
}

func (e *emailService) SendOTP(to, code, purpose string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", e.user)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "GeoPortal OTP")
	m.SetBody("text/plain", fmt.Sprintf("Your GeoPortal %s OTP is: %s\nThis OTP is valid for 5 minutes.", purpose, code))

	d := gomail.NewDialer(e.host, e.port, e.user, e.pass)
	if err := d.DialAndSend(m); err != nil {
		metrics.OTPEmailFailuresTotal.Inc()
		log.Error().Err(err).Str("email", to).Msg("Failed to send OTP email")
		return err
	}

	log.Info().Str("email", to).Msg("OTP email sent")
	return nil
}
