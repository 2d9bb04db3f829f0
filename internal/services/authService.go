package services

import (
	"errors"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"geoportal/internal/metrics"
	"geoportal/internal/models"
	"geoportal/internal/repositories"
	"geoportal/internal/utils"
)

var (
	ErrInvalidPhone    = errors.New("invalid phone number")
	ErrInvalidEmail    = errors.New("invalid email")
	ErrInvalidPassword = errors.New("invalid password")
)

// AuthService implements signup and the OTP-gated login and password-reset
// flows over the credential and OTP stores.
type AuthService interface {
	Signup(phone, email, password string) error
	// RequestOTP issues a code for the account matching email and attempts
	// delivery. delivered reports whether the email went out; on transport
	// failure the code is still returned so the caller can fall back to
	// showing it (debug mode only).
	RequestOTP(email, purpose string) (code string, delivered bool, err error)
	CompleteLogin(email, code string) (phone string, err error)
	ResetPassword(email, code, newPassword string) error
}

type authService struct {
	accountRepo  repositories.AccountRepository
	otpService   OTPService
	emailService EmailService
}

func NewAuthService(accountRepo repositories.AccountRepository, otpService OTPService, emailService EmailService) AuthService {
	return &authService{accountRepo: accountRepo, otpService: otpService, emailService: emailService}
}

func (s *authService) Signup(phone, email, password string) error {
	if !utils.IsValidPhone(phone) {
		return ErrInvalidPhone
	}
	if !utils.IsValidEmail(email) {
		return ErrInvalidEmail
	}
	if !utils.IsValidPassword(password) {
		return ErrInvalidPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), 8)
	if err != nil {
		log.Error().Err(err).Msg("Failed to hash password during signup")
		return err
	}

	if err := s.accountRepo.Create(&models.Account{
		Phone:    phone,
		Email:    email,
		Password: string(hashed),
	}); err != nil {
		return err
	}

	metrics.SignupsTotal.Inc()
	log.Info().Str("phone", phone).Msg("Account registered")
	return nil
}

func (s *authService) RequestOTP(email, purpose string) (string, bool, error) {
	if !utils.IsValidEmail(email) {
		return "", false, ErrInvalidEmail
	}
	if s.accountRepo.FindByEmail(email) == nil {
		return "", false, repositories.ErrAccountNotFound
	}

	code, err := s.otpService.Issue(email, purpose)
	if err != nil {
		return "", false, err
	}

	purposeText := purpose
	if purpose == models.OTPPurposeReset {
		purposeText = "password reset"
	}
	if err := s.emailService.SendOTP(email, code, purposeText); err != nil {
		return code, false, nil
	}
	return code, true, nil
}

func (s *authService) CompleteLogin(email, code string) (string, error) {
	if !utils.IsValidEmail(email) {
		return "", ErrInvalidEmail
	}

	if err := s.otpService.Verify(email, models.OTPPurposeLogin, code); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("failed").Inc()
		return "", err
	}

	account := s.accountRepo.FindByEmail(email)
	if account == nil {
		metrics.LoginAttemptsTotal.WithLabelValues("failed").Inc()
		return "", repositories.ErrAccountNotFound
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	log.Info().Str("phone", account.Phone).Msg("User logged in")
	return account.Phone, nil
}

func (s *authService) ResetPassword(email, code, newPassword string) error {
	if !utils.IsValidEmail(email) {
		return ErrInvalidEmail
	}

	// Non-consuming check first: an invalid new password must leave the OTP
	// usable for a correctly formatted retry until expiry.
	if err := s.otpService.Check(email, models.OTPPurposeReset, code); err != nil {
		return err
	}

	if !utils.IsValidPassword(newPassword) {
		return ErrInvalidPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), 8)
	if err != nil {
		log.Error().Err(err).Msg("Failed to hash password during reset")
		return err
	}

	if err := s.accountRepo.UpdatePassword(email, string(hashed)); err != nil {
		return err
	}

	s.otpService.Consume(email)
	metrics.PasswordResetsTotal.Inc()
	log.Info().Msg("Password reset completed")
	return nil
}
