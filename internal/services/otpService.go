package services

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"geoportal/internal/metrics"
	"geoportal/internal/models"
	"geoportal/internal/repositories"
	"geoportal/internal/utils"
)

const OTPExpirationMinutes = 5

var (
	ErrNoPendingOTP       = errors.New("no OTP found for this email")
	ErrOTPExpired         = errors.New("OTP expired")
	ErrOTPPurposeMismatch = errors.New("no OTP for this purpose")
	ErrIncorrectOTP       = errors.New("incorrect OTP")
)

// OTPService issues and verifies one-time passcodes. Exactly one code is
// outstanding per email; issuing a new one overwrites unconditionally.
type OTPService interface {
	Issue(email, purpose string) (string, error)
	// Check validates a submitted code without consuming it. Expired records
	// are still evicted.
	Check(email, purpose, code string) error
	// Verify is Check plus consumption of the record on success.
	Verify(email, purpose, code string) error
	// Consume evicts any pending record for email.
	Consume(email string)
}

type otpService struct {
	otpRepo repositories.OTPRepository
	now     func() time.Time
}

func NewOTPService(otpRepo repositories.OTPRepository) OTPService {
	return &otpService{otpRepo: otpRepo, now: time.Now}
}

func (s *otpService) Issue(email, purpose string) (string, error) {
	code, err := utils.GenerateOTP()
	if err != nil {
		return "", err
	}

	s.otpRepo.Put(email, &models.OTP{
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: s.now().Add(OTPExpirationMinutes * time.Minute),
	})

	metrics.OTPIssuedTotal.WithLabelValues(purpose).Inc()
	log.Info().Str("purpose", purpose).Msg("OTP issued")
	return code, nil
}

func (s *otpService) Check(email, purpose, code string) error {
	rec := s.otpRepo.Get(email)
	if rec == nil {
		return ErrNoPendingOTP
	}

	if s.now().After(rec.ExpiresAt) {
		s.otpRepo.Delete(email)
		return ErrOTPExpired
	}

	if rec.Purpose != purpose {
		return ErrOTPPurposeMismatch
	}

	// Record is retained on a wrong code so the user can retry until expiry.
	if rec.Code != code {
		return ErrIncorrectOTP
	}

	return nil
}

func (s *otpService) Verify(email, purpose, code string) error {
	if err := s.Check(email, purpose, code); err != nil {
		return err
	}
	s.otpRepo.Delete(email)
	return nil
}

func (s *otpService) Consume(email string) {
	s.otpRepo.Delete(email)
}
