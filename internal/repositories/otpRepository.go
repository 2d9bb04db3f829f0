package repositories

import (
	"sync"

	"geoportal/internal/models"
	"geoportal/internal/utils"
)

// OTPRepository holds pending one-time passcodes in memory, keyed by
// lowercased email. Put overwrites unconditionally, so at most one record
// is live per email.
type OTPRepository interface {
	Put(email string, otp *models.OTP)
	Get(email string) *models.OTP
	Delete(email string)
}

type otpRepository struct {
	mu    sync.Mutex
	codes map[string]*models.OTP
}

func NewOTPRepository() OTPRepository {
	return &otpRepository{codes: make(map[string]*models.OTP)}
}

func (r *otpRepository) Put(email string, otp *models.OTP) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes[utils.NormalizeEmail(email)] = otp
}

func (r *otpRepository) Get(email string) *models.OTP {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.codes[utils.NormalizeEmail(email)]
}

func (r *otpRepository) Delete(email string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.codes, utils.NormalizeEmail(email))
}
