package models

import "time"

const (
	OTPPurposeLogin = "login"
	OTPPurposeReset = "reset"
)

// OTP is a pending one-time passcode, keyed by lowercased email in the
// OTP store. At most one record exists per email; issuing a new code
// overwrites any pending one.
type OTP struct {
	Code      string    `json:"code"`
	Purpose   string    `json:"purpose"`
	ExpiresAt time.Time `json:"expires_at"`
}
