package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var otpMax = big.NewInt(1000000)

// GenerateOTP returns a uniformly random 6-digit code as text, preserving
// leading zeros (range 000000-999999).
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, otpMax)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
