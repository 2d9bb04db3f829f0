package models

// Account is a registered portal user, keyed by phone number in the
// persistent store. Password holds a bcrypt hash, never the plaintext.
type Account struct {
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
