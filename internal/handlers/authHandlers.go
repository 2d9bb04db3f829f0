package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/rs/zerolog/log"

	"geoportal/internal/middlewares"
	"geoportal/internal/models"
	"geoportal/internal/repositories"
	"geoportal/internal/services"
	"geoportal/internal/utils"
)

// AuthHandler serves the signup, OTP login, logout and forgot-password
// endpoints. Responses echo the submitted form state so nothing is lost on
// a validation failure.
type AuthHandler struct {
	authService services.AuthService
	store       sessions.Store
	otpDebug    bool
}

func NewAuthHandler(authService services.AuthService, store sessions.Store, otpDebug bool) *AuthHandler {
	return &AuthHandler{authService: authService, store: store, otpDebug: otpDebug}
}

type signupState struct {
	Error string `json:"error"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type otpFlowState struct {
	Error   string `json:"error,omitempty"`
	Info    string `json:"info,omitempty"`
	Email   string `json:"email"`
	OTPSent bool   `json:"otp_sent"`
}

func (a *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	phone := strings.TrimSpace(r.FormValue("phone"))
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	err := a.authService.Signup(phone, email, password)
	if err == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	state := signupState{Phone: phone, Email: email}
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, services.ErrInvalidPhone):
		state.Error = "Phone must be exactly 10 digits."
	case errors.Is(err, services.ErrInvalidEmail):
		state.Error = "Email must end with @gmail.com."
	case errors.Is(err, services.ErrInvalidPassword):
		state.Error = "Password must be 10 characters with uppercase, lowercase and a number."
	case errors.Is(err, repositories.ErrDuplicatePhone):
		state.Error = "This phone number is already registered."
		status = http.StatusConflict
	default:
		log.Error().Err(err).Msg("Signup failed")
		state.Error = "Signup failed. Please try again."
		status = http.StatusInternalServerError
	}
	utils.RespondWithJSON(w, status, state)
}

func (a *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	step := r.FormValue("step")
	if step == "" {
		step = "send_otp"
	}
	email := strings.TrimSpace(r.FormValue("email"))

	switch step {
	case "send_otp":
		a.sendOTP(w, r, email, models.OTPPurposeLogin)
	case "verify_otp":
		a.verifyLogin(w, r, email)
	default:
		utils.SendJSONError(w, "Unknown login step", http.StatusBadRequest)
	}
}

func (a *AuthHandler) sendOTP(w http.ResponseWriter, r *http.Request, email, purpose string) {
	code, delivered, err := a.authService.RequestOTP(email, purpose)
	if err != nil {
		state := otpFlowState{Email: email}
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, services.ErrInvalidEmail):
			state.Error = "Please enter a valid email (@gmail.com)."
		case errors.Is(err, repositories.ErrAccountNotFound):
			state.Error = "No account found with this email."
			status = http.StatusNotFound
		default:
			log.Error().Err(err).Msg("Failed to issue OTP")
			state.Error = "Could not generate OTP. Please try again."
			status = http.StatusInternalServerError
		}
		utils.RespondWithJSON(w, status, state)
		return
	}

	var info string
	switch {
	case delivered && purpose == models.OTPPurposeLogin:
		info = "OTP sent to your email address. Please check your inbox (and spam)."
	case delivered:
		info = "Password reset OTP sent to your email."
	case a.otpDebug:
		// Development fallback only: the code is exposed to the requester
		// when delivery fails and OTP_DEBUG is set.
		info = fmt.Sprintf("Could not send OTP email (SMTP error). For now, use this OTP: %s. Check console for details.", code)
	default:
		info = "Could not send OTP email (SMTP error). Please try again later."
	}

	utils.RespondWithJSON(w, http.StatusOK, otpFlowState{Info: info, Email: email, OTPSent: true})
}

func (a *AuthHandler) verifyLogin(w http.ResponseWriter, r *http.Request, email string) {
	code := strings.TrimSpace(r.FormValue("otp"))

	phone, err := a.authService.CompleteLogin(email, code)
	if err != nil {
		state := otpFlowState{Email: email}
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, services.ErrInvalidEmail):
			state.Error = "Invalid email."
		case errors.Is(err, services.ErrNoPendingOTP), errors.Is(err, services.ErrOTPPurposeMismatch):
			state.Error = "No OTP found for this email. Please request a new OTP."
		case errors.Is(err, services.ErrOTPExpired):
			state.Error = "OTP expired. Please request a new OTP."
		case errors.Is(err, services.ErrIncorrectOTP):
			state.Error = "Incorrect OTP."
			state.OTPSent = true
			status = http.StatusUnauthorized
		case errors.Is(err, repositories.ErrAccountNotFound):
			state.Error = "User not found for this email."
			status = http.StatusNotFound
		default:
			log.Error().Err(err).Msg("Login verification failed")
			state.Error = "Login failed. Please try again."
			status = http.StatusInternalServerError
		}
		utils.RespondWithJSON(w, status, state)
		return
	}

	session, _ := a.store.Get(r, middlewares.SessionName)
	session.Values[middlewares.SessionPhoneKey] = phone
	if err := session.Save(r, w); err != nil {
		log.Error().Err(err).Msg("Failed to save session")
		utils.SendJSONError(w, "Login failed. Please try again.", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (a *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := a.store.Get(r, middlewares.SessionName)
	delete(session.Values, middlewares.SessionPhoneKey)
	session.Options.MaxAge = -1
	if err := session.Save(r, w); err != nil {
		log.Error().Err(err).Msg("Failed to clear session")
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (a *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	step := r.FormValue("step")
	if step == "" {
		step = "send_otp"
	}
	email := strings.TrimSpace(r.FormValue("email"))

	switch step {
	case "send_otp":
		a.sendOTP(w, r, email, models.OTPPurposeReset)
	case "reset":
		a.resetPassword(w, r, email)
	default:
		utils.SendJSONError(w, "Unknown forgot-password step", http.StatusBadRequest)
	}
}

func (a *AuthHandler) resetPassword(w http.ResponseWriter, r *http.Request, email string) {
	code := strings.TrimSpace(r.FormValue("otp"))
	newPassword := r.FormValue("password")

	err := a.authService.ResetPassword(email, code, newPassword)
	if err == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	state := otpFlowState{Email: email}
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, services.ErrInvalidEmail):
		state.Error = "Invalid email."
	case errors.Is(err, services.ErrNoPendingOTP), errors.Is(err, services.ErrOTPPurposeMismatch):
		state.Error = "No reset OTP for this email. Please request a new OTP."
	case errors.Is(err, services.ErrOTPExpired):
		state.Error = "OTP expired. Please request a new OTP."
	case errors.Is(err, services.ErrIncorrectOTP):
		state.Error = "Incorrect OTP."
		state.OTPSent = true
		status = http.StatusUnauthorized
	case errors.Is(err, services.ErrInvalidPassword):
		state.Error = "Password must be 10 characters with uppercase, lowercase and a number."
		state.OTPSent = true
	case errors.Is(err, repositories.ErrAccountNotFound):
		state.Error = "User not found anymore."
		status = http.StatusNotFound
	default:
		log.Error().Err(err).Msg("Password reset failed")
		state.Error = "Password reset failed. Please try again."
		status = http.StatusInternalServerError
	}
	utils.RespondWithJSON(w, status, state)
}
