package ui

import (
	"errors"
	"strings"

	"tgpcet-it/internal/retry"
)

const unexpectedMessage = "An unexpected error occurred. Please try again."

// порядок важен: первое совпадение выигрывает
var errorMessages = []struct {
	key     string
	message string
}{
	{"auth/network-request-failed", "Network error. Please check your internet connection and try again."},
	{"auth/popup-blocked", "Popup was blocked. Please allow popups or try again."},
	{"auth/popup-closed-by-user", "Login cancelled. Please try again when ready."},
	{"auth/user-not-found", "No account found with this email."},
	{"auth/wrong-password", "Incorrect password. Please try again."},
	{"auth/email-already-in-use", "This email is already registered."},
	{"auth/weak-password", "Password is too weak. Use at least 6 characters."},
	{"auth/invalid-email", "Please enter a valid email address."},
	{"auth/too-many-requests", "Too many failed attempts. Please wait a few minutes."},
	{"unavailable", "Service temporarily unavailable. Please try again."},
	{"permission-denied", "You do not have permission to perform this action."},
}

// ErrorMessage переводит ошибку бэкенда в текст для пользователя.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	code := retry.Code(err)
	msg := err.Error()
	for _, m := range errorMessages {
		if (code != "" && strings.Contains(code, m.key)) || strings.Contains(msg, m.key) {
			return m.message
		}
	}

	// для своих ошибок с кодом показываем текст без префикса кода
	var c interface{ ErrorCode() string }
	if errors.As(err, &c) && msg == c.ErrorCode() {
		return unexpectedMessage
	}
	if msg == "" {
		return unexpectedMessage
	}
	return msg
}
