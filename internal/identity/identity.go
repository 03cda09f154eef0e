// Package identity — вход через Google (popup с откатом на redirect)
// и по email/паролю.
package identity

import "context"

const (
	CodePopupBlocked          = "auth/popup-blocked"
	CodePopupClosedByUser     = "auth/popup-closed-by-user"
	CodeNetworkRequestFailed  = "auth/network-request-failed"
	CodeCancelledPopupRequest = "auth/cancelled-popup-request"
	CodeUserNotFound          = "auth/user-not-found"
	CodeWrongPassword         = "auth/wrong-password"
	CodeEmailAlreadyInUse     = "auth/email-already-in-use"
	CodeWeakPassword          = "auth/weak-password"
	CodeInvalidEmail          = "auth/invalid-email"
	CodeInvalidCredential     = "auth/invalid-credential"
	CodeOperationNotAllowed   = "auth/operation-not-allowed"
)

// Principal — вошедший пользователь, как его видит провайдер.
type Principal struct {
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string
}

type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Code + ": " + e.Message
	}
	return e.Code
}

func (e *Error) ErrorCode() string { return e.Code }

func (e *Error) Unwrap() error { return e.Err }

func newError(code, msg string, err error) *Error {
	return &Error{Code: code, Message: msg, Err: err}
}

// PopupResult — то, что браузер прислал после попытки входа в popup:
// либо ID-токен Google, либо код ошибки popup'а.
type PopupResult struct {
	Credential string
	ErrorCode  string
}

// Federated — провайдер с двумя способами входа.
type Federated interface {
	SignInWithPopup(ctx context.Context, res PopupResult) (Principal, error)
	RedirectURL(state string) string
	CompleteRedirect(ctx context.Context, code string) (Principal, error)
}
