package ui

import (
	"errors"
	"testing"

	"tgpcet-it/internal/identity"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "wrong password", err: &identity.Error{Code: identity.CodeWrongPassword}, want: "Incorrect password. Please try again."},
		{name: "popup blocked", err: &identity.Error{Code: identity.CodePopupBlocked, Message: "x"}, want: "Popup was blocked. Please allow popups or try again."},
		{name: "grpc unavailable", err: status.Error(codes.Unavailable, "backend down"), want: "Service temporarily unavailable. Please try again."},
		{name: "grpc permission", err: status.Error(codes.PermissionDenied, "nope"), want: "You do not have permission to perform this action."},
		{name: "unknown falls back to raw", err: errors.New("disk quota exceeded"), want: "disk quota exceeded"},
		{name: "bare unknown code", err: &identity.Error{Code: "auth/internal-error"}, want: unexpectedMessage},
		{name: "empty message", err: errors.New(""), want: unexpectedMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorMessage(tt.err))
		})
	}
}

func TestSpinnerSizes(t *testing.T) {
	assert.Equal(t, "20px", SpinnerSize("small"))
	assert.Equal(t, "60px", SpinnerSize("large"))
	assert.Equal(t, "40px", SpinnerSize("huge"))
	assert.Contains(t, string(Spinner("small")), "width: 20px")
}

func TestBuildersEscape(t *testing.T) {
	assert.Contains(t, string(Overlay("")), "Loading...")
	assert.Contains(t, string(Overlay("<b>Saving</b>")), "&lt;b&gt;Saving&lt;/b&gt;")
	panel := string(RetryPanel(`Failed "events"`, "/events"))
	assert.Contains(t, panel, "Failed &#34;events&#34;")
	assert.Contains(t, panel, `action="/events"`)
	assert.Contains(t, string(ConnectionIndicator(false)), "Offline")
	assert.Contains(t, string(ConnectionIndicator(true)), "Online")
}
