package identity

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testClientID = "client-123.apps.googleusercontent.com"

func newTestGoogle(t *testing.T) (*Google, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	g := NewGoogle(GoogleConfig{ClientID: testClientID, RedirectURL: "http://localhost:8080/login/google/callback"})
	g.WithKeys(StaticKeys{"k1": &key.PublicKey})
	return g, key
}

func signToken(t *testing.T, key *rsa.PrivateKey, kid string, claims googleClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = kid
	raw, err := tok.SignedString(key)
	require.NoError(t, err)
	return raw
}

func validClaims() googleClaims {
	now := time.Now()
	return googleClaims{
		Email:         "student@tgpcet.ac.in",
		EmailVerified: true,
		Name:          "Asha Patil",
		Picture:       "https://example.com/a.png",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "google-uid-1",
			Issuer:    "https://accounts.google.com",
			Audience:  jwt.ClaimStrings{testClientID},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
}

func TestGooglePopupValidCredential(t *testing.T) {
	g, key := newTestGoogle(t)

	p, err := g.SignInWithPopup(context.Background(), PopupResult{Credential: signToken(t, key, "k1", validClaims())})
	require.NoError(t, err)
	assert.Equal(t, Principal{
		UID:         "google-uid-1",
		Email:       "student@tgpcet.ac.in",
		DisplayName: "Asha Patil",
		PhotoURL:    "https://example.com/a.png",
	}, p)
}

func TestGooglePopupRejects(t *testing.T) {
	g, key := newTestGoogle(t)
	other, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	wrongAud := validClaims()
	wrongAud.Audience = jwt.ClaimStrings{"someone-else"}

	wrongIss := validClaims()
	wrongIss.Issuer = "https://evil.example.com"

	unverified := validClaims()
	unverified.EmailVerified = false

	tests := []struct {
		name     string
		res      PopupResult
		wantCode string
	}{
		{name: "popup blocked", res: PopupResult{ErrorCode: CodePopupBlocked}, wantCode: CodePopupBlocked},
		{name: "popup closed", res: PopupResult{ErrorCode: CodePopupClosedByUser}, wantCode: CodePopupClosedByUser},
		{name: "no credential", res: PopupResult{}, wantCode: CodeInvalidCredential},
		{name: "garbage", res: PopupResult{Credential: "not.a.jwt"}, wantCode: CodeInvalidCredential},
		{name: "expired", res: PopupResult{Credential: signToken(t, key, "k1", expired)}, wantCode: CodeInvalidCredential},
		{name: "wrong audience", res: PopupResult{Credential: signToken(t, key, "k1", wrongAud)}, wantCode: CodeInvalidCredential},
		{name: "wrong issuer", res: PopupResult{Credential: signToken(t, key, "k1", wrongIss)}, wantCode: CodeInvalidCredential},
		{name: "unverified email", res: PopupResult{Credential: signToken(t, key, "k1", unverified)}, wantCode: CodeInvalidCredential},
		{name: "unknown kid", res: PopupResult{Credential: signToken(t, key, "k2", validClaims())}, wantCode: CodeInvalidCredential},
		{name: "foreign key", res: PopupResult{Credential: signToken(t, other, "k1", validClaims())}, wantCode: CodeInvalidCredential},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.SignInWithPopup(context.Background(), tt.res)
			var idErr *Error
			require.ErrorAs(t, err, &idErr)
			assert.Equal(t, tt.wantCode, idErr.Code)
		})
	}
}

func TestGoogleKeysUnreachableIsNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	g := NewGoogle(GoogleConfig{ClientID: testClientID})
	g.WithKeys(NewJWKSource(srv.Client(), srv.URL))

	_, err := g.SignInWithPopup(context.Background(), PopupResult{Credential: "x.y.z"})
	var idErr *Error
	require.ErrorAs(t, err, &idErr)
	assert.Equal(t, CodeNetworkRequestFailed, idErr.Code)
}

func TestJWKSourceParsesAndCaches(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		n := base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes())
		e := base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.PublicKey.E)).Bytes())
		_, _ = w.Write([]byte(`{"keys":[{"kty":"RSA","kid":"abc","n":"` + n + `","e":"` + e + `"},{"kty":"EC","kid":"skip"}]}`))
	}))
	defer srv.Close()

	src := NewJWKSource(srv.Client(), srv.URL)
	keys, err := src.Keys(context.Background())
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, 0, keys["abc"].N.Cmp(key.PublicKey.N))
	assert.Equal(t, key.PublicKey.E, keys["abc"].E)

	_, err = src.Keys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, hits)
}

func TestGoogleRedirectURLCarriesState(t *testing.T) {
	g, _ := newTestGoogle(t)
	u := g.RedirectURL("state-xyz")
	assert.Contains(t, u, "state=state-xyz")
	assert.Contains(t, u, "client_id="+testClientID)
	assert.Contains(t, u, "accounts.google.com")
}
