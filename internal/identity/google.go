package identity

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleCertsURL = "https://www.googleapis.com/oauth2/v3/certs"
	keysTTL        = time.Hour
)

var googleIssuers = []string{"accounts.google.com", "https://accounts.google.com"}

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type Google struct {
	oauth    *oauth2.Config
	clientID string
	keys     KeySource
}

func NewGoogle(cfg GoogleConfig) *Google {
	return &Google{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		clientID: cfg.ClientID,
		keys:     NewJWKSource(http.DefaultClient, googleCertsURL),
	}
}

// WithKeys подменяет источник ключей (тесты).
func (g *Google) WithKeys(keys KeySource) *Google {
	g.keys = keys
	return g
}

func (g *Google) SignInWithPopup(ctx context.Context, res PopupResult) (Principal, error) {
	if res.ErrorCode != "" {
		return Principal{}, newError(res.ErrorCode, "popup sign-in failed", nil)
	}
	if res.Credential == "" {
		return Principal{}, newError(CodeInvalidCredential, "missing credential", nil)
	}
	return g.verify(ctx, res.Credential)
}

func (g *Google) RedirectURL(state string) string {
	return g.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (g *Google) CompleteRedirect(ctx context.Context, code string) (Principal, error) {
	tok, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return Principal{}, newError(CodeNetworkRequestFailed, "code exchange failed", err)
	}
	raw, ok := tok.Extra("id_token").(string)
	if !ok || raw == "" {
		return Principal{}, newError(CodeInvalidCredential, "no id_token in response", nil)
	}
	return g.verify(ctx, raw)
}

type googleClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	jwt.RegisteredClaims
}

func (g *Google) verify(ctx context.Context, raw string) (Principal, error) {
	keys, err := g.keys.Keys(ctx)
	if err != nil {
		return Principal{}, newError(CodeNetworkRequestFailed, "fetch signing keys", err)
	}

	var claims googleClaims
	_, err = jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		kid, _ := t.Header["kid"].(string)
		key, ok := keys[kid]
		if !ok {
			return nil, fmt.Errorf("unknown key id %q", kid)
		}
		return key, nil
	},
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithAudience(g.clientID),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Principal{}, newError(CodeInvalidCredential, "invalid id token", err)
	}

	issuerOK := false
	for _, iss := range googleIssuers {
		if claims.Issuer == iss {
			issuerOK = true
		}
	}
	if !issuerOK {
		return Principal{}, newError(CodeInvalidCredential, "unexpected issuer "+claims.Issuer, nil)
	}
	if claims.Email == "" || !claims.EmailVerified {
		return Principal{}, newError(CodeInvalidCredential, "email not verified", nil)
	}

	return Principal{
		UID:         claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.Name,
		PhotoURL:    claims.Picture,
	}, nil
}

// KeySource отдаёт публичные ключи по kid.
type KeySource interface {
	Keys(ctx context.Context) (map[string]*rsa.PublicKey, error)
}

// StaticKeys — фиксированный набор ключей.
type StaticKeys map[string]*rsa.PublicKey

func (k StaticKeys) Keys(ctx context.Context) (map[string]*rsa.PublicKey, error) {
	return k, nil
}

type jwkSet struct {
	Keys []jwk `json:"keys"`
}

type jwk struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// JWKSource скачивает JWKS и кэширует его на keysTTL.
type JWKSource struct {
	client *http.Client
	url    string

	mu      sync.Mutex
	keys    map[string]*rsa.PublicKey
	fetched time.Time
}

func NewJWKSource(client *http.Client, url string) *JWKSource {
	return &JWKSource{client: client, url: url}
}

func (s *JWKSource) Keys(ctx context.Context) (map[string]*rsa.PublicKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.keys != nil && time.Since(s.fetched) < keysTTL {
		return s.keys, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jwks: unexpected status %d", resp.StatusCode)
	}

	var set jwkSet
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return nil, fmt.Errorf("jwks: decode: %w", err)
	}
	keys, err := parseJWKs(set)
	if err != nil {
		return nil, err
	}
	s.keys = keys
	s.fetched = time.Now()
	return keys, nil
}

func parseJWKs(set jwkSet) (map[string]*rsa.PublicKey, error) {
	keys := make(map[string]*rsa.PublicKey, len(set.Keys))
	for _, k := range set.Keys {
		if k.Kty != "RSA" {
			continue
		}
		n, err := base64.RawURLEncoding.DecodeString(k.N)
		if err != nil {
			return nil, fmt.Errorf("jwks: key %s: modulus: %w", k.Kid, err)
		}
		e, err := base64.RawURLEncoding.DecodeString(k.E)
		if err != nil {
			return nil, fmt.Errorf("jwks: key %s: exponent: %w", k.Kid, err)
		}
		keys[k.Kid] = &rsa.PublicKey{
			N: new(big.Int).SetBytes(n),
			E: int(new(big.Int).SetBytes(e).Int64()),
		}
	}
	return keys, nil
}
