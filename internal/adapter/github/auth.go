package github

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Auth supplies the bearer token attached to every API request.
type Auth interface {
	Token(ctx context.Context) (string, error)
}

// TokenAuth authenticates with a static personal access token or the
// GITHUB_TOKEN provided by Actions.
type TokenAuth struct {
	token string
}

// NewTokenAuth creates a static token authenticator.
func NewTokenAuth(token string) *TokenAuth {
	return &TokenAuth{token: token}
}

// Token returns the configured token.
func (a *TokenAuth) Token(ctx context.Context) (string, error) {
	if a.token == "" {
		return "", fmt.Errorf("empty token")
	}
	return a.token, nil
}

// tokenCache holds a short-lived installation token.
type tokenCache struct {
	mu      sync.Mutex
	token   string
	expires time.Time
}

func (c *tokenCache) Get() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token == "" || time.Now().After(c.expires) {
		return "", false
	}
	return c.token, true
}

func (c *tokenCache) Set(token string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	c.expires = time.Now().Add(ttl)
}

// AppAuth authenticates as a GitHub App installation: it signs a short-lived
// RS256 JWT with the app's private key and exchanges it for an installation
// access token, which is cached until shortly before the server-side expiry.
type AppAuth struct {
	appID          string
	installationID string
	privateKeyPath string
	baseURL        string
	httpClient     *http.Client
	cache          *tokenCache
}

// NewAppAuth creates a GitHub App authenticator.
func NewAppAuth(appID, installationID, privateKeyPath string) *AppAuth {
	return &AppAuth{
		appID:          appID,
		installationID: installationID,
		privateKeyPath: privateKeyPath,
		baseURL:        defaultBaseURL,
		httpClient:     &http.Client{Timeout: 15 * time.Second},
		cache:          &tokenCache{},
	}
}

// SetBaseURL sets a custom base URL for the token exchange (testing, GHES).
func (a *AppAuth) SetBaseURL(baseURL string) {
	a.baseURL = strings.TrimRight(baseURL, "/")
}

// Token returns a cached installation token or exchanges a fresh JWT for one.
func (a *AppAuth) Token(ctx context.Context) (string, error) {
	if t, ok := a.cache.Get(); ok {
		return t, nil
	}

	signed, err := a.createJWT()
	if err != nil {
		return "", err
	}

	tokenURL := fmt.Sprintf("%s/app/installations/%s/access_tokens", a.baseURL, a.installationID)

	req, err := http.NewRequestWithContext(ctx, "POST", tokenURL, nil)
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+signed)
	req.Header.Set("Accept", "application/vnd.github+json")

	res, err := a.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return "", fmt.Errorf("installation token status %d: %s", res.StatusCode, string(msg))
	}

	var r struct {
		Token     string `json:"token"`
		ExpiresAt string `json:"expires_at"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if r.Token == "" {
		return "", fmt.Errorf("empty installation token")
	}

	// Installation tokens last an hour; refresh a little early.
	a.cache.Set(r.Token, 50*time.Minute)

	return r.Token, nil
}

func (a *AppAuth) createJWT() (string, error) {
	key, err := loadPrivateKey(a.privateKeyPath)
	if err != nil {
		return "", err
	}

	now := time.Now()

	claims := jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now.Add(-1 * time.Minute)),
		ExpiresAt: jwt.NewNumericDate(now.Add(9 * time.Minute)),
		Issuer:    a.appID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)

	return token.SignedString(key)
}

func loadPrivateKey(path string) (*rsa.PrivateKey, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key: %w", err)
	}

	block, _ := pem.Decode(b)
	if block == nil {
		return nil, fmt.Errorf("invalid pem")
	}

	key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err == nil {
		return key, nil
	}

	pkcs8, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, err
	}

	privateKey, ok := pkcs8.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("pkcs8 key is not RSA")
	}

	return privateKey, nil
}
