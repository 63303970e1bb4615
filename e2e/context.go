package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Config points the suite at a running server.
type Config struct {
	BaseURL        string
	SigningKey     string
	Issuer         string
	Audience       string
	RequestTimeout time.Duration
}

// ConfigFromEnv reads E2E_BASE_URL and the JWT settings the server uses.
func ConfigFromEnv() Config {
	return Config{
		BaseURL:        strings.TrimRight(os.Getenv("E2E_BASE_URL"), "/"),
		SigningKey:     envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		Issuer:         envOr("JWT_ISSUER", "veriflow"),
		Audience:       envOr("JWT_AUDIENCE", "veriflow-api"),
		RequestTimeout: 10 * time.Second,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// TestContext carries HTTP state between the steps of one scenario.
type TestContext struct {
	cfg    Config
	client *http.Client

	token      string
	lastStatus int
	lastBody   []byte
	vars       map[string]string
}

func NewTestContext(cfg Config) *TestContext {
	return &TestContext{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.RequestTimeout},
		vars:   make(map[string]string),
	}
}

// Reset clears per-scenario state.
func (tc *TestContext) Reset() {
	tc.token = ""
	tc.lastStatus = 0
	tc.lastBody = nil
	tc.vars = make(map[string]string)
}

// UserID returns the ID the server assigns to a user seeded from email.
func (tc *TestContext) UserID(email string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+strings.ToLower(email))).String()
}

// SignInAs mints a bearer token for the seeded user with this email.
func (tc *TestContext) SignInAs(email string) error {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   tc.UserID(email),
		Issuer:    tc.cfg.Issuer,
		Audience:  jwt.ClaimStrings{tc.cfg.Audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(15 * time.Minute)),
		ID:        uuid.NewString(),
	})
	signed, err := token.SignedString([]byte(tc.cfg.SigningKey))
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}
	tc.token = signed
	return nil
}

// SignOut drops the bearer token.
func (tc *TestContext) SignOut() {
	tc.token = ""
}

// Do sends a request. Placeholders like {request} in path are replaced by
// remembered values.
func (tc *TestContext) Do(method, path string, body []byte) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, tc.cfg.BaseURL+tc.Expand(path), reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tc.token != "" {
		req.Header.Set("Authorization", "Bearer "+tc.token)
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	tc.lastStatus = resp.StatusCode
	tc.lastBody, err = io.ReadAll(resp.Body)
	return err
}

// DoJSON marshals v and sends it as the request body.
func (tc *TestContext) DoJSON(method, path string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return tc.Do(method, path, body)
}

func (tc *TestContext) LastStatus() int  { return tc.lastStatus }
func (tc *TestContext) LastBody() []byte { return tc.lastBody }

// ResponseField returns a top-level field of the last JSON response.
func (tc *TestContext) ResponseField(field string) (any, error) {
	var payload map[string]any
	if err := json.Unmarshal(tc.lastBody, &payload); err != nil {
		return nil, fmt.Errorf("decode response %q: %w", string(tc.lastBody), err)
	}
	v, ok := payload[field]
	if !ok {
		return nil, fmt.Errorf("response has no field %q: %s", field, string(tc.lastBody))
	}
	return v, nil
}

func (tc *TestContext) Remember(name, value string) { tc.vars[name] = value }

func (tc *TestContext) Recall(name string) (string, bool) {
	v, ok := tc.vars[name]
	return v, ok
}

// Expand substitutes {name} placeholders with remembered values.
func (tc *TestContext) Expand(s string) string {
	for name, value := range tc.vars {
		s = strings.ReplaceAll(s, "{"+name+"}", value)
	}
	return s
}
