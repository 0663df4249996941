package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"motorlane/internal/platform/config"
	"motorlane/pkg/platform/sentinel"
)

// HTTPProvider talks to the hosted auth service's REST surface. It keeps the
// current access token in memory, mirroring the process-wide session this
// service manages: one authenticated identity at a time.
type HTTPProvider struct {
	baseURL      string
	apiKey       string
	client       *http.Client
	pollInterval time.Duration

	mu          sync.Mutex
	accessToken string
}

func NewHTTPProvider(cfg config.AuthConfig) *HTTPProvider {
	return &HTTPProvider{
		baseURL:      cfg.ProviderURL,
		apiKey:       cfg.PublishableKey,
		client:       &http.Client{Timeout: cfg.RequestTimeout},
		pollInterval: cfg.PollInterval,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	User        struct {
		ID           string         `json:"id"`
		Email        string         `json:"email"`
		UserMetadata map[string]any `json:"user_metadata"`
	} `json:"user"`
}

type providerError struct {
	Message          string `json:"msg"`
	ErrorDescription string `json:"error_description"`
}

func (p *HTTPProvider) SignInWithPassword(ctx context.Context, email, password string) (*RemoteSession, error) {
	payload := map[string]string{"email": email, "password": password}
	var resp tokenResponse
	status, err := p.post(ctx, "/auth/v1/token?grant_type=password", payload, "", &resp)
	if err != nil {
		return nil, err
	}
	if status == http.StatusBadRequest || status == http.StatusUnauthorized {
		return nil, ErrInvalidCredentials
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("sign in: unexpected status %d: %w", status, sentinel.ErrUnavailable)
	}

	p.mu.Lock()
	p.accessToken = resp.AccessToken
	p.mu.Unlock()

	return &RemoteSession{
		UserID:   resp.User.ID,
		Email:    resp.User.Email,
		Metadata: stringMetadata(resp.User.UserMetadata),
	}, nil
}

func (p *HTTPProvider) SignUp(ctx context.Context, reg Registration) (*RemoteSession, error) {
	data := map[string]any{
		"full_name": reg.FullName,
		"role":      string(reg.Role),
	}
	if reg.Role == RoleStand {
		data["stand_name"] = reg.StandName
	}
	payload := map[string]any{
		"email":    reg.Email,
		"password": reg.Password,
		"data":     data,
	}
	var resp tokenResponse
	status, err := p.post(ctx, "/auth/v1/signup", payload, "", &resp)
	if err != nil {
		return nil, err
	}
	switch {
	case status == http.StatusOK:
	case status == http.StatusUnprocessableEntity || status == http.StatusConflict:
		return nil, sentinel.ErrConflict
	case status == http.StatusBadRequest:
		return nil, ErrInvalidCredentials
	default:
		return nil, fmt.Errorf("sign up: unexpected status %d: %w", status, sentinel.ErrUnavailable)
	}

	p.mu.Lock()
	p.accessToken = resp.AccessToken
	p.mu.Unlock()

	return &RemoteSession{
		UserID:   resp.User.ID,
		Email:    resp.User.Email,
		Metadata: stringMetadata(resp.User.UserMetadata),
	}, nil
}

// GetSession decodes the stored access token. The token was received over the
// authenticated provider connection, so its claims are read without local
// signature verification (the signing key never leaves the provider).
func (p *HTTPProvider) GetSession(_ context.Context) (*RemoteSession, error) {
	p.mu.Lock()
	token := p.accessToken
	p.mu.Unlock()
	if token == "" {
		return nil, sentinel.ErrNoSession
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil && exp.Before(time.Now()) {
		p.mu.Lock()
		p.accessToken = ""
		p.mu.Unlock()
		return nil, sentinel.ErrNoSession
	}

	remote := &RemoteSession{}
	if sub, err := claims.GetSubject(); err == nil {
		remote.UserID = sub
	}
	if email, ok := claims["email"].(string); ok {
		remote.Email = email
	}
	if meta, ok := claims["user_metadata"].(map[string]any); ok {
		remote.Metadata = stringMetadata(meta)
	}
	return remote, nil
}

func (p *HTTPProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	token := p.accessToken
	p.accessToken = ""
	p.mu.Unlock()
	if token == "" {
		return nil
	}
	status, err := p.post(ctx, "/auth/v1/logout", nil, token, nil)
	if err != nil {
		return err
	}
	if status != http.StatusNoContent && status != http.StatusOK {
		return fmt.Errorf("sign out: unexpected status %d", status)
	}
	return nil
}

// Subscribe polls the provider and emits an event whenever session presence
// or identity changes. The hosted service pushes changes to browser clients;
// server-side, polling is the available equivalent. A zero interval disables
// polling.
func (p *HTTPProvider) Subscribe(ctx context.Context, fn func(ChangeEvent)) {
	if p.pollInterval <= 0 {
		<-ctx.Done()
		return
	}
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	var lastUserID string
	var lastPresent bool
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			remote, err := p.GetSession(ctx)
			if err != nil {
				if errors.Is(err, sentinel.ErrNoSession) && lastPresent {
					lastPresent, lastUserID = false, ""
					fn(ChangeEvent{Session: nil})
				}
				continue
			}
			if !lastPresent || remote.UserID != lastUserID {
				lastPresent, lastUserID = true, remote.UserID
				fn(ChangeEvent{Session: remote})
			}
		}
	}
}

func (p *HTTPProvider) post(ctx context.Context, path string, payload any, bearer string, out any) (int, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return 0, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, body)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", p.apiKey)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("auth provider request: %w", errors.Join(sentinel.ErrUnavailable, err))
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

func stringMetadata(meta map[string]any) map[string]string {
	if len(meta) == 0 {
		return nil
	}
	out := make(map[string]string, len(meta))
	for k, v := range meta {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}
