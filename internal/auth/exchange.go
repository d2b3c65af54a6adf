package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Session is the token pair returned by a successful code exchange.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// ExchangeError is returned when the auth service rejects an exchange.
type ExchangeError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *ExchangeError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("code exchange failed (%d %s): %s", e.StatusCode, e.Code, e.Description)
	}
	return fmt.Sprintf("code exchange failed (%d)", e.StatusCode)
}

// ClientConfig holds auth service settings.
type ClientConfig struct {
	BaseURL string // e.g. https://project.example.co/auth/v1
	AnonKey string
	Timeout time.Duration
}

// Client talks to the auth service token endpoint.
type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
	logger     *otelzap.Logger
}

// NewClient creates an auth service client.
func NewClient(cfg ClientConfig, logger *otelzap.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("auth base URL is required")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		anonKey:    cfg.AnonKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// ExchangeCode trades a PKCE auth code and its verifier for a session.
func (c *Client) ExchangeCode(ctx context.Context, code, codeVerifier string) (*Session, error) {
	if code == "" {
		return nil, errors.New("auth code is required")
	}

	body, err := json.Marshal(map[string]string{
		"auth_code":     code,
		"code_verifier": codeVerifier,
	})
	if err != nil {
		return nil, fmt.Errorf("encode exchange request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/token?grant_type=pkce", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.anonKey != "" {
		req.Header.Set("apikey", c.anonKey)
		req.Header.Set("Authorization", "Bearer "+c.anonKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Ctx(ctx).Warn("Auth code exchange request failed", zap.Error(err))
		return nil, fmt.Errorf("exchange code: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		var envelope struct {
			Error            string `json:"error"`
			ErrorCode        string `json:"error_code"`
			ErrorDescription string `json:"error_description"`
			Msg              string `json:"msg"`
		}
		_ = json.Unmarshal(raw, &envelope)
		e := &ExchangeError{StatusCode: resp.StatusCode, Code: envelope.ErrorCode, Description: envelope.ErrorDescription}
		if e.Code == "" {
			e.Code = envelope.Error
		}
		if e.Description == "" {
			e.Description = envelope.Msg
		}
		return nil, e
	}

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if session.AccessToken == "" {
		return nil, errors.New("exchange returned no access token")
	}
	return &session, nil
}
