package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"contract-workspace/internal/config"
	"contract-workspace/internal/domain/entity"
	"contract-workspace/internal/domain/errs"
	"contract-workspace/internal/infrastructure/session"
)

const (
	loginPath    = "/auth/login/"
	registerPath = "/auth/register/"
	refreshPath  = "/auth/refresh/"
)

var Module = fx.Module("auth",
	fx.Provide(NewTokenService),
	fx.Provide(provideRefresher),
)

// provideRefresher exposes the token service to the session accessor
func provideRefresher(s TokenService) session.Refresher {
	return s
}

// TokenService talks to the unauthenticated token endpoints of the backend
type TokenService interface {
	// Login exchanges credentials for a token pair
	Login(ctx context.Context, req *entity.LoginRequest) (*entity.TokenPair, error)

	// Register creates an account and returns its first token pair
	Register(ctx context.Context, req *entity.RegisterRequest) (*entity.TokenPair, error)

	// Refresh exchanges a refresh token for a new access token
	Refresh(ctx context.Context, refreshToken string) (*entity.TokenPair, error)
}

type tokenService struct {
	baseURL string
	logger  *zap.Logger
	client  *http.Client
}

func NewTokenService(cfg *config.Config, logger *zap.Logger) TokenService {
	return &tokenService{
		baseURL: cfg.Backend.BaseURL,
		logger:  logger,
		client: &http.Client{
			Timeout: cfg.Backend.Timeout,
		},
	}
}

func (s *tokenService) Login(ctx context.Context, req *entity.LoginRequest) (*entity.TokenPair, error) {
	s.logger.Info("Logging in", zap.String("email", req.Email))

	pair, err := s.requestToken(ctx, loginPath, req)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	return pair, nil
}

func (s *tokenService) Register(ctx context.Context, req *entity.RegisterRequest) (*entity.TokenPair, error) {
	s.logger.Info("Registering account", zap.String("email", req.Email))

	pair, err := s.requestToken(ctx, registerPath, req)
	if err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}
	return pair, nil
}

func (s *tokenService) Refresh(ctx context.Context, refreshToken string) (*entity.TokenPair, error) {
	s.logger.Info("Refreshing access token")

	pair, err := s.requestToken(ctx, refreshPath, map[string]string{"refresh": refreshToken})
	if err != nil {
		return nil, fmt.Errorf("token refresh failed: %w", err)
	}
	return pair, nil
}

func (s *tokenService) requestToken(ctx context.Context, path string, body interface{}) (*entity.TokenPair, error) {
	tokenURL := s.baseURL + path

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	s.logger.Debug(">>> [TOKEN-REQ]", zap.String("url", tokenURL))

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", errs.ErrUpstream, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	// Token bodies are never logged
	s.logger.Info(">>> [TOKEN-RESPONSE]",
		zap.String("url", tokenURL),
		zap.Int("status", resp.StatusCode),
	)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, fmt.Errorf("%w: status=%d", errs.ErrAuth, resp.StatusCode)
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusConflict:
		return nil, fmt.Errorf("%w: status=%d, body=%s", errs.ErrValidation, resp.StatusCode, string(respBody))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("%w: status=%d, body=%s", errs.ErrUpstream, resp.StatusCode, string(respBody))
	}

	var pair entity.TokenPair
	if err := json.Unmarshal(respBody, &pair); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal token response: %v", errs.ErrMalformedResponse, err)
	}
	if pair.Access == "" {
		return nil, fmt.Errorf("%w: token response without access token", errs.ErrMalformedResponse)
	}

	return &pair, nil
}
