package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"contract-workspace/internal/config"
	"contract-workspace/internal/domain/entity"
	"contract-workspace/internal/domain/errs"
	"contract-workspace/internal/infrastructure/session"
)

const (
	maxBodyLogLength = 500   // Maximum characters to log for body
	maxBodyStoreSize = 10000 // Maximum characters persisted per API log body
)

var base64Pattern = regexp.MustCompile(`"([A-Za-z0-9+/=]{100,})"`)

// HTTPClient performs authenticated JSON calls against the contract backend.
// A nil session sends the request without credentials.
type HTTPClient interface {
	Get(ctx context.Context, sess *session.Session, path string, result interface{}) error
	Post(ctx context.Context, sess *session.Session, path string, body interface{}, result interface{}) error
	Patch(ctx context.Context, sess *session.Session, path string, body interface{}, result interface{}) error
	Delete(ctx context.Context, sess *session.Session, path string, result interface{}) error
}

// Credentials is the subset of the session accessor the client needs
type Credentials interface {
	AccessToken(ctx context.Context, sess *session.Session) (string, error)
	Renew(ctx context.Context, sess *session.Session, stale string) (string, error)
}

// APILogSaver interface for saving API logs
type APILogSaver interface {
	Save(ctx context.Context, log *entity.APILog) error
}

// RequestObserver records outbound request metrics
type RequestObserver interface {
	ObserveBackendRequest(method string, statusCode int, duration time.Duration)
}

type httpClient struct {
	client      *http.Client
	baseURL     string
	credentials Credentials
	apiLogSaver APILogSaver
	observer    RequestObserver
	logger      *zap.Logger
}

func NewHTTPClient(cfg *config.Config, credentials Credentials, apiLogSaver APILogSaver, observer RequestObserver, logger *zap.Logger) HTTPClient {
	logger.Info("HTTP Client initialized",
		zap.String("base_url", cfg.Backend.BaseURL),
		zap.Duration("timeout", cfg.Backend.Timeout),
	)

	return &httpClient{
		client: &http.Client{
			Timeout: cfg.Backend.Timeout,
		},
		baseURL:     cfg.Backend.BaseURL,
		credentials: credentials,
		apiLogSaver: apiLogSaver,
		observer:    observer,
		logger:      logger,
	}
}

// truncateString truncates a string if it exceeds maxLength
func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength] + fmt.Sprintf("... [truncated, total %d chars]", len(s))
}

// truncateBase64InJSON shortens base64-like values in a JSON string
func truncateBase64InJSON(jsonStr string, maxLength int) string {
	return base64Pattern.ReplaceAllStringFunc(jsonStr, func(match string) string {
		content := match[1 : len(match)-1]
		if len(content) > maxLength {
			return fmt.Sprintf(`"%s... [base64 truncated, total %d chars]"`, content[:maxLength], len(content))
		}
		return match
	})
}

// formatHeadersForLog formats HTTP headers for logging, hiding credentials
func formatHeadersForLog(headers http.Header) string {
	var sb strings.Builder
	for key, values := range headers {
		for _, value := range values {
			if strings.EqualFold(key, "Authorization") {
				value = "Bearer ***"
			} else if len(value) > 100 {
				value = value[:100] + "..."
			}
			sb.WriteString(fmt.Sprintf("Header %s=%s\n", key, value))
		}
	}
	return sb.String()
}

func (c *httpClient) logRequest(method, url string, headers http.Header, body []byte) {
	var logBuilder strings.Builder

	logBuilder.WriteString("\n>>> [BACKEND-REQ]\n")
	logBuilder.WriteString(fmt.Sprintf("Method: %s\n", method))
	logBuilder.WriteString(fmt.Sprintf("URL: %s\n", url))
	logBuilder.WriteString(formatHeadersForLog(headers))

	if len(body) > 0 {
		bodyStr := truncateBase64InJSON(string(body), 100)
		bodyStr = truncateString(bodyStr, maxBodyLogLength)
		logBuilder.WriteString(fmt.Sprintf("REQUEST BODY: %s\n", bodyStr))
	}

	c.logger.Debug(logBuilder.String())
}

func (c *httpClient) logResponse(statusCode int, statusText string, duration time.Duration, body []byte) {
	var logBuilder strings.Builder

	logBuilder.WriteString("\n>>> [BACKEND-RESPONSE]\n")
	logBuilder.WriteString(fmt.Sprintf("Status: %s\n", statusText))
	logBuilder.WriteString(fmt.Sprintf("Duration: %s\n", duration))
	logBuilder.WriteString(fmt.Sprintf("Body: %s\n", truncateString(string(body), maxBodyLogLength)))

	if statusCode >= 400 {
		c.logger.Warn(logBuilder.String())
		return
	}
	c.logger.Debug(logBuilder.String())
}

// saveAPILog persists the request/response pair without blocking the caller
func (c *httpClient) saveAPILog(method, endpoint string, requestBody, responseBody []byte, statusCode int, duration time.Duration, sess *session.Session) {
	if c.observer != nil {
		c.observer.ObserveBackendRequest(method, statusCode, duration)
	}
	if c.apiLogSaver == nil {
		return
	}

	reqBodyStr := ""
	if len(requestBody) > 0 {
		reqBodyStr = truncateString(truncateBase64InJSON(string(requestBody), 100), maxBodyStoreSize)
	}

	email := ""
	if sess != nil {
		email = sess.Email
	}

	apiLog := &entity.APILog{
		Endpoint:     endpoint,
		Method:       method,
		RequestBody:  reqBodyStr,
		ResponseBody: truncateString(string(responseBody), maxBodyStoreSize),
		StatusCode:   statusCode,
		Duration:     duration.Milliseconds(),
		Email:        email,
		CreatedAt:    time.Now(),
	}

	go func() {
		if err := c.apiLogSaver.Save(context.Background(), apiLog); err != nil {
			c.logger.Warn("Failed to save API log to database",
				zap.String("endpoint", endpoint),
				zap.Error(err),
			)
		}
	}()
}

func (c *httpClient) doRequest(ctx context.Context, sess *session.Session, method, path string, body interface{}, result interface{}, isRetry bool) error {
	fullURL := c.baseURL + path

	var bodyReader io.Reader
	var jsonBody []byte
	if body != nil {
		var err error
		jsonBody, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	var token string
	if sess != nil {
		token, err = c.credentials.AccessToken(ctx, sess)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logRequest(method, fullURL, req.Header, jsonBody)

	startTime := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", errs.ErrUpstream, err)
	}
	defer resp.Body.Close()

	duration := time.Since(startTime)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response body: %v", errs.ErrUpstream, err)
	}

	c.logResponse(resp.StatusCode, resp.Status, duration, respBody)
	c.saveAPILog(method, fullURL, jsonBody, respBody, resp.StatusCode, duration, sess)

	// Handle 401 Unauthorized - renew the token once and retry
	if resp.StatusCode == http.StatusUnauthorized && !isRetry && sess != nil {
		c.logger.Info("Received 401 Unauthorized, attempting to renew token",
			zap.String("email", sess.Email),
		)

		if _, err := c.credentials.Renew(ctx, sess, token); err != nil {
			return err
		}

		c.logger.Info("Token renewed, retrying request",
			zap.String("email", sess.Email),
		)
		return c.doRequest(ctx, sess, method, path, body, result, true)
	}

	if err := statusError(resp.StatusCode, respBody); err != nil {
		return err
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("%w: failed to unmarshal response: %v", errs.ErrMalformedResponse, err)
		}
	}

	return nil
}

// statusError maps a backend status code onto the error taxonomy
func statusError(statusCode int, body []byte) error {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return nil
	case statusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: status=%d", errs.ErrAuth, statusCode)
	case statusCode == http.StatusNotFound:
		return fmt.Errorf("%w: status=%d, body=%s", errs.ErrNotFound, statusCode, truncateString(string(body), maxBodyLogLength))
	case statusCode == http.StatusBadRequest || statusCode == http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: status=%d, body=%s", errs.ErrValidation, statusCode, truncateString(string(body), maxBodyLogLength))
	default:
		return fmt.Errorf("%w: status=%d, body=%s", errs.ErrUpstream, statusCode, truncateString(string(body), maxBodyLogLength))
	}
}

func (c *httpClient) Get(ctx context.Context, sess *session.Session, path string, result interface{}) error {
	return c.doRequest(ctx, sess, http.MethodGet, path, nil, result, false)
}

func (c *httpClient) Post(ctx context.Context, sess *session.Session, path string, body interface{}, result interface{}) error {
	return c.doRequest(ctx, sess, http.MethodPost, path, body, result, false)
}

func (c *httpClient) Patch(ctx context.Context, sess *session.Session, path string, body interface{}, result interface{}) error {
	return c.doRequest(ctx, sess, http.MethodPatch, path, body, result, false)
}

func (c *httpClient) Delete(ctx context.Context, sess *session.Session, path string, result interface{}) error {
	return c.doRequest(ctx, sess, http.MethodDelete, path, nil, result, false)
}
