package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"dossier/internal/domain"
)

// ErrSecondFactorRequired reports a protected fetch the gateway refused
// until the caller completes a second authentication factor.
var ErrSecondFactorRequired = errors.New("second factor required")

// SecureFetch retrieves protected document payloads through the
// authenticated gateway. This is the only path in the namespace that
// carries an explicit timeout.
//
// The gateway speaks in status codes with loosely worded bodies: a 403
// means either "complete your second factor" or "access revoked", told
// apart by message content; a 404 means the document was deleted behind
// our back.
type SecureFetch struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewSecureFetch creates a new secure fetch gateway client.
func NewSecureFetch(baseURL string, timeout time.Duration, logger *slog.Logger) *SecureFetch {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &SecureFetch{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Fetch downloads the object at the storage path on behalf of the caller.
// Returns the payload and its content type.
func (g *SecureFetch) Fetch(ctx context.Context, storagePath, bearerToken string) ([]byte, string, error) {
	endpoint := g.baseURL + "/secure/" + url.PathEscape(storagePath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build secure fetch request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+bearerToken)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("secure fetch: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, "", fmt.Errorf("read secure fetch body: %w", err)
		}
		return body, resp.Header.Get("Content-Type"), nil

	case http.StatusForbidden:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if isSecondFactorMessage(string(body)) {
			return nil, "", fmt.Errorf("document %s: %w", storagePath, ErrSecondFactorRequired)
		}
		g.logger.Warn("secure fetch access revoked", "path", storagePath)
		return nil, "", fmt.Errorf("document %s: access revoked: %w", storagePath, domain.ErrForbidden)

	case http.StatusNotFound:
		return nil, "", fmt.Errorf("document %s was deleted: %w", storagePath, domain.ErrNotFound)

	default:
		return nil, "", fmt.Errorf("secure fetch %s: unexpected status %d", storagePath, resp.StatusCode)
	}
}

func isSecondFactorMessage(body string) bool {
	lower := strings.ToLower(body)
	return strings.Contains(lower, "second factor") ||
		strings.Contains(lower, "mfa") ||
		strings.Contains(lower, "verification code")
}
