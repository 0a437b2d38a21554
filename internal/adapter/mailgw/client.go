package mailgw

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/polkiloo/autoshop/internal/notify"
)

const defaultRetryAfter = 5 * time.Second

// TooManyRequestsError represents rate limiting signal from the mail gateway.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// RetryDelay lets the dispatcher wait as long as the gateway asked.
func (e TooManyRequestsError) RetryDelay() time.Duration {
	return e.RetryAfter
}

// HTTPSender posts notifications to a mail gateway.
type HTTPSender struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

type request struct {
	ID        string `json:"id"`
	To        string `json:"to"`
	Name      string `json:"name,omitempty"`
	Subject   string `json:"subject"`
	Text      string `json:"text"`
	Tag       string `json:"tag"`
	Reference string `json:"reference"`
}

// NewHTTPSender creates a gateway client with default timeout.
func NewHTTPSender(baseURL string, logger *slog.Logger) (*HTTPSender, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse mail gateway url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("mail gateway url must be absolute")
	}
	return &HTTPSender{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

func (s *HTTPSender) Name() string { return "mail" }

// Send submits msg. Client errors other than 429 are permanent.
func (s *HTTPSender) Send(ctx context.Context, msg notify.Message) error {
	endpoint := *s.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/messages")

	payload, err := json.Marshal(request{
		ID:        msg.ID,
		To:        msg.To,
		Name:      msg.Name,
		Subject:   msg.Subject,
		Text:      msg.Body,
		Tag:       string(msg.Kind),
		Reference: msg.OrderNumber,
	})
	if err != nil {
		return fmt.Errorf("%w: encode message: %v", notify.ErrPermanent, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", msg.ID)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return TooManyRequestsError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		s.logger.Error("mail gateway request failed",
			slog.Int("status", resp.StatusCode), slog.String("order", msg.OrderNumber), slog.String("body", string(body)))
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return fmt.Errorf("%w: mail gateway: %s", notify.ErrPermanent, resp.Status)
		}
		return fmt.Errorf("mail gateway error: %s", resp.Status)
	}
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return defaultRetryAfter
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return defaultRetryAfter
}
