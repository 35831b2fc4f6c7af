package httpclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pressroom/pressctl/internal/log"
)

const (
	logTypeRequest  = "request"
	logTypeResponse = "response"
	redactedValue   = "[REDACTED]"
	maxLoggedBody   = 2048

	// RequestIDHeader carries the id that ties request and response logs
	// together; the backend may echo it in its own logs.
	RequestIDHeader = "X-Request-Id"
)

var sensitiveKeys = []string{"token", "password", "authorization", "secret", "api_key", "apikey", "cookie"}

// Doer is satisfied by *http.Client and by LoggingHTTPClient
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// LoggingHTTPClient logs every exchange at debug level (no bodies) and at
// trace level (bodies included). Credentials are redacted in headers, query
// strings and JSON bodies.
type LoggingHTTPClient struct {
	wrapped *http.Client
	logger  *slog.Logger
}

// NewLoggingHTTPClient builds a client with the given timeout
func NewLoggingHTTPClient(timeout time.Duration, logger *slog.Logger) *LoggingHTTPClient {
	return NewLoggingHTTPClientWithClient(&http.Client{Timeout: timeout}, logger)
}

func NewLoggingHTTPClientWithClient(client *http.Client, logger *slog.Logger) *LoggingHTTPClient {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &LoggingHTTPClient{wrapped: client, logger: logger}
}

func (c *LoggingHTTPClient) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	if !c.logger.Enabled(ctx, slog.LevelDebug) {
		return c.wrapped.Do(req)
	}
	trace := c.logger.Enabled(ctx, log.LevelTrace)

	requestID := req.Header.Get(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
		req.Header.Set(RequestIDHeader, requestID)
	}

	common := append(log.RequestContextAttrs(ctx), slog.String("request_id", requestID))

	reqAttrs := append([]slog.Attr{
		slog.String("log_type", logTypeRequest),
		slog.String("method", req.Method),
		slog.String("host", req.URL.Host),
		slog.String("route", req.URL.Path),
		slog.Any("query_params", redactQuery(req)),
		slog.Any("headers", redactHeaders(req.Header)),
	}, common...)
	if trace && req.Body != nil && req.GetBody != nil {
		if body, err := req.GetBody(); err == nil {
			raw, _ := io.ReadAll(body)
			_ = body.Close()
			reqAttrs = append(reqAttrs, slog.String("request_body", redactBody(raw)))
		}
	}
	c.logger.LogAttrs(ctx, slog.LevelDebug, "HTTP request", reqAttrs...)

	start := time.Now()
	resp, err := c.wrapped.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.logger.LogAttrs(ctx, slog.LevelDebug, "HTTP request failed", append([]slog.Attr{
			slog.String("log_type", logTypeResponse),
			slog.String("method", req.Method),
			slog.String("route", req.URL.Path),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()),
		}, common...)...)
		return nil, err
	}

	respAttrs := append([]slog.Attr{
		slog.String("log_type", logTypeResponse),
		slog.Int("status_code", resp.StatusCode),
		slog.Duration("duration", duration),
		slog.Any("headers", redactHeaders(resp.Header)),
	}, common...)
	if trace || resp.StatusCode >= 400 {
		if body, err := peekBody(resp); err == nil && len(body) > 0 {
			respAttrs = append(respAttrs, slog.String("response_body", redactBody(body)))
		}
	}
	c.logger.LogAttrs(ctx, slog.LevelDebug, "HTTP response", respAttrs...)

	return resp, nil
}

// peekBody reads the response body and puts an identical reader back
func peekBody(resp *http.Response) ([]byte, error) {
	if resp.Body == nil {
		return nil, nil
	}
	raw, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(raw))
	return raw, err
}

func isSensitive(key string) bool {
	key = strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(key, s) {
			return true
		}
	}
	return false
}

func redactHeaders(h http.Header) map[string]string {
	rv := make(map[string]string, len(h))
	for k, v := range h {
		if isSensitive(k) {
			rv[k] = redactedValue
			continue
		}
		rv[k] = strings.Join(v, ", ")
	}
	return rv
}

func redactQuery(req *http.Request) map[string]string {
	q := req.URL.Query()
	rv := make(map[string]string, len(q))
	for k, v := range q {
		if isSensitive(k) {
			rv[k] = redactedValue
			continue
		}
		rv[k] = strings.Join(v, ",")
	}
	return rv
}

// redactBody masks sensitive fields at any depth and shortens inline images
// and oversized payloads
func redactBody(raw []byte) string {
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return truncate(string(raw))
	}
	cleaned, err := json.Marshal(redactValue(payload))
	if err != nil {
		return truncate(string(raw))
	}
	return truncate(string(cleaned))
}

func redactValue(v any) any {
	switch value := v.(type) {
	case map[string]any:
		for k, inner := range value {
			if isSensitive(k) {
				value[k] = redactedValue
				continue
			}
			value[k] = redactValue(inner)
		}
		return value
	case []any:
		for i := range value {
			value[i] = redactValue(value[i])
		}
		return value
	case string:
		if strings.HasPrefix(value, "data:") && len(value) > 64 {
			return value[:48] + fmt.Sprintf("...[%d bytes]", len(value))
		}
		return value
	default:
		return value
	}
}

func truncate(s string) string {
	if len(s) <= maxLoggedBody {
		return s
	}
	return fmt.Sprintf("%s... [truncated, total %d bytes]", s[:maxLoggedBody], len(s))
}
