package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/pressroom/pressctl/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (fn roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return fn(req)
}

func parseJSONLogs(t *testing.T, output string) []map[string]any {
	t.Helper()
	var rv []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		rv = append(rv, entry)
	}
	return rv
}

func mustFindLogByType(t *testing.T, logs []map[string]any, logType string) map[string]any {
	t.Helper()
	for _, entry := range logs {
		if entry["log_type"] == logType {
			return entry
		}
	}
	t.Fatalf("no %s log entry found in %v", logType, logs)
	return nil
}

func TestLoggingHTTPClient_DebugLogsWithoutBodies(t *testing.T) {
	var logOutput bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logOutput, &slog.HandlerOptions{Level: slog.LevelDebug}))

	client := &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusOK,
				Header:     http.Header{"Content-Type": []string{"application/json"}},
				Body:       io.NopCloser(strings.NewReader(`{"blogs":[]}`)),
				Request:    req,
			}, nil
		}),
	}

	ctx := log.WithRequestContext(context.Background(), log.RequestContext{Verb: "list", Resource: "blogs"})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://localhost:5000/api/blogs?page=2&limit=10&token=secret", nil)
	require.NoError(t, err)
	req.Header.Set("x-auth-token", "abc.def.ghi")

	resp, err := NewLoggingHTTPClientWithClient(client, logger).Do(req)
	require.NoError(t, err)
	require.NotNil(t, resp)

	logs := parseJSONLogs(t, logOutput.String())
	require.Len(t, logs, 2)

	requestLog := mustFindLogByType(t, logs, logTypeRequest)
	responseLog := mustFindLogByType(t, logs, logTypeResponse)

	assert.Equal(t, "GET", requestLog["method"])
	assert.Equal(t, "/api/blogs", requestLog["route"])
	assert.Equal(t, "list", requestLog["command_verb"])
	assert.Equal(t, "blogs", requestLog["resource"])

	query := requestLog["query_params"].(map[string]any)
	assert.Equal(t, "2", query["page"])
	assert.Equal(t, redactedValue, query["token"])

	headers := requestLog["headers"].(map[string]any)
	assert.Equal(t, redactedValue, headers["X-Auth-Token"])

	assert.NotContains(t, requestLog, "request_body")
	assert.NotContains(t, responseLog, "response_body")
	assert.Equal(t, requestLog["request_id"], responseLog["request_id"])
	assert.NotEmpty(t, req.Header.Get(RequestIDHeader))
	assert.EqualValues(t, 200, int(responseLog["status_code"].(float64)))
}

func TestLoggingHTTPClient_TraceLogsBodiesAndRedacts(t *testing.T) {
	var logOutput bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logOutput, &slog.HandlerOptions{Level: log.LevelTrace}))

	requestBody := `{"username":"ana","password":"super-secret","images":["data:image/png;base64,` +
		strings.Repeat("A", 200) + `"]}`
	responseBody := `{"token":"response-secret","user":{"username":"ana"}}`

	var seenByTransport string
	client := &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			raw, err := io.ReadAll(req.Body)
			require.NoError(t, err)
			seenByTransport = string(raw)
			return &http.Response{
				StatusCode: http.StatusOK,
				Header:     http.Header{"Set-Cookie": []string{"session=abc123"}},
				Body:       io.NopCloser(strings.NewReader(responseBody)),
				Request:    req,
			}, nil
		}),
	}

	req, err := http.NewRequest(http.MethodPost, "http://localhost:5000/api/auth/login", strings.NewReader(requestBody))
	require.NoError(t, err)

	resp, err := NewLoggingHTTPClientWithClient(client, logger).Do(req)
	require.NoError(t, err)

	assert.Equal(t, requestBody, seenByTransport)
	read, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, responseBody, string(read))

	logs := parseJSONLogs(t, logOutput.String())
	requestLog := mustFindLogByType(t, logs, logTypeRequest)
	responseLog := mustFindLogByType(t, logs, logTypeResponse)

	loggedRequest := requestLog["request_body"].(string)
	assert.NotContains(t, loggedRequest, "super-secret")
	assert.Contains(t, loggedRequest, redactedValue)
	assert.Contains(t, loggedRequest, "[222 bytes]")

	loggedResponse := responseLog["response_body"].(string)
	assert.NotContains(t, loggedResponse, "response-secret")
	assert.Contains(t, loggedResponse, `"username":"ana"`)

	headers := responseLog["headers"].(map[string]any)
	assert.Equal(t, redactedValue, headers["Set-Cookie"])
}

func TestLoggingHTTPClient_SkipsLoggingAboveDebug(t *testing.T) {
	var logOutput bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logOutput, &slog.HandlerOptions{Level: slog.LevelInfo}))

	client := &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return &http.Response{StatusCode: http.StatusNoContent, Body: http.NoBody, Request: req}, nil
		}),
	}
	req, err := http.NewRequest(http.MethodDelete, "http://localhost:5000/api/news/1", nil)
	require.NoError(t, err)

	_, err = NewLoggingHTTPClientWithClient(client, logger).Do(req)
	require.NoError(t, err)
	assert.Empty(t, logOutput.String())
	assert.Empty(t, req.Header.Get(RequestIDHeader))
}

func TestLoggingHTTPClient_LogsTransportFailure(t *testing.T) {
	var logOutput bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logOutput, &slog.HandlerOptions{Level: slog.LevelDebug}))

	client := &http.Client{
		Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		}),
	}
	req, err := http.NewRequest(http.MethodGet, "http://localhost:5000/api/news", nil)
	require.NoError(t, err)

	_, err = NewLoggingHTTPClientWithClient(client, logger).Do(req)
	require.Error(t, err)
	assert.Contains(t, logOutput.String(), "HTTP request failed")
	assert.Contains(t, logOutput.String(), "connection refused")
}
