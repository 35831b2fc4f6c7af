// Package client talks to the content backend's REST API. It returns raw
// bodies for collection reads so that shape handling stays in normalize.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pressroom/pressctl/internal/cms/content"
	perr "github.com/pressroom/pressctl/internal/err"
	"github.com/pressroom/pressctl/internal/httpclient"
	"github.com/pressroom/pressctl/internal/meta"
	"github.com/tidwall/gjson"
)

// TokenHeader carries the session token on every protected request
const TokenHeader = "x-auth-token"

// API is the set of backend operations commands depend on
type API interface {
	List(ctx context.Context, kind content.Kind, page, limit int) ([]byte, error)
	Get(ctx context.Context, kind content.Kind, id string) ([]byte, error)
	Create(ctx context.Context, kind content.Kind, body any) ([]byte, error)
	Update(ctx context.Context, kind content.Kind, id string, body any) ([]byte, error)
	Delete(ctx context.Context, kind content.Kind, id string) error
	Login(ctx context.Context, creds content.Credentials) (*AuthResult, error)
	Register(ctx context.Context, reg content.Registration) (*AuthResult, error)
}

// TokenSource yields the token to send, or "" when signed out
type TokenSource interface {
	Token() string
}

// StaticToken is a TokenSource for a fixed value
type StaticToken string

func (s StaticToken) Token() string { return string(s) }

// AuthResult is the body of a successful login or registration
type AuthResult struct {
	Token string       `json:"token"`
	User  content.User `json:"user"`
}

type Client struct {
	baseURL   *url.URL
	tokens    TokenSource
	http      httpclient.Doer
	userAgent string
}

// New returns a client for baseURL (for example http://localhost:5000/api).
// tokens may be nil for unauthenticated use.
func New(baseURL string, tokens TokenSource, doer httpclient.Doer) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", baseURL)
	}
	if tokens == nil {
		tokens = StaticToken("")
	}
	if doer == nil {
		doer = http.DefaultClient
	}
	return &Client{
		baseURL:   u,
		tokens:    tokens,
		http:      doer,
		userAgent: meta.CLIName,
	}, nil
}

func (c *Client) List(ctx context.Context, kind content.Kind, page, limit int) ([]byte, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return c.do(ctx, http.MethodGet, kind.Path(""), q, nil)
}

func (c *Client) Get(ctx context.Context, kind content.Kind, id string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, kind.Path(url.PathEscape(id)), nil, nil)
}

func (c *Client) Create(ctx context.Context, kind content.Kind, body any) ([]byte, error) {
	return c.do(ctx, http.MethodPost, kind.Path(""), nil, body)
}

func (c *Client) Update(ctx context.Context, kind content.Kind, id string, body any) ([]byte, error) {
	return c.do(ctx, http.MethodPut, kind.Path(url.PathEscape(id)), nil, body)
}

func (c *Client) Delete(ctx context.Context, kind content.Kind, id string) error {
	_, err := c.do(ctx, http.MethodDelete, kind.Path(url.PathEscape(id)), nil, nil)
	return err
}

func (c *Client) Login(ctx context.Context, creds content.Credentials) (*AuthResult, error) {
	return c.authenticate(ctx, "/auth/login", creds)
}

func (c *Client) Register(ctx context.Context, reg content.Registration) (*AuthResult, error) {
	return c.authenticate(ctx, "/auth/register", reg)
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (*AuthResult, error) {
	raw, err := c.do(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return nil, err
	}
	var rv AuthResult
	if err := json.Unmarshal(raw, &rv); err != nil {
		return nil, fmt.Errorf("decoding %s response: %w", path, err)
	}
	if rv.Token == "" {
		return nil, fmt.Errorf("%s response did not include a token", path)
	}
	return &rv, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = query.Encode()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set(TokenHeader, token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &perr.NetworkFailure{Method: method, URL: u.Redacted(), Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &perr.NetworkFailure{Method: method, URL: u.Redacted(), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &perr.ServerRejection{
			Status: resp.StatusCode,
			Msg:    rejectionMessage(raw),
			Body:   raw,
		}
	}
	return raw, nil
}

// rejectionMessage pulls a human message out of an error body. The backend
// uses "msg"; "message" and "error" cover common frameworks.
func rejectionMessage(raw []byte) string {
	if !gjson.ValidBytes(raw) {
		return ""
	}
	for _, path := range []string{"msg", "message", "error", "errors.0.msg", "errors.0.message"} {
		if r := gjson.GetBytes(raw, path); r.Type == gjson.String && strings.TrimSpace(r.Str) != "" {
			return strings.TrimSpace(r.Str)
		}
	}
	return ""
}
