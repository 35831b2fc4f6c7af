package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pressroom/pressctl/internal/cms/content"
	perr "github.com/pressroom/pressctl/internal/err"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, token string) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL+"/api/", StaticToken(token), srv.Client())
	require.NoError(t, err)
	return c
}

func TestListSendsPagingAndToken(t *testing.T) {
	var gotPath, gotQuery, gotToken string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery, gotToken = r.URL.Path, r.URL.RawQuery, r.Header.Get(TokenHeader)
		_, _ = io.WriteString(w, `{"blogs":[]}`)
	}, "tok-1")

	raw, err := c.List(context.Background(), content.Blogs, 3, 10)
	require.NoError(t, err)

	assert.Equal(t, `{"blogs":[]}`, string(raw))
	assert.Equal(t, "/api/blogs", gotPath)
	assert.Equal(t, "limit=10&page=3", gotQuery)
	assert.Equal(t, "tok-1", gotToken)
}

func TestMutationsUseItemPaths(t *testing.T) {
	type call struct {
		method, path, contentType string
		body                      map[string]any
	}
	var calls []call
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		entry := call{method: r.Method, path: r.URL.Path, contentType: r.Header.Get("Content-Type")}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&entry.body)
		}
		calls = append(calls, entry)
		_, _ = io.WriteString(w, `{}`)
	}, "")

	ctx := context.Background()
	_, err := c.Create(ctx, content.NewsKind, map[string]any{"title": "a"})
	require.NoError(t, err)
	_, err = c.Update(ctx, content.NewsKind, "n1", map[string]any{"title": "b"})
	require.NoError(t, err)
	_, err = c.Get(ctx, content.NewsKind, "n1")
	require.NoError(t, err)
	require.NoError(t, c.Delete(ctx, content.NewsKind, "n1"))

	require.Len(t, calls, 4)
	assert.Equal(t, call{method: "POST", path: "/api/news", contentType: "application/json", body: map[string]any{"title": "a"}}, calls[0])
	assert.Equal(t, call{method: "PUT", path: "/api/news/n1", contentType: "application/json", body: map[string]any{"title": "b"}}, calls[1])
	assert.Equal(t, "GET", calls[2].method)
	assert.Equal(t, "DELETE", calls[3].method)
	assert.Equal(t, "/api/news/n1", calls[3].path)
}

func TestNonSuccessBecomesServerRejection(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"msg":"Token is not valid"}`)
	}, "expired")

	_, err := c.List(context.Background(), content.Testimonials, 1, 10)

	var rejection *perr.ServerRejection
	require.True(t, errors.As(err, &rejection))
	assert.Equal(t, http.StatusUnauthorized, rejection.Status)
	assert.Equal(t, "Token is not valid", rejection.Error())
	assert.True(t, rejection.Unauthorized())
}

func TestRejectionMessageFallbacks(t *testing.T) {
	assert.Equal(t, "a", rejectionMessage([]byte(`{"msg":"a","message":"b"}`)))
	assert.Equal(t, "b", rejectionMessage([]byte(`{"message":"b"}`)))
	assert.Equal(t, "c", rejectionMessage([]byte(`{"errors":[{"msg":"c"}]}`)))
	assert.Empty(t, rejectionMessage([]byte(`<html>502</html>`)))
	assert.Empty(t, rejectionMessage([]byte(`{"error":{"code":1}}`)))
}

func TestTransportFailureBecomesNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := New(base, nil, nil)
	require.NoError(t, err)

	_, err = c.Get(context.Background(), content.Blogs, "x")
	var network *perr.NetworkFailure
	require.True(t, errors.As(err, &network))
	assert.Equal(t, http.MethodGet, network.Method)
}

func TestLoginAndRegister(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		switch r.URL.Path {
		case "/api/auth/login":
			if body["password"] != "secret1" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = io.WriteString(w, `{"msg":"Invalid Credentials"}`)
				return
			}
			_, _ = io.WriteString(w, `{"token":"t-login","user":{"id":"u1","username":"ana","name":"Ana"}}`)
		case "/api/auth/register":
			assert.NotContains(t, body, "confirm")
			_, _ = io.WriteString(w, `{"token":"t-reg","user":{"username":"bo"}}`)
		}
	}, "")

	ctx := context.Background()
	res, err := c.Login(ctx, content.Credentials{Username: "ana", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "t-login", res.Token)
	assert.Equal(t, content.User{ID: "u1", Username: "ana", Name: "Ana"}, res.User)

	_, err = c.Login(ctx, content.Credentials{Username: "ana", Password: "nope"})
	assert.EqualError(t, err, "Invalid Credentials")

	res, err = c.Register(ctx, content.Registration{Username: "bo", Name: "Bo", Password: "123456", Confirm: "123456"})
	require.NoError(t, err)
	assert.Equal(t, "t-reg", res.Token)
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	_, err := New("localhost:5000/api", nil, nil)
	assert.Error(t, err)
	_, err = New("ftp://example.com", nil, nil)
	assert.Error(t, err)
}
