package helpers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/pressroom/pressctl/internal/cms/client"
	"github.com/pressroom/pressctl/internal/cms/content"
	"github.com/pressroom/pressctl/internal/config"
	perr "github.com/pressroom/pressctl/internal/err"
	"github.com/pressroom/pressctl/internal/util/pagination"
)

// MockAPI is an in-memory backend. Collections answer in the wrapped
// {"data": {...}} shape with currentPage/totalPages/total<Name> fields,
// newest first, like the real server.
type MockAPI struct {
	mu    sync.Mutex
	docs  map[string][]map[string]any
	next  int
	calls []string

	// Errors makes the named method ("List", "Get", ...) fail
	Errors map[string]error
	// Token is handed out by Login and Register
	Token string
	// Users maps username to password for Login
	Users map[string]string
}

func NewMockAPI() *MockAPI {
	return &MockAPI{
		docs:   map[string][]map[string]any{},
		Errors: map[string]error{},
		Token:  "mock-token",
		Users:  map[string]string{},
	}
}

// MockAPIFactory returns a factory that always yields api
func MockAPIFactory(api client.API) APIFactory {
	return func(config.Hook, *slog.Logger) (client.API, error) { return api, nil }
}

// Seed stores items directly, bypassing validation and call recording
func (m *MockAPI) Seed(kind content.Kind, items ...content.Item) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, m.insert(kind, item.Payload()))
	}
	return ids
}

// Calls returns "Method kind[/id]" for every request received
func (m *MockAPI) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.calls)
}

// Count returns how many items kind holds
func (m *MockAPI) Count(kind content.Kind) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.docs[kind.Name])
}

func (m *MockAPI) record(method string, kind content.Kind, id string) error {
	call := method + " " + kind.Name
	if id != "" {
		call += "/" + id
	}
	m.calls = append(m.calls, call)
	return m.Errors[method]
}

func (m *MockAPI) insert(kind content.Kind, body any) string {
	doc := toDoc(body)
	m.next++
	id := fmt.Sprintf("%024x", m.next)
	doc["_id"] = id
	// newest first
	m.docs[kind.Name] = append([]map[string]any{doc}, m.docs[kind.Name]...)
	return id
}

func (m *MockAPI) find(kind content.Kind, id string) int {
	return slices.IndexFunc(m.docs[kind.Name], func(d map[string]any) bool { return d["_id"] == id })
}

func (m *MockAPI) List(_ context.Context, kind content.Kind, page, limit int) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("List", kind, ""); err != nil {
		return nil, err
	}

	docs := m.docs[kind.Name]
	limit = max(limit, 1)
	totalPages := pagination.NormalizeTotal((len(docs) + limit - 1) / limit)
	start := min(pagination.Offset(page, limit), len(docs))
	end := min(start+limit, len(docs))

	return json.Marshal(map[string]any{
		"data": map[string]any{
			kind.ItemsKey:                   docs[start:end],
			"currentPage":                   page,
			"totalPages":                    totalPages,
			"total" + titleASCII(kind.Name): len(docs),
		},
	})
}

func (m *MockAPI) Get(_ context.Context, kind content.Kind, id string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("Get", kind, id); err != nil {
		return nil, err
	}
	i := m.find(kind, id)
	if i < 0 {
		return nil, notFound(kind)
	}
	return json.Marshal(m.docs[kind.Name][i])
}

func (m *MockAPI) Create(_ context.Context, kind content.Kind, body any) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("Create", kind, ""); err != nil {
		return nil, err
	}
	id := m.insert(kind, body)
	return json.Marshal(m.docs[kind.Name][m.find(kind, id)])
}

func (m *MockAPI) Update(_ context.Context, kind content.Kind, id string, body any) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("Update", kind, id); err != nil {
		return nil, err
	}
	i := m.find(kind, id)
	if i < 0 {
		return nil, notFound(kind)
	}
	doc := toDoc(body)
	doc["_id"] = id
	m.docs[kind.Name][i] = doc
	return json.Marshal(doc)
}

func (m *MockAPI) Delete(_ context.Context, kind content.Kind, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("Delete", kind, id); err != nil {
		return err
	}
	i := m.find(kind, id)
	if i < 0 {
		return notFound(kind)
	}
	m.docs[kind.Name] = slices.Delete(m.docs[kind.Name], i, i+1)
	return nil
}

func (m *MockAPI) Login(_ context.Context, creds content.Credentials) (*client.AuthResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("Login", content.Kind{Name: "auth"}, ""); err != nil {
		return nil, err
	}
	if pw, ok := m.Users[creds.Username]; !ok || pw != creds.Password {
		return nil, &perr.ServerRejection{Status: 400, Msg: "Invalid Credentials"}
	}
	return &client.AuthResult{Token: m.Token, User: content.User{ID: "u-" + creds.Username, Username: creds.Username}}, nil
}

func (m *MockAPI) Register(_ context.Context, reg content.Registration) (*client.AuthResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("Register", content.Kind{Name: "auth"}, ""); err != nil {
		return nil, err
	}
	if _, ok := m.Users[reg.Username]; ok {
		return nil, &perr.ServerRejection{Status: 400, Msg: "User already exists"}
	}
	m.Users[reg.Username] = reg.Password
	return &client.AuthResult{
		Token: m.Token,
		User:  content.User{ID: "u-" + reg.Username, Username: reg.Username, Name: reg.Name},
	}, nil
}

func notFound(kind content.Kind) error {
	return &perr.ServerRejection{Status: 404, Msg: fmt.Sprintf("%s not found", titleASCII(kind.Singular))}
}

func titleASCII(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func toDoc(body any) map[string]any {
	raw, err := json.Marshal(body)
	if err != nil {
		panic(err)
	}
	doc := map[string]any{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		panic(err)
	}
	return doc
}
