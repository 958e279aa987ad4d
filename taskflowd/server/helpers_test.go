package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Oudwins/devtaskflow/internals/conf"
	"github.com/Oudwins/devtaskflow/internals/env"
	"github.com/Oudwins/devtaskflow/internals/schemas"
	"github.com/Oudwins/devtaskflow/internals/testutil"
	"github.com/Oudwins/devtaskflow/taskflowd/baseserver"
)

const testFrontendURL = "http://localhost:3000"

type testHarness struct {
	server *Server
	http   *httptest.Server
	github *httptest.Server
	client *http.Client
}

// fakeGitHubAPI serves the handful of GitHub endpoints the server calls.
func fakeGitHubAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		w.Header().Set("Content-Type", "application/json")
		if r.Form.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"bad_verification_code"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"gho_alice","token_type":"bearer","scope":"repo,user:email"}`))
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "token gho_alice" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":1001,"login":"alice","name":"Alice","avatar_url":"https://avatars.example/1001"}`))
	})
	mux.HandleFunc("/user/repos", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "token gho_broken" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"name":"api","full_name":"alice/api"}]`))
	})
	mux.HandleFunc("/repos/alice/api/commits", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"sha":"abc123","commit":{"message":"Fix bug","author":{"date":"2024-01-01T00:00:00Z"}}}]`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()
	github := fakeGitHubAPI(t)

	config, err := conf.Parse([]byte(fmt.Sprintf(`{"server":{"data_dir":%q},"github":{"api_url":%q}}`, t.TempDir(), github.URL)))
	if err != nil {
		t.Fatalf("conf.Parse: %v", err)
	}
	config.Version = "test-version"

	environment := &env.EnvStruct{
		MODE:         env.ModeDevelopment,
		FRONTEND_URL: testFrontendURL,
		LISTEN_ADDR:  "localhost:0",
		CALLBACK_URL: "http://localhost/auth/github/callback",
	}
	base := baseserver.NewWith(config, environment, testutil.DiscardLogger())

	server, err := NewWithBase(context.Background(), base)
	if err != nil {
		t.Fatalf("NewWithBase: %v", err)
	}
	ts := httptest.NewServer(server.Router())
	t.Cleanup(func() {
		ts.Close()
		_ = server.Shutdown(context.Background())
	})

	return &testHarness{
		server: server,
		http:   ts,
		github: github,
		client: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// login creates a session directly and returns its cookie.
func (h *testHarness) login(t *testing.T, identity schemas.Identity) *http.Cookie {
	t.Helper()
	session, err := h.server.sessions.Create(context.Background(), identity)
	if err != nil {
		t.Fatalf("sessions.Create: %v", err)
	}
	return &http.Cookie{Name: h.server.Base.Config.Sessions.CookieName, Value: session.ID}
}

func (h *testHarness) do(t *testing.T, method string, path string, cookie *http.Cookie, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	switch value := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(value)
	default:
		data, err := json.Marshal(value)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, h.http.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := h.client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var value T
	if err := json.NewDecoder(resp.Body).Decode(&value); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return value
}

func expectStatus(t *testing.T, resp *http.Response, status int) {
	t.Helper()
	if resp.StatusCode != status {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("%s %s: expected %d, got %d: %s", resp.Request.Method, resp.Request.URL.Path, status, resp.StatusCode, body)
	}
}

var (
	alice = schemas.Identity{ID: "1001", Username: "alice", DisplayName: "Alice", AccessToken: "gho_alice"}
	bob   = schemas.Identity{ID: "1002", Username: "bob", DisplayName: "Bob", AccessToken: "gho_bob"}
)
