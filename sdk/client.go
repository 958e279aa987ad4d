package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/Oudwins/devtaskflow/internals/env"
	"github.com/Oudwins/devtaskflow/internals/schemas"
	"github.com/Oudwins/devtaskflow/internals/timeouts"
)

const DefaultCookieName = "devtaskflow.sid"

type Client struct {
	baseURL    string
	httpClient *http.Client
	cookieName string
	session    string
}

var ErrAuthRequired = errors.New("auth required")

type ErrorResponse struct {
	Error  string              `json:"error"`
	Issues map[string][]string `json:"issues,omitempty"`
}

type APIError struct {
	StatusCode int
	Message    string
	Issues     map[string][]string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("unexpected status: %d", e.StatusCode)
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithSessionCookie authenticates every request with an existing session id,
// as issued by the browser login.
func WithSessionCookie(session string) Option {
	return func(c *Client) {
		c.session = strings.TrimSpace(session)
	}
}

func WithCookieName(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.cookieName = name
		}
	}
}

func NewClient(opts ...Option) *Client {
	envs := env.Get()
	client := &Client{
		baseURL:    strings.TrimRight(envs.BASE_URL, "/"),
		httpClient: &http.Client{Timeout: timeouts.ClientDefault},
		cookieName: DefaultCookieName,
		session:    envs.SESSION,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

func (c *Client) Version(ctx context.Context) (string, error) {
	var info schemas.ServiceInfo
	if err := c.doJSON(ctx, http.MethodGet, "/", nil, &info, http.StatusOK); err != nil {
		return "", err
	}
	return strings.TrimSpace(info.Version), nil
}

func (c *Client) CurrentUser(ctx context.Context) (*schemas.Identity, error) {
	var identity schemas.Identity
	if err := c.doJSON(ctx, http.MethodGet, "/auth/user", nil, &identity, http.StatusOK); err != nil {
		return nil, err
	}
	return &identity, nil
}

func (c *Client) ListTasks(ctx context.Context) ([]schemas.Task, error) {
	tasks := []schemas.Task{}
	if err := c.doJSON(ctx, http.MethodGet, "/api/tasks", nil, &tasks, http.StatusOK); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, request schemas.TaskCreateRequest) (*schemas.Task, error) {
	var task schemas.Task
	if err := c.doJSON(ctx, http.MethodPost, "/api/tasks", request, &task, http.StatusCreated); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) UpdateTaskStatus(ctx context.Context, id int64, status schemas.TaskStatus) (*schemas.Task, error) {
	path := "/api/tasks/" + strconv.FormatInt(id, 10) + "/status"
	var task schemas.Task
	if err := c.doJSON(ctx, http.MethodPatch, path, schemas.TaskStatusUpdateRequest{Status: status}, &task, http.StatusOK); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) ListCommits(ctx context.Context) ([]schemas.Commit, error) {
	commits := []schemas.Commit{}
	if err := c.doJSON(ctx, http.MethodGet, "/api/github/commits", nil, &commits, http.StatusOK); err != nil {
		return nil, err
	}
	return commits, nil
}

func (c *Client) SaveWorkspace(ctx context.Context, taskID string, openFiles []string) error {
	request := schemas.WorkspaceSaveRequest{TaskID: taskID, OpenFiles: openFiles}
	return c.doJSON(ctx, http.MethodPost, "/api/workspace", request, nil, http.StatusCreated)
}

func (c *Client) RestoreWorkspace(ctx context.Context, taskID string) ([]string, error) {
	var snapshot schemas.WorkspaceSnapshot
	if err := c.doJSON(ctx, http.MethodGet, "/api/workspace/"+url.PathEscape(taskID), nil, &snapshot, http.StatusOK); err != nil {
		return nil, err
	}
	if snapshot.OpenFiles == nil {
		snapshot.OpenFiles = []string{}
	}
	return snapshot.OpenFiles, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/logout", nil, nil, http.StatusNoContent)
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload any, out any, accept ...int) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	resp, err := c.doRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !slices.Contains(accept, resp.StatusCode) {
		return responseError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session != "" {
		req.AddCookie(&http.Cookie{Name: c.cookieName, Value: c.session})
	}
	return c.httpClient.Do(req)
}

func responseError(resp *http.Response) error {
	if resp.StatusCode == http.StatusUnauthorized {
		return ErrAuthRequired
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}

	var payload ErrorResponse
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: payload.Error, Issues: payload.Issues}
	}
	return &APIError{StatusCode: resp.StatusCode}
}
