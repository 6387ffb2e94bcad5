package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/tinytasks/internal/models"
	"github.com/desertthunder/tinytasks/internal/shared"
)

var _ TaskStore = (*HTTPTaskStore)(nil)

// HTTPTaskStore implements [TaskStore] against a REST resource such as http://localhost:3000/tasks.
type HTTPTaskStore struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPTaskStore creates a store client for the resource at baseURL.
//
// An empty baseURL falls back to [shared.DefaultAPIURL] and a nil client to [http.DefaultClient].
func NewHTTPTaskStore(baseURL string, client *http.Client) *HTTPTaskStore {
	if baseURL == "" {
		baseURL = shared.DefaultAPIURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &HTTPTaskStore{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
}

// BaseURL returns the resource URL requests are sent to.
func (s *HTTPTaskStore) BaseURL() string {
	return s.baseURL
}

// List performs GET <base>.
//
// A 2xx body that is not a JSON array is treated as an empty list.
func (s *HTTPTaskStore) List(ctx context.Context) ([]models.Task, error) {
	body, status, err := s.do(ctx, OpList, http.MethodGet, s.baseURL, nil)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return []models.Task{}, nil
	}

	tasks := []models.Task{}
	if err := json.Unmarshal(trimmed, &tasks); err != nil {
		return nil, &TransportError{Op: OpList, Status: status, Message: fmt.Sprintf("failed to decode tasks: %v", err), Err: err}
	}

	return tasks, nil
}

// Create performs POST <base> with {"title": title}.
func (s *HTTPTaskStore) Create(ctx context.Context, title string) (*models.Task, error) {
	payload, err := json.Marshal(struct {
		Title string `json:"title"`
	}{title})
	if err != nil {
		return nil, newNetworkError(OpCreate, err)
	}

	body, status, err := s.do(ctx, OpCreate, http.MethodPost, s.baseURL, payload)
	if err != nil {
		return nil, err
	}

	return decodeTask(OpCreate, status, body)
}

// Patch performs PATCH <base>/<id> with the non-nil fields of patch.
func (s *HTTPTaskStore) Patch(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error) {
	payload, err := json.Marshal(patch)
	if err != nil {
		return nil, newNetworkError(OpPatch, err)
	}

	body, status, err := s.do(ctx, OpPatch, http.MethodPatch, s.itemURL(id), payload)
	if err != nil {
		return nil, err
	}

	return decodeTask(OpPatch, status, body)
}

// Remove performs DELETE <base>/<id>. The response body is ignored.
func (s *HTTPTaskStore) Remove(ctx context.Context, id string) error {
	_, _, err := s.do(ctx, OpRemove, http.MethodDelete, s.itemURL(id), nil)
	return err
}

func (s *HTTPTaskStore) itemURL(id string) string {
	return s.baseURL + "/" + url.PathEscape(id)
}

// do sends one request and returns the body of a 2xx response.
//
// Every failure comes back as a [*TransportError].
func (s *HTTPTaskStore) do(ctx context.Context, op Op, method, target string, payload []byte) ([]byte, int, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, 0, newNetworkError(op, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, 0, newNetworkError(op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &TransportError{
			Op:      op,
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("failed to read response: %v", err),
			Err:     err,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode, newStatusError(op, resp.StatusCode, body)
	}

	return body, resp.StatusCode, nil
}

func decodeTask(op Op, status int, body []byte) (*models.Task, error) {
	var task models.Task
	if err := json.Unmarshal(body, &task); err != nil {
		return nil, &TransportError{Op: op, Status: status, Message: fmt.Sprintf("failed to decode task: %v", err), Err: err}
	}
	return &task, nil
}
