package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/tinytasks/internal/models"
	"github.com/desertthunder/tinytasks/internal/shared"
	tu "github.com/desertthunder/tinytasks/internal/testing"
)

func TestHTTPTaskStore(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("With Custom BaseURL and Client", func(t *testing.T) {
			customClient := &http.Client{}
			store := NewHTTPTaskStore("http://example.com/tasks/", customClient)

			if store.BaseURL() != "http://example.com/tasks" {
				t.Errorf("expected trailing slash trimmed, got %s", store.BaseURL())
			}
			if store.httpClient != customClient {
				t.Error("expected custom client to be used")
			}
		})

		t.Run("With Empty BaseURL And Nil Client", func(t *testing.T) {
			store := NewHTTPTaskStore("", nil)

			if store.BaseURL() != shared.DefaultAPIURL {
				t.Errorf("expected default baseURL %s, got %s", shared.DefaultAPIURL, store.BaseURL())
			}
			if store.httpClient != http.DefaultClient {
				t.Error("expected http.DefaultClient to be used")
			}
		})
	})

	t.Run("List", func(t *testing.T) {
		t.Run("Decodes Tasks In Server Order", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					t.Errorf("expected GET method, got %s", r.Method)
				}
				if r.URL.Path != "/tasks" {
					t.Errorf("expected path /tasks, got %s", r.URL.Path)
				}
				if r.Header.Get("Content-Type") != "application/json" {
					t.Errorf("expected Content-Type application/json, got %s", r.Header.Get("Content-Type"))
				}
				w.Write([]byte(`[{"id":3,"title":"c"},{"_id":"x1","title":"a","completed":true},{"id":1,"title":"b"}]`))
			}))
			defer server.Close()

			store := NewHTTPTaskStore(server.URL+"/tasks", nil)
			tasks, err := store.List(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			want := []models.Task{{ID: "3", Title: "c"}, {ID: "x1", Title: "a", Completed: true}, {ID: "1", Title: "b"}}
			if len(tasks) != len(want) {
				t.Fatalf("expected %d tasks, got %d", len(want), len(tasks))
			}
			for i := range want {
				if tasks[i] != want[i] {
					t.Errorf("task %d = %+v, want %+v", i, tasks[i], want[i])
				}
			}
		})

		t.Run("Non-Array Body Is Empty List", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"tasks":[]}`))
			}))
			defer server.Close()

			tasks, err := NewHTTPTaskStore(server.URL, nil).List(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if tasks == nil || len(tasks) != 0 {
				t.Errorf("expected empty non-nil list, got %#v", tasks)
			}
		})

		t.Run("Malformed Array Is Transport Error", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`[{"id":`))
			}))
			defer server.Close()

			_, err := NewHTTPTaskStore(server.URL, nil).List(context.Background())
			te, ok := AsTransportError(err)
			if !ok {
				t.Fatalf("expected TransportError, got %v", err)
			}
			if te.Status != http.StatusOK {
				t.Errorf("expected status 200 recorded, got %d", te.Status)
			}
		})
	})

	t.Run("Create", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST method, got %s", r.Method)
			}

			body, _ := io.ReadAll(r.Body)
			if string(body) != `{"title":"buy milk"}` {
				t.Errorf("unexpected body %s", body)
			}

			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":2,"title":"buy milk","completed":false}`))
		}))
		defer server.Close()

		task, err := NewHTTPTaskStore(server.URL, nil).Create(context.Background(), "buy milk")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if *task != (models.Task{ID: "2", Title: "buy milk"}) {
			t.Errorf("unexpected task %+v", task)
		}
	})

	t.Run("Patch", func(t *testing.T) {
		t.Run("Sends Only Supplied Fields", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPatch {
					t.Errorf("expected PATCH method, got %s", r.Method)
				}
				if r.URL.Path != "/tasks/7" {
					t.Errorf("expected path /tasks/7, got %s", r.URL.Path)
				}

				var payload map[string]any
				json.NewDecoder(r.Body).Decode(&payload)
				if len(payload) != 1 || payload["completed"] != true {
					t.Errorf("unexpected payload %v", payload)
				}

				w.Write([]byte(`{"id":7,"title":"a","completed":true}`))
			}))
			defer server.Close()

			task, err := NewHTTPTaskStore(server.URL+"/tasks", nil).Patch(context.Background(), "7", models.CompletedPatch(true))
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !task.Completed {
				t.Error("expected completed task")
			}
		})

		t.Run("Escapes Identifiers", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.EscapedPath() != "/tasks/a%2Fb" {
					t.Errorf("expected escaped path, got %s", r.URL.EscapedPath())
				}
				w.Write([]byte(`{"id":"a/b","title":"t"}`))
			}))
			defer server.Close()

			if _, err := NewHTTPTaskStore(server.URL+"/tasks", nil).Patch(context.Background(), "a/b", models.TitlePatch("t")); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	})

	t.Run("Remove", func(t *testing.T) {
		for _, status := range []int{http.StatusOK, http.StatusNoContent} {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodDelete {
					t.Errorf("expected DELETE method, got %s", r.Method)
				}
				w.WriteHeader(status)
				if status == http.StatusOK {
					w.Write([]byte("not json at all"))
				}
			}))

			if err := NewHTTPTaskStore(server.URL, nil).Remove(context.Background(), "1"); err != nil {
				t.Errorf("status %d: expected no error, got %v", status, err)
			}
			server.Close()
		}
	})

	t.Run("Errors", func(t *testing.T) {
		tests := []struct {
			name    string
			status  int
			body    string
			call    func(*HTTPTaskStore) error
			wantMsg string
		}{
			{
				name:    "body used verbatim",
				status:  http.StatusBadRequest,
				body:    "title is required",
				call:    func(s *HTTPTaskStore) error { _, err := s.Create(context.Background(), "x"); return err },
				wantMsg: "title is required",
			},
			{
				name:    "load fallback",
				status:  http.StatusInternalServerError,
				call:    func(s *HTTPTaskStore) error { _, err := s.List(context.Background()); return err },
				wantMsg: "Load failed (500)",
			},
			{
				name:    "update fallback",
				status:  http.StatusInternalServerError,
				call:    func(s *HTTPTaskStore) error { _, err := s.Patch(context.Background(), "1", models.CompletedPatch(true)); return err },
				wantMsg: "Update failed (500)",
			},
			{
				name:    "delete fallback on whitespace body",
				status:  http.StatusNotFound,
				body:    "  \n",
				call:    func(s *HTTPTaskStore) error { return s.Remove(context.Background(), "1") },
				wantMsg: "Delete failed (404)",
			},
			{
				name:    "create fallback",
				status:  http.StatusServiceUnavailable,
				call:    func(s *HTTPTaskStore) error { _, err := s.Create(context.Background(), "x"); return err },
				wantMsg: "Create failed (503)",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(tt.status)
					w.Write([]byte(tt.body))
				}))
				defer server.Close()

				err := tt.call(NewHTTPTaskStore(server.URL, nil))
				te, ok := AsTransportError(err)
				if !ok {
					t.Fatalf("expected TransportError, got %v", err)
				}
				if te.Status != tt.status {
					t.Errorf("expected status %d, got %d", tt.status, te.Status)
				}
				if err.Error() != tt.wantMsg {
					t.Errorf("expected message %q, got %q", tt.wantMsg, err.Error())
				}
				if !errors.Is(err, shared.ErrAPIRequest) {
					t.Error("expected error to match shared.ErrAPIRequest")
				}
			})
		}

		t.Run("Status Sentinels", func(t *testing.T) {
			tests := []struct {
				status int
				target error
			}{
				{http.StatusNotFound, shared.ErrTaskNotFound},
				{http.StatusTooManyRequests, shared.ErrRateLimited},
				{http.StatusServiceUnavailable, shared.ErrServiceUnavailable},
			}

			for _, tt := range tests {
				err := &TransportError{Op: OpList, Status: tt.status, Message: "x"}
				if !errors.Is(err, tt.target) {
					t.Errorf("status %d should match %v", tt.status, tt.target)
				}
				if errors.Is(&TransportError{Op: OpList, Status: 500}, tt.target) {
					t.Errorf("status 500 should not match %v", tt.target)
				}
			}
		})

		t.Run("Network Failure", func(t *testing.T) {
			cause := errors.New("connection refused")
			client := &http.Client{Transport: tu.NewMockRoundTripper(nil, cause)}

			_, err := NewHTTPTaskStore("http://example.com", client).List(context.Background())
			te, ok := AsTransportError(err)
			if !ok {
				t.Fatalf("expected TransportError, got %v", err)
			}
			if te.Status != 0 {
				t.Errorf("expected no status, got %d", te.Status)
			}
			if !errors.Is(err, cause) {
				t.Error("expected network cause to be unwrappable")
			}
		})

		t.Run("Failed Response Body Read", func(t *testing.T) {
			client := &http.Client{
				Transport: tu.NewMockRoundTripper(&http.Response{
					StatusCode: http.StatusOK,
					Body:       &tu.FCloser{},
					Header:     http.Header{},
				}, nil),
			}

			_, err := NewHTTPTaskStore("http://example.com", client).List(context.Background())
			if _, ok := AsTransportError(err); !ok {
				t.Fatalf("expected TransportError, got %v", err)
			}
		})

		t.Run("Canceled Context", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("[]"))
			}))
			defer server.Close()

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, err := NewHTTPTaskStore(server.URL, nil).List(ctx)
			if !errors.Is(err, context.Canceled) {
				t.Errorf("expected context.Canceled, got %v", err)
			}
		})
	})
}

func TestOp(t *testing.T) {
	verbs := map[Op]string{OpList: "Load", OpCreate: "Create", OpPatch: "Update", OpRemove: "Delete", Op(42): "Request"}
	for op, want := range verbs {
		if got := op.Verb(); got != want {
			t.Errorf("%d.Verb() = %s, want %s", op, got, want)
		}
	}
}
