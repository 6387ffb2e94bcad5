// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"
	"sync"
	"testing"

	"github.com/desertthunder/tinytasks/internal/models"
)

// Op names a [FakeStore] primitive.
type Op string

const (
	OpList   Op = "list"
	OpCreate Op = "create"
	OpPatch  Op = "patch"
	OpRemove Op = "remove"
)

// ErrNotFound is returned by [FakeStore.Patch] for an unknown identifier.
var ErrNotFound = errors.New("task not found")

// Call records one invocation of a [FakeStore] primitive.
type Call struct {
	Op    Op
	ID    string
	Title string
	Patch models.TaskPatch
}

// FakeStore is an in-memory task store that behaves like a well-formed remote store.
//
// Failures are injected per operation with [FakeStore.Fail]. After [FakeStore.Hold], every call
// announces itself on Entered and waits for [FakeStore.Proceed] before touching state, which lets
// tests observe what happened before the response.
type FakeStore struct {
	mu      sync.Mutex
	tasks   []models.Task
	nextID  int
	errs    map[Op]error
	calls   []Call
	held    bool
	Entered chan Call
	proceed chan struct{}
}

// NewFakeStore creates a store seeded with tasks.
func NewFakeStore(tasks ...models.Task) *FakeStore {
	next := 0
	for _, t := range tasks {
		if n, err := strconv.Atoi(t.ID); err == nil && n > next {
			next = n
		}
	}
	return &FakeStore{
		tasks:   models.Clone(tasks),
		nextID:  next,
		errs:    make(map[Op]error),
		Entered: make(chan Call, 32),
		proceed: make(chan struct{}),
	}
}

// Fail makes every subsequent call of op return err. A nil err clears the failure.
func (f *FakeStore) Fail(op Op, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.errs, op)
		return
	}
	f.errs[op] = err
}

// Hold makes every subsequent call block until [FakeStore.Proceed].
func (f *FakeStore) Hold() {
	f.mu.Lock()
	f.held = true
	f.mu.Unlock()
}

// Proceed lets one held call continue.
func (f *FakeStore) Proceed() {
	f.proceed <- struct{}{}
}

// SetTasks replaces the server-side collection, as if another client had changed it.
func (f *FakeStore) SetTasks(tasks ...models.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = models.Clone(tasks)
}

// Tasks returns a copy of the server-side collection.
func (f *FakeStore) Tasks() []models.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return models.Clone(f.tasks)
}

// Calls returns every call made so far.
func (f *FakeStore) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Count returns how many times op was called.
func (f *FakeStore) Count(op Op) int {
	n := 0
	for _, c := range f.Calls() {
		if c.Op == op {
			n++
		}
	}
	return n
}

func (f *FakeStore) enter(ctx context.Context, c Call) error {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	held := f.held
	f.mu.Unlock()

	if held {
		f.Entered <- c
		select {
		case <-f.proceed:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errs[c.Op]
}

func (f *FakeStore) List(ctx context.Context) ([]models.Task, error) {
	if err := f.enter(ctx, Call{Op: OpList}); err != nil {
		return nil, err
	}
	return f.Tasks(), nil
}

func (f *FakeStore) Create(ctx context.Context, title string) (*models.Task, error) {
	if err := f.enter(ctx, Call{Op: OpCreate, Title: title}); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	task := models.Task{ID: strconv.Itoa(f.nextID), Title: title}
	f.tasks = append(f.tasks, task)
	return &task, nil
}

func (f *FakeStore) Patch(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error) {
	if err := f.enter(ctx, Call{Op: OpPatch, ID: id, Patch: patch}); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := models.IndexOf(f.tasks, id)
	if i < 0 {
		return nil, ErrNotFound
	}
	f.tasks[i] = patch.Apply(f.tasks[i])
	task := f.tasks[i]
	return &task, nil
}

func (f *FakeStore) Remove(ctx context.Context, id string) error {
	if err := f.enter(ctx, Call{Op: OpRemove, ID: id}); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if i := models.IndexOf(f.tasks, id); i >= 0 {
		f.tasks = append(f.tasks[:i:i], f.tasks[i+1:]...)
	}
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

var _ io.ReadCloser = (*FCloser)(nil)

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
