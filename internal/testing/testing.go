// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/pomo/internal/models"
)

// MockPlayback is a test double for [services.Playback] that counts calls and can be told to fail.
type MockPlayback struct {
	mu        sync.Mutex
	pauses    int
	resumes   int
	calls     []string
	err       error
	devices   []models.Device
	listCalls int
}

func NewMockPlayback() *MockPlayback { return &MockPlayback{} }

func (m *MockPlayback) Name() string { return "mock" }

func (m *MockPlayback) Pause(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pauses++
	m.calls = append(m.calls, "pause")
	return m.err
}

func (m *MockPlayback) Resume(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resumes++
	m.calls = append(m.calls, "resume")
	return m.err
}

func (m *MockPlayback) ListDevices(ctx context.Context) ([]models.Device, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.err != nil {
		return nil, m.err
	}
	return m.devices, nil
}

// Fail makes every subsequent call return err. Pass nil to recover.
func (m *MockPlayback) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// SetDevices sets the devices returned by ListDevices.
func (m *MockPlayback) SetDevices(devices []models.Device) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.devices = devices
}

func (m *MockPlayback) Pauses() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pauses
}

func (m *MockPlayback) Resumes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resumes
}

// Calls returns "pause" and "resume" in the order they were received.
func (m *MockPlayback) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// MemoryStore is an in-memory key-value settings store.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
	sets   int
	GetErr error
	SetErr error
}

// NewMemoryStore returns a store seeded with kv pairs ("key", "value", ...).
func NewMemoryStore(kv ...string) *MemoryStore {
	s := &MemoryStore{values: make(map[string]string)}
	for i := 0; i+1 < len(kv); i += 2 {
		s.values[kv[i]] = kv[i+1]
	}
	return s
}

func (s *MemoryStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetErr != nil {
		return "", false, s.GetErr
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SetErr != nil {
		return s.SetErr
	}
	s.values[key] = value
	s.sets++
	return nil
}

// Value returns the stored value for key, or "" when absent.
func (s *MemoryStore) Value(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key]
}

// Sets returns the number of successful writes.
func (s *MemoryStore) Sets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sets
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
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
