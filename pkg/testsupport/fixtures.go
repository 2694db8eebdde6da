// Package testsupport holds the transport doubles and golden-file helpers
// shared by the package tests.
package testsupport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formsubmit/pkg/transport"
)

// ErrNoResponse is returned by ScriptedClient once its script is exhausted.
var ErrNoResponse = errors.New("testsupport: no response scripted")

// Call is one request observed by ScriptedClient.
type Call struct {
	Path string
	Body string
}

// ScriptedClient replays responses in order and records every request.
type ScriptedClient struct {
	mu        sync.Mutex
	responses []transport.Response
	calls     []Call
}

var _ transport.Client = (*ScriptedClient)(nil)

// NewScriptedClient returns a client that answers with responses in order.
func NewScriptedClient(responses ...transport.Response) *ScriptedClient {
	return &ScriptedClient{responses: append([]transport.Response(nil), responses...)}
}

// Reply builds a response with a JSON body.
func Reply(status int, body string) transport.Response {
	return transport.Response{StatusCode: status, Body: []byte(body)}
}

// PostJSON implements transport.Client.
func (c *ScriptedClient) PostJSON(ctx context.Context, path string, body []byte) (transport.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, Call{Path: path, Body: string(body)})
	if err := ctx.Err(); err != nil {
		return transport.Response{}, fmt.Errorf("%w: %v", transport.ErrTransport, err)
	}
	if len(c.responses) == 0 {
		return transport.Response{}, ErrNoResponse
	}
	resp := c.responses[0]
	c.responses = c.responses[1:]
	return resp, nil
}

// Calls returns a copy of the recorded requests.
func (c *ScriptedClient) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Call(nil), c.calls...)
}

// Bodies returns the recorded request bodies in order.
func (c *ScriptedClient) Bodies() []string {
	calls := c.Calls()
	out := make([]string, len(calls))
	for i, call := range calls {
		out[i] = call.Body
	}
	return out
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// AssertJSONGolden compares got with the JSON golden at path, ignoring
// whitespace and object key order.
func AssertJSONGolden(t *testing.T, path string, got []byte) {
	t.Helper()
	if WriteMaybeGolden(t, path, got) {
		return
	}
	var want, have any
	if err := json.Unmarshal(MustReadGolden(t, path), &want); err != nil {
		t.Fatalf("decode golden %s: %v", path, err)
	}
	if err := json.Unmarshal(got, &have); err != nil {
		t.Fatalf("decode payload: %v\n%s", err, got)
	}
	if diff := cmp.Diff(want, have); diff != "" {
		t.Fatalf("%s mismatch (-want +got):\n%s", filepath.Base(path), diff)
	}
}
