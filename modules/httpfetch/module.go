// Package httpfetch provides an HTTP GET leaf behavior backed by the
// engine's injected client.
package httpfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"reflect"

	"github.com/vk/wireflow/internal/ctxlog"
	"github.com/vk/wireflow/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// maxBodyBytes bounds how much of a response body is captured into the
// node result.
const maxBodyBytes = 1 << 20

// GetInput defines the arguments for 'http.get'.
type GetInput struct {
	URL     string            `wf:"url"`
	Headers map[string]string `wf:"headers,field"`
}

// GetResult is the result of 'http.get'.
type GetResult struct {
	Status int               `json:"status"`
	Body   string            `json:"body"`
	Header map[string]string `json:"header"`
}

// Get is the handler for the 'http.get' behavior. It uses the invocation's
// shared HTTP client rather than constructing its own.
func Get(ctx context.Context, inv *registry.Invocation, input *GetInput) (*GetResult, error) {
	if input.URL == "" {
		return nil, fmt.Errorf("url must not be empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, input.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	for k, v := range input.Headers {
		req.Header.Set(k, v)
	}

	ctxlog.FromContext(ctx).Debug("Fetching URL.", "url", input.URL)
	resp, err := inv.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching '%s': %w", input.URL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	header := make(map[string]string, len(resp.Header))
	for k := range resp.Header {
		header[k] = resp.Header.Get(k)
	}
	return &GetResult{Status: resp.StatusCode, Body: string(body), Header: header}, nil
}

// Register registers the HTTP behaviors with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterBehavior("http.get", &registry.Behavior{
		Category:  "http",
		Kind:      registry.KindFunction,
		NewInput:  func() any { return new(GetInput) },
		InputType: reflect.TypeOf(GetInput{}),
		Fn:        Get,
	})
}
