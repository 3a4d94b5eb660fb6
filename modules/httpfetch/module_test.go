package httpfetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/wireflow/internal/registry"
)

func TestGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "yes", r.Header.Get("X-Custom"))
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))
	defer srv.Close()

	inv := &registry.Invocation{HTTPClient: srv.Client()}
	res, err := Get(context.Background(), inv, &GetInput{
		URL:     srv.URL,
		Headers: map[string]string{"X-Custom": "yes"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusTeapot, res.Status)
	assert.Equal(t, "short and stout", res.Body)
	assert.Equal(t, "text/plain", res.Header["Content-Type"])
}

func TestGetRejectsEmptyURL(t *testing.T) {
	inv := &registry.Invocation{HTTPClient: http.DefaultClient}
	_, err := Get(context.Background(), inv, &GetInput{})
	require.Error(t, err)
}
