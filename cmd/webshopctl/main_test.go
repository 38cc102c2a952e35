package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/contact":
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"message":"Message sent!"}`))
		case r.Method == http.MethodPost && r.URL.Path == "/api/review":
			w.WriteHeader(http.StatusCreated)
		case r.Method == http.MethodGet && r.URL.Path == "/api/review":
			_, _ = w.Write([]byte(`[{"name":"Ada","message":"Lovely"}]`))
		case r.URL.Path == "/health":
			_, _ = w.Write([]byte(`{"status":"ok","mongo":0}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCommands(t *testing.T) {
	srv := fakeBackend(t)

	out, err := run(t, "--base-url", srv.URL, "contact", "--name", "Ada", "--email", "ada@example.com", "--message", "Hi")
	require.NoError(t, err)
	assert.Equal(t, "Message sent!\n", out)

	out, err = run(t, "--base-url", srv.URL, "review", "add", "--name", "Ada", "--message", "Lovely")
	require.NoError(t, err)
	assert.Equal(t, "Review submitted!\n", out)

	out, err = run(t, "--base-url", srv.URL, "review", "list")
	require.NoError(t, err)
	assert.Equal(t, "Ada: Lovely\n", out)

	out, err = run(t, "--base-url", srv.URL, "health")
	require.NoError(t, err)
	assert.Equal(t, "status: ok, database: disconnected\n", out)
}

func TestContactValidation(t *testing.T) {
	srv := fakeBackend(t)
	_, err := run(t, "--base-url", srv.URL, "contact", "--name", "Ada", "--email", "nope", "--message", "Hi")
	assert.EqualError(t, err, "Invalid email format.")
}
