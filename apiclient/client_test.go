package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junaidrashid-git/webshop/feedback"
)

func TestBaseURL(t *testing.T) {
	deployed := "https://shop.example.com/"
	assert.Equal(t, LocalBaseURL, BaseURL("localhost", deployed))
	assert.Equal(t, "https://shop.example.com", BaseURL("shop.example.com", deployed))
	assert.Equal(t, "https://shop.example.com", BaseURL("127.0.0.1", deployed))
}

func TestSubmitContact(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/api/contact", r.URL.Path)
		var form feedback.ContactForm
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&form))
		assert.Equal(t, "Ada", form.Name, "fields are trimmed before sending")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"Message sent!"}`))
	}))
	defer srv.Close()
	c := New(srv.URL)

	msg, err := c.SubmitContact(context.Background(), feedback.ContactForm{Name: " Ada ", Email: "ada@example.com", Message: "Hi"})
	require.NoError(t, err)
	assert.Equal(t, "Message sent!", msg)

	_, err = c.SubmitContact(context.Background(), feedback.ContactForm{Name: "Ada", Email: "bad", Message: "Hi"})
	assert.ErrorIs(t, err, feedback.ErrInvalidEmail)
	assert.EqualValues(t, 1, calls.Load(), "invalid forms are not sent")
	assert.False(t, c.Pending())
}

func TestErrorsAreDecoded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/review":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"All fields required."}`))
		default:
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`<html>bad gateway</html>`))
		}
	}))
	defer srv.Close()
	c := New(srv.URL)

	err := c.SubmitReview(context.Background(), feedback.ReviewForm{Name: "Ada", Message: "Nice"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "All fields required.", apiErr.Message)

	_, err = c.SubmitContact(context.Background(), feedback.ContactForm{Name: "Ada", Email: "ada@example.com", Message: "Hi"})
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "Error sending message.", apiErr.Message)
}

func TestPendingDuringSubmit(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()
	c := New(srv.URL)

	done := make(chan error, 1)
	go func() {
		done <- c.SubmitReview(context.Background(), feedback.ReviewForm{Name: "Ada", Message: "Nice"})
	}()

	<-entered
	assert.True(t, c.Pending())
	close(release)
	require.NoError(t, <-done)
	assert.False(t, c.Pending())
}

func TestListReviewsAndHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/review":
			_, _ = w.Write([]byte(`[{"name":"b","message":"2"},{"name":"a","message":"1"}]`))
		case "/health":
			_, _ = w.Write([]byte(`{"status":"ok","mongo":1}`))
		}
	}))
	defer srv.Close()
	c := New(srv.URL, WithHTTPClient(srv.Client()))

	reviews, err := c.ListReviews(context.Background())
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "b", reviews[0].Name)

	h, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", h.Status)
	assert.Equal(t, 1, h.Database)
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url).ListReviews(context.Background())
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
	assert.Contains(t, err.Error(), "network error")
}
