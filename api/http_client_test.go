package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient_Request_Success(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/test-endpoint", r.URL.Path)
		assert.Equal(t, "lat:[1 TO 2]", r.URL.Query().Get("q"))

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"message": "success"})
	}))
	defer mockServer.Close()

	client, err := NewHTTPClient(mockServer.URL)
	require.NoError(t, err)

	var response map[string]string
	err = client.Request(context.Background(), http.MethodGet, "/test-endpoint", url.Values{"q": {"lat:[1 TO 2]"}}, nil, &response)

	require.NoError(t, err)
	assert.Equal(t, "success", response["message"])
}

func TestHTTPClient_Request_Failure(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "bad request"}`))
	}))
	defer mockServer.Close()

	client, err := NewHTTPClient(mockServer.URL)
	require.NoError(t, err)

	var response map[string]string
	err = client.Request(context.Background(), http.MethodPost, "/test-endpoint", nil, map[string]string{"key": "value"}, &response)

	require.Error(t, err)
	assert.Equal(t, "unexpected status code: 400 Bad Request", err.Error())

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "bad request")
}

func TestHTTPClient_BasicAuthFromURL(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "admin", user)
		assert.Equal(t, "s3cret", pass)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer mockServer.Close()

	u, _ := url.Parse(mockServer.URL)
	u.User = url.UserPassword("admin", "s3cret")

	client, err := NewHTTPClient(u.String() + "/")
	require.NoError(t, err)
	assert.Equal(t, mockServer.URL, client.BaseURL)

	require.NoError(t, client.Request(context.Background(), http.MethodGet, "/", nil, nil, nil))
}

func TestHTTPClient_Request_ContextCancelled(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer mockServer.Close()

	client, err := NewHTTPClient(mockServer.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err = client.Request(ctx, http.MethodGet, "/slow", nil, nil, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
