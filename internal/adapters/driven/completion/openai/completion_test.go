package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gplanner/gplan/internal/core/domain"
)

func TestBaseURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", DefaultBaseURL},
		{"https://api.openai.com/v1/chat/completions", "https://api.openai.com/v1"},
		{"https://api.example.com/v1/chat/completions/", "https://api.example.com/v1"},
		{"http://localhost:1234/v1/", "http://localhost:1234/v1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BaseURL(tt.in), tt.in)
	}
}

func TestComplete(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hello"}}]}`))
	}))
	defer srv.Close()

	svc, err := New(Config{APIKey: "sk-test", URL: srv.URL + "/v1/chat/completions", Model: "m1"})
	require.NoError(t, err)

	out, err := svc.Complete(context.Background(), "be brief", "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
	assert.Equal(t, "m1", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "hi", got.Messages[1].Content)
	assert.Equal(t, "m1", svc.ModelName())
}

func TestComplete_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"auth"}}`))
	}))
	defer srv.Close()

	svc, _ := New(Config{APIKey: "x", URL: srv.URL})
	_, err := svc.Complete(context.Background(), "", "hi")

	var rf *domain.RequestFailed
	require.True(t, errors.As(err, &rf))
	assert.Equal(t, http.StatusUnauthorized, rf.StatusCode)
}

func TestComplete_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	svc, _ := New(Config{URL: srv.URL})
	_, err := svc.Complete(context.Background(), "", "hi")
	assert.True(t, domain.IsRequestFailed(err))
}

func TestComplete_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	svc, _ := New(Config{URL: srv.URL})
	_, err := svc.Complete(context.Background(), "", "hi")
	assert.True(t, domain.IsRequestFailed(err))
}
