package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"file-insight/internal/config"
	"file-insight/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testModel = "google/gemini-2.5-flash"

func completionBody(content string) string {
	b, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   testModel,
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	})
	return string(b)
}

// fakeGateway serves /chat/completions with a fixed status and body and
// counts hits.
func fakeGateway(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func testGateway(url, key string) *Gateway {
	return NewGateway(config.AIConfig{BaseURL: url, APIKey: key, Model: testModel, Timeout: 5 * time.Second}, nil)
}

var testMessages = []model.ChatMessage{
	{Role: model.RoleSystem, Content: "sys"},
	{Role: model.RoleUser, Content: "hi"},
}

func TestGatewayComplete(t *testing.T) {
	// content may be encoded as a string or as text parts
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string          `json:"role"`
			Content json.RawMessage `json:"content"`
		} `json:"messages"`
	}
	var auth, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth, path = r.Header.Get("Authorization"), r.URL.Path
		json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionBody("Total is 6.")))
	}))
	defer srv.Close()

	text, err := testGateway(srv.URL+"/v1", "secret").Complete(context.Background(), testMessages)
	require.NoError(t, err)
	assert.Equal(t, "Total is 6.", text)
	assert.Equal(t, "Bearer secret", auth)
	assert.Equal(t, "/v1/chat/completions", path)
	assert.Equal(t, testModel, got.Model)
	require.Len(t, got.Messages, 2)
	for i, m := range testMessages {
		assert.Equal(t, m.Role, got.Messages[i].Role)
		assert.Contains(t, string(got.Messages[i].Content), m.Content)
	}
}

func TestGatewayStatusMapping(t *testing.T) {
	cases := []struct {
		status int
		check  func(t *testing.T, err error)
	}{
		{http.StatusTooManyRequests, func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrRateLimited) }},
		{http.StatusPaymentRequired, func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrPaymentRequired) }},
		{http.StatusInternalServerError, func(t *testing.T, err error) {
			var gwErr *GatewayError
			require.ErrorAs(t, err, &gwErr)
			assert.Equal(t, http.StatusInternalServerError, gwErr.Status)
			assert.Equal(t, "AI Gateway error: 500", err.Error())
		}},
		{http.StatusUnauthorized, func(t *testing.T, err error) {
			var gwErr *GatewayError
			require.ErrorAs(t, err, &gwErr)
			assert.Equal(t, http.StatusUnauthorized, gwErr.Status)
		}},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			srv, hits := fakeGateway(t, tc.status, `{"error":{"message":"nope"}}`)
			_, err := testGateway(srv.URL, "k").Complete(context.Background(), testMessages)
			require.Error(t, err)
			tc.check(t, err)
			assert.EqualValues(t, 1, hits.Load(), "no retries")
		})
	}
}

func TestGatewayMalformedResponse(t *testing.T) {
	for name, body := range map[string]string{
		"no choices":      `{"id":"x","choices":[]}`,
		"no content":      `{"id":"x","choices":[{"index":0,"message":{"role":"assistant"}}]}`,
		"not json":        `<html>oops</html>`,
		"null content":    `{"id":"x","choices":[{"index":0,"message":{"role":"assistant","content":null}}]}`,
		"numeric content": `{"id":"x","choices":[{"index":0,"message":{"role":"assistant","content":42}}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			srv, _ := fakeGateway(t, http.StatusOK, body)
			text, err := testGateway(srv.URL, "k").Complete(context.Background(), testMessages)
			var gwErr *GatewayError
			assert.ErrorAs(t, err, &gwErr)
			assert.Empty(t, text)
		})
	}
}

func TestGatewayTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	gw := NewGateway(config.AIConfig{BaseURL: srv.URL, APIKey: "k", Model: testModel, Timeout: 50 * time.Millisecond}, nil)
	_, err := gw.Complete(context.Background(), testMessages)
	assert.ErrorIs(t, err, ErrGatewayTimeout)
}

func TestGatewayMissingKey(t *testing.T) {
	srv, hits := fakeGateway(t, http.StatusOK, completionBody("x"))
	gw := testGateway(srv.URL, "")
	assert.False(t, gw.Configured())

	_, err := gw.Complete(context.Background(), testMessages)
	assert.True(t, errors.Is(err, ErrMissingAPIKey))
	assert.EqualValues(t, 0, hits.Load())
}

func TestGatewayTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := testGateway(url, "k").Complete(context.Background(), testMessages)
	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Zero(t, gwErr.Status)
}
