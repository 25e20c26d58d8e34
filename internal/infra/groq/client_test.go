package groq_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatbot/internal/domain"
	"chatbot/internal/infra"
	"chatbot/internal/infra/groq"
)

func TestClient_Generate(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "Hallo! 👋"}},
			},
		})
	}))
	defer server.Close()

	client := groq.NewClientWithURL("test-key", "", server.URL)
	assert.Equal(t, groq.DefaultModel, client.Model())

	text, err := client.Generate(context.Background(), domain.Prompt{
		System: "be nice", User: "hi", Temperature: 0.7, MaxTokens: 500,
	})
	require.NoError(t, err)
	assert.Equal(t, "Hallo! 👋", text)

	assert.Equal(t, groq.DefaultModel, got["model"])
	assert.EqualValues(t, 500, got["max_tokens"])
	messages := got["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Equal(t, "hi", messages[1].(map[string]any)["content"])
}

func TestClient_GenerateFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		checkFn func(t *testing.T, err error)
	}{
		{
			name:   "api error",
			status: http.StatusUnauthorized,
			body:   `{"error":{"message":"invalid key"}}`,
			checkFn: func(t *testing.T, err error) {
				var statusErr *infra.StatusError
				require.ErrorAs(t, err, &statusErr)
				assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
			},
		},
		{
			name:   "missing content",
			status: http.StatusOK,
			body:   `{"choices":[]}`,
			checkFn: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, domain.ErrEmptyCompletion)
			},
		},
		{
			name:   "malformed json",
			status: http.StatusOK,
			body:   `{"choices": [`,
			checkFn: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "malformed")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := groq.NewClientWithURL("k", "m", server.URL)
			_, err := client.Generate(context.Background(), domain.Prompt{User: "hi"})
			tt.checkFn(t, err)
		})
	}
}
