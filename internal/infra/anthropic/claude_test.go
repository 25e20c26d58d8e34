package anthropic_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"chatbot/internal/domain"
	"chatbot/internal/infra/anthropic"
)

func TestClaudeClient_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if r.Header.Get("x-api-key") != "test-key" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req["system"] != "Du bist ein Assistent." {
			http.Error(w, "missing system prompt", http.StatusBadRequest)
			return
		}

		response := map[string]any{
			"content": []map[string]string{
				{"type": "text", "text": "Gerne helfe ich "},
				{"type": "text", "text": "dir weiter."},
			},
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := anthropic.NewClaudeClientWithURL("test-key", "claude-test", server.URL)

	text, err := client.Generate(context.Background(), domain.Prompt{
		System:    "Du bist ein Assistent.",
		User:      "Hallo",
		MaxTokens: 500,
	})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	if text != "Gerne helfe ich dir weiter." {
		t.Errorf("text: got %q", text)
	}
	if client.Model() != "claude-test" {
		t.Errorf("model: got %s, want claude-test", client.Model())
	}
}

func TestClaudeClient_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content":[]}`))
	}))
	defer server.Close()

	client := anthropic.NewClaudeClientWithURL("test-key", "", server.URL)

	_, err := client.Generate(context.Background(), domain.Prompt{User: "Hallo"})
	if err == nil {
		t.Fatal("expected error for empty content")
	}
}

func TestClaudeClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"type":"overloaded_error"}`, http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := anthropic.NewClaudeClientWithURL("test-key", "", server.URL)

	if _, err := client.Generate(context.Background(), domain.Prompt{User: "Hallo"}); err == nil {
		t.Fatal("expected error for 503")
	}
}
