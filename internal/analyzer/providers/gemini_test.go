package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func geminiCompletion(text string) string {
	resp := map[string]interface{}{
		"candidates": []map[string]interface{}{
			{
				"content": map[string]interface{}{
					"role":  "model",
					"parts": []map[string]string{{"text": text}},
				},
				"finishReason": "STOP",
			},
		},
	}
	b, _ := json.Marshal(resp)
	return string(b)
}

func TestGeminiGenerate(t *testing.T) {
	var captured geminiRequest
	var apiKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/models/gemini-1.5-flash:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		apiKey = r.Header.Get("x-goog-api-key")
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Write([]byte(geminiCompletion("summary of events")))
	}))
	defer server.Close()

	client := NewGeminiClient("test-key", "gemini-1.5-flash", server.URL, 0)
	text, err := client.Generate(context.Background(), GenerateRequest{
		System: "you are an admin",
		Prompt: "review these logs",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "summary of events" {
		t.Errorf("completion = %q", text)
	}
	if apiKey != "test-key" {
		t.Errorf("api key header = %q", apiKey)
	}
	if captured.SystemInstruction == nil || captured.SystemInstruction.Parts[0].Text != "you are an admin" {
		t.Errorf("system instruction not forwarded: %+v", captured.SystemInstruction)
	}
	if len(captured.Contents) != 1 || captured.Contents[0].Role != "user" {
		t.Errorf("unexpected contents: %+v", captured.Contents)
	}
}

func TestGeminiGenerateAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`))
	}))
	defer server.Close()

	client := NewGeminiClient("bad-key", "", server.URL, 0)
	_, err := client.Generate(context.Background(), GenerateRequest{Prompt: "hi"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "API key not valid") {
		t.Errorf("error should carry the API message: %v", err)
	}
}

func TestGeminiGenerateBlockedPrompt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[],"promptFeedback":{"blockReason":"SAFETY"}}`))
	}))
	defer server.Close()

	client := NewGeminiClient("key", "", server.URL, 0)
	_, err := client.Generate(context.Background(), GenerateRequest{Prompt: "hi"})
	if err == nil || !strings.Contains(err.Error(), "SAFETY") {
		t.Fatalf("expected blocked-prompt error, got %v", err)
	}
}

func TestGeminiGenerateNoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	client := NewGeminiClient("key", "", server.URL, 0)
	_, err := client.Generate(context.Background(), GenerateRequest{Prompt: "hi"})
	if err == nil || !strings.Contains(err.Error(), "no candidates") {
		t.Fatalf("expected no-candidates error, got %v", err)
	}
}

func TestGeminiTestConnection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") == "" {
			t.Error("missing api key header")
		}
		w.Write([]byte(`{"models":[]}`))
	}))
	defer server.Close()

	client := NewGeminiClient("key", "", server.URL, 0)
	if err := client.TestConnection(context.Background()); err != nil {
		t.Fatalf("TestConnection: %v", err)
	}
}

func TestGeminiModelNormalization(t *testing.T) {
	client := NewGeminiClient("key", "", "", 0)
	if client.Model() != DefaultGeminiModel {
		t.Errorf("default model = %q", client.Model())
	}

	client = NewGeminiClient("key", "gemini:gemini-2.0-flash", "", 0)
	if client.Model() != "gemini-2.0-flash" {
		t.Errorf("prefixed model = %q", client.Model())
	}
	if client.Name() != "gemini" {
		t.Errorf("name = %q", client.Name())
	}
}
