package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"quoteform-backend/internal/mailer"
	"quoteform-backend/internal/provider"
)

func testMessage() *mailer.Message {
	return &mailer.Message{
		From:    "forms@example.com",
		To:      "office@example.com",
		ReplyTo: "jane@example.com",
		Subject: "New quote request from Jane Cooper - Roof repair",
		Text:    "plain body",
		HTML:    "<p>html body</p>",
		Attachments: []mailer.Attachment{
			{Filename: "roof.jpg", ContentType: "image/jpeg", Content: "aGVsbG8="},
		},
	}
}

func TestNewClient(t *testing.T) {
	cfg := Config{
		BaseURL:  "http://localhost:8080",
		APIToken: "test-token",
		Timeout:  10 * time.Second,
	}

	client := NewClient(cfg)

	if client == nil {
		t.Fatal("NewClient should not return nil")
	}

	if client.config.BaseURL != cfg.BaseURL {
		t.Errorf("Expected BaseURL %s, got %s", cfg.BaseURL, client.config.BaseURL)
	}

	if client.config.APIToken != cfg.APIToken {
		t.Errorf("Expected APIToken %s, got %s", cfg.APIToken, client.config.APIToken)
	}

	if client.config.Timeout != cfg.Timeout {
		t.Errorf("Expected Timeout %v, got %v", cfg.Timeout, client.config.Timeout)
	}
}

func TestNewClientDefaultTimeout(t *testing.T) {
	client := NewClient(Config{
		BaseURL:  "http://localhost:8080",
		APIToken: "test-token",
	})

	if client.config.Timeout != defaultTimeout {
		t.Errorf("Expected default timeout %v, got %v", defaultTimeout, client.config.Timeout)
	}
}

func TestSend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST method, got %s", r.Method)
		}

		if r.URL.Path != "/v1/email" {
			t.Errorf("Expected path /v1/email, got %s", r.URL.Path)
		}

		if r.Header.Get("Content-Type") != "application/json" {
			t.Error("Content-Type header should be application/json")
		}

		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Errorf("Expected bearer auth, got %q", r.Header.Get("Authorization"))
		}

		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("Failed to decode request body: %v", err)
		}

		if payload["from"] != "forms@example.com" {
			t.Errorf("Expected from forms@example.com, got %v", payload["from"])
		}
		if payload["reply_to"] != "jane@example.com" {
			t.Errorf("Expected reply_to jane@example.com, got %v", payload["reply_to"])
		}

		attachments, ok := payload["attachments"].([]interface{})
		if !ok || len(attachments) != 1 {
			t.Errorf("Expected 1 attachment, got %v", payload["attachments"])
		} else {
			att := attachments[0].(map[string]interface{})
			if att["filename"] != "roof.jpg" || att["content"] != "aGVsbG8=" {
				t.Errorf("Unexpected attachment payload: %v", att)
			}
			// Content types never go over the wire.
			if _, present := att["contentType"]; present {
				t.Error("Attachment payload should not carry a content type")
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(SendEmailResponse{MessageID: "test-message-id"})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, APIToken: "test-token"})
	defer client.Close()

	id, err := client.Send(context.Background(), testMessage())

	if err != nil {
		t.Fatalf("Send should not return error: %v", err)
	}

	if id != "test-message-id" {
		t.Errorf("Expected message ID 'test-message-id', got '%s'", id)
	}
}

func TestSendWithoutMessageID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"queued"}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, APIToken: "test-token"})
	defer client.Close()

	id, err := client.Send(context.Background(), testMessage())

	if err != nil {
		t.Fatalf("Send should not return error: %v", err)
	}

	if id != "" {
		t.Errorf("Expected empty message ID, got '%s'", id)
	}
}

func TestSendReplyToOmittedWhenEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("Failed to decode request body: %v", err)
		}
		if _, present := payload["reply_to"]; present {
			t.Error("reply_to should be omitted when empty")
		}
		if _, present := payload["attachments"]; present {
			t.Error("attachments should be omitted when empty")
		}
		json.NewEncoder(w).Encode(SendEmailResponse{MessageID: "id"})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, APIToken: "test-token"})
	defer client.Close()

	msg := testMessage()
	msg.ReplyTo = ""
	msg.Attachments = nil

	if _, err := client.Send(context.Background(), msg); err != nil {
		t.Fatalf("Send should not return error: %v", err)
	}
}

func TestSendServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(ErrorResponse{Message: "recipient address rejected"})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, APIToken: "test-token"})
	defer client.Close()

	_, err := client.Send(context.Background(), testMessage())

	if err == nil {
		t.Fatal("Expected error, got nil")
	}

	var provErr *provider.Error
	if !errors.As(err, &provErr) {
		t.Fatalf("Expected provider.Error, got %T: %v", err, err)
	}

	if provErr.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("Expected status 422, got %d", provErr.StatusCode)
	}

	if provErr.Message != "recipient address rejected" {
		t.Errorf("Expected service message passthrough, got %q", provErr.Message)
	}
}

func TestSendErrorWithoutMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, APIToken: "test-token"})
	defer client.Close()

	_, err := client.Send(context.Background(), testMessage())

	if err == nil {
		t.Fatal("Expected error, got nil")
	}

	var provErr *provider.Error
	if errors.As(err, &provErr) {
		t.Errorf("Non-JSON error body should not produce provider.Error, got %v", provErr)
	}

	if !strings.Contains(err.Error(), "502") {
		t.Errorf("Expected status code in error, got %v", err)
	}
}

func TestSendContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(SendEmailResponse{MessageID: "id"})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, APIToken: "test-token"})
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.Send(ctx, testMessage()); err == nil {
		t.Fatal("Expected error for canceled context")
	}
}

func TestName(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://localhost:8080", APIToken: "test-token"})

	if client.Name() != "api" {
		t.Errorf("Expected name 'api', got %q", client.Name())
	}
}
