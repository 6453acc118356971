package transcribe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/teslashibe/go-wakeword/pkg/listener"
)

func testSample() *listener.AudioSample {
	return &listener.AudioSample{
		SessionID:   "sess-1",
		WakeWord:    "computer",
		SampleRate:  16000,
		TriggeredAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Samples:     make([]int16, 16000),
	}
}

func TestOpenAI_Transcribe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("expected multipart form: %v", err)
		}
		if got := r.FormValue("model"); got != ModelWhisper1 {
			t.Errorf("expected model %s, got %s", ModelWhisper1, got)
		}
		if got := r.FormValue("language"); got != "en" {
			t.Errorf("expected language en, got %s", got)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("expected a file field: %v", err)
		}
		defer file.Close()
		if header.Filename != "recording.wav" {
			t.Errorf("expected recording.wav, got %s", header.Filename)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"turn on the lights"}`))
	}))
	defer server.Close()

	p, err := NewOpenAI(
		WithAPIKey("test-key"),
		WithBaseURL(server.URL),
	)
	if err != nil {
		t.Fatalf("NewOpenAI failed: %v", err)
	}
	defer p.Close()

	transcript, err := p.Transcribe(context.Background(), testSample())
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if transcript.Text != "turn on the lights" {
		t.Errorf("unexpected text: %q", transcript.Text)
	}
	if transcript.SessionID != "sess-1" || transcript.WakeWord != "computer" {
		t.Errorf("sample identity not carried over: %+v", transcript)
	}
}

func TestOpenAI_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"text":"ok"}`))
	}))
	defer server.Close()

	p, err := NewOpenAI(
		WithAPIKey("test-key"),
		WithBaseURL(server.URL),
		WithRetry(2, time.Millisecond),
	)
	if err != nil {
		t.Fatalf("NewOpenAI failed: %v", err)
	}

	transcript, err := p.Transcribe(context.Background(), testSample())
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if transcript.Text != "ok" {
		t.Errorf("unexpected text: %q", transcript.Text)
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 attempts, got %d", calls.Load())
	}
}

func TestOpenAI_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key","code":"invalid_api_key"}}`))
	}))
	defer server.Close()

	p, err := NewOpenAI(WithAPIKey("wrong"), WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("NewOpenAI failed: %v", err)
	}

	_, err = p.Transcribe(context.Background(), testSample())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if !apiErr.IsUnauthorized() {
		t.Errorf("expected unauthorized, got status %d", apiErr.StatusCode)
	}
	if apiErr.Message != "bad key" || apiErr.Code != "invalid_api_key" {
		t.Errorf("error body not parsed: %+v", apiErr)
	}
	if apiErr.IsRetryable() {
		t.Error("401 must not be retryable")
	}
}

func TestOpenAI_RejectsEmptySample(t *testing.T) {
	p, err := NewOpenAI(WithAPIKey("test-key"))
	if err != nil {
		t.Fatalf("NewOpenAI failed: %v", err)
	}

	_, err = p.Transcribe(context.Background(), &listener.AudioSample{SampleRate: 16000})
	if !errors.Is(err, ErrEmptySample) {
		t.Errorf("expected ErrEmptySample, got %v", err)
	}
}

func TestNewOpenAI_RequiresAPIKey(t *testing.T) {
	if _, err := NewOpenAI(); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("expected ErrNoAPIKey, got %v", err)
	}
}
