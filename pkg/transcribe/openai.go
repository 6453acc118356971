package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/teslashibe/go-wakeword/internal/httpc"
	"github.com/teslashibe/go-wakeword/pkg/listener"
)

const (
	openAITranscribeURL = "https://api.openai.com/v1/audio/transcriptions"
	providerOpenAI      = "openai"
)

// OpenAI model options
const (
	ModelWhisper1 = "whisper-1"
)

// OpenAI implements Provider for the OpenAI transcription API.
type OpenAI struct {
	config  *Config
	client  *http.Client
	logger  *slog.Logger
	baseURL string
}

// NewOpenAI creates a new OpenAI transcription provider.
func NewOpenAI(opts ...Option) (*OpenAI, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Model == "" {
		cfg.Model = ModelWhisper1
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = openAITranscribeURL
	}

	return &OpenAI{
		config:  cfg,
		client:  httpc.NewClient(cfg.Timeout),
		logger:  cfg.Logger.With("component", "transcribe.openai"),
		baseURL: baseURL,
	}, nil
}

// Transcribe uploads the sample as a WAV file and returns the transcript.
func (o *OpenAI) Transcribe(ctx context.Context, sample *listener.AudioSample) (*Transcript, error) {
	if len(sample.Samples) == 0 {
		return nil, WrapError(providerOpenAI, ErrEmptySample)
	}

	start := time.Now()

	body, contentType, err := o.buildForm(sample)
	if err != nil {
		return nil, WrapError(providerOpenAI, fmt.Errorf("build form: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, WrapError(providerOpenAI, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+o.config.APIKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := o.doWithRetry(ctx, req, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	latency := time.Since(start).Milliseconds()

	if resp.StatusCode != http.StatusOK {
		return nil, o.parseError(resp)
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, WrapError(providerOpenAI, fmt.Errorf("decode response: %w", err))
	}

	o.logger.Debug("transcribed sample",
		"session_id", sample.SessionID,
		"duration", sample.Duration(),
		"chars", len(result.Text),
		"latency_ms", latency,
	)

	return &Transcript{
		SessionID: sample.SessionID,
		WakeWord:  sample.WakeWord,
		Text:      result.Text,
		Language:  o.config.Language,
		Timestamp: sample.TriggeredAt,
		LatencyMs: latency,
	}, nil
}

// buildForm renders the sample as a multipart upload.
func (o *OpenAI) buildForm(sample *listener.AudioSample) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	file, err := w.CreateFormFile("file", "recording.wav")
	if err != nil {
		return nil, "", err
	}
	if _, err := file.Write(sample.WAV()); err != nil {
		return nil, "", err
	}

	if err := w.WriteField("model", o.config.Model); err != nil {
		return nil, "", err
	}
	if o.config.Language != "" {
		if err := w.WriteField("language", o.config.Language); err != nil {
			return nil, "", err
		}
	}
	if o.config.Prompt != "" {
		if err := w.WriteField("prompt", o.config.Prompt); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// Health checks API connectivity.
func (o *OpenAI) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", "https://api.openai.com/v1/models", nil)
	if err != nil {
		return WrapError(providerOpenAI, err)
	}
	req.Header.Set("Authorization", "Bearer "+o.config.APIKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return WrapError(providerOpenAI, fmt.Errorf("health check: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return o.parseError(resp)
	}
	return nil
}

// Close releases resources.
func (o *OpenAI) Close() error {
	o.client.CloseIdleConnections()
	return nil
}

// doWithRetry performs the request with retry logic.
func (o *OpenAI) doWithRetry(ctx context.Context, req *http.Request, body []byte) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= o.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(o.config.RetryDelay * time.Duration(attempt)):
			}

			// Reset body for retry
			req.Body = io.NopCloser(bytes.NewReader(body))
		}

		resp, err := o.client.Do(req)
		if err != nil {
			lastErr = WrapError(providerOpenAI, err)
			continue
		}

		// Check if retryable
		if resp.StatusCode == 429 || resp.StatusCode >= 500 {
			lastErr = o.parseError(resp)
			resp.Body.Close()
			o.logger.Warn("retrying request",
				"attempt", attempt+1,
				"status", resp.StatusCode,
			)
			continue
		}

		return resp, nil
	}

	return nil, lastErr
}

// parseError reads and parses an error response.
func (o *OpenAI) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var errResp struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
			Code    string `json:"code"`
		} `json:"error"`
	}

	message := string(body)
	code := ""
	if json.Unmarshal(body, &errResp) == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
		code = errResp.Error.Code
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
		Code:       code,
		Provider:   providerOpenAI,
	}
}

// Verify OpenAI implements Provider at compile time.
var _ Provider = (*OpenAI)(nil)
