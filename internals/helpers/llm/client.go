package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"internlink_backend/internals/configs"
	"internlink_backend/internals/helpers/fault"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
)

// Completer: satu-satunya kontrak yang dipakai fitur AI (generator,
// scoring, search, feedback). Test memakai fake.
type Completer interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
}

type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio []byte) (string, error)
}

type Speaker interface {
	Speak(ctx context.Context, text, voice string) ([]byte, error)
}

type ChatRequest struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
	JSON        bool // response_format json_object
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatBody struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	Temperature    float64           `json:"temperature"`
	MaxTokens      int               `json:"max_tokens,omitempty"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}

type chatResult struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type transcriptionResult struct {
	Text string `json:"text"`
}

// Client: OpenAI-compatible REST client di atas resty.
type Client struct {
	http     *resty.Client
	enabled  bool
	model    string
	sttModel string
	ttsModel string
}

func New(cfg *configs.Config) *Client {
	timeout := cfg.AITimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	rc := resty.New().
		SetBaseURL(strings.TrimRight(cfg.AIBaseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	rc.JSONMarshal = sonic.Marshal
	rc.JSONUnmarshal = sonic.Unmarshal
	if cfg.AIAPIKey != "" {
		rc.SetAuthToken(cfg.AIAPIKey)
	}
	return &Client{
		http:     rc,
		enabled:  cfg.AIEnabled(),
		model:    cfg.AIModel,
		sttModel: cfg.AISTTModel,
		ttsModel: cfg.AITTSModel,
	}
}

func (c *Client) Enabled() bool { return c != nil && c.enabled }

func (c *Client) Complete(ctx context.Context, req ChatRequest) (string, error) {
	if !c.Enabled() {
		return "", notConfigured()
	}
	body := chatBody{Model: c.model, Temperature: req.Temperature, MaxTokens: req.MaxTokens}
	if s := strings.TrimSpace(req.System); s != "" {
		body.Messages = append(body.Messages, chatMessage{Role: "system", Content: s})
	}
	body.Messages = append(body.Messages, chatMessage{Role: "user", Content: req.User})
	if req.JSON {
		body.ResponseFormat = map[string]string{"type": "json_object"}
	}

	var out chatResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&out).
		Post("/chat/completions")
	if err := classify("completion", resp, err); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", fault.Upstream("AI provider returned no choices", nil)
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

func (c *Client) Transcribe(ctx context.Context, filename string, audio []byte) (string, error) {
	if !c.Enabled() {
		return "", notConfigured()
	}
	if filename == "" {
		filename = "audio.webm"
	}
	var out transcriptionResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("file", filename, bytes.NewReader(audio)).
		SetFormData(map[string]string{"model": c.sttModel, "response_format": "json"}).
		SetResult(&out).
		Post("/audio/transcriptions")
	if err := classify("transcription", resp, err); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.Text), nil
}

func (c *Client) Speak(ctx context.Context, text, voice string) ([]byte, error) {
	if !c.Enabled() {
		return nil, notConfigured()
	}
	if voice == "" {
		voice = "alloy"
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "audio/mpeg").
		SetBody(map[string]any{
			"model":           c.ttsModel,
			"input":           text,
			"voice":           voice,
			"response_format": "mp3",
		}).
		Post("/audio/speech")
	if err := classify("speech", resp, err); err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

func notConfigured() error {
	return fault.Unavailable("AI features are not configured")
}

// classify memetakan kegagalan provider ke fault; body upstream hanya dilog.
func classify(what string, resp *resty.Response, err error) error {
	if err != nil {
		if isTimeout(err) {
			return fault.Timeout("AI "+what+" timed out", err)
		}
		return fault.Upstream("AI "+what+" request failed", err)
	}
	if resp == nil {
		return fault.Upstream("AI "+what+" returned no response", nil)
	}
	if !resp.IsError() {
		return nil
	}
	status := resp.StatusCode()
	log.Printf("[WARN] AI %s status=%d body=%s", what, status, truncate(resp.String(), 300))
	cause := fmt.Errorf("provider status %d", status)
	switch {
	case status == http.StatusTooManyRequests:
		return fault.RateLimited("AI provider rate limit reached, try again later", cause)
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return fault.Timeout("AI "+what+" timed out", cause)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fault.Unavailable("AI provider rejected the configured credentials")
	default:
		return fault.Upstream("AI "+what+" failed", cause)
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
