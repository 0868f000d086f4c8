package llm

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"internlink_backend/internals/configs"
	"internlink_backend/internals/helpers/fault"

	"github.com/bytedance/sonic"
)

func testClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(&configs.Config{
		AIAPIKey:   "sk-test",
		AIBaseURL:  srv.URL,
		AIModel:    "test-model",
		AISTTModel: "stt-model",
		AITTSModel: "tts-model",
		AITimeout:  2 * time.Second,
	})
}

func TestCompleteSendsPromptAndParsesChoice(t *testing.T) {
	var got chatBody
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" || r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("unexpected request %s auth=%q", r.URL.Path, r.Header.Get("Authorization"))
		}
		raw, _ := io.ReadAll(r.Body)
		sonic.Unmarshal(raw, &got)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"  hello  "}}]}`)
	})

	out, err := c.Complete(context.Background(), ChatRequest{System: "sys", User: "hi", JSON: true})
	if err != nil {
		t.Fatal(err)
	}
	if out != "hello" {
		t.Errorf("out = %q", out)
	}
	if got.Model != "test-model" || len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.ResponseFormat["type"] != "json_object" {
		t.Errorf("request body = %+v", got)
	}
}

func TestProviderErrorsMapToFaults(t *testing.T) {
	cases := []struct {
		status int
		kind   fault.Kind
	}{
		{http.StatusTooManyRequests, fault.KindRateLimited},
		{http.StatusGatewayTimeout, fault.KindTimeout},
		{http.StatusInternalServerError, fault.KindUpstream},
		{http.StatusUnauthorized, fault.KindUnavailable},
	}
	for _, tc := range cases {
		c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(tc.status)
			io.WriteString(w, `{"error":{"message":"nope"}}`)
		})
		_, err := c.Complete(context.Background(), ChatRequest{User: "x"})
		if !fault.Is(err, tc.kind) {
			t.Errorf("status %d → %v", tc.status, err)
		}
		if err != nil && strings.Contains(err.Error(), "sk-test") {
			t.Errorf("error leaks the api key: %v", err)
		}
	}
}

func TestClientTimeout(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.Complete(ctx, ChatRequest{User: "x"})
	if !fault.Is(err, fault.KindTimeout) {
		t.Fatalf("expected timeout, got %v", err)
	}
}

func TestNotConfigured(t *testing.T) {
	c := New(&configs.Config{AIBaseURL: "http://127.0.0.1:1"})
	if c.Enabled() {
		t.Fatal("client without key must be disabled")
	}
	if _, err := c.Complete(context.Background(), ChatRequest{User: "x"}); !fault.Is(err, fault.KindUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
	if _, err := c.Transcribe(context.Background(), "a.webm", []byte("x")); !fault.Is(err, fault.KindUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestTranscribeUploadsMultipart(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("multipart: %v", err)
		}
		if r.FormValue("model") != "stt-model" {
			t.Errorf("model = %q", r.FormValue("model"))
		}
		f, fh, err := r.FormFile("file")
		if err != nil {
			t.Errorf("file: %v", err)
		} else {
			defer f.Close()
			b, _ := io.ReadAll(f)
			if fh.Filename != "answer.webm" || string(b) != "audio-bytes" {
				t.Errorf("file = %s %q", fh.Filename, b)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"text":"I like building things"}`)
	})
	text, err := c.Transcribe(context.Background(), "answer.webm", []byte("audio-bytes"))
	if err != nil || text != "I like building things" {
		t.Fatalf("text=%q err=%v", text, err)
	}
}

func TestSpeakReturnsAudio(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte{0xFF, 0xFB, 0x90, 0x00})
	})
	audio, err := c.Speak(context.Background(), "hello", "")
	if err != nil || len(audio) != 4 {
		t.Fatalf("audio=%v err=%v", audio, err)
	}
}

func TestExtractJSON(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\": 1}\n```":                     `{"a": 1}`,
		"Sure! Here it is: {\"a\": {\"b\": \"}\"}} ok": `{"a": {"b": "}"}}`,
		"[1, [2, 3]] trailing":                         `[1, [2, 3]]`,
	}
	for in, want := range cases {
		got, err := ExtractJSON(in)
		if err != nil || got != want {
			t.Errorf("ExtractJSON(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ExtractJSON("no json here"); err != ErrNoJSON {
		t.Errorf("expected ErrNoJSON, got %v", err)
	}

	var dst struct {
		Title string `json:"title"`
	}
	if err := Decode("```\n{\"title\":\"Intern\"}\n```", &dst); err != nil || dst.Title != "Intern" {
		t.Errorf("Decode: %+v %v", dst, err)
	}
}
