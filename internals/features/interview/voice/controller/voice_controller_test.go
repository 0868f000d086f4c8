package controller

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"internlink_backend/internals/databases/dbtest"
	"internlink_backend/internals/features/interview/voice/model"
	"internlink_backend/internals/features/interview/voice/service"
	authModel "internlink_backend/internals/features/users/auth/model"
	helperAuth "internlink_backend/internals/helpers/auth"
	"internlink_backend/internals/helpers/fault"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubSTT struct {
	calls int
	text  string
	err   error
}

func (s *stubSTT) Transcribe(context.Context, string, []byte) (string, error) {
	s.calls++
	return s.text, s.err
}

type stubTTS struct{}

func (stubTTS) Speak(_ context.Context, text, voice string) ([]byte, error) {
	return []byte("ID3-" + voice + "-" + text), nil
}

func newApp(t *testing.T, stt *stubSTT, userID uuid.UUID) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := dbtest.Open(t)
	app := fiber.New(fiber.Config{BodyLimit: 50 << 20, JSONEncoder: sonic.Marshal, JSONDecoder: sonic.Unmarshal})
	app.Use(func(c *fiber.Ctx) error {
		if userID != uuid.Nil {
			c.Locals(helperAuth.LocUserID, userID.String())
			c.Locals(helperAuth.LocRole, authModel.RoleIntern)
		}
		return c.Next()
	})
	ctrl := NewVoiceController(service.New(db, stt, stubTTS{}, nil), validator.New())
	app.Post("/stt", ctrl.SpeechToText)
	app.Post("/tts", ctrl.TextToSpeech)
	app.Post("/feedback", ctrl.Feedback)
	return app, db
}

func audioForm(t *testing.T, data []byte, contentType string, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="audio"; filename="answer.wav"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatal(err)
	}
	part.Write(data)
	for k, v := range fields {
		w.WriteField(k, v)
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/stt", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func wav(n int) []byte {
	b := make([]byte, n)
	copy(b, "RIFF")
	copy(b[8:], "WAVEfmt ")
	return b
}

func TestSTTRejectsOversizedAudioWithoutCallingProvider(t *testing.T) {
	stt := &stubSTT{text: "never"}
	app, _ := newApp(t, stt, uuid.Nil)

	resp, err := app.Test(audioForm(t, wav(30<<20), "audio/wav", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if stt.calls != 0 {
		t.Fatalf("provider called %d times", stt.calls)
	}
}

func TestSTTRejectsBadAudio(t *testing.T) {
	stt := &stubSTT{text: "never"}
	app, _ := newApp(t, stt, uuid.Nil)

	for name, req := range map[string]*http.Request{
		"tiny":      audioForm(t, wav(500), "audio/wav", nil),
		"not audio": audioForm(t, []byte(strings.Repeat("plain text ", 200)), "text/plain", nil),
	} {
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("%s: status = %d", name, resp.StatusCode)
		}
	}
	if stt.calls != 0 {
		t.Fatalf("provider called %d times", stt.calls)
	}
}

func TestSTTStoresTranscriptForIntern(t *testing.T) {
	stt := &stubSTT{text: "Um I really like building robots"}
	internID := uuid.New()
	app, db := newApp(t, stt, internID)

	resp, err := app.Test(audioForm(t, wav(4000), "audio/wav", map[string]string{
		"question":         "Tell me about yourself",
		"duration_seconds": "10",
	}), -1)
	if err != nil {
		t.Fatal(err)
	}
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d body=%s", resp.StatusCode, raw)
	}

	var body struct {
		Data struct {
			WordCount   int `json:"word_count"`
			FillerWords struct {
				Count int `json:"count"`
			} `json:"filler_words"`
			VoiceAnalysis *struct {
				Pace string `json:"pace"`
			} `json:"voice_analysis"`
		} `json:"data"`
	}
	if err := sonic.Unmarshal(raw, &body); err != nil {
		t.Fatal(err)
	}
	if body.Data.WordCount != 6 || body.Data.FillerWords.Count != 2 || body.Data.VoiceAnalysis == nil || body.Data.VoiceAnalysis.Pace != "slow" {
		t.Fatalf("body = %s", raw)
	}

	var row model.InterviewResponseModel
	if err := db.First(&row, "intern_id = ?", internID).Error; err != nil {
		t.Fatalf("interview response not stored: %v", err)
	}
	if row.Question != "Tell me about yourself" || row.FillerCount != 2 {
		t.Fatalf("row = %+v", row)
	}
}

func TestSTTMapsProviderFaults(t *testing.T) {
	cases := map[error]int{
		fault.RateLimited("slow down", nil): fiber.StatusTooManyRequests,
		fault.Timeout("timed out", nil):     fiber.StatusRequestTimeout,
	}
	for providerErr, want := range cases {
		app, _ := newApp(t, &stubSTT{err: providerErr}, uuid.Nil)
		resp, err := app.Test(audioForm(t, wav(2000), "audio/wav", nil), -1)
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != want {
			t.Errorf("%v: status = %d, want %d", providerErr, resp.StatusCode, want)
		}
	}
}

func TestTTSReturnsMpeg(t *testing.T) {
	app, _ := newApp(t, &stubSTT{}, uuid.Nil)
	req := httptest.NewRequest(http.MethodPost, "/tts", strings.NewReader(`{"text":"hello","voice":"nova"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != fiber.StatusOK || resp.Header.Get("Content-Type") != "audio/mpeg" || string(raw) != "ID3-nova-hello" {
		t.Fatalf("status=%d type=%s body=%q", resp.StatusCode, resp.Header.Get("Content-Type"), raw)
	}
}

func TestFeedbackFallsBackWithoutAI(t *testing.T) {
	app, _ := newApp(t, &stubSTT{}, uuid.Nil)
	req := httptest.NewRequest(http.MethodPost, "/feedback", strings.NewReader(`{"question":"Why us?","answer":"I like robots"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != fiber.StatusOK || !strings.Contains(string(raw), `"fallback":true`) {
		t.Fatalf("status=%d body=%s", resp.StatusCode, raw)
	}
}
