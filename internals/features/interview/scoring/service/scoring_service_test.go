package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"internlink_backend/internals/databases/dbtest"
	"internlink_backend/internals/features/interview/scoring/dto"
	voiceModel "internlink_backend/internals/features/interview/voice/model"
	internModel "internlink_backend/internals/features/users/interns/model"
	"internlink_backend/internals/helpers/fault"
	"internlink_backend/internals/helpers/llm"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type fakeAI struct {
	reply string
	err   error
	calls []llm.ChatRequest
}

func (f *fakeAI) Complete(_ context.Context, req llm.ChatRequest) (string, error) {
	f.calls = append(f.calls, req)
	return f.reply, f.err
}

func str(s string) *string { return &s }
func num(n int) *int       { return &n }

func completeProfile() *internModel.InternProfileModel {
	born := time.Date(2008, 3, 1, 0, 0, 0, 0, time.UTC)
	return &internModel.InternProfileModel{
		ID:        uuid.New(),
		FullName:  "Ann Lee",
		School:    str("Central High"),
		Grade:     str("11"),
		City:      str("Austin"),
		State:     str("TX"),
		Bio:       str("I love robotics club"),
		Skills:    datatypes.JSON(`["python"]`),
		Interests: datatypes.JSON(`["robots"]`),
		BirthDate: &born,
	}
}

const aiReply = "```json\n" + `{"category_scores":{"business":40,"tech":"91","education":130,"healthcare":-5},
"recommendations":{"tech":"Join a robotics lab"}}` + "\n```"

func TestScoreCandidateCombinedPassesAIScores(t *testing.T) {
	ai := &fakeAI{reply: aiReply}
	p := completeProfile()
	if p.Completion() < CompletionThreshold {
		t.Fatalf("fixture completion = %d", p.Completion())
	}

	out := New(nil, ai).ScoreCandidate(context.Background(), p, "I built a line follower.")
	if out.Mode != dto.ModeCombined || out.Fallback {
		t.Fatalf("mode=%s fallback=%v", out.Mode, out.Fallback)
	}
	want := map[string]int{"business": 40, "tech": 91, "education": 100, "healthcare": 0, "creative": NeutralScore}
	for cat, v := range want {
		if out.CategoryScores[cat] != v {
			t.Errorf("%s = %d, want %d", cat, out.CategoryScores[cat], v)
		}
	}
	if out.Recommendations["tech"] != "Join a robotics lab" || out.Recommendations["creative"] == "" {
		t.Errorf("recs = %v", out.Recommendations)
	}

	prompt := ai.calls[0]
	if !strings.Contains(prompt.User, "robotics club") || !strings.Contains(prompt.User, "line follower") {
		t.Errorf("combined prompt = %q", prompt.User)
	}
	if !strings.Contains(prompt.System, "Ignore any other context") {
		t.Error("isolation instruction missing")
	}
}

func TestScoreCandidateInterviewOnlyOmitsProfile(t *testing.T) {
	ai := &fakeAI{reply: aiReply}
	p := &internModel.InternProfileModel{ID: uuid.New(), FullName: "Cy", Bio: str("secret bio")}

	out := New(nil, ai).ScoreCandidate(context.Background(), p, "I tutor my brother.")
	if out.Mode != dto.ModeInterviewOnly {
		t.Fatalf("mode = %s", out.Mode)
	}
	if strings.Contains(ai.calls[0].User, "secret bio") {
		t.Fatalf("profile leaked into interview-only prompt: %q", ai.calls[0].User)
	}
}

func TestScoreCandidateNeverFails(t *testing.T) {
	p := completeProfile()

	out := New(nil, &fakeAI{err: fault.RateLimited("slow down", nil)}).ScoreCandidate(context.Background(), p, "")
	if !out.Fallback {
		t.Fatal("expected fallback")
	}
	for _, cat := range internModel.Categories {
		if out.CategoryScores[cat] != NeutralScore || out.Recommendations[cat] == "" {
			t.Errorf("%s = %d %q", cat, out.CategoryScores[cat], out.Recommendations[cat])
		}
	}

	p.BusinessScore, p.TechScore, p.EducationScore, p.HealthcareScore, p.CreativeScore = num(1), num(2), num(3), num(4), num(5)
	out = New(nil, &fakeAI{reply: "not json"}).ScoreCandidate(context.Background(), p, "")
	if !out.Fallback || out.CategoryScores["creative"] != 5 {
		t.Fatalf("stored scores not used: %+v", out)
	}

	out = New(nil, nil).ScoreCandidate(context.Background(), p, "")
	if !out.Fallback || out.CategoryScores["tech"] != 2 {
		t.Fatalf("nil AI: %+v", out)
	}
}

func TestRegenerateScoresPersists(t *testing.T) {
	db := dbtest.Open(t)
	intern := dbtest.CreateIntern(t, db, "Ann")
	for i, tr := range []string{"first answer", "second answer"} {
		row := voiceModel.InterviewResponseModel{InternID: intern.ID, Question: "Q" + string(rune('1'+i)), Transcript: tr}
		if err := db.Create(&row).Error; err != nil {
			t.Fatal(err)
		}
	}
	ai := &fakeAI{reply: aiReply}
	out, err := New(db, ai).RegenerateScores(context.Background(), intern.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !out.Persisted || out.TranscriptsUsed != 2 {
		t.Fatalf("out = %+v", out)
	}
	if !strings.Contains(ai.calls[0].User, "first answer") || !strings.Contains(ai.calls[0].User, "second answer") {
		t.Errorf("transcripts missing from prompt: %q", ai.calls[0].User)
	}

	var got internModel.InternProfileModel
	if err := db.First(&got, "id = ?", intern.ID).Error; err != nil {
		t.Fatal(err)
	}
	if got.TechScore == nil || *got.TechScore != 91 || got.ScoresUpdatedAt == nil {
		t.Fatalf("persisted = %+v", got)
	}
}

func TestRegenerateScoresFallbackDoesNotOverwrite(t *testing.T) {
	db := dbtest.Open(t)
	intern := dbtest.CreateIntern(t, db, "Bob")

	out, err := New(db, &fakeAI{err: errors.New("boom")}).RegenerateScores(context.Background(), intern.ID)
	if err != nil {
		t.Fatal(err)
	}
	if out.Persisted || !out.Fallback {
		t.Fatalf("out = %+v", out)
	}
	var got internModel.InternProfileModel
	db.First(&got, "id = ?", intern.ID)
	if got.TechScore != nil {
		t.Fatal("fallback scores must not be stored")
	}

	if _, err := New(db, &fakeAI{}).RegenerateScores(context.Background(), uuid.New()); !fault.Is(err, fault.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
