package service

import (
	"context"
	"testing"
	"time"

	"internlink_backend/internals/databases/dbtest"
	"internlink_backend/internals/features/search/candidates/dto"
	internModel "internlink_backend/internals/features/users/interns/model"
	"internlink_backend/internals/helpers/llm"
	"internlink_backend/internals/helpers/redisx"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type scriptedAI struct {
	replies []string
	i       int
}

func (s *scriptedAI) Complete(context.Context, llm.ChatRequest) (string, error) {
	r := s.replies[s.i%len(s.replies)]
	s.i++
	return r, nil
}

func seed(t *testing.T, db *gorm.DB) {
	t.Helper()
	set := func(name string, cols map[string]any) {
		p := dbtest.CreateIntern(t, db, name)
		if err := db.Model(&internModel.InternProfileModel{}).Where("id = ?", p.ID).Updates(cols).Error; err != nil {
			t.Fatal(err)
		}
	}
	set("Ann", map[string]any{"state": "TX", "skills": `["Python","Robotics"]`, "grade": "11"})
	set("Bob", map[string]any{"state": "CA", "skills": `["Drawing"]`, "grade": "10"})
	set("Cy", map[string]any{"state": "TX", "skills": `["Painting"]`, "grade": "12"})
}

func names(out *dto.SearchResponse) []string {
	var n []string
	for _, c := range out.Candidates {
		n = append(n, c.FullName)
	}
	return n
}

func TestResetPhrase(t *testing.T) {
	for _, q := range []string{"show all", " Reset ", "Start over!", "clear   filters", "SHOW EVERYONE."} {
		if !IsResetPhrase(q) {
			t.Errorf("%q should reset", q)
		}
	}
	if IsResetPhrase("show all python students") {
		t.Error("partial phrase must not reset")
	}

	db := dbtest.Open(t)
	seed(t, db)
	state := redisx.NewStore(nil, "t", time.Minute)
	svc := New(db, nil, state)
	company := uuid.New()

	if _, err := svc.Search(context.Background(), company, "python"); err != nil {
		t.Fatal(err)
	}
	out, err := svc.Search(context.Background(), company, "show all")
	if err != nil {
		t.Fatal(err)
	}
	if !out.ResetFilter || out.Candidates == nil || len(out.Candidates) != 0 {
		t.Fatalf("reset = %+v", out)
	}
	if v, _ := state.GetCtx(context.Background(), stateKey(company)); v != nil {
		t.Fatal("state not cleared")
	}
}

func TestSearchIsCumulative(t *testing.T) {
	db := dbtest.Open(t)
	seed(t, db)
	ai := &scriptedAI{replies: []string{
		`{"filter":"state == \"tx\""}`,
		"```json\n{\"filter\":\"grade >= 12\"}\n```",
		`{"filter":"grade >= 10"}`,
	}}
	svc := New(db, ai, redisx.NewStore(nil, "t", time.Minute))
	company := uuid.New()
	ctx := context.Background()

	first, err := svc.Search(ctx, company, "students in Texas")
	if err != nil {
		t.Fatal(err)
	}
	if got := names(first); len(got) != 2 || got[0] != "Ann" || got[1] != "Cy" || first.Strategy != dto.StrategyAI || first.Cumulative {
		t.Fatalf("first = %v %+v", got, first)
	}

	second, _ := svc.Search(ctx, company, "seniors only")
	if got := names(second); len(got) != 1 || got[0] != "Cy" || !second.Cumulative || second.PoolSize != 2 {
		t.Fatalf("second = %v %+v", got, second)
	}

	// pool tetap hasil sebelumnya walau filter lebih longgar
	third, _ := svc.Search(ctx, company, "grade 10 and up")
	if got := names(third); len(got) != 1 || got[0] != "Cy" {
		t.Fatalf("third = %v", got)
	}

	_, _ = svc.Search(ctx, company, "reset")
	fourth, _ := svc.Search(ctx, company, "grade 10 and up")
	if len(fourth.Candidates) != 2 || fourth.Cumulative {
		t.Fatalf("after reset = %v", names(fourth))
	}
}

func TestSearchFallsBackToKeywords(t *testing.T) {
	db := dbtest.Open(t)
	seed(t, db)
	ai := &scriptedAI{replies: []string{`{"filter":"skills +"}`}}
	svc := New(db, ai, redisx.NewStore(nil, "t", time.Minute))

	out, err := svc.Search(context.Background(), uuid.New(), "students who like painting or drawing")
	if err != nil {
		t.Fatal(err)
	}
	if out.Strategy != dto.StrategyKeyword {
		t.Fatalf("strategy = %s", out.Strategy)
	}
	if got := names(out); len(got) != 2 || got[0] != "Bob" || got[1] != "Cy" {
		t.Fatalf("keyword result = %v", got)
	}
}

func TestCompileFilterRejectsNonBool(t *testing.T) {
	if _, err := CompileFilter("grade + 1"); err == nil {
		t.Fatal("non-bool expression must fail")
	}
	if _, err := CompileFilter(`"python" in skills and tech >= 0`); err != nil {
		t.Fatal(err)
	}
}
