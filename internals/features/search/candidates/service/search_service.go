package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode"

	"internlink_backend/internals/features/search/candidates/dto"
	internModel "internlink_backend/internals/features/users/interns/model"
	"internlink_backend/internals/helpers/llm"
	"internlink_backend/internals/helpers/pgerr"

	"github.com/bytedance/sonic"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StateStore: hasil pencarian terakhir per company (redisx.Store).
type StateStore interface {
	GetCtx(ctx context.Context, key string) ([]byte, error)
	SetCtx(ctx context.Context, key string, val []byte, exp time.Duration) error
	DeleteCtx(ctx context.Context, key string) error
}

const StateTTL = 30 * time.Minute

var resetPhrases = map[string]bool{
	"show all":      true,
	"reset":         true,
	"clear":         true,
	"start over":    true,
	"clear filters": true,
	"clear filter":  true,
	"show everyone": true,
}

const filterInstruction = `You translate a recruiter's search request into ONE boolean expression
in the expr-lang syntax. Available variables for each candidate:
name, school, city, state, bio, team (lowercase strings), grade (int, 0 if unknown),
skills, interests (lists of lowercase strings), completion (int 0-100),
business, tech, education, healthcare, creative (int 0-100 category scores, 0 if unknown).
Use operators like ==, >=, and, or, not, contains, in, any(list, {# contains "x"}).
Return a JSON object {"filter": string}. Return JSON only.`

type Service struct {
	DB    *gorm.DB
	AI    llm.Completer // nil → keyword
	State StateStore
}

func New(db *gorm.DB, ai llm.Completer, state StateStore) *Service {
	return &Service{DB: db, AI: ai, State: state}
}

func IsResetPhrase(q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	q = strings.TrimRightFunc(q, func(r rune) bool { return unicode.IsPunct(r) })
	return resetPhrases[strings.Join(strings.Fields(q), " ")]
}

func stateKey(companyID uuid.UUID) string { return "search:candidates:" + companyID.String() }

/* =========================================================
   SEARCH
========================================================= */

func (s *Service) Search(ctx context.Context, companyID uuid.UUID, query string) (*dto.SearchResponse, error) {
	if IsResetPhrase(query) {
		if err := s.State.DeleteCtx(ctx, stateKey(companyID)); err != nil {
			log.Printf("[WARN] search: clear state company=%s: %v", companyID, err)
		}
		return &dto.SearchResponse{Candidates: []dto.CandidateView{}, ResetFilter: true}, nil
	}

	prev, cumulative := s.previousIDs(ctx, companyID)
	pool, err := s.loadPool(ctx, prev, cumulative)
	if err != nil {
		return nil, err
	}

	out := &dto.SearchResponse{PoolSize: len(pool), Cumulative: cumulative, Candidates: []dto.CandidateView{}}
	matched, filter, err := s.aiFilter(ctx, query, pool)
	if err != nil {
		log.Printf("[WARN] search: AI filter failed, keyword fallback: %v", err)
		matched = keywordFilter(query, pool)
		out.Strategy = dto.StrategyKeyword
	} else {
		out.Strategy = dto.StrategyAI
		out.Filter = filter
	}

	ids := make([]uuid.UUID, 0, len(matched))
	for _, p := range matched {
		out.Candidates = append(out.Candidates, dto.FromProfile(p))
		ids = append(ids, p.ID)
	}
	s.saveIDs(ctx, companyID, ids)
	return out, nil
}

func (s *Service) previousIDs(ctx context.Context, companyID uuid.UUID) ([]uuid.UUID, bool) {
	raw, err := s.State.GetCtx(ctx, stateKey(companyID))
	if err != nil {
		log.Printf("[WARN] search: read state company=%s: %v", companyID, err)
		return nil, false
	}
	if raw == nil {
		return nil, false
	}
	var ids []uuid.UUID
	if err := sonic.Unmarshal(raw, &ids); err != nil {
		return nil, false
	}
	return ids, true
}

func (s *Service) saveIDs(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) {
	b, err := sonic.Marshal(ids)
	if err == nil {
		err = s.State.SetCtx(ctx, stateKey(companyID), b, StateTTL)
	}
	if err != nil {
		log.Printf("[WARN] search: save state company=%s: %v", companyID, err)
	}
}

// loadPool: hasil sebelumnya (kumulatif) atau semua profil intern.
func (s *Service) loadPool(ctx context.Context, prev []uuid.UUID, cumulative bool) ([]internModel.InternProfileModel, error) {
	var rows []internModel.InternProfileModel
	q := s.DB.WithContext(ctx).Order("full_name ASC")
	if cumulative {
		if len(prev) == 0 {
			return rows, nil
		}
		q = q.Where("id IN ?", prev)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, pgerr.Map(err, "candidates")
	}
	return rows, nil
}

/* =========================================================
   AI FILTER (expr)
========================================================= */

func (s *Service) aiFilter(ctx context.Context, query string, pool []internModel.InternProfileModel) ([]internModel.InternProfileModel, string, error) {
	if s.AI == nil {
		return nil, "", errors.New("AI not configured")
	}
	if e, ok := s.AI.(interface{ Enabled() bool }); ok && !e.Enabled() {
		return nil, "", errors.New("AI not configured")
	}
	raw, err := s.AI.Complete(ctx, llm.ChatRequest{
		System:      filterInstruction,
		User:        "Search request: " + strings.TrimSpace(query),
		Temperature: 0,
		JSON:        true,
	})
	if err != nil {
		return nil, "", err
	}
	var parsed struct {
		Filter string `json:"filter"`
	}
	if err := llm.Decode(raw, &parsed); err != nil {
		return nil, "", err
	}
	filter := strings.TrimSpace(parsed.Filter)
	if filter == "" {
		return nil, "", errors.New("empty filter")
	}

	program, err := CompileFilter(filter)
	if err != nil {
		return nil, "", fmt.Errorf("compile %q: %w", filter, err)
	}
	out := make([]internModel.InternProfileModel, 0, len(pool))
	for _, p := range pool {
		ok, err := Match(program, p)
		if err != nil {
			return nil, "", fmt.Errorf("run %q: %w", filter, err)
		}
		if ok {
			out = append(out, p)
		}
	}
	return out, filter, nil
}

// CompileFilter: ekspresi harus bertipe bool terhadap env kandidat.
func CompileFilter(filter string) (*vm.Program, error) {
	return expr.Compile(filter, expr.Env(candidateEnv(internModel.InternProfileModel{})), expr.AsBool())
}

func Match(program *vm.Program, p internModel.InternProfileModel) (bool, error) {
	res, err := expr.Run(program, candidateEnv(p))
	if err != nil {
		return false, err
	}
	ok, _ := res.(bool)
	return ok, nil
}

func candidateEnv(p internModel.InternProfileModel) map[string]any {
	v := dto.FromProfile(p)
	grade := 0
	fmt.Sscanf(v.Grade, "%d", &grade)

	env := map[string]any{
		"name":       strings.ToLower(v.FullName),
		"school":     strings.ToLower(v.School),
		"city":       strings.ToLower(v.City),
		"state":      strings.ToLower(v.State),
		"bio":        strings.ToLower(v.Bio),
		"team":       strings.ToLower(v.Team),
		"grade":      grade,
		"skills":     lowerAll(v.Skills),
		"interests":  lowerAll(v.Interests),
		"completion": v.ProfileCompletion,
	}
	for _, cat := range internModel.Categories {
		env[cat] = v.Scores[cat]
	}
	return env
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}

/* =========================================================
   KEYWORD FALLBACK
========================================================= */

var stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "in": true, "of": true,
	"with": true, "who": true, "for": true, "to": true, "show": true, "me": true, "find": true,
	"students": true, "student": true, "candidates": true, "candidate": true, "interns": true,
	"that": true, "are": true, "is": true, "like": true, "likes": true,
}

func keywordTerms(q string) []string {
	var out []string
	for _, w := range strings.FieldsFunc(strings.ToLower(q), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
	}) {
		if len(w) >= 2 && !stopwords[w] {
			out = append(out, w)
		}
	}
	return out
}

// keywordFilter: kandidat cocok bila salah satu term muncul di profilnya.
func keywordFilter(q string, pool []internModel.InternProfileModel) []internModel.InternProfileModel {
	terms := keywordTerms(q)
	if len(terms) == 0 {
		return pool
	}
	out := make([]internModel.InternProfileModel, 0, len(pool))
	for _, p := range pool {
		v := dto.FromProfile(p)
		hay := strings.ToLower(strings.Join(append([]string{
			v.FullName, v.School, v.Grade, v.City, v.State, v.Bio, v.Team,
		}, append(v.Skills, v.Interests...)...), " "))
		for _, t := range terms {
			if strings.Contains(hay, t) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}
