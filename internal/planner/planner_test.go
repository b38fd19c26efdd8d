package planner

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"gohan-planner/internal/apperr"
	"gohan-planner/internal/llm"
	"gohan-planner/internal/mealplan/mealplantest"
	"gohan-planner/internal/shared"
)

type MockTextGenerator struct {
	content string
	err     error
	delay   time.Duration
	calls   atomic.Int32

	system string
	prompt string
}

func (m *MockTextGenerator) GenerateContent(ctx context.Context, system, prompt string) (llm.ContentResponse, error) {
	m.calls.Add(1)
	m.system, m.prompt = system, prompt
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return llm.ContentResponse{}, ctx.Err()
		}
	}
	if m.err != nil {
		return llm.ContentResponse{}, m.err
	}
	return llm.ContentResponse{
		Content: m.content,
		Usage:   shared.TokenUsage{PromptTokens: 900, CompletionTokens: 2500, TotalTokens: 3400, Model: "mock"},
	}, nil
}

type recorder struct {
	mu    sync.Mutex
	metas []shared.AgentMeta
}

func (r *recorder) RecordMeta(_ context.Context, meta shared.AgentMeta) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metas = append(r.metas, meta)
	return nil
}

func TestGenerateWeeklyPlan(t *testing.T) {
	ctx := context.Background()
	mock := &MockTextGenerator{content: mealplantest.PlanJSON()}
	rec := &recorder{}
	gen := NewGenerator(mock, Options{Recorder: rec})

	plan, meta, err := gen.GenerateWeeklyPlan(ctx)
	if err != nil {
		t.Fatalf("GenerateWeeklyPlan failed: %v", err)
	}

	if len(plan.Meals) != 7 {
		t.Errorf("expected 7 meals, got %d", len(plan.Meals))
	}
	if plan.WeekOf != "" {
		t.Errorf("generator must not stamp weekOf, got %q", plan.WeekOf)
	}
	if meta.AgentName != agentName || meta.Usage.TotalTokens != 3400 || !meta.Success {
		t.Errorf("unexpected meta %+v", meta)
	}
	if mock.prompt != UserMessage {
		t.Errorf("unexpected user message %q", mock.prompt)
	}
	if !strings.Contains(mock.system, "ナス") || !strings.Contains(mock.system, "\"shoppingList\"") {
		t.Error("system prompt is missing the exclusions or the schema")
	}
	if len(rec.metas) != 1 || !rec.metas[0].Success {
		t.Errorf("expected one successful metric, got %+v", rec.metas)
	}
}

func TestGenerateWeeklyPlan_Wrapping(t *testing.T) {
	bare := mealplantest.PlanJSON()
	tests := []struct {
		name    string
		content string
	}{
		{"Bare", bare},
		{"Code fence", "```json\n" + bare + "\n```"},
		{"Surrounding prose", "以下が今週の献立です。\n" + bare + "\nご参考にどうぞ。"},
	}

	want, _, err := NewGenerator(&MockTextGenerator{content: bare}, Options{}).GenerateWeeklyPlan(context.Background())
	if err != nil {
		t.Fatalf("baseline generation failed: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := NewGenerator(&MockTextGenerator{content: tt.content}, Options{}).GenerateWeeklyPlan(context.Background())
			if err != nil {
				t.Fatalf("GenerateWeeklyPlan failed: %v", err)
			}
			if len(got.Meals) != len(want.Meals) || got.Meals[3].Name != want.Meals[3].Name {
				t.Errorf("expected the same plan as the bare response")
			}
			if len(got.ShoppingList) != len(want.ShoppingList) {
				t.Errorf("expected %d shopping items, got %d", len(want.ShoppingList), len(got.ShoppingList))
			}
		})
	}
}

func TestGenerateWeeklyPlan_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("No provider configured", func(t *testing.T) {
		gen := NewGenerator(nil, Options{CredentialName: "OPENAI_API_KEY"})
		_, _, err := gen.GenerateWeeklyPlan(ctx)
		if !apperr.Is(err, apperr.KindConfiguration) {
			t.Fatalf("expected configuration error, got %v", err)
		}
		if err.Error() != "OPENAI_API_KEY が設定されていません。" {
			t.Errorf("unexpected message %q", err.Error())
		}
	})

	t.Run("Upstream failure", func(t *testing.T) {
		mock := &MockTextGenerator{err: errors.New("503 service unavailable")}
		rec := &recorder{}
		_, _, err := NewGenerator(mock, Options{Recorder: rec}).GenerateWeeklyPlan(ctx)
		if !apperr.Is(err, apperr.KindUpstream) {
			t.Fatalf("expected upstream error, got %v", err)
		}
		if !strings.Contains(err.Error(), "503") {
			t.Errorf("expected the provider message to be kept, got %q", err.Error())
		}
		if len(rec.metas) != 1 || rec.metas[0].Success {
			t.Errorf("expected one failed metric, got %+v", rec.metas)
		}
	})

	t.Run("Empty output", func(t *testing.T) {
		_, _, err := NewGenerator(&MockTextGenerator{content: "  \n"}, Options{}).GenerateWeeklyPlan(ctx)
		if !apperr.Is(err, apperr.KindUpstream) {
			t.Fatalf("expected upstream error, got %v", err)
		}
	})

	t.Run("No braces", func(t *testing.T) {
		_, meta, err := NewGenerator(&MockTextGenerator{content: "申し訳ありませんが作成できません。"}, Options{}).GenerateWeeklyPlan(ctx)
		if !apperr.Is(err, apperr.KindParse) {
			t.Fatalf("expected parse error, got %v", err)
		}
		if err.Error() != "JSON not found in response" {
			t.Errorf("unexpected message %q", err.Error())
		}
		if meta.Usage.TotalTokens == 0 {
			t.Error("expected usage to be reported for a parse failure")
		}
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		_, _, err := NewGenerator(&MockTextGenerator{content: `{"meals": [}`}, Options{}).GenerateWeeklyPlan(ctx)
		if !apperr.Is(err, apperr.KindParse) {
			t.Fatalf("expected parse error, got %v", err)
		}
	})

	t.Run("Timeout", func(t *testing.T) {
		mock := &MockTextGenerator{content: mealplantest.PlanJSON(), delay: time.Second}
		_, _, err := NewGenerator(mock, Options{Timeout: 20 * time.Millisecond}).GenerateWeeklyPlan(ctx)
		if !apperr.Is(err, apperr.KindUpstream) {
			t.Fatalf("expected upstream error, got %v", err)
		}
		if !strings.Contains(err.Error(), "timed out") {
			t.Errorf("unexpected message %q", err.Error())
		}
	})
}

func TestGenerateWeeklyPlan_SingleFlight(t *testing.T) {
	mock := &MockTextGenerator{content: mealplantest.PlanJSON(), delay: 100 * time.Millisecond}
	gen := NewGenerator(mock, Options{})

	const callers = 5
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			plan, _, err := gen.GenerateWeeklyPlan(context.Background())
			if err == nil && len(plan.Meals) != 7 {
				err = errors.New("incomplete plan")
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("caller failed: %v", err)
		}
	}
	if n := mock.calls.Load(); n != 1 {
		t.Errorf("expected 1 upstream call, got %d", n)
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{`{"a":1}`, `{"a":1}`, true},
		{"  text {\"a\":{\"b\":2}} tail } end ", "{\"a\":{\"b\":2}} tail }", true},
		{"no object", "", false},
		{"} reversed {", "", false},
	}
	for _, tt := range tests {
		got, ok := extractJSON(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("extractJSON(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParsePlan_Normalizes(t *testing.T) {
	plan, err := ParsePlan(`{"meals":[{"id":"meal-1","day":"月曜日","dayIndex":0,"name":"親子丼"}],"shoppingList":[{"name":"卵","category":"豆腐・卵・乳製品"}]}`)
	if err != nil {
		t.Fatalf("ParsePlan failed: %v", err)
	}
	if plan.Meals[0].Tags == nil || plan.Meals[0].Steps == nil {
		t.Error("expected nil slices to be normalized")
	}
	if plan.ShoppingList[0].StorageMethod != "常温" {
		t.Errorf("expected default storage method, got %q", plan.ShoppingList[0].StorageMethod)
	}
}
