package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"gohan-planner/internal/apperr"
	"gohan-planner/internal/mealplan"
	"gohan-planner/internal/mealplan/mealplantest"
	"gohan-planner/internal/shared"
	"gohan-planner/internal/store"
)

type mockGenerator struct {
	plan *mealplan.WeeklyPlan
	err  error
}

func (m *mockGenerator) GenerateWeeklyPlan(context.Context) (*mealplan.WeeklyPlan, shared.AgentMeta, error) {
	if m.err != nil {
		return nil, shared.AgentMeta{}, m.err
	}
	return m.plan, shared.AgentMeta{AgentName: "test"}, nil
}

type mockNotifier struct {
	plans chan *mealplan.WeeklyPlan
}

func (m *mockNotifier) NotifyPlan(_ context.Context, plan *mealplan.WeeklyPlan) {
	m.plans <- plan
}

func newTestApp(gen PlanGenerator, notifier PlanNotifier) (*App, *store.Store) {
	st := store.New(store.NewMemoryBackend(), nil)
	a := NewApp(gen, st, notifier, time.FixedZone("JST", 9*60*60), nil)
	// Sunday night in Tokyo.
	a.now = func() time.Time { return time.Date(2026, 10, 18, 14, 0, 0, 0, time.UTC) }
	return a, st
}

func TestGenerateWeeklyPlan(t *testing.T) {
	ctx := context.Background()
	notifier := &mockNotifier{plans: make(chan *mealplan.WeeklyPlan, 1)}
	a, st := newTestApp(&mockGenerator{plan: mealplantest.Plan()}, notifier)

	plan, err := a.GenerateWeeklyPlan(ctx)
	if err != nil {
		t.Fatalf("GenerateWeeklyPlan failed: %v", err)
	}
	// 2026-10-18 23:00 JST is a Sunday.
	if plan.WeekOf != "2026-10-12" {
		t.Errorf("expected weekOf 2026-10-12, got %s", plan.WeekOf)
	}

	saved, _ := st.LoadWeeklyPlan(ctx)
	if saved == nil || saved.WeekOf != "2026-10-12" || len(saved.Meals) != 7 {
		t.Errorf("expected stamped plan to be saved, got %+v", saved)
	}

	select {
	case got := <-notifier.plans:
		if got.WeekOf != plan.WeekOf {
			t.Errorf("notifier received weekOf %s", got.WeekOf)
		}
	case <-time.After(time.Second):
		t.Error("expected notifier to be called")
	}
}

func TestGenerateWeeklyPlan_FailureKeepsPreviousPlan(t *testing.T) {
	ctx := context.Background()
	cause := apperr.Parse("", errors.New("JSON not found in response"))
	a, st := newTestApp(&mockGenerator{err: cause}, nil)

	previous := mealplantest.Plan()
	previous.WeekOf = "2026-10-05"
	_ = st.SaveWeeklyPlan(ctx, previous)

	_, err := a.GenerateWeeklyPlan(ctx)
	if !apperr.Is(err, apperr.KindParse) {
		t.Fatalf("expected parse error to pass through, got %v", err)
	}

	current, _ := a.CurrentPlan(ctx)
	if current == nil || current.WeekOf != "2026-10-05" {
		t.Errorf("expected previous plan to survive, got %+v", current)
	}
}

func TestGenerate_DoesNotPersist(t *testing.T) {
	ctx := context.Background()
	a, st := newTestApp(&mockGenerator{plan: mealplantest.Plan()}, nil)

	plan, err := a.Generate(ctx)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if plan.WeekOf != "" {
		t.Errorf("expected no weekOf, got %s", plan.WeekOf)
	}
	if saved, _ := st.LoadWeeklyPlan(ctx); saved != nil {
		t.Error("expected nothing to be saved")
	}
}

func TestFavorites(t *testing.T) {
	ctx := context.Background()
	a, st := newTestApp(&mockGenerator{plan: mealplantest.Plan()}, nil)
	if _, err := a.GenerateWeeklyPlan(ctx); err != nil {
		t.Fatalf("GenerateWeeklyPlan failed: %v", err)
	}

	on, err := a.ToggleFavoriteByID(ctx, "meal-2")
	if err != nil || !on {
		t.Fatalf("expected meal-2 to be favorited, got %v, %v", on, err)
	}
	ids, _ := a.FavoriteIDs(ctx)
	if !ids["meal-2"] || len(ids) != 1 {
		t.Errorf("unexpected favorite ids %v", ids)
	}

	// Replace the plan; the favorite stays and can still be removed by id.
	_ = st.SaveWeeklyPlan(ctx, &mealplan.WeeklyPlan{WeekOf: "2026-10-19"})
	on, err = a.ToggleFavoriteByID(ctx, "meal-2")
	if err != nil || on {
		t.Fatalf("expected meal-2 to be unfavorited, got %v, %v", on, err)
	}

	_, err = a.ToggleFavoriteByID(ctx, "meal-404")
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("expected not found, got %v", err)
	}

	if err := a.SaveFavorite(ctx, mealplan.Meal{Name: "no id"}); !apperr.Is(err, apperr.KindInvalid) {
		t.Errorf("expected invalid error for a meal without id, got %v", err)
	}
}

func TestShoppingView(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestApp(&mockGenerator{plan: mealplantest.Plan()}, nil)

	plan, groups, err := a.ShoppingView(ctx)
	if err != nil || plan != nil || groups != nil {
		t.Fatalf("expected empty view without a plan, got %v, %v, %v", plan, groups, err)
	}

	if _, err := a.GenerateWeeklyPlan(ctx); err != nil {
		t.Fatalf("GenerateWeeklyPlan failed: %v", err)
	}
	_, groups, err = a.ShoppingView(ctx)
	if err != nil {
		t.Fatalf("ShoppingView failed: %v", err)
	}
	if len(groups) == 0 || groups[0].Category != mealplan.CategoryMeatFish {
		t.Errorf("expected groups starting with meat and fish, got %+v", groups)
	}
}

func TestSavePlan(t *testing.T) {
	ctx := context.Background()
	a, st := newTestApp(&mockGenerator{}, nil)

	edited := mealplantest.Plan()
	edited.ShoppingList[0].StorageMethod = ""
	if err := a.SavePlan(ctx, edited); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}
	saved, _ := st.LoadWeeklyPlan(ctx)
	if saved.WeekOf != "2026-10-12" || saved.ShoppingList[0].StorageMethod != mealplan.StorageRoomTemp {
		t.Errorf("expected normalized stamped plan, got weekOf=%s storage=%s", saved.WeekOf, saved.ShoppingList[0].StorageMethod)
	}

	if err := a.SavePlan(ctx, nil); !apperr.Is(err, apperr.KindInvalid) {
		t.Errorf("expected invalid error, got %v", err)
	}
}
