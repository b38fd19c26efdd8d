package app

import (
	"context"
	"fmt"
	"time"

	"gohan-planner/internal/apperr"
	"gohan-planner/internal/logger"
	"gohan-planner/internal/mealplan"
	"gohan-planner/internal/shared"
	"gohan-planner/internal/store"
)

// PlanGenerator produces a fresh plan without weekOf.
type PlanGenerator interface {
	GenerateWeeklyPlan(ctx context.Context) (*mealplan.WeeklyPlan, shared.AgentMeta, error)
}

// PlanNotifier is told about every newly saved plan.
type PlanNotifier interface {
	NotifyPlan(ctx context.Context, plan *mealplan.WeeklyPlan)
}

// App holds the application's dependencies.
type App struct {
	generator PlanGenerator
	store     *store.Store
	notifier  PlanNotifier
	location  *time.Location
	log       *logger.Logger
	now       func() time.Time
}

// NewApp creates and initializes a new App instance. notifier may be nil.
func NewApp(
	generator PlanGenerator,
	st *store.Store,
	notifier PlanNotifier,
	location *time.Location,
	log *logger.Logger,
) *App {
	if location == nil {
		location = time.Local
	}
	if log == nil {
		log = logger.Nop()
	}
	return &App{
		generator: generator,
		store:     st,
		notifier:  notifier,
		location:  location,
		log:       log,
		now:       time.Now,
	}
}

// Generate asks the model for a plan without stamping or saving it.
func (a *App) Generate(ctx context.Context) (*mealplan.WeeklyPlan, error) {
	plan, _, err := a.generator.GenerateWeeklyPlan(ctx)
	return plan, err
}

// GenerateWeeklyPlan generates a plan, stamps it with the Monday of the
// current week and replaces the stored plan.
func (a *App) GenerateWeeklyPlan(ctx context.Context) (*mealplan.WeeklyPlan, error) {
	plan, _, err := a.generator.GenerateWeeklyPlan(ctx)
	if err != nil {
		return nil, err
	}

	plan.WeekOf = mealplan.MondayOf(a.now().In(a.location))
	if err := a.store.SaveWeeklyPlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to save weekly plan: %w", err)
	}
	a.log.Info("weekly plan saved", "week_of", plan.WeekOf, "meals", len(plan.Meals))

	if a.notifier != nil {
		// Delivery must not hold up the caller.
		go a.notifier.NotifyPlan(context.WithoutCancel(ctx), plan)
	}
	return plan, nil
}

// SavePlan replaces the stored plan with an edited copy.
func (a *App) SavePlan(ctx context.Context, plan *mealplan.WeeklyPlan) error {
	if plan == nil {
		return apperr.Newf(apperr.KindInvalid, "save plan", "plan is required")
	}
	plan.Normalize()
	if plan.WeekOf == "" {
		plan.WeekOf = mealplan.MondayOf(a.now().In(a.location))
	}
	return a.store.SaveWeeklyPlan(ctx, plan)
}

// CurrentPlan returns the stored plan or nil.
func (a *App) CurrentPlan(ctx context.Context) (*mealplan.WeeklyPlan, error) {
	return a.store.LoadWeeklyPlan(ctx)
}

// ShoppingView returns the stored plan's shopping list grouped by category,
// or nil when no plan exists.
func (a *App) ShoppingView(ctx context.Context) (*mealplan.WeeklyPlan, []mealplan.ShoppingGroup, error) {
	plan, err := a.store.LoadWeeklyPlan(ctx)
	if err != nil || plan == nil {
		return nil, nil, err
	}
	return plan, mealplan.GroupShoppingList(plan.ShoppingList), nil
}

func (a *App) Favorites(ctx context.Context) ([]mealplan.FavoriteMeal, error) {
	return a.store.LoadFavorites(ctx)
}

// FavoriteIDs returns the set of favorite meal ids.
func (a *App) FavoriteIDs(ctx context.Context) (map[string]bool, error) {
	favorites, err := a.store.LoadFavorites(ctx)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]bool, len(favorites))
	for _, f := range favorites {
		ids[f.ID] = true
	}
	return ids, nil
}

func (a *App) SaveFavorite(ctx context.Context, meal mealplan.Meal) error {
	if meal.ID == "" {
		return apperr.Newf(apperr.KindInvalid, "save favorite", "meal id is required")
	}
	return a.store.SaveFavorite(ctx, meal)
}

func (a *App) RemoveFavorite(ctx context.Context, mealID string) error {
	return a.store.RemoveFavorite(ctx, mealID)
}

// ToggleFavorite flips the favorite state of meal and returns the new state.
func (a *App) ToggleFavorite(ctx context.Context, meal mealplan.Meal) (bool, error) {
	if meal.ID == "" {
		return false, apperr.Newf(apperr.KindInvalid, "toggle favorite", "meal id is required")
	}
	return a.store.ToggleFavorite(ctx, meal)
}

// ToggleFavoriteByID toggles a meal of the stored plan by id.
func (a *App) ToggleFavoriteByID(ctx context.Context, mealID string) (bool, error) {
	plan, err := a.store.LoadWeeklyPlan(ctx)
	if err != nil {
		return false, err
	}
	if plan != nil {
		if meal, ok := plan.FindMeal(mealID); ok {
			return a.store.ToggleFavorite(ctx, meal)
		}
	}
	// Meals that left the plan can still be unfavorited.
	if ok, err := a.store.IsFavorite(ctx, mealID); err != nil {
		return false, err
	} else if ok {
		return false, a.store.RemoveFavorite(ctx, mealID)
	}
	return false, apperr.Newf(apperr.KindNotFound, "toggle favorite", "meal %s not found", mealID)
}

// StorageAvailable reports whether plans and favorites are persisted.
func (a *App) StorageAvailable() bool {
	return a.store.Available()
}
