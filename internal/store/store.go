package store

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"gohan-planner/internal/logger"
	"gohan-planner/internal/mealplan"
)

// Record keys.
const (
	WeeklyPlanKey = "meal-planner-weekly-plan"
	FavoritesKey  = "meal-planner-favorites"
)

// Store owns the current weekly plan and the favorites list. Every operation
// reads or writes a whole record.
type Store struct {
	backend Backend
	log     *logger.Logger
	now     func() time.Time

	// mu serializes read-modify-write sequences within this process.
	mu sync.Mutex
}

// New creates a Store on top of backend. A nil backend behaves as Unavailable.
func New(backend Backend, log *logger.Logger) *Store {
	if backend == nil {
		backend = Unavailable{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Store{backend: backend, log: log, now: time.Now}
}

// Available reports whether writes are persisted.
func (s *Store) Available() bool {
	return s.backend.Available()
}

// SaveWeeklyPlan overwrites the current plan record.
func (s *Store) SaveWeeklyPlan(ctx context.Context, plan *mealplan.WeeklyPlan) error {
	if !s.backend.Available() {
		return nil
	}
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal weekly plan: %w", err)
	}
	return s.backend.Set(ctx, WeeklyPlanKey, data)
}

// LoadWeeklyPlan returns the stored plan, or nil when it is absent or cannot
// be decoded.
func (s *Store) LoadWeeklyPlan(ctx context.Context) (*mealplan.WeeklyPlan, error) {
	data, ok, err := s.backend.Get(ctx, WeeklyPlanKey)
	if err != nil || !ok || len(data) == 0 {
		return nil, err
	}

	plan := &mealplan.WeeklyPlan{}
	if err := json.Unmarshal(data, plan); err != nil {
		s.log.Debug("ignoring corrupt record", "key", WeeklyPlanKey, "error", err)
		return nil, nil
	}
	return plan, nil
}

// LoadFavorites returns the favorites list in insertion order. Absent or
// corrupt records yield an empty list.
func (s *Store) LoadFavorites(ctx context.Context) ([]mealplan.FavoriteMeal, error) {
	data, ok, err := s.backend.Get(ctx, FavoritesKey)
	if err != nil {
		return nil, err
	}
	favorites := []mealplan.FavoriteMeal{}
	if !ok || len(data) == 0 {
		return favorites, nil
	}

	if err := json.Unmarshal(data, &favorites); err != nil {
		s.log.Debug("ignoring corrupt record", "key", FavoritesKey, "error", err)
		return []mealplan.FavoriteMeal{}, nil
	}
	if favorites == nil {
		favorites = []mealplan.FavoriteMeal{}
	}
	return favorites, nil
}

// IsFavorite reports whether a favorite with the meal id exists.
func (s *Store) IsFavorite(ctx context.Context, mealID string) (bool, error) {
	favorites, err := s.LoadFavorites(ctx)
	if err != nil {
		return false, err
	}
	return containsFavorite(favorites, mealID), nil
}

// SaveFavorite appends a snapshot of meal unless a favorite with the same id
// already exists.
func (s *Store) SaveFavorite(ctx context.Context, meal mealplan.Meal) error {
	if !s.backend.Available() {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveFavoriteLocked(ctx, meal)
}

// RemoveFavorite drops every favorite with the meal id. The record is
// rewritten even when nothing matched.
func (s *Store) RemoveFavorite(ctx context.Context, mealID string) error {
	if !s.backend.Available() {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeFavoriteLocked(ctx, mealID)
}

// ToggleFavorite removes meal from the favorites when present and saves it
// otherwise. It returns the new state.
func (s *Store) ToggleFavorite(ctx context.Context, meal mealplan.Meal) (bool, error) {
	if !s.backend.Available() {
		return false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	favorites, err := s.LoadFavorites(ctx)
	if err != nil {
		return false, err
	}
	if containsFavorite(favorites, meal.ID) {
		return false, s.removeFavoriteLocked(ctx, meal.ID)
	}
	return true, s.saveFavoriteLocked(ctx, meal)
}

func (s *Store) saveFavoriteLocked(ctx context.Context, meal mealplan.Meal) error {
	favorites, err := s.LoadFavorites(ctx)
	if err != nil {
		return err
	}
	if containsFavorite(favorites, meal.ID) {
		return nil
	}
	favorites = append(favorites, mealplan.FavoriteMeal{
		ID:      meal.ID,
		Meal:    meal,
		SavedAt: s.now().UTC().Format(time.RFC3339Nano),
	})
	return s.writeFavorites(ctx, favorites)
}

func (s *Store) removeFavoriteLocked(ctx context.Context, mealID string) error {
	favorites, err := s.LoadFavorites(ctx)
	if err != nil {
		return err
	}
	favorites = slices.DeleteFunc(favorites, func(f mealplan.FavoriteMeal) bool {
		return f.ID == mealID
	})
	return s.writeFavorites(ctx, favorites)
}

func (s *Store) writeFavorites(ctx context.Context, favorites []mealplan.FavoriteMeal) error {
	data, err := json.Marshal(favorites)
	if err != nil {
		return fmt.Errorf("failed to marshal favorites: %w", err)
	}
	return s.backend.Set(ctx, FavoritesKey, data)
}

func containsFavorite(favorites []mealplan.FavoriteMeal, mealID string) bool {
	return slices.ContainsFunc(favorites, func(f mealplan.FavoriteMeal) bool {
		return f.ID == mealID
	})
}
