// Package mealplan defines the weekly dinner plan, its shopping list and the
// favorites snapshot, together with the controlled vocabularies the model is
// asked to use.
package mealplan

import (
	"fmt"
	"time"
)

// Ingredient is one line of a recipe.
type Ingredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

// Meal is one dinner recipe of the week.
type Meal struct {
	ID          string       `json:"id"`
	Day         string       `json:"day"`
	DayIndex    int          `json:"dayIndex"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	CookingTime int          `json:"cookingTime"`
	Calories    int          `json:"calories"`
	Tags        []string     `json:"tags"`
	Ingredients []Ingredient `json:"ingredients"`
	Steps       []string     `json:"steps"`
}

// ShoppingItem is one consolidated entry of the week's shopping list.
type ShoppingItem struct {
	Name          string   `json:"name"`
	Amount        string   `json:"amount"`
	Category      string   `json:"category"`
	UsedOnDays    []string `json:"usedOnDays"`
	StorageMethod string   `json:"storageMethod"`
	StorageNote   string   `json:"storageNote"`
}

// WeeklyPlan is the whole persisted plan. WeekOf is the ISO date of the
// week's Monday and is stamped by the caller, never by the model.
type WeeklyPlan struct {
	WeekOf       string         `json:"weekOf,omitempty"`
	Meals        []Meal         `json:"meals"`
	ShoppingList []ShoppingItem `json:"shoppingList"`
}

// FavoriteMeal is a by-value snapshot of a meal that outlives the plan it
// came from.
type FavoriteMeal struct {
	ID      string `json:"id"`
	Meal    Meal   `json:"meal"`
	SavedAt string `json:"savedAt"`
}

// Weekdays holds the day labels indexed by dayIndex (0 = Monday).
var Weekdays = [7]string{"月曜日", "火曜日", "水曜日", "木曜日", "金曜日", "土曜日", "日曜日"}

// DayLabel returns the weekday label for dayIndex, or "" when out of range.
func DayLabel(dayIndex int) string {
	if dayIndex < 0 || dayIndex >= len(Weekdays) {
		return ""
	}
	return Weekdays[dayIndex]
}

// DayIndex returns the index of a weekday label, or -1.
func DayIndex(label string) int {
	for i, d := range Weekdays {
		if d == label {
			return i
		}
	}
	return -1
}

const (
	CategoryMeatFish   = "肉・魚"
	CategoryProduce    = "野菜・果物"
	CategoryTofuEggs   = "豆腐・卵・乳製品"
	CategorySeasonings = "調味料・乾物"
	CategoryOther      = "その他"
)

// Categories lists the shopping categories in display order.
var Categories = []string{
	CategoryMeatFish,
	CategoryProduce,
	CategoryTofuEggs,
	CategorySeasonings,
	CategoryOther,
}

const (
	StorageRefrigerate = "冷蔵"
	StorageFreeze      = "冷凍"
	StorageRoomTemp    = "常温"
)

// Tags is the vocabulary the model is asked to pick 2-3 labels from.
var Tags = []string{"和食", "洋食", "中華", "高タンパク", "低カロリー", "ヘルシー", "ボリューム", "時短"}

const dateLayout = "2006-01-02"

// MondayOf returns the ISO date of the Monday starting the week that contains
// t, in t's location. Sunday belongs to the week that started six days earlier.
func MondayOf(t time.Time) string {
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.Date()
	monday := time.Date(y, m, d-offset, 0, 0, 0, 0, t.Location())
	return monday.Format(dateLayout)
}

// WeekRange formats the Monday-to-Sunday span of weekOf, e.g. "4月6日 〜 4月12日".
func WeekRange(weekOf string) (string, error) {
	monday, err := time.Parse(dateLayout, weekOf)
	if err != nil {
		return "", fmt.Errorf("invalid weekOf %q: %w", weekOf, err)
	}
	sunday := monday.AddDate(0, 0, 6)
	return fmt.Sprintf("%d月%d日 〜 %d月%d日",
		int(monday.Month()), monday.Day(), int(sunday.Month()), sunday.Day()), nil
}

// Normalize fills absent collections with empty ones and defaults a missing
// storage method to room temperature. It never drops data.
func (p *WeeklyPlan) Normalize() {
	if p.Meals == nil {
		p.Meals = []Meal{}
	}
	if p.ShoppingList == nil {
		p.ShoppingList = []ShoppingItem{}
	}
	for i := range p.Meals {
		m := &p.Meals[i]
		if m.Tags == nil {
			m.Tags = []string{}
		}
		if m.Ingredients == nil {
			m.Ingredients = []Ingredient{}
		}
		if m.Steps == nil {
			m.Steps = []string{}
		}
	}
	for i := range p.ShoppingList {
		item := &p.ShoppingList[i]
		if item.UsedOnDays == nil {
			item.UsedOnDays = []string{}
		}
		if item.StorageMethod == "" {
			item.StorageMethod = StorageRoomTemp
		}
	}
}

// FindMeal returns the meal with the given id.
func (p *WeeklyPlan) FindMeal(id string) (Meal, bool) {
	for _, m := range p.Meals {
		if m.ID == id {
			return m, true
		}
	}
	return Meal{}, false
}
