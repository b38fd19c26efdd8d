// Package mealplantest provides well-formed plans for tests.
package mealplantest

import (
	"encoding/json"
	"fmt"

	"gohan-planner/internal/mealplan"
)

var dishes = [7]struct {
	name string
	tags []string
}{
	{"鶏むね肉の照り焼き", []string{"和食", "高タンパク"}},
	{"豚肉と小松菜の炒め物", []string{"中華", "時短"}},
	{"鮭のムニエル", []string{"洋食", "ヘルシー"}},
	{"麻婆豆腐", []string{"中華", "ボリューム"}},
	{"さばの味噌煮", []string{"和食", "ヘルシー", "高タンパク"}},
	{"チキンのトマト煮", []string{"洋食", "低カロリー"}},
	{"親子丼", []string{"和食", "時短"}},
}

// Plan returns a valid seven-meal plan without weekOf.
func Plan() *mealplan.WeeklyPlan {
	p := &mealplan.WeeklyPlan{}
	for i, d := range dishes {
		p.Meals = append(p.Meals, mealplan.Meal{
			ID:          fmt.Sprintf("meal-%d", i+1),
			Day:         mealplan.Weekdays[i],
			DayIndex:    i,
			Name:        d.name,
			Description: d.name + "の簡単レシピ",
			CookingTime: 20 + i,
			Calories:    450 + 10*i,
			Tags:        append([]string{}, d.tags...),
			Ingredients: []mealplan.Ingredient{
				{Name: "鶏むね肉", Amount: "150g"},
				{Name: "醤油", Amount: "大さじ1"},
			},
			Steps: []string{"下ごしらえをする", "焼く", "盛り付ける"},
		})
	}
	p.ShoppingList = []mealplan.ShoppingItem{
		{Name: "鶏むね肉", Amount: "450g", Category: mealplan.CategoryMeatFish, UsedOnDays: []string{"月曜日", "土曜日", "日曜日"}, StorageMethod: mealplan.StorageRefrigerate, StorageNote: "購入後2日以内に使用。土日分は冷凍推奨"},
		{Name: "小松菜", Amount: "1束", Category: mealplan.CategoryProduce, UsedOnDays: []string{"火曜日"}, StorageMethod: mealplan.StorageRefrigerate, StorageNote: "湿らせた新聞紙で包む"},
		{Name: "豆腐", Amount: "1丁", Category: mealplan.CategoryTofuEggs, UsedOnDays: []string{"木曜日"}, StorageMethod: mealplan.StorageRefrigerate, StorageNote: ""},
		{Name: "醤油", Amount: "適量", Category: mealplan.CategorySeasonings, UsedOnDays: []string{"月曜日", "金曜日"}, StorageMethod: mealplan.StorageRoomTemp, StorageNote: ""},
		{Name: "冷凍さば", Amount: "1切れ", Category: mealplan.CategoryMeatFish, UsedOnDays: []string{"金曜日"}, StorageMethod: mealplan.StorageFreeze, StorageNote: "前日に冷蔵庫で解凍"},
	}
	return p
}

// PlanJSON returns Plan encoded the way the model is asked to answer.
func PlanJSON() string {
	data, err := json.MarshalIndent(Plan(), "", "  ")
	if err != nil {
		panic(err)
	}
	return string(data)
}
