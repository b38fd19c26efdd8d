package mealplan

import "testing"

func TestStorageStyleFor(t *testing.T) {
	tests := []struct {
		method string
		want   string
	}{
		{StorageRefrigerate, StorageRefrigerate},
		{StorageFreeze, StorageFreeze},
		{StorageRoomTemp, StorageRoomTemp},
		{"", StorageRoomTemp},
		{"冷暗所", StorageRoomTemp},
	}
	for _, tt := range tests {
		if got := StorageStyleFor(tt.method).Method; got != tt.want {
			t.Errorf("StorageStyleFor(%q) = %s, want %s", tt.method, got, tt.want)
		}
	}
}

func TestGroupShoppingList(t *testing.T) {
	items := []ShoppingItem{
		{Name: "醤油", Category: CategorySeasonings},
		{Name: "鶏もも肉", Category: CategoryMeatFish},
		{Name: "キッチンペーパー", Category: ""},
		{Name: "パン", Category: "パン類"},
		{Name: "鮭", Category: CategoryMeatFish},
		{Name: "牛乳", Category: CategoryTofuEggs},
	}

	groups := GroupShoppingList(items)

	wantOrder := []string{CategoryMeatFish, CategoryTofuEggs, CategorySeasonings, CategoryOther, "パン類"}
	if len(groups) != len(wantOrder) {
		t.Fatalf("expected %d groups, got %d: %+v", len(wantOrder), len(groups), groups)
	}
	for i, want := range wantOrder {
		if groups[i].Category != want {
			t.Errorf("group %d: expected %s, got %s", i, want, groups[i].Category)
		}
	}
	if len(groups[0].Items) != 2 || groups[0].Items[0].Name != "鶏もも肉" || groups[0].Items[1].Name != "鮭" {
		t.Errorf("expected meat/fish items in input order, got %+v", groups[0].Items)
	}
	if groups[0].Icon != "🥩" {
		t.Errorf("unexpected icon %q", groups[0].Icon)
	}
	if groups[4].Icon != CategoryIcon(CategoryOther) {
		t.Errorf("unknown categories should use the その他 icon, got %q", groups[4].Icon)
	}

	if len(GroupShoppingList(nil)) != 0 {
		t.Error("expected no groups for an empty list")
	}
}
