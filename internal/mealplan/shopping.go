package mealplan

// StorageStyle is how a storage method is rendered.
type StorageStyle struct {
	Method string
	Icon   string
	Class  string
}

var storageStyles = map[string]StorageStyle{
	StorageRefrigerate: {Method: StorageRefrigerate, Icon: "🌡️", Class: "storage-fridge"},
	StorageFreeze:      {Method: StorageFreeze, Icon: "❄️", Class: "storage-freezer"},
	StorageRoomTemp:    {Method: StorageRoomTemp, Icon: "📦", Class: "storage-room"},
}

// StorageStyleFor returns the style for method, falling back to the
// room-temperature style for absent or unknown methods.
func StorageStyleFor(method string) StorageStyle {
	if s, ok := storageStyles[method]; ok {
		return s
	}
	return storageStyles[StorageRoomTemp]
}

var categoryIcons = map[string]string{
	CategoryMeatFish:   "🥩",
	CategoryProduce:    "🥦",
	CategoryTofuEggs:   "🥚",
	CategorySeasonings: "🧂",
	CategoryOther:      "🛒",
}

// CategoryIcon returns the icon shown next to a shopping category.
func CategoryIcon(category string) string {
	if icon, ok := categoryIcons[category]; ok {
		return icon
	}
	return categoryIcons[CategoryOther]
}

// ShoppingGroup is one category section of the shopping list.
type ShoppingGroup struct {
	Category string         `json:"category"`
	Icon     string         `json:"icon"`
	Items    []ShoppingItem `json:"items"`
}

// GroupShoppingList groups items by category in the fixed category order.
// Items without a category go to その他; categories outside the vocabulary
// follow the fixed ones in first-seen order. Empty groups are omitted.
func GroupShoppingList(items []ShoppingItem) []ShoppingGroup {
	byCategory := make(map[string][]ShoppingItem)
	var extra []string
	known := make(map[string]bool, len(Categories))
	for _, c := range Categories {
		known[c] = true
	}

	for _, item := range items {
		cat := item.Category
		if cat == "" {
			cat = CategoryOther
		}
		if !known[cat] && byCategory[cat] == nil {
			extra = append(extra, cat)
		}
		byCategory[cat] = append(byCategory[cat], item)
	}

	groups := make([]ShoppingGroup, 0, len(byCategory))
	for _, cat := range append(append([]string{}, Categories...), extra...) {
		if len(byCategory[cat]) == 0 {
			continue
		}
		groups = append(groups, ShoppingGroup{
			Category: cat,
			Icon:     CategoryIcon(cat),
			Items:    byCategory[cat],
		})
	}
	return groups
}
