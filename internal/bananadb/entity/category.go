package entity

// 固定分類集合
const (
	CategoryPortrait     = "Portrait"
	CategoryLandscape    = "Landscape"
	CategoryAnimal       = "Animal"
	CategoryArchitecture = "Architecture"
	CategorySciFi        = "Sci-Fi"
	CategoryArt          = "Art"
	CategoryFood         = "Food"
	CategoryFashion      = "Fashion"
	CategoryOther        = "Other"
)

// CategoryFavorites 收藏偽分類
// 不屬於固定分類集合，僅作為 /api/images?category= 的保留篩選值
const CategoryFavorites = "favorites"

// Category 分類資訊（含前端使用的中文標籤與顏色）
type Category struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Color string `json:"color"`
	Count int64  `json:"count"`
}

// DefaultCategories 預設分類清單，順序即前端顯示順序
func DefaultCategories() []Category {
	return []Category{
		{ID: CategoryPortrait, Label: "人像", Color: "bg-blue-600"},
		{ID: CategoryLandscape, Label: "風景", Color: "bg-green-600"},
		{ID: CategoryAnimal, Label: "動物", Color: "bg-yellow-600"},
		{ID: CategoryArchitecture, Label: "建築", Color: "bg-gray-600"},
		{ID: CategorySciFi, Label: "科幻", Color: "bg-purple-600"},
		{ID: CategoryArt, Label: "藝術", Color: "bg-pink-600"},
		{ID: CategoryFood, Label: "食物", Color: "bg-orange-600"},
		{ID: CategoryFashion, Label: "時尚", Color: "bg-red-600"},
		{ID: CategoryOther, Label: "其他", Color: "bg-gray-500"},
	}
}

var validCategories = map[string]bool{
	CategoryPortrait:     true,
	CategoryLandscape:    true,
	CategoryAnimal:       true,
	CategoryArchitecture: true,
	CategorySciFi:        true,
	CategoryArt:          true,
	CategoryFood:         true,
	CategoryFashion:      true,
	CategoryOther:        true,
}

// NormalizeCategory 把不在固定集合內的分類修正為 Other
func NormalizeCategory(category string) string {
	if validCategories[category] {
		return category
	}
	return CategoryOther
}
