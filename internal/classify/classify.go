// Package classify assigns a shopping category to a free-text item name.
//
// Classification is a pure function over a fixed, ordered list of keyword
// groups: the first group containing a matching keyword wins, and the
// catch-all Other group guarantees every non-empty input maps to exactly
// one category. Categories are a client-side display concern only; they
// are never sent to or stored by the task server.
package classify

import "strings"

// Category names, in match priority order.
const (
	CategoryDairy   = "Dairy & Eggs"
	CategoryProduce = "Fruits & Vegetables"
	CategoryMeat    = "Meat & Fish"
	CategoryBakery  = "Bakery"
	CategoryOther   = "Other"
)

type group struct {
	name     string
	keywords []string
}

// groups is evaluated top to bottom; order is part of the contract.
// "Eggs" must land in dairy even though an egg aisle could plausibly be
// grouped elsewhere, so the dairy group is checked first.
var groups = []group{
	{CategoryDairy, []string{
		"milk", "cheese", "butter", "yogurt", "yoghurt", "cream", "egg", "kefir",
	}},
	{CategoryProduce, []string{
		"apple", "banana", "orange", "lemon", "grape", "berry", "berries",
		"tomato", "potato", "onion", "garlic", "carrot", "cucumber", "pepper",
		"lettuce", "salad", "spinach", "broccoli", "avocado", "fruit", "vegetable",
	}},
	{CategoryMeat, []string{
		"beef", "pork", "chicken", "turkey", "lamb", "bacon", "ham", "sausage",
		"fish", "salmon", "tuna", "shrimp", "meat",
	}},
	{CategoryBakery, []string{
		"bread", "baguette", "bagel", "bun", "roll", "croissant", "muffin",
		"cake", "pastry", "tortilla",
	}},
}

// Classify maps an item name to exactly one category. Matching is
// case-insensitive substring matching against each group's keywords.
func Classify(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return CategoryOther
	}
	for _, g := range groups {
		for _, kw := range g.keywords {
			if strings.Contains(lower, kw) {
				return g.name
			}
		}
	}
	return CategoryOther
}
