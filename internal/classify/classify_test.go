package classify

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Cheese", CategoryDairy},
		{"Eggs", CategoryDairy},
		{"Oat Milk", CategoryDairy},
		{"Banana", CategoryProduce},
		{"Cherry Tomatoes", CategoryProduce},
		{"Chicken breast", CategoryMeat},
		{"Smoked Salmon", CategoryMeat},
		{"Sourdough bread", CategoryBakery},
		{"Croissants", CategoryBakery},
		{"Xyzzyx", CategoryOther},
		{"Dish soap", CategoryOther},
	}
	for _, tc := range cases {
		if got := Classify(tc.name); got != tc.want {
			t.Errorf("Classify(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	if Classify("CHEESE") != Classify("cheese") {
		t.Error("classification should ignore case")
	}
	if got := Classify("  banana  "); got != CategoryProduce {
		t.Errorf("surrounding whitespace should be ignored, got %q", got)
	}
}

func TestClassifyTotalCoverage(t *testing.T) {
	// Every non-empty input maps to exactly one known category.
	known := map[string]bool{
		CategoryDairy:   true,
		CategoryProduce: true,
		CategoryMeat:    true,
		CategoryBakery:  true,
		CategoryOther:   true,
	}
	for _, name := range []string{"a", "milk", "??", "42", "bread and butter"} {
		if got := Classify(name); !known[got] {
			t.Errorf("Classify(%q) = %q, not a known category", name, got)
		}
	}
}

func TestClassifyFirstGroupWins(t *testing.T) {
	// "bread and butter" matches both dairy and bakery keywords; the dairy
	// group is evaluated first and must win.
	if got := Classify("bread and butter"); got != CategoryDairy {
		t.Errorf("Classify(%q) = %q, want %q", "bread and butter", got, CategoryDairy)
	}
}
