package questions

import "testing"

func TestValidCategory(t *testing.T) {
	sub := func(s string) *string { return &s }

	tests := []struct {
		name        string
		category    string
		subcategory *string
		want        bool
	}{
		{"known category no sub", "What does the Bible Say?", nil, true},
		{"known category empty sub", "What does the Bible Say?", sub(""), true},
		{"known category known sub", "What does the Bible Say?", sub("Heaven & Hell"), true},
		{"known category wrong sub", "What does the Bible Say?", sub("Prayer Life"), false},
		{"unknown category", "Gardening", nil, false},
		{"personal issue sub", "Help for my personal issue", sub("Trauma & Healing"), true},
		{"seeker sub", "I am not a Christian but have questions about Christianity", sub("Is God Real?"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidCategory(tt.category, tt.subcategory); got != tt.want {
				t.Errorf("ValidCategory(%q, %v) = %v, want %v", tt.category, tt.subcategory, got, tt.want)
			}
		})
	}
}

func TestEveryCategoryHasSubcategories(t *testing.T) {
	for _, c := range Categories {
		if len(Subcategories[c]) == 0 {
			t.Errorf("category %q has no subcategories", c)
		}
	}
	if len(Categories) != len(Subcategories) {
		t.Errorf("categories (%d) and subcategory map (%d) out of sync", len(Categories), len(Subcategories))
	}
}
