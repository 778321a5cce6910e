package questions

// Categories visitors choose from when submitting a question.
var Categories = []string{
	"Help for my personal issue",
	"What does the Bible Say?",
	"Deepening my walk with God",
	"I am not a Christian but have questions about Christianity",
}

// Subcategories per category.
var Subcategories = map[string][]string{
	"Help for my personal issue": {
		"Mental Health & Depression",
		"Relationships & Dating",
		"Family Issues",
		"Addiction & Habits",
		"Identity & Self-Worth",
		"Trauma & Healing",
		"Life Decisions",
		"Other Personal Issues",
	},
	"What does the Bible Say?": {
		"Salvation & Forgiveness",
		"Sin & Morality",
		"Love & Relationships",
		"Money & Materialism",
		"Suffering & Pain",
		"Heaven & Hell",
		"Prayer & Worship",
		"Other Biblical Questions",
	},
	"Deepening my walk with God": {
		"Prayer Life",
		"Reading the Bible",
		"Spiritual Disciplines",
		"Hearing God's Voice",
		"Serving Others",
		"Church & Community",
		"Spiritual Growth",
		"Other Spiritual Questions",
	},
	"I am not a Christian but have questions about Christianity": {
		"Is God Real?",
		"Why Christianity?",
		"Science vs Faith",
		"Other Religions",
		"Church & Christians",
		"Jesus Christ",
		"The Bible",
		"Other Questions about Christianity",
	},
}

// ValidCategory reports whether the category, and subcategory when given,
// are known.
func ValidCategory(category string, subcategory *string) bool {
	subs, ok := Subcategories[category]
	if !ok {
		return false
	}
	if subcategory == nil || *subcategory == "" {
		return true
	}
	for _, s := range subs {
		if s == *subcategory {
			return true
		}
	}
	return false
}
