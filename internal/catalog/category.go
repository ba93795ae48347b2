package catalog

import (
	"strings"

	"github.com/claude/repsense/internal/engine"
)

// categoryKeywords maps movement keywords to threshold categories. Checked
// in order so upper-body terms win over generic ones.
var categoryKeywords = []struct {
	keyword  string
	category engine.Category
}{
	{"curl", engine.CategoryUpperBody},
	{"press", engine.CategoryUpperBody},
	{"raise", engine.CategoryUpperBody},
	{"row", engine.CategoryUpperBody},
	{"pull", engine.CategoryUpperBody},
	{"push", engine.CategoryUpperBody},
	{"fly", engine.CategoryUpperBody},
	{"dip", engine.CategoryUpperBody},
	{"extension", engine.CategoryUpperBody},
	{"squat", engine.CategoryLowerBody},
	{"lunge", engine.CategoryLowerBody},
	{"deadlift", engine.CategoryLowerBody},
	{"calf", engine.CategoryLowerBody},
	{"leg", engine.CategoryLowerBody},
	{"crunch", engine.CategoryCore},
	{"plank", engine.CategoryCore},
	{"sit-up", engine.CategoryCore},
	{"situp", engine.CategoryCore},
	{"twist", engine.CategoryCore},
	{"burpee", engine.CategoryCardio},
	{"jump", engine.CategoryCardio},
	{"jack", engine.CategoryCardio},
	{"sprint", engine.CategoryCardio},
	{"mountain", engine.CategoryCardio},
}

// CategoryForName derives a threshold category from a free-text exercise
// name. Unrecognized names map to the default category.
func CategoryForName(name string) engine.Category {
	n := strings.ToLower(name)
	for _, kw := range categoryKeywords {
		if strings.Contains(n, kw.keyword) {
			return kw.category
		}
	}
	return engine.CategoryDefault
}
