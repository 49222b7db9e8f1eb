package domain

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jsamuelsen/kondate/internal/domain/quantity"
)

// Recipe is a catalog entry. Ingredients and Instructions are free text;
// Servings is the canonical base every scaling starts from.
type Recipe struct {
	ID           string
	Name         string
	Description  string
	Category     string
	Servings     int
	CookingTime  string
	Difficulty   string
	Image        string
	Ingredients  []string
	Instructions []string
	Tags         []string
}

// Matches reports whether query occurs in the name, description, category or
// tags, ignoring case. An empty query matches every recipe.
func (r Recipe) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}

	fields := append([]string{r.Name, r.Description, r.Category}, r.Tags...)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}

	return false
}

// IngredientsFor returns the ingredient lines scaled to servings.
// Zero servings means the recipe's own base.
func (r Recipe) IngredientsFor(servings int) []string {
	if servings == 0 {
		servings = r.Servings
	}

	return quantity.Scale(r.Ingredients, r.Servings, servings)
}

var stepMinutesPattern = regexp.MustCompile(`(\d+)分`)

// StepDuration extracts the first "<n>分" from an instruction for the step
// timer. Steps without a duration report false.
func StepDuration(step string) (time.Duration, bool) {
	m := stepMinutesPattern.FindStringSubmatch(step)
	if m == nil {
		return 0, false
	}

	minutes, err := strconv.Atoi(m[1])
	if err != nil || minutes == 0 {
		return 0, false
	}

	return time.Duration(minutes) * time.Minute, true
}
