// Package ingredient groups ingredient names into shopping categories.
package ingredient

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Category is the shopping-list group of an ingredient.
type Category string

// Categories in the order shopping lists display them.
const (
	Meat      Category = "meat"
	Vegetable Category = "vegetable"
	Seasoning Category = "seasoning"
	Other     Category = "other"
)

// Categories lists every category in display order.
var Categories = []Category{Meat, Vegetable, Seasoning, Other}

// Label returns the Japanese display label.
func (c Category) Label() string {
	switch c {
	case Meat:
		return "肉類"
	case Vegetable:
		return "野菜"
	case Seasoning:
		return "調味料"
	default:
		return "その他"
	}
}

// Rule maps a keyword to a category. A name containing Keyword belongs to Category.
type Rule struct {
	Keyword  string
	Category Category
}

// Categorizer matches names against an ordered rule table.
// It is immutable after construction and safe for concurrent use.
type Categorizer struct {
	rules []Rule
}

// NewCategorizer builds a categorizer from rules. Order matters: the first
// rule whose keyword is contained in the name wins. Empty keywords are ignored.
func NewCategorizer(rules []Rule) *Categorizer {
	normalized := make([]Rule, 0, len(rules))
	for _, r := range rules {
		kw := Normalize(r.Keyword)
		if kw == "" {
			continue
		}

		normalized = append(normalized, Rule{Keyword: kw, Category: r.Category})
	}

	return &Categorizer{rules: normalized}
}

// Categorize returns the category of name, or Other when no rule matches.
func (c *Categorizer) Categorize(name string) Category {
	n := Normalize(name)
	if n == "" {
		return Other
	}

	for _, r := range c.rules {
		if strings.Contains(n, r.Keyword) {
			return r.Category
		}
	}

	return Other
}

// Rules returns a copy of the normalized rule table.
func (c *Categorizer) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)

	return out
}

// Normalize folds a name for comparison: NFKC (full-width letters and digits
// become ASCII), surrounding space trimmed, lower case.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFKC.String(name)))
}
