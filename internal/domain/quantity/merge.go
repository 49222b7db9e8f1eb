package quantity

import (
	"regexp"
	"strings"
)

var leadingNumberPattern = regexp.MustCompile(`^(大さじ|小さじ|カップ)?(` + numberToken + `)(.*)$`)

// Merge combines two quantities for the same ingredient.
//
// When both sides start with a non-zero number the values are summed and the
// unit of a (or b when a has none) is appended: Merge("100g", "50g") is
// "150g" and Merge("200g", "2個") is "202g". A spoon or cup measure before the
// number counts as part of the unit, so "大さじ2" and "大さじ1" give "大さじ3".
// A blank side yields the other side.
//
// Otherwise the text is kept as "a, b". The textual form follows argument
// order, so it is not commutative in representation.
func Merge(a, b string) string {
	return merge(a, b, false)
}

// Combine is Merge for shopping-list entries. When both sides carry a unit
// and the units differ, the text is kept as "a, b" instead of summed.
func Combine(a, b string) string {
	return merge(a, b, true)
}

func merge(a, b string, sameUnitOnly bool) string {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)

	switch {
	case a == "":
		return b
	case b == "":
		return a
	}

	qa, okA := leadingQuantity(a)
	qb, okB := leadingQuantity(b)
	if !okA || !okB {
		return a + ", " + b
	}

	if sameUnitOnly && qa.hasUnit() && qb.hasUnit() && !qa.sameUnit(qb) {
		return a + ", " + b
	}

	unit := qa
	if !qa.hasUnit() {
		unit = qb
	}

	return unit.measure + FormatQuantity(qa.value+qb.value) + unit.unit
}

type leading struct {
	measure string
	value   float64
	unit    string
}

func (l leading) hasUnit() bool {
	return l.measure != "" || l.unit != ""
}

func (l leading) sameUnit(o leading) bool {
	return l.measure == o.measure && l.unit == o.unit
}

// leadingQuantity extracts the number at the start of s. A missing or zero
// number reports false.
func leadingQuantity(s string) (leading, bool) {
	m := leadingNumberPattern.FindStringSubmatch(s)
	if m == nil {
		return leading{}, false
	}

	v, ok := ParseNumber(m[2])
	if !ok || v == 0 {
		return leading{}, false
	}

	return leading{measure: m[1], value: v, unit: strings.TrimSpace(m[3])}, true
}
