// Package quantity parses, rescales and merges the free-text Japanese
// ingredient lines used by recipes and shopping lists.
//
// Every function in this package is pure. Input that cannot be understood is
// passed through unchanged instead of being rejected, because recipe text is
// user authored and "塩 適量" must survive any serving change.
package quantity

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

// numberToken matches a quantity as written in a recipe: integers, decimals,
// a/b fractions and the mixed form "1と1/2" this package renders itself.
// Full-width digits are accepted.
const numberToken = `[0-9０-９./．／]+(?:と[0-9０-９]+[/／][0-9０-９]+)?`

// ParseNumber converts a quantity token into a float.
// It reports false for tokens such as "1.2.3", "1/0" or "/".
func ParseNumber(token string) (float64, bool) {
	token = strings.TrimSpace(width.Narrow.String(token))
	if token == "" {
		return 0, false
	}

	if whole, frac, ok := strings.Cut(token, "と"); ok {
		w, okWhole := parseDecimal(whole)
		f, okFrac := parseFraction(frac)
		if !okWhole || !okFrac {
			return 0, false
		}

		return w + f, true
	}

	if strings.Contains(token, "/") {
		return parseFraction(token)
	}

	return parseDecimal(token)
}

func parseFraction(token string) (float64, bool) {
	num, den, ok := strings.Cut(token, "/")
	if !ok || strings.Contains(den, "/") {
		return 0, false
	}

	n, okNum := parseDecimal(num)
	d, okDen := parseDecimal(den)
	if !okNum || !okDen || d == 0 {
		return 0, false
	}

	return n / d, true
}

func parseDecimal(token string) (float64, bool) {
	if token == "" || strings.HasPrefix(token, "+") || strings.HasPrefix(token, "-") {
		return 0, false
	}

	v, err := strconv.ParseFloat(token, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}

	return v, true
}
