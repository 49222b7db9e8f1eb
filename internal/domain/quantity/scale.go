package quantity

import "slices"

// Ratio returns target/base and false when either serving count is not positive.
func Ratio(baseServings, targetServings int) (float64, bool) {
	if baseServings <= 0 || targetServings <= 0 {
		return 0, false
	}

	return float64(targetServings) / float64(baseServings), true
}

// ScaleLine rescales a single ingredient line by ratio.
// Lines without a parseable quantity are returned unchanged.
func ScaleLine(line string, ratio float64) string {
	parsed := Parse(line)
	if !parsed.Matched() {
		return line
	}

	return parsed.Scaled(ratio).String()
}

// Scale rescales every line from baseServings to targetServings.
//
// When the counts are equal no parsing happens and a copy of the input is
// returned, so repeated rendering at the base serving never drifts. Callers
// must always pass the recipe's declared base; scaling an already scaled list
// compounds the ratio. Non-positive counts also return the input unchanged.
func Scale(lines []string, baseServings, targetServings int) []string {
	if baseServings == targetServings {
		return slices.Clone(lines)
	}

	ratio, ok := Ratio(baseServings, targetServings)
	if !ok {
		return slices.Clone(lines)
	}

	scaled := make([]string, len(lines))
	for i, line := range lines {
		scaled[i] = ScaleLine(line, ratio)
	}

	return scaled
}
