package quantity

import (
	"math"
	"strconv"
)

// snapTolerance absorbs float error from ratios such as 3 * (1/3).
const snapTolerance = 1e-9

// snapTable lists the values rendered as kitchen fractions. Anything else is
// shown as a decimal with one fractional digit at most.
var snapTable = []struct {
	value float64
	text  string
}{
	{0.25, "1/4"},
	{0.5, "1/2"},
	{0.75, "3/4"},
	{1, "1"},
	{1.5, "1と1/2"},
	{2, "2"},
}

// FormatQuantity renders a scaled value for display.
//
// A value that already equals a snap entry is rendered as that fraction.
// Otherwise it is rounded with round(v*10)/10 and checked against the snap
// table again, so 0.49 becomes "1/2" and 0.33 becomes "0.3".
func FormatQuantity(v float64) string {
	if text, ok := snap(v); ok {
		return text
	}

	rounded := math.Round(v*10) / 10
	if text, ok := snap(rounded); ok {
		return text
	}

	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

func snap(v float64) (string, bool) {
	for _, s := range snapTable {
		if math.Abs(v-s.value) < snapTolerance {
			return s.text, true
		}
	}

	return "", false
}
