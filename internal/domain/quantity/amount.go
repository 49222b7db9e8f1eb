package quantity

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
)

const amountUnits = `(g|ml|個|本|片|膳分|丁|箱|枚|つ|人分|大さじ|小さじ|カップ)?`

var (
	spacedAmountPattern = regexp.MustCompile(`^(.+?)\s+(` + numberToken + `)` + amountUnits + `(.*)$`)
	colonAmountPattern  = regexp.MustCompile(`^(.+?)[:：]\s*(` + numberToken + `)` + amountUnits + `(.*)$`)
)

// Amount is the numeric part of an ingredient line as shown in adjustment
// forms: "豚肉 200g" has Name "豚肉", Text "200g", Value 200 and Unit "g".
type Amount struct {
	Name  string  `json:"name"`
	Text  string  `json:"amount"`
	Value float64 `json:"quantity"`
	Unit  string  `json:"unit"`
}

// ExtractAmount splits a line into an ingredient name and its amount.
// It accepts "<name>: <qty><unit><rest>", "<name> <qty><unit><rest>" and the
// spoon form "<name>大さじ<qty><rest>".
func ExtractAmount(line string) (Amount, bool) {
	for _, pattern := range []*regexp.Regexp{colonAmountPattern, spacedAmountPattern} {
		m := pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		v, ok := ParseNumber(m[2])
		if !ok {
			continue
		}

		// Trailing text keeps its spacing: "400ml (常温)" stays as written.
		unit := strings.TrimSpace(m[3] + m[4])

		return Amount{
			Name:  strings.TrimSpace(m[1]),
			Text:  strings.TrimSpace(m[2] + m[3] + m[4]),
			Value: v,
			Unit:  unit,
		}, true
	}

	if parsed := Parse(line); parsed.Form == FormLeadingMeasure {
		return Amount{
			Name:  strings.TrimSpace(parsed.Name),
			Text:  parsed.Measure + parsed.Quantity + parsed.Rest,
			Value: parsed.Value,
			Unit:  parsed.Measure + strings.TrimSpace(parsed.Rest),
		}, true
	}

	return Amount{}, false
}

// Adjustment thresholds beyond which a requested change is flagged.
const (
	MaxAdjustmentRatio = 10
	MinAdjustmentRatio = 0.1
)

// ErrInvalidAmount is returned for desired amounts that are not positive numbers.
var ErrInvalidAmount = errors.New("正の数値を入力してください")

// Adjustment is the outcome of checking a requested quantity change.
type Adjustment struct {
	Ratio   float64 `json:"ratio"`
	Warning string  `json:"warning,omitempty"`
}

// CheckAdjustment validates a change from original to desired. Extreme
// changes are allowed but carry a warning for the user to confirm.
func CheckAdjustment(original, desired float64) (Adjustment, error) {
	if math.IsNaN(desired) || desired <= 0 {
		return Adjustment{}, ErrInvalidAmount
	}

	if math.IsNaN(original) || original <= 0 {
		return Adjustment{}, nil
	}

	ratio := desired / original
	adj := Adjustment{Ratio: ratio}

	switch {
	case ratio > MaxAdjustmentRatio:
		adj.Warning = fmt.Sprintf("%s倍の増量は大量になります。本当によろしいですか？", FormatQuantity(math.Round(ratio)))
	case ratio < MinAdjustmentRatio:
		adj.Warning = fmt.Sprintf("%s分の1の減量になります。本当によろしいですか？", FormatQuantity(1/ratio))
	}

	return adj, nil
}
