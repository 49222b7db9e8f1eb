package quantity

import "regexp"

// Form tags the outcome of Parse.
type Form int

const (
	// FormUnmatched means the line has no scalable quantity, e.g. "塩 適量".
	FormUnmatched Form = iota
	// FormTrailingUnit is "<name> <quantity><unit>", e.g. "玉ねぎ 1個".
	FormTrailingUnit
	// FormLeadingMeasure is "<name><measure><quantity><rest>", e.g. "醤油大さじ2".
	FormLeadingMeasure
)

// String implements fmt.Stringer.
func (f Form) String() string {
	switch f {
	case FormTrailingUnit:
		return "trailing-unit"
	case FormLeadingMeasure:
		return "leading-measure"
	default:
		return "unmatched"
	}
}

// Units accepted directly after the quantity in the trailing-unit form.
var Units = []string{"g", "ml", "個", "本", "片", "膳分", "丁", "箱", "枚", "つ", "人分"}

// Measures accepted directly before the quantity in the leading-measure form.
var Measures = []string{"大さじ", "小さじ", "カップ"}

var (
	trailingUnitPattern = regexp.MustCompile(
		`^(.+?)(\s+)(` + numberToken + `)(g|ml|個|本|片|膳分|丁|箱|枚|つ|人分)?$`)
	leadingMeasurePattern = regexp.MustCompile(
		`^(.+?)(大さじ|小さじ|カップ)(` + numberToken + `)(.*)$`)
)

// Line is the tagged result of parsing one ingredient line.
// Fields other than Form and Original are only set for matched forms.
type Line struct {
	Form     Form
	Original string

	Name     string
	Sep      string // whitespace between name and quantity
	Measure  string
	Quantity string // numeric text as it will be rendered
	Value    float64
	Unit     string
	Rest     string
}

// Matched reports whether the line carries a scalable quantity.
func (l Line) Matched() bool {
	return l.Form != FormUnmatched
}

// String re-serializes the line. Name, unit, measure and trailing text are
// kept verbatim; only the quantity text may differ from the original.
func (l Line) String() string {
	switch l.Form {
	case FormTrailingUnit:
		return l.Name + l.Sep + l.Quantity + l.Unit
	case FormLeadingMeasure:
		return l.Name + l.Measure + l.Quantity + l.Rest
	default:
		return l.Original
	}
}

// Scaled returns a copy of the line with its value multiplied by ratio.
// Unmatched lines are returned as is.
func (l Line) Scaled(ratio float64) Line {
	if !l.Matched() {
		return l
	}

	l.Value *= ratio
	l.Quantity = FormatQuantity(l.Value)

	return l
}

// Parse tries the trailing-unit form first and the leading-measure form
// second. A line matching neither, or whose quantity is not a valid number,
// comes back as FormUnmatched with Original set.
func Parse(line string) Line {
	if m := trailingUnitPattern.FindStringSubmatch(line); m != nil {
		if v, ok := ParseNumber(m[3]); ok {
			return Line{
				Form:     FormTrailingUnit,
				Original: line,
				Name:     m[1],
				Sep:      m[2],
				Quantity: m[3],
				Value:    v,
				Unit:     m[4],
			}
		}
	}

	if m := leadingMeasurePattern.FindStringSubmatch(line); m != nil {
		if v, ok := ParseNumber(m[3]); ok {
			return Line{
				Form:     FormLeadingMeasure,
				Original: line,
				Name:     m[1],
				Measure:  m[2],
				Quantity: m[3],
				Value:    v,
				Rest:     m[4],
			}
		}
	}

	return Line{Form: FormUnmatched, Original: line}
}
