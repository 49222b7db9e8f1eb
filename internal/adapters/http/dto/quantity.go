package dto

import (
	"github.com/jsamuelsen/kondate/internal/domain"
	"github.com/jsamuelsen/kondate/internal/domain/ingredient"
	"github.com/jsamuelsen/kondate/internal/domain/quantity"
)

// ScaleRequest scales free ingredient lines between serving counts.
type ScaleRequest struct {
	Lines          []string `json:"lines"          validate:"required,min=1,max=200,dive,max=200"`
	BaseServings   int      `json:"baseServings"   validate:"required,servings"`
	TargetServings int      `json:"targetServings" validate:"required,servings"`
}

// ScaledLine is one input line with its scaled rendering.
type ScaledLine struct {
	Original string `json:"original"`
	Scaled   string `json:"scaled"`
	Scalable bool   `json:"scalable"`
}

// ScaleResponse is the result of a scale request.
type ScaleResponse struct {
	Ratio float64      `json:"ratio"`
	Lines []ScaledLine `json:"lines"`
}

// NewScaleResponse pairs every input line with its scaled form.
func NewScaleResponse(req ScaleRequest, scaled []string) ScaleResponse {
	ratio, _ := quantity.Ratio(req.BaseServings, req.TargetServings)

	lines := make([]ScaledLine, len(req.Lines))
	for i, line := range req.Lines {
		lines[i] = ScaledLine{
			Original: line,
			Scaled:   scaled[i],
			Scalable: quantity.Parse(line).Matched(),
		}
	}

	return ScaleResponse{Ratio: ratio, Lines: lines}
}

// MergeRequest combines two quantity texts of the same ingredient.
type MergeRequest struct {
	A string `json:"a" validate:"max=100"`
	B string `json:"b" validate:"max=100"`
}

// Validate requires at least one side.
func (r MergeRequest) Validate() error {
	if r.A == "" && r.B == "" {
		return domain.NewValidationError("a", "数量を1つ以上指定してください")
	}

	return nil
}

// MergeResponse is the merged quantity text.
type MergeResponse struct {
	Quantity string `json:"quantity"`
}

// AmountsRequest asks for the editable amount of each line and, optionally,
// checks desired values keyed by ingredient name.
type AmountsRequest struct {
	Lines   []string           `json:"lines"   validate:"required,min=1,max=200,dive,max=200"`
	Desired map[string]float64 `json:"desired" validate:"omitempty,max=200"`
}

// AdjustmentResponse reports a checked desired amount.
type AdjustmentResponse struct {
	Desired float64 `json:"desired"`
	quantity.Adjustment
}

// AmountItem is the amount extracted from one line.
type AmountItem struct {
	Line       string              `json:"line"`
	Editable   bool                `json:"editable"`
	Amount     *quantity.Amount    `json:"amount,omitempty"`
	Adjustment *AdjustmentResponse `json:"adjustment,omitempty"`
}

// AmountsResponse lists one item per requested line.
type AmountsResponse struct {
	Items []AmountItem `json:"items"`
}

// CategorizeRequest categorizes ingredient names.
type CategorizeRequest struct {
	Names []string `json:"names" validate:"required,min=1,max=200,dive,notempty,max=100"`
}

// CategorizedName is one categorized ingredient name.
type CategorizedName struct {
	Name     string              `json:"name"`
	Category ingredient.Category `json:"category"`
	Label    string              `json:"label"`
}

// CategorizeResponse lists the category of every requested name.
type CategorizeResponse struct {
	Items []CategorizedName `json:"items"`
}

// NewCategorizedName builds the response item for name.
func NewCategorizedName(name string, c ingredient.Category) CategorizedName {
	return CategorizedName{Name: name, Category: c, Label: c.Label()}
}
