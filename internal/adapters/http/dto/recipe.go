package dto

import (
	"github.com/jsamuelsen/kondate/internal/app"
	"github.com/jsamuelsen/kondate/internal/domain"
	"github.com/jsamuelsen/kondate/internal/domain/ingredient"
)

// RecipeListRequest filters and pages the catalog.
type RecipeListRequest struct {
	PaginationRequest

	Query string `form:"q" validate:"max=100"`
}

// IngredientsRequest selects the serving count of a recipe's ingredients.
// Zero means the recipe's own servings.
type IngredientsRequest struct {
	Servings int `form:"servings" validate:"servings"`
}

// RecipeResponse is a catalog recipe.
type RecipeResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	Servings     int      `json:"servings"`
	CookingTime  string   `json:"cookingTime"`
	Difficulty   string   `json:"difficulty"`
	Image        string   `json:"image,omitempty"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	Tags         []string `json:"tags"`
}

// StepResponse is an instruction with its timer, when it names one.
type StepResponse struct {
	Text         string `json:"text"`
	TimerSeconds int    `json:"timerSeconds,omitempty"`
}

// RecipeDetailResponse is a recipe with step timers.
type RecipeDetailResponse struct {
	RecipeResponse

	Steps []StepResponse `json:"steps"`
}

// IngredientResponse is one ingredient line prepared for display.
type IngredientResponse struct {
	Line     string              `json:"line"`
	Name     string              `json:"name"`
	Amount   string              `json:"amount"`
	Category ingredient.Category `json:"category"`
	Label    string              `json:"label"`
	Scalable bool                `json:"scalable"`
}

// ScaledRecipeResponse is a recipe's ingredients for a serving count.
type ScaledRecipeResponse struct {
	RecipeID     string               `json:"recipeId"`
	BaseServings int                  `json:"baseServings"`
	Servings     int                  `json:"servings"`
	Ratio        float64              `json:"ratio"`
	Ingredients  []IngredientResponse `json:"ingredients"`
	Steps        []StepResponse       `json:"steps"`
}

// NewRecipeResponse converts a domain recipe.
func NewRecipeResponse(r *domain.Recipe) RecipeResponse {
	return RecipeResponse{
		ID:           r.ID,
		Name:         r.Name,
		Description:  r.Description,
		Category:     r.Category,
		Servings:     r.Servings,
		CookingTime:  r.CookingTime,
		Difficulty:   r.Difficulty,
		Image:        r.Image,
		Ingredients:  nonNil(r.Ingredients),
		Instructions: nonNil(r.Instructions),
		Tags:         nonNil(r.Tags),
	}
}

// NewRecipeDetailResponse converts a domain recipe and derives step timers.
func NewRecipeDetailResponse(r *domain.Recipe) RecipeDetailResponse {
	steps := make([]StepResponse, len(r.Instructions))
	for i, text := range r.Instructions {
		steps[i] = StepResponse{Text: text}
		if d, ok := domain.StepDuration(text); ok {
			steps[i].TimerSeconds = int(d.Seconds())
		}
	}

	return RecipeDetailResponse{RecipeResponse: NewRecipeResponse(r), Steps: steps}
}

// NewIngredientResponses converts described ingredient lines.
func NewIngredientResponses(lines []app.ScaledIngredient) []IngredientResponse {
	out := make([]IngredientResponse, len(lines))
	for i, l := range lines {
		out[i] = IngredientResponse{
			Line:     l.Line,
			Name:     l.Name,
			Amount:   l.Amount,
			Category: l.Category,
			Label:    l.Category.Label(),
			Scalable: l.Scalable,
		}
	}

	return out
}

// NewScaledRecipeResponse converts a scaled recipe.
func NewScaledRecipeResponse(s *app.ScaledRecipe) ScaledRecipeResponse {
	steps := make([]StepResponse, len(s.Steps))
	for i, st := range s.Steps {
		steps[i] = StepResponse{Text: st.Text, TimerSeconds: int(st.Timer.Seconds())}
	}

	return ScaledRecipeResponse{
		RecipeID:     s.Recipe.ID,
		BaseServings: s.Recipe.Servings,
		Servings:     s.Servings,
		Ratio:        s.Ratio,
		Ingredients:  NewIngredientResponses(s.Ingredients),
		Steps:        steps,
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}

	return s
}
