package domain

// Role identifies the author of a chat turn.
type Role string

// Chat roles understood by every language model adapter.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a conversation with the language model.
type Message struct {
	Role    Role
	Content string
}

// Prompt is a provider-neutral completion request.
// Zero-valued sampling fields are replaced by adapter defaults.
type Prompt struct {
	System      string
	Messages    []Message
	Temperature float64
	TopP        float64
	MaxTokens   int
}

// WithDefaults fills zero sampling fields from the given provider defaults.
func (p Prompt) WithDefaults(temperature, topP float64, maxTokens int) Prompt {
	if p.Temperature == 0 {
		p.Temperature = temperature
	}

	if p.TopP == 0 {
		p.TopP = topP
	}

	if p.MaxTokens == 0 {
		p.MaxTokens = maxTokens
	}

	return p
}

// RecipeDraft is the part of a recipe the advisor reasons about. It may come
// from the catalog or straight from a client.
type RecipeDraft struct {
	Name         string
	Ingredients  []string
	Instructions []string
	CookingTime  string
	Difficulty   string
}

// DraftOf converts a catalog recipe into a draft.
func DraftOf(r Recipe) RecipeDraft {
	return RecipeDraft{
		Name:         r.Name,
		Ingredients:  r.Ingredients,
		Instructions: r.Instructions,
		CookingTime:  r.CookingTime,
		Difficulty:   r.Difficulty,
	}
}

// QuantityChange is one ingredient the user wants at a different amount.
type QuantityChange struct {
	Ingredient    string
	CurrentAmount string
	DesiredAmount string
}

// AdjustedIngredient is one line of the model's rebalancing proposal.
type AdjustedIngredient struct {
	Ingredient     string `json:"ingredient"`
	OriginalAmount string `json:"originalAmount"`
	AdjustedAmount string `json:"adjustedAmount"`
	Reason         string `json:"reason"`
}

// Optimization is the rebalanced recipe proposal.
// Fallback is set when the model could not be reached and Note explains why.
type Optimization struct {
	AdjustedIngredients []AdjustedIngredient `json:"adjustedIngredients"`
	CookingTips         []string             `json:"cookingTips"`
	Summary             string               `json:"summary"`
	Fallback            bool                 `json:"-"`
	Note                string               `json:"-"`
}

// IngredientAlternative proposes a substitute ingredient.
type IngredientAlternative struct {
	Original    string `json:"original"`
	Alternative string `json:"alternative"`
	Benefit     string `json:"benefit"`
}

// Improvements is the model's review of a recipe.
type Improvements struct {
	NutritionImprovements  []string                `json:"nutritionImprovements"`
	CookingTips            []string                `json:"cookingTips"`
	IngredientAlternatives []IngredientAlternative `json:"ingredientAlternatives"`
	TimeOptimization       []string                `json:"timeOptimization"`
	FlavorEnhancements     []string                `json:"flavorEnhancements"`
}
