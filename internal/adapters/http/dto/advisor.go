package dto

import (
	"github.com/jsamuelsen/kondate/internal/app"
	"github.com/jsamuelsen/kondate/internal/domain"
)

// RecipeDraftRequest is a recipe as the client currently shows it.
// Business rules on the draft are enforced by the advisor.
type RecipeDraftRequest struct {
	Name         string   `json:"name"         validate:"max=200"`
	Ingredients  []string `json:"ingredients"  validate:"max=200,dive,max=200"`
	Instructions []string `json:"instructions" validate:"max=100,dive,max=1000"`
	CookingTime  string   `json:"cookingTime"  validate:"max=50"`
	Difficulty   string   `json:"difficulty"   validate:"max=50"`
}

// Draft converts the request to the domain draft.
func (r RecipeDraftRequest) Draft() domain.RecipeDraft {
	return domain.RecipeDraft{
		Name:         r.Name,
		Ingredients:  r.Ingredients,
		Instructions: r.Instructions,
		CookingTime:  r.CookingTime,
		Difficulty:   r.Difficulty,
	}
}

// QuantityChangeRequest is one ingredient to re-balance.
type QuantityChangeRequest struct {
	Ingredient    string `json:"ingredient"    validate:"max=100"`
	CurrentAmount string `json:"currentAmount" validate:"max=100"`
	DesiredAmount string `json:"desiredAmount" validate:"max=100"`
}

// OptimizeIngredientsRequest asks the advisor to re-balance a recipe.
type OptimizeIngredientsRequest struct {
	Recipe                RecipeDraftRequest      `json:"recipe"`
	IngredientsToOptimize []QuantityChangeRequest `json:"ingredientsToOptimize" validate:"max=50,dive"`
}

// ToApp converts the request to service input.
func (r OptimizeIngredientsRequest) ToApp() app.OptimizeRequest {
	changes := make([]domain.QuantityChange, len(r.IngredientsToOptimize))
	for i, c := range r.IngredientsToOptimize {
		changes[i] = domain.QuantityChange{
			Ingredient:    c.Ingredient,
			CurrentAmount: c.CurrentAmount,
			DesiredAmount: c.DesiredAmount,
		}
	}

	return app.OptimizeRequest{Recipe: r.Recipe.Draft(), Changes: changes}
}

// ChatMessageRequest is one earlier turn of the conversation.
type ChatMessageRequest struct {
	Role    string `json:"role"    validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"max=4000"`
}

// CookingChatRequest is a question to the cooking advisor.
type CookingChatRequest struct {
	Message       string               `json:"message"       validate:"required,notempty,max=2000"`
	CurrentRecipe *RecipeDraftRequest  `json:"currentRecipe"`
	ChatHistory   []ChatMessageRequest `json:"chatHistory"   validate:"max=100,dive"`
}

// ToApp converts the request to service input.
func (r CookingChatRequest) ToApp() app.ChatRequest {
	req := app.ChatRequest{Message: r.Message}

	if r.CurrentRecipe != nil {
		draft := r.CurrentRecipe.Draft()
		req.Recipe = &draft
	}

	for _, m := range r.ChatHistory {
		req.History = append(req.History, domain.Message{Role: domain.Role(m.Role), Content: m.Content})
	}

	return req
}

// SuggestImprovementsRequest asks for improvement ideas for a recipe.
type SuggestImprovementsRequest struct {
	Recipe          RecipeDraftRequest `json:"recipe"`
	UserPreferences map[string]string  `json:"userPreferences" validate:"max=20"`
}

// ToApp converts the request to service input.
func (r SuggestImprovementsRequest) ToApp() app.ImprovementsRequest {
	return app.ImprovementsRequest{Recipe: r.Recipe.Draft(), Preferences: r.UserPreferences}
}

// AdvisorResponse wraps advisor results. Note is set when the result is a
// canned fallback instead of a model answer.
type AdvisorResponse[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Note    string `json:"note,omitempty"`
}

// ChatResponse is the advisor's reply.
type ChatResponse struct {
	Success  bool   `json:"success"`
	Response string `json:"response"`
}

// NewOptimizationResponse wraps an optimization, surfacing its fallback note.
func NewOptimizationResponse(o *domain.Optimization) AdvisorResponse[*domain.Optimization] {
	return AdvisorResponse[*domain.Optimization]{Success: true, Data: o, Note: o.Note}
}
