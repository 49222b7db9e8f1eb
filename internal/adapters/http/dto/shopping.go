package dto

import (
	"github.com/jsamuelsen/kondate/internal/app"
	"github.com/jsamuelsen/kondate/internal/domain/ingredient"
	"github.com/jsamuelsen/kondate/internal/domain/shopping"
)

// AddRecipeRequest adds a recipe's ingredients to a list.
// Zero servings means the recipe's own servings.
type AddRecipeRequest struct {
	RecipeID string `json:"recipeId" validate:"required,notempty,max=100"`
	Servings int    `json:"servings" validate:"servings"`
}

// MenuDayRequest is one day of a weekly menu.
type MenuDayRequest struct {
	Day      string `json:"day"      validate:"max=20"`
	RecipeID string `json:"recipeId" validate:"required,notempty,max=100"`
	Servings int    `json:"servings" validate:"servings"`
}

// AddMenuRequest adds every recipe of a menu to a list at once.
type AddMenuRequest struct {
	Days []MenuDayRequest `json:"days" validate:"required,min=1,max=21,dive"`
}

// MenuDays converts the request to service input.
func (r AddMenuRequest) MenuDays() []app.MenuDay {
	days := make([]app.MenuDay, len(r.Days))
	for i, d := range r.Days {
		days[i] = app.MenuDay{Day: d.Day, RecipeID: d.RecipeID, Servings: d.Servings}
	}

	return days
}

// AddItemRequest adds a free item to a list.
type AddItemRequest struct {
	Name     string `json:"name"     validate:"required,notempty,max=100"`
	Quantity string `json:"quantity" validate:"max=100"`
}

// UpdateItemRequest sets an item's checked state. A missing field toggles.
type UpdateItemRequest struct {
	Checked *bool `json:"checked"`
}

// ItemPath addresses one entry of a list.
type ItemPath struct {
	ListID string `uri:"listID" validate:"required,notempty,max=100"`
	ItemID string `uri:"itemID" validate:"required,uuid"`
}

// ClearItemsRequest guards the bulk delete; only checked items may be cleared.
type ClearItemsRequest struct {
	Checked bool `form:"checked" validate:"required"`
}

// ShoppingEntryResponse is one shopping list entry.
type ShoppingEntryResponse struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Quantity      string              `json:"quantity"`
	Category      ingredient.Category `json:"category"`
	Checked       bool                `json:"checked"`
	SourceRecipes []string            `json:"sourceRecipes"`
}

// ShoppingGroupResponse is the entries of one category.
type ShoppingGroupResponse struct {
	Category ingredient.Category     `json:"category"`
	Label    string                  `json:"label"`
	Entries  []ShoppingEntryResponse `json:"entries"`
}

// ShoppingListResponse is a list grouped by category in display order.
type ShoppingListResponse struct {
	ID      string                  `json:"id"`
	Total   int                     `json:"total"`
	Checked int                     `json:"checked"`
	Groups  []ShoppingGroupResponse `json:"groups"`
}

// ClearItemsResponse reports how many checked items were removed.
type ClearItemsResponse struct {
	Removed int `json:"removed"`
}

// NewShoppingEntryResponse converts an entry.
func NewShoppingEntryResponse(e *shopping.Entry) ShoppingEntryResponse {
	return ShoppingEntryResponse{
		ID:            e.ID,
		Name:          e.Name,
		Quantity:      e.Quantity,
		Category:      e.Category,
		Checked:       e.Checked,
		SourceRecipes: nonNil(e.SourceRecipes),
	}
}

// NewShoppingListResponse converts a list. Empty categories are omitted.
func NewShoppingListResponse(l *shopping.List) ShoppingListResponse {
	resp := ShoppingListResponse{ID: l.ID, Groups: []ShoppingGroupResponse{}}

	for _, g := range l.Grouped() {
		group := ShoppingGroupResponse{
			Category: g.Category,
			Label:    g.Category.Label(),
			Entries:  make([]ShoppingEntryResponse, len(g.Entries)),
		}

		for i, e := range g.Entries {
			group.Entries[i] = NewShoppingEntryResponse(e)
			if e.Checked {
				resp.Checked++
			}
		}

		resp.Total += len(g.Entries)
		resp.Groups = append(resp.Groups, group)
	}

	return resp
}
