package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/kondate/internal/adapters/http/dto"
	"github.com/jsamuelsen/kondate/internal/app"
	"github.com/jsamuelsen/kondate/internal/domain"
)

// RecipeHandler serves the recipe catalog.
type RecipeHandler struct {
	service *app.RecipeService
}

// NewRecipeHandler creates a new recipe handler.
func NewRecipeHandler(service *app.RecipeService) *RecipeHandler {
	return &RecipeHandler{service: service}
}

// List handles GET /api/v1/recipes?q=&limit=&cursor=.
func (h *RecipeHandler) List(c *gin.Context) {
	var req dto.RecipeListRequest
	if err := dto.BindQueryAndValidate(c, &req); err != nil {
		dto.HandleError(c, err)
		return
	}

	recipes, err := h.service.List(c.Request.Context(), req.Query)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	items := make([]dto.RecipeResponse, len(recipes))
	for i := range recipes {
		items[i] = dto.NewRecipeResponse(&recipes[i])
	}

	page, err := dto.Paginate(items, req.PaginationRequest, func(r dto.RecipeResponse) string { return r.ID })
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// Get handles GET /api/v1/recipes/:id.
func (h *RecipeHandler) Get(c *gin.Context) {
	recipe, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewRecipeDetailResponse(recipe))
}

// Ingredients handles GET /api/v1/recipes/:id/ingredients?servings=.
func (h *RecipeHandler) Ingredients(c *gin.Context) {
	var req dto.IngredientsRequest
	if err := dto.BindQueryAndValidate(c, &req); err != nil {
		dto.HandleError(c, domain.NewValidationError("servings", "人数は0〜100の整数で指定してください"))
		return
	}

	scaled, err := h.service.Scaled(c.Request.Context(), c.Param("id"), req.Servings)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewScaledRecipeResponse(scaled))
}

// RegisterRoutes registers the recipe routes on rg.
func (h *RecipeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	recipes := rg.Group("/recipes")
	recipes.GET("", h.List)
	recipes.GET("/:id", h.Get)
	recipes.GET("/:id/ingredients", h.Ingredients)
}
