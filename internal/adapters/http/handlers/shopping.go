package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/kondate/internal/adapters/http/dto"
	"github.com/jsamuelsen/kondate/internal/app"
)

// ShoppingHandler serves shopping lists.
type ShoppingHandler struct {
	service *app.ShoppingService
}

// NewShoppingHandler creates a new shopping list handler.
func NewShoppingHandler(service *app.ShoppingService) *ShoppingHandler {
	return &ShoppingHandler{service: service}
}

// Get handles GET /api/v1/shopping-lists/:listID.
func (h *ShoppingHandler) Get(c *gin.Context) {
	list, err := h.service.Get(c.Request.Context(), c.Param("listID"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewShoppingListResponse(list))
}

// AddRecipe handles POST /api/v1/shopping-lists/:listID/recipes.
func (h *ShoppingHandler) AddRecipe(c *gin.Context) {
	var req dto.AddRecipeRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleError(c, err)
		return
	}

	list, err := h.service.AddRecipe(c.Request.Context(), c.Param("listID"), req.RecipeID, req.Servings)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewShoppingListResponse(list))
}

// AddMenu handles POST /api/v1/shopping-lists/:listID/menu.
func (h *ShoppingHandler) AddMenu(c *gin.Context) {
	var req dto.AddMenuRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleError(c, err)
		return
	}

	list, err := h.service.AddMenu(c.Request.Context(), c.Param("listID"), req.MenuDays())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewShoppingListResponse(list))
}

// AddItem handles POST /api/v1/shopping-lists/:listID/items.
func (h *ShoppingHandler) AddItem(c *gin.Context) {
	var req dto.AddItemRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleError(c, err)
		return
	}

	entry, err := h.service.AddItem(c.Request.Context(), c.Param("listID"), req.Name, req.Quantity)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewShoppingEntryResponse(entry))
}

// UpdateItem handles PATCH /api/v1/shopping-lists/:listID/items/:itemID.
// An empty body toggles the item.
func (h *ShoppingHandler) UpdateItem(c *gin.Context) {
	var path dto.ItemPath
	if err := dto.BindURIAndValidate(c, &path); err != nil {
		dto.HandleError(c, err)
		return
	}

	var req dto.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		dto.HandleError(c, errors.Join(dto.ErrBinding, err))
		return
	}

	entry, err := h.service.SetChecked(c.Request.Context(), path.ListID, path.ItemID, req.Checked)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewShoppingEntryResponse(entry))
}

// RemoveItem handles DELETE /api/v1/shopping-lists/:listID/items/:itemID.
func (h *ShoppingHandler) RemoveItem(c *gin.Context) {
	var path dto.ItemPath
	if err := dto.BindURIAndValidate(c, &path); err != nil {
		dto.HandleError(c, err)
		return
	}

	if err := h.service.RemoveItem(c.Request.Context(), path.ListID, path.ItemID); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ClearChecked handles DELETE /api/v1/shopping-lists/:listID/items?checked=true.
func (h *ShoppingHandler) ClearChecked(c *gin.Context) {
	var req dto.ClearItemsRequest
	if err := dto.BindQueryAndValidate(c, &req); err != nil {
		dto.RespondWithErrorCode(c, dto.ErrorCodeBadRequest, "チェック済みの項目のみ一括削除できます (checked=true)")
		return
	}

	removed, err := h.service.ClearChecked(c.Request.Context(), c.Param("listID"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ClearItemsResponse{Removed: removed})
}

// RegisterRoutes registers the shopping list routes on rg.
func (h *ShoppingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	lists := rg.Group("/shopping-lists/:listID")
	lists.GET("", h.Get)
	lists.POST("/recipes", h.AddRecipe)
	lists.POST("/menu", h.AddMenu)
	lists.POST("/items", h.AddItem)
	lists.DELETE("/items", h.ClearChecked)
	lists.PATCH("/items/:itemID", h.UpdateItem)
	lists.DELETE("/items/:itemID", h.RemoveItem)
}
