package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/kondate/internal/adapters/http/dto"
	"github.com/jsamuelsen/kondate/internal/app"
	"github.com/jsamuelsen/kondate/internal/domain"
)

// AdvisorHandler proxies cooking questions to the language model.
type AdvisorHandler struct {
	service *app.AdvisorService
}

// NewAdvisorHandler creates a new advisor handler.
func NewAdvisorHandler(service *app.AdvisorService) *AdvisorHandler {
	return &AdvisorHandler{service: service}
}

// OptimizeIngredients handles POST /api/v1/advisor/optimize-ingredients.
// While the model is down the canned proposal is returned with a note.
func (h *AdvisorHandler) OptimizeIngredients(c *gin.Context) {
	var req dto.OptimizeIngredientsRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleError(c, err)
		return
	}

	result, err := h.service.OptimizeIngredients(c.Request.Context(), req.ToApp())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewOptimizationResponse(result))
}

// CookingChat handles POST /api/v1/advisor/cooking-chat.
func (h *AdvisorHandler) CookingChat(c *gin.Context) {
	var req dto.CookingChatRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleError(c, err)
		return
	}

	reply, err := h.service.CookingChat(c.Request.Context(), req.ToApp())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ChatResponse{Success: true, Response: reply})
}

// SuggestImprovements handles POST /api/v1/advisor/suggest-improvements.
func (h *AdvisorHandler) SuggestImprovements(c *gin.Context) {
	var req dto.SuggestImprovementsRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleError(c, err)
		return
	}

	result, err := h.service.SuggestImprovements(c.Request.Context(), req.ToApp())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AdvisorResponse[*domain.Improvements]{Success: true, Data: result})
}

// RegisterRoutes registers the advisor routes on rg. Extra middleware, such
// as a rate limiter, runs before every advisor handler.
func (h *AdvisorHandler) RegisterRoutes(rg *gin.RouterGroup, middleware ...gin.HandlerFunc) {
	advisor := rg.Group("/advisor", middleware...)
	advisor.POST("/optimize-ingredients", h.OptimizeIngredients)
	advisor.POST("/cooking-chat", h.CookingChat)
	advisor.POST("/suggest-improvements", h.SuggestImprovements)
}
