package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/kondate/internal/adapters/http/dto"
	"github.com/jsamuelsen/kondate/internal/domain"
	"github.com/jsamuelsen/kondate/internal/domain/ingredient"
	"github.com/jsamuelsen/kondate/internal/domain/quantity"
)

// QuantityHandler exposes the quantity engine and the ingredient categorizer
// for free text that is not in the catalog.
type QuantityHandler struct {
	categorizer *ingredient.Categorizer
}

// NewQuantityHandler creates a QuantityHandler. A nil categorizer uses the
// default rule table.
func NewQuantityHandler(categorizer *ingredient.Categorizer) *QuantityHandler {
	if categorizer == nil {
		categorizer = ingredient.NewDefaultCategorizer()
	}

	return &QuantityHandler{categorizer: categorizer}
}

// Scale handles POST /api/v1/quantities/scale.
func (h *QuantityHandler) Scale(c *gin.Context) {
	var req dto.ScaleRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleError(c, err)
		return
	}

	scaled := quantity.Scale(req.Lines, req.BaseServings, req.TargetServings)

	c.JSON(http.StatusOK, dto.NewScaleResponse(req, scaled))
}

// Merge handles POST /api/v1/quantities/merge.
func (h *QuantityHandler) Merge(c *gin.Context) {
	var req dto.MergeRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MergeResponse{Quantity: quantity.Merge(req.A, req.B)})
}

// Amounts handles POST /api/v1/quantities/amounts. Lines without an editable
// amount are returned with editable=false. A desired value for an ingredient
// is checked against its current amount.
func (h *QuantityHandler) Amounts(c *gin.Context) {
	var req dto.AmountsRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleError(c, err)
		return
	}

	resp := dto.AmountsResponse{Items: make([]dto.AmountItem, len(req.Lines))}

	for i, line := range req.Lines {
		item := dto.AmountItem{Line: line}

		amount, ok := quantity.ExtractAmount(line)
		if ok {
			item.Editable = true
			item.Amount = &amount

			if desired, wanted := req.Desired[amount.Name]; wanted {
				adj, err := quantity.CheckAdjustment(amount.Value, desired)
				if err != nil {
					dto.HandleError(c, domain.NewValidationErrorWithValue("desired."+amount.Name, err.Error(), desired))
					return
				}

				item.Adjustment = &dto.AdjustmentResponse{Desired: desired, Adjustment: adj}
			}
		}

		resp.Items[i] = item
	}

	c.JSON(http.StatusOK, resp)
}

// Categorize handles POST /api/v1/ingredients/categorize.
func (h *QuantityHandler) Categorize(c *gin.Context) {
	var req dto.CategorizeRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleError(c, err)
		return
	}

	resp := dto.CategorizeResponse{Items: make([]dto.CategorizedName, len(req.Names))}
	for i, name := range req.Names {
		resp.Items[i] = dto.NewCategorizedName(name, h.categorizer.Categorize(name))
	}

	c.JSON(http.StatusOK, resp)
}

// RegisterRoutes registers the quantity routes on rg.
func (h *QuantityHandler) RegisterRoutes(rg *gin.RouterGroup) {
	quantities := rg.Group("/quantities")
	quantities.POST("/scale", h.Scale)
	quantities.POST("/merge", h.Merge)
	quantities.POST("/amounts", h.Amounts)

	rg.POST("/ingredients/categorize", h.Categorize)
}
