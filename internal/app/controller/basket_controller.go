package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/oguzk/stockbasket-backend/internal/app/service"
	apperrors "github.com/oguzk/stockbasket-backend/internal/errors"
	"github.com/oguzk/stockbasket-backend/internal/middleware"
)

type BasketController struct {
	basketService service.BasketService
}

func NewBasketController(basketService service.BasketService) *BasketController {
	return &BasketController{
		basketService: basketService,
	}
}

type AddBasketItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// GetBasket returns the caller's active basket with resolved product names
// GET /api/v1/basket
func (ctrl *BasketController) GetBasket(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		log.Warn("Unauthorized access to basket", nil)
		apperrors.Unauthorized(c, "")
		return
	}

	view, err := ctrl.basketService.GetBasket(userID)
	if err != nil {
		if errors.Is(err, service.ErrBasketNotFound) {
			apperrors.NotFound(c, apperrors.BasketNotFound,
				fmt.Sprintf("no basket found for user %d", userID))
			return
		}
		log.Error("Failed to fetch basket", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "failed to fetch basket")
		return
	}

	// An existing basket with zero active items is a success, not an error
	if len(view.Items) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"basket":  view,
			"message": "the basket has no items yet",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"basket": view,
	})
}

// AddItem adds a product to the basket, merging with an existing line
// POST /api/v1/basket/items
func (ctrl *BasketController) AddItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		log.Warn("Unauthorized attempt to add basket item", nil)
		apperrors.Unauthorized(c, "")
		return
	}

	var req AddBasketItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add basket item request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid request data")
		return
	}

	err := ctrl.basketService.AddItem(userID, req.ProductID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidQuantity):
			apperrors.BadRequest(c, apperrors.ValidationInvalidQuantity, "quantity must be a positive integer")
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound,
				fmt.Sprintf("no product found with id %d", req.ProductID))
		case errors.Is(err, service.ErrSubtotalInconsistent):
			apperrors.Conflict(c, apperrors.BasketSubtotalInconsistent, "basket subtotal is inconsistent, item was not added")
		default:
			log.Error("Failed to add basket item", err, map[string]interface{}{
				"user_id":    userID,
				"product_id": req.ProductID,
			})
			apperrors.InternalError(c, "failed to add item to basket")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "item added to basket",
		"product_id": req.ProductID,
		"quantity":   req.Quantity,
	})
}

// RemoveItem soft-deletes a basket line by product id
// DELETE /api/v1/basket/items/:product_id
func (ctrl *BasketController) RemoveItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		log.Warn("Unauthorized attempt to remove basket item", nil)
		apperrors.Unauthorized(c, "")
		return
	}

	idStr := c.Param("product_id")
	productID, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		log.Warn("Invalid product ID format", map[string]interface{}{
			"user_id":    userID,
			"product_id": idStr,
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid product id")
		return
	}

	err = ctrl.basketService.RemoveItem(userID, uint(productID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBasketNotFound):
			apperrors.NotFound(c, apperrors.BasketNotFound,
				fmt.Sprintf("no basket found for user %d", userID))
		case errors.Is(err, service.ErrBasketItemNotFound):
			apperrors.NotFound(c, apperrors.BasketItemNotFound,
				fmt.Sprintf("no active basket item for product %d", productID))
		case errors.Is(err, service.ErrSubtotalInconsistent):
			apperrors.Conflict(c, apperrors.BasketSubtotalInconsistent, "basket subtotal is inconsistent, item was not removed")
		default:
			log.Error("Failed to remove basket item", err, map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
			})
			apperrors.InternalError(c, "failed to remove item from basket")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "item removed from basket",
	})
}
