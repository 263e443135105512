package repository

import (
	"github.com/oguzk/stockbasket-backend/internal/app/model"
	"github.com/oguzk/stockbasket-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BasketRepository interface {
	CreateBasket(basket *model.Basket) error
	FindActiveByUserID(userID uint) (*model.Basket, error)
	FindActiveItem(basketID, productID uint) (*model.BasketItem, error)
	FindActiveItems(basketID uint) ([]model.BasketItem, error)
	FindAllItems(basketID uint) ([]model.BasketItem, error)
	FindAllActiveBaskets() ([]model.Basket, error)
	SumActiveItems(basketID uint) (decimal.Decimal, error)
}

type basketRepository struct {
	db *gorm.DB
}

func NewBasketRepository(db *gorm.DB) BasketRepository {
	return &basketRepository{db: db}
}

func (r *basketRepository) CreateBasket(basket *model.Basket) error {
	logger.Debug("Creating basket in database", map[string]interface{}{
		"user_id": basket.UserID,
	})

	if err := r.db.Create(basket).Error; err != nil {
		logger.Error("Failed to create basket in database", err, map[string]interface{}{
			"user_id": basket.UserID,
		})
		return err
	}

	logger.Debug("Basket created in database", map[string]interface{}{
		"basket_id": basket.ID,
		"user_id":   basket.UserID,
	})
	return nil
}

func (r *basketRepository) FindActiveByUserID(userID uint) (*model.Basket, error) {
	logger.Debug("Finding active basket by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var basket model.Basket
	err := r.db.Where("user_id = ? AND is_deleted = ?", userID, false).
		First(&basket).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find active basket by user ID in database", err, map[string]interface{}{
				"user_id": userID,
			})
		}
		return nil, err
	}

	return &basket, nil
}

func (r *basketRepository) FindActiveItem(basketID, productID uint) (*model.BasketItem, error) {
	logger.Debug("Finding active basket item in database", map[string]interface{}{
		"basket_id":  basketID,
		"product_id": productID,
	})

	var item model.BasketItem
	err := r.db.Where("basket_id = ? AND product_id = ? AND is_deleted = ?", basketID, productID, false).
		First(&item).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find active basket item in database", err, map[string]interface{}{
				"basket_id":  basketID,
				"product_id": productID,
			})
		}
		return nil, err
	}

	return &item, nil
}

func (r *basketRepository) FindActiveItems(basketID uint) ([]model.BasketItem, error) {
	logger.Debug("Finding active basket items in database", map[string]interface{}{
		"basket_id": basketID,
	})

	var items []model.BasketItem
	err := r.db.Where("basket_id = ? AND is_deleted = ?", basketID, false).
		Preload("Product").
		Order("id").
		Find(&items).Error
	if err != nil {
		logger.Error("Failed to find active basket items in database", err, map[string]interface{}{
			"basket_id": basketID,
		})
		return nil, err
	}

	logger.Debug("Active basket items found in database", map[string]interface{}{
		"basket_id": basketID,
		"count":     len(items),
	})
	return items, nil
}

// FindAllItems returns every item of a basket, soft-deleted rows included.
// Used for audit views and in tests to assert removed rows survive.
func (r *basketRepository) FindAllItems(basketID uint) ([]model.BasketItem, error) {
	logger.Debug("Finding all basket items in database", map[string]interface{}{
		"basket_id": basketID,
	})

	var items []model.BasketItem
	err := r.db.Where("basket_id = ?", basketID).
		Order("id").
		Find(&items).Error
	if err != nil {
		logger.Error("Failed to find all basket items in database", err, map[string]interface{}{
			"basket_id": basketID,
		})
		return nil, err
	}

	return items, nil
}

func (r *basketRepository) FindAllActiveBaskets() ([]model.Basket, error) {
	logger.Debug("Listing active baskets in database", nil)

	var baskets []model.Basket
	if err := r.db.Where("is_deleted = ?", false).Order("id").Find(&baskets).Error; err != nil {
		logger.Error("Failed to list active baskets in database", err)
		return nil, err
	}

	return baskets, nil
}

// SumActiveItems recomputes a basket subtotal from its active items.
// COALESCE covers the empty-basket case where SUM returns NULL.
func (r *basketRepository) SumActiveItems(basketID uint) (decimal.Decimal, error) {
	logger.Debug("Summing active basket items in database", map[string]interface{}{
		"basket_id": basketID,
	})

	var sum decimal.Decimal
	err := r.db.Model(&model.BasketItem{}).
		Where("basket_id = ? AND is_deleted = ?", basketID, false).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&sum).Error
	if err != nil {
		logger.Error("Failed to sum active basket items in database", err, map[string]interface{}{
			"basket_id": basketID,
		})
		return decimal.Zero, err
	}

	return sum, nil
}
