package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oguzk/stockbasket-backend/internal/app/model"
	"github.com/oguzk/stockbasket-backend/internal/app/repository"
	"github.com/oguzk/stockbasket-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrBasketNotFound       = errors.New("basket not found")
	ErrBasketItemNotFound   = errors.New("basket item not found")
	ErrInvalidQuantity      = errors.New("quantity must be a positive integer")
	ErrSubtotalInconsistent = errors.New("basket subtotal would become negative")
)

// BasketItemView is a basket line with its product name resolved
type BasketItemView struct {
	ID          uint            `json:"id"`
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// BasketView is the composed read model of a user's active basket
type BasketView struct {
	ID        uint             `json:"id"`
	UserID    uint             `json:"user_id"`
	UserName  string           `json:"user_name"`
	SubTotal  decimal.Decimal  `json:"sub_total"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	Items     []BasketItemView `json:"items"`
}

type BasketService interface {
	GetBasket(userID uint) (*BasketView, error)
	AddItem(userID, productID uint, quantity int) error
	RemoveItem(userID, productID uint) error
	ReconcileSubtotals() (int, error)
}

type basketService struct {
	basketRepo  repository.BasketRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	db          *gorm.DB

	// Mutations on one user's basket are serialized through a per-user
	// mutex so two concurrent adds cannot both miss the existing-item
	// lookup and create duplicate lines. Entries live for the process
	// lifetime, one per user seen.
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewBasketService(
	basketRepo repository.BasketRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	db *gorm.DB,
) BasketService {
	return &basketService{
		basketRepo:  basketRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		db:          db,
		locks:       make(map[uint]*sync.Mutex),
	}
}

func (s *basketService) userLock(userID uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}

func (s *basketService) GetBasket(userID uint) (*BasketView, error) {
	logger.Debug("Fetching basket", map[string]interface{}{
		"user_id": userID,
	})

	basket, err := s.basketRepo.FindActiveByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("No active basket for user", map[string]interface{}{
				"user_id": userID,
			})
			return nil, ErrBasketNotFound
		}
		logger.Error("Failed to fetch basket", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	owner, err := s.userRepo.FindByID(userID)
	if err != nil {
		logger.Error("Failed to resolve basket owner", err, map[string]interface{}{
			"user_id":   userID,
			"basket_id": basket.ID,
		})
		return nil, err
	}

	items, err := s.basketRepo.FindActiveItems(basket.ID)
	if err != nil {
		logger.Error("Failed to fetch basket items", err, map[string]interface{}{
			"user_id":   userID,
			"basket_id": basket.ID,
		})
		return nil, err
	}

	view := &BasketView{
		ID:        basket.ID,
		UserID:    basket.UserID,
		UserName:  owner.Name,
		SubTotal:  basket.SubTotal,
		CreatedAt: basket.CreatedAt,
		UpdatedAt: basket.UpdatedAt,
		Items:     make([]BasketItemView, 0, len(items)),
	}
	for _, item := range items {
		view.Items = append(view.Items, BasketItemView{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.Product.Name,
			Quantity:    item.Quantity,
			TotalPrice:  item.TotalPrice,
			CreatedAt:   item.CreatedAt,
			UpdatedAt:   item.UpdatedAt,
		})
	}

	logger.Info("Basket fetched successfully", map[string]interface{}{
		"user_id":   userID,
		"basket_id": basket.ID,
		"items":     len(view.Items),
		"sub_total": basket.SubTotal.String(),
	})
	return view, nil
}

func (s *basketService) AddItem(userID, productID uint, quantity int) error {
	logger.Info("Adding item to basket", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"quantity":   quantity,
	})

	if quantity <= 0 {
		logger.Warn("Rejected basket add: invalid quantity", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
			"quantity":   quantity,
		})
		return ErrInvalidQuantity
	}

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add to basket: product not found", map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
			})
			return ErrProductNotFound
		}
		logger.Error("Failed to fetch product for basket add", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return err
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during basket add, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"user_id": userID,
			})
		}
	}()

	basket, err := s.findOrCreateBasket(tx, userID)
	if err != nil {
		tx.Rollback()
		return err
	}

	lineTotal := product.Price.Mul(decimal.NewFromInt(int64(quantity)))

	var existing model.BasketItem
	err = tx.Where("basket_id = ? AND product_id = ? AND is_deleted = ?", basket.ID, productID, false).
		First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		// First add of this product. The subtotal is staged before the
		// item so a failed subtotal update never leaves an orphan line;
		// both writes commit together below.
		if err := s.applySubTotalDelta(tx, basket, lineTotal, false); err != nil {
			tx.Rollback()
			logger.Warn("Basket add aborted: subtotal update failed", map[string]interface{}{
				"user_id":   userID,
				"basket_id": basket.ID,
				"delta":     lineTotal.String(),
			})
			return err
		}

		item := &model.BasketItem{
			BasketID:   basket.ID,
			ProductID:  productID,
			Quantity:   quantity,
			TotalPrice: lineTotal,
		}
		if err := tx.Create(item).Error; err != nil {
			tx.Rollback()
			logger.Error("Failed to create basket item", err, map[string]interface{}{
				"user_id":   userID,
				"basket_id": basket.ID,
			})
			return err
		}

	case err != nil:
		tx.Rollback()
		logger.Error("Failed to check existing basket item", err, map[string]interface{}{
			"user_id":    userID,
			"basket_id":  basket.ID,
			"product_id": productID,
		})
		return err

	default:
		// Merge into the existing line. The subtotal moves by the delta
		// only; the merged line total already contains the old amount.
		if err := s.applySubTotalDelta(tx, basket, lineTotal, false); err != nil {
			tx.Rollback()
			logger.Warn("Basket merge aborted: subtotal update failed", map[string]interface{}{
				"user_id":   userID,
				"basket_id": basket.ID,
				"delta":     lineTotal.String(),
			})
			return err
		}

		err = tx.Model(&model.BasketItem{}).
			Where("id = ?", existing.ID).
			Updates(map[string]interface{}{
				"quantity":    existing.Quantity + quantity,
				"total_price": existing.TotalPrice.Add(lineTotal),
			}).Error
		if err != nil {
			tx.Rollback()
			logger.Error("Failed to merge basket item", err, map[string]interface{}{
				"user_id":        userID,
				"basket_item_id": existing.ID,
			})
			return err
		}
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit basket add", err, map[string]interface{}{
			"user_id":   userID,
			"basket_id": basket.ID,
		})
		return err
	}

	logger.Info("Item added to basket successfully", map[string]interface{}{
		"user_id":    userID,
		"basket_id":  basket.ID,
		"product_id": productID,
		"quantity":   quantity,
		"line_total": lineTotal.String(),
	})
	return nil
}

func (s *basketService) RemoveItem(userID, productID uint) error {
	logger.Info("Removing item from basket", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during basket removal, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"user_id": userID,
			})
		}
	}()

	var basket model.Basket
	err := tx.Where("user_id = ? AND is_deleted = ?", userID, false).First(&basket).Error
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot remove item: no active basket", map[string]interface{}{
				"user_id": userID,
			})
			return ErrBasketNotFound
		}
		logger.Error("Failed to fetch basket for removal", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	var item model.BasketItem
	err = tx.Where("basket_id = ? AND product_id = ? AND is_deleted = ?", basket.ID, productID, false).
		First(&item).Error
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot remove item: not in basket", map[string]interface{}{
				"user_id":    userID,
				"basket_id":  basket.ID,
				"product_id": productID,
			})
			return ErrBasketItemNotFound
		}
		logger.Error("Failed to fetch basket item for removal", err, map[string]interface{}{
			"user_id":    userID,
			"basket_id":  basket.ID,
			"product_id": productID,
		})
		return err
	}

	if err := s.applySubTotalDelta(tx, &basket, item.TotalPrice, true); err != nil {
		tx.Rollback()
		logger.Warn("Basket removal aborted: subtotal update failed", map[string]interface{}{
			"user_id":   userID,
			"basket_id": basket.ID,
			"delta":     item.TotalPrice.String(),
		})
		return err
	}

	// Quantity and total stay at their last values on the soft-deleted row
	err = tx.Model(&model.BasketItem{}).
		Where("id = ?", item.ID).
		Update("is_deleted", true).Error
	if err != nil {
		tx.Rollback()
		logger.Error("Failed to soft delete basket item", err, map[string]interface{}{
			"user_id":        userID,
			"basket_item_id": item.ID,
		})
		return err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit basket removal", err, map[string]interface{}{
			"user_id":   userID,
			"basket_id": basket.ID,
		})
		return err
	}

	logger.Info("Item removed from basket successfully", map[string]interface{}{
		"user_id":        userID,
		"basket_id":      basket.ID,
		"product_id":     productID,
		"basket_item_id": item.ID,
		"released":       item.TotalPrice.String(),
	})
	return nil
}

// findOrCreateBasket returns the user's active basket, creating an empty one
// on first use.
func (s *basketService) findOrCreateBasket(tx *gorm.DB, userID uint) (*model.Basket, error) {
	var basket model.Basket
	err := tx.Where("user_id = ? AND is_deleted = ?", userID, false).First(&basket).Error
	if err == nil {
		return &basket, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to fetch basket", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	basket = model.Basket{
		UserID:   userID,
		SubTotal: decimal.Zero,
	}
	if err := tx.Create(&basket).Error; err != nil {
		logger.Error("Failed to create basket", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("Basket created for user", map[string]interface{}{
		"user_id":   userID,
		"basket_id": basket.ID,
	})
	return &basket, nil
}

// applySubTotalDelta stages the basket subtotal change inside the current
// transaction. A delta that would push the subtotal negative means the
// aggregate has drifted from its items and the operation must not commit.
func (s *basketService) applySubTotalDelta(tx *gorm.DB, basket *model.Basket, delta decimal.Decimal, subtract bool) error {
	newSubTotal := basket.SubTotal.Add(delta)
	if subtract {
		newSubTotal = basket.SubTotal.Sub(delta)
	}

	if newSubTotal.IsNegative() {
		logger.Warn("Subtotal update rejected: negative result", map[string]interface{}{
			"basket_id": basket.ID,
			"current":   basket.SubTotal.String(),
			"delta":     delta.String(),
			"subtract":  subtract,
		})
		return ErrSubtotalInconsistent
	}

	err := tx.Model(&model.Basket{}).
		Where("id = ?", basket.ID).
		Update("sub_total", newSubTotal).Error
	if err != nil {
		logger.Error("Failed to update basket subtotal", err, map[string]interface{}{
			"basket_id": basket.ID,
		})
		return err
	}

	basket.SubTotal = newSubTotal
	return nil
}

// ReconcileSubtotals recomputes every active basket's subtotal from its
// active items and repairs any drift. Returns the number of baskets fixed.
func (s *basketService) ReconcileSubtotals() (int, error) {
	logger.Info("Starting basket subtotal reconciliation", nil)

	baskets, err := s.basketRepo.FindAllActiveBaskets()
	if err != nil {
		logger.Error("Failed to list baskets for reconciliation", err)
		return 0, err
	}

	repaired := 0
	for i := range baskets {
		basket := &baskets[i]

		lock := s.userLock(basket.UserID)
		lock.Lock()

		sum, err := s.basketRepo.SumActiveItems(basket.ID)
		if err != nil {
			lock.Unlock()
			return repaired, err
		}

		if sum.Equal(basket.SubTotal) {
			lock.Unlock()
			continue
		}

		logger.Warn("Basket subtotal drift detected", map[string]interface{}{
			"basket_id": basket.ID,
			"user_id":   basket.UserID,
			"stored":    basket.SubTotal.String(),
			"computed":  sum.String(),
		})

		err = s.db.Model(&model.Basket{}).
			Where("id = ?", basket.ID).
			Update("sub_total", sum).Error
		lock.Unlock()
		if err != nil {
			logger.Error("Failed to repair basket subtotal", err, map[string]interface{}{
				"basket_id": basket.ID,
			})
			return repaired, err
		}
		repaired++
	}

	logger.Info("Basket subtotal reconciliation completed", map[string]interface{}{
		"baskets":  len(baskets),
		"repaired": repaired,
	})
	return repaired, nil
}
