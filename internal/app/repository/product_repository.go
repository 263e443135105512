package repository

import (
	"github.com/oguzk/stockbasket-backend/internal/app/model"
	"github.com/oguzk/stockbasket-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	FindByID(id uint) (*model.Product, error)
	FindBySKU(sku string) (*model.Product, error)
	FindAll(limit, offset int) ([]model.Product, error)
	Update(product *model.Product) error
	Delete(id uint) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"sku":  product.SKU,
		"name": product.Name,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"sku": product.SKU,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
		"sku":        product.SKU,
	})
	return nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	logger.Debug("Finding product by ID in database", map[string]interface{}{
		"product_id": id,
	})

	var product model.Product
	err := r.db.Where("is_deleted = ?", false).First(&product, id).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find product by ID in database", err, map[string]interface{}{
				"product_id": id,
			})
		}
		return nil, err
	}

	return &product, nil
}

func (r *productRepository) FindBySKU(sku string) (*model.Product, error) {
	logger.Debug("Finding product by SKU in database", map[string]interface{}{
		"sku": sku,
	})

	var product model.Product
	err := r.db.Where("sku = ? AND is_deleted = ?", sku, false).First(&product).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find product by SKU in database", err, map[string]interface{}{
				"sku": sku,
			})
		}
		return nil, err
	}

	return &product, nil
}

func (r *productRepository) FindAll(limit, offset int) ([]model.Product, error) {
	logger.Debug("Listing products in database", map[string]interface{}{
		"limit":  limit,
		"offset": offset,
	})

	var products []model.Product
	query := r.db.Where("is_deleted = ?", false).Order("id")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&products).Error; err != nil {
		logger.Error("Failed to list products in database", err, map[string]interface{}{
			"limit":  limit,
			"offset": offset,
		})
		return nil, err
	}

	return products, nil
}

func (r *productRepository) Update(product *model.Product) error {
	logger.Debug("Updating product in database", map[string]interface{}{
		"product_id": product.ID,
	})

	if err := r.db.Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

func (r *productRepository) Delete(id uint) error {
	logger.Debug("Soft deleting product in database", map[string]interface{}{
		"product_id": id,
	})

	err := r.db.Model(&model.Product{}).
		Where("id = ?", id).
		Update("is_deleted", true).Error
	if err != nil {
		logger.Error("Failed to soft delete product in database", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}
	return nil
}
