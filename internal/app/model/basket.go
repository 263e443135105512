package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Basket is the per-user cart aggregate. SubTotal must equal the sum of
// TotalPrice over its non-deleted items after every committed mutation.
type Basket struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	UserID    uint            `gorm:"not null;index" json:"user_id"`
	SubTotal  decimal.Decimal `gorm:"type:decimal(16,2);not null;default:0" json:"sub_total"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	IsDeleted bool            `gorm:"not null;default:false;index" json:"-"`

	// Relationships
	User  User         `gorm:"foreignKey:UserID" json:"-"`
	Items []BasketItem `gorm:"foreignKey:BasketID" json:"items,omitempty"`
}

func (Basket) TableName() string {
	return "baskets"
}

// BasketItem holds one product's quantity inside a basket. TotalPrice is the
// quantity times the catalog unit price at the last write, not re-priced when
// the catalog changes afterwards. Removed items keep their last quantity and
// total for audit; IsDeleted is a plain column (not gorm.DeletedAt) so those
// rows stay reachable through ordinary queries.
type BasketItem struct {
	ID         uint            `gorm:"primarykey" json:"id"`
	BasketID   uint            `gorm:"not null;index:idx_basket_product" json:"basket_id"`
	ProductID  uint            `gorm:"not null;index:idx_basket_product" json:"product_id"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"total_price"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	IsDeleted  bool            `gorm:"not null;default:false;index" json:"is_deleted"`

	// Relationships
	Basket  Basket  `gorm:"foreignKey:BasketID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (BasketItem) TableName() string {
	return "basket_items"
}
